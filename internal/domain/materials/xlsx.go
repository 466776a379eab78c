package materials

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
)

var ErrNoRows = errors.New("materials: sheet has no data rows")

// Rate sheet layout: header row, then family | rate_per_kg | keywords.
var rateHeader = []interface{}{"family", "rate_per_kg", "keywords"}

// Section sheet layout: header row, then
// name | kg_per_metre | sheet_length_m | sheet_width_m | sheet_thickness_m | density.
var sectionHeader = []interface{}{"name", "kg_per_metre", "sheet_length_m", "sheet_width_m", "sheet_thickness_m", "density"}

// ReadRateRules parses family rules from the active sheet of an .xlsx workbook.
// Keywords are optional and separated by spaces or commas.
func ReadRateRules(r io.Reader) ([]RateRule, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	var out []RateRule
	for i, row := range rows {
		if len(row) < 2 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		rate, err := parseCell(row[1])
		if err != nil || !positive(rate) {
			return nil, fmt.Errorf("row %d: invalid rate %q", i+2, row[1])
		}
		rule := RateRule{Family: strings.ToLower(strings.TrimSpace(row[0])), Rate: rate}
		if len(row) > 2 {
			rule.Keywords = keywordFields(row[2])
		}
		out = append(out, rule)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// ReadRateSheet parses the same layout as ReadRateRules but keeps only the
// family rates.
func ReadRateSheet(r io.Reader) (map[string]float64, error) {
	rules, err := ReadRateRules(r)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64, len(rules))
	for _, rule := range rules {
		out[rule.Family] = rule.Rate
	}
	return out, nil
}

func keywordFields(s string) []string {
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(s), func(r rune) bool { return r == ',' || r == ';' || unicode.IsSpace(r) }) {
		if !slices.Contains(out, f) {
			out = append(out, f)
		}
	}
	return out
}

// WriteRateSheet exports the rate table in the layout ReadRateSheet accepts.
func WriteRateSheet(w io.Writer, rt RateTable) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	if err := f.SetSheetRow(sheet, "A1", &rateHeader); err != nil {
		return fmt.Errorf("header: %w", err)
	}
	for i, rule := range rt.Rates() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{rule.Family, rule.Rate, strings.Join(rule.Keywords, " ")}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	_, err := f.WriteTo(w)
	return err
}

// ReadSectionSheet parses extra catalogue sections. A row with kg_per_metre is linear;
// otherwise the sheet dimension columns are required.
func ReadSectionSheet(r io.Reader) ([]Entry, error) {
	rows, err := readRows(r)
	if err != nil {
		return nil, err
	}
	var out []Entry
	for i, row := range rows {
		if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
			continue
		}
		e := Entry{Name: strings.TrimSpace(row[0])}
		if len(row) > 1 && strings.TrimSpace(row[1]) != "" {
			if e.KgPerMetre, err = parseCell(row[1]); err != nil {
				return nil, fmt.Errorf("row %d: kg_per_metre: %w", i+2, err)
			}
		} else {
			if len(row) < 5 {
				return nil, fmt.Errorf("row %d: need kg_per_metre or sheet dimensions", i+2)
			}
			var s Sheet
			for j, dst := range []*float64{&s.Length, &s.Width, &s.Thickness} {
				if *dst, err = parseCell(row[2+j]); err != nil {
					return nil, fmt.Errorf("row %d: %s: %w", i+2, sectionHeader[2+j], err)
				}
			}
			s.Density = SteelDensity
			if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
				if s.Density, err = parseCell(row[5]); err != nil {
					return nil, fmt.Errorf("row %d: density: %w", i+2, err)
				}
			}
			e.Sheet = &s
		}
		if !e.valid() {
			return nil, fmt.Errorf("row %d: section %q has non-positive dimensions", i+2, e.Name)
		}
		out = append(out, e)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// readRows returns the data rows (header skipped) of the active sheet.
func readRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(f.GetSheetName(f.GetActiveSheetIndex()))
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}
	return rows[1:], nil
}

func parseCell(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "₹"))
	return strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
}
