package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Spok95/quote-bot/internal/domain/quotation"
)

var ErrNoJSON = errors.New("llm: no JSON object in response")

type draftJSON struct {
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address"`
	CustomerTaxID   string     `json:"customer_gstin"`
	Items           []itemJSON `json:"items"`
	GSTPercent      *float64   `json:"gst_percent"`
	Transport       string     `json:"transport"`
	Loading         string     `json:"loading"`
	Payment         string     `json:"payment"`
	Delivery        string     `json:"delivery"`
	Validity        string     `json:"validity"`
}

type itemJSON struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Unit        string   `json:"unit"`
	Rate        *float64 `json:"rate"`
}

// ParseDraft reads the model's JSON into a draft. Quantities go through the
// same unit normalization as locally parsed items.
func ParseDraft(raw string) (*quotation.Draft, error) {
	body, err := jsonObject(raw)
	if err != nil {
		return nil, err
	}
	var in draftJSON
	if err := json.Unmarshal([]byte(body), &in); err != nil {
		return nil, fmt.Errorf("llm: decode draft: %w", err)
	}

	d := quotation.NewDraft()
	d.CustomerName = strings.TrimSpace(in.CustomerName)
	d.CustomerAddress = strings.TrimSpace(in.CustomerAddress)
	d.CustomerTaxID = strings.TrimSpace(in.CustomerTaxID)
	if in.GSTPercent != nil {
		d.GSTPercent = quotation.CoerceGST(*in.GSTPercent, true)
	}
	for _, f := range []struct {
		dst *string
		src string
	}{
		{&d.Transport, in.Transport},
		{&d.Loading, in.Loading},
		{&d.Payment, in.Payment},
		{&d.Delivery, in.Delivery},
		{&d.Validity, in.Validity},
	} {
		if v := strings.TrimSpace(f.src); v != "" {
			*f.dst = v
		}
	}
	for _, it := range in.Items {
		desc := strings.TrimSpace(it.Description)
		if desc == "" || !(it.Quantity > 0) {
			continue
		}
		li := quotation.LineItem{Description: desc}
		li.Quantity, li.Unit = quotation.NormalizeQuantity(it.Quantity, it.Unit)
		if it.Rate != nil && *it.Rate > 0 {
			li.Rate = quotation.Rate(*it.Rate)
		}
		d.Items = append(d.Items, li)
	}
	d.Refresh()
	return &d, nil
}

// jsonObject strips code fences and surrounding chatter.
func jsonObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end < start {
		return "", ErrNoJSON
	}
	return s[start : end+1], nil
}
