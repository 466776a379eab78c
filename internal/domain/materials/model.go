package materials

import "math"

// SteelDensity is mild steel density in kg/m³.
const SteelDensity = 7850.0

// DefaultLengthMetres is the standard mill length assumed when none is given.
const DefaultLengthMetres = 6.0

type Sheet struct {
	Length    float64 `json:"length"`
	Width     float64 `json:"width"`
	Thickness float64 `json:"thickness"`
	Density   float64 `json:"density"`
}

// Weight of one sheet in kg.
func (s Sheet) Weight() float64 { return s.Length * s.Width * s.Thickness * s.Density }

// Entry is one catalogue section: either linear (KgPerMetre) or a sheet.
type Entry struct {
	Name       string  `json:"name"`
	KgPerMetre float64 `json:"kg_per_metre,omitempty"`
	Sheet      *Sheet  `json:"sheet,omitempty"`
}

func (e Entry) IsSheet() bool { return e.Sheet != nil }

func (e Entry) valid() bool {
	if e.Sheet != nil {
		s := *e.Sheet
		return positive(s.Length) && positive(s.Width) && positive(s.Thickness) && positive(s.Density)
	}
	return positive(e.KgPerMetre)
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v) }
