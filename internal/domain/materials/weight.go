package materials

// ComputeWeight returns the total weight in kg of quantity pieces of the described
// section: quantity × lengthMetres × kg/m for linear sections and quantity × sheet
// weight for sheets, which ignore lengthMetres. The product is not rounded and no
// length is assumed; callers apply DefaultLengthMetres when the length is absent.
// ok is false only when the section is unknown.
func (t *Table) ComputeWeight(description string, quantity, lengthMetres float64) (kg float64, ok bool) {
	e, found := t.Lookup(description)
	if !found {
		return 0, false
	}
	if e.Sheet != nil {
		return quantity * e.Sheet.Weight(), true
	}
	return quantity * lengthMetres * e.KgPerMetre, true
}
