package materials

// defaultSections is the built-in steel section catalogue: linear sections in kg per metre,
// sheets as plate dimensions in metres with density in kg/m³.
var defaultSections = []Entry{
	{Name: "ISMB 100", KgPerMetre: 11.5},
	{Name: "ISMB 125", KgPerMetre: 13.7},
	{Name: "ISMB 150", KgPerMetre: 23.0},
	{Name: "ISMB 175", KgPerMetre: 25.4},
	{Name: "ISMB 200", KgPerMetre: 33.9},
	{Name: "ISMB 225", KgPerMetre: 38.3},
	{Name: "ISMB 250", KgPerMetre: 42.9},
	{Name: "ISMB 300", KgPerMetre: 57.2},
	{Name: "ISMB 350", KgPerMetre: 72.4},
	{Name: "ISMB 400", KgPerMetre: 89.3},
	{Name: "ISMB 450", KgPerMetre: 108.2},
	{Name: "ISMB 500", KgPerMetre: 129.1},
	{Name: "ISMB 550", KgPerMetre: 152.6},
	{Name: "ISMB 600", KgPerMetre: 178.4},

	{Name: "RSJ POLES 200x100", KgPerMetre: 28.4},
	{Name: "RSJ POLES 250x125", KgPerMetre: 41.2},
	{Name: "RSJ POLES 300x150", KgPerMetre: 56.3},
	{Name: "RSJ POLES 350x175", KgPerMetre: 72.8},
	{Name: "RSJ POLES 400x200", KgPerMetre: 91.5},

	{Name: "ISMC 75", KgPerMetre: 7.14},
	{Name: "ISMC 100", KgPerMetre: 11.0},
	{Name: "ISMC 125", KgPerMetre: 13.1},
	{Name: "ISMC 150", KgPerMetre: 16.4},
	{Name: "ISMC 175", KgPerMetre: 19.6},
	{Name: "ISMC 200", KgPerMetre: 24.2},
	{Name: "ISMC 250", KgPerMetre: 31.1},
	{Name: "ISMC 300", KgPerMetre: 38.8},
	{Name: "ISMC 350", KgPerMetre: 47.3},
	{Name: "ISMC 400", KgPerMetre: 56.8},

	{Name: "MS Channel 75x40x6mm", KgPerMetre: 7.14},
	{Name: "MS Channel 100x50x6mm", KgPerMetre: 9.56},
	{Name: "MS Channel 125x65x6mm", KgPerMetre: 13.1},
	{Name: "MS Channel 150x75x6mm", KgPerMetre: 16.4},

	{Name: "ISA 25x25x3", KgPerMetre: 1.11},
	{Name: "ISA 30x30x3", KgPerMetre: 1.36},
	{Name: "ISA 40x40x3", KgPerMetre: 1.85},
	{Name: "ISA 50x50x5", KgPerMetre: 3.77},
	{Name: "ISA 65x65x6", KgPerMetre: 5.85},
	{Name: "ISA 75x75x6", KgPerMetre: 6.85},
	{Name: "ISA 90x90x6", KgPerMetre: 8.30},
	{Name: "ISA 100x100x8", KgPerMetre: 12.2},
	{Name: "ISA 125x125x10", KgPerMetre: 18.9},
	{Name: "ISA 150x150x12", KgPerMetre: 26.8},

	{Name: "MS Angle 40x40x6mm", KgPerMetre: 3.5},
	{Name: "MS Angle 50x50x6mm", KgPerMetre: 4.5},
	{Name: "MS Angle 65x65x6mm", KgPerMetre: 5.8},

	{Name: "HR SHEET 1.6mm x 900 x 2500", Sheet: &Sheet{Length: 2.5, Width: 0.9, Thickness: 0.0016, Density: SteelDensity}},
	{Name: "HR SHEET 2.0mm x 1000 x 2000", Sheet: &Sheet{Length: 2.0, Width: 1.0, Thickness: 0.002, Density: SteelDensity}},
	{Name: "HR SHEET 2.5mm x 1250 x 2500", Sheet: &Sheet{Length: 2.5, Width: 1.25, Thickness: 0.0025, Density: SteelDensity}},
	{Name: "HR SHEET 3.0mm x 1250 x 2500", Sheet: &Sheet{Length: 2.5, Width: 1.25, Thickness: 0.003, Density: SteelDensity}},
	{Name: "HR SHEET 4.0mm x 1250 x 2500", Sheet: &Sheet{Length: 2.5, Width: 1.25, Thickness: 0.004, Density: SteelDensity}},
	{Name: "HR SHEET 5.0mm x 1500 x 3000", Sheet: &Sheet{Length: 3.0, Width: 1.5, Thickness: 0.005, Density: SteelDensity}},
	{Name: "HR SHEET 6.0mm x 1500 x 3000", Sheet: &Sheet{Length: 3.0, Width: 1.5, Thickness: 0.006, Density: SteelDensity}},
	{Name: "HR SHEET 8.0mm x 1500 x 3000", Sheet: &Sheet{Length: 3.0, Width: 1.5, Thickness: 0.008, Density: SteelDensity}},
	{Name: "HR SHEET 10mm x 1500 x 3000", Sheet: &Sheet{Length: 3.0, Width: 1.5, Thickness: 0.010, Density: SteelDensity}},
	{Name: "HR SHEET 12mm x 1500 x 3000", Sheet: &Sheet{Length: 3.0, Width: 1.5, Thickness: 0.012, Density: SteelDensity}},
	{Name: "CR SHEET 1.0mm x 1000 x 2000", Sheet: &Sheet{Length: 2.0, Width: 1.0, Thickness: 0.001, Density: SteelDensity}},
	{Name: "CR SHEET 1.2mm x 1000 x 2000", Sheet: &Sheet{Length: 2.0, Width: 1.0, Thickness: 0.0012, Density: SteelDensity}},
	{Name: "CR SHEET 1.6mm x 1250 x 2500", Sheet: &Sheet{Length: 2.5, Width: 1.25, Thickness: 0.0016, Density: SteelDensity}},

	{Name: "MS PIPE 25mm", KgPerMetre: 1.51},
	{Name: "MS PIPE 32mm", KgPerMetre: 2.15},
	{Name: "MS PIPE 40mm", KgPerMetre: 2.93},
	{Name: "MS PIPE 50mm", KgPerMetre: 3.85},
	{Name: "MS PIPE 65mm", KgPerMetre: 5.11},
	{Name: "MS PIPE 80mm", KgPerMetre: 6.51},
	{Name: "MS PIPE 100mm", KgPerMetre: 8.38},
	{Name: "MS PIPE 125mm", KgPerMetre: 10.9},
	{Name: "MS PIPE 150mm", KgPerMetre: 13.7},

	{Name: "MS SQUARE TUBE 20x20x2mm", KgPerMetre: 1.42},
	{Name: "MS SQUARE TUBE 25x25x2mm", KgPerMetre: 1.80},
	{Name: "MS SQUARE TUBE 40x40x3mm", KgPerMetre: 3.45},
	{Name: "MS SQUARE TUBE 50x50x3mm", KgPerMetre: 4.47},
	{Name: "MS SQUARE TUBE 60x60x4mm", KgPerMetre: 6.95},
	{Name: "MS SQUARE TUBE 80x80x4mm", KgPerMetre: 9.42},
	{Name: "MS SQUARE TUBE 100x100x5mm", KgPerMetre: 14.2},
	{Name: "MS RECT TUBE 40x20x2mm", KgPerMetre: 2.27},
	{Name: "MS RECT TUBE 50x25x3mm", KgPerMetre: 4.18},
	{Name: "MS RECT TUBE 60x40x3mm", KgPerMetre: 5.56},
	{Name: "MS RECT TUBE 80x40x4mm", KgPerMetre: 8.77},
	{Name: "MS RECT TUBE 100x50x5mm", KgPerMetre: 13.6},

	{Name: "MS FLAT 20x3mm", KgPerMetre: 0.471},
	{Name: "MS FLAT 25x5mm", KgPerMetre: 0.981},
	{Name: "MS FLAT 40x5mm", KgPerMetre: 1.57},
	{Name: "MS FLAT 50x6mm", KgPerMetre: 2.36},
	{Name: "MS FLAT 75x8mm", KgPerMetre: 4.71},
	{Name: "MS FLAT 75x10mm", KgPerMetre: 5.89},
	{Name: "MS FLAT 100x10mm", KgPerMetre: 7.85},

	{Name: "MS ROUND 8mm", KgPerMetre: 0.395},
	{Name: "MS ROUND 10mm", KgPerMetre: 0.617},
	{Name: "MS ROUND 12mm", KgPerMetre: 0.888},
	{Name: "MS ROUND 16mm", KgPerMetre: 1.58},
	{Name: "MS ROUND 20mm", KgPerMetre: 2.47},
	{Name: "MS ROUND 25mm", KgPerMetre: 3.85},
	{Name: "MS ROUND 32mm", KgPerMetre: 6.31},
	{Name: "MS ROUND 40mm", KgPerMetre: 9.86},
	{Name: "MS ROUND 50mm", KgPerMetre: 15.4},
	{Name: "MS SQUARE 10mm", KgPerMetre: 0.785},
	{Name: "MS SQUARE 12mm", KgPerMetre: 1.13},
	{Name: "MS SQUARE 16mm", KgPerMetre: 2.01},
	{Name: "MS SQUARE 20mm", KgPerMetre: 3.14},
	{Name: "MS SQUARE 25mm", KgPerMetre: 4.91},
	{Name: "MS SQUARE 32mm", KgPerMetre: 8.04},
	{Name: "MS SQUARE 40mm", KgPerMetre: 12.6},
	{Name: "MS SQUARE 50mm", KgPerMetre: 19.6},

	{Name: "TMT BAR 8mm", KgPerMetre: 0.395},
	{Name: "TMT BAR 10mm", KgPerMetre: 0.617},
	{Name: "TMT BAR 12mm", KgPerMetre: 0.888},
	{Name: "TMT BAR 16mm", KgPerMetre: 1.58},
	{Name: "TMT BAR 20mm", KgPerMetre: 2.47},
	{Name: "TMT BAR 25mm", KgPerMetre: 3.85},
	{Name: "TMT BAR 32mm", KgPerMetre: 6.31},
}
