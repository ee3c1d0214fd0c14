// Package geo holds the pure geospatial helpers the planner builds on:
// unit conversion, compass headings, geodesic displacement and MGRS-style
// grid references.
package geo

import "strings"

// Conversion factors to meters (base unit)
var unitToMeters = map[string]float64{
	"meters":         1.0,
	"feet":           0.3048,
	"kilometers":     1000.0,
	"miles":          1609.344,
	"nautical_miles": 1852.0,
}

var unitAliases = map[string]string{
	"meter": "meters",
	"m":     "meters",

	"foot": "feet",
	"ft":   "feet",
	"'":    "feet",

	"kilometer": "kilometers",
	"km":        "kilometers",
	"kms":       "kilometers",

	"mile": "miles",
	"mi":   "miles",

	"nautical_mile": "nautical_miles",
	"nm":            "nautical_miles",
	"nmi":           "nautical_miles",
}

// NormalizeUnit maps a unit spelling to its canonical name. Unknown or empty
// input falls back to meters; the second return reports whether the input was
// recognized.
func NormalizeUnit(unit string) (string, bool) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		return "meters", false
	}
	if _, ok := unitToMeters[u]; ok {
		return u, true
	}
	if canonical, ok := unitAliases[u]; ok {
		return canonical, true
	}
	return "meters", false
}

// ToMeters converts a value in the given unit to meters. Unknown units are
// treated as meters.
func ToMeters(value float64, unit string) float64 {
	u, _ := NormalizeUnit(unit)
	return value * unitToMeters[u]
}

// FromMeters converts a canonical meter value into the given display unit.
func FromMeters(value float64, unit string) float64 {
	u, _ := NormalizeUnit(unit)
	return value / unitToMeters[u]
}
