package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Compass words mapped north=0°, clockwise
var compassBearings = map[string]float64{
	"north":     0,
	"northeast": 45,
	"east":      90,
	"southeast": 135,
	"south":     180,
	"southwest": 225,
	"west":      270,
	"northwest": 315,

	"n":  0,
	"ne": 45,
	"e":  90,
	"se": 135,
	"s":  180,
	"sw": 225,
	"w":  270,
	"nw": 315,
}

// ParseHeading turns a compass word or numeric degree string into degrees
// clockwise from north, normalized to [0, 360).
func ParseHeading(s string) (float64, error) {
	h := strings.ToLower(strings.TrimSpace(s))
	if h == "" {
		return 0, fmt.Errorf("empty heading")
	}
	if deg, ok := compassBearings[h]; ok {
		return deg, nil
	}
	h = strings.TrimSuffix(h, "°")
	h = strings.TrimSuffix(strings.TrimSpace(h), "degrees")
	deg, err := strconv.ParseFloat(strings.TrimSpace(h), 64)
	if err != nil {
		return 0, fmt.Errorf("unrecognized heading %q", s)
	}
	return NormalizeBearing(deg), nil
}

// NormalizeBearing wraps degrees into [0, 360).
func NormalizeBearing(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// CompassName returns the nearest eight-point compass word for a bearing.
func CompassName(deg float64) string {
	names := []string{"north", "northeast", "east", "southeast", "south", "southwest", "west", "northwest"}
	idx := int(math.Mod(NormalizeBearing(deg)+22.5, 360) / 45)
	return names[idx]
}
