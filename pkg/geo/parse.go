package geo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var measurementRe = regexp.MustCompile(`^(-?\d+(?:\.\d+)?)\s*(.*)$`)

// Measurement is a parsed magnitude with its (canonicalized) unit name.
type Measurement struct {
	Value float64
	Unit  string
}

// Meters returns the measurement converted to the canonical internal unit.
func (m Measurement) Meters() float64 { return ToMeters(m.Value, m.Unit) }

// ParseMeasurement reads model-supplied measurements that may embed a unit:
// "150 feet", "2mi", "400". A bare number takes defaultUnit; unit text that
// is not recognized also falls back to defaultUnit.
func ParseMeasurement(raw string, defaultUnit string) (Measurement, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Measurement{}, fmt.Errorf("empty measurement")
	}
	m := measurementRe.FindStringSubmatch(s)
	if m == nil {
		return Measurement{}, fmt.Errorf("unparseable measurement %q", raw)
	}
	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return Measurement{}, fmt.Errorf("unparseable measurement %q", raw)
	}

	unitText := strings.TrimSpace(m[2])
	if unitText == "" {
		unit, _ := NormalizeUnit(defaultUnit)
		return Measurement{Value: value, Unit: unit}, nil
	}
	unit, ok := NormalizeUnit(unitText)
	if !ok {
		unit, _ = NormalizeUnit(defaultUnit)
	}
	return Measurement{Value: value, Unit: unit}, nil
}

// ParseMeasurementValue accepts the raw JSON forms a tool argument can take
// (number or string with optional unit) and normalizes them.
func ParseMeasurementValue(v any, defaultUnit string) (Measurement, error) {
	switch x := v.(type) {
	case nil:
		return Measurement{}, fmt.Errorf("missing measurement")
	case float64:
		unit, _ := NormalizeUnit(defaultUnit)
		return Measurement{Value: x, Unit: unit}, nil
	case int:
		unit, _ := NormalizeUnit(defaultUnit)
		return Measurement{Value: float64(x), Unit: unit}, nil
	case string:
		return ParseMeasurement(x, defaultUnit)
	default:
		return Measurement{}, fmt.Errorf("measurement must be a number or string, got %T", v)
	}
}
