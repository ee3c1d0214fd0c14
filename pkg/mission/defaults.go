package mission

import (
	"fmt"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/geo"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Fallback constants used when neither the caller nor the configuration
// provides a value.
const (
	fallbackAltitudeM = 100.0
	fallbackRadiusM   = 150.0
)

// Partial carries the fields a tool call actually provided. Nil means
// omitted; Complete fills the gaps.
type Partial struct {
	Altitude          *geo.Measurement
	Radius            *geo.Measurement
	Heading           *string
	SearchTarget      *string
	DetectionBehavior *string
}

// Completed is the resulting full field set, canonicalized.
type Completed struct {
	AltitudeM     float64
	AltitudeUnits string
	RadiusM       float64
	RadiusUnits   string
	HeadingDeg    *float64
	SearchTarget  string
	Detection     types.DetectionBehavior
}

// Complete fills omitted fields for a command type. Resolution order per
// field: explicit value > per-type configured default > global fallback.
// It is pure; warnings report unit mismatches between a caller value and the
// configured default unit for the type.
func Complete(ct types.CommandType, p Partial, cfg *config.Config) (Completed, []string, error) {
	var out Completed
	var warnings []string
	defaults := TypeDefaults(ct, cfg)

	// Altitude
	switch {
	case p.Altitude != nil:
		out.AltitudeM = p.Altitude.Meters()
		out.AltitudeUnits = p.Altitude.Unit
		if defUnit, ok := geo.NormalizeUnit(defaults.AltitudeUnits); ok && defUnit != p.Altitude.Unit {
			warnings = append(warnings, fmt.Sprintf(
				"%s altitude given in %s but %s defaults are configured in %s; stored canonically in meters",
				ct, p.Altitude.Unit, ct, defUnit))
		}
	case cfg.Agent.AutoCompleteParameters && defaults.Altitude > 0:
		out.AltitudeM = geo.ToMeters(defaults.Altitude, defaults.AltitudeUnits)
		out.AltitudeUnits, _ = geo.NormalizeUnit(defaults.AltitudeUnits)
	case cfg.Agent.AutoCompleteParameters:
		out.AltitudeM = fallbackAltitudeM
		out.AltitudeUnits = "meters"
	}

	// Radius, only meaningful for loiter and survey
	if ct == types.CommandLoiter || ct == types.CommandSurvey {
		switch {
		case p.Radius != nil:
			out.RadiusM = p.Radius.Meters()
			out.RadiusUnits = p.Radius.Unit
			if defUnit, ok := geo.NormalizeUnit(defaults.RadiusUnits); ok && defUnit != p.Radius.Unit {
				warnings = append(warnings, fmt.Sprintf(
					"%s radius given in %s but %s defaults are configured in %s; stored canonically in meters",
					ct, p.Radius.Unit, ct, defUnit))
			}
		case cfg.Agent.AutoCompleteParameters && defaults.Radius > 0:
			out.RadiusM = geo.ToMeters(defaults.Radius, defaults.RadiusUnits)
			out.RadiusUnits, _ = geo.NormalizeUnit(defaults.RadiusUnits)
		case cfg.Agent.AutoCompleteParameters:
			out.RadiusM = fallbackRadiusM
			out.RadiusUnits = "meters"
		}
	}

	// Heading, only meaningful for takeoff (VTOL transition) and waypoint
	if ct == types.CommandTakeoff || ct == types.CommandWaypoint {
		heading := ""
		switch {
		case p.Heading != nil:
			heading = *p.Heading
		case ct == types.CommandTakeoff && cfg.Takeoff.Heading != "":
			heading = cfg.Takeoff.Heading
		}
		if heading != "" {
			deg, err := geo.ParseHeading(heading)
			if err != nil {
				return Completed{}, nil, &types.ArgumentError{Field: "heading", Reason: err.Error()}
			}
			out.HeadingDeg = &deg
		}
	}

	// Search fields apply to every command type
	if p.SearchTarget != nil {
		out.SearchTarget = *p.SearchTarget
	} else {
		out.SearchTarget = cfg.Agent.DefaultSearchTarget
	}
	behavior := ""
	if p.DetectionBehavior != nil {
		behavior = *p.DetectionBehavior
	} else if out.SearchTarget != "" {
		behavior = cfg.Agent.DefaultDetectionBehavior
	}
	switch behavior {
	case "":
	case string(types.DetectTagAndContinue), string(types.DetectAndMonitor):
		out.Detection = types.DetectionBehavior(behavior)
	default:
		return Completed{}, nil, &types.ArgumentError{
			Field:  "detection_behavior",
			Reason: fmt.Sprintf("must be %q or %q", types.DetectTagAndContinue, types.DetectAndMonitor),
		}
	}

	return out, warnings, nil
}

// Apply writes the completed fields onto a mission item.
func (c Completed) Apply(item *types.MissionItem) {
	item.AltitudeM = c.AltitudeM
	item.AltitudeUnits = c.AltitudeUnits
	item.RadiusM = c.RadiusM
	item.RadiusUnits = c.RadiusUnits
	item.HeadingDeg = c.HeadingDeg
	item.SearchTarget = c.SearchTarget
	item.DetectionBehavior = c.Detection
}

// TypeDefaults returns the configured defaults for a command type.
func TypeDefaults(ct types.CommandType, cfg *config.Config) config.CommandDefaults {
	switch ct {
	case types.CommandTakeoff:
		return cfg.Agent.Takeoff
	case types.CommandWaypoint:
		return cfg.Agent.Waypoint
	case types.CommandLoiter:
		return cfg.Agent.Loiter
	case types.CommandSurvey:
		return cfg.Agent.Survey
	case types.CommandRTL:
		return cfg.Agent.RTL
	default:
		return config.CommandDefaults{}
	}
}
