package tools

import (
	"strconv"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/geo"
	"github.com/px4-agent-org/px4-agent/pkg/mission"
	"github.com/px4-agent-org/px4-agent/pkg/planner"
	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// positionProperties is the shared schema fragment for the three ways a
// caller can place an item: absolute coordinate, grid reference, or a
// distance and heading from a reference point.
func positionProperties() map[string]any {
	return map[string]any{
		"latitude": map[string]any{
			"type":        "number",
			"description": "Absolute latitude in decimal degrees",
			"minimum":     -90.0,
			"maximum":     90.0,
		},
		"longitude": map[string]any{
			"type":        "number",
			"description": "Absolute longitude in decimal degrees",
			"minimum":     -180.0,
			"maximum":     180.0,
		},
		"mgrs": map[string]any{
			"type":        "string",
			"description": "MGRS grid reference, e.g. '33TWN8025044270'",
		},
		"distance": map[string]any{
			"description": "Distance from the reference point; a number of meters or a string with units like '2 miles'",
		},
		"heading": map[string]any{
			"description": "Direction of travel; compass words like 'northeast' or degrees clockwise from north",
		},
		"reference_frame": map[string]any{
			"type":        "string",
			"enum":        []string{"origin", "last_waypoint"},
			"description": "Point the distance is measured from; defaults to origin",
		},
	}
}

// parsePosition builds a position spec from whichever placement fields the
// call provided. Nil means the caller left placement to the defaults.
func parsePosition(args tool.Arguments, cfg *config.Config) (*types.PositionSpec, error) {
	hasLat, hasLon := args.Has("latitude"), args.Has("longitude")
	hasGrid := args.Has("mgrs")
	hasDist := args.Has("distance")

	ways := 0
	if hasLat || hasLon {
		ways++
	}
	if hasGrid {
		ways++
	}
	if hasDist {
		ways++
	}
	if ways > 1 {
		return nil, &types.ArgumentError{
			Field:  "position",
			Reason: "provide one of latitude/longitude, mgrs, or distance/heading",
		}
	}

	switch {
	case hasLat || hasLon:
		if !hasLat || !hasLon {
			return nil, &types.ArgumentError{Field: "latitude", Reason: "latitude and longitude must be given together"}
		}
		lat, _ := args.Number("latitude")
		lon, _ := args.Number("longitude")
		spec := types.AbsolutePosition(lat, lon)
		return &spec, nil

	case hasGrid:
		grid, _ := args.String("mgrs")
		spec := types.GridPosition(grid)
		return &spec, nil

	case hasDist:
		m, err := geo.ParseMeasurementValue(args["distance"], cfg.Agent.DefaultDistanceUnits)
		if err != nil {
			return nil, &types.ArgumentError{Field: "distance", Reason: err.Error()}
		}
		bearing := 0.0
		if args.Has("heading") {
			raw, _ := args.String("heading")
			if raw == "" {
				if n, ok := args.Number("heading"); ok {
					bearing = geo.NormalizeBearing(n)
				}
			} else {
				bearing, err = geo.ParseHeading(raw)
				if err != nil {
					return nil, &types.ArgumentError{Field: "heading", Reason: err.Error()}
				}
			}
		}
		frame := types.FrameOrigin
		if f, ok := args.String("reference_frame"); ok && f != "" {
			frame = types.ReferenceFrame(f)
		}
		spec := types.RelativePosition(m.Meters(), bearing, frame)
		return &spec, nil
	}
	return nil, nil
}

// parseFields extracts the optional command parameters. Measurement strings
// default to the unit configured for the command type.
func parseFields(args tool.Arguments, ct types.CommandType, cfg *config.Config) (mission.Partial, error) {
	var p mission.Partial
	defaults := mission.TypeDefaults(ct, cfg)

	if args.Has("altitude") {
		m, err := geo.ParseMeasurementValue(args["altitude"], defaults.AltitudeUnits)
		if err != nil {
			return p, &types.ArgumentError{Field: "altitude", Reason: err.Error()}
		}
		p.Altitude = &m
	}
	if args.Has("radius") {
		m, err := geo.ParseMeasurementValue(args["radius"], defaults.RadiusUnits)
		if err != nil {
			return p, &types.ArgumentError{Field: "radius", Reason: err.Error()}
		}
		p.Radius = &m
	}
	// Travel heading belongs to the position; this is the item's own
	// facing and only applies when the call names it explicitly.
	if args.Has("item_heading") {
		if s, ok := args.String("item_heading"); ok {
			p.Heading = &s
		} else if n, ok := args.Number("item_heading"); ok {
			s := strconv.FormatFloat(n, 'f', -1, 64)
			p.Heading = &s
		}
	}
	if s, ok := args.String("search_target"); ok {
		p.SearchTarget = &s
	}
	if s, ok := args.String("detection_behavior"); ok {
		p.DetectionBehavior = &s
	}
	return p, nil
}

// parseCorners reads an optional polygon boundary for survey commands.
func parseCorners(args tool.Arguments) ([]types.Coordinate, error) {
	raw, ok := args["corners"]
	if !ok {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, &types.ArgumentError{Field: "corners", Reason: "must be an array of {latitude, longitude} objects"}
	}
	out := make([]types.Coordinate, 0, len(list))
	for _, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, &types.ArgumentError{Field: "corners", Reason: "each corner must be an object with latitude and longitude"}
		}
		lat, okLat := obj["latitude"].(float64)
		lon, okLon := obj["longitude"].(float64)
		if !okLat || !okLon {
			return nil, &types.ArgumentError{Field: "corners", Reason: "each corner needs numeric latitude and longitude"}
		}
		if !geo.ValidLatitude(lat) || !geo.ValidLongitude(lon) {
			return nil, &types.ArgumentError{Field: "corners", Reason: "corner coordinate out of range"}
		}
		out = append(out, types.Coordinate{Latitude: lat, Longitude: lon})
	}
	if len(out) > 0 && len(out) < 3 {
		return nil, &types.ArgumentError{Field: "corners", Reason: "a survey boundary needs at least 3 corners"}
	}
	return out, nil
}

func parseAddParams(args tool.Arguments, ct types.CommandType, cfg *config.Config) (planner.AddParams, error) {
	var params planner.AddParams
	pos, err := parsePosition(args, cfg)
	if err != nil {
		return params, err
	}
	params.Position = pos

	params.Fields, err = parseFields(args, ct, cfg)
	if err != nil {
		return params, err
	}
	if ct == types.CommandSurvey {
		params.SurveyCorners, err = parseCorners(args)
		if err != nil {
			return params, err
		}
	}
	if n, ok := args.Int("insert_at"); ok {
		params.InsertAt = n
	}
	return params, nil
}
