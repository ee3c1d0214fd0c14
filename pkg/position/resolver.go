// Package position turns a PositionSpec into an absolute coordinate. It is
// pure: identical spec, mission state and settings always yield the identical
// coordinate, and it is safe to call concurrently across sessions.
package position

import (
	"errors"
	"fmt"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/geo"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Resolve converts spec into a coordinate against the mission built so far
// and the configured takeoff origin.
func Resolve(spec types.PositionSpec, mission *types.Mission, cfg *config.Config) (types.Coordinate, error) {
	switch spec.Kind {
	case types.PositionAbsolute:
		return resolveAbsolute(spec)
	case types.PositionGrid:
		return resolveGrid(spec)
	case types.PositionRelative:
		return resolveRelative(spec, mission, cfg)
	default:
		return types.Coordinate{}, &types.ResolutionError{
			Code:   types.ResolutionNoReferencePoint,
			Reason: fmt.Sprintf("unknown position kind %q", spec.Kind),
		}
	}
}

func resolveAbsolute(spec types.PositionSpec) (types.Coordinate, error) {
	if !geo.ValidLatitude(spec.Latitude) {
		return types.Coordinate{}, &types.ResolutionError{
			Code:   types.ResolutionOutOfRange,
			Reason: fmt.Sprintf("latitude %v outside [-90, 90]", spec.Latitude),
		}
	}
	if !geo.ValidLongitude(spec.Longitude) {
		return types.Coordinate{}, &types.ResolutionError{
			Code:   types.ResolutionOutOfRange,
			Reason: fmt.Sprintf("longitude %v outside [-180, 180]", spec.Longitude),
		}
	}
	return types.Coordinate{Latitude: spec.Latitude, Longitude: spec.Longitude}, nil
}

func resolveGrid(spec types.PositionSpec) (types.Coordinate, error) {
	lat, lon, err := geo.GridToLatLon(spec.Grid)
	if err != nil {
		if errors.Is(err, geo.ErrInvalidGrid) {
			return types.Coordinate{}, &types.ResolutionError{
				Code:   types.ResolutionInvalidGrid,
				Reason: err.Error(),
			}
		}
		return types.Coordinate{}, err
	}
	return types.Coordinate{Latitude: lat, Longitude: lon}, nil
}

func resolveRelative(spec types.PositionSpec, mission *types.Mission, cfg *config.Config) (types.Coordinate, error) {
	base, err := referencePoint(spec.Frame, mission, cfg)
	if err != nil {
		return types.Coordinate{}, err
	}
	lat, lon := geo.Destination(base.Latitude, base.Longitude, spec.DistanceM, spec.BearingDeg)
	return types.Coordinate{Latitude: lat, Longitude: lon}, nil
}

func referencePoint(frame types.ReferenceFrame, mission *types.Mission, cfg *config.Config) (types.Coordinate, error) {
	origin, originOK := configuredOrigin(cfg)

	switch frame {
	case types.FrameLastWaypoint:
		if mission != nil {
			if last, ok := mission.LastPositioned(); ok {
				return types.Coordinate{Latitude: last.Latitude, Longitude: last.Longitude}, nil
			}
		}
		// Empty mission: fall back to the configured origin.
		if originOK {
			return origin, nil
		}
		return types.Coordinate{}, &types.ResolutionError{
			Code:   types.ResolutionNoReferencePoint,
			Reason: "no prior item to measure from and no takeoff origin configured",
		}
	case types.FrameOrigin, "":
		if originOK {
			return origin, nil
		}
		return types.Coordinate{}, &types.ResolutionError{
			Code:   types.ResolutionNoReferencePoint,
			Reason: "no takeoff origin configured",
		}
	default:
		return types.Coordinate{}, &types.ResolutionError{
			Code:   types.ResolutionNoReferencePoint,
			Reason: fmt.Sprintf("unknown reference frame %q", frame),
		}
	}
}

// configuredOrigin reports the takeoff origin. The all-zero coordinate (the
// null island default) counts as unconfigured.
func configuredOrigin(cfg *config.Config) (types.Coordinate, bool) {
	if cfg == nil {
		return types.Coordinate{}, false
	}
	if cfg.Takeoff.Latitude == 0 && cfg.Takeoff.Longitude == 0 {
		return types.Coordinate{}, false
	}
	return types.Coordinate{Latitude: cfg.Takeoff.Latitude, Longitude: cfg.Takeoff.Longitude}, true
}
