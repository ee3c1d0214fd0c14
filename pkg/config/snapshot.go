package config

import (
	"fmt"
	"sync/atomic"

	"github.com/px4-agent-org/px4-agent/pkg/geo"
)

// Store hands out immutable configuration snapshots. Readers take the whole
// snapshot; writers clone, modify the clone and swap it in, so a reader can
// never observe a partially updated configuration.
type Store struct {
	ptr atomic.Pointer[Config]
}

func NewStore(cfg *Config) *Store {
	s := &Store{}
	s.ptr.Store(cfg)
	return s
}

// Snapshot returns the current configuration. Callers must treat it as
// read-only; mutation goes through Update.
func (s *Store) Snapshot() *Config {
	return s.ptr.Load()
}

// Swap replaces the whole configuration, e.g. on hot-reload.
func (s *Store) Swap(cfg *Config) {
	s.ptr.Store(cfg)
}

// Update clones the current snapshot, applies fn and swaps the result in.
func (s *Store) Update(fn func(*Config)) *Config {
	next := s.Snapshot().Clone()
	fn(next)
	s.ptr.Store(next)
	return next
}

// TakeoffPatch carries optional field updates for the takeoff defaults.
type TakeoffPatch struct {
	Latitude      *float64 `json:"latitude,omitempty"`
	Longitude     *float64 `json:"longitude,omitempty"`
	Heading       *string  `json:"heading,omitempty"`
	Altitude      *float64 `json:"altitude,omitempty"`
	AltitudeUnits *string  `json:"altitude_units,omitempty"`
}

// UpdateTakeoffDefaults validates and applies a takeoff-defaults patch.
func (s *Store) UpdateTakeoffDefaults(p TakeoffPatch) (*Config, error) {
	if p.Latitude != nil && !geo.ValidLatitude(*p.Latitude) {
		return nil, fmt.Errorf("latitude must be between -90 and 90, got %v", *p.Latitude)
	}
	if p.Longitude != nil && !geo.ValidLongitude(*p.Longitude) {
		return nil, fmt.Errorf("longitude must be between -180 and 180, got %v", *p.Longitude)
	}
	if p.Heading != nil {
		if _, err := geo.ParseHeading(*p.Heading); err != nil {
			return nil, err
		}
	}
	if p.Altitude != nil && *p.Altitude <= 0 {
		return nil, fmt.Errorf("altitude must be positive, got %v", *p.Altitude)
	}
	if p.AltitudeUnits != nil {
		if _, ok := geo.NormalizeUnit(*p.AltitudeUnits); !ok {
			return nil, fmt.Errorf("unknown altitude units %q", *p.AltitudeUnits)
		}
	}

	return s.Update(func(c *Config) {
		if p.Latitude != nil {
			c.Takeoff.Latitude = *p.Latitude
		}
		if p.Longitude != nil {
			c.Takeoff.Longitude = *p.Longitude
		}
		if p.Heading != nil {
			c.Takeoff.Heading = *p.Heading
		}
		if p.Altitude != nil {
			c.Takeoff.Altitude = *p.Altitude
		}
		if p.AltitudeUnits != nil {
			c.Takeoff.AltitudeUnits = *p.AltitudeUnits
		}
	}), nil
}

// CurrentActionPatch carries optional field updates for the command-mode
// action defaults.
type CurrentActionPatch struct {
	Type              *string  `json:"type,omitempty"`
	Latitude          *float64 `json:"latitude,omitempty"`
	Longitude         *float64 `json:"longitude,omitempty"`
	Altitude          *float64 `json:"altitude,omitempty"`
	AltitudeUnits     *string  `json:"altitude_units,omitempty"`
	Radius            *float64 `json:"radius,omitempty"`
	RadiusUnits       *string  `json:"radius_units,omitempty"`
	Heading           *string  `json:"heading,omitempty"`
	SearchTarget      *string  `json:"search_target,omitempty"`
	DetectionBehavior *string  `json:"detection_behavior,omitempty"`
}

// UpdateCurrentAction validates and applies a current-action patch.
func (s *Store) UpdateCurrentAction(p CurrentActionPatch) (*Config, error) {
	if p.Type != nil {
		switch *p.Type {
		case "takeoff", "waypoint", "loiter", "survey":
		default:
			return nil, fmt.Errorf("invalid action type %q", *p.Type)
		}
	}
	if p.Latitude != nil && !geo.ValidLatitude(*p.Latitude) {
		return nil, fmt.Errorf("latitude must be between -90 and 90, got %v", *p.Latitude)
	}
	if p.Longitude != nil && !geo.ValidLongitude(*p.Longitude) {
		return nil, fmt.Errorf("longitude must be between -180 and 180, got %v", *p.Longitude)
	}
	if p.Altitude != nil && *p.Altitude <= 0 {
		return nil, fmt.Errorf("altitude must be positive, got %v", *p.Altitude)
	}
	if p.Radius != nil && *p.Radius < 0 {
		return nil, fmt.Errorf("radius must not be negative, got %v", *p.Radius)
	}
	if p.DetectionBehavior != nil {
		switch *p.DetectionBehavior {
		case "", "tag_and_continue", "detect_and_monitor":
		default:
			return nil, fmt.Errorf("invalid detection behavior %q", *p.DetectionBehavior)
		}
	}

	return s.Update(func(c *Config) {
		if p.Type != nil {
			c.CurrentAction.Type = *p.Type
		}
		if p.Latitude != nil {
			c.CurrentAction.Latitude = *p.Latitude
		}
		if p.Longitude != nil {
			c.CurrentAction.Longitude = *p.Longitude
		}
		if p.Altitude != nil {
			c.CurrentAction.Altitude = *p.Altitude
		}
		if p.AltitudeUnits != nil {
			c.CurrentAction.AltitudeUnits = *p.AltitudeUnits
		}
		if p.Radius != nil {
			c.CurrentAction.Radius = *p.Radius
		}
		if p.RadiusUnits != nil {
			c.CurrentAction.RadiusUnits = *p.RadiusUnits
		}
		if p.Heading != nil {
			c.CurrentAction.Heading = *p.Heading
		}
		if p.SearchTarget != nil {
			c.CurrentAction.SearchTarget = *p.SearchTarget
		}
		if p.DetectionBehavior != nil {
			c.CurrentAction.DetectionBehavior = *p.DetectionBehavior
		}
	}), nil
}
