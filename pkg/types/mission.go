package types

import "time"

// CommandType identifies what a mission item tells the vehicle to do
type CommandType string

const (
	CommandTakeoff  CommandType = "takeoff"
	CommandWaypoint CommandType = "waypoint"
	CommandLoiter   CommandType = "loiter"
	CommandSurvey   CommandType = "survey"
	CommandRTL      CommandType = "rtl"
)

// DetectionBehavior controls what the vehicle does when the search target is found
type DetectionBehavior string

const (
	DetectTagAndContinue DetectionBehavior = "tag_and_continue"
	DetectAndMonitor     DetectionBehavior = "detect_and_monitor"
)

// ReferenceFrame is the point a relative position is measured from
type ReferenceFrame string

const (
	FrameOrigin       ReferenceFrame = "origin"
	FrameLastWaypoint ReferenceFrame = "last_waypoint"
)

// Coordinate is a resolved geographic position in decimal degrees
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// MissionItem is a single flight command with a fully resolved position.
// Measured quantities are stored canonically (meters, decimal degrees,
// heading degrees clockwise from north); the *_units fields only record what
// the caller asked to see.
type MissionItem struct {
	Seq         int         `json:"seq"`
	CommandType CommandType `json:"command_type"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	AltitudeM     float64 `json:"altitude_m"`
	AltitudeUnits string  `json:"altitude_units,omitempty"`

	// Loiter/survey only
	RadiusM     float64 `json:"radius_m,omitempty"`
	RadiusUnits string  `json:"radius_units,omitempty"`

	// Takeoff (VTOL transition direction) and waypoint only, optional
	HeadingDeg *float64 `json:"heading_deg,omitempty"`

	SearchTarget      string            `json:"search_target,omitempty"`
	DetectionBehavior DetectionBehavior `json:"detection_behavior,omitempty"`

	// Survey polygon boundary; empty means center+radius coverage
	SurveyCorners []Coordinate `json:"survey_corners,omitempty"`
}

// Mission is an ordered command sequence. Invariants: at most one takeoff
// (item 0), at most one RTL (last item), Seq contiguous 0..n-1.
type Mission struct {
	ID         string        `json:"id"`
	Items      []MissionItem `json:"items"`
	CreatedAt  time.Time     `json:"created_at"`
	ModifiedAt time.Time     `json:"modified_at"`
}

func NewMission() *Mission {
	now := time.Now().UTC()
	return &Mission{
		ID:         GenerateMissionID(),
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// Clone returns a deep copy so snapshots can outlive later mutations.
func (m *Mission) Clone() *Mission {
	out := *m
	out.Items = make([]MissionItem, len(m.Items))
	for i, it := range m.Items {
		out.Items[i] = it
		if it.HeadingDeg != nil {
			h := *it.HeadingDeg
			out.Items[i].HeadingDeg = &h
		}
		if len(it.SurveyCorners) > 0 {
			out.Items[i].SurveyCorners = append([]Coordinate(nil), it.SurveyCorners...)
		}
	}
	return &out
}

// TakeoffIndex returns the position of the takeoff item, or -1.
func (m *Mission) TakeoffIndex() int {
	for i, it := range m.Items {
		if it.CommandType == CommandTakeoff {
			return i
		}
	}
	return -1
}

// RTLIndex returns the position of the RTL item, or -1.
func (m *Mission) RTLIndex() int {
	for i, it := range m.Items {
		if it.CommandType == CommandRTL {
			return i
		}
	}
	return -1
}

// LastPositioned returns the last item that carries a usable coordinate,
// skipping RTL which has no position of its own.
func (m *Mission) LastPositioned() (MissionItem, bool) {
	for i := len(m.Items) - 1; i >= 0; i-- {
		if m.Items[i].CommandType != CommandRTL {
			return m.Items[i], true
		}
	}
	return MissionItem{}, false
}
