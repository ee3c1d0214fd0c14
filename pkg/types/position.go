package types

// PositionKind discriminates the PositionSpec union
type PositionKind string

const (
	PositionAbsolute PositionKind = "absolute"
	PositionGrid     PositionKind = "grid"
	PositionRelative PositionKind = "relative"
)

// PositionSpec is a tagged union describing where an item should go. Exactly
// one variant's fields are meaningful, selected by Kind. A spec is resolved
// into a Coordinate once, before storage, and never re-interpreted.
type PositionSpec struct {
	Kind PositionKind `json:"kind"`

	// Absolute
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`

	// Grid (MGRS-style reference, e.g. "33TWN8025044270")
	Grid string `json:"grid,omitempty"`

	// Relative: displacement already canonicalized to meters and
	// degrees clockwise from north at parse time
	DistanceM  float64        `json:"distance_m,omitempty"`
	BearingDeg float64        `json:"bearing_deg,omitempty"`
	Frame      ReferenceFrame `json:"frame,omitempty"`
}

func AbsolutePosition(lat, lon float64) PositionSpec {
	return PositionSpec{Kind: PositionAbsolute, Latitude: lat, Longitude: lon}
}

func GridPosition(grid string) PositionSpec {
	return PositionSpec{Kind: PositionGrid, Grid: grid}
}

func RelativePosition(distanceM, bearingDeg float64, frame ReferenceFrame) PositionSpec {
	return PositionSpec{Kind: PositionRelative, DistanceM: distanceM, BearingDeg: bearingDeg, Frame: frame}
}
