package geo

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/im7mortal/UTM"
)

// ErrInvalidGrid reports a malformed MGRS-style grid reference.
var ErrInvalidGrid = errors.New("invalid grid reference")

// Column letters run in three sets of eight per zone, I and O excluded.
const gridColumns = "ABCDEFGHJKLMNPQRSTUVWXYZ"

// Row letters repeat every 2,000 km; even zones start the cycle at F.
const gridRows = "ABCDEFGHJKLMNPQRSTUV"

// Latitude bands C..X (8° each, X spans 12°), I and O excluded.
const gridBands = "CDEFGHJKLMNPQRSTUVWX"

var gridRe = regexp.MustCompile(`^(\d{1,2})([C-HJ-NP-X])([A-HJ-NP-Z])([A-HJ-NP-V])(\d*)$`)

// GridRef is a parsed MGRS-style grid reference.
type GridRef struct {
	Zone     int
	Band     byte
	Column   byte
	Row      byte
	Easting  float64 // meters within the 100 km square
	Northing float64
}

// ParseGrid splits an MGRS-style string (e.g. "33TWN 80250 44270") into its
// zone, band, 100 km square and offset components.
func ParseGrid(s string) (GridRef, error) {
	compact := strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	m := gridRe.FindStringSubmatch(compact)
	if m == nil {
		return GridRef{}, fmt.Errorf("%w: %q", ErrInvalidGrid, s)
	}

	zone, err := strconv.Atoi(m[1])
	if err != nil || zone < 1 || zone > 60 {
		return GridRef{}, fmt.Errorf("%w: zone %q out of range", ErrInvalidGrid, m[1])
	}

	digits := m[5]
	if len(digits)%2 != 0 || len(digits) > 10 {
		return GridRef{}, fmt.Errorf("%w: uneven easting/northing digits in %q", ErrInvalidGrid, s)
	}
	half := len(digits) / 2
	var easting, northing float64
	if half > 0 {
		e, _ := strconv.Atoi(digits[:half])
		n, _ := strconv.Atoi(digits[half:])
		// Scale to meters: 1 digit pair = 10 km precision, 5 pairs = 1 m.
		scale := math.Pow(10, float64(5-half))
		easting = float64(e) * scale
		northing = float64(n) * scale
	}

	return GridRef{
		Zone:     zone,
		Band:     m[2][0],
		Column:   m[3][0],
		Row:      m[4][0],
		Easting:  easting,
		Northing: northing,
	}, nil
}

// ToLatLon converts a grid reference to geographic coordinates via the
// standard transverse-Mercator projection.
func (g GridRef) ToLatLon() (float64, float64, error) {
	// 100 km square easting from the column letter's position in this
	// zone's set of eight.
	set := (g.Zone - 1) % 3
	colIdx := strings.IndexByte(gridColumns, g.Column) - set*8
	if colIdx < 0 || colIdx > 7 {
		return 0, 0, fmt.Errorf("%w: column %q invalid for zone %d", ErrInvalidGrid, string(g.Column), g.Zone)
	}
	e100k := float64(colIdx+1) * 100000

	rowIdx := strings.IndexByte(gridRows, g.Row)
	if rowIdx < 0 {
		return 0, 0, fmt.Errorf("%w: row %q", ErrInvalidGrid, string(g.Row))
	}
	if g.Zone%2 == 0 {
		rowIdx = (rowIdx - 5 + len(gridRows)) % len(gridRows)
	}
	n100k := float64(rowIdx) * 100000

	// Row letters repeat every 2,000 km; pick the cycle that lands inside
	// the latitude band.
	bandIdx := strings.IndexByte(gridBands, g.Band)
	if bandIdx < 0 {
		return 0, 0, fmt.Errorf("%w: band %q", ErrInvalidGrid, string(g.Band))
	}
	bandBottomLat := float64(-80 + 8*bandIdx)
	centralLon := float64((g.Zone-1)*6 - 180 + 3)

	_, bandNorthing, _, _, err := UTM.FromLatLon(bandBottomLat, centralLon, bandBottomLat < 0)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	// Extend down to include the whole bottommost 100 km square.
	bandNorthing = math.Floor(bandNorthing/100000) * 100000

	n2M := 0.0
	for n2M+n100k+g.Northing < bandNorthing {
		n2M += 2000000
	}

	lat, lon, err := UTM.ToLatLon(e100k+g.Easting, n2M+n100k+g.Northing, g.Zone, string(g.Band))
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidGrid, err)
	}
	return lat, lon, nil
}

// GridToLatLon parses and converts in one step.
func GridToLatLon(s string) (float64, float64, error) {
	ref, err := ParseGrid(s)
	if err != nil {
		return 0, 0, err
	}
	return ref.ToLatLon()
}
