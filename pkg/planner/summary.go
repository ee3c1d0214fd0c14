package planner

import (
	"fmt"
	"strings"

	"github.com/px4-agent-org/px4-agent/pkg/geo"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Summary renders the current mission as a compact text block. It is
// injected into the model context each turn so the model reasons over the
// real state instead of its own recollection, and it is what the API returns
// for a plain-text snapshot.
func (p *Planner) Summary() string {
	m := p.mission.Mission()
	var b strings.Builder

	fmt.Fprintf(&b, "Mission %s: %d item(s), state %s", m.ID, len(m.Items), p.workflow.State())
	if p.mission.Validated() {
		b.WriteString(", validated")
	}
	b.WriteString("\n")

	if len(m.Items) == 0 {
		b.WriteString("  (empty)\n")
		return b.String()
	}
	for _, item := range m.Items {
		b.WriteString("  ")
		b.WriteString(formatItem(item))
		b.WriteString("\n")
	}
	if fb := p.workflow.Feedback(); len(fb) > 0 {
		b.WriteString("Reviewer feedback:\n")
		for _, f := range fb {
			fmt.Fprintf(&b, "  - %s\n", f)
		}
	}
	return b.String()
}

func formatItem(item types.MissionItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s", item.Seq, item.CommandType)

	if item.CommandType != types.CommandRTL {
		fmt.Fprintf(&b, " at (%.6f, %.6f)", item.Latitude, item.Longitude)
	}
	if item.AltitudeM > 0 || item.CommandType == types.CommandRTL {
		fmt.Fprintf(&b, " alt %s", formatLength(item.AltitudeM, item.AltitudeUnits))
	}
	if item.RadiusM > 0 {
		fmt.Fprintf(&b, " radius %s", formatLength(item.RadiusM, item.RadiusUnits))
	}
	if item.HeadingDeg != nil {
		fmt.Fprintf(&b, " heading %s (%.0f deg)", geo.CompassName(*item.HeadingDeg), *item.HeadingDeg)
	}
	if len(item.SurveyCorners) > 0 {
		fmt.Fprintf(&b, " over %d-corner area", len(item.SurveyCorners))
	}
	if item.SearchTarget != "" {
		fmt.Fprintf(&b, " searching for %q", item.SearchTarget)
		if item.DetectionBehavior != "" {
			fmt.Fprintf(&b, " (%s)", item.DetectionBehavior)
		}
	}
	return b.String()
}

// formatLength prints a canonical meter value in the units the caller used,
// falling back to meters.
func formatLength(meters float64, units string) string {
	if units == "" || units == "meters" {
		return fmt.Sprintf("%.1fm", meters)
	}
	return fmt.Sprintf("%.1f %s (%.1fm)", geo.FromMeters(meters, units), units, meters)
}
