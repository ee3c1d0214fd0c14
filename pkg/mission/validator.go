package mission

import (
	"fmt"

	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/geo"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Pipeline runs the ordered structural and safety checks over a mission.
// Construction binds a config snapshot and the session mode; Run may repair
// the mission (autofix) and reports everything it found.
type Pipeline struct {
	cfg      *config.Config
	mode     types.SessionMode
	allowFix bool
}

// NewPipeline builds the full pipeline with autofixes enabled; this is the
// strict form used when a mission is submitted for review.
func NewPipeline(cfg *config.Config, mode types.SessionMode) *Pipeline {
	return &Pipeline{cfg: cfg, mode: mode, allowFix: true}
}

// NewAdvisory builds the per-call variant: same checks, but presence
// problems stay warnings instead of being repaired, so a half-built mission
// is not rewritten under the caller mid-edit.
func NewAdvisory(cfg *config.Config, mode types.SessionMode) *Pipeline {
	return &Pipeline{cfg: cfg, mode: mode}
}

// Report collects pipeline findings in check order.
type Report struct {
	Issues []types.ValidationIssue
}

// Fatal returns the blocking issues. Empty in command mode, where fatal
// checks are downgraded to warnings.
func (r Report) Fatal() []types.ValidationIssue {
	var out []types.ValidationIssue
	for _, is := range r.Issues {
		if is.Severity == types.SeverityFatal {
			out = append(out, is)
		}
	}
	return out
}

// Messages renders every finding for the tool-call warning list.
func (r Report) Messages() []string {
	out := make([]string, 0, len(r.Issues))
	for _, is := range r.Issues {
		out = append(out, is.String())
	}
	return out
}

func (r *Report) add(check string, sev types.Severity, format string, args ...any) {
	r.Issues = append(r.Issues, types.ValidationIssue{
		Check:    check,
		Severity: sev,
		Message:  fmt.Sprintf(format, args...),
	})
}

// fatal yields the effective severity for blocking checks: command-mode
// missions are self-contained and ephemeral, so nothing blocks there.
func (p *Pipeline) fatal() types.Severity {
	if p.mode == types.ModeCommand {
		return types.SeverityWarning
	}
	return types.SeverityFatal
}

// Run executes all checks in order. The store is marked validated when no
// fatal issue remains.
func (p *Pipeline) Run(s *Store) Report {
	var r Report
	m := s.Mission()

	if len(m.Items) == 0 {
		r.add("empty", p.fatal(), "mission has no items")
		return r
	}

	p.checkTakeoffPresence(s, &r)
	p.checkTakeoffFirst(s, &r)
	p.checkRTLPresence(s, &r)
	p.checkRTLLast(s, &r)
	p.checkBounds(s, &r)
	p.checkCapacity(s, &r)
	p.checkDetection(s, &r)

	if len(r.Fatal()) == 0 {
		s.MarkValidated()
	}
	return r
}

func (p *Pipeline) checkTakeoffPresence(s *Store, r *Report) {
	if s.Mission().TakeoffIndex() >= 0 {
		return
	}
	if p.allowFix && p.cfg.Agent.AutoAddMissingTakeoff {
		item, ok := p.defaultTakeoff()
		if ok {
			if _, _, err := s.UpsertTakeoff(item, p.cfg.Agent.MaxMissionItems); err == nil {
				r.add("takeoff_presence", types.SeverityAutofix, "inserted default takeoff at the start of the mission")
				return
			}
		}
	}
	r.add("takeoff_presence", types.SeverityWarning, "mission has no takeoff command")
}

func (p *Pipeline) checkTakeoffFirst(s *Store, r *Report) {
	if idx := s.Mission().TakeoffIndex(); idx > 0 {
		r.add("takeoff_first", p.fatal(), "takeoff is item %d; takeoff must be the initial command", idx)
	}
}

func (p *Pipeline) checkRTLPresence(s *Store, r *Report) {
	if s.Mission().RTLIndex() >= 0 {
		return
	}
	if p.allowFix && p.cfg.Agent.AutoAddMissingRTL {
		if _, _, err := s.UpsertRTL(p.defaultRTL(s.Mission()), p.cfg.Agent.MaxMissionItems); err == nil {
			r.add("rtl_presence", types.SeverityAutofix, "appended default return-to-launch at the end of the mission")
			return
		}
	}
	r.add("rtl_presence", types.SeverityWarning, "mission has no return-to-launch command")
}

func (p *Pipeline) checkRTLLast(s *Store, r *Report) {
	m := s.Mission()
	if idx := m.RTLIndex(); idx >= 0 && idx != len(m.Items)-1 {
		r.add("rtl_last", p.fatal(), "return-to-launch is item %d of %d; RTL must be the last command", idx, len(m.Items)-1)
	}
}

func (p *Pipeline) checkBounds(s *Store, r *Report) {
	for _, item := range s.Mission().Items {
		if item.CommandType != types.CommandRTL && item.AltitudeM <= 0 {
			r.add("bounds", p.fatal(), "item %d: altitude must be positive", item.Seq)
		}
		if item.CommandType == types.CommandRTL && item.AltitudeM < 0 {
			r.add("bounds", p.fatal(), "item %d: RTL altitude must not be negative", item.Seq)
		}
		if (item.CommandType == types.CommandLoiter || item.CommandType == types.CommandSurvey) && item.RadiusM <= 0 {
			r.add("bounds", p.fatal(), "item %d: %s radius must be positive", item.Seq, item.CommandType)
		}
		if item.CommandType != types.CommandRTL {
			if !geo.ValidLatitude(item.Latitude) || !geo.ValidLongitude(item.Longitude) {
				r.add("bounds", p.fatal(), "item %d: coordinate (%v, %v) out of range", item.Seq, item.Latitude, item.Longitude)
			}
		}
	}
}

func (p *Pipeline) checkCapacity(s *Store, r *Report) {
	if max := p.cfg.Agent.MaxMissionItems; max > 0 && s.Len() > max {
		r.add("capacity", p.fatal(), "mission has %d items, exceeding the maximum of %d", s.Len(), max)
	}
}

func (p *Pipeline) checkDetection(s *Store, r *Report) {
	for _, item := range s.Mission().Items {
		if item.DetectionBehavior != "" && item.SearchTarget == "" {
			r.add("detection", types.SeverityWarning, "item %d: detection behavior set without a search target", item.Seq)
		}
	}
}

// defaultTakeoff builds the autofix takeoff from the configured origin. It
// cannot be built when no origin is configured.
func (p *Pipeline) defaultTakeoff() (types.MissionItem, bool) {
	if p.cfg.Takeoff.Latitude == 0 && p.cfg.Takeoff.Longitude == 0 {
		return types.MissionItem{}, false
	}
	item := types.MissionItem{
		CommandType: types.CommandTakeoff,
		Latitude:    p.cfg.Takeoff.Latitude,
		Longitude:   p.cfg.Takeoff.Longitude,
	}
	completed, _, err := Complete(types.CommandTakeoff, Partial{}, p.cfg)
	if err != nil {
		return types.MissionItem{}, false
	}
	completed.Apply(&item)
	if item.AltitudeM <= 0 {
		item.AltitudeM = geo.ToMeters(p.cfg.Takeoff.Altitude, p.cfg.Takeoff.AltitudeUnits)
	}
	return item, item.AltitudeM > 0
}

// defaultRTL builds the autofix return-to-launch. RTL flies home to the
// takeoff point, so it borrows that coordinate for display purposes.
func (p *Pipeline) defaultRTL(m *types.Mission) types.MissionItem {
	item := types.MissionItem{CommandType: types.CommandRTL}
	if idx := m.TakeoffIndex(); idx >= 0 {
		item.Latitude = m.Items[idx].Latitude
		item.Longitude = m.Items[idx].Longitude
	} else {
		item.Latitude = p.cfg.Takeoff.Latitude
		item.Longitude = p.cfg.Takeoff.Longitude
	}
	completed, _, err := Complete(types.CommandRTL, Partial{}, p.cfg)
	if err == nil {
		completed.Apply(&item)
	}
	return item
}
