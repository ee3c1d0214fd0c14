package session

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/px4-agent-org/px4-agent/pkg/agent/tools"
	"github.com/px4-agent-org/px4-agent/pkg/config"
	"github.com/px4-agent-org/px4-agent/pkg/llm"
	"github.com/px4-agent-org/px4-agent/pkg/planner"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// ErrSessionNotFound is returned when a session is not found.
var ErrSessionNotFound = errors.New("session not found")

// Factory creates a fully wired session.
type Factory func(id string, mode types.SessionMode) (*Session, error)

// NewFactory wires the standard session: its own planner and tool surface,
// sharing the config store, persistence and model gateway.
func NewFactory(cfg *config.Store, missions store.Store, gateway *llm.Gateway, model string, log *slog.Logger) Factory {
	return func(id string, mode types.SessionMode) (*Session, error) {
		p := planner.New(cfg, missions, mode)

		registry := tool.NewRegistry()
		exec := tool.NewExecutor(registry)
		if err := tools.NewSuite(cfg, p).Register(exec, registry); err != nil {
			return nil, err
		}

		return &Session{
			ID:        id,
			Mode:      mode,
			CreatedAt: time.Now().UTC(),
			planner:   p,
			executor:  exec,
			gateway:   gateway,
			model:     model,
			log:       log,
		}, nil
	}
}

// Service manages live sessions.
type Service struct {
	factory  Factory
	sessions sync.Map // map[string]*Session
	log      *slog.Logger
}

func NewService(factory Factory, log *slog.Logger) *Service {
	return &Service{
		factory: factory,
		log:     log,
	}
}

// Create starts a session in the given mode.
func (s *Service) Create(mode types.SessionMode) (*Session, error) {
	id := types.GenerateSessionID()
	sess, err := s.factory(id, mode)
	if err != nil {
		s.log.Error("failed to create session", "error", err)
		return nil, err
	}
	s.sessions.Store(id, sess)
	s.log.Info("session created", "session", id, "mode", mode)
	return sess, nil
}

// Get returns a session by ID.
func (s *Service) Get(id string) (*Session, error) {
	val, ok := s.sessions.Load(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return val.(*Session), nil
}

// List returns all sessions.
func (s *Service) List() []*Session {
	var result []*Session
	s.sessions.Range(func(_, v any) bool {
		result = append(result, v.(*Session))
		return true
	})
	return result
}

// Delete removes a session. Unapproved mission state is discarded.
func (s *Service) Delete(id string) error {
	if _, ok := s.sessions.Load(id); !ok {
		return ErrSessionNotFound
	}
	s.sessions.Delete(id)
	s.log.Info("session deleted", "session", id)
	return nil
}
