// Package session ties one conversation to one mission under construction.
// A session owns its planner, tool executor and message history; the service
// keeps the registry of live sessions.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/px4-agent-org/px4-agent/pkg/approval"
	"github.com/px4-agent-org/px4-agent/pkg/llm"
	"github.com/px4-agent-org/px4-agent/pkg/planner"
	"github.com/px4-agent-org/px4-agent/pkg/store"
	"github.com/px4-agent-org/px4-agent/pkg/tool"
	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// maxPlanningRounds caps the tool-call loop for one user message so a
// confused model cannot spin forever.
const maxPlanningRounds = 12

// Session is one conversation. All entry points serialize on mu, so the
// planner underneath never sees concurrent calls.
type Session struct {
	ID        string
	Mode      types.SessionMode
	CreatedAt time.Time

	mu       sync.Mutex
	planner  *planner.Planner
	executor *tool.Executor
	gateway  *llm.Gateway
	model    string
	history  []types.Message
	log      *slog.Logger
}

// Turn is the outcome of one user message.
type Turn struct {
	Reply   string         `json:"reply"`
	Mission *types.Mission `json:"mission"`
	State   approval.State `json:"state"`
	Summary string         `json:"summary"`
}

// StreamEvent is one incremental event during a streaming turn: a chunk of
// assistant text or the outcome of a tool call.
type StreamEvent struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Tool    string `json:"tool,omitempty"`
	IsError bool   `json:"is_error,omitempty"`
}

const (
	EventDelta = "delta"
	EventTool  = "tool"
)

// Message runs the planning loop for one user message: call the model, run
// whatever tools it asks for, feed results back, repeat until it answers in
// text. Command-mode sessions start from a clean mission every message.
func (s *Session) Message(ctx context.Context, content string) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Mode == types.ModeCommand {
		s.planner.Clear()
		s.history = nil
	}
	s.history = append(s.history, types.Message{Role: "user", Content: content})

	var reply string
	for round := 0; ; round++ {
		if round >= maxPlanningRounds {
			return nil, fmt.Errorf("planning did not settle after %d rounds", maxPlanningRounds)
		}

		resp, err := s.gateway.Chat(ctx, &llm.ChatRequest{
			Model:    s.model,
			Messages: s.conversation(),
			Tools:    s.executor.List(),
		})
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}

		s.history = append(s.history, types.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})

		if len(resp.ToolCalls) == 0 {
			reply = resp.Content
			break
		}

		for i := range resp.ToolCalls {
			call := &resp.ToolCalls[i]
			if call.ID == "" {
				call.ID = types.GenerateCallID()
			}
			result, err := s.executor.Execute(ctx, call)
			if err != nil {
				return nil, fmt.Errorf("tool %s: %w", call.Name, err)
			}
			s.log.Debug("tool executed",
				"session", s.ID, "tool", call.Name, "is_error", result.IsError)

			s.history = append(s.history, types.Message{
				Role:       "tool",
				Content:    result.Content,
				ToolCallID: result.ToolCallID,
				ToolName:   result.ToolName,
			})
		}
	}

	return &Turn{
		Reply:   reply,
		Mission: s.planner.Snapshot(),
		State:   s.planner.State(),
		Summary: s.planner.Summary(),
	}, nil
}

// MessageStream is Message with incremental delivery: assistant text is
// emitted chunk by chunk as the provider produces it, and each tool call is
// reported as it completes. The returned Turn is the same final outcome
// Message would give.
func (s *Session) MessageStream(ctx context.Context, content string, emit func(StreamEvent)) (*Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Mode == types.ModeCommand {
		s.planner.Clear()
		s.history = nil
	}
	s.history = append(s.history, types.Message{Role: "user", Content: content})

	var reply string
	for round := 0; ; round++ {
		if round >= maxPlanningRounds {
			return nil, fmt.Errorf("planning did not settle after %d rounds", maxPlanningRounds)
		}

		stream, err := s.gateway.StreamChat(ctx, &llm.ChatRequest{
			Model:    s.model,
			Messages: s.conversation(),
			Tools:    s.executor.List(),
		})
		if err != nil {
			return nil, fmt.Errorf("model call: %w", err)
		}

		var text strings.Builder
		var toolCalls []types.ToolCall
		for chunk := range stream {
			if chunk.Content != "" {
				text.WriteString(chunk.Content)
				emit(StreamEvent{Type: EventDelta, Content: chunk.Content})
			}
			toolCalls = append(toolCalls, chunk.ToolCalls...)
		}

		s.history = append(s.history, types.Message{
			Role:      "assistant",
			Content:   text.String(),
			ToolCalls: toolCalls,
		})

		if len(toolCalls) == 0 {
			reply = text.String()
			break
		}

		for i := range toolCalls {
			call := &toolCalls[i]
			if call.ID == "" {
				call.ID = types.GenerateCallID()
			}
			result, err := s.executor.Execute(ctx, call)
			if err != nil {
				return nil, fmt.Errorf("tool %s: %w", call.Name, err)
			}
			s.log.Debug("tool executed",
				"session", s.ID, "tool", call.Name, "is_error", result.IsError)
			emit(StreamEvent{Type: EventTool, Tool: call.Name, IsError: result.IsError})

			s.history = append(s.history, types.Message{
				Role:       "tool",
				Content:    result.Content,
				ToolCallID: result.ToolCallID,
				ToolName:   result.ToolName,
			})
		}
	}

	return &Turn{
		Reply:   reply,
		Mission: s.planner.Snapshot(),
		State:   s.planner.State(),
		Summary: s.planner.Summary(),
	}, nil
}

// conversation assembles what the model sees: the system prompt, a fresh
// mission summary, then the running history.
func (s *Session) conversation() []types.Message {
	msgs := make([]types.Message, 0, len(s.history)+2)
	msgs = append(msgs, types.Message{Role: "system", Content: systemPrompt(s.Mode)})
	msgs = append(msgs, types.Message{
		Role:    "system",
		Content: "Current mission state:\n" + s.planner.Summary(),
	})
	return append(msgs, s.history...)
}

// Snapshot returns the mission as it stands.
func (s *Session) Snapshot() *types.Mission {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.Snapshot()
}

// Summary returns the plain-text mission rendering.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.Summary()
}

// State returns the approval state.
func (s *Session) State() approval.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.State()
}

// Approve accepts a mission that is under review and persists it.
func (s *Session) Approve(ctx context.Context) (*store.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.Approve(ctx, s.ID)
}

// Reject sends a mission under review back to building. The feedback is
// surfaced to the model on the next turn.
func (s *Session) Reject(feedback string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.planner.Reject(feedback)
}

// Clear drops the mission and conversation history, returning the session
// to a clean building state.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.planner.Clear()
	s.history = nil
}

// History returns a copy of the conversation so far.
func (s *Session) History() []types.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]types.Message(nil), s.history...)
}
