package types

import (
	"github.com/oklog/ulid/v2"
)

// SessionMode selects how a session's mission lives across calls
type SessionMode string

const (
	// ModeMission keeps one mission and its conversation history for the life of the session
	ModeMission SessionMode = "mission"
	// ModeCommand rebuilds a fresh mission for every request
	ModeCommand SessionMode = "command"
)

// JSONSchema represents a JSON Schema definition
type JSONSchema map[string]any

// ID Generation Helpers

func GenerateID(prefix string) string {
	return prefix + "_" + ulid.Make().String()
}

func GenerateSessionID() string { return GenerateID("ses") }
func GenerateCallID() string    { return GenerateID("call") }
func GenerateMissionID() string { return GenerateID("msn") }
