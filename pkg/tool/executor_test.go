package tool

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

func testExecutor(t *testing.T, handler Handler) *Executor {
	t.Helper()
	registry := NewRegistry()
	err := registry.Register(types.Tool{
		Name: "add_waypoint",
		Parameters: types.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"latitude": map[string]any{"type": "number", "minimum": -90, "maximum": 90},
			},
		},
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	exec := NewExecutor(registry)
	exec.RegisterHandler("add_waypoint", handler)
	return exec
}

func TestExecuteSuccess(t *testing.T) {
	exec := testExecutor(t, func(ctx context.Context, args Arguments) (*types.CallResult, error) {
		lat, _ := args.Number("latitude")
		return &types.CallResult{Success: true, Message: "added", Items: []types.MissionItem{{Latitude: lat}}}, nil
	})

	res, err := exec.Execute(context.Background(), &types.ToolCall{
		ID: "call_1", Name: "add_waypoint", Arguments: `{"latitude": 47.4}`,
	})
	if err != nil {
		t.Fatalf("execute failed: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %s", res.Content)
	}
	if res.ToolCallID != "call_1" || res.ToolName != "add_waypoint" {
		t.Fatalf("result identity wrong: %+v", res)
	}

	var cr types.CallResult
	if err := json.Unmarshal([]byte(res.Content), &cr); err != nil {
		t.Fatalf("content is not a CallResult: %v", err)
	}
	if !cr.Success || len(cr.Items) != 1 {
		t.Fatalf("unexpected call result: %+v", cr)
	}
}

func TestExecuteDomainError(t *testing.T) {
	exec := testExecutor(t, func(ctx context.Context, args Arguments) (*types.CallResult, error) {
		return nil, &types.CapacityError{Limit: 25}
	})

	res, err := exec.Execute(context.Background(), &types.ToolCall{
		ID: "call_2", Name: "add_waypoint", Arguments: `{}`,
	})
	if err != nil {
		t.Fatalf("domain error should become a result, got %v", err)
	}
	if !res.IsError {
		t.Fatal("domain error result not flagged")
	}
	if !strings.Contains(res.Error, "maximum of 25") {
		t.Fatalf("error text lost: %q", res.Error)
	}
}

func TestExecuteProgrammingErrorPropagates(t *testing.T) {
	boom := errors.New("nil dereference candidate")
	exec := testExecutor(t, func(ctx context.Context, args Arguments) (*types.CallResult, error) {
		return nil, boom
	})

	_, err := exec.Execute(context.Background(), &types.ToolCall{Name: "add_waypoint", Arguments: `{}`})
	if !errors.Is(err, boom) {
		t.Fatalf("expected raw error to propagate, got %v", err)
	}
}

func TestExecuteValidationGate(t *testing.T) {
	called := false
	exec := testExecutor(t, func(ctx context.Context, args Arguments) (*types.CallResult, error) {
		called = true
		return &types.CallResult{Success: true}, nil
	})

	res, err := exec.Execute(context.Background(), &types.ToolCall{
		Name: "add_waypoint", Arguments: `{"latitude": 300}`,
	})
	if err != nil {
		t.Fatalf("schema violation should become a result, got %v", err)
	}
	if !res.IsError {
		t.Fatal("schema violation not flagged")
	}
	if called {
		t.Fatal("handler ran despite failed validation")
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	exec := testExecutor(t, func(ctx context.Context, args Arguments) (*types.CallResult, error) {
		return &types.CallResult{Success: true}, nil
	})

	if _, err := exec.Execute(context.Background(), &types.ToolCall{Name: "self_destruct"}); err == nil {
		t.Fatal("expected error for unknown tool")
	}
}

func TestRegistryDuplicate(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(types.Tool{Name: "a"}); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if err := r.Register(types.Tool{Name: "a"}); err == nil {
		t.Fatal("duplicate registration accepted")
	}
}

func TestRegistryListSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"c", "a", "b"} {
		if err := r.Register(types.Tool{Name: name}); err != nil {
			t.Fatalf("register failed: %v", err)
		}
	}
	list := r.List()
	if len(list) != 3 || list[0].Name != "a" || list[2].Name != "c" {
		t.Fatalf("list not sorted: %v", list)
	}
}
