package tool

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/px4-agent-org/px4-agent/pkg/types"
)

// Handler implements one mission tool. Arguments have already passed the
// structural schema gate when a handler runs.
type Handler func(ctx context.Context, args Arguments) (*types.CallResult, error)

type Executor struct {
	registry *Registry
	handlers map[string]Handler
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{
		registry: registry,
		handlers: make(map[string]Handler),
	}
}

func (e *Executor) RegisterHandler(name string, handler Handler) {
	e.handlers[name] = handler
}

// Execute resolves a tool call: definition lookup, argument decoding,
// schema validation, then the handler. Domain failures come back as a
// structured unsuccessful CallResult, never as a crash to the caller.
func (e *Executor) Execute(ctx context.Context, call *types.ToolCall) (*types.ToolResult, error) {
	toolDef, ok := e.registry.Get(call.Name)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", call.Name)
	}

	handler, ok := e.handlers[call.Name]
	if !ok {
		return nil, fmt.Errorf("no handler implementation for tool: %s", call.Name)
	}

	args, err := ParseArguments(call.Arguments)
	if err == nil {
		err = Validate(args, toolDef.Parameters)
	}

	var result *types.CallResult
	if err == nil {
		result, err = handler(ctx, args)
	}

	if err != nil {
		if !isDomainError(err) {
			return nil, err
		}
		result = &types.CallResult{Success: false, Message: err.Error()}
	}

	content, merr := json.Marshal(result)
	if merr != nil {
		return nil, fmt.Errorf("marshal call result: %w", merr)
	}

	out := &types.ToolResult{
		ToolCallID: call.ID,
		ToolName:   call.Name,
		Content:    string(content),
		IsError:    !result.Success,
	}
	if !result.Success {
		out.Error = result.Message
	}
	return out, nil
}

func (e *Executor) List() []types.Tool {
	return e.registry.List()
}

// isDomainError separates the structured error taxonomy, which the model is
// expected to see and correct, from programming errors which are not.
func isDomainError(err error) bool {
	var argErr *types.ArgumentError
	var resErr *types.ResolutionError
	var capErr *types.CapacityError
	var nfErr *types.NotFoundError
	var perErr *types.PersistenceError
	return errors.As(err, &argErr) ||
		errors.As(err, &resErr) ||
		errors.As(err, &capErr) ||
		errors.As(err, &nfErr) ||
		errors.As(err, &perErr)
}
