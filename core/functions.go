package routing

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/triadvoice/session-core/core/events"
	"github.com/triadvoice/session-core/core/voiceagent"
)

// Function is a locally executed function the voice agent may call
// mid-conversation. The handler's string result is sent back verbatim as
// the function call's output.
type Function struct {
	name        string
	description string
	parameters  json.RawMessage
	handler     func(ctx context.Context, input string) (string, error)
}

func (f Function) Name() string { return f.name }

// Definition renders the function in the shape the conversational link
// advertises to the agent.
func (f Function) Definition() voiceagent.FunctionDefinition {
	return voiceagent.FunctionDefinition{
		Name:        f.name,
		Description: f.description,
		Parameters:  f.parameters,
	}
}

// ParameterBase describes one property of a function's parameter object.
type ParameterBase struct {
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Enum        []string `json:"enum,omitempty"`
}

type parameterSchema struct {
	Type       string                   `json:"type"`
	Properties map[string]ParameterBase `json:"properties"`
	Required   []string                 `json:"required,omitempty"`
}

// NewFunction builds a function from hand-written parameter descriptions.
// The agent's arguments are unmarshalled into T before the handler runs.
func NewFunction[T any](name, description string, parameters map[string]ParameterBase, required []string, handler func(ctx context.Context, args T) (string, error)) (Function, error) {
	schema, err := json.Marshal(parameterSchema{
		Type:       "object",
		Properties: parameters,
		Required:   required,
	})
	if err != nil {
		return Function{}, fmt.Errorf("failed to build parameter schema for %q: %w", name, err)
	}

	return Function{
		name:        name,
		description: description,
		parameters:  schema,
		handler:     typedHandler(name, handler),
	}, nil
}

// NewReflectedFunction builds a function whose parameter schema is
// reflected from T's fields and json tags.
func NewReflectedFunction[T any](name, description string, handler func(ctx context.Context, args T) (string, error)) (Function, error) {
	reflector := jsonschema.Reflector{DoNotReference: true}
	schema, err := json.Marshal(reflector.Reflect(new(T)))
	if err != nil {
		return Function{}, fmt.Errorf("failed to reflect parameter schema for %q: %w", name, err)
	}

	return Function{
		name:        name,
		description: description,
		parameters:  schema,
		handler:     typedHandler(name, handler),
	}, nil
}

func typedHandler[T any](name string, handler func(ctx context.Context, args T) (string, error)) func(ctx context.Context, input string) (string, error) {
	return func(ctx context.Context, input string) (string, error) {
		var args T
		if input != "" {
			if err := json.Unmarshal([]byte(input), &args); err != nil {
				return "", fmt.Errorf("failed to parse arguments for %q: %w", name, err)
			}
		}
		return handler(ctx, args)
	}
}

// functionBridge executes function call requests from the conversational
// link and guarantees every request is answered exactly once, with an
// error-shaped payload when execution cannot produce a result.
type functionBridge struct {
	link      ConversationalLink
	functions map[string]Function
	emitEvent eventEmitter
}

func newFunctionBridge(link ConversationalLink, functions []Function) *functionBridge {
	byName := make(map[string]Function, len(functions))
	for _, function := range functions {
		byName[function.name] = function
	}
	return &functionBridge{
		link:      link,
		functions: byName,
		emitEvent: noopEventEmitter,
	}
}

func (b *functionBridge) definitions() []voiceagent.FunctionDefinition {
	definitions := make([]voiceagent.FunctionDefinition, 0, len(b.functions))
	for _, function := range b.functions {
		definitions = append(definitions, function.Definition())
	}
	return definitions
}

// dispatch runs the requested function on its own goroutine and sends the
// response upstream. The conversation is not blocked while the handler
// runs.
func (b *functionBridge) dispatch(ctx context.Context, call voiceagent.FunctionCallRequest) {
	b.emitEvent(events.NewFunctionCallStarted(call.CallID, call.Name, call.Input))

	function, ok := b.functions[call.Name]
	if !ok {
		b.respondError(call, fmt.Errorf("%w: %q", ErrFunctionNotFound, call.Name))
		return
	}

	go func() {
		output, err := b.execute(ctx, function, call.Input)
		if err != nil {
			b.respondError(call, err)
			return
		}

		if err := b.link.FunctionCallResponse(call.CallID, output); err != nil {
			logger.Error("failed to send function call response", "function", call.Name, "error", err)
			b.emitEvent(events.NewFunctionCallFailed(call.CallID, call.Name, err.Error()))
			return
		}
		b.emitEvent(events.NewFunctionCallCompleted(call.CallID, call.Name, output))
	}()
}

// execute runs the handler with panic containment so a misbehaving
// function cannot take the session down or leave the call unanswered.
func (b *functionBridge) execute(ctx context.Context, function Function, input string) (output string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("function %q panicked: %v", function.name, r)
		}
	}()
	return function.handler(ctx, input)
}

func (b *functionBridge) respondError(call voiceagent.FunctionCallRequest, callErr error) {
	payload, err := json.Marshal(map[string]string{"error": callErr.Error()})
	if err != nil {
		payload = []byte(`{"error":"internal error"}`)
	}

	if err := b.link.FunctionCallResponse(call.CallID, string(payload)); err != nil {
		logger.Error("failed to send function call error response", "function", call.Name, "error", err)
	}
	b.emitEvent(events.NewFunctionCallFailed(call.CallID, call.Name, callErr.Error()))
}
