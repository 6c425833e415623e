package routing

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/triadvoice/session-core/core/voiceagent"
)

type weatherArgs struct {
	Location string `json:"location"`
	Units    string `json:"units,omitempty"`
}

func TestNewFunctionBuildsObjectSchema(t *testing.T) {
	function, err := NewFunction("get_weather", "Get the weather", map[string]ParameterBase{
		"location": {Type: "string", Description: "City name"},
		"units":    {Type: "string", Enum: []string{"metric", "imperial"}},
	}, []string{"location"}, func(ctx context.Context, args weatherArgs) (string, error) {
		return "", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	definition := function.Definition()
	if definition.Name != "get_weather" {
		t.Fatalf("unexpected name: %q", definition.Name)
	}

	var schema struct {
		Type       string                     `json:"type"`
		Properties map[string]json.RawMessage `json:"properties"`
		Required   []string                   `json:"required"`
	}
	if err := json.Unmarshal(definition.Parameters, &schema); err != nil {
		t.Fatalf("failed to parse schema: %v", err)
	}
	if schema.Type != "object" {
		t.Fatalf("unexpected schema type: %q", schema.Type)
	}
	if _, ok := schema.Properties["location"]; !ok {
		t.Fatal("expected location property in schema")
	}
	if len(schema.Required) != 1 || schema.Required[0] != "location" {
		t.Fatalf("unexpected required list: %v", schema.Required)
	}
}

func TestNewReflectedFunctionBuildsSchemaFromType(t *testing.T) {
	function, err := NewReflectedFunction("get_weather", "Get the weather",
		func(ctx context.Context, args weatherArgs) (string, error) {
			return "", nil
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	schema := string(function.Definition().Parameters)
	if !strings.Contains(schema, "location") {
		t.Fatalf("expected reflected schema to mention location, got %s", schema)
	}
}

func TestDispatchAnswersWithHandlerOutput(t *testing.T) {
	link := &stubConversationalLink{}
	function, err := NewFunction("get_weather", "Get the weather", map[string]ParameterBase{
		"location": {Type: "string"},
	}, []string{"location"}, func(ctx context.Context, args weatherArgs) (string, error) {
		return `{"forecast":"sunny in ` + args.Location + `"}`, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bridge := newFunctionBridge(link, []Function{function})
	bridge.dispatch(context.Background(), voiceagent.FunctionCallRequest{
		CallID: "call-1",
		Name:   "get_weather",
		Input:  `{"location":"Oslo"}`,
	})

	waitFor(t, func() bool { return len(link.responses()) == 1 })

	response := link.responses()[0]
	if response.callID != "call-1" {
		t.Fatalf("unexpected call id: %q", response.callID)
	}
	if !strings.Contains(response.output, "sunny in Oslo") {
		t.Fatalf("unexpected output: %q", response.output)
	}
}

func TestDispatchAnswersUnknownFunctionsWithError(t *testing.T) {
	link := &stubConversationalLink{}
	bridge := newFunctionBridge(link, nil)

	bridge.dispatch(context.Background(), voiceagent.FunctionCallRequest{
		CallID: "call-2",
		Name:   "does_not_exist",
	})

	waitFor(t, func() bool { return len(link.responses()) == 1 })

	var payload map[string]string
	if err := json.Unmarshal([]byte(link.responses()[0].output), &payload); err != nil {
		t.Fatalf("expected JSON error payload: %v", err)
	}
	if payload["error"] == "" {
		t.Fatal("expected error field in payload")
	}
}

func TestDispatchAnswersHandlerErrorsWithError(t *testing.T) {
	link := &stubConversationalLink{}
	function, err := NewFunction("fails", "Always fails", nil, nil,
		func(ctx context.Context, args struct{}) (string, error) {
			return "", errors.New("backend unavailable")
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bridge := newFunctionBridge(link, []Function{function})
	bridge.dispatch(context.Background(), voiceagent.FunctionCallRequest{CallID: "call-3", Name: "fails"})

	waitFor(t, func() bool { return len(link.responses()) == 1 })

	if !strings.Contains(link.responses()[0].output, "backend unavailable") {
		t.Fatalf("unexpected output: %q", link.responses()[0].output)
	}
}

func TestDispatchContainsHandlerPanics(t *testing.T) {
	link := &stubConversationalLink{}
	function, err := NewFunction("panics", "Always panics", nil, nil,
		func(ctx context.Context, args struct{}) (string, error) {
			panic("boom")
		})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bridge := newFunctionBridge(link, []Function{function})
	bridge.dispatch(context.Background(), voiceagent.FunctionCallRequest{CallID: "call-4", Name: "panics"})

	waitFor(t, func() bool { return len(link.responses()) == 1 })

	if !strings.Contains(link.responses()[0].output, "panicked") {
		t.Fatalf("expected panic reported in payload, got %q", link.responses()[0].output)
	}
}

func TestDispatchAnswersMalformedArgumentsWithError(t *testing.T) {
	link := &stubConversationalLink{}
	function, err := NewFunction("get_weather", "Get the weather", map[string]ParameterBase{
		"location": {Type: "string"},
	}, []string{"location"}, func(ctx context.Context, args weatherArgs) (string, error) {
		return "unreachable", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bridge := newFunctionBridge(link, []Function{function})
	bridge.dispatch(context.Background(), voiceagent.FunctionCallRequest{
		CallID: "call-5",
		Name:   "get_weather",
		Input:  `{"location":`,
	})

	waitFor(t, func() bool { return len(link.responses()) == 1 })

	if !strings.Contains(link.responses()[0].output, "error") {
		t.Fatalf("expected error payload, got %q", link.responses()[0].output)
	}
}
