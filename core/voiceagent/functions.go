package voiceagent

import "encoding/json"

// FunctionDefinition describes one callable function declared to the agent
// in the handshake settings.
type FunctionDefinition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// FunctionCallRequest is the agent asking for a local function to be
// executed. Every request must be answered exactly once, keyed by CallID.
type FunctionCallRequest struct {
	CallID string
	Name   string
	Input  string
}
