package events

const (
	// KindFunctionCallStarted identifies an incoming function call request.
	KindFunctionCallStarted Kind = "function_call.started"
	// KindFunctionCallCompleted identifies a successfully answered function call.
	KindFunctionCallCompleted Kind = "function_call.completed"
	// KindFunctionCallFailed identifies a function call answered with an error payload.
	KindFunctionCallFailed Kind = "function_call.failed"
)

// FunctionCallStarted marks the agent requesting a local function call.
type FunctionCallStarted struct {
	Base
	CallID string
	Name   string
	Input  string
}

// NewFunctionCallStarted creates a function call started event.
func NewFunctionCallStarted(callID, name, input string) FunctionCallStarted {
	return FunctionCallStarted{Base: NewBase(KindFunctionCallStarted), CallID: callID, Name: name, Input: input}
}

// FunctionCallCompleted marks a function call answered with its handler output.
type FunctionCallCompleted struct {
	Base
	CallID string
	Name   string
	Output string
}

// NewFunctionCallCompleted creates a function call completed event.
func NewFunctionCallCompleted(callID, name, output string) FunctionCallCompleted {
	return FunctionCallCompleted{Base: NewBase(KindFunctionCallCompleted), CallID: callID, Name: name, Output: output}
}

// FunctionCallFailed marks a function call answered with an error-shaped
// response.
type FunctionCallFailed struct {
	Base
	CallID string
	Name   string
	Err    string
}

// NewFunctionCallFailed creates a function call failed event.
func NewFunctionCallFailed(callID, name, err string) FunctionCallFailed {
	return FunctionCallFailed{Base: NewBase(KindFunctionCallFailed), CallID: callID, Name: name, Err: err}
}
