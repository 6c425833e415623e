package deepgram

import (
	"encoding/json"

	"github.com/triadvoice/session-core/core/voiceagent"
)

type messageType string

const (
	typeSettings             messageType = "Settings"
	typeKeepAlive            messageType = "KeepAlive"
	typeUpdatePrompt         messageType = "UpdatePrompt"
	typeInjectUserMessage    messageType = "InjectUserMessage"
	typeInjectAgentMessage   messageType = "InjectAgentMessage"
	typeFunctionCallResponse messageType = "FunctionCallResponse"
	typeClear                messageType = "Clear"
	typeClose                messageType = "Close"

	typeWelcome             messageType = "Welcome"
	typeSettingsApplied     messageType = "SettingsApplied"
	typeUserStartedSpeaking messageType = "UserStartedSpeaking"
	typeUserStoppedSpeaking messageType = "UserStoppedSpeaking"
	typeAgentStartedSpeak   messageType = "AgentStartedSpeaking"
	typeAgentAudioDone      messageType = "AgentAudioDone"
	typeConversationText    messageType = "ConversationText"
	typePromptUpdated       messageType = "PromptUpdated"
	typeFunctionCallRequest messageType = "FunctionCallRequest"
	typeError               messageType = "Error"
)

type settingsMessage struct {
	Type  messageType   `json:"type"`
	Audio settingsAudio `json:"audio"`
	Agent settingsAgent `json:"agent"`
}

type settingsAudio struct {
	Input  settingsAudioInput  `json:"input"`
	Output settingsAudioOutput `json:"output"`
}

type settingsAudioInput struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
}

type settingsAudioOutput struct {
	Encoding   string `json:"encoding"`
	SampleRate int    `json:"sample_rate"`
	Container  string `json:"container,omitempty"`
}

type settingsAgent struct {
	Language string         `json:"language,omitempty"`
	Listen   settingsListen `json:"listen"`
	Think    settingsThink  `json:"think"`
	Speak    settingsSpeak  `json:"speak"`
	Greeting string         `json:"greeting,omitempty"`
}

type settingsProvider struct {
	Type  string `json:"type"`
	Model string `json:"model,omitempty"`
}

type settingsListen struct {
	Provider settingsProvider `json:"provider"`
}

type settingsThink struct {
	Provider  settingsProvider               `json:"provider"`
	Prompt    string                         `json:"prompt,omitempty"`
	Functions []voiceagent.FunctionDefinition `json:"functions,omitempty"`
}

type settingsSpeak struct {
	Provider settingsProvider `json:"provider"`
}

type controlMessage struct {
	Type messageType `json:"type"`
}

type updatePromptMessage struct {
	Type   messageType `json:"type"`
	Prompt string      `json:"prompt"`
}

type injectMessage struct {
	Type    messageType `json:"type"`
	Content string      `json:"content"`
}

type functionCallResponseMessage struct {
	Type           messageType `json:"type"`
	FunctionCallID string      `json:"function_call_id"`
	Output         string      `json:"output"`
}

var (
	keepAliveMsg = controlMessage{Type: typeKeepAlive}
	clearMsg     = controlMessage{Type: typeClear}
	closeMsg     = controlMessage{Type: typeClose}
)

type conversationTextMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type functionCallRequestMessage struct {
	FunctionName   string          `json:"function_name"`
	FunctionCallID string          `json:"function_call_id"`
	Input          json.RawMessage `json:"input"`
}

type errorMessage struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
