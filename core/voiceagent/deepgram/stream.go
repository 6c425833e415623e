package deepgram

import (
	"context"
	"encoding/json"
	"log"

	"github.com/gorilla/websocket"
	"github.com/triadvoice/session-core/core/links"
	"github.com/triadvoice/session-core/core/voiceagent"
)

func (c *AgentClient) readAndProcessMessages(ctx context.Context, conn *websocket.Conn) {
	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if err.Error() != "websocket: close 1000 (normal)" {
				log.Println("Failed to read deepgram agent websocket message", "error", err)
			}

			c.connMu.Lock()
			if c.conn == conn {
				c.conn = nil
			}
			c.connMu.Unlock()
			conn.Close()

			if c.isClosing() || ctx.Err() != nil {
				c.setState(links.StateDisconnected)
				return
			}

			c.setState(links.StateDisconnected)
			c.supervise(ctx)
			return
		}

		if msgType == websocket.BinaryMessage {
			if c.options.AgentAudioCallback != nil && len(msg) > 0 {
				c.options.AgentAudioCallback(msg)
			}
			continue
		}

		c.processMessage(msg)
	}
}

// processMessage dispatches one inbound JSON control message. Malformed
// payloads are logged and dropped, never fatal.
func (c *AgentClient) processMessage(msg []byte) {
	var parsedMsg struct {
		Type messageType `json:"type"`
	}
	if err := json.Unmarshal(msg, &parsedMsg); err != nil {
		log.Println("Failed to unmarshal deepgram agent message", "error", err)
		return
	}

	switch parsedMsg.Type {
	case typeWelcome:
		if c.options.WelcomeCallback != nil {
			c.options.WelcomeCallback()
		}

	case typeSettingsApplied:
		c.setState(links.StateReady)
		if c.options.SettingsAppliedCallback != nil {
			c.options.SettingsAppliedCallback()
		}

	case typeUserStartedSpeaking:
		if c.options.UserSpeechStartedCallback != nil {
			c.options.UserSpeechStartedCallback()
		}

	case typeUserStoppedSpeaking:
		if c.options.UserSpeechEndedCallback != nil {
			c.options.UserSpeechEndedCallback()
		}

	case typeAgentStartedSpeak:
		if c.options.AgentSpeechStartedCallback != nil {
			c.options.AgentSpeechStartedCallback()
		}

	case typeAgentAudioDone:
		if c.options.AgentAudioDoneCallback != nil {
			c.options.AgentAudioDoneCallback()
		}

	case typeConversationText:
		var textMsg conversationTextMessage
		if err := json.Unmarshal(msg, &textMsg); err != nil {
			log.Println("Failed to unmarshal deepgram agent message", err)
			return
		}
		if c.options.ConversationTextCallback != nil {
			c.options.ConversationTextCallback(textMsg.Role, textMsg.Content)
		}

	case typePromptUpdated:
		if c.options.PromptUpdatedCallback != nil {
			c.options.PromptUpdatedCallback()
		}

	case typeFunctionCallRequest:
		var callMsg functionCallRequestMessage
		if err := json.Unmarshal(msg, &callMsg); err != nil {
			log.Println("Failed to unmarshal deepgram agent message", err)
			return
		}
		if c.options.FunctionCallRequestCallback != nil {
			c.options.FunctionCallRequestCallback(voiceagent.FunctionCallRequest{
				CallID: callMsg.FunctionCallID,
				Name:   callMsg.FunctionName,
				Input:  string(callMsg.Input),
			})
		}

	case typeError:
		var errMsg errorMessage
		if err := json.Unmarshal(msg, &errMsg); err != nil {
			log.Println("Failed to unmarshal deepgram agent message", err)
			return
		}
		if c.options.ErrorCallback != nil {
			c.options.ErrorCallback(errMsg.Code, errMsg.Message)
		}
	}
}
