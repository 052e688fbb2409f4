// Package anthropic types - message, tool and turn contracts.
//
// DESIGN: Types used by the client and the conversation session for:
//   - Conversation history (ordered messages of content blocks)
//   - Tool definitions exposed to the model
//   - The turn protocol (SendTurn request/result)
//
// The struct JSON tags match the Messages API wire format so history
// marshals directly into requests.
package anthropic

import (
	"context"
	"encoding/json"
)

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Content block types.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Stop reasons.
const (
	StopToolUse = "tool_use"
	StopEndTurn = "end_turn"
)

// ContentBlock is one element of a message body: text, a tool invocation
// requested by the model, or a tool result fed back to it.
type ContentBlock struct {
	Type string `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
}

// Message is one entry in the conversation history.
type Message struct {
	Role    string         `json:"role"`
	Content []ContentBlock `json:"content"`
}

// TextMessage builds a single-text-block message.
func TextMessage(role, text string) Message {
	return Message{Role: role, Content: []ContentBlock{{Type: BlockText, Text: text}}}
}

// PlainText concatenates the text blocks of a message.
func (m Message) PlainText() string {
	var out string
	for _, b := range m.Content {
		if b.Type == BlockText {
			out += b.Text
		}
	}
	return out
}

// Usage is the token measurement for one model request or one whole turn.
type Usage struct {
	InputTokens  int64 `json:"input_tokens"`
	OutputTokens int64 `json:"output_tokens"`
}

// Add accumulates another measurement (a turn spans several requests when
// tools are invoked).
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}

// ToolDefinition describes one tool exposed to the model. Static for the
// process lifetime.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"input_schema"`
}

// ToolExecutor runs a tool invocation and returns its textual result.
// The result is always a string, success or failure: the model only
// understands text, so execution errors come back as error strings rather
// than Go errors.
type ToolExecutor interface {
	Execute(ctx context.Context, name string, input json.RawMessage) string
}

// TurnOptions carries the per-turn request parameters.
type TurnOptions struct {
	Model     string
	MaxTokens int
	Tools     []ToolDefinition
}

// TurnResult is the assembled outcome of one turn: every message generated
// during the turn (assistant tool calls, tool results, final assistant
// reply) in order, the final text, and the summed usage.
type TurnResult struct {
	Messages []Message
	Text     string
	Usage    Usage
}

// TurnSender drives one conversational turn, including any tool round
// trips, against the model provider. Implemented by Client; faked in tests.
type TurnSender interface {
	SendTurn(ctx context.Context, history []Message, opts TurnOptions) (*TurnResult, error)
}
