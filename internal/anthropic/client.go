// Package anthropic implements a Messages API client with an automatic
// tool-invocation loop.
//
// DESIGN: SendTurn owns the multi-step exchange: while the model stops for
// tool use, each requested tool runs synchronously in provider order, the
// results are appended as a user message of tool_result blocks, and the
// conversation is re-sent. The caller gets back every message generated
// during the turn so it can keep its history consistent.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	defaultBaseURL = "https://api.anthropic.com/v1/messages"
	apiVersion     = "2023-06-01"

	// defaultMaxRounds bounds the tool loop within one turn. A schema fetch
	// plus a few query retries fits comfortably; a model stuck re-querying
	// gets cut off rather than billed forever.
	defaultMaxRounds = 10
)

// Client talks to the Anthropic Messages API and executes tool invocations
// through an injected ToolExecutor.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	executor   ToolExecutor
	maxRounds  int
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests).
func WithBaseURL(url string) Option {
	return func(c *Client) { c.baseURL = url }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// WithMaxRounds overrides the tool-loop bound.
func WithMaxRounds(n int) Option {
	return func(c *Client) { c.maxRounds = n }
}

// NewClient builds a client. The executor handles tool invocations the
// model requests mid-turn.
func NewClient(apiKey string, executor ToolExecutor, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		executor:   executor,
		maxRounds:  defaultMaxRounds,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// apiRequest is the Messages API request body.
type apiRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Messages  []Message        `json:"messages"`
	Tools     []ToolDefinition `json:"tools,omitempty"`
}

// apiResponse is the Messages API response body.
type apiResponse struct {
	ID         string         `json:"id"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

// SendTurn implements TurnSender. history[0] with role system becomes the
// top-level system field; it is never sent as a message.
func (c *Client) SendTurn(ctx context.Context, history []Message, opts TurnOptions) (*TurnResult, error) {
	turnID := uuid.NewString()

	system := ""
	messages := make([]Message, 0, len(history))
	for i, m := range history {
		if i == 0 && m.Role == RoleSystem {
			system = m.PlainText()
			continue
		}
		messages = append(messages, m)
	}

	result := &TurnResult{}
	for round := 0; round < c.maxRounds; round++ {
		resp, err := c.send(ctx, apiRequest{
			Model:     opts.Model,
			MaxTokens: opts.MaxTokens,
			System:    system,
			Messages:  messages,
			Tools:     opts.Tools,
		}, turnID)
		if err != nil {
			return nil, err
		}

		result.Usage.Add(resp.Usage)

		assistant := Message{Role: RoleAssistant, Content: resp.Content}
		messages = append(messages, assistant)
		result.Messages = append(result.Messages, assistant)
		result.Text = assistant.PlainText()

		log.Debug().
			Str("turn_id", turnID).
			Int("round", round).
			Str("stop_reason", resp.StopReason).
			Int64("input_tokens", resp.Usage.InputTokens).
			Int64("output_tokens", resp.Usage.OutputTokens).
			Msg("model response")

		if resp.StopReason != StopToolUse {
			return result, nil
		}

		toolResults := c.runTools(ctx, turnID, resp.Content)
		if len(toolResults) == 0 {
			// Stop reason claimed tool use but no tool_use blocks came back.
			return result, nil
		}
		feedback := Message{Role: RoleUser, Content: toolResults}
		messages = append(messages, feedback)
		result.Messages = append(result.Messages, feedback)
	}

	log.Warn().Str("turn_id", turnID).Int("max_rounds", c.maxRounds).Msg("tool loop bound reached")
	return result, nil
}

// runTools executes each tool_use block synchronously, in the order the
// model requested them, and returns the matching tool_result blocks.
func (c *Client) runTools(ctx context.Context, turnID string, blocks []ContentBlock) []ContentBlock {
	var results []ContentBlock
	for _, b := range blocks {
		if b.Type != BlockToolUse {
			continue
		}
		started := time.Now()
		output := c.executor.Execute(ctx, b.Name, b.Input)
		log.Debug().
			Str("turn_id", turnID).
			Str("tool", b.Name).
			Dur("duration", time.Since(started)).
			Int("result_bytes", len(output)).
			Msg("tool executed")
		results = append(results, ContentBlock{
			Type:      BlockToolResult,
			ToolUseID: b.ID,
			Content:   output,
		})
	}
	return results
}

func (c *Client) send(ctx context.Context, reqBody apiRequest, turnID string) (*apiResponse, error) {
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	if e := log.Debug(); e.Enabled() {
		// The system prompt dominates the payload; elide it from debug dumps.
		redacted, rerr := sjson.SetBytes(body, "system", "[elided]")
		if rerr != nil {
			redacted = []byte("{}")
		}
		e.Str("turn_id", turnID).RawJSON("request", redacted).Msg("sending request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Anthropic-Version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apiError(resp.StatusCode, respBody)
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("unmarshaling response: %w", err)
	}
	return &parsed, nil
}

// apiError extracts the provider's error message from a non-200 body.
func apiError(status int, body []byte) error {
	if msg := gjson.GetBytes(body, "error.message").String(); msg != "" {
		return fmt.Errorf("anthropic api error (status %d): %s", status, msg)
	}
	return fmt.Errorf("anthropic api error (status %d)", status)
}
