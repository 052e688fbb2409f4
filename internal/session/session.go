// Package session owns the conversation: the ordered message history, the
// interactive command set, and the turn protocol against the model.
//
// DESIGN: History mutations are append, clear (truncate to the system
// prompt) and rollback (truncate to a checkpoint taken before each turn).
// A failed turn is rolled back exactly: a dangling user message with no
// assistant reply would corrupt the context of every later request, so the
// pre-turn length is restored and nothing is billed.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/statline/dugout/internal/anthropic"
	"github.com/statline/dugout/internal/config"
	"github.com/statline/dugout/internal/costcontrol"
	"github.com/statline/dugout/internal/models"
	"github.com/statline/dugout/internal/telemetry"
)

// Journal is the optional turn audit sink (implemented by
// telemetry.Journal).
type Journal interface {
	Record(ctx context.Context, rec telemetry.TurnRecord)
}

// Session is the conversational state machine. Not safe for concurrent
// use: the REPL resolves one input at a time.
type Session struct {
	history  []anthropic.Message
	sender   anthropic.TurnSender
	registry *models.Registry
	ledger   *costcontrol.Ledger
	journal  Journal // nil when journaling is disabled

	active    models.Descriptor
	maxTokens int
	tools     []anthropic.ToolDefinition
}

// New builds a session starting on modelKey.
func New(sender anthropic.TurnSender, registry *models.Registry, ledger *costcontrol.Ledger, tools []anthropic.ToolDefinition, modelKey string) (*Session, error) {
	active, ok := registry.Resolve(modelKey)
	if !ok {
		return nil, fmt.Errorf("unknown model %q (available: %s)", modelKey, strings.Join(registry.Keys(), ", "))
	}
	return &Session{
		history:   []anthropic.Message{anthropic.TextMessage(anthropic.RoleSystem, systemPrompt)},
		sender:    sender,
		registry:  registry,
		ledger:    ledger,
		active:    active,
		maxTokens: config.DefaultMaxOutputTokens,
		tools:     tools,
	}, nil
}

// WithJournal attaches a turn audit sink.
func (s *Session) WithJournal(j Journal) *Session {
	s.journal = j
	return s
}

// ActiveModel returns the currently active descriptor.
func (s *Session) ActiveModel() models.Descriptor {
	return s.active
}

// HistoryLen returns the current history length (system prompt included).
func (s *Session) HistoryLen() int {
	return len(s.history)
}

// Outcome is what the shell prints after one input line.
type Outcome struct {
	Output string
	Quit   bool
}

// HandleInput processes one input line: a recognized command is handled
// synchronously; anything else becomes a conversational turn.
func (s *Session) HandleInput(ctx context.Context, line string) Outcome {
	input := strings.TrimSpace(line)
	if input == "" {
		return Outcome{}
	}

	switch strings.ToLower(input) {
	case "quit", "exit":
		return Outcome{Quit: true}
	case "clear":
		s.history = s.history[:1]
		return Outcome{Output: "[Conversation cleared]\n"}
	case "usage":
		return Outcome{Output: s.usageReport()}
	}
	if key, ok := parseModelCommand(input); ok {
		return Outcome{Output: s.switchModel(key)}
	}

	return s.runTurn(ctx, input)
}

// parseModelCommand recognizes "model <key>", case-insensitive keyword,
// splitting on the first space.
func parseModelCommand(input string) (string, bool) {
	parts := strings.SplitN(input, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "model") {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(parts[1])), true
}

func (s *Session) switchModel(key string) string {
	d, ok := s.registry.Resolve(key)
	if !ok {
		return fmt.Sprintf("[Unknown model. Available: %s]\n", strings.Join(s.registry.Keys(), ", "))
	}
	s.active = d
	log.Info().Str("model", d.ID).Msg("model switched")
	return fmt.Sprintf("[Switched to %s: %s]\n", strings.ToUpper(d.Key), d.Description)
}

// runTurn drives one turn: checkpoint, append the user message, send the
// whole history, then either commit the returned messages and bill the
// ledger, or roll back.
func (s *Session) runTurn(ctx context.Context, input string) Outcome {
	checkpoint := len(s.history)
	s.history = append(s.history, anthropic.TextMessage(anthropic.RoleUser, input))

	// Capture the descriptor at dispatch: a later model switch must not
	// reprice this turn.
	active := s.active

	result, err := s.sender.SendTurn(ctx, s.history, anthropic.TurnOptions{
		Model:     active.ID,
		MaxTokens: s.maxTokens,
		Tools:     s.tools,
	})
	if err != nil {
		s.history = s.history[:checkpoint]
		log.Warn().Err(err).Msg("turn failed, history rolled back")
		return Outcome{Output: fmt.Sprintf(
			"\nError: %v\n[Conversation rolled back to prevent corruption. Try 'clear' if issues persist.]\n", err)}
	}

	s.history = append(s.history, result.Messages...)
	cost := s.ledger.Record(active, result.Usage.InputTokens, result.Usage.OutputTokens)

	if s.journal != nil {
		s.journal.Record(ctx, telemetry.TurnRecord{
			ID:           uuid.NewString(),
			At:           time.Now(),
			Model:        active.ID,
			InputTokens:  result.Usage.InputTokens,
			OutputTokens: result.Usage.OutputTokens,
			CostUSD:      cost,
		})
	}

	totals := s.ledger.Totals()
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nClaude: %s\n\n", result.Text)
	fmt.Fprintf(&sb, "[%s | Tokens: %s in / %s out | Cost: %s]\n",
		strings.ToUpper(active.Key),
		groupDigits(result.Usage.InputTokens), groupDigits(result.Usage.OutputTokens),
		costcontrol.FormatCost(cost))
	fmt.Fprintf(&sb, "[Session total: %s in / %s out | %s]\n",
		groupDigits(totals.InputTokens), groupDigits(totals.OutputTokens),
		costcontrol.FormatCost(totals.Cost))
	return Outcome{Output: sb.String()}
}

func (s *Session) usageReport() string {
	totals := s.ledger.Totals()
	var sb strings.Builder
	sb.WriteString("\n=== SESSION USAGE ===\n")
	fmt.Fprintf(&sb, "Current model: %s\n", strings.ToUpper(s.active.Key))
	fmt.Fprintf(&sb, "Input tokens:  %s\n", groupDigits(totals.InputTokens))
	fmt.Fprintf(&sb, "Output tokens: %s\n", groupDigits(totals.OutputTokens))
	fmt.Fprintf(&sb, "Total tokens:  %s\n", groupDigits(totals.InputTokens+totals.OutputTokens))
	fmt.Fprintf(&sb, "Est. cost:     %s\n", costcontrol.FormatCost(totals.Cost))
	fmt.Fprintf(&sb, "Messages:      %d (excluding system)\n", len(s.history)-1)
	fmt.Fprintf(&sb, "Context est.:  ~%d tokens\n", s.estimateContextTokens())
	return sb.String()
}

// groupDigits formats n with thousands separators.
func groupDigits(n int64) string {
	raw := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(raw, "-")
	if neg {
		raw = raw[1:]
	}
	var sb strings.Builder
	for i, c := range raw {
		if i > 0 && (len(raw)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(c)
	}
	if neg {
		return "-" + sb.String()
	}
	return sb.String()
}
