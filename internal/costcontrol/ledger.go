// Package costcontrol implements session cost tracking.
//
// DESIGN: Tracking is always active and monotonic for the process lifetime.
// Clearing the conversation does not reset the ledger: past API calls were
// already billed, so the counters only move forward until restart.
package costcontrol

import (
	"fmt"
	"sync"

	"github.com/statline/dugout/internal/models"
)

// CalculateCost computes the USD cost of one request from token counts and
// per-million-token pricing.
func CalculateCost(inputTokens, outputTokens int64, d models.Descriptor) float64 {
	inputCost := float64(inputTokens) / 1_000_000 * d.InputPerMTok
	outputCost := float64(outputTokens) / 1_000_000 * d.OutputPerMTok
	return inputCost + outputCost
}

// FormatCost renders a USD amount. Sub-cent amounts get four decimal places
// so small per-request costs don't all display as $0.00.
func FormatCost(cost float64) string {
	if cost < 0.01 {
		return fmt.Sprintf("$%.4f", cost)
	}
	return fmt.Sprintf("$%.2f", cost)
}

// Ledger accumulates token usage and cost for one session.
type Ledger struct {
	mu           sync.Mutex
	inputTokens  int64
	outputTokens int64
	cost         float64
	requests     int
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// Record bills one request at the given model's pricing and returns the
// incremental cost. The descriptor must be the one active when the usage
// measurement was received; switching models never reprices past requests.
func (l *Ledger) Record(d models.Descriptor, inputTokens, outputTokens int64) float64 {
	cost := CalculateCost(inputTokens, outputTokens, d)

	l.mu.Lock()
	defer l.mu.Unlock()
	l.inputTokens += inputTokens
	l.outputTokens += outputTokens
	l.cost += cost
	l.requests++
	return cost
}

// Snapshot is a read-only copy of the ledger totals.
type Snapshot struct {
	InputTokens  int64
	OutputTokens int64
	Cost         float64
	Requests     int
}

// Totals returns the current session totals.
func (l *Ledger) Totals() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		InputTokens:  l.inputTokens,
		OutputTokens: l.outputTokens,
		Cost:         l.cost,
		Requests:     l.requests,
	}
}
