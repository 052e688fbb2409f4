package session

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"

	"github.com/statline/dugout/internal/anthropic"
	"github.com/statline/dugout/internal/config"
)

var (
	encoderOnce sync.Once
	encoder     *tiktoken.Tiktoken
)

// contextEncoder lazily loads a BPE encoding for context-size estimates.
// Anthropic doesn't publish its tokenizer; cl100k_base is close enough for
// a rough usage display.
func contextEncoder() *tiktoken.Tiktoken {
	encoderOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			log.Debug().Err(err).Msg("tokenizer unavailable, falling back to character estimate")
			return
		}
		encoder = enc
	})
	return encoder
}

// estimateContextTokens approximates the token footprint of the live
// history, the bulk of the next request's input cost.
func (s *Session) estimateContextTokens() int {
	var text string
	for _, m := range s.history {
		for _, b := range m.Content {
			switch b.Type {
			case anthropic.BlockText:
				text += b.Text
			case anthropic.BlockToolResult:
				text += b.Content
			case anthropic.BlockToolUse:
				text += string(b.Input)
			}
		}
	}

	if enc := contextEncoder(); enc != nil {
		return len(enc.Encode(text, nil, nil))
	}
	return len(text) / config.TokenEstimateRatio
}
