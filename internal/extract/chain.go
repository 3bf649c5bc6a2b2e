package extract

import (
	"context"
	"log/slog"

	"voice-reservations/internal/dialogue"
)

// Chain tries the AI extractor first and falls back to deterministic rules
// when the AI is unavailable, errors out, or finds nothing. Both strategies
// see the same utterance; candidates for fields the session already holds
// are suppressed either way.
type Chain struct {
	ai    dialogue.Extractor
	rules dialogue.Extractor
	log   *slog.Logger
}

// NewChain builds the fallback chain. ai may be nil, in which case every
// utterance goes straight to the rules.
func NewChain(ai, rules dialogue.Extractor, log *slog.Logger) *Chain {
	if log == nil {
		log = slog.Default()
	}
	return &Chain{ai: ai, rules: rules, log: log}
}

func (c *Chain) Extract(ctx context.Context, req dialogue.ExtractRequest) ([]dialogue.Candidate, error) {
	if c.ai != nil {
		cands, err := c.ai.Extract(ctx, req)
		if err == nil && len(cands) > 0 {
			return suppress(cands, req.Known), nil
		}
		if err != nil {
			c.log.Warn("ai extraction failed, using rules", "err", err)
		}
	}
	cands, err := c.rules.Extract(ctx, req)
	if err != nil {
		return nil, err
	}
	return suppress(cands, req.Known), nil
}

func suppress(cands []dialogue.Candidate, known map[dialogue.Field]bool) []dialogue.Candidate {
	if len(known) == 0 {
		return cands
	}
	out := cands[:0]
	for _, cand := range cands {
		if !known[cand.Field] {
			out = append(out, cand)
		}
	}
	return out
}
