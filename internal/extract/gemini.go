package extract

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"voice-reservations/internal/dialogue"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// ErrUnavailable signals that the AI strategy could not be reached (missing
// credentials, network or service failure) and the caller should fall back.
var ErrUnavailable = errors.New("extract: ai extractor unavailable")

const aiConfidence = 0.9

// GeminiExtractor asks a generative model to pull reservation fields out of
// an utterance. Every model call is bounded by a timeout so a slow service
// degrades to the rule fallback instead of stalling the turn.
type GeminiExtractor struct {
	model   *genai.GenerativeModel
	timeout time.Duration
	log     *slog.Logger
}

func NewGeminiExtractor(ctx context.Context, apiKey, modelName string, timeout time.Duration, log *slog.Logger) (*GeminiExtractor, error) {
	if apiKey == "" {
		return nil, errors.New("extract: api key is required")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("extract: create gemini client: %w", err)
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	if log == nil {
		log = slog.Default()
	}
	return &GeminiExtractor{model: model, timeout: timeout, log: log}, nil
}

// aiPayload is the JSON shape the prompt demands. PartySize tolerates the
// model answering with a quoted number.
type aiPayload struct {
	Name            string      `json:"name"`
	Date            string      `json:"date"`
	Time            string      `json:"time"`
	PartySize       json.Number `json:"party_size"`
	SpecialRequests string      `json:"special_requests"`
}

func (g *GeminiExtractor) Extract(ctx context.Context, req dialogue.ExtractRequest) ([]dialogue.Candidate, error) {
	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.model.GenerateContent(callCtx, genai.Text(g.buildPrompt(req, now)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	text := collectText(resp)
	var p aiPayload
	if err := json.Unmarshal([]byte(stripFences(text)), &p); err != nil {
		// A malformed model reply yields zero candidates, never an error to
		// the dialogue; the chain falls back to rules.
		g.log.Debug("gemini reply not parseable", "err", err)
		return nil, nil
	}
	return g.candidates(p, req.Known), nil
}

func (g *GeminiExtractor) buildPrompt(req dialogue.ExtractRequest, now time.Time) string {
	var needed []string
	for _, f := range []dialogue.Field{
		dialogue.FieldName, dialogue.FieldDate, dialogue.FieldTime,
		dialogue.FieldPartySize, dialogue.FieldSpecialRequests,
	} {
		if !req.Known[f] {
			needed = append(needed, string(f))
		}
	}

	var b strings.Builder
	b.WriteString("Extract restaurant reservation details from one caller utterance.\n")
	b.WriteString("Fields still needed: " + strings.Join(needed, ", ") + ".\n")
	b.WriteString("Today's date is " + now.Format("2006-01-02") + " (" + now.Weekday().String() + "); resolve relative dates like \"tomorrow\" or weekday names against it.\n")
	b.WriteString("Convert times to 24-hour HH:MM and dates to YYYY-MM-DD.\n")
	b.WriteString("Reply with a single JSON object using only these keys, omitting any field the caller did not state:\n")
	b.WriteString(`{"name":"John Doe","date":"2024-03-15","time":"19:00","party_size":2,"special_requests":"window seat"}` + "\n")
	b.WriteString("Do not include any other text.\n\nCaller said:\n\"" + req.Utterance + "\"\n")
	return b.String()
}

// candidates validates each extracted value; a malformed field is dropped on
// its own, the rest survive.
func (g *GeminiExtractor) candidates(p aiPayload, known map[dialogue.Field]bool) []dialogue.Candidate {
	var out []dialogue.Candidate

	if p.Name != "" && !known[dialogue.FieldName] {
		out = append(out, dialogue.Candidate{
			Field:      dialogue.FieldName,
			Value:      dialogue.Value{Text: strings.TrimSpace(p.Name)},
			Confidence: aiConfidence,
		})
	}
	if p.Date != "" && !known[dialogue.FieldDate] {
		if d, err := time.ParseInLocation("2006-01-02", p.Date, time.UTC); err == nil {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldDate,
				Value:      dialogue.Value{Date: d},
				Confidence: aiConfidence,
			})
		}
	}
	if p.Time != "" && !known[dialogue.FieldTime] {
		if c, err := dialogue.ParseClock(p.Time); err == nil {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldTime,
				Value:      dialogue.Value{Clock: c},
				Confidence: aiConfidence,
			})
		}
	}
	if p.PartySize != "" && !known[dialogue.FieldPartySize] {
		if n, err := p.PartySize.Int64(); err == nil && n >= 1 && n <= 50 {
			out = append(out, dialogue.Candidate{
				Field:      dialogue.FieldPartySize,
				Value:      dialogue.Value{Count: int(n)},
				Confidence: aiConfidence,
			})
		}
	}
	if p.SpecialRequests != "" && !known[dialogue.FieldSpecialRequests] {
		out = append(out, dialogue.Candidate{
			Field:      dialogue.FieldSpecialRequests,
			Value:      dialogue.Value{Text: strings.TrimSpace(p.SpecialRequests)},
			Confidence: aiConfidence,
		})
	}
	return out
}

func collectText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
	}
	return sb.String()
}

// stripFences removes markdown code fences some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
