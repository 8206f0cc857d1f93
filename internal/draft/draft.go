// Package draft generates candidate topic records with Gemini. The
// output matches the import payload schema, so drafted topics flow
// through the same validation and reconciliation as hand-written ones.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"google.golang.org/genai"

	"github.com/phodsawiR/MedGuideApp2/pkg/catalogs"
	"github.com/phodsawiR/MedGuideApp2/pkg/errors"
	"github.com/phodsawiR/MedGuideApp2/pkg/logging"
)

// DefaultModel is the Gemini model used for drafting.
const DefaultModel = "gemini-2.0-flash"

// Drafter asks Gemini for topic records in JSON form.
type Drafter struct {
	client *genai.Client
	model  string
	logger *zerolog.Logger
}

// Option configures a Drafter.
type Option func(*Drafter)

// WithModel overrides the Gemini model.
func WithModel(model string) Option {
	return func(d *Drafter) {
		d.model = model
	}
}

// WithLogger overrides the drafter's logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *Drafter) {
		d.logger = logger
	}
}

// New creates a Drafter against the Gemini API.
func New(ctx context.Context, apiKey string, opts ...Option) (*Drafter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, err
	}

	d := &Drafter{
		client: client,
		model:  DefaultModel,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// DraftTopics asks the model for count topic records covering the
// given body system. Records that fail validation are dropped.
func (d *Drafter) DraftTopics(ctx context.Context, system string, count int) (catalogs.Topics, error) {
	if count <= 0 {
		count = 5
	}

	prompt := buildPrompt(system, count)
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	}

	resp, err := d.client.Models.GenerateContent(ctx, d.model, genai.Text(prompt), config)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}

	topics, err := ParseTopics([]byte(resp.Text()))
	if err != nil {
		return nil, err
	}

	d.logger.Info().
		Str("system", system).
		Int("requested", count).
		Int("drafted", len(topics)).
		Msg("Topics drafted")
	return topics, nil
}

func buildPrompt(system string, count int) string {
	return fmt.Sprintf(`Generate %d high-yield medical exam study topics for the body system %q.
Respond with a JSON array. Each element must have exactly these fields:
  "system": %q
  "topic": short topic title
  "yield_score": integer 1-5, how often the topic is tested
  "keywords": array of short strings
  "summary": 1-3 sentence factual summary
  "exam_tip": one sentence, the classic exam trap or pearl
Do not include an "id" field.`, count, system, system)
}

// ParseTopics decodes a model response into validated topic records.
// It accepts either a bare JSON array or an object with a "topics"
// key. Records missing identity fields are dropped; yield scores are
// clamped into the 1-5 range.
func ParseTopics(data []byte) (catalogs.Topics, error) {
	raw := strings.TrimSpace(string(data))
	// Some models wrap JSON in a fenced code block despite the MIME
	// type hint.
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)

	var topics catalogs.Topics
	if err := json.Unmarshal([]byte(raw), &topics); err != nil {
		var wrapped struct {
			Topics catalogs.Topics `json:"topics"`
		}
		if err2 := json.Unmarshal([]byte(raw), &wrapped); err2 != nil {
			return nil, errors.WrapParse("json", "gemini response", err)
		}
		topics = wrapped.Topics
	}

	out := make(catalogs.Topics, 0, len(topics))
	for _, topic := range topics {
		if !topic.Identified() {
			continue
		}
		topic.ID = ""
		if topic.YieldScore < 1 {
			topic.YieldScore = 1
		}
		if topic.YieldScore > 5 {
			topic.YieldScore = 5
		}
		out = append(out, topic)
	}
	if len(out) == 0 {
		return nil, errors.New("no usable topics in response")
	}
	return out, nil
}
