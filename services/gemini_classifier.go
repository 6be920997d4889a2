package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"solace/config"
	"solace/internal/metrics"
	"solace/models"

	"go.uber.org/zap"
)

// GeminiClassifier scores messages by prompting a Gemini model for a
// strict JSON classification. It is the alternative provider for
// deployments that have a Gemini key instead of an Inference API token.
type GeminiClassifier struct {
	model   string
	timeout time.Duration
	log     *zap.Logger
}

func NewGeminiClassifier(cfg *config.Config, log *zap.Logger) *GeminiClassifier {
	model := cfg.Gemini.Model
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiClassifier{
		model:   model,
		timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		log:     log,
	}
}

const sentimentPromptTemplate = `Classify the overall sentiment of the message below.

Message: %q

"label" must be exactly one of POSITIVE, NEGATIVE or NEUTRAL. "score" is your confidence between 0 and 1. Respond with JSON only, no prose.

Required Output Format:
{
  "label": "POSITIVE",
  "score": 0.95
}`

const emotionPromptTemplate = `Classify the dominant emotion of the message below.

Message: %q

"label" must be exactly one of sadness, anger, fear, disgust, surprise, neutral or joy. "score" is your confidence between 0 and 1. Respond with JSON only, no prose.

Required Output Format:
{
  "label": "sadness",
  "score": 0.95
}`

func (g *GeminiClassifier) ClassifySentiment(ctx context.Context, text string) (models.SentimentResult, error) {
	label, score, err := g.classify(ctx, fmt.Sprintf(sentimentPromptTemplate, text))
	if err != nil {
		return models.SentimentResult{}, err
	}
	return normalizeSentiment(label, score), nil
}

func (g *GeminiClassifier) ClassifyEmotion(ctx context.Context, text string) (models.EmotionResult, error) {
	label, score, err := g.classify(ctx, fmt.Sprintf(emotionPromptTemplate, text))
	if err != nil {
		return models.EmotionResult{}, err
	}
	return normalizeEmotion(label, score), nil
}

func (g *GeminiClassifier) classify(ctx context.Context, prompt string) (string, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	start := time.Now()
	raw, err := generateModelText(ctx, g.model, prompt)
	metrics.ClassifierRequestDuration.WithLabelValues("gemini", g.model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues("gemini", g.model, "error").Inc()
		return "", 0, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
	}
	metrics.ClassifierRequestsTotal.WithLabelValues("gemini", g.model, "ok").Inc()

	label, score, err := parseClassification(raw)
	if err != nil {
		g.log.Warn("undecodable gemini classification", zap.String("raw", truncate(raw, 200)))
		return "", 0, err
	}
	return label, score, nil
}

// parseClassification decodes the model's JSON answer. Output fences are
// already stripped by generateModelText.
func parseClassification(raw string) (string, float64, error) {
	var out struct {
		Label string  `json:"label"`
		Score float64 `json:"score"`
	}
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrBadModelResponse, err)
	}
	if out.Label == "" {
		return "", 0, fmt.Errorf("%w: missing label", ErrBadModelResponse)
	}
	return out.Label, out.Score, nil
}
