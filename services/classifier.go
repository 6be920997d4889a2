package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"solace/config"
	"solace/models"

	"go.uber.org/zap"
)

var (
	// ErrClassifierUnavailable means the classifier API could not be reached
	// or kept failing after retries.
	ErrClassifierUnavailable = errors.New("classifier unavailable")

	// ErrBadModelResponse means the classifier API answered with a payload
	// that could not be decoded into a label and score.
	ErrBadModelResponse = errors.New("unexpected classifier response")

	// ErrEmptyText rejects blank messages before any API call.
	ErrEmptyText = errors.New("empty message text")
)

// Classifier scores a message on the external inference backend.
type Classifier interface {
	ClassifySentiment(ctx context.Context, text string) (models.SentimentResult, error)
	ClassifyEmotion(ctx context.Context, text string) (models.EmotionResult, error)
}

// NewClassifierFromConfig builds the classifier selected by
// classifier.provider in the config file.
func NewClassifierFromConfig(cfg *config.Config, log *zap.Logger) (Classifier, error) {
	switch cfg.Classifier.Provider {
	case "huggingface":
		return NewHuggingFaceClassifier(cfg, log), nil
	case "gemini":
		if err := InitGeminiService(cfg); err != nil {
			return nil, err
		}
		return NewGeminiClassifier(cfg, log), nil
	default:
		return nil, fmt.Errorf("unknown classifier provider %q", cfg.Classifier.Provider)
	}
}

// normalizeSentiment maps raw model output onto the closed label set.
// Unknown labels come back as NEUTRAL with a 0.5 score.
func normalizeSentiment(label string, score float64) models.SentimentResult {
	label = strings.ToUpper(strings.TrimSpace(label))
	switch label {
	case models.SentimentPositive, models.SentimentNegative, models.SentimentNeutral:
		return models.SentimentResult{Label: label, Score: clampScore(score)}
	}
	return models.SentimentResult{Label: models.SentimentNeutral, Score: 0.5}
}

// normalizeEmotion lowercases the raw emotion label. Labels outside the
// known set are kept as-is; the responder falls back to neutral templates
// for anything it does not recognize.
func normalizeEmotion(label string, score float64) models.EmotionResult {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return models.EmotionResult{Label: models.EmotionNeutral, Score: 0.5}
	}
	return models.EmotionResult{Label: label, Score: clampScore(score)}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
