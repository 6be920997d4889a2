package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"solace/internal/metrics"
	"solace/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Greeting opens every new chat session.
const Greeting = "Hi, I'm here to listen. What's on your mind today?"

// AnalysisFailedMessage is what the user sees when the classifier could
// not be reached.
const AnalysisFailedMessage = "Sorry, something went wrong while analyzing your message."

// SupportService runs the full pipeline for one message: crisis scan,
// sentiment and emotion classification, reply selection. One message in,
// one Analysis out, nothing stored.
type SupportService struct {
	classifier Classifier
	log        *zap.Logger
}

func NewSupportService(classifier Classifier, log *zap.Logger) *SupportService {
	return &SupportService{classifier: classifier, log: log}
}

// Respond analyzes one user message and returns the assistant's turn.
// The crisis scan runs before the external calls so helpline resources
// still go out during a classifier outage. Emotion classification is
// best effort and degrades to sentiment-only selection.
func (s *SupportService) Respond(ctx context.Context, text string) (models.Analysis, error) {
	if strings.TrimSpace(text) == "" {
		return models.Analysis{}, ErrEmptyText
	}

	crisis := DetectCrisis(text)
	if crisis {
		metrics.CrisisDetectionsTotal.Inc()
	}

	sentiment, err := s.classifier.ClassifySentiment(ctx, text)
	if err != nil {
		if !crisis {
			return models.Analysis{}, fmt.Errorf("classify sentiment: %w", err)
		}
		// The helpline reply must go out even when the classifier is down.
		s.log.Warn("sentiment classification failed on a crisis message", zap.Error(err))
		sentiment = models.SentimentResult{Label: models.SentimentNeutral, Score: 0.5}
	}

	emotion, emoErr := s.classifier.ClassifyEmotion(ctx, text)
	if emoErr != nil {
		s.log.Warn("emotion classification failed, selecting by sentiment only", zap.Error(emoErr))
		emotion = models.EmotionResult{Label: models.EmotionNeutral, Score: 0.5}
	}

	reply, kind := chooseReply(sentiment, emotion, text, crisis, emoErr != nil)
	metrics.RepliesTotal.WithLabelValues(kind).Inc()

	analysis := models.Analysis{
		MessageID: uuid.NewString(),
		Reply:     reply,
		Sentiment: sentiment,
		Emotion:   emotion,
		Crisis:    crisis,
		Meta:      buildMeta(sentiment, emotion, crisis),
		CreatedAt: time.Now().Unix(),
	}

	if !crisis && (sentiment.Label == models.SentimentNegative || isLowMood(emotion.Label)) {
		analysis.Tip = selectTip(text)
	}

	return analysis, nil
}

// chooseReply applies the combination rule across both classifier
// outputs. When the emotion call failed (degraded), selection falls back
// to the plain sentiment templates.
func chooseReply(sentiment models.SentimentResult, emotion models.EmotionResult, text string, crisis, degraded bool) (string, string) {
	switch {
	case crisis:
		return SelectReply(sentiment.Label, sentiment.Score, text), "crisis"
	case degraded:
		return SelectReply(sentiment.Label, sentiment.Score, text), "sentiment"
	case sentiment.Label == models.SentimentNegative || isLowMood(emotion.Label):
		return selectEmotionReply(emotion.Label, text), "low_mood"
	case sentiment.Label == models.SentimentPositive || emotion.Label == models.EmotionJoy:
		return selectEmotionReply(models.EmotionJoy, text), "joy"
	default:
		return selectEmotionReply(models.EmotionNeutral, text), "neutral"
	}
}

func buildMeta(sentiment models.SentimentResult, emotion models.EmotionResult, crisis bool) string {
	meta := fmt.Sprintf("Sentiment: %s (%.2f) | Emotion: %s (%.2f)",
		sentiment.Label, sentiment.Score, emotion.Label, emotion.Score)
	if crisis {
		meta += " | possible crisis language detected"
	}
	return meta
}
