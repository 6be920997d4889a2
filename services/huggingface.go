package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"solace/config"
	"solace/internal/metrics"
	"solace/models"

	"go.uber.org/zap"
)

// HuggingFaceClassifier calls the hosted text-classification endpoints
// of the Inference API, one model for sentiment and one for emotion.
type HuggingFaceClassifier struct {
	baseURL        string
	token          string
	sentimentModel string
	emotionModel   string
	maxRetries     int
	client         *http.Client
	log            *zap.Logger
}

func NewHuggingFaceClassifier(cfg *config.Config, log *zap.Logger) *HuggingFaceClassifier {
	return &HuggingFaceClassifier{
		baseURL:        strings.TrimRight(cfg.Classifier.BaseURL, "/"),
		token:          cfg.Classifier.APIToken,
		sentimentModel: cfg.Classifier.SentimentModel,
		emotionModel:   cfg.Classifier.EmotionModel,
		maxRetries:     cfg.Classifier.MaxRetries,
		client: &http.Client{
			Timeout: time.Duration(cfg.Classifier.TimeoutSeconds) * time.Second,
		},
		log: log,
	}
}

type inferenceScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

func (c *HuggingFaceClassifier) ClassifySentiment(ctx context.Context, text string) (models.SentimentResult, error) {
	label, score, err := c.classify(ctx, c.sentimentModel, text)
	if err != nil {
		return models.SentimentResult{}, err
	}
	return normalizeSentiment(label, score), nil
}

func (c *HuggingFaceClassifier) ClassifyEmotion(ctx context.Context, text string) (models.EmotionResult, error) {
	label, score, err := c.classify(ctx, c.emotionModel, text)
	if err != nil {
		return models.EmotionResult{}, err
	}
	return normalizeEmotion(label, score), nil
}

func (c *HuggingFaceClassifier) classify(ctx context.Context, model, text string) (string, float64, error) {
	payload, _ := json.Marshal(map[string]string{"inputs": text})
	url := fmt.Sprintf("%s/models/%s", c.baseURL, model)

	start := time.Now()
	body, err := c.post(ctx, url, payload)
	metrics.ClassifierRequestDuration.WithLabelValues("huggingface", model).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.ClassifierRequestsTotal.WithLabelValues("huggingface", model, "error").Inc()
		return "", 0, err
	}
	metrics.ClassifierRequestsTotal.WithLabelValues("huggingface", model, "ok").Inc()

	return pickTopLabel(body)
}

// post sends the payload with bounded retries and exponential backoff.
// Non-OK statuses are retried because the hosted API answers 503 while a
// sleeping model warms up. Context timeouts and cancellation stop the
// loop immediately.
func (c *HuggingFaceClassifier) post(ctx context.Context, url string, payload []byte) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, ctx.Err())
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.token != "" {
			req.Header.Set("Authorization", "Bearer "+c.token)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, err)
			}
			lastErr = err
			continue
		}

		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode == http.StatusOK {
			return data, nil
		}

		lastErr = fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(data), 200))
		c.log.Warn("classifier call failed",
			zap.String("url", url),
			zap.Int("attempt", attempt+1),
			zap.Error(lastErr))
	}

	return nil, fmt.Errorf("%w: %v", ErrClassifierUnavailable, lastErr)
}

// pickTopLabel decodes the API response and returns the highest-scoring
// label. Single inputs usually answer the nested form
// [[{label,score},...]], some models answer the flat form.
func pickTopLabel(body []byte) (string, float64, error) {
	var nested [][]inferenceScore
	if err := json.Unmarshal(body, &nested); err == nil && len(nested) > 0 {
		return topScore(nested[0])
	}

	var flat []inferenceScore
	if err := json.Unmarshal(body, &flat); err == nil && len(flat) > 0 {
		return topScore(flat)
	}

	return "", 0, fmt.Errorf("%w: %s", ErrBadModelResponse, truncate(string(body), 200))
}

func topScore(scores []inferenceScore) (string, float64, error) {
	if len(scores) == 0 {
		return "", 0, ErrBadModelResponse
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s.Score > best.Score {
			best = s
		}
	}
	return best.Label, best.Score, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
