package routes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"solace/config"
	"solace/controllers"
	"solace/internal/ratelimit"
	"solace/middlewares"
	"solace/models"
	"solace/services"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClassifier struct {
	sentiment    models.SentimentResult
	sentimentErr error
	emotion      models.EmotionResult
	emotionErr   error
}

func (s *stubClassifier) ClassifySentiment(ctx context.Context, text string) (models.SentimentResult, error) {
	return s.sentiment, s.sentimentErr
}

func (s *stubClassifier) ClassifyEmotion(ctx context.Context, text string) (models.EmotionResult, error) {
	return s.emotion, s.emotionErr
}

func lowMoodStub() *stubClassifier {
	return &stubClassifier{
		sentiment: models.SentimentResult{Label: models.SentimentNegative, Score: 0.9},
		emotion:   models.EmotionResult{Label: models.EmotionSadness, Score: 0.8},
	}
}

func setupChatRouter(t *testing.T, stub *stubClassifier, limiter *ratelimit.Limiter) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{}
	cfg.Classifier.Provider = "huggingface"
	cfg.Classifier.SentimentModel = "sentiment-model"
	cfg.Classifier.EmotionModel = "emotion-model"
	controllers.InitChatController(services.NewSupportService(stub, zap.NewNop()), cfg)

	router := gin.New()
	router.Use(middlewares.SessionMiddleware())
	api := router.Group("/api")
	SetupChatRoutes(api, limiter)
	router.GET("/healthz", controllers.HealthCheck)
	return router
}

func postJSON(router *gin.Engine, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSendMessageReturnsAnalysis(t *testing.T) {
	router := setupChatRouter(t, lowMoodStub(), nil)

	w := postJSON(router, "/api/chat/message", `{"text":"I feel really down today"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var analysis models.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.NotEmpty(t, analysis.MessageID)
	assert.NotEmpty(t, analysis.Reply)
	assert.Equal(t, models.SentimentNegative, analysis.Sentiment.Label)
	assert.Equal(t, models.EmotionSadness, analysis.Emotion.Label)
	assert.Equal(t, "Sentiment: NEGATIVE (0.90) | Emotion: sadness (0.80)", analysis.Meta)
	assert.NotEmpty(t, analysis.Tip)
	assert.False(t, analysis.Crisis)
	assert.Greater(t, analysis.CreatedAt, int64(0))
}

func TestSendMessageCrisis(t *testing.T) {
	router := setupChatRouter(t, lowMoodStub(), nil)

	w := postJSON(router, "/api/chat/message", `{"text":"I really can't go on"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var analysis models.Analysis
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &analysis))
	assert.True(t, analysis.Crisis)
	assert.Contains(t, analysis.Reply, "findahelpline.com")
	assert.Contains(t, analysis.Meta, "possible crisis language detected")
	assert.Empty(t, analysis.Tip)
}

func TestSendMessageValidation(t *testing.T) {
	router := setupChatRouter(t, lowMoodStub(), nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing text", `{}`},
		{"invalid json", `not-json`},
		{"whitespace only", `{"text":"   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(router, "/api/chat/message", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "text is required")
		})
	}
}

func TestSendMessageTooLong(t *testing.T) {
	router := setupChatRouter(t, lowMoodStub(), nil)

	body := `{"text":"` + strings.Repeat("a", 2001) + `"}`
	w := postJSON(router, "/api/chat/message", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "message too long")
}

func TestSendMessageClassifierFailure(t *testing.T) {
	stub := &stubClassifier{
		sentimentErr: services.ErrClassifierUnavailable,
		emotionErr:   services.ErrClassifierUnavailable,
	}
	router := setupChatRouter(t, stub, nil)

	w := postJSON(router, "/api/chat/message", `{"text":"hello there"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), services.AnalysisFailedMessage)
}

func TestSendMessageRateLimited(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	limiter := ratelimit.NewLimiter(rdb, ratelimit.Config{MaxMessages: 1, Window: time.Minute})

	router := setupChatRouter(t, lowMoodStub(), limiter)

	first := postJSON(router, "/api/chat/message", `{"text":"hello"}`)
	require.Equal(t, http.StatusOK, first.Code)

	// Carry the session cookie so both requests count against the same
	// window.
	cookies := first.Result().Cookies()
	require.NotEmpty(t, cookies)

	second := postJSON(router, "/api/chat/message", `{"text":"hello again"}`, cookies...)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "too many messages")
}

func TestResourcesEndpoint(t *testing.T) {
	router := setupChatRouter(t, lowMoodStub(), nil)

	w := getJSON(router, "/api/resources")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Resources  []models.HelplineResource `json:"resources"`
		Disclaimer string                    `json:"disclaimer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Resources, 3)
	assert.NotEmpty(t, resp.Disclaimer)
	for _, r := range resp.Resources {
		assert.NotEmpty(t, r.Name)
		assert.NotEmpty(t, r.Contact)
	}
}

func TestAboutEndpoint(t *testing.T) {
	router := setupChatRouter(t, lowMoodStub(), nil)

	w := getJSON(router, "/api/about")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Solace", resp["name"])
	assert.Equal(t, services.Greeting, resp["greeting"])
	assert.Equal(t, "huggingface", resp["provider"])
	assert.Equal(t, "sentiment-model", resp["sentimentModel"])
	assert.Equal(t, "emotion-model", resp["emotionModel"])
}

func TestHealthCheck(t *testing.T) {
	router := setupChatRouter(t, lowMoodStub(), nil)

	w := getJSON(router, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
	assert.Equal(t, "disabled", resp["redis"])
}
