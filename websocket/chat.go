package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"solace/internal/metrics"
	"solace/internal/ratelimit"
	"solace/middlewares"
	"solace/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	// In production, adjust the CheckOrigin function to allow only trusted origins.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is the frame exchanged with the chat page. One struct covers
// every frame type, unused fields stay empty.
type Message struct {
	Type           string  `json:"type"` // "greeting", "message", "typing", "reply", "tip", "error"
	Content        string  `json:"content,omitempty"`
	SentimentLabel string  `json:"sentimentLabel,omitempty"`
	SentimentScore float64 `json:"sentimentScore,omitempty"`
	EmotionLabel   string  `json:"emotionLabel,omitempty"`
	EmotionScore   float64 `json:"emotionScore,omitempty"`
	Crisis         bool    `json:"crisis,omitempty"`
	Meta           string  `json:"meta,omitempty"`
	MessageID      string  `json:"messageId,omitempty"`
	Timestamp      int64   `json:"timestamp,omitempty"`
}

// Client represents one open chat session
type Client struct {
	Conn         *websocket.Conn
	SessionID    string
	LastActivity time.Time
	writeMu      sync.Mutex
}

var (
	sessions      = make(map[*websocket.Conn]*Client)
	sessionsMutex sync.Mutex
)

var (
	supportService *services.SupportService
	limiter        *ratelimit.Limiter
	logger         *zap.Logger
)

// Init wires the chat socket to its dependencies
func Init(svc *services.SupportService, l *ratelimit.Limiter, log *zap.Logger) {
	supportService = svc
	limiter = l
	logger = log
}

// ChatHandler upgrades the connection and runs the per-session chat loop.
func ChatHandler(c *gin.Context) {
	sessionID := middlewares.SessionID(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		Conn:         conn,
		SessionID:    sessionID,
		LastActivity: time.Now(),
	}

	sessionsMutex.Lock()
	sessions[conn] = client
	sessionsMutex.Unlock()
	metrics.ActiveChatSessions.Inc()
	logger.Info("chat session opened", zap.String("sessionId", sessionID))

	defer func() {
		sessionsMutex.Lock()
		delete(sessions, conn)
		sessionsMutex.Unlock()
		metrics.ActiveChatSessions.Dec()
		conn.Close()
		logger.Info("chat session closed", zap.String("sessionId", sessionID))
	}()

	client.write(Message{Type: "greeting", Content: services.Greeting, Timestamp: time.Now().Unix()})

	// Listen for messages.
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read error", zap.String("sessionId", sessionID), zap.Error(err))
			}
			break
		}

		var msg Message
		if err := json.Unmarshal(raw, &msg); err != nil {
			logger.Warn("unparseable frame", zap.String("sessionId", sessionID), zap.Error(err))
			continue
		}

		client.LastActivity = time.Now()

		switch msg.Type {
		case "message":
			handleChatMessage(client, msg)
		default:
			logger.Debug("ignoring frame", zap.String("type", msg.Type), zap.String("sessionId", sessionID))
		}
	}
}

func handleChatMessage(client *Client, msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	allowed, err := limiter.Allow(ctx, client.SessionID)
	if err != nil {
		logger.Warn("rate limiter unavailable, allowing message", zap.Error(err))
		allowed = true
	}
	if !allowed {
		metrics.RateLimitedTotal.Inc()
		client.write(Message{Type: "error", Content: "too many messages, please slow down for a moment"})
		return
	}

	metrics.MessagesTotal.WithLabelValues("websocket").Inc()
	client.write(Message{Type: "typing"})

	analysis, err := supportService.Respond(ctx, msg.Content)
	if err != nil {
		logger.Error("message analysis failed", zap.String("sessionId", client.SessionID), zap.Error(err))
		client.write(Message{Type: "error", Content: services.AnalysisFailedMessage})
		return
	}

	client.write(Message{
		Type:           "reply",
		Content:        analysis.Reply,
		SentimentLabel: analysis.Sentiment.Label,
		SentimentScore: analysis.Sentiment.Score,
		EmotionLabel:   analysis.Emotion.Label,
		EmotionScore:   analysis.Emotion.Score,
		Crisis:         analysis.Crisis,
		Meta:           analysis.Meta,
		MessageID:      analysis.MessageID,
		Timestamp:      analysis.CreatedAt,
	})

	if analysis.Tip != "" {
		client.write(Message{Type: "tip", Content: analysis.Tip})
	}
}

func (cl *Client) write(msg Message) {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	if err := cl.Conn.WriteJSON(msg); err != nil {
		logger.Warn("websocket write failed", zap.String("sessionId", cl.SessionID), zap.Error(err))
	}
}

// ActiveSessions returns the number of open chat sessions.
func ActiveSessions() int {
	sessionsMutex.Lock()
	defer sessionsMutex.Unlock()
	return len(sessions)
}

// Shutdown closes every open chat session, telling clients the server
// is going away.
func Shutdown() {
	sessionsMutex.Lock()
	defer sessionsMutex.Unlock()
	for conn := range sessions {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(time.Second))
		conn.Close()
	}
	sessions = make(map[*websocket.Conn]*Client)
}
