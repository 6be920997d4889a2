package controllers

import (
	"context"
	"errors"
	"time"

	"solace/config"
	"solace/internal/metrics"
	"solace/internal/ratelimit"
	"solace/models"
	"solace/services"

	"github.com/gin-gonic/gin"
)

const maxMessageLength = 2000

var (
	supportService *services.SupportService
	appConfig      *config.Config
)

// InitChatController wires the chat endpoints to the support pipeline
func InitChatController(svc *services.SupportService, cfg *config.Config) {
	supportService = svc
	appConfig = cfg
}

// SendChatMessage analyzes one user message and returns the assistant's turn
func SendChatMessage(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"error": "text is required"})
		return
	}
	if len(req.Text) > maxMessageLength {
		c.JSON(400, gin.H{"error": "message too long"})
		return
	}

	metrics.MessagesTotal.WithLabelValues("http").Inc()

	analysis, err := supportService.Respond(c.Request.Context(), req.Text)
	if err != nil {
		if errors.Is(err, services.ErrEmptyText) {
			c.JSON(400, gin.H{"error": "text is required"})
			return
		}
		c.JSON(502, gin.H{"error": services.AnalysisFailedMessage})
		return
	}

	c.JSON(200, analysis)
}

// GetResources returns the helpline directory shown in the sidebar
func GetResources(c *gin.Context) {
	c.JSON(200, gin.H{
		"resources":  services.CrisisResources(),
		"disclaimer": services.Disclaimer,
	})
}

// GetAbout describes the service and the models behind it
func GetAbout(c *gin.Context) {
	c.JSON(200, gin.H{
		"name":           "Solace",
		"greeting":       services.Greeting,
		"provider":       appConfig.Classifier.Provider,
		"sentimentModel": appConfig.Classifier.SentimentModel,
		"emotionModel":   appConfig.Classifier.EmotionModel,
		"disclaimer":     services.Disclaimer,
	})
}

// HealthCheck reports liveness and dependency status
func HealthCheck(c *gin.Context) {
	redisStatus := "disabled"
	if rdb := ratelimit.GetRedisClient(); rdb != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 500*time.Millisecond)
		defer cancel()
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisStatus = "unreachable"
		} else {
			redisStatus = "ok"
		}
	}

	c.JSON(200, gin.H{
		"status":   "ok",
		"provider": appConfig.Classifier.Provider,
		"redis":    redisStatus,
	})
}
