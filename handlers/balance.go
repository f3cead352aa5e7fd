package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/23WH1A0515/Arogyasetu/agents"
	"github.com/23WH1A0515/Arogyasetu/models"
	"github.com/23WH1A0515/Arogyasetu/services"

	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	agent *agents.Agent
	cache *services.CacheService
}

func NewBalanceHandler(agent *agents.Agent, cache *services.CacheService) *BalanceHandler {
	return &BalanceHandler{agent: agent, cache: cache}
}

func (h *BalanceHandler) GetBalance(c *gin.Context) {
	const cacheKey = "balance:latest"

	if c.Query("refresh") != "1" {
		var cached models.BalanceResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Summary.TotalHospitals > 0 {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.agent.Balance(c.Request.Context())
	if err != nil {
		log.Printf("load balancing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load balancing failed"})
		return
	}

	go func() {
		ctx := context.Background()
		_ = h.cache.Set(ctx, cacheKey, result, 30*time.Second)
		publishAlerts(ctx, h.cache, result.Alerts)
	}()

	c.JSON(http.StatusOK, result)
}

type alertPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

// publishAlerts pushes every alert to the live channel. A failed publish is
// logged and skipped; the remaining alerts still go out.
func publishAlerts(ctx context.Context, pub alertPublisher, alerts []models.Alert) {
	for _, alert := range alerts {
		if err := pub.Publish(ctx, services.AlertsChannel, alert); err != nil {
			log.Printf("alert publish failed: %v", err)
		}
	}
}

func (h *BalanceHandler) GetFullAnalysis(c *gin.Context) {
	result, err := h.agent.FullAnalysis(c.Request.Context())
	if err != nil {
		log.Printf("full analysis failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "full analysis failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}
