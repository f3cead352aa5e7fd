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

type SurgeHandler struct {
	agent *agents.Agent
	cache *services.CacheService
}

func NewSurgeHandler(agent *agents.Agent, cache *services.CacheService) *SurgeHandler {
	return &SurgeHandler{agent: agent, cache: cache}
}

func (h *SurgeHandler) GetSurge(c *gin.Context) {
	const cacheKey = "surge:latest"

	if c.Query("refresh") != "1" {
		var cached models.SurgeResult
		if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && len(cached.Predictions) > 0 {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	result, err := h.agent.Surge(c.Request.Context())
	if err != nil {
		log.Printf("surge prediction failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "surge prediction failed"})
		return
	}

	go h.cache.Set(context.Background(), cacheKey, result, 30*time.Second)

	c.JSON(http.StatusOK, result)
}
