package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/23WH1A0515/Arogyasetu/agents"
	"github.com/23WH1A0515/Arogyasetu/models"
	"github.com/23WH1A0515/Arogyasetu/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HospitalsHandler struct {
	db    *gorm.DB
	agent *agents.Agent
	cache *services.CacheService
}

func NewHospitalsHandler(db *gorm.DB, agent *agents.Agent, cache *services.CacheService) *HospitalsHandler {
	return &HospitalsHandler{db: db, agent: agent, cache: cache}
}

func (h *HospitalsHandler) GetHospitals(c *gin.Context) {
	const cacheKey = "hospitals:all"

	var cached struct {
		Data []models.Hospital `json:"data"`
	}
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	var hospitals []models.Hospital
	if err := h.db.Order("hospital_id").Find(&hospitals).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	resp := gin.H{"data": hospitals}
	go h.cache.Set(context.Background(), cacheKey, resp, 60*time.Second)

	c.JSON(http.StatusOK, resp)
}

func (h *HospitalsHandler) GetHospitalStatus(c *gin.Context) {
	hospitalID := c.Param("id")

	status, err := h.agent.HospitalStatus(c.Request.Context(), hospitalID)
	if errors.Is(err, agents.ErrHospitalNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "hospital not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "status lookup failed"})
		return
	}

	c.JSON(http.StatusOK, status)
}
