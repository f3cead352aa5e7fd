package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/23WH1A0515/Arogyasetu/models"
	"github.com/23WH1A0515/Arogyasetu/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// One full baseline window of hourly inflow samples fits on a single page by
// default; larger requests are bounded so cursor queries stay cheap.
const (
	defaultHistoryLimit = 168
	maxHistoryLimit     = 500
)

type historyQuery struct {
	HospitalID string
	Limit      int
	Before     *time.Time
}

// inflowPage is one cursor page of inflow history, newest first. The cursor
// is the ts of the last row in RFC3339Nano form.
type inflowPage struct {
	Data       []models.PatientInflow `json:"data"`
	NextCursor string                 `json:"next_cursor,omitempty"`
	HasMore    bool                   `json:"has_more"`
}

func parseHistoryQuery(c *gin.Context) historyQuery {
	q := historyQuery{
		HospitalID: c.Query("hospital_id"),
		Limit:      defaultHistoryLimit,
	}

	if limitStr := c.Query("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			q.Limit = l
		}
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}

	if beforeStr := c.Query("before"); beforeStr != "" {
		if t, err := time.Parse(time.RFC3339Nano, beforeStr); err == nil {
			q.Before = &t
		}
	}

	return q
}

type HistoryHandler struct {
	db    *gorm.DB
	cache *services.CacheService
}

func NewHistoryHandler(db *gorm.DB, cache *services.CacheService) *HistoryHandler {
	return &HistoryHandler{db: db, cache: cache}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	q := parseHistoryQuery(c)

	beforeStr := ""
	if q.Before != nil {
		beforeStr = q.Before.Format(time.RFC3339Nano)
	}
	cacheKey := fmt.Sprintf("history:%s:%d:%s", q.HospitalID, q.Limit, beforeStr)

	var cached inflowPage
	if err := h.cache.Get(c.Request.Context(), cacheKey, &cached); err == nil && cached.Data != nil {
		c.JSON(http.StatusOK, cached)
		return
	}

	query := h.db.Model(&models.PatientInflow{}).Order("ts DESC").Limit(q.Limit + 1)
	if q.Before != nil {
		query = query.Where("ts < ?", *q.Before)
	}
	if q.HospitalID != "" {
		query = query.Where("hospital_id = ?", q.HospitalID)
	}

	var rows []models.PatientInflow
	if err := query.Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database query failed"})
		return
	}

	hasMore := len(rows) > q.Limit
	if hasMore {
		rows = rows[:q.Limit]
	}

	var nextCursor string
	if hasMore && len(rows) > 0 {
		nextCursor = rows[len(rows)-1].TS.Format(time.RFC3339Nano)
	}

	resp := inflowPage{Data: rows, NextCursor: nextCursor, HasMore: hasMore}
	go h.cache.Set(context.Background(), cacheKey, resp, 30*time.Second)

	c.JSON(http.StatusOK, resp)
}
