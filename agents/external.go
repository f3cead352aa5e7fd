package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/models"
)

const systemPrompt = "You are a healthcare analytics AI. Analyze hospital data and predict surge intensities. Return ONLY valid JSON."

// ExternalScorer submits the snapshot to an OpenAI-compatible chat
// completions endpoint and parses a structured score reply. Every returned
// score is re-validated and re-clamped locally; any transport, status, or
// parse failure surfaces as an error so the caller can fall back to the
// rule-based path.
type ExternalScorer struct {
	cfg    config.LLMConfig
	engine config.EngineConfig
	client *http.Client
}

func NewExternalScorer(cfg config.LLMConfig, engine config.EngineConfig) *ExternalScorer {
	return &ExternalScorer{
		cfg:    cfg,
		engine: engine,
		client: &http.Client{Timeout: time.Duration(cfg.TimeoutSec) * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// llmReply is the shape the model is asked to produce. Only the per-hospital
// scores and factors are trusted; totals and tiers are recomputed locally.
type llmReply struct {
	Predictions []struct {
		HospitalID     string   `json:"hospital_id"`
		PredictedSurge float64  `json:"predicted_surge"`
		SurgeFactors   []string `json:"surge_factors"`
	} `json:"predictions"`
	CitySummary struct {
		Recommendations []string `json:"recommendations"`
	} `json:"city_summary"`
}

func (s *ExternalScorer) Score(ctx context.Context, snap *models.SignalSnapshot) (*models.SurgeResult, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("no api key configured")
	}

	prompt, err := s.buildPrompt(snap)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	body, err := json.Marshal(chatRequest{
		Model: s.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.3,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("llm request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("llm returned status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read llm response: %w", err)
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("decode llm envelope: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("llm response has no choices")
	}

	return s.parseReply(cr.Choices[0].Message.Content, snap)
}

func (s *ExternalScorer) buildPrompt(snap *models.SignalSnapshot) (string, error) {
	hospitals, err := json.MarshalIndent(snap.Hospitals, "", "  ")
	if err != nil {
		return "", err
	}
	pollution, err := json.MarshalIndent(snap.PollutionByZone, "", "  ")
	if err != nil {
		return "", err
	}
	events, err := json.MarshalIndent(snap.ActiveEvents, "", "  ")
	if err != nil {
		return "", err
	}

	// Keep the prompt bounded: at most 20 recent inflow records per hospital.
	trimmed := make(map[string][]models.PatientInflow, len(snap.InflowByHospital))
	for id, recs := range snap.InflowByHospital {
		if len(recs) > 20 {
			recs = recs[len(recs)-20:]
		}
		trimmed[id] = recs
	}
	inflow, err := json.MarshalIndent(trimmed, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`Analyze the following healthcare data and predict surge intensity (0-100) for each hospital.

HOSPITALS:
%s

POLLUTION DATA:
%s

UPCOMING EVENTS:
%s

RECENT PATIENT INFLOW:
%s

For each hospital, predict the surge intensity based on:
1. Current occupancy and capacity
2. Pollution levels in the area (high pollution = more respiratory cases)
3. Upcoming events (large gatherings = potential injuries/emergencies)
4. Recent inflow trends

Return JSON in this exact format:
{"predictions": [{"hospital_id": "H001", "predicted_surge": 85, "surge_factors": ["..."]}], "city_summary": {"recommendations": ["..."]}}`,
		hospitals, pollution, events, inflow), nil
}

// parseReply validates the model output against the snapshot: every hospital
// must be scored, scores are clamped, and risk tiers plus city totals are
// recomputed through the same rules as the rule-based path.
func (s *ExternalScorer) parseReply(content string, snap *models.SignalSnapshot) (*models.SurgeResult, error) {
	content = stripCodeFences(content)

	var reply llmReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		return nil, fmt.Errorf("decode llm reply: %w", err)
	}

	scores := make(map[string]float64, len(reply.Predictions))
	factors := make(map[string][]string, len(reply.Predictions))
	for _, p := range reply.Predictions {
		scores[p.HospitalID] = p.PredictedSurge
		factors[p.HospitalID] = p.SurgeFactors
	}

	predictions := make([]models.SurgePrediction, 0, len(snap.Hospitals))
	for _, h := range snap.Hospitals {
		score, ok := scores[h.HospitalID]
		if !ok {
			return nil, fmt.Errorf("llm reply missing hospital %s", h.HospitalID)
		}
		score = round1(clamp(score, 0, 100))
		fs := factors[h.HospitalID]
		if fs == nil {
			fs = []string{}
		}
		predictions = append(predictions, models.SurgePrediction{
			HospitalID:     h.HospitalID,
			HospitalName:   h.Name,
			CurrentLoad:    round1(clamp(h.LoadPct(), 0, 100)),
			PredictedSurge: score,
			SurgeFactors:   fs,
			RiskLevel:      riskLevel(score),
		})
	}

	rules := NewRuleBasedScorer(s.engine)
	summary := rules.citySummary(snap, predictions)
	if len(reply.CitySummary.Recommendations) > 0 {
		summary.Recommendations = reply.CitySummary.Recommendations
	}

	return &models.SurgeResult{
		Timestamp:   snap.TakenAt,
		Predictions: predictions,
		CitySummary: summary,
		Method:      "llm",
	}, nil
}

func stripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
