package agents

import (
	"fmt"
	"math"
	"time"

	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/models"

	"gonum.org/v1/gonum/stat"
)

// Scorer turns a signal snapshot into one prediction per hospital.
// RuleBasedScorer is the always-available implementation; ExternalScorer
// may replace it per call but degrades back to the rules on any failure.
type Scorer interface {
	Score(snap *models.SignalSnapshot) (*models.SurgeResult, error)
}

type RuleBasedScorer struct {
	cfg config.EngineConfig
}

func NewRuleBasedScorer(cfg config.EngineConfig) *RuleBasedScorer {
	return &RuleBasedScorer{cfg: cfg}
}

func (s *RuleBasedScorer) Score(snap *models.SignalSnapshot) (*models.SurgeResult, error) {
	predictions := make([]models.SurgePrediction, 0, len(snap.Hospitals))
	for _, h := range snap.Hospitals {
		predictions = append(predictions, s.scoreHospital(h, snap))
	}

	return &models.SurgeResult{
		Timestamp:   snap.TakenAt,
		Predictions: predictions,
		CitySummary: s.citySummary(snap, predictions),
		Method:      "rule_based",
	}, nil
}

// scoreHospital applies the additive model: base occupancy plus capped
// pollution, event, and inflow-trend bonuses, clamped to [0, 100].
// Factors are recorded in the same order the bonuses are applied.
func (s *RuleBasedScorer) scoreHospital(h models.Hospital, snap *models.SignalSnapshot) models.SurgePrediction {
	base := clamp(h.LoadPct(), 0, 100)
	score := base
	factors := []string{}

	// Strict inequality: at exactly the threshold the bonus is zero, so no
	// factor is recorded either.
	if reading, ok := snap.PollutionByZone[h.Zone]; ok && reading.AQI > s.cfg.AQIPoorThreshold {
		bonus := math.Min((reading.AQI-s.cfg.AQIPoorThreshold)/10, s.cfg.PollutionBonusCap)
		score += bonus
		factors = append(factors, fmt.Sprintf("High pollution (AQI=%.0f)", reading.AQI))
	}

	eventBonus := 0.0
	for _, ev := range snap.ActiveEvents {
		if ev.Zone != h.Zone {
			continue
		}
		eventBonus += float64(ev.ExpectedAttendance) / 1000 * 5
		factors = append(factors, "Nearby event: "+ev.Name)
	}
	score += math.Min(eventBonus, s.cfg.EventBonusCap)

	if bonus := s.inflowBonus(h.HospitalID, snap); bonus > 0 {
		score += bonus
		factors = append(factors, "Rising patient inflow")
	}

	score = round1(clamp(score, 0, 100))

	return models.SurgePrediction{
		HospitalID:     h.HospitalID,
		HospitalName:   h.Name,
		CurrentLoad:    round1(base),
		PredictedSurge: score,
		SurgeFactors:   factors,
		RiskLevel:      riskLevel(score),
	}
}

// inflowBonus compares the trailing short window against the full baseline
// window. A recent mean more than the configured ratio above baseline earns
// a bonus proportional to the excess, capped.
func (s *RuleBasedScorer) inflowBonus(hospitalID string, snap *models.SignalSnapshot) float64 {
	records := snap.InflowByHospital[hospitalID]
	if len(records) == 0 {
		return 0
	}

	var recent, baseline []float64
	cutoff := snap.TakenAt.Add(-time.Duration(s.cfg.InflowWindowHours) * time.Hour)
	for _, rec := range records {
		baseline = append(baseline, float64(rec.Count))
		if rec.TS.After(cutoff) {
			recent = append(recent, float64(rec.Count))
		}
	}
	if len(recent) == 0 {
		return 0
	}

	baselineMean := stat.Mean(baseline, nil)
	if baselineMean <= 0 {
		return 0
	}
	ratio := stat.Mean(recent, nil) / baselineMean
	if ratio <= s.cfg.InflowRatioThreshold {
		return 0
	}
	return math.Min((ratio-s.cfg.InflowRatioThreshold)*50, s.cfg.InflowBonusCap)
}

func (s *RuleBasedScorer) citySummary(snap *models.SignalSnapshot, predictions []models.SurgePrediction) models.CitySummary {
	totalCapacity := 0
	totalOccupied := 0
	for _, h := range snap.Hospitals {
		totalCapacity += h.Capacity
		totalOccupied += h.OccupiedBeds()
	}

	overallOccupancy := 0.0
	if totalCapacity > 0 {
		overallOccupancy = round1(float64(totalOccupied) / float64(totalCapacity) * 100)
	}

	overallRisk := models.RiskLow
	for _, p := range predictions {
		overallRisk = models.MaxRisk(overallRisk, p.RiskLevel)
	}

	averageAQI := 0.0
	if len(snap.PollutionByZone) > 0 {
		aqis := make([]float64, 0, len(snap.PollutionByZone))
		for _, r := range snap.PollutionByZone {
			aqis = append(aqis, r.AQI)
		}
		averageAQI = round1(stat.Mean(aqis, nil))
	}

	var recommendations []string
	for _, p := range predictions {
		if p.RiskLevel == models.RiskCritical {
			recommendations = append(recommendations, "Prepare additional ICU capacity")
			break
		}
	}
	if averageAQI > s.cfg.AQIPoorThreshold {
		recommendations = append(recommendations, "Monitor air quality trend")
	}
	if n := len(snap.ActiveEvents); n > 0 {
		recommendations = append(recommendations, fmt.Sprintf("%d upcoming events - standby for crowd-related emergencies", n))
	}
	if overallOccupancy > 70 {
		recommendations = append(recommendations, "Consider activating overflow protocols")
	}

	return models.CitySummary{
		OverallRisk:      overallRisk,
		OverallOccupancy: overallOccupancy,
		TotalCapacity:    totalCapacity,
		TotalOccupied:    totalOccupied,
		AverageAQI:       averageAQI,
		ActiveEvents:     len(snap.ActiveEvents),
		Recommendations:  recommendations,
	}
}

func riskLevel(score float64) string {
	switch {
	case score >= 90:
		return models.RiskCritical
	case score >= 70:
		return models.RiskHigh
	case score >= 50:
		return models.RiskMedium
	default:
		return models.RiskLow
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
