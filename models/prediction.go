package models

import "time"

const (
	RiskLow      = "low"
	RiskMedium   = "medium"
	RiskHigh     = "high"
	RiskCritical = "critical"
)

// riskRank orders tiers for aggregation; higher wins.
var riskRank = map[string]int{
	RiskLow:      0,
	RiskMedium:   1,
	RiskHigh:     2,
	RiskCritical: 3,
}

// MaxRisk returns the more severe of two risk tiers.
func MaxRisk(a, b string) string {
	if riskRank[b] > riskRank[a] {
		return b
	}
	return a
}

type SurgePrediction struct {
	HospitalID     string   `json:"hospital_id"`
	HospitalName   string   `json:"hospital_name"`
	CurrentLoad    float64  `json:"current_load"`
	PredictedSurge float64  `json:"predicted_surge"`
	SurgeFactors   []string `json:"surge_factors"`
	RiskLevel      string   `json:"risk_level"`
}

type CitySummary struct {
	OverallRisk      string   `json:"overall_risk"`
	OverallOccupancy float64  `json:"overall_occupancy"`
	TotalCapacity    int      `json:"total_capacity"`
	TotalOccupied    int      `json:"total_occupied"`
	AverageAQI       float64  `json:"average_aqi"`
	ActiveEvents     int      `json:"active_events"`
	Recommendations  []string `json:"recommendations"`
}

type SurgeResult struct {
	Timestamp   time.Time         `json:"timestamp"`
	Predictions []SurgePrediction `json:"predictions"`
	CitySummary CitySummary       `json:"city_summary"`
	Method      string            `json:"method"`
}

// PredictionFor looks up a hospital's prediction by identifier.
func (r *SurgeResult) PredictionFor(hospitalID string) *SurgePrediction {
	for i := range r.Predictions {
		if r.Predictions[i].HospitalID == hospitalID {
			return &r.Predictions[i]
		}
	}
	return nil
}
