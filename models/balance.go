package models

import "time"

const (
	AlertCritical = "critical"
	AlertWarning  = "warning"
	AlertInfo     = "info"

	PriorityUrgent = "urgent"
	PriorityNormal = "normal"
)

// HospitalLoad is the per-hospital snapshot the balancer classifies.
type HospitalLoad struct {
	HospitalID      string   `json:"hospital_id"`
	HospitalName    string   `json:"hospital_name"`
	CurrentLoad     float64  `json:"current_load"`
	PredictedSurge  float64  `json:"predicted_surge"`
	RiskLevel       string   `json:"risk_level"`
	Capacity        int      `json:"capacity"`
	CurrentPatients int      `json:"current_patients"`
	AvailableBeds   int      `json:"available_beds"`
	Lat             *float64 `json:"lat"`
	Lng             *float64 `json:"lng"`
}

type TransferEndpoint struct {
	HospitalID     string  `json:"hospital_id"`
	Name           string  `json:"name"`
	CurrentLoad    float64 `json:"current_load"`
	PredictedSurge float64 `json:"predicted_surge,omitempty"`
	AvailableBeds  int     `json:"available_beds,omitempty"`
}

type TransferRecommendation struct {
	FromHospital       TransferEndpoint `json:"from_hospital"`
	ToHospital         TransferEndpoint `json:"to_hospital"`
	PatientsToTransfer int              `json:"patients_to_transfer"`
	DistanceKM         float64          `json:"distance_km"`
	Priority           string           `json:"priority"`
	Reason             string           `json:"reason"`
}

type Alert struct {
	Level     string   `json:"level"`
	Title     string   `json:"title"`
	Message   string   `json:"message"`
	Hospitals []string `json:"hospitals,omitempty"`
}

type BalanceSummary struct {
	TotalHospitals       int `json:"total_hospitals"`
	OverloadedCount      int `json:"overloaded_count"`
	UnderutilizedCount   int `json:"underutilized_count"`
	BalancedCount        int `json:"balanced_count"`
	TransfersRecommended int `json:"transfers_recommended"`
}

type BalanceResult struct {
	Timestamp               time.Time                `json:"timestamp"`
	Summary                 BalanceSummary           `json:"summary"`
	OverloadedHospitals     []HospitalLoad           `json:"overloaded_hospitals"`
	UnderutilizedHospitals  []HospitalLoad           `json:"underutilized_hospitals"`
	BalancedHospitals       []HospitalLoad           `json:"balanced_hospitals"`
	TransferRecommendations []TransferRecommendation `json:"transfer_recommendations"`
	Alerts                  []Alert                  `json:"alerts"`
	ActionItems             []string                 `json:"action_items"`
}
