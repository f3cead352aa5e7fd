package models

import "time"

type PatientInflow struct {
	ID          uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	HospitalID  string    `gorm:"column:hospital_id;index" json:"hospital_id"`
	TS          time.Time `gorm:"column:ts;index" json:"ts"`
	Count       int       `gorm:"column:count" json:"count"`
	SeverityAvg *float64  `gorm:"column:severity_avg" json:"severity_avg"`
	Department  string    `gorm:"column:department" json:"department"`
}

func (PatientInflow) TableName() string { return "patient_inflow" }
