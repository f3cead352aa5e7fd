package models

import "time"

type PollutionReading struct {
	Zone string    `gorm:"column:zone;primaryKey" json:"zone"`
	AQI  float64   `gorm:"column:aqi" json:"aqi"`
	TS   time.Time `gorm:"column:ts" json:"ts"`
}

func (PollutionReading) TableName() string { return "pollution_readings" }
