package models

import "time"

type Event struct {
	EventID            string    `gorm:"column:event_id;primaryKey" json:"event_id"`
	Name               string    `gorm:"column:name" json:"name"`
	Zone               string    `gorm:"column:zone" json:"zone"`
	ExpectedAttendance int       `gorm:"column:expected_attendance" json:"expected_attendance"`
	StartsAt           time.Time `gorm:"column:starts_at" json:"starts_at"`
	EndsAt             time.Time `gorm:"column:ends_at" json:"ends_at"`
}

func (Event) TableName() string { return "events" }
