package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/models"

	"gorm.io/gorm"
)

// SignalStore assembles the read-only input snapshot for one engine pass:
// hospital registry, latest AQI per zone, events active in the prediction
// horizon, and the trailing inflow window per hospital. Only a missing
// hospital registry is fatal; absent pollution, event, or inflow data
// degrades to an empty signal class.
type SignalStore struct {
	db  *gorm.DB
	cfg config.EngineConfig
}

func NewSignalStore(db *gorm.DB, cfg config.EngineConfig) *SignalStore {
	return &SignalStore{db: db, cfg: cfg}
}

func (s *SignalStore) Snapshot(ctx context.Context) (*models.SignalSnapshot, error) {
	now := time.Now().UTC()

	var hospitals []models.Hospital
	if err := s.db.WithContext(ctx).Order("hospital_id").Find(&hospitals).Error; err != nil {
		return nil, fmt.Errorf("load hospitals: %w", err)
	}

	snap := &models.SignalSnapshot{
		TakenAt:          now,
		Hospitals:        hospitals,
		PollutionByZone:  make(map[string]models.PollutionReading),
		ActiveEvents:     nil,
		InflowByHospital: make(map[string][]models.PatientInflow),
	}

	var readings []models.PollutionReading
	if err := s.db.WithContext(ctx).Find(&readings).Error; err != nil {
		log.Printf("pollution readings unavailable, scoring without AQI: %v", err)
	} else {
		for _, r := range readings {
			snap.PollutionByZone[r.Zone] = r
		}
	}

	horizon := now.Add(time.Duration(s.cfg.HorizonHours) * time.Hour)
	var events []models.Event
	err := s.db.WithContext(ctx).
		Where("starts_at < ? AND ends_at > ?", horizon, now).
		Order("starts_at").
		Find(&events).Error
	if err != nil {
		log.Printf("events unavailable, scoring without event signal: %v", err)
	} else {
		snap.ActiveEvents = events
	}

	since := now.Add(-time.Duration(s.cfg.BaselineDays) * 24 * time.Hour)
	var inflow []models.PatientInflow
	err = s.db.WithContext(ctx).
		Where("ts >= ?", since).
		Order("hospital_id, ts").
		Find(&inflow).Error
	if err != nil {
		log.Printf("inflow history unavailable, scoring without trend signal: %v", err)
	} else {
		for _, rec := range inflow {
			snap.InflowByHospital[rec.HospitalID] = append(snap.InflowByHospital[rec.HospitalID], rec)
		}
	}

	return snap, nil
}
