package models

import "time"

type Hospital struct {
	HospitalID       string    `gorm:"column:hospital_id;primaryKey" json:"hospital_id"`
	Name             string    `gorm:"column:name" json:"name"`
	Type             string    `gorm:"column:type" json:"type"`
	Lat              *float64  `gorm:"column:lat" json:"lat"`
	Lng              *float64  `gorm:"column:lng" json:"lng"`
	Capacity         int       `gorm:"column:capacity" json:"capacity"`
	CurrentPatients  int       `gorm:"column:current_patients" json:"current_patients"`
	ICUBeds          int       `gorm:"column:icu_beds" json:"icu_beds"`
	ICUOccupied      int       `gorm:"column:icu_occupied" json:"icu_occupied"`
	Ventilators      int       `gorm:"column:ventilators" json:"ventilators"`
	VentilatorsInUse int       `gorm:"column:ventilators_in_use" json:"ventilators_in_use"`
	Zone             string    `gorm:"column:zone" json:"zone"`
	UpdatedAt        time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (Hospital) TableName() string { return "hospitals" }

// OccupiedBeds clamps current_patients into [0, capacity]; upstream data
// occasionally reports more patients than beds.
func (h Hospital) OccupiedBeds() int {
	if h.CurrentPatients < 0 {
		return 0
	}
	if h.CurrentPatients > h.Capacity {
		return h.Capacity
	}
	return h.CurrentPatients
}

func (h Hospital) AvailableBeds() int {
	return h.Capacity - h.OccupiedBeds()
}

// LoadPct is current occupancy as a percentage of capacity, 0 when
// capacity is not a positive number.
func (h Hospital) LoadPct() float64 {
	if h.Capacity <= 0 {
		return 0
	}
	return float64(h.OccupiedBeds()) / float64(h.Capacity) * 100
}
