package models

import "time"

// SignalSnapshot is a read-only view of every input signal the decision
// engine consumes for one pass. It is assembled once per request and never
// mutated by the core.
type SignalSnapshot struct {
	TakenAt          time.Time
	Hospitals        []Hospital
	PollutionByZone  map[string]PollutionReading
	ActiveEvents     []Event
	InflowByHospital map[string][]PatientInflow
}
