package agents

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/models"
)

func f64(v float64) *float64 { return &v }

func testHospital(id string, capacity, occupied int, zone string) models.Hospital {
	return models.Hospital{
		HospitalID:      id,
		Name:            "Hospital " + id,
		Capacity:        capacity,
		CurrentPatients: occupied,
		Zone:            zone,
		Lat:             f64(28.6),
		Lng:             f64(77.2),
	}
}

func emptySnapshot(hospitals ...models.Hospital) *models.SignalSnapshot {
	return &models.SignalSnapshot{
		TakenAt:          time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		Hospitals:        hospitals,
		PollutionByZone:  map[string]models.PollutionReading{},
		InflowByHospital: map[string][]models.PatientInflow{},
	}
}

// ── Base occupancy and risk tiers ──

func TestScoreBaseOccupancyOnly(t *testing.T) {
	tests := []struct {
		name      string
		occupied  int
		wantScore float64
		wantRisk  string
	}{
		{"empty hospital", 0, 0, models.RiskLow},
		{"below medium", 49, 49, models.RiskLow},
		{"medium boundary", 50, 50, models.RiskMedium},
		{"high boundary", 70, 70, models.RiskHigh},
		{"critical boundary", 90, 90, models.RiskCritical},
		{"full hospital", 100, 100, models.RiskCritical},
	}
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := emptySnapshot(testHospital("H001", 100, tt.occupied, "Z1"))
			result, err := scorer.Score(snap)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result.Predictions) != 1 {
				t.Fatalf("got %d predictions, want 1", len(result.Predictions))
			}
			p := result.Predictions[0]
			if p.PredictedSurge != tt.wantScore {
				t.Errorf("PredictedSurge = %v, want %v", p.PredictedSurge, tt.wantScore)
			}
			if p.RiskLevel != tt.wantRisk {
				t.Errorf("RiskLevel = %q, want %q", p.RiskLevel, tt.wantRisk)
			}
			if len(p.SurgeFactors) != 0 {
				t.Errorf("SurgeFactors = %v, want empty", p.SurgeFactors)
			}
		})
	}
}

func TestScoreClampsOvercapacityOccupancy(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	snap := emptySnapshot(testHospital("H001", 100, 130, "Z1"))

	result, _ := scorer.Score(snap)
	p := result.Predictions[0]
	if p.PredictedSurge != 100 {
		t.Errorf("PredictedSurge = %v, want 100 (clamped)", p.PredictedSurge)
	}
	if p.CurrentLoad != 100 {
		t.Errorf("CurrentLoad = %v, want 100 (clamped)", p.CurrentLoad)
	}
}

func TestScoreRange(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	snap := emptySnapshot(
		testHospital("H001", 100, 100, "Z1"),
		testHospital("H002", 100, 0, "Z1"),
	)
	snap.PollutionByZone["Z1"] = models.PollutionReading{Zone: "Z1", AQI: 500}
	snap.ActiveEvents = []models.Event{
		{EventID: "E1", Name: "Marathon", Zone: "Z1", ExpectedAttendance: 100000},
	}

	result, _ := scorer.Score(snap)
	for _, p := range result.Predictions {
		if p.PredictedSurge < 0 || p.PredictedSurge > 100 {
			t.Errorf("hospital %s: PredictedSurge = %v, want within [0, 100]", p.HospitalID, p.PredictedSurge)
		}
	}
}

// ── Pollution adjustment ──

func TestPollutionAdjustment(t *testing.T) {
	tests := []struct {
		name       string
		aqi        float64
		wantBonus  float64
		wantFactor bool
	}{
		{"clean air", 80, 0, false},
		{"below poor threshold", 199, 0, false},
		{"at poor threshold", 200, 0, false},
		{"moderately poor", 250, 5, true},
		{"severe", 350, 15, true},
		{"bonus capped", 600, 20, true},
	}
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
			snap.PollutionByZone["Z1"] = models.PollutionReading{Zone: "Z1", AQI: tt.aqi}

			result, _ := scorer.Score(snap)
			p := result.Predictions[0]
			if got := p.PredictedSurge - p.CurrentLoad; math.Abs(got-tt.wantBonus) > 0.11 {
				t.Errorf("bonus = %v, want ~%v", got, tt.wantBonus)
			}
			if tt.wantFactor != (len(p.SurgeFactors) == 1) {
				t.Errorf("SurgeFactors = %v, wantFactor = %v", p.SurgeFactors, tt.wantFactor)
			}
		})
	}
}

func TestPollutionFromOtherZoneIgnored(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
	snap.PollutionByZone["Z2"] = models.PollutionReading{Zone: "Z2", AQI: 400}

	result, _ := scorer.Score(snap)
	p := result.Predictions[0]
	if p.PredictedSurge != p.CurrentLoad {
		t.Errorf("PredictedSurge = %v, want %v (no adjustment)", p.PredictedSurge, p.CurrentLoad)
	}
}

// ── Event adjustment ──

func TestEventAdjustment(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())

	t.Run("event in zone adds bonus and factor", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
		snap.ActiveEvents = []models.Event{
			{EventID: "E1", Name: "Cricket Final", Zone: "Z1", ExpectedAttendance: 2000},
		}

		result, _ := scorer.Score(snap)
		p := result.Predictions[0]
		if p.PredictedSurge <= p.CurrentLoad {
			t.Errorf("PredictedSurge = %v, want > %v", p.PredictedSurge, p.CurrentLoad)
		}
		if len(p.SurgeFactors) != 1 || p.SurgeFactors[0] != "Nearby event: Cricket Final" {
			t.Errorf("SurgeFactors = %v, want event factor", p.SurgeFactors)
		}
	})

	t.Run("event in other zone ignored", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
		snap.ActiveEvents = []models.Event{
			{EventID: "E1", Name: "Cricket Final", Zone: "Z2", ExpectedAttendance: 2000},
		}

		result, _ := scorer.Score(snap)
		p := result.Predictions[0]
		if p.PredictedSurge != p.CurrentLoad {
			t.Errorf("PredictedSurge = %v, want %v", p.PredictedSurge, p.CurrentLoad)
		}
	})

	t.Run("event bonus capped", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
		snap.ActiveEvents = []models.Event{
			{EventID: "E1", Name: "Mega Rally", Zone: "Z1", ExpectedAttendance: 500000},
			{EventID: "E2", Name: "Festival", Zone: "Z1", ExpectedAttendance: 500000},
		}

		result, _ := scorer.Score(snap)
		p := result.Predictions[0]
		if got := p.PredictedSurge - p.CurrentLoad; got > 15.01 {
			t.Errorf("event bonus = %v, want capped at 15", got)
		}
		if len(p.SurgeFactors) != 2 {
			t.Errorf("SurgeFactors = %v, want one factor per matching event", p.SurgeFactors)
		}
	})
}

// ── Inflow trend adjustment ──

func inflowRecords(hospitalID string, takenAt time.Time, baselineCount, recentCount int) []models.PatientInflow {
	var recs []models.PatientInflow
	// 6 days of flat baseline, then an elevated last 24 hours.
	for h := 168; h > 24; h -= 6 {
		recs = append(recs, models.PatientInflow{
			HospitalID: hospitalID,
			TS:         takenAt.Add(-time.Duration(h) * time.Hour),
			Count:      baselineCount,
		})
	}
	for h := 23; h >= 1; h -= 2 {
		recs = append(recs, models.PatientInflow{
			HospitalID: hospitalID,
			TS:         takenAt.Add(-time.Duration(h) * time.Hour),
			Count:      recentCount,
		})
	}
	return recs
}

func TestInflowTrendAdjustment(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())

	t.Run("flat inflow adds nothing", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
		snap.InflowByHospital["H001"] = inflowRecords("H001", snap.TakenAt, 10, 10)

		result, _ := scorer.Score(snap)
		p := result.Predictions[0]
		if p.PredictedSurge != p.CurrentLoad {
			t.Errorf("PredictedSurge = %v, want %v", p.PredictedSurge, p.CurrentLoad)
		}
		if len(p.SurgeFactors) != 0 {
			t.Errorf("SurgeFactors = %v, want empty", p.SurgeFactors)
		}
	})

	t.Run("rising inflow adds bonus and factor", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
		snap.InflowByHospital["H001"] = inflowRecords("H001", snap.TakenAt, 10, 30)

		result, _ := scorer.Score(snap)
		p := result.Predictions[0]
		if p.PredictedSurge <= p.CurrentLoad {
			t.Errorf("PredictedSurge = %v, want > %v", p.PredictedSurge, p.CurrentLoad)
		}
		if len(p.SurgeFactors) != 1 || p.SurgeFactors[0] != "Rising patient inflow" {
			t.Errorf("SurgeFactors = %v, want inflow factor", p.SurgeFactors)
		}
	})

	t.Run("inflow bonus capped", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
		snap.InflowByHospital["H001"] = inflowRecords("H001", snap.TakenAt, 2, 100)

		result, _ := scorer.Score(snap)
		p := result.Predictions[0]
		if got := p.PredictedSurge - p.CurrentLoad; got > 15.01 {
			t.Errorf("inflow bonus = %v, want capped at 15", got)
		}
	})

	t.Run("no inflow history adds nothing", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))

		result, _ := scorer.Score(snap)
		p := result.Predictions[0]
		if p.PredictedSurge != p.CurrentLoad {
			t.Errorf("PredictedSurge = %v, want %v", p.PredictedSurge, p.CurrentLoad)
		}
	})
}

// ── Factor ordering ──

func TestFactorOrdering(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	snap := emptySnapshot(testHospital("H001", 100, 40, "Z1"))
	snap.PollutionByZone["Z1"] = models.PollutionReading{Zone: "Z1", AQI: 300}
	snap.ActiveEvents = []models.Event{
		{EventID: "E1", Name: "Parade", Zone: "Z1", ExpectedAttendance: 3000},
	}
	snap.InflowByHospital["H001"] = inflowRecords("H001", snap.TakenAt, 10, 30)

	result, _ := scorer.Score(snap)
	want := []string{"High pollution (AQI=300)", "Nearby event: Parade", "Rising patient inflow"}
	if !reflect.DeepEqual(result.Predictions[0].SurgeFactors, want) {
		t.Errorf("SurgeFactors = %v, want %v", result.Predictions[0].SurgeFactors, want)
	}
}

// ── Degenerate inputs ──

func TestScoreZeroCapacityHospital(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	snap := emptySnapshot(
		testHospital("H001", 0, 10, "Z1"),
		testHospital("H002", 100, 50, "Z1"),
	)

	result, _ := scorer.Score(snap)
	if len(result.Predictions) != 2 {
		t.Fatalf("got %d predictions, want one per input hospital", len(result.Predictions))
	}
	p := result.Predictions[0]
	if p.PredictedSurge != 0 || p.RiskLevel != models.RiskLow {
		t.Errorf("zero-capacity hospital: surge=%v risk=%q, want 0/low", p.PredictedSurge, p.RiskLevel)
	}
}

// ── Idempotence ──

func TestScoreIdempotent(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())
	snap := emptySnapshot(
		testHospital("H001", 100, 95, "Z1"),
		testHospital("H002", 200, 80, "Z2"),
	)
	snap.PollutionByZone["Z1"] = models.PollutionReading{Zone: "Z1", AQI: 280}
	snap.ActiveEvents = []models.Event{
		{EventID: "E1", Name: "Parade", Zone: "Z2", ExpectedAttendance: 5000},
	}
	snap.InflowByHospital["H001"] = inflowRecords("H001", snap.TakenAt, 10, 25)

	first, _ := scorer.Score(snap)
	second, _ := scorer.Score(snap)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("identical inputs produced different outputs:\nfirst:  %+v\nsecond: %+v", first, second)
	}
}

// ── City summary ──

func TestCitySummary(t *testing.T) {
	scorer := NewRuleBasedScorer(config.DefaultEngineConfig())

	t.Run("totals and overall risk", func(t *testing.T) {
		snap := emptySnapshot(
			testHospital("H001", 100, 95, "Z1"),
			testHospital("H002", 100, 30, "Z1"),
		)

		result, _ := scorer.Score(snap)
		cs := result.CitySummary
		if cs.TotalCapacity != 200 || cs.TotalOccupied != 125 {
			t.Errorf("totals = %d/%d, want 125/200", cs.TotalOccupied, cs.TotalCapacity)
		}
		if cs.OverallOccupancy != 62.5 {
			t.Errorf("OverallOccupancy = %v, want 62.5", cs.OverallOccupancy)
		}
		if cs.OverallRisk != models.RiskCritical {
			t.Errorf("OverallRisk = %q, want critical (highest tier present)", cs.OverallRisk)
		}
	})

	t.Run("critical hospital triggers ICU recommendation", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 95, "Z1"))
		result, _ := scorer.Score(snap)
		if !containsString(result.CitySummary.Recommendations, "Prepare additional ICU capacity") {
			t.Errorf("Recommendations = %v, want ICU recommendation", result.CitySummary.Recommendations)
		}
	})

	t.Run("poor air quality triggers AQI recommendation", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 30, "Z1"))
		snap.PollutionByZone["Z1"] = models.PollutionReading{Zone: "Z1", AQI: 320}
		result, _ := scorer.Score(snap)
		if !containsString(result.CitySummary.Recommendations, "Monitor air quality trend") {
			t.Errorf("Recommendations = %v, want air quality recommendation", result.CitySummary.Recommendations)
		}
	})

	t.Run("quiet city has no recommendations", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 30, "Z1"))
		result, _ := scorer.Score(snap)
		if len(result.CitySummary.Recommendations) != 0 {
			t.Errorf("Recommendations = %v, want none", result.CitySummary.Recommendations)
		}
	})

	t.Run("average aqi over zones", func(t *testing.T) {
		snap := emptySnapshot(testHospital("H001", 100, 30, "Z1"))
		snap.PollutionByZone["Z1"] = models.PollutionReading{Zone: "Z1", AQI: 100}
		snap.PollutionByZone["Z2"] = models.PollutionReading{Zone: "Z2", AQI: 200}
		result, _ := scorer.Score(snap)
		if result.CitySummary.AverageAQI != 150 {
			t.Errorf("AverageAQI = %v, want 150", result.CitySummary.AverageAQI)
		}
	})
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
