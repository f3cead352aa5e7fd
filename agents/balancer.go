package agents

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/models"
)

// LoadBalancer classifies hospitals against fixed occupancy thresholds and
// proposes patient transfers from overloaded to underutilized facilities.
// The matching is a greedy, deterministic heuristic: most urgent source
// first, most spare destination first, no destination ever over-committed
// within a run.
type LoadBalancer struct {
	cfg config.EngineConfig
}

func NewLoadBalancer(cfg config.EngineConfig) *LoadBalancer {
	return &LoadBalancer{cfg: cfg}
}

func (b *LoadBalancer) Balance(hospitals []models.Hospital, surge *models.SurgeResult) *models.BalanceResult {
	var overloaded, underutilized, balanced []models.HospitalLoad

	for _, h := range hospitals {
		if h.Capacity <= 0 {
			// Degenerate record: no usable occupancy signal.
			continue
		}

		load := models.HospitalLoad{
			HospitalID:      h.HospitalID,
			HospitalName:    h.Name,
			CurrentLoad:     round1(h.LoadPct()),
			Capacity:        h.Capacity,
			CurrentPatients: h.OccupiedBeds(),
			AvailableBeds:   h.AvailableBeds(),
			Lat:             h.Lat,
			Lng:             h.Lng,
		}

		var pred *models.SurgePrediction
		if surge != nil {
			pred = surge.PredictionFor(h.HospitalID)
		}
		if pred != nil {
			load.PredictedSurge = pred.PredictedSurge
			load.RiskLevel = pred.RiskLevel
		} else {
			// No prediction: classify on raw occupancy alone.
			load.PredictedSurge = load.CurrentLoad
			load.RiskLevel = riskLevel(load.CurrentLoad)
		}

		effective := math.Max(load.CurrentLoad, load.PredictedSurge)
		switch {
		case effective >= b.cfg.OverloadThresholdPct:
			overloaded = append(overloaded, load)
		case effective < b.cfg.UnderutilizedThresholdPct && load.AvailableBeds >= 1:
			underutilized = append(underutilized, load)
		default:
			balanced = append(balanced, load)
		}
	}

	sort.Slice(overloaded, func(i, j int) bool {
		if overloaded[i].PredictedSurge != overloaded[j].PredictedSurge {
			return overloaded[i].PredictedSurge > overloaded[j].PredictedSurge
		}
		return overloaded[i].HospitalID < overloaded[j].HospitalID
	})
	sort.Slice(underutilized, func(i, j int) bool {
		if underutilized[i].AvailableBeds != underutilized[j].AvailableBeds {
			return underutilized[i].AvailableBeds > underutilized[j].AvailableBeds
		}
		return underutilized[i].HospitalID < underutilized[j].HospitalID
	})

	transfers := b.matchTransfers(overloaded, underutilized)
	alerts := b.buildAlerts(hospitals, overloaded)
	actions := b.buildActionItems(overloaded, underutilized)

	return &models.BalanceResult{
		Timestamp: time.Now().UTC(),
		Summary: models.BalanceSummary{
			TotalHospitals:       len(overloaded) + len(underutilized) + len(balanced),
			OverloadedCount:      len(overloaded),
			UnderutilizedCount:   len(underutilized),
			BalancedCount:        len(balanced),
			TransfersRecommended: len(transfers),
		},
		OverloadedHospitals:     overloaded,
		UnderutilizedHospitals:  underutilized,
		BalancedHospitals:       balanced,
		TransferRecommendations: transfers,
		Alerts:                  alerts,
		ActionItems:             actions,
	}
}

// matchTransfers walks sources in urgency order and commits beds from a
// working copy of each destination's remaining capacity, so one run never
// promises the same bed twice. A destination is only allowed to accept
// patients up to its own overload threshold.
func (b *LoadBalancer) matchTransfers(overloaded, underutilized []models.HospitalLoad) []models.TransferRecommendation {
	remaining := make(map[string]int, len(underutilized))
	for _, d := range underutilized {
		headroom := int(float64(d.Capacity)*b.cfg.OverloadThresholdPct/100) - d.CurrentPatients
		if headroom < 0 {
			headroom = 0
		}
		if headroom > d.AvailableBeds {
			headroom = d.AvailableBeds
		}
		remaining[d.HospitalID] = headroom
	}

	transfers := make([]models.TransferRecommendation, 0)
	for _, src := range overloaded {
		if src.Lat == nil || src.Lng == nil {
			continue
		}

		effective := math.Max(src.CurrentLoad, src.PredictedSurge)
		surplus := int(math.Ceil((effective - b.cfg.OverloadThresholdPct) / 100 * float64(src.Capacity)))
		if surplus < 1 {
			surplus = 1
		}
		if surplus > src.CurrentPatients {
			surplus = src.CurrentPatients
		}
		if surplus < 1 {
			continue
		}

		for _, dst := range underutilized {
			if remaining[dst.HospitalID] < 1 {
				continue
			}
			if dst.Lat == nil || dst.Lng == nil {
				continue
			}
			dist := distanceKM(*src.Lat, *src.Lng, *dst.Lat, *dst.Lng)
			if dist > b.cfg.ProximityKM {
				continue
			}

			count := surplus
			if count > remaining[dst.HospitalID] {
				count = remaining[dst.HospitalID]
			}
			if count > b.cfg.TransferCap {
				count = b.cfg.TransferCap
			}

			priority := models.PriorityNormal
			if src.RiskLevel == models.RiskCritical {
				priority = models.PriorityUrgent
			}

			transfers = append(transfers, models.TransferRecommendation{
				FromHospital: models.TransferEndpoint{
					HospitalID:     src.HospitalID,
					Name:           src.HospitalName,
					CurrentLoad:    src.CurrentLoad,
					PredictedSurge: src.PredictedSurge,
				},
				ToHospital: models.TransferEndpoint{
					HospitalID:    dst.HospitalID,
					Name:          dst.HospitalName,
					CurrentLoad:   dst.CurrentLoad,
					AvailableBeds: remaining[dst.HospitalID],
				},
				PatientsToTransfer: count,
				DistanceKM:         math.Round(dist*100) / 100,
				Priority:           priority,
				Reason:             fmt.Sprintf("Source hospital at %.1f%% predicted load", src.PredictedSurge),
			})

			remaining[dst.HospitalID] -= count
			break
		}
	}

	return transfers
}

func (b *LoadBalancer) buildAlerts(hospitals []models.Hospital, overloaded []models.HospitalLoad) []models.Alert {
	alerts := make([]models.Alert, 0)

	for _, h := range overloaded {
		if h.RiskLevel == models.RiskCritical {
			alerts = append(alerts, models.Alert{
				Level:     models.AlertCritical,
				Title:     "Critical surge risk",
				Message:   fmt.Sprintf("%s predicted at %.1f%% load, approaching maximum capacity", h.HospitalName, h.PredictedSurge),
				Hospitals: []string{h.HospitalName},
			})
		} else {
			alerts = append(alerts, models.Alert{
				Level:     models.AlertWarning,
				Title:     "Hospital overloaded",
				Message:   fmt.Sprintf("%s is above the %.0f%% overload threshold", h.HospitalName, b.cfg.OverloadThresholdPct),
				Hospitals: []string{h.HospitalName},
			})
		}
	}

	totalCapacity, totalOccupied := 0, 0
	for _, h := range hospitals {
		totalCapacity += h.Capacity
		totalOccupied += h.OccupiedBeds()
	}
	if totalCapacity > 0 {
		occupancy := float64(totalOccupied) / float64(totalCapacity) * 100
		if occupancy > 75 {
			alerts = append(alerts, models.Alert{
				Level:   models.AlertInfo,
				Title:   "City-wide high occupancy",
				Message: fmt.Sprintf("Overall occupancy at %.1f%%, consider city-wide protocols", occupancy),
			})
		}
	}

	return alerts
}

func (b *LoadBalancer) buildActionItems(overloaded, underutilized []models.HospitalLoad) []string {
	actions := make([]string, 0)

	hasCritical := false
	for _, h := range overloaded {
		actions = append(actions, fmt.Sprintf("Redirect non-emergency admissions from %s", h.HospitalName))
		if h.RiskLevel == models.RiskCritical {
			hasCritical = true
		}
	}
	if hasCritical {
		actions = append(actions, "Activate emergency overflow protocols at critical facilities")
	}
	if len(underutilized) > 0 && len(overloaded) > 0 {
		actions = append(actions, fmt.Sprintf("Notify %d underutilized hospitals to prepare for incoming transfers", len(underutilized)))
	}
	if len(overloaded) > len(underutilized) {
		actions = append(actions, "Consider activating reserve medical facilities")
	}
	if len(overloaded) == 0 && len(underutilized) == 0 {
		actions = append(actions, "System operating normally - continue monitoring")
	}

	return actions
}

// distanceKM is a straight-line proxy: degree deltas scaled by ~111 km per
// degree. Not a routed distance.
func distanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	latDiff := lat1 - lat2
	lngDiff := lng1 - lng2
	return math.Sqrt(latDiff*latDiff+lngDiff*lngDiff) * 111
}
