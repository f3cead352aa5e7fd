package agents

import (
	"context"
	"errors"
	"fmt"

	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/models"
	"github.com/23WH1A0515/Arogyasetu/services"
)

// ErrHospitalNotFound is returned when a status lookup names an unknown
// hospital identifier.
var ErrHospitalNotFound = errors.New("hospital not found")

// Agent is the single seam the serving layer talks to. It wires
// SignalStore -> SurgePredictor -> LoadBalancer and holds no state between
// calls; every invocation works on a fresh snapshot.
type Agent struct {
	store     *services.SignalStore
	predictor *SurgePredictor
	balancer  *LoadBalancer
}

func NewAgent(store *services.SignalStore, cfg *config.Config) *Agent {
	return &Agent{
		store:     store,
		predictor: NewSurgePredictor(cfg),
		balancer:  NewLoadBalancer(cfg.Engine),
	}
}

func (a *Agent) Surge(ctx context.Context) (*models.SurgeResult, error) {
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return a.predictor.Predict(ctx, snap), nil
}

func (a *Agent) Balance(ctx context.Context) (*models.BalanceResult, error) {
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	surge := a.predictor.Predict(ctx, snap)
	return a.balancer.Balance(snap.Hospitals, surge), nil
}

type FullAnalysis struct {
	Surge   *models.SurgeResult   `json:"surge_predictions"`
	Balance *models.BalanceResult `json:"load_balance"`
}

func (a *Agent) FullAnalysis(ctx context.Context) (*FullAnalysis, error) {
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	surge := a.predictor.Predict(ctx, snap)
	return &FullAnalysis{
		Surge:   surge,
		Balance: a.balancer.Balance(snap.Hospitals, surge),
	}, nil
}

type HospitalStatus struct {
	Hospital          models.Hospital                 `json:"hospital"`
	Prediction        *models.SurgePrediction         `json:"prediction"`
	IncomingTransfers []models.TransferRecommendation `json:"incoming_transfers"`
	OutgoingTransfers []models.TransferRecommendation `json:"outgoing_transfers"`
}

func (a *Agent) HospitalStatus(ctx context.Context, hospitalID string) (*HospitalStatus, error) {
	snap, err := a.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	var hospital *models.Hospital
	for i := range snap.Hospitals {
		if snap.Hospitals[i].HospitalID == hospitalID {
			hospital = &snap.Hospitals[i]
			break
		}
	}
	if hospital == nil {
		return nil, fmt.Errorf("%s: %w", hospitalID, ErrHospitalNotFound)
	}

	surge := a.predictor.Predict(ctx, snap)
	balance := a.balancer.Balance(snap.Hospitals, surge)

	status := &HospitalStatus{
		Hospital:          *hospital,
		Prediction:        surge.PredictionFor(hospitalID),
		IncomingTransfers: []models.TransferRecommendation{},
		OutgoingTransfers: []models.TransferRecommendation{},
	}
	for _, t := range balance.TransferRecommendations {
		if t.ToHospital.HospitalID == hospitalID {
			status.IncomingTransfers = append(status.IncomingTransfers, t)
		}
		if t.FromHospital.HospitalID == hospitalID {
			status.OutgoingTransfers = append(status.OutgoingTransfers, t)
		}
	}

	return status, nil
}
