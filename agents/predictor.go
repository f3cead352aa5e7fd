package agents

import (
	"context"
	"log"

	"github.com/23WH1A0515/Arogyasetu/config"
	"github.com/23WH1A0515/Arogyasetu/models"
)

// SurgePredictor produces one prediction per hospital plus a city summary.
// When an external scorer is configured it is tried first; on any failure
// the rule-based scorer runs instead, so a prediction set always comes back.
type SurgePredictor struct {
	rules    *RuleBasedScorer
	external *ExternalScorer
}

func NewSurgePredictor(cfg *config.Config) *SurgePredictor {
	p := &SurgePredictor{
		rules: NewRuleBasedScorer(cfg.Engine),
	}
	if cfg.LLM.APIKey != "" {
		p.external = NewExternalScorer(cfg.LLM, cfg.Engine)
	}
	return p
}

func (p *SurgePredictor) Predict(ctx context.Context, snap *models.SignalSnapshot) *models.SurgeResult {
	if p.external != nil {
		result, err := p.external.Score(ctx, snap)
		if err == nil {
			return result
		}
		log.Printf("external scorer failed, falling back to rule-based: %v", err)
	}

	result, _ := p.rules.Score(snap)
	return result
}
