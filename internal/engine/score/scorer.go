package score

import (
	"math"

	"avesto/internal/domain/models"
	"avesto/internal/domain/service"
	"avesto/pkg/config"
)

// Scorer rates a proposed decision 0-100 as a weighted blend of five factors.
// It is pure over the snapshot: same profile and decision, same score.
type Scorer struct {
	cfg config.EngineConfig
}

func New(cfg config.EngineConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

func (s *Scorer) Score(p *models.FinancialProfile, d models.ProposedDecision) (*models.DecisionScore, error) {
	if p.Empty() {
		return nil, service.ErrEmptyProfile
	}
	if !d.Kind.Valid() || d.Amount <= 0 {
		return nil, service.ErrInvalidDecision
	}

	drv := p.Derive()
	ev := s.evaluate(p, drv, d)

	w := s.cfg.Weights
	breakdown := map[string]float64{
		models.FactorAffordability:   w.Affordability * ev.scores[models.FactorAffordability],
		models.FactorOpportunityCost: w.OpportunityCost * ev.scores[models.FactorOpportunityCost],
		models.FactorGoalAlignment:   w.GoalAlignment * ev.scores[models.FactorGoalAlignment],
		models.FactorRiskImpact:      w.RiskImpact * ev.scores[models.FactorRiskImpact],
		models.FactorTiming:          w.Timing * ev.scores[models.FactorTiming],
	}

	total := 0.0
	for _, v := range breakdown {
		total += v
	}
	final := int(math.Round(clamp(total)))

	expl, alt := s.explain(ev, final)
	return &models.DecisionScore{
		Score:           final,
		FactorBreakdown: breakdown,
		Explanation:     expl,
		Alternative:     alt,
	}, nil
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
