package detect

import (
	"fmt"
	"math"
	"sort"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
	"avesto/pkg/util"
)

// GoalTimelineRisk projects the savings corpus forward at the current monthly
// surplus and flags goals that will fall short of their target by the deadline.
type GoalTimelineRisk struct {
	cfg config.EngineConfig
}

func NewGoalTimelineRisk(cfg config.EngineConfig) *GoalTimelineRisk {
	return &GoalTimelineRisk{cfg: cfg}
}

func (d *GoalTimelineRisk) Name() string { return "goal_timeline_risk" }

func (d *GoalTimelineRisk) Detect(p *models.FinancialProfile, drv models.Derived) ([]models.Opportunity, error) {
	if len(p.Goals) == 0 {
		return nil, nil
	}

	ref := p.ReferenceTime()
	corpus := d.savingsCorpus(p)
	surplus := drv.MonthlyIncome - drv.MonthlyExpense
	if surplus < 0 {
		surplus = 0
	}

	// map iteration order is random; sort for stable output
	names := make([]string, 0, len(p.Goals))
	for name := range p.Goals {
		names = append(names, name)
	}
	sort.Strings(names)

	var out []models.Opportunity
	for _, name := range names {
		g := p.Goals[name]
		months := util.MonthsBetween(ref, g.TargetDate)
		if months < 0 {
			months = 0
		}

		projected := corpus + models.Money(float64(surplus)*months)
		shortfall := g.TargetAmount - projected
		if shortfall <= 0 {
			continue
		}

		action := fmt.Sprintf("Top up savings by %s to get '%s' back on track.",
			util.FormatINR(int64(shortfall)), name)
		if months >= 1 {
			extra := models.Money(math.Ceil(float64(shortfall) / months))
			action = fmt.Sprintf("Raise monthly savings by %s to close the gap before '%s' is due.",
				util.FormatINR(int64(extra)), name)
		}

		out = append(out, models.Opportunity{
			Title: fmt.Sprintf("Goal '%s' is projected %s short", name,
				util.FormatINR(int64(shortfall))),
			Category:             models.CategoryRisk,
			PotentialAnnualValue: shortfall,
			Confidence:           0.8,
			Effort:               effortForPriority(g.Priority),
			ActionSummary:        action,
			SupportingDetector:   d.Name(),
		})
	}
	return out, nil
}

// savingsCorpus is the part of the balance sheet goals draw on: savings
// accounts plus cash holdings.
func (d *GoalTimelineRisk) savingsCorpus(p *models.FinancialProfile) models.Money {
	var total models.Money
	for _, a := range p.Accounts {
		if a.Type == models.AccountSavings {
			total += a.Balance
		}
	}
	for _, h := range p.Holdings {
		if h.AssetClass == models.AssetCash {
			total += h.Value
		}
	}
	return total
}

func effortForPriority(pr models.GoalPriority) models.EffortLevel {
	if pr == models.PriorityHigh {
		return models.EffortHigh
	}
	return models.EffortMedium
}
