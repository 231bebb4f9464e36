package score

import (
	"math"
	"sort"
	"time"

	"avesto/internal/domain/models"
	"avesto/pkg/util"
)

// evaluation carries each factor's unweighted score plus the intermediate
// numbers the explanation builder needs.
type evaluation struct {
	scores map[string]float64

	postLiquid   models.Money
	floor        models.Money
	surplus      models.Money // monthly
	foregone     models.Money
	goalName     string
	goalMonths   float64
	goalRequired models.Money
	liqMonths    float64
	recurCat     string
	recurDay     int
}

func (s *Scorer) evaluate(p *models.FinancialProfile, drv models.Derived, d models.ProposedDecision) *evaluation {
	ev := &evaluation{scores: map[string]float64{}}
	ev.surplus = drv.MonthlyIncome - drv.MonthlyExpense

	ev.scores[models.FactorAffordability] = s.affordability(p, drv, d, ev)
	ev.scores[models.FactorOpportunityCost] = s.opportunityCost(drv, d, ev)
	ev.scores[models.FactorGoalAlignment] = s.goalAlignment(p, d, ev)
	ev.scores[models.FactorRiskImpact] = s.riskImpact(p, drv, d, ev)
	ev.scores[models.FactorTiming] = s.timing(p, drv, d, ev)
	return ev
}

// affordability is zero when the decision would push liquid balances under the
// safety floor, and scales with the share of disposable liquidity consumed
// otherwise.
func (s *Scorer) affordability(p *models.FinancialProfile, drv models.Derived, d models.ProposedDecision, ev *evaluation) float64 {
	liquid := p.LiquidBalance()
	ev.floor = models.Money(s.cfg.SafetyFloorMonths * float64(drv.MonthlyExpense))
	ev.postLiquid = liquid - d.Amount

	if ev.postLiquid < ev.floor {
		return 0
	}
	disposable := liquid - ev.floor
	if disposable <= 0 {
		return 0
	}
	ratio := float64(d.Amount) / float64(disposable)
	if ratio <= 0.1 {
		return 100
	}
	return clamp(100 * (1 - ratio))
}

// opportunityCost compares the growth foregone over the projection horizon
// against the annual surplus. Allocation changes keep the money invested, so
// they carry only a small friction penalty.
func (s *Scorer) opportunityCost(drv models.Derived, d models.ProposedDecision, ev *evaluation) float64 {
	if d.Kind == models.DecisionAllocationChange {
		return 80
	}

	r := s.cfg.MarketReturnAnnual
	h := float64(s.cfg.ProjectionHorizonYears)
	ev.foregone = models.Money(float64(d.Amount) * (math.Pow(1+r, h) - 1))

	annualSurplus := ev.surplus * 12
	if annualSurplus <= 0 {
		return 25
	}
	ratio := float64(ev.foregone) / float64(annualSurplus)
	return clamp(100 - 50*ratio)
}

// goalAlignment rewards decisions that fund a named goal and penalizes ones
// that compete with a high-priority goal due within a year. The penalty
// deepens when the decision leaves less liquid than the goal still needs,
// since the goal then depends entirely on future surplus materializing.
func (s *Scorer) goalAlignment(p *models.FinancialProfile, d models.ProposedDecision, ev *evaluation) float64 {
	if name := d.Metadata["goal"]; name != "" {
		if _, ok := p.Goals[name]; ok {
			ev.goalName = name
			return 100
		}
	}

	ref := p.ReferenceTime()
	names := make([]string, 0, len(p.Goals))
	for name := range p.Goals {
		names = append(names, name)
	}
	sort.Strings(names)

	best := 80.0 // neutral when nothing competes
	for _, name := range names {
		g := p.Goals[name]
		if g.Priority != models.PriorityHigh || g.TargetAmount <= 0 {
			continue
		}
		months := util.MonthsBetween(ref, g.TargetDate)
		if months <= 0 || months > 12 {
			continue
		}
		penalty := 60 * math.Min(1, float64(d.Amount)/float64(g.TargetAmount))
		if ev.postLiquid < g.TargetAmount {
			// affordability has already computed the post-decision liquid
			// balance; the share of the target it no longer covers deepens
			// the penalty past the competing-goal base.
			uncovered := math.Min(1, float64(g.TargetAmount-ev.postLiquid)/float64(g.TargetAmount))
			penalty += 40 * uncovered
		}
		if sc := 100 - penalty; sc < best {
			best = sc
			ev.goalName = name
			ev.goalMonths = months
			ev.goalRequired = g.TargetAmount
		}
	}
	return clamp(best)
}

// riskImpact is the weaker of two safety readings after the decision: months
// of expenses still liquid, and debt load against income.
func (s *Scorer) riskImpact(p *models.FinancialProfile, drv models.Derived, d models.ProposedDecision, ev *evaluation) float64 {
	post := p.LiquidBalance() - d.Amount

	liqScore := 100.0
	if drv.MonthlyExpense > 0 {
		ev.liqMonths = float64(post) / float64(drv.MonthlyExpense)
		liqScore = clamp(100 * ev.liqMonths / (2 * s.cfg.MinLiquidityMonths))
	}

	debtScore := 100.0
	if annualIncome := drv.MonthlyIncome * 12; annualIncome > 0 {
		ratio := float64(p.CreditOutstanding()) / float64(annualIncome)
		debtScore = clamp(100 * (1 - ratio/(2*s.cfg.MaxDebtToIncome)))
	}

	return math.Min(liqScore, debtScore)
}

// timing starts from a neutral baseline and penalizes large purchases landing
// in the week before the profile's dominant recurring expense.
func (s *Scorer) timing(p *models.FinancialProfile, drv models.Derived, d models.ProposedDecision, ev *evaluation) float64 {
	const baseline = 80.0
	if d.Kind != models.DecisionPurchase {
		return baseline
	}

	cat, day, ok := dominantRecurring(p)
	if !ok {
		return baseline
	}

	large := ev.surplus <= 0 || d.Amount > ev.surplus
	if !large {
		return baseline
	}

	ref := p.ReferenceTime()
	days := day - ref.Day()
	if days < 0 {
		days += daysInMonth(ref)
	}
	if days > 0 && days <= 7 {
		ev.recurCat = cat
		ev.recurDay = day
		return 45
	}
	return baseline
}

// dominantRecurring finds the expense category seen in at least three distinct
// months with the highest total spend, and its modal day of month.
func dominantRecurring(p *models.FinancialProfile) (string, int, bool) {
	months := map[string]map[int]bool{}
	totals := map[string]models.Money{}
	days := map[string]map[int]int{}

	for _, t := range p.Transactions {
		if t.Amount >= 0 {
			continue
		}
		cat := t.Category
		if months[cat] == nil {
			months[cat] = map[int]bool{}
			days[cat] = map[int]int{}
		}
		months[cat][t.Timestamp.Year()*12+int(t.Timestamp.Month())] = true
		totals[cat] += -t.Amount
		days[cat][t.Timestamp.Day()]++
	}

	bestCat := ""
	var bestTotal models.Money
	cats := make([]string, 0, len(totals))
	for c := range totals {
		cats = append(cats, c)
	}
	sort.Strings(cats)
	for _, c := range cats {
		if len(months[c]) >= 3 && totals[c] > bestTotal {
			bestCat, bestTotal = c, totals[c]
		}
	}
	if bestCat == "" {
		return "", 0, false
	}

	modal, modalCount := 0, 0
	for day, count := range days[bestCat] {
		if count > modalCount || (count == modalCount && day < modal) {
			modal, modalCount = day, count
		}
	}
	return bestCat, modal, true
}

// daysInMonth returns the number of days in t's month.
func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location()).Day()
}
