package health

import (
	"fmt"
	"math"
	"sort"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
	"avesto/pkg/util"
)

// Monitor computes a rule-based financial health reading from a profile
// snapshot. No model call is involved; a snapshot is cheap enough to compute
// on every tick of a stream.
type Monitor struct {
	cfg config.EngineConfig
}

func New(cfg config.EngineConfig) *Monitor {
	return &Monitor{cfg: cfg}
}

// Component weights for the overall score.
const (
	wLiquidity       = 0.30
	wDebt            = 0.25
	wSpending        = 0.25
	wDiversification = 0.20
)

// Snapshot computes the health reading for one profile.
func (m *Monitor) Snapshot(p *models.FinancialProfile) models.HealthSnapshot {
	drv := p.Derive()

	comps := map[string]int{
		models.HealthLiquidity:       m.liquidityScore(drv),
		models.HealthDebt:            m.debtScore(p, drv),
		models.HealthSpending:        m.spendingScore(drv),
		models.HealthDiversification: m.diversificationScore(p),
	}

	overall := wLiquidity*float64(comps[models.HealthLiquidity]) +
		wDebt*float64(comps[models.HealthDebt]) +
		wSpending*float64(comps[models.HealthSpending]) +
		wDiversification*float64(comps[models.HealthDiversification])

	return models.HealthSnapshot{
		Score:      int(math.Round(overall)),
		NetWorth:   drv.NetWorth,
		Components: comps,
		Alerts:     m.spendingAlerts(p),
		Timestamp:  p.ReferenceTime(),
	}
}

// liquidityScore saturates at six months of expenses covered.
func (m *Monitor) liquidityScore(drv models.Derived) int {
	if drv.MonthlyExpense <= 0 {
		return 50 // no expense history, nothing to judge
	}
	return int(math.Round(clamp(100 * drv.LiquidityRatio / 6)))
}

// debtScore is full with no credit outstanding and zero at twice the
// configured debt-to-income ceiling.
func (m *Monitor) debtScore(p *models.FinancialProfile, drv models.Derived) int {
	debt := p.CreditOutstanding()
	if debt <= 0 {
		return 100
	}
	annualIncome := drv.MonthlyIncome * 12
	if annualIncome <= 0 {
		return 0
	}
	ratio := float64(debt) / float64(annualIncome)
	return int(math.Round(clamp(100 * (1 - ratio/(2*m.cfg.MaxDebtToIncome)))))
}

// spendingScore rewards the savings rate: spending all income scores zero,
// saving 40% or more scores full.
func (m *Monitor) spendingScore(drv models.Derived) int {
	if drv.MonthlyIncome <= 0 {
		return 50
	}
	rate := float64(drv.MonthlyIncome-drv.MonthlyExpense) / float64(drv.MonthlyIncome)
	return int(math.Round(clamp(100 * rate / 0.4)))
}

// diversificationScore rewards holding invested assets beyond bank balances,
// saturating when investments reach half of liquid wealth.
func (m *Monitor) diversificationScore(p *models.FinancialProfile) int {
	var invested models.Money
	for _, h := range p.Holdings {
		if h.AssetClass != models.AssetCash {
			invested += h.Value
		}
	}
	total := p.LiquidBalance() + invested
	if total <= 0 {
		return 0
	}
	share := float64(invested) / float64(total)
	return int(math.Round(clamp(100 * share / 0.5)))
}

// spendingAlerts flags expenses among the last five that sit more than two
// standard deviations above the rest of the expense history. Each candidate is
// judged against the other expenses only, so a single huge purchase cannot
// hide by inflating its own baseline. At least five expense samples are
// needed before anything is flagged.
func (m *Monitor) spendingAlerts(p *models.FinancialProfile) []models.SpendingAlert {
	var expenses []models.Transaction
	for _, t := range p.Transactions {
		if t.Amount < 0 {
			expenses = append(expenses, t)
		}
	}
	if len(expenses) < 5 {
		return nil
	}
	sort.SliceStable(expenses, func(i, j int) bool {
		return expenses[i].Timestamp.Before(expenses[j].Timestamp)
	})

	first := len(expenses) - 5
	if first < 0 {
		first = 0
	}

	var alerts []models.SpendingAlert
	for i := first; i < len(expenses); i++ {
		t := expenses[i]
		mean, stddev := expenseStats(expenses, i)
		if stddev <= 0 || mean <= 0 {
			continue
		}
		spent := float64(-t.Amount)
		if spent <= mean+2*stddev {
			continue
		}
		severity := "medium"
		if spent > mean+3*stddev {
			severity = "high"
		}
		alerts = append(alerts, models.SpendingAlert{
			Category:  t.Category,
			Amount:    -t.Amount,
			Severity:  severity,
			Timestamp: t.Timestamp,
			Description: fmt.Sprintf("%s spend of %s is %.1fx your typical expense",
				t.Category, util.FormatINR(int64(-t.Amount)), spent/mean),
		})
	}
	return alerts
}

// expenseStats computes mean and population stddev over all expenses except
// the one at index skip.
func expenseStats(expenses []models.Transaction, skip int) (mean, stddev float64) {
	n := 0.0
	for i, t := range expenses {
		if i == skip {
			continue
		}
		mean += float64(-t.Amount)
		n++
	}
	if n == 0 {
		return 0, 0
	}
	mean /= n

	var variance float64
	for i, t := range expenses {
		if i == skip {
			continue
		}
		d := float64(-t.Amount) - mean
		variance += d * d
	}
	variance /= n
	return mean, math.Sqrt(variance)
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
