package detect

import (
	"fmt"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
	"avesto/pkg/util"
)

// IdleCash flags checking balances sitting above a liquidity buffer while a
// higher-yield savings account exists in the same profile.
type IdleCash struct {
	cfg config.EngineConfig
}

func NewIdleCash(cfg config.EngineConfig) *IdleCash {
	return &IdleCash{cfg: cfg}
}

func (d *IdleCash) Name() string { return "idle_cash" }

func (d *IdleCash) Detect(p *models.FinancialProfile, drv models.Derived) ([]models.Opportunity, error) {
	if len(p.Accounts) == 0 || drv.MonthlyExpense <= 0 {
		return nil, nil
	}

	buffer := models.Money(d.cfg.LiquidityBufferMonths * float64(drv.MonthlyExpense))
	excess := p.CheckingBalance() - buffer
	if excess <= 0 {
		return nil, nil
	}

	best := p.BestSavingsRate()
	current := d.checkingRate(p)
	gap := best - current
	if gap <= 0 {
		return nil, nil
	}

	gain := models.Money(float64(excess) * gap)
	if gain < models.Money(d.cfg.YieldGapMinAnnual) {
		return nil, nil
	}

	return []models.Opportunity{{
		Title:                fmt.Sprintf("Earn %s more per year on idle cash", util.FormatINR(int64(gain))),
		Category:             models.CategoryYield,
		PotentialAnnualValue: gain,
		Confidence:           0.9,
		Effort:               models.EffortLow,
		ActionSummary: fmt.Sprintf(
			"Move %s from checking into your highest-yield savings account (%s vs %s).",
			util.FormatINR(int64(excess)), util.FormatPct(best), util.FormatPct(current)),
		SupportingDetector: d.Name(),
	}}, nil
}

// checkingRate is the balance-weighted interest rate across checking accounts.
func (d *IdleCash) checkingRate(p *models.FinancialProfile) float64 {
	var total models.Money
	var weighted float64
	for _, a := range p.Accounts {
		if a.Type == models.AccountChecking && a.Balance > 0 {
			total += a.Balance
			weighted += float64(a.Balance) * a.InterestRateAnnual
		}
	}
	if total <= 0 {
		return 0
	}
	return weighted / float64(total)
}
