package detect

import (
	"fmt"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
	"avesto/pkg/util"
)

// taxSavingCategories are transaction categories counted as tax-advantaged
// contributions for the current fiscal year.
var taxSavingCategories = map[string]bool{
	"tax_saving": true,
	"elss":       true,
	"ppf":        true,
	"nps":        true,
}

// TaxInefficiency estimates unused tax-advantaged contribution room and the
// tax saved by filling it before fiscal year end.
type TaxInefficiency struct {
	cfg config.EngineConfig
}

func NewTaxInefficiency(cfg config.EngineConfig) *TaxInefficiency {
	return &TaxInefficiency{cfg: cfg}
}

func (d *TaxInefficiency) Name() string { return "tax_inefficiency" }

func (d *TaxInefficiency) Detect(p *models.FinancialProfile, drv models.Derived) ([]models.Opportunity, error) {
	annualIncome := drv.MonthlyIncome * 12
	if annualIncome < models.Money(d.cfg.TaxIncomeFloor) {
		return nil, nil
	}

	ref := p.ReferenceTime()
	fyStart := util.FiscalYearStart(ref)

	var contributed models.Money
	for _, t := range p.Transactions {
		if t.Amount < 0 && !t.Timestamp.Before(fyStart) && taxSavingCategories[t.Category] {
			contributed += -t.Amount
		}
	}

	room := models.Money(d.cfg.TaxContributionLimit) - contributed
	if room <= 0 {
		return nil, nil
	}

	saved := models.Money(float64(room) * d.cfg.TaxMarginalRate)
	return []models.Opportunity{{
		Title:                fmt.Sprintf("Save %s in taxes this fiscal year", util.FormatINR(int64(saved))),
		Category:             models.CategoryTax,
		PotentialAnnualValue: saved,
		Confidence:           0.85,
		Effort:               models.EffortLow,
		ActionSummary: fmt.Sprintf(
			"Invest the remaining %s of tax-advantaged room (ELSS/PPF/NPS) before March 31.",
			util.FormatINR(int64(room))),
		SupportingDetector: d.Name(),
	}}, nil
}
