package detect

import (
	"fmt"
	"sort"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
	"avesto/pkg/util"
)

// RecurringOverspend compares per-category spending in the recent window
// against the baseline before it and flags categories running hot.
//
// The baseline needs at least thirty days of history before the window starts;
// with less, the detector stays silent rather than guessing.
type RecurringOverspend struct {
	cfg config.EngineConfig
}

func NewRecurringOverspend(cfg config.EngineConfig) *RecurringOverspend {
	return &RecurringOverspend{cfg: cfg}
}

func (d *RecurringOverspend) Name() string { return "recurring_overspend" }

func (d *RecurringOverspend) Detect(p *models.FinancialProfile, drv models.Derived) ([]models.Opportunity, error) {
	if len(p.Transactions) == 0 {
		return nil, nil
	}

	ref := p.ReferenceTime()
	windowStart := ref.AddDate(0, 0, -d.cfg.OverspendWindowDays)

	earliest := ref
	recent := map[string]models.Money{}
	baseline := map[string]models.Money{}
	for _, t := range p.Transactions {
		if t.Timestamp.Before(earliest) {
			earliest = t.Timestamp
		}
		if t.Amount >= 0 {
			continue
		}
		spent := -t.Amount
		if t.Timestamp.After(windowStart) {
			recent[t.Category] += spent
		} else {
			baseline[t.Category] += spent
		}
	}

	baselineDays := windowStart.Sub(earliest).Hours() / 24
	if baselineDays < 30 {
		return nil, nil
	}

	windowMonths := float64(d.cfg.OverspendWindowDays) / 30
	baselineMonths := baselineDays / 30

	cats := make([]string, 0, len(recent))
	for c := range recent {
		cats = append(cats, c)
	}
	sort.Strings(cats)

	var out []models.Opportunity
	for _, cat := range cats {
		base, ok := baseline[cat]
		if !ok || base <= 0 {
			continue
		}
		recentRate := float64(recent[cat]) / windowMonths
		baseRate := float64(base) / baselineMonths
		if recentRate <= baseRate*d.cfg.OverspendFactor {
			continue
		}

		reducible := models.Money(recentRate * 12 * d.cfg.OverspendReductionPct)
		if reducible <= 0 {
			continue
		}
		out = append(out, models.Opportunity{
			Title: fmt.Sprintf("Spending on %s is up %.0f%% against your baseline",
				cat, (recentRate/baseRate-1)*100),
			Category:             models.CategorySpending,
			PotentialAnnualValue: reducible,
			Confidence:           0.6,
			Effort:               models.EffortMedium,
			ActionSummary: fmt.Sprintf(
				"Trim %s spending back toward its usual %s per month to free up %s a year.",
				cat, util.FormatINR(int64(baseRate)), util.FormatINR(int64(reducible))),
			SupportingDetector: d.Name(),
		})
	}
	return out, nil
}
