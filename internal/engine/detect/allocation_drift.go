package detect

import (
	"fmt"
	"math"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
	"avesto/pkg/util"
)

// AllocationDrift compares the portfolio's growth/defensive split against a
// target implied by the investment horizon and flags drift beyond tolerance.
//
// Growth assets are stocks and mutual funds; bonds and cash are defensive.
type AllocationDrift struct {
	cfg config.EngineConfig
}

func NewAllocationDrift(cfg config.EngineConfig) *AllocationDrift {
	return &AllocationDrift{cfg: cfg}
}

func (d *AllocationDrift) Name() string { return "allocation_drift" }

func (d *AllocationDrift) Detect(p *models.FinancialProfile, drv models.Derived) ([]models.Opportunity, error) {
	if len(p.Holdings) == 0 {
		return nil, nil
	}

	var total, growth models.Money
	var growthRet, growthW, defRet, defW float64
	for _, h := range p.Holdings {
		if h.Value <= 0 {
			continue
		}
		total += h.Value
		switch h.AssetClass {
		case models.AssetStock, models.AssetMutualFund:
			growth += h.Value
			growthRet += float64(h.Value) * h.ExpectedReturnAnnual
			growthW += float64(h.Value)
		default:
			defRet += float64(h.Value) * h.ExpectedReturnAnnual
			defW += float64(h.Value)
		}
	}
	if total <= 0 {
		return nil, nil
	}

	actual := float64(growth) / float64(total)
	target := targetGrowthWeight(d.horizonYears(p))
	drift := target - actual
	if math.Abs(drift)*100 <= d.cfg.DriftTolerancePct {
		return nil, nil
	}

	// Expected-return differential between the two sides, with the configured
	// market return standing in when growth holdings carry no estimate.
	gr := d.cfg.MarketReturnAnnual
	if growthW > 0 && growthRet > 0 {
		gr = growthRet / growthW
	}
	dr := 0.0
	if defW > 0 {
		dr = defRet / defW
	}
	diff := gr - dr
	if diff <= 0 {
		return nil, nil
	}

	shift := models.Money(math.Abs(drift) * float64(total))
	h := float64(d.cfg.ProjectionHorizonYears)
	value := models.Money(float64(shift) * (math.Pow(1+diff, h) - 1) / h)

	var title, action string
	if drift > 0 {
		title = fmt.Sprintf("Portfolio is %s underweight in growth assets", util.FormatPct(drift))
		action = fmt.Sprintf(
			"Shift %s from defensive holdings into equity funds to reach a %s growth allocation.",
			util.FormatINR(int64(shift)), util.FormatPct(target))
	} else {
		title = fmt.Sprintf("Portfolio is %s overweight in growth assets", util.FormatPct(-drift))
		action = fmt.Sprintf(
			"Move %s into bonds or cash to bring the growth allocation back to %s for your horizon.",
			util.FormatINR(int64(shift)), util.FormatPct(target))
	}

	return []models.Opportunity{{
		Title:                title,
		Category:             models.CategoryAllocation,
		PotentialAnnualValue: value,
		Confidence:           0.7,
		Effort:               models.EffortMedium,
		ActionSummary:        action,
		SupportingDetector:   d.Name(),
	}}, nil
}

// horizonYears is the time to the nearest high-priority goal, falling back to
// the nearest goal of any priority, then to the projection horizon.
func (d *AllocationDrift) horizonYears(p *models.FinancialProfile) float64 {
	ref := p.ReferenceTime()
	nearest := math.MaxFloat64
	nearestHigh := math.MaxFloat64
	for _, g := range p.Goals {
		years := g.TargetDate.Sub(ref).Hours() / (24 * 365)
		if years <= 0 {
			continue
		}
		if years < nearest {
			nearest = years
		}
		if g.Priority == models.PriorityHigh && years < nearestHigh {
			nearestHigh = years
		}
	}
	switch {
	case nearestHigh < math.MaxFloat64:
		return nearestHigh
	case nearest < math.MaxFloat64:
		return nearest
	default:
		return float64(d.cfg.ProjectionHorizonYears)
	}
}

func targetGrowthWeight(horizonYears float64) float64 {
	switch {
	case horizonYears >= 10:
		return 0.70
	case horizonYears >= 5:
		return 0.60
	case horizonYears >= 3:
		return 0.40
	default:
		return 0.25
	}
}
