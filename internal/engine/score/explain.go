package score

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"avesto/internal/domain/models"
	"avesto/pkg/util"
)

// explain builds a plain-language explanation from the one or two weakest
// factors, and an alternative suggestion when the overall score is poor.
func (s *Scorer) explain(ev *evaluation, final int) (string, string) {
	type weak struct {
		name  string
		score float64
	}
	var weaks []weak
	for name, sc := range ev.scores {
		if sc < 60 {
			weaks = append(weaks, weak{name, sc})
		}
	}
	sort.Slice(weaks, func(i, j int) bool {
		if weaks[i].score != weaks[j].score {
			return weaks[i].score < weaks[j].score
		}
		return weaks[i].name < weaks[j].name
	})

	if len(weaks) == 0 {
		expl := "All five factors look healthy: the amount fits comfortably within your disposable liquidity and nothing competes with it."
		return expl, ""
	}

	var parts []string
	for i, w := range weaks {
		if i == 2 {
			break
		}
		parts = append(parts, s.factorSentence(w.name, ev))
	}
	expl := strings.Join(parts, " ")

	alt := ""
	if final < 70 {
		alt = s.alternative(weaks[0].name, ev)
	}
	return expl, alt
}

func (s *Scorer) factorSentence(factor string, ev *evaluation) string {
	switch factor {
	case models.FactorAffordability:
		return fmt.Sprintf(
			"Affordability is the main concern: this would leave %s liquid, under your %.0f-month safety floor of %s.",
			util.FormatINR(int64(ev.postLiquid)), s.cfg.SafetyFloorMonths, util.FormatINR(int64(ev.floor)))
	case models.FactorOpportunityCost:
		return fmt.Sprintf(
			"The opportunity cost is steep: invested at %s, this money could grow by %s over %d years.",
			util.FormatPct(s.cfg.MarketReturnAnnual), util.FormatINR(int64(ev.foregone)), s.cfg.ProjectionHorizonYears)
	case models.FactorGoalAlignment:
		return fmt.Sprintf(
			"It competes with your high-priority goal '%s', due in about %.0f months.",
			ev.goalName, ev.goalMonths)
	case models.FactorRiskImpact:
		return fmt.Sprintf(
			"It would cut your liquidity cover to %.1f months of expenses, against a safe minimum of %.0f.",
			ev.liqMonths, s.cfg.MinLiquidityMonths)
	case models.FactorTiming:
		return fmt.Sprintf(
			"Timing is poor: it lands days before your recurring '%s' bills around the %d%s.",
			ev.recurCat, ev.recurDay, ordinal(ev.recurDay))
	default:
		return ""
	}
}

func (s *Scorer) alternative(factor string, ev *evaluation) string {
	switch factor {
	case models.FactorAffordability:
		if ev.surplus > 0 {
			gap := ev.floor - ev.postLiquid
			if gap > 0 {
				months := int(math.Ceil(float64(gap) / float64(ev.surplus)))
				return fmt.Sprintf(
					"Delay this by about %d month(s); at your current savings rate your buffer recovers above the safety floor by then.",
					months)
			}
			return "Spread the spend over the next few months so your buffer stays above the safety floor."
		}
		return "Hold off until your monthly savings rate turns positive again."
	case models.FactorOpportunityCost:
		return fmt.Sprintf(
			"Consider a monthly investment plan instead of a lump sum; the same amount deployed gradually keeps more of the %s growth potential.",
			util.FormatINR(int64(ev.foregone)))
	case models.FactorGoalAlignment:
		if ev.goalName != "" {
			return fmt.Sprintf("Reduce the amount so '%s' stays fully funded, or revisit after its target date.", ev.goalName)
		}
		return "Earmark this against a named goal so it works with your plan rather than against it."
	case models.FactorRiskImpact:
		return fmt.Sprintf(
			"Split the spend across several months to keep at least %.0f months of expenses liquid throughout.",
			s.cfg.MinLiquidityMonths)
	case models.FactorTiming:
		return fmt.Sprintf("Wait until after the %d%s, once this month's recurring bills have cleared.",
			ev.recurDay, ordinal(ev.recurDay))
	default:
		return ""
	}
}

func ordinal(n int) string {
	if n >= 11 && n <= 13 {
		return "th"
	}
	switch n % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
