package models

// EffortLevel is the implementation effort of an opportunity.
type EffortLevel string

const (
	EffortLow    EffortLevel = "low"
	EffortMedium EffortLevel = "medium"
	EffortHigh   EffortLevel = "high"
)

// Rank orders effort levels for ranking ties (low effort preferred).
func (e EffortLevel) Rank() int {
	switch e {
	case EffortLow:
		return 0
	case EffortMedium:
		return 1
	case EffortHigh:
		return 2
	default:
		return 3
	}
}

// Opportunity categories. CategoryRisk marks findings whose value field carries
// a shortfall magnitude rather than an expected gain.
const (
	CategoryYield      = "yield"
	CategoryAllocation = "allocation"
	CategorySpending   = "spending"
	CategoryRisk       = "risk"
	CategoryTax        = "tax"
)

// Opportunity is a detected, ranked financial optimization suggestion.
// Immutable once created by a detector.
type Opportunity struct {
	Title                string      `json:"title"`
	Category             string      `json:"category"`
	PotentialAnnualValue Money       `json:"potential_annual_value"`
	Confidence           float64     `json:"confidence"`
	Effort               EffortLevel `json:"effort_level"`
	ActionSummary        string      `json:"action_summary"`
	SupportingDetector   string      `json:"supporting_detector"`
}

// ImpactScore is the ranking key: estimated value discounted by confidence.
func (o Opportunity) ImpactScore() float64 {
	return float64(o.PotentialAnnualValue) * o.Confidence
}
