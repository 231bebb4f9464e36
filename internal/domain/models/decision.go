package models

// DecisionKind enumerates scoreable decision kinds.
type DecisionKind string

const (
	DecisionPurchase         DecisionKind = "purchase"
	DecisionAllocationChange DecisionKind = "allocation_change"
	DecisionWithdrawal       DecisionKind = "withdrawal"
)

// Valid reports whether the kind is one of the supported values.
func (k DecisionKind) Valid() bool {
	switch k {
	case DecisionPurchase, DecisionAllocationChange, DecisionWithdrawal:
		return true
	}
	return false
}

// ProposedDecision is a financial action submitted for scoring.
//
// Metadata carries optional hints; the key "goal" names a profile goal the
// decision directly funds.
type ProposedDecision struct {
	Kind        DecisionKind      `json:"kind" validate:"required,oneof=purchase allocation_change withdrawal"`
	Amount      Money             `json:"amount" validate:"required,gt=0"`
	Description string            `json:"description"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Scoring factor names. Keys of DecisionScore.FactorBreakdown.
const (
	FactorAffordability   = "affordability"
	FactorOpportunityCost = "opportunity_cost"
	FactorGoalAlignment   = "goal_alignment"
	FactorRiskImpact      = "risk_impact"
	FactorTiming          = "timing"
)

// DecisionScore is the result of scoring one ProposedDecision. Immutable.
//
// FactorBreakdown maps each factor name to its weighted contribution to the
// final score; the contributions sum (before rounding) to the score itself.
type DecisionScore struct {
	Score           int                `json:"score"`
	FactorBreakdown map[string]float64 `json:"factor_breakdown"`
	Explanation     string             `json:"explanation"`
	Alternative     string             `json:"alternative,omitempty"`
}
