package models

import "time"

// Health component names. Keys of HealthSnapshot.Components.
const (
	HealthLiquidity       = "liquidity"
	HealthDebt            = "debt"
	HealthSpending        = "spending"
	HealthDiversification = "diversification"
)

// SpendingAlert flags an unusually large recent expense.
type SpendingAlert struct {
	Category    string    `json:"category"`
	Amount      Money     `json:"amount"`
	Severity    string    `json:"severity"` // medium or high
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
}

// HealthSnapshot is a point-in-time financial health reading, computed
// rule-based from a profile without any model call.
type HealthSnapshot struct {
	Score      int             `json:"score"`
	NetWorth   Money           `json:"net_worth"`
	Components map[string]int  `json:"components"`
	Alerts     []SpendingAlert `json:"alerts,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// AnalysisRecord is one persisted engine result, recorded asynchronously to
// the configured sink for history and downstream consumers.
type AnalysisRecord struct {
	UserID  string    `json:"user_id"`
	Kind    string    `json:"kind"` // hunt or decision
	At      time.Time `json:"at"`
	Score   int       `json:"score,omitempty"`
	Found   int       `json:"found,omitempty"`
	Value   Money     `json:"value,omitempty"`
	Summary string    `json:"summary"`
}
