package models

// Request/response DTOs for the engine API. A caller either embeds a
// materialized profile or names a user to resolve through the profile source.

// OpportunitiesRequest asks for an opportunity scan.
type OpportunitiesRequest struct {
	UserID     string            `json:"user_id" validate:"required_without=Profile"`
	Profile    *FinancialProfile `json:"profile,omitempty"`
	MaxResults int               `json:"max_results" default:"3" validate:"gte=1,lte=10"`
}

// OpportunitiesResponse lists ranked opportunities.
type OpportunitiesResponse struct {
	Opportunities    []Opportunity `json:"opportunities"`
	TotalAnnualValue Money         `json:"total_annual_value"`
	Recommendation   string        `json:"recommendation,omitempty"`
	ProcessingTimeMs int64         `json:"processing_time_ms"`
}

// DecisionScoreRequest asks for a decision score.
type DecisionScoreRequest struct {
	UserID   string            `json:"user_id" validate:"required_without=Profile"`
	Profile  *FinancialProfile `json:"profile,omitempty"`
	Decision ProposedDecision  `json:"decision" validate:"required"`
}

// DecisionScoreResponse wraps a decision score.
type DecisionScoreResponse struct {
	DecisionScore
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// ChatRequest carries a free-text query.
type ChatRequest struct {
	UserID  string            `json:"user_id" validate:"required_without=Profile"`
	Profile *FinancialProfile `json:"profile,omitempty"`
	Message string            `json:"message" validate:"required,min=1,max=1000"`
}

// ChatResponse carries the answer and how it was produced. Degraded is set
// when the answer came from the remote path after a failed local attempt.
type ChatResponse struct {
	Answer           string          `json:"answer"`
	Routing          RoutingDecision `json:"routing"`
	Degraded         bool            `json:"degraded"`
	ProcessingTimeMs int64           `json:"processing_time_ms"`
}
