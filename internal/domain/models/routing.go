package models

// RouteTarget selects the model that answers a query.
type RouteTarget string

const (
	TargetLocal  RouteTarget = "local"
	TargetRemote RouteTarget = "remote"
)

// RouteReason explains a routing choice.
type RouteReason string

const (
	ReasonSimpleFactual           RouteReason = "simple_factual"
	ReasonRequiresPersonalization RouteReason = "requires_personalization"
	ReasonRequiresExternalData    RouteReason = "requires_external_data"
	ReasonSensitiveDataDetected   RouteReason = "sensitive_data_detected"
)

// RoutingDecision is the router's verdict for one query. Immutable.
//
// When RedactionRequired is set, RedactedQuery holds the query with raw
// monetary figures and account identifiers replaced by typed placeholders;
// only the redacted form may be sent to the remote backend.
type RoutingDecision struct {
	Target            RouteTarget `json:"target"`
	Reason            RouteReason `json:"reason"`
	RedactionRequired bool        `json:"redaction_required"`
	RedactedQuery     string      `json:"redacted_query,omitempty"`
	Confidence        float64     `json:"confidence"`
}
