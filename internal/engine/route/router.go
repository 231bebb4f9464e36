package route

import (
	"regexp"
	"strings"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
)

// Router classifies a query as answerable by the small on-device model or
// needing the remote one. Classification is keyword and pattern based; no
// model call is involved, so routing itself never leaves the device.
//
// Low-confidence classifications always go remote: a wrong local answer costs
// more than a remote round trip.
type Router struct {
	cfg config.EngineConfig
}

func New(cfg config.EngineConfig) *Router {
	return &Router{cfg: cfg}
}

var (
	personalRe = regexp.MustCompile(`(?i)\b(?:my|mine|our|i|me|should i|can i afford)\b`)
	factualRe  = regexp.MustCompile(`(?i)^\s*(?:what is|what's|what are|define|explain|how does|how do|difference between|why do|why does)\b`)
)

var externalKeywords = []string{
	"market", "nifty", "sensex", "stock price", "share price", "today",
	"current rate", "latest", "news", "inflation rate", "repo rate",
	"gold price", "this week", "right now",
}

// Classify produces a routing decision for one query. The sensitivity hint
// flags that profile context will accompany the query, pushing it remote even
// when the text alone looks generic.
func (r *Router) Classify(query string, sensitivityHint bool) models.RoutingDecision {
	q := strings.TrimSpace(query)
	lower := strings.ToLower(q)

	sensitive := containsSensitive(q)
	personal := personalRe.MatchString(q)
	external := false
	for _, kw := range externalKeywords {
		if strings.Contains(lower, kw) {
			external = true
			break
		}
	}
	factual := factualRe.MatchString(q) && len(strings.Fields(q)) <= 20

	var d models.RoutingDecision
	switch {
	case sensitive:
		d.Target = models.TargetRemote
		d.Confidence = 0.9
		if personal {
			d.Reason = models.ReasonRequiresPersonalization
		} else {
			d.Reason = models.ReasonSensitiveDataDetected
		}
	case personal || sensitivityHint:
		d.Target = models.TargetRemote
		d.Reason = models.ReasonRequiresPersonalization
		d.Confidence = 0.85
	case external:
		d.Target = models.TargetRemote
		d.Reason = models.ReasonRequiresExternalData
		d.Confidence = 0.85
	case factual:
		d.Target = models.TargetLocal
		d.Reason = models.ReasonSimpleFactual
		d.Confidence = 0.9
	default:
		// no pattern matched; assume it needs the user's context
		d.Target = models.TargetRemote
		d.Reason = models.ReasonRequiresPersonalization
		d.Confidence = 0.4
	}

	if d.Confidence < r.cfg.ClassificationConfidenceThreshold {
		d.Target = models.TargetRemote
	}

	// Redacted form is prepared whenever the text is sensitive, even for a
	// local verdict: an escalation must never ship the raw query.
	if sensitive {
		d.RedactedQuery = redact(q)
		d.RedactionRequired = d.Target == models.TargetRemote
	}
	return d
}
