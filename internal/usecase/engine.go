package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"avesto/internal/domain/models"
	domrepo "avesto/internal/domain/repository"
	"avesto/internal/domain/service"
	"avesto/internal/engine/health"
	"avesto/internal/engine/hunt"
	"avesto/internal/engine/route"
	"avesto/internal/engine/score"
	"avesto/pkg/config"
	"avesto/pkg/logger"
	"avesto/pkg/util"
)

// Engine is the single entry point for engine operations. It composes the
// router, hunter, scorer and health monitor, resolves profiles, applies model
// time budgets and records analysis results.
//
// The engine holds no cross-request state: every call works on a profile
// snapshot resolved for that call.
type Engine struct {
	cfg      *config.Config
	hunter   *hunt.Hunter
	scorer   *score.Scorer
	router   *route.Router
	monitor  *health.Monitor
	backend  service.ModelBackend
	profiles service.ProfileSource
	recorder *AnalysisRecorder
	metrics  domrepo.Metrics
	log      *logger.Logger
}

func NewEngine(
	cfg *config.Config,
	hunter *hunt.Hunter,
	scorer *score.Scorer,
	router *route.Router,
	monitor *health.Monitor,
	backend service.ModelBackend,
	profiles service.ProfileSource,
	recorder *AnalysisRecorder,
	metrics domrepo.Metrics,
	log *logger.Logger,
) *Engine {
	return &Engine{
		cfg:      cfg,
		hunter:   hunter,
		scorer:   scorer,
		router:   router,
		monitor:  monitor,
		backend:  backend,
		profiles: profiles,
		recorder: recorder,
		metrics:  metrics,
		log:      log,
	}
}

// resolveProfile prefers an inline profile over the profile source. An inline
// profile is used as-is: the caller vouches for its completeness.
func (e *Engine) resolveProfile(ctx context.Context, userID string, inline *models.FinancialProfile) (*models.FinancialProfile, error) {
	if inline != nil && !inline.Empty() {
		return inline, nil
	}
	if userID != "" && e.profiles != nil {
		return e.profiles.Fetch(ctx, userID)
	}
	return nil, service.ErrEmptyProfile
}

// Hunt scans a profile for opportunities and returns them ranked.
func (e *Engine) Hunt(ctx context.Context, req *models.OpportunitiesRequest) (*models.OpportunitiesResponse, error) {
	start := time.Now()

	p, err := e.resolveProfile(ctx, req.UserID, req.Profile)
	if err != nil {
		return nil, err
	}

	opps, err := e.hunter.Hunt(ctx, p, req.MaxResults)
	if err != nil {
		return nil, err
	}

	var total models.Money
	for _, o := range opps {
		total += o.PotentialAnnualValue
	}

	resp := &models.OpportunitiesResponse{
		Opportunities:    opps,
		TotalAnnualValue: total,
		Recommendation:   huntRecommendation(opps, total),
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}

	e.recorder.Record(&models.AnalysisRecord{
		UserID:  p.UserID,
		Kind:    "hunt",
		At:      time.Now().UTC(),
		Found:   len(opps),
		Value:   total,
		Summary: resp.Recommendation,
	})
	return resp, nil
}

func huntRecommendation(opps []models.Opportunity, total models.Money) string {
	if len(opps) == 0 {
		return "No actionable opportunities found; your finances look well tuned."
	}
	return fmt.Sprintf("Start with: %s Estimated combined annual value %s.",
		opps[0].ActionSummary, util.FormatINR(int64(total)))
}

// ScoreDecision rates a proposed decision against the profile.
func (e *Engine) ScoreDecision(ctx context.Context, req *models.DecisionScoreRequest) (*models.DecisionScoreResponse, error) {
	start := time.Now()

	p, err := e.resolveProfile(ctx, req.UserID, req.Profile)
	if err != nil {
		return nil, err
	}

	ds, err := e.scorer.Score(p, req.Decision)
	if err != nil {
		return nil, err
	}
	if e.metrics != nil {
		e.metrics.RecordDecisionScore(ds.Score)
	}

	e.recorder.Record(&models.AnalysisRecord{
		UserID:  p.UserID,
		Kind:    "decision",
		At:      time.Now().UTC(),
		Score:   ds.Score,
		Value:   req.Decision.Amount,
		Summary: ds.Explanation,
	})
	return &models.DecisionScoreResponse{
		DecisionScore:    *ds,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	}, nil
}

// Health computes a rule-based health snapshot. No model call involved.
func (e *Engine) Health(ctx context.Context, userID string, inline *models.FinancialProfile) (*models.HealthSnapshot, error) {
	p, err := e.resolveProfile(ctx, userID, inline)
	if err != nil {
		return nil, err
	}
	snap := e.monitor.Snapshot(p)
	return &snap, nil
}

// Answer routes a free-text query and invokes the chosen model backend.
//
// A failed local attempt escalates to the remote backend exactly once, marked
// Degraded; when the router prepared a redacted form, the escalation carries
// that form, never the raw text. Remote-first failures are surfaced, not
// retried.
func (e *Engine) Answer(ctx context.Context, req *models.ChatRequest) (*models.ChatResponse, error) {
	start := time.Now()

	decision := e.router.Classify(req.Message, req.Profile != nil)
	if e.metrics != nil {
		e.metrics.RecordRouting(string(decision.Target), string(decision.Reason))
	}

	resp := &models.ChatResponse{Routing: decision}

	if decision.Target == models.TargetLocal {
		answer, err := e.backend.Invoke(ctx, models.TargetLocal, req.Message, e.cfg.Models.Local.Timeout)
		if err == nil {
			resp.Answer = answer
			resp.ProcessingTimeMs = time.Since(start).Milliseconds()
			return resp, nil
		}
		if ctx.Err() != nil {
			// caller gave up; don't burn the remote budget
			return nil, err
		}
		e.log.Warn("local model failed, escalating",
			logger.String("reason", string(decision.Reason)),
			logger.Error(err))
		if e.metrics != nil {
			e.metrics.RecordError("local_escalation")
		}
		resp.Degraded = true
	}

	prompt, err := e.remotePrompt(ctx, req, decision)
	if err != nil {
		return nil, err
	}
	answer, err := e.backend.Invoke(ctx, models.TargetRemote, prompt, e.cfg.Models.Remote.Timeout)
	if err != nil {
		if e.metrics != nil {
			e.metrics.RecordError("remote_model")
		}
		return nil, err
	}
	resp.Answer = answer
	resp.ProcessingTimeMs = time.Since(start).Milliseconds()
	return resp, nil
}

// remotePrompt builds the text sent to the remote backend: the redacted query
// when one was prepared, prefixed with profile context for personalization.
func (e *Engine) remotePrompt(ctx context.Context, req *models.ChatRequest, decision models.RoutingDecision) (string, error) {
	query := req.Message
	if decision.RedactedQuery != "" {
		query = decision.RedactedQuery
	}
	if decision.Reason != models.ReasonRequiresPersonalization {
		return query, nil
	}

	p, err := e.resolveProfile(ctx, req.UserID, req.Profile)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) || errors.Is(err, service.ErrEmptyProfile) {
			// personalized question without a profile still deserves an answer
			return query, nil
		}
		return "", err
	}
	return profileContext(p) + "\n\nQuestion: " + query, nil
}

// profileContext summarizes the snapshot for the model. Only aggregates, never
// account identifiers or raw transactions.
func profileContext(p *models.FinancialProfile) string {
	drv := p.Derive()

	var b strings.Builder
	b.WriteString("User financial context:\n")
	fmt.Fprintf(&b, "- Net worth: %s\n", util.FormatINR(int64(drv.NetWorth)))
	fmt.Fprintf(&b, "- Monthly income: %s, monthly expenses: %s\n",
		util.FormatINR(int64(drv.MonthlyIncome)), util.FormatINR(int64(drv.MonthlyExpense)))
	fmt.Fprintf(&b, "- Liquid balance covers %.1f months of expenses\n", drv.LiquidityRatio)

	if len(p.Goals) > 0 {
		names := make([]string, 0, len(p.Goals))
		for name := range p.Goals {
			names = append(names, name)
		}
		sort.Strings(names)
		ref := p.ReferenceTime()
		for _, name := range names {
			g := p.Goals[name]
			months := int(util.MonthsBetween(ref, g.TargetDate))
			fmt.Fprintf(&b, "- Goal %q: %s in ~%d months (%s priority)\n",
				name, util.FormatINR(int64(g.TargetAmount)), months, g.Priority)
		}
	}
	return b.String()
}
