package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"avesto/internal/domain/models"
	"avesto/internal/domain/service"
	"avesto/internal/engine/detect"
	"avesto/internal/engine/health"
	"avesto/internal/engine/hunt"
	"avesto/internal/engine/route"
	"avesto/internal/engine/score"
	"avesto/pkg/config"
	"avesto/pkg/logger"
)

type fakeBackend struct {
	local  func(prompt string) (string, error)
	remote func(prompt string) (string, error)

	localCalls       int
	remoteCalls      int
	lastRemotePrompt string
}

func (f *fakeBackend) Invoke(_ context.Context, target models.RouteTarget, prompt string, _ time.Duration) (string, error) {
	switch target {
	case models.TargetLocal:
		f.localCalls++
		if f.local == nil {
			return "", service.ErrModelUnavailable
		}
		return f.local(prompt)
	case models.TargetRemote:
		f.remoteCalls++
		f.lastRemotePrompt = prompt
		if f.remote == nil {
			return "", service.ErrModelUnavailable
		}
		return f.remote(prompt)
	}
	return "", errors.New("unknown target")
}

type fakeSource struct {
	profiles map[string]*models.FinancialProfile
}

func (f *fakeSource) Fetch(_ context.Context, userID string) (*models.FinancialProfile, error) {
	p, ok := f.profiles[userID]
	if !ok {
		return nil, service.ErrProfileNotFound
	}
	return p, nil
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New(&logger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func testConfig() *config.Config {
	cfg := &config.Config{Engine: config.DefaultEngine()}
	cfg.Models.Local.Timeout = 100 * time.Millisecond
	cfg.Models.Remote.Timeout = 500 * time.Millisecond
	return cfg
}

func testEngine(t *testing.T, cfg *config.Config, backend service.ModelBackend, src service.ProfileSource) *Engine {
	t.Helper()
	log := testLogger(t)
	hunter := hunt.New(cfg.Engine, log, nil, detect.All(cfg.Engine))
	return NewEngine(cfg,
		hunter,
		score.New(cfg.Engine),
		route.New(cfg.Engine),
		health.New(cfg.Engine),
		backend,
		src,
		nil, // no recorder
		nil, // no metrics
		log,
	)
}

// testProfile has idle cash in checking: 205k at 0.5% with 45k monthly
// expenses and a 7% savings option.
func testProfile() *models.FinancialProfile {
	base := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)
	p := &models.FinancialProfile{
		UserID: "u1",
		Accounts: []models.Account{
			{ID: "chk", Type: models.AccountChecking, Balance: models.Rupees(205000), InterestRateAnnual: 0.005},
			{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(100000), InterestRateAnnual: 0.07},
		},
	}
	for m := 0; m < 3; m++ {
		at := base.AddDate(0, m, 0)
		p.Transactions = append(p.Transactions,
			models.Transaction{Timestamp: at, Category: "salary", Amount: models.Rupees(90000), AccountID: "chk"},
			models.Transaction{Timestamp: at.AddDate(0, 0, 4), Category: "rent", Amount: -models.Rupees(30000), AccountID: "chk"},
			models.Transaction{Timestamp: at.AddDate(0, 0, 14), Category: "groceries", Amount: -models.Rupees(15000), AccountID: "chk"},
		)
	}
	return p
}

func TestAnswerFactualStaysLocal(t *testing.T) {
	backend := &fakeBackend{
		local: func(string) (string, error) { return "Compound interest is interest on interest.", nil },
	}
	eng := testEngine(t, testConfig(), backend, nil)

	resp, err := eng.Answer(context.Background(), &models.ChatRequest{
		UserID:  "u1",
		Message: "What is compound interest?",
	})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.Routing.Target != models.TargetLocal {
		t.Fatalf("target = %q, want local", resp.Routing.Target)
	}
	if resp.Degraded {
		t.Fatal("unexpected degraded flag on local success")
	}
	if backend.remoteCalls != 0 {
		t.Fatalf("remote called %d times, want 0", backend.remoteCalls)
	}
	if resp.Answer == "" {
		t.Fatal("empty answer")
	}
}

func TestAnswerLocalTimeoutEscalatesOnce(t *testing.T) {
	backend := &fakeBackend{
		local:  func(string) (string, error) { return "", service.ErrModelTimeout },
		remote: func(string) (string, error) { return "Here is the definition.", nil },
	}
	eng := testEngine(t, testConfig(), backend, nil)

	resp, err := eng.Answer(context.Background(), &models.ChatRequest{
		UserID:  "u1",
		Message: "What is compound interest?",
	})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if !resp.Degraded {
		t.Fatal("escalated answer should be marked degraded")
	}
	if backend.localCalls != 1 || backend.remoteCalls != 1 {
		t.Fatalf("calls local=%d remote=%d, want 1/1", backend.localCalls, backend.remoteCalls)
	}
	if resp.Answer != "Here is the definition." {
		t.Fatalf("answer = %q", resp.Answer)
	}
}

func TestAnswerRemoteFailureSurfaces(t *testing.T) {
	backend := &fakeBackend{
		remote: func(string) (string, error) { return "", service.ErrModelUnavailable },
	}
	eng := testEngine(t, testConfig(), backend, nil)

	_, err := eng.Answer(context.Background(), &models.ChatRequest{
		Profile: testProfile(),
		Message: "Should I rebalance my portfolio?",
	})
	if !errors.Is(err, service.ErrModelUnavailable) {
		t.Fatalf("err = %v, want ErrModelUnavailable", err)
	}
	if backend.localCalls != 0 {
		t.Fatal("remote-first failure must not fall back to local")
	}
}

func TestAnswerRedactsAndPersonalizesRemotePrompt(t *testing.T) {
	backend := &fakeBackend{
		remote: func(string) (string, error) { return "Consider holding.", nil },
	}
	eng := testEngine(t, testConfig(), backend, nil)

	resp, err := eng.Answer(context.Background(), &models.ChatRequest{
		Profile: testProfile(),
		Message: "Should I sell my mutual fund holding worth ₹350,000?",
	})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if resp.Routing.Target != models.TargetRemote {
		t.Fatalf("target = %q, want remote", resp.Routing.Target)
	}
	if !resp.Routing.RedactionRequired {
		t.Fatal("expected redaction for raw amount going remote")
	}
	if strings.Contains(backend.lastRemotePrompt, "350,000") {
		t.Fatalf("raw amount leaked to remote prompt: %q", backend.lastRemotePrompt)
	}
	if !strings.Contains(backend.lastRemotePrompt, "<AMOUNT>") {
		t.Fatalf("prompt missing placeholder: %q", backend.lastRemotePrompt)
	}
	if !strings.Contains(backend.lastRemotePrompt, "Net worth") {
		t.Fatalf("prompt missing profile context: %q", backend.lastRemotePrompt)
	}
}

func TestHuntAggregatesAndRecommends(t *testing.T) {
	eng := testEngine(t, testConfig(), &fakeBackend{}, nil)

	resp, err := eng.Hunt(context.Background(), &models.OpportunitiesRequest{
		Profile:    testProfile(),
		MaxResults: 3,
	})
	if err != nil {
		t.Fatalf("Hunt: %v", err)
	}
	if len(resp.Opportunities) == 0 {
		t.Fatal("expected at least the idle cash opportunity")
	}
	var sum models.Money
	for _, o := range resp.Opportunities {
		sum += o.PotentialAnnualValue
	}
	if resp.TotalAnnualValue != sum {
		t.Fatalf("total = %d, want %d", resp.TotalAnnualValue, sum)
	}
	if resp.Recommendation == "" {
		t.Fatal("empty recommendation")
	}
}

func TestScoreDecisionResolvesViaSource(t *testing.T) {
	src := &fakeSource{profiles: map[string]*models.FinancialProfile{"u1": testProfile()}}
	eng := testEngine(t, testConfig(), &fakeBackend{}, src)

	resp, err := eng.ScoreDecision(context.Background(), &models.DecisionScoreRequest{
		UserID: "u1",
		Decision: models.ProposedDecision{
			Kind:   models.DecisionPurchase,
			Amount: models.Rupees(20000),
		},
	})
	if err != nil {
		t.Fatalf("ScoreDecision: %v", err)
	}
	if resp.Score < 0 || resp.Score > 100 {
		t.Fatalf("score %d out of range", resp.Score)
	}

	_, err = eng.ScoreDecision(context.Background(), &models.DecisionScoreRequest{
		UserID: "ghost",
		Decision: models.ProposedDecision{
			Kind:   models.DecisionPurchase,
			Amount: models.Rupees(20000),
		},
	})
	if !errors.Is(err, service.ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestHealthSnapshotFromInlineProfile(t *testing.T) {
	eng := testEngine(t, testConfig(), &fakeBackend{}, nil)

	snap, err := eng.Health(context.Background(), "", testProfile())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if snap.Score < 0 || snap.Score > 100 {
		t.Fatalf("health score %d out of range", snap.Score)
	}
	if len(snap.Components) != 4 {
		t.Fatalf("components = %d, want 4", len(snap.Components))
	}
}

func TestResolveProfileRequiresSomething(t *testing.T) {
	eng := testEngine(t, testConfig(), &fakeBackend{}, nil)

	_, err := eng.Hunt(context.Background(), &models.OpportunitiesRequest{})
	if !errors.Is(err, service.ErrEmptyProfile) {
		t.Fatalf("err = %v, want ErrEmptyProfile", err)
	}
}
