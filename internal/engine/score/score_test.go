package score

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"avesto/internal/domain/models"
	"avesto/internal/domain/service"
	"avesto/pkg/config"
)

var ref = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

// historyProfile has three months of salary, rent and groceries, averaging
// roughly ₹90,000 income and ₹45,000 expense per month. Rent recurs on the
// 5th; the latest transaction is June 30, five days before the next rent.
func historyProfile() *models.FinancialProfile {
	p := &models.FinancialProfile{}
	for i := 2; i >= 0; i-- {
		ts := ref.AddDate(0, -i, 0)
		p.Transactions = append(p.Transactions,
			models.Transaction{Timestamp: time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC), Category: "salary", Amount: models.Rupees(90000)},
			models.Transaction{Timestamp: time.Date(ts.Year(), ts.Month(), 5, 0, 0, 0, 0, time.UTC), Category: "rent", Amount: -models.Rupees(30000)},
			models.Transaction{Timestamp: time.Date(ts.Year(), ts.Month(), 15, 0, 0, 0, 0, time.UTC), Category: "groceries", Amount: -models.Rupees(15000)},
		)
	}
	p.Transactions = append(p.Transactions, models.Transaction{
		Timestamp: ref, Category: "misc", Amount: -models.Rupees(500)})
	return p
}

func TestScoreComfortablePurchase(t *testing.T) {
	s := New(config.DefaultEngine())

	p := historyProfile()
	p.Accounts = []models.Account{
		{ID: "chk", Type: models.AccountChecking, Balance: models.Rupees(300000)},
		{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(200000), InterestRateAnnual: 0.06},
	}

	res, err := s.Score(p, models.ProposedDecision{Kind: models.DecisionPurchase, Amount: models.Rupees(20000)})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.Score < 70 {
		t.Fatalf("comfortable purchase should score well, got %d", res.Score)
	}
	if res.Alternative != "" {
		t.Fatalf("no alternative expected for a good decision, got %q", res.Alternative)
	}
	if res.Explanation == "" {
		t.Fatal("explanation must never be empty")
	}
}

func TestScoreRiskyPurchase(t *testing.T) {
	s := New(config.DefaultEngine())

	p := historyProfile()
	p.Accounts = []models.Account{
		{ID: "chk", Type: models.AccountChecking, Balance: models.Rupees(150000)},
		{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(50000), InterestRateAnnual: 0.06},
	}
	p.Goals = map[string]models.Goal{
		"wedding": {TargetAmount: models.Rupees(300000), TargetDate: ref.AddDate(0, 0, 172), Priority: models.PriorityHigh},
	}

	// A purchase nearly the size of all liquid savings, days before rent is
	// due, competing with a high-priority goal.
	res, err := s.Score(p, models.ProposedDecision{Kind: models.DecisionPurchase, Amount: models.Rupees(190000)})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.Score >= 40 {
		t.Fatalf("risky purchase should score below 40, got %d", res.Score)
	}
	if res.FactorBreakdown[models.FactorAffordability] != 0 {
		t.Fatalf("breaching the safety floor must zero affordability, got %f",
			res.FactorBreakdown[models.FactorAffordability])
	}
	if res.Alternative == "" {
		t.Fatal("poor score must come with an alternative")
	}
	if !strings.Contains(res.Explanation, "safety floor") {
		t.Fatalf("explanation should name the weakest factor, got %q", res.Explanation)
	}
}

func TestScoreGoalCorpusDrainingPurchase(t *testing.T) {
	s := New(config.DefaultEngine())

	// Steady history without the trailing misc entry, so the snapshot clock
	// is the June 15 groceries transaction, well clear of the rent cycle.
	p := &models.FinancialProfile{}
	for i := 2; i >= 0; i-- {
		ts := ref.AddDate(0, -i, 0)
		p.Transactions = append(p.Transactions,
			models.Transaction{Timestamp: time.Date(ts.Year(), ts.Month(), 1, 0, 0, 0, 0, time.UTC), Category: "salary", Amount: models.Rupees(90000)},
			models.Transaction{Timestamp: time.Date(ts.Year(), ts.Month(), 5, 0, 0, 0, 0, time.UTC), Category: "rent", Amount: -models.Rupees(30000)},
			models.Transaction{Timestamp: time.Date(ts.Year(), ts.Month(), 15, 0, 0, 0, 0, time.UTC), Category: "groceries", Amount: -models.Rupees(15000)},
		)
	}
	p.Accounts = []models.Account{
		{ID: "chk", Type: models.AccountChecking, Balance: models.Rupees(150000)},
		{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(50000), InterestRateAnnual: 0.06},
	}
	p.Goals = map[string]models.Goal{
		"downpayment": {TargetAmount: models.Rupees(180000), TargetDate: ref.AddDate(0, 6, 0), Priority: models.PriorityHigh},
	}

	// Spending 1,50,000 of a 2,00,000 buffer leaves 50,000 against a
	// 1,80,000 goal due in six months. The goal then rides on future surplus
	// alone, which must drag the total below 40.
	res, err := s.Score(p, models.ProposedDecision{Kind: models.DecisionPurchase, Amount: models.Rupees(150000)})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if res.Score >= 40 {
		t.Fatalf("corpus-draining purchase should score below 40, got %d", res.Score)
	}
	if got, limit := res.FactorBreakdown[models.FactorGoalAlignment], config.DefaultEngine().Weights.GoalAlignment*40; got >= limit {
		t.Fatalf("goal alignment contribution = %f, want below %f", got, limit)
	}
}

func TestScoreBreakdownSumsToScore(t *testing.T) {
	s := New(config.DefaultEngine())

	p := historyProfile()
	p.Accounts = []models.Account{
		{ID: "chk", Type: models.AccountChecking, Balance: models.Rupees(250000)},
		{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(100000), InterestRateAnnual: 0.05},
	}

	res, err := s.Score(p, models.ProposedDecision{Kind: models.DecisionWithdrawal, Amount: models.Rupees(60000)})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	if len(res.FactorBreakdown) != 5 {
		t.Fatalf("expected 5 factors, got %d", len(res.FactorBreakdown))
	}
	sum := 0.0
	for _, v := range res.FactorBreakdown {
		sum += v
	}
	if math.Abs(sum-float64(res.Score)) > 0.5+1e-9 {
		t.Fatalf("breakdown sums to %.3f, score is %d", sum, res.Score)
	}
}

func TestScoreGoalFundingDecision(t *testing.T) {
	s := New(config.DefaultEngine())

	p := historyProfile()
	p.Accounts = []models.Account{
		{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(400000), InterestRateAnnual: 0.06},
	}
	p.Goals = map[string]models.Goal{
		"car": {TargetAmount: models.Rupees(600000), TargetDate: ref.AddDate(2, 0, 0), Priority: models.PriorityMedium},
	}

	res, err := s.Score(p, models.ProposedDecision{
		Kind:     models.DecisionWithdrawal,
		Amount:   models.Rupees(50000),
		Metadata: map[string]string{"goal": "car"},
	})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	want := config.DefaultEngine().Weights.GoalAlignment * 100
	if got := res.FactorBreakdown[models.FactorGoalAlignment]; got != want {
		t.Fatalf("funding a named goal should max goal alignment, got %f want %f", got, want)
	}
}

func TestScoreAllocationChangeOpportunityCost(t *testing.T) {
	s := New(config.DefaultEngine())

	p := historyProfile()
	p.Accounts = []models.Account{
		{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(500000), InterestRateAnnual: 0.06},
	}

	res, err := s.Score(p, models.ProposedDecision{Kind: models.DecisionAllocationChange, Amount: models.Rupees(100000)})
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	want := config.DefaultEngine().Weights.OpportunityCost * 80
	if got := res.FactorBreakdown[models.FactorOpportunityCost]; got != want {
		t.Fatalf("allocation change opportunity cost = %f, want %f", got, want)
	}
}

func TestScoreInvalidInputs(t *testing.T) {
	s := New(config.DefaultEngine())
	p := historyProfile()
	p.Accounts = []models.Account{{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(100000)}}

	if _, err := s.Score(&models.FinancialProfile{}, models.ProposedDecision{Kind: models.DecisionPurchase, Amount: 100}); !errors.Is(err, service.ErrEmptyProfile) {
		t.Fatalf("expected ErrEmptyProfile, got %v", err)
	}
	if _, err := s.Score(p, models.ProposedDecision{Kind: "sell_everything", Amount: 100}); !errors.Is(err, service.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision for bad kind, got %v", err)
	}
	if _, err := s.Score(p, models.ProposedDecision{Kind: models.DecisionPurchase, Amount: 0}); !errors.Is(err, service.ErrInvalidDecision) {
		t.Fatalf("expected ErrInvalidDecision for zero amount, got %v", err)
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := New(config.DefaultEngine())

	p := historyProfile()
	p.Accounts = []models.Account{
		{ID: "chk", Type: models.AccountChecking, Balance: models.Rupees(180000)},
		{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(90000), InterestRateAnnual: 0.055},
	}
	p.Goals = map[string]models.Goal{
		"trip":    {TargetAmount: models.Rupees(150000), TargetDate: ref.AddDate(0, 8, 0), Priority: models.PriorityHigh},
		"gadgets": {TargetAmount: models.Rupees(80000), TargetDate: ref.AddDate(0, 4, 0), Priority: models.PriorityLow},
	}
	d := models.ProposedDecision{Kind: models.DecisionPurchase, Amount: models.Rupees(70000)}

	first, err := s.Score(p, d)
	if err != nil {
		t.Fatalf("score: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := s.Score(p, d)
		if err != nil {
			t.Fatalf("score: %v", err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("scoring is not deterministic")
		}
	}
}
