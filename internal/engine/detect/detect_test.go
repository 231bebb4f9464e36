package detect

import (
	"strings"
	"testing"
	"time"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
)

var ref = time.Date(2025, 6, 30, 12, 0, 0, 0, time.UTC)

// steadyProfile has three months of salary and expense history ending at ref,
// averaging ₹90,000 income and ₹45,000 expense per month.
func steadyProfile() *models.FinancialProfile {
	p := &models.FinancialProfile{}
	for i := 2; i >= 0; i-- {
		ts := ref.AddDate(0, -i, 0)
		p.Transactions = append(p.Transactions,
			models.Transaction{Timestamp: ts.AddDate(0, 0, -25), Category: "salary", Amount: models.Rupees(90000)},
			models.Transaction{Timestamp: ts.AddDate(0, 0, -20), Category: "rent", Amount: -models.Rupees(30000)},
			models.Transaction{Timestamp: ts.AddDate(0, 0, -10), Category: "groceries", Amount: -models.Rupees(15000)},
		)
	}
	return p
}

func TestIdleCash(t *testing.T) {
	cfg := config.DefaultEngine()
	d := NewIdleCash(cfg)

	p := steadyProfile()
	p.Accounts = []models.Account{
		{ID: "chk-1", Type: models.AccountChecking, Balance: models.Rupees(205000), InterestRateAnnual: 0.005},
		{ID: "sav-1", Type: models.AccountSavings, Balance: models.Rupees(100000), InterestRateAnnual: 0.07},
	}

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}

	// 205,000 minus a one-month buffer of 45,000 leaves 1,60,000 idle at a
	// 6.5 point rate gap: 10,400 per year.
	if got, want := opps[0].PotentialAnnualValue, models.Rupees(10400); got != want {
		t.Fatalf("potential value = %d, want %d", got, want)
	}
	if opps[0].Category != models.CategoryYield {
		t.Fatalf("category = %s, want yield", opps[0].Category)
	}
	if opps[0].Effort != models.EffortLow {
		t.Fatalf("effort = %s, want low", opps[0].Effort)
	}
}

func TestIdleCashBelowMinimumGap(t *testing.T) {
	cfg := config.DefaultEngine()
	d := NewIdleCash(cfg)

	p := steadyProfile()
	p.Accounts = []models.Account{
		{ID: "chk-1", Type: models.AccountChecking, Balance: models.Rupees(55000), InterestRateAnnual: 0.03},
		{ID: "sav-1", Type: models.AccountSavings, Balance: models.Rupees(100000), InterestRateAnnual: 0.035},
	}

	// 10,000 excess at a 0.5 point gap is ₹50/year, under the threshold.
	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 0 {
		t.Fatalf("expected silence, got %d opportunities", len(opps))
	}
}

func TestIdleCashEmptyProfile(t *testing.T) {
	d := NewIdleCash(config.DefaultEngine())
	p := &models.FinancialProfile{}
	opps, err := d.Detect(p, p.Derive())
	if err != nil || len(opps) != 0 {
		t.Fatalf("expected silence on empty profile, got %v, %v", opps, err)
	}
}

func TestAllocationDriftUnderweight(t *testing.T) {
	d := NewAllocationDrift(config.DefaultEngine())

	p := steadyProfile()
	p.Holdings = []models.Holding{
		{ID: "h-1", AssetClass: models.AssetStock, Value: models.Rupees(30000), ExpectedReturnAnnual: 0.12},
		{ID: "h-2", AssetClass: models.AssetBond, Value: models.Rupees(70000), ExpectedReturnAnnual: 0.05},
	}

	// 30% growth against a 60% target for the default horizon.
	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	if !strings.Contains(opps[0].Title, "underweight") {
		t.Fatalf("title should flag underweight, got %q", opps[0].Title)
	}
	if opps[0].PotentialAnnualValue <= 0 {
		t.Fatalf("expected positive value, got %d", opps[0].PotentialAnnualValue)
	}
	if opps[0].Category != models.CategoryAllocation {
		t.Fatalf("category = %s, want allocation", opps[0].Category)
	}
}

func TestAllocationDriftWithinTolerance(t *testing.T) {
	d := NewAllocationDrift(config.DefaultEngine())

	p := steadyProfile()
	p.Holdings = []models.Holding{
		{ID: "h-1", AssetClass: models.AssetStock, Value: models.Rupees(58000), ExpectedReturnAnnual: 0.12},
		{ID: "h-2", AssetClass: models.AssetBond, Value: models.Rupees(42000), ExpectedReturnAnnual: 0.05},
	}

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 0 {
		t.Fatalf("2%% drift is inside tolerance, got %d opportunities", len(opps))
	}
}

func TestRecurringOverspend(t *testing.T) {
	d := NewRecurringOverspend(config.DefaultEngine())

	p := &models.FinancialProfile{}
	// Baseline: ~3,000/month on dining from January through March.
	for m := 1; m <= 3; m++ {
		p.Transactions = append(p.Transactions, models.Transaction{
			Timestamp: time.Date(2025, time.Month(m), 5, 0, 0, 0, 0, time.UTC),
			Category:  "dining",
			Amount:    -models.Rupees(3000),
		})
	}
	// Recent: 10,000/month from April through June.
	for m := 4; m <= 6; m++ {
		p.Transactions = append(p.Transactions, models.Transaction{
			Timestamp: time.Date(2025, time.Month(m), 15, 0, 0, 0, 0, time.UTC),
			Category:  "dining",
			Amount:    -models.Rupees(10000),
		})
	}
	p.Transactions = append(p.Transactions, models.Transaction{
		Timestamp: ref, Category: "groceries", Amount: -models.Rupees(100)})

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	if opps[0].Category != models.CategorySpending {
		t.Fatalf("category = %s, want spending", opps[0].Category)
	}
	if !strings.Contains(opps[0].Title, "dining") {
		t.Fatalf("title should name the category, got %q", opps[0].Title)
	}
	if opps[0].PotentialAnnualValue <= 0 {
		t.Fatalf("expected positive reducible value")
	}
}

func TestRecurringOverspendNeedsBaseline(t *testing.T) {
	d := NewRecurringOverspend(config.DefaultEngine())

	// All spending inside the window; no baseline history at all.
	p := &models.FinancialProfile{}
	for m := 4; m <= 6; m++ {
		p.Transactions = append(p.Transactions, models.Transaction{
			Timestamp: time.Date(2025, time.Month(m), 15, 0, 0, 0, 0, time.UTC),
			Category:  "dining",
			Amount:    -models.Rupees(10000),
		})
	}

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 0 {
		t.Fatalf("expected silence without baseline, got %d", len(opps))
	}
}

func TestGoalTimelineRiskShortfall(t *testing.T) {
	d := NewGoalTimelineRisk(config.DefaultEngine())

	p := steadyProfile()
	p.Accounts = []models.Account{
		{ID: "sav-1", Type: models.AccountSavings, Balance: models.Rupees(200000), InterestRateAnnual: 0.06},
	}
	// The snapshot clock is the latest transaction (ten days before ref), so
	// anchor the goal 360 days after that for an exact 12-month runway.
	p.Goals = map[string]models.Goal{
		"house": {
			TargetAmount: models.Rupees(1000000),
			TargetDate:   ref.AddDate(0, 0, 350),
			Priority:     models.PriorityHigh,
		},
	}

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	// 2,00,000 corpus plus 12 months of 45,000 surplus projects to 7,40,000
	// against a 10,00,000 target.
	if got, want := opps[0].PotentialAnnualValue, models.Rupees(260000); got != want {
		t.Fatalf("shortfall = %d, want %d", got, want)
	}
	if opps[0].Effort != models.EffortHigh {
		t.Fatalf("high-priority goal should map to high effort, got %s", opps[0].Effort)
	}
}

func TestGoalTimelineRiskFundedGoalSilent(t *testing.T) {
	d := NewGoalTimelineRisk(config.DefaultEngine())

	p := steadyProfile()
	p.Accounts = []models.Account{
		{ID: "sav-1", Type: models.AccountSavings, Balance: models.Rupees(900000)},
	}
	p.Goals = map[string]models.Goal{
		"car": {TargetAmount: models.Rupees(500000), TargetDate: ref.AddDate(1, 0, 0), Priority: models.PriorityMedium},
	}

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 0 {
		t.Fatalf("funded goal should be silent, got %d", len(opps))
	}
}

func TestTaxInefficiency(t *testing.T) {
	d := NewTaxInefficiency(config.DefaultEngine())

	p := steadyProfile()
	p.Transactions = append(p.Transactions, models.Transaction{
		Timestamp: ref.AddDate(0, -1, 0),
		Category:  "elss",
		Amount:    -models.Rupees(50000),
	})

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	// 1,00,000 of unused room at a 30% marginal rate.
	if got, want := opps[0].PotentialAnnualValue, models.Rupees(30000); got != want {
		t.Fatalf("tax saved = %d, want %d", got, want)
	}
}

func TestTaxInefficiencyLowIncome(t *testing.T) {
	d := NewTaxInefficiency(config.DefaultEngine())

	p := &models.FinancialProfile{
		Transactions: []models.Transaction{
			{Timestamp: ref, Category: "salary", Amount: models.Rupees(30000)},
		},
	}

	opps, err := d.Detect(p, p.Derive())
	if err != nil {
		t.Fatalf("detect: %v", err)
	}
	if len(opps) != 0 {
		t.Fatalf("below the income floor the detector should be silent, got %d", len(opps))
	}
}

func TestRegistryOrder(t *testing.T) {
	dets := All(config.DefaultEngine())
	want := []string{"idle_cash", "allocation_drift", "recurring_overspend", "goal_timeline_risk", "tax_inefficiency"}
	if len(dets) != len(want) {
		t.Fatalf("expected %d detectors, got %d", len(want), len(dets))
	}
	for i, d := range dets {
		if d.Name() != want[i] {
			t.Fatalf("detector %d = %s, want %s", i, d.Name(), want[i])
		}
	}
}
