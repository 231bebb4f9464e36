package health

import (
	"testing"
	"time"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
)

var ref = time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

func solidProfile() *models.FinancialProfile {
	p := &models.FinancialProfile{
		Accounts: []models.Account{
			{ID: "chk", Type: models.AccountChecking, Balance: models.Rupees(100000)},
			{ID: "sav", Type: models.AccountSavings, Balance: models.Rupees(200000), InterestRateAnnual: 0.06},
		},
		Holdings: []models.Holding{
			{ID: "h1", AssetClass: models.AssetMutualFund, Value: models.Rupees(300000), ExpectedReturnAnnual: 0.11},
		},
	}
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

func TestSnapshotHealthyProfile(t *testing.T) {
	m := New(config.DefaultEngine())

	snap := m.Snapshot(solidProfile())
	if snap.Score < 70 {
		t.Fatalf("healthy profile should score at least 70, got %d", snap.Score)
	}
	if len(snap.Components) != 4 {
		t.Fatalf("expected 4 components, got %d", len(snap.Components))
	}
	if snap.NetWorth != models.Rupees(600000) {
		t.Fatalf("net worth = %d, want %d", snap.NetWorth, models.Rupees(600000))
	}
	if !snap.Timestamp.Equal(ref.AddDate(0, 0, -10)) {
		t.Fatalf("timestamp should be the latest transaction, got %v", snap.Timestamp)
	}
	if len(snap.Alerts) != 0 {
		t.Fatalf("steady spending should raise no alerts, got %+v", snap.Alerts)
	}
}

func TestSnapshotDebtDragsScore(t *testing.T) {
	m := New(config.DefaultEngine())

	p := solidProfile()
	healthy := m.Snapshot(p).Components[models.HealthDebt]

	p.Accounts = append(p.Accounts, models.Account{
		ID: "cc", Type: models.AccountCredit, Balance: -models.Rupees(600000), InterestRateAnnual: 0.36,
	})
	indebted := m.Snapshot(p).Components[models.HealthDebt]

	if healthy != 100 {
		t.Fatalf("no credit outstanding should score 100, got %d", healthy)
	}
	if indebted >= healthy {
		t.Fatalf("heavy debt should drag the component, got %d vs %d", indebted, healthy)
	}
}

func TestSnapshotSpendingAlert(t *testing.T) {
	m := New(config.DefaultEngine())

	p := solidProfile()
	// typical expenses cluster around 15-30k; a 3,00,000 purchase is an outlier
	p.Transactions = append(p.Transactions, models.Transaction{
		Timestamp: ref, Category: "electronics", Amount: -models.Rupees(300000),
	})

	snap := m.Snapshot(p)
	if len(snap.Alerts) == 0 {
		t.Fatal("expected a spending alert for the outlier")
	}
	alert := snap.Alerts[0]
	if alert.Category != "electronics" {
		t.Fatalf("alert category = %s, want electronics", alert.Category)
	}
	if alert.Severity != "high" {
		t.Fatalf("a far outlier should be high severity, got %s", alert.Severity)
	}
}

func TestSnapshotTooFewSamples(t *testing.T) {
	m := New(config.DefaultEngine())

	p := &models.FinancialProfile{
		Transactions: []models.Transaction{
			{Timestamp: ref, Category: "misc", Amount: -models.Rupees(500000)},
			{Timestamp: ref.AddDate(0, 0, -1), Category: "misc", Amount: -models.Rupees(100)},
		},
	}
	if alerts := m.Snapshot(p).Alerts; len(alerts) != 0 {
		t.Fatalf("under five samples no alert should fire, got %+v", alerts)
	}
}
