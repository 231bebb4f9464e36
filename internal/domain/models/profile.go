package models

import "time"

// Money is a monetary amount in minor currency units (paise). All monetary
// fields in a profile share one currency and one unit; integer math avoids
// floating-point drift in value estimates.
type Money int64

// Rupees converts whole rupees to Money.
func Rupees(r int64) Money { return Money(r * 100) }

// AccountType enumerates supported account kinds.
type AccountType string

const (
	AccountSavings  AccountType = "savings"
	AccountChecking AccountType = "checking"
	AccountCredit   AccountType = "credit"
)

// AssetClass enumerates supported holding classes.
type AssetClass string

const (
	AssetMutualFund AssetClass = "mutual_fund"
	AssetStock      AssetClass = "stock"
	AssetBond       AssetClass = "bond"
	AssetCash       AssetClass = "cash"
)

// GoalPriority enumerates goal priorities.
type GoalPriority string

const (
	PriorityLow    GoalPriority = "low"
	PriorityMedium GoalPriority = "medium"
	PriorityHigh   GoalPriority = "high"
)

// Account is a bank or credit account. Credit accounts carry the outstanding
// amount owed as a negative balance, so net worth is a plain sum.
type Account struct {
	ID                 string      `json:"id"`
	Type               AccountType `json:"type"`
	Balance            Money       `json:"balance"`
	InterestRateAnnual float64     `json:"interest_rate_annual"`
}

// Holding is an investment position.
type Holding struct {
	ID                   string     `json:"id"`
	AssetClass           AssetClass `json:"asset_class"`
	Value                Money      `json:"value"`
	ExpectedReturnAnnual float64    `json:"expected_return_annual"`
}

// Transaction is a single money movement. Amount is signed: negative is an
// expense, positive is income.
type Transaction struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	Amount    Money     `json:"amount"`
	AccountID string    `json:"account_id"`
}

// Goal is a savings target with a deadline.
type Goal struct {
	TargetAmount Money        `json:"target_amount"`
	TargetDate   time.Time    `json:"target_date"`
	Priority     GoalPriority `json:"priority"`
}

// FinancialProfile is an immutable snapshot of a user's financial state for
// the duration of one engine invocation. It is constructed fresh per request
// and never mutated; the engine holds no cross-request state.
type FinancialProfile struct {
	UserID       string          `json:"user_id,omitempty"`
	Accounts     []Account       `json:"accounts"`
	Holdings     []Holding       `json:"holdings"`
	Transactions []Transaction   `json:"transactions"` // chronological
	Goals        map[string]Goal `json:"goals,omitempty"`
}

// Derived holds per-snapshot aggregates. Computed once, not stored.
type Derived struct {
	NetWorth       Money   `json:"net_worth"`
	MonthlyIncome  Money   `json:"monthly_income"`
	MonthlyExpense Money   `json:"monthly_expense"`
	// LiquidityRatio is months of expenses covered by liquid balances.
	LiquidityRatio float64 `json:"liquidity_ratio"`
}

// Empty reports whether the snapshot carries no usable data.
func (p *FinancialProfile) Empty() bool {
	return p == nil || (len(p.Accounts) == 0 && len(p.Holdings) == 0 && len(p.Transactions) == 0)
}

// LiquidBalance sums savings and checking balances.
func (p *FinancialProfile) LiquidBalance() Money {
	var total Money
	for _, a := range p.Accounts {
		if a.Type == AccountSavings || a.Type == AccountChecking {
			total += a.Balance
		}
	}
	return total
}

// CheckingBalance sums checking balances.
func (p *FinancialProfile) CheckingBalance() Money {
	var total Money
	for _, a := range p.Accounts {
		if a.Type == AccountChecking {
			total += a.Balance
		}
	}
	return total
}

// CreditOutstanding sums the amounts owed on credit accounts as a positive
// number.
func (p *FinancialProfile) CreditOutstanding() Money {
	var total Money
	for _, a := range p.Accounts {
		if a.Type == AccountCredit && a.Balance < 0 {
			total -= a.Balance
		}
	}
	return total
}

// BestSavingsRate returns the highest annual rate among savings accounts.
func (p *FinancialProfile) BestSavingsRate() float64 {
	best := 0.0
	for _, a := range p.Accounts {
		if a.Type == AccountSavings && a.InterestRateAnnual > best {
			best = a.InterestRateAnnual
		}
	}
	return best
}

// ReferenceTime is the snapshot's notion of "now": the latest transaction
// timestamp. Using it instead of the wall clock keeps every computation over a
// snapshot reproducible.
func (p *FinancialProfile) ReferenceTime() time.Time {
	var latest time.Time
	for _, t := range p.Transactions {
		if t.Timestamp.After(latest) {
			latest = t.Timestamp
		}
	}
	return latest
}

// Derive computes the per-snapshot aggregates.
//
// Monthly income and expense are averages over the calendar months present in
// the transaction history; a snapshot with no transactions derives zeros.
func (p *FinancialProfile) Derive() Derived {
	var d Derived

	for _, a := range p.Accounts {
		d.NetWorth += a.Balance
	}
	for _, h := range p.Holdings {
		d.NetWorth += h.Value
	}

	type monthKey struct {
		year  int
		month time.Month
	}
	income := map[monthKey]Money{}
	expense := map[monthKey]Money{}
	for _, t := range p.Transactions {
		k := monthKey{t.Timestamp.Year(), t.Timestamp.Month()}
		if t.Amount >= 0 {
			income[k] += t.Amount
		} else {
			expense[k] -= t.Amount
		}
		// make sure both maps know about every active month
		if _, ok := income[k]; !ok {
			income[k] = 0
		}
		if _, ok := expense[k]; !ok {
			expense[k] = 0
		}
	}

	if n := len(income); n > 0 {
		var inc, exp Money
		for k := range income {
			inc += income[k]
			exp += expense[k]
		}
		d.MonthlyIncome = inc / Money(n)
		d.MonthlyExpense = exp / Money(n)
	}

	if d.MonthlyExpense > 0 {
		d.LiquidityRatio = float64(p.LiquidBalance()) / float64(d.MonthlyExpense)
	}
	return d
}
