package route

import "regexp"

// Redaction replaces concrete financial details with typed placeholders so a
// query can leave the device without carrying raw numbers.
var (
	// account references like "a/c no. 004512" or "account #12345678"
	accountRe = regexp.MustCompile(`(?i)\b(?:a/c|acct\.?|account)\s*(?:no\.?|number|#)?\s*[0-9xX*-]{4,}`)

	// money figures: a currency marker followed by digits, or standalone
	// grouped/large numbers
	moneyRe = regexp.MustCompile(`(?i)(?:₹|rs\.?\s?|inr\s?)\s*[0-9][0-9,]*(?:\.[0-9]+)?|\b[0-9]{1,3}(?:,[0-9]{2,3})+(?:\.[0-9]+)?\b|\b[0-9]{4,}(?:\.[0-9]+)?\b`)
)

// containsSensitive reports whether the query carries raw monetary figures or
// account identifiers.
func containsSensitive(q string) bool {
	return accountRe.MatchString(q) || moneyRe.MatchString(q)
}

// redact replaces account references and monetary figures with placeholders.
// Accounts go first so their digits are not half-eaten by the money pattern.
func redact(q string) string {
	out := accountRe.ReplaceAllString(q, "<ACCOUNT>")
	out = moneyRe.ReplaceAllString(out, "<AMOUNT>")
	return out
}
