package route

import (
	"strings"
	"testing"

	"avesto/internal/domain/models"
	"avesto/pkg/config"
)

func TestClassifySimpleFactual(t *testing.T) {
	r := New(config.DefaultEngine())

	d := r.Classify("What is compound interest?", false)
	if d.Target != models.TargetLocal {
		t.Fatalf("target = %s, want local", d.Target)
	}
	if d.Reason != models.ReasonSimpleFactual {
		t.Fatalf("reason = %s, want simple_factual", d.Reason)
	}
	if d.RedactionRequired {
		t.Fatal("nothing to redact in a definitional query")
	}
}

func TestClassifyPersonalWithAmount(t *testing.T) {
	r := New(config.DefaultEngine())

	d := r.Classify("Should I sell my mutual fund holding worth ₹350,000?", false)
	if d.Target != models.TargetRemote {
		t.Fatalf("target = %s, want remote", d.Target)
	}
	if d.Reason != models.ReasonRequiresPersonalization {
		t.Fatalf("reason = %s, want requires_personalization", d.Reason)
	}
	if !d.RedactionRequired {
		t.Fatal("a raw amount must require redaction")
	}
	if strings.Contains(d.RedactedQuery, "350,000") {
		t.Fatalf("redacted query still leaks the amount: %q", d.RedactedQuery)
	}
	if !strings.Contains(d.RedactedQuery, "<AMOUNT>") {
		t.Fatalf("expected <AMOUNT> placeholder, got %q", d.RedactedQuery)
	}
}

func TestClassifyExternalData(t *testing.T) {
	r := New(config.DefaultEngine())

	d := r.Classify("What is the market doing today?", false)
	if d.Target != models.TargetRemote {
		t.Fatalf("target = %s, want remote", d.Target)
	}
	if d.Reason != models.ReasonRequiresExternalData {
		t.Fatalf("reason = %s, want requires_external_data", d.Reason)
	}
}

func TestClassifyAccountReference(t *testing.T) {
	r := New(config.DefaultEngine())

	d := r.Classify("Why was account no. 00451278 charged twice?", false)
	if d.Target != models.TargetRemote {
		t.Fatalf("target = %s, want remote", d.Target)
	}
	if d.Reason != models.ReasonSensitiveDataDetected {
		t.Fatalf("reason = %s, want sensitive_data_detected", d.Reason)
	}
	if !strings.Contains(d.RedactedQuery, "<ACCOUNT>") {
		t.Fatalf("expected <ACCOUNT> placeholder, got %q", d.RedactedQuery)
	}
	if strings.Contains(d.RedactedQuery, "00451278") {
		t.Fatalf("redacted query still leaks the account: %q", d.RedactedQuery)
	}
}

func TestClassifyLowConfidenceDefaultsRemote(t *testing.T) {
	r := New(config.DefaultEngine())

	d := r.Classify("thoughts on the new budget maybe", false)
	if d.Target != models.TargetRemote {
		t.Fatalf("low-confidence classification must go remote, got %s", d.Target)
	}
	if d.Confidence >= r.cfg.ClassificationConfidenceThreshold {
		t.Fatalf("expected confidence below threshold, got %f", d.Confidence)
	}
}

func TestClassifySensitivityHint(t *testing.T) {
	r := New(config.DefaultEngine())

	d := r.Classify("Explain diversification", true)
	if d.Target != models.TargetRemote {
		t.Fatalf("hinted query should go remote, got %s", d.Target)
	}
	if d.Reason != models.ReasonRequiresPersonalization {
		t.Fatalf("reason = %s, want requires_personalization", d.Reason)
	}
}

func TestRedactPreservesSurroundingText(t *testing.T) {
	got := redact("Can I move ₹50,000 from a/c no. 1234-5678 next month?")
	if strings.Contains(got, "50,000") || strings.Contains(got, "1234") {
		t.Fatalf("redaction incomplete: %q", got)
	}
	if !strings.Contains(got, "next month?") {
		t.Fatalf("redaction mangled surrounding text: %q", got)
	}
}
