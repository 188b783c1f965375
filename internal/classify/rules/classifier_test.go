package rules

import (
	"strings"
	"testing"

	"github.com/kirillkom/docmind/internal/core/domain"
)

func TestVoteInsuranceTerms(t *testing.T) {
	c := NewClassifier()

	vote := c.Vote("CSS Assurance - certificat d'assurance, prime mensuelle CHF 320.50")
	if vote.Category != domain.CategoryInsurance {
		t.Fatalf("expected insurance, got %s", vote.Category)
	}
	if vote.Confidence < 0.95 {
		t.Fatalf("expected confidence >= 0.95, got %f", vote.Confidence)
	}
	if vote.Source != domain.VoteSourceRule {
		t.Fatalf("expected rule source, got %s", vote.Source)
	}
}

func TestVoteCyrillicCertificate(t *testing.T) {
	c := NewClassifier()

	vote := c.Vote("УВЕРЕНИЕ\nспециалност информатика, учебна година 2023/2024")
	if vote.Category != domain.CategoryCertificate {
		t.Fatalf("expected certificate, got %s", vote.Category)
	}
	if vote.Confidence < 0.95 {
		t.Fatalf("expected confidence >= 0.95, got %f", vote.Confidence)
	}
}

func TestVoteGovernmentLosesToInsuranceMarkers(t *testing.T) {
	c := NewClassifier()

	// Government vocabulary plus an insurance marker: the insurance rule wins
	// outright and the government rule is suppressed by its exclusions.
	vote := c.Vote("Official notice regarding your insurance coverage")
	if vote.Category != domain.CategoryInsurance {
		t.Fatalf("expected insurance, got %s (%s)", vote.Category, vote.Reasoning)
	}
}

func TestVoteGovernmentSuppressedEvenWhenCertificateRuleMissesFirst(t *testing.T) {
	c := NewClassifier()

	// "attestation" is both a certificate keyword and a government exclusion,
	// so the certificate rule fires before government is even considered.
	vote := c.Vote("Préfecture de Paris - attestation de résidence")
	if vote.Category == domain.CategoryGovernment {
		t.Fatalf("government rule must not win with certificate markers present")
	}
	if vote.Category != domain.CategoryCertificate {
		t.Fatalf("expected certificate, got %s", vote.Category)
	}
}

func TestVoteGovernmentWinsWithoutMarkers(t *testing.T) {
	c := NewClassifier()

	vote := c.Vote("Convocation de la préfecture, service des étrangers")
	if vote.Category != domain.CategoryGovernment {
		t.Fatalf("expected government, got %s", vote.Category)
	}
}

func TestVoteDefaultIsPersonal(t *testing.T) {
	c := NewClassifier()

	vote := c.Vote("hello there, nothing special in this note")
	if vote.Category != domain.CategoryPersonal {
		t.Fatalf("expected personal default, got %s", vote.Category)
	}
	if vote.Confidence != 0.4 {
		t.Fatalf("expected default confidence 0.4, got %f", vote.Confidence)
	}
}

func TestVoteTokenBoundaries(t *testing.T) {
	c := NewClassifier()

	// "css" must match as a whole token only, not inside other words.
	vote := c.Vote("please access the file successfully")
	if vote.Category == domain.CategoryInsurance {
		t.Fatalf("substring must not trigger the insurance rule: %s", vote.Reasoning)
	}
}

func TestVoteIsDeterministic(t *testing.T) {
	c := NewClassifier()
	text := "Facture no 2024-118, virement IBAN CH93 0076 2011 6238 5295 7"

	first := c.Vote(text)
	for i := 0; i < 5; i++ {
		if got := c.Vote(text); got != first {
			t.Fatalf("vote changed between runs: %+v vs %+v", got, first)
		}
	}
	if first.Category != domain.CategoryFinancial {
		t.Fatalf("expected financial, got %s", first.Category)
	}
	if !strings.Contains(first.Reasoning, "banking-and-invoice-terms") {
		t.Fatalf("reasoning should name the rule, got %q", first.Reasoning)
	}
}
