package metadata

import (
	"strings"
	"testing"

	"github.com/kirillkom/docmind/internal/core/domain"
)

func sampleEntities() []domain.Entity {
	return []domain.Entity{
		{Text: "Maria Petrova", Kind: domain.EntityPerson, Confidence: 0.6},
		{Text: "CSS Assurance", Kind: domain.EntityOrganization, Confidence: 0.7},
	}
}

func sampleDates() []domain.DateMention {
	return []domain.DateMention{
		{Raw: "15.03.2024", Normalized: "15/03/2024", Confidence: 0.9, Locale: "eu"},
	}
}

func TestTags(t *testing.T) {
	g := NewGenerator()
	tags := g.Tags(domain.CategoryInsurance, "fr", sampleEntities(), sampleDates())

	want := map[string]bool{"insurance": false, "fr": false, "css assurance": false, "2024": false}
	for _, tag := range tags {
		if _, ok := want[tag]; ok {
			want[tag] = true
		}
	}
	for tag, found := range want {
		if !found {
			t.Fatalf("missing tag %q in %v", tag, tags)
		}
	}
}

func TestTagsSkipsUndeterminedLanguage(t *testing.T) {
	g := NewGenerator()
	for _, tag := range g.Tags(domain.CategoryOther, "und", nil, nil) {
		if tag == "und" {
			t.Fatalf("und must not become a tag")
		}
	}
}

func TestSuggestedName(t *testing.T) {
	g := NewGenerator()
	name := g.SuggestedName(domain.CategoryInsurance, sampleEntities(), sampleDates())
	if name != "insurance_css-assurance_15-03-2024" {
		t.Fatalf("unexpected suggested name: %s", name)
	}
}

func TestSuggestedNameWithoutEntitiesOrDates(t *testing.T) {
	g := NewGenerator()
	if name := g.SuggestedName(domain.CategoryOther, nil, nil); name != "other" {
		t.Fatalf("unexpected suggested name: %s", name)
	}
}

func TestSummaryMentionsCategoryAndSubject(t *testing.T) {
	g := NewGenerator()
	summary := g.Summary("Certificat d'assurance\nPrime: 320 CHF", domain.CategoryInsurance, sampleEntities(), sampleDates())
	if !strings.Contains(summary, "Insurance document") {
		t.Fatalf("summary must mention the category: %q", summary)
	}
	if !strings.Contains(summary, "CSS Assurance") {
		t.Fatalf("summary must mention the main subject: %q", summary)
	}
	if !strings.Contains(summary, "15/03/2024") {
		t.Fatalf("summary must mention the first date: %q", summary)
	}
}

func TestQualityScoreBounds(t *testing.T) {
	g := NewGenerator()
	if score := g.QualityScore(0, 0, 0); score != 0 {
		t.Fatalf("expected 0 for empty signals, got %f", score)
	}
	if score := g.QualityScore(1, 1, 100); score != 1 {
		t.Fatalf("expected clamp to 1, got %f", score)
	}
	mid := g.QualityScore(0.8, 0.9, 3)
	if mid <= 0 || mid >= 1 {
		t.Fatalf("expected score inside (0,1), got %f", mid)
	}
}
