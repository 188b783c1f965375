package local

import (
	"strings"
	"testing"
)

func TestExtractDatesEuropeanNumeric(t *testing.T) {
	dates := ExtractDates("Délivré le 15.03.2024 à Genève")
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %v", dates)
	}
	if dates[0].Normalized != "15/03/2024" {
		t.Fatalf("expected 15/03/2024, got %s", dates[0].Normalized)
	}
}

func TestExtractDatesISOReordered(t *testing.T) {
	dates := ExtractDates("valid until 2024-03-15")
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %v", dates)
	}
	if dates[0].Normalized != "15/03/2024" {
		t.Fatalf("expected 15/03/2024, got %s", dates[0].Normalized)
	}
	if dates[0].Raw != "2024-03-15" {
		t.Fatalf("raw literal must be preserved, got %s", dates[0].Raw)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	first := ExtractDates("signed 15/03/2024")
	if len(first) != 1 {
		t.Fatalf("expected 1 date, got %v", first)
	}
	second := ExtractDates("signed " + first[0].Normalized)
	if len(second) != 1 || second[0].Normalized != first[0].Normalized {
		t.Fatalf("normalization not idempotent: %v vs %v", first, second)
	}
}

func TestExtractDatesNamedMonths(t *testing.T) {
	cases := map[string]struct {
		text   string
		want   string
		locale string
	}{
		"french":        {"fait à Paris le 15 mars 2024", "15/03/2024", "fr"},
		"english-dmy":   {"signed on 15 March 2024", "15/03/2024", "en"},
		"english-mdy":   {"signed on March 15, 2024", "15/03/2024", "en"},
		"french-august": {"le 1er août 2023", "01/08/2023", "fr"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			dates := ExtractDates(tc.text)
			if len(dates) != 1 {
				t.Fatalf("expected 1 date in %q, got %v", tc.text, dates)
			}
			if dates[0].Normalized != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, dates[0].Normalized)
			}
			if dates[0].Locale != tc.locale {
				t.Fatalf("expected locale %s, got %s", tc.locale, dates[0].Locale)
			}
		})
	}
}

func TestExtractDatesBareYearLastResort(t *testing.T) {
	dates := ExtractDates("academic year 2023 report")
	if len(dates) != 1 || dates[0].Normalized != "2023" {
		t.Fatalf("expected bare year mention, got %v", dates)
	}
	if dates[0].Confidence >= 0.85 {
		t.Fatalf("bare year must carry low confidence, got %f", dates[0].Confidence)
	}

	// A real date present means bare years are not emitted at all.
	dates = ExtractDates("issued 15.03.2024 for year 2023")
	for _, d := range dates {
		if d.Locale == "year" {
			t.Fatalf("bare year emitted despite real date: %v", dates)
		}
	}
}

func TestExtractDatesDedupAndCap(t *testing.T) {
	text := strings.Repeat("due 15.03.2024 ", 3) +
		"then 16.03.2024, 17.03.2024, 18.03.2024, 19.03.2024, 20.03.2024, 21.03.2024"
	dates := ExtractDates(text)
	if len(dates) != 5 {
		t.Fatalf("expected cap of 5 deduplicated dates, got %d: %v", len(dates), dates)
	}
	if dates[0].Raw != "15.03.2024" {
		t.Fatalf("expected first literal kept, got %s", dates[0].Raw)
	}
}
