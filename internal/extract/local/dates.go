package local

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kirillkom/docmind/internal/core/domain"
)

const (
	confDateISO     = 0.95
	confDateNumeric = 0.9
	confDateNamed   = 0.85
	confDateYear    = 0.5

	maxDateMentions = 5
)

var (
	isoDateRe     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	numericDateRe = regexp.MustCompile(`\b(\d{1,2})[./](\d{1,2})[./](\d{4})\b`)
	hyphenDateRe  = regexp.MustCompile(`\b\d{1,2}-\d{1,2}-\d{4}\b`)
	bareYearRe    = regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`)

	monthAlternation = `janvier|février|mars|avril|mai|juin|juillet|août|septembre|octobre|novembre|décembre|january|february|march|april|may|june|july|august|september|october|november|december`

	dayMonthYearRe = regexp.MustCompile(`(?i)\b(\d{1,2})(?:er|st|nd|rd|th)?[ ]+(` + monthAlternation + `)\.?,?[ ]+(\d{4})\b`)
	monthDayYearRe = regexp.MustCompile(`(?i)\b(` + monthAlternation + `)[ ]+(\d{1,2})(?:st|nd|rd|th)?,?[ ]+(\d{4})\b`)
)

var monthNumbers = map[string]int{
	"janvier": 1, "février": 2, "mars": 3, "avril": 4, "mai": 5, "juin": 6,
	"juillet": 7, "août": 8, "septembre": 9, "octobre": 10, "novembre": 11,
	"décembre": 12,
	"january": 1, "february": 2, "march": 3, "april": 4, "may": 5, "june": 6,
	"july": 7, "august": 8, "september": 9, "october": 10, "november": 11,
	"december": 12,
}

var frenchMonths = map[string]struct{}{
	"janvier": {}, "février": {}, "mars": {}, "avril": {}, "mai": {},
	"juin": {}, "juillet": {}, "août": {}, "septembre": {}, "octobre": {},
	"novembre": {}, "décembre": {},
}

// ExtractDates finds dates in ISO, European numeric and named-month forms,
// falling back to bare four-digit years when nothing else matches. Duplicate
// literals collapse and the result is capped at maxDateMentions.
func ExtractDates(text string) []domain.DateMention {
	var mentions []domain.DateMention

	for _, m := range isoDateRe.FindAllStringSubmatch(text, -1) {
		mentions = append(mentions, domain.DateMention{
			Raw:        m[0],
			Normalized: normalizeNumericDate(m[1], m[2], m[3]),
			Confidence: confDateISO,
			Locale:     "iso",
		})
	}

	for _, m := range numericDateRe.FindAllStringSubmatch(text, -1) {
		mentions = append(mentions, domain.DateMention{
			Raw:        m[0],
			Normalized: normalizeNumericDate(m[1], m[2], m[3]),
			Confidence: confDateNumeric,
			Locale:     "eu",
		})
	}

	for _, m := range dayMonthYearRe.FindAllStringSubmatch(text, -1) {
		if mention, ok := namedMonthMention(m[0], m[1], m[2], m[3]); ok {
			mentions = append(mentions, mention)
		}
	}
	for _, m := range monthDayYearRe.FindAllStringSubmatch(text, -1) {
		if mention, ok := namedMonthMention(m[0], m[2], m[1], m[3]); ok {
			mentions = append(mentions, mention)
		}
	}

	// Bare years are a last resort only.
	if len(mentions) == 0 {
		for _, m := range bareYearRe.FindAllString(text, -1) {
			mentions = append(mentions, domain.DateMention{
				Raw:        m,
				Normalized: m,
				Confidence: confDateYear,
				Locale:     "year",
			})
		}
	}

	return capDates(dedupeDates(mentions))
}

// normalizeNumericDate re-emits a numeric triple as DD/MM/YYYY. A first group
// that is a plausible four-digit year (>1900) means year-first ordering;
// otherwise the triple is taken as DD/MM/YYYY already.
func normalizeNumericDate(first, second, third string) string {
	a, _ := strconv.Atoi(first)
	b, _ := strconv.Atoi(second)
	c, _ := strconv.Atoi(third)

	if len(first) == 4 && a > 1900 {
		return fmt.Sprintf("%02d/%02d/%04d", c, b, a)
	}
	return fmt.Sprintf("%02d/%02d/%04d", a, b, c)
}

func namedMonthMention(raw, day, month, year string) (domain.DateMention, bool) {
	monthKey := strings.ToLower(month)
	monthNum, ok := monthNumbers[monthKey]
	if !ok {
		return domain.DateMention{}, false
	}
	d, _ := strconv.Atoi(day)
	y, _ := strconv.Atoi(year)
	if d < 1 || d > 31 {
		return domain.DateMention{}, false
	}

	locale := "en"
	if _, french := frenchMonths[monthKey]; french {
		locale = "fr"
	}
	return domain.DateMention{
		Raw:        raw,
		Normalized: fmt.Sprintf("%02d/%02d/%04d", d, monthNum, y),
		Confidence: confDateNamed,
		Locale:     locale,
	}, true
}

func dedupeDates(mentions []domain.DateMention) []domain.DateMention {
	seen := make(map[string]struct{}, len(mentions))
	out := make([]domain.DateMention, 0, len(mentions))
	for _, m := range mentions {
		if _, dup := seen[m.Raw]; dup {
			continue
		}
		seen[m.Raw] = struct{}{}
		out = append(out, m)
	}
	return out
}

func capDates(mentions []domain.DateMention) []domain.DateMention {
	if len(mentions) > maxDateMentions {
		return mentions[:maxDateMentions]
	}
	return mentions
}
