// Package local is the offline entity and date extractor. It is the primary
// extractor on the local path and the fallback behind the remote NLP service.
// Confidences are fixed per pattern type so the fallback stays predictable.
package local

import (
	"context"
	"regexp"
	"strings"
	"unicode"

	"github.com/kirillkom/docmind/internal/core/domain"
)

const (
	confEmail          = 0.95
	confPhone          = 0.7
	confMoney          = 0.85
	confDocumentNumber = 0.75
	confPerson         = 0.6
	confOrganization   = 0.7
	confLocation       = 0.8
)

var (
	emailRe = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)

	phoneRe = regexp.MustCompile(`(?:\+\d{1,3}[ .\-]?)?(?:\(\d{1,4}\)[ .\-]?)?\d{2,4}(?:[ .\-]\d{2,4}){2,4}`)

	moneyRes = []*regexp.Regexp{
		// Symbol before the amount.
		regexp.MustCompile(`[\$€£₽]\s?\d[\d'’ ]*(?:[.,]\d{1,2})?`),
		// Symbol or currency code after the amount.
		regexp.MustCompile(`\d[\d'’ ]*(?:[.,]\d{1,2})?\s?(?:€|\$|£|₽|CHF|EUR|USD|GBP|лв\.?|francs?|euros?)`),
	}

	documentNumberRes = []*regexp.Regexp{
		// Letter+digit and digit+letter mixed tokens.
		regexp.MustCompile(`\b[A-Za-z]{1,5}[-_]?\d{3,}\b`),
		regexp.MustCompile(`\b\d{3,}[-_]?[A-Za-z]{1,5}\b`),
		// Hyphen/underscore delimited alphanumeric codes.
		regexp.MustCompile(`\b[A-Z0-9]{2,}(?:[-_][A-Z0-9]{2,})+\b`),
	}

	personRe = regexp.MustCompile(`\p{Lu}\p{Ll}+[ ]\p{Lu}\p{Ll}+`)

	organizationRe = regexp.MustCompile(`(?:\p{Lu}[\p{L}&.'’\-]*[ ]){1,3}(?:University|Université|Institute|Institut|Inc|Ltd|GmbH|SARL|LLC|SA|AG|Bank|Banque|College|Clinic|Clinique|Hospital|Assurances?|Университет|Институт)\b`)
)

// personDenylist excludes institutional terms from the two-capitalized-words
// person heuristic.
var personDenylist = map[string]struct{}{
	"university": {}, "université": {}, "universite": {}, "institut": {},
	"institute": {}, "department": {}, "département": {}, "certificate": {},
	"certificat": {}, "attestation": {}, "bank": {}, "banque": {},
	"insurance": {}, "assurance": {}, "hospital": {}, "hôpital": {},
	"school": {}, "école": {}, "college": {}, "ministry": {}, "ministère": {},
	"service": {}, "faculty": {}, "faculté": {}, "street": {}, "avenue": {},
	"университет": {}, "институт": {}, "министерство": {}, "уверение": {},
}

// cityGazetteer covers the target locales (Switzerland, France, Bulgaria).
var cityGazetteer = map[string]struct{}{
	"geneva": {}, "genève": {}, "lausanne": {}, "zurich": {}, "zürich": {},
	"bern": {}, "basel": {}, "fribourg": {}, "paris": {}, "lyon": {},
	"marseille": {}, "strasbourg": {}, "sofia": {}, "софия": {},
	"plovdiv": {}, "пловдив": {}, "varna": {}, "варна": {}, "бургас": {},
	"london": {}, "brussels": {}, "bruxelles": {},
}

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractDates satisfies the pipeline's offline date extraction port.
func (e *Extractor) ExtractDates(text string) []domain.DateMention {
	return ExtractDates(text)
}

// Extract runs every pattern family over the text. Entities are deduplicated
// within a kind by literal text; the same literal may appear under two kinds.
func (e *Extractor) Extract(_ context.Context, text string) ([]domain.Entity, []domain.DateMention, error) {
	var entities []domain.Entity

	entities = appendMatches(entities, domain.EntityEmail, confEmail, emailRe.FindAllString(text, -1), nil)
	entities = appendMatches(entities, domain.EntityPhone, confPhone, phoneRe.FindAllString(text, -1), isPlausiblePhone)
	for _, re := range moneyRes {
		entities = appendMatches(entities, domain.EntityMoney, confMoney, re.FindAllString(text, -1), nil)
	}
	for _, re := range documentNumberRes {
		entities = appendMatches(entities, domain.EntityDocumentNumber, confDocumentNumber, re.FindAllString(text, -1), isPlausibleDocumentNumber)
	}
	entities = appendMatches(entities, domain.EntityPerson, confPerson, personRe.FindAllString(text, -1), isPlausiblePerson)
	entities = appendMatches(entities, domain.EntityOrganization, confOrganization, organizationRe.FindAllString(text, -1), nil)
	entities = append(entities, extractLocations(text)...)

	return dedupeEntities(entities), ExtractDates(text), nil
}

func appendMatches(entities []domain.Entity, kind domain.EntityKind, confidence float64, matches []string, accept func(string) bool) []domain.Entity {
	for _, m := range matches {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if accept != nil && !accept(m) {
			continue
		}
		entities = append(entities, domain.Entity{Text: m, Kind: kind, Confidence: confidence})
	}
	return entities
}

// isPlausiblePhone keeps the grouped-digit grammar from eating dates and
// short numeric runs: a phone number carries at least nine digits.
func isPlausiblePhone(candidate string) bool {
	digits := 0
	for _, r := range candidate {
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return digits >= 9
}

// isPlausibleDocumentNumber drops codes that are really dates.
func isPlausibleDocumentNumber(candidate string) bool {
	return !isoDateRe.MatchString(candidate) && !hyphenDateRe.MatchString(candidate)
}

func isPlausiblePerson(candidate string) bool {
	for _, word := range strings.Fields(candidate) {
		if _, denied := personDenylist[strings.ToLower(word)]; denied {
			return false
		}
	}
	return true
}

func extractLocations(text string) []domain.Entity {
	var out []domain.Entity
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, tok := range tokens {
		if _, ok := cityGazetteer[strings.ToLower(tok)]; ok {
			out = append(out, domain.Entity{Text: tok, Kind: domain.EntityLocation, Confidence: confLocation})
		}
	}
	return out
}

func dedupeEntities(entities []domain.Entity) []domain.Entity {
	type key struct {
		kind domain.EntityKind
		text string
	}
	seen := make(map[key]struct{}, len(entities))
	out := make([]domain.Entity, 0, len(entities))
	for _, ent := range entities {
		k := key{kind: ent.Kind, text: ent.Text}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, ent)
	}
	return out
}
