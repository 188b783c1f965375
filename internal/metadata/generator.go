// Package metadata derives filing metadata (tags, suggested file name,
// summary, quality score) from the classification and extracted entities.
package metadata

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kirillkom/docmind/internal/core/domain"
)

const (
	maxTags        = 8
	summaryMaxRune = 160
)

var categoryLabels = map[domain.Category]string{
	domain.CategoryCertificate: "Certificate",
	domain.CategoryFinancial:   "Financial document",
	domain.CategoryInsurance:   "Insurance document",
	domain.CategoryLegal:       "Legal document",
	domain.CategoryMedical:     "Medical document",
	domain.CategoryEducation:   "Education document",
	domain.CategoryGovernment:  "Government document",
	domain.CategoryPersonal:    "Personal document",
	domain.CategoryOther:       "Document",
}

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// Tags builds a deduplicated tag list from the category, language and the
// most prominent organizations, plus the year of the first date.
func (g *Generator) Tags(category domain.Category, languageTag string, entities []domain.Entity, dates []domain.DateMention) []string {
	tags := []string{string(category)}
	if languageTag != "" && languageTag != "und" {
		tags = append(tags, languageTag)
	}

	orgs := 0
	for _, ent := range entities {
		if ent.Kind != domain.EntityOrganization || orgs >= 2 {
			continue
		}
		tags = append(tags, strings.ToLower(ent.Text))
		orgs++
	}

	if len(dates) > 0 {
		if year := yearOf(dates[0]); year != "" {
			tags = append(tags, year)
		}
	}

	return dedupeStrings(tags, maxTags)
}

// SuggestedName composes a file-system-safe name:
// category, then main organization or person, then the first date.
func (g *Generator) SuggestedName(category domain.Category, entities []domain.Entity, dates []domain.DateMention) string {
	parts := []string{string(category)}

	if subject := mainSubject(entities); subject != "" {
		parts = append(parts, sanitizeNamePart(subject))
	}
	if len(dates) > 0 {
		parts = append(parts, strings.ReplaceAll(dates[0].Normalized, "/", "-"))
	}

	return strings.Join(parts, "_")
}

// Summary is a one-line deterministic description, not a generative one.
func (g *Generator) Summary(text string, category domain.Category, entities []domain.Entity, dates []domain.DateMention) string {
	var b strings.Builder
	b.WriteString(categoryLabels[category])

	if subject := mainSubject(entities); subject != "" {
		fmt.Fprintf(&b, " concerning %s", subject)
	}
	if len(dates) > 0 {
		fmt.Fprintf(&b, ", dated %s", dates[0].Normalized)
	}
	b.WriteString(".")

	if excerpt := firstLine(text); excerpt != "" {
		b.WriteString(" Begins: ")
		b.WriteString(excerpt)
	}
	return truncateRunes(b.String(), summaryMaxRune)
}

// QualityScore blends text confidence, classification confidence and entity
// yield into a single [0,1] indicator.
func (g *Generator) QualityScore(textConfidence, classificationConfidence float64, entityCount int) float64 {
	yield := float64(entityCount) / 6.0
	if yield > 1 {
		yield = 1
	}
	score := 0.5*textConfidence + 0.3*classificationConfidence + 0.2*yield
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func mainSubject(entities []domain.Entity) string {
	for _, ent := range entities {
		if ent.Kind == domain.EntityOrganization {
			return ent.Text
		}
	}
	for _, ent := range entities {
		if ent.Kind == domain.EntityPerson {
			return ent.Text
		}
	}
	return ""
}

func yearOf(date domain.DateMention) string {
	normalized := date.Normalized
	if len(normalized) == 4 {
		return normalized
	}
	if idx := strings.LastIndex(normalized, "/"); idx >= 0 && len(normalized)-idx == 5 {
		return normalized[idx+1:]
	}
	return ""
}

var unsafeNameRunes = regexp.MustCompile(`[^\p{L}\p{N}]+`)

func sanitizeNamePart(s string) string {
	s = unsafeNameRunes.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(s, "-")
}

func firstLine(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			return truncateRunes(line, 80)
		}
	}
	return ""
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func dedupeStrings(in []string, limit int) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}
