// Package rules implements the deterministic keyword classifier used as the
// rule vote in arbitration and as the only vote on the local path.
package rules

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// Rule is one priority slot in the table. Keywords follow three forms:
// a bare word matches a whole token, a trailing '*' matches a token prefix,
// and a phrase with spaces matches as a substring of the normalized text.
// Exclusions suppress the rule entirely when any of them match, so a rule can
// lose to higher-priority categories without faking a low score.
type Rule struct {
	Name       string
	Category   domain.Category
	Score      float64
	Keywords   []string
	Exclusions []string
}

// table order is the priority order: the first matching rule wins.
var table = []Rule{
	{
		Name:     "insurance-terms",
		Category: domain.CategoryInsurance,
		Score:    0.95,
		Keywords: []string{
			"assurance", "insurance", "prime", "premium", "mutuelle",
			"couverture", "franchise", "police d'assurance", "css",
			"страхов*", "застрахов*",
		},
	},
	{
		Name:     "certificate-terms",
		Category: domain.CategoryCertificate,
		Score:    0.95,
		Keywords: []string{
			"certificat", "certificate", "attestation", "diploma",
			"diplôme", "уверение", "удостоверение", "свидетелство", "диплом*",
		},
	},
	{
		Name:     "banking-and-invoice-terms",
		Category: domain.CategoryFinancial,
		Score:    0.9,
		Keywords: []string{
			"facture", "invoice", "iban", "banque", "bank", "virement",
			"relevé", "montant", "bill", "payment", "фактура", "банк*",
		},
	},
	{
		Name:     "educational-institution-terms",
		Category: domain.CategoryEducation,
		Score:    0.85,
		Keywords: []string{
			"université", "university", "école", "faculté", "semestre",
			"étudiant", "student", "информатика", "университет", "студент*",
		},
	},
	{
		Name:     "medical-terms",
		Category: domain.CategoryMedical,
		Score:    0.85,
		Keywords: []string{
			"médecin", "hôpital", "ordonnance", "patient", "clinique",
			"medical", "hospital", "diagnos*", "медицин*", "болница",
		},
	},
	{
		Name:     "legal-contract-terms",
		Category: domain.CategoryLegal,
		Score:    0.85,
		Keywords: []string{
			"contrat", "contract", "tribunal", "avocat", "jugement",
			"notaire", "legal", "договор*", "съд",
		},
	},
	{
		// Government vocabulary shows up inside insurance cards and official
		// certificates; the exclusions keep this rule from stealing those.
		Name:     "government-official-terms",
		Category: domain.CategoryGovernment,
		Score:    0.8,
		Keywords: []string{
			"préfecture", "ministère", "mairie", "commune", "official",
			"government", "passport", "passeport", "министерство", "община",
		},
		Exclusions: []string{
			"assurance", "insurance", "certificat", "certificate",
			"attestation", "уверение",
		},
	},
}

const (
	defaultScore     = 0.4
	defaultReasoning = "no classification rule matched"
)

type Classifier struct {
	rules []Rule
}

func NewClassifier() *Classifier {
	return &Classifier{rules: table}
}

// Vote evaluates the table in priority order, first match wins. It always
// returns a vote; the default is (personal, 0.4).
func (c *Classifier) Vote(text string) domain.ClassificationVote {
	doc := newMatchDoc(text)

	for _, rule := range c.rules {
		if doc.matchesAny(rule.Exclusions) {
			continue
		}
		if keyword, ok := doc.firstMatch(rule.Keywords); ok {
			return domain.ClassificationVote{
				Category:   rule.Category,
				Confidence: rule.Score,
				Reasoning:  fmt.Sprintf("rule %s matched %q", rule.Name, keyword),
				Source:     domain.VoteSourceRule,
			}
		}
	}

	return domain.ClassificationVote{
		Category:   domain.CategoryPersonal,
		Confidence: defaultScore,
		Reasoning:  defaultReasoning,
		Source:     domain.VoteSourceRule,
	}
}

type matchDoc struct {
	normalized string
	tokens     map[string]struct{}
	tokenList  []string
}

func newMatchDoc(text string) *matchDoc {
	normalized := strings.ToLower(text)
	tokenList := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make(map[string]struct{}, len(tokenList))
	for _, tok := range tokenList {
		tokens[tok] = struct{}{}
	}
	return &matchDoc{normalized: normalized, tokens: tokens, tokenList: tokenList}
}

func (d *matchDoc) matchesAny(keywords []string) bool {
	_, ok := d.firstMatch(keywords)
	return ok
}

func (d *matchDoc) firstMatch(keywords []string) (string, bool) {
	for _, kw := range keywords {
		if d.matches(kw) {
			return kw, true
		}
	}
	return "", false
}

func (d *matchDoc) matches(keyword string) bool {
	switch {
	case strings.ContainsRune(keyword, ' '):
		return strings.Contains(d.normalized, keyword)
	case strings.HasSuffix(keyword, "*"):
		prefix := strings.TrimSuffix(keyword, "*")
		for _, tok := range d.tokenList {
			if strings.HasPrefix(tok, prefix) {
				return true
			}
		}
		return false
	default:
		_, ok := d.tokens[keyword]
		return ok
	}
}
