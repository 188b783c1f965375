// Package lang guesses the document language from script and stopword
// statistics. It is deliberately small: the pipeline only needs a tag for
// filing and search, not full language identification.
package lang

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

var (
	frenchStopwords  = []string{"le", "la", "les", "de", "des", "et", "une", "est", "pour", "avec", "dans", "sur", "être"}
	englishStopwords = []string{"the", "and", "of", "to", "in", "is", "for", "this", "that", "with"}

	bulgarianStopwords = []string{"на", "за", "се", "че", "към", "при", "това", "със"}
	russianStopwords   = []string{"что", "это", "как", "его", "также", "или", "они"}
)

// Detector satisfies the pipeline's language detection port.
type Detector struct{}

func NewDetector() *Detector {
	return &Detector{}
}

func (d *Detector) Detect(text string) (string, float64) {
	return Detect(text)
}

// Detect returns a canonical BCP-47 tag and a rough confidence. Unknown or
// empty text yields "und" with zero confidence.
func Detect(text string) (string, float64) {
	latin, cyrillic := scriptCounts(text)
	if latin == 0 && cyrillic == 0 {
		return language.Und.String(), 0
	}

	tokens := tokenize(text)

	if cyrillic > latin {
		// 'ъ' is frequent in Bulgarian and marginal in modern Russian.
		if strings.ContainsRune(strings.ToLower(text), 'ъ') || countHits(tokens, bulgarianStopwords) >= countHits(tokens, russianStopwords) {
			return language.Bulgarian.String(), 0.8
		}
		return language.Russian.String(), 0.7
	}

	fr := countHits(tokens, frenchStopwords)
	en := countHits(tokens, englishStopwords)
	switch {
	case fr > en:
		return language.French.String(), confidenceFor(fr, len(tokens))
	case en > 0:
		return language.English.String(), confidenceFor(en, len(tokens))
	default:
		return language.English.String(), 0.5
	}
}

func scriptCounts(text string) (latin, cyrillic int) {
	for _, r := range text {
		switch {
		case unicode.In(r, unicode.Latin):
			latin++
		case unicode.In(r, unicode.Cyrillic):
			cyrillic++
		}
	}
	return latin, cyrillic
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

func countHits(tokens []string, stopwords []string) int {
	set := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		set[w] = struct{}{}
	}
	hits := 0
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			hits++
		}
	}
	return hits
}

func confidenceFor(hits, total int) float64 {
	if total == 0 {
		return 0.5
	}
	conf := 0.6 + float64(hits)/float64(total)
	if conf > 0.95 {
		conf = 0.95
	}
	return conf
}
