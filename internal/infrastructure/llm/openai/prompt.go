package openai

import (
	"fmt"
	"strings"

	"github.com/kirillkom/docmind/internal/core/domain"
)

func buildCorrectionPrompt(candidates []domain.RecognitionResult) string {
	var b strings.Builder
	b.WriteString("You are an OCR reconciliation assistant. Several OCR engines read the same document. ")
	b.WriteString("Merge their outputs into one corrected text. Fix character confusions (0/O, 1/l/I, rn/m), ")
	b.WriteString("spacing artifacts and script-specific errors. The text may be in English, French or a ")
	b.WriteString("Cyrillic-script language such as Bulgarian; never transliterate between scripts. ")
	b.WriteString("Preserve the original line breaks.\n\n")

	for i, cand := range candidates {
		fmt.Fprintf(&b, "--- candidate %d (engine=%s, confidence=%.2f) ---\n%s\n\n", i+1, cand.EngineID, cand.Confidence, cand.Text)
	}

	b.WriteString(`Respond with a single JSON object: {"corrected_text": string, "confidence": number between 0 and 1, "corrections": array of short strings describing each applied fix}.`)
	return b.String()
}

func buildVisionPrompt() string {
	return "Transcribe every piece of text visible in this document image exactly as written, " +
		"preserving line breaks and the original language and script. " +
		`Respond with a single JSON object: {"text": string, "confidence": number between 0 and 1}.`
}

func buildAnswerPrompt(question string, result *domain.ProcessingResult) string {
	var b strings.Builder
	b.WriteString("Answer the user's question using only the processed document below. ")
	b.WriteString("Answer in one or two sentences. If the document does not contain the answer, say so.\n\n")

	fmt.Fprintf(&b, "Category: %s\nLanguage: %s\nSummary: %s\n", result.Classification.Category, result.Language, result.Summary)
	if len(result.Dates) > 0 {
		var dates []string
		for _, d := range result.Dates {
			dates = append(dates, d.Normalized)
		}
		fmt.Fprintf(&b, "Dates: %s\n", strings.Join(dates, ", "))
	}
	if len(result.Entities) > 0 {
		b.WriteString("Entities:\n")
		for _, ent := range result.Entities {
			fmt.Fprintf(&b, "- %s: %s\n", ent.Kind, ent.Text)
		}
	}
	fmt.Fprintf(&b, "\nDocument text:\n%s\n\nQuestion: %s", truncate(result.Text, 4000), question)
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
