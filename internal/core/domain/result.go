package domain

import (
	"strings"
	"time"
)

// Category is the closed document taxonomy. Unknown inputs map to CategoryOther.
type Category string

const (
	CategoryCertificate Category = "certificate"
	CategoryFinancial   Category = "financial"
	CategoryInsurance   Category = "insurance"
	CategoryLegal       Category = "legal"
	CategoryMedical     Category = "medical"
	CategoryEducation   Category = "education"
	CategoryGovernment  Category = "government"
	CategoryPersonal    Category = "personal"
	CategoryOther       Category = "other"
)

var allCategories = []Category{
	CategoryCertificate,
	CategoryFinancial,
	CategoryInsurance,
	CategoryLegal,
	CategoryMedical,
	CategoryEducation,
	CategoryGovernment,
	CategoryPersonal,
	CategoryOther,
}

func Categories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory maps free-form labels onto the taxonomy, defaulting to "other".
func ParseCategory(label string) Category {
	normalized := Category(strings.ToLower(strings.TrimSpace(label)))
	for _, c := range allCategories {
		if c == normalized {
			return c
		}
	}
	return CategoryOther
}

type EntityKind string

const (
	EntityPerson         EntityKind = "person"
	EntityOrganization   EntityKind = "organization"
	EntityLocation       EntityKind = "location"
	EntityMoney          EntityKind = "money"
	EntityDocumentNumber EntityKind = "document_number"
	EntityEmail          EntityKind = "email"
	EntityPhone          EntityKind = "phone"
)

type Entity struct {
	Text       string     `json:"text"`
	Kind       EntityKind `json:"kind"`
	Confidence float64    `json:"confidence"`
}

// DateMention keeps dates apart from generic entities because they carry
// locale-specific normalization.
type DateMention struct {
	Raw        string  `json:"raw"`
	Normalized string  `json:"normalized"`
	Confidence float64 `json:"confidence"`
	Locale     string  `json:"locale"`
}

// RecognitionResult is the raw output of one OCR engine call.
type RecognitionResult struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	EngineID   string  `json:"engine_id"`
	LatencyMS  int64   `json:"latency_ms"`
}

// Usable reports whether the result may participate in fusion.
func (r RecognitionResult) Usable() bool {
	return r.Confidence > 0.1 && strings.TrimSpace(r.Text) != ""
}

// FusedText is the single authoritative text chosen for downstream stages.
type FusedText struct {
	Text        string   `json:"text"`
	Confidence  float64  `json:"confidence"`
	Source      string   `json:"source"`
	Corrections []string `json:"corrections,omitempty"`
}

type VoteSource string

const (
	VoteSourceRule  VoteSource = "rule"
	VoteSourceModel VoteSource = "model"
)

// ClassificationVote is one classifier's opinion before arbitration.
type ClassificationVote struct {
	Category   Category   `json:"category"`
	Confidence float64    `json:"confidence"`
	Reasoning  string     `json:"reasoning"`
	Source     VoteSource `json:"source"`
}

type AlternativeCategory struct {
	Category Category `json:"category"`
	Score    float64  `json:"score"`
}

// Classification is the arbitrated winner plus transparency data.
type Classification struct {
	Category     Category              `json:"category"`
	Confidence   float64               `json:"confidence"`
	Reasoning    string                `json:"reasoning"`
	Source       VoteSource            `json:"source"`
	Alternatives []AlternativeCategory `json:"alternatives,omitempty"`
}

type ProcessingMethod string

const (
	MethodCloud     ProcessingMethod = "cloud"
	MethodLocal     ProcessingMethod = "local"
	MethodEmergency ProcessingMethod = "emergency"
)

type DocumentHint string

const (
	HintPDF   DocumentHint = "pdf"
	HintImage DocumentHint = "image"
	HintAuto  DocumentHint = "auto"
)

// DocumentInput references one document to process, either inline bytes or a URL.
type DocumentInput struct {
	ID      string       `json:"id,omitempty"`
	URL     string       `json:"url,omitempty"`
	Content []byte       `json:"-"`
	Hint    DocumentHint `json:"hint,omitempty"`
}

// IsPDF resolves the hint against the content magic when the hint is auto.
func (d DocumentInput) IsPDF() bool {
	switch d.Hint {
	case HintPDF:
		return true
	case HintImage:
		return false
	}
	if len(d.Content) >= 4 && string(d.Content[:4]) == "%PDF" {
		return true
	}
	return strings.HasSuffix(strings.ToLower(d.URL), ".pdf")
}

// ProcessingResult is the aggregate produced by one pipeline invocation.
// It is immutable after return and always well-formed, even on total failure.
type ProcessingResult struct {
	ID             string           `json:"id"`
	Text           string           `json:"text"`
	TextConfidence float64          `json:"text_confidence"`
	Corrections    []string         `json:"corrections,omitempty"`
	Classification Classification   `json:"classification"`
	Entities       []Entity         `json:"entities"`
	Dates          []DateMention    `json:"dates"`
	Tags           []string         `json:"tags"`
	SuggestedName  string           `json:"suggested_name"`
	Summary        string           `json:"summary"`
	Language       string           `json:"language"`
	QualityScore   float64          `json:"quality_score"`
	Method         ProcessingMethod `json:"method"`
	Notes          []string         `json:"notes"`
	ProcessedAt    time.Time        `json:"processed_at"`
}

// Answer is the Q&A responder output.
type Answer struct {
	Text       string           `json:"answer"`
	Confidence float64          `json:"confidence"`
	Method     ProcessingMethod `json:"method"`
}
