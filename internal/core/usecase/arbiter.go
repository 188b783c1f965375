package usecase

import (
	"fmt"

	"github.com/kirillkom/docmind/internal/core/domain"
)

// Arbitrate merges the rule vote and the optional model vote into the final
// classification. The model wins only with strictly higher confidence; on a
// tie or a missing model vote the deterministic rule vote prevails, so the
// outcome never depends on evaluation order.
func Arbitrate(ruleVote domain.ClassificationVote, modelVote *domain.ClassificationVote, alternatives []domain.AlternativeCategory) domain.Classification {
	winner := ruleVote
	if modelVote != nil && modelVote.Confidence > ruleVote.Confidence {
		winner = *modelVote
	}

	reasoning := winner.Reasoning
	if modelVote != nil && winner.Source == domain.VoteSourceRule {
		reasoning = fmt.Sprintf("%s (model voted %s at %.2f)", reasoning, modelVote.Category, modelVote.Confidence)
	}

	return domain.Classification{
		Category:     winner.Category,
		Confidence:   winner.Confidence,
		Reasoning:    reasoning,
		Source:       winner.Source,
		Alternatives: alternatives,
	}
}
