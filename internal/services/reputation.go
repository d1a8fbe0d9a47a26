package services

import "github.com/sahilm98/askora/internal/models"

// Reputation weights. A vote is worth more on an answer than on a question;
// an accepted answer is worth a flat bonus. Removing or switching a vote
// reverses the same amounts, so the bookkeeping stays symmetric.
const (
	repQuestionVote = 5
	repAnswerVote   = 10
	repAccepted     = 15
)

// reputationDelta converts a raw vote delta into the reputation change for
// the target's owner.
func reputationDelta(targetType string, delta int) int {
	if targetType == models.TargetAnswer {
		return delta * repAnswerVote
	}
	return delta * repQuestionVote
}
