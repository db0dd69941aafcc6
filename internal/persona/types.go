// Package persona implements the simulated client and the session scorer.
package persona

import (
	"github.com/ashureev/salestwin/internal/domain"
)

// ReplyRequest is a sales rep turn sent to the simulated client.
type ReplyRequest struct {
	Message   string
	Config    domain.TrainingConfig
	History   []domain.Message
	UserID    string
	SessionID string
}

// Reply is what the simulated client says back.
type Reply struct {
	Content string `json:"content"`
}

// Assessment is the scored outcome of a finished conversation.
type Assessment struct {
	Score        int
	Metrics      domain.Metrics
	UsedInsights []domain.Insight
	Feedback     domain.Feedback
}

// ScoreRequest carries everything a scorer may look at.
type ScoreRequest struct {
	Config   domain.TrainingConfig
	Messages []domain.Message
	Insights []domain.Insight
}
