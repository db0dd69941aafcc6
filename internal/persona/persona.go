package persona

import (
	"context"

	"github.com/ashureev/salestwin/internal/domain"
)

// Responder produces the simulated client's side of the conversation.
type Responder interface {
	// Opening is the client's first line for a new conversation.
	Opening(cfg domain.TrainingConfig) string

	// Reply answers one sales rep turn.
	Reply(ctx context.Context, req ReplyRequest) (Reply, error)
}

// Scorer grades a finished conversation.
type Scorer interface {
	Score(ctx context.Context, req ScoreRequest) (Assessment, error)
}

// Ensure the scripted implementations satisfy the ports.
var (
	_ Responder = Scripted{}
	_ Scorer    = PlaceholderScorer{}
)

// Service pairs a responder with a scorer.
type Service struct {
	responder Responder
	scorer    Scorer
}

// NewService creates a persona service. Nil ports fall back to the scripted
// client and the placeholder scorer.
func NewService(responder Responder, scorer Scorer) *Service {
	if responder == nil {
		responder = Scripted{}
	}
	if scorer == nil {
		scorer = PlaceholderScorer{}
	}
	return &Service{responder: responder, scorer: scorer}
}

// Opening returns the client's first line.
func (s *Service) Opening(cfg domain.TrainingConfig) string {
	return s.responder.Opening(cfg)
}

// Reply answers a sales rep turn.
func (s *Service) Reply(ctx context.Context, req ReplyRequest) (Reply, error) {
	return s.responder.Reply(ctx, req)
}

// Score grades a finished conversation.
func (s *Service) Score(ctx context.Context, req ScoreRequest) (Assessment, error) {
	return s.scorer.Score(ctx, req)
}
