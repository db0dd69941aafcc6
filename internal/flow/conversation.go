package flow

import (
	"context"
	"strings"

	"github.com/ashureev/salestwin/internal/catalog"
	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/persona"
	"github.com/ashureev/salestwin/internal/session"
	"github.com/google/uuid"
)

const (
	progressStep     = 10
	maxProgress      = 85
	maxShownInsights = 3
)

func newMessageID() string {
	return uuid.NewString()
}

// ConversationView is the live conversation page.
type ConversationView struct {
	Config          domain.TrainingConfig `json:"config"`
	Offers          []domain.Offer        `json:"offers"`
	Conversation    domain.Conversation   `json:"conversation"`
	Insights        []domain.Insight      `json:"insights"`
	ClientTypeLabel string                `json:"clientTypeLabel"`
	DifficultyLabel string                `json:"difficultyLabel"`
	GoalLabel       string                `json:"goalLabel,omitempty"`
}

// Conversation returns the conversation in progress, opening one if the
// visitor arrived without going through preparation.
func (c *Controller) Conversation(st *session.Store) (*ConversationView, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	conv := c.ensureConversation(st, *cfg)

	insights := c.catalog.InsightsForOffers(cfg.SelectedOffers)
	if len(insights) > maxShownInsights {
		insights = insights[:maxShownInsights]
	}
	return &ConversationView{
		Config:          *cfg,
		Offers:          c.catalog.OffersByIDs(cfg.SelectedOffers),
		Conversation:    conv,
		Insights:        insights,
		ClientTypeLabel: catalog.ClientTypeLabel(cfg.ClientType),
		DifficultyLabel: catalog.DifficultyLabel(cfg.Difficulty),
		GoalLabel:       catalog.GoalLabel(cfg.Goal),
	}, nil
}

func (c *Controller) ensureConversation(st *session.Store, cfg domain.TrainingConfig) domain.Conversation {
	if conv := st.Conversation(); conv != nil {
		return *conv
	}
	conv := c.newConversation(cfg)
	st.SetConversation(&conv)
	c.logTurn(st, conv.Messages[0])
	return conv
}

// SendResult is the accepted rep turn.
type SendResult struct {
	Message  domain.Message `json:"message"`
	Progress int            `json:"progress"`
}

// ReplyFunc receives the client's answer once it has been appended.
type ReplyFunc func(msg domain.Message)

// SendMessage appends a rep turn and schedules the client's reply after
// the reply delay. onReply may be nil. A reply that arrives after the
// conversation ended or was replaced is dropped.
func (c *Controller) SendMessage(ctx context.Context, st *session.Store, text string, onReply ReplyFunc) (*SendResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyMessage
	}
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	c.ensureConversation(st, *cfg)

	msg := domain.Message{
		ID:        newMessageID(),
		Role:      domain.MessageRoleRep,
		Content:   text,
		Timestamp: c.now(),
	}
	var (
		convID   string
		progress int
		history  []domain.Message
	)
	appended := st.UpdateConversation(func(conv *domain.Conversation) {
		conv.Append(msg)
		conv.Progress = min(conv.Progress+progressStep, maxProgress)
		convID = conv.ID
		progress = conv.Progress
		history = conv.Snapshot().Messages
	})
	if !appended {
		// The conversation ended concurrently; the view has to reload.
		return nil, redirect(StepConversation)
	}
	c.logTurn(st, msg)

	req := persona.ReplyRequest{
		Message:   text,
		Config:    *cfg,
		History:   history,
		SessionID: st.ID(),
	}
	if u := st.CurrentUser(); u != nil {
		req.UserID = u.ID
	}
	c.afterFunc(c.replyDelay, func() {
		c.deliverReply(context.WithoutCancel(ctx), st, convID, req, onReply)
	})

	return &SendResult{Message: msg, Progress: progress}, nil
}

func (c *Controller) deliverReply(ctx context.Context, st *session.Store, convID string, req persona.ReplyRequest, onReply ReplyFunc) {
	reply, err := c.persona.Reply(ctx, req)
	if err != nil {
		c.logger.Error("Client reply failed", "error", err, "session_id", st.ID())
		return
	}
	msg := domain.Message{
		ID:        newMessageID(),
		Role:      domain.MessageRoleClient,
		Content:   reply.Content,
		Timestamp: c.now(),
	}
	appended := false
	st.UpdateConversation(func(conv *domain.Conversation) {
		if conv.ID != convID {
			return
		}
		conv.Append(msg)
		appended = true
	})
	if !appended {
		c.logger.Debug("Dropping reply for finished conversation", "session_id", st.ID())
		return
	}
	c.logTurn(st, msg)
	if onReply != nil {
		onReply(msg)
	}
}

// EndConversation scores the conversation, records it as a completed
// training session and returns it. The conversation is closed.
func (c *Controller) EndConversation(ctx context.Context, st *session.Store) (*domain.TrainingSession, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	conv := c.ensureConversation(st, *cfg)

	assessment, err := c.persona.Score(ctx, persona.ScoreRequest{
		Config:   *cfg,
		Messages: conv.Messages,
		Insights: c.catalog.InsightsForOffers(cfg.SelectedOffers),
	})
	if err != nil {
		return nil, err
	}

	sess := domain.TrainingSession{
		ID:           uuid.NewString(),
		Date:         c.now().UTC().Format(domain.SessionDateLayout),
		Config:       *cfg,
		Score:        assessment.Score,
		Metrics:      assessment.Metrics,
		UsedInsights: assessment.UsedInsights,
		Messages:     conv.Messages,
		Feedback:     assessment.Feedback,
	}
	if u := st.CurrentUser(); u != nil {
		sess.UserID = u.ID
	}
	st.AddSession(sess)
	st.SetConversation(nil)

	c.logger.Info("Training session completed",
		"session_id", sess.ID,
		"user_id", sess.UserID,
		"messages", len(sess.Messages),
		"score", sess.Score,
	)
	if c.archive != nil {
		if err := c.archive.ArchiveSession(ctx, sess); err != nil {
			c.logger.Warn("Failed to archive training session", "session_id", sess.ID, "error", err)
		}
	}
	return &sess, nil
}

// SummaryView is the scored summary of one training session.
type SummaryView struct {
	Session         domain.TrainingSession `json:"session"`
	ClientTypeLabel string                 `json:"clientTypeLabel"`
	DifficultyLabel string                 `json:"difficultyLabel"`
	GoalLabel       string                 `json:"goalLabel,omitempty"`
}

// Summary finds a session among this visitor's sessions, then among the
// demo history.
func (c *Controller) Summary(st *session.Store, id string) (*SummaryView, error) {
	sess, ok := c.findSession(st, id)
	if !ok {
		return nil, redirect(StepDashboard)
	}
	return &SummaryView{
		Session:         sess,
		ClientTypeLabel: catalog.ClientTypeLabel(sess.Config.ClientType),
		DifficultyLabel: catalog.DifficultyLabel(sess.Config.Difficulty),
		GoalLabel:       catalog.GoalLabel(sess.Config.Goal),
	}, nil
}
