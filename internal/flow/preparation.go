package flow

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ashureev/salestwin/internal/catalog"
	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/persona"
	"github.com/ashureev/salestwin/internal/remote"
	"github.com/ashureev/salestwin/internal/session"
	"github.com/google/uuid"
)

// RegistrationWarning is shown when the backend could not record the
// session. The training goes on regardless.
const RegistrationWarning = "Nie udało się zapisać sesji, ale możesz kontynuować trening"

const defaultPayloadUserID = "default@example.com"

const salesPlaybook = "Handlowiec powinien w przystępny sposób łączyć najważniejsze elementy oferty — instalację 8 kWp, magazyn 10 kWh, pełną obsługę i finansowanie 0% — z potrzebami klienta, pokazując praktyczne korzyści i możliwe oszczędności. Jednocześnie powinien transparentnie omawiać cenę, terminy oraz ewentualne czynniki wpływające na koszt montażu, dbając o jasną i rzetelną komunikację."

var photovoltaicsConstraints = []string{
	"Klient dysponuje budżetem maksymalnie 70 000 PLN, więc nie chce przekraczać tej kwoty przy zakupie instalacji i magazynu energii.",
	"Oczekuje, że montaż zostanie zakończony w ciągu 6–8 tygodni, krócej niż standardowy czas realizacji 8–10 tygodni.",
	"Dach klienta ma ograniczoną powierzchnię 50 m² i częściowo zacienione fragmenty, co wymaga optymalizacji ustawienia paneli.",
}

const initialProgress = 15

// PreparationView is the briefing shown before the conversation starts.
type PreparationView struct {
	Config                domain.TrainingConfig `json:"config"`
	Offers                []domain.Offer        `json:"offers"`
	ClientTypeLabel       string                `json:"clientTypeLabel"`
	ClientTypeDescription string                `json:"clientTypeDescription"`
	DifficultyLabel       string                `json:"difficultyLabel"`
	DifficultyDescription string                `json:"difficultyDescription"`
	GoalLabel             string                `json:"goalLabel,omitempty"`
}

// Preparation resolves the labels and descriptions of the configuration.
func (c *Controller) Preparation(st *session.Store) (*PreparationView, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	return &PreparationView{
		Config:                *cfg,
		Offers:                c.catalog.OffersByIDs(cfg.SelectedOffers),
		ClientTypeLabel:       catalog.ClientTypeLabel(cfg.ClientType),
		ClientTypeDescription: catalog.ClientTypeDescription(cfg.ClientType),
		DifficultyLabel:       catalog.DifficultyLabel(cfg.Difficulty),
		DifficultyDescription: catalog.DifficultyDescription(cfg.Difficulty),
		GoalLabel:             catalog.GoalLabel(cfg.Goal),
	}, nil
}

// StartResult is the outcome of starting a conversation.
type StartResult struct {
	Next         Step                `json:"next"`
	Conversation domain.Conversation `json:"conversation"`
	Session      json.RawMessage     `json:"session,omitempty"`
	Warning      string              `json:"warning,omitempty"`
}

// StartConversation registers the session with the backend and opens the
// conversation. A failed registration is logged and reported as a warning;
// it never blocks the training.
func (c *Controller) StartConversation(ctx context.Context, st *session.Store) (*StartResult, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	res := &StartResult{Next: StepConversation}

	if c.registrar != nil {
		payload := c.BuildPayload(st.CurrentUser(), cfg)
		handle, err := c.registrar.CreateChatSession(ctx, payload)
		if err != nil {
			attrs := []any{"error", err, "title", payload.Title}
			var apiErr *remote.APIError
			if errors.As(err, &apiErr) && apiErr.HasStatus() {
				attrs = append(attrs, "status", apiErr.Status)
			}
			c.logger.Warn("Failed to create chat session", attrs...)
			res.Warning = RegistrationWarning
		} else {
			st.SetCurrentSession(handle)
			res.Session = handle
			c.logger.Info("Chat session created", "title", payload.Title)
		}
	}

	conv := c.newConversation(*cfg)
	st.SetConversation(&conv)
	res.Conversation = conv
	c.logTurn(st, conv.Messages[0])
	return res, nil
}

// BuildPayload describes cfg to the backend.
func (c *Controller) BuildPayload(user *domain.User, cfg *domain.TrainingConfig) remote.ChatSessionPayload {
	offers := c.catalog.OffersByIDs(cfg.SelectedOffers)

	names := make([]string, 0, len(offers))
	for _, o := range offers {
		names = append(names, o.Name)
	}
	title := strings.Join(names, " + ")
	if cfg.IsPreset() && cfg.Preset.Name != "" {
		title = cfg.Preset.Name + " - " + title
	}

	clientDescription := catalog.ClientTypeLabel(cfg.ClientType)
	if cfg.IsPreset() && cfg.Preset.ID != "" {
		if preset, ok := c.catalog.Preset(cfg.Preset.ID); ok {
			clientDescription += " - " + preset.Description
		}
	}

	constraints := []string{catalog.DifficultyDescription(cfg.Difficulty)}
	for _, o := range offers {
		if o.ID == catalog.PhotovoltaicsOfferID {
			constraints = append(constraints, photovoltaicsConstraints...)
			break
		}
	}

	userID := defaultPayloadUserID
	if user != nil && user.Email != "" {
		userID = user.Email
	}

	var productDescription string
	if len(offers) > 0 {
		productDescription = offers[0].Description
	}

	return remote.ChatSessionPayload{
		UserID:             userID,
		Title:              title,
		Difficulty:         catalog.DifficultyLabel(cfg.Difficulty),
		IsOwnConfiguration: !cfg.IsPreset(),
		ClientDescription:  clientDescription,
		Constraints:        constraints,
		Goal:               catalog.GoalLabel(cfg.Goal),
		ProductDescription: productDescription,
		SalesPlaybook:      salesPlaybook,
	}
}

func (c *Controller) newConversation(cfg domain.TrainingConfig) domain.Conversation {
	now := c.now()
	return domain.Conversation{
		Messages: []domain.Message{{
			ID:        newMessageID(),
			Role:      domain.MessageRoleClient,
			Content:   c.persona.Opening(cfg),
			Timestamp: now,
		}},
		ID:        uuid.NewString(),
		Progress:  initialProgress,
		StartedAt: now,
	}
}

func (c *Controller) logTurn(st *session.Store, msg domain.Message) {
	var userID string
	if u := st.CurrentUser(); u != nil {
		userID = u.ID
	}
	direction := "inbound"
	if msg.Role == domain.MessageRoleRep {
		direction = "outbound"
	}
	c.log.Log(persona.ConversationLogEvent{
		UserID:     userID,
		SessionID:  st.ID(),
		Channel:    "conversation",
		Direction:  direction,
		EventType:  string(msg.Role) + "_message",
		ContentRaw: msg.Content,
		Meta: map[string]any{
			"message_id": msg.ID,
		},
	})
}
