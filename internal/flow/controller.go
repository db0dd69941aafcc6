package flow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/ashureev/salestwin/internal/catalog"
	"github.com/ashureev/salestwin/internal/domain"
	"github.com/ashureev/salestwin/internal/persona"
	"github.com/ashureev/salestwin/internal/remote"
	"github.com/ashureev/salestwin/internal/session"
)

// DefaultReplyDelay is how long the simulated client "thinks" before answering.
const DefaultReplyDelay = 1500 * time.Millisecond

const recentSessionCount = 3

// Archive keeps completed sessions beyond the lifetime of a visitor's store.
type Archive interface {
	ArchiveSession(ctx context.Context, s domain.TrainingSession) error
	ListSessions(ctx context.Context) ([]domain.TrainingSession, error)
}

// Options configures a Controller. Only Catalog is required.
type Options struct {
	Catalog   *catalog.Catalog
	Registrar remote.Registrar
	Persona   *persona.Service
	Archive   Archive
	Log       persona.ConversationLogger
	Logger    *slog.Logger

	ReplyDelay time.Duration
	// AfterFunc schedules delayed client replies.
	AfterFunc  func(d time.Duration, f func())
	Now        func() time.Time
}

// Controller implements the training flow. It holds no per-visitor state;
// every call works on the store it is given.
type Controller struct {
	catalog    *catalog.Catalog
	registrar  remote.Registrar
	persona    *persona.Service
	archive    Archive
	log        persona.ConversationLogger
	logger     *slog.Logger
	replyDelay time.Duration
	afterFunc  func(time.Duration, func())
	now        func() time.Time
}

// NewController creates a flow controller.
func NewController(opts Options) *Controller {
	c := &Controller{
		catalog:    opts.Catalog,
		registrar:  opts.Registrar,
		persona:    opts.Persona,
		archive:    opts.Archive,
		log:        opts.Log,
		logger:     opts.Logger,
		replyDelay: opts.ReplyDelay,
		afterFunc:  opts.AfterFunc,
		now:        opts.Now,
	}
	if c.catalog == nil {
		c.catalog = catalog.Default()
	}
	if c.persona == nil {
		c.persona = persona.NewService(nil, nil)
	}
	if c.log == nil {
		c.log = persona.NoopConversationLogger{}
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	if c.replyDelay <= 0 {
		c.replyDelay = DefaultReplyDelay
	}
	if c.afterFunc == nil {
		c.afterFunc = func(d time.Duration, f func()) { time.AfterFunc(d, f) }
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// Catalog returns the reference data the controller reads from.
func (c *Controller) Catalog() *catalog.Catalog {
	return c.catalog
}

// Login signs in as the first demo user with the given role and returns
// the landing step.
func (c *Controller) Login(st *session.Store, role domain.Role) (Step, *domain.User, error) {
	if !role.Valid() {
		return "", nil, fmt.Errorf("%w: %q", ErrUnknownRole, role)
	}
	user, ok := c.catalog.UserByRole(role)
	if !ok {
		return "", nil, fmt.Errorf("%w: %s", ErrNoUser, role)
	}
	st.SetCurrentUser(&user)
	c.logger.Info("User logged in", "user_id", user.ID, "role", role)

	if user.IsManager() {
		return StepManager, &user, nil
	}
	return StepDashboard, &user, nil
}

// Logout clears the signed-in user.
func (c *Controller) Logout(st *session.Store) Step {
	st.SetCurrentUser(nil)
	return StepLogin
}

// DashboardView is the sales rep's start page.
type DashboardView struct {
	User           *domain.User             `json:"user"`
	LastSession    *domain.TrainingSession  `json:"lastSession"`
	RecentSessions []domain.TrainingSession `json:"recentSessions"`
}

// Dashboard returns the signed-in user, the last completed session of this
// visitor and the most recent sessions, newest first.
func (c *Controller) Dashboard(st *session.Store) *DashboardView {
	all := append(c.catalog.History(), st.Sessions()...)
	if len(all) > recentSessionCount {
		all = all[len(all)-recentSessionCount:]
	}
	slices.Reverse(all)

	return &DashboardView{
		User:           st.CurrentUser(),
		LastSession:    st.LastSession(),
		RecentSessions: all,
	}
}

// RepeatLast copies the configuration of the last session and jumps to
// preparation.
func (c *Controller) RepeatLast(st *session.Store) (Step, error) {
	last := st.LastSession()
	if last == nil {
		return "", redirect(StepOffers)
	}
	st.SetCurrentConfig(&last.Config)
	return StepPreparation, nil
}

// RepeatSession copies the configuration of any known session.
func (c *Controller) RepeatSession(st *session.Store, id string) (Step, error) {
	sess, ok := c.findSession(st, id)
	if !ok {
		return "", redirect(StepDashboard)
	}
	st.SetCurrentConfig(&sess.Config)
	return StepPreparation, nil
}

// Offers lists the offers a training can be built on.
func (c *Controller) Offers() []domain.Offer {
	return c.catalog.ActiveOffers()
}

// SelectOffers starts a new configuration from the chosen offers. Client
// type, difficulty and goal carry over from the previous configuration.
func (c *Controller) SelectOffers(st *session.Store, ids []string) (Step, error) {
	if len(ids) == 0 {
		return "", domain.ErrNoOffers
	}
	selected := make([]string, 0, len(ids))
	for _, id := range ids {
		offer, ok := c.catalog.Offer(id)
		if !ok || !offer.IsActive {
			return "", fmt.Errorf("%w: %s", ErrUnknownOffer, id)
		}
		if !slices.Contains(selected, id) {
			selected = append(selected, id)
		}
	}

	next := &domain.TrainingConfig{
		SelectedOffers: selected,
		ClientType:     domain.DefaultClientType,
		Difficulty:     domain.DefaultDifficulty,
	}
	if prev := st.CurrentConfig(); prev != nil {
		if prev.ClientType != "" {
			next.ClientType = prev.ClientType
		}
		if prev.Difficulty != "" {
			next.Difficulty = prev.Difficulty
		}
		next.Goal = prev.Goal
	}
	st.SetCurrentConfig(next)
	return StepOfferSummary, nil
}

// OfferSummaryView shows the chosen offers with their materials.
type OfferSummaryView struct {
	Offers []domain.Offer `json:"offers"`
}

// OfferSummary requires a selection.
func (c *Controller) OfferSummary(st *session.Store) (*OfferSummaryView, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	return &OfferSummaryView{Offers: c.catalog.OffersByIDs(cfg.SelectedOffers)}, nil
}

// ConfigTypeView offers the presets matching the selection, next to the
// option of a custom configuration.
type ConfigTypeView struct {
	Offers  []domain.Offer          `json:"offers"`
	Presets []domain.TrainingPreset `json:"presets"`
}

// ConfigTypes narrows the presets to the selected offers.
func (c *Controller) ConfigTypes(st *session.Store) (*ConfigTypeView, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	return &ConfigTypeView{
		Offers:  c.catalog.OffersByIDs(cfg.SelectedOffers),
		Presets: c.catalog.PresetsForOffers(cfg.SelectedOffers),
	}, nil
}

// ApplyPreset replaces the configuration with the preset's. Only presets
// for one of the selected offers apply; the selection narrows to that offer.
func (c *Controller) ApplyPreset(st *session.Store, presetID string) (Step, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return "", err
	}
	preset, ok := c.catalog.Preset(presetID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPreset, presetID)
	}
	if !slices.Contains(cfg.SelectedOffers, preset.OfferID) {
		return "", fmt.Errorf("%w: %s", ErrPresetNotAvailable, presetID)
	}
	next := preset.Config()
	st.SetCurrentConfig(&next)
	return StepPreparation, nil
}

// ParametersView is the custom configuration form with its current values.
type ParametersView struct {
	Offers     []domain.Offer    `json:"offers"`
	ClientType domain.ClientType `json:"clientType"`
	Difficulty domain.Difficulty `json:"difficulty"`
	Goal       domain.Goal       `json:"goal,omitempty"`
	Options    catalog.Labels    `json:"options"`
}

// Parameters returns the current values and every allowed option.
func (c *Controller) Parameters(st *session.Store) (*ParametersView, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return nil, err
	}
	view := &ParametersView{
		Offers:     c.catalog.OffersByIDs(cfg.SelectedOffers),
		ClientType: cfg.ClientType,
		Difficulty: cfg.Difficulty,
		Goal:       cfg.Goal,
		Options:    catalog.AllLabels(),
	}
	if view.ClientType == "" {
		view.ClientType = domain.DefaultClientType
	}
	if view.Difficulty == "" {
		view.Difficulty = domain.DefaultDifficulty
	}
	return view, nil
}

// SetParameters writes a custom configuration for the current selection.
func (c *Controller) SetParameters(st *session.Store, clientType domain.ClientType, difficulty domain.Difficulty, goal domain.Goal) (Step, error) {
	cfg, err := c.requireOffers(st)
	if err != nil {
		return "", err
	}
	next := &domain.TrainingConfig{
		SelectedOffers: cfg.SelectedOffers,
		ClientType:     clientType,
		Difficulty:     difficulty,
		Goal:           goal,
	}
	if err := next.Validate(); err != nil {
		return "", err
	}
	st.SetCurrentConfig(next)
	return StepPreparation, nil
}

func (c *Controller) requireOffers(st *session.Store) (*domain.TrainingConfig, error) {
	cfg := st.CurrentConfig()
	if !cfg.HasOffers() {
		return nil, redirect(StepOffers)
	}
	return cfg, nil
}

func (c *Controller) findSession(st *session.Store, id string) (domain.TrainingSession, bool) {
	if sess, ok := st.Session(id); ok {
		return sess, true
	}
	return c.catalog.HistorySession(id)
}
