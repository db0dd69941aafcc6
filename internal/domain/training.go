package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNoOffers is returned when a configuration has no selected offers.
	ErrNoOffers = errors.New("no offers selected")
	// ErrInvalidConfig wraps every enum validation failure.
	ErrInvalidConfig = errors.New("invalid training configuration")
)

// ClientType is the simulated client persona.
type ClientType string

const (
	ClientCFODecisive        ClientType = "cfo-decisive"
	ClientSmallBusinessOwner ClientType = "small-business-owner"
	ClientITDirector         ClientType = "it-director"
	ClientCorporateBuyer     ClientType = "corporate-buyer"
	ClientModernEntrepreneur ClientType = "modern-entrepreneur"
)

// DefaultClientType is used when no persona has been chosen yet.
const DefaultClientType = ClientCFODecisive

// ClientTypes lists every persona in display order.
var ClientTypes = []ClientType{
	ClientCFODecisive,
	ClientSmallBusinessOwner,
	ClientITDirector,
	ClientCorporateBuyer,
	ClientModernEntrepreneur,
}

// Valid reports whether c is a known persona.
func (c ClientType) Valid() bool {
	return slices.Contains(ClientTypes, c)
}

// Difficulty is how hard the simulated client is to convince.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DefaultDifficulty is used when no level has been chosen yet.
const DefaultDifficulty = DifficultyMedium

// Difficulties lists every level in display order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}

// Valid reports whether d is a known level.
func (d Difficulty) Valid() bool {
	return slices.Contains(Difficulties, d)
}

// Goal is the optional objective of a conversation. GoalNone means no goal.
type Goal string

const (
	GoalNone             Goal = ""
	GoalScheduleDemo     Goal = "schedule-demo"
	GoalCloseSale        Goal = "close-sale"
	GoalQualifyLead      Goal = "qualify-lead"
	GoalCostOptimization Goal = "cost-optimization"
	GoalLearnBenefits    Goal = "learn-benefits"
)

// Goals lists every goal in display order.
var Goals = []Goal{
	GoalScheduleDemo,
	GoalCloseSale,
	GoalQualifyLead,
	GoalCostOptimization,
	GoalLearnBenefits,
}

// IsSet returns true unless g is GoalNone.
func (g Goal) IsSet() bool {
	return g != GoalNone
}

// Valid reports whether g is GoalNone or a known goal.
func (g Goal) Valid() bool {
	return !g.IsSet() || slices.Contains(Goals, g)
}

// PresetRef records which preset a configuration came from.
type PresetRef struct {
	ID   string
	Name string
}

// TrainingConfig is the in-progress parameter set for a simulated conversation.
// A nil Preset means the user built the configuration themselves.
type TrainingConfig struct {
	SelectedOffers []string
	ClientType     ClientType
	Difficulty     Difficulty
	Goal           Goal
	Preset         *PresetRef
}

// IsPreset returns true if the configuration was taken from a preset.
func (c *TrainingConfig) IsPreset() bool {
	return c != nil && c.Preset != nil
}

// HasOffers returns true if at least one offer is selected.
func (c *TrainingConfig) HasOffers() bool {
	return c != nil && len(c.SelectedOffers) > 0
}

// Validate checks the configuration is complete enough to train with.
func (c *TrainingConfig) Validate() error {
	if !c.HasOffers() {
		return ErrNoOffers
	}
	if !c.ClientType.Valid() {
		return fmt.Errorf("%w: unknown client type %q", ErrInvalidConfig, c.ClientType)
	}
	if !c.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, c.Difficulty)
	}
	if !c.Goal.Valid() {
		return fmt.Errorf("%w: unknown goal %q", ErrInvalidConfig, c.Goal)
	}
	return nil
}

// Clone returns a deep copy so callers can merge updates without aliasing.
func (c *TrainingConfig) Clone() *TrainingConfig {
	if c == nil {
		return nil
	}
	out := *c
	out.SelectedOffers = slices.Clone(c.SelectedOffers)
	if c.Preset != nil {
		ref := *c.Preset
		out.Preset = &ref
	}
	return &out
}

type trainingConfigJSON struct {
	SelectedOffers []string   `json:"selectedOffers"`
	ClientType     ClientType `json:"clientType"`
	Difficulty     Difficulty `json:"difficulty"`
	Goal           Goal       `json:"goal,omitempty"`
	IsPreset       bool       `json:"isPreset"`
	PresetID       string     `json:"presetId,omitempty"`
	PresetName     string     `json:"presetName,omitempty"`
}

// MarshalJSON flattens the preset reference into isPreset/presetId/presetName.
func (c TrainingConfig) MarshalJSON() ([]byte, error) {
	wire := trainingConfigJSON{
		SelectedOffers: c.SelectedOffers,
		ClientType:     c.ClientType,
		Difficulty:     c.Difficulty,
		Goal:           c.Goal,
	}
	if wire.SelectedOffers == nil {
		wire.SelectedOffers = []string{}
	}
	if c.Preset != nil {
		wire.IsPreset = true
		wire.PresetID = c.Preset.ID
		wire.PresetName = c.Preset.Name
	}
	return json.Marshal(wire)
}

// UnmarshalJSON accepts the flattened form written by MarshalJSON.
func (c *TrainingConfig) UnmarshalJSON(data []byte) error {
	var wire trainingConfigJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*c = TrainingConfig{
		SelectedOffers: wire.SelectedOffers,
		ClientType:     wire.ClientType,
		Difficulty:     wire.Difficulty,
		Goal:           wire.Goal,
	}
	if wire.IsPreset {
		c.Preset = &PresetRef{ID: wire.PresetID, Name: wire.PresetName}
	}
	return nil
}
