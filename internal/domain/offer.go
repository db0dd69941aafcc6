package domain

import "time"

// Material is a supporting link attached to an offer.
type Material struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Offer is a sellable product profile.
type Offer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Tags        []string   `json:"tags"`
	IsActive    bool       `json:"isActive"`
	Materials   []Material `json:"materials"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TrainingPreset is a manager-authored shortcut bundling an offer with
// client type, difficulty and an optional goal.
type TrainingPreset struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OfferID     string     `json:"offerId"`
	ClientType  ClientType `json:"clientType"`
	Difficulty  Difficulty `json:"difficulty"`
	Goal        Goal       `json:"goal,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Config returns the training configuration the preset stands for.
func (p *TrainingPreset) Config() TrainingConfig {
	return TrainingConfig{
		SelectedOffers: []string{p.OfferID},
		ClientType:     p.ClientType,
		Difficulty:     p.Difficulty,
		Goal:           p.Goal,
		Preset:         &PresetRef{ID: p.ID, Name: p.Name},
	}
}

// Insight is a coaching tip shown during a live conversation.
type Insight struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	OfferID     string   `json:"offerId"`
	Trigger     string   `json:"trigger,omitempty"`
}
