// Package catalog holds the read-only reference data of the trainer:
// demo users, offers, presets, insights and label dictionaries.
package catalog

import (
	"slices"
	"time"

	"github.com/ashureev/salestwin/internal/domain"
)

// Catalog serves lookups over a fixed set of reference data.
// It is never written after construction and is safe for concurrent use.
type Catalog struct {
	users    []domain.User
	offers   []domain.Offer
	presets  []domain.TrainingPreset
	insights []domain.Insight
	history  []domain.TrainingSession
}

// New returns a catalog over the given data.
func New(users []domain.User, offers []domain.Offer, presets []domain.TrainingPreset, insights []domain.Insight, history []domain.TrainingSession) *Catalog {
	return &Catalog{
		users:    users,
		offers:   offers,
		presets:  presets,
		insights: insights,
		history:  history,
	}
}

// Default returns the demo catalog.
func Default() *Catalog {
	return New(demoUsers, demoOffers, demoPresets, demoInsights, demoHistory)
}

// Users returns every demo user.
func (c *Catalog) Users() []domain.User {
	return slices.Clone(c.users)
}

// User returns the user with the given id.
func (c *Catalog) User(id string) (domain.User, bool) {
	for _, u := range c.users {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// UserByRole returns the first demo user holding role.
func (c *Catalog) UserByRole(role domain.Role) (domain.User, bool) {
	for _, u := range c.users {
		if u.Role == role {
			return u, true
		}
	}
	return domain.User{}, false
}

// Offers returns every offer, active or not.
func (c *Catalog) Offers() []domain.Offer {
	return slices.Clone(c.offers)
}

// ActiveOffers returns the offers a rep may train on.
func (c *Catalog) ActiveOffers() []domain.Offer {
	var out []domain.Offer
	for _, o := range c.offers {
		if o.IsActive {
			out = append(out, o)
		}
	}
	return out
}

// Offer returns the offer with the given id.
func (c *Catalog) Offer(id string) (domain.Offer, bool) {
	for _, o := range c.offers {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Offer{}, false
}

// OffersByIDs returns the offers whose id is in ids, in catalog order.
// Unknown ids are skipped.
func (c *Catalog) OffersByIDs(ids []string) []domain.Offer {
	var out []domain.Offer
	for _, o := range c.offers {
		if slices.Contains(ids, o.ID) {
			out = append(out, o)
		}
	}
	return out
}

// KnownOfferIDs reports whether every id in ids names a catalog offer.
func (c *Catalog) KnownOfferIDs(ids []string) bool {
	for _, id := range ids {
		if _, ok := c.Offer(id); !ok {
			return false
		}
	}
	return true
}

// Presets returns every preset.
func (c *Catalog) Presets() []domain.TrainingPreset {
	return slices.Clone(c.presets)
}

// Preset returns the preset with the given id.
func (c *Catalog) Preset(id string) (domain.TrainingPreset, bool) {
	for _, p := range c.presets {
		if p.ID == id {
			return p, true
		}
	}
	return domain.TrainingPreset{}, false
}

// PresetsForOffers returns presets built on any of the given offers.
func (c *Catalog) PresetsForOffers(offerIDs []string) []domain.TrainingPreset {
	var out []domain.TrainingPreset
	for _, p := range c.presets {
		if slices.Contains(offerIDs, p.OfferID) {
			out = append(out, p)
		}
	}
	return out
}

// Insights returns every insight.
func (c *Catalog) Insights() []domain.Insight {
	return slices.Clone(c.insights)
}

// InsightsForOffers returns insights tied to any of the given offers.
func (c *Catalog) InsightsForOffers(offerIDs []string) []domain.Insight {
	var out []domain.Insight
	for _, in := range c.insights {
		if slices.Contains(offerIDs, in.OfferID) {
			out = append(out, in)
		}
	}
	return out
}

// History returns the demo training sessions shown before any real ones exist.
func (c *Catalog) History() []domain.TrainingSession {
	return slices.Clone(c.history)
}

// HistorySession returns the demo session with the given id.
func (c *Catalog) HistorySession(id string) (domain.TrainingSession, bool) {
	for _, s := range c.history {
		if s.ID == id {
			return s, true
		}
	}
	return domain.TrainingSession{}, false
}

func day(s string) time.Time {
	t, err := time.Parse(domain.SessionDateLayout, s)
	if err != nil {
		panic("catalog: bad date " + s)
	}
	return t
}
