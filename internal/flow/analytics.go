package flow

import (
	"context"
	"math"
	"sort"

	"github.com/ashureev/salestwin/internal/domain"
)

const (
	topOfferCount    = 5
	unknownOfferName = "Nieznana oferta"
)

// OfferStat is one row of the most trained offers.
type OfferStat struct {
	OfferID  string `json:"offerId"`
	Name     string `json:"name"`
	Count    int    `json:"count"`
	AvgScore int    `json:"avgScore"`
}

// Analytics is the manager's overview of all training sessions.
type Analytics struct {
	TotalSessions int         `json:"totalSessions"`
	AvgScore      int         `json:"avgScore"`
	ActiveOffers  int         `json:"activeOffers"`
	TopOffers     []OfferStat `json:"topOffers"`
}

// Analytics aggregates the demo history and every archived session. An
// unavailable archive is logged and left out.
func (c *Controller) Analytics(ctx context.Context) (*Analytics, error) {
	sessions := c.catalog.History()
	if c.archive != nil {
		archived, err := c.archive.ListSessions(ctx)
		if err != nil {
			c.logger.Warn("Failed to list archived sessions", "error", err)
		} else {
			sessions = append(sessions, archived...)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return c.aggregate(sessions), nil
}

func (c *Controller) aggregate(sessions []domain.TrainingSession) *Analytics {
	out := &Analytics{
		TotalSessions: len(sessions),
		ActiveOffers:  len(c.catalog.ActiveOffers()),
		TopOffers:     []OfferStat{},
	}
	if len(sessions) == 0 {
		return out
	}

	total := 0
	counts := make(map[string]int)
	scores := make(map[string]int)
	var order []string
	for _, s := range sessions {
		total += s.Score
		for _, id := range s.Config.SelectedOffers {
			if _, seen := counts[id]; !seen {
				order = append(order, id)
			}
			counts[id]++
			scores[id] += s.Score
		}
	}
	out.AvgScore = roundedMean(total, len(sessions))

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > topOfferCount {
		order = order[:topOfferCount]
	}
	for _, id := range order {
		name := unknownOfferName
		if offer, ok := c.catalog.Offer(id); ok {
			name = offer.Name
		}
		out.TopOffers = append(out.TopOffers, OfferStat{
			OfferID:  id,
			Name:     name,
			Count:    counts[id],
			AvgScore: roundedMean(scores[id], counts[id]),
		})
	}
	return out
}

func roundedMean(sum, n int) int {
	return int(math.Round(float64(sum) / float64(n)))
}

// ManagerOffers lists every offer, including inactive ones.
func (c *Controller) ManagerOffers() []domain.Offer {
	return c.catalog.Offers()
}

// ManagerPresets lists every training preset.
func (c *Controller) ManagerPresets() []domain.TrainingPreset {
	return c.catalog.Presets()
}
