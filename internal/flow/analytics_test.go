package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/ashureev/salestwin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalytics_DemoHistory(t *testing.T) {
	h := newHarness(t)

	got, err := h.ctrl.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalSessions)
	assert.Equal(t, 85, got.AvgScore)
	assert.Equal(t, 3, got.ActiveOffers)
	require.Len(t, got.TopOffers, 2)
	assert.Equal(t, OfferStat{OfferID: "1", Name: "Fotowoltaika 8 kWp z magazynem energii", Count: 1, AvgScore: 78}, got.TopOffers[0])
}

func TestAnalytics_IncludesArchive(t *testing.T) {
	h := newHarness(t)
	h.archive.sessions = []domain.TrainingSession{
		{ID: "a1", Score: 71, Config: domain.TrainingConfig{SelectedOffers: []string{"2", "9"}}},
		{ID: "a2", Score: 60, Config: domain.TrainingConfig{SelectedOffers: []string{"2"}}},
	}

	got, err := h.ctrl.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, got.TotalSessions)
	assert.Equal(t, 75, got.AvgScore) // (78+92+71+60)/4 = 75.25
	require.Len(t, got.TopOffers, 3)
	assert.Equal(t, "2", got.TopOffers[0].OfferID)
	assert.Equal(t, 3, got.TopOffers[0].Count)
	assert.Equal(t, 74, got.TopOffers[0].AvgScore) // (92+71+60)/3 = 74.33
	assert.Equal(t, "Nieznana oferta", got.TopOffers[2].Name)
}

func TestAnalytics_ArchiveUnavailable(t *testing.T) {
	h := newHarness(t)
	h.archive.err = errors.New("locked")

	got, err := h.ctrl.Analytics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalSessions)
}

func TestAnalytics_Empty(t *testing.T) {
	h := newHarness(t)
	got := h.ctrl.aggregate(nil)
	assert.Equal(t, 0, got.AvgScore)
	assert.Empty(t, got.TopOffers)
}
