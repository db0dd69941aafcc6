package catalog

import (
	"testing"

	"github.com/ashureev/salestwin/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_UserByRole(t *testing.T) {
	c := Default()

	rep, ok := c.UserByRole(domain.RoleSalesRep)
	require.True(t, ok)
	assert.Equal(t, "jan.kowalski@example.com", rep.Email)

	mgr, ok := c.UserByRole(domain.RoleManager)
	require.True(t, ok)
	assert.Equal(t, "2", mgr.ID)
}

func TestActiveOffers_SkipsInactive(t *testing.T) {
	for _, o := range Default().ActiveOffers() {
		assert.True(t, o.IsActive, o.ID)
		assert.NotEqual(t, "4", o.ID)
	}
}

func TestOffersByIDs_CatalogOrder(t *testing.T) {
	got := Default().OffersByIDs([]string{"3", "1", "missing"})
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ID)
	assert.Equal(t, "3", got[1].ID)
}

func TestKnownOfferIDs(t *testing.T) {
	c := Default()
	assert.True(t, c.KnownOfferIDs([]string{"1", "2"}))
	assert.False(t, c.KnownOfferIDs([]string{"1", "42"}))
}

func TestPresetsAndInsightsForOffers(t *testing.T) {
	c := Default()

	presets := c.PresetsForOffers([]string{"2", "3"})
	require.Len(t, presets, 2)
	assert.Equal(t, "p2", presets[0].ID)

	insights := c.InsightsForOffers([]string{"1"})
	require.Len(t, insights, 2)
	assert.Equal(t, "i1", insights[0].ID)
}

func TestHistoryReferencesKnownOffers(t *testing.T) {
	c := Default()
	for _, s := range c.History() {
		assert.True(t, c.KnownOfferIDs(s.Config.SelectedOffers), s.ID)
	}
}

func TestAllLabels_CoversEveryEnum(t *testing.T) {
	l := AllLabels()
	assert.Len(t, l.ClientTypes, len(domain.ClientTypes))
	assert.Len(t, l.Difficulties, len(domain.Difficulties))
	assert.Len(t, l.Goals, len(domain.Goals))
	for _, o := range l.ClientTypes {
		assert.NotEmpty(t, o.Label, o.Value)
		assert.NotEmpty(t, o.Description, o.Value)
	}
	assert.Empty(t, GoalLabel(domain.GoalNone))
}
