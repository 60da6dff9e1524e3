package matching

import (
	"testing"

	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProviderRepo struct {
	providerRepo.ProviderRepository
	eligible []models.Provider
	err      error
}

func (s *stubProviderRepo) FindEligible(criteria providerRepo.EligibilityCriteria) ([]models.Provider, error) {
	return s.eligible, s.err
}

func fundi(id string, status string, priority bool, rating float64) models.Provider {
	p := models.Provider{
		ID:         id,
		Name:       "Fundi " + id,
		Role:       "fundi",
		Categories: []string{"plumber"},
		Rating:     rating,
		IsVerified: true,
		Subscription: models.SubscriptionInfo{
			Status: status,
		},
	}
	if priority {
		p.Subscription.Plan = &models.SubscriptionPlan{ID: "gold", PriorityListing: true}
	}
	return p
}

func TestPriorityTier(t *testing.T) {
	active := fundi("a", models.SubscriptionActive, false, 4)
	priority := fundi("b", models.SubscriptionActive, true, 4)
	free := fundi("c", models.SubscriptionFree, false, 5)
	expired := fundi("d", models.SubscriptionExpired, false, 5)

	assert.Equal(t, 3, PriorityTier(&priority))
	assert.Equal(t, 2, PriorityTier(&active))
	assert.Equal(t, 1, PriorityTier(&free))
	assert.Equal(t, 1, PriorityTier(&expired))
}

func TestRankTierDominatesRating(t *testing.T) {
	// Tier beats rating: a 4.2 priority subscriber outranks a 5.0 free fundi.
	providers := []models.Provider{
		fundi("free", models.SubscriptionFree, false, 5.0),
		fundi("active", models.SubscriptionActive, false, 4.9),
		fundi("priority", models.SubscriptionActive, true, 4.2),
	}

	ranked := Rank(providers)
	require.Len(t, ranked, 3)
	assert.Equal(t, "priority", ranked[0].ID)
	assert.Equal(t, "active", ranked[1].ID)
	assert.Equal(t, "free", ranked[2].ID)
}

func TestRankByRatingWithinTier(t *testing.T) {
	providers := []models.Provider{
		fundi("low", models.SubscriptionFree, false, 3.1),
		fundi("unrated", models.SubscriptionFree, false, 0),
		fundi("high", models.SubscriptionFree, false, 4.8),
	}

	ranked := Rank(providers)
	assert.Equal(t, "high", ranked[0].ID)
	assert.Equal(t, "low", ranked[1].ID)
	assert.Equal(t, "unrated", ranked[2].ID)
}

func TestRankIsStable(t *testing.T) {
	providers := []models.Provider{
		fundi("first", models.SubscriptionFree, false, 4.0),
		fundi("second", models.SubscriptionFree, false, 4.0),
	}

	ranked := Rank(providers)
	assert.Equal(t, "first", ranked[0].ID)
	assert.Equal(t, "second", ranked[1].ID)
}

func TestMatchFundisTruncatesToShortlist(t *testing.T) {
	var eligible []models.Provider
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		eligible = append(eligible, fundi(id, models.SubscriptionFree, false, 4))
	}
	svc := &DefaultMatchingService{
		ProviderRepo: &stubProviderRepo{eligible: eligible},
		Logger:       zap.NewNop(),
	}

	ranked, err := svc.MatchFundis("plumber", "")
	require.NoError(t, err)
	assert.Len(t, ranked, ShortlistShow)
}

func TestMatchFundisNoAvailability(t *testing.T) {
	svc := &DefaultMatchingService{
		ProviderRepo: &stubProviderRepo{},
		Logger:       zap.NewNop(),
	}

	ranked, err := svc.MatchFundis("mechanic", "Eldoret")
	require.NoError(t, err)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)
}
