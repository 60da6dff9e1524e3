package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	// ShortlistFetch is how many eligible fundis are pulled from storage.
	ShortlistFetch = 5
	// ShortlistShow is how many make it onto the shortlist shown to the client.
	ShortlistShow = 3

	// shortlistCacheTTL is short on purpose: a fundi activating a subscription
	// should surface within a couple of minutes.
	shortlistCacheTTL = 2 * time.Minute
)

// MatchingService finds and ranks eligible fundis for a service category.
type MatchingService interface {
	MatchFundis(serviceCategory, location string) ([]models.Provider, error)
}

// DefaultMatchingService implements MatchingService. CacheClient is optional;
// when set, ranked shortlists are cached briefly per (category, location).
type DefaultMatchingService struct {
	ProviderRepo providerRepo.ProviderRepository
	CacheClient  *redis.Client
	Logger       *zap.Logger
}

// MatchFundis returns the ranked shortlist for a category. An empty result is
// a first-class outcome, not an error; callers must render no-availability.
func (s *DefaultMatchingService) MatchFundis(serviceCategory, location string) ([]models.Provider, error) {
	cacheKey := "match:" + serviceCategory + ":" + location
	if cached, ok := s.fromCache(cacheKey); ok {
		return cached, nil
	}

	providers, err := s.ProviderRepo.FindEligible(providerRepo.EligibilityCriteria{
		ServiceCategory: serviceCategory,
		Location:        location,
		Limit:           ShortlistFetch,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to match fundis: %w", err)
	}
	if len(providers) == 0 {
		s.Logger.Info("no eligible fundis",
			zap.String("category", serviceCategory), zap.String("location", location))
		return []models.Provider{}, nil
	}

	ranked := Rank(providers)
	if len(ranked) > ShortlistShow {
		ranked = ranked[:ShortlistShow]
	}
	s.toCache(cacheKey, ranked)
	return ranked, nil
}

func (s *DefaultMatchingService) fromCache(key string) ([]models.Provider, bool) {
	if s.CacheClient == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	raw, err := s.CacheClient.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var ranked []models.Provider
	if err := json.Unmarshal([]byte(raw), &ranked); err != nil {
		return nil, false
	}
	return ranked, true
}

func (s *DefaultMatchingService) toCache(key string, ranked []models.Provider) {
	if s.CacheClient == nil {
		return
	}
	payload, err := json.Marshal(ranked)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := s.CacheClient.Set(ctx, key, payload, shortlistCacheTTL).Err(); err != nil {
		s.Logger.Debug("shortlist cache write failed", zap.Error(err))
	}
}

// PriorityTier computes the ranking tier for a fundi:
// 3 for active subscribers on a priority-listing plan, 2 for plain active
// subscribers, 1 for the free tier.
func PriorityTier(p *models.Provider) int {
	if p.Subscription.Status == models.SubscriptionActive {
		if p.Subscription.Plan != nil && p.Subscription.Plan.PriorityListing {
			return 3
		}
		return 2
	}
	return 1
}

// Rank orders providers descending by tier, then descending by rating within
// a tier. A missing rating compares as zero. The sort is stable so equal
// entries keep their storage order.
func Rank(providers []models.Provider) []models.Provider {
	ranked := make([]models.Provider, len(providers))
	copy(ranked, providers)

	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := PriorityTier(&ranked[i]), PriorityTier(&ranked[j])
		if ti != tj {
			return ti > tj
		}
		return ranked[i].Rating > ranked[j].Rating
	})
	return ranked
}
