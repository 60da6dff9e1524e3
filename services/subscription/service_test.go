package subscription

import (
	"testing"
	"time"

	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memSubscriptionRepo struct {
	plans     map[string]*models.SubscriptionPlan
	checkouts map[string]*models.SubscriptionCheckout
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{
		plans: map[string]*models.SubscriptionPlan{
			"gold": {ID: "gold", Name: "Gold", PriceKES: 1500, DurationDays: 30, PriorityListing: true},
		},
		checkouts: make(map[string]*models.SubscriptionCheckout),
	}
}

func (m *memSubscriptionRepo) GetPlans() ([]models.SubscriptionPlan, error) {
	var out []models.SubscriptionPlan
	for _, p := range m.plans {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memSubscriptionRepo) GetPlan(id string) (*models.SubscriptionPlan, error) {
	p, ok := m.plans[id]
	if !ok {
		return nil, assert.AnError
	}
	return p, nil
}

func (m *memSubscriptionRepo) CreateCheckout(c *models.SubscriptionCheckout) error {
	m.checkouts[c.Reference] = c
	return nil
}

func (m *memSubscriptionRepo) GetCheckout(reference string) (*models.SubscriptionCheckout, error) {
	c, ok := m.checkouts[reference]
	if !ok {
		return nil, assert.AnError
	}
	return c, nil
}

func (m *memSubscriptionRepo) UpdateCheckoutStatus(reference, status string) error {
	c, ok := m.checkouts[reference]
	if !ok {
		return assert.AnError
	}
	c.Status = status
	return nil
}

type memProviderRepo struct {
	providerRepo.ProviderRepository
	provider *models.Provider
}

func (m *memProviderRepo) GetByID(id string) (*models.Provider, error) {
	if m.provider != nil && m.provider.ID == id {
		return m.provider, nil
	}
	return nil, assert.AnError
}

func (m *memProviderRepo) UpdateSubscription(id string, sub models.SubscriptionInfo) error {
	if m.provider == nil || m.provider.ID != id {
		return assert.AnError
	}
	m.provider.Subscription = sub
	return nil
}

var subTestNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newSubscriptionService() (*DefaultSubscriptionService, *memSubscriptionRepo, *memProviderRepo) {
	repo := newMemSubscriptionRepo()
	provRepo := &memProviderRepo{provider: &models.Provider{
		ID:           "f1",
		Subscription: models.SubscriptionInfo{Status: models.SubscriptionFree},
	}}
	svc := &DefaultSubscriptionService{
		Repo:         repo,
		ProviderRepo: provRepo,
		Logger:       zap.NewNop(),
		Now:          func() time.Time { return subTestNow },
	}
	return svc, repo, provRepo
}

func pendingCheckout(repo *memSubscriptionRepo, reference string) {
	repo.checkouts[reference] = &models.SubscriptionCheckout{
		Reference:  reference,
		ProviderID: "f1",
		PlanID:     "gold",
		Method:     "mpesa",
		Amount:     1500,
		Status:     "pending",
	}
}

func TestSettleActivatesSubscription(t *testing.T) {
	svc, repo, provRepo := newSubscriptionService()
	pendingCheckout(repo, "ws_CO_1")

	require.NoError(t, svc.settle("ws_CO_1", true))

	assert.Equal(t, "paid", repo.checkouts["ws_CO_1"].Status)
	sub := provRepo.provider.Subscription
	assert.Equal(t, models.SubscriptionActive, sub.Status)
	require.NotNil(t, sub.Plan)
	assert.True(t, sub.Plan.PriorityListing)
	assert.Equal(t, subTestNow.AddDate(0, 0, 30), sub.ExpiresAt)
}

func TestSettleFailureDoesNotActivate(t *testing.T) {
	svc, repo, provRepo := newSubscriptionService()
	pendingCheckout(repo, "ws_CO_1")

	require.NoError(t, svc.settle("ws_CO_1", false))

	assert.Equal(t, "failed", repo.checkouts["ws_CO_1"].Status)
	assert.Equal(t, models.SubscriptionFree, provRepo.provider.Subscription.Status)
}

func TestSettleIsIdempotent(t *testing.T) {
	// The poller and the gateway callback may both resolve the same checkout;
	// only the first settle does anything.
	svc, repo, provRepo := newSubscriptionService()
	pendingCheckout(repo, "ws_CO_1")

	require.NoError(t, svc.settle("ws_CO_1", true))
	expiry := provRepo.provider.Subscription.ExpiresAt

	require.NoError(t, svc.settle("ws_CO_1", false))
	assert.Equal(t, "paid", repo.checkouts["ws_CO_1"].Status)
	assert.Equal(t, models.SubscriptionActive, provRepo.provider.Subscription.Status)
	assert.Equal(t, expiry, provRepo.provider.Subscription.ExpiresAt)
}

func TestIsMonetized(t *testing.T) {
	active := &models.Provider{Subscription: models.SubscriptionInfo{
		Status:    models.SubscriptionActive,
		ExpiresAt: subTestNow.Add(time.Hour),
	}}
	lapsed := &models.Provider{Subscription: models.SubscriptionInfo{
		Status:    models.SubscriptionActive,
		ExpiresAt: subTestNow.Add(-time.Hour),
	}}
	free := &models.Provider{Subscription: models.SubscriptionInfo{
		Status: models.SubscriptionFree,
	}}

	assert.True(t, IsMonetized(active, subTestNow))
	assert.False(t, IsMonetized(lapsed, subTestNow))
	assert.False(t, IsMonetized(free, subTestNow))
}
