package leads

import (
	"testing"
	"time"

	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memLeadRepo struct {
	leads []*models.Lead
}

func (m *memLeadRepo) Create(lead *models.Lead) error {
	m.leads = append(m.leads, lead)
	return nil
}

func (m *memLeadRepo) FindRecent(fundiID, clientPhone, serviceCategory string, since time.Time) (*models.Lead, error) {
	for i := len(m.leads) - 1; i >= 0; i-- {
		l := m.leads[i]
		if l.FundiID == fundiID && l.ClientPhone == clientPhone &&
			l.ServiceCategory == serviceCategory && !l.CreatedAt.Before(since) {
			return l, nil
		}
	}
	return nil, nil
}

func (m *memLeadRepo) MarkConverted(fundiID, clientPhone, serviceCategory, bookingID string) error {
	for i := len(m.leads) - 1; i >= 0; i-- {
		l := m.leads[i]
		if l.FundiID == fundiID && l.ClientPhone == clientPhone &&
			l.ServiceCategory == serviceCategory && l.Status == models.LeadStatusNew {
			l.Status = models.LeadStatusConverted
			l.BookingID = bookingID
			return nil
		}
	}
	return nil
}

func (m *memLeadRepo) ListByFundi(fundiID string, limit int64) ([]models.Lead, error) {
	var out []models.Lead
	for _, l := range m.leads {
		if l.FundiID == fundiID {
			out = append(out, *l)
		}
	}
	return out, nil
}

func (m *memLeadRepo) CountChargedSince(fundiID string, since time.Time) (int64, error) {
	var n int64
	for _, l := range m.leads {
		if l.FundiID == fundiID && l.Charged && !l.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type stubProviderRepo struct {
	providerRepo.ProviderRepository
	provider *models.Provider
}

func (s *stubProviderRepo) GetByID(id string) (*models.Provider, error) {
	return s.provider, nil
}

func newTracker(prov *models.Provider, clock time.Time) (*DefaultLeadService, *memLeadRepo) {
	repo := &memLeadRepo{}
	return &DefaultLeadService{
		Repo:         repo,
		ProviderRepo: &stubProviderRepo{provider: prov},
		Logger:       zap.NewNop(),
		Now:          func() time.Time { return clock },
	}, repo
}

func freeFundi() *models.Provider {
	return &models.Provider{
		ID:           "f1",
		Subscription: models.SubscriptionInfo{Status: models.SubscriptionFree},
	}
}

func subscribedFundi(now time.Time) *models.Provider {
	return &models.Provider{
		ID: "f1",
		Subscription: models.SubscriptionInfo{
			Status:    models.SubscriptionActive,
			ExpiresAt: now.Add(30 * 24 * time.Hour),
		},
	}
}

func TestRecordLeadChargesUnsubscribedFundi(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTracker(freeFundi(), now)

	lead, err := svc.RecordLead(models.LeadRequest{
		FundiID:         "f1",
		ClientPhone:     "254700000001",
		ServiceCategory: "plumber",
	})
	require.NoError(t, err)
	assert.True(t, lead.Charged)
	assert.Equal(t, models.LeadStatusNew, lead.Status)
	assert.Equal(t, "whatsapp", lead.Source)
}

func TestRecordLeadDoesNotChargeSubscribedFundi(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTracker(subscribedFundi(now), now)

	lead, err := svc.RecordLead(models.LeadRequest{
		FundiID:         "f1",
		ClientPhone:     "254700000001",
		ServiceCategory: "plumber",
	})
	require.NoError(t, err)
	assert.False(t, lead.Charged)
}

func TestRecordLeadDedupWithinWindow(t *testing.T) {
	// Two submissions a minute apart for the same tuple must yield one lead.
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, repo := newTracker(freeFundi(), now)

	req := models.LeadRequest{
		FundiID:         "f1",
		ClientPhone:     "254700000001",
		ServiceCategory: "plumber",
	}
	first, err := svc.RecordLead(req)
	require.NoError(t, err)

	svc.Now = func() time.Time { return now.Add(time.Minute) }
	second, err := svc.RecordLead(req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, repo.leads, 1)
}

func TestRecordLeadNewLeadAfterWindow(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, repo := newTracker(freeFundi(), now)

	req := models.LeadRequest{
		FundiID:         "f1",
		ClientPhone:     "254700000001",
		ServiceCategory: "plumber",
	}
	_, err := svc.RecordLead(req)
	require.NoError(t, err)

	svc.Now = func() time.Time { return now.Add(DedupWindow + time.Hour) }
	_, err = svc.RecordLead(req)
	require.NoError(t, err)

	assert.Len(t, repo.leads, 2)
}

func TestRecordLeadDifferentCategoryIsSeparate(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, repo := newTracker(freeFundi(), now)

	_, err := svc.RecordLead(models.LeadRequest{
		FundiID: "f1", ClientPhone: "254700000001", ServiceCategory: "plumber",
	})
	require.NoError(t, err)
	_, err = svc.RecordLead(models.LeadRequest{
		FundiID: "f1", ClientPhone: "254700000001", ServiceCategory: "electrician",
	})
	require.NoError(t, err)

	assert.Len(t, repo.leads, 2)
}

func TestRecordLeadRequiresCoreFields(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	svc, _ := newTracker(freeFundi(), now)

	_, err := svc.RecordLead(models.LeadRequest{FundiID: "f1"})
	assert.Error(t, err)
}
