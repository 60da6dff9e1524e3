package booking

import (
	"context"
	"testing"
	"time"

	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memBookingRepo struct {
	bookings []*models.Booking
	failNext bool
}

func (m *memBookingRepo) Create(b *models.Booking) error {
	if m.failNext {
		m.failNext = false
		return assert.AnError
	}
	m.bookings = append(m.bookings, b)
	return nil
}

func (m *memBookingRepo) GetByID(id string) (*models.Booking, error) { return nil, assert.AnError }

func (m *memBookingRepo) ListByClientPhone(phone string, limit int64) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range m.bookings {
		if b.ClientPhone == phone {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memBookingRepo) ListByFundi(fundiID string, limit int64) ([]models.Booking, error) {
	return nil, nil
}

func (m *memBookingRepo) UpdateStatus(id, status string) error {
	for _, b := range m.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return assert.AnError
}

type stubProviderRepo struct {
	providerRepo.ProviderRepository
	provider *models.Provider
}

func (s *stubProviderRepo) GetByID(id string) (*models.Provider, error) {
	if s.provider != nil && s.provider.ID == id {
		return s.provider, nil
	}
	return nil, assert.AnError
}

type conversionRecorder struct {
	converted []string
}

func (c *conversionRecorder) RecordLead(req models.LeadRequest) (*models.Lead, error) {
	return nil, nil
}

func (c *conversionRecorder) MarkConverted(fundiID, clientPhone, serviceCategory, bookingID string) error {
	c.converted = append(c.converted, bookingID)
	return nil
}

func (c *conversionRecorder) ListByFundi(fundiID string, limit int64) ([]models.Lead, error) {
	return nil, nil
}

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func selectionContext(updatedAt time.Time) *models.ConversationContext {
	return &models.ConversationContext{
		Phone:       "254700000001",
		ProfileName: "Amina",
		Stage:       models.StageFundiSelection,
		Draft: models.BookingDraft{
			ServiceCategory: "plumber",
			Date:            "2026-03-11",
			Time:            "10:00",
			Location:        "Westlands",
		},
		Candidates: []models.CandidateFundi{
			{ID: "p1", Name: "Juma", Rating: 4.2},
			{ID: "p2", Name: "Wanjiku", Rating: 4.9},
		},
		UpdatedAt: updatedAt,
	}
}

func newService() (*DefaultBookingService, *memBookingRepo, *conversionRecorder) {
	repo := &memBookingRepo{}
	leadsRec := &conversionRecorder{}
	svc := &DefaultBookingService{
		Repo: repo,
		ProviderRepo: &stubProviderRepo{provider: &models.Provider{
			ID: "p1", Name: "Juma",
		}},
		LeadSvc: leadsRec,
		Logger:  zap.NewNop(),
		Now:     func() time.Time { return testNow },
	}
	return svc, repo, leadsRec
}

func TestConfirmSelectionRoundTrip(t *testing.T) {
	svc, repo, leadsRec := newService()
	convCtx := selectionContext(testNow.Add(-time.Minute))

	b, err := svc.ConfirmSelection(context.Background(), convCtx, 2)
	require.NoError(t, err)

	assert.Equal(t, "p2", b.FundiID)
	assert.Equal(t, "Wanjiku", b.FundiName)
	assert.Equal(t, "plumber", b.ServiceCategory)
	assert.Equal(t, "2026-03-11", b.Date)
	assert.Equal(t, "10:00", b.Time)
	assert.Equal(t, "Westlands", b.Location)
	assert.Equal(t, "Amina", b.ClientName)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Len(t, repo.bookings, 1)
	assert.Equal(t, []string{b.ID}, leadsRec.converted)
}

func TestConfirmSelectionOutOfRange(t *testing.T) {
	svc, repo, _ := newService()
	convCtx := selectionContext(testNow.Add(-time.Minute))

	for _, sel := range []int{0, -1, 3} {
		_, err := svc.ConfirmSelection(context.Background(), convCtx, sel)
		assert.ErrorIs(t, err, ErrInvalidSelection, "selection %d", sel)
	}
	assert.Empty(t, repo.bookings)
	// Context untouched.
	assert.Equal(t, models.StageFundiSelection, convCtx.Stage)
	assert.Len(t, convCtx.Candidates, 2)
}

func TestConfirmSelectionWrongStage(t *testing.T) {
	svc, _, _ := newService()
	convCtx := selectionContext(testNow)
	convCtx.Stage = models.StageInitial

	_, err := svc.ConfirmSelection(context.Background(), convCtx, 1)
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestConfirmSelectionStale(t *testing.T) {
	svc, repo, _ := newService()
	convCtx := selectionContext(testNow.Add(-SelectionFreshness - time.Second))

	_, err := svc.ConfirmSelection(context.Background(), convCtx, 1)
	assert.ErrorIs(t, err, ErrStaleSelection)
	assert.Empty(t, repo.bookings)
}

func TestConfirmSelectionPersistenceFailure(t *testing.T) {
	svc, repo, leadsRec := newService()
	repo.failNext = true
	convCtx := selectionContext(testNow.Add(-time.Minute))

	_, err := svc.ConfirmSelection(context.Background(), convCtx, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSelection)
	assert.NotErrorIs(t, err, ErrStaleSelection)
	assert.Empty(t, leadsRec.converted)
}

func TestCreateDirect(t *testing.T) {
	svc, repo, leadsRec := newService()

	b, err := svc.CreateDirect(context.Background(), models.BookingRequest{
		Name:            "Amina",
		Phone:           "254700000001",
		ServiceCategory: "plumber",
		Date:            "2026-03-12",
		Time:            "14:00",
		FundiID:         "p1",
		QuotedPrice:     1500,
	})
	require.NoError(t, err)

	assert.Equal(t, "Juma", b.FundiName)
	assert.Equal(t, models.BookingStatusConfirmed, b.Status)
	assert.Equal(t, 1500.0, b.QuotedPrice)
	assert.Len(t, repo.bookings, 1)
	assert.Equal(t, []string{b.ID}, leadsRec.converted)
}

func TestCreateDirectUnknownFundi(t *testing.T) {
	svc, repo, _ := newService()

	_, err := svc.CreateDirect(context.Background(), models.BookingRequest{
		Name: "Amina", Phone: "254700000001", ServiceCategory: "plumber",
		Date: "2026-03-12", Time: "14:00", FundiID: "nope",
	})
	assert.Error(t, err)
	assert.Empty(t, repo.bookings)
}
