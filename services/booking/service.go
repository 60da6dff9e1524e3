package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "fundilink/database/repository/booking"
	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"
	"fundilink/services/leads"
	"fundilink/services/notification"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SelectionFreshness is how long a shown shortlist stays confirmable. A
// numeric reply against an older shortlist is rejected so an abandoned flow
// cannot be resurrected by an unrelated later message.
const SelectionFreshness = 15 * time.Minute

// BookingService creates bookings, both from conversational confirmation and
// from the store-initiated endpoint with a pre-chosen fundi.
type BookingService interface {
	// ConfirmSelection resolves a 1-based index against the context's
	// shortlist and commits a confirmed booking.
	ConfirmSelection(ctx context.Context, convCtx *models.ConversationContext, selection int) (*models.Booking, error)
	// CreateDirect commits a booking for an explicitly chosen fundi.
	CreateDirect(ctx context.Context, req models.BookingRequest) (*models.Booking, error)
	// ListByClientPhone returns a client's bookings, newest first.
	ListByClientPhone(phone string, limit int64) ([]models.Booking, error)
	// Cancel transitions a booking to cancelled.
	Cancel(bookingID string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo         bookingRepo.BookingRepository
	ProviderRepo providerRepo.ProviderRepository
	LeadSvc      leads.LeadService
	Notifier     notification.NotificationService
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ConfirmSelection commits the booking for the chosen shortlist entry. The
// caller owns the context: on success it resets the stage, on error it leaves
// the context untouched so the shortlist stays usable for a retry.
func (s *DefaultBookingService) ConfirmSelection(ctx context.Context, convCtx *models.ConversationContext, selection int) (*models.Booking, error) {
	if convCtx.Stage != models.StageFundiSelection || len(convCtx.Candidates) == 0 {
		return nil, ErrInvalidSelection
	}
	if selection < 1 || selection > len(convCtx.Candidates) {
		return nil, ErrInvalidSelection
	}
	if s.now().Sub(convCtx.UpdatedAt) > SelectionFreshness {
		return nil, ErrStaleSelection
	}

	chosen := convCtx.Candidates[selection-1]
	booking := &models.Booking{
		ID:              uuid.New().String(),
		ClientName:      clientDisplayName(convCtx),
		ClientPhone:     convCtx.Phone,
		FundiID:         chosen.ID,
		FundiName:       chosen.Name,
		ServiceCategory: convCtx.Draft.ServiceCategory,
		Location:        convCtx.Draft.Location,
		Date:            convCtx.Draft.Date,
		Time:            convCtx.Draft.Time,
		Status:          models.BookingStatusConfirmed,
		Description:     convCtx.Draft.Description,
		PaymentStatus:   models.PaymentStatusUnpaid,
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}

	if err := s.Repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	// Close the lead that produced this booking.
	if s.LeadSvc != nil {
		if err := s.LeadSvc.MarkConverted(chosen.ID, convCtx.Phone, booking.ServiceCategory, booking.ID); err != nil {
			s.Logger.Warn("failed to convert lead", zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	s.notifyFundi(ctx, booking)

	s.Logger.Info("booking confirmed",
		zap.String("bookingId", booking.ID),
		zap.String("fundiId", booking.FundiID),
		zap.String("clientPhone", booking.ClientPhone))
	return booking, nil
}

// CreateDirect commits a store-initiated booking with a pre-chosen fundi.
func (s *DefaultBookingService) CreateDirect(ctx context.Context, req models.BookingRequest) (*models.Booking, error) {
	prov, err := s.ProviderRepo.GetByID(req.FundiID)
	if err != nil {
		return nil, fmt.Errorf("unknown fundi: %w", err)
	}

	booking := &models.Booking{
		ID:              uuid.New().String(),
		ClientName:      req.Name,
		ClientPhone:     req.Phone,
		FundiID:         prov.ID,
		FundiName:       prov.Name,
		ServiceCategory: req.ServiceCategory,
		Location:        req.Location,
		Date:            req.Date,
		Time:            req.Time,
		Status:          models.BookingStatusConfirmed,
		Description:     req.Description,
		QuotedPrice:     req.QuotedPrice,
		PaymentStatus:   models.PaymentStatusUnpaid,
		CreatedAt:       s.now(),
		UpdatedAt:       s.now(),
	}
	if err := s.Repo.Create(booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	if s.LeadSvc != nil {
		if err := s.LeadSvc.MarkConverted(prov.ID, req.Phone, req.ServiceCategory, booking.ID); err != nil {
			s.Logger.Warn("failed to convert lead", zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	s.notifyFundi(ctx, booking)
	return booking, nil
}

func (s *DefaultBookingService) ListByClientPhone(phone string, limit int64) ([]models.Booking, error) {
	return s.Repo.ListByClientPhone(phone, limit)
}

func (s *DefaultBookingService) Cancel(bookingID string) error {
	return s.Repo.UpdateStatus(bookingID, models.BookingStatusCancelled)
}

// notifyFundi pushes a job alert to the fundi's device. Failures are logged,
// never surfaced to the client.
func (s *DefaultBookingService) notifyFundi(ctx context.Context, b *models.Booking) {
	if s.Notifier == nil {
		return
	}
	title := "New booking"
	body := fmt.Sprintf("%s booked you for %s on %s at %s", b.ClientName, b.ServiceCategory, b.Date, b.Time)
	if err := s.Notifier.NotifyFundi(ctx, b.FundiID, title, body, map[string]string{
		"bookingId": b.ID,
	}); err != nil {
		s.Logger.Warn("fundi notification failed", zap.String("bookingId", b.ID), zap.Error(err))
	}
}

func clientDisplayName(convCtx *models.ConversationContext) string {
	if convCtx.ProfileName != "" {
		return convCtx.ProfileName
	}
	return convCtx.Phone
}
