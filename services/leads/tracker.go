package leads

import (
	"fmt"
	"time"

	leadRepo "fundilink/database/repository/lead"
	providerRepo "fundilink/database/repository/provider"
	"fundilink/models"
	"fundilink/services/subscription"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DedupWindow is the rolling window within which a repeat
// (fundi, client, category) suggestion reuses the existing lead.
const DedupWindow = 24 * time.Hour

// LeadService records provider-suggestion events as leads.
type LeadService interface {
	// RecordLead creates a lead, or returns the existing one unchanged when a
	// matching lead already exists inside the dedup window.
	RecordLead(req models.LeadRequest) (*models.Lead, error)
	// MarkConverted closes the live lead for the tuple against a booking.
	MarkConverted(fundiID, clientPhone, serviceCategory, bookingID string) error
	// ListByFundi returns a fundi's leads, newest first.
	ListByFundi(fundiID string, limit int64) ([]models.Lead, error)
}

// DefaultLeadService implements LeadService.
type DefaultLeadService struct {
	Repo         leadRepo.LeadRepository
	ProviderRepo providerRepo.ProviderRepository
	Logger       *zap.Logger
	Now          func() time.Time
}

func (s *DefaultLeadService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RecordLead is idempotent per (fundi, client, category) within the dedup
// window. The check-then-insert is best effort, not transactional: a rare
// concurrent duplicate is tolerated, the next read returns the newest.
func (s *DefaultLeadService) RecordLead(req models.LeadRequest) (*models.Lead, error) {
	if req.FundiID == "" || req.ClientPhone == "" || req.ServiceCategory == "" {
		return nil, fmt.Errorf("fundiId, clientPhone and serviceCategory are required")
	}

	cutoff := s.now().Add(-DedupWindow)
	existing, err := s.Repo.FindRecent(req.FundiID, req.ClientPhone, req.ServiceCategory, cutoff)
	if err != nil {
		return nil, fmt.Errorf("lead dedup lookup failed: %w", err)
	}
	if existing != nil {
		s.Logger.Debug("duplicate lead suppressed",
			zap.String("fundiId", req.FundiID),
			zap.String("clientPhone", req.ClientPhone),
			zap.String("category", req.ServiceCategory))
		return existing, nil
	}

	// Unsubscribed fundis pay per lead.
	charged := true
	if prov, err := s.ProviderRepo.GetByID(req.FundiID); err == nil {
		charged = !subscription.IsMonetized(prov, s.now())
	} else {
		s.Logger.Warn("could not load fundi for charge check, defaulting to charged",
			zap.String("fundiId", req.FundiID), zap.Error(err))
	}

	source := req.Source
	if source == "" {
		source = "whatsapp"
	}

	lead := &models.Lead{
		ID:              uuid.New().String(),
		FundiID:         req.FundiID,
		ClientPhone:     req.ClientPhone,
		ClientName:      req.ClientName,
		ServiceCategory: req.ServiceCategory,
		Location:        req.Location,
		Source:          source,
		Status:          models.LeadStatusNew,
		Charged:         charged,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.Create(lead); err != nil {
		return nil, fmt.Errorf("failed to record lead: %w", err)
	}

	s.Logger.Info("lead recorded",
		zap.String("leadId", lead.ID),
		zap.String("fundiId", lead.FundiID),
		zap.Bool("charged", lead.Charged))
	return lead, nil
}

func (s *DefaultLeadService) MarkConverted(fundiID, clientPhone, serviceCategory, bookingID string) error {
	return s.Repo.MarkConverted(fundiID, clientPhone, serviceCategory, bookingID)
}

func (s *DefaultLeadService) ListByFundi(fundiID string, limit int64) ([]models.Lead, error) {
	return s.Repo.ListByFundi(fundiID, limit)
}
