package leadRepo

import (
	"time"

	"fundilink/models"
)

// LeadRepository defines methods for lead data access.
type LeadRepository interface {
	// Create inserts a new lead record.
	Create(lead *models.Lead) error
	// FindRecent returns the most recent lead for the (fundi, client, category)
	// tuple created at or after the cutoff, or nil when none exists.
	FindRecent(fundiID, clientPhone, serviceCategory string, since time.Time) (*models.Lead, error)
	// MarkConverted transitions the matching new-status lead to converted and
	// attaches the booking that closed it.
	MarkConverted(fundiID, clientPhone, serviceCategory, bookingID string) error
	// ListByFundi returns a fundi's leads, newest first.
	ListByFundi(fundiID string, limit int64) ([]models.Lead, error)
	// CountChargedSince counts billable leads for a fundi since the cutoff.
	CountChargedSince(fundiID string, since time.Time) (int64, error)
}
