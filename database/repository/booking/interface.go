package bookingRepo

import (
	"fundilink/models"
)

// BookingRepository defines methods for booking data access.
type BookingRepository interface {
	// Create inserts a new booking record.
	Create(booking *models.Booking) error
	// GetByID retrieves a booking by its unique ID.
	GetByID(id string) (*models.Booking, error)
	// ListByClientPhone returns a client's bookings, newest first.
	ListByClientPhone(phone string, limit int64) ([]models.Booking, error)
	// ListByFundi returns a fundi's bookings, newest first.
	ListByFundi(fundiID string, limit int64) ([]models.Booking, error)
	// UpdateStatus transitions a booking's status.
	UpdateStatus(id, status string) error
}
