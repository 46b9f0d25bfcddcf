package appointment

import (
	"context"
	"errors"
	"time"
)

var ErrNotFound = errors.New("appointment not found")

// Repository is the storage capability behind the appointment service.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByAppointmentID(ctx context.Context, appointmentID string) (*Appointment, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, appointmentID string) error
	Exists(ctx context.Context, appointmentID string) (bool, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]*Appointment, int, error)
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)
	// ListByDate returns the appointments on the calendar day of date.
	ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error)
	// DeleteByPatient removes every appointment of patientID and reports how many.
	DeleteByPatient(ctx context.Context, patientID string) (int, error)
	HighestID(ctx context.Context) (string, error)
}
