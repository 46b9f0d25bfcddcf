package patient

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("patient not found")

// Repository is the storage capability behind the patient service. Lookups
// by an unknown business id return ErrNotFound.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByPatientID(ctx context.Context, patientID string) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, patientID string) error
	Exists(ctx context.Context, patientID string) (bool, error)
	Count(ctx context.Context) (int, error)
	List(ctx context.Context, limit, offset int) ([]*Patient, int, error)
	// HighestID returns the greatest business id stored, or "" when empty.
	HighestID(ctx context.Context) (string, error)
}
