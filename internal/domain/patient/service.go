package patient

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/medapp/clinic/internal/platform/bizid"
	"github.com/medapp/clinic/internal/platform/db"
	"github.com/medapp/clinic/internal/platform/validation"
)

// Dependent owns records that reference a patient and must be removed with it.
type Dependent interface {
	DeleteByPatient(ctx context.Context, patientID string) (int, error)
}

type Service struct {
	repo       Repository
	tx         db.Transactor
	ids        *bizid.Generator
	now        func() time.Time
	dependents []Dependent
	logger     zerolog.Logger
}

func NewService(repo Repository, tx db.Transactor, logger zerolog.Logger) *Service {
	return &Service{
		repo:   repo,
		tx:     tx,
		ids:    bizid.NewPatient(),
		now:    time.Now,
		logger: logger.With().Str("component", "patient").Logger(),
	}
}

// RegisterDependent adds d to the set of stores cleared when a patient is deleted.
func (s *Service) RegisterDependent(d Dependent) {
	s.dependents = append(s.dependents, d)
}

// SyncIdentity advances the id generator past the highest stored id so a
// restarted process never reissues one.
func (s *Service) SyncIdentity(ctx context.Context) error {
	highest, err := s.repo.HighestID(ctx)
	if err != nil {
		return fmt.Errorf("load highest patient id: %w", err)
	}
	if n, ok := s.ids.Sequence(highest); ok {
		s.ids.Advance(n)
	}
	return nil
}

func (s *Service) Add(ctx context.Context, p *Patient) (*Patient, error) {
	if p == nil {
		return nil, validation.NewInvalidArgument("Patient cannot be blank")
	}
	if err := Validate(p); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := p.clone()
	rec.PatientID = s.ids.Next()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, fmt.Errorf("create patient: %w", err)
	}
	s.logger.Info().Str("patient_id", rec.PatientID).Msg("patient added")
	return rec, nil
}

// Get returns the patient with the given business id; ok is false when it
// does not exist.
func (s *Service) Get(ctx context.Context, patientID string) (p *Patient, ok bool, err error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, false, nil
	}
	p, err = s.repo.GetByPatientID(ctx, patientID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get patient: %w", err)
	}
	return p, true, nil
}

// Update replaces every field but the ids of an existing patient.
func (s *Service) Update(ctx context.Context, patientID string, replacement *Patient) (*Patient, bool, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, false, nil
	}
	if replacement == nil {
		return nil, false, validation.NewInvalidArgument("Patient cannot be blank")
	}

	var (
		updated *Patient
		found   bool
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByPatientID(ctx, patientID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get patient: %w", err)
		}
		found = true

		if err := Validate(replacement); err != nil {
			return err
		}
		replacement.ID = current.ID
		replacement.PatientID = current.PatientID
		replacement.CreatedAt = current.CreatedAt
		replacement.UpdatedAt = s.now().UTC()
		err = s.repo.Update(ctx, replacement)
		if errors.Is(err, ErrNotFound) {
			// Removed after the lookup.
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("update patient: %w", err)
		}
		updated = replacement
		return nil
	})
	if err != nil {
		return nil, found, err
	}
	return updated, found, nil
}

// Delete removes the patient and, in the same unit of work, every record a
// registered Dependent holds for it. deleted is false when no such patient
// existed; cascaded counts the dependent records removed.
func (s *Service) Delete(ctx context.Context, patientID string) (deleted bool, cascaded int, err error) {
	if strings.TrimSpace(patientID) == "" {
		return false, 0, nil
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.Delete(ctx, patientID); err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			return fmt.Errorf("delete patient: %w", err)
		}
		deleted = true
		for _, d := range s.dependents {
			n, err := d.DeleteByPatient(ctx, patientID)
			if err != nil {
				return fmt.Errorf("cascade delete for patient %s: %w", patientID, err)
			}
			cascaded += n
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	if deleted {
		s.logger.Info().Str("patient_id", patientID).Int("cascaded", cascaded).Msg("patient deleted")
	}
	return deleted, cascaded, nil
}

func (s *Service) Exists(ctx context.Context, patientID string) (bool, error) {
	if strings.TrimSpace(patientID) == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, patientID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}
