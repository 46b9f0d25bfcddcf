package appointment

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

// PatientDirectory answers whether a patient id is currently registered.
type PatientDirectory interface {
	Exists(ctx context.Context, patientID string) (bool, error)
}

type Service struct {
	repo     Repository
	patients PatientDirectory
	tx       db.Transactor
	ids      *bizid.Generator
	now      func() time.Time
	logger   zerolog.Logger
}

func NewService(repo Repository, patients PatientDirectory, tx db.Transactor, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		patients: patients,
		tx:       tx,
		ids:      bizid.NewAppointment(),
		now:      time.Now,
		logger:   logger.With().Str("component", "appointment").Logger(),
	}
}

// SetLocation makes "today" for the future-date rule the calendar day in loc.
func (s *Service) SetLocation(loc *time.Location) {
	s.now = func() time.Time { return time.Now().In(loc) }
}

func (s *Service) SyncIdentity(ctx context.Context) error {
	highest, err := s.repo.HighestID(ctx)
	if err != nil {
		return fmt.Errorf("load highest appointment id: %w", err)
	}
	if n, ok := s.ids.Sequence(highest); ok {
		s.ids.Advance(n)
	}
	return nil
}

// checkPatient fails with InvalidArgument when patientID is not registered.
// It must run inside the unit of work that writes the appointment.
func (s *Service) checkPatient(ctx context.Context, patientID string) error {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return fmt.Errorf("check patient: %w", err)
	}
	if !ok {
		return validation.NewInvalidArgument("Patient with ID " + patientID + " does not exist")
	}
	return nil
}

func (s *Service) Add(ctx context.Context, a *Appointment) (*Appointment, error) {
	if a == nil {
		return nil, validation.NewInvalidArgument("Appointment cannot be blank")
	}
	now := s.now()
	if err := Validate(a, now); err != nil {
		return nil, err
	}

	// The caller's candidate is left untouched; the stored record is a copy.
	rec := a.clone()
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.checkPatient(ctx, rec.PatientID); err != nil {
			return err
		}
		rec.AppointmentID = s.ids.Next()
		rec.AptDate = validation.Date(rec.AptDate)
		rec.CreatedAt = now.UTC()
		rec.UpdatedAt = rec.CreatedAt
		if err := s.repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("create appointment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("appointment_id", rec.AppointmentID).Str("patient_id", rec.PatientID).Msg("appointment added")
	return rec, nil
}

func (s *Service) Get(ctx context.Context, appointmentID string) (*Appointment, bool, error) {
	if strings.TrimSpace(appointmentID) == "" {
		return nil, false, nil
	}
	a, err := s.repo.GetByAppointmentID(ctx, appointmentID)
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get appointment: %w", err)
	}
	return a, true, nil
}

// Update replaces an existing appointment. The replacement is validated as a
// new one, and may move the appointment to a different registered patient.
func (s *Service) Update(ctx context.Context, appointmentID string, replacement *Appointment) (*Appointment, bool, error) {
	if strings.TrimSpace(appointmentID) == "" {
		return nil, false, nil
	}
	if replacement == nil {
		return nil, false, validation.NewInvalidArgument("Appointment cannot be blank")
	}

	var found bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.repo.GetByAppointmentID(ctx, appointmentID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("get appointment: %w", err)
		}
		found = true

		now := s.now()
		if err := Validate(replacement, now); err != nil {
			return err
		}
		if err := s.checkPatient(ctx, replacement.PatientID); err != nil {
			return err
		}
		replacement.ID = current.ID
		replacement.AppointmentID = current.AppointmentID
		replacement.AptDate = validation.Date(replacement.AptDate)
		replacement.CreatedAt = current.CreatedAt
		replacement.UpdatedAt = now.UTC()
		err = s.repo.Update(ctx, replacement)
		if errors.Is(err, ErrNotFound) {
			// Removed after the lookup.
			found = false
			return nil
		}
		if err != nil {
			return fmt.Errorf("update appointment: %w", err)
		}
		return nil
	})
	if err != nil || !found {
		return nil, found, err
	}
	return replacement, true, nil
}

func (s *Service) Delete(ctx context.Context, appointmentID string) (bool, error) {
	if strings.TrimSpace(appointmentID) == "" {
		return false, nil
	}
	var deleted bool
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		err := s.repo.Delete(ctx, appointmentID)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("delete appointment: %w", err)
		}
		deleted = true
		return nil
	})
	if err != nil || !deleted {
		return false, err
	}
	s.logger.Info().Str("appointment_id", appointmentID).Msg("appointment deleted")
	return true, nil
}

// DeleteByPatient removes every appointment of patientID. The patient service
// calls it inside its own delete so both happen in one unit of work.
func (s *Service) DeleteByPatient(ctx context.Context, patientID string) (int, error) {
	if strings.TrimSpace(patientID) == "" {
		return 0, nil
	}
	n, err := s.repo.DeleteByPatient(ctx, patientID)
	if err != nil {
		return 0, fmt.Errorf("delete appointments of patient %s: %w", patientID, err)
	}
	return n, nil
}

func (s *Service) Exists(ctx context.Context, appointmentID string) (bool, error) {
	if strings.TrimSpace(appointmentID) == "" {
		return false, nil
	}
	return s.repo.Exists(ctx, appointmentID)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// ListByPatient returns the patient's appointments; unknown or blank ids
// yield an empty slice.
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	if strings.TrimSpace(patientID) == "" {
		return []*Appointment{}, nil
	}
	return s.repo.ListByPatient(ctx, patientID)
}

// ListByDate returns the appointments on date's calendar day; a zero date
// yields an empty slice.
func (s *Service) ListByDate(ctx context.Context, date time.Time) ([]*Appointment, error) {
	if date.IsZero() {
		return []*Appointment{}, nil
	}
	return s.repo.ListByDate(ctx, validation.Date(date))
}
