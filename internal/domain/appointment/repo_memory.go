package appointment

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medapp/clinic/internal/platform/bizid"
	"github.com/medapp/clinic/internal/platform/validation"
)

type memoryRepo struct {
	mu           sync.RWMutex
	appointments map[string]*Appointment
}

func NewMemoryRepo() Repository {
	return &memoryRepo{appointments: make(map[string]*Appointment)}
}

func (r *memoryRepo) Create(_ context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.appointments[a.AppointmentID] = a.clone()
	return nil
}

func (r *memoryRepo) GetByAppointmentID(_ context.Context, appointmentID string) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.appointments[appointmentID]
	if !ok {
		return nil, ErrNotFound
	}
	return a.clone(), nil
}

func (r *memoryRepo) Update(_ context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[a.AppointmentID]; !ok {
		return ErrNotFound
	}
	r.appointments[a.AppointmentID] = a.clone()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, appointmentID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.appointments[appointmentID]; !ok {
		return ErrNotFound
	}
	delete(r.appointments, appointmentID)
	return nil
}

func (r *memoryRepo) Exists(_ context.Context, appointmentID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.appointments[appointmentID]
	return ok, nil
}

func (r *memoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.appointments), nil
}

func (r *memoryRepo) List(_ context.Context, limit, offset int) ([]*Appointment, int, error) {
	all := r.filter(func(*Appointment) bool { return true })
	return page(all, limit, offset), len(all), nil
}

func (r *memoryRepo) ListByPatient(_ context.Context, patientID string) ([]*Appointment, error) {
	return r.filter(func(a *Appointment) bool { return a.PatientID == patientID }), nil
}

func (r *memoryRepo) ListByDate(_ context.Context, date time.Time) ([]*Appointment, error) {
	day := validation.Date(date)
	return r.filter(func(a *Appointment) bool { return validation.Date(a.AptDate).Equal(day) }), nil
}

func (r *memoryRepo) DeleteByPatient(_ context.Context, patientID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, a := range r.appointments {
		if a.PatientID == patientID {
			delete(r.appointments, id)
			n++
		}
	}
	return n, nil
}

func (r *memoryRepo) HighestID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *Appointment
	for _, a := range r.appointments {
		if best == nil || sequence(a) > sequence(best) {
			best = a
		}
	}
	if best == nil {
		return "", nil
	}
	return best.AppointmentID, nil
}

// filter returns copies of the matching appointments in id order.
func (r *memoryRepo) filter(keep func(*Appointment) bool) []*Appointment {
	r.mu.RLock()
	out := []*Appointment{}
	for _, a := range r.appointments {
		if keep(a) {
			out = append(out, a.clone())
		}
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return sequence(out[i]) < sequence(out[j]) })
	return out
}

func sequence(a *Appointment) int64 {
	n, _ := bizid.Parse(bizid.AppointmentPrefix, a.AppointmentID)
	return n
}

func page(items []*Appointment, limit, offset int) []*Appointment {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []*Appointment{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
