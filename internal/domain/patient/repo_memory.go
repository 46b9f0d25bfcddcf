package patient

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/medapp/clinic/internal/platform/bizid"
)

type memoryRepo struct {
	mu       sync.RWMutex
	patients map[string]*Patient
}

func NewMemoryRepo() Repository {
	return &memoryRepo{patients: make(map[string]*Patient)}
}

func (r *memoryRepo) Create(_ context.Context, p *Patient) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.patients[p.PatientID] = p.clone()
	return nil
}

func (r *memoryRepo) GetByPatientID(_ context.Context, patientID string) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.patients[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	return p.clone(), nil
}

func (r *memoryRepo) Update(_ context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[p.PatientID]; !ok {
		return ErrNotFound
	}
	r.patients[p.PatientID] = p.clone()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, patientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.patients[patientID]; !ok {
		return ErrNotFound
	}
	delete(r.patients, patientID)
	return nil
}

func (r *memoryRepo) Exists(_ context.Context, patientID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.patients[patientID]
	return ok, nil
}

func (r *memoryRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.patients), nil
}

func (r *memoryRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	all := make([]*Patient, 0, len(r.patients))
	for _, p := range r.patients {
		all = append(all, p.clone())
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool { return sequence(all[i]) < sequence(all[j]) })
	return page(all, limit, offset), len(all), nil
}

func (r *memoryRepo) HighestID(_ context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var best *Patient
	for _, p := range r.patients {
		if best == nil || sequence(p) > sequence(best) {
			best = p
		}
	}
	if best == nil {
		return "", nil
	}
	return best.PatientID, nil
}

func sequence(p *Patient) int64 {
	n, _ := bizid.Parse(bizid.PatientPrefix, p.PatientID)
	return n
}

func page(items []*Patient, limit, offset int) []*Patient {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return []*Patient{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
