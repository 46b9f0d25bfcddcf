package patient

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/medapp/clinic/internal/platform/db"
	"github.com/medapp/clinic/internal/platform/validation"
)

func newTestService() *Service {
	return NewService(NewMemoryRepo(), db.NewLocalTransactor(), zerolog.Nop())
}

func validPatient() *Patient {
	return &Patient{Name: "John Doe", Phone: "1234567890", Email: "john@x.com"}
}

// -- Mock Dependent --

type mockDependent struct {
	removed map[string]int
	err     error
}

func (m *mockDependent) DeleteByPatient(_ context.Context, patientID string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.removed[patientID], nil
}

// -- Failing Repository --

type failingRepo struct {
	Repository
	err error
}

func (f *failingRepo) Create(context.Context, *Patient) error { return f.err }
func (f *failingRepo) GetByPatientID(context.Context, string) (*Patient, error) {
	return nil, f.err
}
func (f *failingRepo) HighestID(context.Context) (string, error) { return "", f.err }

func TestService_Add(t *testing.T) {
	svc := newTestService()
	p, err := svc.Add(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(p.PatientID, "PAT") {
		t.Errorf("expected id starting with PAT, got %q", p.PatientID)
	}
	if p.Name != "John Doe" || p.Phone != "1234567890" || p.Email != "john@x.com" {
		t.Errorf("fields not preserved: %+v", p)
	}
	if p.CreatedAt.IsZero() || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Errorf("expected matching non-zero timestamps, got %v / %v", p.CreatedAt, p.UpdatedAt)
	}
	n, _ := svc.Count(context.Background())
	if n != 1 {
		t.Errorf("expected count 1, got %d", n)
	}
}

func TestService_Add_UniqueIDs(t *testing.T) {
	svc := newTestService()
	re := regexp.MustCompile(`^PAT\d+$`)
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		p, err := svc.Add(context.Background(), validPatient())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !re.MatchString(p.PatientID) {
			t.Errorf("id %q does not match %s", p.PatientID, re)
		}
		if seen[p.PatientID] {
			t.Errorf("duplicate id %s", p.PatientID)
		}
		seen[p.PatientID] = true
	}
}

func TestService_Add_Concurrent(t *testing.T) {
	svc := newTestService()
	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Add(context.Background(), validPatient()); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()
	if n, _ := svc.Count(context.Background()); n != 40 {
		t.Errorf("expected 40 patients, got %d", n)
	}
}

func TestService_Add_Nil(t *testing.T) {
	svc := newTestService()
	_, err := svc.Add(context.Background(), nil)
	if !validation.IsInvalidArgument(err) {
		t.Fatalf("expected InvalidArgument, got %v", err)
	}
	if err.Error() != "Patient cannot be blank" {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestService_Add_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Patient)
		message string
	}{
		{"blank name", func(p *Patient) { p.Name = "" }, "Patient name cannot be blank"},
		{"whitespace name", func(p *Patient) { p.Name = "   " }, "Patient name cannot be blank"},
		{"long name", func(p *Patient) { p.Name = strings.Repeat("a", 26) }, "Patient name cannot exceed 25 characters"},
		{"name with digits", func(p *Patient) { p.Name = "John 2" }, "Patient name can only contain letters, spaces, hyphens, and apostrophes"},
		{"blank phone", func(p *Patient) { p.Phone = "" }, "Patient phone cannot be blank"},
		{"short phone", func(p *Patient) { p.Phone = "12345678" }, "Patient phone must be exactly 10 digits"},
		{"phone with dashes", func(p *Patient) { p.Phone = "123-456-789" }, "Patient phone must be exactly 10 digits"},
		{"phone with letters", func(p *Patient) { p.Phone = "12345abcde" }, "Patient phone must be exactly 10 digits"},
		{"blank email", func(p *Patient) { p.Email = " " }, "Patient email cannot be blank"},
		{"invalid email", func(p *Patient) { p.Email = "invalid-email" }, "Patient email must be a valid email address"},
		{"email without tld", func(p *Patient) { p.Email = "a@b" }, "Patient email must be a valid email address"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService()
			p := validPatient()
			tt.mutate(p)
			_, err := svc.Add(context.Background(), p)
			if !validation.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if err.Error() != tt.message {
				t.Errorf("got %q, want %q", err.Error(), tt.message)
			}
			if n, _ := svc.Count(context.Background()); n != 0 {
				t.Errorf("invalid patient must not be stored, count=%d", n)
			}
		})
	}
}

func TestService_Add_AcceptedNames(t *testing.T) {
	for _, name := range []string{"Mary-Jane O'Neil", "Al", strings.Repeat("z", 25)} {
		p := validPatient()
		p.Name = name
		if _, err := newTestService().Add(context.Background(), p); err != nil {
			t.Errorf("name %q rejected: %v", name, err)
		}
	}
}

func TestService_Add_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&failingRepo{err: boom}, db.NewLocalTransactor(), zerolog.Nop())
	if _, err := svc.Add(context.Background(), validPatient()); !errors.Is(err, boom) {
		t.Errorf("expected wrapped repo error, got %v", err)
	}
}

func TestService_Get(t *testing.T) {
	svc := newTestService()
	added, _ := svc.Add(context.Background(), validPatient())

	p, ok, err := svc.Get(context.Background(), added.PatientID)
	if err != nil || !ok {
		t.Fatalf("expected patient, got ok=%v err=%v", ok, err)
	}
	if p.PatientID != added.PatientID || p.Name != "John Doe" {
		t.Errorf("unexpected patient: %+v", p)
	}
}

func TestService_Get_NotFound(t *testing.T) {
	svc := newTestService()
	for _, id := range []string{"", "   ", "PAT9999"} {
		p, ok, err := svc.Get(context.Background(), id)
		if err != nil || ok || p != nil {
			t.Errorf("Get(%q) = (%v, %v, %v), want not found", id, p, ok, err)
		}
	}
}

func TestService_Get_RepoError(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&failingRepo{err: boom}, db.NewLocalTransactor(), zerolog.Nop())
	if _, _, err := svc.Get(context.Background(), "PAT1001"); !errors.Is(err, boom) {
		t.Errorf("expected repo error, got %v", err)
	}
}

func TestService_Get_ReturnsCopy(t *testing.T) {
	svc := newTestService()
	added, _ := svc.Add(context.Background(), validPatient())
	p, _, _ := svc.Get(context.Background(), added.PatientID)
	p.Name = "Changed"
	again, _, _ := svc.Get(context.Background(), added.PatientID)
	if again.Name != "John Doe" {
		t.Errorf("stored record mutated through returned pointer: %q", again.Name)
	}
}

func TestService_Update(t *testing.T) {
	svc := newTestService()
	fixed := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	added, _ := svc.Add(context.Background(), validPatient())

	svc.now = func() time.Time { return fixed.Add(time.Hour) }
	repl := &Patient{PatientID: "PAT1", Name: "Jane Roe", Phone: "0987654321", Email: "jane@y.org"}
	updated, ok, err := svc.Update(context.Background(), added.PatientID, repl)
	if err != nil || !ok {
		t.Fatalf("unexpected result ok=%v err=%v", ok, err)
	}
	if updated.PatientID != added.PatientID {
		t.Errorf("id changed: %q -> %q", added.PatientID, updated.PatientID)
	}
	if !updated.CreatedAt.Equal(fixed) {
		t.Errorf("created_at changed: %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(fixed.Add(time.Hour)) {
		t.Errorf("updated_at not refreshed: %v", updated.UpdatedAt)
	}

	stored, _, _ := svc.Get(context.Background(), added.PatientID)
	if stored.Name != "Jane Roe" || stored.Email != "jane@y.org" {
		t.Errorf("update not persisted: %+v", stored)
	}
	if n, _ := svc.Count(context.Background()); n != 1 {
		t.Errorf("update must not change count, got %d", n)
	}
}

func TestService_Update_NotFound(t *testing.T) {
	svc := newTestService()
	for _, id := range []string{"", "PAT4242"} {
		p, ok, err := svc.Update(context.Background(), id, validPatient())
		if err != nil || ok || p != nil {
			t.Errorf("Update(%q) = (%v, %v, %v), want not found", id, p, ok, err)
		}
	}
}

func TestService_Update_Invalid(t *testing.T) {
	svc := newTestService()
	added, _ := svc.Add(context.Background(), validPatient())

	repl := validPatient()
	repl.Phone = "123"
	_, ok, err := svc.Update(context.Background(), added.PatientID, repl)
	if !ok {
		t.Error("expected the patient to be found")
	}
	if !validation.IsValidation(err) || err.Error() != "Patient phone must be exactly 10 digits" {
		t.Errorf("unexpected error: %v", err)
	}
	stored, _, _ := svc.Get(context.Background(), added.PatientID)
	if stored.Phone != "1234567890" {
		t.Errorf("invalid update must not be stored, phone=%q", stored.Phone)
	}

	if _, _, err := svc.Update(context.Background(), added.PatientID, nil); !validation.IsInvalidArgument(err) {
		t.Errorf("expected InvalidArgument for nil replacement, got %v", err)
	}
}

func TestService_Delete(t *testing.T) {
	svc := newTestService()
	added, _ := svc.Add(context.Background(), validPatient())

	deleted, _, err := svc.Delete(context.Background(), added.PatientID)
	if err != nil || !deleted {
		t.Fatalf("expected delete, got deleted=%v err=%v", deleted, err)
	}
	if ok, _ := svc.Exists(context.Background(), added.PatientID); ok {
		t.Error("patient still exists after delete")
	}

	deleted, _, err = svc.Delete(context.Background(), added.PatientID)
	if err != nil || deleted {
		t.Errorf("second delete = (%v, %v), want (false, nil)", deleted, err)
	}
	if deleted, _, _ := svc.Delete(context.Background(), ""); deleted {
		t.Error("blank id must not delete")
	}
}

func TestService_Delete_NoIDReuse(t *testing.T) {
	svc := newTestService()
	first, _ := svc.Add(context.Background(), validPatient())
	svc.Delete(context.Background(), first.PatientID)
	second, _ := svc.Add(context.Background(), validPatient())
	if second.PatientID == first.PatientID {
		t.Errorf("id %s reused after delete", first.PatientID)
	}
}

func TestService_Delete_Cascades(t *testing.T) {
	svc := newTestService()
	added, _ := svc.Add(context.Background(), validPatient())
	svc.RegisterDependent(&mockDependent{removed: map[string]int{added.PatientID: 3}})
	svc.RegisterDependent(&mockDependent{removed: map[string]int{added.PatientID: 2}})

	deleted, cascaded, err := svc.Delete(context.Background(), added.PatientID)
	if err != nil || !deleted {
		t.Fatalf("unexpected result deleted=%v err=%v", deleted, err)
	}
	if cascaded != 5 {
		t.Errorf("expected 5 cascaded records, got %d", cascaded)
	}
}

func TestService_Delete_CascadeNotRunForUnknown(t *testing.T) {
	svc := newTestService()
	dep := &mockDependent{err: errors.New("must not be called")}
	svc.RegisterDependent(dep)
	deleted, _, err := svc.Delete(context.Background(), "PAT1")
	if err != nil || deleted {
		t.Errorf("Delete(unknown) = (%v, %v)", deleted, err)
	}
}

func TestService_Delete_CascadeError(t *testing.T) {
	svc := newTestService()
	added, _ := svc.Add(context.Background(), validPatient())
	boom := errors.New("boom")
	svc.RegisterDependent(&mockDependent{err: boom})

	deleted, _, err := svc.Delete(context.Background(), added.PatientID)
	if !errors.Is(err, boom) {
		t.Fatalf("expected cascade error, got %v", err)
	}
	if deleted {
		t.Error("deleted must be false when the unit of work fails")
	}
}

func TestService_Exists(t *testing.T) {
	svc := newTestService()
	added, _ := svc.Add(context.Background(), validPatient())
	if ok, _ := svc.Exists(context.Background(), added.PatientID); !ok {
		t.Error("expected patient to exist")
	}
	for _, id := range []string{"", "PAT0"} {
		if ok, _ := svc.Exists(context.Background(), id); ok {
			t.Errorf("Exists(%q) = true", id)
		}
	}
}

func TestService_List(t *testing.T) {
	svc := newTestService()
	for i := 0; i < 12; i++ {
		svc.Add(context.Background(), validPatient())
	}

	items, total, err := svc.List(context.Background(), 5, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 12 {
		t.Errorf("expected total 12, got %d", total)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items on the last page, got %d", len(items))
	}
	if items[0].PatientID != "PAT1011" || items[1].PatientID != "PAT1012" {
		t.Errorf("unexpected order: %s, %s", items[0].PatientID, items[1].PatientID)
	}

	all, _, _ := svc.List(context.Background(), 0, -3)
	if len(all) != 12 {
		t.Errorf("expected all 12 with no limit, got %d", len(all))
	}
}

func TestService_SyncIdentity(t *testing.T) {
	repo := NewMemoryRepo()
	repo.Create(context.Background(), &Patient{PatientID: "PAT1500", Name: "A", Phone: "1234567890", Email: "a@b.co"})
	repo.Create(context.Background(), &Patient{PatientID: "PAT999", Name: "B", Phone: "1234567890", Email: "b@b.co"})

	svc := NewService(repo, db.NewLocalTransactor(), zerolog.Nop())
	if err := svc.SyncIdentity(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := svc.Add(context.Background(), validPatient())
	if p.PatientID != "PAT1501" {
		t.Errorf("expected PAT1501 after sync, got %s", p.PatientID)
	}
}

func TestService_SyncIdentity_Empty(t *testing.T) {
	svc := newTestService()
	if err := svc.SyncIdentity(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p, _ := svc.Add(context.Background(), validPatient())
	if p.PatientID != "PAT1001" {
		t.Errorf("expected PAT1001, got %s", p.PatientID)
	}
}

func TestService_SyncIdentity_Error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&failingRepo{err: boom}, db.NewLocalTransactor(), zerolog.Nop())
	if err := svc.SyncIdentity(context.Background()); !errors.Is(err, boom) {
		t.Errorf("expected repo error, got %v", err)
	}
}

// vanishingRepo deletes a patient right after it is read, as a concurrent
// delete would between an update's lookup and its write.
type vanishingRepo struct {
	Repository
}

func (r *vanishingRepo) GetByPatientID(ctx context.Context, patientID string) (*Patient, error) {
	p, err := r.Repository.GetByPatientID(ctx, patientID)
	if err == nil {
		r.Repository.Delete(ctx, patientID)
	}
	return p, err
}

func TestService_Update_DeletedMidway(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo, db.NewLocalTransactor(), zerolog.Nop())
	added, err := svc.Add(context.Background(), validPatient())
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	svc.repo = &vanishingRepo{Repository: repo}
	updated, ok, err := svc.Update(context.Background(), added.PatientID, validPatient())
	if updated != nil || ok || err != nil {
		t.Errorf("expected not found, got (%v, %v, %v)", updated, ok, err)
	}
}

func TestService_Add_FailedCreateLeavesCandidate(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&failingRepo{err: boom}, db.NewLocalTransactor(), zerolog.Nop())

	p := validPatient()
	if _, err := svc.Add(context.Background(), p); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped repo error, got %v", err)
	}
	if *p != *validPatient() {
		t.Errorf("candidate modified by failed add: %+v", p)
	}
}
