package bizid

import (
	"regexp"
	"sync"
	"testing"
)

func TestGenerator_StartsAboveSeed(t *testing.T) {
	g := NewPatient()
	if got := g.Next(); got != "PAT1001" {
		t.Errorf("first patient id = %q, want PAT1001", got)
	}
	a := NewAppointment()
	if got := a.Next(); got != "APT2001" {
		t.Errorf("first appointment id = %q, want APT2001", got)
	}
}

func TestGenerator_Format(t *testing.T) {
	g := NewAppointment()
	re := regexp.MustCompile(`^APT\d+$`)
	for i := 0; i < 50; i++ {
		if id := g.Next(); !re.MatchString(id) {
			t.Fatalf("id %q does not match %s", id, re)
		}
	}
}

func TestGenerator_ConcurrentUnique(t *testing.T) {
	g := NewPatient()
	const workers, perWorker = 16, 250

	var mu sync.Mutex
	seen := make(map[string]bool, workers*perWorker)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			local := make([]string, 0, perWorker)
			for i := 0; i < perWorker; i++ {
				local = append(local, g.Next())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range local {
				if seen[id] {
					t.Errorf("duplicate id %s", id)
				}
				seen[id] = true
			}
		}()
	}
	wg.Wait()

	if len(seen) != workers*perWorker {
		t.Errorf("expected %d unique ids, got %d", workers*perWorker, len(seen))
	}
	if g.Current() != PatientSeed+workers*perWorker {
		t.Errorf("counter = %d, want %d", g.Current(), PatientSeed+workers*perWorker)
	}
}

func TestGenerator_Advance(t *testing.T) {
	g := NewPatient()
	g.Advance(5000)
	if got := g.Next(); got != "PAT5001" {
		t.Errorf("after Advance(5000) got %q, want PAT5001", got)
	}
	g.Advance(10)
	if got := g.Next(); got != "PAT5002" {
		t.Errorf("Advance below current must be ignored, got %q", got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		id   string
		want int64
		ok   bool
	}{
		{"PAT1001", 1001, true},
		{"PAT0", 0, true},
		{"PAT", 0, false},
		{"APT2001", 0, false},
		{"PAT12a", 0, false},
		{"PAT-1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := Parse(PatientPrefix, tt.id)
		if ok != tt.ok || got != tt.want {
			t.Errorf("Parse(%q) = (%d, %v), want (%d, %v)", tt.id, got, ok, tt.want, tt.ok)
		}
	}
}
