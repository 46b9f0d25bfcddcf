package bizid

import (
	"strconv"
	"strings"
	"sync/atomic"
)

const (
	PatientPrefix     = "PAT"
	AppointmentPrefix = "APT"

	PatientSeed     = 1000
	AppointmentSeed = 2000
)

// Generator hands out business identifiers of the form prefix+n. The counter
// starts above seed and only moves forward, so an id is never reissued after
// its record is deleted.
type Generator struct {
	prefix  string
	counter atomic.Int64
}

func New(prefix string, seed int64) *Generator {
	g := &Generator{prefix: prefix}
	g.counter.Store(seed)
	return g
}

// NewPatient returns the generator for PAT ids.
func NewPatient() *Generator { return New(PatientPrefix, PatientSeed) }

// NewAppointment returns the generator for APT ids.
func NewAppointment() *Generator { return New(AppointmentPrefix, AppointmentSeed) }

func (g *Generator) Next() string {
	return g.prefix + strconv.FormatInt(g.counter.Add(1), 10)
}

func (g *Generator) Prefix() string { return g.prefix }

// Current returns the last sequence number handed out (or the seed).
func (g *Generator) Current() int64 { return g.counter.Load() }

// Advance moves the counter to at least n. Lower values are ignored.
func (g *Generator) Advance(n int64) {
	for {
		cur := g.counter.Load()
		if n <= cur {
			return
		}
		if g.counter.CompareAndSwap(cur, n) {
			return
		}
	}
}

// Sequence extracts the numeric part of id. ok is false when id does not
// carry the generator's prefix followed by decimal digits.
func (g *Generator) Sequence(id string) (n int64, ok bool) {
	return Parse(g.prefix, id)
}

func Parse(prefix, id string) (int64, bool) {
	if !strings.HasPrefix(id, prefix) {
		return 0, false
	}
	digits := id[len(prefix):]
	if digits == "" {
		return 0, false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
