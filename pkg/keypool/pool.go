// Package keypool manages the ordered set of API credentials a discovery run
// spends its quota through. Rotation is forward-only: an exhausted key does
// not regain quota within a run, so the pool never wraps back to it.
package keypool

import (
	"errors"
	"fmt"
)

// ErrExhausted is returned by Rotate when no further credential exists.
// Callers must treat it as terminal for the current run.
var ErrExhausted = errors.New("all API keys exhausted")

// Pool holds the ordered credentials, the active selection and per-credential
// usage counters. It is owned and mutated by a single goroutine (the
// orchestrator); no locking is provided or needed.
type Pool struct {
	keys   []string
	active int
	usage  []int
}

// Load builds a pool from an ordered list of credential strings.
func Load(keys []string) (*Pool, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("credential pool requires at least one API key")
	}
	cp := make([]string, len(keys))
	copy(cp, keys)
	return &Pool{
		keys:  cp,
		usage: make([]int, len(cp)),
	}, nil
}

// Current returns the active credential.
func (p *Pool) Current() string {
	return p.keys[p.active]
}

// ActiveIndex returns the zero-based index of the active credential.
func (p *Pool) ActiveIndex() int {
	return p.active
}

// Size returns the number of credentials in the pool.
func (p *Pool) Size() int {
	return len(p.keys)
}

// RecordUsage increments the usage counter of the active credential.
func (p *Pool) RecordUsage() {
	p.usage[p.active]++
}

// Rotate advances to the next credential. It returns ErrExhausted when the
// active credential is already the last one.
func (p *Pool) Rotate() error {
	if p.active+1 >= len(p.keys) {
		return ErrExhausted
	}
	p.active++
	return nil
}

// TotalCalls returns the number of calls recorded across all credentials.
func (p *Pool) TotalCalls() int {
	total := 0
	for _, n := range p.usage {
		total += n
	}
	return total
}

// UsageByKey returns a copy of the per-credential usage counters, indexed in
// credential order.
func (p *Pool) UsageByKey() []int {
	out := make([]int, len(p.usage))
	copy(out, p.usage)
	return out
}
