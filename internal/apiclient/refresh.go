package apiclient

import "sync"

type refreshRole int

const (
	// roleLead: the caller owns the refresh and must call finish.
	roleLead refreshRole = iota
	// roleWait: a refresh is in flight; the caller receives its outcome on the slot.
	roleWait
	// roleStale: a refresh already completed after the request was sent;
	// the caller replays with the current token.
	roleStale
)

type refreshResult struct {
	access string
	gen    uint64
	err    error
}

// refresher is the single-flight coordinator. It is either Idle or
// Refreshing(waiters). mu guards state transitions only; no I/O happens
// while it is held.
type refresher struct {
	mu         sync.Mutex
	refreshing bool
	waiters    []chan refreshResult
	generation uint64
}

func (r *refresher) current() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.generation
}

// begin is called by a request that received a 401 after being sent under
// generation sentGen.
func (r *refresher) begin(sentGen uint64) (refreshRole, <-chan refreshResult, uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.refreshing {
		ch := make(chan refreshResult, 1)
		r.waiters = append(r.waiters, ch)
		return roleWait, ch, r.generation
	}
	if sentGen < r.generation {
		return roleStale, nil, r.generation
	}
	r.refreshing = true
	return roleLead, nil, r.generation
}

// finish resolves every waiter in registration order with the refresh
// outcome and returns the generation the lead should replay under.
func (r *refresher) finish(access string, err error) uint64 {
	r.mu.Lock()
	if err == nil {
		r.generation++
	}
	res := refreshResult{access: access, gen: r.generation, err: err}
	waiters := r.waiters
	r.waiters = nil
	r.refreshing = false
	r.mu.Unlock()

	// slots are buffered, a waiter that already left never blocks us
	for _, ch := range waiters {
		ch <- res
	}
	return res.gen
}

func (r *refresher) pending() (bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refreshing, len(r.waiters)
}
