package resilience

import "sync"

// SingleFlight collapses concurrent calls for the same key into one
// execution. The zero value is ready to use.
type SingleFlight struct {
	mu       sync.Mutex
	inflight map[string]*flightResult
}

type flightResult struct {
	done chan struct{}
	val  any
	err  error
}

// Do runs fn once per key at a time. Callers that arrive while an
// identical call is in flight wait for its result; the third return
// value reports whether the result was shared.
func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if g.inflight == nil {
		g.inflight = make(map[string]*flightResult)
	}
	if existing, ok := g.inflight[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.val, existing.err, true
	}

	result := &flightResult{done: make(chan struct{})}
	g.inflight[key] = result
	g.mu.Unlock()

	result.val, result.err = fn()
	close(result.done)

	g.mu.Lock()
	delete(g.inflight, key)
	g.mu.Unlock()

	return result.val, result.err, false
}
