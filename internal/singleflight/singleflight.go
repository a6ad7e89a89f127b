package singleflight

import (
	"context"
	"strings"
	"sync"
)

// Group coalesces concurrent calls with the same key onto one execution.
// The first caller (owner) runs the function; duplicates wait for its result.
type Group struct {
	mu sync.Mutex
	m  map[string]*call
}

// call represents an active function call.
type call struct {
	done chan struct{}
	val  interface{}
	err  error
}

// New creates a new singleflight Group.
func New() *Group {
	return &Group{
		m: make(map[string]*call),
	}
}

// Do executes and returns the results of the given function, making sure that
// only one execution is in-flight for a given key at a time. Duplicate callers
// wait for the owner to complete and receive the same results, or their own
// context error if canceled while waiting. The returned bool reports whether
// the result was shared from another caller's flight.
//
// Coalescing covers only callers that arrive while the flight is in progress.
// The registration is dropped the moment the owner completes, so a later call
// with the same key always executes again.
func (g *Group) Do(ctx context.Context, key string, fn func() (interface{}, error)) (interface{}, error, bool) {
	g.mu.Lock()
	if c, ok := g.m[key]; ok {
		g.mu.Unlock()
		select {
		case <-c.done:
			return c.val, c.err, true
		case <-ctx.Done():
			return nil, ctx.Err(), true
		}
	}

	c := &call{done: make(chan struct{})}
	g.m[key] = c
	g.mu.Unlock()

	c.val, c.err = fn()

	// Deregister before waking waiters so no caller can attach to a
	// completed flight.
	g.mu.Lock()
	if g.m[key] == c {
		delete(g.m, key)
	}
	g.mu.Unlock()
	close(c.done)

	return c.val, c.err, false
}

// Forget drops in-flight registrations whose key contains pattern as a
// substring and returns the number dropped. Later callers with those keys
// start a fresh flight instead of attaching to the abandoned one; callers
// already waiting still receive the abandoned flight's result.
func (g *Group) Forget(pattern string) int {
	g.mu.Lock()
	defer g.mu.Unlock()

	dropped := 0
	for key := range g.m {
		if strings.Contains(key, pattern) {
			delete(g.m, key)
			dropped++
		}
	}
	return dropped
}
