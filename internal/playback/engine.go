// Package playback resolves logical sound keys to samples and plays them.
package playback

import (
	"context"
	"math/rand/v2"
	"sync/atomic"

	"github.com/dshills/keyclack/internal/samples"
)

// Dispatcher plays encoded sample bytes. *audio.Pool implements it.
type Dispatcher interface {
	Dispatch(data []byte) error
}

// Logger receives per-sound failures.
type Logger interface {
	Debug(msg string, args ...any)
}

// Engine plays the sample for a key, falling back to a random sample when
// the key has none. Play failures are counted and logged, never returned.
type Engine struct {
	store  *samples.Store
	out    Dispatcher
	logger Logger
	intn   func(n int) int

	played    atomic.Uint64
	fallbacks atomic.Uint64
	failures  atomic.Uint64
	silent    atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithRand sets the source used to pick fallback samples. intn must return
// a value in [0, n).
func WithRand(intn func(n int) int) Option {
	return func(e *Engine) {
		if intn != nil {
			e.intn = intn
		}
	}
}

// WithLogger sets the logger for play failures.
func WithLogger(l Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// New creates an engine that plays samples from store on out.
func New(store *samples.Store, out Dispatcher, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		out:   out,
		intn:  rand.IntN,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ResolveAndPlay plays the sample for key, or a random one if key has none.
func (e *Engine) ResolveAndPlay(key string) {
	data, ok := e.store.Lookup(key)
	if !ok {
		e.fallbacks.Add(1)
		e.PlayRandom()
		return
	}
	e.play(key, data)
}

// PlayRandom plays a uniformly chosen sample. An empty store plays nothing.
func (e *Engine) PlayRandom() {
	n := e.store.Len()
	if n == 0 {
		e.silent.Add(1)
		return
	}

	id := e.store.ID(e.intn(n))
	data, _ := e.store.Lookup(id)
	e.play(id, data)
}

func (e *Engine) play(id string, data []byte) {
	if err := e.out.Dispatch(data); err != nil {
		e.failures.Add(1)
		if e.logger != nil {
			e.logger.Debug("playing sample %s: %v", id, err)
		}
		return
	}
	e.played.Add(1)
}

// Handle plays key. It always returns nil so one bad sample never stops
// the caller.
func (e *Engine) Handle(_ context.Context, key string) error {
	e.ResolveAndPlay(key)
	return nil
}

// Stats returns playback counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Played:    e.played.Load(),
		Fallbacks: e.fallbacks.Load(),
		Failures:  e.failures.Load(),
		Silent:    e.silent.Load(),
	}
}

// Stats contains counters for an Engine.
type Stats struct {
	// Played is the number of samples handed to the voice pool.
	Played uint64
	// Fallbacks is the number of keys without a sample of their own.
	Fallbacks uint64
	// Failures is the number of samples the pool rejected.
	Failures uint64
	// Silent is the number of requests ignored because no samples are loaded.
	Silent uint64
}
