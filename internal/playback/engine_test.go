package playback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/dshills/keyclack/internal/samples"
)

type recordingDispatcher struct {
	played []string
	err    error
}

func (d *recordingDispatcher) Dispatch(data []byte) error {
	if d.err != nil {
		return d.err
	}
	d.played = append(d.played, string(data))
	return nil
}

type countingLogger struct {
	debug int
}

func (l *countingLogger) Debug(msg string, args ...any) {
	l.debug++
}

func testStore() *samples.Store {
	return samples.NewStore([]samples.Entry{
		{ID: "1", Data: []byte("one")},
		{ID: "30", Data: []byte("thirty")},
		{ID: "57", Data: []byte("space")},
	})
}

func TestEngine_ResolveAndPlay(t *testing.T) {
	d := &recordingDispatcher{}
	e := New(testStore(), d)

	e.ResolveAndPlay("30")
	e.ResolveAndPlay("57")

	if len(d.played) != 2 || d.played[0] != "thirty" || d.played[1] != "space" {
		t.Errorf("played %v, want [thirty space]", d.played)
	}
	if s := e.Stats(); s.Played != 2 || s.Fallbacks != 0 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestEngine_FallbackUsesRand(t *testing.T) {
	d := &recordingDispatcher{}
	var gotN int
	e := New(testStore(), d, WithRand(func(n int) int {
		gotN = n
		return 2
	}))

	e.ResolveAndPlay("99")

	if gotN != 3 {
		t.Errorf("rand called with n = %d, want 3", gotN)
	}
	if len(d.played) != 1 || d.played[0] != "space" {
		t.Errorf("played %v, want [space]", d.played)
	}
	if s := e.Stats(); s.Fallbacks != 1 || s.Played != 1 {
		t.Errorf("Stats() = %+v", s)
	}
}

func TestEngine_PlayRandom_Uniform(t *testing.T) {
	d := &recordingDispatcher{}
	e := New(testStore(), d)

	const draws = 30000
	for i := 0; i < draws; i++ {
		e.PlayRandom()
	}

	counts := map[string]int{}
	for _, p := range d.played {
		counts[p]++
	}

	// Each sample should get a third of the draws; allow 5 standard deviations.
	expected := float64(draws) / 3
	tolerance := 5 * math.Sqrt(draws*(1.0/3)*(2.0/3))
	for _, name := range []string{"one", "thirty", "space"} {
		if diff := math.Abs(float64(counts[name]) - expected); diff > tolerance {
			t.Errorf("%s played %d times, want about %.0f", name, counts[name], expected)
		}
	}
}

func TestEngine_EmptyStore(t *testing.T) {
	d := &recordingDispatcher{}
	e := New(samples.NewStore(nil), d, WithRand(func(n int) int {
		t.Fatalf("rand called on an empty store")
		return 0
	}))

	e.ResolveAndPlay("30")
	e.PlayRandom()

	if len(d.played) != 0 {
		t.Errorf("empty store played %v", d.played)
	}
	if s := e.Stats(); s.Silent != 2 {
		t.Errorf("Silent = %d, want 2", s.Silent)
	}
}

func TestEngine_DispatchFailureAbsorbed(t *testing.T) {
	d := &recordingDispatcher{err: errors.New("decode failed")}
	log := &countingLogger{}
	e := New(testStore(), d, WithLogger(log))

	if err := e.Handle(context.Background(), "1"); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}
	if err := e.Handle(context.Background(), "unmapped"); err != nil {
		t.Errorf("Handle() = %v, want nil", err)
	}

	if s := e.Stats(); s.Failures != 2 || s.Played != 0 {
		t.Errorf("Stats() = %+v", s)
	}
	if log.debug != 2 {
		t.Errorf("logged %d failures, want 2", log.debug)
	}
}

func TestEngine_Handle(t *testing.T) {
	d := &recordingDispatcher{}
	e := New(testStore(), d)

	for i, key := range []string{"1", "30", "1"} {
		if err := e.Handle(context.Background(), key); err != nil {
			t.Fatalf("Handle(%q) = %v", key, err)
		}
		if len(d.played) != i+1 {
			t.Fatalf("after %d keys played %d", i+1, len(d.played))
		}
	}
	if got := fmt.Sprint(d.played); got != "[one thirty one]" {
		t.Errorf("played %s", got)
	}
}
