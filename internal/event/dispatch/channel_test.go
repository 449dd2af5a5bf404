package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// recorder collects the keys it handles.
type recorder struct {
	mu   sync.Mutex
	keys []string
	fn   func(key string) error
}

func (r *recorder) Handle(ctx context.Context, key string) error {
	r.mu.Lock()
	r.keys = append(r.keys, key)
	r.mu.Unlock()
	if r.fn != nil {
		return r.fn(key)
	}
	return nil
}

func (r *recorder) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

func TestChannel_StartStop(t *testing.T) {
	c := New(&recorder{})

	if err := c.Start(); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !c.IsRunning() {
		t.Error("expected channel to be running after Start()")
	}
	if err := c.Start(); err != ErrAlreadyRunning {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if c.IsRunning() {
		t.Error("expected channel to not be running after Stop()")
	}
	if err := c.Stop(ctx); err != ErrNotRunning {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}

	// Restart after stop.
	if err := c.Start(); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("second Stop() failed: %v", err)
	}
}

func TestChannel_Send_NotRunning(t *testing.T) {
	c := New(&recorder{})

	if err := c.Send("1"); err != ErrNotRunning {
		t.Errorf("expected ErrNotRunning, got %v", err)
	}
}

func TestChannel_Order(t *testing.T) {
	r := &recorder{}
	c := New(r)
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	for _, k := range []string{"1", "2", "3"} {
		if err := c.Send(k); err != nil {
			t.Fatalf("Send(%q) failed: %v", k, err)
		}
	}

	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	got := r.Keys()
	want := []string{"1", "2", "3"}
	if len(got) != len(want) {
		t.Fatalf("handled %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %q, want %q", i, got[i], want[i])
		}
	}

	stats := c.Stats()
	if stats.Enqueued != 3 || stats.Processed != 3 {
		t.Errorf("stats = %+v, want 3 enqueued and processed", stats)
	}
}

func TestChannel_SendNeverBlocks(t *testing.T) {
	blocker := make(chan struct{})
	started := make(chan struct{})
	var once sync.Once

	c := New(HandlerFunc(func(ctx context.Context, key string) error {
		once.Do(func() { close(started) })
		<-blocker
		return nil
	}), WithQueueSize(4))
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	if err := c.Send("first"); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker did not pick up the first key")
	}

	// The worker is stalled; Send must return promptly regardless.
	done := make(chan struct{})
	var full int
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			if errors.Is(c.Send("k"), ErrQueueFull) {
				full++
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a stalled consumer")
	}

	if full != 96 {
		t.Errorf("got %d ErrQueueFull, want 96", full)
	}
	if d := c.QueueDepth(); d != 4 {
		t.Errorf("QueueDepth() = %d, want 4", d)
	}
	if s := c.Stats(); s.Dropped != 96 {
		t.Errorf("Dropped = %d, want 96", s.Dropped)
	}

	close(blocker)
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
}

func TestChannel_StopDrains(t *testing.T) {
	var handled atomic.Int32
	c := New(HandlerFunc(func(ctx context.Context, key string) error {
		time.Sleep(time.Millisecond)
		handled.Add(1)
		return nil
	}), WithQueueSize(50))
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 20; i++ {
		if err := c.Send("1"); err != nil {
			t.Fatalf("Send failed: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}
	if n := handled.Load(); n != 20 {
		t.Errorf("handled %d keys, want 20", n)
	}
}

func TestChannel_StopDeadlineDiscards(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	var handled atomic.Int32

	c := New(HandlerFunc(func(ctx context.Context, key string) error {
		once.Do(func() { close(started) })
		if key == "slow" {
			// Released when Stop gives up on draining.
			<-ctx.Done()
		}
		handled.Add(1)
		return nil
	}), WithQueueSize(10))
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	_ = c.Send("slow")
	<-started
	for i := 0; i < 5; i++ {
		_ = c.Send("1")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Stop(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected DeadlineExceeded, got %v", err)
	}

	// The worker has exited; nothing else gets handled.
	time.Sleep(10 * time.Millisecond)
	if n := handled.Load(); n != 1 {
		t.Errorf("handled %d keys, want 1", n)
	}
	if s := c.Stats(); s.Discarded != 5 {
		t.Errorf("Discarded = %d, want 5", s.Discarded)
	}
}

func TestChannel_PanicRecovery(t *testing.T) {
	var panicKey atomic.Value
	r := &recorder{fn: func(key string) error {
		if key == "boom" {
			panic("bad sample")
		}
		return nil
	}}

	c := New(r, WithPanicHandler(func(key string, v any, stack []byte) {
		panicKey.Store(key)
		if len(stack) == 0 {
			t.Error("expected a stack trace")
		}
	}))
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	_ = c.Send("boom")
	_ = c.Send("2")
	if err := c.Stop(context.Background()); err != nil {
		t.Fatalf("Stop() failed: %v", err)
	}

	if got, _ := panicKey.Load().(string); got != "boom" {
		t.Errorf("panic handler key = %q, want boom", got)
	}
	if keys := r.Keys(); len(keys) != 2 || keys[1] != "2" {
		t.Errorf("worker did not survive the panic: handled %v", keys)
	}
	if s := c.Stats(); s.Panicked != 1 {
		t.Errorf("Panicked = %d, want 1", s.Panicked)
	}
}

func TestChannel_ErrorHandler(t *testing.T) {
	errBad := errors.New("bad")
	var gotKey string
	var gotErr error

	c := New(HandlerFunc(func(ctx context.Context, key string) error {
		return errBad
	}), WithErrorHandler(func(key string, err error) {
		gotKey, gotErr = key, err
	}))
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}
	_ = c.Send("7")
	if err := c.Stop(context.Background()); err != nil {
		t.Fatal(err)
	}

	if gotKey != "7" || !errors.Is(gotErr, errBad) {
		t.Errorf("error handler got (%q, %v)", gotKey, gotErr)
	}
	if s := c.Stats(); s.Failed != 1 {
		t.Errorf("Failed = %d, want 1", s.Failed)
	}
}

func TestChannel_SendDuringStop(t *testing.T) {
	c := New(&recorder{}, WithQueueSize(8))
	if err := c.Start(); err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				err := c.Send("1")
				if err != nil && err != ErrQueueFull && err != ErrNotRunning {
					t.Errorf("unexpected Send error: %v", err)
					return
				}
			}
		}()
	}

	time.Sleep(5 * time.Millisecond)
	if err := c.Stop(context.Background()); err != nil {
		t.Errorf("Stop() failed: %v", err)
	}
	close(stop)
	wg.Wait()
}

func TestChannel_QueueSizeOption(t *testing.T) {
	tests := []struct {
		size int
		want int
	}{
		{0, DefaultQueueSize},
		{-3, DefaultQueueSize},
		{1, 1},
		{1024, 1024},
	}
	for _, tt := range tests {
		c := New(&recorder{}, WithQueueSize(tt.size))
		if c.queueSize != tt.want {
			t.Errorf("WithQueueSize(%d) = %d, want %d", tt.size, c.queueSize, tt.want)
		}
	}
}
