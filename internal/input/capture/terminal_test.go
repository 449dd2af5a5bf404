package capture

import (
	"context"
	"errors"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyclack/internal/input/key"
)

func newSimTerminal(t *testing.T) (*Terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	return NewTerminalWithScreen(screen, "nk-cream"), screen
}

type keyLog struct {
	mu   sync.Mutex
	keys []key.Key
}

func (l *keyLog) add(k key.Key) {
	l.mu.Lock()
	l.keys = append(l.keys, k)
	l.mu.Unlock()
}

func (l *keyLog) get() []key.Key {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]key.Key(nil), l.keys...)
}

// listen runs Listen in the background and waits until the screen is ready.
func listen(t *testing.T, term *Terminal, ctx context.Context, fn func(key.Key)) <-chan error {
	t.Helper()
	done := make(chan error, 1)
	go func() {
		done <- term.Listen(ctx, fn)
	}()
	select {
	case <-term.ready:
	case err := <-done:
		t.Fatalf("Listen returned early: %v", err)
	case <-time.After(time.Second):
		t.Fatal("terminal did not initialize")
	}
	return done
}

func waitDone(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("Listen did not return")
		return nil
	}
}

func TestTerminal_KeysAndQuit(t *testing.T) {
	term, screen := newSimTerminal(t)
	log := &keyLog{}

	done := listen(t, term, context.Background(), log.add)

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	screen.InjectKey(tcell.KeyRune, 'Q', tcell.ModShift)
	screen.InjectKey(tcell.KeyRune, ' ', tcell.ModNone)
	screen.InjectKey(tcell.KeyEnter, 0, tcell.ModNone)
	screen.InjectKey(tcell.KeyCtrlC, 0, tcell.ModCtrl)

	if err := waitDone(t, done); err != nil {
		t.Fatalf("Listen() = %v, want nil on Ctrl+C", err)
	}

	want := []key.Key{key.KeyQ, key.KeyQ, key.KeySpace, key.KeyReturn}
	got := log.get()
	if len(got) != len(want) {
		t.Fatalf("got keys %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("key %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestTerminal_ContextCancel(t *testing.T) {
	term, _ := newSimTerminal(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := listen(t, term, ctx, func(key.Key) {})
	cancel()

	if err := waitDone(t, done); err != nil {
		t.Fatalf("Listen() = %v, want nil on cancel", err)
	}
}

func TestTerminal_InitFailure(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	term := NewTerminalWithScreen(failingScreen{screen}, "x")
	err := term.Listen(context.Background(), func(key.Key) {})
	if err == nil || !strings.Contains(err.Error(), "initializing terminal") {
		t.Errorf("Listen() = %v, want init error", err)
	}
}

type failingScreen struct {
	tcell.Screen
}

func (failingScreen) Init() error { return errors.New("no tty") }

func TestTerminal_WriteKeepsRecentLines(t *testing.T) {
	term, _ := newSimTerminal(t)

	_, _ = term.Write([]byte("first\nsec"))
	_, _ = term.Write([]byte("ond\n"))
	if got := term.Lines(); len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("Lines() = %q", got)
	}

	for i := 0; i < 2*maxLogLines; i++ {
		_, _ = term.Write([]byte("line\n"))
	}
	if n := len(term.Lines()); n != maxLogLines {
		t.Errorf("kept %d lines, want %d", n, maxLogLines)
	}
}

func TestTerminal_DrawsStatus(t *testing.T) {
	term, screen := newSimTerminal(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Frames are captured on the event loop, right after Show.
	frames := make(chan string, 64)
	term.onDraw = func() {
		select {
		case frames <- screenText(screen):
		default:
		}
	}

	pressed := make(chan struct{}, 1)
	done := listen(t, term, ctx, func(key.Key) { pressed <- struct{}{} })

	screen.InjectKey(tcell.KeyRune, 'a', tcell.ModNone)
	<-pressed
	_, _ = term.Write([]byte("loaded 3 samples\n"))

	var text string
	timeout := time.After(time.Second)
	for !strings.Contains(text, "loaded 3 samples") || !strings.Contains(text, "last key: A") {
		select {
		case text = <-frames:
		case <-timeout:
			t.Fatalf("status not drawn; last frame:\n%s", text)
		}
	}

	if !strings.Contains(text, "nk-cream") {
		t.Error("title not drawn")
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatal(err)
	}
}

func TestTerminal_ListenOnce(t *testing.T) {
	term, _ := newSimTerminal(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := listen(t, term, ctx, func(key.Key) {})
	if err := term.Listen(ctx, func(key.Key) {}); !errors.Is(err, ErrSourceUsed) {
		t.Errorf("concurrent Listen() = %v, want ErrSourceUsed", err)
	}

	cancel()
	if err := waitDone(t, done); err != nil {
		t.Fatal(err)
	}

	if err := term.Listen(context.Background(), func(key.Key) {}); !errors.Is(err, ErrSourceUsed) {
		t.Errorf("Listen() after return = %v, want ErrSourceUsed", err)
	}
}

func screenText(s tcell.SimulationScreen) string {
	cells, width, _ := s.GetContents()
	var b strings.Builder
	for i, c := range cells {
		if i > 0 && i%width == 0 {
			b.WriteByte('\n')
		}
		if len(c.Runes) > 0 {
			b.WriteRune(c.Runes[0])
		} else {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

func TestKeyFromEvent(t *testing.T) {
	tests := []struct {
		name string
		k    tcell.Key
		r    rune
		want key.Key
	}{
		{"letter", tcell.KeyRune, 'w', key.KeyW},
		{"upper letter", tcell.KeyRune, 'M', key.KeyM},
		{"digit", tcell.KeyRune, '7', key.Key7},
		{"space", tcell.KeyRune, ' ', key.KeySpace},
		{"enter", tcell.KeyEnter, 0, key.KeyReturn},
		{"tab", tcell.KeyTab, 0, key.KeyTab},
		{"backspace", tcell.KeyBackspace, 0, key.KeyBackspace},
		{"backspace2", tcell.KeyBackspace2, 0, key.KeyBackspace},
		{"escape", tcell.KeyEscape, 0, key.KeyEscape},
		{"up", tcell.KeyUp, 0, key.KeyUp},
		{"f1", tcell.KeyF1, 0, key.KeyF1},
		{"f12", tcell.KeyF12, 0, key.KeyF12},
		{"f13", tcell.KeyF13, 0, key.KeyNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := tcell.NewEventKey(tt.k, tt.r, tcell.ModNone)
			if got := keyFromEvent(ev); got != tt.want {
				t.Errorf("keyFromEvent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckTTY(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "stdin")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if err := CheckTTY(f); !errors.Is(err, ErrNotTTY) {
		t.Errorf("CheckTTY(regular file) = %v, want ErrNotTTY", err)
	}
}
