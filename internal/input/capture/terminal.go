package capture

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyclack/internal/input/key"
)

// maxLogLines is how many log lines the status screen keeps.
const maxLogLines = 10

// Terminal captures keys from a tcell screen and shows a small status view.
// It also implements io.Writer so log output can be shown on the screen
// instead of corrupting it.
type Terminal struct {
	screen tcell.Screen
	title  string

	used   atomic.Bool
	active atomic.Bool
	ready  chan struct{}

	// onDraw runs on the event loop after each frame is shown.
	onDraw func()

	mu      sync.Mutex
	lines   []string
	partial string
	last    key.Key
	presses uint64
}

// NewTerminal creates a source on the controlling terminal.
func NewTerminal(title string) (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("opening terminal: %w", err)
	}
	return NewTerminalWithScreen(screen, title), nil
}

// NewTerminalWithScreen creates a source on an existing screen.
func NewTerminalWithScreen(screen tcell.Screen, title string) *Terminal {
	return &Terminal{
		screen: screen,
		title:  title,
		ready:  make(chan struct{}),
	}
}

// Listen initializes the screen and delivers key presses to fn until ctx is
// cancelled or Ctrl+C is pressed. The screen is restored before returning.
// A Terminal listens once; later calls return ErrSourceUsed.
func (t *Terminal) Listen(ctx context.Context, fn func(key.Key)) error {
	if !t.used.CompareAndSwap(false, true) {
		return ErrSourceUsed
	}
	if err := t.screen.Init(); err != nil {
		return fmt.Errorf("initializing terminal: %w", err)
	}
	defer t.screen.Fini()

	t.active.Store(true)
	defer t.active.Store(false)
	close(t.ready)

	stop := context.AfterFunc(ctx, t.wake)
	defer stop()

	t.draw()
	for {
		ev := t.screen.PollEvent()
		if ev == nil || ctx.Err() != nil {
			return nil
		}

		switch e := ev.(type) {
		case *tcell.EventKey:
			if isQuit(e) {
				return nil
			}
			k := keyFromEvent(e)
			if k == key.KeyNone {
				continue
			}
			fn(k)
			t.mu.Lock()
			t.last = k
			t.presses++
			t.mu.Unlock()
		case *tcell.EventResize:
			t.screen.Sync()
		}
		t.draw()
	}
}

// Write records log output for the status view. Each complete line is kept.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	text := t.partial + string(p)
	parts := strings.Split(text, "\n")
	t.partial = parts[len(parts)-1]
	for _, line := range parts[:len(parts)-1] {
		if line = strings.TrimRight(line, "\r"); line != "" {
			t.lines = append(t.lines, line)
		}
	}
	if over := len(t.lines) - maxLogLines; over > 0 {
		t.lines = append(t.lines[:0], t.lines[over:]...)
	}
	t.mu.Unlock()

	t.wake()
	return len(p), nil
}

// Lines returns the log lines currently shown.
func (t *Terminal) Lines() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.lines...)
}

// wake makes the event loop run once, redrawing the screen.
func (t *Terminal) wake() {
	if t.active.Load() {
		_ = t.screen.PostEvent(tcell.NewEventInterrupt(nil)) // best-effort; queue may be full
	}
}

func (t *Terminal) draw() {
	t.mu.Lock()
	status := fmt.Sprintf("last key: %-10s presses: %d", lastName(t.last), t.presses)
	lines := append([]string(nil), t.lines...)
	t.mu.Unlock()

	bold := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Dim(true)

	t.screen.Clear()
	drawText(t.screen, 0, 0, bold, "keyclack  "+t.title)
	drawText(t.screen, 0, 1, tcell.StyleDefault, status)
	drawText(t.screen, 0, 2, dim, "Ctrl+C to quit")
	for i, line := range lines {
		drawText(t.screen, 0, 4+i, dim, line)
	}
	t.screen.Show()
	if t.onDraw != nil {
		t.onDraw()
	}
}

func lastName(k key.Key) string {
	if k == key.KeyNone {
		return "-"
	}
	return k.String()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	width, height := s.Size()
	if y >= height {
		return
	}
	for _, r := range text {
		if x >= width {
			return
		}
		s.SetContent(x, y, r, nil, style)
		x++
	}
}

// isQuit reports whether e is Ctrl+C.
func isQuit(e *tcell.EventKey) bool {
	if e.Key() == tcell.KeyCtrlC {
		return true
	}
	return e.Key() == tcell.KeyRune && e.Modifiers()&tcell.ModCtrl != 0 && (e.Rune() == 'c' || e.Rune() == 'C')
}

// keyFromEvent maps a tcell key event to a physical key.
// Returns key.KeyNone for events with no matching key.
func keyFromEvent(e *tcell.EventKey) key.Key {
	switch e.Key() {
	case tcell.KeyRune:
		return key.FromRune(e.Rune())
	case tcell.KeyEnter:
		return key.KeyReturn
	case tcell.KeyTab, tcell.KeyBacktab:
		return key.KeyTab
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.KeyBackspace
	case tcell.KeyEscape:
		return key.KeyEscape
	case tcell.KeyDelete:
		return key.KeyDelete
	case tcell.KeyInsert:
		return key.KeyInsert
	case tcell.KeyHome:
		return key.KeyHome
	case tcell.KeyEnd:
		return key.KeyEnd
	case tcell.KeyPgUp:
		return key.KeyPageUp
	case tcell.KeyPgDn:
		return key.KeyPageDown
	case tcell.KeyUp:
		return key.KeyUp
	case tcell.KeyDown:
		return key.KeyDown
	case tcell.KeyLeft:
		return key.KeyLeft
	case tcell.KeyRight:
		return key.KeyRight
	case tcell.KeyPrint:
		return key.KeyPrintScreen
	case tcell.KeyPause:
		return key.KeyPause
	}

	if k := e.Key(); k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.KeyF1 + key.Key(k-tcell.KeyF1)
	}
	return key.KeyNone
}
