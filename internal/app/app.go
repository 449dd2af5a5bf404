// Package app wires the keyclack pipeline together and manages its
// lifecycle: capture source, key mapping, dispatch channel, playback engine,
// voice pool and audio output.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/dshills/keyclack/internal/audio"
	"github.com/dshills/keyclack/internal/config"
	"github.com/dshills/keyclack/internal/config/loader"
	"github.com/dshills/keyclack/internal/event/dispatch"
	"github.com/dshills/keyclack/internal/input/capture"
	"github.com/dshills/keyclack/internal/input/key"
	"github.com/dshills/keyclack/internal/playback"
	"github.com/dshills/keyclack/internal/samples"
)

// Options configures the application. Zero values leave the loaded
// settings untouched.
type Options struct {
	// SettingsPath is the settings file. Empty uses the per-user default.
	SettingsPath string

	// PackPath is an explicit sound pack config.json.
	PackPath string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// LogFile sends logs to a file instead of the terminal.
	LogFile string

	// Voices sets the number of simultaneous sounds.
	Voices int

	// Mute replaces the audio device with a silent output.
	Mute bool

	// Output overrides the audio device.
	Output audio.Output

	// LogOutput is where logs go before a capture source takes over.
	// Defaults to os.Stderr.
	LogOutput io.Writer

	// FS is the file system packs and settings are read from.
	FS loader.FileSystem
}

// Application owns every component of a keyclack session.
type Application struct {
	opts     Options
	settings config.Settings
	logger   *Logger
	logFile  *os.File
	session  string

	pack    *config.Pack
	store   *samples.Store
	output  audio.Output
	pool    *audio.Pool
	engine  *playback.Engine
	channel *dispatch.Channel

	mu     sync.Mutex
	source capture.Source

	metrics     *Metrics
	dropLimiter *rate.Limiter

	running      atomic.Bool
	closed       atomic.Bool
	shutdownOnce sync.Once
	shutdownErr  error
}

// New loads settings and the sound pack and builds the pipeline. Nothing
// plays until Run is called.
func New(opts Options) (*Application, error) {
	if opts.FS == nil {
		opts.FS = loader.DefaultFS()
	}
	if opts.LogOutput == nil {
		opts.LogOutput = os.Stderr
	}

	app := &Application{
		opts:        opts,
		session:     uuid.NewString(),
		metrics:     NewMetrics(),
		dropLimiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}

	if err := app.bootstrap(); err != nil {
		app.teardown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	// 1. Settings
	settings, err := config.LoadSettings(app.opts.FS, app.opts.SettingsPath)
	if err != nil {
		return &InitError{Component: "settings", Err: err}
	}
	app.applyOptions(&settings)
	if err := settings.Validate(); err != nil {
		return &InitError{Component: "settings", Err: err}
	}
	app.settings = settings

	// 2. Logging
	if err := app.initLogger(); err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	log := app.logger.WithComponent("app")

	// 3. Sound pack
	packPath, err := config.FindPack(app.opts.FS, settings.Pack.Name, settings.Pack.Path, settings.Pack.SearchDirs)
	if err != nil {
		return &InitError{Component: "pack", Err: err}
	}
	app.pack, err = config.LoadPack(app.opts.FS, packPath)
	if err != nil {
		return &InitError{Component: "pack", Err: err}
	}
	log.Info("using sound pack %q from %s", app.packTitle(), packPath)

	// 4. Samples
	roots := config.SearchRoots(settings.Pack.Name, settings.Pack.SearchDirs)
	app.store = samples.Load(app.opts.FS, app.pack, roots, app.logger.WithComponent("samples"))
	log.Info("loaded %d of %d samples (%s)", app.store.Len(), app.pack.FileCount(),
		humanize.Bytes(uint64(app.store.TotalBytes())))
	if app.store.Len() == 0 {
		log.Warn("sound pack has no playable samples; key presses will be silent")
	}

	// 5. Audio output
	app.output, err = app.openOutput()
	if err != nil {
		return &InitError{Component: "audio", Err: err}
	}

	// 6. Voice pool
	app.pool, err = audio.NewPool(app.output, settings.Audio.Voices)
	if err != nil {
		return &InitError{Component: "voice pool", Err: err}
	}

	// 7. Playback engine
	app.engine = playback.New(app.store, app.pool,
		playback.WithLogger(app.logger.WithComponent("playback")))

	// 8. Dispatch channel
	dlog := app.logger.WithComponent("dispatch")
	app.channel = dispatch.New(app.engine,
		dispatch.WithQueueSize(settings.Dispatch.QueueSize),
		dispatch.WithPanicHandler(func(key string, v any, stack []byte) {
			dlog.Error("panic playing key %s: %v\n%s", key, v, stack)
		}),
	)

	return nil
}

// applyOptions layers command line options over loaded settings.
func (app *Application) applyOptions(s *config.Settings) {
	if app.opts.PackPath != "" {
		s.Pack.Path = app.opts.PackPath
	}
	if app.opts.LogLevel != "" {
		s.Log.Level = app.opts.LogLevel
	}
	if app.opts.LogFile != "" {
		s.Log.File = app.opts.LogFile
	}
	if app.opts.Voices != 0 {
		s.Audio.Voices = app.opts.Voices
	}
	if app.opts.Mute {
		s.Audio.Mute = true
	}
}

func (app *Application) initLogger() error {
	out := app.opts.LogOutput
	if app.settings.Log.File != "" {
		if err := os.MkdirAll(filepath.Dir(app.settings.Log.File), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(app.settings.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		app.logFile = f
		out = f
	}

	app.logger = NewLogger(LoggerConfig{
		Level:  ParseLogLevel(app.settings.Log.Level),
		Output: out,
		Prefix: "keyclack",
	}).WithField("session", app.session)
	return nil
}

func (app *Application) openOutput() (audio.Output, error) {
	switch {
	case app.opts.Output != nil:
		return app.opts.Output, nil
	case app.settings.Audio.Mute:
		return audio.NewNullOutput(app.settings.Audio.SampleRate), nil
	default:
		return audio.NewDeviceOutput(app.settings.Audio.SampleRate, app.settings.Audio.BufferMillis)
	}
}

func (app *Application) packTitle() string {
	switch {
	case app.pack.Name != "":
		return app.pack.Name
	case app.pack.ID != "":
		return app.pack.ID
	default:
		return app.settings.Pack.Name
	}
}

// PackTitle returns the display name of the loaded sound pack.
func (app *Application) PackTitle() string {
	return app.packTitle()
}

// Logger returns the application's logger.
func (app *Application) Logger() *Logger {
	return app.logger
}

// Settings returns the effective settings.
func (app *Application) Settings() config.Settings {
	return app.settings
}

// SetSource sets where key presses come from. If the source is also an
// io.Writer and no log file is configured, logs are shown through it
// while Run is active.
func (app *Application) SetSource(src capture.Source) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	app.mu.Lock()
	defer app.mu.Unlock()
	app.source = src
	return nil
}

// Run starts playback and listens for key presses until ctx is cancelled,
// the user quits, or the source fails. It shuts the application down
// before returning.
func (app *Application) Run(ctx context.Context) error {
	app.mu.Lock()
	src := app.source
	app.mu.Unlock()
	if src == nil {
		return ErrNoSource
	}
	if app.closed.Load() {
		return ErrShutdown
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	if err := app.channel.Start(); err != nil {
		return NewComponentError("dispatch", "start", err)
	}

	var prev io.Writer
	w, redirect := src.(io.Writer)
	redirect = redirect && app.logFile == nil
	if redirect {
		prev = app.logger.SetOutput(w)
	}

	app.logger.WithComponent("app").Info("listening for key presses")
	err := src.Listen(ctx, app.onKey)

	if redirect {
		app.logger.SetOutput(prev)
	}

	if shutdownErr := app.Shutdown(); shutdownErr != nil && err == nil {
		return shutdownErr
	}
	if err != nil {
		return NewComponentError("capture", "listen", err)
	}
	return nil
}

// onKey runs on the capture goroutine. It must never block.
func (app *Application) onKey(k key.Key) {
	app.metrics.RecordPress()
	sound := key.SoundKey(k)
	if err := app.channel.Send(sound); err != nil {
		app.metrics.RecordDrop()
		if app.dropLimiter.Allow() {
			app.logger.WithComponent("capture").Warn("dropped key %s (sound %s): %v", k, sound, err)
		}
	}
}

// Stats returns a snapshot of the session counters.
func (app *Application) Stats() MetricsSnapshot {
	return app.metrics.Snapshot(app.channel.Stats(), app.engine.Stats())
}

// Shutdown stops playback and releases the audio device. Queued sounds are
// given the configured stop timeout to play. It is safe to call more than
// once and from any goroutine.
func (app *Application) Shutdown() error {
	app.shutdownOnce.Do(func() {
		app.closed.Store(true)
		log := app.logger.WithComponent("app")

		timeout := time.Duration(app.settings.Dispatch.StopTimeoutMillis) * time.Millisecond
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := app.channel.Stop(ctx); err != nil && !errors.Is(err, dispatch.ErrNotRunning) {
			log.Warn("stopping dispatch: %v (%d queued sounds discarded)", err, app.channel.Stats().Discarded)
		}

		s := app.Stats()
		log.Info("session ended after %s: %d presses, %d played, %d dropped",
			s.Uptime.Round(time.Second), s.Presses, s.Playback.Played, s.Dropped)

		app.shutdownErr = app.teardown()
	})
	return app.shutdownErr
}

// teardown releases components in reverse creation order.
func (app *Application) teardown() error {
	var errs []error
	if app.pool != nil {
		if err := app.pool.Close(); err != nil {
			errs = append(errs, NewComponentError("voice pool", "close", err))
		}
	}
	if app.output != nil {
		if err := app.output.Close(); err != nil {
			errs = append(errs, NewComponentError("audio", "close", err))
		}
	}
	if app.logFile != nil {
		if err := app.logFile.Close(); err != nil {
			errs = append(errs, NewComponentError("logging", "close", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("shutdown: %w", errors.Join(errs...))
	}
	return nil
}
