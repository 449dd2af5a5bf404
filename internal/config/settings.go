package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/dshills/keyclack/internal/config/loader"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "KEYCLACK_"

// Default values.
const (
	DefaultPackName          = "nk-cream"
	DefaultVoices            = 8
	DefaultSampleRate        = 44100
	DefaultBufferMillis      = 20
	DefaultQueueSize         = 256
	DefaultStopTimeoutMillis = 2000
	DefaultLogLevel          = "info"

	maxVoices = 64
)

// Settings is the complete application configuration.
type Settings struct {
	Pack     PackSettings     `toml:"pack"`
	Audio    AudioSettings    `toml:"audio"`
	Dispatch DispatchSettings `toml:"dispatch"`
	Log      LogSettings      `toml:"log"`
}

// PackSettings selects the sound pack.
type PackSettings struct {
	// Name is the pack directory name searched for on the default paths.
	Name string `toml:"name"`
	// Path is an explicit config.json path. When set, no search happens.
	Path string `toml:"path"`
	// SearchDirs are extra directories that may contain the pack directory.
	SearchDirs []string `toml:"searchDirs"`
}

// AudioSettings configures the output device and voice pool.
type AudioSettings struct {
	Voices       int  `toml:"voices"`
	SampleRate   int  `toml:"sampleRate"`
	BufferMillis int  `toml:"bufferMillis"`
	Mute         bool `toml:"mute"`
}

// DispatchSettings configures the key press queue.
type DispatchSettings struct {
	QueueSize         int `toml:"queueSize"`
	StopTimeoutMillis int `toml:"stopTimeoutMillis"`
}

// LogSettings configures logging.
type LogSettings struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultSettings returns the built-in defaults.
func DefaultSettings() Settings {
	return Settings{
		Pack: PackSettings{
			Name: DefaultPackName,
		},
		Audio: AudioSettings{
			Voices:       DefaultVoices,
			SampleRate:   DefaultSampleRate,
			BufferMillis: DefaultBufferMillis,
		},
		Dispatch: DispatchSettings{
			QueueSize:         DefaultQueueSize,
			StopTimeoutMillis: DefaultStopTimeoutMillis,
		},
		Log: LogSettings{
			Level: DefaultLogLevel,
		},
	}
}

// DefaultSettingsPath returns the per-user settings file location.
// Returns "" if the user config directory cannot be determined.
func DefaultSettingsPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "keyclack", "settings.toml")
}

// LoadSettings builds Settings from defaults, the settings file at path and
// KEYCLACK_* environment variables. If path is empty the default location
// is used and a missing file is not an error; an explicit path must exist.
func LoadSettings(fsys loader.FileSystem, path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsPath()
	}

	var fileCfg map[string]any
	if path != "" {
		if _, err := fsys.Stat(path); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Settings{}, fmt.Errorf("checking settings file %s: %w", path, err)
			}
			if explicit {
				return Settings{}, fmt.Errorf("%w: %s", ErrSettingsNotFound, path)
			}
		} else {
			fileCfg, err = loader.ForPath(fsys, path).Load()
			if err != nil {
				return Settings{}, err
			}
		}
	}

	envCfg, err := loader.NewEnvLoader(EnvPrefix, loader.WithValueKinds(settingKinds())).Load()
	if err != nil {
		return Settings{}, err
	}

	s := DefaultSettings()
	if err := decodeSettings(&s, fileCfg); err != nil {
		return Settings{}, &loader.ParseError{Path: path, Message: err.Error(), Err: err}
	}
	if err := decodeSettings(&s, envCfg); err != nil {
		return Settings{}, fmt.Errorf("applying environment overrides: %w", err)
	}
	return s, nil
}

// decodeSettings applies a configuration map on top of s. Keys absent
// from m keep their current values.
func decodeSettings(s *Settings, m map[string]any) error {
	if len(m) == 0 {
		return nil
	}

	data, err := toml.Marshal(m)
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, s)
}

// settingKinds maps every settings path to the type of its field so
// environment values are converted to what the field expects.
func settingKinds() map[string]loader.ValueKind {
	kinds := make(map[string]loader.ValueKind)
	collectKinds(reflect.TypeFor[Settings](), "", kinds)
	return kinds
}

func collectKinds(t reflect.Type, prefix string, kinds map[string]loader.ValueKind) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "" || name == "-" {
			continue
		}
		if prefix != "" {
			name = prefix + "." + name
		}

		switch f.Type.Kind() {
		case reflect.Struct:
			collectKinds(f.Type, name, kinds)
		case reflect.String:
			kinds[name] = loader.KindString
		case reflect.Bool:
			kinds[name] = loader.KindBool
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			kinds[name] = loader.KindInt
		case reflect.Float32, reflect.Float64:
			kinds[name] = loader.KindFloat
		case reflect.Slice:
			if f.Type.Elem().Kind() == reflect.String {
				kinds[name] = loader.KindStringList
			}
		}
	}
}

// Validate checks that all settings are usable.
func (s Settings) Validate() error {
	if s.Pack.Name == "" && s.Pack.Path == "" {
		return &ValidationError{Path: "pack.name", Message: "pack name or path is required", Value: "", Code: ErrCodeRequiredMissing}
	}
	if s.Audio.Voices < 1 || s.Audio.Voices > maxVoices {
		return &ValidationError{Path: "audio.voices", Message: fmt.Sprintf("must be between 1 and %d", maxVoices), Value: s.Audio.Voices, Code: ErrCodeOutOfRange}
	}
	if s.Audio.SampleRate < 8000 || s.Audio.SampleRate > 192000 {
		return &ValidationError{Path: "audio.sampleRate", Message: "must be between 8000 and 192000", Value: s.Audio.SampleRate, Code: ErrCodeOutOfRange}
	}
	if s.Audio.BufferMillis < 0 || s.Audio.BufferMillis > 1000 {
		return &ValidationError{Path: "audio.bufferMillis", Message: "must be between 0 and 1000", Value: s.Audio.BufferMillis, Code: ErrCodeOutOfRange}
	}
	if s.Dispatch.QueueSize < 1 {
		return &ValidationError{Path: "dispatch.queueSize", Message: "must be positive", Value: s.Dispatch.QueueSize, Code: ErrCodeOutOfRange}
	}
	if s.Dispatch.StopTimeoutMillis < 0 {
		return &ValidationError{Path: "dispatch.stopTimeoutMillis", Message: "must not be negative", Value: s.Dispatch.StopTimeoutMillis, Code: ErrCodeOutOfRange}
	}
	switch strings.ToLower(s.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log.level", Message: "must be debug, info, warn, or error", Value: s.Log.Level, Code: ErrCodeInvalidEnum}
	}
	return nil
}
