package loader

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ValueKind is the type an environment value is converted to before it
// reaches the configuration map.
type ValueKind uint8

const (
	// KindAuto guesses the type from the value. Used for unknown paths.
	KindAuto ValueKind = iota
	KindString
	KindBool
	KindInt
	KindFloat
	// KindStringList accepts a JSON array or an OS path list.
	KindStringList
)

// EnvLoader loads configuration from environment variables.
type EnvLoader struct {
	prefix  string               // Environment variable prefix (e.g., "KEYCLACK_")
	mapping map[string]string    // Env var -> config path
	kinds   map[string]ValueKind // Config path -> value type
}

// EnvOption configures an EnvLoader.
type EnvOption func(*EnvLoader)

// WithValueKinds sets the destination type of each config path. Values
// for listed paths are converted strictly; a value that does not fit is
// reported as an *EnvError.
func WithValueKinds(kinds map[string]ValueKind) EnvOption {
	return func(l *EnvLoader) {
		l.kinds = kinds
	}
}

// NewEnvLoader creates a new environment variable loader.
// The prefix should include the trailing underscore (e.g., "KEYCLACK_").
func NewEnvLoader(prefix string, opts ...EnvOption) *EnvLoader {
	l := &EnvLoader{
		prefix:  prefix,
		mapping: defaultEnvMapping(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// defaultEnvMapping returns the shorthand variables that do not follow
// the SECTION_SETTING naming scheme.
func defaultEnvMapping() map[string]string {
	return map[string]string{
		"KEYCLACK_LOG_LEVEL": "log.level",
		"KEYCLACK_LOG_FILE":  "log.file",
		"KEYCLACK_PACK":      "pack.path",
		"KEYCLACK_VOICES":    "audio.voices",
		"KEYCLACK_MUTE":      "audio.mute",
	}
}

// Load reads environment variables and returns a configuration map.
// Empty values are kept for string settings and ignored for typed ones.
func (l *EnvLoader) Load() (map[string]any, error) {
	config := make(map[string]any)

	for _, env := range os.Environ() {
		name, raw, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}

		path, mapped := l.mapping[name]
		if !mapped {
			path = l.envToPath(name)
		}

		kind := l.kinds[path]
		if raw == "" && kind != KindString && kind != KindAuto {
			continue
		}

		value, err := l.convert(kind, raw)
		if err != nil {
			return nil, &EnvError{Var: name, Path: path, Value: raw, Err: err}
		}
		setByPath(config, path, value)
	}

	return config, nil
}

// envToPath converts KEYCLACK_AUDIO_SAMPLE_RATE to audio.sampleRate.
func (l *EnvLoader) envToPath(env string) string {
	name := strings.TrimPrefix(env, l.prefix)

	parts := strings.Split(name, "_")
	if len(parts) == 1 {
		return strings.ToLower(name)
	}

	section := strings.ToLower(parts[0])
	setting := strings.ToLower(parts[1])
	for _, part := range parts[2:] {
		if part != "" {
			setting += strings.ToUpper(part[:1]) + strings.ToLower(part[1:])
		}
	}

	return section + "." + setting
}

func (l *EnvLoader) convert(kind ValueKind, s string) (any, error) {
	switch kind {
	case KindString:
		return s, nil
	case KindBool:
		return parseBool(s)
	case KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
		if err != nil {
			return nil, errors.New("not an integer")
		}
		return i, nil
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil, errors.New("not a number")
		}
		return f, nil
	case KindStringList:
		return parseList(s)
	default:
		return l.parseValue(s), nil
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "t", "true", "yes", "on":
		return true, nil
	case "0", "f", "false", "no", "off":
		return false, nil
	}
	return false, errors.New("not a boolean")
}

func parseList(s string) ([]string, error) {
	if strings.HasPrefix(strings.TrimSpace(s), "[") {
		var list []string
		if err := json.Unmarshal([]byte(s), &list); err != nil {
			return nil, fmt.Errorf("invalid list: %w", err)
		}
		return list, nil
	}
	return filepath.SplitList(s), nil
}

// parseValue attempts to parse the string value into an appropriate type.
// Integers win over booleans so that "1" stays a number.
func (l *EnvLoader) parseValue(s string) any {
	if s == "" {
		return s
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}

	switch strings.ToLower(s) {
	case "true", "yes", "on":
		return true
	case "false", "no", "off":
		return false
	}

	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}

	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") {
		var v any
		if err := json.Unmarshal([]byte(s), &v); err != nil {
			return s
		}
		return v
	}

	return s
}

// setByPath sets a value in a nested map using a dot-separated path.
func setByPath(data map[string]any, path string, value any) {
	parts := strings.Split(path, ".")
	current := data

	for i := 0; i < len(parts)-1; i++ {
		part := parts[i]
		if next, ok := current[part].(map[string]any); ok {
			current = next
		} else {
			next := make(map[string]any)
			current[part] = next
			current = next
		}
	}

	current[parts[len(parts)-1]] = value
}
