package samples

import (
	"path/filepath"

	"github.com/dshills/keyclack/internal/config"
	"github.com/dshills/keyclack/internal/config/loader"
)

// Logger is the logging used while loading samples.
type Logger interface {
	Debug(msg string, args ...any)
}

// Load reads the sample files a pack defines.
//
// Each file name is tried in the pack directory first and then in every
// directory of roots; the first readable file wins. Defines without a file
// and files that cannot be read anywhere are skipped.
func Load(fsys loader.FileSystem, pack *config.Pack, roots []string, logger Logger) *Store {
	dirs := make([]string, 0, len(roots)+1)
	dirs = append(dirs, pack.Dir)
	dirs = append(dirs, roots...)

	entries := make([]Entry, 0, len(pack.Defines))
	for _, d := range pack.Defines {
		if !d.HasFile() {
			continue
		}

		data, path, ok := readFirst(fsys, dirs, d.File)
		if !ok {
			if logger != nil {
				logger.Debug("sample %q for key %s not found", d.File, d.Key)
			}
			continue
		}
		if logger != nil {
			logger.Debug("loaded sample %s for key %s", path, d.Key)
		}
		entries = append(entries, Entry{ID: d.Key, Data: data})
	}

	return NewStore(entries)
}

func readFirst(fsys loader.FileSystem, dirs []string, name string) ([]byte, string, bool) {
	for _, dir := range dirs {
		path := filepath.Join(dir, name)
		data, err := fsys.ReadFile(path)
		if err == nil {
			return data, path, true
		}
	}
	return nil, "", false
}
