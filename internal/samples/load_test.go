package samples

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/dshills/keyclack/internal/config"
	"github.com/dshills/keyclack/internal/config/loader"
)

type debugLog struct {
	lines []string
}

func (l *debugLog) Debug(msg string, args ...any) {
	l.lines = append(l.lines, fmt.Sprintf(msg, args...))
}

func writeSample(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoad_SkipsNullDefines(t *testing.T) {
	dir := t.TempDir()
	writeSample(t, dir, "a.ogg", "OggS-a")

	pack, err := config.ParsePack("config.json", []byte(`{"defines":{"1":"a.ogg","2":null}}`))
	if err != nil {
		t.Fatal(err)
	}
	pack.Dir = dir

	s := Load(loader.DefaultFS(), pack, nil, nil)

	if got := s.IDs(); !slices.Equal(got, []string{"1"}) {
		t.Fatalf("IDs() = %v, want [1]", got)
	}
	if data, ok := s.Lookup("1"); !ok || string(data) != "OggS-a" {
		t.Errorf("Lookup(1) = %q, %v", data, ok)
	}
	if _, ok := s.Lookup("2"); ok {
		t.Error("null define should not be loaded")
	}
}

func TestLoad_ResolutionOrder(t *testing.T) {
	packDir := t.TempDir()
	rootA := t.TempDir()
	rootB := t.TempDir()

	writeSample(t, packDir, "q.wav", "pack")
	writeSample(t, rootA, "q.wav", "rootA")
	writeSample(t, rootA, "w.wav", "rootA")
	writeSample(t, rootB, "w.wav", "rootB")
	writeSample(t, rootB, "e.wav", "rootB")

	pack, err := config.ParsePack("config.json", []byte(`{"defines":{"1":"q.wav","2":"w.wav","3":"e.wav","5":"missing.wav"}}`))
	if err != nil {
		t.Fatal(err)
	}
	pack.Dir = packDir

	log := &debugLog{}
	s := Load(loader.DefaultFS(), pack, []string{rootA, rootB}, log)

	tests := []struct {
		id   string
		want string
	}{
		{"1", "pack"},
		{"2", "rootA"},
		{"3", "rootB"},
	}
	for _, tt := range tests {
		data, ok := s.Lookup(tt.id)
		if !ok || string(data) != tt.want {
			t.Errorf("Lookup(%s) = %q, %v; want %q", tt.id, data, ok, tt.want)
		}
	}

	if _, ok := s.Lookup("5"); ok {
		t.Error("missing sample should be skipped")
	}
	if got := s.IDs(); !slices.Equal(got, []string{"1", "2", "3"}) {
		t.Errorf("IDs() = %v, want document order", got)
	}

	var reported bool
	for _, line := range log.lines {
		if line == `sample "missing.wav" for key 5 not found` {
			reported = true
		}
	}
	if !reported {
		t.Errorf("missing sample not logged: %v", log.lines)
	}
}
