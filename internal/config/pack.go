package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/dshills/keyclack/internal/config/loader"
)

// PackConfigFile is the file name of a sound pack's config.
const PackConfigFile = "config.json"

// Pack is a parsed sound pack config.
type Pack struct {
	ID             string
	Name           string
	KeyDefineType  string
	IncludesNumpad bool
	// Defines lists the logical key entries in document order.
	Defines []Define

	// Path is the config file the pack was read from.
	Path string
	// Dir is the directory containing Path; sample names resolve against it first.
	Dir string
}

// Define maps one logical key to a sample file.
type Define struct {
	Key string
	// File is empty when the entry is null or not a file name.
	File string
}

// HasFile reports whether the define references a sample file.
func (d Define) HasFile() bool {
	return d.File != ""
}

// SearchRoots returns the ordered directories that may hold the pack
// called name. The built-in relative locations come first, followed by
// name inside each extra directory.
func SearchRoots(name string, extra []string) []string {
	roots := []string{
		name,
		filepath.Join("..", name),
		filepath.Join("keyclack", name),
	}
	for _, dir := range extra {
		if dir != "" {
			roots = append(roots, filepath.Join(dir, name))
		}
	}
	return roots
}

// FindPack returns the path of the pack config to use. An explicit path
// must exist; otherwise the first existing config under SearchRoots wins.
func FindPack(fsys loader.FileSystem, name, explicit string, extra []string) (string, error) {
	if explicit != "" {
		if _, err := fsys.Stat(explicit); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", &PackNotFoundError{Name: name, Searched: []string{explicit}}
			}
			return "", fmt.Errorf("checking pack config %s: %w", explicit, err)
		}
		return explicit, nil
	}

	roots := SearchRoots(name, extra)
	searched := make([]string, 0, len(roots))
	for _, root := range roots {
		candidate := filepath.Join(root, PackConfigFile)
		searched = append(searched, candidate)
		if info, err := fsys.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return "", &PackNotFoundError{Name: name, Searched: searched}
}

// LoadPack reads and parses the pack config at path.
func LoadPack(fsys loader.FileSystem, path string) (*Pack, error) {
	data, err := fsys.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &PackNotFoundError{Searched: []string{path}}
		}
		return nil, fmt.Errorf("reading pack config %s: %w", path, err)
	}

	p, err := ParsePack(path, data)
	if err != nil {
		return nil, err
	}
	p.Path = path
	p.Dir = filepath.Dir(path)
	return p, nil
}

// ParsePack parses a pack config document. Null and non-string define
// values are kept as entries without a file.
func ParsePack(source string, data []byte) (*Pack, error) {
	if !gjson.ValidBytes(data) {
		return nil, &loader.ParseError{Path: source, Message: "invalid JSON"}
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, &loader.ParseError{Path: source, Message: "pack config must be a JSON object"}
	}

	defines := doc.Get("defines")
	if !defines.IsObject() {
		return nil, &loader.ParseError{Path: source, Message: `"defines" must be an object`}
	}

	p := &Pack{
		ID:             doc.Get("id").String(),
		Name:           doc.Get("name").String(),
		KeyDefineType:  doc.Get("key_define_type").String(),
		IncludesNumpad: doc.Get("includes_numpad").Bool(),
	}

	defines.ForEach(func(k, v gjson.Result) bool {
		d := Define{Key: k.String()}
		if v.Type == gjson.String {
			d.File = v.String()
		}
		p.Defines = append(p.Defines, d)
		return true
	})

	return p, nil
}

// FileCount returns the number of defines that reference a sample file.
func (p *Pack) FileCount() int {
	n := 0
	for _, d := range p.Defines {
		if d.HasFile() {
			n++
		}
	}
	return n
}
