// Package themes loads the topic catalog used to prompt the model and to check its answers.
// The default catalog is embedded; an operator may point CORE_THEMES_PATH at a replacement file
package themes

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embedded []byte

// Theme is one topic the model may attach to a review
type Theme struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

type rawCatalog struct {
	Version int     `yaml:"version"`
	System  string  `yaml:"system"`
	Themes  []Theme `yaml:"themes"`
}

// Catalog is a validated, ordered theme list plus the system instruction sent with every prompt
type Catalog struct {
	Version int
	System  string
	Themes  []Theme
}

var (
	defOnce sync.Once
	defCat  *Catalog
	defErr  error
)

// Default returns the embedded catalog, parsed once
func Default() (*Catalog, error) {
	defOnce.Do(func() { defCat, defErr = Parse(embedded) })
	return defCat, defErr
}

// Load reads a catalog file; an empty path yields the embedded default
func Load(path string) (*Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("themes: read %s: %w", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("themes: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog
func Parse(b []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(raw.Themes) == 0 {
		return nil, fmt.Errorf("catalog has no themes")
	}

	seen := make(map[string]struct{}, len(raw.Themes))
	out := make([]Theme, 0, len(raw.Themes))
	for i, t := range raw.Themes {
		// labels are matched byte for byte later, so only outer blanks are forgiven
		t.Name = strings.TrimSpace(t.Name)
		t.Description = strings.TrimSpace(t.Description)
		if t.Name == "" {
			return nil, fmt.Errorf("theme %d has no name", i)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("duplicate theme %q", t.Name)
		}
		seen[t.Name] = struct{}{}
		out = append(out, t)
	}

	return &Catalog{
		Version: raw.Version,
		System:  strings.TrimSpace(raw.System),
		Themes:  out,
	}, nil
}

// Labels returns the theme names in catalog order
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.Themes))
	for i, t := range c.Themes {
		out[i] = t.Name
	}
	return out
}
