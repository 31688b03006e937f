package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/patterns"
	"github.com/cognicore/voc/pkg/voc/theme"
)

// ThemeDef is one theme as written in YAML.
type ThemeDef struct {
	Category string   `yaml:"category"`
	Patterns []string `yaml:"patterns"`
}

// Themes is the theme dictionary configuration.
type Themes struct {
	Themes map[string]ThemeDef `yaml:"themes"`
}

// LoadThemes loads theme definitions from a YAML file
func LoadThemes(path string) (*Themes, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseThemes(data)
}

func parseThemes(data []byte) (*Themes, error) {
	var t Themes
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, err
	}
	if len(t.Themes) == 0 {
		return nil, fmt.Errorf("%w: no themes defined", internalerr.ErrInvalidConfig)
	}
	return &t, nil
}

// Compile validates categories and compiles the patterns.
func (t *Themes) Compile() (*theme.Dictionary, error) {
	defs := make(map[string][]string, len(t.Themes))
	labels := make(map[string]theme.Category, len(t.Themes))
	for name, d := range t.Themes {
		c, err := theme.ParseCategory(d.Category)
		if err != nil {
			return nil, fmt.Errorf("theme %q: %w", name, err)
		}
		defs[name] = d.Patterns
		labels[name] = c
	}
	set, err := patterns.Compile(defs)
	if err != nil {
		return nil, err
	}
	return theme.NewDictionary(set, labels)
}
