package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/voc/pkg/voc/internalerr"
	"github.com/cognicore/voc/pkg/voc/ladder"
	"github.com/cognicore/voc/pkg/voc/patterns"
	"github.com/cognicore/voc/pkg/voc/priority"
)

const defaultRungWindow = 80

// Rung is one ladder definition as written in YAML.
type Rung struct {
	Name            string   `yaml:"name"`
	Window          int      `yaml:"window"`
	Patterns        []string `yaml:"patterns"`
	ProblemKeywords []string `yaml:"problem_keywords,omitempty"`
	Pain            string   `yaml:"pain,omitempty"`
	Satisfaction    string   `yaml:"satisfaction,omitempty"`
}

// Ladder is the jobs / problems / aspirations configuration.
type Ladder struct {
	Jobs        []Rung `yaml:"jobs"`
	Problems    []Rung `yaml:"problems"`
	Aspirations []Rung `yaml:"aspirations"`
}

// LoadLadder loads ladder definitions from a YAML file
func LoadLadder(path string) (*Ladder, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseLadder(data)
}

func parseLadder(data []byte) (*Ladder, error) {
	var l Ladder
	if err := yaml.Unmarshal(data, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// Compile turns the YAML definitions into extractor rules.
func (l *Ladder) Compile() (ladder.Rules, error) {
	var rules ladder.Rules
	var err error
	if rules.Jobs, err = compileRungs("job", l.Jobs, false); err != nil {
		return ladder.Rules{}, err
	}
	if rules.Problems, err = compileRungs("problem", l.Problems, true); err != nil {
		return ladder.Rules{}, err
	}
	if rules.Aspirations, err = compileRungs("aspiration", l.Aspirations, false); err != nil {
		return ladder.Rules{}, err
	}
	return rules, nil
}

func compileRungs(kind string, defs []Rung, rated bool) ([]ladder.Rung, error) {
	out := make([]ladder.Rung, 0, len(defs))
	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("%w: %s without a name", internalerr.ErrInvalidConfig, kind)
		}
		res, err := patterns.CompileAll(d.Name, d.Patterns)
		if err != nil {
			return nil, err
		}
		window := d.Window
		if window <= 0 {
			window = defaultRungWindow
		}
		r := ladder.Rung{
			Name:     d.Name,
			Window:   window,
			Patterns: res,
			Keywords: d.ProblemKeywords,
		}
		if rated {
			if r.Pain, err = parseLevel(d.Pain); err != nil {
				return nil, fmt.Errorf("%s %q pain: %w", kind, d.Name, err)
			}
			if r.Satisfaction, err = parseLevel(d.Satisfaction); err != nil {
				return nil, fmt.Errorf("%s %q satisfaction: %w", kind, d.Name, err)
			}
		}
		out = append(out, r)
	}
	return out, nil
}

func parseLevel(s string) (priority.Level, error) {
	switch priority.Level(s) {
	case priority.High, priority.Medium, priority.Low:
		return priority.Level(s), nil
	}
	return "", fmt.Errorf("%w: level %q (want High, Medium or Low)", internalerr.ErrInvalidConfig, s)
}
