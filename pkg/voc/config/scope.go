package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/cognicore/voc/pkg/voc/corpus"
	"github.com/cognicore/voc/pkg/voc/internalerr"
)

// DateLayout is the date format used in scope files.
const DateLayout = "2006-01-02"

// Scope is a project's collection scope: one section per platform.
//
//	{"project": "garage-organizer",
//	 "reddit": {"keywords": ["garage hooks"], "subreddits": ["DIY"],
//	            "sample_size_target": {"posts": 500}, "min_score": 10}}
type Scope struct {
	Project   string
	Platforms map[string]Platform
}

// Platform is the scope of one platform.
type Platform struct {
	Keywords         []string       `json:"keywords"`
	Subreddits       []string       `json:"subreddits,omitempty"`
	Channels         []string       `json:"channels,omitempty"`
	SampleSizeTarget map[string]int `json:"sample_size_target,omitempty"`
	MinScore         int            `json:"min_score,omitempty"`
	MinTextLength    int            `json:"min_text_length,omitempty"`
	DateRange        DateRange      `json:"date_range"`
}

// DateRange bounds record creation dates, inclusive, as YYYY-MM-DD.
type DateRange struct {
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
}

// LoadScope reads a JSON scope definition.
func LoadScope(path string) (*Scope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Scope
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse scope %s: %w", path, err)
	}
	return &s, nil
}

// UnmarshalJSON reads "project" and treats every other object member as a
// platform section.
func (s *Scope) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Platforms = make(map[string]Platform)
	for key, msg := range raw {
		if key == "project" {
			if err := json.Unmarshal(msg, &s.Project); err != nil {
				return fmt.Errorf("project: %w", err)
			}
			continue
		}
		trimmed := strings.TrimSpace(string(msg))
		if !strings.HasPrefix(trimmed, "{") {
			continue
		}
		var p Platform
		if err := json.Unmarshal(msg, &p); err != nil {
			return fmt.Errorf("platform %s: %w", key, err)
		}
		s.Platforms[strings.ToLower(key)] = p
	}
	return nil
}

// Platform returns the section for name, case-insensitively.
func (s *Scope) Platform(name string) (Platform, bool) {
	if s == nil {
		return Platform{}, false
	}
	p, ok := s.Platforms[strings.ToLower(name)]
	return p, ok
}

// PlatformNames lists the configured platforms in name order.
func (s *Scope) PlatformNames() []string {
	names := make([]string, 0, len(s.Platforms))
	for n := range s.Platforms {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Target returns the sample size target for a unit ("posts", "videos").
func (p Platform) Target(unit string) int {
	return p.SampleSizeTarget[unit]
}

// Filter converts the platform section into a record filter.
func (p Platform) Filter() (corpus.ScopeFilter, error) {
	f := corpus.ScopeFilter{
		Keywords:      p.Keywords,
		MinScore:      p.MinScore,
		MinTextLength: p.MinTextLength,
		Groups:        append(append([]string(nil), p.Subreddits...), p.Channels...),
	}
	var err error
	if p.DateRange.Start != "" {
		if f.After, err = time.Parse(DateLayout, p.DateRange.Start); err != nil {
			return corpus.ScopeFilter{}, fmt.Errorf("%w: date_range.start %q", internalerr.ErrInvalidConfig, p.DateRange.Start)
		}
	}
	if p.DateRange.End != "" {
		end, err := time.Parse(DateLayout, p.DateRange.End)
		if err != nil {
			return corpus.ScopeFilter{}, fmt.Errorf("%w: date_range.end %q", internalerr.ErrInvalidConfig, p.DateRange.End)
		}
		// inclusive of the whole end day
		f.Before = end.Add(24*time.Hour - time.Nanosecond)
	}
	return f, nil
}
