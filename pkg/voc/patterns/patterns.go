package patterns

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/cognicore/voc/pkg/voc/internalerr"
)

// Set maps category labels to the regular expressions that signal them.
// All expressions are matched case-insensitively. A compiled Set is safe
// for concurrent use.
type Set struct {
	categories []category
	index      map[string]int
}

type category struct {
	name     string
	exprs    []string
	patterns []*regexp.Regexp
}

// Hit is one regex match inside a text.
type Hit struct {
	Category string
	Pattern  string
	Start    int // byte offset into the matched text
	End      int
	Match    string
}

// Compile builds a Set from category → expressions. Categories are kept in
// name order so every report built from the Set is deterministic.
func Compile(defs map[string][]string) (*Set, error) {
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &Set{index: make(map[string]int, len(names))}
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: empty category name", internalerr.ErrInvalidConfig)
		}
		compiled, err := CompileAll(name, defs[name])
		if err != nil {
			return nil, err
		}
		s.index[name] = len(s.categories)
		s.categories = append(s.categories, category{
			name:     name,
			exprs:    append([]string(nil), defs[name]...),
			patterns: compiled,
		})
	}
	return s, nil
}

// CompileAll compiles a list of expressions belonging to one label.
func CompileAll(label string, exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := CompileOne(expr)
		if err != nil {
			return nil, fmt.Errorf("%w: category %q pattern %q: %v", internalerr.ErrInvalidConfig, label, expr, err)
		}
		out = append(out, re)
	}
	return out, nil
}

// CompileOne compiles a single case-insensitive expression.
func CompileOne(expr string) (*regexp.Regexp, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty pattern")
	}
	return regexp.Compile("(?i)" + expr)
}

// Categories returns the category names in match order.
func (s *Set) Categories() []string {
	out := make([]string, len(s.categories))
	for i, c := range s.categories {
		out[i] = c.name
	}
	return out
}

// Len returns the number of categories.
func (s *Set) Len() int { return len(s.categories) }

// Expressions returns the source expressions of a category.
func (s *Set) Expressions(name string) ([]string, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return append([]string(nil), s.categories[i].exprs...), true
}

// Present lists each category with at least one matching pattern. A category
// is reported once per text no matter how many of its patterns fire.
func (s *Set) Present(text string) []string {
	if text == "" {
		return nil
	}
	var found []string
	for _, c := range s.categories {
		for _, re := range c.patterns {
			if re.MatchString(text) {
				found = append(found, c.name)
				break
			}
		}
	}
	return found
}

// FindAll returns every non-overlapping match of every pattern, grouped by
// category then pattern, in text order within a pattern.
func (s *Set) FindAll(text string) []Hit {
	if text == "" {
		return nil
	}
	var hits []Hit
	for _, c := range s.categories {
		for i, re := range c.patterns {
			for _, loc := range re.FindAllStringIndex(text, -1) {
				hits = append(hits, Hit{
					Category: c.name,
					Pattern:  c.exprs[i],
					Start:    loc[0],
					End:      loc[1],
					Match:    text[loc[0]:loc[1]],
				})
			}
		}
	}
	return hits
}

// Group buckets hits by category.
func Group(hits []Hit) map[string][]Hit {
	out := make(map[string][]Hit)
	for _, h := range hits {
		out[h.Category] = append(out[h.Category], h)
	}
	return out
}

// PatternCoverage is how many documents one expression matched.
type PatternCoverage struct {
	Category string `json:"category"`
	Pattern  string `json:"pattern"`
	Docs     int    `json:"docs"`
}

// Coverage counts, per expression, the texts it matches. Expressions that
// match nothing are dictionary entries the corpus no longer uses.
func (s *Set) Coverage(texts []string) []PatternCoverage {
	var out []PatternCoverage
	for _, c := range s.categories {
		for i, re := range c.patterns {
			pc := PatternCoverage{Category: c.name, Pattern: c.exprs[i]}
			for _, text := range texts {
				if text != "" && re.MatchString(text) {
					pc.Docs++
				}
			}
			out = append(out, pc)
		}
	}
	return out
}

// Unused filters coverage down to expressions with no matches.
func Unused(cov []PatternCoverage) []PatternCoverage {
	var out []PatternCoverage
	for _, c := range cov {
		if c.Docs == 0 {
			out = append(out, c)
		}
	}
	return out
}
