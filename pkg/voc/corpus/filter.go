package corpus

import (
	"strings"
	"time"
)

// ScopeFilter selects the records that fall inside a collection scope.
// Zero fields do not filter.
type ScopeFilter struct {
	Keywords      []string // any keyword, case-insensitive, in title or text
	MinScore      int
	MinTextLength int
	After         time.Time
	Before        time.Time
	Groups        []string // allowed subreddits / channels, case-insensitive
}

// Filter returns the records accepted by f, in input order.
func Filter(records []Record, f ScopeFilter) []Record {
	keywords := lowerAll(f.Keywords)
	groups := make(map[string]struct{}, len(f.Groups))
	for _, g := range lowerAll(f.Groups) {
		groups[g] = struct{}{}
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.MinScore > 0 && r.Score < f.MinScore {
			continue
		}
		if f.MinTextLength > 0 && len([]rune(r.Text)) < f.MinTextLength {
			continue
		}
		if !r.CreatedAt.IsZero() {
			if !f.After.IsZero() && r.CreatedAt.Before(f.After) {
				continue
			}
			if !f.Before.IsZero() && r.CreatedAt.After(f.Before) {
				continue
			}
		}
		if len(groups) > 0 {
			if _, ok := groups[strings.ToLower(r.Group)]; !ok {
				continue
			}
		}
		if len(keywords) > 0 && !containsAny(strings.ToLower(r.Title+" "+r.Text), keywords) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
