// Package corpus loads free-text records from exported social, video and
// interview datasets.
package corpus

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// DefaultTextFields is the field fallback order used to pick a record's text.
var DefaultTextFields = []string{"text", "selftext", "body", "description", "transcript", "caption", "title"}

// Record is one document of a corpus.
type Record struct {
	ID          string         `json:"id"`
	Source      string         `json:"source"`
	URL         string         `json:"url,omitempty"`
	Author      string         `json:"author,omitempty"`
	Title       string         `json:"title,omitempty"`
	Text        string         `json:"text"`
	Group       string         `json:"group,omitempty"` // subreddit, channel
	Score       int            `json:"score,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	Participant string         `json:"participant,omitempty"`
	Activity    string         `json:"activity,omitempty"`
	Comments    []Comment      `json:"comments,omitempty"`
	Fields      map[string]any `json:"-"`
}

// Comment is a reply nested under a discussion record.
type Comment struct {
	ID        string    `json:"id"`
	Author    string    `json:"author,omitempty"`
	Body      string    `json:"body"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// Field returns the raw field as a string. Numbers are formatted without
// exponent; missing and null fields are "".
func (r Record) Field(name string) string {
	if r.Fields == nil {
		return ""
	}
	v, ok := r.Fields[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// FirstField returns the first non-blank field among names.
func (r Record) FirstField(names ...string) string {
	for _, n := range names {
		if v := strings.TrimSpace(r.Field(n)); v != "" {
			return v
		}
	}
	return ""
}

// TextFrom returns the first non-empty text field, for example
// TextFrom("selftext", "title") for Reddit exports. The typed Text and Title
// are consulted for the names "text" and "title" when Fields lacks them.
func (r Record) TextFrom(fields ...string) string {
	for _, n := range fields {
		v := strings.TrimSpace(r.Field(n))
		if v == "" {
			switch n {
			case "text":
				v = strings.TrimSpace(r.Text)
			case "title":
				v = strings.TrimSpace(r.Title)
			}
		}
		if v != "" {
			return v
		}
	}
	return ""
}

// fromMap builds a Record from a decoded JSON object.
func fromMap(m map[string]any, source string, index int) Record {
	r := Record{Source: source, Fields: m}
	r.ID = r.FirstField("id", "post_id", "video_id", "review_id")
	if r.ID == "" {
		r.ID = source + ":" + strconv.Itoa(index)
	}
	r.URL = r.FirstField("url", "post_url", "video_url", "permalink")
	r.Author = r.FirstField("author", "channel_name", "profile_username", "user_posted")
	r.Title = r.FirstField("title")
	r.Text = r.FirstField(DefaultTextFields...)
	r.Group = r.FirstField("subreddit", "channel_name", "community")
	r.Score = intField(m, "score", "likes", "num_likes", "views")
	r.CreatedAt = timeField(m, "created_utc", "created_at", "published_at", "date_posted")
	r.Comments = commentsOf(m["comments"])
	if len(r.Comments) > 0 {
		r.Text = discussionText(r)
	}
	return r
}

// commentsOf reads a nested comment list; non-object entries are dropped.
func commentsOf(v any) []Comment {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []Comment
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		c := Comment{
			ID:        firstString(m, "id", "comment_id"),
			Author:    firstString(m, "author"),
			Body:      firstString(m, "body", "text"),
			Score:     intField(m, "score", "likes", "ups"),
			CreatedAt: timeField(m, "created_utc", "created_at"),
		}
		if c.ID == "" {
			c.ID = strconv.Itoa(i)
		}
		out = append(out, c)
	}
	return out
}

// discussionText joins the title, the post body and every comment body.
func discussionText(r Record) string {
	parts := []string{r.Title}
	if body := r.FirstField("selftext", "body", "text"); body != "" && body != r.Title {
		parts = append(parts, body)
	}
	for _, c := range r.Comments {
		parts = append(parts, c.Body)
	}
	var b strings.Builder
	for _, p := range parts {
		if p = strings.TrimSpace(p); p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(p)
	}
	return b.String()
}

func firstString(m map[string]any, names ...string) string {
	for _, n := range names {
		if s, ok := m[n].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

func intField(m map[string]any, names ...string) int {
	for _, n := range names {
		switch v := m[n].(type) {
		case float64:
			return int(v)
		case string:
			if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return i
			}
		}
	}
	return 0
}

var timeLayouts = []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}

func timeField(m map[string]any, names ...string) time.Time {
	for _, n := range names {
		switch v := m[n].(type) {
		case float64:
			if v > 0 {
				return time.Unix(int64(v), 0).UTC()
			}
		case string:
			for _, layout := range timeLayouts {
				if t, err := time.Parse(layout, strings.TrimSpace(v)); err == nil {
					return t.UTC()
				}
			}
		}
	}
	return time.Time{}
}
