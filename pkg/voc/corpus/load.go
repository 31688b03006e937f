package corpus

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/cognicore/voc/pkg/voc/internalerr"
)

// wrapperKeys are the object members that may hold a record list.
var wrapperKeys = []string{"posts", "discussions", "videos", "records", "items", "data", "reviews", "comments"}

// Options controls how a corpus is read.
type Options struct {
	// Source labels every record. Defaults to the file name without extension.
	Source string
	// TextFields overrides DefaultTextFields for picking the record text.
	TextFields []string
	// StripHTML removes markup from the selected text.
	StripHTML bool
	Logger    *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Load reads records from a JSON array, a JSON object wrapping a record list
// (posts, discussions, videos, ...), a JSONL file, a plain text file, or a
// directory of transcripts.
func Load(path string, opts Options) ([]Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if opts.Source == "" {
		opts.Source = sourceName(path)
	}

	var records []Record
	switch {
	case info.IsDir():
		records, err = loadDir(path, opts)
	case strings.EqualFold(filepath.Ext(path), ".jsonl"):
		records, err = loadJSONL(path, opts)
	case strings.EqualFold(filepath.Ext(path), ".txt"):
		records, err = loadText(path, opts)
	default:
		records, err = loadJSON(path, opts)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no records found in %s", internalerr.ErrEmptyCorpus, path)
	}

	for i := range records {
		finish(&records[i], opts)
	}
	return records, nil
}

func finish(r *Record, opts Options) {
	if len(opts.TextFields) > 0 {
		r.Text = r.TextFrom(opts.TextFields...)
	}
	if opts.StripHTML {
		r.Text = StripHTML(r.Text)
		r.Title = StripHTML(r.Title)
	}
}

func sourceName(path string) string {
	base := filepath.Base(filepath.Clean(path))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func loadJSONL(path string, opts Options) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var records []Record
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(line), &m); err != nil {
			opts.logger().Warn("skipping malformed JSON line",
				zap.String("path", path), zap.Int("line", i+1), zap.Error(err))
			continue
		}
		records = append(records, fromMap(m, opts.Source, len(records)))
	}
	return records, nil
}

func loadJSON(path string, opts Options) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	var list []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &list); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(data, &obj); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		raw, ok := wrapped(obj)
		if !ok {
			return nil, fmt.Errorf("%w: %s has none of %v", internalerr.ErrInvalidInput, path, wrapperKeys)
		}
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s is not a JSON array or object", internalerr.ErrInvalidInput, path)
	}

	records := make([]Record, 0, len(list))
	for i, raw := range list {
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			opts.logger().Warn("skipping non-object element",
				zap.String("path", path), zap.Int("index", i), zap.Error(err))
			continue
		}
		if m == nil {
			continue
		}
		records = append(records, fromMap(m, opts.Source, len(records)))
	}
	return records, nil
}

func wrapped(obj map[string]json.RawMessage) (json.RawMessage, bool) {
	for _, k := range wrapperKeys {
		if raw, ok := obj[k]; ok {
			return raw, true
		}
	}
	return nil, false
}

func loadText(path string, opts Options) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	name := sourceName(path)
	return []Record{{
		ID:     name,
		Source: opts.Source,
		Title:  name,
		Text:   text,
		Fields: map[string]any{"text": text},
	}}, nil
}

// loadDir reads transcript folders when present, otherwise every .txt file.
func loadDir(path string, opts Options) ([]Record, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", path, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if _, err := os.Stat(filepath.Join(path, e.Name(), transcriptFile)); err == nil {
				return LoadTranscriptDirs(path, opts)
			}
		}
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".txt") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var records []Record
	for _, n := range names {
		recs, err := loadText(filepath.Join(path, n), opts)
		if err != nil {
			return nil, err
		}
		records = append(records, recs...)
	}
	return records, nil
}
