package corpus

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/voc/pkg/voc/internalerr"
)

// SourceSpec names one input: name=path[@field,field].
type SourceSpec struct {
	Name   string
	Path   string
	Fields []string
}

// ParseSourceSpec parses name=path[@field,field]. Without "name=" the name
// is the file name. A name never contains a path separator and the field
// list is only split off the last path element.
func ParseSourceSpec(s string) (SourceSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SourceSpec{}, fmt.Errorf("%w: empty source", internalerr.ErrInvalidInput)
	}
	var spec SourceSpec
	if name, rest, ok := strings.Cut(s, "="); ok && !strings.ContainsAny(name, `/\`) {
		spec.Name = strings.TrimSpace(name)
		s = rest
	}
	// field lists follow the file name, so an @ inside a directory is kept
	base := strings.LastIndexAny(s, `/\`) + 1
	if at := strings.IndexByte(s[base:], '@'); at >= 0 {
		fields := s[base+at+1:]
		s = s[:base+at]
		for _, f := range strings.Split(fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				spec.Fields = append(spec.Fields, f)
			}
		}
	}
	spec.Path = strings.TrimSpace(s)
	if spec.Path == "" {
		return SourceSpec{}, fmt.Errorf("%w: source %q has no path", internalerr.ErrInvalidInput, s)
	}
	if spec.Name == "" {
		spec.Name = sourceName(spec.Path)
	}
	return spec, nil
}

// Source is a loaded input.
type Source struct {
	Spec     SourceSpec
	Records  []Record
	Manifest Manifest
}

// LoadSources loads every spec concurrently. Results keep spec order; the
// first failure cancels the remaining loads.
func LoadSources(ctx context.Context, specs []SourceSpec, opts Options) ([]Source, error) {
	out := make([]Source, len(specs))
	g, ctx := errgroup.WithContext(ctx)
	for i, spec := range specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			o := opts
			o.Source = spec.Name
			if len(spec.Fields) > 0 {
				o.TextFields = spec.Fields
			}
			records, err := Load(spec.Path, o)
			if err != nil {
				return fmt.Errorf("source %s: %w", spec.Name, err)
			}
			out[i] = Source{
				Spec:     spec,
				Records:  records,
				Manifest: BuildManifest(spec.Name, records),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Texts returns the record texts in order.
func Texts(records []Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Text
	}
	return out
}
