package corpus

import "math"

// minTextChars is the length a text must exceed to count as present.
const minTextChars = 20

// Manifest summarizes a loaded dataset's completeness.
type Manifest struct {
	Source              string  `json:"source"`
	TotalRecords        int     `json:"total_records"`
	RecordsWithURL      int     `json:"records_with_urls"`
	RecordsWithText     int     `json:"records_with_text"`
	RecordsWithAuthor   int     `json:"records_with_author"`
	CompletenessPercent float64 `json:"completeness_percent"`
}

// BuildManifest counts URL, text and author coverage. Completeness is the
// share of records with a URL, to one decimal place.
func BuildManifest(source string, records []Record) Manifest {
	m := Manifest{Source: source, TotalRecords: len(records)}
	for _, r := range records {
		if r.URL != "" {
			m.RecordsWithURL++
		}
		if len([]rune(r.Text)) > minTextChars {
			m.RecordsWithText++
		}
		if r.Author != "" {
			m.RecordsWithAuthor++
		}
	}
	if m.TotalRecords > 0 {
		pct := float64(m.RecordsWithURL) / float64(m.TotalRecords) * 100
		m.CompletenessPercent = math.Round(pct*10) / 10
	}
	return m
}
