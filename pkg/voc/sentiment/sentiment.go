package sentiment

import "strings"

// DefaultWindow is how many characters on each side of a match are read.
const DefaultWindow = 100

// Polarity is the naive sentiment of a mention.
type Polarity string

const (
	Positive Polarity = "positive"
	Negative Polarity = "negative"
	Neutral  Polarity = "neutral"
)

// Lexicon scores text by the presence of positive and negative cue phrases.
type Lexicon struct {
	positive []string
	negative []string
	window   int
}

// NewLexicon builds a lexicon; cue phrases are lowercased and deduplicated.
// A window <= 0 falls back to DefaultWindow.
func NewLexicon(positive, negative []string, window int) *Lexicon {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Lexicon{
		positive: normalize(positive),
		negative: normalize(negative),
		window:   window,
	}
}

// Window returns the context radius in characters.
func (l *Lexicon) Window() int { return l.window }

// Score counts the distinct positive and negative cues present in text.
// A cue present several times counts once.
func (l *Lexicon) Score(text string) (pos, neg int) {
	lower := strings.ToLower(text)
	for _, w := range l.positive {
		if strings.Contains(lower, w) {
			pos++
		}
	}
	for _, w := range l.negative {
		if strings.Contains(lower, w) {
			neg++
		}
	}
	return pos, neg
}

// Classify rates the window around text[start:end].
func (l *Lexicon) Classify(text string, start, end int) Polarity {
	return l.Polarity(l.Context(text, start, end))
}

// Context returns the slice of text within the window around [start, end).
func (l *Lexicon) Context(text string, start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(text) {
		end = len(text)
	}
	if end < start {
		end = start
	}
	lo := start - l.window
	if lo < 0 {
		lo = 0
	}
	hi := end + l.window
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}

// Polarity rates a piece of text as a whole.
func (l *Lexicon) Polarity(text string) Polarity {
	pos, neg := l.Score(text)
	switch {
	case pos > neg:
		return Positive
	case neg > pos:
		return Negative
	default:
		return Neutral
	}
}

func normalize(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
