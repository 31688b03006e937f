package config

import (
	"fmt"

	"github.com/cognicore/voc/pkg/voc/ingest"
	"github.com/cognicore/voc/pkg/voc/ladder"
	"github.com/cognicore/voc/pkg/voc/patterns"
	"github.com/cognicore/voc/pkg/voc/sentiment"
	"github.com/cognicore/voc/pkg/voc/theme"
)

// Loader loads all configuration files and constructs components.
// Any empty path falls back to the embedded default.
type Loader struct {
	BenefitsPath   string
	PainPointsPath string
	SentimentPath  string
	LadderPath     string
	StoplistPath   string
	ThemesPath     string
}

// Components holds all loaded configuration components
type Components struct {
	Benefits   *patterns.Set
	PainPoints *patterns.Set
	Sentiment  *sentiment.Lexicon
	Ladder     ladder.Rules
	Tokenizer  *ingest.Tokenizer
	Themes     *theme.Dictionary
}

// Load reads all configuration files and returns initialized components
func (l *Loader) Load() (*Components, error) {
	comp := &Components{}

	benefits, err := pick(l.BenefitsPath, LoadPatternSet, DefaultBenefits)
	if err != nil {
		return nil, fmt.Errorf("load benefits: %w", err)
	}
	if comp.Benefits, err = patterns.Compile(benefits); err != nil {
		return nil, fmt.Errorf("compile benefits: %w", err)
	}

	pains, err := pick(l.PainPointsPath, LoadPatternSet, DefaultPainPoints)
	if err != nil {
		return nil, fmt.Errorf("load pain points: %w", err)
	}
	if comp.PainPoints, err = patterns.Compile(pains); err != nil {
		return nil, fmt.Errorf("compile pain points: %w", err)
	}

	lex, err := pick(l.SentimentPath, LoadSentiment, DefaultSentiment)
	if err != nil {
		return nil, fmt.Errorf("load sentiment: %w", err)
	}
	comp.Sentiment = sentiment.NewLexicon(lex.Positive, lex.Negative, lex.Window)

	lad, err := pick(l.LadderPath, LoadLadder, DefaultLadder)
	if err != nil {
		return nil, fmt.Errorf("load ladder: %w", err)
	}
	if comp.Ladder, err = lad.Compile(); err != nil {
		return nil, fmt.Errorf("compile ladder: %w", err)
	}

	stop, err := pick(l.StoplistPath, LoadStoplist, DefaultStoplist)
	if err != nil {
		return nil, fmt.Errorf("load stoplist: %w", err)
	}
	comp.Tokenizer = ingest.NewTokenizer(stop.Terms)

	themes, err := pick(l.ThemesPath, LoadThemes, DefaultThemes)
	if err != nil {
		return nil, fmt.Errorf("load themes: %w", err)
	}
	if comp.Themes, err = themes.Compile(); err != nil {
		return nil, fmt.Errorf("compile themes: %w", err)
	}

	return comp, nil
}

func pick[T any](path string, load func(string) (T, error), fallback func() (T, error)) (T, error) {
	if path == "" {
		return fallback()
	}
	return load(path)
}
