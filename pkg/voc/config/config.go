package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/voc/pkg/voc/internalerr"
)

// PatternFile is a category → regex dictionary (benefits, pain points).
type PatternFile struct {
	Categories map[string][]string `yaml:"categories"`
}

// LoadPatternSet loads a pattern dictionary from a YAML file
func LoadPatternSet(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parsePatternSet(data)
}

func parsePatternSet(data []byte) (map[string][]string, error) {
	var pf PatternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}
	if len(pf.Categories) == 0 {
		return nil, fmt.Errorf("%w: no categories defined", internalerr.ErrInvalidConfig)
	}
	return pf.Categories, nil
}

// Sentiment is the sentiment lexicon configuration
type Sentiment struct {
	Window   int      `yaml:"window"`
	Positive []string `yaml:"positive"`
	Negative []string `yaml:"negative"`
}

// LoadSentiment loads the sentiment lexicon from a YAML file
func LoadSentiment(path string) (*Sentiment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseSentiment(data)
}

func parseSentiment(data []byte) (*Sentiment, error) {
	var s Sentiment
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if len(s.Positive) == 0 && len(s.Negative) == 0 {
		return nil, fmt.Errorf("%w: empty sentiment lexicon", internalerr.ErrInvalidConfig)
	}
	return &s, nil
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseStoplist(data)
}

func parseStoplist(data []byte) (*Stoplist, error) {
	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}
	return &sl, nil
}
