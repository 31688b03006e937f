package config

import "embed"

//go:embed defaults/*.yaml
var defaultFS embed.FS

func defaultFile(name string) []byte {
	data, err := defaultFS.ReadFile("defaults/" + name)
	if err != nil {
		panic("config: missing embedded default " + name)
	}
	return data
}

// DefaultBenefits returns the built-in benefit dictionary.
func DefaultBenefits() (map[string][]string, error) {
	return parsePatternSet(defaultFile("benefits.yaml"))
}

// DefaultPainPoints returns the built-in pain point dictionary.
func DefaultPainPoints() (map[string][]string, error) {
	return parsePatternSet(defaultFile("painpoints.yaml"))
}

// DefaultSentiment returns the built-in sentiment lexicon.
func DefaultSentiment() (*Sentiment, error) {
	return parseSentiment(defaultFile("sentiment.yaml"))
}

// DefaultLadder returns the built-in ladder definitions.
func DefaultLadder() (*Ladder, error) {
	return parseLadder(defaultFile("ladder.yaml"))
}

// DefaultStoplist returns the built-in stopwords.
func DefaultStoplist() (*Stoplist, error) {
	return parseStoplist(defaultFile("stopwords.yaml"))
}

// DefaultThemes returns the built-in discussion themes.
func DefaultThemes() (*Themes, error) {
	return parseThemes(defaultFile("themes.yaml"))
}
