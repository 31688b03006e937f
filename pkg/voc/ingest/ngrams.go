package ingest

import "strings"

// NGrams returns the contiguous n-token phrases of tokens, space joined.
// n < 1 or fewer than n tokens yields nil.
func NGrams(tokens []string, n int) []string {
	if n < 1 || len(tokens) < n {
		return nil
	}
	out := make([]string, 0, len(tokens)-n+1)
	for i := 0; i+n <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+n], " "))
	}
	return out
}

// Document is a tokenized text with the categories it matched.
type Document struct {
	ID         string
	Tokens     []string
	Categories []string
}

// Pipeline tokenizes texts and tags them with a category function.
type Pipeline struct {
	tokenizer *Tokenizer
	tag       func(text string) []string
}

// NewPipeline builds a pipeline. tag may be nil.
func NewPipeline(tok *Tokenizer, tag func(text string) []string) *Pipeline {
	if tok == nil {
		tok = NewTokenizer(nil)
	}
	return &Pipeline{tokenizer: tok, tag: tag}
}

// Process turns one text into a Document.
func (p *Pipeline) Process(id, text string) Document {
	doc := Document{ID: id, Tokens: p.tokenizer.Tokenize(text)}
	if p.tag != nil {
		doc.Categories = p.tag(text)
	}
	return doc
}
