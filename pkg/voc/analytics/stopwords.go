package analytics

import (
	"math"
	"sort"
)

// StopwordThresholds decides which tokens are too common to carry signal.
type StopwordThresholds struct {
	DFPercent float64 // token must appear in more than this share of documents
	Entropy   float64 // and be spread across categories at least this evenly
}

// DefaultStopwordThresholds suits small review and post corpora.
func DefaultStopwordThresholds() StopwordThresholds {
	return StopwordThresholds{DFPercent: 60, Entropy: 0.4}
}

// StopwordCandidate is a token suggested for the stoplist.
type StopwordCandidate struct {
	Token      string  `json:"token"`
	DFPercent  float64 `json:"doc_percent"`
	CatEntropy float64 `json:"category_entropy"`
	Score      float64 `json:"score"`
}

// StopwordCandidates suggests tokens present in most documents and not tied
// to any one category. A token seen with no category at all qualifies on
// document frequency alone.
func (s Stats) StopwordCandidates(th StopwordThresholds) []StopwordCandidate {
	if s.TotalDocs == 0 {
		return nil
	}
	if th == (StopwordThresholds{}) {
		th = DefaultStopwordThresholds()
	}
	var out []StopwordCandidate
	for tok, df := range s.TokenDF {
		pct := 100 * float64(df) / float64(s.TotalDocs)
		if pct <= th.DFPercent {
			continue
		}
		cats := s.TokenCats[tok]
		h := entropy(cats)
		if len(cats) > 0 && h < th.Entropy {
			continue
		}
		spread := h
		if spread < th.Entropy {
			spread = th.Entropy
		}
		out = append(out, StopwordCandidate{
			Token:      tok,
			DFPercent:  math.Round(pct*10) / 10,
			CatEntropy: h,
			Score:      (pct/100 + spread) / 2,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Token < out[j].Token
	})
	return out
}
