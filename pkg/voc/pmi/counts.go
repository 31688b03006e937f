package pmi

import "sort"

// Pair is an unordered pair stored with A < B.
type Pair struct {
	A, B string
}

// NewPair orders a and b.
func NewPair(a, b string) Pair {
	if a > b {
		a, b = b, a
	}
	return Pair{A: a, B: b}
}

// Counter keeps document frequencies and pairwise co-occurrence.
type Counter struct {
	N     int64
	DF    map[string]int64
	Joint map[Pair]int64
}

// NewCounter creates an empty counter.
func NewCounter() *Counter {
	return &Counter{
		DF:    make(map[string]int64),
		Joint: make(map[Pair]int64),
	}
}

// Add records one document. Duplicate and empty items are ignored.
func (c *Counter) Add(items []string) {
	c.N++

	seen := make(map[string]struct{}, len(items))
	uniq := make([]string, 0, len(items))
	for _, it := range items {
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		uniq = append(uniq, it)
		c.DF[it]++
	}
	sort.Strings(uniq)
	for i := 0; i < len(uniq); i++ {
		for j := i + 1; j < len(uniq); j++ {
			c.Joint[Pair{A: uniq[i], B: uniq[j]}]++
		}
	}
}

// Together returns how many documents held both a and b.
func (c *Counter) Together(a, b string) int64 {
	return c.Joint[NewPair(a, b)]
}

// Clone returns a deep copy.
func (c *Counter) Clone() *Counter {
	out := &Counter{
		N:     c.N,
		DF:    make(map[string]int64, len(c.DF)),
		Joint: make(map[Pair]int64, len(c.Joint)),
	}
	for k, v := range c.DF {
		out.DF[k] = v
	}
	for k, v := range c.Joint {
		out.Joint[k] = v
	}
	return out
}
