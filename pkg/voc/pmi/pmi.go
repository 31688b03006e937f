// Package pmi computes smoothed pointwise mutual information over
// document co-occurrence counts.
package pmi

import "math"

// Calculator computes PMI with additive smoothing.
type Calculator struct {
	epsilon float64
}

// NewCalculator creates a calculator; epsilon <= 0 means 1.
func NewCalculator(epsilon float64) *Calculator {
	if epsilon <= 0 {
		epsilon = 1.0
	}
	return &Calculator{epsilon: epsilon}
}

// PMI of two items seen together in nAB of n documents:
//
//	log((nAB + ε) * n / ((nA + ε)(nB + ε)))
func (c *Calculator) PMI(nAB, nA, nB, n int64) float64 {
	if n == 0 {
		return 0
	}
	num := (float64(nAB) + c.epsilon) * float64(n)
	den := (float64(nA) + c.epsilon) * (float64(nB) + c.epsilon)
	return math.Log(num / den)
}

// NPMI is PMI scaled into [-1, 1] by -log P(a,b). Pairs never seen
// together score 0.
func (c *Calculator) NPMI(nAB, nA, nB, n int64) float64 {
	if n == 0 || nAB == 0 {
		return 0
	}
	pAB := (float64(nAB) + c.epsilon) / float64(n)
	logP := math.Log(pAB)
	if logP == 0 {
		return 0
	}
	return c.PMI(nAB, nA, nB, n) / -logP
}
