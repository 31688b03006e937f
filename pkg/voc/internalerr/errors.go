// Package internalerr holds the sentinel errors shared by the voc packages.
// Callers match them with errors.Is.
package internalerr

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrEmptyCorpus      = errors.New("empty corpus") // a source yielded no records
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrInvalidConfig    = errors.New("invalid configuration")
)
