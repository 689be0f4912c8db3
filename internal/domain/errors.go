package domain

import "errors"

var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness constraint was violated.
	ErrConflict = errors.New("already exists")

	// ErrUpstream indicates the external platform API could not be reached
	// or returned an unusable response. Bulk operations abort on it.
	ErrUpstream = errors.New("upstream fetch failed")

	// ErrReconciliation indicates a single external record could not be
	// normalized. Bulk operations skip the record and continue.
	ErrReconciliation = errors.New("record reconciliation failed")

	// ErrCacheMiss indicates no cache entry exists for a key.
	ErrCacheMiss = errors.New("cache miss")
)
