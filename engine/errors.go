package engine

import "errors"

// Query validation errors.
var (
	// ErrNoSources reports a query without any source.
	ErrNoSources = errors.New("query has no sources")
	// ErrNoObservers reports a query without observer points.
	ErrNoObservers = errors.New("query has no observers")
)
