package errors

// Package errors provides sentinel errors for page discovery operations.

import "errors"

var (
	// ErrPagesRootUnreadable indicates the configured pages root is missing, not a directory or unreadable.
	ErrPagesRootUnreadable = errors.New("pages root unreadable")

	// ErrGlobFailed indicates enumerating page files under the root failed part way.
	ErrGlobFailed = errors.New("page glob failed")

	// ErrNoExtensions indicates discovery was asked to run without any recognized extension.
	ErrNoExtensions = errors.New("no page extensions configured")

	// ErrRouteCollision indicates two page files resolve to the same route (e.g. about.js and about/index.js).
	ErrRouteCollision = errors.New("route collision detected")
)
