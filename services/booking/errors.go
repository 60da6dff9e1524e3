package booking

import "errors"

var (
	// ErrInvalidSelection means the numeric reply does not resolve against the
	// stored shortlist. The caller keeps the context so the client can retry.
	ErrInvalidSelection = errors.New("selection does not match the offered shortlist")
	// ErrStaleSelection means the shortlist is older than the freshness window
	// and must not be confirmed against.
	ErrStaleSelection = errors.New("shortlist has expired")
)
