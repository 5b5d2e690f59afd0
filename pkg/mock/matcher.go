package mock

import "github.com/mockwire/mockwire/pkg/request"

// Matcher is a predicate over a Request. Implementations must be pure and
// safe to call from any goroutine: they must not perform I/O and must not
// retain or mutate the Request they are given.
//
// Named types that carry their own state (a compiled regexp, an expected
// value) are matchers just as much as plain functions; see MatcherFunc for
// adapting the latter.
type Matcher interface {
	Matches(r *request.Request) bool
}

// MatcherFunc adapts a plain function to the Matcher interface, the same
// way http.HandlerFunc adapts a function to http.Handler.
type MatcherFunc func(r *request.Request) bool

// Matches calls f(r).
func (f MatcherFunc) Matches(r *request.Request) bool {
	return f(r)
}
