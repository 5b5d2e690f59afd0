package matchers

import (
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// And matches requests accepted by every one of ms. A Mock already ANDs
// its own matcher list, but And is useful when composing a single
// reusable Matcher value out of several, e.g. to pass to Or or Not.
func And(ms ...mock.Matcher) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		for _, m := range ms {
			if !m.Matches(r) {
				return false
			}
		}
		return true
	})
}

// Or matches requests accepted by at least one of ms.
func Or(ms ...mock.Matcher) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		for _, m := range ms {
			if m.Matches(r) {
				return true
			}
		}
		return false
	})
}

// Not matches requests rejected by m.
func Not(m mock.Matcher) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		return !m.Matches(r)
	})
}
