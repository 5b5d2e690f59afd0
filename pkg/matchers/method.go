// Package matchers supplies a production-grade built-in matcher library.
// pkg/mock's Matcher contract is specified purely as a boolean predicate;
// these implementations back it with real parsing/query libraries
// instead of ad hoc string comparisons, the way a mature HTTP testing
// library does.
package matchers

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

var upper = cases.Upper(language.Und)

// Method matches requests whose method equals want, compared
// case-insensitively against a Unicode-aware upper-cased form (see the
// method-matching design note in DESIGN.md). Request.Method is already
// upper-cased at construction, but want is folded here too so callers
// can pass "get", "Get" or "GET" interchangeably.
func Method(want string) mock.Matcher {
	expected := upper.String(want)
	return mock.MatcherFunc(func(r *request.Request) bool {
		return r.Method == expected
	})
}

// AnyMethod matches every request regardless of method, useful as the
// sole matcher on a catch-all mock.
func AnyMethod() mock.Matcher {
	return mock.MatcherFunc(func(*request.Request) bool { return true })
}
