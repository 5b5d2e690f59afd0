package matchers

import (
	"regexp"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// Header matches requests carrying at least one value value for header
// name.
func Header(name, value string) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		for _, v := range r.Header.Values(name) {
			if v == value {
				return true
			}
		}
		return false
	})
}

// HeaderExists matches requests that carry any value for header name.
func HeaderExists(name string) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		return len(r.Header.Values(name)) > 0
	})
}

// HeaderRegexp matches requests carrying at least one value for header
// name that satisfies pattern.
func HeaderRegexp(name, pattern string) mock.Matcher {
	re := regexp.MustCompile(pattern)
	return mock.MatcherFunc(func(r *request.Request) bool {
		for _, v := range r.Header.Values(name) {
			if re.MatchString(v) {
				return true
			}
		}
		return false
	})
}

// QueryParam matches requests whose query string carries value for key.
func QueryParam(key, value string) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		for _, v := range r.URL.Query()[key] {
			if v == value {
				return true
			}
		}
		return false
	})
}
