package matchers

import (
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// Path matches requests whose URL path equals want exactly.
func Path(want string) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		return r.URL.Path == want
	})
}

// PathPrefix matches requests whose URL path starts with prefix.
func PathPrefix(prefix string) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		return strings.HasPrefix(r.URL.Path, prefix)
	})
}

// PathRegexp matches requests whose URL path matches the compiled
// pattern. It panics at construction if pattern does not compile,
// matching this library's panic-on-misuse policy for invalid arguments.
func PathRegexp(pattern string) mock.Matcher {
	re := regexp.MustCompile(pattern)
	return mock.MatcherFunc(func(r *request.Request) bool {
		return re.MatchString(r.URL.Path)
	})
}

// PathGlob matches requests whose URL path satisfies a doublestar glob
// pattern (supporting "**" for arbitrary-depth segments), letting tests
// match a family of paths without writing a regexp.
func PathGlob(pattern string) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		ok, err := doublestar.Match(pattern, strings.TrimPrefix(r.URL.Path, "/"))
		return err == nil && ok
	})
}
