package matchers

import (
	"bytes"
	"encoding/json"
	"reflect"
	"regexp"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// BodyString matches requests whose body equals want exactly.
func BodyString(want string) mock.Matcher {
	wantBytes := []byte(want)
	return mock.MatcherFunc(func(r *request.Request) bool {
		return bytes.Equal(r.Body, wantBytes)
	})
}

// BodyContains matches requests whose body contains substr.
func BodyContains(substr string) mock.Matcher {
	substrBytes := []byte(substr)
	return mock.MatcherFunc(func(r *request.Request) bool {
		return bytes.Contains(r.Body, substrBytes)
	})
}

// BodyRegexp matches requests whose body satisfies pattern.
func BodyRegexp(pattern string) mock.Matcher {
	re := regexp.MustCompile(pattern)
	return mock.MatcherFunc(func(r *request.Request) bool {
		return re.Match(r.Body)
	})
}

// BodyJSON matches requests whose body, decoded as JSON, deep-equals the
// JSON decoding of want. want is typically a map[string]any or a struct;
// it is marshaled and re-decoded so struct tags and field order never
// affect the comparison.
func BodyJSON(want any) mock.Matcher {
	wantCanonical, err := canonicalizeJSON(want)
	return mock.MatcherFunc(func(r *request.Request) bool {
		if err != nil {
			return false
		}
		var got any
		if err := json.Unmarshal(r.Body, &got); err != nil {
			return false
		}
		return reflect.DeepEqual(got, wantCanonical)
	})
}

func canonicalizeJSON(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
