package matchers

import (
	"encoding/json"

	"github.com/ohler55/ojg/jp"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// BodyJSONPath matches requests whose body, decoded as JSON, has at
// least one value at the given JSONPath expression. path is compiled
// once at construction; an invalid expression panics, matching this
// library's panic-on-misuse policy.
func BodyJSONPath(path string) mock.Matcher {
	expr, err := jp.ParseString(path)
	if err != nil {
		panic("mockwire: invalid JSONPath expression " + path + ": " + err.Error())
	}
	return mock.MatcherFunc(func(r *request.Request) bool {
		var data any
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return false
		}
		return len(expr.Get(data)) > 0
	})
}
