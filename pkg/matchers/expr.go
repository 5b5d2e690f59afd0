package matchers

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// facts is the environment an Expression matcher's program is evaluated
// against.
type facts struct {
	Method  string
	Path    string
	Query   map[string][]string
	Header  map[string][]string
	Body    string
}

// Expression matches requests for which program, compiled once at
// construction, evaluates to true against a facts value derived from the
// request. program has access to Method, Path, Query, Header and Body.
// An invalid or non-boolean program panics, matching this library's
// panic-on-misuse policy.
//
// Example: Expression(`Method == "POST" && Path startsWith "/orders"`).
func Expression(program string) mock.Matcher {
	compiled, err := expr.Compile(program, expr.Env(facts{}), expr.AsBool())
	if err != nil {
		panic("mockwire: invalid expression " + program + ": " + err.Error())
	}
	return mock.MatcherFunc(func(r *request.Request) bool {
		return evalBool(compiled, r)
	})
}

func evalBool(program *vm.Program, r *request.Request) bool {
	env := facts{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  map[string][]string(r.URL.Query()),
		Header: map[string][]string(r.Header),
		Body:   string(r.Body),
	}
	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	ok, _ := out.(bool)
	return ok
}
