package matchers

import (
	"bytes"
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// BodyJSONSchema matches requests whose body validates against schema, a
// JSON Schema document. The schema is compiled once at construction; an
// invalid schema panics.
func BodyJSONSchema(schema []byte) mock.Matcher {
	compiler := jsonschema.NewCompiler()
	const resourceName = "mockwire-matcher-schema.json"
	if err := compiler.AddResource(resourceName, bytes.NewReader(schema)); err != nil {
		panic("mockwire: invalid JSON schema: " + err.Error())
	}
	compiled, err := compiler.Compile(resourceName)
	if err != nil {
		panic("mockwire: failed to compile JSON schema: " + err.Error())
	}

	return mock.MatcherFunc(func(r *request.Request) bool {
		var data any
		if err := json.Unmarshal(r.Body, &data); err != nil {
			return false
		}
		return compiled.Validate(data) == nil
	})
}
