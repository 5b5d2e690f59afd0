package matchers

import (
	"github.com/beevik/etree"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// BodyXPath matches requests whose body parses as XML and has at least
// one element matching the given etree path expression (a practical
// subset of XPath covering the queries test bodies need: element paths,
// predicates and attribute filters on elements). The path must select
// elements; it cannot select an attribute node on its own.
func BodyXPath(path string) mock.Matcher {
	return mock.MatcherFunc(func(r *request.Request) bool {
		doc := etree.NewDocument()
		if err := doc.ReadFromBytes(r.Body); err != nil {
			return false
		}
		return doc.FindElement(path) != nil
	})
}
