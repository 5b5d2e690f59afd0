// Package mock defines Mock and MockBuilder: the immutable specification
// of a request/response pairing, built fluently and then registered with
// a server. A Mock holds no runtime state of its own; counters and
// recorded requests live in the mounted mock the server creates for it.
package mock

import (
	"fmt"

	"github.com/mockwire/mockwire/pkg/request"
	"github.com/mockwire/mockwire/pkg/response"
)

// DefaultPriority is the priority assigned to a Mock that never calls
// WithPriority. Lower values are evaluated first; 1 is highest.
const DefaultPriority uint8 = 5

// Responder produces a response for a matched request.
type Responder func(r *request.Request) response.Template

// ErrResponder produces a transport-level error descriptor for a matched
// request. Its return value is never nil when called for a Mock built
// with RespondWithErr.
type ErrResponder func(r *request.Request) error

// Mock is an immutable test specification: a non-empty ordered list of
// matchers, a responder, and the modifiers that control how many times it
// may match and in what order it is considered against other mocks.
type Mock struct {
	Matchers     []Matcher
	Respond      Responder
	RespondErr   ErrResponder
	MaxNMatches  uint64
	HasMax       bool
	Priority     uint8
	Name         string
	HasName      bool
	Expectation  Times
}

// Builder accumulates matchers and modifiers before a terminal
// RespondWith/RespondWithErr call produces an immutable Mock.
type Builder struct {
	matchers    []Matcher
	maxNMatches uint64
	hasMax      bool
	priority    uint8
	name        string
	hasName     bool
	expectation Times
}

// Given starts building a Mock whose first matcher is m.
func Given(m Matcher) *Builder {
	b := &Builder{
		priority:    DefaultPriority,
		expectation: Unbounded(),
	}
	return b.And(m)
}

// And appends another matcher; a Mock matches a request only if every
// matcher added via Given/And returns true for it.
func (b *Builder) And(m Matcher) *Builder {
	b.matchers = append(b.matchers, m)
	return b
}

// UpToNTimes caps the number of times the Mock may match. n must be
// greater than zero; UpToNTimes(0) panics, since a mock that can never
// match is almost certainly a mistake rather than an intentional
// expectation (use Expect(Exactly(0)) if zero matches really is the
// intent).
func (b *Builder) UpToNTimes(n uint64) *Builder {
	if n == 0 {
		panic("mockwire: UpToNTimes requires n > 0")
	}
	b.maxNMatches = n
	b.hasMax = true
	return b
}

// WithPriority sets the Mock's scan priority. p must be in [1, 255];
// WithPriority(0) panics.
func (b *Builder) WithPriority(p uint8) *Builder {
	if p == 0 {
		panic("mockwire: WithPriority requires p > 0")
	}
	b.priority = p
	return b
}

// Expect sets the Mock's expectation range, checked at verification time.
func (b *Builder) Expect(t Times) *Builder {
	b.expectation = t
	return b
}

// Named attaches a diagnostic name to the Mock, used in place of
// "Mock #<position>" in verification failures.
func (b *Builder) Named(name string) *Builder {
	b.name = name
	b.hasName = true
	return b
}

// RespondWith finalizes the Mock with a responder that produces a
// response template on every match.
func (b *Builder) RespondWith(respond Responder) Mock {
	return b.build(respond, nil)
}

// RespondWithErr finalizes the Mock with a responder that produces a
// transport-level error on every match, letting a test simulate a
// lower-layer failure (e.g. a reset connection).
func (b *Builder) RespondWithErr(respond ErrResponder) Mock {
	return b.build(nil, respond)
}

func (b *Builder) build(respond Responder, respondErr ErrResponder) Mock {
	if len(b.matchers) == 0 {
		panic("mockwire: a Mock must have at least one matcher")
	}
	return Mock{
		Matchers:    append([]Matcher(nil), b.matchers...),
		Respond:     respond,
		RespondErr:  respondErr,
		MaxNMatches: b.maxNMatches,
		HasMax:      b.hasMax,
		Priority:    b.priority,
		Name:        b.name,
		HasName:     b.hasName,
		Expectation: b.expectation,
	}
}

// DisplayName renders the Mock's diagnostic name: its explicit Named
// value, or "Mock #<position>" when none was given.
func (m Mock) DisplayName(position int) string {
	if m.HasName {
		return m.Name
	}
	return fmt.Sprintf("Mock #%d", position)
}
