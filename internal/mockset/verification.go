package mockset

import (
	"fmt"

	"github.com/mockwire/mockwire/pkg/mock"
)

// Report is the outcome of verifying a single mounted mock.
type Report struct {
	Name          string
	HasName       bool
	PositionInSet int
	Expectation   mock.Times
	NMatched      uint64
}

// Satisfied reports whether the number of matched requests falls inside
// the expectation range.
func (r Report) Satisfied() bool {
	return r.Expectation.Contains(r.NMatched)
}

// displayName renders the report's name, or "Mock #<position>" when none
// was given at construction.
func (r Report) displayName() string {
	if r.HasName {
		return r.Name
	}
	return fmt.Sprintf("Mock #%d", r.PositionInSet)
}

// Message renders the single-mock diagnostic line used both standalone
// and inside a set-wide Outcome failure.
func (r Report) Message() string {
	return fmt.Sprintf(
		"%s.\n\tExpected range of matching incoming requests: %s\n\tNumber of matched incoming requests: %d",
		r.displayName(), r.Expectation.String(), r.NMatched,
	)
}

// Outcome is the result of verifying every in-scope mock in a set.
type Outcome struct {
	Failures []Report
}

// OK reports whether every in-scope mock's expectation was satisfied.
func (o Outcome) OK() bool {
	return len(o.Failures) == 0
}
