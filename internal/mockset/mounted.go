package mockset

import (
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
	"github.com/mockwire/mockwire/pkg/response"
)

// Mounted wraps a Mock with the runtime state it accrues once registered
// with a set: how many times it has matched, the requests that matched
// it, and the position it was registered at (its stable diagnostic
// index, independent of priority-sort order).
type Mounted struct {
	spec            mock.Mock
	nMatched        uint64
	matchedRequests []*request.Request
	positionInSet   int
	notifier        *Notifier
}

func newMounted(m mock.Mock, position int) *Mounted {
	return &Mounted{
		spec:          m,
		positionInSet: position,
		notifier:      newNotifier(),
	}
}

// Matches reports whether r satisfies every matcher on the underlying
// Mock and the mock has not yet exhausted its UpToNTimes cap. On a match
// it increments the counter, records a clone of r, and — the first time
// the new counter value falls inside the expectation range — marks the
// notifier satisfied.
//
// Must be called with the owning set's write lock held.
func (mm *Mounted) Matches(r *request.Request) bool {
	if mm.spec.HasMax && mm.nMatched >= mm.spec.MaxNMatches {
		return false
	}
	for _, m := range mm.spec.Matchers {
		if !m.Matches(r) {
			return false
		}
	}

	mm.nMatched++
	mm.matchedRequests = append(mm.matchedRequests, r.Clone())
	if mm.spec.Expectation.Contains(mm.nMatched) {
		mm.notifier.markSatisfied()
	}
	return true
}

// Respond produces the response for a request already confirmed to
// match, via the underlying Mock's responder.
func (mm *Mounted) Respond(r *request.Request) (response.Template, error) {
	if mm.spec.RespondErr != nil {
		return response.Template{}, mm.spec.RespondErr(r)
	}
	return mm.spec.Respond(r), nil
}

// Priority returns the underlying Mock's scan priority.
func (mm *Mounted) Priority() uint8 {
	return mm.spec.Priority
}

// Report produces a VerificationReport for this mounted mock's current
// state.
func (mm *Mounted) Report() Report {
	return Report{
		Name:          mm.spec.Name,
		HasName:       mm.spec.HasName,
		PositionInSet: mm.positionInSet,
		Expectation:   mm.spec.Expectation,
		NMatched:      mm.nMatched,
	}
}

// MatchedRequests returns a copy of the requests that have matched this
// mock so far, in arrival order.
func (mm *Mounted) MatchedRequests() []*request.Request {
	out := make([]*request.Request, len(mm.matchedRequests))
	copy(out, mm.matchedRequests)
	return out
}

// Notifier returns the mock's satisfaction notifier.
func (mm *Mounted) Notifier() *Notifier {
	return mm.notifier
}
