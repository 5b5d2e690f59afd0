// Package mockset implements MountedMockSet: the ordered collection of
// mounted mocks a server dispatches requests against, with
// generation-stable identifiers, priority-ordered scanning, and per-mock
// and set-wide verification.
//
// Every exported method assumes the caller already holds the owning
// server state's lock in the appropriate mode (this package has no lock
// of its own); see pkg/mockserver.
package mockset

import (
	"sort"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
	"github.com/mockwire/mockwire/pkg/response"
)

type entry struct {
	mounted *Mounted
	inScope bool
}

// Set is an ordered collection of mounted mocks. Mocks are scanned, on
// each request, in priority order (ascending, ties broken by
// registration order) but addressed by ID using their registration
// position, which never changes: the set keeps one stable backing slice
// and computes a sorted view of indices on every dispatch, rather than
// reordering the backing slice itself.
type Set struct {
	entries    []*entry
	generation uint64
}

// New returns an empty Set.
func New() *Set {
	return &Set{}
}

// Register mounts m, allocating it the next registration position, and
// returns its ID and satisfaction notifier.
func (s *Set) Register(m mock.Mock) (ID, *Notifier) {
	position := len(s.entries)
	mounted := newMounted(m, position)
	s.entries = append(s.entries, &entry{mounted: mounted, inScope: true})
	return ID{index: position, generation: s.generation}, mounted.notifier
}

// HandleRequest scans the set in priority order and returns the first
// in-scope, non-exhausted mock whose matchers all accept r. matched is
// false when no mock accepted the request, in which case the caller
// should synthesize a 404. transportErr is non-nil when the winning
// mock's responder is an error responder, in which case the caller
// should abort the connection rather than render tmpl.
func (s *Set) HandleRequest(r *request.Request) (tmpl response.Template, transportErr error, matched bool) {
	for _, idx := range s.priorityOrder() {
		e := s.entries[idx]
		if !e.inScope {
			continue
		}
		if e.mounted.Matches(r) {
			tmpl, transportErr = e.mounted.Respond(r)
			return tmpl, transportErr, true
		}
	}
	return response.Template{}, nil, false
}

// priorityOrder returns backing-slice indices ordered by ascending
// priority, ties broken by registration order (preserved by the stable
// sort acting on an already registration-ordered input).
func (s *Set) priorityOrder() []int {
	order := make([]int, len(s.entries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return s.entries[order[i]].mounted.Priority() < s.entries[order[j]].mounted.Priority()
	})
	return order
}

// Reset clears every mounted mock and advances the generation, so any ID
// obtained before this call becomes stale.
func (s *Set) Reset() {
	s.entries = nil
	s.generation++
}

// Deactivate marks id's mock out of scope: it is skipped by future
// dispatch but remains addressable (its position is never reused).
func (s *Set) Deactivate(id ID) {
	s.mustEntry(id).inScope = false
}

// Verify returns the VerificationReport for id's mock.
func (s *Set) Verify(id ID) Report {
	return s.mustEntry(id).mounted.Report()
}

// VerifyAll returns the Outcome of verifying every in-scope mock.
func (s *Set) VerifyAll() Outcome {
	var out Outcome
	for _, e := range s.entries {
		if !e.inScope {
			continue
		}
		report := e.mounted.Report()
		if !report.Satisfied() {
			out.Failures = append(out.Failures, report)
		}
	}
	return out
}

// MatchedRequests returns the requests recorded so far for id's mock.
func (s *Set) MatchedRequests(id ID) []*request.Request {
	return s.mustEntry(id).mounted.MatchedRequests()
}

// Notifier returns id's mock's satisfaction notifier.
func (s *Set) Notifier(id ID) *Notifier {
	return s.mustEntry(id).mounted.Notifier()
}

func (s *Set) mustEntry(id ID) *entry {
	if id.generation != s.generation || id.index < 0 || id.index >= len(s.entries) {
		stalePanic()
	}
	return s.entries[id.index]
}
