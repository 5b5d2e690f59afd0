package mockserver

import (
	"log/slog"
	"sync"

	"github.com/mockwire/mockwire/internal/mockset"
	"github.com/mockwire/mockwire/pkg/bodylimit"
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
	"github.com/mockwire/mockwire/pkg/response"
)

// state is the single object, guarded by one read-write lock, that every
// goroutine serving a request and every public MockServer method
// operates on. It is the sole shared mutable resource in this package;
// see SPEC_FULL.md §5 for the full lock-discipline accounting.
type state struct {
	mu sync.RWMutex

	set *mockset.Set

	recordingEnabled bool
	received         []*request.Request

	bodyLimit bodylimit.Limit
	logger    *slog.Logger
}

func newState(recording bool, limit bodylimit.Limit, logger *slog.Logger) *state {
	return &state{
		set:              mockset.New(),
		recordingEnabled: recording,
		bodyLimit:        limit,
		logger:           logger,
	}
}

// register mounts m and returns its ID.
func (s *state) register(m mock.Mock) mockset.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, _ := s.set.Register(m)
	return id
}

// registerWithNotifier mounts m and also returns its satisfaction
// notifier, for RegisterAsScoped.
func (s *state) registerWithNotifier(m mock.Mock) (mockset.ID, *mockset.Notifier) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.set.Register(m)
}

// handleRequest is the single entry point used by the HTTP layer. It
// takes the write lock, records r if enabled, delegates to the mock set,
// and releases the lock before returning — callers must not hold the
// lock while applying any delay returned alongside a matched template.
func (s *state) handleRequest(r *request.Request) (tmpl response.Template, transportErr error, matched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recordingEnabled {
		s.received = append(s.received, r.Clone())
	}

	tmpl, transportErr, matched = s.set.HandleRequest(r)
	if !matched {
		s.logger.Debug("no mock matched incoming request", "method", r.Method, "url", r.URL.String())
	}
	return tmpl, transportErr, matched
}

// reset clears every mounted mock (advancing the generation) and the
// recording buffer.
func (s *state) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set.Reset()
	s.received = nil
}

// configure applies a freshly acquired pooled server's per-use options.
// Called (through bare.configure) by pool.acquire so that WithBodyPrintLimit and
// a disabled recording option reach a pooled bare server, not just its
// logger.
func (s *state) configure(recording bool, limit bodylimit.Limit, logger *slog.Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordingEnabled = recording
	s.bodyLimit = limit
	s.logger = logger
}

// deactivate marks id's mock out of scope.
func (s *state) deactivate(id mockset.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set.Deactivate(id)
}

// verifyAndDeactivate verifies id's mock and, only if its expectation is
// satisfied, deactivates it — atomically, under one write lock, so no
// request can sneak in between the check and the deactivation. This is
// what a MockGuard's Close calls.
func (s *state) verifyAndDeactivate(id mockset.ID) mockset.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	report := s.set.Verify(id)
	if report.Satisfied() {
		s.set.Deactivate(id)
	}
	return report
}

// verify returns id's mock's VerificationReport.
func (s *state) verify(id mockset.ID) mockset.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Verify(id)
}

// verifyAll returns the Outcome of verifying every in-scope mock.
func (s *state) verifyAll() mockset.Outcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.VerifyAll()
}

// matchedRequests returns id's mock's recorded matches.
func (s *state) matchedRequests(id mockset.ID) []*request.Request {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.MatchedRequests(id)
}

// notifier returns id's mock's satisfaction notifier.
func (s *state) notifier(id mockset.ID) *mockset.Notifier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.set.Notifier(id)
}

// receivedRequests returns a copy of every request recorded so far, and
// whether recording is enabled at all.
func (s *state) receivedRequests() ([]*request.Request, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.recordingEnabled {
		return nil, false
	}
	out := make([]*request.Request, len(s.received))
	copy(out, s.received)
	return out, true
}
