package mockset

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
	"github.com/mockwire/mockwire/pkg/response"
)

func newReq(method, path string) *request.Request {
	u, _ := url.Parse("http://localhost" + path)
	return &request.Request{URL: u, Method: method, Header: map[string][]string{}}
}

func anyMock(status int) mock.Mock {
	return mock.Given(mock.MatcherFunc(func(*request.Request) bool { return true })).
		RespondWith(func(*request.Request) response.Template { return response.New(status) })
}

func TestPriorityOrder(t *testing.T) {
	s := New()
	_, _ = s.Register(mock.Given(mock.MatcherFunc(func(*request.Request) bool { return true })).
		WithPriority(10).
		RespondWith(func(*request.Request) response.Template { return response.New(404) }))
	_, _ = s.Register(mock.Given(mock.MatcherFunc(func(*request.Request) bool { return true })).
		WithPriority(1).
		RespondWith(func(*request.Request) response.Template { return response.New(200) }))

	tmpl, _, matched := s.HandleRequest(newReq("GET", "/"))
	require.True(t, matched)
	assert.Equal(t, 200, tmpl.StatusCode())
}

func TestFirstMatchWinsAtEqualPriority(t *testing.T) {
	s := New()
	_, _ = s.Register(anyMock(201))
	_, _ = s.Register(anyMock(202))

	tmpl, _, matched := s.HandleRequest(newReq("GET", "/"))
	require.True(t, matched)
	assert.Equal(t, 201, tmpl.StatusCode())
}

func TestNoMatchReturnsFalse(t *testing.T) {
	s := New()
	_, _, matched := s.HandleRequest(newReq("GET", "/"))
	assert.False(t, matched)
}

func TestCapExhaustion(t *testing.T) {
	s := New()
	_, _ = s.Register(mock.Given(mock.MatcherFunc(func(*request.Request) bool { return true })).
		UpToNTimes(1).
		RespondWith(func(*request.Request) response.Template { return response.New(200) }))

	_, _, matched := s.HandleRequest(newReq("GET", "/"))
	require.True(t, matched)

	_, _, matched = s.HandleRequest(newReq("GET", "/"))
	assert.False(t, matched, "mock should be exhausted after its cap is reached")
}

func TestDeactivateSkipsFutureDispatch(t *testing.T) {
	s := New()
	id, _ := s.Register(anyMock(200))

	s.Deactivate(id)

	_, _, matched := s.HandleRequest(newReq("GET", "/"))
	assert.False(t, matched)
}

func TestStaleIDPanicsAfterReset(t *testing.T) {
	s := New()
	id, _ := s.Register(anyMock(200))
	s.Reset()

	assert.Panics(t, func() { s.Verify(id) })
}

func TestVerifyAllReportsUnsatisfied(t *testing.T) {
	s := New()
	_, _ = s.Register(mock.Given(mock.MatcherFunc(func(*request.Request) bool { return true })).
		Expect(mock.AtLeast(1)).Named("never hit").
		RespondWith(func(*request.Request) response.Template { return response.New(200) }))

	outcome := s.VerifyAll()
	require.False(t, outcome.OK())
	require.Len(t, outcome.Failures, 1)
	assert.Contains(t, outcome.Failures[0].Message(), "never hit")
}

func TestNotifierFiresOnceExpectationBecomesSatisfied(t *testing.T) {
	s := New()
	id, notifier := s.Register(mock.Given(mock.MatcherFunc(func(*request.Request) bool { return true })).
		Expect(mock.Exactly(1)).
		RespondWith(func(*request.Request) response.Template { return response.New(200) }))

	assert.False(t, notifier.Satisfied())

	_, _, matched := s.HandleRequest(newReq("GET", "/"))
	require.True(t, matched)

	assert.True(t, notifier.Satisfied())
	assert.True(t, s.Notifier(id).Satisfied())
}

func TestMatchedRequestsRecordsOnlyWinningMock(t *testing.T) {
	s := New()
	winner, _ := s.Register(mock.Given(mock.MatcherFunc(func(r *request.Request) bool { return r.URL.Path == "/a" })).
		RespondWith(func(*request.Request) response.Template { return response.New(200) }))
	loser, _ := s.Register(mock.Given(mock.MatcherFunc(func(r *request.Request) bool { return r.URL.Path == "/b" })).
		RespondWith(func(*request.Request) response.Template { return response.New(200) }))

	_, _, matched := s.HandleRequest(newReq("GET", "/a"))
	require.True(t, matched)

	assert.Len(t, s.MatchedRequests(winner), 1)
	assert.Len(t, s.MatchedRequests(loser), 0)
}

func TestTransportErrorResponder(t *testing.T) {
	s := New()
	wantErr := assert.AnError
	_, _ = s.Register(mock.Given(mock.MatcherFunc(func(*request.Request) bool { return true })).
		RespondWithErr(func(*request.Request) error { return wantErr }))

	_, transportErr, matched := s.HandleRequest(newReq("GET", "/"))
	require.True(t, matched)
	assert.ErrorIs(t, transportErr, wantErr)
}
