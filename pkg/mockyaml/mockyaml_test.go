package mockyaml_test

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/mockyaml"
	"github.com/mockwire/mockwire/pkg/request"
)

const fixture = `
mocks:
  - name: get-hello
    method: GET
    path: /hello
    status: 200
    body: "world"
    headers:
      X-Source: fixture
  - method: POST
    path: /orders
    status: 201
    up_to_n_times: 1
    expect: "1"
`

func TestLoadTranslatesFixturesToMocks(t *testing.T) {
	mocks, err := mockyaml.Load([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, mocks, 2)

	first := mocks[0]
	assert.True(t, first.HasName)
	assert.Equal(t, "get-hello", first.Name)
	assert.True(t, matches(t, first, "GET", "/hello"))
	assert.False(t, matches(t, first, "GET", "/other"))

	second := mocks[1]
	assert.True(t, second.HasMax)
	assert.Equal(t, uint64(1), second.MaxNMatches)
}

func TestLoadRejectsFixtureWithNoMatchers(t *testing.T) {
	_, err := mockyaml.Load([]byte("mocks:\n  - status: 200\n"))
	assert.Error(t, err)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := mockyaml.Load([]byte("mocks: [this is not a mapping list"))
	assert.Error(t, err)
}

func matches(t *testing.T, m mock.Mock, method, path string) bool {
	t.Helper()
	u, err := url.Parse("http://localhost" + path)
	require.NoError(t, err)
	r := &request.Request{URL: u, Method: method, Header: map[string][]string{}}
	for _, matcher := range m.Matchers {
		if !matcher.Matches(r) {
			return false
		}
	}
	return true
}
