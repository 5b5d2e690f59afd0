// Package mockyaml loads mock declarations from YAML fixture files,
// translating them into ordinary mock.Mock values through the same
// public builder API a fluently-built mock uses — a YAML-declared mock
// and a Go-built one are indistinguishable to the dispatch engine.
package mockyaml

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/mockwire/mockwire/pkg/matchers"
	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
	"github.com/mockwire/mockwire/pkg/response"
)

// Fixture declares a single mock.
type Fixture struct {
	Name        string            `yaml:"name"`
	Priority    uint8             `yaml:"priority"`
	Method      string            `yaml:"method"`
	Path        string            `yaml:"path"`
	PathRegexp  string            `yaml:"path_regexp"`
	BodyContain string            `yaml:"body_contains"`
	Status      int               `yaml:"status"`
	Body        string            `yaml:"body"`
	Headers     map[string]string `yaml:"headers"`
	UpToNTimes  uint64            `yaml:"up_to_n_times"`
	Expect      string            `yaml:"expect"`
}

// File is the top-level document shape: a list of fixtures.
type File struct {
	Mocks []Fixture `yaml:"mocks"`
}

// Load parses data as a File and translates every fixture into a Mock.
func Load(data []byte) ([]mock.Mock, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("mockwire: failed to parse YAML mock fixture: %w", err)
	}

	out := make([]mock.Mock, 0, len(f.Mocks))
	for i, fixture := range f.Mocks {
		m, err := toMock(fixture)
		if err != nil {
			return nil, fmt.Errorf("mockwire: mock %d in fixture: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func toMock(f Fixture) (mock.Mock, error) {
	if f.Method == "" && f.Path == "" && f.PathRegexp == "" && f.BodyContain == "" {
		return mock.Mock{}, fmt.Errorf("fixture has no matchers")
	}

	var b *mock.Builder
	addMatcher := func(m mock.Matcher) {
		if b == nil {
			b = mock.Given(m)
		} else {
			b = b.And(m)
		}
	}

	if f.Method != "" {
		addMatcher(matchers.Method(f.Method))
	}
	if f.Path != "" {
		addMatcher(matchers.Path(f.Path))
	}
	if f.PathRegexp != "" {
		addMatcher(matchers.PathRegexp(f.PathRegexp))
	}
	if f.BodyContain != "" {
		addMatcher(matchers.BodyContains(f.BodyContain))
	}
	if b == nil {
		return mock.Mock{}, fmt.Errorf("fixture has no matchers")
	}

	if f.UpToNTimes > 0 {
		b = b.UpToNTimes(f.UpToNTimes)
	}
	if f.Priority > 0 {
		b = b.WithPriority(f.Priority)
	}
	name := f.Name
	if name == "" {
		name = "fixture-" + uuid.NewString()
	}
	b = b.Named(name)

	if f.Expect != "" {
		times, err := parseTimes(f.Expect)
		if err != nil {
			return mock.Mock{}, err
		}
		b = b.Expect(times)
	}

	status := f.Status
	if status == 0 {
		status = 200
	}
	tmpl := response.New(status)
	for name, value := range f.Headers {
		tmpl = tmpl.InsertHeader(name, value)
	}
	if f.Body != "" {
		tmpl = tmpl.SetBodyString(f.Body)
	}

	return b.RespondWith(func(*request.Request) response.Template { return tmpl }), nil
}

// parseTimes parses a small range grammar: "3" (exact), "3.." (at
// least), "..3" (less than), "3..5" (half-open), "3..=5" (inclusive).
func parseTimes(s string) (mock.Times, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "..="):
		parts := strings.SplitN(s, "..=", 2)
		lo, hi, err := parseBounds(parts[0], parts[1])
		if err != nil {
			return mock.Times{}, err
		}
		return mock.BetweenInclusive(lo, hi), nil
	case strings.Contains(s, ".."):
		parts := strings.SplitN(s, "..", 2)
		if parts[0] == "" {
			hi, err := strconv.ParseUint(parts[1], 10, 64)
			if err != nil {
				return mock.Times{}, fmt.Errorf("invalid expect range %q: %w", s, err)
			}
			return mock.LessThan(hi), nil
		}
		if parts[1] == "" {
			lo, err := strconv.ParseUint(parts[0], 10, 64)
			if err != nil {
				return mock.Times{}, fmt.Errorf("invalid expect range %q: %w", s, err)
			}
			return mock.AtLeast(lo), nil
		}
		lo, hi, err := parseBounds(parts[0], parts[1])
		if err != nil {
			return mock.Times{}, err
		}
		return mock.Between(lo, hi), nil
	default:
		n, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return mock.Times{}, fmt.Errorf("invalid expect value %q: %w", s, err)
		}
		return mock.Exactly(n), nil
	}
}

func parseBounds(loStr, hiStr string) (uint64, uint64, error) {
	lo, err := strconv.ParseUint(loStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid lower bound %q: %w", loStr, err)
	}
	hi, err := strconv.ParseUint(hiStr, 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid upper bound %q: %w", hiStr, err)
	}
	return lo, hi, nil
}
