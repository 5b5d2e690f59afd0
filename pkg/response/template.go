// Package response defines ResponseTemplate, the blueprint for a response
// returned by a MockServer once a Mock matches an incoming request.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Template is the blueprint for the response returned by a MockServer
// when a Mock matches an incoming request.
//
// Every Set* method returns a new Template with the mutation applied; the
// receiver is never mutated in place, so a Template can be shared and
// reused across mocks. Each match against the owning Mock renders a fresh
// http response from the same Template.
type Template struct {
	statusCode  int
	header      http.Header
	contentType string
	body        []byte
	hasBody     bool
	delay       time.Duration
	hasDelay    bool
}

// New starts building a Template with the given status code.
func New(statusCode int) Template {
	return Template{
		statusCode: statusCode,
		header:     make(http.Header),
	}
}

// AppendHeader appends value to the list of values already present for
// name, rather than replacing them. See InsertHeader for replace
// semantics.
func (t Template) AppendHeader(name, value string) Template {
	t.header = t.header.Clone()
	t.header.Add(name, value)
	return t
}

// InsertHeader replaces any existing values for name with value.
func (t Template) InsertHeader(name, value string) Template {
	t.header = t.header.Clone()
	t.header.Set(name, value)
	return t
}

// SetBodyBytes sets the response body to body and its content type to
// application/octet-stream. Use SetBodyRaw to set a different content
// type alongside raw bytes.
func (t Template) SetBodyBytes(body []byte) Template {
	t.body = append([]byte(nil), body...)
	t.hasBody = true
	t.contentType = "application/octet-stream"
	return t
}

// SetBodyString sets the response body to body and its content type to
// text/plain.
func (t Template) SetBodyString(body string) Template {
	t.body = []byte(body)
	t.hasBody = true
	t.contentType = "text/plain"
	return t
}

// SetBodyJSON marshals v to JSON and sets it as the response body, with
// content type application/json. It panics if v cannot be marshaled,
// matching this library's panic-on-misuse error policy.
func (t Template) SetBodyJSON(v any) Template {
	body, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("mockwire: failed to convert value into a JSON body: %v", err))
	}
	t.body = body
	t.hasBody = true
	t.contentType = "application/json"
	return t
}

// SetBodyRaw sets the response body to body with an explicit content
// type, for bodies of a type the other Set* helpers do not cover.
func (t Template) SetBodyRaw(body []byte, contentType string) Template {
	t.body = append([]byte(nil), body...)
	t.hasBody = true
	t.contentType = contentType
	return t
}

// SetDelay attaches an artificial delay to the response, to simulate the
// latency of a real upstream. The delay is never applied while rendering
// the response (Render, below); the dispatcher is responsible for
// sleeping after it has released any lock it holds, so a slow response
// never blocks the matching of unrelated requests. See Delay.
func (t Template) SetDelay(d time.Duration) Template {
	t.delay = d
	t.hasDelay = true
	return t
}

// Delay returns the configured delay and whether one was set.
func (t Template) Delay() (time.Duration, bool) {
	return t.delay, t.hasDelay
}

// StatusCode returns the configured status code.
func (t Template) StatusCode() int {
	return t.statusCode
}

// Render writes the template's status, headers and body to w. It never
// applies the delay; callers must do that themselves, outside any lock,
// before or after calling Render as their concurrency model requires.
//
// A content type recorded by a typed body helper (SetBodyBytes,
// SetBodyString, SetBodyJSON, SetBodyRaw) always wins over any explicit
// Content-Type set via AppendHeader/InsertHeader, regardless of call
// order, matching the original's generate_response override-last rule.
func (t Template) Render(w http.ResponseWriter) {
	header := w.Header()
	for name, values := range t.header {
		for _, v := range values {
			header.Add(name, v)
		}
	}
	if t.contentType != "" {
		header.Set("Content-Type", t.contentType)
	}
	w.WriteHeader(t.statusCode)
	if t.hasBody {
		_, _ = w.Write(t.body)
	}
}
