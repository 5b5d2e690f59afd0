package response_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mockwire/mockwire/pkg/response"
)

func TestTypedBodyHelperContentTypeWinsOverExplicitHeader(t *testing.T) {
	tmpl := response.New(200).
		InsertHeader("Content-Type", "text/html").
		SetBodyJSON(map[string]string{"hello": "world"})

	rec := httptest.NewRecorder()
	tmpl.Render(rec)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestExplicitHeaderWinsWhenNoTypedBodyHelperUsed(t *testing.T) {
	tmpl := response.New(200).InsertHeader("Content-Type", "text/html")

	rec := httptest.NewRecorder()
	tmpl.Render(rec)

	assert.Equal(t, "text/html", rec.Header().Get("Content-Type"))
}

func TestSetBodyRawContentTypeWinsOverExplicitHeader(t *testing.T) {
	tmpl := response.New(200).
		InsertHeader("Content-Type", "text/html").
		SetBodyRaw([]byte("<a/>"), "application/xml")

	rec := httptest.NewRecorder()
	tmpl.Render(rec)

	assert.Equal(t, "application/xml", rec.Header().Get("Content-Type"))
}
