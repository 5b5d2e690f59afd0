package mockserver

import (
	"strconv"
	"strings"

	"github.com/mockwire/mockwire/internal/mockset"
	"github.com/mockwire/mockwire/pkg/bodylimit"
	"github.com/mockwire/mockwire/pkg/request"
)

// composeDiagnostic renders the full panic message for a set-wide
// verification failure: a header, one line per failed mock, a blank
// line, and then either the list of every recorded request (numbered
// from 1, indented with a tab) or a note about enabling recording.
func composeDiagnostic(failures []mockset.Report, received []*request.Request, recordingEnabled bool, limit bodylimit.Limit) string {
	var b strings.Builder
	b.WriteString("Verifications failed:\n")
	for _, f := range failures {
		b.WriteString("- ")
		b.WriteString(f.Message())
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	if !recordingEnabled {
		b.WriteString("Enable request recording on the mock server to get the list of incoming requests as part of the panic message.")
		return b.String()
	}

	if len(received) == 0 {
		b.WriteString("The server did not receive any request.")
		return b.String()
	}

	b.WriteString("Received requests:\n")
	for i, r := range received {
		b.WriteByte('\t')
		b.WriteString(strconv.Itoa(i + 1))
		b.WriteString(". ")
		b.WriteString(r.Diagnostic(limit))
	}
	return strings.TrimRight(b.String(), "\n")
}
