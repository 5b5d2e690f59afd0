// Package bodylimit defines the body-print-limit configuration used when
// rendering request bodies into verification diagnostics.
package bodylimit

import (
	"fmt"
	"os"
	"strconv"
)

// EnvVar is the environment variable that overrides the default body
// print limit. Named in diagnostic output so a developer reading a panic
// message knows how to adjust it without consulting documentation.
const EnvVar = "WIREMOCK_BODY_PRINT_LIMIT"

// DefaultLimit is the number of bytes printed from a request body in a
// diagnostic when no limit has been configured explicitly.
const DefaultLimit = 10_000

// Limit enumerates how many bytes of a request body are included in a
// verification diagnostic: either every byte, or a fixed number of bytes.
type Limit struct {
	unlimited bool
	bytes     uint64
}

// Unlimited returns a Limit that prints a request body in full.
func Unlimited() Limit {
	return Limit{unlimited: true}
}

// Limited returns a Limit that prints at most n bytes of a request body.
func Limited(n uint64) Limit {
	return Limit{bytes: n}
}

// Default returns the default Limit, honoring the WIREMOCK_BODY_PRINT_LIMIT
// environment variable if it is set to a valid non-negative integer.
func Default() Limit {
	if v, ok := os.LookupEnv(EnvVar); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err == nil {
			return Limited(n)
		}
	}
	return Limited(DefaultLimit)
}

// Bytes returns the byte limit and whether it applies. If ok is false the
// limit is unlimited and every byte should be printed.
func (l Limit) Bytes() (n uint64, ok bool) {
	if l.unlimited {
		return 0, false
	}
	return l.bytes, true
}

// Truncate returns body truncated to the limit, whether it was truncated,
// and the original length.
func (l Limit) Truncate(body []byte) (truncated []byte, wasTruncated bool, originalLen int) {
	n, ok := l.Bytes()
	if !ok || uint64(len(body)) <= n {
		return body, false, len(body)
	}
	return body[:n], true, len(body)
}

// TruncationNote renders the note appended to a diagnostic when a body was
// truncated, naming both the environment variable and the builder method
// a caller can use to raise the limit.
func TruncationNote(originalLen int, limit uint64) string {
	return fmt.Sprintf(
		"[%d bytes total, truncated to %d bytes. Set %s or use mockserver.Builder.BodyPrintLimit to see more.]",
		originalLen, limit, EnvVar,
	)
}
