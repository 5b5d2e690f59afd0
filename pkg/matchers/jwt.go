package matchers

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mockwire/mockwire/pkg/mock"
	"github.com/mockwire/mockwire/pkg/request"
)

// BearerToken matches requests carrying an "Authorization: Bearer <jwt>"
// header whose claims satisfy predicate. The token's signature is not
// verified: this matcher exercises a test double standing in for an
// upstream, not an authentication boundary, so the only thing that
// matters is the shape of the claims a client sent.
func BearerToken(predicate func(jwt.MapClaims) bool) mock.Matcher {
	parser := jwt.NewParser()
	return mock.MatcherFunc(func(r *request.Request) bool {
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if !strings.HasPrefix(auth, prefix) {
			return false
		}
		token := strings.TrimPrefix(auth, prefix)

		claims := jwt.MapClaims{}
		if _, _, err := parser.ParseUnverified(token, claims); err != nil {
			return false
		}
		return predicate(claims)
	})
}
