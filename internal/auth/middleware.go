package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
)

// contextKey is an unexported type for context keys in this package, so no
// other package can read or shadow the claims we store on the request.
type contextKey string

const claimsKey contextKey = "claims"

// Require returns a middleware enforcing authentication on protected routes,
// optionally restricted to an allow-list of roles.
//
// The flow mirrors the request path:
//  1. No bearer token in the Authorization header → 401 "Authentication required"
//  2. Token fails verification (bad signature, expired, malformed) → 401
//     "Invalid or expired token"
//  3. Roles were given and the token's role isn't among them → 403
//     "Insufficient privileges"
//  4. Otherwise the verified claims go into the request context and the
//     wrapped handler runs.
//
// With no roles the middleware gates on authentication alone. It holds no
// state across requests.
func Require(tokens *TokenService, roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				writeAuthError(w, http.StatusUnauthorized, "Authentication required")
				return
			}

			claims, err := tokens.Verify(token)
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if len(allowed) > 0 {
				if _, ok := allowed[claims.Role]; !ok {
					writeAuthError(w, http.StatusForbidden, "Insufficient privileges")
					return
				}
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext retrieves the verified claims stored by Require.
// Returns ok=false on routes the middleware never ran on.
func ClaimsFromContext(ctx context.Context) (Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(Claims)
	return claims, ok
}

// bearerToken pulls the token out of the Authorization header, stripping a
// literal "Bearer " prefix if present. A header without the prefix is
// treated as the raw token, as the original backend did.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	return strings.TrimPrefix(header, "Bearer ")
}

// writeAuthError emits the middleware's JSON error body. The auth package
// can't use the handler package's helpers without an import cycle, so it
// encodes the one shape it needs here.
func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
