package auth

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ferro-labs/news-gateway/internal/logging"
)

// BasicAuth returns a chi-compatible middleware that requires HTTP Basic
// credentials accepted by verifier. Requests whose path starts with one of
// the exempt prefixes pass through unauthenticated. The accepted username is
// reported to the access log through logging.SetUser.
func BasicAuth(verifier Verifier, realm string, exempt ...string) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Basic realm=%q, charset=\"UTF-8\"", realm)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range exempt {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			username, password, ok := r.BasicAuth()
			if !ok {
				w.Header().Set("WWW-Authenticate", challenge)
				writeError(w, http.StatusUnauthorized, "missing basic authorization header", "missing_credentials")
				return
			}
			principal, ok := verifier.Verify(username, password)
			if !ok {
				logging.FromContext(r.Context()).Warn("authentication failed", "user", username)
				w.Header().Set("WWW-Authenticate", challenge)
				writeError(w, http.StatusUnauthorized, "invalid username or password", "invalid_credentials")
				return
			}

			logging.SetUser(r.Context(), principal.Username)
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes the gateway JSON error envelope:
//
//	{"error":{"message":"...","type":"authentication_error","code":"..."}}
func writeError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"message": message,
			"type":    "authentication_error",
			"code":    code,
		},
	})
}
