package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"flowdeck/internal/domain"
)

// APIKeyHeader carries a raw API key on programmatic requests unless the
// deployment configures another header name.
const APIKeyHeader = "X-API-Key"

// Auth authenticates each request: a Bearer token through the validator
// first, then an API-key lookup against the repository. The resolved
// principal lands in the request context; requests that match neither get a
// 401. Expired keys never authenticate. An empty apiKeyHeader falls back to
// APIKeyHeader.
func Auth(validator JWTValidator, keys domain.APIKeyRepository, apiKeyHeader string, logger *slog.Logger) func(http.Handler) http.Handler {
	if apiKeyHeader == "" {
		apiKeyHeader = APIKeyHeader
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); validator != nil && strings.HasPrefix(auth, "Bearer ") {
				tokenStr := strings.TrimPrefix(auth, "Bearer ")
				claims, err := validator.Validate(r.Context(), tokenStr)
				if err == nil && claims.Subject != "" {
					principal := domain.ContextPrincipal{
						Name:    claims.Subject,
						IsAdmin: claims.Admin,
						Type:    "user",
					}
					next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), principal)))
					return
				}
				if err != nil {
					logger.Debug("bearer token rejected", "error", err)
				}
			}

			if rawKey := r.Header.Get(apiKeyHeader); rawKey != "" && keys != nil {
				hash := sha256.Sum256([]byte(rawKey))
				key, err := keys.GetByHash(r.Context(), hex.EncodeToString(hash[:]))
				if err == nil && !key.Expired(time.Now()) {
					_ = keys.TouchLastUsed(r.Context(), key.ID, time.Now())
					principal := domain.ContextPrincipal{
						Name:    key.PrincipalName,
						IsAdmin: key.IsAdmin,
						Type:    "api_key",
					}
					next.ServeHTTP(w, r.WithContext(domain.WithPrincipal(r.Context(), principal)))
					return
				}
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"code":    401,
				"message": "unauthorized: provide a valid Bearer token or API key",
			})
		})
	}
}
