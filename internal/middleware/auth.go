package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"location-cache-api/internal/model"
	"location-cache-api/pkg/apierror"
)

// TokenDataKey is the key for storing token data in request context.
const TokenDataKey contextKey = "token_data"

// TokenValidator resolves an admin session token.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (*model.TokenData, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	// Tokens may be nil when Redis is unavailable; only API keys work then.
	Tokens  TokenValidator
	APIKeys []string
}

// NewAuthMiddleware creates an authentication middleware for the admin routes.
// A request passes with a valid X-Token, or an API key in X-API-Key or a
// Bearer Authorization header.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Try X-Token first (session tokens)
			if token := r.Header.Get("X-Token"); token != "" && cfg.Tokens != nil {
				tokenData, err := cfg.Tokens.ValidateToken(r.Context(), token)
				if err != nil {
					apierror.Unauthorized("Invalid or expired token").Write(w)
					return
				}

				ctx := context.WithValue(r.Context(), TokenDataKey, tokenData)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			// Fall back to X-API-Key
			apiKey := r.Header.Get("X-API-Key")
			if apiKey == "" {
				auth := r.Header.Get("Authorization")
				if strings.HasPrefix(auth, "Bearer ") {
					apiKey = strings.TrimPrefix(auth, "Bearer ")
				}
			}

			if apiKey == "" {
				apierror.Unauthorized("Authentication required. Use X-Token or X-API-Key header.").Write(w)
				return
			}

			if !isValidKey(apiKey, cfg.APIKeys) {
				apierror.Unauthorized("Invalid API key").Write(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// isValidKey checks if the provided key is in the valid keys list.
func isValidKey(key string, validKeys []string) bool {
	for _, valid := range validKeys {
		valid = strings.TrimSpace(valid)
		if valid != "" && subtle.ConstantTimeCompare([]byte(key), []byte(valid)) == 1 {
			return true
		}
	}
	return false
}

// GetTokenDataFromContext retrieves token data from request context.
func GetTokenDataFromContext(ctx context.Context) *model.TokenData {
	if data, ok := ctx.Value(TokenDataKey).(*model.TokenData); ok {
		return data
	}
	return nil
}
