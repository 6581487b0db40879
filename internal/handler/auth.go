package handler

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log"
	"net"
	"net/http"

	"location-cache-api/internal/model"
	"location-cache-api/internal/service"
	"location-cache-api/pkg/apierror"
	"location-cache-api/pkg/response"
)

// TokenIssuer issues and revokes admin session tokens.
type TokenIssuer interface {
	GenerateToken(ctx context.Context, data model.TokenData) (string, error)
	RevokeToken(ctx context.Context, token string) error
}

// AuthHandler exchanges the admin login key for session tokens.
type AuthHandler struct {
	tokens   TokenIssuer
	loginKey string
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(tokens TokenIssuer, loginKey string) *AuthHandler {
	return &AuthHandler{
		tokens:   tokens,
		loginKey: loginKey,
	}
}

// TokenRequest represents the request body for token generation.
type TokenRequest struct {
	LoginKey string `json:"login_key"`
}

// TokenResponse represents the response for token generation.
type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// GenerateToken handles POST /api/v1/auth/token
func (h *AuthHandler) GenerateToken(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, apierror.BadRequest("invalid request body"))
		return
	}

	if req.LoginKey == "" {
		response.Error(w, apierror.BadRequest("login_key is required"))
		return
	}
	if h.loginKey == "" || subtle.ConstantTimeCompare([]byte(req.LoginKey), []byte(h.loginKey)) != 1 {
		response.Error(w, apierror.Unauthorized("invalid login key"))
		return
	}

	remoteIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remoteIP = r.RemoteAddr
	}

	token, err := h.tokens.GenerateToken(r.Context(), model.TokenData{Subject: "admin", RemoteIP: remoteIP})
	if err != nil {
		log.Printf("[AuthHandler] %v", err)
		response.Error(w, apierror.InternalError("failed to generate token"))
		return
	}

	response.OK(w, TokenResponse{
		Token:     token,
		ExpiresIn: int(service.TokenTTL.Seconds()),
	})
}

// RevokeToken handles POST /api/v1/auth/revoke
func (h *AuthHandler) RevokeToken(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Token")
	if token == "" {
		response.Error(w, apierror.BadRequest("X-Token header required"))
		return
	}

	if err := h.tokens.RevokeToken(r.Context(), token); err != nil {
		log.Printf("[AuthHandler] %v", err)
		response.Error(w, apierror.InternalError("failed to revoke token"))
		return
	}

	response.OK(w, map[string]string{"status": "revoked"})
}
