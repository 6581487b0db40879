package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"location-cache-api/internal/model"
)

type stubIssuer struct {
	issued  []model.TokenData
	revoked []string
	fail    error
}

func (s *stubIssuer) GenerateToken(ctx context.Context, data model.TokenData) (string, error) {
	if s.fail != nil {
		return "", s.fail
	}
	s.issued = append(s.issued, data)
	return "lca_issued", nil
}

func (s *stubIssuer) RevokeToken(ctx context.Context, token string) error {
	if s.fail != nil {
		return s.fail
	}
	s.revoked = append(s.revoked, token)
	return nil
}

func newAuthMux(issuer *stubIssuer, loginKey string) *chi.Mux {
	h := NewAuthHandler(issuer, loginKey)
	mux := chi.NewRouter()
	mux.Post("/auth/token", h.GenerateToken)
	mux.Post("/auth/revoke", h.RevokeToken)
	return mux
}

func TestAuthHandler_GenerateToken(t *testing.T) {
	issuer := &stubIssuer{}
	mux := newAuthMux(issuer, "let-me-in")

	rec := do(t, mux, http.MethodPost, "/auth/token", `{"login_key":"let-me-in"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var token TokenResponse
	require.NoError(t, json.Unmarshal(decode(t, rec).Data, &token))
	assert.Equal(t, "lca_issued", token.Token)
	assert.Equal(t, 3600, token.ExpiresIn)
	require.Len(t, issuer.issued, 1)
	assert.Equal(t, "admin", issuer.issued[0].Subject)
}

func TestAuthHandler_GenerateTokenRejects(t *testing.T) {
	tests := []struct {
		name     string
		loginKey string
		body     string
		want     int
	}{
		{"malformed body", "k", `{`, http.StatusBadRequest},
		{"missing key", "k", `{}`, http.StatusBadRequest},
		{"wrong key", "k", `{"login_key":"x"}`, http.StatusUnauthorized},
		{"login disabled", "", `{"login_key":"x"}`, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer := &stubIssuer{}
			rec := do(t, newAuthMux(issuer, tt.loginKey), http.MethodPost, "/auth/token", tt.body)
			assert.Equal(t, tt.want, rec.Code)
			assert.Empty(t, issuer.issued)
		})
	}
}

func TestAuthHandler_IssuerFailure(t *testing.T) {
	mux := newAuthMux(&stubIssuer{fail: errors.New("redis down")}, "k")

	rec := do(t, mux, http.MethodPost, "/auth/token", `{"login_key":"k"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestAuthHandler_RevokeToken(t *testing.T) {
	issuer := &stubIssuer{}
	mux := newAuthMux(issuer, "k")

	rec := do(t, mux, http.MethodPost, "/auth/revoke", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req, _ := http.NewRequest(http.MethodPost, "/auth/revoke", nil)
	req.Header.Set("X-Token", "lca_issued")
	rec2 := serve(mux, req)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, []string{"lca_issued"}, issuer.revoked)
}
