package handler

import (
	"access-service/internal/audit"
	"access-service/internal/domain/user"
	apperrors "access-service/pkg/errors"
	"access-service/pkg/password"
	"net/http"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignup(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
	}{
		{"bad email", `{"email":"nope","name":"Ada","password":"correct horse"}`, nil, http.StatusBadRequest},
		{"short password", `{"email":"ada@example.com","name":"Ada","password":"short"}`, nil, http.StatusBadRequest},
		{"duplicate email", `{"email":"ada@example.com","name":"Ada","password":"correct horse"}`, apperrors.ErrEmailExists, http.StatusConflict},
		{"created", `{"email":" Ada@Example.com ","name":"Ada","password":"correct horse"}`, nil, http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := &fakeUsers{createErr: tt.createErr}
			h := NewAuthHandler(users, fakeTokens{}, &fakeAudit{})
			c, rec := newJSONContext(http.MethodPost, "/auth/signup", tt.body, uuid.Nil, uuid.Nil)

			require.NoError(t, h.Signup(c))
			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusCreated {
				var resp SignupResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "ada@example.com", resp.Email)
				assert.Equal(t, "token-"+resp.UserID, resp.Token)
				assert.NotEqual(t, "correct horse", users.byEmail["ada@example.com"].PasswordHash)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	hash, err := password.Hash("correct horse")
	require.NoError(t, err)
	ada := &user.User{ID: uuid.New(), Email: "ada@example.com", PasswordHash: hash}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantAudit  audit.Status
	}{
		{"empty credentials", `{"email":"","password":""}`, http.StatusUnauthorized, ""},
		{"unknown email", `{"email":"bob@example.com","password":"correct horse"}`, http.StatusUnauthorized, ""},
		{"wrong password", `{"email":"ada@example.com","password":"battery staple"}`, http.StatusUnauthorized, audit.StatusDenied},
		{"success", `{"email":"ADA@example.com","password":"correct horse"}`, http.StatusOK, audit.StatusSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditLog := &fakeAudit{}
			h := NewAuthHandler(&fakeUsers{byEmail: map[string]*user.User{ada.Email: ada}}, fakeTokens{}, auditLog)
			c, rec := newJSONContext(http.MethodPost, "/auth/login", tt.body, uuid.Nil, uuid.Nil)

			require.NoError(t, h.Login(c))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantAudit, auditLog.last().status)

			if tt.wantStatus == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), msgInvalidCredentials)
			}
		})
	}
}

func TestLogin_RequiresJSON(t *testing.T) {
	h := NewAuthHandler(&fakeUsers{}, fakeTokens{}, &fakeAudit{})
	c, rec := newJSONContext(http.MethodPost, "/auth/login", "", uuid.Nil, uuid.Nil)

	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}
