package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.RegisteredClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func validClaims(subject string) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    "tipjar",
		Audience:  jwt.ClaimStrings{"tipjar-api"},
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
}

func TestAuthenticator_Sender(t *testing.T) {
	auth := NewHMACAuthenticator(testSecret, "tipjar", "tipjar-api")

	expired := validClaims(alice)
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongAudience := validClaims(alice)
	wrongAudience.Audience = jwt.ClaimStrings{"other"}

	tests := []struct {
		name    string
		header  string
		query   string
		want    string
		wantErr error
	}{
		{"bearer header", "Bearer " + signToken(t, testSecret, validClaims(strings.ToLower(alice))), "", alice, nil},
		{"query token", "", signToken(t, testSecret, validClaims(alice)), alice, nil},
		{"missing", "", "", "", ErrMissingToken},
		{"wrong secret", "Bearer " + signToken(t, "other", validClaims(alice)), "", "", ErrUnauthorized},
		{"expired", "Bearer " + signToken(t, testSecret, expired), "", "", ErrUnauthorized},
		{"wrong audience", "Bearer " + signToken(t, testSecret, wrongAudience), "", "", ErrUnauthorized},
		{"subject not an address", "Bearer " + signToken(t, testSecret, validClaims("alice")), "", "", ErrUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := "/api/v1/tips"
			if tt.query != "" {
				target += "?access_token=" + tt.query
			}
			r := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			got, err := auth.Sender(r)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSendTip_SenderFromToken(t *testing.T) {
	sender := &fakeSender{result: &domain.TipResult{Phase: domain.PhaseCompleted}}
	mux := newTestHandler(t, sender, &fakeReader{}, NewHMACAuthenticator(testSecret, "", ""))

	body := `{"sender":"0x0000000000000000000000000000000000000001","receiver":"creator","amount":"1","token":"ETH"}`

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/tips", strings.NewReader(body)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tips", strings.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims(alice)))
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, alice, sender.got.Sender, "token subject overrides the body")
}
