package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"

	"github.com/16navigabraham/Tipjar/internal/domain"
)

var (
	ErrMissingToken = errors.New("authorization token required")
	ErrUnauthorized = errors.New("invalid or expired token")
)

type senderKey struct{}

// SenderFromContext returns the wallet address the request was authenticated as.
func SenderFromContext(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(senderKey{}).(string)
	return s, ok
}

// Authenticator validates bearer tokens whose subject is the sender's wallet
// address. Tokens are verified with a shared HMAC secret or a JWKS endpoint.
type Authenticator struct {
	keyfunc jwt.Keyfunc
	opts    []jwt.ParserOption
}

func NewHMACAuthenticator(secret, issuer, audience string) *Authenticator {
	key := []byte(secret)
	kf := func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	}
	return newAuthenticator(kf, []string{"HS256", "HS384", "HS512"}, issuer, audience)
}

// NewJWKSAuthenticator fetches and refreshes signing keys from the given JWKS URLs.
func NewJWKSAuthenticator(ctx context.Context, urls []string, issuer, audience string) (*Authenticator, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, urls)
	if err != nil {
		return nil, errors.Wrap(err, "loading jwks")
	}
	return newAuthenticator(k.Keyfunc, []string{"RS256", "ES256", "EdDSA"}, issuer, audience), nil
}

func newAuthenticator(kf jwt.Keyfunc, methods []string, issuer, audience string) *Authenticator {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(methods),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return &Authenticator{keyfunc: kf, opts: opts}
}

// Sender validates the token on r and returns its subject as a checksummed
// address. Websocket clients may pass the token as access_token.
func (a *Authenticator) Sender(r *http.Request) (string, error) {
	raw := strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
	if raw == "" {
		raw = r.URL.Query().Get("access_token")
	}
	if raw == "" {
		return "", ErrMissingToken
	}

	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, a.keyfunc, a.opts...)
	if err != nil || !token.Valid {
		return "", errors.Wrapf(ErrUnauthorized, "%v", err)
	}
	sender, ok := domain.NormalizeAddress(claims.Subject)
	if !ok {
		return "", errors.Wrap(ErrUnauthorized, "subject is not a wallet address")
	}
	return sender, nil
}

// Middleware rejects unauthenticated requests and stores the sender in the context.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sender, err := a.Sender(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Kind: "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), senderKey{}, sender)))
	})
}
