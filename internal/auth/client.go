// Package auth scopes per-browser state with a signed client id. It does not
// authenticate users.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	CookieName = "studysprint_client"
	// TokenTTL matches how long browser local storage would plausibly survive.
	TokenTTL = 365 * 24 * time.Hour
)

var ErrInvalidToken = errors.New("invalid client token")

type ctxKey string

const ctxKeyClient ctxKey = "client_id"

func WithClientID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeyClient, id)
}

// ClientID returns the id placed by Middleware, or "".
func ClientID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyClient).(string); ok {
		return v
	}
	return ""
}

// Issuer signs and verifies client tokens with HMAC-SHA256.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// NewClient mints a token for a fresh client id.
func (i *Issuer) NewClient() (id, token string, err error) {
	id = uuid.NewString()
	token, err = i.Token(id)
	return id, token, err
}

func (i *Issuer) Token(clientID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   clientID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Parse verifies a token and returns its client id.
func (i *Issuer) Parse(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(i.now))
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return "", fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return claims.Subject, nil
}

// Middleware attaches the caller's client id to the request context,
// issuing a new cookie when the request carries no valid token.
func (i *Issuer) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if tok := requestToken(r); tok != "" {
			if id, err := i.Parse(tok); err == nil {
				next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), id)))
				return
			}
		}

		id, tok, err := i.NewClient()
		if err != nil {
			log.Printf("[auth] failed to issue client token: %v", err)
			http.Error(w, `{"error":"Internal server error"}`, http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     CookieName,
			Value:    tok,
			Path:     "/",
			MaxAge:   int(TokenTTL / time.Second),
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
		next.ServeHTTP(w, r.WithContext(WithClientID(r.Context(), id)))
	})
}

func requestToken(r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	return ""
}
