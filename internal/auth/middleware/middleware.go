package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/mind-engage/studyquiz/internal/rbac"
)

const issuer = "studyquiz"

// DefaultTokenTTL bounds how long a minted service token stays valid.
const DefaultTokenTTL = time.Hour

var ErrBadToken = errors.New("bad token")

// AuthService mints and verifies HS256 bearer tokens shared between the
// study service and its clients. An empty secret disables verification.
type AuthService struct{ hmac []byte }

func NewAuthService(secret string) *AuthService { return &AuthService{hmac: []byte(secret)} }

// Enabled reports whether a secret is configured.
func (a *AuthService) Enabled() bool { return a != nil && len(a.hmac) > 0 }

type Claims struct {
	Sub  string `json:"sub"`
	Role string `json:"role"` // see rbac roles
	jwt.RegisteredClaims
}

func (a *AuthService) IssueServiceToken(sub, role string, ttl time.Duration) (string, time.Time, error) {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	now := time.Now()
	exp := now.Add(ttl)
	claims := &Claims{
		Sub:  sub,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(a.hmac)
	return s, exp, err
}

func (a *AuthService) Parse(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return a.hmac, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithIssuer(issuer))
	if err != nil {
		return nil, err
	}
	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrBadToken
	}
	return c, nil
}

// TokenSource mints service tokens for sub and role on demand. Wrap it with
// oauth2.ReuseTokenSource so a token is reused until shortly before expiry.
func (a *AuthService) TokenSource(sub, role string) oauth2.TokenSource {
	return tokenSource{a: a, sub: sub, role: role}
}

type tokenSource struct {
	a    *AuthService
	sub  string
	role string
}

func (s tokenSource) Token() (*oauth2.Token, error) {
	tok, exp, err := s.a.IssueServiceToken(s.sub, s.role, DefaultTokenTTL)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: tok, TokenType: "Bearer", Expiry: exp}, nil
}

// JWTMiddleware rejects requests without a valid bearer token and records the
// caller's Principal and role on the request context. It passes everything
// through when no secret is configured.
func JWTMiddleware(a *AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !a.Enabled() {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if !strings.HasPrefix(h, "Bearer ") {
				http.Error(w, "missing bearer", http.StatusUnauthorized)
				return
			}
			c, err := a.Parse(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				http.Error(w, "bad token", http.StatusUnauthorized)
				return
			}
			ctx := r.Context()
			if p := PrincipalFromContext(ctx); p != nil {
				p.Sub, p.Role = c.Sub, c.Role
			} else {
				ctx = WithPrincipal(ctx, &Principal{Sub: c.Sub, Role: c.Role})
			}
			next.ServeHTTP(w, r.WithContext(rbac.WithRole(ctx, c.Role)))
		})
	}
}
