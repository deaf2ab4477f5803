package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenExpired means the signature checked out but exp is in the past.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid covers everything else: missing, malformed, or tampered.
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims is the session identity carried inside the signed cookie.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
}

// TokenService signs and verifies session tokens with a process-wide HS256
// secret.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("auth: signing secret is empty")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue signs a token for the user, expiring TTL from now.
func (s *TokenService) Issue(userID int64, username string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
		},
		UserID:   userID,
		Username: username,
	})
	return token.SignedString(s.secret)
}

// Verify checks the signature and expiry and returns the embedded claims.
// Failures are tagged ErrTokenExpired or ErrTokenInvalid so that callers can
// treat the common garbage-cookie case cheaply.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
