package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failures. ErrExpiredToken means the token was well
// formed and correctly signed but its lifetime has elapsed; everything else
// is ErrInvalidToken.
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload carried by every identity token.
type Claims struct {
	CollaboratorID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256 identity tokens. It holds no
// mutable state and is safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a service around a shared signing secret and a
// token lifetime.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{secret: secret, ttl: ttl, now: time.Now}
}

// Issue signs a token for the given collaborator, expiring ttl from now.
// The jti claim lets individual tokens be identified in logs.
func (s *TokenService) Issue(collaboratorID uint) (string, error) {
	now := s.now()
	claims := &Claims{
		CollaboratorID: collaboratorID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry and returns the subject.
// Expired tokens fail with ErrExpiredToken, everything else with
// ErrInvalidToken.
func (s *TokenService) Verify(tokenStr string) (uint, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrExpiredToken
		}
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.CollaboratorID == 0 {
		return 0, ErrInvalidToken
	}
	return claims.CollaboratorID, nil
}

// TryVerify is the lenient variant of Verify: it swallows both failure kinds
// and reports absence instead. Call sites that want a soft "not
// authenticated" path use this; everyone else uses Verify.
func (s *TokenService) TryVerify(tokenStr string) (uint, bool) {
	id, err := s.Verify(tokenStr)
	if err != nil {
		return 0, false
	}
	return id, true
}
