package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// TokenExpiry is the lifetime of a session token.
const TokenExpiry = 24 * time.Hour

var (
	// ErrInvalidToken is returned for malformed, tampered or foreign tokens.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned once the token's expiry has been reached.
	ErrTokenExpired = errors.New("token has expired")
	// ErrWrongKind is returned when a token was minted for the other namespace.
	ErrWrongKind = errors.New("token issued for another principal kind")
)

// Claims represents JWT claims.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Kind   Kind   `json:"kind"`
	jwt.RegisteredClaims
}

// JWTService handles token generation and validation for one principal kind.
// Tokens carry the kind both as a claim and as the audience, and each kind
// may be configured with its own secret.
type JWTService struct {
	kind   Kind
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a JWTService.
type Option func(*JWTService)

// WithTTL overrides TokenExpiry.
func WithTTL(ttl time.Duration) Option {
	return func(s *JWTService) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *JWTService) {
		s.now = now
	}
}

// NewJWTService creates a new JWT service for kind with the given secret.
func NewJWTService(kind Kind, secret string, opts ...Option) *JWTService {
	s := &JWTService{
		kind:   kind,
		secret: []byte(secret),
		ttl:    TokenExpiry,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Kind returns the namespace this service mints and accepts tokens for.
func (s *JWTService) Kind() Kind {
	return s.kind
}

// TTL returns the lifetime of minted tokens.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// GenerateToken mints a signed token identifying the principal.
func (s *JWTService) GenerateToken(userID, email string) (string, error) {
	now := s.now()
	claims := &Claims{
		UserID: userID,
		Email:  email,
		Kind:   s.kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Audience:  jwt.ClaimStrings{string(s.kind)},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// ValidateToken verifies signature, expiry and namespace and returns the claims.
// A token is valid only while now is strictly before its expiry.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	token, err := parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.ExpiresAt == nil || !s.now().Before(claims.ExpiresAt.Time) {
		return nil, ErrTokenExpired
	}
	if claims.Kind != s.kind || !claims.VerifyAudience(string(s.kind), true) {
		return nil, ErrWrongKind
	}
	if claims.UserID == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
