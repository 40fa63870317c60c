package utils

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenSubject = errors.New("token subject is not a user id")
)

// TokenClaims is what the auth middleware stores in the echo context.
type TokenClaims struct {
	UserID uuid.UUID
	Email  string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*TokenClaims, error)
}

type identityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// JWTVerifier validates bearer tokens issued by the external identity provider.
type JWTVerifier struct {
	keyFunc jwt.Keyfunc
	methods []string
	issuer  string
}

// NewJWKSVerifier verifies RS/ES signed tokens against the provider's JWKS endpoint.
// Keys are fetched and refreshed in the background for the lifetime of ctx.
func NewJWKSVerifier(ctx context.Context, jwksURL, issuer string) (*JWTVerifier, error) {
	k, err := keyfunc.NewDefaultCtx(ctx, []string{jwksURL})
	if err != nil {
		return nil, fmt.Errorf("load jwks %s: %w", jwksURL, err)
	}
	return &JWTVerifier{
		keyFunc: k.Keyfunc,
		methods: []string{"RS256", "RS384", "RS512", "ES256", "ES384", "EdDSA"},
		issuer:  issuer,
	}, nil
}

// NewHMACVerifier verifies HS256 tokens signed with a shared secret.
func NewHMACVerifier(secret, issuer string) *JWTVerifier {
	key := []byte(secret)
	return &JWTVerifier{
		keyFunc: func(*jwt.Token) (any, error) { return key, nil },
		methods: []string{jwt.SigningMethodHS256.Alg()},
		issuer:  issuer,
	}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (*TokenClaims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods(v.methods),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	var claims identityClaims
	parsed, err := jwt.ParseWithClaims(token, &claims, v.keyFunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrTokenInvalid
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrTokenSubject
	}
	return &TokenClaims{UserID: userID, Email: claims.Email}, nil
}

// SignHMACToken issues an HS256 token. It backs local tooling and tests; production
// tokens come from the identity provider.
func SignHMACToken(secret, issuer string, userID uuid.UUID, ttl time.Duration) (string, error) {
	claims := identityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
