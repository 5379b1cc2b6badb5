package service

//go:generate mockgen -destination=../../mocks/mock_token_codec.go -package=mocks github.com/taskflowhq/taskflow/internal/auth/service TokenCodec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	autherror "github.com/taskflowhq/taskflow/internal/errors"
)

// TokenCodec signs and verifies the compact tokens used for access,
// refresh and password-reset flows. Encode stamps the claims with iat,
// exp and the token type; DecodeAndVerify checks signature and expiry
// but deliberately not the type claim — each consumer enforces the type
// it requires.
type TokenCodec interface {
	Encode(claims map[string]any, tokenType string, ttl time.Duration) (string, error)
	DecodeAndVerify(tokenString string) (jwt.MapClaims, error)
	DecodeUnsafe(tokenString string) jwt.MapClaims
	AccessTokenTTL() time.Duration
	RefreshTokenTTL() time.Duration
}

type TokenService struct {
	secretKey     string
	method        jwt.SigningMethod
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewTokenService builds a codec for the named symmetric algorithm
// (HS256 by default). Asymmetric algorithms are rejected: the whole
// deployment shares one secret key.
func NewTokenService(secretKey, algorithm string, accessMinutes, refreshDays int) (*TokenService, error) {
	method := jwt.GetSigningMethod(algorithm)
	if method == nil {
		return nil, fmt.Errorf("unknown signing algorithm %q", algorithm)
	}
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("algorithm %q is not symmetric", algorithm)
	}

	return &TokenService{
		secretKey:     secretKey,
		method:        method,
		accessExpiry:  time.Duration(accessMinutes) * time.Minute,
		refreshExpiry: time.Duration(refreshDays) * 24 * time.Hour,
	}, nil
}

func (ts *TokenService) Encode(claims map[string]any, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	mapClaims["iat"] = now.Unix()
	mapClaims["exp"] = now.Add(ttl).Unix()
	mapClaims["type"] = tokenType

	return jwt.NewWithClaims(ts.method, mapClaims).SignedString([]byte(ts.secretKey))
}

// DecodeAndVerify parses the token, checks the signature against the
// configured key and rejects expired tokens. Expiry is strict: a token
// whose exp equals the current second is still valid. Every failure
// surfaces as ErrInvalidToken.
func (ts *TokenService) DecodeAndVerify(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.secretKey), nil
	}, jwt.WithoutClaimsValidation())

	if err != nil || !token.Valid {
		return nil, autherror.ErrInvalidToken
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, autherror.ErrInvalidToken
	}
	if time.Now().After(exp.Time) {
		return nil, autherror.ErrInvalidToken
	}

	return claims, nil
}

// DecodeUnsafe returns claims without verifying signature or expiry.
// Diagnostics only; never an input to an authorization decision.
func (ts *TokenService) DecodeUnsafe(tokenString string) jwt.MapClaims {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	return claims
}

func (ts *TokenService) AccessTokenTTL() time.Duration {
	return ts.accessExpiry
}

func (ts *TokenService) RefreshTokenTTL() time.Duration {
	return ts.refreshExpiry
}
