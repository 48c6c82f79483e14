package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Codec signs and validates access tokens. Tokens are HS256, carry the user id
// as subject plus an email and a role snapshot, and expire after ttl.
type Codec struct {
	key      []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

type Claims struct {
	Email string   `json:"email"`
	Roles []string `json:"roles,omitempty"`
	jwtlib.RegisteredClaims
}

func NewCodec(key []byte, issuer, audience string, ttl time.Duration) *Codec {
	return &Codec{
		key:      key,
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}
}

func (c *Codec) Issue(userID, email string, roles []string) (string, error) {
	now := c.now()
	claims := Claims{
		Email: email,
		Roles: roles,
		RegisteredClaims: jwtlib.RegisteredClaims{
			Subject:   userID,
			Issuer:    c.issuer,
			Audience:  jwtlib.ClaimStrings{c.audience},
			IssuedAt:  jwtlib.NewNumericDate(now),
			ExpiresAt: jwtlib.NewNumericDate(now.Add(c.ttl)),
		},
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(c.key)
}

// Validate checks signature, issuer, audience and expiry with zero leeway.
// Every failure mode collapses to ErrInvalidToken.
func (c *Codec) Validate(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return c.key, nil
	},
		jwtlib.WithValidMethods([]string{"HS256"}),
		jwtlib.WithIssuer(c.issuer),
		jwtlib.WithAudience(c.audience),
		jwtlib.WithExpirationRequired(),
		jwtlib.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// DecodeSubject extracts the subject claim without verifying the signature or
// lifetime. Logout accepts expired tokens, so this must not reject them.
func (c *Codec) DecodeSubject(tokenStr string) (string, error) {
	var claims Claims
	parser := jwtlib.NewParser()
	if _, _, err := parser.ParseUnverified(tokenStr, &claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
