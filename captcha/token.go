// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package captcha

import (
	"time"

	"github.com/ethantrokie/antimoltbook/auth"
)

// TokenType tags proof tokens so session tokens can never stand in for a
// passed captcha.
const TokenType = "captcha"

// Issuer mints and verifies proof-of-passage tokens. It is stateless:
// trust rests on the signature and expiry alone, never on a lookup, so a
// token cannot be revoked before its short TTL runs out.
type Issuer struct {
	secret string
	ttl    time.Duration
}

func NewIssuer(secret string, ttl time.Duration) Issuer {
	return Issuer{secret: secret, ttl: ttl}
}

// Issue mints a proof token asserting that userID recently passed
// verification.
func (i Issuer) Issue(userID string) (string, error) {
	return auth.CreateToken(i.secret, auth.Claims{
		UserID:    userID,
		TokenType: TokenType,
	}, i.ttl)
}

// Verify checks signature, expiry, and the captcha type tag, and returns
// the verified principal. Every failure mode collapses to
// auth.ErrInvalidToken so callers cannot probe token structure.
func (i Issuer) Verify(token string) (string, error) {
	claims, err := auth.ParseToken(i.secret, token)
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	if claims.TokenType != TokenType || claims.UserID == "" {
		return "", auth.ErrInvalidToken
	}
	return claims.UserID, nil
}
