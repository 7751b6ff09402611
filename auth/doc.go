// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides password hashing, JWT creation and verification, and
random ID generation.

# Passwords

Passwords are hashed with bcrypt at the default cost:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(password, hash)

# Tokens

Session and captcha tokens are HS256 JWTs built from a shared Claims type:

	token, err := auth.CreateToken(secret, auth.Claims{UserID: id}, 30*time.Minute)
	claims, err := auth.ParseToken(secret, token)

ParseToken is fail-closed: a malformed, expired, or wrongly-signed token
yields ErrInvalidToken with no further detail. Callers distinguish session
tokens from captcha proof tokens by the TokenType claim.

# ID Generation

Random hex IDs for database records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
