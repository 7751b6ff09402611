// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db provides database schema creation.

# Schema Overview

Tables:

  - users: accounts with unique email and username
  - posts: top-level posts, replies (parent_id), reposts (repost_of_id)
  - likes: one like per (user, post)
  - follows: one edge per (follower, following)
  - captcha_challenge: one verification attempt with its payloads and verdicts
  - captcha_review: append-only reviewer votes, one per (challenge, reviewer)

All primary keys are application-generated random hex strings (see the auth
package), which keeps the DDL identical under sqlite and postgres. Challenge
and response payloads are stored as JSON text, interpreted only by the
captcha package.

# Usage

	if err := db.CreateSchema(dbConn); err != nil {
		// handle error
	}

CreateSchema is idempotent (IF NOT EXISTS everywhere) and is called on every
server start.
*/
package db
