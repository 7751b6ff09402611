// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Schema is kept dialect-neutral between sqlite and postgres: TEXT primary
// keys are generated in the application, timestamps are bound as parameters.
const schema = `
-- Users
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    username TEXT NOT NULL UNIQUE,
    display_name TEXT NOT NULL,
    bio TEXT,
    avatar_url TEXT,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);
CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

-- Posts (replies carry parent_id, reposts carry repost_of_id)
CREATE TABLE IF NOT EXISTS posts (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    content TEXT,
    media_url TEXT,
    media_type TEXT,
    parent_id TEXT REFERENCES posts(id),
    repost_of_id TEXT REFERENCES posts(id),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_posts_user_id ON posts(user_id);
CREATE INDEX IF NOT EXISTS idx_posts_parent_id ON posts(parent_id);
CREATE INDEX IF NOT EXISTS idx_posts_created_at ON posts(created_at);

-- Likes
CREATE TABLE IF NOT EXISTS likes (
    id TEXT PRIMARY KEY,
    user_id TEXT NOT NULL REFERENCES users(id),
    post_id TEXT NOT NULL REFERENCES posts(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (user_id, post_id)
);

CREATE INDEX IF NOT EXISTS idx_likes_post_id ON likes(post_id);

-- Follows
CREATE TABLE IF NOT EXISTS follows (
    id TEXT PRIMARY KEY,
    follower_id TEXT NOT NULL REFERENCES users(id),
    following_id TEXT NOT NULL REFERENCES users(id),
    created_at TIMESTAMP NOT NULL,
    UNIQUE (follower_id, following_id)
);

CREATE INDEX IF NOT EXISTS idx_follows_follower ON follows(follower_id);
CREATE INDEX IF NOT EXISTS idx_follows_following ON follows(following_id);

-- Captcha challenges
CREATE TABLE IF NOT EXISTS captcha_challenge (
    id TEXT PRIMARY KEY,
    user_id TEXT REFERENCES users(id),
    challenge_type TEXT NOT NULL,
    challenge_data TEXT NOT NULL,
    response_data TEXT,
    server_passed BOOLEAN,
    crowd_status TEXT NOT NULL DEFAULT 'not_needed'
        CHECK (crowd_status IN ('not_needed', 'pending_review', 'approved', 'rejected')),
    context TEXT NOT NULL DEFAULT 'post' CHECK (context IN ('signup', 'post')),
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_captcha_challenge_user ON captcha_challenge(user_id);
CREATE INDEX IF NOT EXISTS idx_captcha_challenge_crowd ON captcha_challenge(crowd_status);

-- Captcha reviews (one vote per reviewer per challenge)
CREATE TABLE IF NOT EXISTS captcha_review (
    id TEXT PRIMARY KEY,
    challenge_id TEXT NOT NULL REFERENCES captcha_challenge(id),
    reviewer_id TEXT NOT NULL REFERENCES users(id),
    approved BOOLEAN NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (challenge_id, reviewer_id)
);

CREATE INDEX IF NOT EXISTS idx_captcha_review_challenge ON captcha_review(challenge_id);
`
