// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the antimoltbook API server.

Antimoltbook is a small social network backend with posts, replies,
reposts, likes, follows, and media uploads, gated by a crowd-reviewed
captcha system: challenges whose responses cannot be verified
mechanically are routed to other users for approval by majority vote.

# Starting the Server

The server requires environment variables, a .env file, or CLI flags:

	JWT_SECRET=... go run .

Or with flags:

	go run . -p 8000 -t sqlite -d ./data/antimoltbook.db

# Configuration

Required settings:

  - JWT_SECRET (--jwt-secret): Secret for signing session and captcha tokens

Optional settings:

  - PORT (-p): Server port (default: 8000)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string or sqlite path
  - UPLOAD_DIR (-uploads): Media storage directory (default: ./uploads)
  - CAPTCHA_REQUIRED: Require a captcha proof token on post writes

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (auth, users, posts, media, captcha)
  - captcha: Challenge generation, validation, quorum, proof tokens
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, Prometheus metrics
  - models: Request/response types
  - auth: Password hashing and JWT handling
  - db: Schema creation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
