// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package handlers contains the HTTP handlers for the API.
//
// Each resource gets a handler struct holding the shared *sql.DB and the
// parsed configuration. Handlers validate input, run the database work,
// and reply through the middleware JSON helpers. Authenticated endpoints
// resolve the caller with requireUser, which rejects captcha proof tokens
// presented as session tokens.
package handlers
