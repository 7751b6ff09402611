// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP middleware and request/response helpers.

# Components

  - WithLogging: structured request start/completion logging plus a request
    counter
  - CORS: cross-origin headers for the frontend, including preflight
  - JSONResponse / ErrorResponse: consistent JSON output with the shared
    error envelope
  - ParseJSONBody: request body decoding
  - BearerToken: Authorization header extraction (token verification lives
    with the handlers, which own the database lookup)
  - GetClientIP: client address behind proxies

# Metrics

Package-level prometheus counters (HTTPRequests, CaptchaOutcomes,
CrowdResolutions) are registered via promauto and exported on /metrics by
the router.
*/
package middleware
