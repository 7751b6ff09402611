// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines the request, response, and domain types shared by the
handlers and the router.

Domain types mirror the database rows one-to-one. Nullable columns map to
pointer fields so that partial updates and absent values round-trip cleanly
through JSON.

# Enumerations

Crowd status values for captcha challenges:

  - not_needed: the automated validator settled the challenge
  - pending_review: escalated to the human review queue
  - approved / rejected: terminal, decided by quorum

Challenge contexts (signup, post) record which gated action prompted the
challenge. Media types (image, gif, video) classify uploads.
*/
package models
