// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package captcha implements the human-verification core: challenge
generation, response validation, crowd-review quorum resolution, and
proof-of-passage tokens.

# Challenge Kinds

Five kinds form a closed enumeration: draw_shape, draw_freeform,
type_backwards, type_pattern, speed_type. Each kind has its own typed
payload struct, serialized to JSON for storage. Generator picks vocabulary
entries from an injected *rand.Rand so tests can seed the selection.

# Validation

Validate is a pure function from (kind, stored payload, response payload)
to exactly one of three outcomes:

  - Passed: the automated policy is satisfied
  - Failed: definitively wrong (also the fail-closed answer for unknown
    kinds and undecodable payloads)
  - PendingReview: a drawing showed some effort but not enough to pass;
    the decision is deferred to human reviewers

Typing kinds compare exact strings (the expected answer is computed at
validation time, never pre-stored); speed_type additionally requires the
submitted duration to beat the stored limit. Drawing kinds use a coarse
effort heuristic over stroke and point counts, not shape recognition.

# Crowd Review

ResolveQuorum implements majority-of-first-three-or-more: once at least
three votes exist and either side holds two, the challenge resolves. The
recount runs over all votes ever cast and must execute inside the same
transaction that appended the triggering vote.

# Proof Tokens

Issuer mints short-lived JWTs tagged with type "captcha". Verify is
stateless and fail-closed: malformed, expired, or wrongly-tagged tokens
are all just invalid.
*/
package captcha
