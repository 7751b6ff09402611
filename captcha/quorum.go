// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package captcha

import "github.com/ethantrokie/antimoltbook/models"

// Quorum voting thresholds: no resolution before Quorum total votes, and a
// side needs Majority votes to win.
const (
	Quorum   = 3
	Majority = 2
)

// ResolveQuorum applies the majority-of-first-three-or-more rule to the
// full set of votes ever cast for a challenge. It returns the crowd status
// the challenge should move to and whether that is a change. Callers must
// run the recount against a consistent read of all reviews, in the same
// transaction as the vote that triggered it.
func ResolveQuorum(approvals, rejections int) (string, bool) {
	if approvals+rejections < Quorum {
		return models.CrowdPendingReview, false
	}
	switch {
	case approvals >= Majority:
		return models.CrowdApproved, true
	case rejections >= Majority:
		return models.CrowdRejected, true
	}
	// Unreachable with boolean votes at quorum, but guards future
	// extensions with abstentions.
	return models.CrowdPendingReview, false
}
