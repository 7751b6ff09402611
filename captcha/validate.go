// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package captcha

import (
	"encoding/json"
	"strings"
	"unicode"
)

// Outcome is the validator's verdict on a submitted response.
type Outcome string

const (
	Passed        Outcome = "passed"
	Failed        Outcome = "failed"
	PendingReview Outcome = "pending_review"
)

// Stroke is one continuous drawing stroke: parallel coordinate and
// timestamp arrays as the canvas records them.
type Stroke struct {
	X []float64 `json:"x"`
	Y []float64 `json:"y"`
	T []float64 `json:"t"`
}

// Response is the submitted answer for any challenge kind. Typing kinds
// use Text and DurationMS; drawing kinds use Strokes and DurationMS.
type Response struct {
	Text       string   `json:"text"`
	DurationMS *int64   `json:"duration_ms"`
	Strokes    []Stroke `json:"strokes"`
}

// Drawing heuristic thresholds: a submission with at least this many
// strokes, points, and milliseconds of effort passes without review.
const (
	drawMinStrokes    = 3
	drawMinPoints     = 10
	drawMinDurationMS = 500
)

// Validate classifies a submitted response against the stored challenge
// payload. It is a pure function: persisting the verdict and the crowd
// status transition is the caller's job. Unknown kinds and undecodable
// payloads fail closed rather than erroring.
func Validate(kind Kind, challengeData, responseData string) Outcome {
	var resp Response
	if err := json.Unmarshal([]byte(responseData), &resp); err != nil {
		return Failed
	}

	switch kind {
	case KindTypeBackwards:
		var cd TypeBackwardsPayload
		if err := json.Unmarshal([]byte(challengeData), &cd); err != nil {
			return Failed
		}
		if resp.Text == reverse(cd.Word) {
			return Passed
		}
		return Failed

	case KindTypePattern:
		var cd TypePatternPayload
		if err := json.Unmarshal([]byte(challengeData), &cd); err != nil {
			return Failed
		}
		if resp.Text == alternatingCaps(cd.Word) {
			return Passed
		}
		return Failed

	case KindSpeedType:
		var cd SpeedTypePayload
		if err := json.Unmarshal([]byte(challengeData), &cd); err != nil {
			return Failed
		}
		// A missing duration never beats the clock.
		if resp.Text == cd.Phrase && resp.DurationMS != nil && *resp.DurationMS <= cd.TimeLimitMS {
			return Passed
		}
		return Failed

	case KindDrawShape, KindDrawFreeform:
		return validateDrawing(resp)
	}

	return Failed
}

// validateDrawing applies a coarse effort heuristic rather than shape
// recognition: clear effort passes, anything drawn but borderline goes to
// crowd review, an empty canvas fails.
func validateDrawing(resp Response) Outcome {
	if len(resp.Strokes) == 0 {
		return Failed
	}

	totalPoints := 0
	for _, s := range resp.Strokes {
		totalPoints += len(s.X)
	}

	var duration int64
	if resp.DurationMS != nil {
		duration = *resp.DurationMS
	}

	if len(resp.Strokes) >= drawMinStrokes && totalPoints >= drawMinPoints && duration >= drawMinDurationMS {
		return Passed
	}
	return PendingReview
}

// reverse returns s with its runes in reverse order
func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}

// alternatingCaps upper-cases characters at odd indexes and lower-cases
// the rest, matching the transform promised by the type_pattern prompt
func alternatingCaps(word string) string {
	var b strings.Builder
	for i, ch := range []rune(word) {
		if i%2 == 1 {
			b.WriteRune(unicode.ToUpper(ch))
		} else {
			b.WriteRune(unicode.ToLower(ch))
		}
	}
	return b.String()
}
