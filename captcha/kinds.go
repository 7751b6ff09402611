// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package captcha

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
)

// Kind identifies one of the supported challenge types.
type Kind string

const (
	KindDrawShape     Kind = "draw_shape"
	KindDrawFreeform  Kind = "draw_freeform"
	KindTypeBackwards Kind = "type_backwards"
	KindTypePattern   Kind = "type_pattern"
	KindSpeedType     Kind = "speed_type"
)

// Kinds lists every supported challenge kind.
var Kinds = []Kind{KindDrawShape, KindDrawFreeform, KindTypeBackwards, KindTypePattern, KindSpeedType}

var ErrUnknownKind = errors.New("unknown challenge kind")

// ParseKind maps a request string onto the closed Kind enum.
// The empty string is valid and means "pick one at random".
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case "", KindDrawShape, KindDrawFreeform, KindTypeBackwards, KindTypePattern, KindSpeedType:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// PatternAlternatingCaps is the only pattern the type_pattern kind uses.
const PatternAlternatingCaps = "alternating_caps"

// Per-kind challenge payloads, stored as JSON in challenge_data.

type DrawShapePayload struct {
	Prompt string `json:"prompt"`
	Shape  string `json:"shape"`
}

type DrawFreeformPayload struct {
	Prompt string `json:"prompt"`
}

type TypeBackwardsPayload struct {
	Word string `json:"word"`
}

type TypePatternPayload struct {
	Word    string `json:"word"`
	Pattern string `json:"pattern"`
}

type SpeedTypePayload struct {
	Phrase      string `json:"phrase"`
	TimeLimitMS int64  `json:"time_limit_ms"`
}

// SpeedTypeLimitMS is the fixed typing time limit handed out with
// speed_type challenges.
const SpeedTypeLimitMS = 5000

// Challenge vocabularies.
var (
	shapes        = []string{"moon", "star", "circle", "heart", "house"}
	subjects      = []string{"cat", "dog", "tree", "flower", "fish"}
	backwardWords = []string{"elephant", "butterfly", "dinosaur", "pineapple", "crocodile"}
	patternWords  = []string{"hello", "world", "python", "coding", "music"}
	speedPhrases  = []string{"the quick brown fox", "hello world today", "code is poetry"}
)

// Generator produces challenge payloads. The random source is injected so
// tests can seed it deterministically.
type Generator struct {
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate builds a challenge of the requested kind, or of a uniformly
// random kind when kind is empty. The returned string is the JSON payload
// to store alongside the challenge; persisting it is the caller's job.
func (g *Generator) Generate(kind Kind) (Kind, string, error) {
	if kind == "" {
		kind = Kinds[g.rng.Intn(len(Kinds))]
	}

	var payload interface{}
	switch kind {
	case KindDrawShape:
		shape := shapes[g.rng.Intn(len(shapes))]
		payload = DrawShapePayload{Prompt: "Draw a " + shape, Shape: shape}
	case KindDrawFreeform:
		subject := subjects[g.rng.Intn(len(subjects))]
		payload = DrawFreeformPayload{Prompt: "Draw your best " + subject}
	case KindTypeBackwards:
		word := backwardWords[g.rng.Intn(len(backwardWords))]
		payload = TypeBackwardsPayload{Word: word}
	case KindTypePattern:
		word := patternWords[g.rng.Intn(len(patternWords))]
		payload = TypePatternPayload{Word: word, Pattern: PatternAlternatingCaps}
	case KindSpeedType:
		phrase := speedPhrases[g.rng.Intn(len(speedPhrases))]
		payload = SpeedTypePayload{Phrase: phrase, TimeLimitMS: SpeedTypeLimitMS}
	default:
		return "", "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", "", fmt.Errorf("failed to encode challenge payload: %w", err)
	}
	return kind, string(data), nil
}
