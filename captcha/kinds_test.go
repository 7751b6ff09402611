// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package captcha

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		parsed, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, parsed)
	}

	parsed, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, Kind(""), parsed)

	_, err = ParseKind("rorschach")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestGenerateEachKind(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))

	tests := []struct {
		kind  Kind
		check func(t *testing.T, data string)
	}{
		{KindDrawShape, func(t *testing.T, data string) {
			var p DrawShapePayload
			require.NoError(t, json.Unmarshal([]byte(data), &p))
			assert.Contains(t, shapes, p.Shape)
			assert.Equal(t, "Draw a "+p.Shape, p.Prompt)
		}},
		{KindDrawFreeform, func(t *testing.T, data string) {
			var p DrawFreeformPayload
			require.NoError(t, json.Unmarshal([]byte(data), &p))
			assert.Contains(t, p.Prompt, "Draw your best ")
		}},
		{KindTypeBackwards, func(t *testing.T, data string) {
			var p TypeBackwardsPayload
			require.NoError(t, json.Unmarshal([]byte(data), &p))
			assert.Contains(t, backwardWords, p.Word)
		}},
		{KindTypePattern, func(t *testing.T, data string) {
			var p TypePatternPayload
			require.NoError(t, json.Unmarshal([]byte(data), &p))
			assert.Contains(t, patternWords, p.Word)
			assert.Equal(t, PatternAlternatingCaps, p.Pattern)
		}},
		{KindSpeedType, func(t *testing.T, data string) {
			var p SpeedTypePayload
			require.NoError(t, json.Unmarshal([]byte(data), &p))
			assert.Contains(t, speedPhrases, p.Phrase)
			assert.EqualValues(t, SpeedTypeLimitMS, p.TimeLimitMS)
		}},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			kind, data, err := g.Generate(tt.kind)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, kind)
			tt.check(t, data)
		})
	}
}

func TestGenerateRandomKind(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(42)))

	seen := map[Kind]bool{}
	for i := 0; i < 200; i++ {
		kind, data, err := g.Generate("")
		require.NoError(t, err)
		assert.NotEmpty(t, data)
		seen[kind] = true
	}

	// 200 seeded draws must have hit all five kinds
	assert.Len(t, seen, len(Kinds))
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	first := NewGenerator(rand.New(rand.NewSource(7)))
	second := NewGenerator(rand.New(rand.NewSource(7)))

	for i := 0; i < 20; i++ {
		k1, d1, err1 := first.Generate("")
		k2, d2, err2 := second.Generate("")
		require.NoError(t, err1)
		require.NoError(t, err2)
		assert.Equal(t, k1, k2)
		assert.Equal(t, d1, d2)
	}
}

func TestGenerateUnknownKind(t *testing.T) {
	g := NewGenerator(rand.New(rand.NewSource(1)))
	_, _, err := g.Generate("captcha_of_theseus")
	assert.ErrorIs(t, err, ErrUnknownKind)
}
