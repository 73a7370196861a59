package brand

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTable_EveryNarrativeFieldNonEmpty(t *testing.T) {
	s := DefaultStrategy("#4f46e5")

	for _, f := range textFields {
		assert.NotEmpty(t, *f.field(&s), "default for %s", f.key)
	}
	for _, f := range listFields {
		assert.NotEmpty(t, *f.field(&s), "default for %s", f.key)
	}
	assert.NotEmpty(t, s.Positioning.PricePoint)
	assert.NotEmpty(t, s.Positioning.Vibe)
	assert.NotEmpty(t, s.Positioning.Competitors)
	assert.NotEmpty(t, s.PersonalityTraits)
	assert.Equal(t, "#4f46e5", s.Palette[0])
}

func TestDefaultStrategy_ReturnsIndependentCopies(t *testing.T) {
	a := DefaultStrategy("#000000")
	a.Values[0] = "mutated"
	a.PersonalityTraits[0].Value = 1

	b := DefaultStrategy("#000000")
	assert.Equal(t, "Craft", b.Values[0])
	assert.Equal(t, 70, b.PersonalityTraits[0].Value)
}

func TestNormalizeStrategy_EmptyPayloadIsFullyDefaulted(t *testing.T) {
	s, defaulted := NormalizeStrategy(map[string]any{}, "#4f46e5")

	assert.Equal(t, DefaultStrategy("#4f46e5"), s)
	assert.Contains(t, defaulted, "slogan")
	assert.Contains(t, defaulted, "values")
	assert.Contains(t, defaulted, "palette")
	assert.Contains(t, defaulted, "positioning.pricePoint")
}

func TestNormalizeStrategy_EachTextFieldIndependently(t *testing.T) {
	for _, f := range textFields {
		t.Run(f.key, func(t *testing.T) {
			s, defaulted := NormalizeStrategy(map[string]any{f.key: "  provided  "}, "#111111")
			assert.Equal(t, "provided", *f.field(&s))
			assert.NotContains(t, defaulted, f.key)

			for _, other := range textFields {
				if other.key != f.key {
					assert.NotEmpty(t, *other.field(&s))
				}
			}
		})
	}
}

func TestNormalizeStrategy_MissingValuesGetsDefault(t *testing.T) {
	s, defaulted := NormalizeStrategy(map[string]any{
		"slogan": "Fly on sunlight",
		"values": []any{},
	}, "#4f46e5")

	assert.Equal(t, "Fly on sunlight", s.Slogan)
	require.NotEmpty(t, s.Values)
	assert.Equal(t, defaultStrategy.Values, s.Values)
	assert.Contains(t, defaulted, "values")
}

func TestNormalizeStrategy_FullPayload(t *testing.T) {
	raw := map[string]any{
		"slogan":         "Fly on sunlight",
		"tone":           "Optimistic",
		"targetAudience": "Agritech operators",
		"archetype":      "The Explorer",
		"socialBio":      "Solar drones for every field.",
		"mission":        "Zero-emission aerial work.",
		"elevatorPitch":  "Drones that never need a plug.",
		"values":         []any{"Sustainability", "", 42, "Autonomy"},
		"visualKeywords": "sleek, luminous ,aerodynamic",
		"positioning": map[string]any{
			"pricePoint":  "Mid Market",
			"vibe":        "Clean-tech precision",
			"competitors": []any{"DJI", "Parrot"},
		},
		"personalityTraits": []any{
			map[string]any{"trait": "Classic vs Modern", "value": 92.6},
			map[string]any{"trait": "Playful vs Serious", "value": "140"},
			map[string]any{"trait": "no separator", "value": 10},
			map[string]any{"trait": "Quiet vs Loud"},
			"garbage",
		},
		"palette":          []any{"#4F46E5", "fff", "#4f46e5", "not-a-color"},
		"moodboardPrompts": []any{"sunrise over crop rows", "carbon fibre macro"},
	}

	s, defaulted := NormalizeStrategy(raw, "#4f46e5")

	assert.Empty(t, defaulted)
	assert.Equal(t, []string{"Sustainability", "Autonomy"}, s.Values)
	assert.Equal(t, []string{"sleek", "luminous", "aerodynamic"}, s.VisualKeywords)
	assert.Equal(t, PriceMidMarket, s.Positioning.PricePoint)
	assert.Equal(t, []string{"DJI", "Parrot"}, s.Positioning.Competitors)
	assert.Equal(t, []PersonalityTrait{
		{Trait: "Classic vs Modern", Value: 93},
		{Trait: "Playful vs Serious", Value: 100},
	}, s.PersonalityTraits)
	assert.Equal(t, []string{"#4f46e5", "#ffffff"}, s.Palette)
	assert.Equal(t, []string{"sunrise over crop rows", "carbon fibre macro"}, s.MoodboardPrompts)
}

func TestNormalizeStrategy_PartialPositioningKeepsDefaults(t *testing.T) {
	s, defaulted := NormalizeStrategy(map[string]any{
		"positioning": map[string]any{"vibe": "Warm"},
	}, "#4f46e5")

	assert.Equal(t, "Warm", s.Positioning.Vibe)
	assert.Equal(t, PricePremium, s.Positioning.PricePoint)
	assert.NotEmpty(t, s.Positioning.Competitors)
	assert.Contains(t, defaulted, "positioning.competitors")
	assert.NotContains(t, defaulted, "positioning.vibe")
}

func TestNormalizeStrategy_AliasesAndWrongTypes(t *testing.T) {
	s, _ := NormalizeStrategy(map[string]any{
		"tagline":  "Alias slogan",
		"tone":     map[string]any{"nested": true},
		"audience": "Alias audience",
	}, "#4f46e5")

	assert.Equal(t, "Alias slogan", s.Slogan)
	assert.Equal(t, defaultStrategy.Tone, s.Tone)
	assert.Equal(t, "Alias audience", s.TargetAudience)
}

func TestNormalizePalette_Caps(t *testing.T) {
	in := []string{"#000001", "#000002", "#000003", "#000004", "#000005", "#000006", "#000007"}
	assert.Len(t, NormalizePalette(in), MaxPaletteColors)
}

func TestDefaultPalette_InvalidPrimaryStillNonEmpty(t *testing.T) {
	p := DefaultPalette("nope")
	assert.Equal(t, neutralPalette, p)
}
