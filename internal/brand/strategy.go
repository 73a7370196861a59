package brand

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// PricePoint is the market tier a brand positions itself in.
type PricePoint string

const (
	PriceBudget    PricePoint = "budget"
	PriceMidMarket PricePoint = "mid-market"
	PricePremium   PricePoint = "premium"
	PriceLuxury    PricePoint = "luxury"
)

// PricePoints lists every supported price point.
var PricePoints = []PricePoint{PriceBudget, PriceMidMarket, PricePremium, PriceLuxury}

// Positioning places the brand in its market.
type Positioning struct {
	PricePoint  PricePoint `json:"pricePoint" yaml:"pricePoint"`
	Vibe        string     `json:"vibe" yaml:"vibe"`
	Competitors []string   `json:"competitors" yaml:"competitors"`
}

// PersonalityTrait is one "A vs B" slider with a 0-100 value.
type PersonalityTrait struct {
	Trait string `json:"trait" yaml:"trait"`
	Value int    `json:"value" yaml:"value"`
}

// Strategy is the fully defaulted narrative payload attached to a bundle.
type Strategy struct {
	Slogan            string             `json:"slogan" yaml:"slogan"`
	Tone              string             `json:"tone" yaml:"tone"`
	TargetAudience    string             `json:"targetAudience" yaml:"targetAudience"`
	Archetype         string             `json:"archetype" yaml:"archetype"`
	SocialBio         string             `json:"socialBio" yaml:"socialBio"`
	Mission           string             `json:"mission" yaml:"mission"`
	ElevatorPitch     string             `json:"elevatorPitch" yaml:"elevatorPitch"`
	Values            []string           `json:"values" yaml:"values"`
	VisualKeywords    []string           `json:"visualKeywords" yaml:"visualKeywords"`
	Positioning       Positioning        `json:"positioning" yaml:"positioning"`
	PersonalityTraits []PersonalityTrait `json:"personalityTraits" yaml:"personalityTraits"`
	Palette           []string           `json:"palette" yaml:"palette"`
	// MoodboardPrompts are the suggested visual prompts for moodboard enrichment.
	// They are not narrative and may be empty.
	MoodboardPrompts []string `json:"moodboardPrompts,omitempty" yaml:"moodboardPrompts,omitempty"`
}

// MaxPaletteColors caps the palette carried on a bundle.
const MaxPaletteColors = 6

// neutralPalette follows the configured primary color in the default palette.
var neutralPalette = []string{"#0f172a", "#f8fafc", "#94a3b8"}

// defaultStrategy is the per-field default table. Every narrative field is non-empty.
var defaultStrategy = Strategy{
	Slogan:         "Built for what comes next.",
	Tone:           "Confident, clear and quietly bold",
	TargetAudience: "Forward-looking customers who value craft and clarity",
	Archetype:      "The Creator",
	SocialBio:      "Designing the future of our category, one detail at a time.",
	Mission:        "To make our category simpler, better crafted and more human.",
	ElevatorPitch:  "We turn a crowded category into a clear, confident choice.",
	Values:         []string{"Craft", "Clarity", "Integrity"},
	VisualKeywords: []string{"bold", "geometric", "balanced"},
	Positioning: Positioning{
		PricePoint:  PricePremium,
		Vibe:        "Modern and precise",
		Competitors: []string{"Category incumbents"},
	},
	PersonalityTraits: []PersonalityTrait{
		{Trait: "Classic vs Modern", Value: 70},
		{Trait: "Playful vs Serious", Value: 55},
		{Trait: "Accessible vs Exclusive", Value: 60},
	},
}

type textField struct {
	key     string
	aliases []string
	field   func(*Strategy) *string
}

type listField struct {
	key     string
	aliases []string
	field   func(*Strategy) *[]string
}

var textFields = []textField{
	{"slogan", []string{"tagline"}, func(s *Strategy) *string { return &s.Slogan }},
	{"tone", []string{"brandVoice", "voice"}, func(s *Strategy) *string { return &s.Tone }},
	{"targetAudience", []string{"target", "audience"}, func(s *Strategy) *string { return &s.TargetAudience }},
	{"archetype", []string{"brandArchetype"}, func(s *Strategy) *string { return &s.Archetype }},
	{"socialBio", []string{"bio"}, func(s *Strategy) *string { return &s.SocialBio }},
	{"mission", []string{"missionStatement"}, func(s *Strategy) *string { return &s.Mission }},
	{"elevatorPitch", []string{"pitch"}, func(s *Strategy) *string { return &s.ElevatorPitch }},
}

var listFields = []listField{
	{"values", []string{"coreValues"}, func(s *Strategy) *[]string { return &s.Values }},
	{"visualKeywords", []string{"keywords"}, func(s *Strategy) *[]string { return &s.VisualKeywords }},
}

// DefaultStrategy returns a deep copy of the default table with the palette
// seeded from primaryColor.
func DefaultStrategy(primaryColor string) Strategy {
	s := defaultStrategy
	s.Values = append([]string(nil), defaultStrategy.Values...)
	s.VisualKeywords = append([]string(nil), defaultStrategy.VisualKeywords...)
	s.Positioning.Competitors = append([]string(nil), defaultStrategy.Positioning.Competitors...)
	s.PersonalityTraits = append([]PersonalityTrait(nil), defaultStrategy.PersonalityTraits...)
	s.Palette = DefaultPalette(primaryColor)
	return s
}

// DefaultPalette is the primary color followed by the neutral set.
func DefaultPalette(primaryColor string) []string {
	palette := make([]string, 0, len(neutralPalette)+1)
	if c, ok := NormalizeHex(primaryColor); ok {
		palette = append(palette, c)
	}
	return append(palette, neutralPalette...)
}

// NormalizeStrategy maps a loosely-typed strategy payload onto the fully
// defaulted Strategy. It never fails: every field absent or unusable in raw is
// taken from the default table, and its key is reported in defaulted.
func NormalizeStrategy(raw map[string]any, primaryColor string) (s Strategy, defaulted []string) {
	s = DefaultStrategy(primaryColor)

	for _, f := range textFields {
		if v := textAt(raw, f.key, f.aliases...); v != "" {
			*f.field(&s) = v
		} else {
			defaulted = append(defaulted, f.key)
		}
	}

	for _, f := range listFields {
		if v := listAt(raw, f.key, f.aliases...); len(v) > 0 {
			*f.field(&s) = v
		} else {
			defaulted = append(defaulted, f.key)
		}
	}

	pos, posDefaulted := normalizePositioning(lookup(raw, "positioning"))
	s.Positioning = mergePositioning(s.Positioning, pos)
	defaulted = append(defaulted, posDefaulted...)

	if traits := normalizeTraits(lookup(raw, "personalityTraits", "traits")); len(traits) > 0 {
		s.PersonalityTraits = traits
	} else {
		defaulted = append(defaulted, "personalityTraits")
	}

	if palette := NormalizePalette(listAt(raw, "palette", "colors", "colorPalette")); len(palette) > 0 {
		s.Palette = palette
	} else {
		defaulted = append(defaulted, "palette")
	}

	s.MoodboardPrompts = listAt(raw, "moodboardPrompts", "visualPrompts", "moodboard")
	return s, defaulted
}

// NormalizePalette keeps valid hex colors, lowercased, de-duplicated and capped.
func NormalizePalette(colors []string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, c := range colors {
		hex, ok := NormalizeHex(c)
		if !ok || seen[hex] {
			continue
		}
		seen[hex] = true
		out = append(out, hex)
		if len(out) == MaxPaletteColors {
			break
		}
	}
	return out
}

func normalizePositioning(v any) (Positioning, []string) {
	var p Positioning
	var defaulted []string
	m, _ := v.(map[string]any)

	if pp := normalizePricePoint(textAt(m, "pricePoint", "price", "tier")); pp != "" {
		p.PricePoint = pp
	} else {
		defaulted = append(defaulted, "positioning.pricePoint")
	}
	if p.Vibe = textAt(m, "vibe", "feel"); p.Vibe == "" {
		defaulted = append(defaulted, "positioning.vibe")
	}
	if p.Competitors = listAt(m, "competitors"); len(p.Competitors) == 0 {
		defaulted = append(defaulted, "positioning.competitors")
	}
	return p, defaulted
}

func mergePositioning(def, got Positioning) Positioning {
	if got.PricePoint != "" {
		def.PricePoint = got.PricePoint
	}
	if got.Vibe != "" {
		def.Vibe = got.Vibe
	}
	if len(got.Competitors) > 0 {
		def.Competitors = got.Competitors
	}
	return def
}

func normalizePricePoint(s string) PricePoint {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "-", "_", "-").Replace(s)
	switch s {
	case "budget", "low", "economy", "value":
		return PriceBudget
	case "mid-market", "mid", "midmarket", "mid-range", "moderate":
		return PriceMidMarket
	case "premium", "high", "upscale":
		return PricePremium
	case "luxury", "ultra-premium", "prestige":
		return PriceLuxury
	}
	return ""
}

func normalizeTraits(v any) []PersonalityTrait {
	items, _ := v.([]any)
	var out []PersonalityTrait
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		trait := textAt(m, "trait", "name", "label")
		if !strings.Contains(strings.ToLower(trait), " vs ") {
			continue
		}
		value, ok := intValue(lookup(m, "value", "score"))
		if !ok {
			continue
		}
		out = append(out, PersonalityTrait{Trait: trait, Value: clamp(value, 0, 100)})
	}
	return out
}

func lookup(m map[string]any, key string, aliases ...string) any {
	if m == nil {
		return nil
	}
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	for _, a := range aliases {
		if v, ok := m[a]; ok && v != nil {
			return v
		}
	}
	return nil
}

func textAt(m map[string]any, key string, aliases ...string) string {
	switch v := lookup(m, key, aliases...).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64, bool:
		return fmt.Sprint(v)
	}
	return ""
}

func listAt(m map[string]any, key string, aliases ...string) []string {
	var out []string
	switch v := lookup(m, key, aliases...).(type) {
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	case string:
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(math.Round(n)), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(n), "%"), 64)
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	}
	return 0, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
