// Package brand holds the domain model shared by the generation pipeline, the
// motion synthesizer and the presentation-facing surfaces: the immutable
// GenerationConfig, the AssetBundle produced for each gallery slot, and the
// strategy normalization that guarantees every narrative field is populated.
package brand

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Style is the aesthetic category requested for a batch.
type Style string

const (
	StyleMinimal Style = "minimalist"
	StyleModern  Style = "modern"
	StylePlayful Style = "playful"
	StyleLuxury  Style = "luxury"
	StyleTech    Style = "tech"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleMinimal, StyleModern, StylePlayful, StyleLuxury, StyleTech}

// AspectRatio is the frame of the primary mark and moodboard images.
type AspectRatio string

const (
	AspectSquare     AspectRatio = "1:1"
	AspectStandard   AspectRatio = "4:3"
	AspectWidescreen AspectRatio = "16:9"
)

// AspectRatios lists every supported aspect ratio.
var AspectRatios = []AspectRatio{AspectSquare, AspectStandard, AspectWidescreen}

// Quality drives model and resolution selection for the primary mark.
type Quality string

const (
	Quality1K Quality = "1K"
	Quality2K Quality = "2K"
	Quality4K Quality = "4K"
)

// Qualities lists every supported quality.
var Qualities = []Quality{Quality1K, Quality2K, Quality4K}

// Fonts is the fixed set of typography identifiers echoed onto bundles.
var Fonts = []string{"font-sans", "font-serif", "font-display", "font-mono"}

// Materials is the fixed set of visual-finish identifiers.
var Materials = []string{"matte_ink", "gold_foil", "chrome", "glass", "paper_emboss", "neon"}

// Defaults applied by NewGenerationConfig when an optional field is empty.
const (
	DefaultStyle        = StyleTech
	DefaultPrimaryColor = "#6366f1"
	DefaultFontFamily   = "font-display"
	DefaultMaterial     = "matte_ink"
	DefaultAspectRatio  = AspectSquare
	DefaultQuality      = Quality1K
)

// GenerationConfig is the fully typed, validated configuration for one batch.
// It is constructed once per submission and never patched afterwards.
type GenerationConfig struct {
	BusinessName string      `json:"businessName"`
	Niche        string      `json:"niche"`
	Style        Style       `json:"style"`
	PrimaryColor string      `json:"primaryColor"`
	FontFamily   string      `json:"fontFamily"`
	Material     string      `json:"material"`
	AspectRatio  AspectRatio `json:"aspectRatio"`
	Quality      Quality     `json:"quality"`
}

// ConfigInput is the loosely-typed form payload a configuration builder produces.
type ConfigInput struct {
	BusinessName string `json:"businessName" yaml:"businessName"`
	Niche        string `json:"niche" yaml:"niche"`
	Style        string `json:"style" yaml:"style"`
	PrimaryColor string `json:"primaryColor" yaml:"primaryColor"`
	FontFamily   string `json:"fontFamily" yaml:"fontFamily"`
	Material     string `json:"material" yaml:"material"`
	AspectRatio  string `json:"aspectRatio" yaml:"aspectRatio"`
	Quality      string `json:"quality" yaml:"quality"`
}

// ValidationError reports every invalid field of a ConfigInput at once.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid generation config: " + strings.Join(parts, "; ")
}

// NewGenerationConfig trims, defaults and validates a form payload.
func NewGenerationConfig(in ConfigInput) (GenerationConfig, error) {
	bad := make(map[string]string)

	cfg := GenerationConfig{
		BusinessName: strings.TrimSpace(in.BusinessName),
		Niche:        strings.TrimSpace(in.Niche),
		Style:        Style(orDefault(strings.ToLower(in.Style), string(DefaultStyle))),
		FontFamily:   orDefault(in.FontFamily, DefaultFontFamily),
		Material:     orDefault(strings.ToLower(in.Material), DefaultMaterial),
		AspectRatio:  AspectRatio(orDefault(in.AspectRatio, string(DefaultAspectRatio))),
		Quality:      Quality(orDefault(strings.ToUpper(in.Quality), string(DefaultQuality))),
	}

	if cfg.BusinessName == "" {
		bad["businessName"] = "required"
	}
	if cfg.Niche == "" {
		bad["niche"] = "required"
	}
	if !contains(Styles, cfg.Style) {
		bad["style"] = fmt.Sprintf("unsupported style %q", in.Style)
	}
	color, ok := NormalizeHex(orDefault(in.PrimaryColor, DefaultPrimaryColor))
	if !ok {
		bad["primaryColor"] = fmt.Sprintf("not a hex color: %q", in.PrimaryColor)
	}
	cfg.PrimaryColor = color
	if !contains(Fonts, cfg.FontFamily) {
		bad["fontFamily"] = fmt.Sprintf("unsupported font %q", in.FontFamily)
	}
	if !contains(Materials, cfg.Material) {
		bad["material"] = fmt.Sprintf("unsupported material %q", in.Material)
	}
	if !contains(AspectRatios, cfg.AspectRatio) {
		bad["aspectRatio"] = fmt.Sprintf("unsupported aspect ratio %q", in.AspectRatio)
	}
	if !contains(Qualities, cfg.Quality) {
		bad["quality"] = fmt.Sprintf("unsupported quality %q", in.Quality)
	}

	if len(bad) > 0 {
		return GenerationConfig{}, &ValidationError{Fields: bad}
	}
	return cfg, nil
}

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// NormalizeHex converts #rgb / rrggbb / #RRGGBB into lowercase #rrggbb.
func NormalizeHex(s string) (string, bool) {
	s = strings.TrimSpace(s)
	m := hexColor.FindStringSubmatch(s)
	if m == nil {
		return "", false
	}
	digits := strings.ToLower(m[1])
	if len(digits) == 3 {
		digits = string([]byte{digits[0], digits[0], digits[1], digits[1], digits[2], digits[2]})
	}
	return "#" + digits, true
}

func orDefault(v, def string) string {
	if v = strings.TrimSpace(v); v != "" {
		return v
	}
	return def
}

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
