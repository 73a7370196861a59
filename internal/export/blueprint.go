// Package export turns a bundle into downloadable artifacts: the brand
// blueprint document, the mark file name and a zipped brand kit.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/jobs"
)

// Format is a blueprint serialization.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml". Empty selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported blueprint format %q", s)
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Blueprint is the production hand-off document for one bundle.
type Blueprint struct {
	Identity Identity        `json:"identity" yaml:"identity"`
	Strategy StrategySection `json:"strategy" yaml:"strategy"`
	Visual   Visual          `json:"visual" yaml:"visual"`
}

type Identity struct {
	Name      string `json:"name" yaml:"name"`
	Slogan    string `json:"slogan" yaml:"slogan"`
	Niche     string `json:"niche" yaml:"niche"`
	Archetype string `json:"archetype" yaml:"archetype"`
	Mission   string `json:"mission" yaml:"mission"`
}

type StrategySection struct {
	Positioning brand.Positioning        `json:"positioning" yaml:"positioning"`
	Values      []string                 `json:"values" yaml:"values"`
	Traits      []brand.PersonalityTrait `json:"traits" yaml:"traits"`
	Audience    string                   `json:"audience" yaml:"audience"`
	Tone        string                   `json:"tone" yaml:"tone"`
}

type Visual struct {
	Palette  []string `json:"palette" yaml:"palette"`
	Font     string   `json:"font" yaml:"font"`
	Material string   `json:"material" yaml:"material"`
	Keywords []string `json:"keywords" yaml:"keywords"`
}

// NewBlueprint builds the blueprint for b.
func NewBlueprint(b brand.AssetBundle) Blueprint {
	s := b.Strategy
	return Blueprint{
		Identity: Identity{
			Name:      b.BusinessName,
			Slogan:    s.Slogan,
			Niche:     b.Niche,
			Archetype: s.Archetype,
			Mission:   s.Mission,
		},
		Strategy: StrategySection{
			Positioning: s.Positioning,
			Values:      s.Values,
			Traits:      s.PersonalityTraits,
			Audience:    s.TargetAudience,
			Tone:        s.Tone,
		},
		Visual: Visual{
			Palette:  s.Palette,
			Font:     b.FontFamily,
			Material: b.Material,
			Keywords: s.VisualKeywords,
		},
	}
}

// Encode serializes the blueprint. JSON output is indented.
func (bp Blueprint) Encode(f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(bp); err != nil {
			return nil, fmt.Errorf("failed to encode blueprint as YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON, "":
		data, err := json.MarshalIndent(bp, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode blueprint as JSON: %w", err)
		}
		return append(data, '\n'), nil
	}
	return nil, fmt.Errorf("unsupported blueprint format %q", f)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug lowercases name and joins its alphanumeric runs with dashes.
func Slug(name string) string {
	s := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
	if s == "" {
		return "brand"
	}
	return s
}

// MarkFilename is the download name of a bundle's primary image.
func MarkFilename(b brand.AssetBundle) string {
	return fmt.Sprintf("nova-pro-%s-%s%s", Slug(b.BusinessName), jobs.ShortID(b.ID), b.PrimaryImage.Extension())
}

// KitFilename is the download name of a bundle's brand kit archive.
func KitFilename(b brand.AssetBundle) string {
	return fmt.Sprintf("nova-pro-%s-%s.zip", Slug(b.BusinessName), jobs.ShortID(b.ID))
}
