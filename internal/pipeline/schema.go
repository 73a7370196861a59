package pipeline

import (
	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/provider"
)

func stringSchema() *provider.Schema { return &provider.Schema{Type: provider.TypeString} }

func stringList() *provider.Schema {
	return &provider.Schema{Type: provider.TypeArray, Items: stringSchema()}
}

func pricePointEnum() []string {
	out := make([]string, len(brand.PricePoints))
	for i, p := range brand.PricePoints {
		out[i] = string(p)
	}
	return out
}

// StrategySchema is the response schema hint sent with the strategy request.
// Parsing does not rely on the backend honoring it.
var StrategySchema = &provider.Schema{
	Type: provider.TypeObject,
	Properties: map[string]*provider.Schema{
		"slogan":         stringSchema(),
		"tone":           stringSchema(),
		"targetAudience": stringSchema(),
		"archetype":      stringSchema(),
		"socialBio":      stringSchema(),
		"mission":        stringSchema(),
		"elevatorPitch":  stringSchema(),
		"values":         stringList(),
		"visualKeywords": stringList(),
		"positioning": {
			Type: provider.TypeObject,
			Properties: map[string]*provider.Schema{
				"pricePoint":  {Type: provider.TypeString, Enum: pricePointEnum()},
				"vibe":        stringSchema(),
				"competitors": stringList(),
			},
		},
		"personalityTraits": {
			Type: provider.TypeArray,
			Items: &provider.Schema{
				Type: provider.TypeObject,
				Properties: map[string]*provider.Schema{
					"trait": stringSchema(),
					"value": {Type: provider.TypeInteger},
				},
				Required: []string{"trait", "value"},
			},
		},
		"palette":          stringList(),
		"moodboardPrompts": stringList(),
	},
	Required: []string{"slogan", "tone", "targetAudience", "archetype"},
}
