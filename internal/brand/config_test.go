package brand

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationConfig_Defaults(t *testing.T) {
	cfg, err := NewGenerationConfig(ConfigInput{BusinessName: "  Acme ", Niche: "solar drones"})
	require.NoError(t, err)

	assert.Equal(t, "Acme", cfg.BusinessName)
	assert.Equal(t, DefaultStyle, cfg.Style)
	assert.Equal(t, DefaultPrimaryColor, cfg.PrimaryColor)
	assert.Equal(t, DefaultFontFamily, cfg.FontFamily)
	assert.Equal(t, DefaultMaterial, cfg.Material)
	assert.Equal(t, AspectSquare, cfg.AspectRatio)
	assert.Equal(t, Quality1K, cfg.Quality)
}

func TestNewGenerationConfig_Normalizes(t *testing.T) {
	cfg, err := NewGenerationConfig(ConfigInput{
		BusinessName: "Acme",
		Niche:        "solar drones",
		Style:        "TECH",
		PrimaryColor: "#4F46E5",
		Material:     "Gold_Foil",
		AspectRatio:  "16:9",
		Quality:      "4k",
	})
	require.NoError(t, err)

	assert.Equal(t, StyleTech, cfg.Style)
	assert.Equal(t, "#4f46e5", cfg.PrimaryColor)
	assert.Equal(t, "gold_foil", cfg.Material)
	assert.Equal(t, AspectWidescreen, cfg.AspectRatio)
	assert.Equal(t, Quality4K, cfg.Quality)
}

func TestNewGenerationConfig_ReportsEveryBadField(t *testing.T) {
	_, err := NewGenerationConfig(ConfigInput{
		Style:        "baroque",
		PrimaryColor: "indigo",
		FontFamily:   "comic-sans",
		Material:     "velvet",
		AspectRatio:  "9:16",
		Quality:      "8K",
	})
	require.Error(t, err)

	var vErr *ValidationError
	require.True(t, errors.As(err, &vErr))
	for _, field := range []string{"businessName", "niche", "style", "primaryColor", "fontFamily", "material", "aspectRatio", "quality"} {
		assert.Contains(t, vErr.Fields, field)
	}
	assert.Contains(t, err.Error(), "aspectRatio")
}

func TestNormalizeHex(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"#4f46e5", "#4f46e5", true},
		{"4F46E5", "#4f46e5", true},
		{"#abc", "#aabbcc", true},
		{" #FFF ", "#ffffff", true},
		{"#12345", "", false},
		{"red", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := NormalizeHex(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMediaExtension(t *testing.T) {
	assert.Equal(t, ".png", Media{MIMEType: "image/png"}.Extension())
	assert.Equal(t, ".png", Media{}.Extension())
	assert.Equal(t, ".jpg", Media{MIMEType: "image/jpeg"}.Extension())
	assert.Equal(t, ".mp4", Media{MIMEType: "video/mp4"}.Extension())
	assert.Equal(t, ".gif", Media{MIMEType: "image/gif"}.Extension())
}
