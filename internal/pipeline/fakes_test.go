package pipeline

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/metrics"
	"github.com/fpang/logonova/internal/provider"
)

func TestMain(m *testing.M) {
	metrics.SetOutput(io.Discard)
	os.Exit(m.Run())
}

// fakeImages records requests and answers through fn.
type fakeImages struct {
	mu    sync.Mutex
	calls []provider.ImageRequest
	fn    func(req provider.ImageRequest) (brand.Media, error)
}

func (f *fakeImages) GenerateImage(_ context.Context, req provider.ImageRequest) (brand.Media, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()
	return f.fn(req)
}

func (f *fakeImages) markCalls() []provider.ImageRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []provider.ImageRequest
	for _, c := range f.calls {
		if isMarkPrompt(c.Prompt) {
			out = append(out, c)
		}
	}
	return out
}

func (f *fakeImages) moodboardCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if !isMarkPrompt(c.Prompt) {
			n++
		}
	}
	return n
}

func isMarkPrompt(prompt string) bool {
	return strings.Contains(prompt, "logo brand mark")
}

// fakeText returns a fixed response.
type fakeText struct {
	mu    sync.Mutex
	calls int
	raw   string
	err   error
}

func (f *fakeText) GenerateText(context.Context, provider.TextRequest) (string, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	return f.raw, f.err
}

func pngMedia(c color.Color) brand.Media {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 4; y < 12; y++ {
		for x := 4; x < 12; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return brand.Media{Data: buf.Bytes(), MIMEType: "image/png"}
}

func alwaysImage(req provider.ImageRequest) (brand.Media, error) {
	return pngMedia(color.RGBA{0x4f, 0x46, 0xe5, 0xff}), nil
}

const fullStrategy = "```json\n" + `{
  "slogan": "Fly on sunlight",
  "tone": "Optimistic",
  "targetAudience": "Agritech operators",
  "archetype": "The Explorer",
  "socialBio": "Solar drones for every field.",
  "mission": "Zero-emission aerial work.",
  "elevatorPitch": "Drones that never need a plug.",
  "values": ["Sustainability", "Autonomy"],
  "visualKeywords": ["sleek", "luminous"],
  "positioning": {"pricePoint": "premium", "vibe": "Clean-tech", "competitors": ["DJI"]},
  "personalityTraits": [{"trait": "Classic vs Modern", "value": 85}],
  "palette": ["#4f46e5", "#0f172a"],
  "moodboardPrompts": ["sunrise over crop rows", "carbon fibre macro"]
}` + "\n```"

func acmeConfig(t *testing.T) brand.GenerationConfig {
	t.Helper()
	cfg, err := brand.NewGenerationConfig(brand.ConfigInput{
		BusinessName: "Acme",
		Niche:        "solar drones",
		Style:        "tech",
		PrimaryColor: "#4f46e5",
		FontFamily:   "font-display",
		Material:     "matte_ink",
		AspectRatio:  "1:1",
		Quality:      "1K",
	})
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}
