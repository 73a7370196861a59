// Package synthetic is an offline provider that returns deterministic assets
// derived from a hash of each request. It backs offline mode and end-to-end
// tests.
package synthetic

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/provider"
)

// Options tune the synthetic provider.
type Options struct {
	// PollsToComplete is how many polls a video job reports as running before
	// it completes. Zero completes on the first poll.
	PollsToComplete int
	// Edge is the short edge, in pixels, of generated images.
	Edge int
}

// Provider is a deterministic provider.Provider.
type Provider struct {
	opts Options

	mu   sync.Mutex
	jobs map[provider.JobHandle]*job
}

type job struct {
	polls int
	video brand.Media
}

var _ provider.Provider = (*Provider)(nil)

// New creates a synthetic provider.
func New(opts Options) *Provider {
	if opts.Edge <= 0 {
		opts.Edge = 256
	}
	return &Provider{opts: opts, jobs: make(map[provider.JobHandle]*job)}
}

// Name identifies the backend in logs and metrics.
func (p *Provider) Name() string { return "synthetic" }

// GenerateImage renders a PNG mark on a pure white background.
func (p *Provider) GenerateImage(ctx context.Context, req provider.ImageRequest) (brand.Media, error) {
	if err := ctx.Err(); err != nil {
		return brand.Media{}, provider.Wrap("generate_image", err)
	}
	seed := deterministicSeed(req.Prompt, req.AspectRatio, req.Tier, req.Size)
	width, height := normalizeAspect(req.AspectRatio, p.opts.Edge)
	data, err := renderMark(width, height, seed)
	if err != nil {
		return brand.Media{}, provider.Wrap("generate_image", err)
	}

	log.Debug().
		Str("seed", seed).
		Int("width", width).
		Int("height", height).
		Msg("synthetic: generated image")
	return brand.Media{Data: data, MIMEType: "image/png"}, nil
}

var quotedName = regexp.MustCompile(`"([^"]+)"`)

// GenerateText returns a fenced, well-formed strategy payload.
func (p *Provider) GenerateText(ctx context.Context, req provider.TextRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", provider.Wrap("generate_text", err)
	}
	name := "the brand"
	if m := quotedName.FindStringSubmatch(req.Prompt); m != nil {
		name = m[1]
	}
	seed := deterministicSeed(req.Prompt)

	payload := map[string]any{
		"slogan":         fmt.Sprintf("%s, made clear.", name),
		"tone":           "Confident and warm",
		"targetAudience": "Early adopters who value design",
		"archetype":      "The Creator",
		"socialBio":      fmt.Sprintf("%s builds what comes next.", name),
		"mission":        fmt.Sprintf("%s exists to make its category simpler.", name),
		"elevatorPitch":  fmt.Sprintf("%s turns a crowded market into a clear choice.", name),
		"values":         []string{"Craft", "Clarity", "Momentum"},
		"visualKeywords": []string{"geometric", "luminous", "precise"},
		"positioning": map[string]any{
			"pricePoint":  "premium",
			"vibe":        "Modern and precise",
			"competitors": []string{"Incumbent A", "Incumbent B"},
		},
		"personalityTraits": []map[string]any{
			{"trait": "Classic vs Modern", "value": 80},
			{"trait": "Playful vs Serious", "value": 45},
		},
		"palette": []string{
			"#" + seed[0:6],
			"#" + seed[6:12],
			"#0f172a",
		},
		"moodboardPrompts": []string{
			fmt.Sprintf("workspace of %s at golden hour", name),
			fmt.Sprintf("macro texture inspired by %s", name),
		},
	}
	raw, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", provider.Wrap("generate_text", err)
	}
	return "```json\n" + string(raw) + "\n```", nil
}

// SubmitVideo registers a job that completes after Options.PollsToComplete polls.
func (p *Provider) SubmitVideo(ctx context.Context, req provider.VideoRequest) (provider.JobHandle, error) {
	if err := ctx.Err(); err != nil {
		return "", provider.Wrap("submit_video", err)
	}
	seed := deterministicSeed(req.Prompt, len(req.Image.Data))

	p.mu.Lock()
	defer p.mu.Unlock()
	handle := provider.JobHandle(fmt.Sprintf("operations/synthetic-%s-%d", seed, len(p.jobs)+1))
	p.jobs[handle] = &job{video: brand.Media{Data: renderVideo(seed, req.Prompt), MIMEType: "video/mp4"}}
	return handle, nil
}

// PollVideo advances the job by one poll.
func (p *Provider) PollVideo(ctx context.Context, handle provider.JobHandle) (provider.VideoStatus, error) {
	if err := ctx.Err(); err != nil {
		return provider.VideoStatus{}, provider.Wrap("poll_video", err)
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	j, ok := p.jobs[handle]
	if !ok {
		return provider.VideoStatus{}, &provider.Error{Reason: provider.ReasonUnknown, Op: "poll_video", Err: fmt.Errorf("unknown operation %q", handle)}
	}
	if j.polls < p.opts.PollsToComplete {
		j.polls++
		return provider.VideoStatus{}, nil
	}
	return provider.VideoStatus{Done: true, Video: j.video, URI: "synthetic://" + string(handle)}, nil
}

func renderMark(width, height int, seed string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	base := colorFromSeed(seed, 0)
	accent := colorFromSeed(seed, 1)

	cx, cy := width/2, height/2
	r := min(width, height) / 3
	for y := cy - r; y <= cy+r; y++ {
		for x := cx - r; x <= cx+r; x++ {
			dx, dy := x-cx, y-cy
			if dx*dx+dy*dy <= r*r {
				img.Set(x, y, base)
			}
		}
	}

	inner := image.Rect(cx-r/3, cy-r/3, cx+r/3, cy+r/3)
	draw.Draw(img, inner, &image.Uniform{accent}, image.Point{}, draw.Over)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func renderVideo(seed, prompt string) []byte {
	lines := []string{
		"Synthetic motion placeholder",
		"Seed: " + seed,
		"Prompt: " + strings.TrimSpace(prompt),
	}
	return []byte(strings.Join(lines, "\n"))
}

// colorFromSeed picks a saturated color so marks never collapse into the
// black or white background.
func colorFromSeed(seed string, shift int) color.RGBA {
	doubled := seed + seed
	start := (shift * 6) % len(seed)
	segment := doubled[start : start+6]
	c := color.RGBA{
		R: parseHexByte(segment[0:2]),
		G: parseHexByte(segment[2:4]),
		B: parseHexByte(segment[4:6]),
		A: 255,
	}
	c.R = 32 + c.R%192
	c.B = 32 + c.B%192
	return c
}

func parseHexByte(s string) uint8 {
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0
	}
	return uint8(v)
}

func deterministicSeed(parts ...any) string {
	hasher := sha256.New()
	for _, part := range parts {
		hasher.Write([]byte(fmt.Sprintf("%v", part)))
		hasher.Write([]byte{'|'})
	}
	return hex.EncodeToString(hasher.Sum(nil))[:16]
}

func normalizeAspect(aspect brand.AspectRatio, edge int) (int, int) {
	switch aspect {
	case brand.AspectWidescreen:
		return edge * 16 / 9, edge
	case brand.AspectStandard:
		return edge * 4 / 3, edge
	default:
		return edge, edge
	}
}
