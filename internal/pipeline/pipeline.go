// Package pipeline turns one GenerationConfig into brand asset bundles. A
// Pipeline runs the three dependent stages for one bundle; an Orchestrator
// runs a batch of pipelines concurrently and reduces their results.
package pipeline

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"

	"github.com/fpang/logonova/internal/assets"
	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/jobs"
	"github.com/fpang/logonova/internal/jsonutil"
	"github.com/fpang/logonova/internal/palette"
	"github.com/fpang/logonova/internal/provider"
)

// DefaultMaxMoodboardPrompts caps moodboard images per bundle.
const DefaultMaxMoodboardPrompts = 2

// Options tune a Pipeline. Zero values select defaults.
type Options struct {
	MaxMoodboardPrompts int
	// NewID issues bundle ids. Defaults to jobs.GenerateID(jobs.BundlePrefix).
	NewID func() string
	// Now stamps CreatedAt. Defaults to time.Now.
	Now func() time.Time
}

// Pipeline produces one AssetBundle per Run.
type Pipeline struct {
	images provider.ImageGenerator
	text   provider.TextGenerator
	opts   Options
}

// New creates a Pipeline over the given generators.
func New(images provider.ImageGenerator, text provider.TextGenerator, opts Options) *Pipeline {
	if opts.MaxMoodboardPrompts <= 0 {
		opts.MaxMoodboardPrompts = DefaultMaxMoodboardPrompts
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return jobs.GenerateID(jobs.BundlePrefix) }
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Pipeline{images: images, text: text, opts: opts}
}

// Run executes the stages in order for one bundle. index selects the stylistic
// treatment only. A failure in stage 1 or 2 returns an *Error and no bundle;
// stage 3 never fails.
func (p *Pipeline) Run(ctx context.Context, cfg brand.GenerationConfig, index int) (brand.AssetBundle, error) {
	start := time.Now()
	logger := log.With().Int("slot", index).Str("business", cfg.BusinessName).Logger()

	mark, err := p.primaryImage(ctx, cfg, index)
	if err != nil {
		logger.Error().Err(err).Msg("Primary image stage failed")
		return brand.AssetBundle{}, err
	}

	strategy, defaulted, err := p.strategy(ctx, cfg, index)
	if err != nil {
		logger.Error().Err(err).Msg("Strategy stage failed")
		return brand.AssetBundle{}, err
	}
	if len(defaulted) > 0 {
		logger.Debug().Strs("defaulted", defaulted).Msg("Strategy fields defaulted")
	}
	if slices.Contains(defaulted, "palette") {
		strategy.Palette = p.paletteFromMark(mark, cfg.PrimaryColor)
	}

	moodboard := p.moodboard(ctx, cfg, strategy.MoodboardPrompts, index)

	bundle := brand.AssetBundle{
		ID:           p.opts.NewID(),
		BusinessName: cfg.BusinessName,
		Niche:        cfg.Niche,
		Style:        cfg.Style,
		PrimaryColor: cfg.PrimaryColor,
		PrimaryImage: mark,
		Strategy:     strategy,
		Moodboard:    moodboard,
		Variation:    index,
		CreatedAt:    p.opts.Now(),
		FontFamily:   cfg.FontFamily,
		Material:     cfg.Material,
		AspectRatio:  cfg.AspectRatio,
		Quality:      cfg.Quality,
	}

	logger.Info().
		Str("bundle_id", bundle.ID).
		Int("image_bytes", len(mark.Data)).
		Int("moodboard", len(moodboard)).
		Dur("duration", time.Since(start)).
		Msg("Bundle assembled")
	return bundle, nil
}

// imageAttempts returns the ordered requests for the primary mark. 1K goes
// straight to the baseline tier; higher qualities try the high tier with an
// explicit size and fall back once to a reduced baseline request.
func imageAttempts(prompt string, cfg brand.GenerationConfig) []provider.ImageRequest {
	baseline := provider.ImageRequest{Prompt: prompt, AspectRatio: cfg.AspectRatio, Tier: provider.TierBaseline}
	if cfg.Quality == brand.Quality1K || cfg.Quality == "" {
		return []provider.ImageRequest{baseline}
	}
	high := provider.ImageRequest{Prompt: prompt, AspectRatio: cfg.AspectRatio, Tier: provider.TierHigh, Size: cfg.Quality}
	return []provider.ImageRequest{high, baseline}
}

func (p *Pipeline) primaryImage(ctx context.Context, cfg brand.GenerationConfig, index int) (brand.Media, error) {
	treatment := assets.TreatmentFor(index)
	prompt := assets.RenderMarkPrompt(assets.MarkData{
		BusinessName: cfg.BusinessName,
		Niche:        cfg.Niche,
		Style:        string(cfg.Style),
		Material:     cfg.Material,
		PrimaryColor: cfg.PrimaryColor,
		Treatment:    treatment.Description,
		Background:   treatment.Background,
	})

	var lastErr error
	for _, req := range imageAttempts(prompt, cfg) {
		media, err := p.images.GenerateImage(ctx, req)
		if err == nil && media.Empty() {
			err = provider.ErrNoImage
		}
		if err == nil {
			if media.MIMEType == "" {
				media.MIMEType = "image/png"
			}
			return media, nil
		}
		lastErr = fmt.Errorf("%s tier: %w", req.Tier, err)
		log.Warn().
			Err(err).
			Int("slot", index).
			Str("tier", string(req.Tier)).
			Str("treatment", treatment.Name).
			Msg("Primary image attempt failed")
	}
	return brand.Media{}, newError(CodeImageGenerationFailure, index, lastErr)
}

func (p *Pipeline) strategy(ctx context.Context, cfg brand.GenerationConfig, index int) (brand.Strategy, []string, error) {
	prompt := assets.RenderStrategyPrompt(assets.StrategyData{
		BusinessName:        cfg.BusinessName,
		Niche:               cfg.Niche,
		Style:               string(cfg.Style),
		PrimaryColor:        cfg.PrimaryColor,
		FontFamily:          cfg.FontFamily,
		MaxMoodboardPrompts: p.opts.MaxMoodboardPrompts,
	})

	raw, err := p.text.GenerateText(ctx, provider.TextRequest{
		Prompt:            prompt,
		SystemInstruction: assets.StrategySystemPrompt,
		JSON:              true,
		Schema:            StrategySchema,
	})
	if err != nil {
		return brand.Strategy{}, nil, newError(CodeStrategyParsingFailure, index, fmt.Errorf("strategy request: %w", err))
	}

	obj, err := jsonutil.ParseObject(raw)
	if err != nil {
		return brand.Strategy{}, nil, &Error{
			Code:   CodeStrategyParsingFailure,
			Slot:   index,
			Reason: provider.ReasonMalformed,
			Err:    fmt.Errorf("strategy payload: %w", err),
		}
	}

	s, defaulted := brand.NormalizeStrategy(obj, cfg.PrimaryColor)
	return s, defaulted, nil
}

// paletteFromMark derives colors from the mark, falling back to the default
// palette seeded with the configured primary color.
func (p *Pipeline) paletteFromMark(mark brand.Media, primaryColor string) []string {
	colors, err := palette.Extract(mark.Data, palette.DefaultMaxColors)
	if err != nil {
		log.Warn().Err(err).Msg("Palette extraction failed, using defaults")
	}
	if colors = brand.NormalizePalette(colors); len(colors) > 0 {
		return colors
	}
	return brand.DefaultPalette(primaryColor)
}

type moodboardImage struct {
	order int
	media brand.Media
}

// moodboard generates one image per prompt concurrently. Failures are logged
// and dropped; the result keeps prompt order.
func (p *Pipeline) moodboard(ctx context.Context, cfg brand.GenerationConfig, prompts []string, index int) []brand.Media {
	if len(prompts) > p.opts.MaxMoodboardPrompts {
		prompts = prompts[:p.opts.MaxMoodboardPrompts]
	}
	if len(prompts) == 0 {
		return []brand.Media{}
	}

	tasks := pool.NewWithResults[moodboardImage]().WithErrors()
	for i, scene := range prompts {
		tasks.Go(func() (moodboardImage, error) {
			media, err := p.images.GenerateImage(ctx, provider.ImageRequest{
				Prompt: assets.RenderMoodboardPrompt(assets.MoodboardData{
					BusinessName: cfg.BusinessName,
					Niche:        cfg.Niche,
					Style:        string(cfg.Style),
					PrimaryColor: cfg.PrimaryColor,
					Scene:        scene,
				}),
				AspectRatio: cfg.AspectRatio,
				Tier:        provider.TierBaseline,
			})
			if err == nil && media.Empty() {
				err = provider.ErrNoImage
			}
			if err != nil {
				return moodboardImage{}, fmt.Errorf("moodboard %d: %w", i, err)
			}
			if media.MIMEType == "" {
				media.MIMEType = "image/png"
			}
			return moodboardImage{order: i, media: media}, nil
		})
	}

	results, err := tasks.Wait()
	if err != nil {
		log.Warn().Err(err).Int("slot", index).Int("requested", len(prompts)).Int("generated", len(results)).
			Msg("Moodboard images skipped")
	}

	sort.Slice(results, func(i, j int) bool { return results[i].order < results[j].order })
	out := make([]brand.Media, 0, len(results))
	for _, r := range results {
		out = append(out, r.media)
	}
	return out
}
