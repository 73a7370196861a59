package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/logonova/internal/assets"
	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/provider"
)

func TestRun_AssemblesBundle(t *testing.T) {
	images := &fakeImages{fn: alwaysImage}
	text := &fakeText{raw: fullStrategy}
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	p := New(images, text, Options{
		NewID: func() string { return "brand-fixed" },
		Now:   func() time.Time { return now },
	})

	b, err := p.Run(context.Background(), acmeConfig(t), 2)
	require.NoError(t, err)

	assert.Equal(t, "brand-fixed", b.ID)
	assert.Equal(t, now, b.CreatedAt)
	assert.Equal(t, "Acme", b.BusinessName)
	assert.Equal(t, "matte_ink", b.Material)
	assert.Equal(t, brand.AspectSquare, b.AspectRatio)
	assert.Equal(t, 2, b.Variation)
	assert.False(t, b.PrimaryImage.Empty())
	assert.Equal(t, "Fly on sunlight", b.Strategy.Slogan)
	assert.Equal(t, []string{"#4f46e5", "#0f172a"}, b.Strategy.Palette)
	assert.Len(t, b.Moodboard, 2)
	assert.Nil(t, b.MotionAsset)
}

func TestRun_MarkPromptUsesTreatmentForIndex(t *testing.T) {
	images := &fakeImages{fn: alwaysImage}
	p := New(images, &fakeText{raw: fullStrategy}, Options{})

	_, err := p.Run(context.Background(), acmeConfig(t), 6)
	require.NoError(t, err)

	calls := images.markCalls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Prompt, assets.TreatmentFor(2).Description)
	assert.Contains(t, calls[0].Prompt, "pure black")
}

func TestImageAttempts(t *testing.T) {
	cfg := brand.GenerationConfig{AspectRatio: brand.AspectWidescreen, Quality: brand.Quality1K}
	attempts := imageAttempts("p", cfg)
	require.Len(t, attempts, 1)
	assert.Equal(t, provider.TierBaseline, attempts[0].Tier)

	cfg.Quality = brand.Quality4K
	attempts = imageAttempts("p", cfg)
	require.Len(t, attempts, 2)
	assert.Equal(t, provider.TierHigh, attempts[0].Tier)
	assert.Equal(t, brand.Quality4K, attempts[0].Size)
	assert.Equal(t, provider.TierBaseline, attempts[1].Tier)
	assert.Empty(t, attempts[1].Size, "fallback is a reduced-option request")
	assert.Equal(t, brand.AspectWidescreen, attempts[1].AspectRatio)
}

func TestRun_HighTierFallsBackOnce(t *testing.T) {
	images := &fakeImages{fn: func(req provider.ImageRequest) (brand.Media, error) {
		if req.Tier == provider.TierHigh {
			return brand.Media{}, &provider.Error{Reason: provider.ReasonTransient, Err: errors.New("overloaded")}
		}
		return alwaysImage(req)
	}}
	cfg := acmeConfig(t)
	cfg.Quality = brand.Quality2K
	p := New(images, &fakeText{raw: fullStrategy}, Options{})

	b, err := p.Run(context.Background(), cfg, 0)
	require.NoError(t, err)
	assert.False(t, b.PrimaryImage.Empty())

	calls := images.markCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, provider.TierHigh, calls[0].Tier)
	assert.Equal(t, provider.TierBaseline, calls[1].Tier)
}

func TestRun_NoImageFromEitherTier(t *testing.T) {
	images := &fakeImages{fn: func(provider.ImageRequest) (brand.Media, error) {
		return brand.Media{}, nil
	}}
	text := &fakeText{raw: fullStrategy}
	cfg := acmeConfig(t)
	cfg.Quality = brand.Quality4K

	_, err := New(images, text, Options{}).Run(context.Background(), cfg, 1)
	require.Error(t, err)
	assert.Equal(t, CodeImageGenerationFailure, CodeOf(err))
	assert.ErrorIs(t, err, provider.ErrNoImage)
	assert.Len(t, images.markCalls(), 2)
	assert.Zero(t, text.calls, "strategy must not start before the mark exists")

	var pErr *Error
	require.True(t, errors.As(err, &pErr))
	assert.Equal(t, 1, pErr.Slot)
}

func TestRun_ReasonOverridesStageCode(t *testing.T) {
	tests := []struct {
		name   string
		reason provider.Reason
		want   Code
	}{
		{"credential", provider.ReasonCredential, CodeCredentialInvalid},
		{"content policy", provider.ReasonContentPolicy, CodeContentPolicyRejection},
		{"transient", provider.ReasonTransient, CodeImageGenerationFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			images := &fakeImages{fn: func(provider.ImageRequest) (brand.Media, error) {
				return brand.Media{}, &provider.Error{Reason: tt.reason, Op: "generate_image", Err: errors.New("rejected")}
			}}
			_, err := New(images, &fakeText{raw: fullStrategy}, Options{}).Run(context.Background(), acmeConfig(t), 0)
			assert.Equal(t, tt.want, CodeOf(err))
		})
	}
}

func TestRun_StrategyNotParseable(t *testing.T) {
	for _, raw := range []string{"", "Here is a lovely strategy for Acme: be bold.", `["slogan"]`, `{"slogan": "unterminated`} {
		t.Run(fmt.Sprintf("%.12q", raw), func(t *testing.T) {
			images := &fakeImages{fn: alwaysImage}
			_, err := New(images, &fakeText{raw: raw}, Options{}).Run(context.Background(), acmeConfig(t), 0)
			require.Error(t, err)
			assert.Equal(t, CodeStrategyParsingFailure, CodeOf(err))
			assert.Zero(t, images.moodboardCalls())
		})
	}
}

func TestRun_StrategyTransportErrors(t *testing.T) {
	text := &fakeText{err: &provider.Error{Reason: provider.ReasonContentPolicy, Err: errors.New("blocked")}}
	_, err := New(&fakeImages{fn: alwaysImage}, text, Options{}).Run(context.Background(), acmeConfig(t), 0)
	assert.Equal(t, CodeContentPolicyRejection, CodeOf(err))

	text = &fakeText{err: errors.New("connection reset")}
	_, err = New(&fakeImages{fn: alwaysImage}, text, Options{}).Run(context.Background(), acmeConfig(t), 0)
	assert.Equal(t, CodeStrategyParsingFailure, CodeOf(err))
}

func TestRun_MissingFieldsAreDefaulted(t *testing.T) {
	text := &fakeText{raw: `{"slogan": "Only a slogan"}`}
	b, err := New(&fakeImages{fn: alwaysImage}, text, Options{}).Run(context.Background(), acmeConfig(t), 0)
	require.NoError(t, err)

	s := b.Strategy
	assert.Equal(t, "Only a slogan", s.Slogan)
	assert.NotEmpty(t, s.Values)
	assert.NotEmpty(t, s.Tone)
	assert.NotEmpty(t, s.TargetAudience)
	assert.NotEmpty(t, s.Archetype)
	assert.NotEmpty(t, s.Palette)
	assert.Empty(t, b.Moodboard)
	assert.NotNil(t, b.Moodboard)
}

func TestRun_PaletteDerivedFromMarkWhenMissing(t *testing.T) {
	images := &fakeImages{fn: func(provider.ImageRequest) (brand.Media, error) {
		return pngMedia(color.RGBA{0xd4, 0xaf, 0x37, 0xff}), nil
	}}
	text := &fakeText{raw: `{"slogan": "Gold"}`}
	b, err := New(images, text, Options{}).Run(context.Background(), acmeConfig(t), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"#d4af37"}, b.Strategy.Palette)
}

func TestRun_MoodboardFailuresAreSwallowed(t *testing.T) {
	for failing := 0; failing <= 2; failing++ {
		t.Run(fmt.Sprintf("%d failing", failing), func(t *testing.T) {
			images := &fakeImages{fn: func(req provider.ImageRequest) (brand.Media, error) {
				if isMarkPrompt(req.Prompt) {
					return alwaysImage(req)
				}
				if failing >= 1 && strings.Contains(req.Prompt, "sunrise over crop rows") {
					return brand.Media{}, errors.New("moodboard backend down")
				}
				if failing >= 2 && strings.Contains(req.Prompt, "carbon fibre macro") {
					return brand.Media{}, nil
				}
				return alwaysImage(req)
			}}

			b, err := New(images, &fakeText{raw: fullStrategy}, Options{}).Run(context.Background(), acmeConfig(t), 0)
			require.NoError(t, err)
			assert.Len(t, b.Moodboard, 2-failing)
			assert.Equal(t, 2, images.moodboardCalls())
		})
	}
}

func TestRun_MoodboardPromptsCapped(t *testing.T) {
	text := &fakeText{raw: `{"moodboardPrompts": ["a", "b", "c", "d", "e"]}`}
	images := &fakeImages{fn: alwaysImage}

	b, err := New(images, text, Options{MaxMoodboardPrompts: 3}).Run(context.Background(), acmeConfig(t), 0)
	require.NoError(t, err)
	assert.Equal(t, 3, images.moodboardCalls())
	assert.Len(t, b.Moodboard, 3)
}

func TestUserMessage(t *testing.T) {
	assert.Empty(t, UserMessage(nil))
	assert.Contains(t, UserMessage(&Error{Code: CodeContentPolicyRejection, Slot: NoSlot}), "rephrasing")
	assert.Contains(t, UserMessage(fmt.Errorf("wrapped: %w", &Error{Code: CodeCredentialInvalid, Slot: 0})), "API key")
	assert.NotEmpty(t, UserMessage(errors.New("raw")))
	assert.Equal(t, Code(""), CodeOf(errors.New("raw")))
}

func TestError_Format(t *testing.T) {
	err := &Error{Code: CodeImageGenerationFailure, Slot: 3, Err: errors.New("boom")}
	assert.Equal(t, "slot 3: ImageGenerationFailure: boom", err.Error())
	assert.Equal(t, "InvalidRequest", (&Error{Code: CodeInvalidRequest, Slot: NoSlot}).Error())
}

func TestStrategySchema_PricePointsFromBrand(t *testing.T) {
	enum := StrategySchema.Properties["positioning"].Properties["pricePoint"].Enum
	require.Len(t, enum, len(brand.PricePoints))
	for i, p := range brand.PricePoints {
		assert.Equal(t, string(p), enum[i])
	}
}
