package studio

import (
	"context"
	"errors"
	"io"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/logonova/internal/auth"
	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/gallery"
	"github.com/fpang/logonova/internal/metrics"
	"github.com/fpang/logonova/internal/motion"
	"github.com/fpang/logonova/internal/pipeline"
	"github.com/fpang/logonova/internal/provider"
	"github.com/fpang/logonova/internal/provider/synthetic"
)

func TestMain(m *testing.M) {
	metrics.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func acme(t *testing.T) brand.GenerationConfig {
	t.Helper()
	cfg, err := brand.NewGenerationConfig(brand.ConfigInput{BusinessName: "Acme", Niche: "solar drones"})
	require.NoError(t, err)
	return cfg
}

func fastMotion() motion.Options {
	return motion.Options{PollInterval: time.Millisecond, MaxPollAttempts: 10, Timeout: time.Second}
}

// rejecting is a synthetic provider whose image calls fail with a credential error.
type rejecting struct {
	*synthetic.Provider
}

func (r rejecting) GenerateImage(ctx context.Context, req provider.ImageRequest) (brand.Media, error) {
	return brand.Media{}, &provider.Error{Reason: provider.ReasonCredential, Op: "generate_image", Err: errors.New("API key not valid")}
}

func (r rejecting) Validate(ctx context.Context) error {
	return &provider.Error{Reason: provider.ReasonCredential, Op: "validate", Err: errors.New("401")}
}

func TestRunBatch_Offline(t *testing.T) {
	g := gallery.New()
	s := New(auth.NewGate(nil), g, Options{Offline: true, Motion: fastMotion()})

	assert.True(t, s.CredentialSelected())
	bundles, err := s.RunBatch(context.Background(), acme(t), 3)
	require.NoError(t, err)
	require.Len(t, bundles, 3)
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, bundles[0].ID, s.Bundles()[0].ID)

	got, err := s.Bundle(bundles[1].ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Variation)
}

func TestRunBatch_GatedWithoutCredential(t *testing.T) {
	var built atomic.Int32
	s := New(auth.NewGate(nil), gallery.New(), Options{
		Factory: func(ctx context.Context, key string) (provider.Provider, error) {
			built.Add(1)
			return synthetic.New(synthetic.Options{}), nil
		},
	})

	_, err := s.RunBatch(context.Background(), acme(t), 1)
	assert.Equal(t, pipeline.CodeCredentialInvalid, pipeline.CodeOf(err))
	assert.Zero(t, built.Load())
	assert.Empty(t, s.Bundles())
}

func TestRunBatch_ReusesClientPerKey(t *testing.T) {
	var built atomic.Int32
	gate := auth.NewGate(nil)
	require.NoError(t, gate.Use("key-1"))
	s := New(gate, gallery.New(), Options{
		Factory: func(ctx context.Context, key string) (provider.Provider, error) {
			built.Add(1)
			return synthetic.New(synthetic.Options{}), nil
		},
	})

	_, err := s.RunBatch(context.Background(), acme(t), 1)
	require.NoError(t, err)
	_, err = s.RunBatch(context.Background(), acme(t), 2)
	require.NoError(t, err)
	assert.EqualValues(t, 1, built.Load())

	require.NoError(t, gate.Use("key-2"))
	_, err = s.RunBatch(context.Background(), acme(t), 1)
	require.NoError(t, err)
	assert.EqualValues(t, 2, built.Load())
	assert.Len(t, s.Bundles(), 4)
}

func TestRunBatch_CredentialRejectionClearsGate(t *testing.T) {
	gate := auth.NewGate(nil)
	require.NoError(t, gate.Use("bad-key"))
	g := gallery.New()
	s := New(gate, g, Options{
		Factory: func(ctx context.Context, key string) (provider.Provider, error) {
			return rejecting{synthetic.New(synthetic.Options{})}, nil
		},
	})

	_, err := s.RunBatch(context.Background(), acme(t), 2)
	assert.Equal(t, pipeline.CodeCredentialInvalid, pipeline.CodeOf(err))
	assert.False(t, gate.Selected())
	assert.Zero(t, g.Len())
}

func TestRunBatch_InvalidCountLeavesGalleryAlone(t *testing.T) {
	s := New(auth.NewGate(nil), gallery.New(), Options{Offline: true, MaxBatchSize: 4})
	_, err := s.RunBatch(context.Background(), acme(t), 5)
	assert.Equal(t, pipeline.CodeInvalidRequest, pipeline.CodeOf(err))
	assert.Empty(t, s.Bundles())
}

func TestSynthesizeMotion_AttachesOnce(t *testing.T) {
	s := New(auth.NewGate(nil), gallery.New(), Options{
		Offline:   true,
		Synthetic: synthetic.Options{PollsToComplete: 2},
		Motion:    fastMotion(),
	})
	bundles, err := s.RunBatch(context.Background(), acme(t), 1)
	require.NoError(t, err)
	id := bundles[0].ID

	state, err := s.MotionState(id)
	require.NoError(t, err)
	assert.Equal(t, motion.StateNone, state)

	asset, err := s.SynthesizeMotion(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, asset)
	assert.Equal(t, "video/mp4", asset.MIMEType)

	again, err := s.SynthesizeMotion(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, asset.Data, again.Data)

	b, _ := s.Bundle(id)
	assert.True(t, b.HasMotion())
	state, _ = s.MotionState(id)
	assert.Equal(t, motion.StateDone, state)
}

func TestSynthesizeMotion_UnknownBundle(t *testing.T) {
	s := New(auth.NewGate(nil), gallery.New(), Options{Offline: true})
	_, err := s.SynthesizeMotion(context.Background(), "brand-missing")
	assert.ErrorIs(t, err, gallery.ErrNotFound)
}

func TestValidateCredential(t *testing.T) {
	gate := auth.NewGate(nil)
	s := New(gate, gallery.New(), Options{
		Factory: func(ctx context.Context, key string) (provider.Provider, error) {
			return rejecting{synthetic.New(synthetic.Options{})}, nil
		},
	})

	var valErr *auth.ValidationError
	err := s.ValidateCredential(context.Background())
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, auth.ErrTypeNoKey, valErr.Type)

	require.NoError(t, gate.Use("bad-key"))
	err = s.ValidateCredential(context.Background())
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, auth.ErrTypeInvalidKey, valErr.Type)
	assert.False(t, gate.Selected())

	offline := New(auth.NewGate(nil), gallery.New(), Options{Offline: true})
	assert.NoError(t, offline.ValidateCredential(context.Background()))
}
