// Package studio is the outbound surface of the generator: it gates requests
// on a selected credential, runs batches, keeps the session gallery and
// attaches motion assets on demand.
package studio

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/fpang/logonova/internal/auth"
	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/gallery"
	"github.com/fpang/logonova/internal/motion"
	"github.com/fpang/logonova/internal/pipeline"
	"github.com/fpang/logonova/internal/provider"
	"github.com/fpang/logonova/internal/provider/gemini"
	"github.com/fpang/logonova/internal/provider/synthetic"
)

// Factory builds a provider for an API key.
type Factory func(ctx context.Context, apiKey string) (provider.Provider, error)

// GeminiFactory returns a Factory that builds Gemini clients with the given models.
func GeminiFactory(models gemini.Config) Factory {
	return func(ctx context.Context, apiKey string) (provider.Provider, error) {
		cfg := models
		cfg.APIKey = apiKey
		client, err := gemini.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}

// Options configure a Service.
type Options struct {
	// Factory builds the provider for the selected key. Required unless Offline.
	Factory Factory
	// Offline uses the synthetic provider and skips the credential gate.
	Offline      bool
	Synthetic    synthetic.Options
	Pipeline     pipeline.Options
	MaxBatchSize int
	Motion       motion.Options
}

// Service is safe for concurrent use.
type Service struct {
	gate    *auth.Gate
	gallery *gallery.Gallery
	motion  *motion.Synthesizer
	opts    Options

	mu        sync.Mutex
	clientKey string
	client    provider.Provider
}

// New creates a Service over a caller-owned gate and gallery.
func New(gate *auth.Gate, g *gallery.Gallery, opts Options) *Service {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = pipeline.DefaultMaxBatchSize
	}
	return &Service{
		gate:    gate,
		gallery: g,
		motion:  motion.New(opts.Motion),
		opts:    opts,
	}
}

// Gate returns the credential gate.
func (s *Service) Gate() *auth.Gate { return s.gate }

// Offline reports whether the synthetic provider is in use.
func (s *Service) Offline() bool { return s.opts.Offline }

// MaxBatchSize is the largest count RunBatch accepts.
func (s *Service) MaxBatchSize() int { return s.opts.MaxBatchSize }

// CredentialSelected reports whether generation may proceed.
func (s *Service) CredentialSelected() bool {
	return s.opts.Offline || s.gate.Selected()
}

// RunBatch generates count bundles for cfg. The batch reaches the gallery only
// when every bundle succeeded.
func (s *Service) RunBatch(ctx context.Context, cfg brand.GenerationConfig, count int) ([]brand.AssetBundle, error) {
	p, err := s.provider(ctx)
	if err != nil {
		return nil, err
	}

	orch := pipeline.NewOrchestrator(pipeline.New(p, p, s.opts.Pipeline), s.opts.MaxBatchSize)
	bundles, err := orch.RunBatch(ctx, cfg, count)
	if err != nil {
		s.observe(err)
		return nil, err
	}

	if err := s.gallery.PrependBatch(bundles); err != nil {
		return nil, fmt.Errorf("failed to store batch: %w", err)
	}
	log.Info().
		Str("business", cfg.BusinessName).
		Int("bundles", len(bundles)).
		Int("gallery_size", s.gallery.Len()).
		Msg("Batch added to gallery")
	return bundles, nil
}

// SynthesizeMotion produces the motion asset for a gallery bundle and attaches
// it. Repeated calls return the attached asset without a new job.
func (s *Service) SynthesizeMotion(ctx context.Context, bundleID string) (*brand.MotionAsset, error) {
	b, err := s.gallery.Get(bundleID)
	if err != nil {
		return nil, err
	}
	if b.HasMotion() {
		return b.MotionAsset, nil
	}

	p, err := s.provider(ctx)
	if err != nil {
		return nil, err
	}
	asset, err := s.motion.Synthesize(ctx, p, b)
	if err != nil {
		s.observe(err)
		return nil, err
	}

	if err := s.gallery.AttachMotion(bundleID, asset); err != nil && !errors.Is(err, gallery.ErrMotionAlreadyAttached) {
		return nil, err
	}
	b, err = s.gallery.Get(bundleID)
	if err != nil {
		return nil, err
	}
	return b.MotionAsset, nil
}

// MotionState reports the motion job state for a bundle.
func (s *Service) MotionState(bundleID string) (motion.State, error) {
	b, err := s.gallery.Get(bundleID)
	if err != nil {
		return motion.StateNone, err
	}
	if b.HasMotion() {
		return motion.StateDone, nil
	}
	st := s.motion.State(bundleID)
	if st == motion.StateDone {
		// Finished but not yet attached to the gallery bundle.
		return motion.StatePolling, nil
	}
	return st, nil
}

// Bundles returns every bundle, most recent first.
func (s *Service) Bundles() []brand.AssetBundle { return s.gallery.List() }

// Bundle returns one bundle by id.
func (s *Service) Bundle(id string) (brand.AssetBundle, error) { return s.gallery.Get(id) }

// ValidateCredential checks the selected key against the provider. A rejected
// key is cleared from the gate.
func (s *Service) ValidateCredential(ctx context.Context) error {
	if s.opts.Offline {
		return nil
	}
	p, err := s.provider(ctx)
	if err != nil {
		return auth.ValidateAPIKey(ctx, failingValidator{err})
	}
	v, ok := p.(auth.Validator)
	if !ok {
		return nil
	}
	err = auth.ValidateAPIKey(ctx, v)
	var valErr *auth.ValidationError
	if errors.As(err, &valErr) && valErr.Type == auth.ErrTypeInvalidKey {
		s.gate.Clear()
	}
	return err
}

type failingValidator struct{ err error }

func (f failingValidator) Validate(context.Context) error { return f.err }

// provider returns the client for the selected key, building it on first use
// or when the key changed.
func (s *Service) provider(ctx context.Context) (provider.Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.opts.Offline {
		if s.client == nil {
			s.client = synthetic.New(s.opts.Synthetic)
		}
		return s.client, nil
	}

	key, err := s.gate.Key()
	if err != nil {
		return nil, credentialError(err)
	}
	if s.client != nil && s.clientKey == key {
		return s.client, nil
	}
	if s.opts.Factory == nil {
		return nil, errors.New("no provider factory configured")
	}
	p, err := s.opts.Factory(ctx, key)
	if err != nil {
		if provider.ReasonOf(err) == provider.ReasonCredential {
			s.gate.Clear()
			return nil, credentialError(err)
		}
		return nil, err
	}
	s.client, s.clientKey = p, key
	return p, nil
}

// observe clears the gate when the provider rejected the credential.
func (s *Service) observe(err error) {
	if pipeline.CodeOf(err) == pipeline.CodeCredentialInvalid || provider.ReasonOf(err) == provider.ReasonCredential {
		s.gate.Clear()
		s.mu.Lock()
		s.client, s.clientKey = nil, ""
		s.mu.Unlock()
	}
}

func credentialError(err error) *pipeline.Error {
	return &pipeline.Error{
		Code:   pipeline.CodeCredentialInvalid,
		Slot:   pipeline.NoSlot,
		Reason: provider.ReasonCredential,
		Err:    err,
	}
}
