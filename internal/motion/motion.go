// Package motion synthesizes a short video for an existing bundle through a
// job-based video provider: submit, then poll until done, bounded by a
// maximum attempt count and a wall-clock budget.
package motion

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"github.com/fpang/logonova/internal/assets"
	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/metrics"
	"github.com/fpang/logonova/internal/pipeline"
	"github.com/fpang/logonova/internal/provider"
)

// State is the lifecycle position of a bundle's motion job.
type State string

const (
	StateNone      State = "none"
	StateSubmitted State = "submitted"
	StatePolling   State = "polling"
	StateDone      State = "done"
	StateFailed    State = "failed"
)

// Defaults for Options.
const (
	DefaultPollInterval    = 10 * time.Second
	DefaultMaxPollAttempts = 60
	DefaultTimeout         = 10 * time.Minute
)

var (
	// ErrPollBudgetExhausted is returned when MaxPollAttempts polls did not finish the job.
	ErrPollBudgetExhausted = errors.New("video job did not finish within the poll budget")
	// ErrTimeout is returned when the wall-clock budget elapsed.
	ErrTimeout = errors.New("video job timed out")
)

// Options bound the poll loop. Zero values select defaults.
type Options struct {
	PollInterval    time.Duration
	MaxPollAttempts int
	Timeout         time.Duration
	Clock           Clock
}

// Synthesizer runs at most one video job per bundle at a time and remembers
// completed assets.
type Synthesizer struct {
	opts  Options
	group singleflight.Group

	mu        sync.Mutex
	states    map[string]State
	completed map[string]*brand.MotionAsset
}

// New creates a Synthesizer.
func New(opts Options) *Synthesizer {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.MaxPollAttempts <= 0 {
		opts.MaxPollAttempts = DefaultMaxPollAttempts
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Clock == nil {
		opts.Clock = RealClock{}
	}
	return &Synthesizer{
		opts:      opts,
		states:    make(map[string]State),
		completed: make(map[string]*brand.MotionAsset),
	}
}

// State reports the job state for a bundle.
func (s *Synthesizer) State(bundleID string) State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.states[bundleID]; ok {
		return st
	}
	return StateNone
}

// Synthesize returns the motion asset for b. A bundle that already has one,
// or whose job already completed, returns it without a new submission. A call
// made while a job is in flight waits for and shares that job's outcome.
// Failures are returned as *pipeline.Error with CodeMotionSynthesisFailure
// and leave no asset behind, so a later call retries.
func (s *Synthesizer) Synthesize(ctx context.Context, gen provider.VideoGenerator, b brand.AssetBundle) (*brand.MotionAsset, error) {
	if b.HasMotion() {
		return b.MotionAsset, nil
	}

	s.mu.Lock()
	if asset, ok := s.completed[b.ID]; ok {
		s.mu.Unlock()
		return asset, nil
	}
	s.mu.Unlock()

	v, err, shared := s.group.Do(b.ID, func() (any, error) {
		return s.run(ctx, gen, b)
	})
	if shared {
		log.Debug().Str("bundle_id", b.ID).Bool("failed", err != nil).Msg("Shared motion job outcome")
	}
	if err != nil {
		return nil, err
	}
	return v.(*brand.MotionAsset), nil
}

func (s *Synthesizer) run(ctx context.Context, gen provider.VideoGenerator, b brand.AssetBundle) (*brand.MotionAsset, error) {
	clock := s.opts.Clock
	start := clock.Now()
	deadline := start.Add(s.opts.Timeout)
	logger := log.With().Str("bundle_id", b.ID).Logger()
	polls := 0

	// Provider calls and waits share the wall-clock budget.
	jobCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	fail := func(err error) (*brand.MotionAsset, error) {
		if ctx.Err() == nil && errors.Is(jobCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, ErrTimeout) {
			err = fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		s.setState(b.ID, StateFailed)
		recordJob("failed", polls, clock.Now().Sub(start))
		logger.Error().Err(err).Int("polls", polls).Msg("Motion synthesis failed")
		return nil, &pipeline.Error{
			Code:   pipeline.CodeMotionSynthesisFailure,
			Slot:   pipeline.NoSlot,
			Reason: provider.ReasonOf(err),
			Err:    err,
		}
	}

	s.setState(b.ID, StateSubmitted)
	handle, err := gen.SubmitVideo(jobCtx, provider.VideoRequest{
		Prompt: assets.RenderMotionPrompt(assets.MotionData{
			BusinessName: b.BusinessName,
			Material:     b.Material,
		}),
		Image:       b.PrimaryImage,
		AspectRatio: b.AspectRatio,
	})
	if err != nil {
		return fail(fmt.Errorf("submit: %w", err))
	}
	logger.Info().Str("handle", string(handle)).Msg("Motion job submitted")

	s.setState(b.ID, StatePolling)
	for {
		if polls >= s.opts.MaxPollAttempts {
			return fail(ErrPollBudgetExhausted)
		}
		if err := clock.Sleep(jobCtx, s.opts.PollInterval); err != nil {
			return fail(fmt.Errorf("poll wait: %w", err))
		}
		if clock.Now().After(deadline) {
			return fail(ErrTimeout)
		}

		polls++
		status, err := gen.PollVideo(jobCtx, handle)
		if err != nil {
			return fail(fmt.Errorf("poll %d: %w", polls, err))
		}
		if !status.Done {
			logger.Debug().Int("poll", polls).Msg("Motion job still running")
			continue
		}
		if status.Video.Empty() {
			return fail(provider.ErrNoVideo)
		}

		asset := &brand.MotionAsset{Media: status.Video, URI: status.URI, CreatedAt: clock.Now()}
		s.mu.Lock()
		s.completed[b.ID] = asset
		s.states[b.ID] = StateDone
		s.mu.Unlock()

		elapsed := clock.Now().Sub(start)
		recordJob("done", polls, elapsed)
		logger.Info().
			Int("polls", polls).
			Int("video_bytes", len(asset.Data)).
			Dur("duration", elapsed).
			Msg("Motion job complete")
		return asset, nil
	}
}

func (s *Synthesizer) setState(bundleID string, st State) {
	s.mu.Lock()
	s.states[bundleID] = st
	s.mu.Unlock()
}

func recordJob(outcome string, polls int, elapsed time.Duration) {
	metrics.New(metrics.Namespace).
		Dimension("Operation", "motion").
		Dimension("Outcome", outcome).
		Metric("MotionPolls", float64(polls), metrics.UnitCount).
		Duration("MotionMs", elapsed).
		Flush()
}
