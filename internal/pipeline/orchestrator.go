package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/fpang/logonova/internal/brand"
	"github.com/fpang/logonova/internal/metrics"
)

// Runner produces one bundle for a sequence index. *Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, cfg brand.GenerationConfig, index int) (brand.AssetBundle, error)
}

// DefaultMaxBatchSize caps count when the orchestrator is built without one.
const DefaultMaxBatchSize = 8

// Orchestrator runs a batch of pipelines concurrently for one config.
type Orchestrator struct {
	runner       Runner
	maxBatchSize int
}

// NewOrchestrator creates an Orchestrator. maxBatchSize <= 0 selects DefaultMaxBatchSize.
func NewOrchestrator(runner Runner, maxBatchSize int) *Orchestrator {
	if maxBatchSize <= 0 {
		maxBatchSize = DefaultMaxBatchSize
	}
	return &Orchestrator{runner: runner, maxBatchSize: maxBatchSize}
}

// MaxBatchSize is the largest count RunBatch accepts.
func (o *Orchestrator) MaxBatchSize() int { return o.maxBatchSize }

// slotResult is the settled outcome of one pipeline instance.
type slotResult struct {
	bundle brand.AssetBundle
	err    error
}

// RunBatch runs exactly count pipelines with indexes 0..count-1 and waits for
// all of them to settle. The batch is all-or-nothing: if any instance fails,
// no bundles are returned and the error of the lowest failing slot is.
func (o *Orchestrator) RunBatch(ctx context.Context, cfg brand.GenerationConfig, count int) ([]brand.AssetBundle, error) {
	if count < 1 || count > o.maxBatchSize {
		return nil, &Error{
			Code: CodeInvalidRequest,
			Slot: NoSlot,
			Err:  fmt.Errorf("batch count %d outside 1..%d", count, o.maxBatchSize),
		}
	}

	start := time.Now()
	log.Info().
		Str("business", cfg.BusinessName).
		Str("quality", string(cfg.Quality)).
		Int("count", count).
		Msg("Starting synthesis batch")

	results := make([]slotResult, count)
	var g errgroup.Group
	for i := range count {
		g.Go(func() error {
			b, err := o.runner.Run(ctx, cfg, i)
			results[i] = slotResult{bundle: b, err: err}
			return nil
		})
	}
	_ = g.Wait()

	bundles, err := o.reduce(results)
	recordBatch(cfg, count, len(bundles), err, time.Since(start))
	return bundles, err
}

// reduce applies the batch contract to settled results. Switching to partial
// success means returning the successes here and reporting failures alongside.
func (o *Orchestrator) reduce(results []slotResult) ([]brand.AssetBundle, error) {
	var first error
	failed := 0
	for _, r := range results {
		if r.err == nil {
			continue
		}
		failed++
		if first == nil {
			first = r.err
		}
	}
	if first != nil {
		log.Error().
			Err(first).
			Int("failed", failed).
			Int("succeeded", len(results)-failed).
			Msg("Synthesis batch failed, discarding all bundles")
		return nil, first
	}

	bundles := make([]brand.AssetBundle, len(results))
	for i, r := range results {
		bundles[i] = r.bundle
	}
	return bundles, nil
}

func recordBatch(cfg brand.GenerationConfig, count, produced int, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = string(CodeOf(err))
		if outcome == "" {
			outcome = "error"
		}
	}

	metrics.New(metrics.Namespace).
		Dimension("Outcome", outcome).
		Dimension("Quality", string(cfg.Quality)).
		Duration("BatchMs", elapsed).
		Metric("BatchRequested", float64(count), metrics.UnitCount).
		Metric("BundlesProduced", float64(produced), metrics.UnitCount).
		Flush()

	log.Info().
		Str("outcome", outcome).
		Int("bundles", produced).
		Dur("duration", elapsed).
		Msg("Synthesis batch settled")
}
