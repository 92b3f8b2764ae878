package detector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/metrics"
	"tech-debt-manager/src/util"
)

// Runner manages and runs all detectors.
// Results are always returned in registration order, whatever the parallelism.
type Runner struct {
	detectors []Detector
	cfg       *config.Config
	recorder  *metrics.Recorder
}

// NewRunner creates a new detector runner with all detectors registered
// in canonical order: missing tests, duplication, static analysis
func NewRunner(cfg *config.Config, recorder *metrics.Recorder) *Runner {
	base := NewBaseDetector(cfg)

	return NewRunnerWithDetectors(cfg, recorder,
		NewMissingTestDetector(base, cfg.Detectors.MissingTests),
		NewDuplicationDetector(base, cfg.Detectors.Duplication),
		NewStaticAnalysisDetector(base, cfg.Detectors.StaticAnalysis),
	)
}

// NewRunnerWithDetectors creates a runner over an explicit detector list
func NewRunnerWithDetectors(cfg *config.Config, recorder *metrics.Recorder, detectors ...Detector) *Runner {
	util.Debug("Detector runner initialized with %d detectors", len(detectors))
	for _, d := range detectors {
		status := "disabled"
		if d.IsEnabled() {
			status = "enabled"
		}
		util.Debug("  - %s: %s", d.Name(), status)
	}

	return &Runner{
		detectors: detectors,
		cfg:       cfg,
		recorder:  recorder,
	}
}

// RunAll executes all enabled detectors on a fresh accumulator. Detector
// failures yield zero items unless they wrap ErrProjectRoot or fail_fast is set.
func (r *Runner) RunAll(ctx context.Context) ([]model.DebtItem, error) {
	startTime := time.Now()
	util.Info("Starting debt detection")

	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		results   = make([][]model.DebtItem, len(r.detectors))
		errs      = make([]error, len(r.detectors))
		workers   = max(1, r.cfg.Concurrency.MaxParallelDetectors)
		p         = pool.New().WithMaxGoroutines(workers)
		fatalOnce sync.Once
		fatalErr  error
	)

	for i, d := range r.detectors {
		if !d.IsEnabled() {
			util.Debug("Skipping disabled detector: %s", d.Name())
			r.recorder.ObserveDetector(d.Name(), metrics.OutcomeSkipped, 0)
			continue
		}

		p.Go(func() {
			if ctx.Err() != nil {
				errs[i] = ctx.Err()
				return
			}

			detectorStart := time.Now()
			util.Debug("Running detector: %s", d.Name())

			items, err := d.Detect(ctx)
			elapsed := time.Since(detectorStart)
			if err != nil {
				r.recorder.ObserveDetector(d.Name(), metrics.OutcomeFailed, elapsed)
				errs[i] = err
				if r.isFatal(err) {
					fatalOnce.Do(func() {
						fatalErr = fmt.Errorf("detector %s: %w", d.Name(), err)
						cancel()
					})
				}
				return
			}

			r.recorder.ObserveDetector(d.Name(), metrics.OutcomeSuccess, elapsed)
			util.Info("Detector %s found %d items (took %v)", d.Name(), len(items), elapsed)
			results[i] = items
		})
	}

	util.Debug("Running detectors (max parallel: %d)", workers)
	p.Wait()

	if fatalErr != nil {
		util.Error("Detection aborted: %v", fatalErr)
		return nil, fatalErr
	}
	if err := parent.Err(); err != nil {
		return nil, err
	}

	for i, err := range errs {
		if err == nil {
			continue
		}
		util.Warn("Detector %s failed, contributing no items: %v", r.detectors[i].Name(), err)
		results[i] = nil
	}

	var all []model.DebtItem
	for _, items := range results {
		all = append(all, items...)
	}
	if all == nil {
		all = []model.DebtItem{}
	}

	util.Info("Detection complete: %d total items found (took %v)", len(all), time.Since(startTime))
	return all, nil
}

func (r *Runner) isFatal(err error) bool {
	return errors.Is(err, ErrProjectRoot) || r.cfg.Detectors.FailFast
}

// GetDetector returns a detector by name
func (r *Runner) GetDetector(name string) Detector {
	for _, d := range r.detectors {
		if d.Name() == name {
			return d
		}
	}
	return nil
}

// Detectors returns the registered detectors in run order
func (r *Runner) Detectors() []Detector {
	return r.detectors
}
