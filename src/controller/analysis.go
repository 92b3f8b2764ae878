package controller

import (
	"context"
	"path/filepath"
	"time"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/debt"
	"tech-debt-manager/src/service/detector"
	"tech-debt-manager/src/service/metrics"
	"tech-debt-manager/src/util"
)

// AnalysisController orchestrates debt aggregation
type AnalysisController struct {
	cfg      *config.Config
	runner   *detector.Runner
	recorder *metrics.Recorder
}

// NewAnalysisController creates a new analysis controller. recorder may be nil.
func NewAnalysisController(cfg *config.Config, recorder *metrics.Recorder) *AnalysisController {
	return &AnalysisController{
		cfg:      cfg,
		runner:   detector.NewRunner(cfg, recorder),
		recorder: recorder,
	}
}

// AnalyzeRequest represents a request to analyze the configured project
type AnalyzeRequest struct {
	Prioritized bool
}

// CollectDebts runs every enabled detector and returns the items in run order.
// Each call starts from an empty list.
func (c *AnalysisController) CollectDebts(ctx context.Context) ([]model.DebtItem, error) {
	items, err := c.runner.RunAll(ctx)
	c.recorder.ObserveAggregation(items, err)
	return items, err
}

// Analyze runs one aggregation and builds a report around it
func (c *AnalysisController) Analyze(ctx context.Context, req AnalyzeRequest) (*model.AnalysisReport, error) {
	startTime := time.Now()
	project := c.ProjectName()
	util.Info("Starting analysis for project: %s", project)

	items, err := c.CollectDebts(ctx)
	if err != nil {
		util.Error("Debt collection failed: %v", err)
		return nil, err
	}

	if req.Prioritized {
		items = debt.Prioritize(items)
	}

	report := &model.AnalysisReport{
		Project:     project,
		GeneratedAt: time.Now().UTC(),
		Prioritized: req.Prioritized,
		Metrics:     debt.Metrics(items),
		Items:       items,
	}

	util.Info("Analysis complete: %d items found (took %v)", report.Metrics.TotalItems, time.Since(startTime))
	return report, nil
}

// ProjectName returns the configured project name, falling back to the root directory name
func (c *AnalysisController) ProjectName() string {
	if c.cfg.Project.Name != "" {
		return c.cfg.Project.Name
	}
	root, err := filepath.Abs(c.cfg.Project.Root)
	if err != nil {
		return filepath.Base(c.cfg.Project.Root)
	}
	return filepath.Base(root)
}

// Detectors returns the registered detectors in run order
func (c *AnalysisController) Detectors() []detector.Detector {
	return c.runner.Detectors()
}
