package detector

import (
	"context"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/util"
)

// DuplicationDetector runs an external copy/paste detector (phpcpd by default)
// and reports one item per file that takes part in a duplication
type DuplicationDetector struct {
	BaseDetector
	cfg  config.ToolConfig
	tool toolRunner
}

// NewDuplicationDetector creates a new duplicate-code detector
func NewDuplicationDetector(base BaseDetector, cfg config.ToolConfig) *DuplicationDetector {
	return &DuplicationDetector{
		BaseDetector: base,
		cfg:          cfg,
		tool:         newToolRunner(base, cfg),
	}
}

// Name returns the detector name
func (d *DuplicationDetector) Name() string {
	return "duplication"
}

// IsEnabled returns whether the detector is enabled
func (d *DuplicationDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect runs the analyzer. Per-file granularity: the number of duplicated
// fragments under a file does not change the item count.
func (d *DuplicationDetector) Detect(ctx context.Context) ([]model.DebtItem, error) {
	output, err := d.tool.run(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := parseFileEntries(output)
	if err != nil {
		return nil, &ToolError{Tool: d.cfg.Command, Err: err}
	}

	items := make([]model.DebtItem, 0, len(entries))
	for _, entry := range entries {
		file := d.RelativePath(entry.Path)
		if file == "" {
			continue
		}
		items = append(items, model.NewDebtItem(file, model.TypeDuplicateCode))
	}

	util.Debug("Duplication detector: %d files with duplicated code", len(items))
	return items, nil
}
