package detector

import (
	"context"
	"encoding/json"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/util"
)

// StaticAnalysisDetector runs an external static analyzer (phpstan by default)
// and reports one item per diagnostic
type StaticAnalysisDetector struct {
	BaseDetector
	cfg  config.ToolConfig
	tool toolRunner
}

// NewStaticAnalysisDetector creates a new static-analysis detector
func NewStaticAnalysisDetector(base BaseDetector, cfg config.ToolConfig) *StaticAnalysisDetector {
	return &StaticAnalysisDetector{
		BaseDetector: base,
		cfg:          cfg,
		tool:         newToolRunner(base, cfg),
	}
}

// Name returns the detector name
func (d *StaticAnalysisDetector) Name() string {
	return "static_analysis"
}

// IsEnabled returns whether the detector is enabled
func (d *StaticAnalysisDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect runs the analyzer and emits one item per reported issue
func (d *StaticAnalysisDetector) Detect(ctx context.Context) ([]model.DebtItem, error) {
	output, err := d.tool.run(ctx)
	if err != nil {
		return nil, err
	}

	entries, err := parseFileEntries(output)
	if err != nil {
		return nil, &ToolError{Tool: d.cfg.Command, Err: err}
	}

	var items []model.DebtItem
	for _, entry := range entries {
		file := d.RelativePath(entry.Path)
		if file == "" {
			continue
		}
		for range countIssues(entry.Payload) {
			items = append(items, model.NewDebtItem(file, model.TypeStaticAnalysisIssue))
		}
	}

	util.Debug("Static analysis detector: %d issues across %d files", len(items), len(entries))
	return items, nil
}

// countIssues counts the diagnostics listed for one file. A list counts one per
// element. phpstan's {"errors": n, "messages": [...]} object counts one per message;
// any other object counts one per value. Scalars count nothing.
func countIssues(payload json.RawMessage) int {
	var issues []json.RawMessage
	if err := json.Unmarshal(payload, &issues); err == nil {
		return len(issues)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(payload, &fields); err != nil {
		return 0
	}
	if raw, ok := fields["messages"]; ok {
		var messages []json.RawMessage
		if err := json.Unmarshal(raw, &messages); err == nil {
			return len(messages)
		}
	}
	return len(fields)
}
