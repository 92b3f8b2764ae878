package controller

import (
	"os"
	"path/filepath"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/report"
	"tech-debt-manager/src/util"
)

// ReportController handles report generation
type ReportController struct {
	cfg *config.Config
}

// NewReportController creates a new report controller
func NewReportController(cfg *config.Config) *ReportController {
	return &ReportController{cfg: cfg}
}

// GenerateReports writes reports in all configured formats to the output directory
func (c *ReportController) GenerateReports(analysisReport *model.AnalysisReport) ([]string, error) {
	util.Debug("Generating reports for %d formats: %v", len(c.cfg.Output.Formats), c.cfg.Output.Formats)
	reportGenerator := report.NewGenerator(c.noColorOutput(), c.cfg.Agent)
	var outputPaths []string

	for _, format := range c.cfg.Output.Formats {
		util.Debug("Generating %s report", format)
		output, err := reportGenerator.Generate(analysisReport, format)
		if err != nil {
			util.Error("Failed to generate %s report: %v", format, err)
			return nil, err
		}

		outputPath := c.getOutputPath(analysisReport.Project, format)

		if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
			util.Error("Failed to create output directory: %v", err)
			return nil, err
		}

		if err := os.WriteFile(outputPath, []byte(output), 0644); err != nil {
			util.Error("Failed to write report to %s: %v", outputPath, err)
			return nil, err
		}

		util.Info("Report written: %s", outputPath)
		outputPaths = append(outputPaths, outputPath)
	}

	return outputPaths, nil
}

// GenerateToString generates a report to a string
func (c *ReportController) GenerateToString(analysisReport *model.AnalysisReport, format string) (string, error) {
	reportGenerator := report.NewGenerator(c.cfg.Output, c.cfg.Agent)
	return reportGenerator.Generate(analysisReport, format)
}

// files never carry terminal escapes
func (c *ReportController) noColorOutput() config.OutputConfig {
	out := c.cfg.Output
	out.Color = false
	return out
}

func (c *ReportController) getOutputPath(project, format string) string {
	if project == "" {
		project = "project"
	}
	filename := project + "-debt-report." + report.Extension(format)
	return filepath.Join(c.cfg.Output.OutputDir, filename)
}
