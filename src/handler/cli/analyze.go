package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"tech-debt-manager/src/controller"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/debt"
	"tech-debt-manager/src/util"
)

func (h *Handler) analyzeCmd() *cobra.Command {
	var (
		outputDir   string
		format      string
		prioritized bool
		timeout     time.Duration
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Collect technical debt for the project",
		Long:  "Runs all enabled detectors against the project root and prints or writes a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			util.Info("Analyzing %s (timeout: %v)", h.cfg.Project.Root, timeout)

			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()

			analysisCtrl := controller.NewAnalysisController(h.cfg, nil)
			report, err := analysisCtrl.Analyze(ctx, controller.AnalyzeRequest{
				Prioritized: prioritized || h.cfg.Output.Prioritized,
			})
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}

			h.cfg.Output.Color = h.cfg.Output.Color && isTerminal(cmd)
			reportCtrl := controller.NewReportController(h.cfg)
			if outputDir != "" {
				h.cfg.Output.OutputDir = outputDir
				if format != "" {
					h.cfg.Output.Formats = []string{format}
				}

				paths, err := reportCtrl.GenerateReports(report)
				if err != nil {
					return fmt.Errorf("generating reports: %w", err)
				}
				for _, path := range paths {
					fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
				}
			} else {
				outputFormat := format
				if outputFormat == "" && len(h.cfg.Output.Formats) > 0 {
					outputFormat = h.cfg.Output.Formats[0]
				}
				if outputFormat == "" {
					outputFormat = "json"
				}

				output, err := reportCtrl.GenerateToString(report, outputFormat)
				if err != nil {
					return fmt.Errorf("generating report: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), output)
			}

			printSummary(cmd, report)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory path")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format (json, markdown, sarif, text)")
	cmd.Flags().BoolVarP(&prioritized, "prioritized", "p", false, "Sort items by priority")
	cmd.Flags().DurationVarP(&timeout, "timeout", "t", 15*time.Minute, "Overall analysis timeout; the command fails when it expires")

	return cmd
}

func printSummary(cmd *cobra.Command, report *model.AnalysisReport) {
	w := cmd.ErrOrStderr()
	byPriority := debt.CountByPriority(report.Items)

	fmt.Fprintf(w, "\nAnalysis complete:\n")
	fmt.Fprintf(w, "  Total items: %d\n", report.Metrics.TotalItems)
	for _, t := range model.DebtTypes {
		fmt.Fprintf(w, "  %-20s %d\n", t+":", report.Metrics.ByType[t])
	}
	fmt.Fprintf(w, "  High priority: %d\n", byPriority[model.PriorityHigh])
}

// isTerminal reports whether the command writes to an interactive terminal
func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
