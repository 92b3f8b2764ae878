package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/debt"
	"tech-debt-manager/src/util"
)

var priorities = []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow}

// Generator generates reports in various formats
type Generator struct {
	cfg   config.OutputConfig
	agent config.AgentConfig
}

// NewGenerator creates a new report generator
func NewGenerator(cfg config.OutputConfig, agent config.AgentConfig) *Generator {
	return &Generator{cfg: cfg, agent: agent}
}

// Extension returns the file extension used for a report format
func Extension(format string) string {
	switch format {
	case "markdown":
		return "md"
	case "text":
		return "txt"
	default:
		return format
	}
}

// Generate generates a report in the specified format
func (g *Generator) Generate(report *model.AnalysisReport, format string) (string, error) {
	util.Debug("Generating report in %s format (%d items)", format, len(report.Items))
	switch format {
	case "json":
		return g.generateJSON(report)
	case "markdown", "md":
		return g.generateMarkdown(report), nil
	case "sarif":
		return g.generateSARIF(report)
	case "text":
		var sb strings.Builder
		if err := g.RenderText(&sb, report, g.cfg.Color); err != nil {
			return "", err
		}
		return sb.String(), nil
	default:
		util.Warn("Unsupported report format requested: %s", format)
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func (g *Generator) generateJSON(report *model.AnalysisReport) (string, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) generateMarkdown(report *model.AnalysisReport) string {
	var sb strings.Builder

	sb.WriteString("# Technical Debt Report\n\n")
	if report.Project != "" {
		sb.WriteString(fmt.Sprintf("**Project:** %s\n", report.Project))
	}
	sb.WriteString(fmt.Sprintf("**Generated:** %s\n\n", report.GeneratedAt.Format("2006-01-02 15:04:05 UTC")))

	sb.WriteString("## Summary\n\n")
	sb.WriteString(fmt.Sprintf("- **Total Items:** %d\n\n", report.Metrics.TotalItems))

	sb.WriteString("### Items by Type\n\n")
	sb.WriteString("| Type | Count |\n")
	sb.WriteString("|------|-------|\n")
	for _, t := range model.DebtTypes {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", t, report.Metrics.ByType[t]))
	}
	sb.WriteString("\n")

	byPriority := debt.CountByPriority(report.Items)
	sb.WriteString("### Items by Priority\n\n")
	sb.WriteString("| Priority | Count |\n")
	sb.WriteString("|----------|-------|\n")
	for _, p := range priorities {
		sb.WriteString(fmt.Sprintf("| %s | %d |\n", p, byPriority[p]))
	}
	sb.WriteString("\n")

	sb.WriteString("## Items\n\n")
	if len(report.Items) == 0 {
		sb.WriteString("No technical debt found.\n")
		return sb.String()
	}

	sb.WriteString("| Priority | Type | File |\n")
	sb.WriteString("|----------|------|------|\n")
	for _, item := range report.Items {
		sb.WriteString(fmt.Sprintf("| %s %s | %s | `%s` |\n", priorityTag(item.Priority), item.Priority, item.Type, item.File))
	}

	return sb.String()
}

// RenderText writes a plain-text table of the report
func (g *Generator) RenderText(w io.Writer, report *model.AnalysisReport, colored bool) error {
	title := "Technical Debt Report"
	if report.Project != "" {
		title += ": " + report.Project
	}
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat("=", len(title)))
	fmt.Fprintln(w)

	summary := make([]string, 0, len(model.DebtTypes))
	for _, t := range model.DebtTypes {
		summary = append(summary, fmt.Sprintf("%s: %d", t, report.Metrics.ByType[t]))
	}
	fmt.Fprintf(w, "Total items: %d (%s)\n\n", report.Metrics.TotalItems, strings.Join(summary, ", "))

	if len(report.Items) == 0 {
		fmt.Fprintln(w, "No technical debt found.")
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header("Priority", "Type", "File")
	for _, item := range report.Items {
		priority := string(item.Priority)
		if colored {
			priority = priorityColor(item.Priority, priority)
		}
		if err := table.Append(priority, string(item.Type), item.File); err != nil {
			return fmt.Errorf("rendering table: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	fmt.Fprintln(w)
	return nil
}

func (g *Generator) generateSARIF(report *model.AnalysisReport) (string, error) {
	sarif := map[string]any{
		"$schema": "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json",
		"version": "2.1.0",
		"runs": []map[string]any{
			{
				"tool": map[string]any{
					"driver": map[string]any{
						"name":    g.agent.Name,
						"version": g.agent.Version,
						"rules":   g.buildSARIFRules(report.Items),
					},
				},
				"results": g.buildSARIFResults(report.Items),
			},
		},
	}

	data, err := json.MarshalIndent(sarif, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (g *Generator) buildSARIFRules(items []model.DebtItem) []map[string]any {
	seen := make(map[model.DebtType]bool)
	rules := []map[string]any{}

	for _, item := range items {
		if seen[item.Type] {
			continue
		}
		seen[item.Type] = true

		rules = append(rules, map[string]any{
			"id":   string(item.Type),
			"name": string(item.Type),
			"shortDescription": map[string]any{
				"text": ruleDescription(item.Type),
			},
			"defaultConfiguration": map[string]any{
				"level": sarifLevel(item.Priority),
			},
		})
	}

	return rules
}

func (g *Generator) buildSARIFResults(items []model.DebtItem) []map[string]any {
	results := make([]map[string]any, 0, len(items))

	for _, item := range items {
		results = append(results, map[string]any{
			"ruleId":  string(item.Type),
			"level":   sarifLevel(item.Priority),
			"message": map[string]any{"text": Describe(item)},
			"locations": []map[string]any{
				{
					"physicalLocation": map[string]any{
						"artifactLocation": map[string]any{
							"uri": item.File,
						},
					},
				},
			},
		})
	}

	return results
}

// Describe returns a one-line human description of an item
func Describe(item model.DebtItem) string {
	switch item.Type {
	case model.TypeMissingTest:
		return fmt.Sprintf("%s has no matching test file", item.File)
	case model.TypeDuplicateCode:
		return fmt.Sprintf("%s contains duplicated code", item.File)
	case model.TypeStaticAnalysisIssue:
		return fmt.Sprintf("Static analysis issue in %s", item.File)
	default:
		return fmt.Sprintf("%s in %s", item.Type, item.File)
	}
}

func ruleDescription(t model.DebtType) string {
	switch t {
	case model.TypeMissingTest:
		return "Source file without a test file"
	case model.TypeDuplicateCode:
		return "File takes part in a code duplication"
	case model.TypeStaticAnalysisIssue:
		return "Diagnostic reported by the static analyzer"
	default:
		return string(t)
	}
}

func priorityTag(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "[HIGH]"
	case model.PriorityMedium:
		return "[MEDIUM]"
	default:
		return "[LOW]"
	}
}

func priorityColor(p model.Priority, text string) string {
	switch p {
	case model.PriorityHigh:
		return color.RedString(text)
	case model.PriorityMedium:
		return color.YellowString(text)
	default:
		return color.GreenString(text)
	}
}

func sarifLevel(p model.Priority) string {
	switch p {
	case model.PriorityHigh:
		return "error"
	case model.PriorityMedium:
		return "warning"
	default:
		return "note"
	}
}
