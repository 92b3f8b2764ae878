package report

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/debt"
)

func testReport() *model.AnalysisReport {
	items := []model.DebtItem{
		model.NewDebtItem("app/Models/User.php", model.TypeMissingTest),
		model.NewDebtItem("app/Http/Kernel.php", model.TypeDuplicateCode),
		model.NewDebtItem("app/Models/User.php", model.TypeStaticAnalysisIssue),
	}
	return &model.AnalysisReport{
		Project:     "shop",
		GeneratedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Metrics:     debt.Metrics(items),
		Items:       items,
	}
}

func newTestGenerator() *Generator {
	cfg := config.DefaultConfig()
	cfg.Output.Color = false
	return NewGenerator(cfg.Output, cfg.Agent)
}

func TestGenerate_JSON(t *testing.T) {
	out, err := newTestGenerator().Generate(testReport(), "json")
	require.NoError(t, err)

	var decoded model.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "shop", decoded.Project)
	assert.Equal(t, 3, decoded.Metrics.TotalItems)
	assert.Len(t, decoded.Items, 3)
	assert.Contains(t, out, `"total_items": 3`)
}

func TestGenerate_Markdown(t *testing.T) {
	g := newTestGenerator()

	for _, format := range []string{"markdown", "md"} {
		out, err := g.Generate(testReport(), format)
		require.NoError(t, err)

		assert.Contains(t, out, "# Technical Debt Report")
		assert.Contains(t, out, "**Project:** shop")
		assert.Contains(t, out, "| MissingTest | 1 |")
		assert.Contains(t, out, "| High | 2 |")
		assert.Contains(t, out, "`app/Http/Kernel.php`")
	}
}

func TestGenerate_MarkdownEmpty(t *testing.T) {
	report := &model.AnalysisReport{Metrics: debt.Metrics(nil), Items: []model.DebtItem{}}

	out, err := newTestGenerator().Generate(report, "markdown")
	require.NoError(t, err)
	assert.Contains(t, out, "No technical debt found.")
}

func TestGenerate_SARIF(t *testing.T) {
	out, err := newTestGenerator().Generate(testReport(), "sarif")
	require.NoError(t, err)

	var doc struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID string `json:"ruleId"`
				Level  string `json:"level"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "2.1.0", doc.Version)
	require.Len(t, doc.Runs, 1)
	assert.Equal(t, "tech-debt-manager", doc.Runs[0].Tool.Driver.Name)
	assert.Len(t, doc.Runs[0].Tool.Driver.Rules, 3)
	require.Len(t, doc.Runs[0].Results, 3)
	assert.Equal(t, "error", doc.Runs[0].Results[0].Level)
	assert.Equal(t, "warning", doc.Runs[0].Results[1].Level)
}

func TestGenerate_Text(t *testing.T) {
	out, err := newTestGenerator().Generate(testReport(), "text")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Technical Debt Report: shop\n"))
	assert.Contains(t, out, "Total items: 3 (MissingTest: 1, DuplicateCode: 1, StaticAnalysisIssue: 1)")
	assert.Contains(t, out, "app/Http/Kernel.php")
	assert.Contains(t, out, "DuplicateCode")
	assert.NotContains(t, out, "\x1b[")
}

func TestGenerate_UnsupportedFormat(t *testing.T) {
	_, err := newTestGenerator().Generate(testReport(), "xml")
	assert.Error(t, err)
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "md", Extension("markdown"))
	assert.Equal(t, "md", Extension("md"))
	assert.Equal(t, "txt", Extension("text"))
	assert.Equal(t, "sarif", Extension("sarif"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "app/A.php has no matching test file",
		Describe(model.NewDebtItem("app/A.php", model.TypeMissingTest)))
}
