package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/handler/api"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/auth"
	"tech-debt-manager/src/service/detector"
)

const testConfig = `
project:
  name: shop
detectors:
  duplication:
    enabled: false
  static_analysis:
    enabled: false
logging:
  level: error
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newProject(t *testing.T, files ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte("<?php\n"), 0644))
	}
	return root
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	h := New()
	var stdout, stderr bytes.Buffer
	h.rootCmd.SetOut(&stdout)
	h.rootCmd.SetErr(&stderr)
	h.rootCmd.SetArgs(args)
	err := h.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version", "-c", writeConfig(t, testConfig))
	require.NoError(t, err)
	assert.Equal(t, "tech-debt-manager 1.0.0\n", out)
}

func TestDetectors(t *testing.T) {
	out, _, err := execute(t, "detectors", "-c", writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Contains(t, out, "missing_tests")
	assert.Contains(t, out, "[enabled]")
	assert.Contains(t, out, "[disabled]")
	assert.Less(t, strings.Index(out, "missing_tests"), strings.Index(out, "duplication"))
	assert.Less(t, strings.Index(out, "duplication"), strings.Index(out, "static_analysis"))
}

func TestHashPassword(t *testing.T) {
	out, _, err := execute(t, "hash-password", "-c", writeConfig(t, testConfig), "s3cret")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")))
}

func TestHashPassword_RequiresArgument(t *testing.T) {
	_, _, err := execute(t, "hash-password", "-c", writeConfig(t, testConfig))
	assert.Error(t, err)
}

func TestAnalyze_JSONToStdout(t *testing.T) {
	root := newProject(t, "app/Foo.php", "app/FooTest.php")

	out, summary, err := execute(t, "analyze", "-c", writeConfig(t, testConfig), "-r", root, "-f", "json")
	require.NoError(t, err)

	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, "shop", report.Project)
	assert.Equal(t, []model.DebtItem{model.NewDebtItem("app/Foo.php", model.TypeMissingTest)}, report.Items)
	assert.Contains(t, summary, "Total items: 1")
}

func TestAnalyze_WritesReportFiles(t *testing.T) {
	root := newProject(t, "app/Foo.php")
	outDir := t.TempDir()

	out, _, err := execute(t, "analyze", "-c", writeConfig(t, testConfig), "-r", root, "-o", outDir, "-f", "markdown")
	require.NoError(t, err)

	path := filepath.Join(outDir, "shop-debt-report.md")
	assert.Contains(t, out, path)
	assert.FileExists(t, path)
}

func TestAnalyze_BadRootFails(t *testing.T) {
	_, _, err := execute(t, "analyze", "-c", writeConfig(t, testConfig), "-r", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, detector.ErrProjectRoot)
}

func TestAnalyze_TimeoutFails(t *testing.T) {
	root := newProject(t, "app/Foo.php")

	out, _, err := execute(t, "analyze", "-c", writeConfig(t, testConfig), "-r", root, "-t", "1ns")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Empty(t, out)
}

func TestInvalidConfig(t *testing.T) {
	_, _, err := execute(t, "version", "-c", writeConfig(t, "output:\n  formats: [xml]\n"))
	assert.ErrorContains(t, err, "invalid configuration")
}

type staticCollector []model.DebtItem

func (s staticCollector) CollectDebts(context.Context) ([]model.DebtItem, error) {
	return s, nil
}

func TestRemote(t *testing.T) {
	gin.SetMode(gin.TestMode)
	hash, err := auth.HashPasswordWithCost("secret", bcrypt.MinCost)
	require.NoError(t, err)

	authSvc := auth.NewService(config.AuthConfig{Users: []config.UserConfig{
		{Name: "Dev", Email: "dev@example.com", PasswordHash: hash},
	}})
	collector := staticCollector{
		model.NewDebtItem("app/Foo.php", model.TypeDuplicateCode),
		model.NewDebtItem("app/Bar.php", model.TypeMissingTest),
	}
	serverCfg := config.DefaultConfig().Server
	serverCfg.Mode = gin.TestMode
	srv := httptest.NewServer(api.NewServer(serverCfg, collector, authSvc, nil).Handler())
	defer srv.Close()

	cfgPath := writeConfig(t, testConfig)

	out, _, err := execute(t, "remote", "-c", cfgPath, "-u", srv.URL, "-e", "dev@example.com", "--password", "secret", "-f", "json", "-p")
	require.NoError(t, err)

	var report model.AnalysisReport
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.True(t, report.Prioritized)
	assert.Equal(t, "app/Bar.php", report.Items[0].File)
	assert.Equal(t, 2, report.Metrics.TotalItems)

	t.Setenv(passwordEnv, "wrong")
	_, _, err = execute(t, "remote", "-c", cfgPath, "-u", srv.URL, "-e", "dev@example.com")
	assert.ErrorContains(t, err, fmt.Sprintf("status %d", 401))
}
