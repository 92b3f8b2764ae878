package detector

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/util"
)

// MissingTestDetector flags source files that are not test files.
//
// This is a heuristic: a file counts as a test when its repo-relative path
// contains the configured marker substring. No coverage data is consulted.
type MissingTestDetector struct {
	BaseDetector
	cfg config.MissingTestsConfig
}

// NewMissingTestDetector creates a new missing-test detector
func NewMissingTestDetector(base BaseDetector, cfg config.MissingTestsConfig) *MissingTestDetector {
	return &MissingTestDetector{
		BaseDetector: base,
		cfg:          cfg,
	}
}

// Name returns the detector name
func (d *MissingTestDetector) Name() string {
	return "missing_tests"
}

// IsEnabled returns whether the detector is enabled
func (d *MissingTestDetector) IsEnabled() bool {
	return d.cfg.Enabled
}

// Detect walks the source tree. Enumeration failures wrap ErrProjectRoot.
func (d *MissingTestDetector) Detect(ctx context.Context) ([]model.DebtItem, error) {
	sourceDir := d.SourceDir()
	info, err := os.Stat(sourceDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProjectRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrProjectRoot, d.Cfg.Project.SourceDir)
	}

	marker := d.Cfg.Project.TestMarker
	var items []model.DebtItem
	scanned, excluded := 0, 0

	walkErr := filepath.WalkDir(sourceDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrProjectRoot, err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath := d.RelativePath(path)

		if entry.IsDir() {
			if path != sourceDir && d.Exclusions.Matches(relPath, true) {
				excluded++
				return filepath.SkipDir
			}
			return nil
		}

		if !util.MatchAnyGlob(d.Cfg.Project.Include, entry.Name()) {
			return nil
		}
		if d.Exclusions.Matches(relPath, false) {
			excluded++
			return nil
		}

		scanned++
		if strings.Contains(relPath, marker) {
			return nil
		}

		items = append(items, model.NewDebtItem(relPath, model.TypeMissingTest))
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	util.Debug("Missing-test detector: %d source files scanned, %d paths excluded", scanned, excluded)
	return items, nil
}
