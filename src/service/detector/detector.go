package detector

import (
	"context"
	"errors"
	"path/filepath"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/util"
)

// ErrProjectRoot marks a misconfigured project root. It is the only detector
// failure that aborts an aggregation.
var ErrProjectRoot = errors.New("project root is not readable")

// Detector is the interface for all debt detectors
type Detector interface {
	// Name returns the detector name
	Name() string

	// IsEnabled returns whether the detector is enabled
	IsEnabled() bool

	// Detect runs the detection and returns found items in emission order
	Detect(ctx context.Context) ([]model.DebtItem, error)
}

// BaseDetector provides common functionality for detectors
type BaseDetector struct {
	Cfg        *config.Config
	Root       string // absolute project root
	Exclusions *util.PathMatcher
}

// NewBaseDetector creates a new base detector rooted at the configured project root
func NewBaseDetector(cfg *config.Config) BaseDetector {
	root := cfg.Project.Root
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}

	return BaseDetector{
		Cfg:        cfg,
		Root:       root,
		Exclusions: util.NewPathMatcher(root, cfg.Project.Exclude, cfg.Project.Gitignore),
	}
}

// SourceDir returns the absolute path of the scanned source directory
func (b *BaseDetector) SourceDir() string {
	return filepath.Join(b.Root, b.Cfg.Project.SourceDir)
}

// RelativePath converts a path to the repo-relative form used in debt items
func (b *BaseDetector) RelativePath(path string) string {
	return util.RelativePath(b.Root, path)
}
