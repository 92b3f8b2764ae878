package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tech-debt-manager/src/config"
	"tech-debt-manager/src/util"
)

// Handler handles CLI commands
type Handler struct {
	cfg        *config.Config
	configPath string
	rootPath   string
	rootCmd    *cobra.Command
}

// New creates a new CLI handler
func New() *Handler {
	h := &Handler{}
	h.setupCommands()
	return h
}

func (h *Handler) setupCommands() {
	h.rootCmd = &cobra.Command{
		Use:           "tech-debt-manager",
		Short:         "Technical debt collection service",
		Long:          "Collects missing tests, duplicate code and static-analysis issues from a codebase and serves them over an authenticated API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return h.loadConfig()
		},
	}

	// Global flags
	h.rootCmd.PersistentFlags().StringVarP(&h.configPath, "config", "c", "",
		"Path to configuration file")
	h.rootCmd.PersistentFlags().StringVarP(&h.rootPath, "root", "r", "",
		"Project root to scan (overrides project.root)")

	h.rootCmd.AddCommand(h.analyzeCmd())
	h.rootCmd.AddCommand(h.serveCmd())
	h.rootCmd.AddCommand(h.remoteCmd())
	h.rootCmd.AddCommand(h.detectorsCmd())
	h.rootCmd.AddCommand(h.hashPasswordCmd())
	h.rootCmd.AddCommand(h.versionCmd())
}

func (h *Handler) loadConfig() error {
	loader := config.NewLoader()
	cfg, err := loader.Load(h.configPath)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if h.rootPath != "" {
		cfg.Project.Root = h.rootPath
	}
	h.cfg = cfg

	util.SetDefaultLogger(cfg.Logging)
	util.Debug("Configuration loaded successfully")
	util.Debug("Log level set to: %s", cfg.Logging.Level)
	util.Debug("Project root: %s", cfg.Project.Root)

	return nil
}

// Execute runs the CLI
func (h *Handler) Execute() error {
	return h.rootCmd.Execute()
}

// Run is the main entry point
func Run() {
	handler := New()
	if err := handler.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
