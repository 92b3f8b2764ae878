package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"tech-debt-manager/src/controller"
	"tech-debt-manager/src/service/auth"
)

var detectorDescriptions = map[string]string{
	"missing_tests":   "Source files without a matching test file",
	"duplication":     "Files taking part in a code duplication (phpcpd)",
	"static_analysis": "Static analyzer diagnostics (phpstan)",
}

func (h *Handler) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", h.cfg.Agent.Name, h.cfg.Agent.Version)
		},
	}
}

func (h *Handler) detectorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detectors",
		Short: "List detectors in run order",
		Run: func(cmd *cobra.Command, args []string) {
			w := cmd.OutOrStdout()
			fmt.Fprintln(w, "Detectors (run order):")
			for _, d := range controller.NewAnalysisController(h.cfg, nil).Detectors() {
				status := "disabled"
				if d.IsEnabled() {
					status = "enabled"
				}
				fmt.Fprintf(w, "  - %-16s [%s] %s\n", d.Name(), status, detectorDescriptions[d.Name()])
			}
		},
	}
}

func (h *Handler) hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print a bcrypt hash for auth.users[].password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
