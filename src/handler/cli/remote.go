package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tech-debt-manager/src/controller"
	"tech-debt-manager/src/model"
	"tech-debt-manager/src/service/apiclient"
	"tech-debt-manager/src/service/debt"
)

const passwordEnv = "TECH_DEBT_PASSWORD"

func (h *Handler) remoteCmd() *cobra.Command {
	var (
		url         string
		email       string
		password    string
		format      string
		prioritized bool
	)

	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Fetch technical debt from a running server",
		Long:  "Logs in to a running API server, fetches a fresh aggregation and renders it. The password may be given via " + passwordEnv + ".",
		RunE: func(cmd *cobra.Command, args []string) error {
			if url != "" {
				h.cfg.Client.URL = url
			}
			if password == "" {
				password = os.Getenv(passwordEnv)
			}

			client := apiclient.NewClient(h.cfg.Client)
			token, err := client.Login(cmd.Context(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			items, err := client.TechnicalDebts(cmd.Context(), token)
			if err != nil {
				return fmt.Errorf("fetching technical debt: %w", err)
			}
			if prioritized {
				items = debt.Prioritize(items)
			}

			report := &model.AnalysisReport{
				Project:     h.cfg.Client.URL,
				GeneratedAt: time.Now().UTC(),
				Prioritized: prioritized,
				Metrics:     debt.Metrics(items),
				Items:       items,
			}

			h.cfg.Output.Color = h.cfg.Output.Color && isTerminal(cmd)
			output, err := controller.NewReportController(h.cfg).GenerateToString(report, format)
			if err != nil {
				return fmt.Errorf("generating report: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&url, "url", "u", "", "Server URL (overrides client.url)")
	cmd.Flags().StringVarP(&email, "email", "e", "", "Login email (required)")
	cmd.Flags().StringVar(&password, "password", "", "Login password")
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format (json, markdown, sarif, text)")
	cmd.Flags().BoolVarP(&prioritized, "prioritized", "p", false, "Sort items by priority")

	_ = cmd.MarkFlagRequired("email")

	return cmd
}
