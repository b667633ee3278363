package main

import (
	"github.com/spf13/cobra"

	"bugdesk/internal/api"
	"bugdesk/internal/config"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		status string
		limit  int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bug reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.ListReports(cmd.Context(), status, limit)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeReportList(resp.Reports)
			})
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "status filter (open, in_progress, resolved)")
	cmd.Flags().IntVar(&limit, "limit", 0, "limit results")

	return cmd
}
