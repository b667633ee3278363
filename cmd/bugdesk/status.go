package main

import (
	"strings"

	"github.com/spf13/cobra"

	"bugdesk/internal/api"
	"bugdesk/internal/config"
	"bugdesk/internal/models"
)

func newStatusCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <id> <status>",
		Short: "Change a report's status (" + strings.Join(models.ReportStatusStrings(), ", ") + ")",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				resp, err := client.UpdateStatus(cmd.Context(), args[0], args[1])
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(resp)
				}
				return writeReportDetail(resp.Report)
			})
		},
	}

	return cmd
}
