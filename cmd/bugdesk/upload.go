package main

import (
	"github.com/spf13/cobra"

	"bugdesk/internal/api"
	"bugdesk/internal/config"
)

func newUploadCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file> [<file>...]",
		Short: "Upload files as report attachments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				uploaded, err := client.UploadFiles(cmd.Context(), args)
				if err != nil {
					return err
				}
				if *jsonOutput {
					return writeJSON(api.UploadResponse{Uploaded: uploaded})
				}
				for _, att := range uploaded {
					if err := writePlain("%s\n  %s\n", att.Filename, att.URL); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}
