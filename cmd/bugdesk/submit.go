package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bugdesk/internal/api"
	"bugdesk/internal/config"
	"bugdesk/internal/models"
)

func newSubmitCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		description     string
		steps           string
		expected        string
		actual          string
		reproducibility string
		serverInfo      string
		resources       string
		logs            string
		timestamp       string
		priority        string
		reporter        string
		attachFiles     []string
	)

	cmd := &cobra.Command{
		Use:   "submit <title>",
		Short: "Submit a new bug report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(args[0])
			if title == "" {
				return fmt.Errorf("title must not be empty")
			}

			return withClient(cfg, func(client *api.Client) error {
				req := api.ReportCreateRequest{
					Title:           title,
					Description:     description,
					Steps:           steps,
					Expected:        expected,
					Actual:          actual,
					Reproducibility: reproducibility,
					ServerInfo:      serverInfo,
					Resources:       resources,
					Logs:            logs,
					Timestamp:       timestamp,
					Priority:        priority,
					Reporter:        reporter,
				}

				if len(attachFiles) > 0 {
					uploaded, err := client.UploadFiles(cmd.Context(), attachFiles)
					if err != nil {
						return err
					}
					req.Attachments = api.AttachmentList(uploaded)
				}

				resp, err := client.SubmitReport(cmd.Context(), req)
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

	cmd.Flags().StringVarP(&description, "description", "d", "", "what went wrong")
	cmd.Flags().StringVar(&steps, "steps", "", "steps to reproduce")
	cmd.Flags().StringVar(&expected, "expected", "", "expected behavior")
	cmd.Flags().StringVar(&actual, "actual", "", "actual behavior")
	cmd.Flags().StringVar(&reproducibility, "reproducibility", "", "how often it reproduces")
	cmd.Flags().StringVar(&serverInfo, "server-info", "", "environment details")
	cmd.Flags().StringVar(&resources, "resources", "", "related resources")
	cmd.Flags().StringVar(&logs, "logs", "", "relevant log excerpt")
	cmd.Flags().StringVar(&timestamp, "timestamp", "", "when the bug occurred (RFC 3339)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "priority ("+strings.Join(models.ReportPriorityStrings(), ", ")+")")
	cmd.Flags().StringVar(&reporter, "reporter", "", "who is reporting")
	cmd.Flags().StringSliceVar(&attachFiles, "attach", nil, "file to upload and attach (repeatable)")

	return cmd
}
