package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"bugdesk/internal/blobstore"
	"bugdesk/internal/config"
	"bugdesk/internal/notify"
	"bugdesk/internal/server"
	"bugdesk/internal/store"
)

func newSrvCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "srv",
		Short: "Run the bugdesk API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg == nil {
				return fmt.Errorf("config not initialized")
			}
			if cfg.DBPath == "" {
				return fmt.Errorf("db path is required")
			}

			logger := slog.Default().With("component", "server")

			addr, err := server.ListenAddr(cfg.APIURL)
			if err != nil {
				return err
			}

			logger.Info("opening database", "path", cfg.DBPath)
			st, err := store.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()

			bs, err := blobstore.NewLocalStore(cfg.BlobDir)
			if err != nil {
				return err
			}

			notifier := notify.New(cfg.GitHub.Repo, cfg.GitHub.Token, logger.With("component", "notify"))
			if notifier.Enabled() {
				logger.Info("github notifications enabled", "repo", cfg.GitHub.Repo)
			}

			srv := server.New(addr, st, bs, *cfg, notifier, logger)
			return srv.ListenAndServe()
		},
	}
}
