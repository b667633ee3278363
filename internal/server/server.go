package server

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"bugdesk/internal/blobstore"
	"bugdesk/internal/config"
	"bugdesk/internal/notify"
	"bugdesk/internal/store"
)

const (
	allowRemoteEnvKey = "BUGDESK_ALLOW_REMOTE"
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server wraps HTTP handlers for the bugdesk API.
type Server struct {
	addr          string
	store         store.ReportStore
	blobs         blobstore.BlobStore
	service       *ReportService
	uploadService *UploadService
	signer        *URLSigner
	logger        *slog.Logger
	maxUploadSize int64
	multipartMem  int64
}

// New creates a new server instance.
func New(addr string, reportStore store.ReportStore, blobs blobstore.BlobStore, cfg config.Config, notifier *notify.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	signer := NewURLSigner(cfg.Uploads.SignSecret, time.Duration(cfg.Uploads.URLTTLHours)*time.Hour, logger)

	return &Server{
		addr:          addr,
		store:         reportStore,
		blobs:         blobs,
		service:       NewReportService(reportStore, notifier, logger),
		uploadService: NewUploadService(blobs, signer, cfg.APIURL),
		signer:        signer,
		logger:        logger,
		maxUploadSize: cfg.Uploads.MaxUploadBytes,
		multipartMem:  cfg.Uploads.MultipartMaxMemory,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	s.log().Info("starting server", "addr", s.addr)
	server := &http.Server{
		Addr:              s.addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return server.ListenAndServe()
}

// ListenAddr converts a base API URL into a listen address.
func ListenAddr(apiURL string) (string, error) {
	if apiURL == "" {
		return "", fmt.Errorf("api url is required")
	}
	if u, err := url.Parse(apiURL); err == nil && u.Host != "" {
		host := u.Hostname()
		if !isAllowedListenHost(host) {
			return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
		}
		return u.Host, nil
	}

	host, _, err := net.SplitHostPort(apiURL)
	if err == nil && !isAllowedListenHost(host) {
		return "", fmt.Errorf("remote listen host %q requires %s=true", host, allowRemoteEnvKey)
	}

	return apiURL, nil
}

func isAllowedListenHost(host string) bool {
	if host == "" {
		return true
	}
	if strings.EqualFold(strings.TrimSpace(os.Getenv(allowRemoteEnvKey)), "true") {
		return true
	}
	if host == "localhost" {
		return true
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

func (s *Server) log() *slog.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return slog.Default()
}
