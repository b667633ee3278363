package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/go-github/v66/github"
	"golang.org/x/oauth2"

	"bugdesk/internal/models"
)

const notifyTimeout = 15 * time.Second

// issueCreator is the slice of the GitHub API the notifier needs.
type issueCreator interface {
	Create(ctx context.Context, owner, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
}

// Service mirrors submitted reports into GitHub issues. Notification is
// best effort: failures are logged and never surfaced to the reporter.
type Service struct {
	owner  string
	repo   string
	issues issueCreator
	logger *slog.Logger
}

// New creates a notifier for the given "owner/name" repository slug. It
// returns a disabled service when repo or token is empty.
func New(repoSlug, token string, logger *slog.Logger) *Service {
	svc := &Service{logger: logger}
	if repoSlug == "" || token == "" {
		return svc
	}

	owner, name, ok := strings.Cut(repoSlug, "/")
	if !ok || owner == "" || name == "" {
		logger.Warn("invalid github repo, notifications disabled", "repo", repoSlug)
		return svc
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))

	svc.owner = owner
	svc.repo = name
	svc.issues = client.Issues
	return svc
}

// Enabled reports whether the service has a configured destination.
func (s *Service) Enabled() bool {
	return s.issues != nil
}

// Notify opens a GitHub issue for the report. Errors are logged, not
// returned; a missed notification must never fail a submission.
func (s *Service) Notify(ctx context.Context, report models.Report) {
	if !s.Enabled() {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
	defer cancel()

	issue := &github.IssueRequest{
		Title:  github.String(issueTitle(report)),
		Body:   github.String(issueBody(report)),
		Labels: &[]string{"bug"},
	}

	created, _, err := s.issues.Create(ctx, s.owner, s.repo, issue)
	if err != nil {
		s.logger.Warn("github issue creation failed", "report", report.ID, "error", err)
		return
	}
	s.logger.Info("github issue created", "report", report.ID, "issue", created.GetHTMLURL())
}

func issueTitle(report models.Report) string {
	return fmt.Sprintf("[BUG] %s", report.Title)
}

func issueBody(report models.Report) string {
	var b strings.Builder

	section := func(heading, text string) {
		if text == "" {
			return
		}
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", heading, text)
	}

	section("Description", report.Description)
	section("Steps to reproduce", report.Steps)
	section("Expected behavior", report.Expected)
	section("Actual behavior", report.Actual)
	section("Reproducibility", report.Reproducibility)
	section("Server info", report.ServerInfo)

	if len(report.Attachments) > 0 {
		b.WriteString("### Attachments\n\n")
		for _, att := range report.Attachments {
			name := att.Filename
			if name == "" {
				name = att.Path
			}
			if att.URL != "" {
				fmt.Fprintf(&b, "- [%s](%s)\n", name, att.URL)
			} else {
				fmt.Fprintf(&b, "- %s\n", name)
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "---\n\nReport ID: `%s`", report.ID)
	if report.Reporter != "" {
		fmt.Fprintf(&b, "\nReporter: %s", report.Reporter)
	}
	return b.String()
}
