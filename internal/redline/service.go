// Package redline is the service layer tying the backend client, session
// controller, and correlation engine together for the commands.
package redline

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/inkshed/redline/internal/client"
	"github.com/inkshed/redline/internal/core/config"
	"github.com/inkshed/redline/internal/core/correlate"
	"github.com/inkshed/redline/internal/core/document"
	"github.com/inkshed/redline/internal/core/logging"
	"github.com/inkshed/redline/internal/core/review"
	"github.com/inkshed/redline/internal/core/session"
)

// ErrSettingsIncomplete is returned when a session is requested without all
// four settings configured.
var ErrSettingsIncomplete = errors.New("settings incomplete: api key, base url, model name, and backend url are required (run `redline init`)")

// Service orchestrates review operations.
type Service struct {
	cfg      *config.Config
	client   *client.Client
	sessions *session.Controller
	log      zerolog.Logger
}

// NewService wires a service from loaded configuration.
func NewService(cfg *config.Config) *Service {
	c := client.New(cfg.Settings.BackendURL, nil)
	return &Service{
		cfg:      cfg,
		client:   c,
		sessions: session.NewController(c),
		log:      logging.Component("redline"),
	}
}

// Config returns the loaded configuration.
func (s *Service) Config() *config.Config { return s.cfg }

// Sessions returns the session controller for subscription and state reads.
func (s *Service) Sessions() *session.Controller { return s.sessions }

// Client returns the backend client.
func (s *Service) Client() *client.Client { return s.client }

func (s *Service) credentials() client.Credentials {
	return client.Credentials{
		APIKey:    s.cfg.Settings.APIKey,
		BaseURL:   s.cfg.Settings.BaseURL,
		ModelName: s.cfg.Settings.ModelName,
	}
}

// StartReview begins a streaming paragraph review session.
func (s *Service) StartReview(ctx context.Context, paragraphs []document.Paragraph) (*session.Handle, error) {
	if !s.cfg.Settings.Complete() {
		return nil, ErrSettingsIncomplete
	}
	ctx = logging.WithSessionKind(ctx, string(session.KindReview))
	return s.sessions.Start(ctx, session.KindReview, s.credentials(), paragraphs), nil
}

// StartOverallComment begins a streaming overall-comment session.
func (s *Service) StartOverallComment(ctx context.Context, paragraphs []document.Paragraph) (*session.Handle, error) {
	if !s.cfg.Settings.Complete() {
		return nil, ErrSettingsIncomplete
	}
	ctx = logging.WithSessionKind(ctx, string(session.KindOverall))
	return s.sessions.Start(ctx, session.KindOverall, s.credentials(), paragraphs), nil
}

// Review runs a full review without streaming.
func (s *Service) Review(ctx context.Context, paragraphs []document.Paragraph) (*review.Result, error) {
	if !s.cfg.Settings.Complete() {
		return nil, ErrSettingsIncomplete
	}
	return s.client.Review(ctx, s.credentials(), paragraphs)
}

// Check verifies backend reachability and credential validity.
func (s *Service) Check(ctx context.Context) (*client.HealthStatus, error) {
	return s.client.Health(ctx, s.credentials())
}

// Annotate applies review comments into the document host and returns the
// hit and miss counts.
func (s *Service) Annotate(ctx context.Context, host document.Host, comments []review.Comment) correlate.BatchResult {
	engine := correlate.NewEngine(host)
	res := engine.AnnotateAll(ctx, comments)
	s.log.Info().Int("success", res.Success).Int("failed", res.Failed).Msg("annotated document")
	return res
}

// ExportReview downloads the review report for a finished session to path.
func (s *Service) ExportReview(ctx context.Context, result review.Result, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	req := client.ExportRequest{Comments: result.Comments, Summary: result.Summary, DocumentTitle: title}
	if err := s.client.ExportReview(ctx, req, f); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Int("comments", len(result.Comments)).Msg("exported review report")
	return nil
}

// ExportComment downloads the overall-comment report to path.
func (s *Service) ExportComment(ctx context.Context, commentText, title, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer func() { _ = f.Close() }()

	req := client.CommentExportRequest{CommentText: commentText, DocumentTitle: title}
	if err := s.client.ExportComment(ctx, req, f); err != nil {
		return err
	}
	s.log.Info().Str("path", path).Msg("exported overall comment")
	return nil
}
