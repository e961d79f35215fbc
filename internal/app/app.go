package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/glabrego/subtriage/internal/report"
	"github.com/glabrego/subtriage/internal/subscription"
	"github.com/glabrego/subtriage/internal/youtube"
)

const (
	ExportFileName  = "curated_subscriptions.json"
	DefaultMaxPages = 200
)

type YouTubeClient interface {
	ListSubscriptions(ctx context.Context, pageToken string) (youtube.Page, error)
	DeleteSubscription(ctx context.Context, subscriptionID string) error
	InsertSubscription(ctx context.Context, channelID string) (string, error)
}

type Repository interface {
	SaveSnapshot(ctx context.Context, records []subscription.Record) error
	LoadSnapshot(ctx context.Context) ([]subscription.Record, error)
}

// SyncResult describes what the remote side did for one classification.
type SyncResult struct {
	// SubscriptionID is set when a keep created a new subscription.
	SubscriptionID string
	// Removed is set when the record is no longer a live subscription.
	Removed bool
}

type Service struct {
	client   YouTubeClient
	repo     Repository
	logger   *zap.Logger
	maxPages int
}

type Option func(*Service)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMaxPages(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPages = n
		}
	}
}

// NewService wires the service. client and repo may be nil when remote mode
// or snapshots are not available.
func NewService(client YouTubeClient, repo Repository, opts ...Option) *Service {
	s := &Service{
		client:   client,
		repo:     repo,
		logger:   zap.NewNop(),
		maxPages: DefaultMaxPages,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) RemoteAvailable() bool {
	return s.client != nil
}

func (s *Service) ImportText(path string) ([]subscription.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open text import: %w", err)
	}
	defer f.Close()

	records, err := subscription.ExtractReader(f)
	if err != nil {
		return nil, fmt.Errorf("extract records from %s: %w", path, err)
	}
	s.logger.Info("imported text", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

func (s *Service) ImportJSON(path string) ([]subscription.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open json import: %w", err)
	}
	defer f.Close()

	records, err := subscription.ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("read records from %s: %w", path, err)
	}
	s.logger.Info("imported json", zap.String("path", path), zap.Int("records", len(records)))
	return records, nil
}

func (s *Service) ImportSnapshot(ctx context.Context) ([]subscription.Record, error) {
	if s.repo == nil {
		return nil, errors.New("no snapshot store configured")
	}
	records, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if err := subscription.Validate(records); err != nil {
		return nil, fmt.Errorf("validate snapshot: %w", err)
	}
	return records, nil
}

// FetchRemote walks every subscription page in order and concatenates them.
// When the page budget runs out the records collected so far are returned.
func (s *Service) FetchRemote(ctx context.Context) ([]subscription.Record, error) {
	if s.client == nil {
		return nil, errors.New("remote client is not configured")
	}

	pager := youtube.NewPager(s.client, s.maxPages)
	records := make([]subscription.Record, 0)
	for {
		page, ok, err := pager.Next(ctx)
		if err != nil {
			s.logger.Error("list subscriptions failed", zap.Int("page", pager.Pages()+1), zap.Error(err))
			return nil, fmt.Errorf("fetch subscriptions from youtube: %w", err)
		}
		if !ok {
			break
		}
		records = append(records, page.Records...)
	}

	if pager.Truncated() {
		s.logger.Warn("subscription listing truncated",
			zap.Int("pages", pager.Pages()),
			zap.Int("max_pages", s.maxPages),
			zap.Int("records", len(records)),
		)
	}
	s.logger.Info("fetched subscriptions", zap.Int("pages", pager.Pages()), zap.Int("records", len(records)))
	return records, nil
}

// Sync applies the remote side of classifying rec as status. Toss and archive
// delete a live subscription; keep subscribes when the record has none. The
// caller must leave local state untouched when an error is returned.
func (s *Service) Sync(ctx context.Context, rec subscription.Record, status subscription.Status) (SyncResult, error) {
	if s.client == nil {
		return SyncResult{}, errors.New("remote client is not configured")
	}

	switch {
	case status.Removes():
		if rec.Subscribed() {
			if err := s.client.DeleteSubscription(ctx, rec.SubscriptionID); err != nil {
				s.logger.Error("unsubscribe failed",
					zap.String("channel_id", rec.ID),
					zap.String("subscription_id", rec.SubscriptionID),
					zap.Error(err),
				)
				return SyncResult{}, fmt.Errorf("unsubscribe from %s: %w", rec.Name, err)
			}
			s.logger.Info("unsubscribed", zap.String("channel_id", rec.ID), zap.String("status", status.String()))
		}
		return SyncResult{Removed: true}, nil
	case status == subscription.StatusKeep && !rec.Subscribed():
		id, err := s.client.InsertSubscription(ctx, rec.ID)
		if err != nil {
			s.logger.Error("subscribe failed", zap.String("channel_id", rec.ID), zap.Error(err))
			return SyncResult{}, fmt.Errorf("subscribe to %s: %w", rec.Name, err)
		}
		s.logger.Info("subscribed", zap.String("channel_id", rec.ID), zap.String("subscription_id", id))
		return SyncResult{SubscriptionID: id}, nil
	}
	return SyncResult{}, nil
}

// ExportJSON returns the pretty-printed export document.
func (s *Service) ExportJSON(records []subscription.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := subscription.WriteJSON(&buf, records); err != nil {
		return nil, fmt.Errorf("encode export: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteExport writes curated_subscriptions.json into dir and, when a store is
// configured, saves the same list as the latest snapshot.
func (s *Service) WriteExport(ctx context.Context, dir string, records []subscription.Record) (string, error) {
	data, err := s.ExportJSON(records)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, ExportFileName)
	if err := writeFileAtomic(path, data); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}

	if s.repo != nil {
		if err := s.repo.SaveSnapshot(ctx, records); err != nil {
			return path, fmt.Errorf("save snapshot: %w", err)
		}
	}
	s.logger.Info("exported subscriptions", zap.String("path", path), zap.Int("records", len(records)))
	return path, nil
}

// WriteArchivePDF writes the archived-channel document into dir. It returns
// report.ErrNothingArchived, and creates no file, when nothing is archived.
func (s *Service) WriteArchivePDF(dir string, records []subscription.Record, now time.Time) (string, error) {
	if len(report.Archived(records)) == 0 {
		return "", report.ErrNothingArchived
	}

	var buf bytes.Buffer
	if err := report.WriteArchivePDF(&buf, records, now); err != nil {
		return "", fmt.Errorf("render archive pdf: %w", err)
	}
	path := filepath.Join(dir, report.DefaultFileName)
	if err := writeFileAtomic(path, buf.Bytes()); err != nil {
		return "", fmt.Errorf("write archive pdf: %w", err)
	}
	s.logger.Info("wrote archive pdf", zap.String("path", path), zap.Int("archived", len(report.Archived(records))))
	return path, nil
}
