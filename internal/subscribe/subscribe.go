// ABOUTME: Subscription orchestrator tying the data loader, feed parser, and podcast store together
// ABOUTME: Maps loader, parser, and store failures onto a small caller-facing error set

package subscribe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/opml"
	"github.com/harper/podfeed/internal/parse"
	"github.com/harper/podfeed/internal/storage"
)

// Caller-facing failures. The underlying cause is attached as text only.
var (
	ErrInvalidURL            = errors.New("invalid feed URL")
	ErrDuplicateSubscription = errors.New("already subscribed")
	ErrDataLoadFailed        = errors.New("failed to load feed")
	ErrParseFailed           = errors.New("failed to parse feed")
)

// Loader fetches the raw bytes behind a URL.
type Loader interface {
	Load(ctx context.Context, url string) ([]byte, error)
}

// Service subscribes to podcasts and keeps stored subscriptions current.
type Service struct {
	loader Loader
	store  storage.Store
	logger *log.Logger
	sink   models.WarningSink
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for warnings and progress.
func WithLogger(l *log.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithWarningSink forwards parse warnings to sink in addition to the logger.
// The sink may be called from several goroutines during Import.
func WithWarningSink(sink models.WarningSink) Option {
	return func(s *Service) { s.sink = sink }
}

// WithClock overrides the time source used for DateAdded.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service over loader and store.
func NewService(loader Loader, store storage.Store, opts ...Option) *Service {
	s := &Service{
		loader: loader,
		store:  store,
		logger: log.New(io.Discard),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// With returns a copy of the service with opts applied. The copy shares the
// loader and store.
func (s *Service) With(opts ...Option) *Service {
	c := *s
	for _, opt := range opts {
		opt(&c)
	}
	return &c
}

// ValidateURL checks that raw is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// Subscribe loads and parses the feed at feedURL, marks it subscribed and
// stores it. No retries are attempted.
func (s *Service) Subscribe(ctx context.Context, feedURL string) (*models.Podcast, error) {
	if err := ValidateURL(feedURL); err != nil {
		return nil, err
	}

	if _, err := s.store.GetPodcast(feedURL); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateSubscription, feedURL)
	} else if !errors.Is(err, storage.ErrNotFound) {
		return nil, fmt.Errorf("check existing subscription: %w", err)
	}

	podcast, err := s.fetch(ctx, feedURL, nil)
	if err != nil {
		return nil, err
	}

	podcast.MarkSubscribed(s.now().UTC())
	if err := s.store.AddPodcast(podcast); err != nil {
		if errors.Is(err, storage.ErrAlreadyExists) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSubscription, feedURL)
		}
		return nil, fmt.Errorf("store podcast: %w", err)
	}

	s.logger.Info("subscribed", "url", feedURL, "title", podcast.Title, "episodes", len(podcast.Episodes))
	return podcast, nil
}

// Refresh reloads a stored subscription and replaces its metadata and
// episode list, keeping the subscription state.
func (s *Service) Refresh(ctx context.Context, id string) (*models.Podcast, error) {
	existing, err := s.store.GetPodcast(id)
	if err != nil {
		return nil, err
	}

	podcast, err := s.fetch(ctx, existing.FeedURL, nil)
	if err != nil {
		return nil, err
	}

	podcast.ID = existing.ID
	podcast.FeedURL = existing.FeedURL
	podcast.IsSubscribed = existing.IsSubscribed
	podcast.DateAdded = existing.DateAdded
	for i := range podcast.Episodes {
		podcast.Episodes[i].PodcastID = existing.ID
	}

	if err := s.store.UpdatePodcast(podcast); err != nil {
		return nil, fmt.Errorf("update podcast: %w", err)
	}

	s.logger.Debug("refreshed", "url", existing.FeedURL, "episodes", len(podcast.Episodes))
	return podcast, nil
}

// Unsubscribe removes a stored podcast and its episodes.
func (s *Service) Unsubscribe(id string) error {
	if err := s.store.DeletePodcast(id); err != nil {
		return err
	}
	s.logger.Info("unsubscribed", "id", id)
	return nil
}

// Export builds an OPML document listing every stored podcast.
func (s *Service) Export(title string) (*opml.Document, error) {
	listed, err := s.store.ListPodcasts()
	if err != nil {
		return nil, fmt.Errorf("list podcasts: %w", err)
	}

	podcasts := make([]models.Podcast, 0, len(listed))
	for _, p := range listed {
		podcasts = append(podcasts, *p)
	}
	return opml.FromPodcasts(title, podcasts, s.now()), nil
}

// Preview loads and parses a feed without storing it. Warnings go to sink
// as well as the service's own sink.
func (s *Service) Preview(ctx context.Context, feedURL string, sink models.WarningSink) (*models.Podcast, error) {
	if err := ValidateURL(feedURL); err != nil {
		return nil, err
	}
	return s.fetch(ctx, feedURL, sink)
}

func (s *Service) fetch(ctx context.Context, feedURL string, extra models.WarningSink) (*models.Podcast, error) {
	data, err := s.loader.Load(ctx, feedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoadFailed, err)
	}

	podcast, err := parse.Feed(data, feedURL, s.warn(feedURL, extra))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	return podcast, nil
}

func (s *Service) warn(feedURL string, extra models.WarningSink) models.WarningSink {
	return func(w models.Warning) {
		s.logger.Warn(w.String(), "url", feedURL, "episode", w.Episode, "kind", w.Kind)
		s.sink.Emit(w)
		extra.Emit(w)
	}
}
