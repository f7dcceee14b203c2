// ABOUTME: Bulk subscription from OPML documents with bounded concurrency
// ABOUTME: Deduplicates feed URLs, subscribes each in an errgroup, and reports per-URL outcomes

package subscribe

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"

	"github.com/harper/podfeed/internal/models"
	"github.com/harper/podfeed/internal/opml"
)

// DefaultImportConcurrency bounds parallel subscriptions when the caller passes zero.
const DefaultImportConcurrency = 4

// ImportResult is the outcome for one feed URL.
type ImportResult struct {
	URL     string
	Podcast *models.Podcast
	Err     error
}

// Skipped reports whether the URL was already subscribed.
func (r ImportResult) Skipped() bool {
	return errors.Is(r.Err, ErrDuplicateSubscription)
}

// ImportSummary counts the outcomes of an import.
type ImportSummary struct {
	Added   int
	Skipped int
	Failed  int
}

// Summarize tallies a result set.
func Summarize(results []ImportResult) ImportSummary {
	var s ImportSummary
	for _, r := range results {
		switch {
		case r.Err == nil:
			s.Added++
		case r.Skipped():
			s.Skipped++
		default:
			s.Failed++
		}
	}
	return s
}

// UniqueFeedURLs returns the document's feed URLs with later repeats removed.
func UniqueFeedURLs(doc *opml.Document) []string {
	seen := make(map[string]bool)
	var urls []string
	for _, u := range doc.AllFeedURLs() {
		if seen[u] {
			continue
		}
		seen[u] = true
		urls = append(urls, u)
	}
	return urls
}

// Import subscribes to every feed in doc. Results are returned in document
// order; a failing URL never stops the others.
func (s *Service) Import(ctx context.Context, doc *opml.Document, concurrency int) []ImportResult {
	if concurrency <= 0 {
		concurrency = DefaultImportConcurrency
	}

	urls := UniqueFeedURLs(doc)
	results := make([]ImportResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, u := range urls {
		g.Go(func() error {
			podcast, err := s.Subscribe(ctx, u)
			results[i] = ImportResult{URL: u, Podcast: podcast, Err: err}
			if err != nil && !errors.Is(err, ErrDuplicateSubscription) {
				s.logger.Warn("import failed", "url", u, "err", err)
			}
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("import finished", "feeds", len(urls))
	return results
}
