// ABOUTME: File-based podcast store kept as a single YAML document
// ABOUTME: Every mutation rewrites podcasts.yaml atomically under a mutex

package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/podfeed/internal/models"
)

// YAMLStore provides file-based storage using one YAML file in a data directory.
type YAMLStore struct {
	path string
	mu   sync.Mutex
}

// Compile-time check that YAMLStore implements Store.
var _ Store = (*YAMLStore)(nil)

type yamlFile struct {
	Podcasts []yamlPodcast `yaml:"podcasts"`
}

type yamlPodcast struct {
	ID           string        `yaml:"id"`
	Title        string        `yaml:"title"`
	Author       *string       `yaml:"author,omitempty"`
	Description  *string       `yaml:"description,omitempty"`
	ArtworkURL   *string       `yaml:"artwork_url,omitempty"`
	Link         *string       `yaml:"link,omitempty"`
	FeedURL      string        `yaml:"feed_url"`
	Categories   []string      `yaml:"categories,omitempty"`
	IsSubscribed bool          `yaml:"is_subscribed"`
	DateAdded    *time.Time    `yaml:"date_added,omitempty"`
	Episodes     []yamlEpisode `yaml:"episodes,omitempty"`
}

type yamlEpisode struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	AudioURL    *string    `yaml:"audio_url,omitempty"`
	Duration    *int       `yaml:"duration,omitempty"`
	PubDate     *time.Time `yaml:"pub_date,omitempty"`
	Description *string    `yaml:"description,omitempty"`
	ArtworkURL  *string    `yaml:"artwork_url,omitempty"`
}

// NewYAMLStore creates a YAML-backed store rooted at dataDir.
func NewYAMLStore(dataDir string) (*YAMLStore, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &YAMLStore{path: filepath.Join(dataDir, "podcasts.yaml")}, nil
}

// Close releases resources. For YAMLStore this is a no-op.
func (s *YAMLStore) Close() error {
	return nil
}

func (s *YAMLStore) load() (*yamlFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &yamlFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}
	return &f, nil
}

func (s *YAMLStore) save(f *yamlFile) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("encode podcasts: %w", err)
	}
	return AtomicWrite(s.path, data, 0644)
}

func (f *yamlFile) index(id string) int {
	for i := range f.Podcasts {
		if f.Podcasts[i].ID == id {
			return i
		}
	}
	return -1
}

// GetPodcast retrieves a podcast with its episodes in document order.
func (s *YAMLStore) GetPodcast(id string) (*models.Podcast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}
	i := f.index(id)
	if i < 0 {
		return nil, fmt.Errorf("podcast %s: %w", id, ErrNotFound)
	}
	return f.Podcasts[i].toModel(true), nil
}

// AddPodcast stores a new podcast and its episodes.
func (s *YAMLStore) AddPodcast(p *models.Podcast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	if f.index(p.ID) >= 0 {
		return fmt.Errorf("podcast %s: %w", p.ID, ErrAlreadyExists)
	}
	f.Podcasts = append(f.Podcasts, fromModel(p))
	return s.save(f)
}

// UpdatePodcast replaces a stored podcast's metadata and episode list.
func (s *YAMLStore) UpdatePodcast(p *models.Podcast) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	i := f.index(p.ID)
	if i < 0 {
		return fmt.Errorf("podcast %s: %w", p.ID, ErrNotFound)
	}
	f.Podcasts[i] = fromModel(p)
	return s.save(f)
}

// ListPodcasts returns all podcasts sorted by title, without episodes.
func (s *YAMLStore) ListPodcasts() ([]*models.Podcast, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}

	podcasts := make([]*models.Podcast, 0, len(f.Podcasts))
	for i := range f.Podcasts {
		podcasts = append(podcasts, f.Podcasts[i].toModel(false))
	}
	sort.SliceStable(podcasts, func(i, j int) bool {
		if podcasts[i].Title != podcasts[j].Title {
			return podcasts[i].Title < podcasts[j].Title
		}
		return podcasts[i].ID < podcasts[j].ID
	})
	return podcasts, nil
}

// DeletePodcast removes a podcast and all its episodes.
func (s *YAMLStore) DeletePodcast(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return err
	}
	i := f.index(id)
	if i < 0 {
		return fmt.Errorf("podcast %s: %w", id, ErrNotFound)
	}
	f.Podcasts = append(f.Podcasts[:i], f.Podcasts[i+1:]...)
	return s.save(f)
}

// ListEpisodes returns episodes matching the filter, newest first.
func (s *YAMLStore) ListEpisodes(filter *EpisodeFilter) ([]models.Episode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := s.load()
	if err != nil {
		return nil, err
	}

	episodes := []models.Episode{}
	for i := range f.Podcasts {
		p := &f.Podcasts[i]
		if filter != nil && filter.PodcastID != nil && p.ID != *filter.PodcastID {
			continue
		}
		for _, e := range p.Episodes {
			if filter != nil && filter.Since != nil && (e.PubDate == nil || e.PubDate.Before(*filter.Since)) {
				continue
			}
			episodes = append(episodes, e.toModel(p.ID))
		}
	}

	sortNewestFirst(episodes)
	if filter != nil && filter.Limit != nil && len(episodes) > *filter.Limit {
		episodes = episodes[:*filter.Limit]
	}
	return episodes, nil
}

// GetEpisode retrieves one episode of a podcast.
func (s *YAMLStore) GetEpisode(podcastID, episodeID string) (*models.Episode, error) {
	p, err := s.GetPodcast(podcastID)
	if err != nil {
		return nil, err
	}
	ep := p.Episode(episodeID)
	if ep == nil {
		return nil, fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
	}
	return ep, nil
}

// SearchEpisodes performs a case-insensitive substring search on titles and descriptions.
func (s *YAMLStore) SearchEpisodes(query string, limit int) ([]models.Episode, error) {
	all, err := s.ListEpisodes(nil)
	if err != nil {
		return nil, err
	}
	return filterEpisodes(all, query, limit), nil
}

// sortNewestFirst orders by publish date descending, undated last, keeping
// document order among equals.
func sortNewestFirst(episodes []models.Episode) {
	sort.SliceStable(episodes, func(i, j int) bool {
		a, b := episodes[i].PubDate, episodes[j].PubDate
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.After(*b)
		}
	})
}

func fromModel(p *models.Podcast) yamlPodcast {
	y := yamlPodcast{
		ID:           p.ID,
		Title:        p.Title,
		Author:       p.Author,
		Description:  p.Description,
		ArtworkURL:   p.ArtworkURL,
		Link:         p.Link,
		FeedURL:      p.FeedURL,
		Categories:   p.Categories,
		IsSubscribed: p.IsSubscribed,
		DateAdded:    utc(p.DateAdded),
	}
	for _, e := range p.Episodes {
		y.Episodes = append(y.Episodes, yamlEpisode{
			ID:          e.ID,
			Title:       e.Title,
			AudioURL:    e.AudioURL,
			Duration:    e.Duration,
			PubDate:     utc(e.PubDate),
			Description: e.Description,
			ArtworkURL:  e.ArtworkURL,
		})
	}
	return y
}

func (y *yamlPodcast) toModel(withEpisodes bool) *models.Podcast {
	p := &models.Podcast{
		ID:           y.ID,
		Title:        y.Title,
		Author:       y.Author,
		Description:  y.Description,
		ArtworkURL:   y.ArtworkURL,
		Link:         y.Link,
		FeedURL:      y.FeedURL,
		Categories:   y.Categories,
		IsSubscribed: y.IsSubscribed,
		DateAdded:    utc(y.DateAdded),
	}
	if withEpisodes {
		p.Episodes = make([]models.Episode, 0, len(y.Episodes))
		for _, e := range y.Episodes {
			p.Episodes = append(p.Episodes, e.toModel(y.ID))
		}
	}
	return p
}

func (e yamlEpisode) toModel(podcastID string) models.Episode {
	return models.Episode{
		ID:          e.ID,
		PodcastID:   podcastID,
		Title:       e.Title,
		AudioURL:    e.AudioURL,
		Duration:    e.Duration,
		PubDate:     utc(e.PubDate),
		Description: e.Description,
		ArtworkURL:  e.ArtworkURL,
	}
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
