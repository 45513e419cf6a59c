// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research gathers recent news for a topic from credential-gated
// providers and turns it into source text and deduplicated links.
package research

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/post-engine/internal/fallback"
	"github.com/pdiddy/post-engine/internal/logging"
	"github.com/pdiddy/post-engine/pkg/types"
)

// Placeholder texts used when no live research is available.
const (
	NoAccessText = "No live news access configured. Using general knowledge."
	NoNewsText   = "No specific recent news found. Using general knowledge."
)

// DefaultTimeout bounds each provider call.
const DefaultTimeout = 5 * time.Second

// ErrNoArticles marks a provider that answered without usable articles.
var ErrNoArticles = errors.New("no usable articles")

// DefaultRegionCountries maps region substrings to the country used as a
// stand-in for the whole region. "local" resolves to the caller's country.
var DefaultRegionCountries = map[string]string{
	"local":         "",
	"north america": "us",
	"europe":        "gb",
}

// Article is one news item returned by a provider.
type Article struct {
	Title  string `json:"title" yaml:"title"`
	Source string `json:"source" yaml:"source"`
	URL    string `json:"url" yaml:"url"`
}

// Backend queries a single news provider. Country is a lower-case
// two-letter code, or empty for a global query.
type Backend interface {
	Name() string
	Search(ctx context.Context, query, country string) ([]Article, error)
}

// Collection is the outcome of one collect call.
type Collection struct {
	Text    string             `json:"text" yaml:"text"`
	Links   []types.SourceLink `json:"links" yaml:"links"`
	Status  string             `json:"status" yaml:"status"`
	Sources int                `json:"sources" yaml:"sources"`
}

// Collector runs the provider chain in shallow or deep mode.
type Collector struct {
	backends        []Backend
	timeout         time.Duration
	regionCountries map[string]string
	logger          *zap.Logger
}

// NewCollector returns a collector over backends, tried in order.
func NewCollector(backends []Backend, cfg types.ResearchConfig, logger *zap.Logger) *Collector {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	regions := cfg.RegionCountries
	if len(regions) == 0 {
		regions = DefaultRegionCountries
	}
	return &Collector{
		backends:        backends,
		timeout:         timeout,
		regionCountries: regions,
		logger:          logging.OrNop(logger),
	}
}

// BackendsFromConfig builds the provider chain from the configured keys:
// NewsAPI first, GNews second, then arXiv when enabled. Providers without a
// key are left out.
func BackendsFromConfig(cfg types.ResearchConfig, client *http.Client) []Backend {
	var backends []Backend
	if cfg.NewsAPIKey != "" {
		backends = append(backends, &NewsAPIBackend{
			Client:      client,
			APIKey:      cfg.NewsAPIKey,
			MaxArticles: cfg.NewsAPIMaxArticles,
			UserAgent:   cfg.UserAgent,
		})
	}
	if cfg.GNewsAPIKey != "" {
		backends = append(backends, &GNewsBackend{
			Client:      client,
			APIKey:      cfg.GNewsAPIKey,
			MaxArticles: cfg.GNewsMaxArticles,
			UserAgent:   cfg.UserAgent,
		})
	}
	if cfg.Arxiv {
		backends = append(backends, &ArxivBackend{
			Client:      client,
			MaxArticles: cfg.ArxivMaxArticles,
			UserAgent:   cfg.UserAgent,
		})
	}
	return backends
}

// CountryFor maps a region label to a country filter. Matching is a
// case-insensitive substring test; unmatched regions are global.
func (c *Collector) CountryFor(region, userCountry string) string {
	r := strings.ToLower(region)
	if strings.Contains(r, "local") {
		return strings.ToLower(userCountry)
	}

	keys := make([]string, 0, len(c.regionCountries))
	for k := range c.regionCountries {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if k != "" && strings.Contains(r, strings.ToLower(k)) {
			return strings.ToLower(c.regionCountries[k])
		}
	}
	return ""
}

// DeepVariants returns the query variants used in deep mode.
func DeepVariants(topic string) []string {
	return []string{topic, topic + " news", topic + " trends"}
}

// Collect gathers news for topic. It never fails: provider errors degrade to
// placeholder text.
func (c *Collector) Collect(ctx context.Context, topic, region, userCountry string, deep bool) Collection {
	if len(c.backends) == 0 {
		return Collection{
			Text:   NoAccessText,
			Links:  []types.SourceLink{},
			Status: fmt.Sprintf("No live news access configured (%s)", region),
		}
	}

	country := c.CountryFor(region, userCountry)
	c.logger.Debug("collecting research",
		zap.String("topic", topic), zap.String("country", country), zap.Bool("deep", deep))

	var (
		text    string
		sources int
		links   []types.SourceLink
	)
	if deep {
		text, sources, links = c.deep(ctx, topic, country)
	} else {
		articles := c.shallow(ctx, topic, country)
		text = strings.Join(articleLines(articles), "\n")
		sources = len(articles)
		links, _ = types.MergeLinks(nil, articleLinks(articles))
	}

	if sources == 0 {
		text = NoNewsText
	}
	if links == nil {
		links = []types.SourceLink{}
	}
	return Collection{
		Text:    text,
		Links:   links,
		Status:  fmt.Sprintf("Found %d relevant sources (%s)", sources, region),
		Sources: sources,
	}
}

// shallow runs the provider chain once. A provider that errors or returns
// no usable articles hands over to the next.
func (c *Collector) shallow(ctx context.Context, query, country string) []Article {
	options := make([]fallback.Option[[]Article], 0, len(c.backends))
	for _, b := range c.backends {
		options = append(options, fallback.Option[[]Article]{
			Name: b.Name(),
			Try: func(ctx context.Context) ([]Article, error) {
				articles, err := b.Search(ctx, query, country)
				if err != nil {
					return nil, err
				}
				if len(articles) == 0 {
					return nil, ErrNoArticles
				}
				return articles, nil
			},
		})
	}

	out, err := fallback.New(c.timeout, options...).Run(ctx)
	for _, f := range out.Failures {
		c.logger.Warn("news provider failed", zap.String("query", query), zap.Error(f))
	}
	if err != nil {
		return nil
	}
	c.logger.Debug("news provider answered",
		zap.String("query", query), zap.String("provider", out.Winner), zap.Int("articles", len(out.Value)))
	return out.Value
}

// deep runs the shallow procedure for each variant concurrently and merges
// the results in variant order. Each variant with results contributes one
// labeled segment.
func (c *Collector) deep(ctx context.Context, topic, country string) (string, int, []types.SourceLink) {
	variants := DeepVariants(topic)
	results := make([][]Article, len(variants))

	var g errgroup.Group
	for i, v := range variants {
		g.Go(func() error {
			results[i] = c.shallow(ctx, v, country)
			return nil
		})
	}
	_ = g.Wait()

	var (
		segments []string
		sources  int
		links    []types.SourceLink
	)
	for i, v := range variants {
		if len(results[i]) == 0 {
			continue
		}
		lines := append([]string{segmentHeader(v)}, articleLines(results[i])...)
		segments = append(segments, strings.Join(lines, "\n"))
		sources += len(results[i])
		links, _ = types.MergeLinks(links, articleLinks(results[i]))
	}
	return strings.Join(segments, "\n\n"), sources, links
}

func segmentHeader(variant string) string {
	return fmt.Sprintf("Query %q:", variant)
}

func articleLines(articles []Article) []string {
	lines := make([]string, 0, len(articles))
	for _, a := range articles {
		if a.Source != "" {
			lines = append(lines, fmt.Sprintf("- %s (%s)", a.Title, a.Source))
		} else {
			lines = append(lines, "- "+a.Title)
		}
	}
	return lines
}

func articleLinks(articles []Article) []types.SourceLink {
	links := make([]types.SourceLink, 0, len(articles))
	for _, a := range articles {
		if a.URL != "" {
			links = append(links, types.SourceLink{Title: a.Title, URL: a.URL})
		}
	}
	return links
}

// usableTitle reports whether a provider title is worth keeping.
func usableTitle(title string) bool {
	t := strings.TrimSpace(title)
	return t != "" && t != "[Removed]"
}
