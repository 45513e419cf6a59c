// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pdiddy/post-engine/internal/httputil"
)

// gnewsSearchURL is the GNews search endpoint. Package-level var for test substitution.
var gnewsSearchURL = "https://gnews.io/api/v4/search"

const defaultGNewsMax = 3

// GNewsBackend queries gnews.io.
type GNewsBackend struct {
	Client      *http.Client
	APIKey      string
	MaxArticles int
	UserAgent   string
}

// Name returns the backend identifier.
func (b *GNewsBackend) Name() string { return "gnews" }

// Search returns up to MaxArticles usable articles.
func (b *GNewsBackend) Search(ctx context.Context, query, country string) ([]Article, error) {
	limit := b.MaxArticles
	if limit <= 0 {
		limit = defaultGNewsMax
	}
	params := url.Values{
		"q":      {query},
		"lang":   {"en"},
		"max":    {strconv.Itoa(limit)},
		"apikey": {b.APIKey},
	}
	if country != "" {
		params.Set("country", country)
	}

	var headers map[string]string
	if b.UserAgent != "" {
		headers = map[string]string{"User-Agent": b.UserAgent}
	}

	var resp gnewsResponse
	if err := httputil.GetJSON(ctx, b.Client, gnewsSearchURL+"?"+params.Encode(), headers, &resp); err != nil {
		return nil, fmt.Errorf("GNews request: %w", err)
	}

	var articles []Article
	for _, a := range resp.Articles {
		if len(articles) == limit {
			break
		}
		if !usableTitle(a.Title) {
			continue
		}
		articles = append(articles, Article{Title: a.Title, Source: a.Source.Name, URL: a.URL})
	}
	return articles, nil
}

type gnewsResponse struct {
	TotalArticles int            `json:"totalArticles"`
	Articles      []gnewsArticle `json:"articles"`
}

type gnewsArticle struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
}
