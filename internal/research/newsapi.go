// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/pdiddy/post-engine/internal/httputil"
)

// NewsAPI endpoints. Declared as vars so tests can substitute an httptest server.
var (
	newsAPITopHeadlinesURL = "https://newsapi.org/v2/top-headlines"
	newsAPIEverythingURL   = "https://newsapi.org/v2/everything"
)

const defaultNewsAPIMax = 4

// NewsAPIBackend queries newsapi.org. With a country it asks for top
// headlines first and widens to the everything endpoint when that yields
// nothing usable.
type NewsAPIBackend struct {
	Client      *http.Client
	APIKey      string
	MaxArticles int
	UserAgent   string
}

// Name returns the backend identifier.
func (b *NewsAPIBackend) Name() string { return "newsapi" }

// Search returns up to MaxArticles usable articles.
func (b *NewsAPIBackend) Search(ctx context.Context, query, country string) ([]Article, error) {
	if country != "" {
		articles, err := b.fetch(ctx, newsAPITopHeadlinesURL, url.Values{
			"q":       {query},
			"country": {country},
		})
		if err != nil {
			return nil, err
		}
		if len(articles) > 0 {
			return articles, nil
		}
	}
	return b.fetch(ctx, newsAPIEverythingURL, url.Values{
		"q":        {query},
		"language": {"en"},
		"sortBy":   {"relevancy"},
	})
}

func (b *NewsAPIBackend) fetch(ctx context.Context, endpoint string, params url.Values) ([]Article, error) {
	headers := map[string]string{"X-Api-Key": b.APIKey}
	if b.UserAgent != "" {
		headers["User-Agent"] = b.UserAgent
	}

	var resp newsAPIResponse
	if err := httputil.GetJSON(ctx, b.Client, endpoint+"?"+params.Encode(), headers, &resp); err != nil {
		return nil, fmt.Errorf("NewsAPI request: %w", err)
	}
	if resp.Status != "" && resp.Status != "ok" {
		return nil, fmt.Errorf("NewsAPI returned status %q: %s", resp.Status, resp.Message)
	}

	limit := b.MaxArticles
	if limit <= 0 {
		limit = defaultNewsAPIMax
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

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title string `json:"title"`
	URL   string `json:"url"`
}
