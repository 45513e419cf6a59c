// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "https://export.arxiv.org/api/query"

const defaultArxivMax = 3

// ArxivBackend queries the arXiv Atom API for the newest preprints on a
// topic. arXiv has no notion of country, so every query is global.
type ArxivBackend struct {
	Client      *http.Client
	MaxArticles int
	UserAgent   string
}

// Name returns the backend identifier.
func (b *ArxivBackend) Name() string { return "arxiv" }

// Search returns up to MaxArticles of the most recently submitted entries
// matching every term of query.
func (b *ArxivBackend) Search(ctx context.Context, query, _ string) ([]Article, error) {
	q := arxivQuery(query)
	if q == "" {
		return nil, fmt.Errorf("empty arXiv query")
	}
	limit := b.MaxArticles
	if limit <= 0 {
		limit = defaultArxivMax
	}

	params := url.Values{
		"search_query": {q},
		"start":        {"0"},
		"max_results":  {strconv.Itoa(limit)},
		"sortBy":       {"submittedDate"},
		"sortOrder":    {"descending"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, arxivAPIBase+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if b.UserAgent != "" {
		req.Header.Set("User-Agent", b.UserAgent)
	}

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("arXiv request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arXiv request: HTTP %d", resp.StatusCode)
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	var articles []Article
	for _, e := range feed.Entries {
		if len(articles) == limit {
			break
		}
		title := strings.Join(strings.Fields(e.Title), " ")
		link := arxivAbsURL(e.ID)
		if link == "" || !usableTitle(title) {
			continue
		}
		articles = append(articles, Article{Title: title, Source: "arXiv", URL: link})
	}
	return articles, nil
}

// arxivQuery ANDs every term of the topic across all fields.
func arxivQuery(topic string) string {
	terms := strings.Fields(topic)
	for i, t := range terms {
		terms[i] = "all:" + t
	}
	return strings.Join(terms, " AND ")
}

// arxivAbsURL normalizes an entry id such as
// "http://arxiv.org/abs/2301.07041v1" to the unversioned https abstract page.
func arxivAbsURL(id string) string {
	const prefix = "/abs/"
	idx := strings.Index(id, prefix)
	if idx < 0 {
		return ""
	}
	paper := id[idx+len(prefix):]
	if v := strings.LastIndex(paper, "v"); v > 0 {
		if _, err := strconv.Atoi(paper[v+1:]); err == nil {
			paper = paper[:v]
		}
	}
	if paper == "" {
		return ""
	}
	return "https://arxiv.org/abs/" + paper
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID    string `xml:"id"`
	Title string `xml:"title"`
}
