package backend

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pressence/frontend/internal/article"
)

// DefaultMinQueryLength is the search minimum a new Client starts with.
const DefaultMinQueryLength = 2

// Page selects a window of the article collection. Zero values are omitted
// from the request so the backend applies its own defaults.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) values() url.Values {
	v := url.Values{}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		v.Set("offset", strconv.Itoa(p.Offset))
	}
	return v
}

// ListArticles fetches and normalizes a page of articles. On any failure it
// logs, and returns an empty slice together with the error, so an empty
// result alone does not distinguish "no data" from "fetch failed".
func (c *Client) ListArticles(ctx context.Context, page Page) ([]article.Article, error) {
	raws, err := c.getArray(ctx, "/api/articles", page.values())
	if err != nil {
		c.log.Error("failed to fetch articles",
			zap.Int("limit", page.Limit), zap.Int("offset", page.Offset), zap.Error(err))
		return []article.Article{}, err
	}
	return article.NormalizeAll(raws), nil
}

// GetArticleBySlug scans the full article list for slug and falls back to
// the per-slug details endpoint. It returns nil, nil when neither knows the
// slug; any non-2xx answer from the details endpoint counts as unknown.
// When several titles share a slug the first listed article wins.
func (c *Client) GetArticleBySlug(ctx context.Context, slug string) (*article.Article, error) {
	a, _, err := c.FindArticle(ctx, slug)
	return a, err
}

// FindArticle resolves slug like GetArticleBySlug and also returns the
// article list it scanned, empty when the list fetch failed.
func (c *Client) FindArticle(ctx context.Context, slug string) (*article.Article, []article.Article, error) {
	articles, listErr := c.ListArticles(ctx, Page{})
	for i := range articles {
		if articles[i].Slug == slug {
			c.log.Debug("resolved article from list", zap.String("slug", slug), zap.String("id", articles[i].ID))
			found := articles[i]
			return &found, articles, nil
		}
	}

	var raw any
	err := c.getJSON(ctx, "/api/articles/"+url.PathEscape(slug)+"/details", nil, &raw)
	if err != nil {
		if isStatus(err) {
			c.log.Warn("article not found", zap.String("slug", slug), zap.Error(err))
			return nil, articles, nil
		}
		c.log.Error("failed to fetch article details", zap.String("slug", slug), zap.Error(err))
		if listErr != nil {
			return nil, articles, fmt.Errorf("resolving %q: %w", slug, listErr)
		}
		return nil, articles, fmt.Errorf("resolving %q: %w", slug, err)
	}

	if _, ok := raw.(map[string]any); !ok {
		c.log.Error("unexpected details payload", zap.String("slug", slug))
		return nil, articles, fmt.Errorf("details for %q: %w", slug, ErrUnexpectedPayload)
	}

	a := article.Normalize(raw)
	c.log.Debug("resolved article from details endpoint", zap.String("slug", slug), zap.String("id", a.ID))
	return &a, articles, nil
}

// SearchArticles runs a title/content search; advanced asks the backend for
// AI-assisted ranking. Queries shorter than c.MinQueryLength return an empty
// result without a request. Results are deduplicated by title.
func (c *Client) SearchArticles(ctx context.Context, query string, advanced bool) ([]article.Article, error) {
	query = strings.TrimSpace(query)
	if c.QueryTooShort(query) {
		return []article.Article{}, nil
	}

	params := url.Values{
		"q":        {query},
		"advanced": {strconv.FormatBool(advanced)},
	}
	raws, err := c.getArray(ctx, "/api/articles/search", params)
	if err != nil {
		c.log.Error("search failed", zap.String("query", query), zap.Bool("advanced", advanced), zap.Error(err))
		return []article.Article{}, err
	}
	return article.DedupeByTitle(article.NormalizeAll(raws)), nil
}

// QueryTooShort reports whether the trimmed query is below the search
// minimum. A minimum below one is treated as one.
func (c *Client) QueryTooShort(query string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(query)) < max(c.MinQueryLength, 1)
}

// getArray fetches path and insists on a JSON array body.
func (c *Client) getArray(ctx context.Context, path string, query url.Values) ([]any, error) {
	var payload any
	if err := c.getJSON(ctx, path, query, &payload); err != nil {
		return nil, err
	}
	arr, ok := payload.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected array, got %T: %w", path, payload, ErrUnexpectedPayload)
	}
	return arr, nil
}
