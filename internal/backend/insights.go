package backend

import (
	"context"
	"errors"
	"net/url"

	"go.uber.org/zap"

	"github.com/pressence/frontend/internal/article"
)

// SimilarArticles returns the AI-ranked neighbours of articleID. An empty ID
// returns an empty result without a request.
func (c *Client) SimilarArticles(ctx context.Context, articleID string) ([]article.Article, error) {
	if articleID == "" {
		return []article.Article{}, nil
	}

	raws, err := c.getArray(ctx, "/api/articles/"+url.PathEscape(articleID)+"/similar", nil)
	if err != nil {
		c.log.Error("failed to fetch similar articles", zap.String("article_id", articleID), zap.Error(err))
		return []article.Article{}, err
	}
	return article.NormalizeAll(raws), nil
}

// URLOrientations classifies a batch of source URLs in one request. Each
// entry is decoded on its own, so one malformed verdict only drops that URL.
// On failure it returns an empty map, which callers read as "every URL
// neutral, confidence 0".
func (c *Client) URLOrientations(ctx context.Context, urls []string) (map[string]article.URLOrientation, error) {
	out := make(map[string]article.URLOrientation)
	if len(urls) == 0 {
		return out, nil
	}

	var wire map[string]any
	body := map[string][]string{"urls": urls}
	if err := c.postJSON(ctx, "/api/url-orientations", body, &wire); err != nil {
		c.log.Error("failed to fetch url orientations", zap.Int("urls", len(urls)), zap.Error(err))
		return out, err
	}

	for u, raw := range wire {
		o, ok := article.NormalizeOrientation(raw)
		if !ok {
			c.log.Warn("skipping malformed orientation", zap.String("url", u))
			continue
		}
		out[u] = o
	}
	return out, nil
}

// ScrapeRequest asks the backend to ingest fresh articles. A nil
// MaxTotalArticles means no overall cap.
type ScrapeRequest struct {
	MaxArticlesPerPage int  `json:"max_articles_per_page"`
	MaxTotalArticles   *int `json:"max_total_articles"`
}

// TriggerScrape starts backend ingestion. The backend works asynchronously;
// callers wait before re-reading the article list.
func (c *Client) TriggerScrape(ctx context.Context, req ScrapeRequest) error {
	if err := c.postJSON(ctx, "/api/scrape", req, nil); err != nil {
		c.log.Error("failed to trigger scrape", zap.Error(err))
		return err
	}
	c.log.Info("scrape triggered", zap.Int("max_articles_per_page", req.MaxArticlesPerPage))
	return nil
}

func isStatus(err error) bool {
	var se *StatusError
	return errors.As(err, &se)
}
