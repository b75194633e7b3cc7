// Package aggregate composes fetched articles into what pages show:
// recommendation lists with a deterministic fallback, per-domain source
// groups with orientation summaries, and category filters.
package aggregate

import (
	"github.com/pressence/frontend/internal/article"
	"github.com/pressence/frontend/internal/slug"
)

// DefaultRecommendationLimit caps suggestion lists when no limit is given.
const DefaultRecommendationLimit = 10

// Source says where a recommendation list came from.
type Source string

const (
	SourceNone     Source = "none"
	SourceSimilar  Source = "similar"
	SourceCategory Source = "category"
)

// Recommendation is the suggestion list shown under an article.
type Recommendation struct {
	Articles []article.Article
	Source   Source
}

// AIBacked reports whether the list came from the similarity service.
func (r Recommendation) AIBacked() bool { return r.Source == SourceSimilar }

// Recommend prefers similar when it is non-empty and otherwise falls back to
// articles from pool sharing current's category, excluding current itself.
// Either list is capped at limit.
func Recommend(similar, pool []article.Article, current article.Article, limit int) Recommendation {
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	if len(similar) > 0 {
		return Recommendation{Articles: capped(similar, limit), Source: SourceSimilar}
	}

	key := slug.CategoryKey(current.Category)
	var fallback []article.Article
	for _, a := range pool {
		if a.Slug == current.Slug || slug.CategoryKey(a.Category) != key {
			continue
		}
		fallback = append(fallback, a)
		if len(fallback) == limit {
			break
		}
	}
	if len(fallback) == 0 {
		return Recommendation{Articles: []article.Article{}, Source: SourceNone}
	}
	return Recommendation{Articles: fallback, Source: SourceCategory}
}

func capped(articles []article.Article, limit int) []article.Article {
	if len(articles) > limit {
		articles = articles[:limit]
	}
	return append([]article.Article(nil), articles...)
}
