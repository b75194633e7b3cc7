package aggregate

import (
	"github.com/pressence/frontend/internal/article"
	"github.com/pressence/frontend/internal/slug"
)

// FilterByCategory keeps articles whose category folds to key.
func FilterByCategory(articles []article.Article, key string) []article.Article {
	return FilterByCategories(articles, []string{key})
}

// FilterByCategories keeps articles whose category folds to any of keys,
// preserving order. The result is never nil.
func FilterByCategories(articles []article.Article, keys []string) []article.Article {
	want := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		want[slug.CategoryKey(k)] = struct{}{}
	}

	out := []article.Article{}
	for _, a := range articles {
		if _, ok := want[slug.CategoryKey(a.Category)]; ok {
			out = append(out, a)
		}
	}
	return out
}
