package server

import (
	"github.com/pressence/frontend/internal/article"
)

// Home page split: one hero, up to four features, the rest in the grid.
const (
	homeFeatures = 4
	tickerSize   = 5
)

// Personalized feed split.
const (
	feedSecondary = 2
	feedTertiary  = 3
)

// homeLimit is how many articles page (0-based) of the home page shows. The
// first page carries one extra article for the hero.
func homeLimit(pageSize, page int) int {
	if page < 0 {
		page = 0
	}
	return pageSize + 1 + page*pageSize
}

type homeLayout struct {
	Hero     *article.Article
	Features []article.Article
	Grid     []article.Article
	Ticker   []string
	HasMore  bool
	NextPage int
}

// buildHome splits the latest articles for the home page. requested is the
// limit that was asked of the backend; a full answer means more may exist.
func buildHome(articles []article.Article, requested, page int) homeLayout {
	l := homeLayout{
		Features: []article.Article{},
		Grid:     []article.Article{},
		Ticker:   titles(tail(articles, 1+homeFeatures)),
		HasMore:  len(articles) > 0 && len(articles) == requested,
		NextPage: page + 1,
	}
	if len(articles) == 0 {
		return l
	}
	l.Hero = &articles[0]
	l.Features = window(articles, 1, 1+homeFeatures)
	l.Grid = tail(articles, 1+homeFeatures)
	return l
}

type feedCell struct {
	Article article.Article
	Wide    bool
}

type feedRow struct {
	Cells []feedCell
}

type feedLayout struct {
	Main      *article.Article
	Secondary []article.Article
	Tertiary  []article.Article
	Rows      []feedRow
	Ticker    []string
}

// buildFeed lays out the reader's filtered articles. The ticker shows the
// last few titles of the whole collection, not just the filtered ones.
func buildFeed(filtered, all []article.Article) feedLayout {
	l := feedLayout{
		Secondary: []article.Article{},
		Tertiary:  []article.Article{},
		Rows:      []feedRow{},
		Ticker:    titles(last(all, tickerSize)),
	}
	if len(filtered) == 0 {
		return l
	}

	l.Main = &filtered[0]
	l.Secondary = window(filtered, 1, 1+feedSecondary)
	l.Tertiary = window(filtered, 1+feedSecondary, 1+feedSecondary+feedTertiary)

	rest := tail(filtered, 1+feedSecondary+feedTertiary)
	for i := 0; i < len(rest); i += 2 {
		firstWide := (i/2)%2 == 0
		row := feedRow{Cells: []feedCell{{Article: rest[i], Wide: firstWide}}}
		if i+1 < len(rest) {
			row.Cells = append(row.Cells, feedCell{Article: rest[i+1], Wide: !firstWide})
		}
		l.Rows = append(l.Rows, row)
	}
	return l
}

// window returns articles[from:to] clamped to the slice bounds.
func window(articles []article.Article, from, to int) []article.Article {
	if from > len(articles) {
		from = len(articles)
	}
	if to > len(articles) {
		to = len(articles)
	}
	return articles[from:to]
}

func tail(articles []article.Article, from int) []article.Article {
	return window(articles, from, len(articles))
}

func last(articles []article.Article, n int) []article.Article {
	if len(articles) <= n {
		return articles
	}
	return articles[len(articles)-n:]
}

func titles(articles []article.Article) []string {
	out := make([]string, 0, len(articles))
	for _, a := range articles {
		if a.Title != "" {
			out = append(out, a.Title)
		}
	}
	return out
}
