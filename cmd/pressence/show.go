package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/sync/errgroup"

	"github.com/pressence/frontend/internal/aggregate"
	"github.com/pressence/frontend/internal/article"
	"github.com/pressence/frontend/internal/backend"
)

// printArticle writes a and its source summary to stdout. Similarity and
// orientation failures degrade to fallbacks the same way the web page does.
// A nil pool is fetched from the article list.
func printArticle(ctx context.Context, client *backend.Client, a *article.Article, pool []article.Article) error {
	var (
		similar      []article.Article
		orientations map[string]article.URLOrientation
	)
	var g errgroup.Group
	if pool == nil {
		g.Go(func() error {
			pool, _ = client.ListArticles(ctx, backend.Page{})
			return nil
		})
	}
	g.Go(func() error {
		similar, _ = client.SimilarArticles(ctx, a.ID)
		return nil
	})
	g.Go(func() error {
		orientations, _ = client.URLOrientations(ctx, a.URL)
		return nil
	})
	_ = g.Wait()

	fmt.Println(a.Title)
	fmt.Println(strings.Repeat("=", len([]rune(a.Title))))
	fmt.Printf("Category: %s\n", a.Category)
	fmt.Printf("Scraped:  %s\n", a.ScrapedAt)
	fmt.Printf("Slug:     %s\n", a.Slug)
	if len(a.Tags) > 0 {
		fmt.Printf("Tags:     %s\n", strings.Join(a.Tags, ", "))
	}
	if a.Intro != "" {
		fmt.Printf("\n%s\n", a.Intro)
	}

	if len(a.URL) > 0 {
		fmt.Println("\nSources:")
		for _, s := range aggregate.Breakdown(a.URL, orientations) {
			fmt.Printf("  %-8s %d (%.0f%%)\n", s.Orientation, s.Count, s.Percent)
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		for _, d := range aggregate.Summarize(a.URL, orientations) {
			fmt.Fprintf(w, "  %s\t%s\t%d\n", d.Domain, d.Orientation, len(d.URLs))
		}
		w.Flush()
	}

	rec := aggregate.Recommend(similar, pool, *a, cfg.Site.RecommendationLimit)
	if len(rec.Articles) > 0 {
		label := "Related"
		if rec.AIBacked() {
			label = "Similar (AI)"
		}
		fmt.Printf("\n%s:\n", label)
		for _, r := range rec.Articles {
			fmt.Printf("  %s  %s\n", r.Slug, r.Title)
		}
	}
	return nil
}
