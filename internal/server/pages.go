package server

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pressence/frontend/internal/aggregate"
	"github.com/pressence/frontend/internal/article"
	"github.com/pressence/frontend/internal/backend"
	"github.com/pressence/frontend/internal/preferences"
)

const (
	msgLoadFailed    = "Nepodarilo sa načítať články. Skúste to neskôr."
	msgScrapeFailed  = "Sťahovanie nových článkov zlyhalo."
	msgSimilarFailed = "Nepodarilo sa načítať podobné články. Skúste obnoviť stránku."
	msgSearchFailed  = "Chyba pri hľadaní."
)

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 0 {
		page = 0
	}
	limit := homeLimit(s.site.PageSize, page)

	articles, err := s.api.ListArticles(r.Context(), backend.Page{Limit: limit})
	data := map[string]any{
		"Layout": buildHome(articles, limit, page),
	}
	if err != nil {
		data["Error"] = msgLoadFailed
	}
	if r.URL.Query().Get("scrape") == "failed" {
		data["ScrapeError"] = msgScrapeFailed
	}
	s.render(w, http.StatusOK, "index.html", data)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	cat, ok := s.site.Category(slug)
	if !ok {
		s.renderError(w, http.StatusNotFound, "Kategória sa nenašla", "Kategória \""+slug+"\" neexistuje.")
		return
	}

	all, err := s.api.ListArticles(r.Context(), backend.Page{})
	data := map[string]any{
		"Category": cat,
		"Articles": aggregate.FilterByCategory(all, cat.Slug),
		"Ticker":   titles(tail(all, 1+homeFeatures)),
	}
	if err != nil {
		data["Error"] = msgLoadFailed
	}
	s.render(w, http.StatusOK, "category.html", data)
}

// sourceLink is one source URL with its classifier verdict.
type sourceLink struct {
	URL         string
	Orientation article.URLOrientation
	Analyzed    bool
}

// sourceGroup is a domain's sources as shown under an article.
type sourceGroup struct {
	aggregate.DomainSummary
	Links []sourceLink
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := r.PathValue("slug")

	a, pool, err := s.api.FindArticle(ctx, slug)
	if err != nil {
		s.renderError(w, http.StatusBadGateway, "Článok sa nepodarilo načítať", msgLoadFailed)
		return
	}
	if a == nil {
		s.renderError(w, http.StatusNotFound, "Článok sa nenašiel", "Článok, ktorý hľadáte, neexistuje alebo bol odstránený.")
		return
	}

	// Each panel keeps its own outcome; a failed fetch never cancels the others.
	// The list scanned for the slug doubles as the fallback pool.
	var (
		g            errgroup.Group
		similar      []article.Article
		orientations map[string]article.URLOrientation
		similarErr   error
	)
	g.Go(func() error {
		similar, similarErr = s.api.SimilarArticles(ctx, a.ID)
		return nil
	})
	g.Go(func() error {
		orientations, _ = s.api.URLOrientations(ctx, a.URL)
		return nil
	})
	_ = g.Wait()

	rec := aggregate.Recommend(similar, pool, *a, s.site.RecommendationLimit)
	data := map[string]any{
		"Article":         a,
		"Sources":         sourceGroups(a.URL, orientations),
		"Breakdown":       aggregate.Breakdown(a.URL, orientations),
		"Classified":      len(orientations) > 0,
		"Recommendations": rec,
	}
	if similarErr != nil && rec.Source == aggregate.SourceNone {
		data["SimilarError"] = msgSimilarFailed
	}
	s.render(w, http.StatusOK, "article.html", data)
}

func sourceGroups(urls []string, orientations map[string]article.URLOrientation) []sourceGroup {
	summaries := aggregate.Summarize(urls, orientations)
	groups := make([]sourceGroup, 0, len(summaries))
	for _, sum := range summaries {
		g := sourceGroup{DomainSummary: sum}
		for _, u := range sum.URLs {
			o, ok := article.Lookup(orientations, u)
			g.Links = append(g.Links, sourceLink{URL: u, Orientation: o, Analyzed: ok})
		}
		groups = append(groups, g)
	}
	return groups
}

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	prefs := preferences.FromRequest(r, s.site.FeedCategories)

	all, err := s.api.ListArticles(r.Context(), backend.Page{})
	filtered := aggregate.FilterByCategories(all, prefs.Categories)
	data := map[string]any{
		"Layout":      buildFeed(filtered, all),
		"Preferences": prefs,
	}
	if err != nil {
		data["Error"] = msgLoadFailed
	}
	s.render(w, http.StatusOK, "feed.html", data)
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.render(w, http.StatusOK, "settings.html", map[string]any{
		"Preferences": preferences.FromRequest(r, s.site.FeedCategories),
		"Saved":       r.URL.Query().Get("saved") == "1",
	})
}

func (s *Server) handleSaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	selected := []string{}
	for _, slug := range r.Form["categories"] {
		if _, ok := s.site.Category(slug); ok && !slices.Contains(selected, slug) {
			selected = append(selected, slug)
		}
	}

	prefs := preferences.Preferences{Categories: selected}
	http.SetCookie(w, prefs.Cookie(time.Now()))
	s.log.Debug("saved preferences", zap.Strings("categories", selected), zap.String("request_id", requestID(r.Context())))
	http.Redirect(w, r, "/my-feed", http.StatusSeeOther)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	advanced := parseFlag(r.URL.Query().Get("advanced"))

	tooShort := s.api.QueryTooShort(query)
	data := map[string]any{
		"Query":    query,
		"Advanced": advanced,
		"Results":  []article.Article{},
		"TooShort": tooShort,
	}
	if !tooShort {
		results, err := s.api.SearchArticles(r.Context(), query, advanced)
		data["Results"] = results
		if err != nil {
			data["Error"] = msgSearchFailed
		}
	}
	s.render(w, http.StatusOK, "search.html", data)
}

func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	advanced := parseFlag(r.URL.Query().Get("advanced"))

	results, err := s.api.SearchArticles(r.Context(), query, advanced)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": msgSearchFailed})
		return
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	err := s.api.TriggerScrape(ctx, backend.ScrapeRequest{
		MaxArticlesPerPage: s.scrape.MaxArticlesPerPage,
		MaxTotalArticles:   s.scrape.MaxTotalArticles,
	})
	if err != nil {
		http.Redirect(w, r, "/?scrape=failed", http.StatusSeeOther)
		return
	}

	// Give the backend a moment to store what it fetched.
	if err := sleep(ctx, s.scrape.RefreshDelay); err != nil {
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseFlag(v string) bool {
	b, err := strconv.ParseBool(v)
	return (err == nil && b) || v == "on"
}

