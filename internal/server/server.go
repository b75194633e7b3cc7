// Package server renders the news front end over HTTP.
package server

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"go.uber.org/zap"

	"github.com/pressence/frontend/internal/aggregate"
	"github.com/pressence/frontend/internal/backend"
	"github.com/pressence/frontend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var md = goldmark.New()

// Server is the HTTP front end. It holds no article state of its own; every
// page is built from fresh backend fetches.
type Server struct {
	api    *backend.Client
	site   config.Site
	search config.Search
	scrape config.Scrape
	log    *zap.Logger
	loc    *time.Location
	pages  map[string]*template.Template
	mux    *http.ServeMux
}

var pageNames = []string{
	"index.html",
	"category.html",
	"article.html",
	"feed.html",
	"settings.html",
	"search.html",
	"error.html",
}

// New creates a new Server backed by api. It applies the configured search
// minimum to api.
func New(api *backend.Client, cfg *config.Config, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	api.MinQueryLength = cfg.Search.MinQueryLength
	s := &Server{
		api:    api,
		site:   cfg.Site,
		search: cfg.Search,
		scrape: cfg.Scrape,
		log:    log.Named("server"),
		loc:    time.Local,
		mux:    http.NewServeMux(),
	}

	funcMap := template.FuncMap{
		"markdown":    renderMarkdown,
		"date":        s.formatShortDate,
		"datetime":    s.formatDateTime,
		"articles":    articlesNoun,
		"domains":     domainsNoun,
		"orientation": orientationLabel,
		"percent":     percent,
		"excerpt":     excerpt,
		"upper":       strings.ToUpper,
		"hosts":       aggregate.Domains,
		"favicon":     favicon,
		"duplicate": func(items []string) []string {
			return append(append([]string(nil), items...), items...)
		},
	}

	// Parse base template first
	base, err := template.New("base.html").Funcs(funcMap).ParseFS(templateFS, "templates/base.html", "templates/partials.html")
	if err != nil {
		return nil, fmt.Errorf("parsing base template: %w", err)
	}

	// For each page template, clone the base and parse the page into the clone.
	// This gives each page its own {{define "content"}} and {{define "title"}}.
	s.pages = make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		clone, err := base.Clone()
		if err != nil {
			return nil, fmt.Errorf("cloning base for %s: %w", name, err)
		}
		_, err = clone.ParseFS(templateFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		s.pages[name] = clone
	}

	s.routes()
	return s, nil
}

// Handler returns the HTTP handler for the server.
func (s *Server) Handler() http.Handler {
	return withRequestLog(s.log, s.mux)
}

func (s *Server) routes() {
	// Static files
	staticSub, _ := fs.Sub(staticFS, "static")
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))

	// Pages
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /category/{slug}", s.handleCategory)
	s.mux.HandleFunc("GET /articles/{slug}", s.handleArticle)
	s.mux.HandleFunc("GET /my-feed", s.handleFeed)
	s.mux.HandleFunc("GET /profile/settings", s.handleSettings)
	s.mux.HandleFunc("POST /profile/settings", s.handleSaveSettings)
	s.mux.HandleFunc("GET /search", s.handleSearch)
	s.mux.HandleFunc("POST /scrape", s.handleScrape)

	// JSON
	s.mux.HandleFunc("GET /api/search", s.handleAPISearch)

	s.mux.HandleFunc("/", s.handleNotFound)
}

// render executes page name with the shared layout data merged into data.
func (s *Server) render(w http.ResponseWriter, status int, name string, data map[string]any) {
	tmpl, ok := s.pages[name]
	if !ok {
		s.log.Error("template not found", zap.String("template", name))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if data == nil {
		data = map[string]any{}
	}
	data["Nav"] = s.site.Categories
	data["Today"] = headerDate(time.Now().In(s.loc))
	data["MinQuery"] = s.search.MinQueryLength

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		s.log.Error("rendering template", zap.String("template", name), zap.Error(err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) renderError(w http.ResponseWriter, status int, heading, message string) {
	s.render(w, status, "error.html", map[string]any{
		"Status":  status,
		"Heading": heading,
		"Message": message,
	})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, http.StatusNotFound, "Stránka sa nenašla", "Požadovaná stránka neexistuje.")
}

func (s *Server) formatShortDate(raw string) string {
	t, ok := parseScrapedAt(raw)
	if !ok {
		return raw
	}
	return shortDate(t.In(s.loc))
}

func (s *Server) formatDateTime(raw string) string {
	t, ok := parseScrapedAt(raw)
	if !ok {
		return raw
	}
	return dateTime(t.In(s.loc))
}

func renderMarkdown(text string) template.HTML {
	var buf bytes.Buffer
	if err := md.Convert([]byte(text), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return template.HTML(buf.String()) //nolint: gosec
}

func favicon(domain string, size int) string {
	if domain == "" {
		return ""
	}
	return fmt.Sprintf("https://www.google.com/s2/favicons?domain=%s&sz=%d", domain, size)
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", "http://"+addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
