// Package backendtest provides an in-process stand-in for the article API.
package backendtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// Fake serves canned article API responses and records what it was asked.
// Payload fields hold raw JSON so tests can send malformed bodies.
type Fake struct {
	Server *httptest.Server

	mu           sync.Mutex
	Articles     string
	Details      map[string]string
	Search       string
	Similar      map[string]string
	Orientations string
	// Status overrides the response code per route ("articles", "details",
	// "search", "similar", "orientations", "scrape").
	Status map[string]int

	requests     []string
	listQuery    []string
	searchQuery  []string
	orientBodies []string
	scrapeBodies []string
}

// New starts a fake backend that is closed when the test ends.
func New(t testing.TB) *Fake {
	t.Helper()
	f := &Fake{
		Articles:     `[]`,
		Details:      map[string]string{},
		Search:       `[]`,
		Similar:      map[string]string{},
		Orientations: `{}`,
		Status:       map[string]int{},
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(f.Server.Close)
	return f
}

// URL is the base URL to hand to backend.New.
func (f *Fake) URL() string { return f.Server.URL }

// Set mutates the fake under its lock.
func (f *Fake) Set(fn func(f *Fake)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// Requests returns "METHOD path" for every request served so far.
func (f *Fake) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// ListQueries returns the raw query strings sent to the article list.
func (f *Fake) ListQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.listQuery...)
}

// SearchQueries returns the raw query strings sent to the search endpoint.
func (f *Fake) SearchQueries() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searchQuery...)
}

// OrientationBodies returns the request bodies posted for classification.
func (f *Fake) OrientationBodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.orientBodies...)
}

// ScrapeBodies returns the request bodies posted to the scrape endpoint.
func (f *Fake) ScrapeBodies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.scrapeBodies...)
}

func (f *Fake) serve(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	path := strings.TrimPrefix(r.URL.Path, "/api/")

	switch {
	case r.Method == http.MethodGet && path == "articles":
		f.listQuery = append(f.listQuery, r.URL.RawQuery)
		f.write(w, "articles", f.Articles)
	case r.Method == http.MethodGet && path == "articles/search":
		f.searchQuery = append(f.searchQuery, r.URL.RawQuery)
		f.write(w, "search", f.Search)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/details"):
		key := strings.TrimSuffix(strings.TrimPrefix(path, "articles/"), "/details")
		body, ok := f.Details[key]
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		f.write(w, "details", body)
	case r.Method == http.MethodGet && strings.HasSuffix(path, "/similar"):
		key := strings.TrimSuffix(strings.TrimPrefix(path, "articles/"), "/similar")
		body, ok := f.Similar[key]
		if !ok {
			body = `[]`
		}
		f.write(w, "similar", body)
	case r.Method == http.MethodPost && path == "url-orientations":
		f.orientBodies = append(f.orientBodies, readBody(r))
		f.write(w, "orientations", f.Orientations)
	case r.Method == http.MethodPost && path == "scrape":
		f.scrapeBodies = append(f.scrapeBodies, readBody(r))
		f.write(w, "scrape", `{"status":"started"}`)
	default:
		http.NotFound(w, r)
	}
}

func (f *Fake) write(w http.ResponseWriter, route, body string) {
	code := http.StatusOK
	if c, ok := f.Status[route]; ok {
		code = c
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

func readBody(r *http.Request) string {
	var v any
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		return ""
	}
	data, _ := json.Marshal(v)
	return string(data)
}

// JSON marshals v for use as a canned payload.
func JSON(t testing.TB, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshaling fixture: %v", err)
	}
	return string(data)
}
