// Package preferences reads and writes the reader's feed settings cookie.
package preferences

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// CookieName is the cookie holding the reader's feed settings.
const CookieName = "userPreferences"

// MaxAge is how long the settings cookie lives.
const MaxAge = 365 * 24 * time.Hour

// Preferences are the reader's feed settings.
type Preferences struct {
	Categories []string `json:"categories"`
}

// Parse decodes a cookie value. A missing, malformed or empty category list
// yields defaults.
func Parse(value string, defaults []string) Preferences {
	fallback := Preferences{Categories: append([]string(nil), defaults...)}
	if value == "" {
		return fallback
	}
	if unescaped, err := url.QueryUnescape(value); err == nil {
		value = unescaped
	}

	var p Preferences
	if err := json.Unmarshal([]byte(value), &p); err != nil {
		return fallback
	}

	cats := p.Categories[:0]
	for _, c := range p.Categories {
		if c != "" {
			cats = append(cats, c)
		}
	}
	if len(cats) == 0 {
		return fallback
	}
	return Preferences{Categories: cats}
}

// FromRequest reads the settings cookie from r, falling back to defaults.
func FromRequest(r *http.Request, defaults []string) Preferences {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return Parse("", defaults)
	}
	return Parse(c.Value, defaults)
}

// Encode renders p as a cookie-safe value.
func (p Preferences) Encode() string {
	cats := p.Categories
	if cats == nil {
		cats = []string{}
	}
	data, _ := json.Marshal(Preferences{Categories: cats})
	return url.QueryEscape(string(data))
}

// Cookie returns the settings cookie for p.
func (p Preferences) Cookie(now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    p.Encode(),
		Path:     "/",
		Expires:  now.Add(MaxAge),
		MaxAge:   int(MaxAge / time.Second),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Has reports whether category is selected.
func (p Preferences) Has(category string) bool {
	for _, c := range p.Categories {
		if c == category {
			return true
		}
	}
	return false
}
