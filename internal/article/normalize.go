package article

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pressence/frontend/internal/slug"
)

// ScrapedAtLayout matches the ISO-8601 form the backend emits.
const ScrapedAtLayout = "2006-01-02T15:04:05.000Z"

// Normalize converts one decoded JSON value into an Article. It never fails:
// missing or malformed fields fall back to their defaults.
func Normalize(raw any) Article {
	return NormalizeAt(raw, time.Now())
}

// NormalizeAt is Normalize with an explicit clock for the scraped_at default.
func NormalizeAt(raw any, now time.Time) Article {
	fields, _ := raw.(map[string]any)

	title := stringField(fields, "title")
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}

	summary := stringField(fields, "summary")
	content := stringField(fields, "content")
	if content == "" {
		content = summary
	}

	category := stringField(fields, "category")
	if strings.TrimSpace(category) == "" {
		category = DefaultCategory
	}

	scrapedAt := stringField(fields, "scraped_at")
	if scrapedAt == "" {
		scrapedAt = now.UTC().Format(ScrapedAtLayout)
	}

	return Article{
		ID:        stringField(fields, "id"),
		Title:     title,
		Slug:      slug.Slugify(title),
		Intro:     stringField(fields, "intro"),
		Summary:   summary,
		Content:   content,
		URL:       stringList(fields["url"]),
		TopImage:  stringField(fields, "top_image"),
		Category:  category,
		Tags:      stringList(fields["tags"]),
		ScrapedAt: scrapedAt,
	}
}

// NormalizeAll normalizes a batch, preserving order.
func NormalizeAll(raws []any) []Article {
	now := time.Now()
	out := make([]Article, 0, len(raws))
	for _, raw := range raws {
		out = append(out, NormalizeAt(raw, now))
	}
	return out
}

// DedupeByTitle keeps the first article for every distinct title.
func DedupeByTitle(articles []Article) []Article {
	seen := make(map[string]struct{}, len(articles))
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		if _, dup := seen[a.Title]; dup {
			continue
		}
		seen[a.Title] = struct{}{}
		out = append(out, a)
	}
	return out
}

// NormalizeOrientation converts one classifier entry. Confidence may be a
// number or a numeric string and is clamped to [0, 1]; anything else counts
// as 0. It reports false when raw is not an object.
func NormalizeOrientation(raw any) (URLOrientation, bool) {
	fields, ok := raw.(map[string]any)
	if !ok {
		return Unknown(), false
	}
	return URLOrientation{
		Orientation: ParseOrientation(stringField(fields, "orientation")),
		Confidence:  clamp01(numberField(fields, "confidence")),
		Reasoning:   stringField(fields, "reasoning"),
	}, true
}

func numberField(fields map[string]any, key string) float64 {
	s, ok := scalarString(fields[key])
	if !ok {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	return f
}

func clamp01(f float64) float64 {
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

func stringField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}
	s, _ := scalarString(fields[key])
	return s
}

// stringList coerces a scalar, an array or nothing into a non-nil slice.
// Array elements that are not scalars are skipped.
func stringList(v any) []string {
	switch t := v.(type) {
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := scalarString(item); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case []string:
		out := make([]string, 0, len(t))
		for _, s := range t {
			if s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := scalarString(v); ok && s != "" {
			return []string{s}
		}
		return []string{}
	}
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case bool:
		return strconv.FormatBool(t), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	default:
		return "", false
	}
}
