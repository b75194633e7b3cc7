// Package article holds the canonical article record and the normalizer that
// turns loosely-typed backend payloads into it.
package article

import "strings"

// Defaults applied when the backend omits a field.
const (
	DefaultTitle    = "Untitled"
	DefaultCategory = "uncategorized"
	NotAnalyzed     = "Nie je analyzované"
)

// Article is a normalized article as rendered by the front end.
type Article struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Slug      string   `json:"slug"`
	Intro     string   `json:"intro"`
	Summary   string   `json:"summary"`
	Content   string   `json:"content"`
	URL       []string `json:"url"`
	TopImage  string   `json:"top_image"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	ScrapedAt string   `json:"scraped_at"`
}

// Orientation is the political leaning assigned to a source URL.
type Orientation string

const (
	Left    Orientation = "left"
	Right   Orientation = "right"
	Neutral Orientation = "neutral"
)

// ParseOrientation maps free-form classifier output onto a known orientation.
// Anything unrecognized is neutral.
func ParseOrientation(s string) Orientation {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case Left:
		return Left
	case Right:
		return Right
	default:
		return Neutral
	}
}

// URLOrientation is the classifier verdict for a single source URL.
type URLOrientation struct {
	Orientation Orientation `json:"orientation"`
	Confidence  float64     `json:"confidence"`
	Reasoning   string      `json:"reasoning"`
}

// Unknown is the verdict assumed for URLs the classifier did not return.
func Unknown() URLOrientation {
	return URLOrientation{Orientation: Neutral, Confidence: 0, Reasoning: NotAnalyzed}
}

// Lookup returns the verdict for url, or Unknown when it is absent.
func Lookup(orientations map[string]URLOrientation, url string) (URLOrientation, bool) {
	o, ok := orientations[url]
	if !ok {
		return Unknown(), false
	}
	return o, true
}
