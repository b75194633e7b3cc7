package server

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/pressence/frontend/internal/article"
)

var skWeekdays = [...]string{"nedeľa", "pondelok", "utorok", "streda", "štvrtok", "piatok", "sobota"}

// Month names in the genitive, as used after a day number.
var skMonths = [...]string{
	"januára", "februára", "marca", "apríla", "mája", "júna",
	"júla", "augusta", "septembra", "októbra", "novembra", "decembra",
}

// scrapedAtLayouts are the timestamp shapes the backend has been seen to send.
var scrapedAtLayouts = []string{
	time.RFC3339Nano,
	article.ScrapedAtLayout,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseScrapedAt reads a backend timestamp. Zone-less values are taken as UTC.
func parseScrapedAt(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range scrapedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// headerDate renders t as "Sobota, 17. októbra 2026".
func headerDate(t time.Time) string {
	s := fmt.Sprintf("%s, %d. %s %d", skWeekdays[t.Weekday()], t.Day(), skMonths[t.Month()-1], t.Year())
	return capitalize(s)
}

// shortDate renders t as "17. 10. 2026".
func shortDate(t time.Time) string {
	return fmt.Sprintf("%d. %d. %d", t.Day(), int(t.Month()), t.Year())
}

// dateTime renders t as "17. 10. 2026 09:05".
func dateTime(t time.Time) string {
	return fmt.Sprintf("%s %02d:%02d", shortDate(t), t.Hour(), t.Minute())
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// plural picks the Slovak noun form for n: one, two-to-four, or the rest.
func plural(n int, one, few, many string) string {
	switch {
	case n == 1:
		return one
	case n >= 2 && n <= 4:
		return few
	default:
		return many
	}
}

func articlesNoun(n int) string { return plural(n, "článok", "články", "článkov") }

func domainsNoun(n int) string { return plural(n, "doména", "domény", "domén") }

func orientationLabel(o article.Orientation) string {
	switch o {
	case article.Left:
		return "Ľavica"
	case article.Right:
		return "Pravica"
	default:
		return "Neutrálne"
	}
}

// percent rounds a 0..1 ratio to a whole percentage.
func percent(ratio float64) int {
	return int(math.Round(ratio * 100))
}

// excerpt cuts s to at most n runes, marking the cut with "...".
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "..."
}
