package server

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/pressence/frontend/internal/article"
)

func TestHeaderDate(t *testing.T) {
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC), "Sobota, 17. októbra 2026"},
		{time.Date(2026, 1, 4, 9, 0, 0, 0, time.UTC), "Nedeľa, 4. januára 2026"},
		{time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC), "Štvrtok, 1. mája 2025"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, headerDate(tt.in))
	}
}

func TestCardDates(t *testing.T) {
	ts := time.Date(2026, 3, 7, 9, 5, 0, 0, time.UTC)
	assert.Equal(t, "7. 3. 2026", shortDate(ts))
	assert.Equal(t, "7. 3. 2026 09:05", dateTime(ts))
}

func TestParseScrapedAt(t *testing.T) {
	want := time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)
	for _, in := range []string{
		"2026-10-17T08:30:00.000Z",
		"2026-10-17T08:30:00Z",
		"2026-10-17T10:30:00+02:00",
		"2026-10-17T08:30:00",
		"2026-10-17T08:30:00.000000",
		"2026-10-17 08:30:00",
	} {
		got, ok := parseScrapedAt(in)
		assert.True(t, ok, in)
		assert.True(t, want.Equal(got), "%s parsed as %v", in, got)
	}

	_, ok := parseScrapedAt("včera")
	assert.False(t, ok)
}

func TestFormatFallsBackToRaw(t *testing.T) {
	s := &Server{loc: time.UTC}
	assert.Equal(t, "neznámy", s.formatShortDate("neznámy"))
	assert.Equal(t, "17. 10. 2026 08:30", s.formatDateTime("2026-10-17T08:30:00.000Z"))
}

func TestPlurals(t *testing.T) {
	tests := map[int]string{
		0:  "článkov",
		1:  "článok",
		2:  "články",
		4:  "články",
		5:  "článkov",
		22: "článkov",
	}
	for n, want := range tests {
		assert.Equal(t, want, articlesNoun(n), "n=%d", n)
	}
	assert.Equal(t, "doména", domainsNoun(1))
	assert.Equal(t, "domény", domainsNoun(3))
	assert.Equal(t, "domén", domainsNoun(7))
}

func TestOrientationLabel(t *testing.T) {
	assert.Equal(t, "Ľavica", orientationLabel(article.Left))
	assert.Equal(t, "Pravica", orientationLabel(article.Right))
	assert.Equal(t, "Neutrálne", orientationLabel(article.Neutral))
	assert.Equal(t, "Neutrálne", orientationLabel(article.Orientation("")))
}

func TestExcerptAndPercent(t *testing.T) {
	assert.Equal(t, "krátky", excerpt("krátky", 300))
	assert.Equal(t, "Čte...", excerpt("Čtenie", 3))
	assert.Equal(t, 67, percent(0.666))
	assert.Equal(t, 0, percent(0))
}
