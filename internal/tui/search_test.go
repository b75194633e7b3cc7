package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/charmbracelet/bubbles/cursor"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pressence/frontend/internal/article"
	"github.com/pressence/frontend/internal/widget"
)

type call struct {
	query    string
	advanced bool
}

type stubSearcher struct {
	mu      sync.Mutex
	calls   []call
	results []article.Article
	err     error
}

func (s *stubSearcher) SearchArticles(_ context.Context, query string, advanced bool) ([]article.Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call{query, advanced})
	return s.results, s.err
}

func newModel(s Searcher) Model {
	m := New(context.Background(), s, Options{MinQueryLength: 2})
	// A blinking cursor would hand back timer commands on every keystroke.
	m.input.Cursor.SetMode(cursor.CursorStatic)
	return m
}

func typeText(t *testing.T, m Model, text string) (Model, []debounceMsg) {
	t.Helper()
	var fired []debounceMsg
	for _, r := range text {
		next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
		fired = append(fired, debounces(cmd)...)
	}
	return m, fired
}

// debounces runs cmd and collects the debounce messages it produces.
func debounces(cmd tea.Cmd) []debounceMsg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case debounceMsg:
		return []debounceMsg{msg}
	case tea.BatchMsg:
		var out []debounceMsg
		for _, c := range msg {
			out = append(out, debounces(c)...)
		}
		return out
	}
	return nil
}

func update(m Model, msg tea.Msg) (Model, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func TestOnlyLatestKeystrokeSearches(t *testing.T) {
	stub := &stubSearcher{}
	m, fired := typeText(t, newModel(stub), "vlá")
	require.Len(t, fired, 3)

	// Earlier tags are superseded.
	m, cmd := update(m, fired[0])
	assert.Nil(t, cmd)
	m, cmd = update(m, fired[1])
	assert.Nil(t, cmd)
	assert.Equal(t, widget.Idle, m.results.State())

	m, cmd = update(m, fired[2])
	require.NotNil(t, cmd)
	assert.Equal(t, widget.Loading, m.results.State())
	assert.Equal(t, "vlá", fired[2].query)
}

func TestShortQueryDoesNotSearch(t *testing.T) {
	stub := &stubSearcher{}
	m, fired := typeText(t, newModel(stub), "a")
	require.Len(t, fired, 1)

	m, cmd := update(m, fired[0])
	assert.Nil(t, cmd)
	assert.Equal(t, widget.Idle, m.results.State())
	assert.Empty(t, stub.calls)
}

func TestResultsAreShown(t *testing.T) {
	stub := &stubSearcher{results: []article.Article{
		{Title: "Rozpočet schválený", Slug: "rozpocet-schvaleny", Category: "Ekonomika"},
		{Title: "Rozpočet v parlamente", Slug: "rozpocet-v-parlamente", Category: "Politika"},
	}}
	m, fired := typeText(t, newModel(stub), "ro")
	m, _ = update(m, fired[len(fired)-1])

	msg := m.searchCmd(m.ticket, "ro", false)()
	assert.Equal(t, []call{{"ro", false}}, stub.calls)

	m, _ = update(m, msg)
	assert.Equal(t, widget.Success, m.results.State())
	view := m.View()
	assert.Contains(t, view, "Výsledky hľadania (2)")
	assert.Contains(t, view, "/articles/rozpocet-v-parlamente")

	m, _ = update(m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	require.NotNil(t, m.Chosen())
	assert.Equal(t, "rozpocet-v-parlamente", m.Chosen().Slug)
}

func TestStaleResultsAreDropped(t *testing.T) {
	stub := &stubSearcher{}
	m, fired := typeText(t, newModel(stub), "ab")
	m, _ = update(m, fired[len(fired)-1])
	first := m.ticket

	m, fired = typeText(t, m, "c")
	m, _ = update(m, fired[len(fired)-1])
	require.NotEqual(t, first, m.ticket)

	m, _ = update(m, resultsMsg{ticket: first, articles: []article.Article{{Title: "Starý"}}})
	assert.Equal(t, widget.Loading, m.results.State())

	m, _ = update(m, resultsMsg{ticket: m.ticket, articles: []article.Article{{Title: "Nový"}}})
	assert.Contains(t, m.View(), "Nový")
	assert.NotContains(t, m.View(), "Starý")
}

func TestAdvancedToggle(t *testing.T) {
	stub := &stubSearcher{}
	m, _ := typeText(t, newModel(stub), "veda")

	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyTab})
	fired := debounces(cmd)
	require.Len(t, fired, 1)
	assert.True(t, fired[0].advanced)
	assert.Contains(t, m.View(), "AI")

	m, _ = update(m, fired[0])
	_ = m.searchCmd(m.ticket, fired[0].query, fired[0].advanced)()
	assert.Equal(t, []call{{"veda", true}}, stub.calls)
}

func TestErrorAndEmptyStates(t *testing.T) {
	stub := &stubSearcher{err: errors.New("backend down")}
	m, fired := typeText(t, newModel(stub), "xy")
	m, _ = update(m, fired[len(fired)-1])
	m, _ = update(m, m.searchCmd(m.ticket, "xy", false)())
	assert.Contains(t, m.View(), "Chyba pri hľadaní: backend down")

	stub.err = nil
	m, fired = typeText(t, m, "z")
	m, _ = update(m, fired[len(fired)-1])
	m, _ = update(m, m.searchCmd(m.ticket, "xyz", false)())
	assert.Contains(t, m.View(), `Nenašli sa žiadne výsledky pre "xyz"`)
}

func TestEscQuits(t *testing.T) {
	m := newModel(&stubSearcher{})
	m, cmd := update(m, tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Nil(t, m.Chosen())
	assert.True(t, strings.TrimSpace(m.View()) == "")
}
