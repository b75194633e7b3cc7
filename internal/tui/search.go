// Package tui is the interactive terminal search box.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pressence/frontend/internal/article"
	"github.com/pressence/frontend/internal/widget"
)

// Searcher runs an article search.
type Searcher interface {
	SearchArticles(ctx context.Context, query string, advanced bool) ([]article.Article, error)
}

// Options tune the search box.
type Options struct {
	Debounce       time.Duration
	MinQueryLength int
	Advanced       bool
}

// debounceMsg fires once typing pauses. Only the tag matching the latest
// keystroke starts a search.
type debounceMsg struct {
	tag      int
	query    string
	advanced bool
}

type resultsMsg struct {
	ticket   widget.Ticket
	articles []article.Article
	err      error
}

type styles struct {
	title    lipgloss.Style
	badge    lipgloss.Style
	selected lipgloss.Style
	meta     lipgloss.Style
	err      lipgloss.Style
	help     lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#6F4E37")),
		badge:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#6F4E37")).Padding(0, 1),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#D97706")),
		meta:     lipgloss.NewStyle().Foreground(lipgloss.Color("#71717A")),
		err:      lipgloss.NewStyle().Foreground(lipgloss.Color("#DC2626")),
		help:     lipgloss.NewStyle().Foreground(lipgloss.Color("#A1A1AA")).Italic(true),
	}
}

// Model is the bubbletea model for the search box.
type Model struct {
	ctx      context.Context
	search   Searcher
	opts     Options
	input    textinput.Model
	spinner  spinner.Model
	results  *widget.Loader[[]article.Article]
	ticket   widget.Ticket
	tag      int
	query    string
	cursor   int
	chosen   *article.Article
	styles   styles
	quitting bool
}

// New creates a search box backed by s.
func New(ctx context.Context, s Searcher, opts Options) Model {
	if opts.MinQueryLength < 1 {
		opts.MinQueryLength = 1
	}

	ti := textinput.New()
	ti.Placeholder = placeholder(opts.Advanced)
	ti.CharLimit = 200
	ti.Width = 60
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:     ctx,
		search:  s,
		opts:    opts,
		input:   ti,
		spinner: sp,
		results: &widget.Loader[[]article.Article]{},
		styles:  defaultStyles(),
	}
}

func placeholder(advanced bool) string {
	if advanced {
		return "AI vyhľadávanie..."
	}
	return "Hľadať články..."
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.quitting = true
			return m, tea.Quit
		case tea.KeyTab:
			m.opts.Advanced = !m.opts.Advanced
			m.input.Placeholder = placeholder(m.opts.Advanced)
			next := m.schedule()
			return m, next
		case tea.KeyUp:
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case tea.KeyDown:
			if n := len(m.results.Snapshot().Value); m.cursor < n-1 {
				m.cursor++
			}
			return m, nil
		case tea.KeyEnter:
			snap := m.results.Snapshot()
			if snap.State == widget.Success && m.cursor < len(snap.Value) {
				chosen := snap.Value[m.cursor]
				m.chosen = &chosen
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		before := m.input.Value()
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() == before {
			return m, cmd
		}
		next := m.schedule()
		return m, tea.Batch(cmd, next)

	case debounceMsg:
		if msg.tag != m.tag {
			return m, nil
		}
		query := strings.TrimSpace(msg.query)
		if utf8.RuneCountInString(query) < m.opts.MinQueryLength {
			m.results.Reset()
			m.query = ""
			m.cursor = 0
			return m, nil
		}
		m.query = query
		m.ticket = m.results.Start()
		return m, tea.Batch(m.spinner.Tick, m.searchCmd(m.ticket, query, msg.advanced))

	case resultsMsg:
		if m.results.Finish(msg.ticket, msg.articles, msg.err) {
			m.cursor = 0
		}
		return m, nil

	case spinner.TickMsg:
		if m.results.State() != widget.Loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// schedule tags the current input and fires a debounced search for it.
func (m *Model) schedule() tea.Cmd {
	m.tag++
	msg := debounceMsg{tag: m.tag, query: m.input.Value(), advanced: m.opts.Advanced}
	if m.opts.Debounce <= 0 {
		return func() tea.Msg { return msg }
	}
	return tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg { return msg })
}

func (m Model) searchCmd(t widget.Ticket, query string, advanced bool) tea.Cmd {
	ctx, s := m.ctx, m.search
	return func() tea.Msg {
		articles, err := s.SearchArticles(ctx, query, advanced)
		return resultsMsg{ticket: t, articles: articles, err: err}
	}
}

// View renders the search box.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.title.Render("Pressence · vyhľadávanie"))
	if m.opts.Advanced {
		b.WriteString(" " + m.styles.badge.Render("AI"))
	}
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	snap := m.results.Snapshot()
	switch snap.State {
	case widget.Loading:
		label := "Hľadám..."
		if m.opts.Advanced {
			label = "AI hľadá..."
		}
		b.WriteString(m.spinner.View() + " " + label + "\n")
	case widget.Error:
		b.WriteString(m.styles.err.Render("Chyba pri hľadaní: "+snap.Err.Error()) + "\n")
	case widget.Success:
		if len(snap.Value) == 0 {
			b.WriteString(fmt.Sprintf("Nenašli sa žiadne výsledky pre \"%s\"\n", m.query))
			break
		}
		b.WriteString(m.styles.meta.Render(fmt.Sprintf("Výsledky hľadania (%d)", len(snap.Value))) + "\n")
		for i, a := range snap.Value {
			line := a.Title
			prefix := "  "
			if i == m.cursor {
				prefix = "> "
				line = m.styles.selected.Render(line)
			}
			b.WriteString(prefix + line + "\n")
			b.WriteString("    " + m.styles.meta.Render(fmt.Sprintf("%s • %s • /articles/%s", a.Category, a.ScrapedAt, a.Slug)) + "\n")
		}
	}

	b.WriteString("\n" + m.styles.help.Render("tab: AI vyhľadávanie · ↑/↓: výber · enter: otvoriť · esc: koniec"))
	return b.String()
}

// Chosen returns the article picked with enter, if any.
func (m Model) Chosen() *article.Article {
	return m.chosen
}

// Run starts the search box and returns the picked article, or nil.
func Run(ctx context.Context, s Searcher, opts Options) (*article.Article, error) {
	p := tea.NewProgram(New(ctx, s, opts), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running search: %w", err)
	}
	return final.(Model).Chosen(), nil
}
