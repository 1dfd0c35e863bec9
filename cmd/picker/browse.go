package main

import (
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/poiesic/treesearch/session"
	"github.com/poiesic/treesearch/tree"
	"github.com/urfave/cli/v2"
)

// resultsUpdatedMsg is sent when a match pass ends or the results are cleared.
type resultsUpdatedMsg struct{}

type styles struct {
	Title     lipgloss.Style
	Category  lipgloss.Style
	Item      lipgloss.Style
	Cursor    lipgloss.Style
	Tooltip   lipgloss.Style
	Separator lipgloss.Style
	Status    lipgloss.Style
	Warning   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		Category:  lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		Item:      lipgloss.NewStyle(),
		Cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57")),
		Tooltip:   lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("241")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
		Status:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Warning:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

type browseModel struct {
	session *session.Session
	input   textinput.Model
	styles  styles

	// Categories entered with enter; the root is always at the bottom.
	stack  []*tree.Item
	cursor int
	height int

	chosen *tree.Item
}

func newBrowseModel(sess *session.Session) browseModel {
	input := textinput.New()
	input.Placeholder = "type to search"
	input.Prompt = "> "
	input.Focus()

	return browseModel{
		session: sess,
		input:   input,
		styles:  defaultStyles(),
		stack:   []*tree.Item{sess.Root()},
		height:  20,
	}
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.height = msg.Height
		return m, nil

	case resultsUpdatedMsg:
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			switch {
			case m.input.Value() != "":
				m.input.SetValue("")
				m.setQuery("")
			case len(m.stack) > 1:
				m.stack = m.stack[:len(m.stack)-1]
				m.cursor = 0
			default:
				return m, tea.Quit
			}
			return m, nil
		case "up", "ctrl+p":
			m.move(-1)
			return m, nil
		case "down", "ctrl+n":
			m.move(1)
			return m, nil
		case "enter":
			return m.choose()
		}

		var cmd tea.Cmd
		before := m.input.Value()
		m.input, cmd = m.input.Update(msg)
		if m.input.Value() != before {
			m.setQuery(m.input.Value())
		}
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *browseModel) setQuery(q string) {
	m.cursor = 0
	if err := m.session.SetQuery(q); err != nil {
		// Still showing the previous results is the best the UI can do.
		m.input.Err = err
	}
}

// rows returns the children of whatever the list is showing. Navigation is
// owned here; the session only knows whether a query is active.
func (m browseModel) rows() []*tree.Item {
	var rows []*tree.Item
	if m.session.Active() {
		m.session.View(func(view *tree.Item) {
			rows = append(rows, view.Children()...)
		})
		return rows
	}
	return m.stack[len(m.stack)-1].Children()
}

func (m *browseModel) move(delta int) {
	rows := m.rows()
	if len(rows) == 0 {
		m.cursor = 0
		return
	}
	next := m.cursor
	for {
		next += delta
		if next < 0 || next >= len(rows) {
			return
		}
		if !rows[next].IsSeparator() {
			m.cursor = next
			return
		}
	}
}

func (m *browseModel) clampCursor() {
	n := len(m.rows())
	if m.cursor >= n {
		m.cursor = max(n-1, 0)
	}
}

func (m browseModel) choose() (tea.Model, tea.Cmd) {
	rows := m.rows()
	if m.cursor >= len(rows) {
		return m, nil
	}
	item := rows[m.cursor]
	if item.IsSeparator() || !item.Interactable() {
		return m, nil
	}
	if !item.IsLeaf() {
		m.stack = append(m.stack, item)
		m.cursor = 0
		return m, nil
	}
	m.chosen = item
	return m, tea.Quit
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.title()))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	rows := m.rows()
	visible := max(m.height-5, 1)
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(start+visible, len(rows))

	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.status(len(rows)))
	return b.String()
}

func (m browseModel) title() string {
	if m.session.Active() {
		return "Search"
	}
	parts := make([]string, 0, len(m.stack))
	for _, it := range m.stack {
		parts = append(parts, it.Text())
	}
	return strings.Join(parts, " / ")
}

func (m browseModel) renderRow(item *tree.Item, selected bool) string {
	if item.IsSeparator() {
		return m.styles.Separator.Render("  " + strings.Repeat("─", 24))
	}

	label := item.Text()
	style := m.styles.Item
	if !item.IsLeaf() {
		label += " ›"
		style = m.styles.Category
	}
	if selected {
		style = m.styles.Cursor
	}

	row := "  " + style.Render(label)
	if tip := item.Content().Tooltip; tip != "" {
		row += "  " + m.styles.Tooltip.Render(tip)
	}
	return row
}

func (m browseModel) status(n int) string {
	switch {
	case m.session.IsRunning():
		return m.styles.Status.Render(fmt.Sprintf("searching… %d so far", n))
	case m.session.ReachedLimit():
		return m.styles.Warning.Render(fmt.Sprintf("%d results, limit reached: narrow your query", n))
	case m.session.Active():
		return m.styles.Status.Render(fmt.Sprintf("%d results", n))
	}
	return m.styles.Status.Render("enter: open  esc: back  ctrl+c: quit")
}

func browseCommand(c *cli.Context) error {
	var prog atomic.Pointer[tea.Program]
	onUpdate := func() {
		if p := prog.Load(); p != nil {
			// SetQuery notifies synchronously from inside Update.
			go p.Send(resultsUpdatedMsg{})
		}
	}

	engine, sess, err := openSession(c, session.WithOnUpdate(onUpdate))
	if err != nil {
		return err
	}
	defer engine.Release()
	defer sess.Close()

	p := tea.NewProgram(newBrowseModel(sess), tea.WithAltScreen(), tea.WithContext(c.Context))
	prog.Store(p)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("running browser: %w", err)
	}

	if m, ok := final.(browseModel); ok && m.chosen != nil {
		path, _ := tree.ValueOf[string](m.chosen)
		if path == "" {
			path = m.chosen.Text()
		}
		fmt.Fprintln(c.App.Writer, path)
	}
	return nil
}
