package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/blockfall/internal/registry"
	"github.com/vovakirdan/blockfall/internal/storage"
)

const maxRuns = 100

// runOrder selects which runs the scoreboard lists.
type runOrder int

const (
	orderBest   runOrder = iota // score, then time
	orderRecent                 // newest first
)

func (o runOrder) String() string {
	if o == orderRecent {
		return "recent"
	}
	return "best"
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up    key.Binding
	Down  key.Binding
	Next  key.Binding
	Prev  key.Binding
	Order key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Prev, k.Next, k.Order, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll")),
		Next:  key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next mode")),
		Prev:  key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←", "prev mode")),
		Order: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "best/recent")),
		Back:  key.NewBinding(key.WithKeys("esc", "b"), key.WithHelp("esc", "back")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

var (
	boardTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	modeTabStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle  = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 1)
	summaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	frameStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	emptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true).Padding(2, 4)
)

// ScoreboardModel lists stored runs per mode.
type ScoreboardModel struct {
	games     []registry.GameInfo
	cursor    int
	store     *storage.Store
	order     runOrder
	runs      []storage.RunRecord
	best      *storage.RunRecord // fastest clear, nil if never cleared
	highScore int
	table     table.Model
	help      help.Model
	keys      ScoreboardKeyMap
	width     int
	height    int
	quitting  bool
	goingBack bool
}

// NewScoreboardModel creates a new scoreboard model.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		games:  orderedGames(),
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.table = m.newTable()
	m.reload()
	return m
}

func (m *ScoreboardModel) newTable() table.Model {
	columns := []table.Column{
		{Title: "#", Width: 4},
		{Title: "Score", Width: 8},
		{Title: "Lines", Width: 6},
		{Title: "Pieces", Width: 7},
		{Title: "PPS", Width: 5},
		{Title: "Time", Width: 9},
		{Title: "Date", Width: 12},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-10, 3)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// current returns the selected mode ID, or "" when no modes are registered.
func (m ScoreboardModel) current() string {
	if len(m.games) == 0 {
		return ""
	}
	return m.games[m.cursor].ID
}

// reload fetches runs and records for the selected mode.
func (m *ScoreboardModel) reload() {
	m.runs, m.best, m.highScore = nil, nil, 0
	if id := m.current(); id != "" && m.store != nil {
		var runs []storage.RunRecord
		var err error
		if m.order == orderRecent {
			runs, err = m.store.RecentRuns(id, maxRuns)
		} else {
			runs, err = m.store.TopRuns(id, maxRuns)
		}
		if err == nil {
			m.runs = runs
		}
		if best, err := m.store.BestRun(id); err == nil {
			m.best = best
		}
		if high, err := m.store.HighScore(id); err == nil {
			m.highScore = high
		}
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = runRow(i+1, r)
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

// runRow formats one run. Cleared goal runs get a * after the time.
func runRow(rank int, r storage.RunRecord) table.Row {
	clock := formatDuration(r.Duration)
	if r.Won {
		clock += "*"
	}
	pps := "-"
	if secs := r.Duration.Seconds(); secs > 0 {
		pps = fmt.Sprintf("%.2f", float64(r.Pieces)/secs)
	}
	return table.Row{
		fmt.Sprintf("%d", rank),
		fmt.Sprintf("%d", r.Score),
		fmt.Sprintf("%d", r.Lines),
		fmt.Sprintf("%d", r.Pieces),
		pps,
		clock,
		r.CreatedAt.Format("Jan 02 15:04"),
	}
}

func (m *ScoreboardModel) step(delta int) {
	if len(m.games) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.games)) % len(m.games)
	m.reload()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.step(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.step(-1)
			return m, nil
		case key.Matches(msg, m.keys.Order):
			m.order = 1 - m.order
			m.reload()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.table = m.newTable()
		m.reload()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	var b strings.Builder
	b.WriteString(centerText(boardTitleStyle.Render("RUN RECORDS"), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText(m.modeStrip(), m.width))
	b.WriteString("\n")
	b.WriteString(centerText(summaryStyle.Render(m.summary()), m.width))
	b.WriteString("\n\n")

	body := emptyStyle.Render("No runs recorded yet.\nPlay a mode to set a record!")
	if len(m.runs) > 0 {
		body = m.table.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, frameStyle.Render(body)))
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// modeStrip lists modes by short name, highlighting the selected one. Narrow
// terminals get only the selected mode's title.
func (m ScoreboardModel) modeStrip() string {
	if len(m.games) == 0 {
		return ""
	}
	tabs := make([]string, len(m.games))
	plain := 0
	for i, g := range m.games {
		name := g.Alias
		if name == "" {
			name = g.ID
		}
		name = strings.ToUpper(name)
		plain += len(name) + 3
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(name)
		} else {
			tabs[i] = modeTabStyle.Render(name)
		}
	}
	if plain > m.width-4 {
		return fmt.Sprintf("< %s >", m.games[m.cursor].Title)
	}
	return strings.Join(tabs, " ")
}

// summary describes the selected mode's records and the list order.
func (m ScoreboardModel) summary() string {
	title := ""
	if len(m.games) > 0 {
		title = m.games[m.cursor].Title
	}
	parts := []string{title}
	if m.highScore > 0 {
		parts = append(parts, fmt.Sprintf("best score %d", m.highScore))
	}
	if m.best != nil {
		parts = append(parts, fmt.Sprintf("fastest clear %s (%d pieces)", formatDuration(m.best.Duration), m.best.Pieces))
	}
	parts = append(parts, "showing "+m.order.String())
	return strings.Join(parts, "  ·  ")
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the scoreboard screen.
// Returns true if user wants to go back to menu, false if quitting.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	if !ok {
		return false, nil
	}
	return m.IsGoingBack(), nil
}
