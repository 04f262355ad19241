package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/oboboa/nlb-api/internal/db"
	"github.com/oboboa/nlb-api/internal/fetch"
	"github.com/oboboa/nlb-api/internal/models"
)

// Actions the TUI hands back to the caller's main loop
const (
	ActionQuit       = "quit"
	ActionAddTitle   = "add-title"
	ActionClearSaved = "clear-saved"
)

// TUIResult tells the caller what to do after the program exits
type TUIResult struct {
	Action string
}

// Messages for the background fetch

type statusMsg string

type fetchDoneMsg struct {
	results []models.BookAvailability
}

const progressLines = 6

// ShelfModel holds the state for the interactive availability browser
type ShelfModel struct {
	table   table.Model
	spinner spinner.Model
	layout  Layout

	queries  []models.BookQuery
	selected map[int]bool
	results  map[models.QueryKey]models.BookAvailability

	database  *db.DB
	catalogue fetch.Catalogue
	cacheTTL  time.Duration

	fetching bool
	progress []string
	fetchCh  chan tea.Msg

	detailVisible   bool
	detailIndex     int
	showAllBranches bool

	statusLine  string
	action      string
	helpVisible bool
}

// NewShelfModel creates the availability browser. Previously cached
// results may be passed in so the table is populated on startup.
func NewShelfModel(
	queries []models.BookQuery,
	cached map[models.QueryKey]models.BookAvailability,
	database *db.DB,
	catalogue fetch.Catalogue,
	cacheTTL time.Duration,
) ShelfModel {
	t := table.New(
		table.WithColumns(BuildShelfColumns()),
		table.WithHeight(TableHeight),
		table.WithFocused(true),
	)

	styles := table.DefaultStyles()
	styles.Header = styles.Header.Bold(true).Foreground(ColorText)
	styles.Selected = SelectedStyle
	t.SetStyles(styles)

	selected := make(map[int]bool, len(queries))
	for i := range queries {
		selected[i] = true
	}

	results := cached
	if results == nil {
		results = make(map[models.QueryKey]models.BookAvailability)
	}

	m := ShelfModel{
		table:     t,
		spinner:   NewAppSpinner(),
		layout:    DefaultLayout(),
		queries:   queries,
		selected:  selected,
		results:   results,
		database:  database,
		catalogue: catalogue,
		cacheTTL:  cacheTTL,
	}
	m.refreshRows()
	return m
}

// RunShelfTUI runs the availability browser until the user quits or
// requests an action the caller must handle (e.g. the add-title form,
// which cannot run inside an active Bubble Tea program).
func RunShelfTUI(
	queries []models.BookQuery,
	cached map[models.QueryKey]models.BookAvailability,
	database *db.DB,
	catalogue fetch.Catalogue,
	cacheTTL time.Duration,
) (TUIResult, error) {
	m := NewShelfModel(queries, cached, database, catalogue, cacheTTL)

	p := tea.NewProgram(m, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		return TUIResult{}, fmt.Errorf("shelf TUI error: %w", err)
	}

	final := finalModel.(ShelfModel)
	action := final.action
	if action == "" {
		action = ActionQuit
	}
	return TUIResult{Action: action}, nil
}

func (m ShelfModel) Init() tea.Cmd {
	return nil
}

func (m ShelfModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width)
		return m, nil

	case spinner.TickMsg:
		if !m.fetching {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case statusMsg:
		m.progress = append(m.progress, string(msg))
		return m, waitForFetchMsg(m.fetchCh)

	case fetchDoneMsg:
		for _, r := range msg.results {
			m.results[r.Query.Key()] = r
		}
		m.fetching = false
		m.fetchCh = nil
		m.progress = nil
		m.statusLine = fmt.Sprintf("Checked %d title(s)", len(msg.results))
		m.refreshRows()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m ShelfModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		m.action = ActionQuit
		return m, tea.Quit
	}

	// While a batch is running only quitting is allowed; the fetch
	// goroutine keeps its own pace and cannot be interrupted mid-call.
	if m.fetching {
		return m, nil
	}

	if m.detailVisible {
		return m.handleDetailKey(key)
	}

	switch key {
	case "q", "esc":
		m.action = ActionQuit
		return m, tea.Quit

	case "?":
		m.helpVisible = !m.helpVisible
		return m, nil

	case " ":
		row := m.table.Cursor()
		if row >= 0 && row < len(m.queries) {
			m.selected[row] = !m.selected[row]
			m.refreshRows()
		}
		return m, nil

	case "t":
		m.toggleAll()
		m.refreshRows()
		return m, nil

	case "a":
		m.action = ActionAddTitle
		return m, tea.Quit

	case "D":
		m.action = ActionClearSaved
		return m, tea.Quit

	case "f":
		return m.startFetch(false)

	case "F":
		return m.startFetch(true)

	case "C":
		if m.database != nil {
			if err := m.database.ClearResults(); err != nil {
				m.statusLine = err.Error()
				return m, nil
			}
		}
		m.results = make(map[models.QueryKey]models.BookAvailability)
		m.statusLine = "Cleared cached results"
		m.refreshRows()
		return m, nil

	case "x":
		ordered := m.orderedResults()
		if len(ordered) == 0 {
			m.statusLine = "Nothing to export yet"
			return m, nil
		}
		filename, err := ExportResultsToMarkdown(ordered)
		if err != nil {
			m.statusLine = err.Error()
		} else {
			m.statusLine = fmt.Sprintf("Exported to %s", filename)
		}
		return m, nil

	case "enter":
		row := m.table.Cursor()
		if row >= 0 && row < len(m.queries) {
			if _, ok := m.results[m.queries[row].Key()]; ok {
				m.detailVisible = true
				m.detailIndex = row
				m.showAllBranches = false
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m ShelfModel) handleDetailKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "esc", "enter":
		m.detailVisible = false
	case "u":
		m.showAllBranches = !m.showAllBranches
	}
	return m, nil
}

// startFetch launches the batch in a goroutine and subscribes to its
// progress messages. With force unset, results still fresh in the cache
// are reused without touching the network.
func (m ShelfModel) startFetch(force bool) (tea.Model, tea.Cmd) {
	queries := m.selectedQueries()
	if len(queries) == 0 {
		m.statusLine = "No titles selected"
		return m, nil
	}

	ch := make(chan tea.Msg, 32)
	m.fetchCh = ch
	m.fetching = true
	m.progress = nil
	m.statusLine = ""

	database := m.database
	catalogue := m.catalogue
	ttl := m.cacheTTL

	go func() {
		onStatus := func(msg string) { ch <- statusMsg(msg) }

		results := make([]models.BookAvailability, 0, len(queries))
		for _, q := range queries {
			if !force && database != nil {
				if hit, ok, _ := database.GetCachedResult(q.Key(), ttl); ok {
					ch <- statusMsg(fmt.Sprintf("Using cached result for %s", q))
					results = append(results, *hit)
					continue
				}
			}

			res := fetch.One(q, catalogue, onStatus)
			if database != nil {
				database.SaveResult(res)
			}
			results = append(results, res)
		}

		ch <- fetchDoneMsg{results: results}
	}()

	return m, tea.Batch(m.spinner.Tick, waitForFetchMsg(ch))
}

func waitForFetchMsg(ch chan tea.Msg) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		return <-ch
	}
}

func (m *ShelfModel) toggleAll() {
	all := true
	for i := range m.queries {
		if !m.selected[i] {
			all = false
			break
		}
	}
	for i := range m.queries {
		m.selected[i] = !all
	}
}

func (m ShelfModel) selectedQueries() []models.BookQuery {
	var out []models.BookQuery
	for i, q := range m.queries {
		if m.selected[i] {
			out = append(out, q)
		}
	}
	return out
}

// orderedResults returns fetched results in watch-list order.
func (m ShelfModel) orderedResults() []models.BookAvailability {
	var out []models.BookAvailability
	for _, q := range m.queries {
		if r, ok := m.results[q.Key()]; ok {
			out = append(out, r)
		}
	}
	return out
}

func (m *ShelfModel) refreshRows() {
	rows := make([]table.Row, len(m.queries))
	for i, q := range m.queries {
		mark := "[ ]"
		if m.selected[i] {
			mark = "[x]"
		}

		copies := "-"
		status := "not checked"
		if r, ok := m.results[q.Key()]; ok {
			switch {
			case r.Err != "":
				status = truncate(r.Err, ColWidthStatus)
			case r.AnyAvailable():
				copies = fmt.Sprintf("%d/%d", r.TotalAvailable(), len(r.Copies))
				status = "Available"
			default:
				copies = fmt.Sprintf("0/%d", len(r.Copies))
				status = "NOT available"
			}
		}

		rows[i] = table.Row{
			mark,
			truncate(q.Title, ColWidthTitle),
			truncate(q.Author, ColWidthAuthor),
			copies,
			status,
		}
	}
	m.table.SetRows(rows)
}

func (m ShelfModel) View() string {
	if m.detailVisible {
		return m.detailView()
	}
	return m.listView()
}

func (m ShelfModel) listView() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("NLB Library Availability"))
	b.WriteString("\n")

	checked := m.orderedResults()
	if len(checked) > 0 {
		available := 0
		for _, r := range checked {
			if r.AnyAvailable() {
				available++
			}
		}
		b.WriteString(StatsStyle.Render(
			fmt.Sprintf("%d/%d titles have copies available right now", available, len(checked))))
		b.WriteString("\n\n")
	} else {
		b.WriteString(RenderHint("Select titles and press f to check availability"))
		b.WriteString("\n\n")
	}

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if m.fetching {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), RenderNormal("Querying NLB catalogue...")))
		start := 0
		if len(m.progress) > progressLines {
			start = len(m.progress) - progressLines
		}
		for _, line := range m.progress[start:] {
			b.WriteString(ProgressStyle.Render("  " + line))
			b.WriteString("\n")
		}
	}

	if m.statusLine != "" {
		b.WriteString(AccentStyle.Render(m.statusLine))
		b.WriteString("\n")
	}

	if m.helpVisible {
		b.WriteString(RenderHint(strings.Join([]string{
			"space: toggle title   t: toggle all   f: check selected   F: re-check (skip cache)",
			"enter: branch detail  a: add title    x: export markdown  C: clear cached results",
			"D: clear saved titles q: quit         ?: close help",
		}, "\n")))
		b.WriteString("\n")
	} else {
		b.WriteString(RenderHint("space: select  f: check  enter: detail  a: add  ?: help  q: quit"))
		b.WriteString("\n")
	}

	return BorderStyle.Width(m.layout.InnerWidth).Render(b.String())
}

func (m ShelfModel) detailView() string {
	q := m.queries[m.detailIndex]
	r, ok := m.results[q.Key()]

	var b strings.Builder
	b.WriteString(TitleStyle.Render(q.String()))
	b.WriteString("\n")

	switch {
	case !ok:
		b.WriteString(RenderHint("Not checked yet"))
		b.WriteString("\n")

	case r.Err != "":
		b.WriteString(BadStyle.Render(r.Err))
		b.WriteString("\n")

	default:
		summaries := r.BranchSummaries()
		if len(summaries) == 0 {
			b.WriteString(RenderHint("No copy records returned."))
			b.WriteString("\n")
		} else {
			b.WriteString(StatsStyle.Render(fmt.Sprintf(
				"%d / %d copies available across %d branch(es)",
				r.TotalAvailable(), len(r.Copies), len(summaries))))
			b.WriteString("\n\n")

			shown := 0
			for _, s := range summaries {
				if !m.showAllBranches && s.Available == 0 {
					continue
				}
				shown++
				style := BadStyle
				if s.Available > 0 {
					style = GoodStyle
				}
				b.WriteString(fmt.Sprintf("  %s — %s\n",
					style.Render(s.Library), RenderNormal(s.Label())))
			}
			if shown == 0 {
				b.WriteString(RenderHint("  No branches with available copies (press u to show all)"))
				b.WriteString("\n")
			}
		}

		if len(r.BRNs) > 0 {
			b.WriteString("\n")
			b.WriteString(RenderHint(fmt.Sprintf("BRN(s): %s", joinInts(r.BRNs))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(RenderHint("u: toggle unavailable branches  esc: back"))
	b.WriteString("\n")

	return BorderStyle.Width(m.layout.InnerWidth).Render(b.String())
}

func truncate(s string, width int) string {
	if len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d", v)
	}
	return strings.Join(parts, ", ")
}
