package sim

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"dataops-idle/internal/config"
	"dataops-idle/internal/game"
)

// teaProgram abstracts bubbletea.Program for testing.
type teaProgram interface {
	Send(tea.Msg)
}

// logMsg carries a tick log line and row data.
type logMsg struct {
	line string
	row  game.TickRow
}

// incidentMsg carries an incident log line.
type incidentMsg struct{ line string }

// datasetMsg carries a per-dataset status update.
type datasetMsg struct{ game.DatasetRow }

// adminMsg reports admin UI status.
type adminMsg struct{ active bool }

type setHireMsg struct{ fn func(string) bool }

const maxSectionHeightPct = 0.2

// TUIWriter renders the running game using a bubbletea TUI.
type TUIWriter struct {
	program       teaProgram
	datasetColors map[string]string
	colorIdx      int
	done          chan struct{}
	sendSignal    atomic.Bool
}

// NewTUIWriter starts a bubbletea program and returns a TUIWriter.
func NewTUIWriter(content *config.GameContent) *TUIWriter {
	dc := make(map[string]string)
	w := &TUIWriter{datasetColors: dc, done: make(chan struct{})}
	w.sendSignal.Store(true)
	m := newTUIModel(content, dc)
	p := tea.NewProgram(m, tea.WithAltScreen())
	w.program = p
	for _, d := range content.Datasets {
		w.getDatasetColor(d.ID)
	}
	go func() {
		_ = p.Start()
		close(w.done)
		if w.sendSignal.Load() {
			if proc, err := os.FindProcess(os.Getpid()); err == nil {
				_ = proc.Signal(os.Interrupt)
			}
		}
	}()
	return w
}

func (w *TUIWriter) getDatasetColor(id string) string {
	if c, ok := w.datasetColors[id]; ok {
		return c
	}
	c := datasetPalette[w.colorIdx%len(datasetPalette)]
	w.datasetColors[id] = c
	w.colorIdx++
	return c
}

// WriteTick implements TickWriter.
func (w *TUIWriter) WriteTick(row game.TickRow) error {
	slaColor := colorGreen
	switch {
	case row.GlobalSLA < 70:
		slaColor = colorRed
	case row.GlobalSLA < 90:
		slaColor = colorYellow
	}
	line := fmt.Sprintf("%s[%s]%s %sdc=+%.3f%s %sbalance=%.2f%s %ssla=%.1f%s %sdatasets=%d%s %sincidents=%d%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		colorGreen, row.DCGenerated, colorReset,
		colorCyan, row.DCBalance, colorReset,
		slaColor, row.GlobalSLA, colorReset,
		colorBlue, row.Datasets, colorReset,
		colorMagenta, row.Incidents, colorReset,
	)
	if row.Paused {
		line += fmt.Sprintf(" %spaused%s", colorRed, colorReset)
	}
	w.program.Send(logMsg{line: line, row: row})
	return nil
}

// WriteIncident implements IncidentWriter.
func (w *TUIWriter) WriteIncident(row game.IncidentRow) error {
	evColor := colorRed
	if row.Event == game.IncidentResolved {
		evColor = colorGreen
	}
	dsColor := w.getDatasetColor(row.DatasetID)
	line := fmt.Sprintf("%s[%s]%s %s%s%s %stype=%s%s %sdataset=%s%s id=%s",
		colorGray, row.Timestamp.Format(time.RFC3339), colorReset,
		evColor, row.Event, colorReset,
		colorMagenta, row.Type, colorReset,
		dsColor, row.DatasetID, colorReset,
		row.IncidentID)
	w.program.Send(incidentMsg{line: line})
	return nil
}

// WriteIncidents outputs multiple incident events.
func (w *TUIWriter) WriteIncidents(rows []game.IncidentRow) error {
	for _, r := range rows {
		_ = w.WriteIncident(r)
	}
	return nil
}

// WriteDataset implements DatasetWriter.
func (w *TUIWriter) WriteDataset(row game.DatasetRow) error {
	w.program.Send(datasetMsg{row})
	return nil
}

// WriteDatasets outputs multiple dataset rows.
func (w *TUIWriter) WriteDatasets(rows []game.DatasetRow) error {
	for _, r := range rows {
		_ = w.WriteDataset(r)
	}
	return nil
}

// SetAdminStatus updates the admin UI indicator.
func (w *TUIWriter) SetAdminStatus(active bool) {
	w.program.Send(adminMsg{active: active})
}

// SetStaffHirer registers a callback to hire staff by ID.
func (w *TUIWriter) SetStaffHirer(fn func(string) bool) {
	w.program.Send(setHireMsg{fn: fn})
}

// Close shuts down the TUI program and waits for cleanup.
func (w *TUIWriter) Close() error {
	w.sendSignal.Store(false)
	if w.program != nil {
		w.program.Send(tea.Quit())
	}
	if w.done != nil {
		<-w.done
	}
	return nil
}

type tuiModel struct {
	content       *config.GameContent
	table         table.Model
	vp            viewport.Model
	incVP         viewport.Model
	logs          []string
	incLogs       []string
	lastTick      game.TickRow
	datasetRows   map[string]game.DatasetRow
	datasetOrder  []string
	admin         bool
	wrap          bool
	autoscroll    bool
	header        string
	headerHeight  int
	height        int
	datasetColors map[string]string
	hire          func(string) bool
	hireInput     textinput.Model
	hireDialog    bool
	hireNotice    string
	showCatalog   bool
	showDatasets  bool
	help          bool
}

func newTUIModel(content *config.GameContent, datasetColors map[string]string) tuiModel {
	cols := []table.Column{
		{Title: "Dataset", Width: 16},
		{Title: "Risk", Width: 8},
		{Title: "Rate/min", Width: 10},
		{Title: "Volume", Width: 8},
	}
	rows := make([]table.Row, 0, len(content.Datasets))
	for _, d := range content.Datasets {
		rows = append(rows, table.Row{
			d.ID,
			string(d.Risk),
			fmt.Sprintf("%.1f", d.BaseRatePerMinute),
			fmt.Sprintf("%.0f", d.Volume),
		})
	}
	t := table.New(table.WithColumns(cols), table.WithRows(rows), table.WithHeight(len(rows)+1))
	vp := viewport.New(0, 0)
	incVP := viewport.New(0, 0)
	m := tuiModel{
		content:       content,
		table:         t,
		vp:            vp,
		incVP:         incVP,
		datasetColors: datasetColors,
		datasetRows:   make(map[string]game.DatasetRow),
		autoscroll:    true,
		showCatalog:   true,
		showDatasets:  true,
	}
	return m
}

func (m tuiModel) Init() tea.Cmd { return nil }

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		tableWidth := msg.Width
		if m.showCatalog {
			tableWidth = msg.Width / 2
		}
		m.table.SetWidth(tableWidth)
		m.vp.Width = msg.Width
		m.incVP.Width = msg.Width
		m.height = msg.Height
		m.header = m.renderHeader()
		m.headerHeight = lipgloss.Height(m.header)
		m.updateViewportHeight()
		m.refreshViewport()
		m.refreshIncidents()
	case tea.KeyMsg:
		if m.hireDialog {
			switch msg.Type {
			case tea.KeyEnter:
				id := strings.TrimSpace(m.hireInput.Value())
				if id != "" && m.hire != nil {
					if m.hire(id) {
						m.hireNotice = fmt.Sprintf("hired %s", id)
					} else {
						m.hireNotice = fmt.Sprintf("cannot hire %s", id)
					}
				}
				m.hireDialog = false
				m.updateViewportHeight()
			case tea.KeyEsc:
				m.hireDialog = false
				m.updateViewportHeight()
			default:
				var cmd tea.Cmd
				m.hireInput, cmd = m.hireInput.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		if m.help {
			switch msg.String() {
			case "?", "h", "esc":
				m.help = false
				m.updateViewportHeight()
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "w":
			m.wrap = !m.wrap
			m.refreshViewport()
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "s":
			m.autoscroll = !m.autoscroll
			if m.autoscroll {
				m.vp.GotoBottom()
				m.incVP.GotoBottom()
			}
			return m, nil
		case "o":
			m.hireInput = textinput.New()
			m.hireInput.Placeholder = "staff id"
			if len(m.content.Staff) > 0 {
				m.hireInput.SetValue(m.content.Staff[0].ID)
			}
			m.hireInput.CursorEnd()
			m.hireInput.Focus()
			m.hireDialog = true
			m.updateViewportHeight()
			return m, nil
		case "p":
			m.showCatalog = !m.showCatalog
			width := m.vp.Width
			if m.showCatalog {
				m.table.SetWidth(width / 2)
			} else {
				m.table.SetWidth(width)
			}
			m.header = m.renderHeader()
			m.headerHeight = lipgloss.Height(m.header)
			m.updateViewportHeight()
			return m, nil
		case "d":
			m.showDatasets = !m.showDatasets
			m.updateViewportHeight()
			return m, nil
		case "h", "?":
			m.help = !m.help
			m.updateViewportHeight()
			return m, nil
		}
		if !m.autoscroll {
			switch msg.String() {
			case "j", "down":
				m.vp.LineDown(1)
				m.incVP.LineDown(1)
			case "k", "up":
				m.vp.LineUp(1)
				m.incVP.LineUp(1)
			case "pgdown", "ctrl+n":
				m.vp.LineDown(10)
				m.incVP.LineDown(10)
			case "pgup", "ctrl+p":
				m.vp.LineUp(10)
				m.incVP.LineUp(10)
			default:
				var cmd tea.Cmd
				m.vp, cmd = m.vp.Update(msg)
				m.incVP, _ = m.incVP.Update(msg)
				return m, cmd
			}
			return m, nil
		}
		return m, nil
	case logMsg:
		m.logs = append(m.logs, msg.line)
		if len(m.logs) > 1000 {
			m.logs = m.logs[len(m.logs)-1000:]
		}
		m.lastTick = msg.row
		m.refreshViewport()
	case incidentMsg:
		m.incLogs = append(m.incLogs, msg.line)
		if len(m.incLogs) > 1000 {
			m.incLogs = m.incLogs[len(m.incLogs)-1000:]
		}
		m.updateViewportHeight()
		m.refreshIncidents()
		m.refreshViewport()
	case datasetMsg:
		if _, ok := m.datasetRows[msg.DatasetID]; !ok {
			m.datasetOrder = append(m.datasetOrder, msg.DatasetID)
		}
		m.datasetRows[msg.DatasetID] = msg.DatasetRow
	case adminMsg:
		m.admin = msg.active
	case setHireMsg:
		m.hire = msg.fn
	}
	return m, nil
}

func (m *tuiModel) updateViewportHeight() {
	bottomHeight := lipgloss.Height(m.renderBottom())

	maxLines := m.maxSectionLines()
	incLines := len(m.incLogs)
	if incLines == 0 {
		incLines = 1
	}
	if incLines > maxLines {
		incLines = maxLines
	}
	m.incVP.Height = incLines

	incHeight := 1 + m.incVP.Height
	datasetHeight := 0
	if m.showDatasets || m.hireDialog {
		datasetHeight = lipgloss.Height(m.renderDatasets())
	}
	h := m.height - m.headerHeight - bottomHeight - incHeight - datasetHeight - 4
	if h < 0 {
		h = 0
	}
	m.vp.Height = h
	if m.autoscroll {
		m.incVP.GotoBottom()
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshViewport() {
	var lines []string
	for _, l := range m.logs {
		if m.wrap {
			lines = append(lines, wordwrap.String(l, m.vp.Width))
		} else {
			lines = append(lines, l)
		}
	}
	m.vp.SetContent(strings.Join(lines, "\n"))
	if m.autoscroll {
		m.vp.GotoBottom()
	}
}

func (m *tuiModel) refreshIncidents() {
	content := "none"
	if len(m.incLogs) > 0 {
		content = strings.Join(m.incLogs, "\n")
	}
	m.incVP.SetContent(content)
	if m.autoscroll {
		m.incVP.GotoBottom()
	}
}

func (m tuiModel) maxSectionLines() int {
	h := int(float64(m.height) * maxSectionHeightPct)
	if h < 1 {
		h = 1
	}
	return h
}

func (m tuiModel) View() string {
	if m.help {
		return m.renderHelp()
	}
	bottom := m.renderBottom()
	divider := strings.Repeat("─", m.vp.Width)
	sections := []string{
		m.header,
		divider,
		m.vp.View(),
		divider,
		"Incidents:",
		m.incVP.View(),
	}
	if m.showDatasets || m.hireDialog {
		sections = append(sections, divider, m.renderDatasets())
	}
	sections = append(sections, divider, bottom)
	return strings.Join(sections, "\n")
}

func (m tuiModel) renderHeader() string {
	tableView := m.table.View()
	if !m.showCatalog {
		return tableView
	}
	staffWidth := m.vp.Width/2 - 1
	staff := renderStaffTree(m.content, m.wrap, staffWidth)
	sep := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("│")
	return lipgloss.JoinHorizontal(lipgloss.Top, tableView, sep, staff)
}

func renderStaffTree(content *config.GameContent, wrap bool, width int) string {
	var b strings.Builder
	b.WriteString("Staff\n")
	for i, s := range content.Staff {
		prefix := "├─"
		if i == len(content.Staff)-1 {
			prefix = "└─"
		}
		line := fmt.Sprintf("%s %s - %s (dc x%.2f, resolve x%.2f, cost %.0f)",
			prefix, s.ID, s.Name, s.DCMultiplier, s.ResolutionSpeedMult, s.Cost)
		if wrap && width > 0 {
			line = wordwrap.String(line, width)
		}
		b.WriteString(line + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderDatasets() string {
	if m.hireDialog {
		return fmt.Sprintf("Hire Staff (id) - Enter to hire, Esc to cancel: %s", m.hireInput.View())
	}
	if len(m.datasetOrder) == 0 {
		return "Datasets: none"
	}
	maxLines := m.maxSectionLines()
	start := len(m.datasetOrder) - maxLines
	if start < 0 {
		start = 0
	}
	var b strings.Builder
	b.WriteString("Datasets:\n")
	for _, id := range m.datasetOrder[start:] {
		r := m.datasetRows[id]
		statusColor := colorGreen
		switch r.Status {
		case game.StatusFailing:
			statusColor = colorRed
		case game.StatusWarning:
			statusColor = colorYellow
		}
		c := m.datasetColors[id]
		b.WriteString(fmt.Sprintf("%s%s%s sla=%.1f rate=%.3f incidents=%d %s%s%s\n",
			c, id, colorReset, r.SLA, r.Rate, r.Incidents, statusColor, r.Status, colorReset))
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m tuiModel) renderBottom() string {
	adminColor := lipgloss.Color("9")
	if m.admin {
		adminColor = lipgloss.Color("10")
	}
	wrapColor := lipgloss.Color("9")
	if m.wrap {
		wrapColor = lipgloss.Color("10")
	}
	scrollColor := lipgloss.Color("10")
	if !m.autoscroll {
		scrollColor = lipgloss.Color("9")
	}
	datasetsColor := lipgloss.Color("10")
	if !m.showDatasets {
		datasetsColor = lipgloss.Color("9")
	}
	adminIndicator := lipgloss.NewStyle().Foreground(adminColor).Render("●")
	wrapIndicator := lipgloss.NewStyle().Foreground(wrapColor).Render("●")
	scrollIndicator := lipgloss.NewStyle().Foreground(scrollColor).Render("●")
	datasetsIndicator := lipgloss.NewStyle().Foreground(datasetsColor).Render("●")
	state := fmt.Sprintf("%sBALANCE%s %sdc=%.2f%s %ssla=%.1f%s %sincidents=%d%s %sprestige=%d%s",
		colorBlue, colorReset,
		colorGreen, m.lastTick.DCBalance, colorReset,
		colorCyan, m.lastTick.GlobalSLA, colorReset,
		colorMagenta, m.lastTick.Incidents, colorReset,
		colorYellow, m.lastTick.PrestigeLevel, colorReset)
	line := fmt.Sprintf("%s | Admin UI %s | Wrap %s | Scroll %s | Datasets %s", state, adminIndicator, wrapIndicator, scrollIndicator, datasetsIndicator)
	if m.hireNotice != "" {
		line = fmt.Sprintf("%s | %s", line, m.hireNotice)
	}
	return line
}

func (m tuiModel) renderHelp() string {
	lines := []string{
		"Key Bindings:",
		" q  quit",
		" w  toggle wrap for staff list",
		" s  toggle auto-scroll",
		" o  hire staff by id",
		" p  toggle dataset catalog",
		" d  toggle datasets section",
		" h/? toggle this help view",
		"",
		"When auto-scroll is disabled:",
		" j/k or up/down    scroll one line",
		" pgdown/pgup       scroll a page",
	}
	return strings.Join(lines, "\n")
}
