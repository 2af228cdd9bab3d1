package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"pvemcp/internal/color"
	"pvemcp/internal/tools"
)

type model struct {
	ds   DataSource
	keys KeyMap

	rows     []guestRow
	cursor   int
	loading  bool
	lastErr  error
	spin     spinner.Model
	log      []string
	width    int
	height   int
	ready    bool
	quitting bool
}

// InitialModel builds the dashboard model for the given data source.
func InitialModel(ds DataSource) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return model{
		ds:      ds,
		keys:    DefaultKeyMap(),
		loading: true,
		spin:    sp,
	}
}

// Run starts the dashboard and blocks until the user quits.
func Run(ds DataSource) error {
	p := tea.NewProgram(InitialModel(ds), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, fetchGuestsCmd(m.ds), tickCmd())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tickMsg:
		m.loading = true
		return m, tea.Batch(fetchGuestsCmd(m.ds), tickCmd())

	case guestsMsg:
		m.loading = false
		m.lastErr = msg.err
		if msg.err == nil {
			m.rows = msg.rows
			if m.cursor >= len(m.rows) {
				m.cursor = max(0, len(m.rows)-1)
			}
		}
		return m, nil

	case controlDoneMsg:
		if msg.err != nil {
			m.appendLog(fmt.Sprintf("%s: %v", msg.label, msg.err))
		} else {
			m.appendLog(msg.label + ": requested")
		}
		m.loading = true
		return m, fetchGuestsCmd(m.ds)
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, fetchGuestsCmd(m.ds)

	case key.Matches(msg, m.keys.Copy):
		if row, ok := m.selected(); ok {
			if err := clipboard.WriteAll(row.Selector()); err != nil {
				m.appendLog(fmt.Sprintf("copy %s: %v", row.Selector(), err))
			} else {
				m.appendLog("copied " + row.Selector())
			}
		}

	case key.Matches(msg, m.keys.Start):
		if row, ok := m.selected(); ok {
			return m, controlGuestCmd(m.ds, row, true)
		}

	case key.Matches(msg, m.keys.Stop):
		if row, ok := m.selected(); ok {
			return m, controlGuestCmd(m.ds, row, false)
		}
	}
	return m, nil
}

func (m model) selected() (guestRow, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return guestRow{}, false
	}
	return m.rows[m.cursor], true
}

func (m *model) appendLog(line string) {
	stamp := time.Now().Format("15:04:05")
	m.log = append(m.log, stamp+" "+line)
	if len(m.log) > maxLogLines {
		m.log = m.log[len(m.log)-maxLogLines:]
	}
}

func (m model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	title := " Proxmox Guests "
	if m.loading {
		title += m.spin.View()
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n")

	if m.lastErr != nil {
		b.WriteString(color.Error.Render("error: " + m.lastErr.Error()))
		b.WriteString("\n")
	}

	b.WriteString(panelStyle.Width(max(20, m.width-2)).Render(m.renderRows()))
	b.WriteString("\n")

	if len(m.log) > 0 {
		b.WriteString(m.renderLog())
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("↑/↓ move • r refresh • c copy selector • s start • x stop • q quit"))
	return appStyle.Render(b.String())
}

// renderRows renders the guest list with the cursor row highlighted. Long
// lines are truncated to the terminal width so wide names never wrap.
func (m model) renderRows() string {
	if len(m.rows) == 0 {
		return "no guests found"
	}

	maxWidth := max(20, m.width-6)
	lines := make([]string, 0, len(m.rows))
	for i, row := range m.rows {
		kindIcon := iconLXC
		if row.Kind == kindQEMU {
			kindIcon = iconQEMU
		}

		statusIcon := iconOther
		switch row.Status {
		case "running":
			statusIcon = iconRunning
		case "stopped":
			statusIcon = iconStopped
		}
		style := color.ForStatus(row.Status)

		mem := ""
		if row.MaxMem > 0 {
			mem = fmt.Sprintf("  %s / %s",
				tools.BytesToHuman(float64(row.Mem)), tools.BytesToHuman(float64(row.MaxMem)))
		}

		line := fmt.Sprintf("%s %s %-20s %s:%d  %s %s%s",
			kindIcon, statusIcon, row.Name, row.Node, row.VMID, row.Kind, row.Status, mem)
		if runewidth.StringWidth(line) > maxWidth {
			line = runewidth.Truncate(line, maxWidth-1, "…")
		}

		if i == m.cursor {
			lines = append(lines, selectedRowStyle.Render(line))
		} else {
			lines = append(lines, style.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) renderLog() string {
	shown := m.log
	if len(shown) > 5 {
		shown = shown[len(shown)-5:]
	}
	lines := make([]string, 0, len(shown))
	for _, l := range shown {
		lines = append(lines, logLineStyle.Render(l))
	}
	return strings.Join(lines, "\n")
}
