package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// maxVisible bounds how many recent items the TUI keeps on screen.
const maxVisible = 20

type tailModel struct {
	cfg      tailConfig
	events   chan tailEvent
	spin     spinner.Model
	visible  []string
	count    int
	errCount int
	err      error
	done     bool
	paused   bool
}

type tailEvent struct {
	line     string
	err      error
	terminal bool
}

// streamDoneMsg carries the terminal error, if any, once the stream ends.
type streamDoneMsg struct {
	err error
}

type streamItemMsg tailEvent

func newTailModel(cfg tailConfig) *tailModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	return &tailModel{
		cfg:    cfg,
		events: make(chan tailEvent, 64),
		spin:   sp,
	}
}

func (m *tailModel) Init() tea.Cmd {
	go m.runStream()
	return tea.Batch(m.spin.Tick, m.waitForEvent)
}

// runStream drives the HTTP stream on its own goroutine and feeds results
// into the event channel. The channel is closed after a final terminal
// event so waitForEvent can report completion.
func (m *tailModel) runStream() {
	err := tail(m.cfg, func(line string, itemErr error) bool {
		m.events <- tailEvent{line: line, err: itemErr}
		return true
	})
	if err != nil {
		m.events <- tailEvent{err: err, terminal: true}
	}
	close(m.events)
}

func (m *tailModel) waitForEvent() tea.Msg {
	ev, ok := <-m.events
	if !ok {
		return streamDoneMsg{}
	}
	if ev.terminal {
		return streamDoneMsg{err: ev.err}
	}
	return streamItemMsg(ev)
}

func (m *tailModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "p":
			m.paused = !m.paused
		}

	case streamItemMsg:
		if msg.err != nil {
			m.errCount++
			m.push(errorStyle.Render("! " + msg.err.Error()))
		} else {
			m.count++
			if !m.paused {
				m.push(itemStyle.Render(msg.line))
			}
		}
		return m, m.waitForEvent

	case streamDoneMsg:
		m.done = true
		m.err = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *tailModel) push(line string) {
	m.visible = append(m.visible, line)
	if len(m.visible) > maxVisible {
		m.visible = m.visible[len(m.visible)-maxVisible:]
	}
}

func (m *tailModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("streamtail"))
	b.WriteString(" ")
	b.WriteString(m.cfg.url)
	b.WriteString("\n\n")

	for _, line := range m.visible {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	status := countStyle.Render(fmt.Sprintf("%d items", m.count))
	if m.errCount > 0 {
		status += " " + errorStyle.Render(fmt.Sprintf("%d errors", m.errCount))
	}
	switch {
	case m.done && m.err != nil:
		b.WriteString(errorStyle.Render(fmt.Sprintf("stream failed: %v", m.err)))
		b.WriteString(" ")
		b.WriteString(status)
	case m.done:
		b.WriteString(status)
		b.WriteString(" " + countStyle.Render("(complete)"))
	default:
		b.WriteString(m.spin.View())
		b.WriteString(" streaming ")
		b.WriteString(status)
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("p pause output • q quit"))

	return b.String()
}

func runInteractive(cfg tailConfig) error {
	p := tea.NewProgram(newTailModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
