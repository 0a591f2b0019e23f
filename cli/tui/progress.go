package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/pithecene-io/assay/metrics"
	"github.com/pithecene-io/assay/runner"
)

// ErrInterrupted is returned when the user quits before the run finishes.
var ErrInterrupted = errors.New("check interrupted")

// pollInterval is how often the view refreshes its metrics snapshot.
const pollInterval = 100 * time.Millisecond

// tickMsg triggers a metrics snapshot refresh.
type tickMsg time.Time

// doneMsg carries the finished run into the model.
type doneMsg struct {
	result *runner.RunResult
	err    error
}

// keyMap defines key bindings.
type keyMap struct {
	Quit key.Binding
}

var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ProgressModel is a Bubble Tea model showing a check run as it happens.
// It never touches the run itself; it only reads metrics snapshots.
type ProgressModel struct {
	spinner   spinner.Model
	collector *metrics.Collector
	snapshot  metrics.Snapshot
	started   time.Time

	result      *runner.RunResult
	err         error
	done        bool
	interrupted bool
	width       int
}

// NewProgress creates a progress model reading from collector.
func NewProgress(collector *metrics.Collector) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(primaryColor)

	return ProgressModel{
		spinner:   sp,
		collector: collector,
		started:   time.Now(),
	}
}

// Init implements tea.Model.
func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tick())
}

func tick() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.done {
			return m, nil
		}
		m.snapshot = m.collector.Snapshot()
		return m, tick()

	case doneMsg:
		m.done = true
		m.result = msg.result
		m.err = msg.err
		m.snapshot = m.collector.Snapshot()
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			if !m.done {
				m.interrupted = true
			}
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model.
func (m ProgressModel) View() string {
	var b strings.Builder

	if m.done {
		b.WriteString(TitleStyle.Render("Check complete"))
	} else {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(TitleStyle.Render("Checking links"))
	}
	b.WriteString("\n\n")

	s := m.snapshot
	boxes := []string{
		m.renderStatBox("Documents", s.DocumentsScanned, highlightColor),
		m.renderStatBox("Links", s.LinksExtracted, highlightColor),
		m.renderStatBox("Cache hits", s.CacheHits, warningColor),
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
	b.WriteString("\n")

	if m.done {
		boxes = []string{
			m.renderStatBox("Valid", s.LinksValid, successColor),
			m.renderStatBox("Ignored", s.LinksIgnored, mutedColor),
			m.renderStatBox("Unverified", s.LinksUnverified, errorColor),
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, boxes...))
		b.WriteString("\n")
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)
	b.WriteString(HelpStyle.Render(fmt.Sprintf("%s elapsed · press q to quit", elapsed)))
	b.WriteString("\n")

	return b.String()
}

func (m ProgressModel) renderStatBox(label string, value int64, color lipgloss.Color) string {
	boxStyle := StatBoxStyle.BorderForeground(color)

	valueStr := StatValueStyle.Foreground(color).Render(fmt.Sprintf("%d", value))
	labelStr := StatLabelStyle.Render(label)

	content := lipgloss.JoinVertical(lipgloss.Center, valueStr, labelStr)

	return boxStyle.Render(content)
}

// Run executes check while displaying its progress, and returns the run
// result once both the check and the view have finished.
func Run(collector *metrics.Collector, check func() (*runner.RunResult, error)) (*runner.RunResult, error) {
	p := tea.NewProgram(NewProgress(collector))

	go func() {
		result, err := check()
		p.Send(doneMsg{result: result, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return nil, err
	}

	m, ok := final.(ProgressModel)
	if !ok {
		return nil, fmt.Errorf("unexpected model type %T", final)
	}
	if m.interrupted {
		return nil, ErrInterrupted
	}
	return m.result, m.err
}
