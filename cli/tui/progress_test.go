package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/pithecene-io/assay/metrics"
	"github.com/pithecene-io/assay/runner"
)

func TestProgressTickRefreshesSnapshot(t *testing.T) {
	collector := metrics.NewCollector("run-1", "memory", "none")
	collector.IncDocumentScanned()
	collector.AddLinksExtracted(7)

	m := NewProgress(collector)
	updated, cmd := m.Update(tickMsg(time.Now()))
	m = updated.(ProgressModel)

	if m.snapshot.LinksExtracted != 7 {
		t.Errorf("snapshot links = %d, want 7", m.snapshot.LinksExtracted)
	}
	if cmd == nil {
		t.Error("expected a follow-up tick while running")
	}

	view := m.View()
	if !strings.Contains(view, "7") {
		t.Errorf("view missing link count:\n%s", view)
	}
	if !strings.Contains(view, "Checking links") {
		t.Errorf("view missing running title:\n%s", view)
	}
}

func TestProgressDone(t *testing.T) {
	collector := metrics.NewCollector("run-1", "memory", "none")
	collector.AbsorbOutcome(3, 1, 2)

	m := NewProgress(collector)
	updated, cmd := m.Update(doneMsg{result: &runner.RunResult{RunID: "run-1"}})
	m = updated.(ProgressModel)

	if !m.done {
		t.Error("model not marked done")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("cmd() = %v, want quit", msg)
	}

	view := m.View()
	if !strings.Contains(view, "Check complete") {
		t.Errorf("view missing completion title:\n%s", view)
	}
	if !strings.Contains(view, "Unverified") {
		t.Errorf("done view missing result boxes:\n%s", view)
	}

	// Ticks after completion must not reschedule.
	_, cmd = m.Update(tickMsg(time.Now()))
	if cmd != nil {
		t.Error("tick after done should not reschedule")
	}
}

func TestProgressQuitBeforeDone(t *testing.T) {
	m := NewProgress(metrics.NewCollector("run-1", "memory", "none"))
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(ProgressModel)

	if !m.interrupted {
		t.Error("quitting mid-run should mark the model interrupted")
	}
	if cmd == nil {
		t.Error("expected quit command")
	}
}

func TestProgressCarriesRunError(t *testing.T) {
	runErr := errors.New("walk failed")
	m := NewProgress(metrics.NewCollector("run-1", "memory", "none"))
	updated, _ := m.Update(doneMsg{err: runErr})
	m = updated.(ProgressModel)

	if !errors.Is(m.err, runErr) {
		t.Errorf("model err = %v, want %v", m.err, runErr)
	}
}
