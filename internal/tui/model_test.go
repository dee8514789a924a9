package tui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/agbru/rangesum/internal/config"
	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/reducer"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	candidates := []orchestration.Candidate{
		{Key: "formula", Summer: reducer.FormulaSummer{}},
		{Key: "loop", Summer: &reducer.LoopSummer{}},
	}
	cfg := config.AppConfig{Start: 1, End: 1001, Workers: 2, Algo: "all"}
	m := NewModel(context.Background(), candidates, cfg, "v1.2.3")
	t.Cleanup(m.cancel)
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewModel_OneRowPerSlot(t *testing.T) {
	m := newTestModel(t)

	want := []string{"formula #0", "formula #1", "loop #0", "loop #1"}
	if len(m.rows) != len(want) {
		t.Fatalf("got %d rows, want %d", len(m.rows), len(want))
	}
	for i, label := range want {
		if m.rows[i].label != label {
			t.Errorf("row %d label = %q, want %q", i, m.rows[i].label, label)
		}
	}
}

func TestModel_ProgressMsg(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, ProgressMsg{WorkerIndex: 2, Value: 0.5, AverageProgress: 0.125, ETA: time.Second})
	if m.rows[2].value != 0.5 {
		t.Errorf("row 2 value = %v, want 0.5", m.rows[2].value)
	}
	if m.average != 0.125 || m.eta != time.Second {
		t.Errorf("average/eta = %v/%v", m.average, m.eta)
	}

	// Out-of-range indices are ignored.
	m, _ = update(t, m, ProgressMsg{WorkerIndex: 99, Value: 1})
	m, _ = update(t, m, ProgressMsg{WorkerIndex: -1, Value: 1})
	for i, row := range m.rows {
		if i != 2 && row.value != 0 {
			t.Errorf("row %d unexpectedly updated to %v", i, row.value)
		}
	}
}

func TestModel_ReductionComplete(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, ReductionCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: 7})
	if m.done {
		t.Fatal("stale completion should be ignored")
	}

	m, _ = update(t, m, ReductionCompleteMsg{ExitCode: apperrors.ExitErrorMismatch, Generation: 0})
	if !m.done || m.exitCode != apperrors.ExitErrorMismatch {
		t.Errorf("done=%v exitCode=%d", m.done, m.exitCode)
	}
	if !strings.Contains(m.View(), "Results differ") {
		t.Error("expected mismatch notice in view")
	}

	// Ticks stop once the run is done.
	if _, cmd := update(t, m, TickMsg(time.Now())); cmd != nil {
		t.Error("expected no command after completion")
	}
}

func TestModel_ContextCancelledQuits(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, ContextCancelledMsg{Err: context.DeadlineExceeded, Generation: 0})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.exitCode != apperrors.ExitErrorTimeout {
		t.Errorf("exitCode = %d, want %d", m.exitCode, apperrors.ExitErrorTimeout)
	}
}

func TestModel_QuitKeyCancels(t *testing.T) {
	m := newTestModel(t)

	_, cmd := update(t, m, keyMsg("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
	if m.ctx.Err() == nil {
		t.Error("expected run context to be canceled")
	}
}

func TestModel_RestartResetsState(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, ProgressMsg{WorkerIndex: 0, Value: 1, AverageProgress: 0.25})
	m, _ = update(t, m, ErrorMsg{Err: errors.New("boom"), Duration: time.Second})
	oldCtx := m.ctx

	m, cmd := update(t, m, keyMsg("r"))
	if cmd == nil {
		t.Fatal("expected restart commands")
	}
	if m.generation != 1 {
		t.Errorf("generation = %d, want 1", m.generation)
	}
	if m.done || m.failure != nil || m.average != 0 || m.rows[0].value != 0 {
		t.Error("expected state to be reset")
	}
	if oldCtx.Err() == nil {
		t.Error("expected previous run context to be canceled")
	}
	if m.ctx.Err() != nil {
		t.Error("expected fresh run context")
	}
}

func TestModel_RestartDiscardsPreviousRun(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, keyMsg("r"))
	if m.generation != 1 {
		t.Fatalf("generation = %d, want 1", m.generation)
	}

	canceled := orchestration.ReductionOutcome{Key: "loop", Err: context.Canceled}
	stale := []tea.Msg{
		ProgressMsg{WorkerIndex: 0, Value: 0.75, AverageProgress: 0.5, Generation: 0},
		ComparisonResultsMsg{Outcomes: []orchestration.ReductionOutcome{canceled}, Generation: 0},
		FinalResultMsg{Outcome: canceled, Generation: 0},
		ErrorMsg{Err: context.Canceled, Duration: time.Second, Generation: 0},
		ReductionCompleteMsg{ExitCode: apperrors.ExitErrorCanceled, Generation: 0},
	}
	for _, msg := range stale {
		m, _ = update(t, m, msg)
	}

	if m.done || m.failure != nil || m.final != nil || len(m.outcomes) != 0 {
		t.Errorf("restarted run took stale results: done=%v failure=%v final=%v outcomes=%d",
			m.done, m.failure != nil, m.final != nil, len(m.outcomes))
	}
	if m.rows[0].value != 0 || m.average != 0 {
		t.Errorf("restarted run took stale progress: row0=%v average=%v", m.rows[0].value, m.average)
	}
	if _, cmd := update(t, m, TickMsg(time.Now())); cmd == nil {
		t.Error("expected ticks to continue for the restarted run")
	}

	m, _ = update(t, m, ProgressMsg{WorkerIndex: 1, Value: 0.25, Generation: 1})
	m, _ = update(t, m, ErrorMsg{Err: errors.New("boom"), Generation: 1})
	if m.rows[1].value != 0.25 || m.failure == nil || !m.done {
		t.Error("expected messages of the current run to be applied")
	}
}

func TestModel_HelpToggle(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, keyMsg("?"))
	if !m.help.ShowAll {
		t.Error("expected full help after '?'")
	}
}

func TestModel_View(t *testing.T) {
	m := newTestModel(t)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, SysStatsMsg{CPUPercent: 42, MemPercent: 10})

	res, err := reducer.Reduce(1, 1001, 2)
	if err != nil {
		t.Fatalf("Reduce: %v", err)
	}
	oc := orchestration.ReductionOutcome{Key: "loop", Result: res, Duration: time.Millisecond}
	m, _ = update(t, m, ComparisonResultsMsg{Outcomes: []orchestration.ReductionOutcome{oc}})
	m, _ = update(t, m, FinalResultMsg{Outcome: oc})

	view := m.View()
	for _, want := range []string{"rangesum Monitor v1.2.3", "[1, 1001)", "loop #1", "500,500", "CPU", "quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestHistory_Push(t *testing.T) {
	h := newHistory(3)
	for _, v := range []float64{1, 2, 3, 4} {
		h.Push(v)
	}
	if len(h.samples) != 3 || h.samples[0] != 2 || h.Last() != 4 {
		t.Errorf("samples = %v", h.samples)
	}
	if got := renderSparkline([]float64{0, 100, 150, -5}); got != "▁██▁" {
		t.Errorf("renderSparkline = %q", got)
	}
}
