package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/rangesum/internal/config"
	apperrors "github.com/agbru/rangesum/internal/errors"
	"github.com/agbru/rangesum/internal/format"
	"github.com/agbru/rangesum/internal/orchestration"
	"github.com/agbru/rangesum/internal/sysmon"
)

// Layout constants for the TUI dashboard.
const (
	tickInterval    = 500 * time.Millisecond
	historyLen      = 30
	labelWidth      = 14
	minBarWidth     = 10
	defaultBarWidth = 40
)

// ExecutionState holds the execution-related fields of a TUI session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	candidates []orchestration.Candidate
	generation uint64
	done       bool
	exitCode   int
}

// workerRow is the progress of one progress slot.
type workerRow struct {
	label string
	value float64
}

// Model is the root bubbletea model for the TUI dashboard.
type Model struct {
	header HeaderModel
	bar    progressbar.Model
	help   help.Model
	keymap KeyMap

	rows     []workerRow
	average  float64
	eta      time.Duration
	outcomes []orchestration.ReductionOutcome
	final    *FinalResultMsg
	failure  *ErrorMsg
	cpu      history
	mem      history

	ExecutionState

	width     int
	parentCtx context.Context
	config    config.AppConfig
	ref       *programRef
}

// NewModel creates a new TUI model.
func NewModel(parentCtx context.Context, candidates []orchestration.Candidate, cfg config.AppConfig, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)

	var barOpts []progressbar.Option
	if progressGradient[0] != "" {
		barOpts = append(barOpts, progressbar.WithGradient(progressGradient[0], progressGradient[1]))
	} else {
		barOpts = append(barOpts, progressbar.WithSolidFill(""))
	}
	bar := progressbar.New(barOpts...)
	bar.Width = defaultBarWidth

	return Model{
		header: NewHeaderModel(version),
		bar:    bar,
		help:   help.New(),
		keymap: DefaultKeyMap(),
		rows:   newRows(candidates, cfg.Workers),
		cpu:    newHistory(historyLen),
		mem:    newHistory(historyLen),
		ExecutionState: ExecutionState{
			ctx:        ctx,
			cancel:     cancel,
			candidates: candidates,
			exitCode:   apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		ref:       &programRef{},
	}
}

// newRows lays out one row per progress slot, in the order used by
// orchestration.ExecuteReductions.
func newRows(candidates []orchestration.Candidate, workers int) []workerRow {
	rows := make([]workerRow, 0, orchestration.ProgressSlots(candidates, workers))
	for _, c := range candidates {
		for w := 0; w < workers; w++ {
			rows = append(rows, workerRow{label: fmt.Sprintf("%s #%d", c.Key, w)})
		}
	}
	return rows
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return m.startCmds()
}

func (m Model) startCmds() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		sampleSysStatsCmd(m.ctx),
		startReductionCmd(m.ref, m.ctx, m.candidates, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.bar.Width = max(msg.Width-labelWidth-12, minBarWidth)
		return m, nil

	case ProgressMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		if msg.WorkerIndex >= 0 && msg.WorkerIndex < len(m.rows) {
			m.rows[msg.WorkerIndex].value = msg.Value
		}
		m.average = msg.AverageProgress
		m.eta = msg.ETA
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.outcomes = msg.Outcomes
		return m, nil

	case FinalResultMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.final = &msg
		return m, nil

	case ErrorMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.failure = &msg
		m.done = true
		m.header.SetDone()
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		return m, tea.Batch(sampleSysStatsCmd(m.ctx), tickCmd())

	case SysStatsMsg:
		m.cpu.Push(msg.CPUPercent)
		m.mem.Push(msg.MemPercent)
		return m, nil

	case ReductionCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		if m.exitCode == apperrors.ExitSuccess {
			m.exitCode = apperrors.HandleReductionError(msg.Err, m.header.Elapsed(), io.Discard, nil)
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Restart):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)

		m.header.Reset()
		m.rows = newRows(m.candidates, m.config.Workers)
		m.average, m.eta = 0, 0
		m.outcomes, m.final, m.failure = nil, nil, nil
		m.done = false
		m.exitCode = apperrors.ExitSuccess
		return m, m.startCmds()
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	sections := []string{m.header.View(), m.progressView()}
	if res := m.resultView(); res != "" {
		sections = append(sections, res)
	}
	sections = append(sections, m.sysView(), m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) progressView() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s  %s %s  %s %s\n",
		labelStyle.Render("Interval"), valueStyle.Render(fmt.Sprintf("[%d, %d)", m.config.Start, m.config.End)),
		labelStyle.Render("Workers"), valueStyle.Render(fmt.Sprintf("%d", m.config.Workers)),
		labelStyle.Render("Algorithm"), valueStyle.Render(m.config.Algo))

	for _, row := range m.rows {
		fmt.Fprintf(&b, "%-*s %s\n", labelWidth, row.label, m.bar.ViewAs(row.value))
	}

	status := fmt.Sprintf("Overall %5.1f%%", m.average*100)
	if !m.done && m.eta > 0 {
		status += "  ETA " + format.FormatETA(m.eta)
	}
	b.WriteString(labelStyle.Render(status))
	return panelStyle.Render(b.String())
}

func (m Model) resultView() string {
	var lines []string
	for _, oc := range m.outcomes {
		if oc.Err != nil {
			lines = append(lines, errorStyle.Render(fmt.Sprintf("%-10s failed: %v", oc.Key, oc.Err)))
			continue
		}
		lines = append(lines, fmt.Sprintf("%-10s %s  %s",
			oc.Key, format.FormatExecutionDuration(oc.Duration), format.FormatInt64(oc.Result.Sum)))
	}
	if m.final != nil {
		res := m.final.Outcome.Result
		lines = append(lines, successStyle.Render(fmt.Sprintf("Sum of %s = %s", res.Interval, format.FormatInt64(res.Sum))))
	}
	if m.failure != nil {
		lines = append(lines, errorStyle.Render(fmt.Sprintf("Error after %s: %v",
			format.FormatExecutionDuration(m.failure.Duration), m.failure.Err)))
	} else if m.done && m.exitCode == apperrors.ExitErrorMismatch {
		lines = append(lines, errorStyle.Render("Results differ between algorithms"))
	}
	if len(lines) == 0 {
		return ""
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) sysView() string {
	return fmt.Sprintf("%s %s %5.1f%%  %s %s %5.1f%%",
		labelStyle.Render("CPU"), sparklineStyle.Render(renderSparkline(m.cpu.samples)), m.cpu.Last(),
		labelStyle.Render("MEM"), sparklineStyle.Render(renderSparkline(m.mem.samples)), m.mem.Last())
}

// Run is the public entry point for the TUI mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, candidates []orchestration.Candidate, cfg config.AppConfig, version string) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, candidates, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return apperrors.HandleReductionError(ctx.Err(), 0, io.Discard, nil)
		}
		return apperrors.ExitErrorGeneric
	}

	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startReductionCmd returns a tea.Cmd that launches the orchestration.
func startReductionCmd(ref *programRef, ctx context.Context, candidates []orchestration.Candidate, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref, gen: gen}
		presenter := &TUIResultPresenter{ref: ref, gen: gen}

		req := orchestration.ReductionRequest{Start: cfg.Start, End: cfg.End, Workers: cfg.Workers}
		outcomes := orchestration.ExecuteReductions(ctx, candidates, req, reporter, io.Discard)
		opts := orchestration.PresentationOptions{
			Verbose: cfg.Verbose,
			Details: cfg.Details,
		}
		exitCode := orchestration.AnalyzeComparisonResults(outcomes, opts, presenter, io.Discard)

		return ReductionCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample(ctx)
		return SysStatsMsg{
			CPUPercent: s.CPUPercent,
			MemPercent: s.MemPercent,
		}
	}
}

// watchContextCmd returns a command that waits for ctx to end.
func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
