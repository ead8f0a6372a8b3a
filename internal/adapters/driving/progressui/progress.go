// Package progressui renders a live terminal display for transform runs.
//
// The display consumes progress snapshots from a channel the pipeline's
// Progress callback feeds. It quits on its own when the channel closes, so
// the caller's contract is: feed the channel, close it when the run ends,
// wait for Show to return. Ctrl+C cancels the run via the supplied cancel
// function rather than killing the process outright.
package progressui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/quillon-labs/worknorm/internal/core/ports/driving"
)

// barMaxWidth keeps the bar readable on wide terminals.
const barMaxWidth = 50

// num formats counters with thousands separators.
var num = message.NewPrinter(language.English)

// progressMsg carries a pipeline snapshot into the model.
type progressMsg driving.TransformProgress

// doneMsg signals that the updates channel closed.
type doneMsg struct{}

// tickMsg drives the elapsed-time line.
type tickMsg time.Time

// Show runs the progress display until updates closes. It blocks, so the
// caller runs it on its own goroutine alongside the pipeline.
func Show(out io.Writer, source string, updates <-chan driving.TransformProgress, cancel context.CancelFunc) error {
	m := newModel(source, updates, cancel)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithoutSignalHandler())
	_, err := p.Run()
	if err != nil {
		return fmt.Errorf("run progress display: %w", err)
	}
	return nil
}

// model implements tea.Model for the transform progress display.
type model struct {
	source  string
	updates <-chan driving.TransformProgress
	cancel  context.CancelFunc

	bar     progress.Model
	styles  uiStyles
	latest  driving.TransformProgress
	started time.Time
	width   int
	done    bool
}

// Ensure model implements tea.Model.
var _ tea.Model = model{}

func newModel(source string, updates <-chan driving.TransformProgress, cancel context.CancelFunc) model {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = barMaxWidth

	return model{
		source:  source,
		updates: updates,
		cancel:  cancel,
		bar:     bar,
		styles:  defaultStyles(),
		started: time.Now(),
		width:   80,
	}
}

// waitForUpdate blocks on the updates channel and converts it to messages.
func waitForUpdate(updates <-chan driving.TransformProgress) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-updates
		if !ok {
			return doneMsg{}
		}
		return progressMsg(p)
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init starts the channel read loop and the elapsed-time ticker.
func (m model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tick())
}

// Update handles progress snapshots, resize and interrupt keys.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		m.latest = driving.TransformProgress(msg)
		return m, waitForUpdate(m.updates)

	case doneMsg:
		m.done = true
		return m, tea.Quit

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		w := msg.Width - 4
		if w > barMaxWidth {
			w = barMaxWidth
		}
		if w > 0 {
			m.bar.Width = w
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.cancel != nil {
				m.cancel()
			}
			// The pipeline notices the cancelled context and the channel
			// closes; quitting here would drop the final counters.
			return m, nil
		}
	}

	return m, nil
}

// View renders the bar, the counters and the elapsed time.
func (m model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Transforming "+m.source) + "\n\n")

	percent := 0.0
	if m.latest.FilesTotal > 0 {
		percent = float64(m.latest.FilesDone) / float64(m.latest.FilesTotal)
	}
	b.WriteString("  " + m.bar.ViewAs(percent))
	b.WriteString(m.styles.Label.Render(num.Sprintf("  %d/%d files", m.latest.FilesDone, m.latest.FilesTotal)))
	b.WriteString("\n\n")

	counters := []string{
		m.styles.Count.Render(num.Sprintf("%d", m.latest.RecordsIn)) + m.styles.Label.Render(" read"),
		m.styles.Count.Render(num.Sprintf("%d", m.latest.RecordsOut)) + m.styles.Label.Render(" written"),
		m.styles.Count.Render(num.Sprintf("%d", m.latest.RecordsSkipped)) + m.styles.Label.Render(" skipped"),
	}
	errStyle := m.styles.Label
	if m.latest.LineErrors > 0 {
		errStyle = m.styles.Errors
	}
	counters = append(counters, errStyle.Render(num.Sprintf("%d line errors", m.latest.LineErrors)))
	b.WriteString("  " + strings.Join(counters, m.styles.Label.Render("   ")) + "\n\n")

	elapsed := time.Since(m.started).Round(time.Second)
	b.WriteString("  " + m.styles.Elapsed.Render("elapsed "+elapsed.String()) + "\n")

	return b.String()
}
