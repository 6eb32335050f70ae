package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/isoclass/isoclass/pkg/gcode"
	"github.com/isoclass/isoclass/pkg/perm"
	"github.com/isoclass/isoclass/pkg/pipeline"
)

// runWithProgress runs the pipeline while showing a live bubbletea view of
// the search counters. The engine runs on its own goroutine and streams
// hook events through a channel; the view drains them at a fixed tick.
func runWithProgress(ctx context.Context, out io.Writer, doc gcode.Doc, opts pipeline.Options, logger *log.Logger) (*pipeline.Result, error) {
	events := make(chan searchEvent, 256)
	done := make(chan searchOutcome, 1)

	prevAuto := opts.Hooks.OnAutomorphism
	opts.Hooks.OnAutomorphism = func(p perm.Perm, o perm.Orbits, fixed int) {
		select {
		case events <- searchEvent{kind: eventAutomorphism}:
		default:
		}
		if prevAuto != nil {
			prevAuto(p, o, fixed)
		}
	}
	prevNode := opts.Hooks.OnNode
	opts.Hooks.OnNode = func(level, tcSize int) {
		select {
		case events <- searchEvent{kind: eventNode, level: level}:
		default:
		}
		if prevNode != nil {
			prevNode(level, tcSize)
		}
	}

	go func() {
		res, err := pipeline.NewRunner(logger).Run(ctx, doc, opts)
		done <- searchOutcome{res: res, err: err}
	}()

	m := progressModel{n: doc.N, events: events, done: done}
	prog := tea.NewProgram(m, tea.WithOutput(out), tea.WithContext(ctx), tea.WithoutSignalHandler())
	final, err := prog.Run()
	if err != nil {
		return nil, err
	}
	outcome := final.(progressModel).outcome
	if outcome == nil {
		// View exited before the search finished (e.g. ctrl-c).
		o := <-done
		outcome = &o
	}
	return outcome.res, outcome.err
}

type eventKind int

const (
	eventNode eventKind = iota
	eventAutomorphism
)

type searchEvent struct {
	kind  eventKind
	level int
}

type searchOutcome struct {
	res *pipeline.Result
	err error
}

type tickMsg time.Time

// progressModel is the bubbletea model for the live search view.
type progressModel struct {
	n        int
	events   chan searchEvent
	done     chan searchOutcome
	nodes    int
	autos    int
	maxLevel int
	outcome  *searchOutcome
}

func (m progressModel) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
	case tickMsg:
		for {
			select {
			case ev := <-m.events:
				switch ev.kind {
				case eventNode:
					m.nodes++
					if ev.level > m.maxLevel {
						m.maxLevel = ev.level
					}
				case eventAutomorphism:
					m.autos++
				}
			default:
				select {
				case o := <-m.done:
					m.outcome = &o
					return m, tea.Quit
				default:
					return m, tick()
				}
			}
		}
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.outcome != nil {
		return ""
	}
	return fmt.Sprintf("%s %s\n",
		styleTitle.Render("searching"),
		styleDim.Render(fmt.Sprintf("n=%d nodes=%d automorphisms=%d depth=%d",
			m.n, m.nodes, m.autos, m.maxLevel)))
}
