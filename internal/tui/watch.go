// ABOUTME: Runs the live fixture watcher behind the fixture screen
// ABOUTME: Forwards watcher refreshes as messages until the screen is left

package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/myteams/internal/livepoll"
	"github.com/markalston/myteams/internal/tui/fixture"
)

// watch is one running livepoll.Watcher
type watch struct {
	fixtureID string
	ctx       context.Context
	cancel    context.CancelFunc
	events    chan watchEvent
}

type watchEvent struct {
	update livepoll.Update
	done   bool
	err    error
}

// watchEventMsg carries an event from a specific watch
type watchEventMsg struct {
	w     *watch
	event watchEvent
}

// startWatch replaces any running watch with one for fixtureID
func (a *App) startWatch(fixtureID string) tea.Cmd {
	a.stopWatch()

	ctx, cancel := context.WithCancel(a.ctx)
	w := &watch{
		fixtureID: fixtureID,
		ctx:       ctx,
		cancel:    cancel,
		events:    make(chan watchEvent),
	}
	a.watch = w

	go func() {
		err := a.deps.Watcher.Run(ctx, fixtureID, func(u livepoll.Update) {
			w.send(watchEvent{update: u})
		})
		if errors.Is(err, context.Canceled) {
			err = nil
		}
		w.send(watchEvent{done: true, err: err})
	}()

	return a.nextWatchEvent(w)
}

func (a *App) stopWatch() {
	if a.watch != nil {
		a.watch.cancel()
		a.watch = nil
	}
}

// send blocks until the screen reads the event or the watch is stopped
func (w *watch) send(ev watchEvent) {
	select {
	case w.events <- ev:
	case <-w.ctx.Done():
	}
}

func (a *App) nextWatchEvent(w *watch) tea.Cmd {
	return func() tea.Msg {
		select {
		case ev := <-w.events:
			return watchEventMsg{w: w, event: ev}
		case <-w.ctx.Done():
			return nil
		}
	}
}

func (a *App) handleWatchEvent(msg watchEventMsg) (tea.Model, tea.Cmd) {
	if msg.w != a.watch || a.fixtureView == nil {
		return a, nil
	}

	id := msg.w.fixtureID
	if msg.event.done {
		a.watch = nil
		msg.w.cancel()
		return a.updateFixture(fixture.DoneMsg{FixtureID: id, Err: msg.event.err})
	}

	a.rememberFixtureTeams(msg.event.update.Fixture)

	model, cmd := a.updateFixture(fixture.UpdateMsg{FixtureID: id, Update: msg.event.update})
	return model, tea.Batch(cmd, a.nextWatchEvent(msg.w))
}
