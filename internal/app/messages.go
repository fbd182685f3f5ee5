package app

import tea "github.com/charmbracelet/bubbletea"

// saveDueMsg asks the event loop to write pending changes.
type saveDueMsg struct{}

// reloadMsg carries a settings blob written by someone else.
type reloadMsg struct{ data []byte }

// watchErrMsg reports that the settings watcher stopped.
type watchErrMsg struct{ err error }

// leaderTimeoutMsg signals leader key timeout.
type leaderTimeoutMsg struct{}

// post queues a message for the event loop. It gives up once the app is
// closed so background goroutines never block on a finished program.
func (a *App) post(msg tea.Msg) {
	select {
	case a.events <- msg:
	case <-a.done:
	}
}

// listen waits for the next background message. Every handler of such a
// message re-issues it.
func (a *App) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-a.events:
			return msg
		case <-a.done:
			return nil
		}
	}
}
