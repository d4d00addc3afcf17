package tui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/chatview-go/view"
)

// errMsg reports a failure from outside the UI loop.
type errMsg struct{ err error }

// Run shows the chat view for ch until the user quits or ctx is done. Once the
// view is subscribed, start is run in the background to open the connection;
// its error is shown in the status line.
func Run(ctx context.Context, ch view.Channel, start func(context.Context) error, opts ...view.Option) error {
	var p *tea.Program
	chat := view.New(ch, append(opts, view.WithDispatcher(func(fn func()) {
		Dispatcher(p.Send)(fn)
	}))...)
	m := New(ctx, chat)
	p = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	release := chat.Mount()
	defer release()

	if start != nil {
		go func() {
			if err := start(ctx); err != nil {
				p.Send(errMsg{err: err})
			}
		}()
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
