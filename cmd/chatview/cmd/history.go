package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/view"
	"github.com/vovakirdan/chatview-go/view/render"
)

const (
	formatText  = "text"
	formatTable = "table"
	formatHTML  = "html"
)

func newHistoryCmd(f *flags) *cobra.Command {
	var (
		format string
		wait   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Print the chat history the server sends on connect",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatTable, formatHTML:
			default:
				return &configError{fmt.Errorf("unknown format %q", format)}
			}
			s, err := loadSettings(f)
			if err != nil {
				return err
			}
			logger, closeLog, err := s.Logger(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			client := dial(s, logger)
			defer client.Close()

			loop := newEventLoop()
			defer loop.stop()
			chat := view.New(client,
				view.WithDispatcher(loop.Dispatch),
				view.WithLogger(chatroom.NewSlogLogger(logger)),
			)
			chat.SetUsername(s.Username)
			chat.Join()
			release := chat.Mount()
			defer release()

			if err := connect(ctx, client, s.URL); err != nil {
				return err
			}
			state, err := waitHistory(ctx, client, chat, loop, wait)
			if err != nil {
				return err
			}
			logger.Debug("history received", "messages", len(state.Messages))
			return writeHistory(cmd.OutOrStdout(), format, state)
		},
	}
	cmd.Flags().StringVar(&format, "format", formatText, "output format: text, table or html")
	cmd.Flags().DurationVar(&wait, "wait", 10*time.Second, "how long to wait for the history snapshot")
	return cmd
}

// waitHistory runs queued view work until the first history snapshot lands.
func waitHistory(ctx context.Context, s session, chat *view.Chat, loop *eventLoop, wait time.Duration) (view.State, error) {
	got := false
	off := chat.OnChange(func(ch view.Change) {
		if ch.Kind == view.HistoryReplaced {
			got = true
		}
	})
	defer off()

	timer := time.NewTimer(wait)
	defer timer.Stop()
	for !got {
		select {
		case <-ctx.Done():
			return view.State{}, ctx.Err()
		case <-s.Done():
			return view.State{}, errConnectionLost
		case <-timer.C:
			return view.State{}, fmt.Errorf("no chat history within %s", wait)
		case fn := <-loop.work:
			fn()
		}
	}
	return chat.Snapshot(), nil
}

func writeHistory(w io.Writer, format string, state view.State) error {
	switch format {
	case formatTable:
		render.Table(w, state)
		return nil
	case formatHTML:
		state.Joined = true
		return render.Page("Chat history", state).Render(w)
	default:
		for _, m := range state.Messages {
			if _, err := fmt.Fprintln(w, render.Line(m, state.IsOwn(m))); err != nil {
				return err
			}
		}
		return nil
	}
}
