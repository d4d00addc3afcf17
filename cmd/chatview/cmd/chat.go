package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/tui"
	"github.com/vovakirdan/chatview-go/view"
	"github.com/vovakirdan/chatview-go/view/render"
)

var errConnectionLost = errors.New("connection lost")

func newChatCmd(f *flags) *cobra.Command {
	var plain bool
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Join the chat room",
		Long: `Join the chat room and chat interactively.

With --plain the first line read is the username and every following line
is sent as a message. "/users" lists the users seen so far and "/quit" leaves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(f)
			if err != nil {
				return err
			}
			// The full-screen UI owns the terminal, so logs only go to a file.
			fallback := io.Discard
			if plain {
				fallback = os.Stderr
			}
			logger, closeLog, err := s.Logger(fallback)
			if err != nil {
				return err
			}
			defer closeLog()

			ctx := cmd.Context()
			client := dial(s, logger)
			defer client.Close()
			logger.Info("connecting", "url", s.URL, "protocol", s.Protocol, "client_id", client.ID())

			if !plain {
				start := func(ctx context.Context) error {
					err := connect(ctx, client, s.URL)
					if err != nil {
						logger.Error("connect failed", "error", err)
					}
					return err
				}
				return tui.Run(ctx, client, start,
					view.WithLogger(chatroom.NewSlogLogger(logger)),
				)
			}

			loop := newEventLoop()
			defer loop.stop()
			chat := view.New(client,
				view.WithDispatcher(loop.Dispatch),
				view.WithLogger(chatroom.NewSlogLogger(logger)),
			)
			release := chat.Mount()
			defer release()
			if err := connect(ctx, client, s.URL); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Connected to %s.\n", s.URL)
			return plainChat(ctx, client, chat, loop, cmd.InOrStdin(), cmd.OutOrStdout(), s.Username)
		},
	}
	cmd.Flags().BoolVar(&plain, "plain", false, "line mode instead of the full-screen UI")
	return cmd
}

// plainChat drives chat from line input until /quit, end of input, ctx
// cancellation or connection loss. A non-empty username joins right away.
func plainChat(ctx context.Context, s session, chat *view.Chat, loop *eventLoop, in io.Reader, out io.Writer, username string) error {
	chat.OnChange(func(ch view.Change) {
		if !chat.Joined() {
			return
		}
		switch ch.Kind {
		case view.HistoryReplaced:
			for _, m := range ch.State.Messages {
				fmt.Fprintln(out, render.Line(m, ch.State.IsOwn(m)))
			}
		case view.MessageAppended:
			m := ch.State.Messages[len(ch.State.Messages)-1]
			fmt.Fprintln(out, render.Line(m, ch.State.IsOwn(m)))
		}
	})

	join := func(name string) {
		chat.SetUsername(name)
		if !chat.Join() {
			fmt.Fprint(out, "username: ")
			return
		}
		fmt.Fprintf(out, "Joined as %s. Type messages to chat, /users to list users, /quit to exit.\n", name)
		for _, m := range chat.Messages() {
			fmt.Fprintln(out, render.Line(m, chat.IsOwn(m)))
		}
	}

	inputCh := make(chan string)
	inputCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readInput(inputCtx, in, inputCh)

	loop.drain()
	join(username)

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\nShutting down...")
			return nil
		case <-s.Done():
			return errConnectionLost
		case fn := <-loop.work:
			fn()
		case line, ok := <-inputCh:
			loop.drain()
			if !ok {
				fmt.Fprintln(out, "\nInput closed.")
				return nil
			}
			if !chat.Joined() {
				join(line)
				continue
			}
			switch line {
			case "/quit":
				fmt.Fprintln(out, "Bye!")
				return nil
			case "/users":
				fmt.Fprintln(out, render.Users(chat.Users(), chat.Username()))
				continue
			}
			chat.SetDraft(line)
			if err := chat.Send(ctx); err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
	}
}

func readInput(ctx context.Context, r io.Reader, dst chan<- string) {
	defer close(dst)
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		select {
		case dst <- scanner.Text():
		case <-ctx.Done():
			return
		}
	}
}
