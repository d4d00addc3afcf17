// Package cmd contains the chatview commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes reported to the shell.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// configError marks failures caused by bad settings rather than the network.
type configError struct{ err error }

func (e *configError) Error() string { return "config error: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// flags are the persistent overrides shared by every command.
type flags struct {
	url      string
	protocol string
	debug    bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "chatview",
		Short: "Terminal client for a real-time chat room",
		Long: `chatview joins a chat room over Socket.IO (or a plain JSON websocket),
shows the room history and live messages, and sends what you type.

Settings come from the environment (CHATVIEW_*), optionally loaded from .env.
Use "chatview [command] --help" for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&f.url, "url", "", "chat server URL (overrides CHATVIEW_URL)")
	root.PersistentFlags().StringVar(&f.protocol, "protocol", "", "wire protocol: socketio or json (overrides CHATVIEW_PROTOCOL)")
	root.PersistentFlags().BoolVar(&f.debug, "debug", false, "log at debug level")

	root.AddCommand(
		newChatCmd(f),
		newHistoryCmd(f),
		newProbeCmd(f),
		newVersionCmd(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code.
func Execute(ctx context.Context) int {
	code, err := run(ctx, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "chatview: %v\n", err)
	}
	return code
}

func run(ctx context.Context, args []string) (int, error) {
	root := NewRootCmd()
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		var cfgErr *configError
		if errors.As(err, &cfgErr) {
			return exitConfig, err
		}
		return exitRuntime, err
	}
	return exitOK, nil
}
