package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/chatview-go/chatroom"
	"github.com/vovakirdan/chatview-go/chatroom/probe"
)

func newProbeCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "probe",
		Short: "Check that the server answers the Socket.IO handshake",
		Long: `Open an Engine.IO long-polling session and print what the server offers.
Free-tier hosts sleep when idle; probing also wakes them up.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := loadSettings(f)
			if err != nil {
				return err
			}
			if s.ClientConfig().Protocol != chatroom.ProtocolSocketIO {
				return &configError{fmt.Errorf("probe needs the %s protocol, got %q", chatroom.ProtocolSocketIO, s.Protocol)}
			}
			logger, closeLog, err := s.Logger(os.Stderr)
			if err != nil {
				return err
			}
			defer closeLog()

			client := probe.NewClient(s.URL)
			client.SetPath(s.Path)
			logger.Debug("probing", "url", s.URL, "path", s.Path)
			res, err := client.Handshake(cmd.Context())
			if err != nil {
				return fmt.Errorf("probe: %w", err)
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetBorder(false)
			table.SetColumnSeparator("")
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.AppendBulk([][]string{
				{"session", res.Open.SID},
				{"upgrades", strings.Join(res.Open.Upgrades, ", ")},
				{"websocket", fmt.Sprint(res.Open.SupportsWebSocket())},
				{"heartbeat", res.Open.Heartbeat().String()},
				{"max payload", fmt.Sprintf("%d bytes", res.Open.MaxPayload)},
				{"latency", res.Latency.Round(time.Millisecond).String()},
			})
			table.Render()
			return nil
		},
	}
}
