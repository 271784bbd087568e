// Package chatscmd implements `tgsend chats`: discovering chats through the
// bot's pending updates and inspecting a single chat.
package chatscmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/tgsend/internal/botutil"
	"github.com/quailyquaily/tgsend/internal/clifmt"
	"github.com/quailyquaily/tgsend/internal/logutil"
	"github.com/quailyquaily/tgsend/internal/targetutil"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chats",
		Short: "Discover and inspect chats the bot can see",
	}
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newInfoCmd())
	return cmd
}

func newListCmd() *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List chats from the bot's pending updates",
		Long: `Polls getUpdates once and lists each distinct chat with its latest
message. Telegram only delivers updates the bot has not consumed yet, so
an empty list usually means the chats need to message the bot first.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			client, err := botutil.ClientFromViper(logger)
			if err != nil {
				return err
			}
			recent, err := client.RecentChats(cmd.Context())
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), recent)
			}
			rows := make([]clifmt.NameDetailRow, 0, len(recent))
			for _, chat := range recent {
				name := chat.Summary.DisplayName()
				if name == "" {
					name = fmt.Sprintf("(unnamed %s)", chat.Summary.Type)
				}
				detail := fmt.Sprintf("%d (%s)", chat.Summary.ID, chat.Summary.Type)
				if text := strings.TrimSpace(chat.LastText); text != "" {
					detail += fmt.Sprintf(" last: %q", truncate(text, 60))
				}
				if from := strings.TrimSpace(chat.LastFrom); from != "" {
					detail += " from " + from
				}
				rows = append(rows, clifmt.NameDetailRow{Name: name, Detail: detail})
			}
			clifmt.PrintNameDetailTable(cmd.OutOrStdout(), clifmt.NameDetailTableOptions{
				Title:        "Chats",
				Rows:         rows,
				EmptyText:    "No pending updates. Have a chat message the bot and retry.",
				NameHeader:   "NAME",
				DetailHeader: "CHAT",
			})
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print as JSON")
	return cmd
}

func newInfoCmd() *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "info <name|chat-id>",
		Short: "Show details for one chat",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			client, err := botutil.ClientFromViper(logger)
			if err != nil {
				return err
			}
			store, err := botutil.StoreFromViper()
			if err != nil {
				return err
			}
			chatID, err := targetutil.Resolve(cmd.Context(), store, args[0], "")
			if err != nil {
				if hint := targetutil.Hint(cmd.Context(), store, err); hint != "" {
					return fmt.Errorf("%w\n%s", err, hint)
				}
				return err
			}
			details, err := client.ChatInfo(cmd.Context(), chatID)
			if err != nil {
				return err
			}
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), details)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "%s %d\n", clifmt.Key("ID:"), details.ID)
			_, _ = fmt.Fprintf(out, "%s %s\n", clifmt.Key("Type:"), details.Type)
			if details.Title != "" {
				_, _ = fmt.Fprintf(out, "%s %s\n", clifmt.Key("Title:"), details.Title)
			}
			if details.Username != "" {
				_, _ = fmt.Fprintf(out, "%s @%s\n", clifmt.Key("Username:"), details.Username)
			}
			if name := strings.TrimSpace(details.FirstName + " " + details.LastName); name != "" {
				_, _ = fmt.Fprintf(out, "%s %s\n", clifmt.Key("Name:"), name)
			}
			if details.Description != "" {
				_, _ = fmt.Fprintf(out, "%s %s\n", clifmt.Key("Description:"), details.Description)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print as JSON")
	return cmd
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
