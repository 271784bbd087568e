// Package sendcmd implements `tgsend send` and its file, photo and buttons
// subcommands. All of them resolve the target the same way: an explicit --to
// first, the configured default target second.
package sendcmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/tgsend/internal/botutil"
	"github.com/quailyquaily/tgsend/internal/clifmt"
	"github.com/quailyquaily/tgsend/internal/logutil"
	"github.com/quailyquaily/tgsend/internal/targetutil"
	"github.com/quailyquaily/tgsend/telegram"
)

func New() *cobra.Command {
	var (
		to         string
		message    string
		format     string
		noPreview  bool
		outputJSON bool
	)
	cmd := &cobra.Command{
		Use:   "send [text]",
		Short: "Send a text message",
		Long: `Sends text to a contact name or chat ID. The text comes from -m, a
positional argument, or stdin, so command output can be piped straight to
a chat.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := messageText(cmd, message, args)
			if err != nil {
				return err
			}
			mode, err := telegram.ParseModeFromFlag(format)
			if err != nil {
				return err
			}
			env, err := newSendEnv(cmd, to)
			if err != nil {
				return err
			}
			sent, err := env.client.SendMessage(cmd.Context(), env.chatID, text, mode, noPreview)
			if err != nil {
				return err
			}
			return reportSent(cmd.OutOrStdout(), sent, outputJSON)
		},
	}
	cmd.PersistentFlags().StringVar(&to, "to", "", "Target contact name or chat ID (defaults to telegram.default_target)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message text (positional argument and stdin also work)")
	cmd.Flags().StringVar(&format, "format", "markdown", "Text format: markdown|html|none")
	cmd.Flags().BoolVar(&noPreview, "no-preview", false, "Disable link previews")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the result as JSON")

	cmd.AddCommand(newFileCmd(&to))
	cmd.AddCommand(newPhotoCmd(&to))
	cmd.AddCommand(newButtonsCmd(&to))
	return cmd
}

func newFileCmd(to *string) *cobra.Command {
	var (
		caption    string
		name       string
		outputJSON bool
	)
	cmd := &cobra.Command{
		Use:   "file <path>",
		Short: "Send a file as a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newSendEnv(cmd, *to)
			if err != nil {
				return err
			}
			sent, err := env.client.SendDocument(cmd.Context(), env.chatID, args[0], name, caption)
			if err != nil {
				return err
			}
			return reportSent(cmd.OutOrStdout(), sent, outputJSON)
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "Caption text")
	cmd.Flags().StringVar(&name, "name", "", "Override the filename shown in the chat")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newPhotoCmd(to *string) *cobra.Command {
	var (
		caption    string
		outputJSON bool
	)
	cmd := &cobra.Command{
		Use:   "photo <path>",
		Short: "Send an image as a photo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newSendEnv(cmd, *to)
			if err != nil {
				return err
			}
			sent, err := env.client.SendPhoto(cmd.Context(), env.chatID, args[0], caption)
			if err != nil {
				return err
			}
			return reportSent(cmd.OutOrStdout(), sent, outputJSON)
		},
	}
	cmd.Flags().StringVar(&caption, "caption", "", "Caption text")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the result as JSON")
	return cmd
}

func newButtonsCmd(to *string) *cobra.Command {
	var (
		message    string
		buttons    string
		columns    int
		outputJSON bool
	)
	cmd := &cobra.Command{
		Use:   "buttons [text] [label]...",
		Short: "Send a message with inline keyboard buttons",
		Long: `Sends text with an inline keyboard. Labels come from --buttons as a
comma-separated list, or as positional arguments after the text.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(message)
			if text == "" && len(args) > 0 {
				text = args[0]
				args = args[1:]
			}
			if strings.TrimSpace(text) == "" {
				return fmt.Errorf("message text is required (use -m or the first argument)")
			}
			labels := splitLabels(buttons)
			if len(labels) == 0 {
				labels = args
			}
			if len(labels) == 0 {
				return fmt.Errorf("at least one button label is required (use --buttons \"A,B\" or positional labels)")
			}
			env, err := newSendEnv(cmd, *to)
			if err != nil {
				return err
			}
			sent, err := env.client.SendWithButtons(cmd.Context(), env.chatID, text, labels, columns)
			if err != nil {
				return err
			}
			return reportSent(cmd.OutOrStdout(), sent, outputJSON)
		},
	}
	cmd.Flags().StringVarP(&message, "message", "m", "", "Message text (first positional argument also works)")
	cmd.Flags().StringVar(&buttons, "buttons", "", "Comma-separated button labels")
	cmd.Flags().IntVar(&columns, "columns", 2, "Buttons per keyboard row")
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print the result as JSON")
	return cmd
}

type sendEnv struct {
	client *telegram.Client
	logger *slog.Logger
	chatID int64
}

// newSendEnv builds the client and resolves the target, attaching a contact
// hint to resolution failures.
func newSendEnv(cmd *cobra.Command, to string) (*sendEnv, error) {
	logger, err := logutil.LoggerFromViper()
	if err != nil {
		return nil, err
	}
	client, err := botutil.ClientFromViper(logger)
	if err != nil {
		return nil, err
	}
	store, err := botutil.StoreFromViper()
	if err != nil {
		return nil, err
	}
	chatID, err := targetutil.Resolve(cmd.Context(), store, to, botutil.DefaultTarget())
	if err != nil {
		if hint := targetutil.Hint(cmd.Context(), store, err); hint != "" {
			return nil, fmt.Errorf("%w\n%s", err, hint)
		}
		return nil, err
	}
	return &sendEnv{client: client, logger: logger, chatID: chatID}, nil
}

// messageText picks the outgoing text: the -m flag wins, then a positional
// argument, then stdin.
func messageText(cmd *cobra.Command, flagValue string, args []string) (string, error) {
	if strings.TrimSpace(flagValue) != "" {
		return flagValue, nil
	}
	if len(args) > 0 {
		if strings.TrimSpace(args[0]) == "" {
			return "", fmt.Errorf("message text is empty")
		}
		return args[0], nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimRight(string(raw), "\n")
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("message text is empty (pass it as an argument or pipe it to stdin)")
	}
	return text, nil
}

func reportSent(out io.Writer, sent telegram.Sent, outputJSON bool) error {
	if outputJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sent)
	}
	_, _ = fmt.Fprintln(out, clifmt.Success(fmt.Sprintf("Sent message %d to chat %d.", sent.MessageID, sent.ChatID)))
	return nil
}

func splitLabels(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if label := strings.TrimSpace(part); label != "" {
			out = append(out, label)
		}
	}
	return out
}
