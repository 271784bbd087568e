// Package contactscmd implements the `tgsend contacts` subtree: local
// directory management plus the API-backed import.
package contactscmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quailyquaily/tgsend/contacts"
	"github.com/quailyquaily/tgsend/internal/botutil"
	"github.com/quailyquaily/tgsend/internal/clifmt"
	"github.com/quailyquaily/tgsend/internal/logutil"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contacts",
		Short: "Manage the local name-to-chat directory",
	}
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newListCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newImportCmd())
	return cmd
}

func newAddCmd() *cobra.Command {
	var chatType string
	cmd := &cobra.Command{
		Use:   "add <name> <chat-id>",
		Short: "Add or overwrite a contact",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			if name == "" {
				return fmt.Errorf("contact name is required")
			}
			chatID, err := strconv.ParseInt(strings.TrimSpace(args[1]), 10, 64)
			if err != nil {
				return fmt.Errorf("invalid chat id %q: %w", args[1], err)
			}
			parsed, ok := contacts.ParseChatType(chatType)
			if !ok {
				return fmt.Errorf("invalid chat type %q (want private|group|supergroup|channel)", chatType)
			}
			store, err := botutil.StoreFromViper()
			if err != nil {
				return err
			}
			replaced := false
			err = store.Mutate(cmd.Context(), func(dir *contacts.Directory) error {
				_, replaced = dir.Get(name)
				dir.Add(name, chatID, parsed)
				return nil
			})
			if err != nil {
				return err
			}
			verb := "Added"
			if replaced {
				verb = "Updated"
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), clifmt.Success(fmt.Sprintf("%s %q -> %d (%s).", verb, name, chatID, parsed)))
			return nil
		},
	}
	cmd.Flags().StringVar(&chatType, "type", "private", "Chat type: private|group|supergroup|channel")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a contact",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(args[0])
			store, err := botutil.StoreFromViper()
			if err != nil {
				return err
			}
			removed := false
			err = store.Mutate(cmd.Context(), func(dir *contacts.Directory) error {
				removed = dir.Remove(name)
				return nil
			})
			if err != nil {
				return err
			}
			if !removed {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), clifmt.Warn(fmt.Sprintf("No contact named %q.", name)))
				return nil
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), clifmt.Success(fmt.Sprintf("Removed %q.", name)))
			return nil
		},
	}
}

func newListCmd() *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := botutil.StoreFromViper()
			if err != nil {
				return err
			}
			dir, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			records := dir.List()
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			printContactTable(cmd.OutOrStdout(), "Contacts", records, "No contacts yet. Add one with `tgsend contacts add`.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print as JSON")
	return cmd
}

func newSearchCmd() *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search contacts by name substring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := botutil.StoreFromViper()
			if err != nil {
				return err
			}
			dir, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			records := dir.Search(args[0])
			if outputJSON {
				return writeJSON(cmd.OutOrStdout(), records)
			}
			printContactTable(cmd.OutOrStdout(), fmt.Sprintf("Matches for %q", strings.TrimSpace(args[0])), records, "No matches.")
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print as JSON")
	return cmd
}

func newGetCmd() *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "get <name>",
		Short: "Resolve a contact and print its chat ID",
		Long: `Resolves a name the same way send does (exact match first, then a unique
substring) and prints the chat ID alone, so it can be captured in scripts.
An ambiguous name fails and lists the candidates.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := botutil.StoreFromViper()
			if err != nil {
				return err
			}
			dir, err := store.Load(cmd.Context())
			if err != nil {
				return err
			}
			chatID, err := dir.Resolve(args[0])
			if err != nil {
				return err
			}
			if outputJSON {
				for _, record := range dir.List() {
					if record.ChatID == chatID {
						return writeJSON(cmd.OutOrStdout(), record)
					}
				}
				return writeJSON(cmd.OutOrStdout(), contacts.Contact{ChatID: chatID})
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), chatID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print as JSON")
	return cmd
}

func newImportCmd() *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import contacts from chats recently visible to the bot",
		Long: `Polls the bot's pending updates once and merges every chat it finds into
the directory. Private chats are named by first name, falling back to
username; groups and channels use their title. Chats with no usable name
are skipped. Existing names are overwritten.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			logger = logger.With("run_id", runID)

			client, err := botutil.ClientFromViper(logger)
			if err != nil {
				return err
			}
			recent, err := client.RecentChats(cmd.Context())
			if err != nil {
				return err
			}
			summaries := make([]contacts.ChatSummary, 0, len(recent))
			for _, chat := range recent {
				summaries = append(summaries, chat.Summary)
			}
			logger.Debug("import candidates", "count", len(summaries))

			out := cmd.OutOrStdout()
			if dryRun {
				stats := contacts.NewDirectory().Import(summaries)
				_, _ = fmt.Fprintln(out, clifmt.Warn("Dry run, nothing written."))
				printImportStats(out, stats)
				return nil
			}
			store, err := botutil.StoreFromViper()
			if err != nil {
				return err
			}
			var stats contacts.ImportStats
			err = store.Mutate(cmd.Context(), func(dir *contacts.Directory) error {
				stats = dir.Import(summaries)
				return nil
			})
			if err != nil {
				return err
			}
			printImportStats(out, stats)
			if stats.Added == 0 && stats.Updated == 0 {
				_, _ = fmt.Fprintln(out, clifmt.Dim("Tip: have each chat message the bot, then import again."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	return cmd
}

func printImportStats(out io.Writer, stats contacts.ImportStats) {
	_, _ = fmt.Fprintf(out, "%s %d added, %d updated, %d skipped\n",
		clifmt.Key("Import:"), stats.Added, stats.Updated, stats.Skipped)
}

func printContactTable(out io.Writer, title string, records []contacts.Contact, emptyText string) {
	rows := make([]clifmt.NameDetailRow, 0, len(records))
	for _, record := range records {
		rows = append(rows, clifmt.NameDetailRow{
			Name:   record.Name,
			Detail: fmt.Sprintf("%d (%s)", record.ChatID, record.Type),
		})
	}
	clifmt.PrintNameDetailTable(out, clifmt.NameDetailTableOptions{
		Title:        title,
		Rows:         rows,
		EmptyText:    emptyText,
		NameHeader:   "NAME",
		DetailHeader: "CHAT",
	})
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
