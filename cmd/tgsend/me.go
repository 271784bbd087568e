package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quailyquaily/tgsend/internal/botutil"
	"github.com/quailyquaily/tgsend/internal/clifmt"
	"github.com/quailyquaily/tgsend/internal/logutil"
)

func newMeCmd() *cobra.Command {
	var outputJSON bool
	cmd := &cobra.Command{
		Use:   "me",
		Short: "Show the bot's own profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			client, err := botutil.ClientFromViper(logger)
			if err != nil {
				return err
			}
			profile, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if outputJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(profile)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, clifmt.Headerf("Bot profile"))
			_, _ = fmt.Fprintf(out, "%s %d\n", clifmt.Key("ID:"), profile.ID)
			_, _ = fmt.Fprintf(out, "%s @%s\n", clifmt.Key("Username:"), profile.Username)
			_, _ = fmt.Fprintf(out, "%s %s\n", clifmt.Key("Name:"), profile.FirstName)
			_, _ = fmt.Fprintf(out, "%s %v\n", clifmt.Key("Can join groups:"), profile.CanJoinGroups)
			_, _ = fmt.Fprintf(out, "%s %v\n", clifmt.Key("Can read all group messages:"), profile.CanReadAllGroupMessages)
			_, _ = fmt.Fprintf(out, "%s %v\n", clifmt.Key("Supports inline queries:"), profile.SupportsInlineQueries)
			return nil
		},
	}
	cmd.Flags().BoolVar(&outputJSON, "json", false, "Print as JSON")
	return cmd
}

func newPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Verify the bot token and connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logutil.LoggerFromViper()
			if err != nil {
				return err
			}
			client, err := botutil.ClientFromViper(logger)
			if err != nil {
				return err
			}
			profile, err := client.Me(cmd.Context())
			if err != nil {
				return fmt.Errorf("connection check failed: %w", err)
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintln(out, clifmt.Success(fmt.Sprintf("Connected as @%s (id %d).", profile.Username, profile.ID)))
			if target := botutil.DefaultTarget(); target != "" {
				_, _ = fmt.Fprintf(out, "Default target: %s\n", target)
			} else {
				_, _ = fmt.Fprintln(out, clifmt.Dim("No default target configured; pass --to on send commands."))
			}
			return nil
		},
	}
}
