package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/quailyquaily/tgsend/internal/clifmt"
	"github.com/quailyquaily/tgsend/internal/fsstore"
	"github.com/quailyquaily/tgsend/internal/logutil"
	"github.com/quailyquaily/tgsend/internal/statepaths"
	"github.com/quailyquaily/tgsend/telegram"
)

type initConfigFile struct {
	Telegram struct {
		BotToken      string `yaml:"bot_token"`
		DefaultTarget string `yaml:"default_target,omitempty"`
	} `yaml:"telegram"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

func newInitCmd() *cobra.Command {
	var (
		force      bool
		token      string
		target     string
		skipVerify bool
	)
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the config file and store the bot token",
		Long: `Interactively creates ~/.tgsend/config.yaml with the bot token and an
optional default send target. The token is read without echo and verified
against the Bot API before anything is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath := statepaths.ConfigPath()
			if _, err := os.Stat(cfgPath); err == nil && !force {
				return fmt.Errorf("config already exists at %s (use --force to overwrite)", cfgPath)
			}

			out := cmd.OutOrStdout()
			if token == "" {
				read, err := promptToken(cmd)
				if err != nil {
					return err
				}
				token = read
			}
			token = strings.TrimSpace(token)
			if token == "" {
				return fmt.Errorf("no token provided")
			}

			if !skipVerify {
				logger, err := logutil.LoggerFromViper()
				if err != nil {
					return err
				}
				client, err := telegram.New(token, "", logger)
				if err != nil {
					return err
				}
				profile, err := client.Me(cmd.Context())
				if err != nil {
					return fmt.Errorf("token verification failed: %w", err)
				}
				_, _ = fmt.Fprintln(out, clifmt.Success(fmt.Sprintf("Token verified: @%s (id %d).", profile.Username, profile.ID)))
			}

			if target == "" && isInteractive() {
				target = promptLine(cmd, "Default send target (contact name or chat id, empty to skip): ")
			}

			var cfg initConfigFile
			cfg.Telegram.BotToken = token
			cfg.Telegram.DefaultTarget = strings.TrimSpace(target)
			cfg.Logging.Level = "info"
			cfg.Logging.Format = "text"

			raw, err := yaml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			if err := fsstore.EnsureDir(statepaths.StateDir(), 0o700); err != nil {
				return err
			}
			if err := os.WriteFile(cfgPath, raw, 0o600); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			_, _ = fmt.Fprintln(out, clifmt.Success("Wrote "+cfgPath))
			if cfg.Telegram.DefaultTarget == "" {
				_, _ = fmt.Fprintln(out, clifmt.Dim("Tip: add contacts with `tgsend contacts add <name> <chat-id>`."))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	cmd.Flags().StringVar(&token, "token", "", "Bot token (prompted without echo when omitted)")
	cmd.Flags().StringVar(&target, "default-target", "", "Default send target")
	cmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "Skip the getMe token check")
	return cmd
}

func promptToken(cmd *cobra.Command) (string, error) {
	if !isInteractive() {
		return "", fmt.Errorf("no token provided and stdin is not a terminal (use --token or TGSEND_TELEGRAM_BOT_TOKEN)")
	}
	_, _ = fmt.Fprint(cmd.OutOrStdout(), "Bot token (input hidden): ")
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cmd.OutOrStdout())
	if err != nil {
		return "", fmt.Errorf("read token: %w", err)
	}
	return string(raw), nil
}

func promptLine(cmd *cobra.Command, prompt string) string {
	_, _ = fmt.Fprint(cmd.OutOrStdout(), prompt)
	reader := bufio.NewReader(cmd.InOrStdin())
	line, _ := reader.ReadString('\n')
	return strings.TrimSpace(line)
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
