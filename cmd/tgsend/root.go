package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/quailyquaily/tgsend/cmd/tgsend/chatscmd"
	"github.com/quailyquaily/tgsend/cmd/tgsend/contactscmd"
	"github.com/quailyquaily/tgsend/cmd/tgsend/sendcmd"
	"github.com/quailyquaily/tgsend/internal/clifmt"
	"github.com/quailyquaily/tgsend/internal/outputfmt"
	"github.com/quailyquaily/tgsend/internal/statepaths"
)

const envPrefix = "TGSEND"

func Execute() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		// Scrub bot tokens before anything reaches the terminal.
		_, _ = fmt.Fprintln(os.Stderr, clifmt.Fail("Error: "+outputfmt.FormatErrorForDisplay(err)))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tgsend",
		Short:         "Send Telegram messages from the command line, with a contact address book",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cobra.OnInitialize(initConfig)

	cmd.PersistentFlags().String("config", "", "Config file path (defaults to ~/.tgsend/config.yaml).")
	_ = viper.BindPFlag("config", cmd.PersistentFlags().Lookup("config"))

	cmd.PersistentFlags().String("log-level", "", "Logging level: debug|info|warn|error (defaults to info; debug if --verbose).")
	cmd.PersistentFlags().String("log-format", "text", "Logging format: text|json.")
	cmd.PersistentFlags().Bool("log-add-source", false, "Include source file:line in logs.")
	cmd.PersistentFlags().Bool("verbose", false, "Print extra debug info to stderr.")

	_ = viper.BindPFlag("logging.level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", cmd.PersistentFlags().Lookup("log-format"))
	_ = viper.BindPFlag("logging.add_source", cmd.PersistentFlags().Lookup("log-add-source"))
	_ = viper.BindPFlag("verbose", cmd.PersistentFlags().Lookup("verbose"))

	cmd.AddCommand(sendcmd.New())
	cmd.AddCommand(contactscmd.New())
	cmd.AddCommand(chatscmd.New())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMeCmd())
	cmd.AddCommand(newPingCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func initConfig() {
	initViperDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	cfgFile := strings.TrimSpace(viper.GetString("config"))
	if cfgFile == "" {
		// Fall back to the default location, but only when it exists; a fresh
		// install must still run pure directory commands and `init`.
		defaultPath := statepaths.ConfigPath()
		if _, err := os.Stat(defaultPath); err != nil {
			return
		}
		cfgFile = defaultPath
	}

	viper.SetConfigFile(cfgFile)
	if err := viper.ReadInConfig(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
	}
}
