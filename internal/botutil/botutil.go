// Package botutil constructs the Telegram client and contact store from viper
// configuration, shared by every subcommand.
package botutil

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/quailyquaily/tgsend/contacts"
	"github.com/quailyquaily/tgsend/internal/fsstore"
	"github.com/quailyquaily/tgsend/internal/statepaths"
	"github.com/quailyquaily/tgsend/telegram"
)

// ErrMissingToken is the fatal configuration error for API-backed commands.
// Pure directory commands never hit it.
var ErrMissingToken = errors.New(
	"missing bot token: run `tgsend init`, set telegram.bot_token in the config, or export TGSEND_TELEGRAM_BOT_TOKEN")

// Token returns the configured bot token, empty when unset.
func Token() string {
	return strings.TrimSpace(viper.GetString("telegram.bot_token"))
}

// DefaultTarget returns the configured default send target (name or chat ID).
func DefaultTarget() string {
	return strings.TrimSpace(viper.GetString("telegram.default_target"))
}

// ClientFromViper builds the API client, failing fast without a token.
func ClientFromViper(logger *slog.Logger) (*telegram.Client, error) {
	token := Token()
	if token == "" {
		return nil, ErrMissingToken
	}
	endpoint := strings.TrimSpace(viper.GetString("telegram.api_endpoint"))
	return telegram.New(token, endpoint, logger)
}

// StoreFromViper builds the contact store over the configured paths.
func StoreFromViper() (*contacts.FileStore, error) {
	lockPath, err := fsstore.BuildLockPath(statepaths.LocksDir(), statepaths.ContactsLockKey())
	if err != nil {
		return nil, err
	}
	return contacts.NewFileStore(statepaths.ContactsPath(), lockPath), nil
}
