// Package statepaths resolves where tgsend keeps its state on disk. All
// locations default to children of ~/.tgsend and can be redirected through
// viper configuration.
package statepaths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	defaultStateDirName = ".tgsend"
	ConfigFilename      = "config.yaml"
	contactsFilename    = "contacts.json"
	locksDirName        = ".locks"
	contactsLockKey     = "contacts"
)

// StateDir returns the state directory, honoring the state_dir setting.
func StateDir() string {
	if dir := strings.TrimSpace(viper.GetString("state_dir")); dir != "" {
		return ExpandHomePath(dir)
	}
	home, err := os.UserHomeDir()
	if err != nil || strings.TrimSpace(home) == "" {
		return defaultStateDirName
	}
	return filepath.Join(home, defaultStateDirName)
}

// ConfigPath returns the default config file location.
func ConfigPath() string {
	return filepath.Join(StateDir(), ConfigFilename)
}

// ContactsPath returns the contact directory file, honoring contacts.path.
func ContactsPath() string {
	if path := strings.TrimSpace(viper.GetString("contacts.path")); path != "" {
		return ExpandHomePath(path)
	}
	return filepath.Join(StateDir(), contactsFilename)
}

// LocksDir returns the directory holding advisory lock files.
func LocksDir() string {
	return filepath.Join(StateDir(), locksDirName)
}

// ContactsLockKey is the lock key guarding contact load-mutate-save cycles.
func ContactsLockKey() string {
	return contactsLockKey
}

// ExpandHomePath rewrites a leading ~/ against the current home directory.
func ExpandHomePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil && strings.TrimSpace(home) != "" {
			if path == "~" {
				return home
			}
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
