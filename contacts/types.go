// Package contacts maintains the name to chat-ID address book and resolves
// user-supplied targets against it.
package contacts

import "strings"

type ChatType string

const (
	ChatTypePrivate    ChatType = "private"
	ChatTypeGroup      ChatType = "group"
	ChatTypeSupergroup ChatType = "supergroup"
	ChatTypeChannel    ChatType = "channel"
)

// ParseChatType validates a chat type string against the closed set.
func ParseChatType(raw string) (ChatType, bool) {
	switch ChatType(strings.ToLower(strings.TrimSpace(raw))) {
	case ChatTypePrivate:
		return ChatTypePrivate, true
	case ChatTypeGroup:
		return ChatTypeGroup, true
	case ChatTypeSupergroup:
		return ChatTypeSupergroup, true
	case ChatTypeChannel:
		return ChatTypeChannel, true
	default:
		return "", false
	}
}

// Contact is one alias in the directory. Name keeps the casing the user
// typed; uniqueness is enforced on the folded form.
type Contact struct {
	Name   string   `json:"name"`
	ChatID int64    `json:"chat_id"`
	Type   ChatType `json:"type"`
}

// ChatSummary describes one chat observed through the Bot API, the input to
// a bulk import. Group-ish chats carry a Title; private chats carry the
// user's names.
type ChatSummary struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// DisplayName picks the alias an imported chat is stored under: first name,
// then username for private chats, the title otherwise. Empty means the
// summary is unusable and the import skips it.
func (s ChatSummary) DisplayName() string {
	if s.Type == string(ChatTypePrivate) {
		if name := strings.TrimSpace(s.FirstName); name != "" {
			return name
		}
		return strings.TrimSpace(s.Username)
	}
	return strings.TrimSpace(s.Title)
}

// ImportStats reports the outcome of a bulk import.
type ImportStats struct {
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}
