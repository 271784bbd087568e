package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/quailyquaily/tgsend/contacts"
)

const recentChatsPollTimeout = 10 // seconds, matches one short getUpdates poll

// RecentChat is one chat observed in the update backlog, with the latest
// message kept for display.
type RecentChat struct {
	Summary  contacts.ChatSummary `json:"chat"`
	LastText string               `json:"last_text,omitempty"`
	LastFrom string               `json:"last_from,omitempty"`
	UpdateID int                  `json:"update_id"`
}

// RecentChats polls the update backlog once and returns the distinct chats in
// first-seen order. The Bot API only retains recent updates, so an empty
// result means nobody has messaged the bot lately, not that no chats exist.
func (c *Client) RecentChats(ctx context.Context) ([]RecentChat, error) {
	var updates []tgbotapi.Update
	err := c.withRetryOnce(ctx, "getUpdates", func() error {
		got, err := c.bot.GetUpdates(tgbotapi.UpdateConfig{Timeout: recentChatsPollTimeout})
		if err != nil {
			return err
		}
		updates = got
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dedupeChats(updates), nil
}

// dedupeChats collapses updates to one entry per chat, keeping first-seen
// order and the newest message text per chat.
func dedupeChats(updates []tgbotapi.Update) []RecentChat {
	index := map[int64]int{}
	var out []RecentChat
	for _, upd := range updates {
		msg := upd.Message
		if msg == nil || msg.Chat == nil {
			continue
		}
		entry := RecentChat{
			Summary:  summaryFromChat(msg.Chat),
			LastText: strings.TrimSpace(msg.Text),
			LastFrom: senderName(msg.From),
			UpdateID: upd.UpdateID,
		}
		if pos, seen := index[msg.Chat.ID]; seen {
			if entry.UpdateID >= out[pos].UpdateID {
				out[pos].LastText = entry.LastText
				out[pos].LastFrom = entry.LastFrom
				out[pos].UpdateID = entry.UpdateID
			}
			continue
		}
		index[msg.Chat.ID] = len(out)
		out = append(out, entry)
	}
	return out
}

func summaryFromChat(chat *tgbotapi.Chat) contacts.ChatSummary {
	if chat == nil {
		return contacts.ChatSummary{}
	}
	return contacts.ChatSummary{
		ID:        chat.ID,
		Type:      chat.Type,
		Title:     chat.Title,
		Username:  chat.UserName,
		FirstName: chat.FirstName,
		LastName:  chat.LastName,
	}
}

func senderName(u *tgbotapi.User) string {
	if u == nil {
		return ""
	}
	first := strings.TrimSpace(u.FirstName)
	last := strings.TrimSpace(u.LastName)
	username := strings.TrimSpace(u.UserName)
	switch {
	case first != "" && last != "":
		return first + " " + last
	case first != "":
		return first
	case last != "":
		return last
	case username != "":
		return "@" + username
	default:
		return ""
	}
}

// Summaries projects recent chats down to the import input.
func Summaries(recent []RecentChat) []contacts.ChatSummary {
	out := make([]contacts.ChatSummary, 0, len(recent))
	for _, rc := range recent {
		out = append(out, rc.Summary)
	}
	return out
}
