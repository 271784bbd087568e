// Package telegram wraps the Bot API client library with the handful of
// operations tgsend needs. Every call is one-shot; the package keeps no
// long-lived state beyond the HTTP client.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type ParseMode string

const (
	ParseModeNone     ParseMode = ""
	ParseModeMarkdown ParseMode = "markdown"
	ParseModeHTML     ParseMode = "html"
)

// ParseModeFromFlag maps the --format flag values onto a ParseMode.
func ParseModeFromFlag(raw string) (ParseMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return ParseModeNone, nil
	case "markdown":
		return ParseModeMarkdown, nil
	case "html":
		return ParseModeHTML, nil
	default:
		return ParseModeNone, fmt.Errorf("unknown format %q (want markdown, html or none)", raw)
	}
}

// BotProfile is the getMe result subset the CLI reports.
type BotProfile struct {
	ID                      int64  `json:"id"`
	Username                string `json:"username"`
	FirstName               string `json:"first_name"`
	IsBot                   bool   `json:"is_bot"`
	CanJoinGroups           bool   `json:"can_join_groups"`
	CanReadAllGroupMessages bool   `json:"can_read_all_group_messages"`
	SupportsInlineQueries   bool   `json:"supports_inline_queries"`
}

// Sent describes one delivered message.
type Sent struct {
	MessageID int       `json:"message_id"`
	ChatID    int64     `json:"chat_id"`
	Time      time.Time `json:"time"`
}

// ChatDetails is the getChat result subset the CLI reports.
type ChatDetails struct {
	ID          int64  `json:"id"`
	Type        string `json:"type"`
	Title       string `json:"title,omitempty"`
	Username    string `json:"username,omitempty"`
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	Description string `json:"description,omitempty"`
}

// Client is a thin wrapper over the Bot API library. The underlying library
// does not thread contexts through requests, so ctx governs only the
// rate-limit wait between the first attempt and the single retry.
type Client struct {
	bot    *tgbotapi.BotAPI
	logger *slog.Logger
}

// New builds a client without the library's startup getMe probe, so an
// invalid token surfaces as a real API error on first use instead of at
// construction.
func New(token, endpoint string, logger *slog.Logger) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, errors.New("telegram: missing bot token")
	}
	if logger == nil {
		logger = slog.Default()
	}
	bot := &tgbotapi.BotAPI{
		Token:  token,
		Client: &http.Client{Timeout: 60 * time.Second},
		Buffer: 100,
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	bot.SetAPIEndpoint(endpoint)
	return &Client{bot: bot, logger: logger}, nil
}

// Me fetches the bot's own profile.
func (c *Client) Me(ctx context.Context) (BotProfile, error) {
	var profile BotProfile
	err := c.withRetryOnce(ctx, "getMe", func() error {
		me, err := c.bot.GetMe()
		if err != nil {
			return err
		}
		profile = BotProfile{
			ID:                      me.ID,
			Username:                me.UserName,
			FirstName:               me.FirstName,
			IsBot:                   me.IsBot,
			CanJoinGroups:           me.CanJoinGroups,
			CanReadAllGroupMessages: me.CanReadAllGroupMessages,
			SupportsInlineQueries:   me.SupportsInlineQueries,
		}
		return nil
	})
	return profile, err
}

// SendMessage delivers text to chatID. Markdown mode follows the MarkdownV2
// escalation: raw first, escaped on a parse failure, plain text as the last
// resort.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, mode ParseMode, disablePreview bool) (Sent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Sent{}, errors.New("telegram: empty message text")
	}

	switch mode {
	case ParseModeMarkdown:
		return c.sendMarkdown(ctx, chatID, text, disablePreview)
	case ParseModeHTML:
		return c.send(ctx, chatID, text, tgbotapi.ModeHTML, disablePreview, nil)
	default:
		return c.send(ctx, chatID, text, "", disablePreview, nil)
	}
}

func (c *Client) sendMarkdown(ctx context.Context, chatID int64, text string, disablePreview bool) (Sent, error) {
	sent, err := c.send(ctx, chatID, text, tgbotapi.ModeMarkdownV2, disablePreview, nil)
	if err == nil {
		return sent, nil
	}
	if !isMarkdownParseError(err) {
		return Sent{}, err
	}
	c.logger.Warn("markdownv2 rejected, retrying escaped", "error", err.Error())
	sent, err = c.send(ctx, chatID, EscapeMarkdownV2(text), tgbotapi.ModeMarkdownV2, disablePreview, nil)
	if err == nil {
		return sent, nil
	}
	if !isMarkdownParseError(err) {
		return Sent{}, err
	}
	c.logger.Warn("escaped markdownv2 rejected, falling back to plain text", "error", err.Error())
	return c.send(ctx, chatID, text, "", disablePreview, nil)
}

// SendWithButtons delivers text with an inline keyboard. Each label doubles
// as its callback data; rows hold at most columns buttons.
func (c *Client) SendWithButtons(ctx context.Context, chatID int64, text string, labels []string, columns int) (Sent, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Sent{}, errors.New("telegram: empty message text")
	}
	rows := buttonRows(labels, columns)
	if len(rows) == 0 {
		return Sent{}, errors.New("telegram: no button labels")
	}
	markup := tgbotapi.NewInlineKeyboardMarkup(rows...)
	return c.send(ctx, chatID, text, "", false, &markup)
}

func buttonRows(labels []string, columns int) [][]tgbotapi.InlineKeyboardButton {
	if columns <= 0 {
		columns = 2
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var row []tgbotapi.InlineKeyboardButton
	for _, raw := range labels {
		label := strings.TrimSpace(raw)
		if label == "" {
			continue
		}
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, label))
		if len(row) == columns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	return rows
}

func (c *Client) send(ctx context.Context, chatID int64, text, parseMode string, disablePreview bool, markup *tgbotapi.InlineKeyboardMarkup) (Sent, error) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	msg.DisableWebPagePreview = disablePreview
	if markup != nil {
		msg.ReplyMarkup = *markup
	}

	var sent Sent
	err := c.withRetryOnce(ctx, "sendMessage", func() error {
		delivered, err := c.bot.Send(msg)
		if err != nil {
			return err
		}
		sent = sentFromMessage(delivered)
		return nil
	})
	return sent, err
}

// SendDocument uploads the file at path as a document, with an optional
// caption. A non-empty filename overrides the name recipients see.
func (c *Client) SendDocument(ctx context.Context, chatID int64, path, filename, caption string) (Sent, error) {
	path = strings.TrimSpace(path)
	if err := checkUploadPath(path); err != nil {
		return Sent{}, err
	}

	filename = strings.TrimSpace(filename)

	var sent Sent
	err := c.withRetryOnce(ctx, "sendDocument", func() error {
		// Rebuild the payload per attempt; a FileReader is consumed by the
		// first upload.
		var payload tgbotapi.RequestFileData = tgbotapi.FilePath(path)
		if filename != "" {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("telegram: %w", err)
			}
			defer f.Close()
			payload = tgbotapi.FileReader{Name: filename, Reader: f}
		}
		doc := tgbotapi.NewDocument(chatID, payload)
		doc.Caption = strings.TrimSpace(caption)

		delivered, err := c.bot.Send(doc)
		if err != nil {
			return err
		}
		sent = sentFromMessage(delivered)
		return nil
	})
	return sent, err
}

// SendPhoto uploads the file at path as a photo with an optional caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, path, caption string) (Sent, error) {
	path = strings.TrimSpace(path)
	if err := checkUploadPath(path); err != nil {
		return Sent{}, err
	}
	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FilePath(path))
	photo.Caption = strings.TrimSpace(caption)

	var sent Sent
	err := c.withRetryOnce(ctx, "sendPhoto", func() error {
		delivered, err := c.bot.Send(photo)
		if err != nil {
			return err
		}
		sent = sentFromMessage(delivered)
		return nil
	})
	return sent, err
}

// ChatInfo fetches details about one chat.
func (c *Client) ChatInfo(ctx context.Context, chatID int64) (ChatDetails, error) {
	var details ChatDetails
	err := c.withRetryOnce(ctx, "getChat", func() error {
		chat, err := c.bot.GetChat(tgbotapi.ChatInfoConfig{
			ChatConfig: tgbotapi.ChatConfig{ChatID: chatID},
		})
		if err != nil {
			return err
		}
		details = ChatDetails{
			ID:          chat.ID,
			Type:        chat.Type,
			Title:       chat.Title,
			Username:    chat.UserName,
			FirstName:   chat.FirstName,
			LastName:    chat.LastName,
			Description: chat.Description,
		}
		return nil
	})
	return details, err
}

func sentFromMessage(m tgbotapi.Message) Sent {
	out := Sent{MessageID: m.MessageID, Time: time.Unix(int64(m.Date), 0)}
	if m.Chat != nil {
		out.ChatID = m.Chat.ID
	}
	return out
}

func checkUploadPath(path string) error {
	if path == "" {
		return errors.New("telegram: missing file path")
	}
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	if st.IsDir() {
		return fmt.Errorf("telegram: path is a directory: %s", path)
	}
	return nil
}

// withRetryOnce runs fn and, on a rate-limit error carrying a retry_after,
// waits the server-specified delay and retries exactly once. Every other
// error is terminal.
func (c *Client) withRetryOnce(ctx context.Context, op string, fn func() error) error {
	err := fn()
	if err == nil {
		return nil
	}
	delay, ok := retryAfter(err)
	if !ok {
		return err
	}
	c.logger.Warn("rate limited, retrying once", "op", op, "retry_after", delay.String())
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("telegram: %s canceled while rate limited: %w", op, ctx.Err())
	case <-timer.C:
	}
	return fn()
}

// retryAfter extracts the server-specified wait from a 429 response.
func retryAfter(err error) (time.Duration, bool) {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return 0, false
	}
	if apiErr.Code != http.StatusTooManyRequests || apiErr.RetryAfter <= 0 {
		return 0, false
	}
	return time.Duration(apiErr.RetryAfter) * time.Second, true
}
