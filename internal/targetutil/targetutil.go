// Package targetutil turns the user-facing --to value into a chat ID using
// the contact directory, with the fallbacks the send commands share.
package targetutil

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/quailyquaily/tgsend/contacts"
)

// ErrNoTarget means neither --to nor a configured default target was given.
var ErrNoTarget = errors.New("no target: pass --to <name|chat_id> or configure a default target")

// Resolve picks the effective target (explicit target first, the configured
// default otherwise) and resolves it through the directory. Integer literals
// skip the directory entirely, so a missing contact file cannot block sends
// to explicit chat IDs.
func Resolve(ctx context.Context, store contacts.Store, target, defaultTarget string) (int64, error) {
	effective := strings.TrimSpace(target)
	if effective == "" {
		effective = strings.TrimSpace(defaultTarget)
	}
	if effective == "" {
		return 0, ErrNoTarget
	}

	// Fast path shared with Directory.Resolve: literal IDs need no store.
	if id, err := contacts.NewDirectory().Resolve(effective); err == nil {
		return id, nil
	}

	dir, err := store.Load(ctx)
	if err != nil {
		return 0, err
	}
	return dir.Resolve(effective)
}

// Hint explains a resolution failure, listing a few known contacts the way a
// user would want to see them after a typo. Non-resolution errors get no
// hint.
func Hint(ctx context.Context, store contacts.Store, err error) string {
	var notFound *contacts.NotFoundError
	var ambiguous *contacts.AmbiguousError
	switch {
	case errors.As(err, &ambiguous):
		return fmt.Sprintf("Candidates: %s. Retry with a more specific name or the chat ID.", strings.Join(ambiguous.Candidates, ", "))
	case errors.As(err, &notFound):
		dir, loadErr := store.Load(ctx)
		if loadErr != nil || dir.Len() == 0 {
			return "No contacts saved yet. Run `tgsend contacts import` or `tgsend contacts add <name> <chat_id>`."
		}
		names := make([]string, 0, 5)
		for _, c := range dir.List() {
			if len(names) == 5 {
				break
			}
			names = append(names, c.Name)
		}
		hint := "Known contacts: " + strings.Join(names, ", ")
		if dir.Len() > len(names) {
			hint += fmt.Sprintf(" (and %d more)", dir.Len()-len(names))
		}
		return hint
	default:
		return ""
	}
}
