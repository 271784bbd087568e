package targetutil

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/quailyquaily/tgsend/contacts"
)

func seededStore(t *testing.T) contacts.Store {
	t.Helper()
	store := contacts.NewFileStore(filepath.Join(t.TempDir(), "contacts.json"), "")
	err := store.Mutate(context.Background(), func(dir *contacts.Directory) error {
		dir.Add("John", 42, contacts.ChatTypePrivate)
		dir.Add("Dev Team", -100200300, contacts.ChatTypeSupergroup)
		return nil
	})
	if err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func TestResolveLiteralSkipsStore(t *testing.T) {
	t.Parallel()

	// A store over an unreadable path never gets touched for literal IDs.
	store := contacts.NewFileStore(filepath.Join(t.TempDir(), "missing", "contacts.json"), "")
	id, err := Resolve(context.Background(), store, "-100123456789", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != -100123456789 {
		t.Fatalf("Resolve() = %d", id)
	}
}

func TestResolveByName(t *testing.T) {
	t.Parallel()

	id, err := Resolve(context.Background(), seededStore(t), "john", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != 42 {
		t.Fatalf("Resolve() = %d, want 42", id)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	t.Parallel()

	id, err := Resolve(context.Background(), seededStore(t), "", "dev team")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != -100200300 {
		t.Fatalf("Resolve() = %d, want default target", id)
	}

	if _, err := Resolve(context.Background(), seededStore(t), "", ""); !errors.Is(err, ErrNoTarget) {
		t.Fatalf("Resolve() error = %v, want ErrNoTarget", err)
	}
}

func TestHintListsContacts(t *testing.T) {
	t.Parallel()

	store := seededStore(t)
	_, err := Resolve(context.Background(), store, "Nonexistent", "")
	hint := Hint(context.Background(), store, err)
	if !strings.Contains(hint, "Dev Team") || !strings.Contains(hint, "John") {
		t.Fatalf("Hint() = %q, want known contacts listed", hint)
	}
}

func TestHintAmbiguous(t *testing.T) {
	t.Parallel()

	err := &contacts.AmbiguousError{Target: "Bo", Candidates: []string{"Bob", "Bobby"}}
	hint := Hint(context.Background(), seededStore(t), err)
	if !strings.Contains(hint, "Bob, Bobby") {
		t.Fatalf("Hint() = %q, want candidate list", hint)
	}
}

func TestHintEmptyForOtherErrors(t *testing.T) {
	t.Parallel()

	if hint := Hint(context.Background(), seededStore(t), errors.New("boom")); hint != "" {
		t.Fatalf("Hint() = %q, want empty", hint)
	}
}
