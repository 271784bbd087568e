package contacts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	root := t.TempDir()
	return NewFileStore(
		filepath.Join(root, "contacts.json"),
		filepath.Join(root, ".locks", "contacts.lck"),
	)
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	dir, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if dir.Len() != 0 {
		t.Fatalf("Len() = %d for missing file, want 0", dir.Len())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	dir := NewDirectory()
	dir.Add("John", 42, ChatTypePrivate)
	dir.Add("Dev Team", -100200300, ChatTypeSupergroup)
	if err := store.Save(ctx, dir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", loaded.Len())
	}
	john, ok := loaded.Get("john")
	if !ok || john.ChatID != 42 || john.Type != ChatTypePrivate {
		t.Fatalf("john = %+v ok=%v", john, ok)
	}
	team, ok := loaded.Get("dev team")
	if !ok || team.Name != "Dev Team" || team.ChatID != -100200300 {
		t.Fatalf("display casing lost: %+v ok=%v", team, ok)
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte("{broken"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrCorruptStore) {
		t.Fatalf("Load() error = %v, want ErrCorruptStore", err)
	}
	if !strings.Contains(err.Error(), store.Path()) {
		t.Fatalf("error %q should name the store path", err)
	}
}

func TestFileStoreMutatePersists(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	err := store.Mutate(ctx, func(dir *Directory) error {
		dir.Add("John", 42, ChatTypePrivate)
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}

	err = store.Mutate(ctx, func(dir *Directory) error {
		if dir.Len() != 1 {
			t.Fatalf("Mutate() sees Len() = %d, want 1", dir.Len())
		}
		dir.Remove("john")
		return nil
	})
	if err != nil {
		t.Fatalf("Mutate() error = %v", err)
	}

	loaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Len() != 0 {
		t.Fatalf("Len() = %d after remove, want 0", loaded.Len())
	}
}

func TestFileStoreMutateErrorSkipsSave(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newTestStore(t)

	boom := errors.New("boom")
	err := store.Mutate(ctx, func(dir *Directory) error {
		dir.Add("John", 42, ChatTypePrivate)
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Mutate() error = %v, want wrapped boom", err)
	}
	if _, statErr := os.Stat(store.Path()); !errors.Is(statErr, os.ErrNotExist) {
		t.Fatalf("store file should not exist after failed mutate")
	}
}

func TestFileStoreDuplicateFoldedKeysLastWins(t *testing.T) {
	t.Parallel()

	store := newTestStore(t)
	payload := `{
  "John": {"chat_id": 1, "type": "private"},
  "john": {"chat_id": 2, "type": "private"}
}`
	if err := os.MkdirAll(filepath.Dir(store.Path()), 0o700); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(store.Path(), []byte(payload), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	dir, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if dir.Len() != 1 {
		t.Fatalf("Len() = %d, want folded duplicates collapsed to 1", dir.Len())
	}
	// Keys load in sorted order ("John" < "john"), so the lowercase entry wins.
	c, _ := dir.Get("john")
	if c.ChatID != 2 {
		t.Fatalf("survivor chat_id = %d, want 2", c.ChatID)
	}
}
