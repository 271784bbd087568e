package contacts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/quailyquaily/tgsend/internal/fsstore"
)

// storedContact is the on-disk shape of one entry. The file is a single JSON
// object keyed by display name:
//
//	{"Dev Team": {"chat_id": -100200300, "type": "supergroup"}}
type storedContact struct {
	ChatID int64  `json:"chat_id"`
	Type   string `json:"type,omitempty"`
}

// FileStore keeps the directory in one JSON file, written atomically. An
// advisory lock around Mutate guards against concurrent tgsend invocations.
type FileStore struct {
	path     string
	lockPath string
	mu       sync.Mutex
}

var _ Store = (*FileStore)(nil)

// NewFileStore builds a store over path. lockPath may be empty, in which case
// Mutate serializes in-process only.
func NewFileStore(path, lockPath string) *FileStore {
	return &FileStore{
		path:     strings.TrimSpace(path),
		lockPath: strings.TrimSpace(lockPath),
	}
}

func (s *FileStore) Path() string { return s.path }

// Load reads the persisted directory. A missing or empty file yields an empty
// directory; an unparsable file fails with ErrCorruptStore naming the path.
func (s *FileStore) Load(ctx context.Context) (*Directory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *FileStore) loadLocked() (*Directory, error) {
	raw := map[string]storedContact{}
	ok, err := fsstore.ReadJSON(s.path, &raw)
	if err != nil {
		if errors.Is(err, fsstore.ErrDecodeFailed) {
			return nil, fmt.Errorf("%w: %s", ErrCorruptStore, s.path)
		}
		return nil, err
	}
	dir := NewDirectory()
	if !ok {
		return dir, nil
	}
	// Iteration order over duplicate folded keys is not defined; sorted keys
	// make the survivor deterministic (last folded key wins).
	for _, name := range sortedKeys(raw) {
		entry := raw[name]
		chatType, valid := ParseChatType(entry.Type)
		if !valid {
			chatType = ChatTypePrivate
		}
		dir.Add(name, entry.ChatID, chatType)
	}
	return dir, nil
}

// Save writes the directory back in one atomic replace.
func (s *FileStore) Save(ctx context.Context, dir *Directory) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(dir)
}

func (s *FileStore) saveLocked(dir *Directory) error {
	raw := map[string]storedContact{}
	if dir != nil {
		for _, c := range dir.List() {
			raw[c.Name] = storedContact{ChatID: c.ChatID, Type: string(c.Type)}
		}
	}
	return fsstore.WriteJSONAtomic(s.path, raw, fsstore.FileOptions{})
}

// Mutate runs fn over a freshly loaded directory and persists the result,
// holding the advisory lock for the whole cycle.
func (s *FileStore) Mutate(ctx context.Context, fn func(dir *Directory) error) error {
	if fn == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cycle := func() error {
		dir, err := s.loadLocked()
		if err != nil {
			return err
		}
		if err := fn(dir); err != nil {
			return err
		}
		return s.saveLocked(dir)
	}

	if s.lockPath == "" {
		return cycle()
	}
	return fsstore.WithLock(ctx, s.lockPath, cycle)
}

func sortedKeys(m map[string]storedContact) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
