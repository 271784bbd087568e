package contacts

import (
	"sort"
	"strconv"
	"strings"
)

// Directory is the in-memory contact set, keyed by the case-folded name.
// It performs no I/O; persistence lives in Store implementations.
type Directory struct {
	entries map[string]Contact
}

func NewDirectory() *Directory {
	return &Directory{entries: map[string]Contact{}}
}

func foldName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (d *Directory) Len() int {
	return len(d.entries)
}

// Add inserts or overwrites the contact whose folded name matches. The most
// recent display casing and type win.
func (d *Directory) Add(name string, chatID int64, chatType ChatType) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	if chatType == "" {
		chatType = ChatTypePrivate
	}
	if d.entries == nil {
		d.entries = map[string]Contact{}
	}
	d.entries[foldName(name)] = Contact{Name: name, ChatID: chatID, Type: chatType}
}

// Remove deletes the entry whose folded name matches and reports whether
// anything was removed. Removing an absent name is not an error.
func (d *Directory) Remove(name string) bool {
	key := foldName(name)
	if _, ok := d.entries[key]; !ok {
		return false
	}
	delete(d.entries, key)
	return true
}

// Get looks up a contact by exact case-insensitive name.
func (d *Directory) Get(name string) (Contact, bool) {
	c, ok := d.entries[foldName(name)]
	return c, ok
}

// List returns all contacts sorted by folded display name.
func (d *Directory) List() []Contact {
	out := make([]Contact, 0, len(d.entries))
	for _, c := range d.entries {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		return foldName(out[i].Name) < foldName(out[j].Name)
	})
	return out
}

// Search returns the contacts whose display name contains query as a
// case-insensitive substring, sorted like List. An empty result is not an
// error.
func (d *Directory) Search(query string) []Contact {
	q := foldName(query)
	if q == "" {
		return nil
	}
	var out []Contact
	for key, c := range d.entries {
		if strings.Contains(key, q) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return foldName(out[i].Name) < foldName(out[j].Name)
	})
	return out
}

// Resolve translates a target into a chat ID. Integer literals pass through
// untouched. An exact case-insensitive match always wins; otherwise a unique
// substring match (either direction) resolves, zero matches yield
// NotFoundError and several yield AmbiguousError.
func (d *Directory) Resolve(target string) (int64, error) {
	trimmed := strings.TrimSpace(target)
	if id, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		return id, nil
	}

	if c, ok := d.Get(trimmed); ok {
		return c.ChatID, nil
	}

	q := foldName(trimmed)
	if q == "" {
		return 0, &NotFoundError{Target: target}
	}

	var candidates []Contact
	for key, c := range d.entries {
		if strings.Contains(key, q) || strings.Contains(q, key) {
			candidates = append(candidates, c)
		}
	}
	switch len(candidates) {
	case 0:
		return 0, &NotFoundError{Target: trimmed}
	case 1:
		return candidates[0].ChatID, nil
	default:
		names := make([]string, 0, len(candidates))
		for _, c := range candidates {
			names = append(names, c.Name)
		}
		sort.Strings(names)
		return 0, &AmbiguousError{Target: trimmed, Candidates: names}
	}
}

// Import merges externally observed chats into the directory, one contact per
// summary, under the same case-insensitive overwrite rule as Add. Summaries
// without a usable display name are skipped rather than stored under a
// synthetic alias.
func (d *Directory) Import(summaries []ChatSummary) ImportStats {
	var stats ImportStats
	for _, s := range summaries {
		name := s.DisplayName()
		if name == "" {
			stats.Skipped++
			continue
		}
		chatType, ok := ParseChatType(s.Type)
		if !ok {
			chatType = ChatTypePrivate
		}
		if _, exists := d.Get(name); exists {
			stats.Updated++
		} else {
			stats.Added++
		}
		d.Add(name, s.ID, chatType)
	}
	return stats
}
