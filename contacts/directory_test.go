package contacts

import (
	"errors"
	"testing"
)

func TestAddOverwritesCaseInsensitively(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	dir.Add("John", 1, ChatTypePrivate)
	dir.Add("john", 1, ChatTypeGroup)

	if dir.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", dir.Len())
	}
	c, ok := dir.Get("JOHN")
	if !ok {
		t.Fatalf("Get(JOHN) not found")
	}
	if c.Name != "john" {
		t.Fatalf("display name = %q, want most recent casing %q", c.Name, "john")
	}
	if c.Type != ChatTypeGroup {
		t.Fatalf("type = %q, want most recent type %q", c.Type, ChatTypeGroup)
	}
}

func TestRemoveAbsentIsNoOp(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	dir.Add("John", 1, ChatTypePrivate)

	if dir.Remove("Ghost") {
		t.Fatalf("Remove(Ghost) = true, want false")
	}
	if dir.Len() != 1 {
		t.Fatalf("Len() = %d after no-op remove, want 1", dir.Len())
	}
	if !dir.Remove("JOHN") {
		t.Fatalf("Remove(JOHN) = false, want true")
	}
	if dir.Len() != 0 {
		t.Fatalf("Len() = %d after remove, want 0", dir.Len())
	}
}

func TestListSortedByName(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	dir.Add("zoe", 3, ChatTypePrivate)
	dir.Add("Alice", 1, ChatTypePrivate)
	dir.Add("bob", 2, ChatTypePrivate)

	got := dir.List()
	want := []string{"Alice", "bob", "zoe"}
	if len(got) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(got), len(want))
	}
	for i, name := range want {
		if got[i].Name != name {
			t.Fatalf("List()[%d].Name = %q, want %q", i, got[i].Name, name)
		}
	}
}

func TestSearchSubstring(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	dir.Add("Dev Team", -100200300, ChatTypeSupergroup)
	dir.Add("Team", -42, ChatTypeGroup)
	dir.Add("John", 7, ChatTypePrivate)

	got := dir.Search("team")
	if len(got) != 2 {
		t.Fatalf("Search(team) len = %d, want 2", len(got))
	}
	if got[0].Name != "Dev Team" || got[1].Name != "Team" {
		t.Fatalf("Search(team) = %v", got)
	}
	if matches := dir.Search("nobody"); len(matches) != 0 {
		t.Fatalf("Search(nobody) = %v, want empty", matches)
	}
}

func TestResolveLiteralPassthrough(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	id, err := dir.Resolve("-100123456789")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id != -100123456789 {
		t.Fatalf("Resolve() = %d, want -100123456789", id)
	}
}

func TestResolveExactBeatsSubstring(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	dir.Add("Team", -1, ChatTypeGroup)
	dir.Add("Dev Team", -2, ChatTypeSupergroup)

	id, err := dir.Resolve("team")
	if err != nil {
		t.Fatalf("Resolve(team) error = %v", err)
	}
	if id != -1 {
		t.Fatalf("Resolve(team) = %d, want exact match -1", id)
	}
}

func TestResolveUniqueSubstring(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	dir.Add("Dev Team", -2, ChatTypeSupergroup)
	dir.Add("John", 7, ChatTypePrivate)

	id, err := dir.Resolve("dev")
	if err != nil {
		t.Fatalf("Resolve(dev) error = %v", err)
	}
	if id != -2 {
		t.Fatalf("Resolve(dev) = %d, want -2", id)
	}
}

func TestResolveAmbiguous(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	dir.Add("Bob", 1, ChatTypePrivate)
	dir.Add("Bobby", 2, ChatTypePrivate)

	if id, err := dir.Resolve("Bob"); err != nil || id != 1 {
		t.Fatalf("Resolve(Bob) = %d, %v; want exact match 1", id, err)
	}

	_, err := dir.Resolve("Bo")
	var ambiguous *AmbiguousError
	if !errors.As(err, &ambiguous) {
		t.Fatalf("Resolve(Bo) error = %v, want AmbiguousError", err)
	}
	if len(ambiguous.Candidates) != 2 {
		t.Fatalf("candidates = %v, want both names", ambiguous.Candidates)
	}
	if ambiguous.Candidates[0] != "Bob" || ambiguous.Candidates[1] != "Bobby" {
		t.Fatalf("candidates = %v, want sorted [Bob Bobby]", ambiguous.Candidates)
	}
}

func TestResolveNotFound(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	_, err := dir.Resolve("Nonexistent")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Resolve() error = %v, want NotFoundError", err)
	}
	if notFound.Target != "Nonexistent" {
		t.Fatalf("Target = %q, want the literal target", notFound.Target)
	}
}

func TestImportDedupAndNaming(t *testing.T) {
	t.Parallel()

	dir := NewDirectory()
	stats := dir.Import([]ChatSummary{
		{ID: 1, Type: "private", FirstName: "John", LastName: "Doe"},
		{ID: 2, Type: "private", FirstName: "john"},
		{ID: -3, Type: "supergroup", Title: "Dev Team"},
		{ID: 4, Type: "private", Username: "ghost_user"},
		{ID: 5, Type: "private"},
	})

	if stats.Added != 3 || stats.Updated != 1 || stats.Skipped != 1 {
		t.Fatalf("Import stats = %+v, want {Added:3 Updated:1 Skipped:1}", stats)
	}
	if dir.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", dir.Len())
	}
	if c, _ := dir.Get("john"); c.ChatID != 2 {
		t.Fatalf("john chat_id = %d, want last write 2", c.ChatID)
	}
	if c, ok := dir.Get("ghost_user"); !ok || c.ChatID != 4 {
		t.Fatalf("username fallback missing: %+v ok=%v", c, ok)
	}

	// Second run over the same summaries only updates.
	again := dir.Import([]ChatSummary{{ID: -3, Type: "supergroup", Title: "Dev Team"}})
	if again.Added != 0 || again.Updated != 1 {
		t.Fatalf("second Import stats = %+v, want only updates", again)
	}
}
