package contacts

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCorruptStore marks a contact file that exists but cannot be parsed.
// Callers surface it with the path instead of silently discarding the file.
var ErrCorruptStore = errors.New("contacts: corrupt store")

// NotFoundError reports a target that matched nothing in the directory.
type NotFoundError struct {
	Target string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("contact not found: %s", e.Target)
}

// AmbiguousError reports a target that substring-matched more than one
// contact. Candidates are sorted for stable output.
type AmbiguousError struct {
	Target     string
	Candidates []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous contact %q: matches %s", e.Target, strings.Join(e.Candidates, ", "))
}
