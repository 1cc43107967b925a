// ABOUTME: Validation predicates gating list, todo, and document mutations
// ABOUTME: Pure functions; callers decide whether to surface the error or proceed

package validate

import (
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrTooShortOrLong is returned when a name is empty or longer than 100 characters.
var ErrTooShortOrLong = errors.New("name must be between 1 and 100 characters")

// ErrDuplicateName is returned when a name already exists among its siblings.
var ErrDuplicateName = errors.New("name must be unique")

// ErrInvalidFormat is returned when a filename is not lowercase letters plus .md or .txt.
var ErrInvalidFormat = errors.New("filename must be lowercase letters ending in .md or .txt")

// Filename pattern: lowercase letters, then a markdown or plaintext extension.
var filenameRegex = regexp.MustCompile(`^[a-z]+\.(md|txt)$`)

const maxNameLength = 100

// ListName checks a list name against the length rule and its sibling names.
// The duplicate check is an exact, case-sensitive match. Leading and trailing
// whitespace is trimmed before checking.
func ListName(name string, existing []string) error {
	name = strings.TrimSpace(name)
	if err := nameLength(name); err != nil {
		return err
	}
	for _, other := range existing {
		if name == other {
			return ErrDuplicateName
		}
	}
	return nil
}

// TodoName checks a todo name against the length rule. Todos have no
// uniqueness constraint.
func TodoName(name string) error {
	return nameLength(strings.TrimSpace(name))
}

// Filename checks a document filename against the allowed pattern.
func Filename(name string) error {
	if !filenameRegex.MatchString(strings.TrimSpace(name)) {
		return ErrInvalidFormat
	}
	return nil
}

func nameLength(name string) error {
	n := utf8.RuneCountInString(name)
	if n < 1 || n > maxNameLength {
		return ErrTooShortOrLong
	}
	return nil
}
