// ABOUTME: Tests for list, todo, and filename validation rules
// ABOUTME: Covers length bounds, duplicate detection, and filename patterns

package validate

import (
	"strings"
	"testing"
)

func TestListName_Valid(t *testing.T) {
	if err := ListName("Groceries", nil); err != nil {
		t.Errorf("ListName() error = %v, want nil", err)
	}
}

func TestListName_TrimsWhitespace(t *testing.T) {
	if err := ListName("  Groceries  ", nil); err != nil {
		t.Errorf("ListName() error = %v, want nil after trimming", err)
	}
	// All-whitespace trims down to empty
	if err := ListName("   ", nil); err != ErrTooShortOrLong {
		t.Errorf("ListName(whitespace) error = %v, want ErrTooShortOrLong", err)
	}
}

func TestListName_LengthBounds(t *testing.T) {
	if err := ListName("", nil); err != ErrTooShortOrLong {
		t.Errorf("ListName(empty) error = %v, want ErrTooShortOrLong", err)
	}
	if err := ListName(strings.Repeat("a", 100), nil); err != nil {
		t.Errorf("ListName(100 chars) error = %v, want nil", err)
	}
	if err := ListName(strings.Repeat("a", 101), nil); err != ErrTooShortOrLong {
		t.Errorf("ListName(101 chars) error = %v, want ErrTooShortOrLong", err)
	}
}

func TestListName_LengthCountsRunes(t *testing.T) {
	// 100 multi-byte characters is within bounds even though it exceeds 100 bytes
	if err := ListName(strings.Repeat("ä", 100), nil); err != nil {
		t.Errorf("ListName(100 runes) error = %v, want nil", err)
	}
}

func TestListName_Duplicate(t *testing.T) {
	existing := []string{"Groceries", "Chores"}

	if err := ListName("Groceries", existing); err != ErrDuplicateName {
		t.Errorf("ListName(duplicate) error = %v, want ErrDuplicateName", err)
	}
	// Case-sensitive: differing case is not a duplicate
	if err := ListName("groceries", existing); err != nil {
		t.Errorf("ListName(different case) error = %v, want nil", err)
	}
	if err := ListName("Errands", existing); err != nil {
		t.Errorf("ListName(unique) error = %v, want nil", err)
	}
}

func TestTodoName(t *testing.T) {
	if err := TodoName("Milk"); err != nil {
		t.Errorf("TodoName() error = %v, want nil", err)
	}
	if err := TodoName(""); err != ErrTooShortOrLong {
		t.Errorf("TodoName(empty) error = %v, want ErrTooShortOrLong", err)
	}
	if err := TodoName(strings.Repeat("x", 101)); err != ErrTooShortOrLong {
		t.Errorf("TodoName(101 chars) error = %v, want ErrTooShortOrLong", err)
	}
	// No uniqueness constraint for todos: validation has no sibling input
	if err := TodoName("Milk"); err != nil {
		t.Errorf("TodoName(repeat) error = %v, want nil", err)
	}
}

func TestFilename(t *testing.T) {
	tests := []struct {
		name  string
		input string
		valid bool
	}{
		{"markdown", "about.md", true},
		{"plaintext", "notes.txt", true},
		{"trimmed", "  about.md  ", true},
		{"uppercase", "About.md", false},
		{"digits", "notes2.txt", false},
		{"no extension", "about", false},
		{"wrong extension", "about.doc", false},
		{"empty", "", false},
		{"extension only", ".md", false},
		{"double extension", "a.md.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Filename(tt.input)
			if tt.valid && err != nil {
				t.Errorf("Filename(%q) error = %v, want nil", tt.input, err)
			}
			if !tt.valid && err != ErrInvalidFormat {
				t.Errorf("Filename(%q) error = %v, want ErrInvalidFormat", tt.input, err)
			}
		})
	}
}
