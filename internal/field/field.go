// Package field implements live input masks for the contact form's text
// fields. A policy decides, per proposed edit, whether the edit may reach
// the field's stored text.
package field

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// PhoneMaxLength is the maximum number of characters the phone field holds.
const PhoneMaxLength = 10

// ErrInputRejected indicates a proposed edit failed the field's policy.
// Presentation layers drop it silently.
var ErrInputRejected = errors.New("field: input rejected")

// ErrOutOfRange indicates an edit's offset or length falls outside the text.
var ErrOutOfRange = errors.New("field: edit out of range")

// EditKind identifies the shape of a proposed edit.
type EditKind int

const (
	Insert  EditKind = iota // Text inserted at Offset.
	Replace                 // Length runes at Offset replaced by Text.
	Remove                  // Length runes at Offset deleted.
)

// String returns the lowercase name of the kind.
func (k EditKind) String() string {
	switch k {
	case Insert:
		return "insert"
	case Replace:
		return "replace"
	case Remove:
		return "remove"
	default:
		return fmt.Sprintf("EditKind(%d)", int(k))
	}
}

// Edit is a proposed change to a field, in runes against its current text.
type Edit struct {
	Kind   EditKind
	Offset int
	Length int
	Text   string
}

// InsertAt returns an insertion of text at offset.
func InsertAt(offset int, text string) Edit {
	return Edit{Kind: Insert, Offset: offset, Text: text}
}

// ReplaceAt returns a replacement of length runes at offset with text.
func ReplaceAt(offset, length int, text string) Edit {
	return Edit{Kind: Replace, Offset: offset, Length: length, Text: text}
}

// RemoveAt returns a deletion of length runes at offset.
func RemoveAt(offset, length int) Edit {
	return Edit{Kind: Remove, Offset: offset, Length: length}
}

// Policy reports whether e may be applied to current.
type Policy func(current string, e Edit) bool

var (
	lettersOnly = regexp.MustCompile(`^[a-zA-Z]*$`)
	digitsOnly  = regexp.MustCompile(`^[0-9]*$`)
)

// Name admits deletions and any edit whose new text is made of ASCII letters.
// The whole inserted text must match; there is no length cap.
func Name(_ string, e Edit) bool {
	if e.Kind == Remove {
		return true
	}
	return lettersOnly.MatchString(e.Text)
}

// Phone admits deletions and any edit whose new text is made of ASCII digits,
// provided the resulting text is at most PhoneMaxLength characters.
func Phone(current string, e Edit) bool {
	if e.Kind == Remove {
		return true
	}
	if !digitsOnly.MatchString(e.Text) {
		return false
	}
	replaced := 0
	if e.Kind == Replace {
		replaced = e.Length
	}
	return utf8.RuneCountInString(current)-replaced+utf8.RuneCountInString(e.Text) <= PhoneMaxLength
}

// Apply splices e into current and returns the resulting text.
func Apply(current string, e Edit) (string, error) {
	runes := []rune(current)
	length := e.Length
	if e.Kind == Insert {
		length = 0
	}
	if e.Offset < 0 || length < 0 || e.Offset+length > len(runes) {
		return current, fmt.Errorf("%w: offset %d length %d in %d runes", ErrOutOfRange, e.Offset, length, len(runes))
	}
	text := e.Text
	if e.Kind == Remove {
		text = ""
	}

	out := make([]rune, 0, len(runes)-length+utf8.RuneCountInString(text))
	out = append(out, runes[:e.Offset]...)
	out = append(out, []rune(text)...)
	out = append(out, runes[e.Offset+length:]...)
	return string(out), nil
}

// Diff returns the single edit that turns before into after, found by
// trimming their common prefix and suffix. ok is false when they are equal.
func Diff(before, after string) (e Edit, ok bool) {
	if before == after {
		return Edit{}, false
	}
	b, a := []rune(before), []rune(after)

	prefix := 0
	for prefix < len(b) && prefix < len(a) && b[prefix] == a[prefix] {
		prefix++
	}
	suffix := 0
	for suffix < len(b)-prefix && suffix < len(a)-prefix &&
		b[len(b)-1-suffix] == a[len(a)-1-suffix] {
		suffix++
	}

	removed := len(b) - prefix - suffix
	inserted := string(a[prefix : len(a)-suffix])

	switch {
	case removed == 0:
		return InsertAt(prefix, inserted), true
	case inserted == "":
		return RemoveAt(prefix, removed), true
	default:
		return ReplaceAt(prefix, removed, inserted), true
	}
}

// Buffer holds a field's committed text guarded by a policy.
// The zero value admits nothing but deletions; use NewBuffer.
type Buffer struct {
	policy Policy
	text   string
}

// NewBuffer returns an empty buffer guarded by p.
func NewBuffer(p Policy) *Buffer {
	return &Buffer{policy: p}
}

// Text returns the committed text.
func (b *Buffer) Text() string {
	return b.text
}

// Propose applies e if the policy admits it. A rejected edit leaves the
// text untouched and returns ErrInputRejected.
func (b *Buffer) Propose(e Edit) error {
	admitted := e.Kind == Remove || (b.policy != nil && b.policy(b.text, e))
	if !admitted {
		return fmt.Errorf("%w: %s %q", ErrInputRejected, e.Kind, e.Text)
	}
	next, err := Apply(b.text, e)
	if err != nil {
		return err
	}
	b.text = next
	return nil
}

// Clear empties the buffer.
func (b *Buffer) Clear() {
	b.text = ""
}
