// Package contact holds the ordered, in-memory contact list and the
// operations the form performs on it.
package contact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var (
	// ErrValidation indicates an empty name, an empty phone, or a phone
	// that is not exactly ten digits.
	ErrValidation = errors.New("contact: validation failed")

	// ErrNoSelection indicates Edit or Delete was given an index that does
	// not refer to a stored contact.
	ErrNoSelection = errors.New("contact: no contact selected")
)

// NoSelection is the index callers pass when no row is selected.
const NoSelection = -1

var validate = validator.New()

// Contact is a single (name, phone) record.
type Contact struct {
	Name  string `yaml:"name" validate:"required"`
	Phone string `yaml:"phone" validate:"required,len=10,number"`
}

// Validate checks c against the rules enforced on every write.
func (c Contact) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// SearchResult is the outcome of FindByName.
// Performed is false when the query was empty and no search ran.
type SearchResult struct {
	Performed bool
	Matches   []Contact
}

// NotFound reports whether a search ran and matched nothing.
func (r SearchResult) NotFound() bool {
	return r.Performed && len(r.Matches) == 0
}

// Store is an ordered list of contacts. Insertion order is display order
// and a contact's index is its position. Not safe for concurrent use.
type Store struct {
	contacts []Contact
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Add validates and appends a contact.
func (s *Store) Add(name, phone string) error {
	c := Contact{Name: name, Phone: phone}
	if err := c.Validate(); err != nil {
		return err
	}
	s.contacts = append(s.contacts, c)
	return nil
}

// FindByName returns every contact whose name equals query, ignoring case,
// in stored order. An empty query performs no search.
func (s *Store) FindByName(query string) SearchResult {
	if query == "" {
		return SearchResult{}
	}
	matches := lo.Filter(s.contacts, func(c Contact, _ int) bool {
		return strings.EqualFold(c.Name, query)
	})
	return SearchResult{Performed: true, Matches: matches}
}

// Edit overwrites the contact at index in place. The selection is checked
// before the new values are validated.
func (s *Store) Edit(index int, name, phone string) error {
	if !s.inRange(index) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSelection, index, len(s.contacts))
	}
	c := Contact{Name: name, Phone: phone}
	if err := c.Validate(); err != nil {
		return err
	}
	s.contacts[index] = c
	return nil
}

// Delete removes the contact at index; later contacts shift down by one.
func (s *Store) Delete(index int) error {
	if !s.inRange(index) {
		return fmt.Errorf("%w: index %d of %d", ErrNoSelection, index, len(s.contacts))
	}
	s.contacts = append(s.contacts[:index], s.contacts[index+1:]...)
	return nil
}

// Contacts returns a copy of the stored contacts in display order.
func (s *Store) Contacts() []Contact {
	return append([]Contact(nil), s.contacts...)
}

// Len returns the number of stored contacts.
func (s *Store) Len() int {
	return len(s.contacts)
}

func (s *Store) inRange(index int) bool {
	return index >= 0 && index < len(s.contacts)
}
