package contact_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smileynet/contactbook/internal/contact"
)

func TestAdd_RejectsInvalidInputWithoutMutating(t *testing.T) {
	tests := []struct {
		name  string
		cname string
		phone string
	}{
		{"empty name", "", "1234567890"},
		{"empty phone", "John", ""},
		{"short phone", "John", "12345"},
		{"long phone", "John", "12345678901"},
		{"non-digit phone", "John", "12345abcde"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := contact.NewStore()

			err := store.Add(tt.cname, tt.phone)

			assert.ErrorIs(t, err, contact.ErrValidation)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestAdd_AppendsInInsertionOrder(t *testing.T) {
	store := contact.NewStore()

	require.NoError(t, store.Add("John", "1234567890"))
	require.NoError(t, store.Add("Jane", "0987654321"))

	assert.Equal(t, []contact.Contact{
		{Name: "John", Phone: "1234567890"},
		{Name: "Jane", Phone: "0987654321"},
	}, store.Contacts())
}

func TestFindByName_IsCaseInsensitiveExactMatch(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("John", "1234567890"))
	require.NoError(t, store.Add("Johnny", "1111111111"))
	require.NoError(t, store.Add("JOHN", "2222222222"))

	result := store.FindByName("john")

	assert.True(t, result.Performed)
	assert.False(t, result.NotFound())
	assert.Equal(t, []contact.Contact{
		{Name: "John", Phone: "1234567890"},
		{Name: "JOHN", Phone: "2222222222"},
	}, result.Matches)
}

func TestFindByName_DistinguishesNotFoundFromNotPerformed(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("John", "1234567890"))

	missing := store.FindByName("Jane")
	assert.True(t, missing.Performed)
	assert.True(t, missing.NotFound())
	assert.Empty(t, missing.Matches)

	skipped := store.FindByName("")
	assert.False(t, skipped.Performed)
	assert.False(t, skipped.NotFound())
}

func TestFindByName_IsRepeatable(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("Ann", "1234567890"))

	first := store.FindByName("ann")
	second := store.FindByName("ann")

	assert.Equal(t, first, second)
}

func TestFindByName_ReturnsCopies(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("Ann", "1234567890"))

	result := store.FindByName("Ann")
	result.Matches[0].Name = "Mutated"

	assert.Equal(t, "Ann", store.Contacts()[0].Name)
}

func TestEdit_RequiresSelectionBeforeValidation(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("John", "1234567890"))

	for _, index := range []int{contact.NoSelection, 1, 42} {
		err := store.Edit(index, "", "")
		assert.ErrorIs(t, err, contact.ErrNoSelection, "index %d", index)
		assert.NotErrorIs(t, err, contact.ErrValidation, "index %d", index)
	}
	assert.Equal(t, []contact.Contact{{Name: "John", Phone: "1234567890"}}, store.Contacts())
}

func TestEdit_ValidatesThenOverwritesInPlace(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("John", "1234567890"))
	require.NoError(t, store.Add("Jane", "0987654321"))

	err := store.Edit(0, "John", "123")
	assert.ErrorIs(t, err, contact.ErrValidation)
	assert.Equal(t, "1234567890", store.Contacts()[0].Phone)

	require.NoError(t, store.Edit(0, "Jack", "5555555555"))
	assert.Equal(t, []contact.Contact{
		{Name: "Jack", Phone: "5555555555"},
		{Name: "Jane", Phone: "0987654321"},
	}, store.Contacts())
}

func TestDelete_ShiftsFollowingContacts(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("Ann", "1111111111"))
	require.NoError(t, store.Add("Bob", "2222222222"))
	require.NoError(t, store.Add("Cat", "3333333333"))

	require.NoError(t, store.Delete(1))

	assert.Equal(t, []contact.Contact{
		{Name: "Ann", Phone: "1111111111"},
		{Name: "Cat", Phone: "3333333333"},
	}, store.Contacts())
}

func TestDelete_OutOfRangeAfterLastRemoval(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("John", "1234567890"))

	require.NoError(t, store.Delete(0))
	assert.Equal(t, 0, store.Len())

	err := store.Delete(0)
	assert.ErrorIs(t, err, contact.ErrNoSelection)
}

func TestContacts_ReturnsACopy(t *testing.T) {
	store := contact.NewStore()
	require.NoError(t, store.Add("Ann", "1111111111"))

	snapshot := store.Contacts()
	snapshot[0].Name = "Mutated"

	assert.Equal(t, "Ann", store.Contacts()[0].Name)
}
