package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreCreateRefusesExisting(t *testing.T) {
	store := NewMemoryStore()

	first := newEmailSession()
	require.NoError(t, store.Create(7, first))
	assert.ErrorIs(t, store.Create(7, newEmailSession()), ErrSessionExists)

	got, ok := store.Get(7)
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestMemoryStoreReplaceOverwrites(t *testing.T) {
	store := NewMemoryStore()

	require.NoError(t, store.Create(7, newEmailSession()))
	second := newReminderSession()
	store.Replace(7, second)

	got, ok := store.Get(7)
	require.True(t, ok)
	assert.Same(t, second, got)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryStoreDelete(t *testing.T) {
	store := NewMemoryStore()

	store.Delete(7) // deleting a missing chat is a no-op
	require.NoError(t, store.Create(7, newEmailSession()))
	store.Delete(7)

	_, ok := store.Get(7)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStoreMutationsThroughPointer(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Create(7, newEmailSession()))

	s, _ := store.Get(7)
	s.Data.Role = "Developer"
	s.State = StateAwaitingName

	again, _ := store.Get(7)
	assert.Equal(t, "Developer", again.Data.Role)
	assert.Equal(t, StateAwaitingName, again.State)
}
