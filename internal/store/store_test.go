package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.Load(ctx, DocumentKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, DocumentKey, []byte(`{"orders":[]}`)))

	data, err := s.Load(ctx, DocumentKey)
	require.NoError(t, err)
	require.Equal(t, `{"orders":[]}`, string(data))

	// Last write wins on the whole blob
	require.NoError(t, s.Save(ctx, DocumentKey, []byte(`{"orders":[1]}`)))
	data, err = s.Load(ctx, DocumentKey)
	require.NoError(t, err)
	require.Equal(t, `{"orders":[1]}`, string(data))

	require.NoError(t, s.Delete(ctx, DocumentKey))
	_, err = s.Load(ctx, DocumentKey)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	original := []byte("abc")
	require.NoError(t, s.Save(ctx, "k", original))
	original[0] = 'x'

	data, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(data))

	data[0] = 'y'
	again, err := s.Load(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "abc", string(again))
}

func TestBoundedMemoryStoreRejectsOverCapacity(t *testing.T) {
	s := NewBoundedMemoryStore(10)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a", []byte("12345")))
	err := s.Save(ctx, "b", []byte("123456789"))
	require.ErrorIs(t, err, ErrCapacityExceeded)

	// Replacing an existing key only counts the new size
	require.NoError(t, s.Save(ctx, "a", []byte("1234567890")))
}

func TestFileStoreRoundTrip(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Load(ctx, DocumentKey)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Save(ctx, DocumentKey, []byte(`{"a":1}`)))

	data, err := s.Load(ctx, DocumentKey)
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(data))

	require.NoError(t, s.Delete(ctx, DocumentKey))
	_, err = s.Load(ctx, DocumentKey)
	require.ErrorIs(t, err, ErrNotFound)

	// Deleting an absent key is tolerated
	require.NoError(t, s.Delete(ctx, DocumentKey))
}

func TestAuxKeysArePerUser(t *testing.T) {
	require.Equal(t, "millops_cart_7", CartKey(7))
	require.Equal(t, "millops_saved_7", SavedItemsKey(7))
	require.Equal(t, "millops_prefs_7", PreferencesKey(7))
	require.Equal(t, "millops_pod_42", DeliveryProofKey(42))
	require.NotEqual(t, CartKey(1), CartKey(2))
}
