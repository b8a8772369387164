package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFSStoreRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	payload := []byte("pdf bytes")
	require.NoError(t, s.Put(ctx, "clients/abc/ine/01.bin", payload))

	got, err := s.Get(ctx, "clients/abc/ine/01.bin")
	require.NoError(t, err)
	require.Equal(t, payload, got)
}

func TestFSStoreGetMissing(t *testing.T) {
	t.Parallel()

	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	_, err = s.Get(context.Background(), "nope/missing.bin")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFSStoreDeletePrefixRemovesAllClientObjects(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, s.Put(ctx, "clients/abc/ine/01.bin", []byte("a")))
	require.NoError(t, s.Put(ctx, "clients/abc/rfc/02.bin", []byte("b")))
	require.NoError(t, s.Put(ctx, "clients/xyz/ine/03.bin", []byte("c")))

	require.NoError(t, s.DeletePrefix(ctx, "clients/abc"))

	_, err = s.Get(ctx, "clients/abc/ine/01.bin")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = s.Get(ctx, "clients/abc/rfc/02.bin")
	require.ErrorIs(t, err, ErrNotFound)

	still, err := s.Get(ctx, "clients/xyz/ine/03.bin")
	require.NoError(t, err)
	require.Equal(t, []byte("c"), still)
}

func TestFSStoreRejectsTraversalKeys(t *testing.T) {
	t.Parallel()

	s, err := NewFSStore(t.TempDir())
	require.NoError(t, err)

	require.Error(t, s.Put(context.Background(), "../escape.bin", []byte("x")))
	require.Error(t, s.Put(context.Background(), "/abs/path.bin", []byte("x")))
}
