package keyvaluedb

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompressedRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := NewCompressed(NewMemory())
	defer db.Close()

	// Highly repetitive value compresses; the random-ish short one will be
	// stored raw. Both must round-trip.
	long := bytes.Repeat([]byte("staking-options"), 200)
	short := []byte{0x01, 0xfe, 0x42}

	require.NoError(t, db.Write(ctx, []byte("long"), long))
	require.NoError(t, db.Write(ctx, []byte("short"), short))

	val, err := db.Read(ctx, []byte("long"))
	require.NoError(t, err)
	assert.Equal(t, long, val)

	val, err = db.Read(ctx, []byte("short"))
	require.NoError(t, err)
	assert.Equal(t, short, val)
}

func TestCompressedShrinksStoredValues(t *testing.T) {
	ctx := context.Background()
	inner := NewMemory()
	db := NewCompressed(inner)
	defer db.Close()

	long := bytes.Repeat([]byte("staking-options"), 200)
	require.NoError(t, db.Write(ctx, []byte("k"), long))

	stored, err := inner.Read(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Less(t, len(stored), len(long))
	assert.Equal(t, byte(1), stored[0], "lz4 marker")
}

func TestCompressedIterator(t *testing.T) {
	ctx := context.Background()
	db := NewCompressed(NewMemory())
	defer db.Close()

	long := bytes.Repeat([]byte("abc"), 500)
	require.NoError(t, db.Write(ctx, []byte("k"), long))

	iter, err := db.Iterator(ctx, nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	require.True(t, iter.Next())
	assert.Equal(t, []byte("k"), iter.Key())
	assert.Equal(t, long, iter.Value())
	assert.False(t, iter.Next())
	require.NoError(t, iter.Error())
}

func TestCompressedBatch(t *testing.T) {
	ctx := context.Background()
	db := NewCompressed(NewMemory())
	defer db.Close()

	long := bytes.Repeat([]byte("xyz"), 400)
	err := db.Batch(ctx, []BatchOperation{
		{Type: BatchPut, Key: []byte("a"), Value: long},
	})
	require.NoError(t, err)

	val, err := db.Read(ctx, []byte("a"))
	require.NoError(t, err)
	assert.Equal(t, long, val)
}
