package pebble

import (
	"context"
	"testing"

	"github.com/dual-finance/soengine/internal/storage/keyvaluedb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestPebbleReadWriteDelete(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	_, err := db.Read(ctx, []byte("missing"))
	assert.ErrorIs(t, err, keyvaluedb.ErrKeyNotFound)

	require.NoError(t, db.Write(ctx, []byte("k"), []byte("v")))
	val, err := db.Read(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), val)

	require.NoError(t, db.Delete(ctx, []byte("k")))
	_, err = db.Read(ctx, []byte("k"))
	assert.ErrorIs(t, err, keyvaluedb.ErrKeyNotFound)
}

func TestPebbleBatchAndIterator(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	err := db.Batch(ctx, []keyvaluedb.BatchOperation{
		{Type: keyvaluedb.BatchPut, Key: []byte("a"), Value: []byte("1")},
		{Type: keyvaluedb.BatchPut, Key: []byte("b"), Value: []byte("2")},
		{Type: keyvaluedb.BatchPut, Key: []byte("c"), Value: []byte("3")},
		{Type: keyvaluedb.BatchDelete, Key: []byte("b")},
	})
	require.NoError(t, err)

	iter, err := db.Iterator(ctx, nil, nil)
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"a", "c"}, keys)
}

func TestPebbleIteratorRange(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	for _, k := range []string{"a", "b", "c", "d"} {
		require.NoError(t, db.Write(ctx, []byte(k), []byte("v")))
	}

	// Both bounds are inclusive.
	iter, err := db.Iterator(ctx, []byte("b"), []byte("c"))
	require.NoError(t, err)
	defer iter.Close()

	var keys []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
	}
	require.NoError(t, iter.Error())
	assert.Equal(t, []string{"b", "c"}, keys)
}

func TestPebbleClosed(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	require.NoError(t, db.Close())

	_, err := db.Read(ctx, []byte("k"))
	assert.ErrorIs(t, err, keyvaluedb.ErrDBClosed)
	assert.ErrorIs(t, db.Write(ctx, []byte("k"), []byte("v")), keyvaluedb.ErrDBClosed)
}
