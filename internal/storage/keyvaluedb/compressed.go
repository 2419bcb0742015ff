package keyvaluedb

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/pierrec/lz4"
)

// Value encoding markers for Compressed.
const (
	rawMarker  byte = 0
	lz4Marker  byte = 1
	lz4HdrSize      = 5 // marker + uncompressed length
)

// Compressed wraps a DB and lz4-compresses values on the way in. Values
// that do not shrink are stored raw behind a marker byte, so the wrapper is
// safe for incompressible data.
type Compressed struct {
	inner DB
}

// NewCompressed wraps a database with transparent value compression.
func NewCompressed(inner DB) *Compressed {
	return &Compressed{inner: inner}
}

func compressValue(value []byte) []byte {
	bound := lz4.CompressBlockBound(len(value))
	dst := make([]byte, lz4HdrSize+bound)
	hashTable := make([]int, 1<<16)
	n, err := lz4.CompressBlock(value, dst[lz4HdrSize:], hashTable)
	if err != nil || n == 0 || n >= len(value) {
		// Incompressible, store raw
		out := make([]byte, 1+len(value))
		out[0] = rawMarker
		copy(out[1:], value)
		return out
	}
	dst[0] = lz4Marker
	binary.BigEndian.PutUint32(dst[1:lz4HdrSize], uint32(len(value)))
	return dst[:lz4HdrSize+n]
}

func decompressValue(stored []byte) ([]byte, error) {
	if len(stored) == 0 {
		return nil, fmt.Errorf("empty stored value")
	}
	switch stored[0] {
	case rawMarker:
		out := make([]byte, len(stored)-1)
		copy(out, stored[1:])
		return out, nil
	case lz4Marker:
		if len(stored) < lz4HdrSize {
			return nil, fmt.Errorf("truncated compressed value: %d bytes", len(stored))
		}
		size := binary.BigEndian.Uint32(stored[1:lz4HdrSize])
		out := make([]byte, size)
		n, err := lz4.UncompressBlock(stored[lz4HdrSize:], out)
		if err != nil {
			return nil, fmt.Errorf("decompress value: %w", err)
		}
		return out[:n], nil
	default:
		return nil, fmt.Errorf("unknown value marker %#02x", stored[0])
	}
}

func (c *Compressed) Read(ctx context.Context, key []byte) ([]byte, error) {
	stored, err := c.inner.Read(ctx, key)
	if err != nil {
		return nil, err
	}
	return decompressValue(stored)
}

func (c *Compressed) Write(ctx context.Context, key, value []byte) error {
	return c.inner.Write(ctx, key, compressValue(value))
}

func (c *Compressed) Delete(ctx context.Context, key []byte) error {
	return c.inner.Delete(ctx, key)
}

func (c *Compressed) Batch(ctx context.Context, ops []BatchOperation) error {
	mapped := make([]BatchOperation, len(ops))
	for i, op := range ops {
		mapped[i] = op
		if op.Type == BatchPut {
			mapped[i].Value = compressValue(op.Value)
		}
	}
	return c.inner.Batch(ctx, mapped)
}

func (c *Compressed) Iterator(ctx context.Context, start, end []byte) (Iterator, error) {
	inner, err := c.inner.Iterator(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return &compressedIterator{inner: inner}, nil
}

func (c *Compressed) Close() error { return c.inner.Close() }

type compressedIterator struct {
	inner Iterator
	value []byte
	err   error
}

func (it *compressedIterator) Next() bool {
	if !it.inner.Next() {
		return false
	}
	it.value, it.err = decompressValue(it.inner.Value())
	return it.err == nil
}

func (it *compressedIterator) Key() []byte   { return it.inner.Key() }
func (it *compressedIterator) Value() []byte { return it.value }

func (it *compressedIterator) Error() error {
	if it.err != nil {
		return it.err
	}
	return it.inner.Error()
}

func (it *compressedIterator) Close() error { return it.inner.Close() }
