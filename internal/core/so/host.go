package so

import (
	"context"
	"errors"

	"github.com/dual-finance/soengine/internal/core/keylet"
	"github.com/dual-finance/soengine/internal/storage/keyvaluedb"
)

// kvView adapts a keyvaluedb backend to the LedgerView contract, so the
// engine runs unchanged over the memory, pebble and leveldb stores.
type kvView struct {
	ctx context.Context
	db  keyvaluedb.DB
}

// NewKVView wraps a keyvaluedb database as a LedgerView. The context bounds
// every storage access made through the view.
func NewKVView(ctx context.Context, db keyvaluedb.DB) LedgerView {
	return &kvView{ctx: ctx, db: db}
}

func (v *kvView) Read(k keylet.Keylet) ([]byte, error) {
	data, err := v.db.Read(v.ctx, k.Key[:])
	if err != nil {
		if errors.Is(err, keyvaluedb.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return data, nil
}

func (v *kvView) Exists(k keylet.Keylet) (bool, error) {
	data, err := v.Read(k)
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

func (v *kvView) Insert(k keylet.Keylet, data []byte) error {
	exists, err := v.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return errors.New("entry already exists")
	}
	return v.db.Write(v.ctx, k.Key[:], data)
}

func (v *kvView) Update(k keylet.Keylet, data []byte) error {
	return v.db.Write(v.ctx, k.Key[:], data)
}

func (v *kvView) Erase(k keylet.Keylet) error {
	return v.db.Delete(v.ctx, k.Key[:])
}

func (v *kvView) ForEach(fn func(key [32]byte, data []byte) bool) error {
	iter, err := v.db.Iterator(v.ctx, nil, nil)
	if err != nil {
		return err
	}
	defer iter.Close()

	for iter.Next() {
		raw := iter.Key()
		if len(raw) != 32 {
			continue
		}
		var key [32]byte
		copy(key[:], raw)
		if !fn(key, iter.Value()) {
			break
		}
	}
	return iter.Error()
}
