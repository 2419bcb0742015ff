package so

import (
	"fmt"

	"github.com/dual-finance/soengine/internal/core/keylet"
)

// LedgerView is the keyed storage contract the engine runs over. Read
// returns nil data (and no error) for absent entries; Insert fails on
// existing keys and Update creates or replaces.
type LedgerView interface {
	Read(k keylet.Keylet) ([]byte, error)
	Exists(k keylet.Keylet) (bool, error)
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
	ForEach(fn func(key [32]byte, data []byte) bool) error
}

// action represents the type of modification to a ledger entry.
type action int

const (
	// actionCache means the entry was read but not modified
	actionCache action = iota
	// actionInsert means a new entry was created
	actionInsert
	// actionModify means an existing entry was modified
	actionModify
	// actionErase means an entry was deleted
	actionErase
)

type trackedEntry struct {
	action  action
	current []byte // nil for deletes after erase
}

// applyTable wraps a LedgerView and buffers all modifications. Nothing
// reaches the base view until Apply; discarding the table discards the
// operation, which is what makes each engine operation atomic.
type applyTable struct {
	base  LedgerView
	items map[[32]byte]*trackedEntry
	types map[[32]byte]keylet.Type
}

func newApplyTable(base LedgerView) *applyTable {
	return &applyTable{
		base:  base,
		items: make(map[[32]byte]*trackedEntry),
		types: make(map[[32]byte]keylet.Type),
	}
}

func (t *applyTable) Read(k keylet.Keylet) ([]byte, error) {
	if entry, exists := t.items[k.Key]; exists {
		if entry.action == actionErase {
			return nil, nil
		}
		return entry.current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	// Only track entries that exist in the base
	if data != nil {
		t.items[k.Key] = &trackedEntry{action: actionCache, current: data}
		t.types[k.Key] = k.Type
	}

	return data, nil
}

func (t *applyTable) Exists(k keylet.Keylet) (bool, error) {
	if entry, exists := t.items[k.Key]; exists {
		return entry.action != actionErase, nil
	}
	return t.base.Exists(k)
}

func (t *applyTable) Insert(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.action != actionErase {
			return fmt.Errorf("entry already exists")
		}
		// Re-inserting a deleted entry becomes a modify
		entry.action = actionModify
		entry.current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("entry already exists")
	}

	t.items[k.Key] = &trackedEntry{action: actionInsert, current: data}
	t.types[k.Key] = k.Type
	return nil
}

func (t *applyTable) Update(k keylet.Keylet, data []byte) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.action == actionErase {
			return fmt.Errorf("entry not found (deleted)")
		}
		if entry.action == actionCache {
			entry.action = actionModify
		}
		// For insert, keep it as insert with new data
		entry.current = data
		return nil
	}

	t.items[k.Key] = &trackedEntry{action: actionModify, current: data}
	t.types[k.Key] = k.Type
	return nil
}

func (t *applyTable) Erase(k keylet.Keylet) error {
	if entry, exists := t.items[k.Key]; exists {
		if entry.action == actionErase {
			return fmt.Errorf("entry already deleted")
		}
		if entry.action == actionInsert {
			// Inserting then deleting = no change
			delete(t.items, k.Key)
			delete(t.types, k.Key)
			return nil
		}
		entry.action = actionErase
		entry.current = nil
		return nil
	}

	t.items[k.Key] = &trackedEntry{action: actionErase}
	t.types[k.Key] = k.Type
	return nil
}

// ForEach iterates the base view. Buffered changes are not folded in; scans
// run against committed state only.
func (t *applyTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	return t.base.ForEach(fn)
}

// Apply commits all buffered changes to the base view.
func (t *applyTable) Apply() error {
	for key, entry := range t.items {
		k := keylet.Keylet{Type: t.types[key], Key: key}
		switch entry.action {
		case actionCache:
			continue
		case actionInsert:
			if err := t.base.Insert(k, entry.current); err != nil {
				return err
			}
		case actionModify:
			if err := t.base.Update(k, entry.current); err != nil {
				return err
			}
		case actionErase:
			if err := t.base.Erase(k); err != nil {
				return err
			}
		}
	}
	return nil
}
