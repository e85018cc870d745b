package repositories

import (
	"fmt"

	"github.com/MillaAntonella/DepaManager--sub000/backend/shared/go-utils"
)

// rowPtr lets the generic table work with pointer-receiver model methods.
type rowPtr[T any] interface {
	*T
	EntityWithVersion
}

// memTable is the committed state of one entity type. It is guarded by the
// owning MemoryStore's mutex.
type memTable[T any, P rowPtr[T]] struct {
	kind EntityKind
	rows map[string]*T
	// uniqueKey, when set, must be distinct across all rows (e.g. building+number).
	uniqueKey func(*T) string
}

func newMemTable[T any, P rowPtr[T]](kind EntityKind, uniqueKey func(*T) string) *memTable[T, P] {
	return &memTable[T, P]{kind: kind, rows: map[string]*T{}, uniqueKey: uniqueKey}
}

func cloneRow[T any](row *T) *T {
	if row == nil {
		return nil
	}
	c := *row
	return &c
}

// memTableTx overlays one transaction's writes on top of a memTable.
type memTableTx[T any, P rowPtr[T]] struct {
	table   *memTable[T, P]
	tx      *memTx
	written map[string]*T
	created map[string]bool
	// base is the committed version each updated row was read at.
	base map[string]int64
}

func newMemTableTx[T any, P rowPtr[T]](table *memTable[T, P], tx *memTx) *memTableTx[T, P] {
	return &memTableTx[T, P]{
		table:   table,
		tx:      tx,
		written: map[string]*T{},
		created: map[string]bool{},
		base:    map[string]int64{},
	}
}

func (t *memTableTx[T, P]) get(id string) *T {
	if row, ok := t.written[id]; ok {
		return cloneRow(row)
	}
	t.tx.store.mu.RLock()
	defer t.tx.store.mu.RUnlock()
	return cloneRow(t.table.rows[id])
}

func (t *memTableTx[T, P]) getForUpdate(id string) (*T, error) {
	if err := t.tx.lock(t.table.kind, id); err != nil {
		return nil, err
	}
	return t.get(id), nil
}

// list returns copies of every visible row matching keep, in no particular order.
func (t *memTableTx[T, P]) list(keep func(*T) bool) []*T {
	t.tx.store.mu.RLock()
	visible := make(map[string]*T, len(t.table.rows)+len(t.written))
	for id, row := range t.table.rows {
		visible[id] = row
	}
	t.tx.store.mu.RUnlock()
	for id, row := range t.written {
		visible[id] = row
	}

	var out []*T
	for _, row := range visible {
		if keep == nil || keep(row) {
			out = append(out, cloneRow(row))
		}
	}
	return out
}

func (t *memTableTx[T, P]) insert(row *T) error {
	id := P(row).GetID()
	if t.get(id) != nil {
		return fmt.Errorf("%w: %s %s", ErrDuplicateKey, t.table.kind, id)
	}
	if t.table.uniqueKey != nil {
		key := t.table.uniqueKey(row)
		for _, other := range t.list(nil) {
			if t.table.uniqueKey(other) == key {
				return fmt.Errorf("%w: %s %s", ErrDuplicateKey, t.table.kind, key)
			}
		}
	}

	P(row).SetRowVersion(1)
	t.written[id] = cloneRow(row)
	t.created[id] = true
	t.tx.log.record(Change{Entity: t.table.kind, Action: ActionCreate, ID: id, After: P(cloneRow(row))})
	return nil
}

func (t *memTableTx[T, P]) update(row *T) error {
	id := P(row).GetID()
	if err := t.tx.checkNotLockedByOther(t.table.kind, id); err != nil {
		return err
	}
	current := t.get(id)
	if current == nil {
		return checkVersion(nil, P(row))
	}
	if err := checkVersion(P(current), P(row)); err != nil {
		return err
	}
	if _, seen := t.base[id]; !seen && !t.created[id] {
		t.base[id] = P(current).GetRowVersion()
	}

	P(row).SetRowVersion(P(row).GetRowVersion() + 1)
	t.written[id] = cloneRow(row)
	t.tx.log.record(Change{
		Entity: t.table.kind,
		Action: ActionUpdate,
		ID:     id,
		Before: P(current),
		After:  P(cloneRow(row)),
	})
	return nil
}

// verify runs with the store mutex held for writing, right before apply.
func (t *memTableTx[T, P]) verify() error {
	for id, row := range t.written {
		committed := t.table.rows[id]
		if t.created[id] {
			if committed != nil {
				return fmt.Errorf("%w: %s %s", ErrDuplicateKey, t.table.kind, id)
			}
			if t.table.uniqueKey != nil {
				key := t.table.uniqueKey(row)
				for otherID, other := range t.table.rows {
					if otherID != id && t.table.uniqueKey(other) == key {
						return fmt.Errorf("%w: %s %s", ErrDuplicateKey, t.table.kind, key)
					}
				}
			}
			continue
		}
		if committed == nil || P(committed).GetRowVersion() != t.base[id] {
			return fmt.Errorf("%w: %s %s changed concurrently", utils.ErrRowVersionConflict, t.table.kind, id)
		}
	}
	return nil
}

func (t *memTableTx[T, P]) apply() {
	for id, row := range t.written {
		t.table.rows[id] = row
	}
}
