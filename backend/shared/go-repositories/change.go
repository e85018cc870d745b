package repositories

import "sync"

type EntityKind string

const (
	EntityBuilding   EntityKind = "building"
	EntityDepartment EntityKind = "department"
	EntityTenant     EntityKind = "tenant"
	EntityContract   EntityKind = "contract"
	EntityPayment    EntityKind = "payment"
	EntityIncident   EntityKind = "incident"
	EntityProvider   EntityKind = "provider"
)

type ChangeAction string

const (
	ActionCreate ChangeAction = "create"
	ActionUpdate ChangeAction = "update"
)

// Change describes one write performed inside a transaction. Before is nil
// for creates. Before and After hold copies of the model pointer type
// (e.g. *models.Payment), never the live record.
type Change struct {
	Entity EntityKind
	Action ChangeAction
	ID     string
	Before any
	After  any
}

// ChangeLog collects the writes of one transaction. A nil *ChangeLog
// discards everything, which is what non-transactional repositories use.
type ChangeLog struct {
	mu      sync.Mutex
	changes []Change
}

func (l *ChangeLog) record(c Change) {
	if l == nil {
		return
	}
	l.mu.Lock()
	l.changes = append(l.changes, c)
	l.mu.Unlock()
}

// Changes returns a snapshot in write order.
func (l *ChangeLog) Changes() []Change {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Change, len(l.changes))
	copy(out, l.changes)
	return out
}
