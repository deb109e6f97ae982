package engine

import (
	"sort"

	"taskflow/internal/service"
)

type keyKind uint8

const (
	collectionKind keyKind = iota
	taskKind
)

// Key identifies what an in-flight operation is working on: one task, or
// the collection as a whole. TaskKey("") is a task key and never equals
// CollectionKey.
type Key struct {
	kind keyKind
	task service.TaskID
}

// CollectionKey guards collection-level operations (create, refresh).
var CollectionKey = Key{kind: collectionKind}

// TaskKey guards operations on a single task.
func TaskKey(id service.TaskID) Key {
	return Key{kind: taskKind, task: id}
}

func (k Key) String() string {
	if k.kind == collectionKind {
		return "collection"
	}
	return "task:" + string(k.task)
}

// LockTable holds advisory busy flags. It does not block: a second Begin on
// a busy key succeeds, and End clears the flag whoever set it. Callers use
// IsBusy to keep a second request from being issued. Not safe for
// concurrent use on its own.
type LockTable struct {
	busy map[Key]struct{}
}

// NewLockTable returns an empty table.
func NewLockTable() *LockTable {
	return &LockTable{busy: make(map[Key]struct{})}
}

// Begin marks key busy.
func (l *LockTable) Begin(key Key) {
	l.busy[key] = struct{}{}
}

// End clears key, busy or not.
func (l *LockTable) End(key Key) {
	delete(l.busy, key)
}

// IsBusy reports whether key is marked.
func (l *LockTable) IsBusy(key Key) bool {
	_, ok := l.busy[key]
	return ok
}

// Busy returns the marked keys, collection first, then tasks by id.
func (l *LockTable) Busy() []Key {
	keys := make([]Key, 0, len(l.busy))
	for k := range l.busy {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].kind != keys[j].kind {
			return keys[i].kind < keys[j].kind
		}
		return keys[i].task < keys[j].task
	})
	return keys
}
