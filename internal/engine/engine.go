// Package engine keeps a local copy of the user's tasks in step with the
// backend.
//
// An Engine owns four pieces of state: the session, the task collection,
// the advisory lock table and the view filter. The collection only ever
// changes in reaction to a confirmed backend response. A failed call leaves
// it exactly as it was. Every mutation marks its key busy for the whole
// network call and clears it on both the success and failure paths.
//
// Engine methods may be called from several goroutines. Calls on
// different keys overlap freely. Calls on the same key are not serialized:
// whichever response is applied last wins.
package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"taskflow/internal/logging"
	"taskflow/internal/service"
	"taskflow/internal/session"
)

var (
	// ErrEmptyToken rejects a login that produced no token.
	ErrEmptyToken = errors.New("empty session token")

	// ErrTaskNotFound means the id is not in the local collection.
	ErrTaskNotFound = errors.New("task not found")
)

// Engine is the task state synchronization engine.
type Engine struct {
	svc     service.Service
	session *session.Session
	log     *zap.Logger

	mu     sync.Mutex // guards tasks, locks, filter; never held across svc calls
	tasks  *Collection
	locks  *LockTable
	filter Filter
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the debug logger.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithFilter sets the initial view filter.
func WithFilter(f Filter) Option {
	return func(e *Engine) { e.filter = f }
}

// New creates an engine in the state implied by sess. The collection
// starts empty; call Resume to fetch when the restored session is
// authenticated.
func New(svc service.Service, sess *session.Session, opts ...Option) *Engine {
	e := &Engine{
		svc:     svc,
		session: sess,
		tasks:   NewCollection(nil),
		locks:   NewLockTable(),
		filter:  Filter{Status: All, Priority: All},
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.OrNop(e.log)
	return e
}

// Authenticated reports whether the session holds a token.
func (e *Engine) Authenticated() bool {
	return e.session.Authenticated()
}

// Resume is the process-start entry into the Authenticated state. It
// fetches the collection if a token was restored and does nothing
// otherwise.
func (e *Engine) Resume(ctx context.Context) error {
	if !e.session.Authenticated() {
		return nil
	}
	return e.Refresh(ctx)
}

// Login exchanges credentials for a token and enters Authenticated.
func (e *Engine) Login(ctx context.Context, username, password string) error {
	token, err := e.svc.Login(ctx, service.Credentials{Username: username, Password: password})
	if err != nil {
		return err
	}
	return e.Authenticate(ctx, token)
}

// Authenticate stores token and fetches the collection.
func (e *Engine) Authenticate(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return ErrEmptyToken
	}
	if err := e.session.Set(token); err != nil {
		return err
	}
	e.log.Debug("session started")
	return e.Refresh(ctx)
}

// Register creates an account. The session is not touched.
func (e *Engine) Register(ctx context.Context, username, password string) error {
	return e.svc.Register(ctx, service.Credentials{Username: username, Password: password})
}

// Logout clears the session and empties the collection. Filters and
// in-flight locks are left alone; requests already sent still complete.
func (e *Engine) Logout() error {
	err := e.session.Clear()

	e.mu.Lock()
	e.tasks.ReplaceAll(nil)
	e.mu.Unlock()

	e.log.Debug("session ended")
	return err
}

// Refresh replaces the collection with the backend's list.
func (e *Engine) Refresh(ctx context.Context) error {
	release := e.acquire(CollectionKey)
	defer release()

	tasks, err := e.svc.ListTasks(ctx)
	if err != nil {
		e.log.Debug("fetch failed", zap.Error(err))
		return err
	}

	e.mu.Lock()
	e.tasks.ReplaceAll(tasks)
	e.mu.Unlock()

	e.log.Debug("fetched tasks", zap.Int("count", len(tasks)))
	return nil
}

// Create adds a task. Blank text is rejected before any network call.
// On success the server copy is appended to the collection.
func (e *Engine) Create(ctx context.Context, task service.NewTask) (service.Task, error) {
	if strings.TrimSpace(task.Text) == "" {
		return service.Task{}, fmt.Errorf("%w: task text is blank", service.ErrEmptyInput)
	}
	task = task.WithDefaults()
	if !task.Status.Valid() {
		return service.Task{}, fmt.Errorf("%w: status %q", service.ErrInvalidField, task.Status)
	}
	if !task.Priority.Valid() {
		return service.Task{}, fmt.Errorf("%w: priority %q", service.ErrInvalidField, task.Priority)
	}

	release := e.acquire(CollectionKey)
	defer release()

	created, err := e.svc.CreateTask(ctx, task)
	if err != nil {
		e.log.Debug("create failed", zap.Error(err))
		return service.Task{}, err
	}

	e.mu.Lock()
	e.tasks.Insert(created)
	e.mu.Unlock()

	e.log.Debug("created task", zap.String("id", string(created.ID)))
	return created, nil
}

// Update applies patch to the task with the given id and replaces the local
// copy with the server's. An empty id fails with ErrTaskNotFound before any
// network call.
func (e *Engine) Update(ctx context.Context, id service.TaskID, patch service.TaskPatch) (service.Task, error) {
	if patch.Empty() {
		return service.Task{}, fmt.Errorf("%w: nothing to update", service.ErrEmptyInput)
	}
	if err := patch.Validate(); err != nil {
		return service.Task{}, err
	}
	if id == "" {
		return service.Task{}, fmt.Errorf("%w: empty id", ErrTaskNotFound)
	}

	release := e.acquire(TaskKey(id))
	defer release()

	updated, err := e.svc.UpdateTask(ctx, id, patch)
	if err != nil {
		e.log.Debug("update failed", zap.String("id", string(id)), zap.Error(err))
		return service.Task{}, err
	}

	e.mu.Lock()
	applied := e.tasks.ReplaceOne(id, updated)
	e.mu.Unlock()

	e.log.Debug("updated task", zap.String("id", string(id)), zap.Bool("applied", applied))
	return updated, nil
}

// SetStatus sets the status of a task.
func (e *Engine) SetStatus(ctx context.Context, id service.TaskID, status service.Status) (service.Task, error) {
	return e.Update(ctx, id, service.TaskPatch{Status: &status})
}

// SetPriority sets the priority of a task.
func (e *Engine) SetPriority(ctx context.Context, id service.TaskID, priority service.Priority) (service.Task, error) {
	return e.Update(ctx, id, service.TaskPatch{Priority: &priority})
}

// ToggleStatus flips a task between pending and completed, based on the
// local copy.
func (e *Engine) ToggleStatus(ctx context.Context, id service.TaskID) (service.Task, error) {
	current, ok := e.Task(id)
	if !ok {
		return service.Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return e.SetStatus(ctx, id, current.Status.Toggle())
}

// Delete deletes a task and, once the backend confirms, drops it locally.
// An empty id fails with ErrTaskNotFound before any network call.
func (e *Engine) Delete(ctx context.Context, id service.TaskID) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrTaskNotFound)
	}
	release := e.acquire(TaskKey(id))
	defer release()

	if err := e.svc.DeleteTask(ctx, id); err != nil {
		e.log.Debug("delete failed", zap.String("id", string(id)), zap.Error(err))
		return err
	}

	e.mu.Lock()
	e.tasks.Remove(id)
	e.mu.Unlock()

	e.log.Debug("deleted task", zap.String("id", string(id)))
	return nil
}

// Tasks returns the whole collection in order.
func (e *Engine) Tasks() []service.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks.Items()
}

// Task returns one task from the collection.
func (e *Engine) Task(id service.TaskID) (service.Task, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tasks.Get(id)
}

// Visible returns the collection projected through the current filter.
func (e *Engine) Visible() []service.Task {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Project(e.tasks.Items(), e.filter)
}

// Filter returns the current view filter.
func (e *Engine) Filter() Filter {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.filter
}

// SetFilter replaces the view filter. Session changes never reset it.
func (e *Engine) SetFilter(f Filter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.filter = f
}

// IsBusy reports whether an operation on key is in flight.
func (e *Engine) IsBusy(key Key) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locks.IsBusy(key)
}

// Busy lists every key with an operation in flight.
func (e *Engine) Busy() []Key {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.locks.Busy()
}

// acquire marks key busy and returns the matching release.
func (e *Engine) acquire(key Key) func() {
	e.mu.Lock()
	e.locks.Begin(key)
	e.mu.Unlock()
	e.log.Debug("lock begin", zap.Stringer("key", key))

	return func() {
		e.mu.Lock()
		e.locks.End(key)
		e.mu.Unlock()
		e.log.Debug("lock end", zap.Stringer("key", key))
	}
}
