// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"taskflow/internal/service"
)

// ErrNotFound is returned as a 404 RemoteError for unknown ids.
var ErrNotFound = &service.RemoteError{Verb: "fake", Status: http.StatusNotFound, Message: "Task not found"}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu    sync.RWMutex
	tasks []service.Task
	users map[string]string // username -> password
	calls map[string]int

	// Now stamps created tasks. Defaults to a fixed instant.
	Now func() time.Time

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr map[service.TaskID]error // id -> error
	DeleteTaskErr map[service.TaskID]error // id -> error
	LoginErr      error
	RegisterErr   error

	// Hooks run before the call takes effect, with the fake unlocked, so
	// tests can observe engine state while a request is "in flight".
	BeforeList   func()
	BeforeCreate func(service.NewTask)
	BeforeUpdate func(service.TaskID)
	BeforeDelete func(service.TaskID)
}

// NewFakeService creates a new FakeService with no tasks or users.
func NewFakeService() *FakeService {
	return &FakeService{
		users:         make(map[string]string),
		calls:         make(map[string]int),
		UpdateTaskErr: make(map[service.TaskID]error),
		DeleteTaskErr: make(map[service.TaskID]error),
		Now: func() time.Time {
			return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
		},
	}
}

// AddTask adds a task directly to the backend state.
func (f *FakeService) AddTask(id, text string, status service.Status, priority service.Priority) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: service.TaskID(id), Text: text, Status: status, Priority: priority, CreatedAt: f.Now()}
	f.tasks = append(f.tasks, t)
	return t
}

// AddUser registers a user directly.
func (f *FakeService) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// Stored returns the backend's tasks.
func (f *FakeService) Stored() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]service.Task(nil), f.tasks...)
}

// Calls returns how many times method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of invocations across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) record(method string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
}

// TokenFor is the token the fake issues at login.
func TokenFor(username string) string {
	return "token-" + username
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.record("ListTasks")
	if f.BeforeList != nil {
		f.BeforeList()
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Stored(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, task service.NewTask) (service.Task, error) {
	f.record("CreateTask")
	if f.BeforeCreate != nil {
		f.BeforeCreate(task)
	}
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	task = task.WithDefaults()

	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:        service.TaskID(uuid.NewString()),
		Text:      task.Text,
		Status:    task.Status,
		Priority:  task.Priority,
		CreatedAt: f.Now(),
	}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.TaskID, patch service.TaskPatch) (service.Task, error) {
	f.record("UpdateTask")
	if f.BeforeUpdate != nil {
		f.BeforeUpdate(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.UpdateTaskErr[id]; err != nil {
		return service.Task{}, err
	}

	for i, t := range f.tasks {
		if t.ID == id {
			if patch.Status != nil {
				f.tasks[i].Status = *patch.Status
			}
			if patch.Priority != nil {
				f.tasks[i].Priority = *patch.Priority
			}
			return f.tasks[i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.TaskID) error {
	f.record("DeleteTask")
	if f.BeforeDelete != nil {
		f.BeforeDelete(id)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.DeleteTaskErr[id]; err != nil {
		return err
	}

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, creds service.Credentials) (string, error) {
	f.record("Login")
	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	if pw, ok := f.users[creds.Username]; !ok || pw != creds.Password {
		return "", fmt.Errorf("%w: Invalid credentials", service.ErrLoginRejected)
	}
	return TokenFor(creds.Username), nil
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, creds service.Credentials) error {
	f.record("Register")
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.users[creds.Username]; exists {
		return fmt.Errorf("%w: User already exists", service.ErrRegisterRejected)
	}
	f.users[creds.Username] = creds.Password
	return nil
}
