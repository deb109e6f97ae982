package engine

import "taskflow/internal/service"

// Collection is the ordered in-memory set of tasks. It trusts the backend
// for id uniqueness. A Collection is not safe for concurrent use; Engine
// serializes access to it.
type Collection struct {
	tasks []service.Task
}

// NewCollection returns a collection holding a copy of tasks.
func NewCollection(tasks []service.Task) *Collection {
	c := &Collection{}
	c.ReplaceAll(tasks)
	return c
}

// ReplaceAll discards the current contents and copies tasks in.
func (c *Collection) ReplaceAll(tasks []service.Task) {
	c.tasks = append([]service.Task(nil), tasks...)
}

// Insert appends task at the end.
func (c *Collection) Insert(task service.Task) {
	c.tasks = append(c.tasks, task)
}

// ReplaceOne swaps the task with the given id for task, keeping its
// position. Absent ids are ignored.
func (c *Collection) ReplaceOne(id service.TaskID, task service.Task) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.tasks[i] = task
	return true
}

// Remove deletes the task with the given id. Absent ids are ignored.
func (c *Collection) Remove(id service.TaskID) bool {
	i := c.index(id)
	if i < 0 {
		return false
	}
	c.tasks = append(c.tasks[:i:i], c.tasks[i+1:]...)
	return true
}

// Get returns the task with the given id.
func (c *Collection) Get(id service.TaskID) (service.Task, bool) {
	i := c.index(id)
	if i < 0 {
		return service.Task{}, false
	}
	return c.tasks[i], true
}

// Items returns a copy of the tasks in collection order.
func (c *Collection) Items() []service.Task {
	return append([]service.Task{}, c.tasks...)
}

// Len returns the number of tasks.
func (c *Collection) Len() int {
	return len(c.tasks)
}

func (c *Collection) index(id service.TaskID) int {
	for i, t := range c.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}
