// ABOUTME: List and Todo entities with the session-scoped collection operations
// ABOUTME: Handles ID allocation, validation gating, and derived completion views

package todo

import (
	"errors"
	"strings"

	"github.com/mark-dames/deskhub/internal/validate"
)

// ErrListNotFound is returned when a list ID has no live list.
var ErrListNotFound = errors.New("list not found")

// ErrTodoNotFound is returned when a todo ID has no live todo in its list.
var ErrTodoNotFound = errors.New("todo not found")

// Todo is a single item owned by a list.
type Todo struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// List owns an ordered sequence of todos. Names are unique among the
// lists of one collection.
type List struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Todos []*Todo `json:"todos"`
}

// Collection holds the lists belonging to one session. It is not safe for
// concurrent use; the session manager serializes access per session key.
type Collection struct {
	Lists []*List `json:"lists"`
}

// NextID returns the next unique ID for a sibling set: one more than the
// largest existing ID, or 1 when the set is empty. Deleting an element
// other than the maximum never frees its ID for reuse.
func NextID(ids []int) int {
	max := 0
	for _, id := range ids {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// CreateList validates the name, allocates an ID, and appends a new empty
// list. The returned list is the one stored in the collection.
func (c *Collection) CreateList(name string) (*List, error) {
	name = strings.TrimSpace(name)
	if err := validate.ListName(name, c.names()); err != nil {
		return nil, err
	}

	list := &List{
		ID:    NextID(c.ids()),
		Name:  name,
		Todos: []*Todo{},
	}
	c.Lists = append(c.Lists, list)
	return list, nil
}

// GetList finds a list by ID.
func (c *Collection) GetList(id int) (*List, error) {
	for _, list := range c.Lists {
		if list.ID == id {
			return list, nil
		}
	}
	return nil, ErrListNotFound
}

// RenameList validates the new name and applies it. The duplicate check
// runs against every current name, including the list's own, so renaming
// a list to its unchanged name is rejected.
func (c *Collection) RenameList(id int, name string) (*List, error) {
	list, err := c.GetList(id)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validate.ListName(name, c.names()); err != nil {
		return nil, err
	}

	list.Name = name
	return list, nil
}

// DeleteList removes a list and all its todos. Deleting an absent ID is a
// no-op.
func (c *Collection) DeleteList(id int) {
	kept := c.Lists[:0]
	for _, list := range c.Lists {
		if list.ID != id {
			kept = append(kept, list)
		}
	}
	c.Lists = kept
}

// AddTodo validates the todo name, allocates an ID within the list, and
// appends the new todo.
func (c *Collection) AddTodo(listID int, name string) (*Todo, error) {
	list, err := c.GetList(listID)
	if err != nil {
		return nil, err
	}

	name = strings.TrimSpace(name)
	if err := validate.TodoName(name); err != nil {
		return nil, err
	}

	item := &Todo{
		ID:   NextID(list.todoIDs()),
		Name: name,
	}
	list.Todos = append(list.Todos, item)
	return item, nil
}

// DeleteTodo removes a todo from its list. Deleting an absent todo ID is a
// no-op, but the list itself must exist.
func (c *Collection) DeleteTodo(listID, todoID int) error {
	list, err := c.GetList(listID)
	if err != nil {
		return err
	}

	kept := list.Todos[:0]
	for _, item := range list.Todos {
		if item.ID != todoID {
			kept = append(kept, item)
		}
	}
	list.Todos = kept
	return nil
}

// SetTodoCompleted marks a single todo completed or not.
func (c *Collection) SetTodoCompleted(listID, todoID int, completed bool) error {
	list, err := c.GetList(listID)
	if err != nil {
		return err
	}

	for _, item := range list.Todos {
		if item.ID == todoID {
			item.Completed = completed
			return nil
		}
	}
	return ErrTodoNotFound
}

// CompleteAll marks every todo in the list completed.
func (c *Collection) CompleteAll(listID int) error {
	list, err := c.GetList(listID)
	if err != nil {
		return err
	}

	for _, item := range list.Todos {
		item.Completed = true
	}
	return nil
}

// IsComplete reports whether the list has at least one todo and all of
// them are completed. Derived on read, never stored.
func (l *List) IsComplete() bool {
	if len(l.Todos) == 0 {
		return false
	}
	for _, item := range l.Todos {
		if !item.Completed {
			return false
		}
	}
	return true
}

// Progress returns how many todos are completed and how many exist.
func (l *List) Progress() (completed, total int) {
	for _, item := range l.Todos {
		if item.Completed {
			completed++
		}
	}
	return completed, len(l.Todos)
}

// SortedTodos returns a new slice with incomplete todos first, then
// completed ones, each group keeping its original relative order. The
// underlying storage order is untouched.
func SortedTodos(todos []*Todo) []*Todo {
	sorted := make([]*Todo, 0, len(todos))
	for _, item := range todos {
		if !item.Completed {
			sorted = append(sorted, item)
		}
	}
	for _, item := range todos {
		if item.Completed {
			sorted = append(sorted, item)
		}
	}
	return sorted
}

// SortedLists applies the same stable partition to lists, using
// IsComplete as the completion predicate.
func SortedLists(lists []*List) []*List {
	sorted := make([]*List, 0, len(lists))
	for _, list := range lists {
		if !list.IsComplete() {
			sorted = append(sorted, list)
		}
	}
	for _, list := range lists {
		if list.IsComplete() {
			sorted = append(sorted, list)
		}
	}
	return sorted
}

func (c *Collection) names() []string {
	names := make([]string, len(c.Lists))
	for i, list := range c.Lists {
		names[i] = list.Name
	}
	return names
}

func (c *Collection) ids() []int {
	ids := make([]int, len(c.Lists))
	for i, list := range c.Lists {
		ids[i] = list.ID
	}
	return ids
}

func (l *List) todoIDs() []int {
	ids := make([]int, len(l.Todos))
	for i, item := range l.Todos {
		ids[i] = item.ID
	}
	return ids
}
