// Package todo implements the to-do list model: collections of named
// lists holding named todos.
//
// # IDs
//
// Lists and todos get integer IDs assigned as max(existing)+1, or 1
// for an empty set. Deleting the highest-numbered element frees its ID
// for reuse; deleting any other element does not.
//
// # Ordering
//
// Display order is a stable partition: incomplete items first, then
// complete ones, each group keeping insertion order. SortedLists and
// SortedTodos return new slices and leave the stored order untouched.
//
// # Completion
//
// A list is complete when it has at least one todo and every todo is
// completed. An empty list is never complete.
package todo
