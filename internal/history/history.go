// Package history implements a bounded undo/redo stack of document snapshots.
// Snapshots must be structurally independent copies; the stack never inspects
// or mutates them.
package history

// DefaultCapacity bounds the stack when no explicit capacity is given.
const DefaultCapacity = 50

// Stack holds up to capacity snapshots with a cursor at the current one.
type Stack[T any] struct {
	entries  []T
	cursor   int // index of the current snapshot, -1 when empty
	capacity int
}

// New creates an empty stack. Non-positive capacities fall back to
// DefaultCapacity.
func New[T any](capacity int) *Stack[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Stack[T]{cursor: -1, capacity: capacity}
}

// Push truncates any redo branch past the cursor, appends the snapshot, and
// evicts the oldest entry once over capacity.
func (s *Stack[T]) Push(snapshot T) {
	s.entries = append(s.entries[:s.cursor+1], snapshot)
	if len(s.entries) > s.capacity {
		// Evicting at the head keeps the cursor on the newest entry and does
		// not disturb anything past it.
		copy(s.entries, s.entries[1:])
		s.entries = s.entries[:len(s.entries)-1]
	}
	s.cursor = len(s.entries) - 1
}

// Undo moves the cursor back and returns that snapshot. The second return is
// false at the bottom of the stack.
func (s *Stack[T]) Undo() (T, bool) {
	var zero T
	if s.cursor <= 0 {
		return zero, false
	}
	s.cursor--
	return s.entries[s.cursor], true
}

// Redo moves the cursor forward and returns that snapshot. The second return
// is false at the top of the stack.
func (s *Stack[T]) Redo() (T, bool) {
	var zero T
	if s.cursor >= len(s.entries)-1 {
		return zero, false
	}
	s.cursor++
	return s.entries[s.cursor], true
}

// CanUndo reports whether a snapshot exists before the cursor.
func (s *Stack[T]) CanUndo() bool {
	return s.cursor > 0
}

// CanRedo reports whether a snapshot exists past the cursor.
func (s *Stack[T]) CanRedo() bool {
	return s.cursor >= 0 && s.cursor < len(s.entries)-1
}

// Len returns the number of stored snapshots.
func (s *Stack[T]) Len() int {
	return len(s.entries)
}

// Clear resets the stack to empty.
func (s *Stack[T]) Clear() {
	s.entries = nil
	s.cursor = -1
}
