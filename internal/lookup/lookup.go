// Package lookup provides an ordered collection that can also be searched
// by attribute values.
package lookup

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// ErrNotFound is returned by Find when no element matches and no fallback is set.
var ErrNotFound = errors.New("not found")

// Attributer exposes named attributes for matching.
// The boolean is false for names the element does not know.
type Attributer interface {
	Attr(name string) (any, bool)
}

// Criteria maps attribute names to expected values.
type Criteria map[string]any

func (c Criteria) String() string {
	keys := slices.Sorted(maps.Keys(c))
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%v", k, c[k])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Match reports whether every criterion equals the element's attribute.
func (c Criteria) Match(obj Attributer) bool {
	for k, want := range c {
		got, ok := obj.Attr(k)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// NotFoundError describes a failed Find.
type NotFoundError struct {
	Criteria   Criteria
	Collection string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("could not find object with %s in %s", e.Criteria, e.Collection)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// List is an ordered collection of T. The zero value is an empty list.
type List[T Attributer] struct {
	items []T

	// Fallback, when set, produces the result of a Find with no match.
	Fallback func(Criteria) (T, error)
}

// New returns a list holding items in order.
func New[T Attributer](items ...T) *List[T] {
	return &List[T]{items: items}
}

// Find returns the first element matching every criterion.
func (l *List[T]) Find(c Criteria) (T, error) {
	for _, obj := range l.items {
		if c.Match(obj) {
			return obj, nil
		}
	}
	if l.Fallback != nil {
		return l.Fallback(c)
	}
	var zero T
	return zero, &NotFoundError{Criteria: c, Collection: l.String()}
}

// Filter returns every element matching c, in order.
func (l *List[T]) Filter(c Criteria) []T {
	var out []T
	for _, obj := range l.items {
		if c.Match(obj) {
			out = append(out, obj)
		}
	}
	return out
}

// Append adds items at the end.
func (l *List[T]) Append(items ...T) {
	l.items = append(l.items, items...)
}

// Remove deletes the first element equal to obj and reports whether one was found.
func (l *List[T]) Remove(obj T) bool {
	i := l.Index(obj)
	if i < 0 {
		return false
	}
	l.items = slices.Delete(l.items, i, i+1)
	return true
}

// Index returns the position of obj, or -1.
func (l *List[T]) Index(obj T) int {
	for i, item := range l.items {
		if any(item) == any(obj) {
			return i
		}
	}
	return -1
}

// Contains reports whether obj is in the list.
func (l *List[T]) Contains(obj T) bool {
	return l.Index(obj) >= 0
}

// Len returns the number of elements.
func (l *List[T]) Len() int {
	if l == nil {
		return 0
	}
	return len(l.items)
}

// At returns the element at position i.
func (l *List[T]) At(i int) T {
	return l.items[i]
}

// All iterates over the elements in order.
func (l *List[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if l == nil {
			return
		}
		for _, item := range l.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Slice returns a copy of the elements.
func (l *List[T]) Slice() []T {
	if l == nil {
		return nil
	}
	return slices.Clone(l.items)
}

func (l *List[T]) String() string {
	parts := make([]string, 0, l.Len())
	for item := range l.All() {
		parts = append(parts, fmt.Sprint(item))
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
