package ast

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// ErrArenaOverflow is the panic value (wrapped) when an arena runs out of
// 32-bit indices. It is never recovered.
var ErrArenaOverflow = errors.New("arena overflow")

// Arena is an append-only store addressed by 1-based indices; index 0 is the
// null sentinel. Pointers returned by Get stay valid only until the next
// Allocate.
type Arena[T any] struct {
	data []T
}

func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate stores value and returns its 1-based index. Exhausting the 32-bit
// index space is fatal.
func (a *Arena[T]) Allocate(value T) uint32 {
	a.data = append(a.data, value)
	n, err := safecast.Conv[uint32](len(a.data))
	if err != nil {
		panic(fmt.Errorf("%w: %w", ErrArenaOverflow, err))
	}
	return n
}

func (a *Arena[T]) Get(index uint32) *T {
	if index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

// READONLY
func (a *Arena[T]) Slice() []T {
	return a.data
}

func (a *Arena[T]) Len() uint32 {
	return uint32(len(a.data)) //nolint:gosec // Allocate guards the bound
}

// Truncate drops every element allocated after the arena held n elements.
func (a *Arena[T]) Truncate(n uint32) {
	if int(n) >= len(a.data) {
		return
	}
	var zero T
	for i := int(n); i < len(a.data); i++ {
		a.data[i] = zero
	}
	a.data = a.data[:n]
}
