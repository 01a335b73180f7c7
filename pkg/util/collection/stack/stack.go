// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package stack

// Stack represents a reusable LIFO stack which is implemented using an array.
// A stack may optionally be bounded, in which case pushing onto a full stack
// is refused.
type Stack[T any] struct {
	items []T
	// Maximum number of items permitted (0 means unbounded).
	limit uint
}

// NewStack returns an empty (unbounded) stack
func NewStack[T any]() *Stack[T] {
	return &Stack[T]{}
}

// NewBoundedStack returns an empty stack which can hold at most limit items.
func NewBoundedStack[T any](limit uint) *Stack[T] {
	if limit == 0 {
		panic("bounded stack requires non-zero limit")
	}
	//
	return &Stack[T]{limit: limit}
}

// IsEmpty checks whether or not there are still items on the stack
func (p *Stack[T]) IsEmpty() bool {
	return p.Len() == 0
}

// IsFull checks whether a bounded stack has reached its limit.  An unbounded
// stack is never full.
func (p *Stack[T]) IsFull() bool {
	return p.limit != 0 && p.Len() >= p.limit
}

// Len returns the number of items on the stack.
func (p *Stack[T]) Len() uint {
	return uint(len(p.items))
}

// Limit returns the maximum number of items this stack can hold, or 0 if it
// is unbounded.
func (p *Stack[T]) Limit() uint {
	return p.limit
}

// Peek at nth item from top of stack.
func (p *Stack[T]) Peek(offset uint) T {
	var n = len(p.items) - int(offset) - 1
	//
	if n < 0 {
		panic("peek out-of-bounds")
	}
	// Get last item
	return p.items[n]
}

// Push a new item onto the stack, returning false (and leaving the stack
// unchanged) if the stack is full.
func (p *Stack[T]) Push(item T) bool {
	if p.IsFull() {
		return false
	}
	//
	p.items = append(p.items, item)
	//
	return true
}

// Pop the last item off the stack
func (p *Stack[T]) Pop() T {
	var (
		n    = len(p.items)
		zero T
	)
	//
	if n == 0 {
		panic("cannot pop from empty stack")
	}
	// Get last item
	item := p.items[n-1]
	// Clear slot so popped items can be collected
	p.items[n-1] = zero
	// Remove last item
	p.items = p.items[:n-1]
	// Done
	return item
}
