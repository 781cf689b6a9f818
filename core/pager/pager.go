// Package pager splits a result stream into fixed-size pages.
//
// A Pager is lazy and single-pass: each call to Next pulls at most
// size+1 items from the source (one item of lookahead so the last page is
// known when it is produced) and nothing beyond that is buffered.
package pager

import (
	"fmt"
	"iter"
	"slices"

	"github.com/FocuswithJustin/versefinder/core/errors"
)

// Page is one window over the flattened stream.
type Page[T any] struct {
	// Number is 1-based.
	Number int
	// Start is the 0-based offset of Items[0] in the stream.
	Start int
	Items []T
	// Last reports that no further page follows.
	Last bool
}

// End returns the offset one past the final item of the page.
func (p Page[T]) End() int {
	return p.Start + len(p.Items)
}

// Pager hands out pages from an iterator. It is not safe for concurrent use.
type Pager[T any] struct {
	size  int
	total int

	next func() (T, bool)
	stop func()

	peeked  T
	hasPeek bool
	done    bool
	number  int
	offset  int
}

// New returns a Pager over seq. The total is unknown (-1) for a bare
// iterator. Callers that abandon the pager early must call Stop.
func New[T any](seq iter.Seq[T], size int) (*Pager[T], error) {
	if size <= 0 {
		return nil, errors.NewValidation("page_size", fmt.Sprintf("must be positive, got %d", size))
	}
	next, stop := iter.Pull(seq)
	return &Pager[T]{size: size, total: -1, next: next, stop: stop}, nil
}

// FromSlice returns a Pager over items with a known total.
func FromSlice[T any](items []T, size int) (*Pager[T], error) {
	p, err := New(slices.Values(items), size)
	if err != nil {
		return nil, err
	}
	p.total = len(items)
	return p, nil
}

// Size returns the configured page size.
func (p *Pager[T]) Size() int { return p.size }

// Total returns the item count if it is known, otherwise -1.
func (p *Pager[T]) Total() int { return p.total }

// Pages returns the page count if the total is known, otherwise -1.
func (p *Pager[T]) Pages() int {
	if p.total < 0 {
		return -1
	}
	return (p.total + p.size - 1) / p.size
}

// Next returns the following page. ok is false once the stream is
// exhausted; an empty stream yields no pages at all.
func (p *Pager[T]) Next() (Page[T], bool) {
	if p.done {
		return Page[T]{}, false
	}

	items := make([]T, 0, p.size)
	if p.hasPeek {
		items = append(items, p.peeked)
		p.hasPeek = false
	}
	for len(items) < p.size {
		v, ok := p.next()
		if !ok {
			break
		}
		items = append(items, v)
	}

	if len(items) == 0 {
		p.Stop()
		return Page[T]{}, false
	}

	last := len(items) < p.size
	if !last {
		v, ok := p.next()
		if ok {
			p.peeked, p.hasPeek = v, true
		} else {
			last = true
		}
	}
	if last {
		p.Stop()
	}

	p.number++
	page := Page[T]{Number: p.number, Start: p.offset, Items: items, Last: last}
	p.offset += len(items)
	return page, true
}

// All yields the remaining pages. Breaking out of the loop stops the pager.
func (p *Pager[T]) All() iter.Seq[Page[T]] {
	return func(yield func(Page[T]) bool) {
		defer p.Stop()
		for {
			page, ok := p.Next()
			if !ok || !yield(page) {
				return
			}
		}
	}
}

// Stop releases the source iterator. It is safe to call more than once.
func (p *Pager[T]) Stop() {
	if p.done {
		return
	}
	p.done = true
	p.hasPeek = false
	p.stop()
}
