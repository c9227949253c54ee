// Package paging provides stable, clamped pagination over a fetched collection.
package paging

import "sync"

// Pager is a 0-indexed window over a collection with a fixed page size.
// The current page is always within [0, TotalPages()-1].
type Pager[T any] struct {
	mu    sync.RWMutex
	items []T
	size  int
	page  int
}

// Window is a single page as rendered.
type Window[T any] struct {
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	PageSize   int `json:"pageSize"`
	Total      int `json:"total"`
	Items      []T `json:"items"`
}

// New creates a Pager on page 0. A size below 1 is treated as 1.
func New[T any](items []T, size int) *Pager[T] {
	if size < 1 {
		size = 1
	}
	return &Pager[T]{items: items, size: size}
}

// SetPage moves to page p, clamped into range. Returns the page now shown.
func (p *Pager[T]) SetPage(page int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = p.clamp(page)
	return p.page
}

// SetItems replaces the collection, keeping the current page if it still
// exists and clamping it otherwise.
func (p *Pager[T]) SetItems(items []T) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.items = items
	p.page = p.clamp(p.page)
}

// Next advances one page if possible.
func (p *Pager[T]) Next() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = p.clamp(p.page + 1)
	return p.page
}

// Prev goes back one page if possible.
func (p *Pager[T]) Prev() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.page = p.clamp(p.page - 1)
	return p.page
}

// Page returns the current page.
func (p *Pager[T]) Page() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.page
}

// Size returns the page size.
func (p *Pager[T]) Size() int {
	return p.size
}

// TotalPages returns max(1, ceil(len/size)).
func (p *Pager[T]) TotalPages() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.totalPages()
}

// HasNext reports whether a later page exists.
func (p *Pager[T]) HasNext() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.page < p.totalPages()-1
}

// HasPrev reports whether an earlier page exists.
func (p *Pager[T]) HasPrev() bool {
	return p.Page() > 0
}

// Items returns the slice for the current page.
func (p *Pager[T]) Items() []T {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.slice()
}

// Window returns the current page with its bounds.
func (p *Pager[T]) Window() Window[T] {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return Window[T]{
		Page:       p.page,
		TotalPages: p.totalPages(),
		PageSize:   p.size,
		Total:      len(p.items),
		Items:      p.slice(),
	}
}

func (p *Pager[T]) totalPages() int {
	return max(1, (len(p.items)+p.size-1)/p.size)
}

func (p *Pager[T]) clamp(page int) int {
	return min(max(page, 0), p.totalPages()-1)
}

func (p *Pager[T]) slice() []T {
	start := min(p.page*p.size, len(p.items))
	end := min(start+p.size, len(p.items))
	out := make([]T, end-start)
	copy(out, p.items[start:end])
	return out
}
