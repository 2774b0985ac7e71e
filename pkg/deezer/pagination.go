package deezer

import (
	"context"
	"fmt"
	"iter"

	"github.com/fivetwenty-io/deezer/internal/constants"
)

// PageFetcher fetches one page of a list endpoint.
type PageFetcher[T any] func(ctx context.Context, params *QueryParams) (*ListResponse[T], error)

// PaginationClient is implemented by clients that can fetch any list path.
type PaginationClient[T any] interface {
	ListWithPath(ctx context.Context, path string, params *QueryParams) (*ListResponse[T], error)
}

// PathFetcher adapts a PaginationClient to a PageFetcher for one path.
func PathFetcher[T any](client PaginationClient[T], path string) PageFetcher[T] {
	return func(ctx context.Context, params *QueryParams) (*ListResponse[T], error) {
		return client.ListWithPath(ctx, path, params)
	}
}

// Pager is a lazy, restartable sequence over a paginated endpoint.
// Nothing is fetched until a pass is started with Iterator, Seq, All or ForEach.
type Pager[T any] struct {
	fetch  PageFetcher[T]
	params *QueryParams
	err    error
}

// NewPager creates a pager starting at params.
func NewPager[T any](fetch PageFetcher[T], params *QueryParams) *Pager[T] {
	return &Pager[T]{
		fetch:  fetch,
		params: params.Clone(),
	}
}

// NewFailedPager returns a pager whose every pass fails with err.
func NewFailedPager[T any](err error) *Pager[T] {
	return &Pager[T]{err: err}
}

// Params returns a copy of the starting query.
func (p *Pager[T]) Params() *QueryParams {
	return p.params.Clone()
}

// Iterator starts a new pass from the original query.
func (p *Pager[T]) Iterator(ctx context.Context) *PaginationIterator[T] {
	it := &PaginationIterator[T]{
		ctx:    ctx,
		fetch:  p.fetch,
		params: p.params.Clone(),
	}

	if p.err != nil {
		it.err = p.err
		it.started = true
	}

	return it
}

// Seq starts a new pass and exposes it as a range-over-func sequence.
// A failure is yielded once, with the zero value, and ends the sequence.
func (p *Pager[T]) Seq(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		it := p.Iterator(ctx)

		for it.HasNext() {
			item, err := it.Next()
			if err != nil {
				break
			}

			if !yield(item, nil) {
				return
			}
		}

		if err := it.Err(); err != nil {
			var zero T

			yield(zero, err)
		}
	}
}

// First fetches only the first page.
func (p *Pager[T]) First(ctx context.Context) (*ListResponse[T], error) {
	if p.err != nil {
		return nil, p.err
	}

	return p.fetch(ctx, p.params.Clone())
}

// All fetches every item of a new pass.
func (p *Pager[T]) All(ctx context.Context) ([]T, error) {
	return p.Iterator(ctx).All()
}

// ForEach calls fn for every item of a new pass, stopping at the first error.
func (p *Pager[T]) ForEach(ctx context.Context, fn func(T) error) error {
	return p.Iterator(ctx).ForEach(fn)
}

// PaginationIterator walks one pass over a paginated endpoint.
// After a failure it is terminal: the error is sticky and no further page is fetched.
type PaginationIterator[T any] struct {
	ctx     context.Context //nolint:containedctx // iterator is bound to a single pass
	fetch   PageFetcher[T]
	params  *QueryParams
	buffer  []T
	pos     int
	started bool
	more    bool
	pages   int
	err     error
}

// NewPaginationIterator creates an iterator over path using client.
func NewPaginationIterator[T any](ctx context.Context, client PaginationClient[T], path string, params *QueryParams) *PaginationIterator[T] {
	return NewPager(PathFetcher(client, path), params).Iterator(ctx)
}

// HasNext reports whether another item is available, fetching the next page if needed.
func (it *PaginationIterator[T]) HasNext() bool {
	if it.pos < len(it.buffer) {
		return true
	}

	if it.err != nil {
		return false
	}

	if it.started && !it.more {
		return false
	}

	it.fill()

	return it.pos < len(it.buffer)
}

// Next returns the next item.
func (it *PaginationIterator[T]) Next() (T, error) {
	var zero T

	if !it.HasNext() {
		if it.err != nil {
			return zero, it.err
		}

		return zero, ErrNoMoreItems
	}

	item := it.buffer[it.pos]
	it.pos++

	return item, nil
}

// Err returns the error that ended the pass, if any.
func (it *PaginationIterator[T]) Err() error {
	return it.err
}

// Pages returns the number of pages fetched so far.
func (it *PaginationIterator[T]) Pages() int {
	return it.pages
}

// All drains the iterator.
func (it *PaginationIterator[T]) All() ([]T, error) {
	var items []T

	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return items, err
		}

		items = append(items, item)
	}

	if it.err != nil {
		return items, it.err
	}

	return items, nil
}

// ForEach calls fn for every remaining item.
func (it *PaginationIterator[T]) ForEach(fn func(T) error) error {
	for it.HasNext() {
		item, err := it.Next()
		if err != nil {
			return err
		}

		err = fn(item)
		if err != nil {
			return err
		}
	}

	return it.err
}

func (it *PaginationIterator[T]) buffered() bool {
	return it.pos < len(it.buffer)
}

func (it *PaginationIterator[T]) fill() {
	if it.fetch == nil {
		it.started = true
		it.err = fmt.Errorf("%w: pager has no fetcher", ErrInvalidRequest)

		return
	}

	if err := it.ctx.Err(); err != nil {
		it.started = true
		it.err = err

		return
	}

	page, err := it.fetch(it.ctx, it.params.Clone())
	it.started = true

	if err != nil {
		it.err = err
		it.more = false

		return
	}

	it.pages++
	it.buffer = page.Data
	it.pos = 0
	it.more = page.HasMore() && len(page.Data) > 0

	if !it.more {
		return
	}

	next, ok := page.NextIndex()
	if !ok || next <= it.params.Index {
		next = it.params.Index + len(page.Data)
	}

	it.params.Index = next
}

// PaginationOptions bounds eager pagination helpers.
type PaginationOptions struct {
	PageSize int
	MaxPages int
}

// DefaultPaginationOptions returns the default pagination bounds.
func DefaultPaginationOptions() *PaginationOptions {
	return &PaginationOptions{
		PageSize: constants.DefaultPageSize,
		MaxPages: constants.MaxPages,
	}
}

// FetchAllPages eagerly collects up to opts.MaxPages pages.
func FetchAllPages[T any](ctx context.Context, pager *Pager[T], opts *PaginationOptions) ([]T, error) {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	start := pager
	if opts.PageSize > 0 {
		start = &Pager[T]{fetch: pager.fetch, params: pager.Params().WithLimit(opts.PageSize), err: pager.err}
	}

	it := start.Iterator(ctx)

	var items []T

	for {
		if !it.buffered() && opts.MaxPages > 0 && it.Pages() >= opts.MaxPages {
			break
		}

		if !it.HasNext() {
			break
		}

		item, err := it.Next()
		if err != nil {
			return items, fmt.Errorf("fetching page %d: %w", it.Pages(), err)
		}

		items = append(items, item)
	}

	if err := it.Err(); err != nil {
		return items, fmt.Errorf("fetching page %d: %w", it.Pages()+1, err)
	}

	return items, nil
}

// PageResult carries one page of a streamed pass.
type PageResult[T any] struct {
	Items []T
	Page  int
	Err   error
}

// StreamPages fetches pages in the background and sends them on the returned
// channel, which is closed after the last page, an error, or ctx cancellation.
func StreamPages[T any](ctx context.Context, pager *Pager[T], opts *PaginationOptions) <-chan PageResult[T] {
	if opts == nil {
		opts = DefaultPaginationOptions()
	}

	results := make(chan PageResult[T], constants.BufferSize)

	go func() {
		defer close(results)

		if pager.err != nil {
			results <- PageResult[T]{Err: pager.err}

			return
		}

		params := pager.Params()
		if opts.PageSize > 0 {
			params.Limit = opts.PageSize
		}

		for page := 1; opts.MaxPages <= 0 || page <= opts.MaxPages; page++ {
			resp, err := pager.fetch(ctx, params.Clone())
			if err != nil {
				select {
				case results <- PageResult[T]{Page: page, Err: err}:
				case <-ctx.Done():
				}

				return
			}

			select {
			case results <- PageResult[T]{Items: resp.Data, Page: page}:
			case <-ctx.Done():
				return
			}

			if !resp.HasMore() || len(resp.Data) == 0 {
				return
			}

			next, ok := resp.NextIndex()
			if !ok || next <= params.Index {
				next = params.Index + len(resp.Data)
			}

			params.Index = next
		}
	}()

	return results
}
