package query

import (
	"context"
	"errors"
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
)

// ErrFetchInFlight is returned by FetchNext when a previous page fetch for
// the same pager is still outstanding. Callers treat it as "try again when
// the current fetch lands", not as a failure.
var ErrFetchInFlight = errors.New("page fetch already in flight")

// Pager walks the article collection as a forward-only cursor and flattens
// the pages fetched so far into one ordered item sequence.
//
// The cursor and the tag filter are coupled: changing the filter resets the
// cursor to page 1 and any fetch still in flight under the old filter is
// discarded when it lands. Safe for concurrent use.
type Pager struct {
	client   *Client
	pageSize int

	mu        sync.Mutex
	tag       string
	items     []domain.Article
	page      int // last fetched page, 0 before the first fetch
	pageCount int
	total     int
	inFlight  bool
	gen       int
}

// Articles creates a pager over the article collection, optionally filtered
// by tag. No fetch happens until FetchNext.
func (c *Client) Articles(tag string) *Pager {
	return &Pager{
		client:   c,
		pageSize: c.pageSize,
		tag:      tag,
	}
}

// HasNext reports whether more pages exist. Before the first fetch it is
// true; afterwards it is false exactly when page == pageCount.
func (p *Pager) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page == 0 || p.page < p.pageCount
}

// Items returns the items of all fetched pages, in fetch order.
func (p *Pager) Items() []domain.Article {
	p.mu.Lock()
	defer p.mu.Unlock()
	items := make([]domain.Article, len(p.items))
	copy(items, p.items)
	return items
}

// Total returns the backend's total item count, 0 before the first fetch.
func (p *Pager) Total() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.total
}

// Tag returns the active filter.
func (p *Pager) Tag() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tag
}

// FetchNext fetches the page after the last fetched one and appends its
// items. Fetching past the last page is a no-op. Only one fetch may be
// outstanding at a time; a second concurrent call returns ErrFetchInFlight
// without issuing a request. A failed fetch does not advance the cursor.
func (p *Pager) FetchNext(ctx context.Context) error {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return ErrFetchInFlight
	}
	if p.page != 0 && p.page >= p.pageCount {
		p.mu.Unlock()
		return nil
	}
	next := p.page + 1
	gen := p.gen
	tag := p.tag
	p.inFlight = true
	p.mu.Unlock()

	list, err := p.client.ArticlesPage(ctx, tag, next, p.pageSize)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.inFlight = false
	if p.gen != gen {
		// Filter changed or pager refreshed while this fetch was out;
		// its result no longer belongs to the current sequence.
		return nil
	}
	if err != nil {
		return err
	}
	p.items = append(p.items, list.Items...)
	// Advance by the page we asked for, not the echoed one: a backend
	// answering with zero-valued pagination meta must not stall the walk.
	p.page = next
	p.pageCount = list.Pagination.PageCount
	p.total = list.Pagination.Total
	return nil
}

// FetchAll walks the remaining pages to the end.
func (p *Pager) FetchAll(ctx context.Context) ([]domain.Article, error) {
	for p.HasNext() {
		if err := p.FetchNext(ctx); err != nil {
			return nil, err
		}
	}
	return p.Items(), nil
}

// SetTag switches the filter. The cursor resets to page 1 under the new
// filter; setting the current tag again is a no-op.
func (p *Pager) SetTag(tag string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if tag == p.tag {
		return
	}
	p.tag = tag
	p.resetLocked()
}

// Refresh discards all pager state and the cached pages behind it, then
// refetches page 1 under the current filter.
func (p *Pager) Refresh(ctx context.Context) error {
	p.mu.Lock()
	tag := p.tag
	p.resetLocked()
	p.mu.Unlock()

	if err := p.client.InvalidateArticles(ctx, tag); err != nil {
		return err
	}
	return p.FetchNext(ctx)
}

func (p *Pager) resetLocked() {
	p.gen++
	p.items = nil
	p.page = 0
	p.pageCount = 0
	p.total = 0
}
