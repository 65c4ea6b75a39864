// Package render turns an ordered block sequence into an ordered sequence of
// presentation units. Dispatch goes through a kind->handler registry; kinds
// without a handler degrade to a visible placeholder instead of failing the
// page, so backend-authored content never crashes a consumer.
package render

import (
	"fmt"
	"sync"

	"github.com/aretw0/canopy/pkg/domain"
)

// HandlerFunc renders one block into a presentation unit.
type HandlerFunc func(domain.Block) (string, error)

// Renderer dispatches blocks to registered handlers.
type Renderer struct {
	mu          sync.RWMutex
	handlers    map[string]HandlerFunc
	placeholder func(domain.Block) string
}

// New creates an empty renderer with the default placeholder.
func New() *Renderer {
	return &Renderer{
		handlers:    make(map[string]HandlerFunc),
		placeholder: defaultPlaceholder,
	}
}

func defaultPlaceholder(b domain.Block) string {
	return fmt.Sprintf("[unsupported block: %s]", b.Kind())
}

// Register adds a handler for a block kind.
// If a handler for the same kind exists, it is overwritten.
func (r *Renderer) Register(kind string, fn HandlerFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[kind] = fn
}

// SetPlaceholder replaces the fallback for unregistered kinds.
func (r *Renderer) SetPlaceholder(fn func(domain.Block) string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.placeholder = fn
}

// Render produces one unit per block, in input order. Unregistered kinds
// yield the placeholder; only a handler's own failure is an error.
func (r *Renderer) Render(blocks []domain.Block) ([]string, error) {
	units := make([]string, 0, len(blocks))
	for i, b := range blocks {
		r.mu.RLock()
		fn, ok := r.handlers[b.Kind()]
		placeholder := r.placeholder
		r.mu.RUnlock()

		if !ok {
			units = append(units, placeholder(b))
			continue
		}
		unit, err := fn(b)
		if err != nil {
			return nil, fmt.Errorf("render block %d (%s): %w", i, b.Kind(), err)
		}
		units = append(units, unit)
	}
	return units, nil
}
