// Package images assigns stock imagery to offers whose upstream response
// carried no image URL.
package images

import (
	"math/rand"
	"strings"

	"github.com/lhung/web-widgets/models"
)

// Assigner picks fallback images from a fixed pool. The pool is read-only
// after construction and an Assigner may be shared across requests.
type Assigner struct {
	pool []string
	intn func(n int) int
}

// NewAssigner builds an Assigner over pool. An empty pool yields a no-op
// assigner.
func NewAssigner(pool []string) *Assigner {
	return &Assigner{pool: pool, intn: rand.Intn}
}

// NewAssignerWithSource is NewAssigner with a deterministic picker, for tests.
func NewAssignerWithSource(pool []string, intn func(n int) int) *Assigner {
	return &Assigner{pool: pool, intn: intn}
}

// Assign gives every offer without an image URL a randomly chosen pool entry,
// never repeating an index within the same batch. When the batch needs more
// images than the pool holds, the used-index set resets and repeats become
// unavoidable; that is a known limitation, not an error.
func (a *Assigner) Assign(offers []models.Offer) {
	if len(a.pool) == 0 {
		return
	}

	used := make(map[int]bool, len(a.pool))

	for i := range offers {
		if strings.TrimSpace(offers[i].ImageURL) != "" {
			continue
		}

		if len(used) == len(a.pool) {
			used = make(map[int]bool, len(a.pool))
		}

		idx := a.intn(len(a.pool))
		for used[idx] {
			idx = a.intn(len(a.pool))
		}

		used[idx] = true
		offers[i].ImageURL = a.pool[idx]
	}
}
