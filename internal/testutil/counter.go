// Package testutil defines support code for unit tests.
package testutil

import (
	"errors"
	"fmt"

	"github.com/creachadair/jvariant/variant"
)

// ErrLimit is reported by a Counter whose allocation limit is exhausted.
var ErrLimit = errors.New("allocation limit exceeded")

// A Counter is a variant.Allocator that counts node allocations and
// releases, by kind. A zero Counter is ready for use and has no limit.
type Counter struct {
	// If positive, Alloc fails with ErrLimit once Total reaches Limit.
	Limit int

	total int
	live  map[variant.Kind]int
}

// Alloc satisfies part of variant.Allocator.
func (c *Counter) Alloc(k variant.Kind) error {
	if c.Limit > 0 && c.total >= c.Limit {
		return ErrLimit
	}
	if c.live == nil {
		c.live = make(map[variant.Kind]int)
	}
	c.total++
	c.live[k]++
	return nil
}

// Free satisfies part of variant.Allocator. It panics if more nodes of kind k
// are released than were allocated.
func (c *Counter) Free(k variant.Kind) {
	if c.live[k] <= 0 {
		panic(fmt.Sprintf("free of unallocated %v node", k))
	}
	c.live[k]--
}

// Total reports the number of successful allocations.
func (c *Counter) Total() int { return c.total }

// Live reports the number of nodes allocated and not yet released.
func (c *Counter) Live() int {
	var n int
	for _, v := range c.live {
		n += v
	}
	return n
}

// LiveKind reports the number of live nodes of kind k.
func (c *Counter) LiveKind(k variant.Kind) int { return c.live[k] }
