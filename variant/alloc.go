// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package variant

import "fmt"

// An Allocator observes the creation and release of variant nodes.
//
// Alloc is called before each node is created. If it reports an error, the
// node is not created and the operation that requested it fails, releasing
// everything it had allocated so far. Free is called exactly once for each
// node whose Alloc succeeded, when that node is released.
//
// Nodes remember the allocator they were created with, and copies of a node
// report to the same allocator.
type Allocator interface {
	Alloc(k Kind) error
	Free(k Kind)
}

func allocNode(a Allocator, k Kind) error {
	if a == nil {
		return nil
	} else if err := a.Alloc(k); err != nil {
		return fmt.Errorf("allocating %v node: %w", k, err)
	}
	return nil
}

// newNode allocates a new empty node of kind k reporting to a.
func newNode(a Allocator, k Kind) (*Variant, error) {
	if err := allocNode(a, k); err != nil {
		return nil, err
	}
	return &Variant{kind: k, alloc: a}, nil
}
