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
package group

import (
	"slices"

	"github.com/consensys/go-canon/pkg/perm"
	"github.com/consensys/go-canon/pkg/util/collection/iter"
)

// Elements returns a lazy, restartable iteration of every element of this
// group.  Each element arises exactly once as the product of one transversal
// representative per level, with the innermost level advancing fastest.  When
// the group contains the negative identity, each product is followed by its
// negation.  The iteration is deterministic: transversals are walked in orbit
// discovery order.
func (p *Group) Elements() iter.Iterator[perm.Signed] {
	e := &elementIterator{
		group:    p,
		counters: make([]uint, len(p.levels)),
		prefixes: make([]perm.Signed, len(p.levels)),
	}
	e.recompute(0)
	//
	return e
}

// elementIterator walks the cartesian product of the transversals using an
// array of counters, keeping a running prefix product per level so that
// advancing the counter at level i only recomputes products from i inward.
type elementIterator struct {
	group *Group
	// counters[i] indexes into the transversal at level i.
	counters []uint
	// prefixes[i] is the product of the chosen representatives of levels
	// 0..i.
	prefixes []perm.Signed
	// negated indicates the pending element is the negation of the current
	// product (only ever set when the group contains the negative identity).
	negated bool
	// exhausted indicates the iteration is complete.
	exhausted bool
}

// HasNext checks whether or not there are any elements remaining to visit.
//
//nolint:revive
func (p *elementIterator) HasNext() bool {
	return !p.exhausted
}

// Next returns the next element, and advance the iterator.
//
//nolint:revive
func (p *elementIterator) Next() perm.Signed {
	element := p.current()
	p.advance()
	//
	return element
}

// Clone creates a copy of this iterator at the given cursor position.
//
//nolint:revive
func (p *elementIterator) Clone() iter.Iterator[perm.Signed] {
	return &elementIterator{
		group:     p.group,
		counters:  slices.Clone(p.counters),
		prefixes:  slices.Clone(p.prefixes),
		negated:   p.negated,
		exhausted: p.exhausted,
	}
}

// Collect allocates a new array containing all remaining elements.  This
// drains the iterator.
//
//nolint:revive
func (p *elementIterator) Collect() []perm.Signed {
	elements := make([]perm.Signed, 0, p.Count())
	//
	for p.HasNext() {
		elements = append(elements, p.Next())
	}
	//
	return elements
}

// Count returns the number of elements left.  Note, this does not modify the
// iterator.
//
//nolint:revive
func (p *elementIterator) Count() uint {
	if p.exhausted {
		return 0
	}
	// Count combinations strictly after the current one
	var remaining uint
	//
	suffix := uint(1)
	//
	for i := len(p.counters) - 1; i >= 0; i-- {
		size := uint(len(p.group.levels[i].orbit))
		remaining += (size - 1 - p.counters[i]) * suffix
		suffix *= size
	}
	//
	if !p.group.negIdentity {
		return remaining + 1
	}
	// Two elements per combination, one of which may have been consumed
	remaining *= 2
	//
	if p.negated {
		return remaining + 1
	}
	//
	return remaining + 2
}

// Nth returns the nth element of this iterator.  This will mutate the
// iterator.
//
//nolint:revive
func (p *elementIterator) Nth(n uint) perm.Signed {
	return iter.Nth[perm.Signed](p, n)
}

// current materialises the element at the cursor.
func (p *elementIterator) current() perm.Signed {
	var element perm.Signed
	//
	if n := len(p.prefixes); n == 0 {
		element = perm.Identity(p.group.degree)
	} else {
		element = p.prefixes[n-1]
	}
	//
	if p.negated {
		element = element.Negate()
	}
	//
	return element
}

// advance moves the cursor one position, flagging exhaustion at the end.
func (p *elementIterator) advance() {
	// Visit the negated twin first, when present
	if p.group.negIdentity && !p.negated {
		p.negated = true
		return
	}
	//
	p.negated = false
	// Advance counters, innermost level fastest
	for i := len(p.counters) - 1; i >= 0; i-- {
		p.counters[i]++
		//
		if p.counters[i] < uint(len(p.group.levels[i].orbit)) {
			p.recompute(i)
			return
		}
		//
		p.counters[i] = 0
	}
	//
	p.exhausted = true
}

// recompute refreshes the prefix products from the given level inward.
func (p *elementIterator) recompute(from int) {
	for i := from; i < len(p.prefixes); i++ {
		rep := p.group.levels[i].reps[p.counters[i]]
		//
		if i == 0 {
			p.prefixes[i] = rep
		} else {
			p.prefixes[i] = p.prefixes[i-1].Mul(rep)
		}
	}
}
