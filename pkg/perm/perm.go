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
package perm

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/bits-and-blooms/bitset"
)

// ErrDimensionMismatch indicates that two permutations (or a permutation and a
// sequence) with different domain sizes were combined.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// Signed is a permutation of the slots 0..n-1 paired with a sign.  The sign
// tracks antisymmetry parity: composing two signed permutations multiplies
// their signs.  The zero value is the (empty) identity.
type Signed struct {
	// mapping[i] gives the image of slot i.
	mapping []uint
	// negative indicates a sign of -1 (rather than +1).
	negative bool
}

// New constructs a signed permutation from an explicit slot mapping and a sign
// of +1 or -1.  The mapping must be a bijection on 0..n-1.
func New(mapping []uint, sign int) (Signed, error) {
	if sign != 1 && sign != -1 {
		return Signed{}, fmt.Errorf("invalid sign %d (must be +1 or -1)", sign)
	}
	// Check mapping is a bijection
	seen := make([]bool, len(mapping))
	//
	for _, v := range mapping {
		if v >= uint(len(mapping)) {
			return Signed{}, fmt.Errorf("slot image %d out of range 0..%d", v, len(mapping)-1)
		} else if seen[v] {
			return Signed{}, fmt.Errorf("slot image %d occurs twice (not a bijection)", v)
		}
		//
		seen[v] = true
	}
	//
	return Signed{slices.Clone(mapping), sign < 0}, nil
}

// Identity returns the identity permutation on n slots, with sign +1.
func Identity(n uint) Signed {
	mapping := make([]uint, n)
	//
	for i := range mapping {
		mapping[i] = uint(i)
	}
	//
	return Signed{mapping, false}
}

// Degree returns the number of slots this permutation acts on.
func (p Signed) Degree() uint {
	return uint(len(p.mapping))
}

// Sign returns +1 or -1.
func (p Signed) Sign() int {
	if p.negative {
		return -1
	}
	//
	return 1
}

// Image returns the image of a given slot under this permutation.
func (p Signed) Image(slot uint) uint {
	return p.mapping[slot]
}

// IsIdentity checks whether this permutation fixes every slot and has sign +1.
func (p Signed) IsIdentity() bool {
	return !p.negative && p.fixesAll()
}

// fixesAll checks whether the underlying mapping is the identity, ignoring the
// sign.
func (p Signed) fixesAll() bool {
	for i, v := range p.mapping {
		if uint(i) != v {
			return false
		}
	}
	//
	return true
}

// Compose returns the permutation whose action on slot i is p(q(i)), with the
// product of signs.  Both permutations must have the same degree.
func Compose(p Signed, q Signed) (Signed, error) {
	if p.Degree() != q.Degree() {
		return Signed{}, fmt.Errorf("%w: composing degree %d with degree %d",
			ErrDimensionMismatch, p.Degree(), q.Degree())
	}
	//
	return p.Mul(q), nil
}

// Mul is the unchecked form of Compose, for use where degree uniformity has
// already been established (e.g. inside the group engine).  It panics on a
// degree mismatch.
func (p Signed) Mul(q Signed) Signed {
	if p.Degree() != q.Degree() {
		panic(fmt.Sprintf("composing permutations of degree %d and %d", p.Degree(), q.Degree()))
	}
	//
	mapping := make([]uint, len(p.mapping))
	//
	for i, v := range q.mapping {
		mapping[i] = p.mapping[v]
	}
	//
	return Signed{mapping, p.negative != q.negative}
}

// Inverse returns the inverse permutation.  The sign is preserved, since the
// sign of an element of order two structure (i.e. +1 or -1) is its own
// inverse.
func (p Signed) Inverse() Signed {
	mapping := make([]uint, len(p.mapping))
	//
	for i, v := range p.mapping {
		mapping[v] = uint(i)
	}
	//
	return Signed{mapping, p.negative}
}

// Negate returns this permutation with its sign flipped.
func (p Signed) Negate() Signed {
	return Signed{p.mapping, !p.negative}
}

// Equal checks structural equality of mappings and signs.
func Equal(p Signed, q Signed) bool {
	return p.negative == q.negative && slices.Equal(p.mapping, q.mapping)
}

// Apply produces the sequence b with b[p(i)] = a[i].  That is, the item in
// slot i moves to slot p(i).  This is the single action convention assumed
// throughout; the inverse convention (b[i] = a[p(i)]) is deliberately not
// offered.
func Apply[T any](p Signed, items []T) ([]T, error) {
	if p.Degree() != uint(len(items)) {
		return nil, fmt.Errorf("%w: applying degree %d permutation to %d items",
			ErrDimensionMismatch, p.Degree(), len(items))
	}
	//
	nitems := make([]T, len(items))
	//
	for i, v := range p.mapping {
		nitems[v] = items[i]
	}
	//
	return nitems, nil
}

// Moved returns the set of slots not fixed by this permutation.  Observe that
// the sign plays no part here: the negative identity moves nothing.
func (p Signed) Moved() *bitset.BitSet {
	moved := bitset.New(p.Degree())
	//
	for i, v := range p.mapping {
		if uint(i) != v {
			moved.Set(uint(i))
		}
	}
	//
	return moved
}

// String renders this permutation in signed cycle notation, e.g. "-(0 1)(2 3)"
// or "(0 1 2)".  The identity renders as "id" (or "-id").
func (p Signed) String() string {
	var builder strings.Builder
	//
	if p.negative {
		builder.WriteString("-")
	}
	// Decompose into cycles
	done := bitset.New(p.Degree())
	cycles := 0
	//
	for i := uint(0); i < p.Degree(); i++ {
		if done.Test(uint(i)) || p.mapping[i] == i {
			continue
		}
		// Walk the cycle starting at i
		builder.WriteString("(")
		//
		for j := i; !done.Test(j); j = p.mapping[j] {
			if j != i {
				builder.WriteString(" ")
			}
			//
			fmt.Fprintf(&builder, "%d", j)
			done.Set(j)
		}
		//
		builder.WriteString(")")
		cycles++
	}
	//
	if cycles == 0 {
		builder.WriteString("id")
	}
	//
	return builder.String()
}
