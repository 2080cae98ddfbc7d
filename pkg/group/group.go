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
	"fmt"
	"math/big"
	"slices"

	"github.com/consensys/go-canon/pkg/perm"
)

// Group is a signed permutation group held as a base and strong generating
// set (BSGS).  For each base point, a level records the orbit of that point
// under the corresponding stabilizer, together with a Schreier transversal of
// coset representatives.  Every element of the group factors uniquely as a
// product of one representative per level; when the group contains the
// negative identity, each factorisation additionally occurs with both signs.
//
// All strong generators live in one owning slice; levels refer to them by
// index.  A Group is immutable once built.
type Group struct {
	// degree is the number of slots acted upon.
	degree uint
	// strong holds every strong generator.
	strong []perm.Signed
	// levels of the stabilizer chain, one per base point.
	levels []level
	// negIdentity records whether the group contains the identity mapping
	// with sign -1.  Such an element is central and cannot be captured by a
	// chain over slot positions, so it is tracked separately.
	negIdentity bool
}

// level is one layer of the stabilizer chain.
type level struct {
	// point is the base point fixed by all subsequent levels.
	point uint
	// orbit of point, in breadth-first discovery order.  orbit[0] == point.
	orbit []uint
	// index maps a slot to its offset within orbit, or -1 when absent.
	index []int
	// reps[i] is the coset representative sending point to orbit[i].
	// reps[0] is the identity.
	reps []perm.Signed
	// gens are indices (into Group.strong) of the generators of this
	// level's stabilizer.
	gens []int
}

// New builds a BSGS for the group generated by the given signed permutations
// over the given number of slots, using the Schreier-Sims procedure.  All
// generators must share that degree.
func New(degree uint, generators []perm.Signed) (*Group, error) {
	for _, g := range generators {
		if g.Degree() != degree {
			return nil, fmt.Errorf("%w: generator of degree %d in group of degree %d",
				perm.ErrDimensionMismatch, g.Degree(), degree)
		}
	}
	//
	b := newBuilder(degree, generators)
	b.build()
	//
	return &Group{degree, b.strong, b.levels, b.negIdentity}, nil
}

// Degree returns the number of slots this group acts on.
func (p *Group) Degree() uint {
	return p.degree
}

// Base returns the ordered base points of the stabilizer chain.  The base is
// strictly ascending, since each base point is the smallest slot moved by the
// stabilizer at its level.
func (p *Group) Base() []uint {
	base := make([]uint, len(p.levels))
	//
	for i, lvl := range p.levels {
		base[i] = lvl.point
	}
	//
	return base
}

// NumLevels returns the depth of the stabilizer chain.
func (p *Group) NumLevels() uint {
	return uint(len(p.levels))
}

// BasePoint returns the base point at the given level.
func (p *Group) BasePoint(lvl uint) uint {
	return p.levels[lvl].point
}

// OrbitAt returns the orbit of the base point at the given level, in
// breadth-first discovery order (hence deterministic).
func (p *Group) OrbitAt(lvl uint) []uint {
	return slices.Clone(p.levels[lvl].orbit)
}

// RepresentativeAt returns the transversal element at the given level sending
// the base point to the given orbit point, or false when the point lies
// outside the orbit.
func (p *Group) RepresentativeAt(lvl uint, point uint) (perm.Signed, bool) {
	i := p.levels[lvl].index[point]
	//
	if i < 0 {
		return perm.Signed{}, false
	}
	//
	return p.levels[lvl].reps[i], true
}

// StrongGenerators returns the strong generating set of this group.
func (p *Group) StrongGenerators() []perm.Signed {
	return slices.Clone(p.strong)
}

// HasNegativeIdentity reports whether this group contains the element which
// fixes every slot but carries sign -1.  Any tensor invariant under such a
// group vanishes.
func (p *Group) HasNegativeIdentity() bool {
	return p.negIdentity
}

// Order returns the number of elements of this group, i.e. the product of the
// orbit sizes across all levels (doubled when the negative identity is
// present).
func (p *Group) Order() *big.Int {
	order := big.NewInt(1)
	//
	for _, lvl := range p.levels {
		order.Mul(order, big.NewInt(int64(len(lvl.orbit))))
	}
	//
	if p.negIdentity {
		order.Lsh(order, 1)
	}
	//
	return order
}

// Sift a signed permutation through the stabilizer chain.  At each level the
// image of the base point selects a transversal element, whose inverse is
// multiplied in on the left; the choices made are reported alongside the
// residue.  The permutation is a member exactly when the residue mapping is
// the identity and its sign is realisable (positive, or negative with the
// negative identity present).
func (p *Group) Sift(g perm.Signed) (perm.Signed, []uint, bool) {
	if g.Degree() != p.degree {
		return g, nil, false
	}
	//
	word := make([]uint, 0, len(p.levels))
	residue := g
	//
	for _, lvl := range p.levels {
		target := residue.Image(lvl.point)
		i := lvl.index[target]
		// Check whether image lies in orbit
		if i < 0 {
			return residue, word, false
		}
		//
		word = append(word, target)
		residue = lvl.reps[i].Inverse().Mul(residue)
	}
	//
	member := residue.IsIdentity() || (p.negIdentity && residue.Negate().IsIdentity())
	//
	return residue, word, member
}

// Contains checks membership of a signed permutation via sifting.
func (p *Group) Contains(g perm.Signed) bool {
	_, _, member := p.Sift(g)
	//
	return member
}
