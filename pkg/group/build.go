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
	"github.com/bits-and-blooms/bitset"
	"github.com/consensys/go-canon/pkg/perm"
	log "github.com/sirupsen/logrus"
)

// builder runs the Schreier-Sims procedure: construct a stabilizer chain from
// the current strong generators, then verify every Schreier generator sifts
// to the identity through the levels below it.  Any non-trivial residue
// becomes a new strong generator and the chain is reseeded.  On termination
// the chain satisfies the strong generation property, so transversal products
// enumerate the group exactly once.
type builder struct {
	degree      uint
	strong      []perm.Signed
	levels      []level
	negIdentity bool
}

func newBuilder(degree uint, generators []perm.Signed) *builder {
	b := &builder{degree: degree}
	//
	for _, g := range generators {
		b.addStrong(g)
	}
	//
	return b
}

// addStrong records a new strong generator, unless it is trivial or already
// known.  A generator with identity mapping but negative sign is absorbed
// into the negIdentity flag, since no slot-position chain can see it.
func (b *builder) addStrong(g perm.Signed) bool {
	if g.Moved().None() {
		if g.Sign() < 0 && !b.negIdentity {
			log.Debug("group contains the negative identity")
			b.negIdentity = true
		}
		//
		return false
	}
	//
	for _, h := range b.strong {
		if perm.Equal(g, h) {
			return false
		}
	}
	//
	b.strong = append(b.strong, g)
	//
	return true
}

// build iterates chain construction and Schreier verification to a fixed
// point.  Each round either closes the chain or contributes one new strong
// generator; the represented order grows strictly with every new generator,
// so the loop terminates.
func (b *builder) build() {
	for {
		b.rebuildChain()
		//
		if b.verify() {
			break
		}
	}
	//
	if log.IsLevelEnabled(log.DebugLevel) {
		log.Debugf("built BSGS: %d levels, %d strong generators", len(b.levels), len(b.strong))
	}
}

// rebuildChain recomputes base points, orbits and transversals from scratch.
// The base is chosen greedily: each level's point is the smallest slot moved
// by any generator assigned to that level, and the next level receives the
// generators which fix it.
func (b *builder) rebuildChain() {
	b.levels = nil
	// Initially, all strong generators are in play
	gens := make([]int, len(b.strong))
	//
	for i := range b.strong {
		gens[i] = i
	}
	//
	for len(gens) > 0 {
		point, ok := b.smallestMoved(gens)
		// Check whether remaining generators are all trivial
		if !ok {
			break
		}
		//
		lvl := level{point: point, gens: gens}
		b.growOrbit(&lvl)
		b.levels = append(b.levels, lvl)
		// Pass on the generators fixing this base point
		var next []int
		//
		for _, gi := range gens {
			if b.strong[gi].Image(point) == point {
				next = append(next, gi)
			}
		}
		//
		gens = next
	}
}

// smallestMoved returns the smallest slot moved by any of the given
// generators.
func (b *builder) smallestMoved(gens []int) (uint, bool) {
	moved := bitset.New(b.degree)
	//
	for _, gi := range gens {
		moved.InPlaceUnion(b.strong[gi].Moved())
	}
	//
	return moved.NextSet(0)
}

// growOrbit computes the orbit of the level's base point under its generators
// by breadth-first search, recording one transversal representative per orbit
// point.  Discovery order is retained so that downstream consumers observe a
// deterministic orbit ordering.
func (b *builder) growOrbit(lvl *level) {
	lvl.orbit = []uint{lvl.point}
	lvl.reps = []perm.Signed{perm.Identity(b.degree)}
	lvl.index = make([]int, b.degree)
	//
	for i := range lvl.index {
		lvl.index[i] = -1
	}
	//
	lvl.index[lvl.point] = 0
	// Breadth-first traversal
	for qi := 0; qi < len(lvl.orbit); qi++ {
		q := lvl.orbit[qi]
		//
		for _, gi := range lvl.gens {
			x := b.strong[gi]
			r := x.Image(q)
			//
			if lvl.index[r] < 0 {
				lvl.index[r] = len(lvl.orbit)
				lvl.orbit = append(lvl.orbit, r)
				lvl.reps = append(lvl.reps, x.Mul(lvl.reps[qi]))
			}
		}
	}
}

// verify checks the strong generation property: for every level, orbit point
// and generator, the Schreier generator must sift to the identity through the
// levels below.  The first non-trivial residue is added to the strong set and
// verification aborts so the chain can be rebuilt.
func (b *builder) verify() bool {
	for i := range b.levels {
		lvl := &b.levels[i]
		//
		for qi, q := range lvl.orbit {
			u := lvl.reps[qi]
			//
			for _, gi := range lvl.gens {
				x := b.strong[gi]
				ui := lvl.reps[lvl.index[x.Image(q)]]
				// Schreier generator: u~^-1 . x . u
				s := ui.Inverse().Mul(x).Mul(u)
				residue := b.siftFrom(i+1, s)
				//
				if b.addStrong(residue) {
					log.Debugf("new strong generator %s at level %d", residue, i+1)
					return false
				}
			}
		}
	}
	//
	return true
}

// siftFrom reduces a permutation through the chain starting at the given
// level, returning the residue.
func (b *builder) siftFrom(start int, g perm.Signed) perm.Signed {
	residue := g
	//
	for i := start; i < len(b.levels); i++ {
		lvl := &b.levels[i]
		target := residue.Image(lvl.point)
		j := lvl.index[target]
		//
		if j < 0 {
			return residue
		}
		//
		residue = lvl.reps[j].Inverse().Mul(residue)
	}
	//
	return residue
}
