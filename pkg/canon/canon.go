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
package canon

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-canon/pkg/group"
	"github.com/consensys/go-canon/pkg/perm"
	"github.com/consensys/go-canon/pkg/symmetry"
	"github.com/consensys/go-canon/pkg/tensor"
	log "github.com/sirupsen/logrus"
)

// ErrCanonicalization indicates an internal inconsistency: the minimal
// element found by the traversal failed to sift through the group it was
// drawn from.  This is a bug guard, never expected in released code.
var ErrCanonicalization = errors.New("canonicalization failure")

// Canonicalize returns a fresh tensor whose index sequence is the
// lexicographically smallest arrangement reachable under the tensor's slot
// symmetries, with the accumulated sign absorbed into the coefficient.  Index
// names order lexicographically, with variance (covariant before
// contravariant) as secondary key and transversal-choice order as the final
// deterministic tie-break.  A tensor fixed, up to arrangement, by a
// sign-reversing element of its symmetry group is zero: the result then
// carries coefficient 0 and a fixed (name, variance) index ordering.
func Canonicalize(t *tensor.Tensor) (*tensor.Tensor, error) {
	n := t.Rank()
	symmetries := t.Symmetries()
	// Degenerate case: nothing to minimise
	if n == 0 {
		if len(symmetries) != 0 {
			return nil, fmt.Errorf("%w: rank-0 tensor carries symmetries", tensor.ErrInvalidTensor)
		}
		//
		return t.Clone(), nil
	}
	//
	indices := t.Indices()
	// Fast pre-check: an antisymmetric pair of slots sharing (name, variance)
	// forces zero without building any group.
	if antisymmetricRepeat(symmetries, indices) {
		return zeroOf(t)
	}
	// Expand symmetries into generators
	var generators []perm.Signed
	//
	for _, sym := range symmetries {
		gens, err := sym.Expand(n)
		//
		if err != nil {
			return nil, err
		}
		//
		generators = append(generators, gens...)
	}
	//
	g, err := group.New(n, generators)
	//
	if err != nil {
		return nil, err
	}
	// A group containing the negative identity annihilates everything
	if g.HasNegativeIdentity() {
		return zeroOf(t)
	}
	//
	best := search(g, indices)
	// Bug guard: the winning element must be a member
	if !g.Contains(best.element) {
		return nil, fmt.Errorf("%w: minimal element %s fails membership", ErrCanonicalization, best.element)
	}
	//
	if best.conflict {
		log.Debugf("zero witness for %s: %s realises the minimum with either sign", t.Name(), best.element)
		return zeroOf(t)
	}
	// Rebuild indices in canonical order
	w := best.element
	nindices := make([]tensor.Index, n)
	//
	for j := uint(0); j < n; j++ {
		nindices[j] = indices[w.Image(j)].WithPosition(j)
	}
	//
	result, err := t.WithIndices(nindices)
	//
	if err != nil {
		return nil, err
	}
	//
	result.SetCoefficient(t.Coefficient() * int64(w.Sign()))
	//
	return result, nil
}

// candidate is a partial factorisation of a group element through the
// stabilizer chain.  Writing w for the element, the arrangement it produces
// places the original index at slot w(j) into slot j.  conflict records that
// two merged factorisations produce identical arrangements with opposite
// signs — the zero witness.
type candidate struct {
	element  perm.Signed
	conflict bool
}

// search walks the slot positions in order, maintaining the set of candidate
// factorisations which realise the minimal arrangement so far.  At a base
// point the set branches over the level's orbit; at any other position the
// current stabilizer fixes the slot, so the arrangement value is already
// determined and the set only filters.  Candidates producing identical
// (name, variance) images merge, with sign disagreement recorded as a
// conflict.  Exactly one candidate survives the final position.
func search(g *group.Group, indices []tensor.Index) candidate {
	n := uint(len(indices))
	candidates := []candidate{{perm.Identity(n), false}}
	lvl := uint(0)
	//
	for j := uint(0); j < n; j++ {
		if lvl < g.NumLevels() && g.BasePoint(lvl) == j {
			candidates = branch(g, lvl, candidates, indices)
			lvl++
		} else {
			candidates = filter(candidates, indices, j)
		}
	}
	// All survivors now share one arrangement; merge their signs
	candidates = dedupe(candidates, indices)
	//
	return candidates[0]
}

// branch extends every candidate through every transversal choice at the
// given level, keeping exactly those choices which minimise the index landing
// on the base point.  Candidates are extended in (candidate, orbit) order, so
// the surviving head is the transversal-choice lex minimum.
func branch(g *group.Group, lvl uint, candidates []candidate, indices []tensor.Index) []candidate {
	var (
		kept  []candidate
		least tensor.Index
		found bool
	)
	//
	orbit := g.OrbitAt(lvl)
	//
	for _, c := range candidates {
		for _, q := range orbit {
			index := indices[c.element.Image(q)]
			cmp := compare(index, least)
			//
			if found && cmp > 0 {
				continue
			}
			// Strictly better choices discard all prior survivors
			if !found || cmp < 0 {
				kept = kept[:0]
				least = index
				found = true
			}
			//
			rep, ok := g.RepresentativeAt(lvl, q)
			// Should be unreachable: q was drawn from the orbit
			if !ok {
				panic(fmt.Sprintf("orbit point %d has no transversal representative", q))
			}
			//
			kept = append(kept, candidate{c.element.Mul(rep), c.conflict})
		}
	}
	//
	return dedupe(kept, indices)
}

// filter keeps the candidates whose (already determined) arrangement value at
// the given slot is minimal.
func filter(candidates []candidate, indices []tensor.Index, slot uint) []candidate {
	var (
		kept  []candidate
		least tensor.Index
		found bool
	)
	//
	for _, c := range candidates {
		index := indices[c.element.Image(slot)]
		cmp := compare(index, least)
		//
		if found && cmp > 0 {
			continue
		}
		//
		if !found || cmp < 0 {
			kept = kept[:0]
			least = index
			found = true
		}
		//
		kept = append(kept, c)
	}
	//
	return kept
}

// dedupe merges candidates whose elements produce identical (name, variance)
// images across every slot.  Such candidates have indistinguishable futures:
// whatever minimal arrangement one can reach, the other reaches with the same
// transversal choices.  Merging across opposite signs therefore exhibits two
// group elements realising one arrangement with both signs, which is recorded
// as a conflict.  Insertion order is preserved.
func dedupe(candidates []candidate, indices []tensor.Index) []candidate {
	var (
		kept []candidate
		seen = make(map[string]int, len(candidates))
	)
	//
	for _, c := range candidates {
		k := imageKey(c.element, indices)
		//
		if i, ok := seen[k]; ok {
			if kept[i].element.Sign() != c.element.Sign() {
				kept[i].conflict = true
			}
			//
			kept[i].conflict = kept[i].conflict || c.conflict
		} else {
			seen[k] = len(kept)
			kept = append(kept, c)
		}
	}
	//
	return kept
}

// imageKey fingerprints the (name, variance) sequence an element produces.
func imageKey(element perm.Signed, indices []tensor.Index) string {
	var builder strings.Builder
	//
	for j := uint(0); j < element.Degree(); j++ {
		index := indices[element.Image(j)]
		//
		builder.WriteString(index.Name())
		//
		if index.IsContravariant() {
			builder.WriteString("\x1f^")
		} else {
			builder.WriteString("\x1f_")
		}
	}
	//
	return builder.String()
}

// compare orders indices by name, then variance (covariant first).
func compare(index tensor.Index, other tensor.Index) int {
	if c := strings.Compare(index.Name(), other.Name()); c != 0 {
		return c
	}
	//
	return int(index.Variance()) - int(other.Variance())
}

// antisymmetricRepeat checks whether any antisymmetric symmetry relates two
// slots carrying the same (name, variance) — the immediate zero witness.
func antisymmetricRepeat(symmetries []symmetry.Symmetry, indices []tensor.Index) bool {
	for _, sym := range symmetries {
		if sym.Kind() != symmetry.ANTISYMMETRIC {
			continue
		}
		//
		positions := sym.Positions()
		//
		for i := 0; i < len(positions); i++ {
			for j := i + 1; j < len(positions); j++ {
				a, b := indices[positions[i]], indices[positions[j]]
				//
				if a.Name() == b.Name() && a.Variance() == b.Variance() {
					return true
				}
			}
		}
	}
	//
	return false
}

// zeroOf returns a fresh copy of the given tensor with coefficient zero.  The
// indices are put into a fixed (name, variance) order, so that every
// arrangement of a vanishing tensor canonicalizes to the same value.
func zeroOf(t *tensor.Tensor) (*tensor.Tensor, error) {
	indices := t.Indices()
	//
	slices.SortStableFunc(indices, compare)
	//
	for j := range indices {
		indices[j] = indices[j].WithPosition(uint(j))
	}
	//
	zero, err := t.WithIndices(indices)
	//
	if err != nil {
		return nil, err
	}
	//
	zero.SetCoefficient(0)
	//
	return zero, nil
}
