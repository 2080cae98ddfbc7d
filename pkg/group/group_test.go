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
	"math/big"
	"slices"
	"testing"

	"github.com/consensys/go-canon/pkg/perm"
	"github.com/consensys/go-canon/pkg/symmetry"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustExpand expands a symmetry over a given rank, failing the test on error.
func mustExpand(t *testing.T, rank uint, sym symmetry.Symmetry) []perm.Signed {
	gens, err := sym.Expand(rank)
	require.NoError(t, err)
	//
	return gens
}

// riemannGenerators yields the generators of the slot symmetries of a
// Riemann-like rank-4 tensor.
func riemannGenerators(t *testing.T) []perm.Signed {
	gens := mustExpand(t, 4, symmetry.Antisymmetric(0, 1))
	gens = append(gens, mustExpand(t, 4, symmetry.Antisymmetric(2, 3))...)
	gens = append(gens, mustExpand(t, 4, symmetry.PairExchange([2]uint{0, 1}, [2]uint{2, 3}))...)
	//
	return gens
}

func Test_Order_01(t *testing.T) {
	t.Parallel()
	// symmetric_n has order n!
	tests := []struct {
		rank     uint
		sym      symmetry.Symmetry
		expected int64
	}{
		{2, symmetry.Symmetric(0, 1), 2},
		{3, symmetry.Symmetric(0, 1, 2), 6},
		{5, symmetry.Symmetric(0, 1, 2, 3, 4), 120},
		{3, symmetry.Antisymmetric(0, 1, 2), 6},
		{4, symmetry.Antisymmetric(0, 1, 2, 3), 24},
		{3, symmetry.Cyclic(0, 1, 2), 3},
		{5, symmetry.Cyclic(0, 1, 2, 3, 4), 5},
		{6, symmetry.Cyclic(1, 3, 5), 3},
	}
	//
	for _, tt := range tests {
		g, err := New(tt.rank, mustExpand(t, tt.rank, tt.sym))
		require.NoError(t, err)
		assert.Equal(t, big.NewInt(tt.expected), g.Order(), "order of %s", tt.sym)
	}
}

func Test_Order_02(t *testing.T) {
	t.Parallel()
	// Riemann-like rank-4 symmetries give a group of order 8
	g, err := New(4, riemannGenerators(t))
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(8), g.Order())
}

func Test_Order_03(t *testing.T) {
	t.Parallel()
	// Trivial group
	g, err := New(4, nil)
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), g.Order())
	assert.Equal(t, uint(0), g.NumLevels())
}

func Test_Base_01(t *testing.T) {
	t.Parallel()
	// Base points are chosen greedily, smallest moved slot first, and are
	// therefore strictly ascending
	g, err := New(4, riemannGenerators(t))
	require.NoError(t, err)
	//
	base := g.Base()
	assert.True(t, slices.IsSorted(base))
	assert.Equal(t, uint(0), base[0])
	// Every orbit starts at its own base point
	for i := uint(0); i < g.NumLevels(); i++ {
		assert.Equal(t, g.BasePoint(i), g.OrbitAt(i)[0])
	}
}

func Test_Transversal_01(t *testing.T) {
	t.Parallel()
	//
	g, err := New(3, mustExpand(t, 3, symmetry.Symmetric(0, 1, 2)))
	require.NoError(t, err)
	// Each representative maps the base point onto its orbit point
	for i := uint(0); i < g.NumLevels(); i++ {
		for _, q := range g.OrbitAt(i) {
			rep, ok := g.RepresentativeAt(i, q)
			require.True(t, ok)
			assert.Equal(t, q, rep.Image(g.BasePoint(i)))
		}
	}
	// Points outside an orbit have no representative
	_, ok := g.RepresentativeAt(1, g.BasePoint(0))
	assert.False(t, ok)
}

func Test_Membership_01(t *testing.T) {
	t.Parallel()
	// The cyclic group on three slots has three members
	g, err := New(3, mustExpand(t, 3, symmetry.Cyclic(0, 1, 2)))
	require.NoError(t, err)
	//
	rotation, _ := perm.New([]uint{1, 2, 0}, 1)
	swap, _ := perm.New([]uint{1, 0, 2}, 1)
	//
	assert.True(t, g.Contains(perm.Identity(3)))
	assert.True(t, g.Contains(rotation))
	assert.True(t, g.Contains(rotation.Mul(rotation)))
	// A transposition is not a rotation
	assert.False(t, g.Contains(swap))
	// Nor is any negative element present
	assert.False(t, g.Contains(rotation.Negate()))
	assert.False(t, g.Contains(perm.Identity(3).Negate()))
}

func Test_Membership_02(t *testing.T) {
	t.Parallel()
	// Signs matter: antisymmetric exchange contains -(0 1) but not +(0 1)
	g, err := New(2, mustExpand(t, 2, symmetry.Antisymmetric(0, 1)))
	require.NoError(t, err)
	//
	swap, _ := perm.New([]uint{1, 0}, 1)
	//
	assert.True(t, g.Contains(swap.Negate()))
	assert.False(t, g.Contains(swap))
	assert.Equal(t, big.NewInt(2), g.Order())
}

func Test_Membership_03(t *testing.T) {
	t.Parallel()
	// Degree mismatch is never a member
	g, err := New(3, mustExpand(t, 3, symmetry.Symmetric(0, 1, 2)))
	require.NoError(t, err)
	assert.False(t, g.Contains(perm.Identity(4)))
}

func Test_Sift_01(t *testing.T) {
	t.Parallel()
	//
	g, err := New(4, riemannGenerators(t))
	require.NoError(t, err)
	// A member sifts to the identity, one transversal choice per level
	swaps, _ := perm.New([]uint{1, 0, 3, 2}, 1)
	residue, word, member := g.Sift(swaps)
	//
	assert.True(t, member)
	assert.Len(t, word, int(g.NumLevels()))
	assert.True(t, residue.IsIdentity())
	// A non-member reports a non-trivial residue
	cycle, _ := perm.New([]uint{1, 2, 3, 0}, 1)
	residue, _, member = g.Sift(cycle)
	//
	assert.False(t, member)
	assert.False(t, residue.IsIdentity())
}

func Test_NegativeIdentity_01(t *testing.T) {
	t.Parallel()
	// Declaring slots both symmetric and antisymmetric forces the negative
	// identity into the group
	gens := mustExpand(t, 2, symmetry.Symmetric(0, 1))
	gens = append(gens, mustExpand(t, 2, symmetry.Antisymmetric(0, 1))...)
	//
	g, err := New(2, gens)
	require.NoError(t, err)
	//
	assert.True(t, g.HasNegativeIdentity())
	assert.Equal(t, big.NewInt(4), g.Order())
	assert.True(t, g.Contains(perm.Identity(2).Negate()))
}

func Test_Generators_01(t *testing.T) {
	t.Parallel()
	// Mismatched generator degrees are rejected at construction
	_, err := New(3, []perm.Signed{perm.Identity(4)})
	assert.ErrorIs(t, err, perm.ErrDimensionMismatch)
}

func Test_Enumerate_01(t *testing.T) {
	t.Parallel()
	//
	g, err := New(3, mustExpand(t, 3, symmetry.Symmetric(0, 1, 2)))
	require.NoError(t, err)
	//
	elements := g.Elements().Collect()
	require.Len(t, elements, 6)
	// Every element is distinct, and a member
	seen := make(map[string]bool)
	//
	for _, e := range elements {
		assert.False(t, seen[e.String()], "duplicate element %s", e)
		assert.True(t, g.Contains(e), "non-member %s enumerated", e)
		seen[e.String()] = true
	}
}

func Test_Enumerate_02(t *testing.T) {
	t.Parallel()
	// Enumeration includes both signs when the negative identity is present
	gens := mustExpand(t, 2, symmetry.Symmetric(0, 1))
	gens = append(gens, mustExpand(t, 2, symmetry.Antisymmetric(0, 1))...)
	//
	g, err := New(2, gens)
	require.NoError(t, err)
	//
	iterator := g.Elements()
	assert.Equal(t, uint(4), iterator.Count())
	//
	elements := iterator.Collect()
	require.Len(t, elements, 4)
	//
	negatives := 0
	//
	for _, e := range elements {
		if e.Sign() < 0 {
			negatives++
		}
	}
	//
	assert.Equal(t, 2, negatives)
}

func Test_Enumerate_03(t *testing.T) {
	t.Parallel()
	// Clone is independent of the original cursor
	g, err := New(4, riemannGenerators(t))
	require.NoError(t, err)
	//
	iterator := g.Elements()
	first := iterator.Next()
	clone := iterator.Clone()
	// Drain the original
	rest := iterator.Collect()
	require.Len(t, rest, 7)
	// The clone still sees everything after the first element
	assert.Equal(t, uint(7), clone.Count())
	assert.True(t, perm.Equal(rest[0], clone.Next()))
	// And restarting from the group yields the same first element
	assert.True(t, perm.Equal(first, g.Elements().Next()))
}

func Test_Enumerate_04(t *testing.T) {
	t.Parallel()
	// The trivial group enumerates exactly the identity
	g, err := New(5, nil)
	require.NoError(t, err)
	//
	elements := g.Elements().Collect()
	require.Len(t, elements, 1)
	assert.True(t, elements[0].IsIdentity())
}

func Test_Enumerate_05(t *testing.T) {
	t.Parallel()
	// Nth jumps the cursor forward
	g, err := New(3, mustExpand(t, 3, symmetry.Symmetric(0, 1, 2)))
	require.NoError(t, err)
	//
	all := g.Elements().Collect()
	assert.True(t, perm.Equal(all[4], g.Elements().Nth(4)))
}

// Products of generators always sift back to the identity, regardless of the
// word chosen.
func Test_Membership_Words(t *testing.T) {
	t.Parallel()
	//
	parameters := gopter.DefaultTestParametersWithSeed(20250801)
	properties := gopter.NewProperties(parameters)
	//
	gens := riemannGenerators(t)
	g, err := New(4, gens)
	require.NoError(t, err)
	//
	properties.Property("generator words are members", prop.ForAll(
		func(word []int) bool {
			element := perm.Identity(4)
			//
			for _, i := range word {
				element = element.Mul(gens[i%len(gens)])
			}
			//
			return g.Contains(element)
		},
		gen.SliceOf(gen.IntRange(0, len(gens)-1)),
	))
	//
	properties.TestingRun(t)
}
