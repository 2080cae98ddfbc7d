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
package symmetry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-canon/pkg/perm"
)

// ErrInvalidSymmetry indicates a symmetry whose slot positions repeat, lie out
// of range for the owning tensor, or whose arity is below two.
var ErrInvalidSymmetry = errors.New("invalid symmetry")

// Kind identifies one of the four supported symmetry flavours.
type Kind uint8

const (
	// SYMMETRIC permits free exchange of the given slots.
	SYMMETRIC Kind = iota
	// ANTISYMMETRIC permits exchange of the given slots at the cost of a
	// sign flip per transposition.
	ANTISYMMETRIC
	// CYCLIC permits rotation of the given slots.
	CYCLIC
	// PAIR_EXCHANGE permits exchange of adjacent slot pairs (e.g. the
	// Riemann tensor's (ab)(cd) -> (cd)(ab)).
	PAIR_EXCHANGE
)

// String returns a human-readable name for this kind.
func (k Kind) String() string {
	switch k {
	case SYMMETRIC:
		return "symmetric"
	case ANTISYMMETRIC:
		return "antisymmetric"
	case CYCLIC:
		return "cyclic"
	case PAIR_EXCHANGE:
		return "pair_exchange"
	}
	//
	return "unknown"
}

// Symmetry is a tagged value describing a slot symmetry of a tensor.  It
// carries either a subset of slot positions (symmetric, antisymmetric,
// cyclic), or a list of ordered slot pairs (pair exchange).  A Symmetry is
// inert until expanded against a concrete rank.
type Symmetry struct {
	kind Kind
	// positions used by SYMMETRIC, ANTISYMMETRIC and CYCLIC.
	positions []uint
	// pairs used by PAIR_EXCHANGE.
	pairs [][2]uint
}

// Symmetric describes free exchange over the given slot positions.
func Symmetric(positions ...uint) Symmetry {
	return Symmetry{SYMMETRIC, slices.Clone(positions), nil}
}

// Antisymmetric describes signed exchange over the given slot positions.
func Antisymmetric(positions ...uint) Symmetry {
	return Symmetry{ANTISYMMETRIC, slices.Clone(positions), nil}
}

// Cyclic describes rotation of the given slot positions.
func Cyclic(positions ...uint) Symmetry {
	return Symmetry{CYCLIC, slices.Clone(positions), nil}
}

// PairExchange describes exchange of adjacent slot pairs.
func PairExchange(pairs ...[2]uint) Symmetry {
	return Symmetry{PAIR_EXCHANGE, nil, slices.Clone(pairs)}
}

// Kind returns the flavour of this symmetry.
func (s Symmetry) Kind() Kind {
	return s.kind
}

// Positions returns a copy of the slot positions this symmetry ranges over.
// For a pair exchange, this is the flattened pair list.
func (s Symmetry) Positions() []uint {
	if s.kind != PAIR_EXCHANGE {
		return slices.Clone(s.positions)
	}
	//
	positions := make([]uint, 0, 2*len(s.pairs))
	//
	for _, pair := range s.pairs {
		positions = append(positions, pair[0], pair[1])
	}
	//
	return positions
}

// Pairs returns a copy of the slot pairs of a pair-exchange symmetry, or nil
// for any other kind.
func (s Symmetry) Pairs() [][2]uint {
	return slices.Clone(s.pairs)
}

// Validate checks this symmetry against the rank of its owning tensor: every
// referenced slot must be below the rank, no slot may occur twice, and at
// least two slots (pairs, respectively) must be involved.
func (s Symmetry) Validate(rank uint) error {
	positions := s.Positions()
	// Check arity
	if s.kind == PAIR_EXCHANGE && len(s.pairs) < 2 {
		return fmt.Errorf("%w: pair exchange requires at least two pairs, got %d",
			ErrInvalidSymmetry, len(s.pairs))
	} else if s.kind != PAIR_EXCHANGE && len(s.positions) < 2 {
		return fmt.Errorf("%w: %s requires at least two positions, got %d",
			ErrInvalidSymmetry, s.kind, len(s.positions))
	}
	// Check bounds and duplicates
	seen := make(map[uint]bool, len(positions))
	//
	for _, p := range positions {
		if p >= rank {
			return fmt.Errorf("%w: position %d out of range for rank %d", ErrInvalidSymmetry, p, rank)
		} else if seen[p] {
			return fmt.Errorf("%w: position %d repeated", ErrInvalidSymmetry, p)
		}
		//
		seen[p] = true
	}
	//
	return nil
}

// Expand this symmetry into its minimal generating set of signed permutations
// over the full rank (identity outside the referenced positions), as follows:
//
//	symmetric:     adjacent transpositions, sign +1
//	antisymmetric: adjacent transpositions, sign -1
//	cyclic:        one k-cycle, sign +1
//	pair exchange: simultaneous swap of adjacent pairs, sign +1
func (s Symmetry) Expand(rank uint) ([]perm.Signed, error) {
	if err := s.Validate(rank); err != nil {
		return nil, err
	}
	//
	switch s.kind {
	case SYMMETRIC:
		return expandTranspositions(rank, s.positions, false), nil
	case ANTISYMMETRIC:
		return expandTranspositions(rank, s.positions, true), nil
	case CYCLIC:
		return []perm.Signed{cycle(rank, s.positions)}, nil
	case PAIR_EXCHANGE:
		return expandPairSwaps(rank, s.pairs), nil
	}
	//
	return nil, fmt.Errorf("%w: unknown kind %d", ErrInvalidSymmetry, s.kind)
}

// String renders this symmetry, e.g. "antisymmetric{0 1}" or
// "pair_exchange{(0 1) (2 3)}".
func (s Symmetry) String() string {
	var builder strings.Builder
	//
	builder.WriteString(s.kind.String())
	builder.WriteString("{")
	//
	if s.kind == PAIR_EXCHANGE {
		for i, pair := range s.pairs {
			if i != 0 {
				builder.WriteString(" ")
			}
			//
			fmt.Fprintf(&builder, "(%d %d)", pair[0], pair[1])
		}
	} else {
		for i, p := range s.positions {
			if i != 0 {
				builder.WriteString(" ")
			}
			//
			fmt.Fprintf(&builder, "%d", p)
		}
	}
	//
	builder.WriteString("}")
	//
	return builder.String()
}

// expandTranspositions yields the adjacent transpositions (s[i] s[i+1]) over
// the full rank, all carrying the given sign.
func expandTranspositions(rank uint, positions []uint, negative bool) []perm.Signed {
	gens := make([]perm.Signed, 0, len(positions)-1)
	//
	for i := 0; i+1 < len(positions); i++ {
		gens = append(gens, transposition(rank, positions[i], positions[i+1], negative))
	}
	//
	return gens
}

// expandPairSwaps yields, for each adjacent pair of pairs, the simultaneous
// swap of their first and second members.
func expandPairSwaps(rank uint, pairs [][2]uint) []perm.Signed {
	gens := make([]perm.Signed, 0, len(pairs)-1)
	//
	for i := 0; i+1 < len(pairs); i++ {
		mapping := identityMapping(rank)
		mapping[pairs[i][0]] = pairs[i+1][0]
		mapping[pairs[i+1][0]] = pairs[i][0]
		mapping[pairs[i][1]] = pairs[i+1][1]
		mapping[pairs[i+1][1]] = pairs[i][1]
		//
		gens = append(gens, mustPerm(mapping, false))
	}
	//
	return gens
}

// transposition constructs the swap of two slots over the full rank.
func transposition(rank uint, a uint, b uint, negative bool) perm.Signed {
	mapping := identityMapping(rank)
	mapping[a] = b
	mapping[b] = a
	//
	return mustPerm(mapping, negative)
}

// cycle constructs the k-cycle sending positions[i] to positions[i+1] (and
// the last back to the first) over the full rank.
func cycle(rank uint, positions []uint) perm.Signed {
	mapping := identityMapping(rank)
	//
	for i := range positions {
		mapping[positions[i]] = positions[(i+1)%len(positions)]
	}
	//
	return mustPerm(mapping, false)
}

func identityMapping(rank uint) []uint {
	mapping := make([]uint, rank)
	//
	for i := range mapping {
		mapping[i] = uint(i)
	}
	//
	return mapping
}

// mustPerm wraps perm.New for mappings constructed here, which are bijections
// by construction (validation has already run).
func mustPerm(mapping []uint, negative bool) perm.Signed {
	sign := 1
	if negative {
		sign = -1
	}
	//
	p, err := perm.New(mapping, sign)
	// Should be unreachable, since we control the mapping
	if err != nil {
		panic(err)
	}
	//
	return p
}
