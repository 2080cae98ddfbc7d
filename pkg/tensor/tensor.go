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
package tensor

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/consensys/go-canon/pkg/symmetry"
)

// ErrInvalidTensor indicates a structurally malformed tensor, such as slot
// positions which are not exactly 0..rank-1, or symmetries attached to a
// rank-0 tensor.
var ErrInvalidTensor = errors.New("invalid tensor")

// Tensor is a named symbol with an ordered list of indices, an integer
// coefficient and a set of slot symmetries.  Construction validates that the
// index positions are exactly 0..rank-1; canonicalization never mutates a
// tensor, returning a fresh one instead.
type Tensor struct {
	name        string
	indices     []Index
	coefficient int64
	symmetries  []symmetry.Symmetry
}

// New constructs a tensor with the given name and indices, and a coefficient
// of +1.  The indices must occupy slots 0..rank-1 in order.
func New(name string, indices []Index) (*Tensor, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidTensor)
	}
	//
	for i, index := range indices {
		if index.Name() == "" {
			return nil, fmt.Errorf("%w: empty index name at slot %d", ErrInvalidTensor, i)
		} else if index.Position() != uint(i) {
			return nil, fmt.Errorf("%w: index %q at slot %d declares position %d",
				ErrInvalidTensor, index.Name(), i, index.Position())
		}
	}
	//
	return &Tensor{name, slices.Clone(indices), 1, nil}, nil
}

// Name returns the symbol name of this tensor.
func (p *Tensor) Name() string {
	return p.name
}

// Rank returns the number of indices of this tensor.
func (p *Tensor) Rank() uint {
	return uint(len(p.indices))
}

// Coefficient returns the integer coefficient of this tensor.
func (p *Tensor) Coefficient() int64 {
	return p.coefficient
}

// SetCoefficient overwrites the coefficient of this tensor.
func (p *Tensor) SetCoefficient(coefficient int64) {
	p.coefficient = coefficient
}

// IsZero checks whether this tensor is (syntactically) zero, i.e. its
// coefficient is zero.
func (p *Tensor) IsZero() bool {
	return p.coefficient == 0
}

// Index returns the index at the given slot.
func (p *Tensor) Index(slot uint) Index {
	return p.indices[slot]
}

// Indices returns a copy of the index list of this tensor.
func (p *Tensor) Indices() []Index {
	return slices.Clone(p.indices)
}

// Symmetries returns a copy of the symmetry descriptors attached to this
// tensor.
func (p *Tensor) Symmetries() []symmetry.Symmetry {
	return slices.Clone(p.symmetries)
}

// AddSymmetry attaches a slot symmetry to this tensor, after validating its
// positions against the rank.
func (p *Tensor) AddSymmetry(sym symmetry.Symmetry) error {
	if len(p.indices) == 0 {
		return fmt.Errorf("%w: symmetry %s on rank-0 tensor", ErrInvalidTensor, sym)
	}
	//
	if err := sym.Validate(p.Rank()); err != nil {
		return err
	}
	//
	p.symmetries = append(p.symmetries, sym)
	//
	return nil
}

// Clone creates a deep copy of this tensor.
func (p *Tensor) Clone() *Tensor {
	return &Tensor{p.name, slices.Clone(p.indices), p.coefficient, slices.Clone(p.symmetries)}
}

// WithIndices returns a fresh tensor sharing this tensor's name, coefficient
// and symmetries, but carrying the given index list.  The index count must
// match the rank, and positions must again be 0..rank-1.
func (p *Tensor) WithIndices(indices []Index) (*Tensor, error) {
	if uint(len(indices)) != p.Rank() {
		return nil, fmt.Errorf("%w: expected %d indices, got %d", ErrInvalidTensor, p.Rank(), len(indices))
	}
	//
	t, err := New(p.name, indices)
	//
	if err != nil {
		return nil, err
	}
	//
	t.coefficient = p.coefficient
	t.symmetries = slices.Clone(p.symmetries)
	//
	return t, nil
}

// Equals checks structural equality on name, coefficient and index sequence
// (names and variances, in order).  Symmetry lists do not participate: two
// already-canonical tensors are equal exactly when this holds.
func (p *Tensor) Equals(other *Tensor) bool {
	if p.name != other.name || p.coefficient != other.coefficient || len(p.indices) != len(other.indices) {
		return false
	}
	//
	for i := range p.indices {
		if p.indices[i].Name() != other.indices[i].Name() ||
			p.indices[i].Variance() != other.indices[i].Variance() {
			return false
		}
	}
	//
	return true
}

// String renders this tensor deterministically.  Pure covariant tensors
// render as "name_{a b}"; mixed variance groups consecutive runs, preserving
// order, as in "name_{a}^{b}".  The coefficient prefix is omitted at +1,
// shown as "-" at -1, and as "c · " otherwise.  Zero tensors render as "0".
func (p *Tensor) String() string {
	if p.IsZero() {
		return "0"
	}
	//
	var builder strings.Builder
	// Coefficient prefix
	switch {
	case p.coefficient == -1:
		builder.WriteString("-")
	case p.coefficient != 1:
		fmt.Fprintf(&builder, "%d · ", p.coefficient)
	}
	//
	builder.WriteString(p.name)
	// Group consecutive runs of equal variance
	for i := 0; i < len(p.indices); {
		variance := p.indices[i].Variance()
		//
		if variance == CONTRAVARIANT {
			builder.WriteString("^{")
		} else {
			builder.WriteString("_{")
		}
		//
		for first := true; i < len(p.indices) && p.indices[i].Variance() == variance; i++ {
			if !first {
				builder.WriteString(" ")
			}
			//
			builder.WriteString(p.indices[i].Name())
			first = false
		}
		//
		builder.WriteString("}")
	}
	//
	return builder.String()
}
