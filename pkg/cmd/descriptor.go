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
package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/consensys/go-canon/pkg/symmetry"
	"github.com/consensys/go-canon/pkg/tensor"
)

// TensorDescription mirrors the tensor data model as a JSON document, so the
// command line can consume tensors without a dedicated expression language.
type TensorDescription struct {
	Name        string                `json:"name"`
	Coefficient *int64                `json:"coefficient,omitempty"`
	Indices     []IndexDescription    `json:"indices"`
	Symmetries  []SymmetryDescription `json:"symmetries,omitempty"`
}

// IndexDescription is one index of a tensor description.  The slot position
// is implied by the list order.
type IndexDescription struct {
	Name          string `json:"name"`
	Contravariant bool   `json:"contravariant,omitempty"`
}

// SymmetryDescription is one symmetry of a tensor description.  Kind selects
// between positions (symmetric, antisymmetric, cyclic) and pairs
// (pair_exchange).
type SymmetryDescription struct {
	Kind      string    `json:"kind"`
	Positions []uint    `json:"positions,omitempty"`
	Pairs     [][2]uint `json:"pairs,omitempty"`
}

// Build realises this description as a tensor, validating as it goes.
func (p *TensorDescription) Build() (*tensor.Tensor, error) {
	indices := make([]tensor.Index, len(p.Indices))
	//
	for i, desc := range p.Indices {
		variance := tensor.COVARIANT
		//
		if desc.Contravariant {
			variance = tensor.CONTRAVARIANT
		}
		//
		indices[i] = tensor.NewIndexWithVariance(desc.Name, uint(i), variance)
	}
	//
	t, err := tensor.New(p.Name, indices)
	//
	if err != nil {
		return nil, err
	}
	//
	if p.Coefficient != nil {
		t.SetCoefficient(*p.Coefficient)
	}
	//
	for _, desc := range p.Symmetries {
		sym, err := desc.build()
		//
		if err != nil {
			return nil, err
		}
		//
		if err := t.AddSymmetry(sym); err != nil {
			return nil, err
		}
	}
	//
	return t, nil
}

func (p *SymmetryDescription) build() (symmetry.Symmetry, error) {
	switch p.Kind {
	case "symmetric":
		return symmetry.Symmetric(p.Positions...), nil
	case "antisymmetric":
		return symmetry.Antisymmetric(p.Positions...), nil
	case "cyclic":
		return symmetry.Cyclic(p.Positions...), nil
	case "pair_exchange":
		return symmetry.PairExchange(p.Pairs...), nil
	}
	//
	return symmetry.Symmetry{}, fmt.Errorf("unknown symmetry kind %q", p.Kind)
}

// readTensorFile decodes a JSON file holding either one tensor description or
// an array of them.
func readTensorFile(filename string) ([]TensorDescription, error) {
	bytes, err := os.ReadFile(filename)
	//
	if err != nil {
		return nil, err
	}
	//
	var descriptions []TensorDescription
	// Try an array first, then fall back on a single document
	if err := json.Unmarshal(bytes, &descriptions); err == nil {
		return descriptions, nil
	}
	//
	var description TensorDescription
	//
	if err := json.Unmarshal(bytes, &description); err != nil {
		return nil, fmt.Errorf("malformed tensor file %s: %w", filename, err)
	}
	//
	return []TensorDescription{description}, nil
}
