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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Identity_01(t *testing.T) {
	t.Parallel()
	//
	id := Identity(4)
	assert.Equal(t, uint(4), id.Degree())
	assert.Equal(t, 1, id.Sign())
	assert.True(t, id.IsIdentity())
	//
	for i := uint(0); i < 4; i++ {
		assert.Equal(t, i, id.Image(i))
	}
}

func Test_New_01(t *testing.T) {
	t.Parallel()
	//
	p, err := New([]uint{1, 0, 2}, -1)
	require.NoError(t, err)
	assert.Equal(t, -1, p.Sign())
	assert.Equal(t, uint(1), p.Image(0))
	assert.Equal(t, uint(0), p.Image(1))
}

func Test_New_02(t *testing.T) {
	t.Parallel()
	// Not a bijection
	_, err := New([]uint{0, 0, 2}, 1)
	assert.Error(t, err)
	// Out of range
	_, err = New([]uint{0, 3}, 1)
	assert.Error(t, err)
	// Bad sign
	_, err = New([]uint{0, 1}, 0)
	assert.Error(t, err)
}

func Test_Compose_01(t *testing.T) {
	t.Parallel()
	//
	p, _ := New([]uint{1, 0, 2}, -1)
	q, _ := New([]uint{0, 2, 1}, -1)
	// Action of the composition on i is p(q(i))
	r, err := Compose(p, q)
	require.NoError(t, err)
	//
	for i := uint(0); i < 3; i++ {
		assert.Equal(t, p.Image(q.Image(i)), r.Image(i))
	}
	// Sign of a composition is the product of signs
	assert.Equal(t, 1, r.Sign())
}

func Test_Compose_02(t *testing.T) {
	t.Parallel()
	// Mismatched degrees must be rejected
	_, err := Compose(Identity(3), Identity(4))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func Test_Inverse_01(t *testing.T) {
	t.Parallel()
	//
	p, _ := New([]uint{2, 0, 1, 3}, -1)
	q := p.Inverse()
	// Sign is preserved under inversion
	assert.Equal(t, -1, q.Sign())
	// Composition either way yields the identity (signs cancel)
	assert.True(t, p.Mul(q).IsIdentity())
	assert.True(t, q.Mul(p).IsIdentity())
}

func Test_Apply_01(t *testing.T) {
	t.Parallel()
	//
	p, _ := New([]uint{2, 0, 1}, 1)
	// b[p(i)] = a[i], hence the item at slot 0 moves to slot 2
	b, err := Apply(p, []string{"x", "y", "z"})
	require.NoError(t, err)
	assert.Equal(t, []string{"y", "z", "x"}, b)
}

func Test_Apply_02(t *testing.T) {
	t.Parallel()
	//
	_, err := Apply(Identity(3), []string{"x", "y"})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func Test_Apply_03(t *testing.T) {
	t.Parallel()
	// Applying a composition equals applying in sequence
	p, _ := New([]uint{1, 2, 0, 3}, 1)
	q, _ := New([]uint{0, 3, 2, 1}, 1)
	items := []string{"a", "b", "c", "d"}
	//
	viaQ, _ := Apply(q, items)
	sequential, _ := Apply(p, viaQ)
	direct, _ := Apply(p.Mul(q), items)
	//
	assert.Equal(t, sequential, direct)
}

func Test_Equal_01(t *testing.T) {
	t.Parallel()
	//
	p, _ := New([]uint{1, 0}, 1)
	q, _ := New([]uint{1, 0}, -1)
	//
	assert.True(t, Equal(p, p))
	assert.False(t, Equal(p, q))
	assert.True(t, Equal(q, p.Negate()))
}

func Test_Moved_01(t *testing.T) {
	t.Parallel()
	//
	p, _ := New([]uint{0, 2, 1, 3}, 1)
	moved := p.Moved()
	//
	assert.False(t, moved.Test(0))
	assert.True(t, moved.Test(1))
	assert.True(t, moved.Test(2))
	assert.False(t, moved.Test(3))
	// The negative identity moves nothing
	assert.True(t, Identity(4).Negate().Moved().None())
}

func Test_String_01(t *testing.T) {
	t.Parallel()
	//
	tests := []struct {
		mapping  []uint
		sign     int
		expected string
	}{
		{[]uint{0, 1, 2}, 1, "id"},
		{[]uint{0, 1, 2}, -1, "-id"},
		{[]uint{1, 0, 2}, 1, "(0 1)"},
		{[]uint{1, 0, 3, 2}, -1, "-(0 1)(2 3)"},
		{[]uint{1, 2, 0}, 1, "(0 1 2)"},
	}
	//
	for _, tt := range tests {
		p, err := New(tt.mapping, tt.sign)
		require.NoError(t, err)
		assert.Equal(t, tt.expected, p.String())
	}
}
