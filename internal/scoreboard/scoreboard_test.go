/*
 * Copyright 2024 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package scoreboard

import (
	"testing"

	"github.com/cloudwego/swsb/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreboardSlots(t *testing.T) {
	var sb Scoreboard
	dep := ordered(RD_dst, 1, false)

	/* all address registers share a single location */
	sb.Set(ir.Addr(1), dep)
	assert.Equal(t, dep, sb.Get(ir.Addr(3)))

	/* untracked files */
	sb.Set(ir.Flag(0), dep)
	sb.Set(ir.Arf(ir.ARF_sr0), dep)
	sb.Set(ir.Null, dep)
	assert.False(t, sb.Get(ir.Flag(0)).IsValid())
	assert.False(t, sb.Get(ir.Arf(ir.ARF_sr0)).IsValid())
	assert.False(t, sb.Get(ir.Imm(1)).IsValid())

	/* accumulators are distinct from the GRF */
	sb.Set(ir.Acc(2), dep)
	assert.Equal(t, dep, sb.Get(ir.Acc(2)))
	assert.False(t, sb.Get(ir.R(2)).IsValid())

	/* nothing else is recorded */
	n := 0
	for _, v := range sb.deps {
		if v.IsValid() {
			n++
		}
	}
	assert.Equal(t, 2, n)

	/* out of range */
	assert.Panics(t, func() { sb.Get(ir.R(ir.MaxGRF)) })
	assert.Panics(t, func() { sb.Set(ir.Acc(ir.MaxAcc), dep) })
}

func TestScoreboardUpdate(t *testing.T) {
	var sb Scoreboard
	prog := []*ir.Instr{
		ir.SEND(ir.RW(10, 2), ir.RW(20, 2)),
		ir.MOV(ir.R(1), ir.R(2)).NoMask(),
		ir.MATH(ir.R(6), ir.R(7)),
		{Op: ir.OP_fence, Dst: ir.Null, Src: []ir.Reg{ir.R(1)}},
		ir.UNDEF(ir.R(5)),
		ir.MOV(ir.Null, ir.R(8)),
	}

	/* replay the whole program */
	jps := []int{0, 0, 1, 1, 1, 1}
	for ip, ins := range prog {
		update(&sb, jps, ins, ip)
	}

	/* message payload and destination */
	for _, r := range []ir.Reg{ir.R(20), ir.R(21)} {
		assert.Equal(t, unordered(ir.SBID_src, 0, false), sb.Get(r))
	}
	for _, r := range []ir.Reg{ir.R(10), ir.R(11)} {
		assert.Equal(t, unordered(ir.SBID_dst, 0, false), sb.Get(r))
	}

	/* in-order instruction */
	assert.Equal(t, ordered(RD_src, 0, true), sb.Get(ir.R(2)))

	/* extended math reads its sources asynchronously */
	assert.Equal(t, unordered(ir.SBID_src, 2, false), sb.Get(ir.R(7)))
	assert.Equal(t, unordered(ir.SBID_dst, 2, false), sb.Get(ir.R(6)))

	/* zero-cost instructions neither read nor write anything */
	assert.Equal(t, ordered(RD_dst, 0, true), sb.Get(ir.R(1)))
	assert.False(t, sb.Get(ir.R(5)).IsValid())

	/* null destinations write nothing */
	assert.Equal(t, ordered(RD_src, 1, false), sb.Get(ir.R(8)))
	assert.False(t, sb.Get(ir.R(0)).IsValid())
}

func TestScoreboardComponentWise(t *testing.T) {
	var s0, s1 Scoreboard
	eq := NewEquivalence(8)

	s0.Set(ir.R(1), ordered(RD_dst, 4, false))
	s0.Set(ir.R(2), unordered(ir.SBID_dst, 3, false))
	s1.Set(ir.R(2), unordered(ir.SBID_dst, 5, false))
	s1.Set(ir.R(3), ordered(RD_src, 2, false))

	/* merge */
	m := s0
	m.merge(eq, &s1)
	assert.Equal(t, ordered(RD_dst, 4, false), m.Get(ir.R(1)))
	assert.Equal(t, unordered(ir.SBID_dst, 3, false), m.Get(ir.R(2)))
	assert.Equal(t, ordered(RD_src, 2, false), m.Get(ir.R(3)))
	assert.Equal(t, 3, eq.Lookup(5))

	/* shadow */
	s := s0
	s.shadow(&s1)
	assert.Equal(t, ordered(RD_dst, 4, false), s.Get(ir.R(1)))
	assert.Equal(t, unordered(ir.SBID_dst, 5, false), s.Get(ir.R(2)))

	/* transport */
	s.transport(-2)
	assert.Equal(t, ordered(RD_dst, 2, false), s.Get(ir.R(1)))
	assert.Equal(t, ordered(RD_src, 0, false), s.Get(ir.R(3)))
	assert.Equal(t, unordered(ir.SBID_dst, 5, false), s.Get(ir.R(2)))
	require.NotEqual(t, s0, s)
}
