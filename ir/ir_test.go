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

package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegWords(t *testing.T) {
	assert.Equal(t, 1, R(3).Words())
	assert.Equal(t, 4, RW(8, 4).Words())
	assert.Equal(t, 0, Null.Words())
	assert.Equal(t, 0, Imm(7).Words())
	assert.Equal(t, 1, Addr(3).Words())

	/* a region that straddles a register boundary */
	r := Reg{File: F_grf, Nr: 2, Off: 16, Size: RegSize}
	assert.Equal(t, 2, r.Words())
	assert.Equal(t, 2, r.Index())
	assert.Equal(t, 3, r.Word(1).Index())
}

func TestRegString(t *testing.T) {
	assert.Equal(t, "r12", R(12).String())
	assert.Equal(t, "r4:2", RW(4, 2).String())
	assert.Equal(t, "acc1", Acc(1).String())
	assert.Equal(t, "a0.2", Addr(2).String())
	assert.Equal(t, "f0", Flag(0).String())
	assert.Equal(t, "sr0", Arf(ARF_sr0).String())
	assert.Equal(t, "$5", Imm(5).String())
	assert.Equal(t, "null", Null.String())
}

func TestInstrString(t *testing.T) {
	ins := ADD(R(2), R(1), R(1))
	ins.Sched = SWSB{RegDist: 1}
	assert.Equal(t, "add     r2, r1, r1 {@1}", ins.String())

	ins = SEND(R(1), R(20))
	ins.Sched = SWSB{SBID: 3, Mode: SBID_set}
	assert.Equal(t, "send    r1, r20 {$3}", ins.String())

	ins = Sync()
	ins.Sched = SWSB{SBID: 1, Mode: SBID_dst}
	assert.Equal(t, "sync(NoMask) $0 {$1.dst}", ins.String())

	assert.Equal(t, "halt", HALT().String())
}

func TestInstrProperties(t *testing.T) {
	send := SEND(R(1), R(20), Imm(4))
	assert.True(t, send.IsUnordered())
	assert.True(t, send.IsPayload(0))
	assert.False(t, send.IsPayload(1))
	assert.False(t, send.IsPayload(2))

	math := MATH(R(3), R(4))
	assert.True(t, math.IsUnordered())
	assert.True(t, math.IsMath())
	assert.False(t, math.IsPayload(0))

	assert.False(t, MOV(R(1), R(2)).IsUnordered())
	assert.True(t, OP_sync.IsZeroCost())
	assert.True(t, OP_halt_target.IsZeroCost())
	assert.False(t, OP_if.IsZeroCost())
	assert.True(t, OP_while.IsBranch())
	assert.Panics(t, func() { _ = Opcode(0xff).String() })
}

func TestSWSBString(t *testing.T) {
	assert.Equal(t, "", SWSB{}.String())
	assert.True(t, SWSB{}.IsZero())
	assert.Equal(t, "@3 $2.src", SWSB{RegDist: 3, SBID: 2, Mode: SBID_src}.String())
	assert.Equal(t, "$0.set|dst", SWSB{Mode: SBID_set | SBID_dst}.String())
}

func TestBasicBlockInsertBefore(t *testing.T) {
	a, b, c := NOP(), MOV(R(1), R(2)), HALT()
	cfg := new(CFG)
	bb := cfg.AddBlock(a, c)

	bb.InsertBefore(1, b)
	require.Equal(t, []*Instr{a, b, c}, bb.Ins)
	assert.Equal(t, 1, bb.End, "indices are stale until renumbered")

	cfg.Renumber()
	assert.Equal(t, 0, bb.Start)
	assert.Equal(t, 2, bb.End)
	assert.Equal(t, 3, cfg.NumInstr())
	assert.Panics(t, func() { bb.InsertBefore(4, NOP()) })
}

func TestBasicBlockOwnsInstructions(t *testing.T) {
	a, b, c := NOP(), MOV(R(1), R(2)), HALT()
	ins := make([]*Instr, 0, 8)
	ins = append(ins, a, c)

	cfg := new(CFG)
	bb := cfg.AddBlock(ins...)
	bb.InsertBefore(1, b)
	bb.InsertBefore(0, NOP())

	require.Len(t, bb.Ins, 4)
	assert.Equal(t, []*Instr{a, c}, ins)
	assert.Nil(t, ins[:cap(ins)][2], "spare capacity is left alone")
}

func TestGraphBuilder(t *testing.T) {
	cfg := CreateGraphBuilder().
		Add(MOV(R(1), R(2))).
		Add(SEND(R(3), R(4)))
	cfg.Branch(IF(), "else")
	cfg.Add(MOV(R(5), R(1)))
	cfg.Jump(ELSE(), "endif")
	cfg.Label("else")
	cfg.Add(MOV(R(5), R(3)))
	cfg.Label("endif")
	cfg.Add(ENDIF())
	cfg.Halt(HALT())
	g := cfg.Build()

	require.Len(t, g.Blocks, 4)
	assert.Equal(t, []*BasicBlock{g.Blocks[1], g.Blocks[2]}, g.Blocks[0].Succ)
	assert.Equal(t, []*BasicBlock{g.Blocks[3]}, g.Blocks[1].Succ)
	assert.Equal(t, []*BasicBlock{g.Blocks[3]}, g.Blocks[2].Succ)
	assert.Empty(t, g.Blocks[3].Succ)
	assert.Equal(t, 3, g.Blocks[1].Start)
	assert.Equal(t, 7, g.Blocks[3].End)
	require.NoError(t, Validate(g))

	/* the gonum view has the same shape */
	gg := g.Graph()
	assert.Equal(t, 4, gg.Nodes().Len())
	assert.True(t, gg.HasEdgeFromTo(0, 2))
	assert.False(t, gg.HasEdgeFromTo(1, 2))
}

func TestGraphBuilderLoop(t *testing.T) {
	cfg := CreateGraphBuilder()
	cfg.Label("loop")
	cfg.Add(DO(), ADD(R(1), R(1), R(2)))
	cfg.Branch(WHILE(), "loop")
	cfg.Halt(HALT())
	g := cfg.Build()

	require.Len(t, g.Blocks, 2)
	assert.ElementsMatch(t, []*BasicBlock{g.Blocks[0], g.Blocks[1]}, g.Blocks[0].Succ)
	assert.False(t, g.Graph().HasEdgeFromTo(0, 0), "self loops are omitted")
}

func TestGraphBuilderErrors(t *testing.T) {
	assert.Panics(t, func() {
		cfg := CreateGraphBuilder()
		cfg.Jump(JMPI(R(1)), "nowhere")
		cfg.Build()
	})
	assert.Panics(t, func() {
		cfg := CreateGraphBuilder()
		cfg.Add(NOP())
		cfg.Label("x")
		cfg.Label("x")
	})
	assert.Panics(t, func() {
		cfg := CreateGraphBuilder()
		cfg.Halt(HALT())
		cfg.Label("end")
		cfg.Build()
	})
}

func TestValidate(t *testing.T) {
	newcfg := func() *CFG {
		cfg := new(CFG)
		b0 := cfg.AddBlock(MOV(R(1), R(2)))
		b1 := cfg.AddBlock(ADD(R(3), R(1), R(1)))
		cfg.Link(b0, b1)
		return cfg
	}

	/* a valid one */
	require.NoError(t, Validate(newcfg()))

	/* register out of range */
	cfg := newcfg()
	cfg.Blocks[1].Ins[0].Dst = RW(127, 2)
	err := Validate(cfg)
	require.Error(t, err)
	ge, ok := err.(*GraphError)
	require.True(t, ok)
	assert.Equal(t, 1, ge.Block)
	assert.Equal(t, 1, ge.Ip)
	assert.Contains(t, ge.Error(), "out of range")

	/* accumulator out of range */
	cfg = newcfg()
	cfg.Blocks[0].Ins[0].Src[0] = Acc(MaxAcc)
	require.Error(t, Validate(cfg))

	/* stale numbering */
	cfg = newcfg()
	cfg.Blocks[0].InsertBefore(0, NOP())
	require.ErrorContains(t, Validate(cfg), "not renumbered")

	/* asymmetric edge */
	cfg = newcfg()
	cfg.Blocks[1].Succ = append(cfg.Blocks[1].Succ, cfg.Blocks[0])
	err = Validate(cfg)
	require.ErrorContains(t, err, "does not list it as a predecessor")
	assert.Equal(t, -1, err.(*GraphError).Ip)

	/* empty block */
	cfg = newcfg()
	cfg.Blocks[1].Ins = nil
	cfg.Renumber()
	require.ErrorContains(t, Validate(cfg), "empty basic block")
}
