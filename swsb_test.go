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

package swsb

import (
	"context"
	"testing"

	"github.com/cloudwego/swsb/internal/opts"
	"github.com/cloudwego/swsb/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ifElseProgram() *ir.CFG {
	p := ir.CreateGraphBuilder()
	p.Add(ir.SEND(ir.R(30), ir.R(31)))
	p.Branch(ir.IF(), "else")
	p.Add(ir.SEND(ir.R(1), ir.R(20)))
	p.Jump(ir.ELSE(), "endif")
	p.Label("else")
	p.Add(ir.SEND(ir.R(1), ir.R(21)))
	p.Label("endif")
	p.Add(ir.ENDIF(), ir.ADD(ir.R(2), ir.R(1), ir.R(1)))
	p.Halt(ir.HALT())
	return p.Build()
}

func TestLower(t *testing.T) {
	cfg := ifElseProgram()
	require.NoError(t, Validate(cfg))
	require.Same(t, cfg, Lower(context.Background(), cfg))
	require.NoError(t, Validate(cfg))

	/* both branches allocate the same token, which the join point waits for */
	b := cfg.Blocks
	require.Len(t, b, 4)
	assert.Equal(t, ir.SWSB{SBID: 0, Mode: ir.SBID_set}, b[0].Ins[0].Sched)
	assert.Equal(t, ir.SWSB{SBID: 1, Mode: ir.SBID_set}, b[1].Ins[0].Sched)
	assert.Equal(t, ir.SWSB{SBID: 1, Mode: ir.SBID_set}, b[2].Ins[0].Sched)
	assert.Equal(t, ir.SWSB{SBID: 1, Mode: ir.SBID_dst}, b[3].Ins[1].Sched)
	assert.Equal(t, 8, cfg.NumInstr())
}

func TestLowerOptions(t *testing.T) {
	build := func() (*ir.CFG, *ir.Instr) {
		cfg := new(ir.CFG)
		add := ir.ADD(ir.R(2), ir.R(1), ir.R(1))
		cfg.AddBlock(ir.MOV(ir.R(1), ir.R(10)), ir.NOP(), ir.NOP(), ir.NOP(), add)
		return cfg, add
	}

	/* defaults */
	cfg, add := build()
	Lower(context.Background(), cfg)
	assert.Equal(t, ir.SWSB{RegDist: 4}, add.Sched)

	/* saturated */
	cfg, add = build()
	Lower(context.Background(), cfg, WithRegDistLimit(2))
	assert.Equal(t, ir.SWSB{RegDist: 2}, add.Sched)

	/* out of reach */
	cfg, add = build()
	Lower(context.Background(), cfg, WithMaxRegDist(3))
	assert.True(t, add.Sched.IsZero())

	/* hardware scoreboard */
	cfg, add = build()
	Lower(context.Background(), cfg, WithGeneration(9))
	assert.True(t, add.Sched.IsZero())
}

func TestLowerTokenOptions(t *testing.T) {
	build := func() (*ir.CFG, []*ir.Instr) {
		cfg := new(ir.CFG)
		ins := []*ir.Instr{
			ir.SEND(ir.R(1), ir.R(20)),
			ir.SEND(ir.R(2), ir.R(21)),
			ir.MOV(ir.R(5), ir.R(2)),
			ir.SEND(ir.R(3), ir.R(22)),
			ir.ADD(ir.R(4), ir.R(1), ir.R(3)),
		}
		cfg.AddBlock(ins...)
		return cfg, ins
	}

	/* round robin wraps around */
	cfg, ins := build()
	Lower(context.Background(), cfg, WithTokenCount(2))
	assert.Equal(t, uint8(0), ins[3].Sched.SBID)
	assert.Equal(t, 5, cfg.NumInstr())

	/* linear scan reuses the token that is no longer referenced */
	cfg, ins = build()
	Lower(context.Background(), cfg, WithTokenCount(2), WithTokenAllocator("linearscan"))
	assert.Equal(t, uint8(1), ins[3].Sched.SBID)
	assert.Equal(t, 6, cfg.NumInstr())
}

func TestOptionSetters(t *testing.T) {
	o := opts.GetDefaultOptions()
	for _, fn := range []Option{
		WithGeneration(12),
		WithMaxRegDist(8),
		WithRegDistLimit(3),
		WithTokenCount(32),
		WithTokenAllocator("linearscan"),
	} {
		fn(&o)
	}
	assert.Equal(t, opts.Options{
		Generation:   12,
		MaxRegDist:   8,
		RegDistLimit: 3,
		TokenCount:   32,
		TokenAlloc:   opts.LinearScan,
	}, o)

	/* invalid values */
	assert.Panics(t, func() { WithGeneration(0) })
	assert.Panics(t, func() { WithMaxRegDist(-1) })
	assert.Panics(t, func() { WithRegDistLimit(256) })
	assert.Panics(t, func() { WithTokenCount(12) })
	assert.Panics(t, func() { WithTokenCount(512) })
	assert.Panics(t, func() { WithTokenAllocator("graphcoloring") })
}

func TestValidate(t *testing.T) {
	cfg := new(ir.CFG)
	cfg.AddBlock(ir.MOV(ir.R(ir.MaxGRF), ir.R(0)))

	err := Validate(cfg)
	require.Error(t, err)
	require.ErrorContains(t, err, "validate cfg")

	var ge *GraphError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, 0, ge.Block)
	assert.Equal(t, 0, ge.Ip)
}
