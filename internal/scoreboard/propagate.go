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
    `github.com/cloudwego/swsb/ir`
    `github.com/oleiade/lane`
)

// gatherBlockScoreboards calculates the dependencies each block leaves
// behind on its own, as if it was entered with an empty scoreboard.
func gatherBlockScoreboards(cfg *ir.CFG, jps []int) []Scoreboard {
    sbs := make([]Scoreboard, len(cfg.Blocks))
    cfg.ForEachInstr(func(bb *ir.BasicBlock, ip int, ins *ir.Instr) {
        update(&sbs[bb.Id], jps, ins, ip)
    })
    return sbs
}

// _Propagator propagates data dependencies through the CFG until a fixed
// point is reached.
type _Propagator struct {
    cfg   *ir.CFG
    jps   []int
    eq    *Equivalence
    in    []Scoreboard
    out   []Scoreboard
    delta []Scoreboard
    steps int
}

func newPropagator(cfg *ir.CFG, jps []int, eq *Equivalence) *_Propagator {
    return &_Propagator {
        cfg   : cfg,
        jps   : jps,
        eq    : eq,
        in    : make([]Scoreboard, len(cfg.Blocks)),
        out   : make([]Scoreboard, len(cfg.Blocks)),
        delta : gatherBlockScoreboards(cfg, jps),
    }
}

// step recalculates the output scoreboard of bb, and merges it into every
// successor if it has changed. It returns whether any progress was made.
func (self *_Propagator) step(bb *ir.BasicBlock) bool {
    sb := self.in[bb.Id]
    sb.shadow(&self.delta[bb.Id])
    self.steps++

    /* nothing changed */
    if sb == self.out[bb.Id] {
        return false
    }

    /* merge into all the successors */
    for _, p := range bb.Succ {
        tr := sb
        tr.transport(edgeDelta(self.jps, bb, p))
        self.in[p.Id].merge(self.eq, &tr)
    }

    /* update the output scoreboard */
    self.out[bb.Id] = sb
    return true
}

// run iterates the blocks with a worklist until no output scoreboard
// changes. It returns the number of blocks whose output changed.
func (self *_Propagator) run() (nb int) {
    q := lane.NewQueue()
    queued := make([]bool, len(self.cfg.Blocks))

    /* start with every block */
    for _, bb := range blockOrder(self.cfg) {
        q.Enqueue(bb)
        queued[bb.Id] = true
    }

    /* loop until the worklist is drained */
    for !q.Empty() {
        bb := q.Dequeue().(*ir.BasicBlock)
        queued[bb.Id] = false

        /* only successors of a changed block need to be revisited */
        if !self.step(bb) {
            continue
        }

        /* add the successors to the worklist */
        nb++
        for _, p := range bb.Succ {
            if !queued[p.Id] {
                q.Enqueue(p)
                queued[p.Id] = true
            }
        }
    }
    return
}

// propagateBlockScoreboards calculates the dependencies potentially pending
// at the beginning of every block.
func propagateBlockScoreboards(cfg *ir.CFG, jps []int, eq *Equivalence) ([]Scoreboard, int) {
    pp := newPropagator(cfg, jps, eq)
    pp.run()
    return pp.in, pp.steps
}
