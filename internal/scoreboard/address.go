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
    `fmt`

    `github.com/cloudwego/swsb/ir`
)

// orderedUnit returns the number of in-order hardware instructions the
// instruction occupies, i.e. how much it advances the RegDist counter of any
// ordered dependency crossing it.
func orderedUnit(ins *ir.Instr) int {
    if ins.Op.IsZeroCost() || ins.IsUnordered() {
        return 0
    } else {
        return 1
    }
}

// orderedAddresses calculates the in-order instruction counter (the "jp") at
// every instruction of the program, for constant-time look-up later on.
func orderedAddresses(cfg *ir.CFG) []int {
    jp := 0
    jps := make([]int, cfg.NumInstr())

    /* the counter is recorded before it gets advanced */
    cfg.ForEachInstr(func(_ *ir.BasicBlock, ip int, ins *ir.Instr) {
        jps[ip] = jp
        jp += orderedUnit(ins)
    })
    return jps
}

// edgeDelta is the shift of ordered addresses for dependencies crossing the
// edge from bb to its successor p: the difference between the address of the
// first instruction of p, and the address right after the end of bb.
func edgeDelta(jps []int, bb *ir.BasicBlock, p *ir.BasicBlock) int {
    if bb.Last() == nil {
        panic(fmt.Sprintf("swsb: empty basic block bb_%d", bb.Id))
    } else if len(p.Ins) == 0 {
        panic(fmt.Sprintf("swsb: empty basic block bb_%d", p.Id))
    } else {
        return jps[p.Start] - jps[bb.End] - orderedUnit(bb.Last())
    }
}
