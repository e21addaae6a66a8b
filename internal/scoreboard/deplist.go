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
    `strings`

    `github.com/cloudwego/swsb/ir`
)

// DependencyList is the set of dependencies an instruction must wait for.
type DependencyList []Dependency

func (self DependencyList) String() string {
    buf := make([]string, 0, len(self))
    for _, v := range self { buf = append(buf, v.String()) }
    return "{" + strings.Join(buf, ", ") + "}"
}

// add adds dep to the list, translating its token through ids first, and
// combines it with the existing entries where possible to keep the list
// minimal.
func (self *DependencyList) add(ids []int, dep Dependency) {
    if !dep.IsValid() {
        return
    }

    /* translate the token first */
    if dep.Unordered != ir.SBID_null {
        dep.Id = ids[dep.Id]
    }

    /* try to combine with the existing ones */
    for i := range *self {
        p := &(*self)[i]

        /* an exec_all mismatch must not leak into a SET dependency, it would
         * prevent the SET from being baked into the instruction */
        if p.ExecAll != dep.ExecAll &&
           (!p.ExecAll || dep.Unordered & ir.SBID_set != 0) &&
           (!dep.ExecAll || p.Unordered & ir.SBID_set != 0) {
            continue
        }

        /* in-order dependencies always combine, the latest one wins */
        if dep.Ordered != RD_null && p.Ordered != RD_null {
            p.Jp = maxjp(*p, dep)
            p.Ordered |= dep.Ordered
            p.ExecAll = p.ExecAll || dep.ExecAll
            dep.Ordered = RD_null
        }

        /* out-of-order dependencies combine on the same token */
        if dep.Unordered != ir.SBID_null && p.Unordered != ir.SBID_null && p.Id == dep.Id {
            p.Unordered |= dep.Unordered
            p.ExecAll = p.ExecAll || dep.ExecAll
            dep.Unordered = ir.SBID_null
        }
    }

    /* append what is left */
    if dep.IsValid() {
        *self = append(*self, dep)
    }
}

// gatherInstDependencies replays the program against the globally propagated
// scoreboards, and returns the potential dependencies of every instruction,
// along with the number of propagation steps taken.
func gatherInstDependencies(cfg *ir.CFG, jps []int) ([]DependencyList, int) {
    eq := NewEquivalence(cfg.NumInstr())
    sbs, steps := propagateBlockScoreboards(cfg, jps, eq)

    /* token classes are final from here on */
    ids := eq.Flatten()
    deps := make([]DependencyList, cfg.NumInstr())

    /* replay every instruction */
    cfg.ForEachInstr(func(bb *ir.BasicBlock, ip int, ins *ir.Instr) {
        sb := &sbs[bb.Id]
        dl := &deps[ip]
        execAll := ins.ExecAll

        /* read dependencies */
        for _, r := range ins.Src {
            for j := 0; j < r.Words(); j++ {
                dl.add(ids, forRead(sb.Get(r.Word(j))))
            }
        }

        /* the instruction allocates its own token */
        if ins.IsUnordered() {
            dl.add(ids, unordered(ir.SBID_set, ip, execAll))
        }

        /* write dependencies, unless the generator disabled the check */
        if !ins.NoDDCheck && !ins.Dst.IsNull() {
            for j := 0; j < ins.Dst.Words(); j++ {
                dl.add(ids, forWrite(ins, sb.Get(ins.Dst.Word(j))))
            }
        }

        /* later instructions of the block see this one */
        update(sb, jps, ins, ip)
    })
    return deps, steps
}
