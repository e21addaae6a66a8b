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

    `github.com/cloudwego/swsb/internal/opts`
    `github.com/cloudwego/swsb/ir`
)

// orderedSWSB builds the annotation for the in-order dependencies in deps of
// an instruction at ordered address jp. Unless execAll is set, dependencies
// executed with NoMask are not considered.
func orderedSWSB(deps DependencyList, jp int, execAll bool, o *opts.Options) ir.SWSB {
    dist := -1
    for _, dep := range deps {
        if dep.Ordered == RD_null || (dep.ExecAll && !execAll) {
            continue
        }

        /* the dependency must come from an earlier instruction */
        if jp <= dep.Jp {
            panic(fmt.Sprintf("swsb: inverted ordered dependency %s at address %d", dep, jp))
        }

        /* anything beyond the maximum distance must have been completed by the hardware */
        if d := jp - dep.Jp; d <= o.MaxRegDist {
            if d > o.RegDistLimit { d = o.RegDistLimit }
            if dist < 0 || d < dist { dist = d }
        }
    }

    /* no in-order dependencies */
    if dist < 0 {
        return ir.SWSB{}
    } else if dist > opts.MaxRegDistLimit {
        panic(fmt.Sprintf("swsb: RegDist %d can not be encoded", dist))
    } else {
        return ir.SWSB { RegDist: uint8(dist) }
    }
}

// encodeToken returns the SBID of an out-of-order dependency, which must be
// one of the tokens of the target.
func encodeToken(dep Dependency, o *opts.Options) uint8 {
    if dep.Id < 0 || dep.Id >= o.TokenCount || dep.Id >= opts.MaxTokenCount {
        panic(fmt.Sprintf("swsb: token of %s out of range for %d tokens", dep, o.TokenCount))
    } else {
        return uint8(dep.Id)
    }
}

func hasOrderedDependency(deps DependencyList, jp int, execAll bool, o *opts.Options) bool {
    return orderedSWSB(deps, jp, execAll, o).RegDist != 0
}

// findUnorderedDependency returns the full mode of the first out-of-order
// dependency matching mode.
func findUnorderedDependency(deps DependencyList, mode ir.SBIDMode, execAll bool) ir.SBIDMode {
    if mode != ir.SBID_null {
        for _, dep := range deps {
            if mode & dep.Unordered != 0 && (execAll || !dep.ExecAll) {
                return dep.Unordered
            }
        }
    }
    return ir.SBID_null
}

// bakedUnorderedMode returns the mode of the out-of-order dependency that can
// be represented in the annotation of ins itself, without an extra SYNC.
func bakedUnorderedMode(ins *ir.Instr, deps DependencyList, jp int, o *opts.Options) ir.SBIDMode {
    execAll := ins.ExecAll
    hasOrdered := hasOrderedDependency(deps, jp, execAll, o)

    /* the token set by this instruction always comes first */
    if m := findUnorderedDependency(deps, ir.SBID_set, execAll); m != ir.SBID_null {
        return m
    }

    /* out-of-order instructions can't wait for both at the same time */
    if hasOrdered && ins.IsUnordered() {
        return ir.SBID_null
    }

    /* destination dependency */
    if m := findUnorderedDependency(deps, ir.SBID_dst, execAll); m != ir.SBID_null {
        return m
    }

    /* source dependency only fits without an in-order one */
    if !hasOrdered {
        return findUnorderedDependency(deps, ir.SBID_src, execAll)
    } else {
        return ir.SBID_null
    }
}

// _Emitter writes the dependencies into the program.
type _Emitter struct {
    o     *opts.Options
    jps   []int
    deps  []DependencyList
    syncs int
}

// emit calculates the annotation of ins, and returns the SYNC instructions
// that must be placed right before it.
func (self *_Emitter) emit(ins *ir.Instr, ip int) (ret []*ir.Instr) {
    jp := self.jps[ip]
    dl := self.deps[ip]
    execAll := ins.ExecAll
    swsb := orderedSWSB(dl, jp, execAll, self.o)
    mode := bakedUnorderedMode(ins, dl, jp, self.o)

    /* out-of-order dependencies */
    for _, dep := range dl {
        if dep.Unordered == ir.SBID_null {
            continue
        }

        /* bake it into the instruction if possible, but not if only the
         * dependency is NoMask, since a block may be executed with all
         * channels disabled */
        if dep.Unordered == mode && (execAll || !dep.ExecAll) && swsb.Mode == ir.SBID_null {
            swsb.SBID = encodeToken(dep, self.o)
            swsb.Mode = dep.Unordered
            continue
        }

        /* a token can only be set by the instruction itself */
        if dep.Unordered & ir.SBID_set != 0 {
            panic(fmt.Sprintf("swsb: cannot move token allocation %s into SYNC", dep))
        }

        /* otherwise wait in a separate SYNC */
        sync := ir.Sync()
        sync.Sched.SBID = encodeToken(dep, self.o)
        sync.Sched.Mode = dep.Unordered
        ret = append(ret, sync)
    }

    /* in-order dependencies executed with NoMask while the instruction is not */
    for _, dep := range dl {
        if dep.Ordered != RD_null && dep.ExecAll && !execAll && hasOrderedDependency(dl, jp, true, self.o) {
            sync := ir.Sync()
            sync.Sched = orderedSWSB(dl, jp, true, self.o)
            ret = append(ret, sync)
            break
        }
    }

    /* the annotation takes over hazard checking entirely */
    ins.Sched = swsb
    ins.NoDDCheck = false
    ins.NoDDClear = false
    self.syncs += len(ret)
    return
}

// emitInstDependencies annotates every instruction, inserting SYNC
// instructions for dependencies that do not fit in the annotation. It
// returns the number of SYNC instructions inserted.
func emitInstDependencies(cfg *ir.CFG, jps []int, deps []DependencyList, o *opts.Options) int {
    ip := 0
    em := &_Emitter {
        o    : o,
        jps  : jps,
        deps : deps,
    }

    /* the inserted instructions are skipped */
    for _, bb := range cfg.Blocks {
        for i := 0; i < len(bb.Ins); i++ {
            if sync := em.emit(bb.Ins[i], ip); len(sync) != 0 {
                bb.InsertBefore(i, sync...)
                i += len(sync)
            }
            ip++
        }
    }

    /* instruction indices are now stale */
    cfg.Renumber()
    return em.syncs
}
