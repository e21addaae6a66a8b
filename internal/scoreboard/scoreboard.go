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

const (
    _S_grf  = 0
    _S_addr = _S_grf + ir.MaxGRF
    _S_acc  = _S_addr + 1
    _S_max  = _S_acc + ir.MaxAcc
)

// slot maps a register word to its scoreboard entry, or -1 if the register
// file is not tracked.
func slot(r ir.Reg) int {
    switch r.File {
        case ir.F_grf: {
            if i := r.Index(); i < 0 || i >= ir.MaxGRF {
                panic(fmt.Sprintf("swsb: register %s out of range", r))
            } else {
                return _S_grf + i
            }
        }

        case ir.F_acc: {
            if i := r.Index(); i < 0 || i >= ir.MaxAcc {
                panic(fmt.Sprintf("swsb: accumulator %s out of range", r))
            } else {
                return _S_acc + i
            }
        }

        case ir.F_addr: {
            return _S_addr
        }

        default: {
            return -1
        }
    }
}

// Scoreboard keeps the most current data dependency of every register
// location, with GRF granularity.
type Scoreboard struct {
    deps [_S_max]Dependency
}

// Get looks up the most current dependency of the location.
func (self *Scoreboard) Get(r ir.Reg) Dependency {
    if i := slot(r); i < 0 {
        return Dependency{}
    } else {
        return self.deps[i]
    }
}

// Set specifies the most current dependency of the location.
func (self *Scoreboard) Set(r ir.Reg, dep Dependency) {
    if i := slot(r); i >= 0 {
        self.deps[i] = dep
    }
}

// merge is the component-wise merge of other into this scoreboard.
func (self *Scoreboard) merge(eq *Equivalence, other *Scoreboard) {
    for i := range self.deps {
        self.deps[i] = merge(eq, self.deps[i], other.deps[i])
    }
}

// shadow is the component-wise shadow of this scoreboard by other.
func (self *Scoreboard) shadow(other *Scoreboard) {
    for i := range self.deps {
        self.deps[i] = shadow(self.deps[i], other.deps[i])
    }
}

// transport is the component-wise transport of this scoreboard.
func (self *Scoreboard) transport(delta int) {
    for i := range self.deps {
        self.deps[i] = transport(self.deps[i], delta)
    }
}

// update accounts for the execution of ins, the ip-th instruction of the
// program, in the scoreboard.
func update(sb *Scoreboard, jps []int, ins *ir.Instr, ip int) {
    execAll := ins.ExecAll

    /* track the sources, reads of zero-cost instructions leave no trace */
    for i, r := range ins.Src {
        var dep Dependency
        if ins.IsPayload(i) || ins.IsMath() {
            dep = unordered(ir.SBID_src, ip, execAll)
        } else if orderedUnit(ins) != 0 {
            dep = ordered(RD_src, jps[ip], execAll)
        } else {
            continue
        }

        /* update every word of the source */
        for j := 0; j < r.Words(); j++ {
            sb.Set(r.Word(j), dep)
        }
    }

    /* track the destination */
    var dep Dependency
    if ins.IsUnordered() {
        dep = unordered(ir.SBID_dst, ip, execAll)
    } else if orderedUnit(ins) != 0 {
        dep = ordered(RD_dst, jps[ip], execAll)
    }

    /* a null destination writes nothing */
    if dep.IsValid() && !ins.Dst.IsNull() {
        for j := 0; j < ins.Dst.Words(); j++ {
            sb.Set(ins.Dst.Word(j), dep)
        }
    }
}
