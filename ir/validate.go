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

// Validate checks the structural requirements of the scoreboard lowering:
// blocks are non-empty and numbered in program order, edges are symmetric,
// and every register region lies inside the tracked register files.
func Validate(cfg *CFG) error {
    ip := 0
    ids := make(map[*BasicBlock]bool, len(cfg.Blocks))

    /* collect all the blocks */
    for _, bb := range cfg.Blocks {
        ids[bb] = true
    }

    /* check every block */
    for i, bb := range cfg.Blocks {
        if bb.Id != i {
            return eblock(bb, "block id mismatch, expected %d", i)
        }
        if len(bb.Ins) == 0 {
            return eblock(bb, "empty basic block")
        }
        if bb.Start != ip || bb.End != ip + len(bb.Ins) - 1 {
            return eblock(bb, "instruction range [%d, %d] is not renumbered", bb.Start, bb.End)
        }
        if err := validateEdges(bb, ids); err != nil {
            return err
        }

        /* check every instruction */
        for _, v := range bb.Ins {
            if err := validateInstr(bb, ip, v); err != nil {
                return err
            }
            ip++
        }
    }
    return nil
}

func validateEdges(bb *BasicBlock, ids map[*BasicBlock]bool) error {
    for _, p := range bb.Succ {
        if !ids[p] {
            return eblock(bb, "successor is not part of the CFG")
        } else if !hasBlock(p.Pred, bb) {
            return eblock(bb, "successor bb_%d does not list it as a predecessor", p.Id)
        }
    }
    for _, p := range bb.Pred {
        if !ids[p] {
            return eblock(bb, "predecessor is not part of the CFG")
        } else if !hasBlock(p.Succ, bb) {
            return eblock(bb, "predecessor bb_%d does not list it as a successor", p.Id)
        }
    }
    return nil
}

func validateInstr(bb *BasicBlock, ip int, ins *Instr) error {
    if err := validateReg(bb, ip, ins.Dst); err != nil {
        return err
    }
    for _, r := range ins.Src {
        if err := validateReg(bb, ip, r); err != nil {
            return err
        }
    }
    return nil
}

func validateReg(bb *BasicBlock, ip int, r Reg) error {
    switch r.File {
        case F_grf: {
            if r.Index() < 0 || r.Index() + r.Words() > MaxGRF {
                return einstr(bb, ip, "register %s is out of range", r)
            }
        }

        case F_acc: {
            if r.Index() < 0 || r.Index() + r.Words() > MaxAcc {
                return einstr(bb, ip, "accumulator %s is out of range", r)
            }
        }

        case F_bad, F_null, F_imm, F_addr, F_flag, F_arf: {
            break
        }

        default: {
            return einstr(bb, ip, "invalid register file %d", r.File)
        }
    }
    return nil
}

func hasBlock(bbs []*BasicBlock, bb *BasicBlock) bool {
    for _, p := range bbs {
        if p == bb {
            return true
        }
    }
    return false
}
