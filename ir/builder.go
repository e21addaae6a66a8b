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

// GraphBuilder assembles a CFG from a linear instruction stream with labels.
// A new block starts at every label and after every control flow
// instruction added with Branch, Jump or Halt.
type GraphBuilder struct {
    cfg   *CFG
    cur   *BasicBlock
    prev  *BasicBlock
    fall  bool
    refs  map[string]*BasicBlock
    pends map[string][]*BasicBlock
}

func CreateGraphBuilder() *GraphBuilder {
    return &GraphBuilder {
        cfg   : new(CFG),
        refs  : make(map[string]*BasicBlock),
        pends : make(map[string][]*BasicBlock),
    }
}

func (self *GraphBuilder) open() *BasicBlock {
    if self.cur != nil {
        return self.cur
    }

    /* start a new block, linking the previous one if it falls through */
    self.cur = self.cfg.AddBlock()
    if self.prev != nil && self.fall {
        self.cfg.Link(self.prev, self.cur)
    }

    /* the previous block is done */
    self.prev = nil
    return self.cur
}

func (self *GraphBuilder) close(fall bool) {
    self.prev = self.cur
    self.fall = fall
    self.cur  = nil
}

func (self *GraphBuilder) link(to string) {
    if bb, ok := self.refs[to]; ok {
        self.cfg.Link(self.cur, bb)
    } else {
        self.pends[to] = append(self.pends[to], self.cur)
    }
}

// Add appends an instruction to the current block.
func (self *GraphBuilder) Add(ins ...*Instr) *GraphBuilder {
    bb := self.open()
    bb.Ins = append(bb.Ins, ins...)
    return self
}

// Label starts a new block and binds the label to it.
func (self *GraphBuilder) Label(name string) {
    if _, ok := self.refs[name]; ok {
        panic("label " + name + " has already been linked")
    }

    /* terminate the current block if it is not empty */
    if self.cur != nil && len(self.cur.Ins) != 0 {
        self.close(true)
    }

    /* start the labeled block */
    bb := self.open()
    self.refs[name] = bb

    /* patch all the pending jumps */
    for _, p := range self.pends[name] {
        self.cfg.Link(p, bb)
    }

    /* mark the label as resolved */
    delete(self.pends, name)
}

// Branch adds a conditional control flow instruction, which either jumps to
// the label or falls through to the next block.
func (self *GraphBuilder) Branch(ins *Instr, to string) {
    self.Add(ins)
    self.link(to)
    self.close(true)
}

// Jump adds an unconditional control flow instruction.
func (self *GraphBuilder) Jump(ins *Instr, to string) {
    self.Add(ins)
    self.link(to)
    self.close(false)
}

// Halt adds an instruction that ends the program.
func (self *GraphBuilder) Halt(ins *Instr) {
    self.Add(ins)
    self.close(false)
}

// Build finishes the CFG. The builder must not be used afterwards.
func (self *GraphBuilder) Build() *CFG {
    for key := range self.pends {
        panic("labels are not fully resolved: " + key)
    }

    /* a trailing label must not leave an empty block behind */
    for _, bb := range self.cfg.Blocks {
        if len(bb.Ins) == 0 {
            panic("empty basic block at the end of program")
        }
    }

    /* the GraphBuilder's life-time ends here */
    cfg := self.cfg
    cfg.Renumber()
    self.cfg = nil
    return cfg
}
