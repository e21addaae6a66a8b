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
    `context`
    `sync/atomic`

    `github.com/cloudwego/swsb/internal/opts`
    `github.com/cloudwego/swsb/ir`
    `github.com/davecgh/go-spew/spew`
    `tlog.app/go/tlog`
)

var (
    ProgramCount uint64
    InstrCount   uint64
    SyncCount    uint64
    TokenCount   uint64
    StepCount    uint64
)

// _Lowering is the state shared by the lowering stages.
type _Lowering struct {
    o     *opts.Options
    cfg   *ir.CFG
    jps   []int
    deps  []DependencyList
    ntok  int
    syncs int
    steps int
}

type _Stage func(*_Lowering, tlog.Span)

type _StageDescriptor struct {
    stage _Stage
    desc  string
}

var _stages = [...]_StageDescriptor {
    { desc: "Ordered Address Assignment"  , stage: (*_Lowering).addresses },
    { desc: "Dependency Analysis"         , stage: (*_Lowering).analyze },
    { desc: "Token Allocation"            , stage: (*_Lowering).allocate },
    { desc: "Dependency Emission"         , stage: (*_Lowering).emit },
}

func (self *_Lowering) addresses(tr tlog.Span) {
    self.jps = orderedAddresses(self.cfg)
}

func (self *_Lowering) analyze(tr tlog.Span) {
    self.deps, self.steps = gatherInstDependencies(self.cfg, self.jps)
    tr.Printw("dependencies gathered", "steps", self.steps)

    /* dump the dependency lists if requested */
    if tr.If("swsb_dump") {
        tr.Printw("dependency lists", "deps", spew.Sdump(self.deps))
    }
}

func (self *_Lowering) allocate(tr tlog.Span) {
    self.deps, self.ntok = allocateInstDependencies(self.deps, self.o)
    tr.Printw("tokens allocated", "tokens", self.ntok, "allocator", self.o.TokenAlloc)
}

func (self *_Lowering) emit(tr tlog.Span) {
    self.syncs = emitInstDependencies(self.cfg, self.jps, self.deps, self.o)
    tr.Printw("dependencies emitted", "syncs", self.syncs)
}

// Lower resolves every data hazard of the program with software scoreboard
// annotations and SYNC instructions, on targets without a hardware register
// scoreboard. The CFG is modified in place.
func Lower(ctx context.Context, cfg *ir.CFG, o opts.Options) {
    if !o.NeedsScoreboard() {
        return
    }

    /* trace the whole lowering */
    tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "swsb: lower scoreboard", "blocks", len(cfg.Blocks))
    defer tr.Finish()

    /* indices must be consistent before analyzing */
    cfg.Renumber()
    ni := cfg.NumInstr()

    /* execute all the stages */
    st := &_Lowering { o: &o, cfg: cfg }
    for _, s := range _stages {
        runStage(ctx, st, s)
    }

    /* update the counters */
    atomic.AddUint64(&ProgramCount, 1)
    atomic.AddUint64(&InstrCount, uint64(ni))
    atomic.AddUint64(&SyncCount, uint64(st.syncs))
    atomic.AddUint64(&TokenCount, uint64(st.ntok))
    atomic.AddUint64(&StepCount, uint64(st.steps))

    /* dump the final program if requested */
    if tr.If("swsb_dump") {
        tr.Printw("lowered program", "cfg", cfg.String())
    }
}

func runStage(ctx context.Context, st *_Lowering, s _StageDescriptor) {
    tr := tlog.SpawnFromContext(ctx, s.desc)
    defer tr.Finish()
    s.stage(st, tr)
}
