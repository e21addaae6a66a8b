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
    `sort`

    `github.com/cloudwego/swsb/ir`
    `gonum.org/v1/gonum/graph`
    `gonum.org/v1/gonum/graph/topo`
)

// blockOrder sorts the blocks so that every strongly connected component of
// the CFG comes after the components it can be reached from, which makes the
// propagation converge with fewer steps. Blocks within a component keep their
// program order.
func blockOrder(cfg *ir.CFG) []*ir.BasicBlock {
    sccs := topo.TarjanSCC(cfg.Graph())
    ret := make([]*ir.BasicBlock, 0, len(cfg.Blocks))

    /* TarjanSCC returns the components in reverse topological order */
    for i := len(sccs) - 1; i >= 0; i-- {
        ret = append(ret, sccblocks(cfg, sccs[i])...)
    }
    return ret
}

func sccblocks(cfg *ir.CFG, scc []graph.Node) []*ir.BasicBlock {
    ret := make([]*ir.BasicBlock, 0, len(scc))
    for _, nd := range scc { ret = append(ret, cfg.Blocks[nd.ID()]) }
    sort.Slice(ret, func(i int, j int) bool { return ret[i].Id < ret[j].Id })
    return ret
}
