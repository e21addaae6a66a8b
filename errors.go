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
    `github.com/cloudwego/swsb/ir`
)

// GraphError occures when the CFG handed to Validate is malformed, or refers
// to registers the scoreboard cannot track.
//
// Block is the id of the offending block, and Ip is the program index of the
// offending instruction, or -1 when the whole block is at fault.
type GraphError = ir.GraphError
