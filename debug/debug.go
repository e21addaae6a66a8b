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

package debug

import (
	"sync/atomic"

	"github.com/cloudwego/swsb/internal/scoreboard"
)

// A Stats records statistics about the scoreboard lowering.
type Stats struct {
	Programs     int
	Instructions int
	Syncs        int
	Tokens       int
	Steps        int
}

// GetStats returns statistics of the scoreboard lowering.
func GetStats() Stats {
	return Stats{
		Programs:     int(atomic.LoadUint64(&scoreboard.ProgramCount)),
		Instructions: int(atomic.LoadUint64(&scoreboard.InstrCount)),
		Syncs:        int(atomic.LoadUint64(&scoreboard.SyncCount)),
		Tokens:       int(atomic.LoadUint64(&scoreboard.TokenCount)),
		Steps:        int(atomic.LoadUint64(&scoreboard.StepCount)),
	}
}
