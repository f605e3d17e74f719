// This file is part of Patchpoint project, available at https://github.com/almkvist/patchpoint
// Copyright (c) 2025-2026 Patchpoint authors. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at https://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package patchpoint

// Decision is the outcome of consulting the interception policy for one call.
type Decision int

const (
	// Continue lets the original function body run exactly as if undetoured.
	Continue Decision = iota
	// Suppress skips the original body; the call returns to its caller with
	// the conforming no-op outcome and none of the original side effects.
	Suppress
)

func (d Decision) String() string {
	switch d {
	case Continue:
		return "continue"
	case Suppress:
		return "suppress"
	}
	return "unknown"
}

// Toggle is the read accessor for the externally owned boolean setting. The
// policy calls it on every decision and never writes through it; any write
// synchronisation is the owner's business.
type Toggle func() bool

/*
Policy is the pure interception decision: Suppress iff the toggle reads true
at the moment of the call. It keeps no state and caches nothing, so flipping
the toggle changes the outcome of the very next call.
*/
type Policy struct {
	enabled Toggle
}

// NewPolicy builds a Policy around the given read accessor.
// It panics on a nil accessor.
func NewPolicy(read Toggle) *Policy {
	if read == nil {
		panic("NewPolicy called with nil toggle")
	}
	return &Policy{enabled: read}
}

// Decide re-reads the toggle and maps it to a Decision.
func (p *Policy) Decide() Decision {
	if p.enabled() {
		return Suppress
	}
	return Continue
}
