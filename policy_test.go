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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecideFollowsToggle(t *testing.T) {
	enabled := false
	p := NewPolicy(func() bool { return enabled })

	assert.Equal(t, Continue, p.Decide())

	enabled = true
	assert.Equal(t, Suppress, p.Decide())

	// no caching: flipping back changes the very next decision
	enabled = false
	assert.Equal(t, Continue, p.Decide())
}

func TestNewPolicyRejectsNilToggle(t *testing.T) {
	assert.Panics(t, func() { NewPolicy(nil) })
}

func TestDecisionString(t *testing.T) {
	assert.Equal(t, "continue", Continue.String())
	assert.Equal(t, "suppress", Suppress.String())
	assert.Equal(t, "unknown", Decision(42).String())
}
