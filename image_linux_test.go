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
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the test binary itself is an ELF image with a .text section
func TestTextSectionOfOwnBinary(t *testing.T) {
	f, err := os.Open(os.Args[0])
	require.NoError(t, err)
	defer f.Close()

	region, err := TextSection(f)
	require.NoError(t, err)
	assert.NotZero(t, region.Base)
	assert.NotEmpty(t, region.Code)
}

func TestTextSectionRejectsNonELF(t *testing.T) {
	_, err := TextSection(bytes.NewReader([]byte("not an elf image at all")))
	assert.Error(t, err)
}
