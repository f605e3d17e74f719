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

//go:build linux || freebsd || netbsd || openbsd || dragonfly

package patchpoint

/*
// ARM doesn't automatically invalidate the instruction cache, so manual
// flushing is needed after changing a memory page with executable code.

#include <stdint.h>
#include <stddef.h>
void flush_cache(uint64_t addr, size_t len) {
	char *target = (char *)addr;
	__builtin___clear_cache(target, target + len);
}
*/
import "C"

import (
	"encoding/binary"
	"fmt"
)

// length of an unconditional B instruction
const patchLen = 4

// B with a signed 26-bit word displacement reaches +/-128MiB.
const branchRange = 1 << 27

// encodeJump encodes an unconditional B from addr to target.
func encodeJump(addr, target Address) ([]byte, error) {
	disp := int64(target) - int64(addr)
	if disp%4 != 0 {
		return nil, fmt.Errorf("replacement %s is not word-aligned relative to %s", target, addr)
	}
	if disp >= branchRange || disp < -branchRange {
		return nil, fmt.Errorf("replacement %s is beyond B reach of %s", target, addr)
	}
	word := uint32(0x14000000) | uint32((disp/4)&0x03FFFFFF)
	patch := make([]byte, patchLen)
	binary.NativeEndian.PutUint32(patch, word)
	return patch, nil
}

// auditPatchSite checks the entry is a valid instruction boundary. A64
// instructions are fixed-width, so alignment is the whole audit.
func auditPatchSite(addr Address) error {
	if uintptr(addr)%4 != 0 {
		return fmt.Errorf("entry %s is not 4-byte aligned", addr)
	}
	return nil
}

func flushInstructionCache(addr Address, size int) {
	C.flush_cache(C.uint64_t(uintptr(addr)), C.size_t(size))
}
