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

//go:build linux || freebsd || netbsd || openbsd || dragonfly || windows

package patchpoint

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"golang.org/x/arch/x86/x86asm"
)

// length of a near JMP rel32 with operand
const patchLen = 5

const jmpOpcode = uint8(0xE9)

// window inspected when auditing the patch site
const auditWindow = 32

// encodeJump encodes JMP rel32 from addr to target. The displacement is
// relative to the instruction end.
func encodeJump(addr, target Address) ([]byte, error) {
	disp := int64(target) - (int64(addr) + patchLen)
	if disp > math.MaxInt32 || disp < math.MinInt32 {
		return nil, fmt.Errorf("replacement %s is beyond rel32 reach of %s", target, addr)
	}
	patch := make([]byte, patchLen)
	patch[0] = jmpOpcode
	binary.NativeEndian.PutUint32(patch[1:], uint32(int32(disp)))
	return patch, nil
}

// auditPatchSite checks that the bytes about to be clobbered decode as whole
// instructions and that the function does not end inside the patch window.
// Undecodable bytes mean the signature resolved into data or mid-instruction,
// which would corrupt the image on restore.
func auditPatchSite(addr Address) error {
	code := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), auditWindow)
	covered := 0
	for covered < patchLen {
		inst, err := x86asm.Decode(code[covered:], 64)
		if err != nil {
			return fmt.Errorf("undecodable instruction at %s+%d: %v", addr, covered, err)
		}
		if inst.Op == x86asm.RET && covered+inst.Len < patchLen {
			return fmt.Errorf("function at %s is shorter than the %d-byte patch", addr, patchLen)
		}
		covered += inst.Len
	}
	return nil
}

// x86 keeps instruction and data caches coherent, nothing to flush.
func flushInstructionCache(addr Address, size int) {}
