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
	"unsafe"

	"golang.org/x/sys/windows"
)

// writeText writes buf over executable code at ptr. The affected pages are
// left writable so the prologue can be swapped again on every bypassed call
// and on uninstall.
func writeText(ptr unsafe.Pointer, buf []byte) error {
	if err := makeMemRWX(ptr, len(buf)); err != nil {
		return err
	}
	text := unsafe.Slice((*uint8)(ptr), len(buf))
	copy(text, buf)
	return nil
}

func makeMemRWX(ptr unsafe.Pointer, size int) error {
	var oldPerms uint32
	return windows.VirtualProtect(
		uintptr(ptr),
		uintptr(size),
		windows.PAGE_EXECUTE_READWRITE,
		&oldPerms)
}
