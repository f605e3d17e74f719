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
	"debug/elf"
	"fmt"
	"io"
	"unsafe"
)

/*
Region is a window of code to scan: the bytes plus the address its first byte
has (or would have) in the process. Signature resolution only ever reads it.
*/
type Region struct {
	Base Address
	Code []byte
}

// RegionAt returns a live view over size bytes of process memory starting at
// base. The view aliases the actual code, it is not a copy.
func RegionAt(base Address, size int) Region {
	return Region{
		Base: base,
		Code: unsafe.Slice((*byte)(unsafe.Pointer(uintptr(base))), size),
	}
}

// TextSection extracts the .text section of an ELF image, with Base set to
// the section's virtual address. Useful for scanning a module file before
// or instead of scanning live memory.
func TextSection(r io.ReaderAt) (Region, error) {
	f, err := elf.NewFile(r)
	if err != nil {
		return Region{}, fmt.Errorf("parse ELF image: %w", err)
	}
	defer f.Close()

	sec := f.Section(".text")
	if sec == nil {
		return Region{}, fmt.Errorf("ELF image has no .text section")
	}
	code, err := sec.Data()
	if err != nil && err != io.EOF {
		return Region{}, fmt.Errorf("read .text section: %w", err)
	}
	return Region{Base: Address(sec.Addr), Code: code}, nil
}
