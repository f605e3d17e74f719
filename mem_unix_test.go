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

//go:build linux || dragonfly || freebsd || netbsd || openbsd

package patchpoint

import (
	"os"
	"testing"
	"unsafe"
)

func TestPageBoundsSinglePage(t *testing.T) {
	ptr, size := pageBounds(unsafe.Pointer(uintptr(0x10)), 0x10)
	if ptr != unsafe.Pointer(uintptr(0x00)) {
		t.Error("incorrect page start")
	}
	if size != 32 {
		t.Errorf("expected %x, got %x as area size", 32, size)
	}
}

func TestPageBoundsEndOfPage(t *testing.T) {
	pageSize := uintptr(os.Getpagesize())

	ptr, size := pageBounds(unsafe.Pointer(pageSize-uintptr(0x10)), 0x10)
	if ptr != unsafe.Pointer(uintptr(0x00)) {
		t.Error("incorrect page start")
	}
	if size != pageSize {
		t.Errorf("expected %x, got %x as area size", pageSize, size)
	}
}

func TestPageBoundsSpansTwoPages(t *testing.T) {
	pageSize := uintptr(os.Getpagesize())

	ptr, size := pageBounds(unsafe.Pointer(pageSize-0x4), 0x10)
	if ptr != unsafe.Pointer(uintptr(0x00)) {
		t.Error("incorrect page start")
	}
	expected := pageSize + 0x10 - 0x4
	if size != expected {
		t.Errorf("expected %x, got %x as area size", expected, size)
	}
}
