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

//go:build ((linux || freebsd || netbsd || openbsd || dragonfly) && (amd64 || arm64)) || (windows && amd64)

package patchpoint

import (
	"fmt"
	"reflect"
	"unsafe"
)

/*
Handle represents one installed detour. It owns the relationship between the
original function entry and the replacement: the saved prologue bytes and the
branch that replaced them. Exactly one Handle may exist per target address.

A Handle is either installed or uninstalled. Uninstalling puts the exact
pre-install bytes back, so subsequent calls behave identically to a process
that was never hooked; uninstalling twice is a no-op.
*/
type Handle struct {
	addr       Address
	saved      []byte
	patch      []byte
	installed  bool
	inOriginal bool
}

// detours tracks installed handles by target address. Access is
// single-threaded by the package contract, no lock is taken.
var detours = make(map[Address]*Handle)

/*
Install rewrites the prologue at addr with a branch to replacement, so every
invocation of the target transfers control to the replacement before any of
the original body executes. It fails with [ErrAlreadyInstalled] when a handle
is already installed for addr, and with [ErrDetourInstall] when the patch
site cannot be audited, encoded or written; a failed install writes nothing.
*/
func Install(addr, replacement Address) (*Handle, error) {
	if _, ok := detours[addr]; ok {
		return nil, fmt.Errorf("%w: at %s", ErrAlreadyInstalled, addr)
	}

	if err := auditPatchSite(addr); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetourInstall, err)
	}
	patch, err := encodeJump(addr, replacement)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetourInstall, err)
	}

	prologue := unsafe.Slice((*byte)(unsafe.Pointer(uintptr(addr))), len(patch))
	saved := make([]byte, len(patch))
	copy(saved, prologue)

	if err := writeText(unsafe.Pointer(uintptr(addr)), patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetourInstall, err)
	}
	flushInstructionCache(addr, len(patch))

	h := &Handle{addr: addr, saved: saved, patch: patch, installed: true}
	detours[addr] = h
	return h, nil
}

/*
InterceptFunc installs a detour from the target Go function to the
replacement. Both must be func values of exactly the same type, and the
replacement must not be a capturing closure (see the package documentation).
*/
func InterceptFunc(target, replacement any) (*Handle, error) {
	vt := reflect.ValueOf(target)
	vr := reflect.ValueOf(replacement)
	if vt.Kind() != reflect.Func || vr.Kind() != reflect.Func {
		return nil, ErrNotFunction
	}
	if vt.Type() != vr.Type() {
		return nil, fmt.Errorf("%w: %s vs %s", ErrTypeMismatch, vt.Type(), vr.Type())
	}
	return Install(Address(vt.Pointer()), Address(vr.Pointer()))
}

// FuncEntry returns the entry address of a func value.
// It panics when fn is not a function.
func FuncEntry(fn any) Address {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func {
		panic("FuncEntry called with a non-function value")
	}
	return Address(v.Pointer())
}

// Addr returns the patched target address.
func (h *Handle) Addr() Address {
	return h.addr
}

// Installed reports whether the detour is currently in place.
func (h *Handle) Installed() bool {
	return h != nil && h.installed
}

/*
Uninstall restores the exact saved prologue bytes and releases the address
for future installs. On an already-uninstalled handle it is a no-op. A write
failure is reported as [ErrDetourUninstall] and leaves the handle installed,
since a half-removed redirect must be escalated, not ignored.
*/
func (h *Handle) Uninstall() error {
	if h == nil || !h.installed {
		return nil
	}
	if err := writeText(unsafe.Pointer(uintptr(h.addr)), h.saved); err != nil {
		return fmt.Errorf("%w: %v", ErrDetourUninstall, err)
	}
	flushInstructionCache(h.addr, len(h.saved))
	h.installed = false
	delete(detours, h.addr)
	return nil
}

/*
Original runs call with the detour temporarily removed, so a call to the
target from within it executes the genuine function body with all original
effects. The detour is back in place when Original returns, also on panic.

Original must only be entered from the replacement, once per interception;
re-entering it from within call would double-apply the policy, so it panics.
On an uninstalled handle the wrapped call runs directly.
*/
func (h *Handle) Original(call func()) {
	if h == nil || !h.installed {
		call()
		return
	}
	if h.inOriginal {
		panic("patchpoint: Original re-entered from within the intercepted call")
	}
	h.inOriginal = true

	if err := writeText(unsafe.Pointer(uintptr(h.addr)), h.saved); err != nil {
		h.inOriginal = false
		panic(fmt.Sprintf("patchpoint: cannot restore prologue at %s: %v", h.addr, err))
	}
	flushInstructionCache(h.addr, len(h.saved))

	defer func() {
		if err := writeText(unsafe.Pointer(uintptr(h.addr)), h.patch); err != nil {
			panic(fmt.Sprintf("patchpoint: cannot re-install detour at %s: %v", h.addr, err))
		}
		flushInstructionCache(h.addr, len(h.patch))
		h.inOriginal = false
	}()
	call()
}
