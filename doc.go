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

/*
Package patchpoint intercepts exactly one native function inside the running
process. The function is located at load time by scanning a code region for a
byte-pattern signature (with wildcard positions), its prologue is rewritten to
branch into a replacement callback, and on every call the callback consults a
runtime toggle to decide whether the original body runs or the call becomes a
no-op. The detour can be torn down, restoring the exact pre-install bytes.

# Platforms supported

This package modifies executable code of the running process at runtime,
therefore is OS- and CPU arch-specific.

Supported OS/arch combinations:

  - Linux / x86-64
  - Linux / ARM64
  - FreeBSD, NetBSD, OpenBSD, DragonFly / x86-64 and ARM64
  - Windows / x86-64

# The concept

Three pieces cooperate, wired together by a [Controller]:

  - A [Signature] carries a platform tag, a byte pattern with wildcards and a
    fixed post-match offset. [Signature.Resolve] scans a [Region] and yields
    the entry [Address] of the target function. Zero matches or more than one
    match fail resolution; a duplicate is never silently picked.
  - [Install] saves the target's prologue bytes and overwrites them with an
    unconditional branch to the replacement. [Handle.Original] puts the saved
    bytes back for the duration of one call so the replacement can run the
    genuine body ("continue"); returning from the replacement without calling
    it is the conforming no-op ("suppress"). [Handle.Uninstall] restores the
    saved bytes permanently.
  - A [Policy] maps the current state of an externally owned boolean toggle
    to a [Decision]. The toggle is re-read on every call, so flipping it
    takes effect on the very next invocation with no reinstall.

The [Controller] drives resolve -> install on [Controller.OnLoad] and
uninstall on [Controller.OnUnload]. Any load-stage failure is fatal to the
whole feature: the controller moves to the Failed state and no partially
installed detour is left behind.

# Constraints

The replacement must be an ordinary top-level function with the exact
signature of the target. It must not be a capturing closure: the detour
branches straight to its machine code, and a closure's captured variables
would not be wired up. State the replacement needs (the controller, the
handle) has to live in package-level variables.

The package assumes the single-threaded cooperative model of the host: the
replacement runs synchronously on whichever thread calls the target, the
package spawns no goroutines and holds no locks, and [Handle.Original] must
not be re-entered from within the call it wraps.

It is recommended to switch off function inlining for binaries that hook
their own functions, using the `-gcflags="all=-l"` CLI option, so that every
call site of the target really goes through the patched entry:

	go test -gcflags="all=-l" [<path>]

Typical use:

	var ctrl *patchpoint.Controller

	// top-level, no captures; same signature as the target
	func kickDetour(c *Camera, pitch, yaw float64) {
	    if ctrl.Decide() == patchpoint.Suppress {
	        return
	    }
	    ctrl.Original(func() { ApplyKick(c, pitch, yaw) })
	}

	func onLoad() error {
	    toggle, err := patchpoint.EnvToggle("RECOIL_")
	    if err != nil {
	        return err
	    }
	    ctrl, err = patchpoint.NewController(patchpoint.Config{
	        Signatures:  signatures, // per-platform signature store
	        Image:       codeRegion,
	        Replacement: kickDetour,
	        Toggle:      toggle,
	    })
	    if err != nil {
	        return err
	    }
	    return ctrl.OnLoad()
	}

	func onUnload() error { return ctrl.OnUnload() }
*/
package patchpoint
