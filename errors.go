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

import "errors"

var (
	// ErrSignatureNotFound means the byte pattern does not occur in the
	// scanned region, or the signature store has no entry for this platform.
	ErrSignatureNotFound = errors.New("signature not found")
	// ErrSignatureAmbiguous means the pattern occurred more than once; an
	// ambiguous match is rejected rather than resolved by a tie-break.
	ErrSignatureAmbiguous = errors.New("signature matches more than once")
	// ErrBadPattern means the signature text or pattern/mask pair is malformed.
	ErrBadPattern = errors.New("malformed signature pattern")
	// ErrPlatformMismatch means the signature was authored for a different
	// OS/arch than the running one.
	ErrPlatformMismatch = errors.New("signature platform does not match host")
	// ErrAlreadyInstalled means a detour is already installed at the address.
	ErrAlreadyInstalled = errors.New("detour already installed")
	// ErrDetourInstall means the prologue could not be patched.
	ErrDetourInstall = errors.New("detour install failed")
	// ErrDetourUninstall means the saved prologue could not be written back.
	ErrDetourUninstall = errors.New("detour uninstall failed")
	// ErrNotFunction means a func value was expected.
	ErrNotFunction = errors.New("not a function")
	// ErrTypeMismatch means target and replacement signatures differ.
	ErrTypeMismatch = errors.New("target and replacement are of different type")
	// ErrBadState means a lifecycle hook was called out of order.
	ErrBadState = errors.New("operation not valid in current state")
)
