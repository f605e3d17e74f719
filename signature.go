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
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// Address is the entry address of a function in the running process.
type Address uintptr

func (a Address) String() string {
	return fmt.Sprintf("%#x", uintptr(a))
}

// HostPlatform returns the platform tag of the running process,
// e.g. "linux/amd64". Signature platform tags use the same form.
func HostPlatform() string {
	return runtime.GOOS + "/" + runtime.GOARCH
}

/*
Signature locates one function's machine code inside a loaded image. It is a
byte pattern with wildcard positions, authored for exactly one platform, plus
a fixed offset applied to the match before the address is returned. A
Signature is immutable once built.
*/
type Signature struct {
	// Platform is the OS/arch tag the pattern was authored for, in
	// "goos/goarch" form. Resolve refuses to scan on any other platform.
	Platform string
	// Offset is added to the match position to obtain the function entry,
	// for patterns anchored on bytes inside the function body.
	Offset int

	pattern []byte
	mask    []byte // 1 = byte must match, 0 = wildcard
}

// NewSignature builds a Signature from a raw pattern and mask of equal
// length. At least one mask position must be fixed, otherwise the pattern
// would match everywhere.
func NewSignature(platform string, pattern, mask []byte, offset int) (Signature, error) {
	if len(pattern) == 0 || len(pattern) != len(mask) {
		return Signature{}, fmt.Errorf("%w: pattern length %d, mask length %d",
			ErrBadPattern, len(pattern), len(mask))
	}
	fixed := false
	for _, m := range mask {
		if m != 0 {
			fixed = true
			break
		}
	}
	if !fixed {
		return Signature{}, fmt.Errorf("%w: all positions are wildcards", ErrBadPattern)
	}
	sig := Signature{
		Platform: platform,
		Offset:   offset,
		pattern:  append([]byte(nil), pattern...),
		mask:     append([]byte(nil), mask...),
	}
	return sig, nil
}

/*
ParseSignature builds a Signature from one of the two common textual forms:

  - escaped: `\x55\x8B\xEC\x2A\x8B`, where `\x2A` is a wildcard (the
    convention of signature files shipped per game build);
  - spaced hex: `55 8B EC ?? 8B`, where `?` or `??` is a wildcard.

The escaped form cannot express a literal 0x2A byte; use the spaced form for
patterns that need one.
*/
func ParseSignature(platform, text string, offset int) (Signature, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Signature{}, fmt.Errorf("%w: empty pattern text", ErrBadPattern)
	}

	var pattern, mask []byte
	if strings.HasPrefix(text, `\x`) {
		for rest := text; rest != ""; {
			if len(rest) < 4 || rest[0] != '\\' || rest[1] != 'x' {
				return Signature{}, fmt.Errorf("%w: bad escape near %q", ErrBadPattern, rest)
			}
			v, err := strconv.ParseUint(rest[2:4], 16, 8)
			if err != nil {
				return Signature{}, fmt.Errorf("%w: bad hex byte %q", ErrBadPattern, rest[2:4])
			}
			if b := byte(v); b == 0x2A {
				pattern = append(pattern, 0)
				mask = append(mask, 0)
			} else {
				pattern = append(pattern, b)
				mask = append(mask, 1)
			}
			rest = rest[4:]
		}
	} else {
		for _, tok := range strings.Fields(text) {
			switch tok {
			case "?", "??":
				pattern = append(pattern, 0)
				mask = append(mask, 0)
			default:
				v, err := strconv.ParseUint(tok, 16, 8)
				if err != nil || len(tok) != 2 {
					return Signature{}, fmt.Errorf("%w: bad token %q", ErrBadPattern, tok)
				}
				pattern = append(pattern, byte(v))
				mask = append(mask, 1)
			}
		}
	}

	return NewSignature(platform, pattern, mask, offset)
}

// Len returns the pattern length in bytes.
func (s Signature) Len() int {
	return len(s.pattern)
}

/*
Resolve scans the region for the pattern and returns the function entry
address, with the signature's offset already applied. The scan is read-only.

It fails with [ErrPlatformMismatch] when the signature was authored for a
different platform, [ErrSignatureNotFound] on zero matches and
[ErrSignatureAmbiguous] on more than one; a duplicate match is rejected
outright instead of picking the first occurrence.
*/
func (s Signature) Resolve(region Region) (Address, error) {
	if len(s.pattern) == 0 {
		return 0, fmt.Errorf("%w: empty signature", ErrBadPattern)
	}
	if s.Platform != HostPlatform() {
		return 0, fmt.Errorf("%w: signature is for %s, host is %s",
			ErrPlatformMismatch, s.Platform, HostPlatform())
	}

	matches := 0
	pos := -1
	for i := 0; i+len(s.pattern) <= len(region.Code); i++ {
		if s.matchAt(region.Code, i) {
			matches++
			if matches > 1 {
				return 0, fmt.Errorf("%w: at %s and %s", ErrSignatureAmbiguous,
					region.Base+Address(pos), region.Base+Address(i))
			}
			pos = i
		}
	}
	if matches == 0 {
		return 0, fmt.Errorf("%w: %d-byte pattern not in %d-byte region",
			ErrSignatureNotFound, len(s.pattern), len(region.Code))
	}

	entry := pos + s.Offset
	if entry < 0 || entry >= len(region.Code) {
		return 0, fmt.Errorf("%w: offset %d leaves the scanned region",
			ErrSignatureNotFound, s.Offset)
	}
	return region.Base + Address(entry), nil
}

func (s Signature) matchAt(code []byte, at int) bool {
	for j, b := range s.pattern {
		if s.mask[j] != 0 && code[at+j] != b {
			return false
		}
	}
	return true
}

/*
Store is the consumed form of an external signature store: one entry per
platform tag for a single target function. A missing or malformed entry for
the running platform fails exactly like a pattern that does not occur.
*/
type Store map[string]Signature

// ForHost returns the signature authored for the running platform.
func (st Store) ForHost() (Signature, error) {
	sig, ok := st[HostPlatform()]
	if !ok {
		return Signature{}, fmt.Errorf("%w: no entry for platform %s",
			ErrSignatureNotFound, HostPlatform())
	}
	return sig, nil
}
