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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEscapedForm(t *testing.T) {
	sig, err := ParseSignature(HostPlatform(), `\x55\x8B\xEC\x2A\x8B`, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, sig.Len())

	region := Region{Base: 0x1000, Code: []byte{0x90, 0x55, 0x8B, 0xEC, 0x77, 0x8B, 0x90}}
	addr, err := sig.Resolve(region)
	require.NoError(t, err)
	assert.Equal(t, Address(0x1001), addr)
}

func TestParseSpacedForm(t *testing.T) {
	sig, err := ParseSignature(HostPlatform(), "55 8b ec ?? 8B", 0)
	require.NoError(t, err)
	assert.Equal(t, 5, sig.Len())

	region := Region{Base: 0x1000, Code: []byte{0x55, 0x8B, 0xEC, 0x00, 0x8B}}
	addr, err := sig.Resolve(region)
	require.NoError(t, err)
	assert.Equal(t, Address(0x1000), addr)
}

func TestParseRejectsMalformedText(t *testing.T) {
	for _, text := range []string{
		"",
		`\x5`,
		`\x55\xZZ`,
		"55 8B banana",
		"123 45",
		"?? ?? ??",
	} {
		_, err := ParseSignature(HostPlatform(), text, 0)
		assert.ErrorIs(t, err, ErrBadPattern, "text %q", text)
	}
}

func TestNewSignatureValidation(t *testing.T) {
	_, err := NewSignature(HostPlatform(), []byte{1, 2}, []byte{1}, 0)
	assert.ErrorIs(t, err, ErrBadPattern)

	_, err = NewSignature(HostPlatform(), nil, nil, 0)
	assert.ErrorIs(t, err, ErrBadPattern)

	_, err = NewSignature(HostPlatform(), []byte{1, 2}, []byte{0, 0}, 0)
	assert.ErrorIs(t, err, ErrBadPattern)
}

func TestResolveAppliesOffset(t *testing.T) {
	// pattern anchored two bytes past the function entry
	sig, err := ParseSignature(HostPlatform(), "EC 5D", -2)
	require.NoError(t, err)

	region := Region{Base: 0x4000, Code: []byte{0x55, 0x8B, 0xEC, 0x5D, 0xC3}}
	addr, err := sig.Resolve(region)
	require.NoError(t, err)
	assert.Equal(t, Address(0x4000), addr)
}

func TestResolveWildcardsSkipComparison(t *testing.T) {
	sig, err := ParseSignature(HostPlatform(), "AA ?? BB", 0)
	require.NoError(t, err)

	for _, middle := range []byte{0x00, 0x7F, 0xFF} {
		region := Region{Base: 0x100, Code: []byte{0xAA, middle, 0xBB}}
		addr, err := sig.Resolve(region)
		require.NoError(t, err)
		assert.Equal(t, Address(0x100), addr)
	}
}

func TestResolveNotFound(t *testing.T) {
	sig, err := ParseSignature(HostPlatform(), "DE AD BE EF", 0)
	require.NoError(t, err)

	region := Region{Base: 0x2000, Code: make([]byte, 64)}
	_, err = sig.Resolve(region)
	assert.ErrorIs(t, err, ErrSignatureNotFound)
}

func TestResolveRejectsAmbiguousMatch(t *testing.T) {
	sig, err := ParseSignature(HostPlatform(), "DE AD", 0)
	require.NoError(t, err)

	region := Region{Base: 0x2000, Code: []byte{0xDE, 0xAD, 0x00, 0xDE, 0xAD}}
	_, err = sig.Resolve(region)
	assert.ErrorIs(t, err, ErrSignatureAmbiguous)
}

func TestResolveRejectsForeignPlatform(t *testing.T) {
	sig, err := ParseSignature("plan9/mips", "DE AD", 0)
	require.NoError(t, err)

	region := Region{Base: 0x2000, Code: []byte{0xDE, 0xAD}}
	_, err = sig.Resolve(region)
	assert.ErrorIs(t, err, ErrPlatformMismatch)
}

func TestResolveOffsetOutsideRegion(t *testing.T) {
	sig, err := ParseSignature(HostPlatform(), "DE AD", 40)
	require.NoError(t, err)

	region := Region{Base: 0x2000, Code: []byte{0xDE, 0xAD, 0x00}}
	_, err = sig.Resolve(region)
	assert.ErrorIs(t, err, ErrSignatureNotFound)
}

func TestStoreForHost(t *testing.T) {
	sig, err := ParseSignature(HostPlatform(), "DE AD", 0)
	require.NoError(t, err)

	st := Store{HostPlatform(): sig}
	got, err := st.ForHost()
	require.NoError(t, err)
	assert.Equal(t, sig.Platform, got.Platform)

	_, err = Store{"plan9/mips": sig}.ForHost()
	assert.ErrorIs(t, err, ErrSignatureNotFound)
}
