// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package huffman

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flatAlphabet builds the credential alphabet: a-z A-Z 0-9, frequency 1.
func flatAlphabet() map[byte]int {
	freqs := make(map[byte]int)
	for _, r := range "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" {
		freqs[byte(r)] = 1
	}
	return freqs
}

func TestBuildTable_PrefixFree(t *testing.T) {
	tables := []map[byte]int{
		flatAlphabet(),
		{'a': 5, 'b': 2, 'c': 1, 'd': 1},
		{'x': 1, 'y': 1},
		{'e': 100, 't': 90, 'a': 80, 'o': 75, 'i': 70, 'n': 65, 'q': 1},
	}
	for _, freqs := range tables {
		tbl, err := BuildTable(freqs)
		require.NoError(t, err)
		require.Equal(t, len(freqs), tbl.Len())

		for a := range freqs {
			for b := range freqs {
				if a == b {
					continue
				}
				ca, _ := tbl.Code(a)
				cb, _ := tbl.Code(b)
				assert.False(t, strings.HasPrefix(cb, ca),
					"code %q (%c) is a prefix of %q (%c)", ca, a, cb, b)
			}
		}
	}
}

func TestBuildTable_Deterministic(t *testing.T) {
	// Equal frequencies everywhere: table must not depend on map order.
	first, err := BuildTable(flatAlphabet())
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		next, err := BuildTable(flatAlphabet())
		require.NoError(t, err)
		for b := range flatAlphabet() {
			c1, _ := first.Code(b)
			c2, _ := next.Code(b)
			require.Equal(t, c1, c2, "code for %c changed between builds", b)
		}
	}
}

func TestBuildTable_EmptyAlphabet(t *testing.T) {
	_, err := BuildTable(nil)
	assert.ErrorIs(t, err, ErrEmptyAlphabet)
}

func TestBuildTable_SingleSymbol(t *testing.T) {
	tbl, err := BuildTable(map[byte]int{'z': 42})
	require.NoError(t, err)
	code, ok := tbl.Code('z')
	require.True(t, ok)
	assert.Equal(t, "0", code)

	packed, nbits, err := tbl.Encode([]byte("zzz"))
	require.NoError(t, err)
	decoded, err := tbl.Decode(packed, nbits)
	require.NoError(t, err)
	assert.Equal(t, []byte("zzz"), decoded)
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	tbl, err := BuildTable(flatAlphabet())
	require.NoError(t, err)

	inputs := []string{"a", "hunter2", "CorrectHorseBatteryStaple", "0000000000", "zZ9"}
	for _, in := range inputs {
		packed, nbits, err := tbl.Encode([]byte(in))
		require.NoError(t, err)
		out, err := tbl.Decode(packed, nbits)
		require.NoError(t, err)
		assert.Equal(t, []byte(in), out, "round trip failed for %q", in)
	}
}

func TestEncode_UnknownSymbol(t *testing.T) {
	tbl, err := BuildTable(flatAlphabet())
	require.NoError(t, err)
	_, _, err = tbl.Encode([]byte("pass word")) // space not in alphabet
	assert.ErrorIs(t, err, ErrUnknownSymbol)
}

func TestDecodeBits_Malformed(t *testing.T) {
	tbl, err := BuildTable(map[byte]int{'a': 3, 'b': 2, 'c': 1})
	require.NoError(t, err)

	bits, err := tbl.EncodeBits([]byte("abc"))
	require.NoError(t, err)

	// Chop the last bit so the tail no longer matches any code.
	_, err = tbl.DecodeBits(bits[:len(bits)-1])
	assert.ErrorIs(t, err, ErrMalformedBits)
}

func TestDecode_BitCountOutOfRange(t *testing.T) {
	tbl, err := BuildTable(flatAlphabet())
	require.NoError(t, err)
	_, err = tbl.Decode([]byte{0x00}, 9)
	assert.ErrorIs(t, err, ErrMalformedBits)
}
