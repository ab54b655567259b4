// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package huffman builds prefix-free code tables from symbol frequencies
// and encodes/decodes byte sequences against them.
//
// The tree is only a transient construction artifact; the durable product
// is the table mapping each symbol to its bit string. No code is a prefix
// of another, which the tree-leaf property guarantees.
//
// This codec obscures stored credential bytes. It is obfuscation, not
// security: there is no salt, no key, and no cryptographic strength.
package huffman

import (
	"container/heap"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for codec operations.
var (
	// ErrEmptyAlphabet indicates a frequency table with no symbols.
	ErrEmptyAlphabet = errors.New("frequency table has no symbols")

	// ErrUnknownSymbol indicates an input byte outside the trained alphabet.
	ErrUnknownSymbol = errors.New("symbol not in code table")

	// ErrMalformedBits indicates a bit sequence that does not decode to a
	// whole number of symbols under the table.
	ErrMalformedBits = errors.New("bit sequence does not match code table")
)

// node is a transient tree node: a leaf carries a symbol, an internal node
// two children. seq is the creation order used to break frequency ties
// deterministically.
type node struct {
	freq        int
	seq         int
	symbol      byte
	leaf        bool
	left, right *node
}

// nodeHeap orders nodes by frequency, then by creation order.
type nodeHeap []*node

func (h nodeHeap) Len() int { return len(h) }
func (h nodeHeap) Less(i, j int) bool {
	if h[i].freq != h[j].freq {
		return h[i].freq < h[j].freq
	}
	return h[i].seq < h[j].seq
}
func (h nodeHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *nodeHeap) Push(x any)        { *h = append(*h, x.(*node)) }
func (h *nodeHeap) Pop() any {
	old := *h
	n := old[len(old)-1]
	*h = old[:len(old)-1]
	return n
}

// Table maps each trained symbol to its prefix-free bit string.
type Table struct {
	codes map[byte]string
}

// BuildTable derives a code table from symbol frequencies using the
// standard greedy construction: repeatedly merge the two lowest-frequency
// nodes until one tree remains, then read each symbol's code as the path
// of left (0) and right (1) choices from root to leaf.
//
// Leaves are created in ascending symbol order so that equal-frequency
// inputs always yield the same table regardless of map iteration order.
func BuildTable(freqs map[byte]int) (*Table, error) {
	if len(freqs) == 0 {
		return nil, ErrEmptyAlphabet
	}

	symbols := make([]int, 0, len(freqs))
	for b := range freqs {
		symbols = append(symbols, int(b))
	}
	sort.Ints(symbols)

	h := make(nodeHeap, 0, len(symbols))
	seq := 0
	for _, sym := range symbols {
		h = append(h, &node{freq: freqs[byte(sym)], seq: seq, symbol: byte(sym), leaf: true})
		seq++
	}
	heap.Init(&h)

	for h.Len() > 1 {
		a := heap.Pop(&h).(*node)
		b := heap.Pop(&h).(*node)
		heap.Push(&h, &node{freq: a.freq + b.freq, seq: seq, left: a, right: b})
		seq++
	}
	root := heap.Pop(&h).(*node)

	t := &Table{codes: make(map[byte]string, len(freqs))}
	t.assign(root, "")
	return t, nil
}

// assign walks the tree recording each leaf's root-to-leaf path. A
// single-symbol alphabet gets the one-bit code "0" so its encoding is
// non-empty.
func (t *Table) assign(n *node, path string) {
	if n.leaf {
		if path == "" {
			path = "0"
		}
		t.codes[n.symbol] = path
		return
	}
	t.assign(n.left, path+"0")
	t.assign(n.right, path+"1")
}

// Len returns the number of symbols in the table.
func (t *Table) Len() int { return len(t.codes) }

// Code returns the bit string for symbol b.
func (t *Table) Code(b byte) (string, bool) {
	c, ok := t.codes[b]
	return c, ok
}

// EncodeBits translates data into its concatenated bit-string form.
func (t *Table) EncodeBits(data []byte) (string, error) {
	var sb strings.Builder
	for _, b := range data {
		code, ok := t.codes[b]
		if !ok {
			return "", fmt.Errorf("%w: 0x%02x", ErrUnknownSymbol, b)
		}
		sb.WriteString(code)
	}
	return sb.String(), nil
}

// DecodeBits translates a bit string back into bytes by walking codes
// greedily; prefix-freedom makes the decomposition unambiguous.
func (t *Table) DecodeBits(bits string) ([]byte, error) {
	// Invert the table once per call; decode runs at startup and login
	// only, so clarity wins over caching.
	inverse := make(map[string]byte, len(t.codes))
	longest := 0
	for sym, code := range t.codes {
		inverse[code] = sym
		if len(code) > longest {
			longest = len(code)
		}
	}

	var out []byte
	start := 0
	for start < len(bits) {
		matched := false
		for end := start + 1; end <= len(bits) && end-start <= longest; end++ {
			if sym, ok := inverse[bits[start:end]]; ok {
				out = append(out, sym)
				start = end
				matched = true
				break
			}
		}
		if !matched {
			return nil, fmt.Errorf("%w: stuck at bit %d", ErrMalformedBits, start)
		}
	}
	return out, nil
}

// Encode packs the bit encoding of data into bytes, most significant bit
// first, and returns the packed bytes with the exact bit count.
func (t *Table) Encode(data []byte) ([]byte, int, error) {
	bits, err := t.EncodeBits(data)
	if err != nil {
		return nil, 0, err
	}
	packed := make([]byte, (len(bits)+7)/8)
	for i := 0; i < len(bits); i++ {
		if bits[i] == '1' {
			packed[i/8] |= 1 << (7 - i%8)
		}
	}
	return packed, len(bits), nil
}

// Decode unpacks nbits bits from packed and decodes them to bytes.
func (t *Table) Decode(packed []byte, nbits int) ([]byte, error) {
	if nbits < 0 || nbits > len(packed)*8 {
		return nil, fmt.Errorf("%w: bit count %d out of range", ErrMalformedBits, nbits)
	}
	var sb strings.Builder
	sb.Grow(nbits)
	for i := 0; i < nbits; i++ {
		if packed[i/8]&(1<<(7-i%8)) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return t.DecodeBits(sb.String())
}
