// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package bptree implements an in-memory B+ tree keyed by case id.
//
// All values live at uniform leaf depth; internal nodes only route. Nodes
// are stored in an arena and reference each other by integer handles, so
// splitting allocates a new arena slot and rewires handles instead of
// juggling parent/child/sibling pointers.
//
// A node may hold at most MaxKeys keys; reaching MaxKeys triggers a split
// that promotes a separator to the parent. The tree grows in height only
// at the root, which keeps every leaf at the same depth.
//
// # Thread Safety
//
// Not safe for concurrent use; the engine assumes a single logical actor.
package bptree

import "errors"

// MaxKeys is the bounded fanout: a node splits when it reaches this many keys.
const MaxKeys = 4

// ErrDuplicateKey indicates an insert of a key that is already present.
var ErrDuplicateKey = errors.New("key already present in tree")

// nilHandle marks an absent node reference in the arena.
const nilHandle = -1

// node is one arena slot. For a leaf, vals runs parallel to keys and next
// links to the right sibling leaf. For an internal node, children holds
// len(keys)+1 handles and vals/next are unused.
type node[V any] struct {
	keys     []uint32
	vals     []V
	children []int
	next     int
	leaf     bool
}

// Tree is a B+ tree mapping uint32 case ids to values of type V.
type Tree[V any] struct {
	nodes []node[V]
	root  int
	size  int
}

// New creates an empty tree whose root is a single empty leaf.
func New[V any]() *Tree[V] {
	t := &Tree[V]{root: 0}
	t.nodes = append(t.nodes, node[V]{leaf: true, next: nilHandle})
	return t
}

// Len returns the number of keys stored in the tree.
func (t *Tree[V]) Len() int { return t.size }

// Height returns the number of levels, counting the root leaf as 1.
func (t *Tree[V]) Height() int {
	h, cur := 1, t.root
	for !t.nodes[cur].leaf {
		h++
		cur = t.nodes[cur].children[0]
	}
	return h
}

// alloc appends a node to the arena and returns its handle.
func (t *Tree[V]) alloc(n node[V]) int {
	t.nodes = append(t.nodes, n)
	return len(t.nodes) - 1
}

// searchPos returns the position of the first key >= k.
func searchPos(keys []uint32, k uint32) int {
	lo, hi := 0, len(keys)
	for lo < hi {
		mid := (lo + hi) / 2
		if keys[mid] < k {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Insert places key in sorted position at the appropriate leaf, splitting
// on the way back up when a node reaches MaxKeys. Duplicate keys are
// rejected: no two live cases share an id.
func (t *Tree[V]) Insert(key uint32, val V) error {
	sep, right, split, err := t.insertRec(t.root, key, val)
	if err != nil {
		return err
	}
	if split {
		// Root split: the tree grows one level taller.
		newRoot := t.alloc(node[V]{
			keys:     []uint32{sep},
			children: []int{t.root, right},
			next:     nilHandle,
		})
		t.root = newRoot
	}
	t.size++
	return nil
}

// insertRec descends to the leaf for key and propagates splits upward.
// When the child it descended into split, the returned separator and
// right-sibling handle are folded into this node, which may split in turn.
func (t *Tree[V]) insertRec(h int, key uint32, val V) (sep uint32, right int, split bool, err error) {
	n := &t.nodes[h]
	pos := searchPos(n.keys, key)

	if n.leaf {
		if pos < len(n.keys) && n.keys[pos] == key {
			return 0, nilHandle, false, ErrDuplicateKey
		}
		n.keys = append(n.keys, 0)
		copy(n.keys[pos+1:], n.keys[pos:])
		n.keys[pos] = key
		var zero V
		n.vals = append(n.vals, zero)
		copy(n.vals[pos+1:], n.vals[pos:])
		n.vals[pos] = val
		if len(n.keys) < MaxKeys {
			return 0, nilHandle, false, nil
		}
		s, r := t.splitLeaf(h)
		return s, r, true, nil
	}

	// A key equal to the separator lives in the right subtree.
	if pos < len(n.keys) && n.keys[pos] == key {
		pos++
	}
	childSep, childRight, childSplit, err := t.insertRec(n.children[pos], key, val)
	if err != nil {
		return 0, nilHandle, false, err
	}
	if !childSplit {
		return 0, nilHandle, false, nil
	}

	// Re-take the pointer: the arena may have grown during recursion.
	n = &t.nodes[h]
	pos = searchPos(n.keys, childSep)
	n.keys = append(n.keys, 0)
	copy(n.keys[pos+1:], n.keys[pos:])
	n.keys[pos] = childSep
	n.children = append(n.children, nilHandle)
	copy(n.children[pos+2:], n.children[pos+1:])
	n.children[pos+1] = childRight

	if len(n.keys) < MaxKeys {
		return 0, nilHandle, false, nil
	}
	s, r := t.splitInternal(h)
	return s, r, true, nil
}

// splitLeaf moves the upper half of a full leaf into a new right sibling.
// The separator is the right sibling's first key, copied (not moved) up:
// leaf keys never leave the leaf level.
func (t *Tree[V]) splitLeaf(h int) (sep uint32, right int) {
	mid := MaxKeys / 2
	n := &t.nodes[h]

	rn := node[V]{
		leaf: true,
		keys: append([]uint32(nil), n.keys[mid:]...),
		vals: append([]V(nil), n.vals[mid:]...),
		next: n.next,
	}
	rh := t.alloc(rn)

	n = &t.nodes[h]
	n.keys = n.keys[:mid]
	n.vals = n.vals[:mid]
	n.next = rh
	return t.nodes[rh].keys[0], rh
}

// splitInternal moves the upper half of a full internal node into a new
// right sibling and promotes the median, which is excluded from both halves.
func (t *Tree[V]) splitInternal(h int) (sep uint32, right int) {
	mid := MaxKeys / 2
	n := &t.nodes[h]
	sep = n.keys[mid]

	rn := node[V]{
		keys:     append([]uint32(nil), n.keys[mid+1:]...),
		children: append([]int(nil), n.children[mid+1:]...),
		next:     nilHandle,
	}
	rh := t.alloc(rn)

	n = &t.nodes[h]
	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]
	return sep, rh
}

// Get returns the value stored under key.
func (t *Tree[V]) Get(key uint32) (V, bool) {
	cur := t.root
	for !t.nodes[cur].leaf {
		n := &t.nodes[cur]
		pos := searchPos(n.keys, key)
		if pos < len(n.keys) && n.keys[pos] == key {
			pos++
		}
		cur = n.children[pos]
	}
	n := &t.nodes[cur]
	pos := searchPos(n.keys, key)
	if pos < len(n.keys) && n.keys[pos] == key {
		return n.vals[pos], true
	}
	var zero V
	return zero, false
}

// Iterator walks the leaf level in ascending key order. Each call to
// Ascend returns a fresh iterator, so traversal is restartable.
type Iterator[V any] struct {
	t    *Tree[V]
	leaf int
	pos  int
}

// Ascend returns an iterator positioned at the leftmost leaf.
func (t *Tree[V]) Ascend() *Iterator[V] {
	cur := t.root
	for !t.nodes[cur].leaf {
		cur = t.nodes[cur].children[0]
	}
	return &Iterator[V]{t: t, leaf: cur}
}

// Next yields the next key/value pair, or ok=false once the rightmost
// leaf is exhausted.
func (it *Iterator[V]) Next() (key uint32, val V, ok bool) {
	for it.leaf != nilHandle {
		n := &it.t.nodes[it.leaf]
		if it.pos < len(n.keys) {
			k, v := n.keys[it.pos], n.vals[it.pos]
			it.pos++
			return k, v, true
		}
		it.leaf = n.next
		it.pos = 0
	}
	var zero V
	return 0, zero, false
}
