// trie.go is the builder's in-memory staging trie: a pointer-based,
// byte-keyed tree accumulated while reading lex.csv, flattened once at
// the end into the dict.FlatNode/dict.FlatEdge arrays the runtime
// package actually serves lookups from. This is the teacher analyzer's
// own Node{Children map[rune]*Node} shape (see analyzer.go's Node and
// FlatNode/FlatEdge types), generalized from rune edges to raw UTF-8
// byte edges to match dict.Lexicon's byte-keyed common_prefix_search.
package dictbuild

import (
	"fmt"
	"sort"

	"github.com/vibrato-go/vibrato/dict"
)

type trieNode struct {
	children map[byte]*trieNode
	payload  []dict.WordEntry
	isFinal  bool
}

// trieStage accumulates surface/entry pairs before flattening.
type trieStage struct {
	root *trieNode
}

func newTrieStage() *trieStage {
	return &trieStage{root: &trieNode{children: map[byte]*trieNode{}}}
}

// Insert adds surface with the given entry, appending to any existing
// homographs at that surface rather than overwriting them.
func (t *trieStage) Insert(surface []byte, entry dict.WordEntry) {
	n := t.root
	for _, b := range surface {
		child, ok := n.children[b]
		if !ok {
			child = &trieNode{children: map[byte]*trieNode{}}
			n.children[b] = child
		}
		n = child
	}
	n.isFinal = true
	n.payload = append(n.payload, entry)
}

// Flatten walks the staging trie depth-first and emits the flat,
// index-addressed arrays dict.Lexicon expects, validating every entry's
// connection ids fall within the compiled connection matrix's declared
// dimensions (spec.md's "connection ids out of declared range" check).
func (t *trieStage) Flatten(numLeft, numRight int) ([]dict.FlatNode, []dict.FlatEdge, []dict.WordEntry, error) {
	var nodes []dict.FlatNode
	var edges []dict.FlatEdge
	var payloads []dict.WordEntry

	var assign func(n *trieNode) (uint32, error)
	assign = func(n *trieNode) (uint32, error) {
		idx := uint32(len(nodes))
		nodes = append(nodes, dict.FlatNode{}) // placeholder, fixed up below

		payloadIdx := uint32(len(payloads))
		for _, e := range n.payload {
			if int(e.LeftID) >= numLeft || int(e.RightID) >= numRight {
				return 0, fmt.Errorf("word entry left_id=%d right_id=%d outside matrix bounds (%d x %d): %w",
					e.LeftID, e.RightID, numLeft, numRight, dict.ErrInvalidID)
			}
			payloads = append(payloads, e)
		}

		keys := make([]byte, 0, len(n.children))
		for b := range n.children {
			keys = append(keys, b)
		}
		sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

		edgesIdx := uint32(len(edges))
		for range keys {
			edges = append(edges, dict.FlatEdge{})
		}
		for i, b := range keys {
			childIdx, err := assign(n.children[b])
			if err != nil {
				return 0, err
			}
			edges[int(edgesIdx)+i] = dict.FlatEdge{Byte: b, NodeID: childIdx}
		}

		nodes[idx] = dict.FlatNode{
			PayloadIdx: payloadIdx,
			PayloadLen: uint16(len(n.payload)),
			EdgesIdx:   edgesIdx,
			EdgesLen:   uint16(len(keys)),
			IsFinal:    n.isFinal,
		}
		return idx, nil
	}

	if _, err := assign(t.root); err != nil {
		return nil, nil, nil, err
	}
	return nodes, edges, payloads, nil
}
