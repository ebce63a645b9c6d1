// lexicon.go is the known-word trie: a flat, index-addressed
// representation of a byte-keyed trie, built once by dictbuild and then
// either mmap'd zero-copy (see dictionary.go) or held as a plain Go slice
// for in-process construction/tests. This is the same FlatNode/FlatEdge
// shape the teacher analyzer uses for its DAWG, generalized from rune
// edges to raw UTF-8 byte edges: MeCab surfaces are matched byte-by-byte
// against the input, and byte edges keep lead/continuation bytes ordered
// the way common_prefix_search requires.
package dict

import "sort"

// FlatNode is one trie node in the flattened array representation.
type FlatNode struct {
	PayloadIdx, EdgesIdx uint32
	PayloadLen, EdgesLen uint16
	IsFinal              bool
}

// FlatEdge is one trie edge: the byte on the edge and the child node id.
type FlatEdge struct {
	Byte   byte
	NodeID uint32
}

// WordEntry is an immutable dictionary entry: connection ids, word cost,
// and the index of its feature string.
type WordEntry struct {
	LeftID    uint16
	RightID   uint16
	Cost      int16
	FeatureID uint32
}

// Lexicon is the known-word trie over surface bytes, keyed by FlatNode
// index 0 as root. Nodes/Edges/Payloads may be ordinary slices (built
// in-process) or zero-copy views over an mmap'd section.
type Lexicon struct {
	Nodes    []FlatNode
	Edges    []FlatEdge
	Payloads []WordEntry
}

// PrefixMatch is one result of CommonPrefixSearch: the matched entry and
// the byte length of the surface it was found under.
type PrefixMatch struct {
	Entry WordEntry
	Len   int
}

// findChild does a binary search over the sorted outgoing edges of a
// node, mirroring the teacher's findChildGeneral.
func findChild(nodes []FlatNode, edges []FlatEdge, nodeIdx uint32, b byte) (uint32, bool) {
	node := nodes[nodeIdx]
	if node.EdgesLen == 0 {
		return 0, false
	}
	window := edges[node.EdgesIdx : node.EdgesIdx+uint32(node.EdgesLen)]
	i := sort.Search(len(window), func(i int) bool { return window[i].Byte >= b })
	if i < len(window) && window[i].Byte == b {
		return window[i].NodeID, true
	}
	return 0, false
}

// CommonPrefixSearch enumerates every surface in the lexicon that is a
// prefix of input[from:], in order of increasing length, including every
// homograph entry stored at each matching node. It is restartable from
// any starting offset but walks forward only within one call, so it can
// be (and is, by Worker) implemented as a simple closure-free loop rather
// than a goroutine-backed iterator.
func (lx *Lexicon) CommonPrefixSearch(input []byte, from int) []PrefixMatch {
	if len(lx.Nodes) == 0 {
		return nil
	}
	var matches []PrefixMatch
	node := uint32(0)
	for i := from; i < len(input); i++ {
		next, ok := findChild(lx.Nodes, lx.Edges, node, input[i])
		if !ok {
			break
		}
		node = next
		n := lx.Nodes[node]
		if n.IsFinal {
			for _, entry := range lx.Payloads[n.PayloadIdx : n.PayloadIdx+uint32(n.PayloadLen)] {
				matches = append(matches, PrefixMatch{Entry: entry, Len: i - from + 1})
			}
		}
	}
	return matches
}

// CommonPrefixSearchWithUser is CommonPrefixSearch merged with a user
// lexicon's overlay matches at the same position (spec.md §4.2: "a second
// lexicon queried in parallel; its entries are merged into the same
// candidate stream"). user may be nil, in which case it behaves exactly
// like CommonPrefixSearch.
func (lx *Lexicon) CommonPrefixSearchWithUser(input []byte, from int, user *UserLexicon) []PrefixMatch {
	matches := lx.CommonPrefixSearch(input, from)
	if user != nil {
		matches = append(matches, user.CommonPrefixSearch(input, from)...)
	}
	return matches
}
