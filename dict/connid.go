// connid.go implements the ConnIdMapper reordering pass (spec.md §3
// IdMapping, §4.5): a cache-locality optimization that permutes left/right
// connection ids so hot ids sit at low indices, without changing
// tokenization results.
package dict

import (
	"encoding/binary"
	"io"
	"sort"
)

// IdMapping holds the left/right permutations produced by BuildMapping.
// lmap[oldLeftID] = newLeftID, and symmetrically for rmap.
type IdMapping struct {
	LMap []uint32
	RMap []uint32
}

// BuildMapping takes left/right-id frequency counts from a first-pass
// tokenization (leftIDCounts[id] and rightIDCounts[id] are how often each
// id was used; dictbuild.CountConnectionIDs produces them) and returns a
// mapping that places the most frequent ids at the lowest indices, per
// spec.md §4.5.
func BuildMapping(leftIDCounts, rightIDCounts []uint64) IdMapping {
	return IdMapping{
		LMap: frequencyPermutation(leftIDCounts),
		RMap: frequencyPermutation(rightIDCounts),
	}
}

func frequencyPermutation(counts []uint64) []uint32 {
	order := make([]int, len(counts))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	mapping := make([]uint32, len(counts))
	for newID, oldID := range order {
		mapping[oldID] = uint32(newID)
	}
	return mapping
}

// Apply rewrites every WordEntry's ids and permutes the Connector's
// rows/columns according to m. entries are rewritten in place; the
// permuted matrix is returned as a new DenseConnector sized the same as
// dense, which is left unchanged (callers holding a
// CompactConnector rebuild its class tables separately, since compacting
// is a build-time decision, not something ConnIdMapper need reverse).
// Postcondition: cost_after(m.LMap[l], m.RMap[r]) == cost_before(l, r).
func (m IdMapping) Apply(entries []WordEntry, dense *DenseConnector) *DenseConnector {
	for i := range entries {
		entries[i].LeftID = uint16(m.LMap[entries[i].LeftID])
		entries[i].RightID = uint16(m.RMap[entries[i].RightID])
	}
	out := &DenseConnector{
		NumLeftIDs:  dense.NumLeftIDs,
		NumRightIDs: dense.NumRightIDs,
		Costs:       make([]int16, len(dense.Costs)),
	}
	for r := 0; r < dense.NumRightIDs; r++ {
		newR := int(m.RMap[r])
		for l := 0; l < dense.NumLeftIDs; l++ {
			newL := int(m.LMap[l])
			out.Costs[newR*out.NumLeftIDs+newL] = dense.Costs[r*dense.NumLeftIDs+l]
		}
	}
	return out
}

// WriteLMap/WriteRMap/ReadIDMap implement the *.lmap/*.rmap raw 32-bit LE
// permutation array format of spec.md §4.5/§6.

func WriteLMap(w io.Writer, m IdMapping) error { return writeU32Array(w, m.LMap) }
func WriteRMap(w io.Writer, m IdMapping) error { return writeU32Array(w, m.RMap) }

func writeU32Array(w io.Writer, vals []uint32) error {
	buf := make([]byte, 4*len(vals))
	for i, v := range vals {
		binary.LittleEndian.PutUint32(buf[i*4:], v)
	}
	_, err := w.Write(buf)
	return err
}

// ReadIDMap reads a raw 32-bit LE permutation array of the given length.
func ReadIDMap(r io.Reader, length int) ([]uint32, error) {
	buf := make([]byte, 4*length)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	vals := make([]uint32, length)
	for i := range vals {
		vals[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
	return vals, nil
}
