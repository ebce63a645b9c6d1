package dict

import "testing"

func TestBuildMappingOrdersByFrequency(t *testing.T) {
	// ids 0,1,2,3 observed 5,1,9,0 times respectively: id 2 should map to
	// 0 (hottest), id 0 to 1, id 1 to 2, id 3 to 3 (coldest).
	m := BuildMapping([]uint64{5, 1, 9, 0}, []uint64{5, 1, 9, 0})
	want := []uint32{1, 2, 0, 3}
	for i, w := range want {
		if m.LMap[i] != w {
			t.Errorf("LMap[%d] = %d, want %d", i, m.LMap[i], w)
		}
		if m.RMap[i] != w {
			t.Errorf("RMap[%d] = %d, want %d", i, m.RMap[i], w)
		}
	}
}

// TestIdMappingApplyPreservesCost is the spec's remap-invariance testable
// property: cost_after(m.LMap[l], m.RMap[r]) must equal cost_before(l, r)
// for every (l, r) pair, and WordEntry ids must be rewritten consistently.
func TestIdMappingApplyPreservesCost(t *testing.T) {
	dense := &DenseConnector{
		NumLeftIDs: 3, NumRightIDs: 3,
		Costs: []int16{
			1, 2, 3,
			4, 5, 6,
			7, 8, 9,
		},
	}
	entries := []WordEntry{
		{LeftID: 1, RightID: 2, Cost: 100},
		{LeftID: 0, RightID: 0, Cost: 200},
	}

	m := IdMapping{LMap: []uint32{2, 0, 1}, RMap: []uint32{1, 2, 0}}

	origCost := func(l, r int) int16 { return dense.Costs[r*3+l] }
	before := make(map[[2]int]int16)
	for l := 0; l < 3; l++ {
		for r := 0; r < 3; r++ {
			before[[2]int{l, r}] = origCost(l, r)
		}
	}

	remapped := m.Apply(entries, dense)

	for lr, cost := range before {
		newL, newR := m.LMap[lr[0]], m.RMap[lr[1]]
		if got := remapped.Costs[int(newR)*remapped.NumLeftIDs+int(newL)]; got != cost {
			t.Errorf("cost(%d,%d)=%d before remap, but cost(%d,%d)=%d after (want %d)",
				lr[0], lr[1], cost, newL, newR, got, cost)
		}
	}

	// entries[0] started as {LeftID: 1, RightID: 2}; LMap[1]=0, RMap[2]=0.
	if entries[0].LeftID != 0 || entries[0].RightID != 0 {
		t.Errorf("entry ids not rewritten: got left=%d right=%d, want 0/0", entries[0].LeftID, entries[0].RightID)
	}
}
