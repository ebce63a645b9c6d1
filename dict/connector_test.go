package dict

import "testing"

func TestDenseConnectorCost(t *testing.T) {
	c := &DenseConnector{
		NumLeftIDs:  3,
		NumRightIDs: 2,
		Costs: []int16{
			0, 1, 2, // right=0
			3, 4, 5, // right=1
		},
	}
	if got := c.Cost(1, 2); got != 5 {
		t.Errorf("Cost(1,2) = %d, want 5", got)
	}
	if c.NumLeft() != 3 || c.NumRight() != 2 {
		t.Errorf("NumLeft/NumRight = %d/%d, want 3/2", c.NumLeft(), c.NumRight())
	}
}

func TestCompactConnectorSingle(t *testing.T) {
	c := &CompactConnector{
		NumLeftIDs: 2, NumRightIDs: 2,
		RightClass: []uint16{0, 1}, LeftClass: []uint16{0, 1},
		NumRightClasses: 2, NumLeftClasses: 2,
		ClassCosts: []int16{10, 20, 30, 40},
	}
	if got := c.Cost(1, 0); got != 30 {
		t.Errorf("Cost(1,0) = %d, want 30", got)
	}
}

func TestCompactConnectorDualAveraging(t *testing.T) {
	c := &CompactConnector{
		NumLeftIDs: 1, NumRightIDs: 1,
		RightClass: []uint16{0}, LeftClass: []uint16{0},
		NumRightClasses: 1, NumLeftClasses: 1,
		ClassCosts: []int16{10},
		Dual:       true,
		RightClass2: []uint16{0}, LeftClass2: []uint16{0},
		NumRightClasses2: 1, NumLeftClasses2: 1,
		ClassCosts2: []int16{20},
	}
	if got := c.Cost(0, 0); got != 15 {
		t.Errorf("Cost(0,0) = %d, want 15", got)
	}
}

func TestAverageRoundHalfEven(t *testing.T) {
	cases := []struct {
		a, b, want int16
	}{
		{10, 20, 15},  // exact
		{10, 11, 10},  // .5 rounds to even (10)
		{11, 12, 12},  // .5 rounds to even (12)
		{-10, -11, -10}, // negative .5 rounds to even (-10)
		{-11, -12, -12}, // negative .5 rounds to even (-12)
		{0, 0, 0},
		{-1, 0, 0}, // -0.5 -> even is 0
	}
	for _, c := range cases {
		if got := averageRoundHalfEven(c.a, c.b); got != c.want {
			t.Errorf("averageRoundHalfEven(%d,%d) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
