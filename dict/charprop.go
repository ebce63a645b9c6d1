// charprop.go classifies input characters into char.def categories.
// Each codepoint maps to a bit-set of category ids rather than a single
// category, since char.def lines may list more than one category for a
// range and a codepoint's membership must be tested cheaply in the
// unknown-word generator's hot loop.
package dict

import (
	"sort"

	"github.com/bits-and-blooms/bitset"
)

// DefaultCategoryID is the always-present catch-all category used when no
// declared char.def range covers a codepoint.
const DefaultCategoryID = 0

// CharCategory is a named char.def category with its invoke/group/length
// flags and the OOV template applied to words it generates.
type CharCategory struct {
	Name   string
	Invoke bool
	Group  bool
	Length uint16 // 0 = unlimited
	OOV    WordTemplate
}

// WordTemplate is the (left-id, right-id, word-cost, feature-id) applied to
// every OOV candidate generated under a category.
type WordTemplate struct {
	LeftID    uint16
	RightID   uint16
	Cost      int16
	FeatureID uint32
}

type charRange struct {
	Lo, Hi rune
	Cats   *bitset.BitSet
}

// CharProperty is the immutable, serializable result of compiling char.def.
type CharProperty struct {
	Categories []CharCategory
	ranges     []charRange // sorted by Lo, pairwise disjoint
}

// NewCharProperty builds a CharProperty from categories and declared
// ranges. Ranges must not overlap one another; the caller validates this
// (dictbuild rejects any range that overlaps an earlier one), and
// Categorize relies on it.
func NewCharProperty(categories []CharCategory, declared []struct {
	Lo, Hi rune
	Cats   []int
}) *CharProperty {
	cp := &CharProperty{Categories: categories}
	for _, d := range declared {
		bs := bitset.New(uint(len(categories)))
		for _, c := range d.Cats {
			bs.Set(uint(c))
		}
		cp.ranges = append(cp.ranges, charRange{Lo: d.Lo, Hi: d.Hi, Cats: bs})
	}
	sort.Slice(cp.ranges, func(i, j int) bool { return cp.ranges[i].Lo < cp.ranges[j].Lo })
	return cp
}

// Categorize returns the bit-set of category ids a codepoint belongs to.
// ASCII control characters and undefined ranges fall back to DEFAULT.
func (cp *CharProperty) Categorize(r rune) *bitset.BitSet {
	// sort.Search finds the first range whose Hi >= r; ranges are sorted
	// by Lo and assumed non-overlapping across declarations, so at most
	// one candidate needs checking, mirroring the teacher's
	// findChildGeneral binary-search-over-sorted-edges pattern.
	i := sort.Search(len(cp.ranges), func(i int) bool { return cp.ranges[i].Hi >= r })
	if i < len(cp.ranges) && cp.ranges[i].Lo <= r && r <= cp.ranges[i].Hi {
		return cp.ranges[i].Cats
	}
	bs := bitset.New(uint(len(cp.Categories)))
	bs.Set(DefaultCategoryID)
	return bs
}

// IsInvoke reports whether unknown-word generation fires at cat even when
// a known-word match already exists at the position.
func (cp *CharProperty) IsInvoke(cat int) bool { return cp.Categories[cat].Invoke }

// IsGroup reports whether consecutive same-category characters merge into
// one grouped OOV candidate for cat.
func (cp *CharProperty) IsGroup(cat int) bool { return cp.Categories[cat].Group }

// LengthLimit returns the maximum suffix length emitted as OOV candidates
// for cat, or 0 for unlimited.
func (cp *CharProperty) LengthLimit(cat int) uint16 { return cp.Categories[cat].Length }

// OOVTemplate returns the WordTemplate applied to generated candidates
// under cat.
func (cp *CharProperty) OOVTemplate(cat int) WordTemplate { return cp.Categories[cat].OOV }

// CategoryIDByName returns the category id registered under name (e.g.
// "SPACE", the MeCab-compatible name the -S flag's ignore-space mode
// looks for), and false if no such category was declared in char.def.
func (cp *CharProperty) CategoryIDByName(name string) (int, bool) {
	for i, c := range cp.Categories {
		if c.Name == name {
			return i, true
		}
	}
	return 0, false
}

// CategorySet enumerates the ids set in bs, smallest first.
func CategorySet(bs *bitset.BitSet) []int {
	ids := make([]int, 0, bs.Count())
	for i, e := bs.NextSet(0); e; i, e = bs.NextSet(i + 1) {
		ids = append(ids, int(i))
	}
	return ids
}
