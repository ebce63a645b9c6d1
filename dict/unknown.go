// unknown.go generates OOV candidate words at a lattice position using
// CharProperty category rules (spec.md §4.3).
package dict

// Candidate is one OOV candidate word emitted at a lattice position.
type Candidate struct {
	Entry WordEntry
	Len   int // byte length of the generated surface
}

// UnknownGen emits OOV candidates driven by a CharProperty.
type UnknownGen struct {
	Props *CharProperty
}

// NewUnknownGen builds a generator over the given categorization.
func NewUnknownGen(props *CharProperty) *UnknownGen {
	return &UnknownGen{Props: props}
}

// RuneSpan is one decoded rune at a byte offset, used to walk a run of
// same-category characters without re-decoding UTF-8 repeatedly. Exported
// so lattice.Worker can decode a sentence once and hand sub-slices to
// Generate for every lattice position.
type RuneSpan struct {
	R    rune
	Off  int // byte offset of R within the sentence
	Size int // byte width of R
}

// Generate emits OOV candidates starting at the first rune of spans, which
// sits at byte offset pos of the sentence; candidate lengths are in bytes
// from that rune.
// hasKnownMatch reports whether the Lexicon already produced a match
// starting at pos, which gates non-invoke categories per spec.md §4.3.
// maxGroupingLen caps grouped candidates globally (0 = unlimited); it
// corresponds to the `-M` CLI flag and lattice.Config.MaxGroupingLen.
func (g *UnknownGen) Generate(spans []RuneSpan, pos int, hasKnownMatch bool, maxGroupingLen uint16) []Candidate {
	if len(spans) == 0 {
		return nil
	}
	cats := CategorySet(g.Props.Categorize(spans[0].R))
	var out []Candidate
	for _, cat := range cats {
		if hasKnownMatch && !g.Props.IsInvoke(cat) {
			continue
		}
		out = append(out, g.generateForCategory(spans, cat, maxGroupingLen)...)
	}
	return out
}

func (g *UnknownGen) generateForCategory(spans []RuneSpan, cat int, maxGroupingLen uint16) []Candidate {
	limit := g.Props.LengthLimit(cat)
	tmpl := g.Props.OOVTemplate(cat)
	entry := WordEntry{LeftID: tmpl.LeftID, RightID: tmpl.RightID, Cost: tmpl.Cost, FeatureID: tmpl.FeatureID}
	group := g.Props.IsGroup(cat)

	// runLen tracks the run's true length, independent of limit: Group's
	// full-run candidate below must see the whole run even when limit caps
	// how many individual prefix candidates get emitted.
	var out []Candidate
	runLen := 0
	for i, sp := range spans {
		if i > 0 {
			// Stop the run at the first character not carrying cat.
			if !g.Props.Categorize(sp.R).Test(uint(cat)) {
				break
			}
		}
		runLen++
		byteEnd := sp.Off + sp.Size
		if limit == 0 || runLen <= int(limit) {
			out = append(out, Candidate{Entry: entry, Len: byteEnd - spans[0].Off})
		}
		if !group && limit != 0 && runLen >= int(limit) {
			break
		}
		if group && maxGroupingLen != 0 && runLen >= int(maxGroupingLen) {
			break
		}
	}

	if group {
		groupLen := runLen
		if maxGroupingLen != 0 && groupLen > int(maxGroupingLen) {
			groupLen = int(maxGroupingLen)
		}
		if groupLen > 0 {
			byteEnd := spans[groupLen-1].Off + spans[groupLen-1].Size
			grouped := Candidate{Entry: entry, Len: byteEnd - spans[0].Off}
			if !containsLen(out, grouped.Len) {
				out = append(out, grouped)
			}
		}
	}
	return out
}

func containsLen(cands []Candidate, l int) bool {
	for _, c := range cands {
		if c.Len == l {
			return true
		}
	}
	return false
}
