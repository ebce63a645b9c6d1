package dict

import "testing"

// buildKatakanaCharProperty mirrors IPADIC's real char.def entry for
// KATAKANA (invoke group length = 1 1 2): grouped, invoking, but with a
// length limit shorter than any realistic word, exercising the interaction
// the single-loop bug collapsed.
func buildKatakanaCharProperty(t *testing.T) *CharProperty {
	t.Helper()
	categories := []CharCategory{
		{Name: "DEFAULT", Invoke: true, Group: false, Length: 0, OOV: WordTemplate{Cost: 2000}},
		{Name: "KATAKANA", Invoke: true, Group: true, Length: 2, OOV: WordTemplate{Cost: 3000}},
	}
	declared := []struct {
		Lo, Hi rune
		Cats   []int
	}{
		{Lo: 0x30A0, Hi: 0x30FF, Cats: []int{1}},
	}
	return NewCharProperty(categories, declared)
}

func runesToSpans(s string) []RuneSpan {
	var spans []RuneSpan
	off := 0
	for _, r := range s {
		size := len(string(r))
		spans = append(spans, RuneSpan{R: r, Off: off, Size: size})
		off += size
	}
	return spans
}

// TestGenerateGroupCandidateCoversFullRun is the spec.md §4.3 scenario that
// the length-capped single loop used to truncate: a Group category whose
// Length is shorter than the actual run must still emit one candidate
// spanning the entire run, not just Length characters of it.
func TestGenerateGroupCandidateCoversFullRun(t *testing.T) {
	cp := buildKatakanaCharProperty(t)
	g := NewUnknownGen(cp)
	spans := runesToSpans("ヴェネツィア") // 6 katakana characters

	cands := g.Generate(spans, 0, false, 0)

	var full *Candidate
	for i := range cands {
		if cands[i].Len == len("ヴェネツィア") {
			full = &cands[i]
		}
	}
	if full == nil {
		t.Fatalf("got %+v, want one candidate spanning the entire 6-character run", cands)
	}

	// The length-limited prefixes (1 and 2 characters) must still be
	// emitted alongside the full-run group candidate.
	wantPrefixLens := []int{len("ヴ"), len("ヴェ")}
	for _, wl := range wantPrefixLens {
		found := false
		for _, c := range cands {
			if c.Len == wl {
				found = true
			}
		}
		if !found {
			t.Errorf("missing prefix candidate of length %d in %+v", wl, cands)
		}
	}
}

// TestGenerateGroupCandidateRespectsMaxGroupingLen checks the full-run
// group candidate is still capped by maxGroupingLen (the -M flag), even
// though it is no longer capped by the category's own Length.
func TestGenerateGroupCandidateRespectsMaxGroupingLen(t *testing.T) {
	cp := buildKatakanaCharProperty(t)
	g := NewUnknownGen(cp)
	spans := runesToSpans("ヴェネツィア")

	cands := g.Generate(spans, 0, false, 3)

	for _, c := range cands {
		if c.Len > len("ヴェネ") {
			t.Errorf("candidate length %d exceeds maxGroupingLen=3 characters", c.Len)
		}
	}
	var grouped bool
	for _, c := range cands {
		if c.Len == len("ヴェネ") {
			grouped = true
		}
	}
	if !grouped {
		t.Errorf("got %+v, want a group candidate capped at 3 characters", cands)
	}
}
