package lattice

import "strings"

// Token is one segmented, tagged unit of the decoded sentence (spec.md
// §4.6 backtrace output, §3 Lattice Node).
type Token struct {
	Surface   string
	Feature   string
	StartByte int
	EndByte   int
	IsUnknown bool // true when generated by UnknownGen rather than looked up

	// LeftID/RightID are the connection ids the winning path used for
	// this token's edge. Exposed mainly for dictbuild's connection-id
	// frequency pass (spec.md §4.5 ConnIdMapper), not needed for plain
	// segmentation output.
	LeftID, RightID uint16
}

// Format renders one line of the default tokenize output: "<surface>\t
// <feature>", with an "(unk)" suffix on generated words in some MeCab
// output modes (spec.md §6).
func (t Token) Format(markUnknown bool) string {
	if markUnknown && t.IsUnknown {
		return t.Surface + "\t" + t.Feature + "\t(unk)"
	}
	return t.Surface + "\t" + t.Feature
}

// FormatTokens renders the default tokenize output for a full sentence:
// one Format line per token, terminated by a literal "EOS" line.
func FormatTokens(tokens []Token, markUnknown bool) string {
	var b strings.Builder
	for _, t := range tokens {
		b.WriteString(t.Format(markUnknown))
		b.WriteByte('\n')
	}
	b.WriteString("EOS\n")
	return b.String()
}

// FormatWakati renders wakati-mode output ("-O wakati"): surfaces
// space-separated on one line, with no trailing EOS marker.
func FormatWakati(tokens []Token) string {
	surfaces := make([]string, len(tokens))
	for i, t := range tokens {
		surfaces[i] = t.Surface
	}
	return strings.Join(surfaces, " ")
}
