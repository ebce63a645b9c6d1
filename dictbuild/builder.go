// Package dictbuild compiles MeCab-format dictionary source files
// (lex.csv, char.def, unk.def, matrix.def) into a dict.Dictionary ready
// for dict.Save (spec.md §4.7 "Dictionary Builder"). It plays the role
// the teacher's mergeFilesWithPrefix/loadInternal pair plays for
// assembling morph.dawg from parts, except here the parts are MeCab's
// own plain-text source format rather than split binary chunks.
package dictbuild

import (
	"fmt"

	"github.com/vibrato-go/vibrato/dict"
)

// Builder accumulates lexicon, character-category, and connection-cost
// source files, then compiles them into one Dictionary. Parse methods
// must run in dependency order: ParseCharDef before ParseUnkDef (which
// resolves category names), and ParseMatrixDef before Build (which
// validates every word entry's ids against the matrix's declared
// dimensions).
type Builder struct {
	Features *dict.FeatureTable

	trie *trieStage

	categories    []dict.CharCategory
	categoryIndex map[string]int
	ranges        []declaredRange

	matrix *matrixStage

	numWords int
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		Features:      dict.NewFeatureTable(),
		trie:          newTrieStage(),
		categoryIndex: make(map[string]int),
	}
}

// NumWords returns the number of lexicon entries inserted so far, for
// progress reporting during a large compile.
func (b *Builder) NumWords() int { return b.numWords }

// Build validates the accumulated sources and compiles them into a
// Dictionary. The returned Dictionary always carries a DenseConnector;
// compacting to a CompactConnector is a separate, optional pass over the
// result (dict.CompactConnector's fields can be filled directly from a
// DenseConnector's Costs by whatever class-assignment strategy the
// caller chooses, which spec.md leaves unspecified beyond the wire
// format itself).
func (b *Builder) Build() (*dict.Dictionary, error) {
	if b.matrix == nil {
		return nil, fmt.Errorf("dictbuild: no matrix.def source parsed: %w", dict.ErrInputParse)
	}
	if len(b.categories) == 0 {
		return nil, fmt.Errorf("dictbuild: no char.def source parsed: %w", dict.ErrInputParse)
	}
	if b.categories[0].Name != "DEFAULT" {
		return nil, fmt.Errorf("dictbuild: char.def's first category must be named DEFAULT (got %q), since unmatched codepoints fall back to category 0: %w",
			b.categories[0].Name, dict.ErrInputParse)
	}

	fmt.Printf("dictbuild: compiling %d lexicon entries, %d categories, %dx%d connection matrix...\n",
		b.numWords, len(b.categories), b.matrix.numLeft, b.matrix.numRight)

	nodes, edges, payloads, err := b.trie.Flatten(b.matrix.numLeft, b.matrix.numRight)
	if err != nil {
		return nil, fmt.Errorf("dictbuild: flattening lexicon trie: %w", err)
	}

	declared := make([]struct {
		Lo, Hi rune
		Cats   []int
	}, len(b.ranges))
	for i, r := range b.ranges {
		declared[i] = struct {
			Lo, Hi rune
			Cats   []int
		}{Lo: r.lo, Hi: r.hi, Cats: r.cats}
	}
	charProp := dict.NewCharProperty(b.categories, declared)

	connector := &dict.DenseConnector{
		NumLeftIDs:  b.matrix.numLeft,
		NumRightIDs: b.matrix.numRight,
		Costs:       b.matrix.costs,
	}

	fmt.Printf("dictbuild: dictionary compiled successfully (%d trie nodes, %d features).\n", len(nodes), b.Features.Len())

	return &dict.Dictionary{
		Lexicon:    &dict.Lexicon{Nodes: nodes, Edges: edges, Payloads: payloads},
		UnknownGen: dict.NewUnknownGen(charProp),
		Connector:  connector,
		CharProp:   charProp,
		Features:   b.Features,
	}, nil
}
