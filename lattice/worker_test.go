package lattice

import (
	"errors"
	"strings"
	"testing"

	"github.com/vibrato-go/vibrato/dict"
	"github.com/vibrato-go/vibrato/dictbuild"
)

// A small self-contained dictionary covering 東京 (Tokyo), 都 (capital/
// metropolis suffix), 京都 (Kyoto), and a KANJI OOV fallback, enough to
// exercise connectedness, coverage, and tie-breaking without needing a
// real IPADIC-scale dictionary on disk.

const charDef = `
DEFAULT 1 1 0
SPACE   0 1 0
KANJI   1 0 0

0x0020 SPACE
0x4E00..0x9FFF KANJI
`

const unkDef = `
DEFAULT,0,0,2000,記号,一般,*,*,*,*,*,*,*
SPACE,0,0,0,記号,空白,*,*,*,*,*,*,*
KANJI,0,0,1500,名詞,一般,*,*,*,*,*,*,*
`

// Connection costs are all zero except a penalty for joining a word with
// right id 1 to a word with left id 1 (都 followed by 都). Every OOV
// template and the other lexicon entries use id 0; OOV words stay more
// expensive than the known-word segmentation below through their word
// costs alone.
const matrixDef = `2 2
0 0 0
0 1 0
1 0 0
1 1 100
`

const lexCSV = `東京,0,0,-500,名詞,固有名詞,地域,一般,*,*,東京,トウキョウ,トウキョウ
都,1,1,-300,名詞,接尾,地域,*,*,*,都,ト,ト
京都,0,0,-600,名詞,固有名詞,地域,一般,*,*,京都,キョウト,キョウト
`

func buildTestWorker(t *testing.T) *Worker {
	t.Helper()
	b := dictbuild.NewBuilder()
	if err := b.ParseCharDef(strings.NewReader(charDef)); err != nil {
		t.Fatalf("ParseCharDef: %v", err)
	}
	if err := b.ParseUnkDef(strings.NewReader(unkDef)); err != nil {
		t.Fatalf("ParseUnkDef: %v", err)
	}
	if err := b.ParseMatrixDef(strings.NewReader(matrixDef)); err != nil {
		t.Fatalf("ParseMatrixDef: %v", err)
	}
	if err := b.ParseLexiconCSV(strings.NewReader(lexCSV)); err != nil {
		t.Fatalf("ParseLexiconCSV: %v", err)
	}
	d, err := b.Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return NewWorker(d, Config{})
}

func TestTokenizeKnownWordSegmentation(t *testing.T) {
	w := buildTestWorker(t)
	toks, err := w.Tokenize([]byte("京都東京都"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 3 {
		t.Fatalf("got %d tokens, want 3 (京都, 東京, 都)", len(toks))
	}
	want := []string{"京都", "東京", "都"}
	for i, s := range want {
		if toks[i].Surface != s {
			t.Errorf("token %d: got %q, want %q", i, toks[i].Surface, s)
		}
	}
}

// TestTokenizeCoversEveryByte is the spec's coverage property: token
// byte ranges partition the input with no gaps or overlaps.
func TestTokenizeCoversEveryByte(t *testing.T) {
	w := buildTestWorker(t)
	sentence := []byte("京都東京都")
	toks, err := w.Tokenize(sentence)
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	pos := 0
	for _, tok := range toks {
		if tok.StartByte != pos {
			t.Fatalf("gap or overlap before token %q: StartByte=%d, expected %d", tok.Surface, tok.StartByte, pos)
		}
		pos = tok.EndByte
	}
	if pos != len(sentence) {
		t.Fatalf("tokens cover %d bytes, want %d", pos, len(sentence))
	}
}

func TestTokenizeOOVOnlyInput(t *testing.T) {
	w := buildTestWorker(t)
	// U+4E2D ("中") falls in the declared KANJI range but isn't in the
	// lexicon, so it must be covered entirely by UnknownGen.
	toks, err := w.Tokenize([]byte("中"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if len(toks) != 1 || !toks[0].IsUnknown {
		t.Fatalf("got %+v, want one unknown-word token", toks)
	}
}

func TestTokenizeIgnoreSpace(t *testing.T) {
	d := buildTestWorker(t).d
	w := NewWorker(d, Config{IgnoreSpace: true})
	toks, err := w.Tokenize([]byte("東京 都"))
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	for _, tok := range toks {
		if tok.Surface == " " {
			t.Fatalf("ignore_space mode should never emit a token for the space run, got %+v", toks)
		}
	}
	if len(toks) != 2 {
		t.Fatalf("got %d tokens, want 2 (東京, 都)", len(toks))
	}
}

func TestTokenizeEmptyInput(t *testing.T) {
	w := buildTestWorker(t)
	toks, err := w.Tokenize(nil)
	if err != nil || toks != nil {
		t.Errorf("Tokenize(nil) = (%v, %v), want (nil, nil)", toks, err)
	}
}

func TestTokenizeRejectsOversizedSentence(t *testing.T) {
	w := buildTestWorker(t)
	w.SentenceByteLimit = 2
	_, err := w.Tokenize([]byte("京都"))
	if !errors.Is(err, dict.ErrSentenceTooLong) {
		t.Fatalf("got %v, want an error wrapping dict.ErrSentenceTooLong", err)
	}
}
