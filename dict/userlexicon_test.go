package dict

import (
	"strings"
	"testing"
)

func TestLoadUserLexiconCSVAndSearch(t *testing.T) {
	src := "東京スカイツリー,100,200,-500,名詞,固有名詞,一般,*,*,*,東京スカイツリー,トウキョウスカイツリー,トウキョウスカイツリー\n" +
		"東京,1,2,10,名詞,固有名詞,地域,一般,*,*,東京,トウキョウ,トウキョウ\n"

	var interned []string
	featureOf := func(f string) uint32 {
		interned = append(interned, f)
		return uint32(len(interned))
	}

	ul, err := LoadUserLexiconCSV(strings.NewReader(src), featureOf)
	if err != nil {
		t.Fatalf("LoadUserLexiconCSV: %v", err)
	}

	matches := ul.CommonPrefixSearch([]byte("東京スカイツリーです"), 0)
	if len(matches) != 2 {
		t.Fatalf("got %d matches, want 2 (東京, 東京スカイツリー)", len(matches))
	}
}

func TestLoadUserLexiconCSVSkipsBlankLines(t *testing.T) {
	src := "surface,1,2,3,feat\n\n  \n"
	ul, err := LoadUserLexiconCSV(strings.NewReader(src), func(string) uint32 { return 0 })
	if err != nil {
		t.Fatalf("LoadUserLexiconCSV: %v", err)
	}
	if matches := ul.CommonPrefixSearch([]byte("surface"), 0); len(matches) != 1 {
		t.Errorf("got %d matches, want 1", len(matches))
	}
}

func TestLoadUserLexiconCSVRejectsMalformedLine(t *testing.T) {
	_, err := LoadUserLexiconCSV(strings.NewReader("onlyonefield\n"), func(string) uint32 { return 0 })
	if err == nil {
		t.Fatalf("expected an error for a line with too few fields")
	}
}
