// userlexicon.go is the optional user-dictionary overlay (spec.md §3,
// §4.2: "a second lexicon queried in parallel; its entries are merged
// into the same candidate stream"). Unlike the main Lexicon, a user
// lexicon is small, built at runtime from a plain text file, and never
// mmap'd, so it is represented as a pointer-based Patricia trie rather
// than a flat array — the same shape wordserve's suggest.Completer uses
// for its (also small, dynamically loaded) completion trie.
package dict

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	patricia "github.com/tchap/go-patricia/v2/patricia"
)

// UserLexicon overlays additional surfaces onto a Lexicon.
type UserLexicon struct {
	trie *patricia.Trie
}

// NewUserLexicon returns an empty overlay.
func NewUserLexicon() *UserLexicon {
	return &UserLexicon{trie: patricia.NewTrie()}
}

// Insert adds one surface/entry pair, appending to any existing homographs.
func (ul *UserLexicon) Insert(surface []byte, entry WordEntry) {
	prefix := patricia.Prefix(surface)
	if item := ul.trie.Get(prefix); item != nil {
		entries := item.([]WordEntry)
		ul.trie.Set(prefix, append(entries, entry))
		return
	}
	ul.trie.Insert(prefix, []WordEntry{entry})
}

// CommonPrefixSearch enumerates every user-lexicon surface that is a
// prefix of input[from:], in the same (entry, length) shape as
// Lexicon.CommonPrefixSearch so the two streams can be merged.
func (ul *UserLexicon) CommonPrefixSearch(input []byte, from int) []PrefixMatch {
	var matches []PrefixMatch
	_ = ul.trie.VisitPrefixes(patricia.Prefix(input[from:]), func(p patricia.Prefix, item patricia.Item) error {
		entries := item.([]WordEntry)
		for _, e := range entries {
			matches = append(matches, PrefixMatch{Entry: e, Len: len(p)})
		}
		return nil
	})
	return matches
}

// LoadUserLexiconCSV reads a MeCab-format user dictionary: one entry per
// line, "surface,left_id,right_id,cost,feature...", the same four-column
// head as lex.csv (spec.md §4.7), feature string kept as the joined
// remainder and resolved to a feature id by featureOf.
func LoadUserLexiconCSV(r io.Reader, featureOf func(feature string) uint32) (*UserLexicon, error) {
	ul := NewUserLexicon()
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.SplitN(text, ",", 5)
		if len(fields) < 4 {
			return nil, fmt.Errorf("user lexicon line %d: %w", line, ErrInputParse)
		}
		left, err := strconv.ParseUint(fields[1], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("user lexicon line %d: left_id: %w", line, ErrInputParse)
		}
		right, err := strconv.ParseUint(fields[2], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("user lexicon line %d: right_id: %w", line, ErrInputParse)
		}
		cost, err := strconv.ParseInt(fields[3], 10, 16)
		if err != nil {
			return nil, fmt.Errorf("user lexicon line %d: cost: %w", line, ErrInputParse)
		}
		feature := ""
		if len(fields) == 5 {
			feature = fields[4]
		}
		entry := WordEntry{
			LeftID:    uint16(left),
			RightID:   uint16(right),
			Cost:      int16(cost),
			FeatureID: featureOf(feature),
		}
		ul.Insert([]byte(fields[0]), entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading user lexicon: %w", err)
	}
	return ul, nil
}
