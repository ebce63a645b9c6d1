// lexcsv.go parses MeCab's lex.csv lexicon source (spec.md §4.7): one
// entry per line, "surface,left_id,right_id,cost,feature...", the
// feature column kept raw and interned into the builder's shared
// FeatureTable. Malformed lines are rejected with the line number, the
// way the teacher reports os/gob/gzip failures with file context rather
// than a bare error.
package dictbuild

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vibrato-go/vibrato/dict"
)

// ParseLexiconCSV reads one lex.csv source and inserts every entry into
// the builder's staging trie. May be called more than once to merge
// several lexicon source files, matching MeCab's own multi-file lex.csv
// convention.
func (b *Builder) ParseLexiconCSV(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	line := 0
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("lex.csv line %d: %w", line, err)
		}
		if len(record) < 4 {
			return fmt.Errorf("lex.csv line %d: expected at least 4 fields, got %d: %w", line, len(record), dict.ErrInputParse)
		}

		left, err := strconv.ParseUint(record[1], 10, 16)
		if err != nil {
			return fmt.Errorf("lex.csv line %d: left_id: %w", line, dict.ErrInputParse)
		}
		right, err := strconv.ParseUint(record[2], 10, 16)
		if err != nil {
			return fmt.Errorf("lex.csv line %d: right_id: %w", line, dict.ErrInputParse)
		}
		cost, err := strconv.ParseInt(record[3], 10, 16)
		if err != nil {
			return fmt.Errorf("lex.csv line %d: cost: %w", line, dict.ErrInputParse)
		}

		feature := ""
		if len(record) > 4 {
			feature = joinFeatureColumns(record[4:])
		}
		entry := dict.WordEntry{
			LeftID:    uint16(left),
			RightID:   uint16(right),
			Cost:      int16(cost),
			FeatureID: b.Features.Intern(feature),
		}
		b.trie.Insert([]byte(record[0]), entry)
		b.numWords++
		if b.numWords%100000 == 0 {
			fmt.Printf("lex.csv: %d entries parsed so far...\n", b.numWords)
		}
	}
}

func joinFeatureColumns(cols []string) string {
	out := cols[0]
	for _, c := range cols[1:] {
		out += "," + c
	}
	return out
}
