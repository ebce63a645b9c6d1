// unkdef.go parses MeCab's unk.def source (spec.md §4.3): the same
// four-column shape as lex.csv, but the first column names a char.def
// category rather than a literal surface, giving that category's
// generated OOV words their (left_id, right_id, cost, feature) template.
// Must be called after ParseCharDef, since it resolves category names
// against the table ParseCharDef builds.
package dictbuild

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/vibrato-go/vibrato/dict"
)

// ParseUnkDef reads one unk.def source and fills in the OOV template of
// every category it mentions. A category named more than once is
// rejected, since dict.CharCategory carries exactly one template.
func (b *Builder) ParseUnkDef(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	seen := make(map[string]bool)
	line := 0
	for {
		line++
		record, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("unk.def line %d: %w", line, err)
		}
		if len(record) < 4 {
			return fmt.Errorf("unk.def line %d: expected at least 4 fields, got %d: %w", line, len(record), dict.ErrInputParse)
		}

		name := record[0]
		id, ok := b.categoryIndex[name]
		if !ok {
			return fmt.Errorf("unk.def line %d: unknown category %q: %w", line, name, dict.ErrInvalidID)
		}
		if seen[name] {
			return fmt.Errorf("unk.def line %d: duplicate OOV template for category %q: %w", line, name, dict.ErrInputParse)
		}
		seen[name] = true

		left, err := strconv.ParseUint(record[1], 10, 16)
		if err != nil {
			return fmt.Errorf("unk.def line %d: left_id: %w", line, dict.ErrInputParse)
		}
		right, err := strconv.ParseUint(record[2], 10, 16)
		if err != nil {
			return fmt.Errorf("unk.def line %d: right_id: %w", line, dict.ErrInputParse)
		}
		cost, err := strconv.ParseInt(record[3], 10, 16)
		if err != nil {
			return fmt.Errorf("unk.def line %d: cost: %w", line, dict.ErrInputParse)
		}
		feature := ""
		if len(record) > 4 {
			feature = joinFeatureColumns(record[4:])
		}

		b.categories[id].OOV = dict.WordTemplate{
			LeftID:    uint16(left),
			RightID:   uint16(right),
			Cost:      int16(cost),
			FeatureID: b.Features.Intern(feature),
		}
	}
}
