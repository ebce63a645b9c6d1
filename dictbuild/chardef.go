// chardef.go parses MeCab's char.def source (spec.md §4.3): a category
// table (name, invoke, group, length) followed by codepoint-range
// declarations that assign one or more categories to each range. Ranges
// must be disjoint across the whole file, since dict.CharProperty's
// Categorize binary-searches on the assumption that at most one
// declared range covers any codepoint.
package dictbuild

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vibrato-go/vibrato/dict"
)

type declaredRange struct {
	lo, hi rune
	cats   []int
}

// ParseCharDef reads one char.def source into the builder's category
// table and declared ranges. Must be called before ParseUnkDef, which
// resolves category names against this table.
func (b *Builder) ParseCharDef(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)

		if !strings.HasPrefix(fields[0], "0x") {
			if err := b.parseCategoryLine(fields, line); err != nil {
				return err
			}
			continue
		}
		if err := b.parseRangeLine(fields, line); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func (b *Builder) parseCategoryLine(fields []string, line int) error {
	if len(fields) < 4 {
		return fmt.Errorf("char.def line %d: expected NAME INVOKE GROUP LENGTH: %w", line, dict.ErrInputParse)
	}
	name := fields[0]
	if _, dup := b.categoryIndex[name]; dup {
		return fmt.Errorf("char.def line %d: duplicate category %q: %w", line, name, dict.ErrInputParse)
	}
	invoke, err := parseBoolFlag(fields[1])
	if err != nil {
		return fmt.Errorf("char.def line %d: INVOKE: %w", line, dict.ErrInputParse)
	}
	group, err := parseBoolFlag(fields[2])
	if err != nil {
		return fmt.Errorf("char.def line %d: GROUP: %w", line, dict.ErrInputParse)
	}
	length, err := strconv.ParseUint(fields[3], 10, 16)
	if err != nil {
		return fmt.Errorf("char.def line %d: LENGTH: %w", line, dict.ErrInputParse)
	}

	id := len(b.categories)
	b.categoryIndex[name] = id
	b.categories = append(b.categories, dict.CharCategory{
		Name:   name,
		Invoke: invoke,
		Group:  group,
		Length: uint16(length),
	})
	return nil
}

func (b *Builder) parseRangeLine(fields []string, line int) error {
	lo, hi, err := parseCodepointRange(fields[0])
	if err != nil {
		return fmt.Errorf("char.def line %d: %w", line, err)
	}
	if len(fields) < 2 {
		return fmt.Errorf("char.def line %d: range declared with no category: %w", line, dict.ErrInputParse)
	}

	cats := make([]int, 0, len(fields)-1)
	for _, name := range fields[1:] {
		id, ok := b.categoryIndex[name]
		if !ok {
			return fmt.Errorf("char.def line %d: unknown category %q: %w", line, name, dict.ErrInvalidID)
		}
		cats = append(cats, id)
	}

	for _, existing := range b.ranges {
		if lo <= existing.hi && existing.lo <= hi {
			return fmt.Errorf("char.def line %d: range U+%04X..U+%04X overlaps a previously declared range: %w",
				line, lo, hi, dict.ErrInputParse)
		}
	}
	b.ranges = append(b.ranges, declaredRange{lo: lo, hi: hi, cats: cats})
	return nil
}

func parseBoolFlag(s string) (bool, error) {
	switch s {
	case "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("expected 0 or 1, got %q", s)
	}
}

// parseCodepointRange parses "0xHHHH" or "0xHHHH..0xHHHH".
func parseCodepointRange(s string) (lo, hi rune, err error) {
	parts := strings.SplitN(s, "..", 2)
	loVal, err := strconv.ParseInt(strings.TrimPrefix(parts[0], "0x"), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid codepoint %q: %w", parts[0], dict.ErrInputParse)
	}
	if len(parts) == 1 {
		return rune(loVal), rune(loVal), nil
	}
	hiVal, err := strconv.ParseInt(strings.TrimPrefix(parts[1], "0x"), 16, 32)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid codepoint %q: %w", parts[1], dict.ErrInputParse)
	}
	if hiVal < loVal {
		return 0, 0, fmt.Errorf("range %q has hi < lo: %w", s, dict.ErrInputParse)
	}
	return rune(loVal), rune(hiVal), nil
}
