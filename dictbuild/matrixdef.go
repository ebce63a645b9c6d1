// matrixdef.go parses MeCab's matrix.def source (spec.md §4.4): a header
// line "num_right num_left" followed by exactly num_right*num_left lines
// of "right left cost", in any order. The result is staged as a dense
// row-major table; dictbuild always emits a dict.DenseConnector (the
// compact dual-matrix form is a distinct, documented binary shape that a
// dictionary author opts into by a separate compaction pass, not
// something matrix.def itself distinguishes).
package dictbuild

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vibrato-go/vibrato/dict"
)

type matrixStage struct {
	numRight, numLeft int
	costs             []int16
	filled            []bool
}

// ParseMatrixDef reads one matrix.def source into the builder's
// connection cost matrix.
func (b *Builder) ParseMatrixDef(r io.Reader) error {
	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return fmt.Errorf("matrix.def: empty file: %w", dict.ErrInputParse)
	}
	header := strings.Fields(strings.TrimSpace(scanner.Text()))
	if len(header) != 2 {
		return fmt.Errorf("matrix.def line 1: expected \"num_right num_left\": %w", dict.ErrInputParse)
	}
	numRight, err := strconv.Atoi(header[0])
	if err != nil {
		return fmt.Errorf("matrix.def line 1: num_right: %w", dict.ErrInputParse)
	}
	numLeft, err := strconv.Atoi(header[1])
	if err != nil {
		return fmt.Errorf("matrix.def line 1: num_left: %w", dict.ErrInputParse)
	}

	m := &matrixStage{
		numRight: numRight,
		numLeft:  numLeft,
		costs:    make([]int16, numRight*numLeft),
		filled:   make([]bool, numRight*numLeft),
	}

	line := 1
	count := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) != 3 {
			return fmt.Errorf("matrix.def line %d: expected \"right left cost\": %w", line, dict.ErrInputParse)
		}
		right, err := strconv.Atoi(fields[0])
		if err != nil || right < 0 || right >= numRight {
			return fmt.Errorf("matrix.def line %d: right id out of [0,%d): %w", line, numRight, dict.ErrInvalidID)
		}
		left, err := strconv.Atoi(fields[1])
		if err != nil || left < 0 || left >= numLeft {
			return fmt.Errorf("matrix.def line %d: left id out of [0,%d): %w", line, numLeft, dict.ErrInvalidID)
		}
		cost, err := strconv.ParseInt(fields[2], 10, 16)
		if err != nil {
			return fmt.Errorf("matrix.def line %d: cost: %w", line, dict.ErrInputParse)
		}
		idx := right*numLeft + left
		if m.filled[idx] {
			return fmt.Errorf("matrix.def line %d: duplicate cell (right=%d, left=%d): %w", line, right, left, dict.ErrInputParse)
		}
		m.costs[idx] = int16(cost)
		m.filled[idx] = true
		count++
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	if count != numRight*numLeft {
		return fmt.Errorf("matrix.def: header declares %d x %d = %d cells, file supplied %d: %w",
			numRight, numLeft, numRight*numLeft, count, dict.ErrInputParse)
	}

	b.matrix = m
	return nil
}
