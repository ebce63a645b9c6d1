// remap.go drives spec.md §4.5's ConnIdMapper from a training corpus: it
// tokenizes every line with the dictionary as already compiled, counts
// how often each left/right connection id appears on the winning path,
// and hands the counts to dict.BuildMapping. This is the "observed
// frequency under a first-pass tokenization" step dict.BuildMapping
// itself takes as a precomputed input.
package dictbuild

import (
	"bufio"
	"fmt"
	"io"

	"github.com/vibrato-go/vibrato"
	"github.com/vibrato-go/vibrato/dict"
)

// CountConnectionIDs tokenizes every line of corpus with t and tallies
// how often each left/right connection id appears on a winning edge,
// returning parallel count slices indexed by id (sized to the
// dictionary's declared NumLeft/NumRight). Lines that fail to tokenize
// (e.g. exceeding the sentence byte limit) are skipped rather than
// aborting the whole pass, since a single malformed corpus line
// shouldn't block remapping the rest of a large dictionary.
func CountConnectionIDs(t *vibrato.Tokenizer, connector dict.Connector, corpus io.Reader) (leftCounts, rightCounts []uint64, err error) {
	leftCounts = make([]uint64, connector.NumLeft())
	rightCounts = make([]uint64, connector.NumRight())

	w := t.NewWorker()
	scanner := bufio.NewScanner(corpus)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<24)
	for scanner.Scan() {
		tokens, tokenizeErr := w.TokenizeString(scanner.Text())
		if tokenizeErr != nil {
			continue
		}
		for _, tok := range tokens {
			if int(tok.LeftID) < len(leftCounts) {
				leftCounts[tok.LeftID]++
			}
			if int(tok.RightID) < len(rightCounts) {
				rightCounts[tok.RightID]++
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("dictbuild: reading training corpus: %w", err)
	}
	return leftCounts, rightCounts, nil
}

// BuildMapping is dict.BuildMapping re-exported at the dictbuild call
// site so a build driver needs only one import for the whole remap
// pass: CountConnectionIDs then BuildMapping then IdMapping.Apply.
func BuildMapping(leftCounts, rightCounts []uint64) dict.IdMapping {
	return dict.BuildMapping(leftCounts, rightCounts)
}
