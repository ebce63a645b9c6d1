// worker.go is the per-thread Viterbi Worker (spec.md §3 Worker, §4.6,
// §5). A Worker owns its lattice arena exclusively; Reset clears it in
// place between sentences to avoid allocator pressure, the way the
// teacher analyzer reuses its chunk/result channels across ParseList
// batches rather than reallocating per word.
package lattice

import (
	"fmt"
	"unicode/utf8"

	"github.com/vibrato-go/vibrato/dict"
)

// node is one lattice end-node in the worker's private arena. Back is an
// index into the same arena, never an owning pointer (spec.md §9 "Lattice
// back-pointers are indices into a per-worker arena").
type node struct {
	rightID   uint16
	leftID    uint16 // left id of the edge that produced this node, if hasToken
	cost      int64
	back      int // -1 for BOS
	hasToken  bool
	startByte int
	endByte   int
	featureID uint32
	isUnknown bool
}

// Worker decodes sentences against one Dictionary. Not safe for
// concurrent use by multiple goroutines; create one Worker per thread.
type Worker struct {
	d   *dict.Dictionary
	cfg Config

	// SentenceByteLimit rejects sentences longer than this many bytes
	// with dict.ErrSentenceTooLong (spec.md §7). It is a separate,
	// mutable cap rather than a Config field because spec.md §9 fixes
	// Config's recognized option set to exactly {ignore_space,
	// max_grouping_len}.
	SentenceByteLimit int

	spans   []dict.RuneSpan
	arena   []node
	nodesAt [][]int // nodesAt[bytePos] = arena indices ending at bytePos

	spaceCat int
	hasSpace bool
}

// NewWorker creates a Worker over d with the given options. d must
// outlive the Worker.
func NewWorker(d *dict.Dictionary, cfg Config) *Worker {
	w := &Worker{d: d, cfg: cfg, SentenceByteLimit: DefaultSentenceByteLimit}
	w.spaceCat, w.hasSpace = d.CharProp.CategoryIDByName("SPACE")
	return w
}

// Reset clears scratch buffers in place, ready for the next sentence.
func (w *Worker) Reset() {
	w.spans = w.spans[:0]
	w.arena = w.arena[:0]
	for i := range w.nodesAt {
		w.nodesAt[i] = w.nodesAt[i][:0]
	}
}

// growNodesAt ensures w.nodesAt has exactly n+1 slots, all empty. Slots
// reused from a shorter prior sentence are explicitly truncated here
// rather than relied upon from Reset, since Reset only clears the slots
// that existed at the time it last ran.
func (w *Worker) growNodesAt(n int) {
	if cap(w.nodesAt) < n+1 {
		grown := make([][]int, n+1)
		copy(grown, w.nodesAt)
		w.nodesAt = grown
	} else {
		w.nodesAt = w.nodesAt[:n+1]
	}
	for i := range w.nodesAt {
		w.nodesAt[i] = w.nodesAt[i][:0]
	}
}

// Tokenize decodes sentence into its maximum-likelihood segmentation.
// Successive calls on one Worker are strictly sequential (spec.md §5);
// Tokenize resets scratch state at the start of every call, so results
// from a prior sentence are fully consumed before this one begins.
func (w *Worker) Tokenize(sentence []byte) ([]Token, error) {
	if len(sentence) > w.SentenceByteLimit {
		return nil, fmt.Errorf("%d bytes: %w", len(sentence), dict.ErrSentenceTooLong)
	}
	if len(sentence) == 0 {
		return nil, nil
	}
	w.spans = w.spans[:0]
	w.arena = w.arena[:0]
	w.decodeSpans(sentence)

	n := len(sentence)
	w.growNodesAt(n)

	bosIdx := w.pushNode(node{rightID: 0, cost: 0, back: -1})
	w.nodesAt[0] = append(w.nodesAt[0], bosIdx)

	spanIdx := make(map[int]int, len(w.spans)) // byte offset -> index into w.spans
	for i, sp := range w.spans {
		spanIdx[sp.Off] = i
	}

	for i := 0; i <= n; i++ {
		if len(w.nodesAt[i]) == 0 {
			continue
		}
		if w.hasSpace && w.cfg.IgnoreSpace {
			if si, ok := spanIdx[i]; ok && w.spans[si].R != utf8.RuneError {
				if w.d.CharProp.Categorize(w.spans[si].R).Test(uint(w.spaceCat)) {
					runEnd := w.spaceRunEnd(si)
					for _, idx := range w.nodesAt[i] {
						e := w.arena[idx]
						w.relax(runEnd, node{rightID: e.rightID, cost: e.cost, back: idx})
					}
					continue
				}
			}
		}

		si, ok := spanIdx[i]
		var tail []dict.RuneSpan
		if ok {
			tail = w.spans[si:]
		}

		matches := w.d.Lexicon.CommonPrefixSearchWithUser(sentence, i, w.d.UserLexicon)
		hasKnown := len(matches) > 0

		for _, idx := range w.nodesAt[i] {
			e := w.arena[idx]
			for _, m := range matches {
				j := i + m.Len
				c := e.cost + int64(w.d.Connector.Cost(e.rightID, m.Entry.LeftID)) + int64(m.Entry.Cost)
				w.relax(j, node{
					rightID: m.Entry.RightID, leftID: m.Entry.LeftID, cost: c, back: idx, hasToken: true,
					startByte: i, endByte: j, featureID: m.Entry.FeatureID,
				})
			}
			if tail != nil {
				for _, cand := range w.d.UnknownGen.Generate(tail, i, hasKnown, w.cfg.MaxGroupingLen) {
					j := i + cand.Len
					c := e.cost + int64(w.d.Connector.Cost(e.rightID, cand.Entry.LeftID)) + int64(cand.Entry.Cost)
					w.relax(j, node{
						rightID: cand.Entry.RightID, leftID: cand.Entry.LeftID, cost: c, back: idx, hasToken: true,
						startByte: i, endByte: j, featureID: cand.Entry.FeatureID, isUnknown: true,
					})
				}
			}
		}
	}

	if len(w.nodesAt[n]) == 0 {
		return nil, fmt.Errorf("vibrato: lattice disconnected at position %d", n)
	}

	best := -1
	var bestCost int64
	for _, idx := range w.nodesAt[n] {
		e := w.arena[idx]
		final := e.cost + int64(w.d.Connector.Cost(e.rightID, 0))
		if best == -1 || final < bestCost {
			best = idx
			bestCost = final
		}
	}

	return w.backtrace(sentence, best), nil
}

func (w *Worker) decodeSpans(sentence []byte) {
	for i := 0; i < len(sentence); {
		r, size := utf8.DecodeRune(sentence[i:])
		w.spans = append(w.spans, dict.RuneSpan{R: r, Off: i, Size: size})
		i += size
	}
}

// spaceRunEnd returns the byte offset just past the run of consecutive
// SPACE-category characters starting at span index si.
func (w *Worker) spaceRunEnd(si int) int {
	j := si
	for j < len(w.spans) && w.d.CharProp.Categorize(w.spans[j].R).Test(uint(w.spaceCat)) {
		j++
	}
	if j == len(w.spans) {
		last := w.spans[len(w.spans)-1]
		return last.Off + last.Size
	}
	return w.spans[j].Off
}

func (w *Worker) pushNode(n node) int {
	w.arena = append(w.arena, n)
	return len(w.arena) - 1
}

// relax records n as an end-node at byte position pos if it improves (or
// introduces) the best cost among existing nodes sharing n.rightID there.
// Ties are left untouched, preserving first-seen insertion order
// (spec.md §4.6 tie-breaking rule).
func (w *Worker) relax(pos int, n node) {
	for _, idx := range w.nodesAt[pos] {
		if w.arena[idx].rightID == n.rightID {
			if n.cost < w.arena[idx].cost {
				w.arena[idx] = n
			}
			return
		}
	}
	idx := w.pushNode(n)
	w.nodesAt[pos] = append(w.nodesAt[pos], idx)
}

func (w *Worker) backtrace(sentence []byte, eos int) []Token {
	var tokens []Token
	for idx := eos; idx != -1; idx = w.arena[idx].back {
		n := w.arena[idx]
		if !n.hasToken {
			continue
		}
		tokens = append(tokens, Token{
			Surface:   string(sentence[n.startByte:n.endByte]),
			Feature:   w.d.Features.Get(n.featureID),
			StartByte: n.startByte,
			EndByte:   n.endByte,
			IsUnknown: n.isUnknown,
			LeftID:    n.leftID,
			RightID:   n.rightID,
		})
	}
	for i, j := 0, len(tokens)-1; i < j; i, j = i+1, j-1 {
		tokens[i], tokens[j] = tokens[j], tokens[i]
	}
	return tokens
}
