// Package vibrato is the public facade: load a compiled dictionary, open
// Tokenizers against it, and decode sentences. It plays the role the
// teacher's analyzer package plays for steosmorphy — LoadMorphAnalyzer
// becomes Open, Analyze becomes Tokenize, ParseList becomes TokenizeAll —
// but the underlying model is Viterbi segmentation over a MeCab-format
// dictionary rather than Russian inflection lookup.
package vibrato

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/vibrato-go/vibrato/dict"
	"github.com/vibrato-go/vibrato/lattice"
)

// Config re-exports lattice.Config so callers need not import the
// internal lattice package directly for the common case.
type Config = lattice.Config

// Token re-exports lattice.Token.
type Token = lattice.Token

// Tokenizer owns a loaded Dictionary and hands out Workers. A Tokenizer
// is immutable and safe to share across goroutines; each goroutine should
// hold its own Worker (spec.md §5).
type Tokenizer struct {
	dict *dict.Dictionary
	cfg  Config
}

// Open loads a compiled dictionary file and returns a ready Tokenizer.
func Open(dictPath string, cfg Config) (*Tokenizer, error) {
	d, err := dict.Load(dictPath, dict.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("opening dictionary %s: %w", dictPath, err)
	}
	return &Tokenizer{dict: d, cfg: cfg}, nil
}

// OpenWithUserLexicon is Open plus a user-dictionary overlay, merged into
// every lattice lookup (spec.md §3 UserLexicon).
func OpenWithUserLexicon(dictPath string, cfg Config, ul *dict.UserLexicon) (*Tokenizer, error) {
	t, err := Open(dictPath, cfg)
	if err != nil {
		return nil, err
	}
	t.dict.AttachUserLexicon(ul)
	return t, nil
}

// Close releases the underlying mmap'd dictionary.
func (t *Tokenizer) Close() error { return t.dict.Close() }

// Dictionary returns the Tokenizer's underlying compiled dictionary, for
// callers that need direct access to its Connector or Lexicon (e.g.
// dictbuild's connection-id remapping pass).
func (t *Tokenizer) Dictionary() *dict.Dictionary { return t.dict }

// NewWorker returns a fresh per-goroutine Worker bound to this Tokenizer's
// dictionary and options.
func (t *Tokenizer) NewWorker() *Worker {
	return &Worker{inner: lattice.NewWorker(t.dict, t.cfg)}
}

// Worker decodes one sentence at a time; own it exclusively within one
// goroutine (spec.md §5).
type Worker struct {
	inner *lattice.Worker
}

// Tokenize returns the maximum-likelihood segmentation of sentence.
func (w *Worker) Tokenize(sentence []byte) ([]Token, error) {
	return w.inner.Tokenize(sentence)
}

// TokenizeString is Tokenize over a string, avoiding a caller-side []byte
// conversion when the input is already a string.
func (w *Worker) TokenizeString(sentence string) ([]Token, error) {
	return w.inner.Tokenize([]byte(sentence))
}

// TokenizeAll tokenizes many sentences concurrently using a fixed pool of
// Workers sized to runtime.NumCPU (at most one per sentence), then returns
// results in input order. This mirrors the teacher's ParseList/InflectList
// dispatcher feeding worker goroutines, except that each goroutine writes
// its result into an index-addressed slice instead of a collector channel,
// and each keeps its own Worker so Viterbi decoding across
// sentences never shares lattice state (unlike steosmorphy's stateless
// trie lookups, a Worker's arena is mutated in place per sentence).
func (t *Tokenizer) TokenizeAll(sentences [][]byte) ([][]Token, []error) {
	n := len(sentences)
	results := make([][]Token, n)
	errs := make([]error, n)

	numWorkers := runtime.NumCPU()
	if numWorkers > n {
		numWorkers = n
	}
	if numWorkers == 0 {
		return results, errs
	}

	type job struct {
		idx int
		in  []byte
	}
	jobs := make(chan job, numWorkers)

	var wg sync.WaitGroup
	wg.Add(numWorkers)
	for i := 0; i < numWorkers; i++ {
		go func() {
			defer wg.Done()
			w := t.NewWorker()
			for j := range jobs {
				toks, err := w.Tokenize(j.in)
				results[j.idx] = toks
				errs[j.idx] = err
			}
		}()
	}

	for i, s := range sentences {
		jobs <- job{idx: i, in: s}
	}
	close(jobs)
	wg.Wait()

	return results, errs
}
