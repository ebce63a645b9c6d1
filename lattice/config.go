// Package lattice builds per-sentence word lattices over a dict.Dictionary
// and decodes them with Viterbi search (spec.md §4.6, §9 "Dynamic
// configuration").
package lattice

// Config is the small, by-value set of recognized tokenizer options,
// passed to NewWorker. Re-tokenizing with a different Config requires a
// new Worker (Config is fixed for a Worker's lifetime, matching spec.md
// §9: "Passed by value at Worker construction").
type Config struct {
	// IgnoreSpace enables MeCab's -S compatibility mode: runs of the
	// SPACE category are stripped from surface positions and skipped
	// rather than tokenized.
	IgnoreSpace bool
	// MaxGroupingLen caps grouped OOV candidate length globally (the -M
	// CLI flag; MeCab's default is 24). 0 means unlimited.
	MaxGroupingLen uint16
}

// DefaultMaxGroupingLen is MeCab's -M default.
const DefaultMaxGroupingLen = 24

// DefaultSentenceByteLimit is spec.md §7's SentenceTooLong cap (2^24 bytes).
const DefaultSentenceByteLimit = 1 << 24
