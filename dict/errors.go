package dict

import "errors"

// Error taxonomy. Each sentinel is wrapped with file/line or I/O context
// via fmt.Errorf("...: %w", err) at the call site, the same way the
// teacher analyzer wraps os/gzip/gob failures.
var (
	// ErrInputParse marks a malformed CSV/matrix/char.def line.
	ErrInputParse = errors.New("vibrato: malformed dictionary source")
	// ErrInvalidID marks a connection id outside its declared range.
	ErrInvalidID = errors.New("vibrato: connection id out of range")
	// ErrVersionMismatch marks a binary dictionary magic/version mismatch.
	ErrVersionMismatch = errors.New("vibrato: dictionary version mismatch")
	// ErrSentenceTooLong marks an input exceeding the configured byte cap.
	ErrSentenceTooLong = errors.New("vibrato: sentence exceeds maximum length")
	// ErrIoTooSmall marks a dictionary blob too short to hold its header.
	ErrIoTooSmall = errors.New("vibrato: dictionary file too small")
)
