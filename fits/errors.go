package fits

import (
	"errors"
	"fmt"
)

// Sentinel errors. The typed errors below match them with errors.Is.
var (
	ErrIO               = errors.New("fits: read failed")
	ErrTruncatedBlock   = errors.New("fits: truncated block")
	ErrInvalidKey       = errors.New("fits: invalid header key")
	ErrMalformedString  = errors.New("fits: malformed string")
	ErrMissingAxisEntry = errors.New("fits: missing axis entry")
	ErrInvalidAxis      = errors.New("fits: invalid axis entry")
	ErrMissingEnd       = errors.New("fits: missing END card")
	ErrTruncatedData    = errors.New("fits: truncated data unit")
)

// IOError wraps a failure of the underlying block source.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return "fits: read failed: " + e.Err.Error() }

func (e *IOError) Is(target error) bool { return target == ErrIO }

func (e *IOError) Unwrap() error { return e.Err }

// TruncatedBlockError reports a block shorter than BlockLength.
type TruncatedBlockError struct {
	Block int // zero based block index
	N     int // bytes actually read
}

func (e *TruncatedBlockError) Error() string {
	return fmt.Sprintf("fits: truncated block %d: read %d of %d bytes", e.Block, e.N, BlockLength)
}

func (e *TruncatedBlockError) Is(target error) bool { return target == ErrTruncatedBlock }

// InvalidKeyError reports a key outside [A-Z0-9_-]{1,8}. Key holds the
// offending text verbatim.
type InvalidKeyError struct {
	Key  string
	Line int // zero based card index within the stream
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid header %q in file", e.Key)
}

func (e *InvalidKeyError) Is(target error) bool { return target == ErrInvalidKey }

// MalformedStringError reports a quoted value that does not open or
// never closes.
type MalformedStringError struct {
	Token  string
	Reason string
}

func (e *MalformedStringError) Error() string {
	return fmt.Sprintf("fits: string %q %s", e.Token, e.Reason)
}

func (e *MalformedStringError) Is(target error) bool { return target == ErrMalformedString }

// MissingAxisEntryError reports a NAXISn card announced by NAXIS but not
// present in the HDU.
type MissingAxisEntryError struct {
	HDU int
	Key string
}

func (e *MissingAxisEntryError) Error() string {
	return fmt.Sprintf("fits: hdu %d: missing axis entry %s", e.HDU, e.Key)
}

func (e *MissingAxisEntryError) Is(target error) bool { return target == ErrMissingAxisEntry }
