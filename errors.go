package wikilinks

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrInvalidState is matched by every InvalidStateError.
	ErrInvalidState = errors.New("invalid parser state")
	// ErrIO wraps read failures on the underlying dump.
	ErrIO = errors.New("io error")
)

// A MalformedError describes an ill-formed fragment the tokenizer
// skipped over.  It's never fatal on its own.
type MalformedError struct {
	Offset   int64
	Msg      string
	Encoding bool // the fragment wasn't valid UTF-8
}

func (e *MalformedError) Error() string {
	if e.Encoding {
		return fmt.Sprintf("bad encoding at offset %d: %s", e.Offset, e.Msg)
	}
	return fmt.Sprintf("malformed xml at offset %d: %s", e.Offset, e.Msg)
}

// An InvalidStateError is an event that arrived when the state machine
// didn't expect it.
type InvalidStateError struct {
	State State
	Event Event
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("invalid state %v for %v at offset %d",
		e.State, e.Event, e.Event.Offset)
}

func (e *InvalidStateError) Unwrap() error { return ErrInvalidState }

// A StoreError is a failed batch flush.  The batch is lost.
type StoreError struct {
	Size int
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storing batch of %d pages: %v", e.Size, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// ErrorKind buckets errors by how the pipeline treats them.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMalformedFragment
	KindEncoding
	KindInvalidState
	KindIO
	KindStore
)

var kindNames = map[ErrorKind]string{
	KindUnknown:           "unknown",
	KindMalformedFragment: "malformed fragment",
	KindEncoding:          "encoding",
	KindInvalidState:      "invalid state transition",
	KindIO:                "io",
	KindStore:             "store",
}

func (k ErrorKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Classify finds the kind of err by walking its wrap chain.
func Classify(err error) ErrorKind {
	var (
		me *MalformedError
		se *StoreError
		pe *fs.PathError
	)
	switch {
	case err == nil:
		return KindUnknown
	case errors.As(err, &se):
		return KindStore
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.As(err, &me):
		if me.Encoding {
			return KindEncoding
		}
		return KindMalformedFragment
	case errors.Is(err, ErrIO), errors.As(err, &pe):
		return KindIO
	}
	return KindUnknown
}
