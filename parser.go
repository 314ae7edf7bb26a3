package wikilinks

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// EventKind is the type of structural event coming out of an EventSource.
type EventKind int

const (
	StartTag EventKind = iota
	EndTag
	Text
	EndOfStream
	// Malformed isn't structure, it's the tokenizer saying it skipped
	// something it couldn't make sense of.
	Malformed
)

func (k EventKind) String() string {
	switch k {
	case StartTag:
		return "StartTag"
	case EndTag:
		return "EndTag"
	case Text:
		return "Text"
	case EndOfStream:
		return "EndOfStream"
	case Malformed:
		return "Malformed"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// An Event is one structural element of the dump.
type Event struct {
	Kind EventKind
	// Local tag name for StartTag and EndTag.
	Name string
	// Character data for Text.  It's only valid until the next call to
	// Next, so copy it if you need it.
	Data []byte
	// Absolute byte offset in the dump where the event began.
	Offset int64
	// Set for Malformed.
	Err *MalformedError
}

func (e Event) String() string {
	switch e.Kind {
	case StartTag:
		return "<" + e.Name + ">"
	case EndTag:
		return "</" + e.Name + ">"
	case Text:
		return fmt.Sprintf("Text(%d bytes)", len(e.Data))
	}
	return e.Kind.String()
}

// DefaultReadBuffer is the size of the buffered reader an EventSource
// puts in front of an unbuffered stream.
const DefaultReadBuffer = 1 << 20

// An EventSource is a streaming tokenizer over an xml dump.
//
// Ill-formed input never stops it.  When the decoder chokes, it's
// thrown away and a fresh one picks up from wherever the reader got
// to, so scanning resumes at the next tag that makes sense.
type EventSource struct {
	r     countingReader
	x     *xml.Decoder
	start int64
	base  int64
}

// countingReader knows how many bytes the decoder has pulled, which
// can be one past its InputOffset when it's holding a byte back.
type countingReader struct {
	*bufio.Reader
	n int64
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.Reader.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.Reader.Read(p)
	c.n += int64(n)
	return n, err
}

// NewEventSource gets an event source reading r, which is assumed to
// start at byte offset start of the dump.
func NewEventSource(r io.Reader, start int64) *EventSource {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, DefaultReadBuffer)
	}
	es := &EventSource{r: countingReader{Reader: br}, start: start}
	es.reset()
	return es
}

// The decoder reads a byte at a time, so a new one starts exactly
// where the old one stopped.  A byte the old decoder was holding back
// goes back into the reader first.
func (es *EventSource) reset() {
	if es.x != nil && es.start+es.r.n > es.Offset() {
		if err := es.r.Reader.UnreadByte(); err == nil {
			es.r.n--
		}
	}
	es.base = es.start + es.r.n
	es.x = xml.NewDecoder(&es.r)
	es.x.Strict = false
}

// Offset is the absolute position of the next unread byte.
func (es *EventSource) Offset() int64 {
	return es.base + es.x.InputOffset()
}

// Next gets the next event.
//
// The only errors returned are failures reading the underlying
// stream.  Once EndOfStream comes out, it keeps coming out.
func (es *EventSource) Next() (Event, error) {
	for {
		at := es.Offset()
		t, err := es.x.RawToken()
		if err != nil {
			return es.failed(at, err)
		}

		switch tok := t.(type) {
		case xml.StartElement:
			return Event{Kind: StartTag, Name: tok.Name.Local, Offset: at}, nil
		case xml.EndElement:
			return Event{Kind: EndTag, Name: tok.Name.Local, Offset: at}, nil
		case xml.CharData:
			return Event{Kind: Text, Data: tok, Offset: at}, nil
		}
		// Comments, directives and processing instructions.
	}
}

func (es *EventSource) failed(at int64, err error) (Event, error) {
	if err == io.EOF {
		return Event{Kind: EndOfStream, Offset: at}, nil
	}

	var se *xml.SyntaxError
	if !errors.As(err, &se) {
		return Event{}, fmt.Errorf("%w: reading at offset %d: %w", ErrIO, at, err)
	}

	es.reset()
	return Event{
		Kind:   Malformed,
		Offset: at,
		Err: &MalformedError{
			Offset:   at,
			Msg:      se.Msg,
			Encoding: strings.Contains(se.Msg, "UTF-8"),
		},
	}, nil
}
