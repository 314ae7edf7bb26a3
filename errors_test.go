package wikilinks

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		err error
		exp ErrorKind
	}{
		{nil, KindUnknown},
		{errors.New("something"), KindUnknown},
		{&MalformedError{Msg: "invalid XML name"}, KindMalformedFragment},
		{&MalformedError{Msg: "invalid UTF-8", Encoding: true}, KindEncoding},
		{fmt.Errorf("partition 1: %w", &InvalidStateError{State: FoundPage, Event: Event{Kind: StartTag, Name: "page"}}),
			KindInvalidState},
		{fmt.Errorf("%w: reading at offset 9: boom", ErrIO), KindIO},
		{&fs.PathError{Op: "open", Path: "x.xml", Err: fs.ErrNotExist}, KindIO},
		{fmt.Errorf("writer 2: %w", &StoreError{Size: 1000, Err: errors.New("conn reset")}), KindStore},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, Classify(test.err), "%v", test.err)
	}
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "invalid state transition", KindInvalidState.String())
	assert.Equal(t, "store", KindStore.String())
	assert.Equal(t, "ErrorKind(42)", ErrorKind(42).String())
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "malformed xml at offset 12: invalid XML name",
		(&MalformedError{Offset: 12, Msg: "invalid XML name"}).Error())
	assert.Equal(t, "bad encoding at offset 3: invalid UTF-8",
		(&MalformedError{Offset: 3, Msg: "invalid UTF-8", Encoding: true}).Error())

	inner := errors.New("timeout")
	se := &StoreError{Size: 10, Err: inner}
	assert.Equal(t, "storing batch of 10 pages: timeout", se.Error())
	assert.ErrorIs(t, se, inner)

	ise := &InvalidStateError{State: FoundPage, Event: Event{Kind: StartTag, Name: "page", Offset: 40}}
	assert.ErrorIs(t, ise, ErrInvalidState)
	assert.Contains(t, ise.Error(), "<page>")
	assert.Contains(t, ise.Error(), "offset 40")
}
