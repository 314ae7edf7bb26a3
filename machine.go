package wikilinks

import (
	"fmt"
)

// State is where the page state machine is within the dump.
type State int

const (
	Idle State = iota
	FoundPage
	FoundTitleStart
	FoundTitleEnd
	FoundText
	Done
)

var stateNames = [...]string{
	Idle:            "Idle",
	FoundPage:       "FoundPage",
	FoundTitleStart: "FoundTitleStart",
	FoundTitleEnd:   "FoundTitleEnd",
	FoundText:       "FoundText",
	Done:            "Done",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Action is what the caller of Step should do with the event.
type Action int

const (
	Continue Action = iota
	// RecordTitle appends the event's data to the current title.
	RecordTitle
	// Emit runs the link extractor on the event's data and
	// produces a PageRecord.
	Emit
	// Resync drops the page in progress.
	Resync
	// Fatal stops the scan.
	Fatal
)

func (a Action) String() string {
	switch a {
	case Continue:
		return "Continue"
	case RecordTitle:
		return "RecordTitle"
	case Emit:
		return "Emit"
	case Resync:
		return "Resync"
	case Fatal:
		return "Fatal"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Policy decides what happens when an event shows up in a state that
// doesn't expect it.
type Policy int

const (
	// ResyncOnInvalid forgets the page in progress and goes back to
	// looking for the next <page>.
	ResyncOnInvalid Policy = iota
	// FatalOnInvalid gives up on the whole partition.
	FatalOnInvalid
)

func (p Policy) invalid() (State, Action) {
	if p == FatalOnInvalid {
		return Done, Fatal
	}
	return Idle, Resync
}

// Step is the transition function of the page state machine.  It's
// defined for every state and event.
func (p Policy) Step(s State, ev Event) (State, Action) {
	if s == Done {
		return Done, Continue
	}
	if ev.Kind == EndOfStream {
		return Done, Continue
	}

	switch s {
	case Idle:
		if ev.Kind == StartTag && ev.Name == "page" {
			return FoundPage, Continue
		}
		return Idle, Continue

	case FoundPage:
		if ev.Kind == StartTag && ev.Name == "title" {
			return FoundTitleStart, Continue
		}
		return FoundPage, Continue

	case FoundTitleStart:
		switch {
		case ev.Kind == Text:
			return FoundTitleStart, RecordTitle
		case ev.Kind == EndTag && ev.Name == "title":
			return FoundTitleEnd, Continue
		case ev.Kind == Malformed:
			return Idle, Resync
		}
		return p.invalid()

	case FoundTitleEnd:
		if ev.Kind == StartTag && ev.Name == "text" {
			return FoundText, Continue
		}
		return FoundTitleEnd, Continue

	case FoundText:
		switch {
		case ev.Kind == Text:
			return Idle, Emit
		case ev.Kind == EndTag && ev.Name == "text":
			// <text/> and friends.
			return Idle, Emit
		case ev.Kind == Malformed:
			return Idle, Resync
		}
		return p.invalid()
	}

	return p.invalid()
}

// PageRecord is what comes out of a page.
type PageRecord struct {
	Title string
	Links []string
}

// A Machine runs Step over a stream of events, holding onto the
// title until the body shows up.
type Machine struct {
	Policy Policy

	state State
	title []byte
}

// State gets the machine's current state.
func (m *Machine) State() State { return m.state }

// Feed the machine an event.  If the event completed a page, the
// record is returned with ok set.  The returned action lets the
// caller count resyncs.
func (m *Machine) Feed(ev Event) (rec PageRecord, ok bool, act Action, err error) {
	prev := m.state
	m.state, act = m.Policy.Step(m.state, ev)

	switch act {
	case RecordTitle:
		m.title = append(m.title, ev.Data...)
	case Emit:
		if ev.Kind == Text {
			rec.Links = FindLinks(ev.Data)
		}
		rec.Title = string(m.title)
		ok = true
		m.title = m.title[:0]
	case Resync:
		m.title = m.title[:0]
	case Fatal:
		err = &InvalidStateError{State: prev, Event: detach(ev)}
	}
	return rec, ok, act, err
}

// Event data points into the decoder's buffer.
func detach(ev Event) Event {
	if ev.Data != nil {
		ev.Data = append([]byte(nil), ev.Data...)
	}
	return ev
}
