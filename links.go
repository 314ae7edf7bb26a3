package wikilinks

import (
	"bytes"
)

// FindLinks finds all the links from within an article body.
//
// A link is whatever sits between a [[ and the next ], left exactly as
// written, so "[[Beta|Beta Label]]" comes back as "Beta|Beta Label".
// Nothing nests.  A [ that isn't followed by another [ eats the byte
// after it, so "[x[[y]]" still finds y but "[[[y]]" finds "[y".  A run
// with no closing ] is dropped.
func FindLinks(text []byte) []string {
	var rv []string
	for len(text) > 0 {
		i := bytes.IndexByte(text, '[')
		if i < 0 || i+1 >= len(text) {
			break
		}
		next := text[i+1]
		text = text[i+2:]
		if next != '[' {
			continue
		}

		end := bytes.IndexByte(text, ']')
		if end < 0 {
			break
		}
		rv = append(rv, string(text[:end]))
		text = text[end+1:]
	}
	return rv
}
