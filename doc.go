// Package wikilinks streams the wikipedia xml dump format and pulls the
// title and [[link]] tokens out of every page.
//
// The dumps are available from the wikimedia group here:
//    http://dumps.wikimedia.org/
//
// The uncompressed enwiki pages-articles file is tens of gigabytes, so
// nothing here decodes a whole page into memory at once.  A dump is cut
// into byte ranges that are scanned concurrently, each with its own
// tokenizer and little state machine, and the resulting records are
// funneled through a bounded queue into a batch writer.
//
// Range boundaries don't have to line up with tags.  A scanner starting
// in the middle of the file sees garbage until the tokenizer catches the
// next well-formed tag, and a page is owned by whichever range holds its
// <page> tag.
//
// See tools/wikiload for a program that loads a dump into postgres,
// sqlite, couchbase, couchdb, elasticsearch or mongo.
package wikilinks
