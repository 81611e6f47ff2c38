// Package linecache derives a line number -> (byte offset, byte length)
// index from a piece table. The cache is invalidated by every mutation
// and rebuilt lazily, by a single left-to-right scan, on the next query.
// Incremental updates are not required: the contract only promises a
// consistent rebuild on demand.
package linecache
