// Package fetch retrieves object bytes from the backing store.
//
// A ranged fetch issues the data request and the size lookup concurrently and
// joins them before the result is handed on. A full fetch skips the size
// lookup. Either way the body is streamed, never buffered, and the caller owns
// it once Fetch returns.
package fetch
