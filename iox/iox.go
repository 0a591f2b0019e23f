// Package iox provides I/O helpers for resource cleanup.
package iox

import "io"

// DiscardClose closes c and discards the error.
// Use in defer statements where close errors are unactionable:
//
//	defer iox.DiscardClose(resp.Body)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc returns a cleanup function that closes c.
// Designed for t.Cleanup and b.Cleanup registration:
//
//	t.Cleanup(iox.CloseFunc(cacheFile))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}

// DrainClose reads up to limit bytes from r and then closes it, discarding
// both errors. Draining an HTTP response body before close lets the
// transport reuse the connection; the limit keeps a hostile or chatty
// server from turning a probe into an unbounded download:
//
//	defer iox.DrainClose(resp.Body, maxDrainBytes)
func DrainClose(r io.ReadCloser, limit int64) {
	_, _ = io.CopyN(io.Discard, r, limit)
	_ = r.Close()
}
