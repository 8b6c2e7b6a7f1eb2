// Package iox provides small I/O cleanup helpers.
package iox

import "io"

// DiscardClose closes c, ignoring the error. For defers where a close
// failure is unactionable:
//
//	defer iox.DiscardClose(resp.Body)
func DiscardClose(c io.Closer) { _ = c.Close() }

// CloseFunc wraps c's Close for t.Cleanup registration:
//
//	t.Cleanup(iox.CloseFunc(a))
func CloseFunc(c io.Closer) func() {
	return func() { _ = c.Close() }
}
