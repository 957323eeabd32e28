//go:build !debug

package debug

// Enabled reports whether assertions are compiled in.
const Enabled = false

// Assert is a no-op when not built with the 'debug' tag.
func Assert(cond bool, format string, args ...interface{}) {}
