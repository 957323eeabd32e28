//go:build debug

package debug

import "fmt"

// Enabled reports whether assertions are compiled in.
const Enabled = true

// Assert panics with the formatted message when cond is false.
//
// Only built with the 'debug' tag. The message is formatted after the
// check so the passing path does not allocate.
func Assert(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	panic(fmt.Sprintf("assertion failed: "+format, args...))
}
