package util

import "fmt"

// Assert panics when cond is false.
func Assert(cond bool) {
	if !cond {
		panic("assert fail")
	}
}

// Assertf panics with a formatted message when cond is false. Arguments are
// only formatted on failure.
func Assertf(cond bool, format string, args ...interface{}) {
	if !cond {
		panic("assert fail: " + fmt.Sprintf(format, args...))
	}
}
