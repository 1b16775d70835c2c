// Package assert implements contract checks for the compute core.
//
// Shape violations (mismatched lengths, bad strides, non-positive k) are
// programmer errors, not runtime conditions. A failed check panics with the
// operation name, the violated condition and the caller's location; there is
// no recoverable error path.
package assert

import (
	"fmt"
	"runtime"
)

// That panics if cond is false. op names the exported operation whose
// contract was violated; format and args describe the condition.
func That(cond bool, op, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	panic(fmt.Sprintf("vecscan: %s: %s at %s", op, msg, callerLocation()))
}

func callerLocation() string {
	// Skip callerLocation and That; report the call site of the check.
	if _, file, line, ok := runtime.Caller(2); ok {
		return fmt.Sprintf("%s:%d", file, line)
	}
	return "unknown"
}
