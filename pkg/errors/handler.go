package errors

import (
	"runtime"
	"strconv"
	"strings"
	"time"
)

// RecoverWithCallback is a helper for deferred panic recovery. The recovered
// panic is handed to callback as a PanicError.
// Usage: defer errors.RecoverWithCallback("operation.name", report)
func RecoverWithCallback(op string, callback func(err *PanicError)) {
	if r := recover(); r != nil {
		if callback != nil {
			callback(&PanicError{
				Op:         op,
				Value:      r,
				StackTrace: CaptureStack(),
				Timestamp:  time.Now(),
			})
		}
	}
}

// CaptureStack returns the current call stack as a string.
// It skips the first few frames to exclude the CaptureStack call itself.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
