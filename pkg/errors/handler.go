package errors

import (
	"runtime/debug"
	"sync/atomic"
	"time"
)

type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() {
	SetHandler(nil)
}

// SetHandler installs the process-wide error handler. Nil restores a
// LogHandler writing to stderr.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	current.Store(&handlerBox{h: h})
}

// Handler returns the installed error handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// Report hands err to the installed handler, stamping it if needed.
func Report(err *EmojiError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic hands a recovered panic to the installed handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// Recover reports a panic in the calling goroutine. Use it deferred:
//
//	defer errors.Recover("loader.Load")
func Recover(op string) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
	}
}

// RecoverWithCallback is Recover followed by callback(r), letting the
// caller replace its results after a panic.
func RecoverWithCallback(op string, callback func(r any)) {
	if r := recover(); r != nil {
		reportRecovered(op, r)
		if callback != nil {
			callback(r)
		}
	}
}

func reportRecovered(op string, r any) {
	ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
}

// CaptureStack returns the calling goroutine's stack.
func CaptureStack() string {
	return string(debug.Stack())
}
