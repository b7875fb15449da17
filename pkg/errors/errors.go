// Package errors provides structured error reporting for emojicache.
//
// The animated emoji pipeline never propagates runtime failures to the
// consumers that paint an emoji: a corrupt cache file, a failed decode or a
// storage error degrades to the static preview. Those failures are reported
// here instead, so applications can log or collect them.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindCorrupt indicates a persisted cache blob that failed validation.
	KindCorrupt
	// KindDecode indicates a frame generator failure.
	KindDecode
	// KindFetch indicates a failure to obtain the raw animation source.
	KindFetch
	// KindStorage indicates a blob store read or write failure.
	KindStorage
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindCorrupt:
		return "corrupt"
	case KindDecode:
		return "decode"
	case KindFetch:
		return "fetch"
	case KindStorage:
		return "storage"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// EmojiError represents a structured, non-fatal error in the emoji pipeline.
type EmojiError struct {
	// Op is the operation that failed (e.g., "loader.Load").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Err is the underlying error.
	Err error
	// Entity is the entity data of the emoji involved, if any.
	Entity string
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *EmojiError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s [%s] entity=%s: %v", e.Op, e.Kind, e.Entity, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *EmojiError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "emoji.Renderer.decode").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// ErrorHandler receives errors reported by the emoji pipeline.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *EmojiError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
}
