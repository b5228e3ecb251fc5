package engine

import "fmt"

// Code is one of spec §7's error categories. The thread-local "last
// error" slot spec §7 describes is modeled here as the Engine's own
// lastErr field (one engine per goroutine-safe handle, not a true
// thread-local), set by every fallible Engine method.
type Code string

const (
	CodeBadParam       Code = "bad_param"
	CodeNoMemory       Code = "no_memory"
	CodeHeapCorrupted  Code = "heap_corrupted"
	CodeInvalidPointer Code = "invalid_pointer"
	CodeBadObject      Code = "bad_object"
	CodeUnexpectedCall Code = "unexpected_call"
	CodeOutOfBounds    Code = "out_of_bounds"
	CodeBadLength      Code = "bad_length"
	CodeBufferTooSmall Code = "buffer_too_small"
	CodeDataCorrupted  Code = "data_corrupted"
	CodeInternal       Code = "internal"
	CodeNotSupported   Code = "not_supported"
)

// ApiError is the host-facing error shape for the narrowed API in
// engine.go: {code, file, line} per spec §7, plus a human message.
type ApiError struct {
	Code    Code
	File    string
	Line    int
	Message string
}

func (e *ApiError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s:%d)", e.Code, e.Message, e.File, e.Line)
}

func apiErrorf(code Code, format string, args ...interface{}) *ApiError {
	return &ApiError{Code: code, Message: fmt.Sprintf(format, args...)}
}
