package graph

import "fmt"

type OperationErrorCode string

const (
	OperationErrorInvalidEntity     OperationErrorCode = "invalid_entity"
	OperationErrorDanglingReference OperationErrorCode = "dangling_reference"
	OperationErrorUnsafeQuery       OperationErrorCode = "unsafe_query"
	OperationErrorTranslationFailed OperationErrorCode = "translation_failed"
	OperationErrorExecutionFailed   OperationErrorCode = "execution_error"
	OperationErrorWriteFailed       OperationErrorCode = "write_failed"
)

// OperationError is the typed failure for graph and query operations. Code
// identifies the taxonomy bucket; Cause carries the store or client error.
type OperationError struct {
	Code      OperationErrorCode
	Operation string
	Message   string
	Cause     error
}

func (e *OperationError) Error() string {
	if e == nil {
		return "graph operation failed"
	}
	if e.Message != "" {
		return fmt.Sprintf("graph operation failed (op=%s code=%s): %s", e.Operation, e.Code, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("graph operation failed (op=%s code=%s): %v", e.Operation, e.Code, e.Cause)
	}
	return fmt.Sprintf("graph operation failed (op=%s code=%s)", e.Operation, e.Code)
}

func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func opErr(op string, code OperationErrorCode, msg string, cause error) error {
	return &OperationError{Code: code, Operation: op, Message: msg, Cause: cause}
}
