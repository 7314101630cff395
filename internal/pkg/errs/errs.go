// Package errs defines the error taxonomy shared by the order services and
// the HTTP layer: validation, not-found, forbidden, conflict and
// precondition failures. Each kind has a sentinel, a detail struct and
// constructors; the detail structs unwrap to their sentinel so callers
// classify with errors.Is and read details with errors.As.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("object not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrPrecondition = errors.New("precondition failed")
)

// ValidationError 输入校验失败，Details 为逐行/逐字段说明
type ValidationError struct {
	Message string
	Details []string
}

func NewValidationError(message string, details ...string) *ValidationError {
	return &ValidationError{Message: message, Details: details}
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s (%s)", ErrValidation, e.Message, strings.Join(e.Details, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NotFoundError 对象不存在
type NotFoundError struct {
	Object string
	ID     string
	Cause  error
}

func NewNotFoundError(object, id string) *NotFoundError {
	return &NotFoundError{Object: object, ID: id}
}

func NewNotFoundErrorWithCause(object, id string, cause error) *NotFoundError {
	return &NotFoundError{Object: object, ID: id, Cause: cause}
}

func (e *NotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s not found: %s (cause: %v)", e.Object, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s not found: %s", e.Object, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// ForbiddenError 角色缺少所需能力
type ForbiddenError struct {
	Capability string
}

func NewForbiddenError(capability string) *ForbiddenError {
	return &ForbiddenError{Capability: capability}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role not allowed: missing %s", e.Capability)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// ConflictError 业务键冲突，Keys 为冲突的键
type ConflictError struct {
	Message string
	Keys    []string
}

func NewConflictError(message string, keys ...string) *ConflictError {
	return &ConflictError{Message: message, Keys: keys}
}

func (e *ConflictError) Error() string {
	if len(e.Keys) == 0 {
		return fmt.Sprintf("%s: %s", ErrConflict, e.Message)
	}
	return fmt.Sprintf("%s: %s [%s]", ErrConflict, e.Message, strings.Join(e.Keys, ", "))
}

func (e *ConflictError) Unwrap() error {
	return ErrConflict
}

// PreconditionError 当前状态不满足操作前置条件
type PreconditionError struct {
	Condition string
}

func NewPreconditionError(condition string) *PreconditionError {
	return &PreconditionError{Condition: condition}
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: %s", ErrPrecondition, e.Condition)
}

func (e *PreconditionError) Unwrap() error {
	return ErrPrecondition
}
