// Package apperror describes failures of hydraulic calculations as coded
// errors. Every error carries a stable code, a severity, an optional input
// field and free-form details (depth, pressure, method) so a caller can
// reproduce the failing calculation. Errors convert to gRPC statuses for
// services that embed the engine behind an RPC boundary.
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

const (
	// Input validation
	CodeInvalidInput    ErrorCode = "INVALID_INPUT"
	CodeInvalidGeometry ErrorCode = "INVALID_GEOMETRY"
	CodeInvalidRates    ErrorCode = "INVALID_RATES"
	CodeInvalidFluid    ErrorCode = "INVALID_FLUID"
	CodeInvalidSurvey   ErrorCode = "INVALID_SURVEY"
	CodeInvalidGasLift  ErrorCode = "INVALID_GAS_LIFT"
	CodeInvalidRange    ErrorCode = "INVALID_RANGE"
	CodeUnknownMethod   ErrorCode = "UNKNOWN_METHOD"
	CodeNilInput        ErrorCode = "NIL_INPUT"

	// Calculation
	CodePropertyFailure    ErrorCode = "PROPERTY_FAILURE"
	CodeCalculationFailed  ErrorCode = "CALCULATION_FAILED"
	CodeTargetNotConverged ErrorCode = "TARGET_NOT_CONVERGED"
	CodeNoSuccessfulMethod ErrorCode = "NO_SUCCESSFUL_METHOD"
	CodeTimeout            ErrorCode = "TIMEOUT"

	// General
	CodeInternal      ErrorCode = "INTERNAL_ERROR"
	CodeNotFound      ErrorCode = "NOT_FOUND"
	CodeUnavailable   ErrorCode = "UNAVAILABLE"
	CodeUnimplemented ErrorCode = "UNIMPLEMENTED"
)

// Severity is how bad an error is.
type Severity int

const (
	// SeverityWarning - результат пригоден, но требует внимания
	SeverityWarning Severity = iota
	// SeverityError - операция не выполнена
	SeverityError
	// SeverityCritical - нарушено внутреннее состояние
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// Error is an application error.
type Error struct {
	Code     ErrorCode
	Message  string
	Field    string         // input field that caused the error, if any
	Details  map[string]any // diagnostic context: depth, pressure, method, ...
	Cause    error
	Severity Severity
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)
	if e.Field != "" {
		fmt.Fprintf(&b, " (field: %s)", e.Field)
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// GRPCStatus lets status.FromError understand application errors.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(grpcCode(e.Code), e.Message)
}

var grpcCodes = map[ErrorCode]codes.Code{
	CodeInvalidInput:       codes.InvalidArgument,
	CodeInvalidGeometry:    codes.InvalidArgument,
	CodeInvalidRates:       codes.InvalidArgument,
	CodeInvalidFluid:       codes.InvalidArgument,
	CodeInvalidSurvey:      codes.InvalidArgument,
	CodeInvalidGasLift:     codes.InvalidArgument,
	CodeInvalidRange:       codes.InvalidArgument,
	CodeUnknownMethod:      codes.InvalidArgument,
	CodeNilInput:           codes.InvalidArgument,
	CodePropertyFailure:    codes.FailedPrecondition,
	CodeCalculationFailed:  codes.Aborted,
	CodeTargetNotConverged: codes.Aborted,
	CodeNoSuccessfulMethod: codes.FailedPrecondition,
	CodeTimeout:            codes.DeadlineExceeded,
	CodeNotFound:           codes.NotFound,
	CodeUnavailable:        codes.Unavailable,
	CodeUnimplemented:      codes.Unimplemented,
}

func grpcCode(code ErrorCode) codes.Code {
	if c, ok := grpcCodes[code]; ok {
		return c
	}
	return codes.Internal
}

func newError(code ErrorCode, message string, sev Severity) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Details:  make(map[string]any),
		Severity: sev,
	}
}

// New creates an error with SeverityError.
func New(code ErrorCode, message string) *Error {
	return newError(code, message, SeverityError)
}

// Newf is New with formatting.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return newError(code, fmt.Sprintf(format, args...), SeverityError)
}

// NewWithField creates an error bound to an input field.
func NewWithField(code ErrorCode, message, field string) *Error {
	return New(code, message).WithField(field)
}

// NewWarning creates an error with SeverityWarning.
func NewWarning(code ErrorCode, message string) *Error {
	return newError(code, message, SeverityWarning)
}

// NewCritical creates an error with SeverityCritical.
func NewCritical(code ErrorCode, message string) *Error {
	return newError(code, message, SeverityCritical)
}

// Wrap attaches a code and message to an underlying error.
func Wrap(cause error, code ErrorCode, message string) *Error {
	e := New(code, message)
	e.Cause = cause
	return e
}

func (e *Error) WithDetails(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

func (e *Error) WithField(field string) *Error {
	e.Field = field
	return e
}

func (e *Error) WithSeverity(s Severity) *Error {
	e.Severity = s
	return e
}

// Clone returns a copy that can be decorated without touching the original.
// Predefined errors must be cloned before WithDetails.
func (e *Error) Clone() *Error {
	c := *e
	c.Details = make(map[string]any, len(e.Details))
	for k, v := range e.Details {
		c.Details[k] = v
	}
	return &c
}

// Is reports whether any error in err's chain is an *Error with the code.
func Is(err error, code ErrorCode) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// Code returns the code of err, CodeInternal for foreign errors.
func Code(err error) ErrorCode {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

// DetailsOf returns the details of err or nil.
func DetailsOf(err error) map[string]any {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Details
	}
	return nil
}

// ToGRPC converts any error to a gRPC status error.
func ToGRPC(err error) error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.GRPCStatus().Err()
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Internal, err.Error())
}

// FromGRPC maps a gRPC status error back to an *Error.
func FromGRPC(err error) *Error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return New(CodeInternal, err.Error())
	}

	code := CodeInternal
	switch st.Code() {
	case codes.InvalidArgument:
		code = CodeInvalidInput
	case codes.NotFound:
		code = CodeNotFound
	case codes.DeadlineExceeded:
		code = CodeTimeout
	case codes.FailedPrecondition:
		code = CodePropertyFailure
	case codes.Aborted:
		code = CodeCalculationFailed
	case codes.Unavailable:
		code = CodeUnavailable
	case codes.Unimplemented:
		code = CodeUnimplemented
	}
	return New(code, st.Message())
}

func IsWarning(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Severity == SeverityWarning
}

func IsCritical(err error) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Severity == SeverityCritical
}

// Predefined errors. Clone before decorating.
var (
	ErrNilInput          = New(CodeNilInput, "input is nil")
	ErrNoSegments        = New(CodeInvalidGeometry, "wellbore geometry has no pipe segments")
	ErrUnknownMethod     = New(CodeUnknownMethod, "unknown correlation method")
	ErrTimeout           = New(CodeTimeout, "calculation timed out")
	ErrNoSuccessful      = New(CodeNoSuccessfulMethod, "no method produced a result")
	ErrTargetUnreachable = NewWarning(CodeTargetNotConverged, "target bottomhole pressure not reached")
)

// ValidationErrors collects every problem found in an input so that the caller
// sees all of them at once.
type ValidationErrors struct {
	Errors   []*Error
	Warnings []*Error
}

func NewValidationErrors() *ValidationErrors {
	return &ValidationErrors{
		Errors:   make([]*Error, 0),
		Warnings: make([]*Error, 0),
	}
}

// Add sorts err by severity.
func (v *ValidationErrors) Add(err *Error) {
	if err.Severity == SeverityWarning {
		v.Warnings = append(v.Warnings, err)
		return
	}
	v.Errors = append(v.Errors, err)
}

func (v *ValidationErrors) AddError(code ErrorCode, message string) {
	v.Add(New(code, message))
}

func (v *ValidationErrors) AddWarning(code ErrorCode, message string) {
	v.Add(NewWarning(code, message))
}

func (v *ValidationErrors) AddErrorWithField(code ErrorCode, message, field string) {
	v.Add(NewWithField(code, message, field))
}

func (v *ValidationErrors) HasErrors() bool   { return len(v.Errors) > 0 }
func (v *ValidationErrors) HasWarnings() bool { return len(v.Warnings) > 0 }
func (v *ValidationErrors) IsValid() bool     { return !v.HasErrors() }

func (v *ValidationErrors) Merge(other *ValidationErrors) {
	if other == nil {
		return
	}
	v.Errors = append(v.Errors, other.Errors...)
	v.Warnings = append(v.Warnings, other.Warnings...)
}

func (v *ValidationErrors) ErrorMessages() []string {
	messages := make([]string, len(v.Errors))
	for i, err := range v.Errors {
		messages[i] = err.Error()
	}
	return messages
}

func (v *ValidationErrors) WarningMessages() []string {
	messages := make([]string, len(v.Warnings))
	for i, w := range v.Warnings {
		messages[i] = w.Message
	}
	return messages
}

// Fields returns the distinct fields that have errors, sorted.
func (v *ValidationErrors) Fields() []string {
	seen := make(map[string]struct{})
	for _, err := range v.Errors {
		if err.Field != "" {
			seen[err.Field] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for f := range seen {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err folds the collection into a single error: the first error, with every
// message listed under the "errors" detail. Nil when valid.
func (v *ValidationErrors) Err() error {
	if v.IsValid() {
		return nil
	}
	first := v.Errors[0].Clone()
	first.WithDetails("errors", v.ErrorMessages())
	if len(v.Errors) > 1 {
		first.Message = fmt.Sprintf("%s (and %d more)", first.Message, len(v.Errors)-1)
	}
	return first
}
