package apperror

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// TestError_Error checks the rendered message format.
func TestError_Error(t *testing.T) {
	cause := errors.New("z-factor diverged")

	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "plain",
			err:      New(CodeInvalidGeometry, "no segments"),
			expected: "[INVALID_GEOMETRY] no segments",
		},
		{
			name:     "with field",
			err:      NewWithField(CodeInvalidRates, "oil rate is negative", "fluid.oil_rate"),
			expected: "[INVALID_RATES] oil rate is negative (field: fluid.oil_rate)",
		},
		{
			name:     "with cause",
			err:      Wrap(cause, CodePropertyFailure, "fluid properties unavailable"),
			expected: "[PROPERTY_FAILURE] fluid properties unavailable: z-factor diverged",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, CodeInternal, "wrapped")

	if !errors.Is(err, cause) {
		t.Errorf("errors.Is(wrapped, cause) = false")
	}
	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
}

// TestError_GRPCStatus checks the code mapping table.
func TestError_GRPCStatus(t *testing.T) {
	tests := []struct {
		code ErrorCode
		want codes.Code
	}{
		{CodeInvalidGeometry, codes.InvalidArgument},
		{CodeUnknownMethod, codes.InvalidArgument},
		{CodePropertyFailure, codes.FailedPrecondition},
		{CodeCalculationFailed, codes.Aborted},
		{CodeTimeout, codes.DeadlineExceeded},
		{CodeNotFound, codes.NotFound},
		{CodeInternal, codes.Internal},
		{ErrorCode("SOMETHING_ELSE"), codes.Internal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			st := New(tt.code, "msg").GRPCStatus()
			if st.Code() != tt.want {
				t.Errorf("GRPCStatus().Code() = %v, want %v", st.Code(), tt.want)
			}
		})
	}
}

func TestToGRPC_FromGRPC(t *testing.T) {
	if ToGRPC(nil) != nil {
		t.Fatal("ToGRPC(nil) must be nil")
	}

	err := ToGRPC(New(CodeInvalidSurvey, "survey not sorted"))
	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.InvalidArgument {
		t.Fatalf("unexpected status %v", err)
	}

	back := FromGRPC(err)
	if back.Code != CodeInvalidInput || back.Message != "survey not sorted" {
		t.Errorf("FromGRPC() = %v", back)
	}

	plain := ToGRPC(errors.New("plain"))
	if st, _ := status.FromError(plain); st.Code() != codes.Internal {
		t.Errorf("plain error mapped to %v", st.Code())
	}

	if got := FromGRPC(errors.New("not a status")); got.Code != CodeInternal {
		t.Errorf("FromGRPC(plain).Code = %v", got.Code)
	}
}

func TestIsAndCode(t *testing.T) {
	base := New(CodePropertyFailure, "pvt failed")
	wrapped := fmt.Errorf("step 12: %w", base)

	if !Is(wrapped, CodePropertyFailure) {
		t.Error("Is() must see through fmt wrapping")
	}
	if Is(wrapped, CodeTimeout) {
		t.Error("Is() matched a different code")
	}
	if Code(wrapped) != CodePropertyFailure {
		t.Errorf("Code() = %v", Code(wrapped))
	}
	if Code(errors.New("x")) != CodeInternal {
		t.Error("foreign errors must map to CodeInternal")
	}
}

func TestSeverity(t *testing.T) {
	if !IsWarning(NewWarning(CodeTargetNotConverged, "x")) {
		t.Error("IsWarning() = false")
	}
	if !IsCritical(NewCritical(CodeInternal, "x")) {
		t.Error("IsCritical() = false")
	}
	if IsWarning(errors.New("x")) {
		t.Error("IsWarning(plain) = true")
	}
	if got := Severity(42).String(); got != "unknown" {
		t.Errorf("String() = %q", got)
	}
}

func TestClone_DoesNotMutatePredefined(t *testing.T) {
	c := ErrUnknownMethod.Clone().WithDetails("method", "nope")

	if _, ok := ErrUnknownMethod.Details["method"]; ok {
		t.Error("predefined error was mutated")
	}
	if c.Details["method"] != "nope" {
		t.Errorf("clone details = %v", c.Details)
	}
}

func TestValidationErrors(t *testing.T) {
	v := NewValidationErrors()
	if v.Err() != nil {
		t.Fatal("empty collection must be valid")
	}

	v.AddErrorWithField(CodeInvalidGeometry, "segment 0 has zero diameter", "geometry.segments[0].diameter")
	v.AddErrorWithField(CodeInvalidRates, "negative water rate", "fluid.water_rate")
	v.AddWarning(CodeInvalidSurvey, "survey ignored")

	other := NewValidationErrors()
	other.AddError(CodeInvalidInput, "surface pressure must be positive")
	v.Merge(other)
	v.Merge(nil)

	if !v.HasErrors() || !v.HasWarnings() || v.IsValid() {
		t.Fatal("unexpected validity flags")
	}
	if len(v.ErrorMessages()) != 3 {
		t.Errorf("ErrorMessages() = %v", v.ErrorMessages())
	}
	if got := v.WarningMessages(); len(got) != 1 || got[0] != "survey ignored" {
		t.Errorf("WarningMessages() = %v", got)
	}
	if got := v.Fields(); len(got) != 2 || got[0] != "fluid.water_rate" {
		t.Errorf("Fields() = %v", got)
	}

	err := v.Err()
	if Code(err) != CodeInvalidGeometry {
		t.Errorf("Err() code = %v", Code(err))
	}
	msgs, _ := DetailsOf(err)["errors"].([]string)
	if len(msgs) != 3 {
		t.Errorf("errors detail = %v", msgs)
	}
	if v.Errors[0].Details["errors"] != nil {
		t.Error("Err() must not decorate collected errors")
	}
}
