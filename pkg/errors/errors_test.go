package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorText(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{New(ErrCodeInvalidInput, "pixel size must be > 0, got %g", -1.0), "INVALID_INPUT: pixel size must be > 0, got -1"},
		{Wrap(ErrCodeEmitFailure, errors.New("disk full"), "write %s", "logo.gds"), "EMIT_FAILURE: write logo.gds: disk full"},
		{New(ErrCodeMissingConstraint, "no layer %q", "metal3"), `MISSING_CONSTRAINT: no layer "metal3"`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestWrapUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(ErrCodeEmitFailure, cause, "write logo.gds")

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestCodeLookup(t *testing.T) {
	inner := New(ErrCodeInvalidInput, "inner")
	tests := []struct {
		name     string
		err      error
		code     Code
		wantIs   bool
		wantCode Code
		wantMsg  string
	}{
		{"direct", New(ErrCodeMissingConstraint, "metal3"), ErrCodeMissingConstraint, true, ErrCodeMissingConstraint, "metal3"},
		{"other code", New(ErrCodeInvalidInput, "x"), ErrCodeGeometryViolation, false, ErrCodeInvalidInput, "x"},
		{"outermost wins", Wrap(ErrCodeEmitFailure, inner, "outer"), ErrCodeEmitFailure, true, ErrCodeEmitFailure, "outer"},
		{"fmt wrapped", fmt.Errorf("stage synthesize: %w", New(ErrCodeUnresolvablePattern, "passes")), ErrCodeUnresolvablePattern, true, ErrCodeUnresolvablePattern, "passes"},
		{"plain", errors.New("plain error"), ErrCodeInvalidInput, false, "", "plain error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.wantIs {
				t.Errorf("Is() = %v, want %v", got, tt.wantIs)
			}
			if got := GetCode(tt.err); got != tt.wantCode {
				t.Errorf("GetCode() = %v, want %v", got, tt.wantCode)
			}
			if got := UserMessage(tt.err); got != tt.wantMsg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.wantMsg)
			}
		})
	}

	if Is(nil, ErrCodeInvalidInput) || GetCode(nil) != "" {
		t.Error("nil error should carry no code")
	}
}

func TestStdlibIsByCode(t *testing.T) {
	err := fmt.Errorf("convert: %w", New(ErrCodeGeometryViolation, "shape 12 exceeds 4.5 um"))
	if !errors.Is(err, New(ErrCodeGeometryViolation, "")) {
		t.Error("errors.Is should match a target with the same code")
	}
	if errors.Is(err, New(ErrCodeEmitFailure, "")) {
		t.Error("errors.Is should not match a different code")
	}
}

func TestEmitFailure(t *testing.T) {
	if EmitFailure(nil, "x") != nil {
		t.Error("EmitFailure(nil) should be nil")
	}

	plain := errors.New("permission denied")
	if got := GetCode(EmitFailure(plain, "write")); got != ErrCodeEmitFailure {
		t.Errorf("GetCode() = %v, want %v", got, ErrCodeEmitFailure)
	}

	coded := New(ErrCodeInvalidInput, "coordinate overflow")
	if got := EmitFailure(coded, "write"); got != error(coded) {
		t.Errorf("EmitFailure should keep coded errors unchanged, got %v", got)
	}
}
