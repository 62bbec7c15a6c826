package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	plain := New(CodeInvalidArgument, "alpha out of range")
	if plain.Error() != "alpha out of range" {
		t.Errorf("unexpected message: %q", plain.Error())
	}

	cause := fmt.Errorf("boom")
	wrapped := &AppError{Code: CodeDataSource, Message: "catalog read failed", Cause: cause}
	if wrapped.Error() != "catalog read failed: boom" {
		t.Errorf("unexpected wrapped message: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, cause) {
		t.Error("Unwrap chain should reach the cause")
	}
}

func TestWrap_PreservesCode(t *testing.T) {
	inner := InvalidArgument("delta must be positive")
	outer := Wrap(inner, "sample size request rejected")

	if GetCode(outer) != CodeInvalidArgument {
		t.Errorf("code = %q, want %q", GetCode(outer), CodeInvalidArgument)
	}

	var appErr *AppError
	if !errors.As(outer, &appErr) {
		t.Fatal("wrapped error should remain an AppError")
	}
	if appErr.Message != "sample size request rejected" {
		t.Errorf("outer message = %q", appErr.Message)
	}
}

func TestWrap_ForeignErrorGetsInternalCode(t *testing.T) {
	err := Wrap(fmt.Errorf("disk full"), "could not load catalog")
	if GetCode(err) != CodeInternalError {
		t.Errorf("code = %q, want %q", GetCode(err), CodeInternalError)
	}
}

func TestWrap_NilPassthrough(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Error("wrapping nil should return nil")
	}
	if Wrapf(nil, "ignored %d", 1) != nil {
		t.Error("wrapf on nil should return nil")
	}
	if WithCode(CodeNotFound, nil) != nil {
		t.Error("WithCode on nil should return nil")
	}
}

func TestWithCode_Reassigns(t *testing.T) {
	err := WithCode(CodeNotFound, fmt.Errorf("no such biomarker"))
	if GetCode(err) != CodeNotFound {
		t.Errorf("code = %q, want %q", GetCode(err), CodeNotFound)
	}

	recoded := WithCode(CodeDatabaseError, err)
	if GetCode(recoded) != CodeDatabaseError {
		t.Errorf("code = %q, want %q", GetCode(recoded), CodeDatabaseError)
	}
}

func TestGetCode_Unknown(t *testing.T) {
	if GetCode(fmt.Errorf("plain")) != "UNKNOWN" {
		t.Errorf("plain errors should report UNKNOWN, got %q", GetCode(fmt.Errorf("plain")))
	}
	if IsAppError(fmt.Errorf("plain")) {
		t.Error("plain error misreported as AppError")
	}
}
