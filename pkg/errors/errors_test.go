package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestBindErrorString(t *testing.T) {
	err := &BindError{
		Op:   "navigation.Attach",
		Kind: KindInit,
		Err:  errors.New("bridge refused"),
	}
	got := err.Error()
	want := "navigation.Attach [init]: bridge refused"
	if got != want {
		t.Errorf("BindError.Error() = %q, want %q", got, want)
	}
}

func TestBindErrorWithEvent(t *testing.T) {
	err := &BindError{
		Op:    "binding.dispatch",
		Kind:  KindDecode,
		Event: "click",
		Err:   &DecodeError{Event: "click", Field: "x", Reason: "missing"},
	}
	got := err.Error()
	if !strings.Contains(got, "event=click") {
		t.Errorf("error string %q should contain %q", got, "event=click")
	}
	if !strings.Contains(got, "field x") {
		t.Errorf("error string %q should contain decode cause", got)
	}
}

func TestBindErrorUnwrap(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &BindError{Op: "op", Kind: KindBusy, Err: ErrBusy})
	if !errors.Is(err, ErrBusy) {
		t.Error("expected errors.Is to find ErrBusy")
	}
	if got := KindOf(err); got != KindBusy {
		t.Errorf("KindOf = %v, want %v", got, KindBusy)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf(plain) = %v, want %v", got, KindUnknown)
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindPlatform, "platform"},
		{KindDecode, "decode"},
		{KindBusy, "busy"},
		{KindGone, "gone"},
		{KindInit, "init"},
		{KindPanic, "panic"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestDecodeErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  *DecodeError
		want string
	}{
		{
			name: "field",
			err:  &DecodeError{Event: "click", Field: "y", Reason: "expected number"},
			want: "failed to decode click event: field y: expected number",
		},
		{
			name: "whole payload",
			err:  &DecodeError{Event: "click", Reason: "unsupported payload type int"},
			want: "failed to decode click event: unsupported payload type int",
		},
		{
			name: "parser error",
			err:  &DecodeError{Event: "click", Reason: "invalid cbor", Err: errors.New("unexpected EOF")},
			want: "failed to decode click event: invalid cbor: unexpected EOF",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("DecodeError.Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom"}
	if got, want := err.Error(), "panic: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
	err.Op = "binding.dispatch"
	if got, want := err.Error(), "panic in binding.dispatch: boom"; got != want {
		t.Errorf("PanicError.Error() = %q, want %q", got, want)
	}
}

func TestRecoverWithCallback(t *testing.T) {
	var captured *PanicError
	func() {
		defer RecoverWithCallback("test.recover", func(err *PanicError) {
			captured = err
		})
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v, want %q", captured.Value, "intentional test panic")
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.recover")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecoverWithCallbackNoPanic(t *testing.T) {
	called := false
	func() {
		defer RecoverWithCallback("test.recover", func(*PanicError) { called = true })
	}()
	if called {
		t.Error("callback should not run without a panic")
	}
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if stack == "" {
		t.Error("expected non-empty stack trace")
	}
	if !strings.Contains(stack, "testing") && !strings.Contains(stack, "runtime") {
		t.Errorf("stack trace should contain testing or runtime frames, got: %s", stack)
	}
}
