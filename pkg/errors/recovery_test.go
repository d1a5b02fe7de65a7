package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		panic("test panic message")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "TestOperation" {
		t.Errorf("Expected operation 'TestOperation', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}
	if panicErr.Error() != "panic in TestOperation: test panic message" {
		t.Errorf("unexpected message '%s'", panicErr.Error())
	}
	if !strings.Contains(panicErr.String(), "Stack trace:") {
		t.Error("String() should include the stack trace")
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_KeepsExistingError(t *testing.T) {
	original := errors.New("original")
	testFunc := func() (err error) {
		defer Recover(&err, "TestOperation")
		err = original
		panic("boom")
	}

	err := testFunc()
	if !errors.Is(err, original) {
		t.Fatalf("expected original error to be wrapped, got %v", err)
	}
	if !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected panic value in message, got %v", err)
	}
}

func TestSafeExecute(t *testing.T) {
	err := SafeExecute("job", func() error {
		panic(errors.New("inner"))
	})

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Unwrap() == nil || panicErr.Unwrap().Error() != "inner" {
		t.Errorf("Unwrap() = %v, want inner", panicErr.Unwrap())
	}

	want := errors.New("plain")
	if got := SafeExecute("job", func() error { return want }); got != want {
		t.Errorf("SafeExecute() = %v, want %v", got, want)
	}
}

func TestSafeCall(t *testing.T) {
	v, err := SafeCall("job", func() (float64, error) { return 0.75, nil })
	if err != nil || v != 0.75 {
		t.Fatalf("SafeCall() = %v, %v", v, err)
	}

	v, err = SafeCall("job", func() (float64, error) {
		var m map[string]float64
		m["x"] = 1
		return 1, nil
	})
	if err == nil {
		t.Fatal("expected error from nil map write")
	}
	if v != 0 {
		t.Errorf("panicking call should return the zero value, got %v", v)
	}
}
