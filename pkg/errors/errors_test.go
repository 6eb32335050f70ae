package errors

import (
	stderrors "errors"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad edge (%d,%d)", 3, 9)
	want := "INVALID_INPUT: bad edge (3,9)"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapAndUnwrap(t *testing.T) {
	cause := stderrors.New("boom")
	err := Wrap(ErrCodeParse, cause, "decode %s", "input.g6")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped cause not reachable via errors.Is")
	}
	if !Is(err, ErrCodeParse) {
		t.Error("Is did not match the code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is matched the wrong code")
	}
	if GetCode(err) != ErrCodeParse {
		t.Errorf("GetCode = %q, want PARSE_ERROR", GetCode(err))
	}
	if GetCode(cause) != "" {
		t.Errorf("GetCode of plain error = %q, want empty", GetCode(cause))
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeAborted, "search aborted by hook")
	if UserMessage(err) != "search aborted by hook" {
		t.Errorf("UserMessage = %q", UserMessage(err))
	}
	plain := stderrors.New("plain")
	if UserMessage(plain) != "plain" {
		t.Errorf("UserMessage of plain error = %q", UserMessage(plain))
	}
}
