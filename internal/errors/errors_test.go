package errors

import (
	"fmt"
	"testing"
)

func TestCopyError_Error(t *testing.T) {
	err := &CopyError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "no active tab found",
	}

	expected := "NOT_FOUND: no active tab found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("url is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "url is required" {
		t.Errorf("Message = %q, want %q", err.Message, "url is required")
	}
}

func TestNewUnknownMenuItem(t *testing.T) {
	err := NewUnknownMenuItem("copy-everything")

	if err.Code != ErrUnknownMenuItem {
		t.Errorf("Code = %q, want %q", err.Code, ErrUnknownMenuItem)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Details["menu_item_id"] != "copy-everything" {
		t.Errorf("Details[menu_item_id] = %v, want %q", err.Details["menu_item_id"], "copy-everything")
	}
}

func TestNewMissingValue(t *testing.T) {
	err := NewMissingValue("remove-params")

	if err.Code != ErrMissingValue {
		t.Errorf("Code = %q, want %q", err.Code, ErrMissingValue)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Message != "missing value for flag: remove-params" {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestNewNoReceiver(t *testing.T) {
	err := NewNoReceiver(123)

	if err.Code != ErrNoReceiver {
		t.Errorf("Code = %q, want %q", err.Code, ErrNoReceiver)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
	if err.Details["tab_id"] != 123 {
		t.Errorf("Details[tab_id] = %v, want 123", err.Details["tab_id"])
	}
}

func TestNewInternal(t *testing.T) {
	err := NewInternal(fmt.Errorf("disk full"))
	if err.Code != ErrInternal || err.Status != 500 {
		t.Errorf("got %s/%d, want INTERNAL/500", err.Code, err.Status)
	}
	if err.Message != "disk full" {
		t.Errorf("Message = %q, want %q", err.Message, "disk full")
	}

	nilErr := NewInternal(nil)
	if nilErr.Message != "internal error" {
		t.Errorf("Message = %q, want %q", nilErr.Message, "internal error")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{"matching code", NewNotFound("x"), ErrNotFound, true},
		{"different code", NewNotFound("x"), ErrInternal, false},
		{"wrapped", fmt.Errorf("ctx: %w", NewMissingValue("url-decoding")), ErrMissingValue, true},
		{"plain error", fmt.Errorf("boom"), ErrInternal, false},
		{"nil", nil, ErrInternal, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAs(t *testing.T) {
	orig := NewUnknownMenuItem("nope")
	if got := As(fmt.Errorf("wrap: %w", orig)); got != orig {
		t.Errorf("As() did not unwrap original error")
	}

	got := As(fmt.Errorf("boom"))
	if got.Code != ErrInternal || got.Message != "boom" {
		t.Errorf("As(plain) = %+v, want INTERNAL boom", got)
	}
}
