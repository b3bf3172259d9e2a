package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidPoints(t *testing.T) {
	for p := -1; p <= 12; p++ {
		want := p >= 1 && p <= 10
		if got := ValidPoints(p); got != want {
			t.Errorf("ValidPoints(%d) = %v, want %v", p, got, want)
		}
	}
}

func TestValidationError_IsErrValidation(t *testing.T) {
	err := fmt.Errorf("add user: %w", NewValidationError("name is required"))

	if !errors.Is(err, ErrValidation) {
		t.Error("expected errors.Is(err, ErrValidation)")
	}
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Message != "name is required" {
		t.Errorf("expected message to survive wrapping, got %v", ve)
	}
}

func TestUser_Summary(t *testing.T) {
	u := &User{ID: "u1", Name: "Alice", ProfilePicture: "a.png", TotalPoints: 40}
	s := u.Summary()
	if s.ID != "u1" || s.Name != "Alice" || s.ProfilePicture != "a.png" {
		t.Errorf("unexpected summary: %+v", s)
	}
}
