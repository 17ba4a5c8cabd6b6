package inputval

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalemusser/mepad/internal/domain/apperr"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"user@example.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"  user@example.com  ", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

type sample struct {
	Title  string `json:"title" validate:"required,max=5"`
	Email  string `json:"email" validate:"omitempty,email"`
	Status string `json:"status" validate:"omitempty,oneof=open closed"`
}

func TestStruct_Messages(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want string
	}{
		{"missing title", sample{}, "title is required"},
		{"long title", sample{Title: "abcdef"}, "title must be at most 5 characters"},
		{"bad email", sample{Title: "ok", Email: "nope"}, "email must be a valid email address"},
		{"bad status", sample{Title: "ok", Status: "x"}, "status must be one of: open, closed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.want)
			}
		})
	}
}

func TestStruct_Valid(t *testing.T) {
	if err := Struct(sample{Title: "ok", Email: "a@b.co", Status: "open"}); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestOneOf(t *testing.T) {
	allowed := []string{"low", "medium", "high"}
	if !OneOf("low", allowed) {
		t.Error("expected low to be allowed")
	}
	if OneOf("urgent", allowed) {
		t.Error("expected urgent to be rejected")
	}
}
