package apierror

import (
	"errors"
	"net/http"
	"testing"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want int
	}{
		{"validation", Validation("bad input"), http.StatusBadRequest},
		{"unauthorised", Unauthorised(""), http.StatusUnauthorized},
		{"forbidden", Forbidden(""), http.StatusForbidden},
		{"not found", NotFound("Bank account was not found"), http.StatusNotFound},
		{"conflict", Conflict("already exists"), http.StatusConflict},
		{"insufficient funds", InsufficientFunds(), http.StatusUnprocessableEntity},
		{"internal", Internal(), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Status(); got != tt.want {
				t.Errorf("Status() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDefaultMessages(t *testing.T) {
	if got := Unauthorised("").Message; got != "Access token is missing or invalid" {
		t.Errorf("Unauthorised default message = %q", got)
	}
	if got := Forbidden("").Message; got != "Access forbidden" {
		t.Errorf("Forbidden default message = %q", got)
	}
	if got := InsufficientFunds().Message; got != "Insufficient funds to process transaction" {
		t.Errorf("InsufficientFunds message = %q", got)
	}
	if got := Internal().Message; got != "An unexpected error occurred" {
		t.Errorf("Internal message = %q", got)
	}
}

func TestErrorsAs(t *testing.T) {
	var apiErr *Error
	wrapped := error(NotFound(""))
	if !errors.As(wrapped, &apiErr) {
		t.Fatal("errors.As failed to unwrap *Error")
	}
	if apiErr.Kind != KindNotFound {
		t.Errorf("Kind = %v, want KindNotFound", apiErr.Kind)
	}
}

func TestValidationDetails(t *testing.T) {
	err := Validation("Validation failed", FieldError{Field: "currency", Message: "must be GBP", Type: "oneof"})
	if len(err.Details) != 1 || err.Details[0].Field != "currency" {
		t.Errorf("unexpected details: %+v", err.Details)
	}
}
