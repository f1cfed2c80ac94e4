package errors

import "testing"

func TestErrValidationError(t *testing.T) {
	err := &ErrValidation{Field: "symbol", Message: "is required"}
	if got, want := err.Error(), "symbol: is required"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}

func TestErrSnapshotNotFoundError(t *testing.T) {
	err := &ErrSnapshotNotFound{AccountID: "acc-123"}
	if got, want := err.Error(), "no valuation snapshot for account 'acc-123'"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}

	err = &ErrSnapshotNotFound{AccountID: "acc-123", LastErr: "file empty"}
	if got, want := err.Error(), "no valuation snapshot for account 'acc-123': file empty"; got != want {
		t.Fatalf("unexpected error string: got %q want %q", got, want)
	}
}
