package errors

// ErrValidation reports a caller input that failed validation.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrSnapshotNotFound reports that no snapshot partition yielded usable data
// for an account. LastErr carries the most recent partition-level failure so
// the caller can see why the newest candidates were rejected.
type ErrSnapshotNotFound struct {
	AccountID string
	LastErr   string
}

func (e *ErrSnapshotNotFound) Error() string {
	if e.LastErr != "" {
		return "no valuation snapshot for account '" + e.AccountID + "': " + e.LastErr
	}
	return "no valuation snapshot for account '" + e.AccountID + "'"
}
