package entity

import "errors"

// Domain errors returned by the registries and the core. The transport
// layer maps them to status codes with errors.Is.
var (
	ErrInviteNotFound    = errors.New("invite not found")
	ErrInviteExpired     = errors.New("invite expired")
	ErrInviteExhausted   = errors.New("invite usage limit reached")
	ErrDuplicateCode     = errors.New("invite code already exists")
	ErrRequestNotFound   = errors.New("request not found")
	ErrDuplicateIdentity = errors.New("request already submitted from this address")
)

// ValidationError carries a user-correctable input problem.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func Invalid(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}
