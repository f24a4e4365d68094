package model

import "errors"

// Error classes surfaced to the caller of the webhook. Concrete errors wrap one of
// these so the delivery layer can map them with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrAuthentication = errors.New("authentication error")
	ErrNotification   = errors.New("notification error")
	ErrInternal       = errors.New("internal error")
)
