package store

import "errors"

// Expected, user-correctable failures are sentinel values so handlers can
// map them to statuses with errors.Is. Anything else coming out of the store
// is an infrastructure fault: logged server-side, surfaced generically.
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("post not found")
	ErrForbidden          = errors.New("not the post author")
)
