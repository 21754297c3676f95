package domain

import "errors"

// Every failure the serving path can see. Handlers match these with
// errors.Is and decide between an HTML error view and a status code.
var (
	ErrStoreUnavailable = errors.New("receipt store unavailable")
	ErrReceiptNotFound  = errors.New("receipt not found")
	ErrPhoneMismatch    = errors.New("phone number does not match")
	ErrRender           = errors.New("pdf render failed")
	ErrInvalidInput     = errors.New("invalid input")
)
