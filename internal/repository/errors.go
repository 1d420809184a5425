package repository

import "errors"

// ErrStorage marks any failure of the document store: connectivity, timeouts or rejected writes.
var ErrStorage = errors.New("storage failure")

const (
	NewsletterCollection = "newsletters"
	ContactCollection    = "contacts"
)
