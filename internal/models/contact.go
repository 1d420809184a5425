package models

import "time"

type ContactFields struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactMessage is a stored contact form submission.
type ContactMessage struct {
	ID string
	ContactFields
	SubmittedAt time.Time
}
