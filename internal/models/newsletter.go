package models

import "time"

// NewsletterSubscription is a stored newsletter signup. Duplicate emails are allowed.
type NewsletterSubscription struct {
	ID           string
	Email        string
	SubscribedAt time.Time
}
