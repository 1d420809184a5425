package repository

import (
	"context"
	"fmt"

	"github.com/Nazarious-ucu/blogsphere-api/internal/models"
)

// Unavailable stands in for a store that could not be opened at startup.
// Every write fails with ErrStorage wrapping the original cause.
type Unavailable struct {
	Cause error
}

func (u Unavailable) err() error {
	return fmt.Errorf("%w: %w", ErrStorage, u.Cause)
}

func (u Unavailable) CreateSubscription(context.Context, string) (models.NewsletterSubscription, error) {
	return models.NewsletterSubscription{}, u.err()
}

func (u Unavailable) CreateContactMessage(context.Context, models.ContactFields) (models.ContactMessage, error) {
	return models.ContactMessage{}, u.err()
}

func (u Unavailable) Ping(context.Context) error {
	return u.err()
}

func (u Unavailable) Close(context.Context) error {
	return nil
}
