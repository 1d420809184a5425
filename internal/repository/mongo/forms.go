package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	driver "go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.mongodb.org/mongo-driver/v2/x/mongo/driver/connstring"

	"github.com/Nazarious-ucu/blogsphere-api/internal/metrics"
	"github.com/Nazarious-ucu/blogsphere-api/internal/models"
	"github.com/Nazarious-ucu/blogsphere-api/internal/repository"
)

const (
	defaultDatabase        = "blogsphere"
	serverSelectionTimeout = 5 * time.Second
)

type newsletterDoc struct {
	ID    bson.ObjectID `bson:"_id"`
	Email string        `bson:"email"`
	Date  time.Time     `bson:"date"`
}

type contactDoc struct {
	ID      bson.ObjectID `bson:"_id"`
	Name    string        `bson:"name"`
	Email   string        `bson:"email"`
	Subject string        `bson:"subject"`
	Message string        `bson:"message"`
	Date    time.Time     `bson:"date"`
}

// FormStore writes form submissions into the newsletters and contacts collections.
type FormStore struct {
	client      *driver.Client
	newsletters *driver.Collection
	contacts    *driver.Collection
	log         zerolog.Logger
	m           *metrics.Metrics
}

// DatabaseName returns the database named in the path of uri, or the default one.
func DatabaseName(uri string) (string, error) {
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", err
	}
	if cs.Database == "" {
		return defaultDatabase, nil
	}
	return cs.Database, nil
}

// NewFormStore creates a client for uri. The driver connects lazily, so an
// unreachable server does not fail here; writes fail until it comes back.
// An empty database means the one from the uri.
func NewFormStore(
	uri, database string,
	logger zerolog.Logger,
	m *metrics.Metrics,
) (*FormStore, error) {
	if database == "" {
		name, err := DatabaseName(uri)
		if err != nil {
			return nil, fmt.Errorf("parse mongo uri: %w", err)
		}
		database = name
	}

	client, err := driver.Connect(options.Client().
		ApplyURI(uri).
		SetServerSelectionTimeout(serverSelectionTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	db := client.Database(database)
	logger = logger.With().
		Str("component", "MongoFormStore").
		Str("database", database).
		Logger()

	return &FormStore{
		client:      client,
		newsletters: db.Collection(repository.NewsletterCollection),
		contacts:    db.Collection(repository.ContactCollection),
		log:         logger,
		m:           m,
	}, nil
}

// CreateSubscription inserts a newsletter signup. No uniqueness is enforced on email.
func (s *FormStore) CreateSubscription(
	ctx context.Context,
	email string,
) (models.NewsletterSubscription, error) {
	doc := newsletterDoc{
		ID:    bson.NewObjectID(),
		Email: email,
		Date:  time.Now().UTC().Truncate(time.Millisecond),
	}

	start := time.Now()
	_, err := s.newsletters.InsertOne(ctx, doc)
	s.m.RecordWrite(metrics.FormNewsletter, repository.NewsletterCollection, start, err)
	if err != nil {
		s.logFailure(ctx, err, start, "failed to insert newsletter subscription")
		return models.NewsletterSubscription{}, fmt.Errorf("%w: insert subscription: %w", repository.ErrStorage, err)
	}

	s.log.Info().Ctx(ctx).
		Str("id", doc.ID.Hex()).
		Str("email", email).
		Dur("duration", time.Since(start)).
		Msg("newsletter subscription stored")

	return models.NewsletterSubscription{
		ID:           doc.ID.Hex(),
		Email:        doc.Email,
		SubscribedAt: doc.Date,
	}, nil
}

// CreateContactMessage inserts a contact form submission.
func (s *FormStore) CreateContactMessage(
	ctx context.Context,
	fields models.ContactFields,
) (models.ContactMessage, error) {
	doc := contactDoc{
		ID:      bson.NewObjectID(),
		Name:    fields.Name,
		Email:   fields.Email,
		Subject: fields.Subject,
		Message: fields.Message,
		Date:    time.Now().UTC().Truncate(time.Millisecond),
	}

	start := time.Now()
	_, err := s.contacts.InsertOne(ctx, doc)
	s.m.RecordWrite(metrics.FormContact, repository.ContactCollection, start, err)
	if err != nil {
		s.logFailure(ctx, err, start, "failed to insert contact message")
		return models.ContactMessage{}, fmt.Errorf("%w: insert contact message: %w", repository.ErrStorage, err)
	}

	s.log.Info().Ctx(ctx).
		Str("id", doc.ID.Hex()).
		Str("email", doc.Email).
		Dur("duration", time.Since(start)).
		Msg("contact message stored")

	return models.ContactMessage{
		ID:            doc.ID.Hex(),
		ContactFields: fields,
		SubmittedAt:   doc.Date,
	}, nil
}

func (s *FormStore) logFailure(ctx context.Context, err error, start time.Time, msg string) {
	ev := s.log.Error().Err(err).Ctx(ctx).Dur("duration", time.Since(start))
	if errors.Is(err, context.DeadlineExceeded) || driver.IsTimeout(err) {
		ev = ev.Bool("timeout", true)
	}
	if driver.IsNetworkError(err) {
		ev = ev.Bool("network", true)
	}
	ev.Msg(msg)
}

func (s *FormStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrStorage, err)
	}
	return nil
}

func (s *FormStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
