package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/blogsphere-api/internal/metrics"
	"github.com/Nazarious-ucu/blogsphere-api/internal/models"
	"github.com/Nazarious-ucu/blogsphere-api/internal/repository"

	_ "modernc.org/sqlite"
)

const (
	dialect   = "sqlite3"
	driver    = "sqlite"
	migrDir   = "migrations"
	timestamp = time.RFC3339Nano
)

//go:embed migrations/*.sql
var migrations embed.FS

// FormStore keeps newsletter subscriptions and contact messages in a SQLite file.
type FormStore struct {
	DB  *sql.DB
	log zerolog.Logger
	m   *metrics.Metrics
}

// Open opens (creating if needed) the database file at path and applies the embedded migrations.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		return nil, errors.New("database name cannot be empty")
	}
	db, err := sql.Open(driver, "file:"+path+"?cache=shared&mode=rwc&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrations)
	goose.SetLogger(goose.NopLogger())
	if err := goose.SetDialect(dialect); err != nil {
		return err
	}
	return goose.Up(db, migrDir)
}

// NewFormStore wraps an opened database with logger context and metrics.
func NewFormStore(db *sql.DB, logger zerolog.Logger, m *metrics.Metrics) *FormStore {
	logger = logger.With().Str("component", "SQLiteFormStore").Logger()
	return &FormStore{DB: db, log: logger, m: m}
}

// CreateSubscription inserts a newsletter signup. The same email may be stored any number of times.
func (s *FormStore) CreateSubscription(
	ctx context.Context,
	email string,
) (models.NewsletterSubscription, error) {
	sub := models.NewsletterSubscription{
		ID:           uuid.NewString(),
		Email:        email,
		SubscribedAt: time.Now().UTC(),
	}

	start := time.Now()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO newsletters (id, email, date) VALUES (?, ?, ?)`,
		sub.ID, sub.Email, sub.SubscribedAt.Format(timestamp),
	)
	s.m.RecordWrite(metrics.FormNewsletter, repository.NewsletterCollection, start, err)
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Dur("duration", time.Since(start)).
			Msg("failed to insert newsletter subscription")
		return models.NewsletterSubscription{}, fmt.Errorf("%w: insert subscription: %w", repository.ErrStorage, err)
	}

	s.log.Info().Ctx(ctx).
		Str("id", sub.ID).
		Str("email", sub.Email).
		Dur("duration", time.Since(start)).
		Msg("newsletter subscription stored")
	return sub, nil
}

// CreateContactMessage inserts a contact form submission.
func (s *FormStore) CreateContactMessage(
	ctx context.Context,
	fields models.ContactFields,
) (models.ContactMessage, error) {
	msg := models.ContactMessage{
		ID:            uuid.NewString(),
		ContactFields: fields,
		SubmittedAt:   time.Now().UTC(),
	}

	start := time.Now()
	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO contacts (id, name, email, subject, message, date) VALUES (?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.Name, msg.Email, msg.Subject, msg.Message, msg.SubmittedAt.Format(timestamp),
	)
	s.m.RecordWrite(metrics.FormContact, repository.ContactCollection, start, err)
	if err != nil {
		s.log.Error().Err(err).Ctx(ctx).
			Dur("duration", time.Since(start)).
			Msg("failed to insert contact message")
		return models.ContactMessage{}, fmt.Errorf("%w: insert contact message: %w", repository.ErrStorage, err)
	}

	s.log.Info().Ctx(ctx).
		Str("id", msg.ID).
		Str("email", msg.Email).
		Dur("duration", time.Since(start)).
		Msg("contact message stored")
	return msg, nil
}

func (s *FormStore) Ping(ctx context.Context) error {
	if err := s.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %w", repository.ErrStorage, err)
	}
	return nil
}

func (s *FormStore) Close(_ context.Context) error {
	return s.DB.Close()
}
