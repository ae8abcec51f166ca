package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/storely/herald/internal/event"
)

// PostgresConfig holds database connection parameters.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// Postgres is the production Storage and Directory implementation.
type Postgres struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewPostgres creates a connection pool and verifies connectivity.
func NewPostgres(ctx context.Context, cfg PostgresConfig, logger *zap.Logger) (*Postgres, error) {
	var dsn string
	if cfg.Password != "" {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
		)
	} else {
		dsn = fmt.Sprintf(
			"host=%s port=%d user=%s dbname=%s sslmode=%s",
			cfg.Host, cfg.Port, cfg.User, cfg.Database, cfg.SSLMode,
		)
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 5
	poolConfig.MaxConnLifetime = 1 * time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger.Info("database connection established",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("database", cfg.Database),
	)

	return &Postgres{pool: pool, logger: logger}, nil
}

// Close closes the connection pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Health checks if the database is reachable.
func (p *Postgres) Health(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

const recordColumns = `
	id, recipient_id, recipient_role, kind, title, message,
	url, data, is_read, created_at
`

func (p *Postgres) Insert(ctx context.Context, rec Record) error {
	query := `
		INSERT INTO notifications (
			id, recipient_id, recipient_role, kind, title, message,
			url, data, is_read, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`

	var data []byte
	if rec.Data != nil {
		var err error
		data, err = json.Marshal(rec.Data)
		if err != nil {
			return fmt.Errorf("marshal record data: %w", err)
		}
	}

	_, err := p.pool.Exec(ctx, query,
		rec.ID,
		rec.RecipientID,
		string(rec.RecipientRole),
		string(rec.Kind),
		rec.Title,
		rec.Message,
		rec.URL,
		data,
		rec.IsRead,
		rec.CreatedAt,
	)
	if err != nil {
		p.logger.Error("failed to insert notification",
			zap.Error(err),
			zap.String("notification_id", rec.ID),
		)
		return fmt.Errorf("insert notification: %w", err)
	}

	return nil
}

func (p *Postgres) MarkRead(ctx context.Context, id string) (*Record, error) {
	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1
		RETURNING ` + recordColumns

	rec, err := p.scanRecord(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return rec, nil
}

func (p *Postgres) Delete(ctx context.Context, id string) (*Record, error) {
	query := `
		DELETE FROM notifications
		WHERE id = $1
		RETURNING ` + recordColumns

	rec, err := p.scanRecord(p.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("delete notification: %w", err)
	}
	return rec, nil
}

func (p *Postgres) ListByRecipient(ctx context.Context, recipientID string, role Role) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM notifications
		WHERE recipient_id = $1 AND recipient_role = $2
		ORDER BY created_at DESC
	`
	return p.queryRecords(ctx, query, recipientID, string(role))
}

func (p *Postgres) ListUnread(ctx context.Context, recipientID string, role Role) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM notifications
		WHERE recipient_id = $1 AND recipient_role = $2 AND is_read = FALSE
		ORDER BY created_at DESC
	`
	return p.queryRecords(ctx, query, recipientID, string(role))
}

func (p *Postgres) ListAll(ctx context.Context) ([]Record, error) {
	query := `
		SELECT ` + recordColumns + `
		FROM notifications
		ORDER BY created_at DESC
	`
	return p.queryRecords(ctx, query)
}

func (p *Postgres) CountUnread(ctx context.Context, recipientID string, role Role) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE recipient_id = $1 AND recipient_role = $2 AND is_read = FALSE
	`

	var count int
	if err := p.pool.QueryRow(ctx, query, recipientID, string(role)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return count, nil
}

// AdminEmails returns the email address of every recipient with the
// admin role.
func (p *Postgres) AdminEmails(ctx context.Context) ([]string, error) {
	query := `SELECT email FROM recipients WHERE role = 'admin' AND email <> ''`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query admin emails: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan admin email: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin emails: %w", err)
	}

	return emails, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (p *Postgres) scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var role, kind string
	var data []byte

	err := row.Scan(
		&rec.ID,
		&rec.RecipientID,
		&role,
		&kind,
		&rec.Title,
		&rec.Message,
		&rec.URL,
		&data,
		&rec.IsRead,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.RecipientRole = Role(role)
	rec.Kind = event.Kind(kind)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &rec.Data); err != nil {
			return nil, fmt.Errorf("unmarshal record data: %w", err)
		}
	}

	return &rec, nil
}

func (p *Postgres) queryRecords(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := p.scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	return records, nil
}
