package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/Rithari/url-shortener/internal/shortener"
	"github.com/Rithari/url-shortener/internal/users"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

const (
	shortLinksCodeConstraint = "short_links_pkey"
	shortLinksURLConstraint  = "short_links_long_url_hash_key"
	usersEmailConstraint     = "users_email_key"
)

// Long URLs are unique by hash; btree entries cannot hold arbitrarily long text.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	CONSTRAINT users_email_key UNIQUE (email)
);

CREATE TABLE IF NOT EXISTS short_links (
	code          TEXT PRIMARY KEY,
	long_url      TEXT NOT NULL,
	long_url_hash TEXT NOT NULL,
	user_id       TEXT NOT NULL DEFAULT '',
	created_at    TIMESTAMPTZ NOT NULL,
	hit_count     BIGINT NOT NULL DEFAULT 0,
	CONSTRAINT short_links_long_url_hash_key UNIQUE (long_url_hash)
);

CREATE INDEX IF NOT EXISTS short_links_user_id_idx ON short_links (user_id);
CREATE INDEX IF NOT EXISTS short_links_hit_count_idx ON short_links (hit_count DESC);
`

const linkColumns = `code, long_url, user_id, created_at, hit_count`

var (
	_ shortener.Repository = (*PostgresStore)(nil)
	_ users.Repository     = (*PostgresStore)(nil)
)

// PostgresStore is a PostgreSQL implementation of shortener.Repository and users.Repository.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgreSQL-backed store. The store owns the pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the tables and indexes if they do not exist.
func (p *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}

	return nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Shutdown closes the connection pool.
func (p *PostgresStore) Shutdown() error {
	p.pool.Close()

	return nil
}

func (p *PostgresStore) Insert(ctx context.Context, link *shortener.ShortLink) error {
	query := `
		INSERT INTO short_links (code, long_url, long_url_hash, user_id, created_at, hit_count)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := p.pool.Exec(ctx, query,
		string(link.Code),
		link.LongURL,
		string(shortener.HashURL(link.LongURL)),
		link.UserID,
		link.CreatedAt,
		link.HitCount,
	)

	switch violatedConstraint(err) {
	case "":
		return err
	case shortLinksCodeConstraint:
		return shortener.ErrCodeTaken
	case shortLinksURLConstraint:
		return shortener.ErrURLTaken
	default:
		return err
	}
}

func (p *PostgresStore) FindByCode(ctx context.Context, code shortener.Code) (*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE code = $1`

	return p.findOne(ctx, query, string(code))
}

func (p *PostgresStore) FindByLongURL(ctx context.Context, longURL string) (*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE long_url_hash = $1 AND long_url = $2`

	return p.findOne(ctx, query, string(shortener.HashURL(longURL)), longURL)
}

func (p *PostgresStore) FindByUser(ctx context.Context, userID string) ([]*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links WHERE user_id = $1 ORDER BY created_at`

	return p.findMany(ctx, query, userID)
}

func (p *PostgresStore) FindAll(ctx context.Context) ([]*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links ORDER BY created_at`

	return p.findMany(ctx, query)
}

func (p *PostgresStore) TopByHits(ctx context.Context, n int) ([]*shortener.ShortLink, error) {
	query := `SELECT ` + linkColumns + ` FROM short_links ORDER BY hit_count DESC, created_at LIMIT $1`

	return p.findMany(ctx, query, max(n, 0))
}

func (p *PostgresStore) IncrementHitCount(ctx context.Context, code shortener.Code) error {
	_, err := p.pool.Exec(ctx, `UPDATE short_links SET hit_count = hit_count + 1 WHERE code = $1`, string(code))

	return err
}

func (p *PostgresStore) findOne(ctx context.Context, query string, args ...any) (*shortener.ShortLink, error) {
	var link shortener.ShortLink

	err := p.pool.QueryRow(ctx, query, args...).Scan(
		&link.Code,
		&link.LongURL,
		&link.UserID,
		&link.CreatedAt,
		&link.HitCount,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shortener.ErrNotFound
		}

		return nil, err
	}

	return &link, nil
}

func (p *PostgresStore) findMany(ctx context.Context, query string, args ...any) ([]*shortener.ShortLink, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := make([]*shortener.ShortLink, 0)

	for rows.Next() {
		var link shortener.ShortLink

		if err := rows.Scan(&link.Code, &link.LongURL, &link.UserID, &link.CreatedAt, &link.HitCount); err != nil {
			return nil, err
		}

		links = append(links, &link)
	}

	return links, rows.Err()
}

// violatedConstraint returns the constraint name of a unique violation, or "" for any other error.
func violatedConstraint(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return pgErr.ConstraintName
	}

	return ""
}
