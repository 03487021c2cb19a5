package store

import (
	"context"
	"errors"

	"github.com/Rithari/url-shortener/internal/users"
	"github.com/jackc/pgx/v5"
)

func (p *PostgresStore) CreateUser(ctx context.Context, user *users.User) error {
	_, err := p.pool.Exec(ctx,
		`INSERT INTO users (id, email, created_at) VALUES ($1, $2, $3)`,
		user.ID, user.Email, user.CreatedAt,
	)
	if violatedConstraint(err) == usersEmailConstraint {
		return users.ErrAlreadyExists
	}

	return err
}

func (p *PostgresStore) FindUserByID(ctx context.Context, id string) (*users.User, error) {
	return p.findUser(ctx, `SELECT id, email, created_at FROM users WHERE id = $1`, id)
}

func (p *PostgresStore) FindUserByEmail(ctx context.Context, email string) (*users.User, error) {
	return p.findUser(ctx, `SELECT id, email, created_at FROM users WHERE email = $1`, email)
}

func (p *PostgresStore) ListUsers(ctx context.Context) ([]*users.User, error) {
	rows, err := p.pool.Query(ctx, `SELECT id, email, created_at FROM users ORDER BY created_at`)
	if err != nil {
		return nil, err
	}

	list, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*users.User, error) {
		var u users.User
		err := row.Scan(&u.ID, &u.Email, &u.CreatedAt)

		return &u, err
	})
	if err != nil {
		return nil, err
	}

	if list == nil {
		list = make([]*users.User, 0)
	}

	return list, nil
}

func (p *PostgresStore) findUser(ctx context.Context, query, arg string) (*users.User, error) {
	var u users.User

	err := p.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, users.ErrNotFound
		}

		return nil, err
	}

	return &u, nil
}
