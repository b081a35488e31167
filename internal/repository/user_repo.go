package repository

import (
	"context"
	"errors"

	"web3_annotate/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Resolve returns the id of the user owning the wallet address, creating the
// user on first sight. Concurrent first sign-ins for the same address are
// safe: the unique index on address turns the losing insert into a lookup.
func (r *UserRepository) Resolve(ctx context.Context, address string) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (address) VALUES ($1)
		 ON CONFLICT (address) DO NOTHING
		 RETURNING id`,
		address,
	).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	err = r.db.QueryRow(ctx, `SELECT id FROM users WHERE address = $1`, address).Scan(&id)
	return id, err
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, address, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Address, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetByAddress(ctx context.Context, address string) (*domain.User, error) {
	var u domain.User
	err := r.db.QueryRow(ctx,
		`SELECT id, address, created_at FROM users WHERE address = $1`, address,
	).Scan(&u.ID, &u.Address, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
