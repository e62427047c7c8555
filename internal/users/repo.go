package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Create inserts a new user. Username and email are unique; a duplicate
// of either reports ErrUserExists.
func (r *Repo) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	if username == "" || email == "" {
		return nil, fmt.Errorf("username and email required")
	}

	const q = `
insert into users (username, email, password_hash)
values ($1, $2, $3)
returning id::text, username, email, password_hash, created_at;
`
	var u User
	err := r.db.QueryRow(ctx, q, username, email, passwordHash).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrUserExists
		}
		return nil, err
	}
	return &u, nil
}

// GetByUsername looks a user up for login.
func (r *Repo) GetByUsername(ctx context.Context, username string) (*User, error) {
	const q = `
select id::text, username, email, password_hash, created_at
from users
where username = $1;
`
	var u User
	err := r.db.QueryRow(ctx, q, username).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// GetByID resolves the session's user id back to a user.
func (r *Repo) GetByID(ctx context.Context, id string) (*User, error) {
	const q = `
select id::text, username, email, password_hash, created_at
from users
where id = $1::uuid;
`
	var u User
	err := r.db.QueryRow(ctx, q, id).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
