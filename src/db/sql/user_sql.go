package db

import (
	"context"
	"errors"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func GetUserByID(ctx context.Context, pool *pgxpool.Pool, id int) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, super_admin, created_at
		FROM users
		WHERE id = $1
	`
	err := pool.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SuperAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func GetUserByUsername(ctx context.Context, pool *pgxpool.Pool, username string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, super_admin, created_at
		FROM users
		WHERE username = $1
	`
	err := pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SuperAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func GetUserByEmail(ctx context.Context, pool *pgxpool.Pool, email string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, username, email, first_name, last_name, password_hash, super_admin, created_at
		FROM users
		WHERE email = $1
	`
	err := pool.QueryRow(ctx, query, email).Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.SuperAdmin,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errors.New("user not found")
		}
		return nil, fmt.Errorf("query error: %w", err)
	}
	return &user, nil
}

func CreateUser(ctx context.Context, pool *pgxpool.Pool, req models.RegisterRequest, hashedPassword string) (*models.RegisterResponse, error) {
	query := `
		INSERT INTO users (first_name, last_name, username, email, password_hash)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var userID int
	err := pool.QueryRow(ctx, query,
		req.FirstName,
		req.LastName,
		req.Username,
		req.Email,
		hashedPassword,
	).Scan(&userID)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &models.RegisterResponse{
		ID:       userID,
		Email:    req.Email,
		Username: req.Username,
	}, nil
}

func UpdateUserPassword(ctx context.Context, pool *pgxpool.Pool, userID int, hashedPassword string) error {
	query := `UPDATE users SET password_hash = $1 WHERE id = $2`
	cmd, err := pool.Exec(ctx, query, hashedPassword, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("user not found")
	}
	return nil
}

func DeleteUser(ctx context.Context, pool *pgxpool.Pool, userID int) error {
	query := `DELETE FROM users WHERE id = $1`
	if _, err := pool.Exec(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
