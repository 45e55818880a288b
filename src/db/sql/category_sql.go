package db

import (
	"context"
	"fmt"

	"fintrack-server/src/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, c *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, color, icon)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, color, icon, is_active, created_at, updated_at
	`
	var out models.Category
	err := pool.QueryRow(ctx, query, c.UserID, c.Name, c.Color, c.Icon).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Color, &out.Icon, &out.IsActive, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetCategoryByID(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int) (*models.Category, error) {
	query := `
		SELECT id, user_id, name, color, icon, is_active, created_at, updated_at
		FROM categories WHERE id = $1 AND user_id = $2 AND is_active
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, categoryID, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetAllCategoriesForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, color, icon, is_active, created_at, updated_at
		FROM categories WHERE user_id = $1 AND is_active
		ORDER BY name
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.Icon, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func UpdateCategory(ctx context.Context, pool *pgxpool.Pool, c *models.Category) (*models.Category, error) {
	query := `
		UPDATE categories
		SET name = $1, color = $2, icon = $3, updated_at = NOW()
		WHERE id = $4 AND user_id = $5 AND is_active
		RETURNING id, user_id, name, color, icon, is_active, created_at, updated_at
	`
	var out models.Category
	err := pool.QueryRow(ctx, query, c.Name, c.Color, c.Icon, c.ID, c.UserID).
		Scan(&out.ID, &out.UserID, &out.Name, &out.Color, &out.Icon, &out.IsActive, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCategory soft-deletes; transactions keep their category_id.
func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, categoryID int) error {
	query := `UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1 AND user_id = $2`
	cmd, err := pool.Exec(ctx, query, categoryID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}
