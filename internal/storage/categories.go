package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/model"
)

// CreateCategory persists a new category, assigning an ID when absent.
func (s *SQLiteStorage) CreateCategory(ctx context.Context, category *model.Category) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCategory(category); err != nil {
		return err
	}

	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	folders, err := json.Marshal(category.Scope.Folders)
	if err != nil {
		return fmt.Errorf("failed to encode scope folders: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO categories (id, name, scope_folders, is_enabled, created_at) VALUES (?, ?, ?, ?, ?)`,
		category.ID, category.Name, string(folders), category.IsEnabled, category.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStorage) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, scope_folders, is_enabled, created_at FROM categories WHERE id = ?`, id)
	category, err := scanCategory(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("category %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return category, nil
}

// GetCategories retrieves all categories ordered by name.
func (s *SQLiteStorage) GetCategories(ctx context.Context) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, scope_folders, is_enabled, created_at FROM categories ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, *category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate categories: %w", err)
	}
	return categories, nil
}

// SetCategoryEnabled toggles a category. Disabling a category makes every
// rule referencing it non-matching until re-enabled.
func (s *SQLiteStorage) SetCategoryEnabled(ctx context.Context, id string, enabled bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE categories SET is_enabled = ? WHERE id = ?`, enabled, id)
	if err != nil {
		return fmt.Errorf("failed to toggle category: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("category %s: %w", id, common.ErrNotFound)
	}
	return nil
}

func scanCategory(row rowScanner) (*model.Category, error) {
	var category model.Category
	var folders sql.NullString

	if err := row.Scan(&category.ID, &category.Name, &folders, &category.IsEnabled, &category.CreatedAt); err != nil {
		return nil, err
	}
	if folders.Valid && folders.String != "" {
		if err := json.Unmarshal([]byte(folders.String), &category.Scope.Folders); err != nil {
			return nil, fmt.Errorf("failed to decode scope folders: %w", err)
		}
	}
	return &category, nil
}
