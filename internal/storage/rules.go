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

// CreateRule persists a new rule, assigning an ID when absent.
func (s *SQLiteStorage) CreateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}

	if rule.ID == "" {
		rule.ID = uuid.NewString()
	}
	now := time.Now()
	if rule.CreatedAt.IsZero() {
		rule.CreatedAt = now
	}
	rule.UpdatedAt = now

	conditions, exclusions, destination, err := encodeRuleColumns(rule)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO rules (
			id, name, conditions, combinator, exclusions, action,
			destination, category_id, is_enabled, sort_order,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		rule.ID, rule.Name, conditions, rule.Combinator, exclusions, rule.Action,
		destination, nullIfEmpty(rule.CategoryID), rule.IsEnabled, rule.SortOrder,
		rule.CreatedAt, rule.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create rule: %w", err)
	}
	return nil
}

// GetRule retrieves a rule by ID.
func (s *SQLiteStorage) GetRule(ctx context.Context, id string) (*model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, ruleSelect+` WHERE id = ?`, id)
	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("rule %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get rule: %w", err)
	}
	return rule, nil
}

// GetRules retrieves every rule in priority order.
func (s *SQLiteStorage) GetRules(ctx context.Context) ([]model.Rule, error) {
	return s.queryRules(ctx, ruleSelect+` ORDER BY sort_order ASC, created_at ASC`)
}

// GetEnabledRules retrieves enabled rules in priority order.
func (s *SQLiteStorage) GetEnabledRules(ctx context.Context) ([]model.Rule, error) {
	return s.queryRules(ctx, ruleSelect+` WHERE is_enabled = 1 ORDER BY sort_order ASC, created_at ASC`)
}

// UpdateRule replaces a stored rule's mutable fields.
func (s *SQLiteStorage) UpdateRule(ctx context.Context, rule *model.Rule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRule(rule); err != nil {
		return err
	}
	if err := validateString(rule.ID, "rule.ID"); err != nil {
		return err
	}

	conditions, exclusions, destination, err := encodeRuleColumns(rule)
	if err != nil {
		return err
	}
	rule.UpdatedAt = time.Now()

	query := `
		UPDATE rules SET
			name = ?, conditions = ?, combinator = ?, exclusions = ?,
			action = ?, destination = ?, category_id = ?, is_enabled = ?,
			sort_order = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		rule.Name, conditions, rule.Combinator, exclusions,
		rule.Action, destination, nullIfEmpty(rule.CategoryID), rule.IsEnabled,
		rule.SortOrder, rule.UpdatedAt, rule.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return requireRowAffected(result, rule.ID)
}

// SetRuleEnabled toggles a rule without touching its other fields.
func (s *SQLiteStorage) SetRuleEnabled(ctx context.Context, id string, enabled bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE rules SET is_enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to toggle rule: %w", err)
	}
	return requireRowAffected(result, id)
}

// DeleteRule removes a rule permanently.
func (s *SQLiteStorage) DeleteRule(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return requireRowAffected(result, id)
}

const ruleSelect = `
	SELECT id, name, conditions, combinator, exclusions, action,
		destination, category_id, is_enabled, sort_order,
		created_at, updated_at
	FROM rules`

func (s *SQLiteStorage) queryRules(ctx context.Context, query string, args ...any) ([]model.Rule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rules []model.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rules: %w", err)
	}
	return rules, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*model.Rule, error) {
	var rule model.Rule
	var conditions, exclusions, destination, categoryID sql.NullString

	err := row.Scan(
		&rule.ID, &rule.Name, &conditions, &rule.Combinator, &exclusions, &rule.Action,
		&destination, &categoryID, &rule.IsEnabled, &rule.SortOrder,
		&rule.CreatedAt, &rule.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if conditions.Valid && conditions.String != "" {
		if err := json.Unmarshal([]byte(conditions.String), &rule.Conditions); err != nil {
			return nil, fmt.Errorf("failed to decode conditions: %w", err)
		}
	}
	if exclusions.Valid && exclusions.String != "" {
		if err := json.Unmarshal([]byte(exclusions.String), &rule.Exclusions); err != nil {
			return nil, fmt.Errorf("failed to decode exclusions: %w", err)
		}
	}
	if destination.Valid && destination.String != "" {
		var dest model.Destination
		if err := json.Unmarshal([]byte(destination.String), &dest); err != nil {
			return nil, fmt.Errorf("failed to decode destination: %w", err)
		}
		rule.Destination = &dest
	}
	rule.CategoryID = categoryID.String
	return &rule, nil
}

func encodeRuleColumns(rule *model.Rule) (conditions, exclusions string, destination sql.NullString, err error) {
	condBytes, err := json.Marshal(rule.Conditions)
	if err != nil {
		return "", "", sql.NullString{}, fmt.Errorf("failed to encode conditions: %w", err)
	}
	exclBytes, err := json.Marshal(rule.Exclusions)
	if err != nil {
		return "", "", sql.NullString{}, fmt.Errorf("failed to encode exclusions: %w", err)
	}
	if rule.Destination != nil {
		destBytes, err := json.Marshal(rule.Destination)
		if err != nil {
			return "", "", sql.NullString{}, fmt.Errorf("failed to encode destination: %w", err)
		}
		destination = sql.NullString{String: string(destBytes), Valid: true}
	}
	return string(condBytes), string(exclBytes), destination, nil
}

func nullIfEmpty(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func requireRowAffected(result sql.Result, id string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("rule %s: %w", id, common.ErrNotFound)
	}
	return nil
}
