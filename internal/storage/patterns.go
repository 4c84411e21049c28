package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/quietfile/declutter/internal/common"
	"github.com/quietfile/declutter/internal/model"
)

// SavePattern inserts a learned pattern, or replaces the stored version when
// induction produced the same pattern again with fresh counts. Rejections are
// user signal, not induction output, so re-induction never lowers the stored
// rejection count.
func (s *SQLiteStorage) SavePattern(ctx context.Context, pattern *model.LearnedPattern) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePattern(pattern); err != nil {
		return err
	}

	conditions, err := json.Marshal(pattern.Conditions)
	if err != nil {
		return fmt.Errorf("failed to encode conditions: %w", err)
	}
	contexts, err := json.Marshal(pattern.TemporalContexts)
	if err != nil {
		return fmt.Errorf("failed to encode temporal contexts: %w", err)
	}
	keywords, err := json.Marshal(pattern.Keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	query := `
		INSERT INTO patterns (
			id, description, file_extension, destination_path, conditions,
			combinator, time_category, temporal_contexts, keywords,
			occurrence_count, rejection_count, confidence, last_seen, is_negative
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			description = excluded.description,
			occurrence_count = excluded.occurrence_count,
			rejection_count = MAX(patterns.rejection_count, excluded.rejection_count),
			confidence = excluded.confidence,
			last_seen = excluded.last_seen,
			is_negative = excluded.is_negative
	`
	_, err = s.db.ExecContext(ctx, query,
		pattern.ID, pattern.Description, pattern.FileExtension, pattern.DestinationPath, string(conditions),
		pattern.Combinator, nullIfEmpty(string(pattern.TimeCategory)), string(contexts), string(keywords),
		pattern.OccurrenceCount, pattern.RejectionCount, pattern.Confidence, pattern.LastSeen, pattern.IsNegative,
	)
	if err != nil {
		return fmt.Errorf("failed to save pattern: %w", err)
	}
	return nil
}

// GetPatterns retrieves all learned patterns, most confident first.
func (s *SQLiteStorage) GetPatterns(ctx context.Context) ([]model.LearnedPattern, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, description, file_extension, destination_path, conditions,
			combinator, time_category, temporal_contexts, keywords,
			occurrence_count, rejection_count, confidence, last_seen, is_negative
		FROM patterns
		ORDER BY confidence DESC, id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query patterns: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var patterns []model.LearnedPattern
	for rows.Next() {
		var p model.LearnedPattern
		var conditions, contexts, keywords string
		var timeCategory sql.NullString
		var lastSeen sql.NullTime

		if err := rows.Scan(
			&p.ID, &p.Description, &p.FileExtension, &p.DestinationPath, &conditions,
			&p.Combinator, &timeCategory, &contexts, &keywords,
			&p.OccurrenceCount, &p.RejectionCount, &p.Confidence, &lastSeen, &p.IsNegative,
		); err != nil {
			return nil, fmt.Errorf("failed to scan pattern: %w", err)
		}

		if err := json.Unmarshal([]byte(conditions), &p.Conditions); err != nil {
			return nil, fmt.Errorf("failed to decode conditions: %w", err)
		}
		if contexts != "" {
			if err := json.Unmarshal([]byte(contexts), &p.TemporalContexts); err != nil {
				return nil, fmt.Errorf("failed to decode temporal contexts: %w", err)
			}
		}
		if keywords != "" {
			if err := json.Unmarshal([]byte(keywords), &p.Keywords); err != nil {
				return nil, fmt.Errorf("failed to decode keywords: %w", err)
			}
		}
		p.TimeCategory = model.TimeCategory(timeCategory.String)
		p.LastSeen = lastSeen.Time

		patterns = append(patterns, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate patterns: %w", err)
	}
	return patterns, nil
}

// DeletePattern removes a pattern, typically after conversion into a rule.
func (s *SQLiteStorage) DeletePattern(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `DELETE FROM patterns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pattern: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("pattern %s: %w", id, common.ErrNotFound)
	}
	return nil
}
