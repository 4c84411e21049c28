package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/quietfile/declutter/internal/model"
	"github.com/quietfile/declutter/internal/service"
)

// AppendActivity adds one record to the append-only activity log.
func (s *SQLiteStorage) AppendActivity(ctx context.Context, record *model.ActivityRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateActivity(record); err != nil {
		return err
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now()
	}

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (type, file_name, file_extension, details, timestamp) VALUES (?, ?, ?, ?, ?)`,
		record.Type, record.FileName, nullIfEmpty(record.FileExtension), record.Details, record.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to append activity: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get activity ID: %w", err)
	}
	record.ID = id
	return nil
}

// GetActivities retrieves a snapshot of the activity log, oldest first.
func (s *SQLiteStorage) GetActivities(ctx context.Context, filter service.ActivityFilter) ([]model.ActivityRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `SELECT id, type, file_name, file_extension, details, timestamp FROM activities`
	var clauses []string
	var args []any

	if filter.Since != nil {
		clauses = append(clauses, `timestamp >= ?`)
		args = append(args, *filter.Since)
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, len(filter.Types))
		for i, t := range filter.Types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		clauses = append(clauses, `type IN (`+strings.Join(placeholders, ", ")+`)`)
	}
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	query += ` ORDER BY timestamp ASC, id ASC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.ActivityRecord
	for rows.Next() {
		var record model.ActivityRecord
		var ext sql.NullString
		if err := rows.Scan(&record.ID, &record.Type, &record.FileName, &ext, &record.Details, &record.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		record.FileExtension = ext.String
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activities: %w", err)
	}
	return records, nil
}
