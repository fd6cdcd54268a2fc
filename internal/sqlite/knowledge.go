package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rsanthanam/techdesk/internal/kb"
)

// ReplaceRecords swaps the knowledge_base table contents for the provided
// set in a single transaction, so readers of the table never see a partially
// ingested workbook.
func (s *Store) ReplaceRecords(ctx context.Context, records []kb.Record) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("sqlite store not initialised")
	}
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM knowledge_base`); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear knowledge base: %w", err)
	}
	stmt, err := tx.PreparexContext(ctx, `INSERT INTO knowledge_base (code, name, sub_code, description) VALUES (?, ?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Code, rec.Name, rec.SubCode, rec.Description); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	return nil
}

// AllRecords returns the knowledge base in insertion order.
func (s *Store) AllRecords(ctx context.Context) ([]kb.Record, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	records := []kb.Record{}
	if err := s.db.SelectContext(ctx, &records, `SELECT code, name, sub_code, description FROM knowledge_base ORDER BY id`); err != nil {
		return nil, fmt.Errorf("select records: %w", err)
	}
	return records, nil
}

// PreviewRecords returns up to limit raw rows for the admin table browser,
// optionally filtered by a substring match on code or name.
func (s *Store) PreviewRecords(ctx context.Context, search string, limit int) ([]KnowledgeRow, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("sqlite store not initialised")
	}
	if limit <= 0 {
		limit = 50
	}
	rows := []KnowledgeRow{}
	if search != "" {
		pattern := "%" + search + "%"
		err := s.db.SelectContext(ctx, &rows,
			`SELECT * FROM knowledge_base WHERE code LIKE ? OR name LIKE ? ORDER BY id LIMIT ?`,
			pattern, pattern, limit)
		if err != nil {
			return nil, fmt.Errorf("preview records: %w", err)
		}
		return rows, nil
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM knowledge_base ORDER BY id LIMIT ?`, limit); err != nil {
		return nil, fmt.Errorf("preview records: %w", err)
	}
	return rows, nil
}
