package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/go-sql-driver/mysql"

	"xbar-clockify/internal/domain"
)

// Client implements ports.Sink by writing to a MySQL table.
type Client struct {
	db  *sql.DB
	log *slog.Logger
}

// NewClient opens a MySQL connection using the provided DSN.
// Example DSN: user:pass@tcp(host:3306)/dbname?parseTime=true&multiStatements=true
func NewClient(ctx context.Context, dsn string, log *slog.Logger) (*Client, error) {
	if dsn == "" {
		return nil, errors.New("mysql: DSN is required")
	}
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}
	// The archive runs once and exits; a couple of connections is plenty.
	db.SetMaxOpenConns(2)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(5 * time.Minute)

	c, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(c); err != nil {
		db.Close()
		return nil, err
	}
	return &Client{db: db, log: log}, nil
}

// SyncEntries upserts entries into clockify_time_entries.
func (c *Client) SyncEntries(ctx context.Context, entries []domain.TimeEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := c.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	const q = `
INSERT INTO clockify_time_entries
  (id, description, user_id, project_id, workspace_id, billable, is_locked, tags, start_at, end_at, duration)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  description=VALUES(description),
  user_id=VALUES(user_id),
  project_id=VALUES(project_id),
  workspace_id=VALUES(workspace_id),
  billable=VALUES(billable),
  is_locked=VALUES(is_locked),
  tags=VALUES(tags),
  start_at=VALUES(start_at),
  end_at=VALUES(end_at),
  duration=VALUES(duration);
`
	stmt, err := tx.PrepareContext(ctx, q)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, e := range entries {
		names := make([]string, 0, len(e.Tags))
		for _, t := range e.Tags {
			names = append(names, t.Name)
		}
		tagsJSON, err := json.Marshal(names)
		if err != nil {
			tx.Rollback()
			return fmt.Errorf("encode tags of %s: %w", e.ID, err)
		}
		var project, end any
		if e.ProjectID != nil {
			project = *e.ProjectID
		}
		if e.Interval.End != nil {
			end = e.Interval.End.UTC()
		}
		if _, err := stmt.ExecContext(
			ctx,
			e.ID,
			e.Description,
			e.UserID,
			project,
			e.WorkspaceID,
			e.Billable,
			e.IsLocked,
			string(tagsJSON),
			e.Interval.Start.UTC(),
			end,
			e.Interval.Duration,
		); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	c.log.Info("mysql sink upserted entries", slog.Int("count", len(entries)))
	return nil
}

// Close closes the underlying DB.
func (c *Client) Close() error { return c.db.Close() }
