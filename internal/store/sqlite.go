package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/ykvlv/mood-bot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Reasonable pooling for SQLite; it's a single-writer engine.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

// applyPragmas configures the SQLite connection for durability and concurrency.
func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// CreateUser inserts an inactive user row with unset schedule fields.
// Inserting an existing user is a no-op.
func (r *SQLiteRepo) CreateUser(ctx context.Context, telegramID int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (telegram_id, active_flag, created_at)
		VALUES (?, 0, ?)
		ON CONFLICT(telegram_id) DO NOTHING`,
		telegramID, time.Now().UTC().Unix(),
	)
	return err
}

// GetUser returns a user's settings by telegramID or ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, telegramID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT telegram_id, start_hour, end_hour, frequency, minute, active_flag, created_at
		FROM users
		WHERE telegram_id = ?`,
		telegramID,
	)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// ListActive returns every user with the active flag set.
func (r *SQLiteRepo) ListActive(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT telegram_id, start_hour, end_hour, frequency, minute, active_flag, created_at
		FROM users
		WHERE active_flag = 1
		ORDER BY telegram_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *u)
	}
	return res, rows.Err()
}

// SetWindow updates the notification window and minute offset for a user.
func (r *SQLiteRepo) SetWindow(ctx context.Context, telegramID int64, startHour, endHour, minute int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET start_hour = ?, end_hour = ?, minute = ?
		WHERE telegram_id = ?`,
		startHour, endHour, minute, telegramID,
	)
	return err
}

// SetFrequency updates the hour step between notification slots.
func (r *SQLiteRepo) SetFrequency(ctx context.Context, telegramID int64, frequency int) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET frequency = ?
		WHERE telegram_id = ?`,
		frequency, telegramID,
	)
	return err
}

// SetActive toggles the active flag for a user.
func (r *SQLiteRepo) SetActive(ctx context.Context, telegramID int64, active bool) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET active_flag = ?
		WHERE telegram_id = ?`,
		boolToInt(active), telegramID,
	)
	return err
}

// AddMark appends a mood rating and returns its id.
func (r *SQLiteRepo) AddMark(ctx context.Context, telegramID int64, value int, at time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO marks (telegram_id, value, created_at)
		VALUES (?, ?, ?)`,
		telegramID, value, at.UTC().Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListMarks returns a user's marks with created_at in [from, to), ordered by time.
func (r *SQLiteRepo) ListMarks(ctx context.Context, telegramID int64, from, to time.Time) ([]domain.Mark, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, telegram_id, value, created_at
		FROM marks
		WHERE telegram_id = ? AND created_at >= ? AND created_at < ?
		ORDER BY created_at`,
		telegramID, from.UTC().Unix(), to.UTC().Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Mark
	for rows.Next() {
		var (
			m         domain.Mark
			createdAt int64
		)
		if err := rows.Scan(&m.ID, &m.TelegramID, &m.Value, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		res = append(res, m)
	}
	return res, rows.Err()
}

// ListUsersWithMarks returns ids of users with at least one mark in [from, to).
func (r *SQLiteRepo) ListUsersWithMarks(ctx context.Context, from, to time.Time) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT telegram_id
		FROM marks
		WHERE created_at >= ? AND created_at < ?
		ORDER BY telegram_id`,
		from.UTC().Unix(), to.UTC().Unix(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		res = append(res, id)
	}
	return res, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanUser reads one users row. Schedule columns are nullable until the
// user finishes setup; NULLs scan as zero values with Active false.
func scanUser(s scanner) (*domain.User, error) {
	var (
		u         domain.User
		startNS   sql.NullInt64
		endNS     sql.NullInt64
		freqNS    sql.NullInt64
		minuteNS  sql.NullInt64
		activeInt int
		createdAt int64
	)
	if err := s.Scan(&u.TelegramID, &startNS, &endNS, &freqNS, &minuteNS, &activeInt, &createdAt); err != nil {
		return nil, err
	}
	u.StartHour = int(startNS.Int64)
	u.EndHour = int(endNS.Int64)
	u.Frequency = int(freqNS.Int64)
	u.Minute = int(minuteNS.Int64)
	u.Active = activeInt != 0
	u.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &u, nil
}

// boolToInt converts a boolean to 1/0 for SQLite.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
