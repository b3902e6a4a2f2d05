package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/civicresolve/backend/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS complaints (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	tracking_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'Other',
	priority TEXT NOT NULL DEFAULT 'medium',
	status TEXT NOT NULL DEFAULT 'pending',
	lat REAL NOT NULL DEFAULT 0,
	lng REAL NOT NULL DEFAULT 0,
	address TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	district TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	landmark TEXT NOT NULL DEFAULT '',
	photo TEXT,
	votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
	department TEXT,
	assigned_contractor_id TEXT,
	assigned_at DATETIME,
	evaluating_department TEXT,
	ai_analysis TEXT,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS complaint_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	complaint_id TEXT NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_complaint_history_complaint ON complaint_history(complaint_id, id);
CREATE TABLE IF NOT EXISTS contractors (
	seq INTEGER PRIMARY KEY AUTOINCREMENT,
	id TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	points INTEGER NOT NULL DEFAULT 0,
	total_works INTEGER NOT NULL DEFAULT 0,
	quality_rating REAL NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS wallets (
	user_id TEXT PRIMARY KEY,
	points INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`

// SQLiteStore is the single-file backend used for local runs and tests.
// Writes are serialized through one connection and immediate transactions.
type SQLiteStore struct {
	DB *sql.DB
}

func NewSQLite(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("file:%s?_txlock=immediate&_busy_timeout=5000&_foreign_keys=1", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return &SQLiteStore{DB: db}, nil
}

func (s *SQLiteStore) Close() {
	_ = s.DB.Close()
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.DB.ExecContext(ctx, sqliteSchema)
	return err
}

func (s *SQLiteStore) WithTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

type sqlQuerier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *SQLiteStore) CreateComplaint(ctx context.Context, c models.Complaint) error {
	analysis, err := encodeAnalysis(c.AIAnalysis)
	if err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO complaints (`+complaintColumns+`)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
		`, c.ID, c.TrackingID, c.Title, c.Description, c.Category, c.Priority, c.Status,
			c.Location.Lat, c.Location.Lng, c.Location.Address, c.Location.State, c.Location.District, c.Location.City, c.Location.Landmark,
			c.Photo, c.Votes, c.Department, c.AssignedContractorID, c.AssignedAt, c.EvaluatingDepartment,
			analysis, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			var sqliteErr sqlite3.Error
			if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
				return fmt.Errorf("%w: %s", ErrConflict, sqliteErr.Error())
			}
			return err
		}
		for _, e := range c.StatusHistory {
			if err := insertSQLiteHistory(ctx, tx, c.ID, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	return getSQLiteComplaint(ctx, s.DB, `SELECT `+complaintColumns+` FROM complaints WHERE id = ?`, id)
}

func (s *SQLiteStore) GetComplaintByTrackingID(ctx context.Context, trackingID string) (models.Complaint, error) {
	return getSQLiteComplaint(ctx, s.DB, `SELECT `+complaintColumns+` FROM complaints WHERE tracking_id = ?`, trackingID)
}

func getSQLiteComplaint(ctx context.Context, q sqlQuerier, query string, args ...any) (models.Complaint, error) {
	c, err := scanComplaint(q.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Complaint{}, ErrNotFound
		}
		return models.Complaint{}, err
	}
	history, err := loadSQLiteHistory(ctx, q, []string{c.ID})
	if err != nil {
		return models.Complaint{}, err
	}
	c.StatusHistory = history[c.ID]
	return c, nil
}

func (s *SQLiteStore) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	var out []models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	// One pass over the history table; the connection is single so the
	// complaint rows are closed before this query runs.
	history, err := loadSQLiteHistory(ctx, s.DB, nil)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].StatusHistory = history[out[i].ID]
	}
	return out, nil
}

// loadSQLiteHistory loads entries for ids, or for every complaint when ids is nil.
func loadSQLiteHistory(ctx context.Context, q sqlQuerier, ids []string) (map[string][]models.StatusEntry, error) {
	query := `SELECT complaint_id, status, note, created_at FROM complaint_history`
	var args []any
	if ids != nil {
		placeholders := make([]string, 0, len(ids))
		for _, id := range ids {
			placeholders = append(placeholders, "?")
			args = append(args, id)
		}
		query += ` WHERE complaint_id IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY id ASC`

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string][]models.StatusEntry{}
	for rows.Next() {
		var (
			complaintID string
			e           models.StatusEntry
		)
		if err := rows.Scan(&complaintID, &e.Status, &e.Note, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Timestamp = e.Timestamp.UTC()
		out[complaintID] = append(out[complaintID], e)
	}
	return out, rows.Err()
}

func insertSQLiteHistory(ctx context.Context, tx *sql.Tx, complaintID string, e models.StatusEntry) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO complaint_history (complaint_id, status, note, created_at)
		VALUES (?,?,?,?)
	`, complaintID, e.Status, e.Note, e.Timestamp)
	return err
}

func (s *SQLiteStore) IncrementVotes(ctx context.Context, id string) (int, error) {
	var votes int
	err := s.DB.QueryRowContext(ctx, `
		UPDATE complaints SET votes = votes + 1, updated_at = ? WHERE id = ? RETURNING votes
	`, time.Now().UTC(), id).Scan(&votes)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return votes, err
}

func (s *SQLiteStore) UpdateComplaint(ctx context.Context, id string, fn MutateFunc) (models.Complaint, error) {
	var out models.Complaint
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		c, err := getSQLiteComplaint(ctx, tx, `SELECT `+complaintColumns+` FROM complaints WHERE id = ?`, id)
		if err != nil {
			return err
		}
		entry, err := fn(&c)
		if err != nil {
			return err
		}
		analysis, err := encodeAnalysis(c.AIAnalysis)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			UPDATE complaints
			SET status = ?, department = ?, assigned_contractor_id = ?, assigned_at = ?,
				evaluating_department = ?, ai_analysis = ?, updated_at = ?
			WHERE id = ?
		`, c.Status, c.Department, c.AssignedContractorID, c.AssignedAt, c.EvaluatingDepartment, analysis, c.UpdatedAt, id)
		if err != nil {
			return err
		}
		if entry != nil {
			if err := insertSQLiteHistory(ctx, tx, id, *entry); err != nil {
				return err
			}
			c.StatusHistory = append(c.StatusHistory, *entry)
		}
		out = c
		return nil
	})
	return out, err
}

func (s *SQLiteStore) DeleteComplaint(ctx context.Context, id string) (models.Complaint, error) {
	return s.deleteWhere(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = ?`, id)
}

func (s *SQLiteStore) DeleteLatestComplaint(ctx context.Context) (models.Complaint, error) {
	return s.deleteWhere(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY created_at DESC, seq DESC LIMIT 1`)
}

func (s *SQLiteStore) deleteWhere(ctx context.Context, query string, args ...any) (models.Complaint, error) {
	var out models.Complaint
	err := s.WithTx(ctx, func(tx *sql.Tx) error {
		c, err := getSQLiteComplaint(ctx, tx, query, args...)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM complaint_history WHERE complaint_id = ?`, c.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM complaints WHERE id = ?`, c.ID); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *SQLiteStore) ListContractorsRanked(ctx context.Context) ([]models.Contractor, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT `+contractorColumns+` FROM contractors ORDER BY points DESC, seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Contractor
	for rows.Next() {
		c, err := scanContractor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddContractorScore(ctx context.Context, id string, points int) (models.Contractor, error) {
	c, err := scanContractor(s.DB.QueryRowContext(ctx, `
		UPDATE contractors SET points = points + ?, total_works = total_works + 1
		WHERE id = ?
		RETURNING `+contractorColumns, points, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Contractor{}, ErrNotFound
	}
	return c, err
}

func (s *SQLiteStore) UpsertContractor(ctx context.Context, c models.Contractor) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO contractors (id, name, points, total_works, quality_rating)
		VALUES (?,?,?,?,?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			quality_rating = excluded.quality_rating
	`, c.ID, c.Name, c.Points, c.TotalWorks, c.QualityRating)
	return err
}

func (s *SQLiteStore) GetWalletPoints(ctx context.Context, userID string) (int, error) {
	var points int
	err := s.DB.QueryRowContext(ctx, `SELECT points FROM wallets WHERE user_id = ?`, userID).Scan(&points)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	return points, err
}

func (s *SQLiteStore) AddWalletPoints(ctx context.Context, userID string, points int) (int, error) {
	var total int
	err := s.DB.QueryRowContext(ctx, `
		INSERT INTO wallets (user_id, points) VALUES (?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			points = wallets.points + excluded.points,
			updated_at = CURRENT_TIMESTAMP
		RETURNING points
	`, userID, points).Scan(&total)
	return total, err
}
