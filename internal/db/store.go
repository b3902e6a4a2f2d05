package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/civicresolve/backend/internal/models"
)

const pgUniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS complaints (
	seq BIGSERIAL UNIQUE,
	id TEXT PRIMARY KEY,
	tracking_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	category TEXT NOT NULL DEFAULT 'Other',
	priority TEXT NOT NULL DEFAULT 'medium',
	status TEXT NOT NULL DEFAULT 'pending',
	lat DOUBLE PRECISION NOT NULL DEFAULT 0,
	lng DOUBLE PRECISION NOT NULL DEFAULT 0,
	address TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	district TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	landmark TEXT NOT NULL DEFAULT '',
	photo TEXT,
	votes INTEGER NOT NULL DEFAULT 0 CHECK (votes >= 0),
	department TEXT,
	assigned_contractor_id TEXT,
	assigned_at TIMESTAMPTZ,
	evaluating_department TEXT,
	ai_analysis JSONB,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS complaint_history (
	id BIGSERIAL PRIMARY KEY,
	complaint_id TEXT NOT NULL REFERENCES complaints(id) ON DELETE CASCADE,
	status TEXT NOT NULL,
	note TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_complaint_history_complaint ON complaint_history(complaint_id, id);
CREATE TABLE IF NOT EXISTS contractors (
	seq BIGSERIAL UNIQUE,
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	points INTEGER NOT NULL DEFAULT 0,
	total_works INTEGER NOT NULL DEFAULT 0,
	quality_rating DOUBLE PRECISION NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS wallets (
	user_id TEXT PRIMARY KEY,
	points INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// Store is the PostgreSQL backend.
type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.Pool.Exec(ctx, postgresSchema)
	return err
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *Store) CreateComplaint(ctx context.Context, c models.Complaint) error {
	analysis, err := encodeAnalysis(c.AIAnalysis)
	if err != nil {
		return err
	}
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			INSERT INTO complaints (`+complaintColumns+`)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22,$23)
		`, c.ID, c.TrackingID, c.Title, c.Description, c.Category, c.Priority, c.Status,
			c.Location.Lat, c.Location.Lng, c.Location.Address, c.Location.State, c.Location.District, c.Location.City, c.Location.Landmark,
			c.Photo, c.Votes, c.Department, c.AssignedContractorID, c.AssignedAt, c.EvaluatingDepartment,
			analysis, c.CreatedAt, c.UpdatedAt)
		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
				return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
			}
			return err
		}
		for _, e := range c.StatusHistory {
			if err := s.insertHistory(ctx, tx, c.ID, e); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) GetComplaint(ctx context.Context, id string) (models.Complaint, error) {
	return s.getComplaint(ctx, s.Pool, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1`, id)
}

func (s *Store) GetComplaintByTrackingID(ctx context.Context, trackingID string) (models.Complaint, error) {
	return s.getComplaint(ctx, s.Pool, `SELECT `+complaintColumns+` FROM complaints WHERE tracking_id = $1`, trackingID)
}

type pgQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func (s *Store) getComplaint(ctx context.Context, q pgQuerier, query string, arg any) (models.Complaint, error) {
	c, err := scanComplaint(q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Complaint{}, ErrNotFound
		}
		return models.Complaint{}, err
	}
	history, err := s.loadHistory(ctx, q, []string{c.ID})
	if err != nil {
		return models.Complaint{}, err
	}
	c.StatusHistory = history[c.ID]
	return c, nil
}

// ListComplaints returns every complaint in insertion order.
func (s *Store) ListComplaints(ctx context.Context) ([]models.Complaint, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY seq ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Complaint
	var ids []string
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	history, err := s.loadHistory(ctx, s.Pool, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].StatusHistory = history[out[i].ID]
	}
	return out, nil
}

func (s *Store) loadHistory(ctx context.Context, q pgQuerier, ids []string) (map[string][]models.StatusEntry, error) {
	rows, err := q.Query(ctx, `
		SELECT complaint_id, status, note, created_at
		FROM complaint_history
		WHERE complaint_id = ANY($1)
		ORDER BY id ASC
	`, ids)
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

func (s *Store) insertHistory(ctx context.Context, tx pgx.Tx, complaintID string, e models.StatusEntry) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO complaint_history (complaint_id, status, note, created_at)
		VALUES ($1,$2,$3,$4)
	`, complaintID, e.Status, e.Note, e.Timestamp)
	return err
}

func (s *Store) IncrementVotes(ctx context.Context, id string) (int, error) {
	var votes int
	err := s.Pool.QueryRow(ctx, `
		UPDATE complaints SET votes = votes + 1, updated_at = $2 WHERE id = $1 RETURNING votes
	`, id, time.Now().UTC()).Scan(&votes)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return votes, err
}

// UpdateComplaint locks the complaint row, applies fn and appends the entry
// it returns, all in one transaction.
func (s *Store) UpdateComplaint(ctx context.Context, id string, fn MutateFunc) (models.Complaint, error) {
	var out models.Complaint
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		c, err := s.getComplaint(ctx, tx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1 FOR UPDATE`, id)
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
		_, err = tx.Exec(ctx, `
			UPDATE complaints
			SET status = $1, department = $2, assigned_contractor_id = $3, assigned_at = $4,
				evaluating_department = $5, ai_analysis = $6, updated_at = $7
			WHERE id = $8
		`, c.Status, c.Department, c.AssignedContractorID, c.AssignedAt, c.EvaluatingDepartment, analysis, c.UpdatedAt, id)
		if err != nil {
			return err
		}
		if entry != nil {
			if err := s.insertHistory(ctx, tx, id, *entry); err != nil {
				return err
			}
			c.StatusHistory = append(c.StatusHistory, *entry)
		}
		out = c
		return nil
	})
	return out, err
}

func (s *Store) DeleteComplaint(ctx context.Context, id string) (models.Complaint, error) {
	return s.deleteWhere(ctx, `SELECT `+complaintColumns+` FROM complaints WHERE id = $1 FOR UPDATE`, id)
}

func (s *Store) DeleteLatestComplaint(ctx context.Context) (models.Complaint, error) {
	return s.deleteWhere(ctx, `SELECT `+complaintColumns+` FROM complaints ORDER BY created_at DESC, seq DESC LIMIT 1 FOR UPDATE`)
}

func (s *Store) deleteWhere(ctx context.Context, query string, args ...any) (models.Complaint, error) {
	var out models.Complaint
	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		c, err := scanComplaint(tx.QueryRow(ctx, query, args...))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		history, err := s.loadHistory(ctx, tx, []string{c.ID})
		if err != nil {
			return err
		}
		c.StatusHistory = history[c.ID]
		if _, err := tx.Exec(ctx, `DELETE FROM complaint_history WHERE complaint_id = $1`, c.ID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM complaints WHERE id = $1`, c.ID); err != nil {
			return err
		}
		out = c
		return nil
	})
	return out, err
}

func (s *Store) ListContractorsRanked(ctx context.Context) ([]models.Contractor, error) {
	rows, err := s.Pool.Query(ctx, `SELECT `+contractorColumns+` FROM contractors ORDER BY points DESC, seq ASC`)
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

// AddContractorScore adds points and one completed work in a single statement.
func (s *Store) AddContractorScore(ctx context.Context, id string, points int) (models.Contractor, error) {
	c, err := scanContractor(s.Pool.QueryRow(ctx, `
		UPDATE contractors SET points = points + $1, total_works = total_works + 1
		WHERE id = $2
		RETURNING `+contractorColumns, points, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Contractor{}, ErrNotFound
	}
	return c, err
}

// UpsertContractor registers a contractor. Existing score counters are kept.
func (s *Store) UpsertContractor(ctx context.Context, c models.Contractor) error {
	_, err := s.Pool.Exec(ctx, `
		INSERT INTO contractors (id, name, points, total_works, quality_rating)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			quality_rating = EXCLUDED.quality_rating
	`, c.ID, c.Name, c.Points, c.TotalWorks, c.QualityRating)
	return err
}

func (s *Store) GetWalletPoints(ctx context.Context, userID string) (int, error) {
	var points int
	err := s.Pool.QueryRow(ctx, `SELECT points FROM wallets WHERE user_id = $1`, userID).Scan(&points)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return points, err
}

func (s *Store) AddWalletPoints(ctx context.Context, userID string, points int) (int, error) {
	var total int
	err := s.Pool.QueryRow(ctx, `
		INSERT INTO wallets (user_id, points, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			points = wallets.points + EXCLUDED.points,
			updated_at = NOW()
		RETURNING points
	`, userID, points).Scan(&total)
	return total, err
}
