package db

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/civicresolve/backend/internal/models"
)

const complaintColumns = `id, tracking_id, title, description, category, priority, status,
	lat, lng, address, state, district, city, landmark,
	photo, votes, department, assigned_contractor_id, assigned_at, evaluating_department,
	ai_analysis, created_at, updated_at`

const contractorColumns = `id, name, points, total_works, quality_rating`

// rowScanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanComplaint(row rowScanner) (models.Complaint, error) {
	var (
		c            models.Complaint
		photo        sql.NullString
		department   sql.NullString
		contractorID sql.NullString
		assignedAt   sql.NullTime
		evalDept     sql.NullString
		analysis     []byte
	)
	err := row.Scan(
		&c.ID, &c.TrackingID, &c.Title, &c.Description, &c.Category, &c.Priority, &c.Status,
		&c.Location.Lat, &c.Location.Lng, &c.Location.Address, &c.Location.State, &c.Location.District, &c.Location.City, &c.Location.Landmark,
		&photo, &c.Votes, &department, &contractorID, &assignedAt, &evalDept,
		&analysis, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return models.Complaint{}, err
	}
	c.Photo = nullString(photo)
	c.Department = nullString(department)
	c.AssignedContractorID = nullString(contractorID)
	c.EvaluatingDepartment = nullString(evalDept)
	if assignedAt.Valid {
		t := assignedAt.Time.UTC()
		c.AssignedAt = &t
	}
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	c.AIAnalysis, err = decodeAnalysis(analysis)
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

func scanContractor(row rowScanner) (models.Contractor, error) {
	var c models.Contractor
	err := row.Scan(&c.ID, &c.Name, &c.Points, &c.TotalWorks, &c.QualityRating)
	return c, err
}

func nullString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

// encodeAnalysis returns the JSON text of a, or an untyped nil so both
// drivers bind NULL.
func encodeAnalysis(a *models.AIAnalysis) (any, error) {
	if a == nil {
		return nil, nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode analysis: %w", err)
	}
	return string(b), nil
}

func decodeAnalysis(raw []byte) (*models.AIAnalysis, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var a models.AIAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode analysis: %w", err)
	}
	return &a, nil
}
