package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/civicresolve/backend/internal/ai"
	"github.com/civicresolve/backend/internal/db"
	"github.com/civicresolve/backend/internal/geocode"
	"github.com/civicresolve/backend/internal/models"
)

const (
	noteRegistered = "Complaint registered successfully"
	noteReopened   = "Complaint reopened by citizen"

	maxCreateAttempts = 5
)

// ComplaintService is the lifecycle engine: every complaint mutation goes
// through it so status, history and cross-entity effects stay consistent.
type ComplaintService struct {
	Complaints  ComplaintStore
	Contractors ContractorStore
	Analyzer    ai.Analyzer
	Blobs       BlobDeleter
	Geocoder    geocode.Geocoder
	VoteGuard   VoteGuard
	Logger      zerolog.Logger

	// StrictTransitions rejects status changes outside allowedTransitions.
	// Off by default: legacy clients move complaints freely.
	StrictTransitions bool

	Now func() time.Time
}

type CreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Location    models.Location
	Photo       *string
}

type StatusUpdate struct {
	Status               string
	Note                 string
	Department           string
	ContractorID         string
	EvaluatingDepartment string
}

type Evaluation struct {
	Points   int
	Feedback string
}

type EvaluationResult struct {
	Complaint models.Complaint `json:"complaint"`
	// ContractorUpdated is false when the assigned contractor no longer exists;
	// the history entry is still appended.
	ContractorUpdated bool               `json:"contractorUpdated"`
	Contractor        *models.Contractor `json:"contractor,omitempty"`
}

func (s *ComplaintService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *ComplaintService) Create(ctx context.Context, in CreateInput) (models.Complaint, error) {
	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	priority := strings.ToLower(strings.TrimSpace(in.Priority))
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !models.IsPriority(priority) {
		return models.Complaint{}, fmt.Errorf("%w: priority must be one of %s", ErrValidation, strings.Join(models.Priorities, ", "))
	}
	if !validCoord(in.Location.Lat, 90) || !validCoord(in.Location.Lng, 180) {
		return models.Complaint{}, fmt.Errorf("%w: coordinates out of range", ErrValidation)
	}

	loc := in.Location
	if s.Geocoder != nil && geocode.ShouldGeocode(loc) {
		res, err := s.Geocoder.Geocode(ctx, geocode.BuildComplaintQuery(loc))
		if err != nil {
			s.Logger.Debug().Err(err).Str("address", loc.Address).Msg("geocode skipped")
		} else {
			loc.Lat, loc.Lng = res.Lat, res.Lng
		}
	}

	now := s.now()
	c := models.Complaint{
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		Priority:    priority,
		Status:      models.StatusPending,
		Location:    loc,
		Photo:       in.Photo,
		StatusHistory: []models.StatusEntry{
			{Status: models.StatusPending, Timestamp: now, Note: noteRegistered},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	var err error
	for attempt := 0; attempt < maxCreateAttempts; attempt++ {
		c.ID = uuid.NewString()
		c.TrackingID = NewTrackingID(now)
		err = s.Complaints.CreateComplaint(ctx, c)
		if err == nil {
			s.Logger.Info().Str("complaint_id", c.ID).Str("tracking_id", c.TrackingID).Str("category", c.Category).Msg("complaint created")
			return c, nil
		}
		if !errors.Is(err, db.ErrConflict) {
			return models.Complaint{}, err
		}
		s.Logger.Warn().Err(err).Int("attempt", attempt+1).Msg("tracking id collision, regenerating")
	}
	return models.Complaint{}, fmt.Errorf("create complaint: %w", err)
}

func validCoord(v, limit float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= -limit && v <= limit
}

func (s *ComplaintService) Get(ctx context.Context, id string) (models.Complaint, error) {
	return s.Complaints.GetComplaint(ctx, id)
}

func (s *ComplaintService) Track(ctx context.Context, trackingID string) (models.Complaint, error) {
	return s.Complaints.GetComplaintByTrackingID(ctx, strings.TrimSpace(trackingID))
}

// Vote adds exactly one vote. With a vote guard and a voter id, repeated votes
// by the same voter fail with ErrDuplicateVote.
func (s *ComplaintService) Vote(ctx context.Context, id string, voterID string) (int, error) {
	claimed := false
	if s.VoteGuard != nil && voterID != "" {
		ok, err := s.VoteGuard.Claim(ctx, id, voterID)
		switch {
		case err != nil:
			s.Logger.Warn().Err(err).Str("complaint_id", id).Msg("vote guard unavailable, counting vote")
		case !ok:
			return 0, ErrDuplicateVote
		default:
			claimed = true
		}
	}

	votes, err := s.Complaints.IncrementVotes(ctx, id)
	if err != nil {
		if claimed {
			if relErr := s.VoteGuard.Release(ctx, id, voterID); relErr != nil {
				s.Logger.Warn().Err(relErr).Str("complaint_id", id).Msg("vote guard release failed")
			}
		}
		return 0, err
	}
	return votes, nil
}

func (s *ComplaintService) UpdateStatus(ctx context.Context, id string, upd StatusUpdate) (models.Complaint, error) {
	status := strings.TrimSpace(upd.Status)
	if !models.IsStatus(status) {
		return models.Complaint{}, fmt.Errorf("%w: status must be one of %s", ErrValidation, strings.Join(models.Statuses, ", "))
	}

	updated, err := s.Complaints.UpdateComplaint(ctx, id, func(c *models.Complaint) (*models.StatusEntry, error) {
		if s.StrictTransitions && !CanTransition(c.Status, status) {
			return nil, fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidState, c.Status, status)
		}
		now := s.now()
		c.Status = status
		if upd.Department != "" {
			c.Department = models.StringPtr(upd.Department)
		}
		if upd.ContractorID != "" {
			c.AssignedContractorID = models.StringPtr(upd.ContractorID)
			c.AssignedAt = &now
		}
		if upd.EvaluatingDepartment != "" {
			c.EvaluatingDepartment = models.StringPtr(upd.EvaluatingDepartment)
		}
		c.UpdatedAt = now

		note := upd.Note
		if note == "" {
			note = "Status updated to " + status
		}
		return &models.StatusEntry{Status: status, Timestamp: now, Note: note}, nil
	})
	if err != nil {
		return models.Complaint{}, err
	}

	s.Logger.Info().Str("complaint_id", id).Str("status", status).Str("contractor_id", upd.ContractorID).Msg("status updated")
	return updated, nil
}

// Evaluate scores the assigned contractor and records an "evaluated" history
// entry. The complaint's own status is left unchanged.
func (s *ComplaintService) Evaluate(ctx context.Context, id string, ev Evaluation) (EvaluationResult, error) {
	current, err := s.Complaints.GetComplaint(ctx, id)
	if err != nil {
		return EvaluationResult{}, err
	}
	if !hasContractor(current) {
		return EvaluationResult{}, fmt.Errorf("%w: no contractor assigned", ErrInvalidState)
	}
	contractorID := *current.AssignedContractorID

	result := EvaluationResult{}
	contractor, err := s.Contractors.AddContractorScore(ctx, contractorID, ev.Points)
	switch {
	case errors.Is(err, db.ErrNotFound):
		s.Logger.Warn().Str("complaint_id", id).Str("contractor_id", contractorID).Msg("assigned contractor not found, score not recorded")
	case err != nil:
		return EvaluationResult{}, err
	default:
		result.ContractorUpdated = true
		result.Contractor = &contractor
	}

	feedback := ev.Feedback
	if feedback == "" {
		feedback = "None"
	}
	note := fmt.Sprintf("Contractor Evaluated. Feedback: %s (%s pts)", feedback, signedPoints(ev.Points))

	updated, err := s.Complaints.UpdateComplaint(ctx, id, func(c *models.Complaint) (*models.StatusEntry, error) {
		now := s.now()
		c.UpdatedAt = now
		return &models.StatusEntry{Status: models.StatusEvaluated, Timestamp: now, Note: note}, nil
	})
	if err != nil {
		return EvaluationResult{}, err
	}
	result.Complaint = updated

	s.Logger.Info().Str("complaint_id", id).Str("contractor_id", contractorID).Int("points", ev.Points).Bool("contractor_updated", result.ContractorUpdated).Msg("contractor evaluated")
	return result, nil
}

func (s *ComplaintService) Reopen(ctx context.Context, id string, reason string) (models.Complaint, error) {
	updated, err := s.Complaints.UpdateComplaint(ctx, id, func(c *models.Complaint) (*models.StatusEntry, error) {
		if s.StrictTransitions && !CanTransition(c.Status, models.StatusReopened) {
			return nil, fmt.Errorf("%w: cannot reopen a %s complaint", ErrInvalidState, c.Status)
		}
		now := s.now()
		c.Status = models.StatusReopened
		c.UpdatedAt = now
		note := reason
		if note == "" {
			note = noteReopened
		}
		return &models.StatusEntry{Status: models.StatusReopened, Timestamp: now, Note: note}, nil
	})
	if err != nil {
		return models.Complaint{}, err
	}
	s.Logger.Info().Str("complaint_id", id).Msg("complaint reopened")
	return updated, nil
}

// AttachAnalysis replaces the stored analysis wholesale. No history entry.
func (s *ComplaintService) AttachAnalysis(ctx context.Context, id string, analysis *models.AIAnalysis) (models.Complaint, error) {
	return s.Complaints.UpdateComplaint(ctx, id, func(c *models.Complaint) (*models.StatusEntry, error) {
		c.AIAnalysis = analysis
		c.UpdatedAt = s.now()
		return nil, nil
	})
}

// AnalyzeAndAttach runs the analyzer on the stored complaint and attaches the result.
func (s *ComplaintService) AnalyzeAndAttach(ctx context.Context, id string) (models.Complaint, error) {
	c, err := s.Complaints.GetComplaint(ctx, id)
	if err != nil {
		return models.Complaint{}, err
	}
	analysis, err := s.analyze(ctx, ai.RequestFromComplaint(c))
	if err != nil {
		return models.Complaint{}, err
	}
	return s.AttachAnalysis(ctx, id, &analysis)
}

// Analyze never surfaces provider failures.
func (s *ComplaintService) Analyze(ctx context.Context, req ai.AnalysisRequest) (models.AIAnalysis, error) {
	return s.analyze(ctx, req)
}

func (s *ComplaintService) analyze(ctx context.Context, req ai.AnalysisRequest) (models.AIAnalysis, error) {
	return ai.Resilient{Primary: s.Analyzer, Logger: s.Logger}.Analyze(ctx, req)
}

func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	removed, err := s.Complaints.DeleteComplaint(ctx, id)
	if err != nil {
		return err
	}
	s.removePhoto(ctx, removed)
	s.Logger.Info().Str("complaint_id", id).Msg("complaint deleted")
	return nil
}

// DeleteLatest removes the most recently created complaint.
func (s *ComplaintService) DeleteLatest(ctx context.Context) (models.Complaint, error) {
	removed, err := s.Complaints.DeleteLatestComplaint(ctx)
	if err != nil {
		return models.Complaint{}, err
	}
	s.removePhoto(ctx, removed)
	s.Logger.Info().Str("complaint_id", removed.ID).Msg("latest complaint deleted")
	return removed, nil
}

func (s *ComplaintService) removePhoto(ctx context.Context, c models.Complaint) {
	if s.Blobs == nil || c.Photo == nil || *c.Photo == "" {
		return
	}
	s.Blobs.Delete(ctx, *c.Photo)
}

func hasContractor(c models.Complaint) bool {
	return c.AssignedContractorID != nil && *c.AssignedContractorID != ""
}

func signedPoints(points int) string {
	if points > 0 {
		return fmt.Sprintf("+%d", points)
	}
	return fmt.Sprintf("%d", points)
}
