package ai

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/civicresolve/backend/internal/models"
)

type AnalysisRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Location    string `json:"location"`
}

type Analyzer interface {
	Analyze(ctx context.Context, req AnalysisRequest) (models.AIAnalysis, error)
}

// Resilient never fails: any error from Primary, or a nil Primary, yields the
// rule-based fallback.
type Resilient struct {
	Primary Analyzer
	Logger  zerolog.Logger
}

func (r Resilient) Analyze(ctx context.Context, req AnalysisRequest) (models.AIAnalysis, error) {
	if r.Primary == nil {
		return Fallback(req), nil
	}
	analysis, err := r.Primary.Analyze(ctx, req)
	if err != nil {
		r.Logger.Warn().Err(err).Str("category", req.Category).Msg("analysis provider unavailable, using fallback")
		return Fallback(req), nil
	}
	return analysis, nil
}

// RequestFromComplaint builds the provider input for a stored complaint.
func RequestFromComplaint(c models.Complaint) AnalysisRequest {
	return AnalysisRequest{
		Title:       c.Title,
		Description: c.Description,
		Category:    c.Category,
		Priority:    c.Priority,
		Location:    c.Location.Address,
	}
}
