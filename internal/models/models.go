package models

import "time"

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusReopened   = "reopened"

	// StatusEvaluated only appears in history entries, never as Complaint.Status.
	StatusEvaluated = "evaluated"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

const DefaultCategory = "Other"

// Statuses lists every value the primary status field may hold.
var Statuses = []string{StatusPending, StatusInProgress, StatusResolved, StatusReopened}

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Location struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Address  string  `json:"address"`
	State    string  `json:"state"`
	District string  `json:"district"`
	City     string  `json:"city"`
	Landmark string  `json:"landmark"`
}

type StatusEntry struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Note      string    `json:"note"`
}

type Complaint struct {
	ID                   string        `json:"id"`
	TrackingID           string        `json:"trackingId"`
	Title                string        `json:"title"`
	Description          string        `json:"description"`
	Category             string        `json:"category"`
	Priority             string        `json:"priority"`
	Status               string        `json:"status"`
	Location             Location      `json:"location"`
	Photo                *string       `json:"photo"`
	Votes                int           `json:"votes"`
	Department           *string       `json:"department"`
	AssignedContractorID *string       `json:"assignedContractorId"`
	AssignedAt           *time.Time    `json:"assignedAt"`
	EvaluatingDepartment *string       `json:"evaluatingDepartment"`
	StatusHistory        []StatusEntry `json:"statusHistory"`
	AIAnalysis           *AIAnalysis   `json:"aiAnalysis"`
	CreatedAt            time.Time     `json:"createdAt"`
	UpdatedAt            time.Time     `json:"updatedAt"`
}

type AIAnalysis struct {
	Severity            string   `json:"severity"`
	SeverityScore       int      `json:"severityScore"`
	Department          string   `json:"department"`
	EstimatedResolution string   `json:"estimatedResolution"`
	Analysis            string   `json:"analysis"`
	SuggestedResponses  []string `json:"suggestedResponses"`
	Recommendations     []string `json:"recommendations"`
}

type Contractor struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	Points        int     `json:"points" yaml:"points"`
	TotalWorks    int     `json:"totalWorks" yaml:"total_works"`
	QualityRating float64 `json:"qualityRating" yaml:"quality_rating"`
}

type Wallet struct {
	UserID string `json:"userId"`
	Points int    `json:"points"`
}

type RoadProject struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Location    string `json:"location" yaml:"location"`
	Status      string `json:"status" yaml:"status"`
	Progress    int    `json:"progress" yaml:"progress"`
	StartDate   string `json:"startDate" yaml:"start_date"`
	ExpectedEnd string `json:"expectedEnd" yaml:"expected_end"`
	Contractor  string `json:"contractor" yaml:"contractor"`
	Budget      string `json:"budget" yaml:"budget"`
}

type Hotspot struct {
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
}

type Stats struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"byStatus"`
	ByCategory map[string]int `json:"byCategory"`
	ByPriority map[string]int `json:"byPriority"`
	Hotspots   []Hotspot      `json:"hotspots"`
}

func IsStatus(v string) bool {
	for _, s := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func IsPriority(v string) bool {
	for _, p := range Priorities {
		if p == v {
			return true
		}
	}
	return false
}

func StringPtr(v string) *string {
	return &v
}
