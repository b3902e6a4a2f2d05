package service

import (
	"context"
	"errors"

	"github.com/civicresolve/backend/internal/db"
	"github.com/civicresolve/backend/internal/models"
)

var (
	ErrNotFound      = db.ErrNotFound
	ErrInvalidState  = errors.New("invalid state")
	ErrValidation    = errors.New("validation failed")
	ErrDuplicateVote = errors.New("duplicate vote")
)

// ComplaintStore is the persistence contract of the lifecycle engine.
// Both db.Store and db.SQLiteStore implement it.
type ComplaintStore interface {
	CreateComplaint(ctx context.Context, c models.Complaint) error
	GetComplaint(ctx context.Context, id string) (models.Complaint, error)
	GetComplaintByTrackingID(ctx context.Context, trackingID string) (models.Complaint, error)
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	IncrementVotes(ctx context.Context, id string) (int, error)
	UpdateComplaint(ctx context.Context, id string, fn db.MutateFunc) (models.Complaint, error)
	DeleteComplaint(ctx context.Context, id string) (models.Complaint, error)
	DeleteLatestComplaint(ctx context.Context) (models.Complaint, error)
}

type ContractorStore interface {
	ListContractorsRanked(ctx context.Context) ([]models.Contractor, error)
	AddContractorScore(ctx context.Context, id string, points int) (models.Contractor, error)
	UpsertContractor(ctx context.Context, c models.Contractor) error
}

type WalletStore interface {
	GetWalletPoints(ctx context.Context, userID string) (int, error)
	AddWalletPoints(ctx context.Context, userID string, points int) (int, error)
}

// Store bundles every persistence contract; used by cmd wiring.
type Store interface {
	ComplaintStore
	ContractorStore
	WalletStore
	Ping(ctx context.Context) error
	Migrate(ctx context.Context) error
	Close()
}

type BlobDeleter interface {
	Delete(ctx context.Context, url string)
}

// VoteGuard remembers which voter already voted on which complaint.
type VoteGuard interface {
	Claim(ctx context.Context, complaintID, voterID string) (bool, error)
	Release(ctx context.Context, complaintID, voterID string) error
}
