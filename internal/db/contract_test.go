package db

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/models"
)

// complaintStore is the method set both backends share.
type complaintStore interface {
	CreateComplaint(ctx context.Context, c models.Complaint) error
	GetComplaint(ctx context.Context, id string) (models.Complaint, error)
	GetComplaintByTrackingID(ctx context.Context, trackingID string) (models.Complaint, error)
	ListComplaints(ctx context.Context) ([]models.Complaint, error)
	IncrementVotes(ctx context.Context, id string) (int, error)
	UpdateComplaint(ctx context.Context, id string, fn MutateFunc) (models.Complaint, error)
	DeleteComplaint(ctx context.Context, id string) (models.Complaint, error)
	DeleteLatestComplaint(ctx context.Context) (models.Complaint, error)
	ListContractorsRanked(ctx context.Context) ([]models.Contractor, error)
	AddContractorScore(ctx context.Context, id string, points int) (models.Contractor, error)
	UpsertContractor(ctx context.Context, c models.Contractor) error
	GetWalletPoints(ctx context.Context, userID string) (int, error)
	AddWalletPoints(ctx context.Context, userID string, points int) (int, error)
}

func newComplaint(created time.Time) models.Complaint {
	id := uuid.NewString()
	return models.Complaint{
		ID:         id,
		TrackingID: "CIV-" + id[:8],
		Title:      "Pothole on FC Road",
		Category:   "Roads",
		Priority:   models.PriorityHigh,
		Status:     models.StatusPending,
		Location:   models.Location{Lat: 18.52, Lng: 73.85, Address: "FC Road", City: "Pune"},
		StatusHistory: []models.StatusEntry{
			{Status: models.StatusPending, Timestamp: created, Note: "Complaint registered successfully"},
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func runStoreContract(t *testing.T, s complaintStore) {
	ctx := context.Background()
	base := time.Now().UTC().Truncate(time.Millisecond)

	t.Run("create and read back", func(t *testing.T) {
		c := newComplaint(base)
		c.Photo = models.StringPtr("/uploads/a.jpg")
		require.NoError(t, s.CreateComplaint(ctx, c))

		got, err := s.GetComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.TrackingID, got.TrackingID)
		assert.Equal(t, c.Location, got.Location)
		assert.Equal(t, "/uploads/a.jpg", *got.Photo)
		assert.Nil(t, got.Department)
		assert.Nil(t, got.AIAnalysis)
		require.Len(t, got.StatusHistory, 1)
		assert.Equal(t, models.StatusPending, got.StatusHistory[0].Status)

		byTracking, err := s.GetComplaintByTrackingID(ctx, c.TrackingID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, byTracking.ID)
	})

	t.Run("duplicate tracking id conflicts", func(t *testing.T) {
		c := newComplaint(base)
		require.NoError(t, s.CreateComplaint(ctx, c))
		dup := newComplaint(base)
		dup.TrackingID = c.TrackingID
		assert.ErrorIs(t, s.CreateComplaint(ctx, dup), ErrConflict)
	})

	t.Run("missing rows", func(t *testing.T) {
		_, err := s.GetComplaint(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.IncrementVotes(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.UpdateComplaint(ctx, "missing", func(*models.Complaint) (*models.StatusEntry, error) { return nil, nil })
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.AddContractorScore(ctx, "missing", 1)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.GetWalletPoints(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("concurrent votes", func(t *testing.T) {
		c := newComplaint(base)
		require.NoError(t, s.CreateComplaint(ctx, c))
		const n = 20
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.IncrementVotes(ctx, c.ID)
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		got, err := s.GetComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, n, got.Votes)
	})

	t.Run("update appends history and persists fields", func(t *testing.T) {
		c := newComplaint(base)
		require.NoError(t, s.CreateComplaint(ctx, c))
		at := base.Add(time.Minute)

		updated, err := s.UpdateComplaint(ctx, c.ID, func(cur *models.Complaint) (*models.StatusEntry, error) {
			cur.Status = models.StatusInProgress
			cur.Department = models.StringPtr("PWD")
			cur.AssignedContractorID = models.StringPtr("C-1")
			cur.AssignedAt = &at
			cur.AIAnalysis = &models.AIAnalysis{Severity: "Critical", SeverityScore: 9}
			cur.UpdatedAt = at
			return &models.StatusEntry{Status: models.StatusInProgress, Timestamp: at, Note: "assigned"}, nil
		})
		require.NoError(t, err)
		assert.Len(t, updated.StatusHistory, 2)

		got, err := s.GetComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, got.Status)
		assert.Equal(t, "PWD", *got.Department)
		assert.Equal(t, "C-1", *got.AssignedContractorID)
		assert.True(t, at.Equal(*got.AssignedAt))
		require.NotNil(t, got.AIAnalysis)
		assert.Equal(t, 9, got.AIAnalysis.SeverityScore)
		require.Len(t, got.StatusHistory, 2)
		assert.Equal(t, "assigned", got.StatusHistory[1].Note)

		// a failing mutation leaves nothing behind
		boom := errors.New("boom")
		_, err = s.UpdateComplaint(ctx, c.ID, func(cur *models.Complaint) (*models.StatusEntry, error) {
			cur.Status = models.StatusResolved
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
		got, err = s.GetComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, got.Status)
		assert.Len(t, got.StatusHistory, 2)
	})

	t.Run("concurrent updates keep every entry", func(t *testing.T) {
		c := newComplaint(base)
		require.NoError(t, s.CreateComplaint(ctx, c))
		const n = 10
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.UpdateComplaint(ctx, c.ID, func(cur *models.Complaint) (*models.StatusEntry, error) {
					cur.Status = models.StatusResolved
					return &models.StatusEntry{Status: models.StatusResolved, Timestamp: time.Now().UTC()}, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		got, err := s.GetComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.Len(t, got.StatusHistory, n+1)
	})

	t.Run("delete", func(t *testing.T) {
		c := newComplaint(base)
		require.NoError(t, s.CreateComplaint(ctx, c))
		removed, err := s.DeleteComplaint(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.ID, removed.ID)
		_, err = s.GetComplaintByTrackingID(ctx, c.TrackingID)
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = s.DeleteComplaint(ctx, c.ID)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete latest picks newest", func(t *testing.T) {
		newest := newComplaint(base.Add(24 * time.Hour))
		require.NoError(t, s.CreateComplaint(ctx, newest))
		removed, err := s.DeleteLatestComplaint(ctx)
		require.NoError(t, err)
		assert.Equal(t, newest.ID, removed.ID)
	})

	t.Run("list includes history", func(t *testing.T) {
		all, err := s.ListComplaints(ctx)
		require.NoError(t, err)
		require.NotEmpty(t, all)
		for _, c := range all {
			assert.NotEmpty(t, c.StatusHistory, c.ID)
		}
	})

	t.Run("contractors", func(t *testing.T) {
		a, b := uuid.NewString(), uuid.NewString()
		require.NoError(t, s.UpsertContractor(ctx, models.Contractor{ID: a, Name: "A", Points: 1000}))
		require.NoError(t, s.UpsertContractor(ctx, models.Contractor{ID: b, Name: "B", Points: 999}))

		updated, err := s.AddContractorScore(ctx, b, 30)
		require.NoError(t, err)
		assert.Equal(t, 1029, updated.Points)
		assert.Equal(t, 1, updated.TotalWorks)

		// upsert keeps counters
		require.NoError(t, s.UpsertContractor(ctx, models.Contractor{ID: b, Name: "B2", QualityRating: 4}))
		ranked, err := s.ListContractorsRanked(ctx)
		require.NoError(t, err)
		var ids []string
		for _, c := range ranked {
			if c.ID == a || c.ID == b {
				ids = append(ids, c.ID)
			}
			if c.ID == b {
				assert.Equal(t, "B2", c.Name)
				assert.Equal(t, 1029, c.Points)
			}
		}
		assert.Equal(t, []string{b, a}, ids)
	})

	t.Run("wallets", func(t *testing.T) {
		user := uuid.NewString()
		total, err := s.AddWalletPoints(ctx, user, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, total)
		total, err = s.AddWalletPoints(ctx, user, 15)
		require.NoError(t, err)
		assert.Equal(t, 25, total)
		got, err := s.GetWalletPoints(ctx, user)
		require.NoError(t, err)
		assert.Equal(t, 25, got)
	})
}
