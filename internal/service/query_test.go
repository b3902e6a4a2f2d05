package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civicresolve/backend/internal/geocode"
	"github.com/civicresolve/backend/internal/models"
)

func complaintFixture(id, category, status, priority string, votes int, created time.Time) models.Complaint {
	return models.Complaint{
		ID:         id,
		TrackingID: "CIV-" + id,
		Title:      "title " + id,
		Category:   category,
		Status:     status,
		Priority:   priority,
		Votes:      votes,
		CreatedAt:  created,
	}
}

func ids(cs []models.Complaint) []string {
	out := make([]string, 0, len(cs))
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

func TestFilterByCategorySortByVotesIsStable(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []models.Complaint{
		complaintFixture("a", "Roads", "pending", "low", 2, base),
		complaintFixture("b", "Water", "pending", "low", 9, base),
		complaintFixture("c", "Roads", "pending", "low", 5, base),
		complaintFixture("d", "Roads", "pending", "low", 2, base),
		complaintFixture("e", "Roads", "pending", "low", 5, base),
	}
	out := FilterComplaints(all, ListFilter{Category: "Roads"})
	SortComplaints(out, SortVotes)
	assert.Equal(t, []string{"c", "e", "a", "d"}, ids(out))
}

func TestFilterAllSentinelAndSearch(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := complaintFixture("a", "Roads", "pending", "high", 0, base)
	a.Description = "Huge POTHOLE near school"
	b := complaintFixture("b", "Water", "resolved", "low", 0, base)
	b.Location.Address = "Pothole lane"
	c := complaintFixture("c", "Water", "resolved", "low", 0, base)

	all := []models.Complaint{a, b, c}
	assert.Len(t, FilterComplaints(all, ListFilter{Category: "all", Status: "all", Priority: "all"}), 3)
	assert.Equal(t, []string{"a", "b"}, ids(FilterComplaints(all, ListFilter{Search: "pothole"})))
	assert.Equal(t, []string{"c"}, ids(FilterComplaints(all, ListFilter{Search: "civ-c"})))
	assert.Equal(t, []string{"b"}, ids(FilterComplaints(all, ListFilter{Status: "resolved", Search: "lane"})))
}

func TestSortByPriorityAndDefaultNewestFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	all := []models.Complaint{
		complaintFixture("a", "Roads", "pending", "low", 0, base),
		complaintFixture("b", "Roads", "pending", "high", 0, base.Add(time.Hour)),
		complaintFixture("c", "Roads", "pending", "medium", 0, base.Add(2*time.Hour)),
		complaintFixture("d", "Roads", "pending", "high", 0, base.Add(3*time.Hour)),
	}
	byPriority := append([]models.Complaint(nil), all...)
	SortComplaints(byPriority, SortPriority)
	assert.Equal(t, []string{"b", "d", "c", "a"}, ids(byPriority))

	newest := append([]models.Complaint(nil), all...)
	SortComplaints(newest, "")
	assert.Equal(t, []string{"d", "c", "b", "a"}, ids(newest))
}

func TestComputeStats(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := complaintFixture("a", "Roads", "pending", "high", 0, base)
	a.Location.Lat, a.Location.Lng = 18.5, 73.8
	b := complaintFixture("b", "Roads", "resolved", "low", 0, base)
	b.Location.Lat = 12.9
	c := complaintFixture("c", "Water", "resolved", "low", 0, base)

	stats := ComputeStats([]models.Complaint{a, b, c})
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, map[string]int{"pending": 1, "resolved": 2, "in-progress": 0, "reopened": 0}, stats.ByStatus)
	assert.Equal(t, map[string]int{"Roads": 2, "Water": 1}, stats.ByCategory)
	assert.Equal(t, map[string]int{"low": 2, "medium": 0, "high": 1}, stats.ByPriority)
	require.Len(t, stats.Hotspots, 1)
	assert.Equal(t, models.Hotspot{Lat: 18.5, Lng: 73.8, Title: "title a", Category: "Roads"}, stats.Hotspots[0])
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Zero(t, stats.Total)
	assert.Empty(t, stats.ByCategory)
	assert.NotNil(t, stats.Hotspots)
	assert.Equal(t, 0, stats.ByStatus["reopened"])
}

func TestServiceListAppliesFilters(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	mustCreate(t, svc, CreateInput{Title: "a", Category: "Roads"})
	roads := mustCreate(t, svc, CreateInput{Title: "b", Category: "Roads"})
	mustCreate(t, svc, CreateInput{Title: "c", Category: "Water"})
	_, err := svc.Vote(ctx, roads.ID, "")
	require.NoError(t, err)

	out, err := svc.List(ctx, ListFilter{Category: "Roads", Sort: SortVotes})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, roads.ID, out[0].ID)
}

func TestContractorRankingAndWallet(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()
	contractors := &ContractorService{Store: store}
	require.NoError(t, contractors.Register(ctx, models.Contractor{ID: "c1", Name: "One", Points: 10}))
	require.NoError(t, contractors.Register(ctx, models.Contractor{ID: "c2", Name: "Two", Points: 50}))
	require.NoError(t, contractors.Register(ctx, models.Contractor{ID: "c3", Name: "Three", Points: 10}))
	assert.ErrorIs(t, contractors.Register(ctx, models.Contractor{ID: " "}), ErrValidation)

	ranked, err := contractors.Ranked(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 3)
	assert.Equal(t, []string{"c2", "c1", "c3"}, []string{ranked[0].ID, ranked[1].ID, ranked[2].ID})

	wallets := &WalletService{Store: store}
	points, err := wallets.Points(ctx, "u1")
	require.NoError(t, err)
	assert.Zero(t, points)
	points, err = wallets.Add(ctx, "u1", 25)
	require.NoError(t, err)
	assert.Equal(t, 25, points)
	points, err = wallets.Add(ctx, "u1", 5)
	require.NoError(t, err)
	assert.Equal(t, 30, points)
	_, err = wallets.Add(ctx, "", 5)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestRoadServiceFiltersByStatus(t *testing.T) {
	roads := &RoadService{Projects: []models.RoadProject{
		{ID: "R1", Status: "ongoing"},
		{ID: "R2", Status: "completed"},
	}}
	assert.Len(t, roads.List("all"), 2)
	assert.Len(t, roads.List(""), 2)
	got := roads.List("completed")
	require.Len(t, got, 1)
	assert.Equal(t, "R2", got[0].ID)
}

func TestFilterNear(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	pune := complaintFixture("pune", "Roads", "pending", "low", 0, base)
	pune.Location.Lat, pune.Location.Lng = 18.5204, 73.8567
	mumbai := complaintFixture("mumbai", "Roads", "pending", "low", 0, base)
	mumbai.Location.Lat, mumbai.Location.Lng = 19.0760, 72.8777
	unset := complaintFixture("unset", "Roads", "pending", "low", 0, base)

	center := &geocode.Result{Lat: 18.53, Lng: 73.85}
	out := FilterComplaints([]models.Complaint{pune, mumbai, unset}, ListFilter{Near: center, RadiusKm: 5})
	assert.Equal(t, []string{"pune"}, ids(out))
}
