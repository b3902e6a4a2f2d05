package service

import (
	"context"
	"sort"
	"strings"

	"github.com/civicresolve/backend/internal/geocode"
	"github.com/civicresolve/backend/internal/models"
)

const (
	SortVotes    = "votes"
	SortPriority = "priority"
	filterAll    = "all"
)

var priorityRank = map[string]int{
	models.PriorityHigh:   3,
	models.PriorityMedium: 2,
	models.PriorityLow:    1,
}

type ListFilter struct {
	Category string
	Status   string
	Priority string
	Search   string
	Sort     string

	// Near restricts results to complaints within RadiusKm of the point.
	Near     *geocode.Result
	RadiusKm float64
}

func (s *ComplaintService) List(ctx context.Context, f ListFilter) ([]models.Complaint, error) {
	all, err := s.Complaints.ListComplaints(ctx)
	if err != nil {
		return nil, err
	}
	out := FilterComplaints(all, f)
	SortComplaints(out, f.Sort)
	return out, nil
}

func (s *ComplaintService) Stats(ctx context.Context) (models.Stats, error) {
	all, err := s.Complaints.ListComplaints(ctx)
	if err != nil {
		return models.Stats{}, err
	}
	return ComputeStats(all), nil
}

// FilterComplaints applies the exact-match filters and the search term.
// Empty values and "all" disable a filter.
func FilterComplaints(in []models.Complaint, f ListFilter) []models.Complaint {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Complaint, 0, len(in))
	for _, c := range in {
		if !matches(f.Category, c.Category) || !matches(f.Status, c.Status) || !matches(f.Priority, c.Priority) {
			continue
		}
		if search != "" && !containsAny(search, c.Title, c.Description, c.Location.Address, c.TrackingID) {
			continue
		}
		if f.Near != nil && !within(c.Location, *f.Near, f.RadiusKm) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SortComplaints orders in place. Ties keep their relative order.
func SortComplaints(cs []models.Complaint, by string) {
	switch by {
	case SortVotes:
		sort.SliceStable(cs, func(i, j int) bool {
			return cs[i].Votes > cs[j].Votes
		})
	case SortPriority:
		sort.SliceStable(cs, func(i, j int) bool {
			return priorityRank[cs[i].Priority] > priorityRank[cs[j].Priority]
		})
	default:
		sort.SliceStable(cs, func(i, j int) bool {
			return cs[i].CreatedAt.After(cs[j].CreatedAt)
		})
	}
}

func ComputeStats(cs []models.Complaint) models.Stats {
	stats := models.Stats{
		Total:      len(cs),
		ByStatus:   map[string]int{},
		ByCategory: map[string]int{},
		ByPriority: map[string]int{},
		Hotspots:   []models.Hotspot{},
	}
	for _, s := range models.Statuses {
		stats.ByStatus[s] = 0
	}
	for _, p := range models.Priorities {
		stats.ByPriority[p] = 0
	}

	for _, c := range cs {
		stats.ByStatus[c.Status]++
		stats.ByCategory[c.Category]++
		stats.ByPriority[c.Priority]++
		// 0 is the "unset" default for coordinates.
		if c.Location.Lat != 0 && c.Location.Lng != 0 {
			stats.Hotspots = append(stats.Hotspots, models.Hotspot{
				Lat:      c.Location.Lat,
				Lng:      c.Location.Lng,
				Title:    c.Title,
				Category: c.Category,
			})
		}
	}
	return stats
}

func matches(filter, value string) bool {
	return filter == "" || filter == filterAll || filter == value
}

func containsAny(needle string, fields ...string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// within skips complaints without coordinates.
func within(loc models.Location, center geocode.Result, radiusKm float64) bool {
	if loc.Lat == 0 && loc.Lng == 0 {
		return false
	}
	return geocode.DistanceKm(center.Lat, center.Lng, loc.Lat, loc.Lng) <= radiusKm
}
