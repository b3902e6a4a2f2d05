package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/civicresolve/backend/internal/models"
)

type ContractorService struct {
	Store  ContractorStore
	Logger zerolog.Logger
}

// Ranked lists contractors by points, highest first.
func (s *ContractorService) Ranked(ctx context.Context) ([]models.Contractor, error) {
	out, err := s.Store.ListContractorsRanked(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Contractor{}
	}
	return out, nil
}

func (s *ContractorService) Register(ctx context.Context, c models.Contractor) error {
	c.ID = strings.TrimSpace(c.ID)
	if c.ID == "" || strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: contractor id and name are required", ErrValidation)
	}
	if err := s.Store.UpsertContractor(ctx, c); err != nil {
		return err
	}
	s.Logger.Info().Str("contractor_id", c.ID).Msg("contractor registered")
	return nil
}

type WalletService struct {
	Store  WalletStore
	Logger zerolog.Logger
}

// Points returns a user's balance; unknown users have 0.
func (s *WalletService) Points(ctx context.Context, userID string) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: missing userId", ErrValidation)
	}
	points, err := s.Store.GetWalletPoints(ctx, userID)
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	return points, err
}

func (s *WalletService) Add(ctx context.Context, userID string, points int) (int, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, fmt.Errorf("%w: missing userId", ErrValidation)
	}
	total, err := s.Store.AddWalletPoints(ctx, userID, points)
	if err != nil {
		return 0, err
	}
	s.Logger.Debug().Str("user_id", userID).Int("added", points).Int("total", total).Msg("wallet updated")
	return total, nil
}

// RoadService serves the static road project reference data.
type RoadService struct {
	Projects []models.RoadProject
}

func (s *RoadService) List(status string) []models.RoadProject {
	out := []models.RoadProject{}
	for _, p := range s.Projects {
		if matches(status, p.Status) {
			out = append(out, p)
		}
	}
	return out
}
