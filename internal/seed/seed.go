package seed

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/civicresolve/backend/internal/models"
)

// Data is the reference data loaded at startup.
type Data struct {
	Contractors  []models.Contractor  `yaml:"contractors"`
	RoadProjects []models.RoadProject `yaml:"road_projects"`
}

type ContractorUpserter interface {
	UpsertContractor(ctx context.Context, c models.Contractor) error
}

// Load reads a seed file. A missing file yields empty data.
func Load(path string) (Data, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Data{}, nil
	}
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	return Parse(raw)
}

func Parse(raw []byte) (Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Data{}, fmt.Errorf("parse seed file: %w", err)
	}
	seen := map[string]bool{}
	for i, c := range d.Contractors {
		if c.ID == "" || c.Name == "" {
			return Data{}, fmt.Errorf("contractor #%d: id and name are required", i+1)
		}
		if seen[c.ID] {
			return Data{}, fmt.Errorf("contractor %s listed twice", c.ID)
		}
		seen[c.ID] = true
	}
	return d, nil
}

// ApplyContractors upserts every seeded contractor. Existing scores are kept.
func ApplyContractors(ctx context.Context, store ContractorUpserter, d Data) (int, error) {
	for _, c := range d.Contractors {
		if err := store.UpsertContractor(ctx, c); err != nil {
			return 0, fmt.Errorf("seed contractor %s: %w", c.ID, err)
		}
	}
	return len(d.Contractors), nil
}
