package db

import (
	"errors"

	"github.com/civicresolve/backend/internal/models"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

// MutateFunc edits a locked complaint in place. A non-nil entry is appended
// to the complaint's status history in the same transaction.
type MutateFunc func(c *models.Complaint) (*models.StatusEntry, error)
