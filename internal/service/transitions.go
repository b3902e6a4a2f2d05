package service

import "github.com/civicresolve/backend/internal/models"

// allowedTransitions is the intended workflow graph:
// pending -> in-progress -> resolved -> reopened -> in-progress -> ...
// Self-transitions let admins add notes or reassign without moving the complaint.
var allowedTransitions = map[string][]string{
	models.StatusPending:    {models.StatusPending, models.StatusInProgress},
	models.StatusInProgress: {models.StatusInProgress, models.StatusResolved},
	models.StatusResolved:   {models.StatusResolved, models.StatusReopened},
	models.StatusReopened:   {models.StatusReopened, models.StatusInProgress},
}

func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
