package service

import (
	"context"
	"sync"

	"github.com/civicresolve/backend/internal/db"
	"github.com/civicresolve/backend/internal/models"
)

// memStore is an in-memory ComplaintStore/ContractorStore/WalletStore used by
// the service tests. One mutex gives the same per-call atomicity the SQL
// stores get from transactions.
type memStore struct {
	mu          sync.Mutex
	order       []string
	complaints  map[string]models.Complaint
	contractors []models.Contractor
	wallets     map[string]int

	createErr error
}

func newMemStore() *memStore {
	return &memStore{
		complaints: map[string]models.Complaint{},
		wallets:    map[string]int{},
	}
}

func clone(c models.Complaint) models.Complaint {
	c.StatusHistory = append([]models.StatusEntry(nil), c.StatusHistory...)
	return c
}

func (m *memStore) CreateComplaint(_ context.Context, c models.Complaint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		err := m.createErr
		m.createErr = nil
		return err
	}
	if _, ok := m.complaints[c.ID]; ok {
		return db.ErrConflict
	}
	for _, existing := range m.complaints {
		if existing.TrackingID == c.TrackingID {
			return db.ErrConflict
		}
	}
	m.complaints[c.ID] = clone(c)
	m.order = append(m.order, c.ID)
	return nil
}

func (m *memStore) GetComplaint(_ context.Context, id string) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return models.Complaint{}, db.ErrNotFound
	}
	return clone(c), nil
}

func (m *memStore) GetComplaintByTrackingID(_ context.Context, trackingID string) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.complaints {
		if c.TrackingID == trackingID {
			return clone(c), nil
		}
	}
	return models.Complaint{}, db.ErrNotFound
}

func (m *memStore) ListComplaints(_ context.Context) ([]models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Complaint, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, clone(m.complaints[id]))
	}
	return out, nil
}

func (m *memStore) IncrementVotes(_ context.Context, id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.complaints[id]
	if !ok {
		return 0, db.ErrNotFound
	}
	c.Votes++
	m.complaints[id] = c
	return c.Votes, nil
}

func (m *memStore) UpdateComplaint(_ context.Context, id string, fn db.MutateFunc) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.complaints[id]
	if !ok {
		return models.Complaint{}, db.ErrNotFound
	}
	c := clone(stored)
	entry, err := fn(&c)
	if err != nil {
		return models.Complaint{}, err
	}
	c.StatusHistory = append([]models.StatusEntry(nil), stored.StatusHistory...)
	if entry != nil {
		c.StatusHistory = append(c.StatusHistory, *entry)
	}
	m.complaints[id] = clone(c)
	return c, nil
}

func (m *memStore) DeleteComplaint(_ context.Context, id string) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deleteLocked(id)
}

func (m *memStore) DeleteLatestComplaint(_ context.Context) (models.Complaint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	latest := ""
	for _, id := range m.order {
		if latest == "" || !m.complaints[id].CreatedAt.Before(m.complaints[latest].CreatedAt) {
			latest = id
		}
	}
	if latest == "" {
		return models.Complaint{}, db.ErrNotFound
	}
	return m.deleteLocked(latest)
}

func (m *memStore) deleteLocked(id string) (models.Complaint, error) {
	c, ok := m.complaints[id]
	if !ok {
		return models.Complaint{}, db.ErrNotFound
	}
	delete(m.complaints, id)
	for i, o := range m.order {
		if o == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return c, nil
}

func (m *memStore) ListContractorsRanked(_ context.Context) ([]models.Contractor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]models.Contractor(nil), m.contractors...)
	sortByPointsDesc(out)
	return out, nil
}

func (m *memStore) AddContractorScore(_ context.Context, id string, points int) (models.Contractor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.contractors {
		if m.contractors[i].ID == id {
			m.contractors[i].Points += points
			m.contractors[i].TotalWorks++
			return m.contractors[i], nil
		}
	}
	return models.Contractor{}, db.ErrNotFound
}

func (m *memStore) UpsertContractor(_ context.Context, c models.Contractor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.contractors {
		if m.contractors[i].ID == c.ID {
			m.contractors[i].Name = c.Name
			m.contractors[i].QualityRating = c.QualityRating
			return nil
		}
	}
	m.contractors = append(m.contractors, c)
	return nil
}

func (m *memStore) contractor(id string) (models.Contractor, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.contractors {
		if c.ID == id {
			return c, true
		}
	}
	return models.Contractor{}, false
}

func (m *memStore) GetWalletPoints(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.wallets[userID]
	if !ok {
		return 0, db.ErrNotFound
	}
	return p, nil
}

func (m *memStore) AddWalletPoints(_ context.Context, userID string, points int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[userID] += points
	return m.wallets[userID], nil
}

// sortByPointsDesc mirrors ORDER BY points DESC, insertion ASC.
func sortByPointsDesc(cs []models.Contractor) {
	for i := 1; i < len(cs); i++ {
		for j := i; j > 0 && cs[j].Points > cs[j-1].Points; j-- {
			cs[j], cs[j-1] = cs[j-1], cs[j]
		}
	}
}
