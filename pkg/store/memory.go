package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"netcheck/pkg/model"
)

// MemoryStore keeps users and submissions in process memory, intended for dev/demo and tests.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[string]model.User
	nextUserID  uint
	submissions []model.Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{users: make(map[string]model.User)}
}

func (m *MemoryStore) CreateFirst(_ context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.users) > 0 {
		return model.User{}, ErrRegistrationClosed
	}
	u.IsAdmin = true
	return m.insertLocked(u), nil
}

func (m *MemoryStore) Create(_ context.Context, u model.User) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[u.Username]; ok {
		return model.User{}, ErrUserExists
	}
	return m.insertLocked(u), nil
}

func (m *MemoryStore) insertLocked(u model.User) model.User {
	m.nextUserID++
	u.ID = m.nextUserID
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	m.users[u.Username] = u
	return u
}

func (m *MemoryStore) FindByUsername(_ context.Context, username string) (model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	if !ok {
		return model.User{}, ErrNotFound
	}
	return u, nil
}

func (m *MemoryStore) Count(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.users)), nil
}

func (m *MemoryStore) Append(_ context.Context, s model.Submission) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.Entries = append([]model.SubmissionEntry(nil), s.Entries...)
	m.submissions = append(m.submissions, s)
	return nil
}

func (m *MemoryStore) List(_ context.Context, limit int) ([]model.Submission, error) {
	m.mu.RLock()
	out := make([]model.Submission, len(m.submissions))
	copy(out, m.submissions)
	m.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].ReceivedAt.After(out[j].ReceivedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
