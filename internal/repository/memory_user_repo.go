package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/UdayIge/User-Management-System/internal/models"
)

// memoryUserRepo mirrors the Mongo repository's semantics in memory. It backs
// the service and handler tests so they run without a database.
type memoryUserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User
	seq   map[string]int
	next  int
}

func NewMemoryUserRepo() UserRepository {
	return &memoryUserRepo{users: map[string]models.User{}, seq: map[string]int{}}
}

func (r *memoryUserRepo) Insert(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	r.next++
	r.seq[u.ID.Hex()] = r.next
	r.users[u.ID.Hex()] = *u
	return nil
}

func (r *memoryUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}

func (r *memoryUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *memoryUserRepo) Update(_ context.Context, u *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.users[u.ID.Hex()]
	if !ok {
		return ErrUserNotFound
	}
	for id, other := range r.users {
		if id != u.ID.Hex() && other.Email == u.Email {
			return ErrDuplicateEmail
		}
	}
	u.CreatedAt = existing.CreatedAt
	u.UpdatedAt = time.Now().UTC()
	r.users[u.ID.Hex()] = *u
	return nil
}

func (r *memoryUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[id]; !ok {
		return ErrUserNotFound
	}
	delete(r.users, id)
	return nil
}

func (r *memoryUserRepo) List(ctx context.Context, p ListParams) ([]models.User, int64, error) {
	matched := r.sorted(p.Search)
	total := int64(len(matched))

	start := p.Skip
	if start > total {
		start = total
	}
	end := start + p.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *memoryUserRepo) All(_ context.Context) ([]models.User, error) {
	return r.sorted(""), nil
}

func (r *memoryUserRepo) sorted(search string) []models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	needle := strings.ToLower(search)
	out := []models.User{}
	for _, u := range r.users {
		if needle == "" || matches(u, needle) {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return r.seq[out[i].ID.Hex()] > r.seq[out[j].ID.Hex()]
	})
	return out
}

func matches(u models.User, needle string) bool {
	for _, field := range []string{u.FirstName, u.LastName, u.Email, u.Mobile, u.Location} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
