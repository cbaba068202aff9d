package staff

import (
	"context"
	"sort"
	"sync"
	"time"

	positionRepo "pharmakiosk/database/repository/position"
	userRepo "pharmakiosk/database/repository/user"
	"pharmakiosk/models"

	"go.mongodb.org/mongo-driver/bson"
)

type fakeUserRepo struct {
	mu    sync.RWMutex
	users map[string]models.User

	GetAllFunc func(ctx context.Context, criteria userRepo.UserSearchCriteria) ([]models.User, error)
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]models.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	u, ok := f.users[id]
	if !ok {
		return nil, userRepo.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, u := range f.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetAll(ctx context.Context, criteria userRepo.UserSearchCriteria) ([]models.User, error) {
	if f.GetAllFunc != nil {
		return f.GetAllFunc(ctx, criteria)
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []models.User{}
	for _, u := range f.users {
		if criteria.Role != "" && u.Role != criteria.Role {
			continue
		}
		if criteria.ActiveOnly && !u.Active {
			continue
		}
		if criteria.PositionID != "" && u.PositionID != criteria.PositionID {
			continue
		}
		u.PasswordHash = ""
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LastName != out[j].LastName {
			return out[i].LastName < out[j].LastName
		}
		return out[i].FirstName < out[j].FirstName
	})
	return out, nil
}

func (f *fakeUserRepo) CountByPosition(ctx context.Context, positionID string) (int64, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	var n int64
	for _, u := range f.users {
		if u.PositionID == positionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) UpdateSetDocument(ctx context.Context, id string, updateDoc bson.M) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return userRepo.ErrNotFound
	}
	for k, v := range updateDoc {
		switch k {
		case "firstName":
			u.FirstName = v.(string)
		case "lastName":
			u.LastName = v.(string)
		case "email":
			u.Email = v.(string)
		case "positionId":
			u.PositionID = v.(string)
		case "active":
			u.Active = v.(bool)
		case "photoUrl":
			u.PhotoURL = v.(string)
		}
	}
	u.UpdatedAt = time.Now()
	f.users[id] = u
	return nil
}

func (f *fakeUserRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[id]; !ok {
		return userRepo.ErrNotFound
	}
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) EnsureIndexes(ctx context.Context) error { return nil }

type fakePositionRepo struct {
	mu        sync.RWMutex
	positions map[string]models.Position
}

func newFakePositionRepo() *fakePositionRepo {
	return &fakePositionRepo{positions: make(map[string]models.Position)}
}

func (f *fakePositionRepo) Create(ctx context.Context, p *models.Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.positions[p.ID] = *p
	return nil
}

func (f *fakePositionRepo) GetByID(ctx context.Context, id string) (*models.Position, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	p, ok := f.positions[id]
	if !ok {
		return nil, positionRepo.ErrNotFound
	}
	return &p, nil
}

func (f *fakePositionRepo) GetAll(ctx context.Context) ([]models.Position, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := []models.Position{}
	for _, p := range f.positions {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakePositionRepo) Update(ctx context.Context, p *models.Position) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.positions[p.ID]; !ok {
		return positionRepo.ErrNotFound
	}
	f.positions[p.ID] = *p
	return nil
}

func (f *fakePositionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.positions[id]; !ok {
		return positionRepo.ErrNotFound
	}
	delete(f.positions, id)
	return nil
}

func (f *fakePositionRepo) EnsureIndexes(ctx context.Context) error { return nil }

func newTestStaff() (*DefaultStaffService, *fakeUserRepo, *fakePositionRepo) {
	users := newFakeUserRepo()
	positions := newFakePositionRepo()
	return NewStaffService(users, positions, nil), users, positions
}

func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
