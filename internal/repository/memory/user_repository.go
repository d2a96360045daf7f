package memory

import (
	"context"
	"sort"

	"github.com/google/uuid"

	domain "fitness-tracker/internal/domain/user"
	repo "fitness-tracker/internal/repository/interfaces"
)

// UserRepository - in-memory реализация repo.UserRepository.
type UserRepository struct {
	s *Store
}

var _ repo.UserRepository = (*UserRepository)(nil)

// conflictLocked проверяет уникальность email и username (без учёта регистра).
func (r *UserRepository) conflictLocked(self uuid.UUID, email, username string) error {
	if u := r.s.findUserLocked(func(u *domain.User) bool {
		return u.ID != self && sameFold(u.Email, email)
	}); u != nil {
		return repo.ErrEmailExists
	}
	if username == "" {
		return nil
	}
	if u := r.s.findUserLocked(func(u *domain.User) bool {
		return u.ID != self && sameFold(u.Username, username)
	}); u != nil {
		return repo.ErrUsernameExists
	}
	return nil
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.conflictLocked(user.ID, user.Email, user.Username); err != nil {
		return err
	}

	user.Roles = user.EffectiveRoles()
	r.s.users[user.ID] = cloneUser(user)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return sameFold(u.Email, email) })
}

func (r *UserRepository) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.findOne(func(u *domain.User) bool { return sameFold(u.Username, username) })
}

func (r *UserRepository) findOne(match func(*domain.User) bool) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u := r.s.findUserLocked(match)
	if u == nil {
		return nil, repo.ErrNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) List(_ context.Context) ([]*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		out = append(out, cloneUser(u))
	}
	sortUsers(out)
	return out, nil
}

// Update меняет name, email, username и updated_at.
func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[user.ID]
	if !ok {
		return repo.ErrNotFound
	}
	if err := r.conflictLocked(user.ID, user.Email, user.Username); err != nil {
		return err
	}

	stored.Name = user.Name
	stored.Email = user.Email
	if user.Username != "" {
		stored.Username = user.Username
	}
	stored.UpdatedAt = user.UpdatedAt
	return nil
}

func (r *UserRepository) AddRole(_ context.Context, id uuid.UUID, role domain.Role) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	stored, ok := r.s.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	if stored.HasRole(role) {
		return nil
	}
	stored.Roles = append(stored.EffectiveRoles(), role)
	return nil
}

// Delete удаляет пользователя и все его назначения.
func (r *UserRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.users[id]; !ok {
		return repo.ErrNotFound
	}
	for key := range r.s.assignments {
		if key.userID == id {
			delete(r.s.assignments, key)
		}
	}
	delete(r.s.users, id)
	return nil
}

// sortUsers упорядочивает как postgres-реализация: новые первыми.
func sortUsers(users []*domain.User) {
	sort.SliceStable(users, func(i, j int) bool {
		if users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].ID.String() < users[j].ID.String()
		}
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
}
