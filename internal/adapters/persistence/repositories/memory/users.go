package memory

import (
	"context"
	"sort"

	"dentlab-backoffice/internal/adapters/persistence/models"
	"dentlab-backoffice/internal/adapters/persistence/repositories"

	"gorm.io/gorm"
)

// Users implements repositories.UserRepository
type Users struct{ s *Store }

// NewUsers creates a user repository over s
func NewUsers(s *Store) *Users { return &Users{s: s} }

var _ repositories.UserRepository = (*Users)(nil)

func (r *Users) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.insertUser(user)
}

func (s *Store) insertUser(user *models.User) error {
	for _, u := range s.users {
		if u.Handle == user.Handle {
			return gorm.ErrDuplicatedKey
		}
	}
	s.nextUserID++
	user.ID = s.nextUserID
	user.CreatedAt = s.now()
	user.UpdatedAt = user.CreatedAt
	s.users[user.ID] = *user
	return nil
}

func (r *Users) GetByID(ctx context.Context, id uint) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *Users) GetByHandle(ctx context.Context, handle string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Handle == handle {
			cp := u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *Users) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[user.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	user.UpdatedAt = r.s.now()
	r.s.users[user.ID] = *user
	return nil
}

func (r *Users) List(ctx context.Context, offset, limit int) ([]*models.User, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]*models.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		cp := u
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	from, to := page(len(all), offset, limit)
	return all[from:to], int64(len(all)), nil
}

func (r *Users) ExistsByHandle(ctx context.Context, handle string) (bool, error) {
	_, err := r.GetByHandle(ctx, handle)
	return err == nil, nil
}

func (r *Users) CreateWithDoctor(ctx context.Context, user *models.User, doctor *models.Doctor) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.insertUser(user); err != nil {
		return err
	}
	doctor.UserID = &user.ID
	r.s.insertDoctor(doctor)
	return nil
}

// RefreshTokens implements repositories.RefreshTokenRepository
type RefreshTokens struct{ s *Store }

// NewRefreshTokens creates a refresh token repository over s
func NewRefreshTokens(s *Store) *RefreshTokens { return &RefreshTokens{s: s} }

var _ repositories.RefreshTokenRepository = (*RefreshTokens)(nil)

func (r *RefreshTokens) Create(ctx context.Context, token *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextTokenID++
	token.ID = r.s.nextTokenID
	token.CreatedAt = r.s.now()
	r.s.tokens[token.ID] = *token
	return nil
}

func (r *RefreshTokens) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.tokens {
		if t.TokenHash == tokenHash && t.RevokedAt == nil {
			cp := t
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *RefreshTokens) Revoke(ctx context.Context, id uint) error {
	return r.revokeWhere(func(t models.RefreshToken) bool { return t.ID == id })
}

func (r *RefreshTokens) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	return r.revokeWhere(func(t models.RefreshToken) bool { return t.TokenHash == tokenHash })
}

func (r *RefreshTokens) RevokeAllByUserID(ctx context.Context, userID uint) error {
	return r.revokeWhere(func(t models.RefreshToken) bool { return t.UserID == userID })
}

func (r *RefreshTokens) DeleteExpired(ctx context.Context) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for id, t := range r.s.tokens {
		if t.ExpiresAt.Before(now) {
			delete(r.s.tokens, id)
		}
	}
	return nil
}

func (r *RefreshTokens) revokeWhere(match func(models.RefreshToken) bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	for id, t := range r.s.tokens {
		if t.RevokedAt == nil && match(t) {
			t.RevokedAt = &now
			r.s.tokens[id] = t
		}
	}
	return nil
}
