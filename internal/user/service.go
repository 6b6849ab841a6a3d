package user

import (
	"context"
	"fmt"
	"time"

	"bookcatalog/internal/platform/crypto"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register stores a new user with a bcrypt digest of password and returns
// it with its assigned ID.
func (s *Service) Register(ctx context.Context, password string) (User, error) {
	hashed, err := crypto.HashPassword(password)
	if err != nil {
		return User{}, fmt.Errorf("hash password: %w", err)
	}

	now := s.now().UTC()
	newUser := &User{
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, newUser); err != nil {
		return User{}, fmt.Errorf("create user: %w", err)
	}
	return *newUser, nil
}
