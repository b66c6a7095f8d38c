package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"devprofile-api/internal/core/cache"
	"devprofile-api/internal/domain"
	"devprofile-api/pkg/utils"
)

type TokenIssuer interface {
	Issue(uid, role string) (string, error)
}

type UserService struct {
	users  domain.UserRepository
	uow    domain.UnitOfWork
	tokens TokenIssuer
	cache  *cache.Cache
	admins map[string]struct{}
	log    *zap.Logger
}

// NewUserService grants the admin role to adminEmails at registration.
func NewUserService(users domain.UserRepository, uow domain.UnitOfWork, tokens TokenIssuer, c *cache.Cache, adminEmails []string, l *zap.Logger) *UserService {
	if l == nil {
		l = zap.NewNop()
	}
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		admins[normalizeEmail(e)] = struct{}{}
	}
	return &UserService{users: users, uow: uow, tokens: tokens, cache: c, admins: admins, log: l.Named("user")}
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

// Register creates the account and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if existing != nil {
		observe("register", domain.ErrEmailTaken)
		return "", domain.ErrEmailTaken
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	role := domain.RoleUser
	if _, ok := s.admins[email]; ok {
		role = domain.RoleAdmin
	}
	u := &domain.User{
		ID:           utils.NewID(),
		Name:         strings.TrimSpace(name),
		Email:        email,
		PasswordHash: hash,
		Avatar:       utils.Gravatar(email),
		Role:         role,
	}
	err = s.users.Create(ctx, u)
	observe("register", err)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return "", err
		}
		return "", fmt.Errorf("create user: %w", err)
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", role))
	return s.issue(u)
}

func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return "", fmt.Errorf("find user: %w", err)
	}
	if u == nil || !utils.CheckPassword(password, u.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}
	return s.issue(u)
}

func (s *UserService) issue(u *domain.User) (string, error) {
	tok, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return tok, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if u == nil {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) Rename(ctx context.Context, userID, name string) (*domain.User, error) {
	u, err := s.users.UpdateName(ctx, userID, strings.TrimSpace(name))
	observe("rename", err)
	if err != nil {
		return nil, fmt.Errorf("rename user: %w", err)
	}
	// profile reads embed the owner's name
	s.cache.Invalidate(ctx, profileKey(userID), allProfilesKey)
	return u, nil
}

// DeleteAccount removes the caller's profile and identity in one transaction.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	err := s.uow.Within(ctx, func(r domain.Repos) error {
		if err := r.Profiles.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
		if err := r.Users.Delete(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	observe("delete_account", err)
	if err != nil {
		return err
	}
	s.cache.Invalidate(ctx, profileKey(userID), allProfilesKey)
	s.log.Info("account deleted", zap.String("user_id", userID))
	return nil
}

type UserPage struct {
	Total int64         `json:"total"`
	Items []domain.User `json:"items"`
}

func (s *UserService) List(ctx context.Context, offset, limit int, q string) (UserPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	items, total, err := s.users.List(ctx, offset, limit, q)
	if err != nil {
		return UserPage{}, fmt.Errorf("list users: %w", err)
	}
	return UserPage{Total: total, Items: items}, nil
}
