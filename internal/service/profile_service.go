package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"devprofile-api/internal/core/cache"
	"devprofile-api/internal/domain"
	"devprofile-api/pkg/utils"
)

const allProfilesKey = "profile:all"

func profileKey(userID string) string { return "profile:user:" + userID }

type ProfileService struct {
	profiles domain.ProfileRepository
	cache    *cache.Cache
	policy   MergePolicy
	log      *zap.Logger
}

// NewProfileService accepts a nil cache.
func NewProfileService(profiles domain.ProfileRepository, c *cache.Cache, policy MergePolicy, l *zap.Logger) *ProfileService {
	if l == nil {
		l = zap.NewNop()
	}
	return &ProfileService{profiles: profiles, cache: c, policy: policy, log: l.Named("profile")}
}

// Mine returns the caller's own profile straight from the store.
func (s *ProfileService) Mine(ctx context.Context, userID string) (*domain.Profile, error) {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("find profile: %w", err)
	}
	if p == nil {
		return nil, domain.ErrProfileNotFound
	}
	return p, nil
}

func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, profileKey(userID), 0, func(ctx context.Context) (*domain.Profile, error) {
		return s.Mine(ctx, userID)
	})
}

func (s *ProfileService) All(ctx context.Context) ([]domain.Profile, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, allProfilesKey, 0, func(ctx context.Context) ([]domain.Profile, error) {
		ps, err := s.profiles.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		return ps, nil
	})
}

// Upsert creates the caller's profile or merges the present fields of in into it.
// Status and skills are validated by the caller.
func (s *ProfileService) Upsert(ctx context.Context, userID string, in ProfileInput) (*domain.Profile, error) {
	p, err := s.profiles.Upsert(ctx, userID, s.policy.ProfilePatch(in))
	observe("profile_upsert", err)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	s.invalidate(ctx, userID)
	return p, nil
}

// AddExperience prepends a new entry. Title, company and from are validated by the caller.
func (s *ProfileService) AddExperience(ctx context.Context, userID string, in ExperienceInput) (*domain.Profile, error) {
	e := domain.Experience{ID: utils.NewID()}
	e.Apply(MergePresent.ExperiencePatch(in))
	return s.mutate(ctx, "experience_add", userID, func(list []domain.Experience) ([]domain.Experience, error) {
		return domain.PrependExperience(list, e), nil
	})
}

// UpdateExperience merges in into the entry with id expID only.
func (s *ProfileService) UpdateExperience(ctx context.Context, userID, expID string, in ExperienceInput) (*domain.Profile, error) {
	patch := s.policy.ExperiencePatch(in)
	return s.mutate(ctx, "experience_update", userID, func(list []domain.Experience) ([]domain.Experience, error) {
		return domain.UpdateExperience(list, expID, patch)
	})
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error) {
	return s.mutate(ctx, "experience_remove", userID, func(list []domain.Experience) ([]domain.Experience, error) {
		return domain.RemoveExperience(list, expID)
	})
}

func (s *ProfileService) mutate(ctx context.Context, op, userID string, fn domain.ExperienceMutation) (*domain.Profile, error) {
	p, err := s.profiles.MutateExperience(ctx, userID, fn)
	observe(op, err)
	if err != nil {
		if errors.Is(err, domain.ErrConcurrentUpdate) {
			s.log.Warn("experience write lost every retry", zap.String("op", op), zap.String("user_id", userID))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, userID)
	return p, nil
}

func (s *ProfileService) invalidate(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, profileKey(userID), allProfilesKey)
}
