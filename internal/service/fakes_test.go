package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"

	"devprofile-api/internal/domain"
	"devprofile-api/pkg/utils"
)

// fakeProfileRepo keeps profiles in memory keyed by user id.
type fakeProfileRepo struct {
	mu       sync.Mutex
	byUser   map[string]domain.Profile
	writes   int
	failWith error
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{byUser: map[string]domain.Profile{}}
}

func clone(p domain.Profile) *domain.Profile {
	p.Skills = append([]string{}, p.Skills...)
	p.Experience = append([]domain.Experience{}, p.Experience...)
	return &p
}

func (f *fakeProfileRepo) FindByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, nil
	}
	return clone(p), nil
}

func (f *fakeProfileRepo) List(context.Context) ([]domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	out := make([]domain.Profile, 0, len(f.byUser))
	for _, p := range f.byUser {
		out = append(out, *clone(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, nil
}

func (f *fakeProfileRepo) Upsert(_ context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.byUser[userID]
	if ok {
		p.Apply(patch)
	} else {
		p = domain.NewProfile(utils.NewID(), userID, patch)
	}
	f.byUser[userID] = p
	f.writes++
	return clone(p), nil
}

func (f *fakeProfileRepo) MutateExperience(_ context.Context, userID string, fn domain.ExperienceMutation) (*domain.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	p, ok := f.byUser[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	next, err := fn(append([]domain.Experience{}, p.Experience...))
	if err != nil {
		return nil, err
	}
	p.Experience = next
	p.Version++
	f.byUser[userID] = p
	f.writes++
	return clone(p), nil
}

func (f *fakeProfileRepo) DeleteByUserID(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return f.failWith
	}
	delete(f.byUser, userID)
	return nil
}

type fakeUserRepo struct {
	mu        sync.Mutex
	byID      map[string]domain.User
	deleteErr error
}

func newFakeUserRepo() *fakeUserRepo { return &fakeUserRepo{byID: map[string]domain.User{}} }

func (f *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return domain.ErrEmailTaken
		}
	}
	f.byID[u.ID] = *u
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) List(_ context.Context, offset, limit int, q string) ([]domain.User, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []domain.User
	for _, u := range f.byID {
		if q == "" || strings.Contains(u.Email, q) || strings.Contains(u.Name, q) {
			all = append(all, u)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	end := min(offset+limit, len(all))
	return all[offset:end], total, nil
}

func (f *fakeUserRepo) UpdateName(_ context.Context, id, name string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	u.Name = name
	f.byID[id] = u
	return &u, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.byID, id)
	return nil
}

// fakeUoW snapshots both repos and restores them when fn fails.
type fakeUoW struct {
	users    *fakeUserRepo
	profiles *fakeProfileRepo
}

func (u *fakeUoW) Within(ctx context.Context, fn func(r domain.Repos) error) error {
	users := map[string]domain.User{}
	u.users.mu.Lock()
	for k, v := range u.users.byID {
		users[k] = v
	}
	u.users.mu.Unlock()
	profiles := map[string]domain.Profile{}
	u.profiles.mu.Lock()
	for k, v := range u.profiles.byUser {
		profiles[k] = v
	}
	u.profiles.mu.Unlock()

	if err := fn(domain.Repos{Users: u.users, Profiles: u.profiles}); err != nil {
		u.users.byID = users
		u.profiles.byUser = profiles
		return err
	}
	return nil
}

type fakeTokens struct{ err error }

func (f fakeTokens) Issue(uid, role string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "tok-" + uid + "-" + role, nil
}

var errStore = errors.New("store down")

func ptr[T any](v T) *T { return &v }
