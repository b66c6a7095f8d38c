package repo

import (
	"context"
	"errors"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"devprofile-api/internal/domain"
	"devprofile-api/internal/feature/profile"
	"devprofile-api/pkg/utils"
)

// maxCASAttempts bounds the reload-and-retry loop of MutateExperience.
const maxCASAttempts = 3

type ProfileRepo struct{ db *gorm.DB }

func NewProfileRepo(db *gorm.DB) *ProfileRepo { return &ProfileRepo{db: db} }

func ownerSummary(db *gorm.DB) *gorm.DB { return db.Select("id", "name", "avatar") }

func (r *ProfileRepo) FindByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	var m profile.ProfileModel
	err := r.db.WithContext(ctx).
		Preload("User", ownerSummary).
		Where("user_id = ?", userID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p := m.ToDomain()
	return &p, nil
}

func (r *ProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	var ms []profile.ProfileModel
	if err := r.db.WithContext(ctx).Preload("User", ownerSummary).Order("created_at desc").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Profile, 0, len(ms))
	for i := range ms {
		out = append(out, ms[i].ToDomain())
	}
	return out, nil
}

// Upsert inserts a fresh profile or, when user_id already has one, overwrites
// only the columns present in patch. Both paths are a single statement.
func (r *ProfileRepo) Upsert(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error) {
	p := domain.NewProfile(utils.NewID(), userID, patch)
	p.Version = 1
	m := profile.FromDomain(&p)

	onConflict := clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}}
	if cols := profile.PatchColumns(patch); len(cols) > 0 {
		onConflict.DoUpdates = clause.AssignmentColumns(append(cols, "updated_at"))
	} else {
		onConflict.DoNothing = true
	}
	if err := r.db.WithContext(ctx).Clauses(onConflict).Create(m).Error; err != nil {
		return nil, err
	}

	out, err := r.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		// deleted between the write and the read
		return nil, domain.ErrProfileNotFound
	}
	return out, nil
}

// MutateExperience applies fn to the stored experience list and writes it back
// with a compare-and-swap on version, reloading on a lost race.
func (r *ProfileRepo) MutateExperience(ctx context.Context, userID string, fn domain.ExperienceMutation) (*domain.Profile, error) {
	db := r.db.WithContext(ctx)
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		var m profile.ProfileModel
		err := db.Where("user_id = ?", userID).First(&m).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProfileNotFound
		}
		if err != nil {
			return nil, err
		}

		next, err := fn(append([]domain.Experience{}, m.Experience...))
		if err != nil {
			return nil, err
		}

		res := db.Model(&profile.ProfileModel{}).
			Where("id = ? AND version = ?", m.ID, m.Version).
			Updates(map[string]any{
				"experience": datatypes.NewJSONSlice(next),
				"version":    m.Version + 1,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 1 {
			return r.FindByUserID(ctx, userID)
		}
	}
	return nil, domain.ErrConcurrentUpdate
}

func (r *ProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&profile.ProfileModel{}).Error
}
