package repo

import (
	"context"

	"gorm.io/gorm"

	"devprofile-api/internal/domain"
	"devprofile-api/internal/feature/profile"
	"devprofile-api/internal/feature/user"
)

// Store bundles the gorm repositories and implements domain.UnitOfWork.
type Store struct {
	db       *gorm.DB
	Users    *UserRepo
	Profiles *ProfileRepo
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, Users: NewUserRepo(db), Profiles: NewProfileRepo(db)}
}

func (s *Store) Within(ctx context.Context, fn func(r domain.Repos) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(domain.Repos{Users: NewUserRepo(tx), Profiles: NewProfileRepo(tx)})
	})
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&user.UserModel{}, &profile.ProfileModel{})
}
