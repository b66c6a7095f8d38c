package profile

import (
	"time"

	"gorm.io/datatypes"

	"devprofile-api/internal/domain"
	"devprofile-api/internal/feature/user"
)

// SocialColumns is stored inline on the profiles row so each key can be
// assigned independently by an upsert.
type SocialColumns struct {
	YouTube   string `gorm:"column:youtube;size:255"`
	Twitter   string `gorm:"column:twitter;size:255"`
	Facebook  string `gorm:"column:facebook;size:255"`
	Instagram string `gorm:"column:instagram;size:255"`
	LinkedIn  string `gorm:"column:linkedin;size:255"`
}

type ProfileModel struct {
	ID             string          `gorm:"primaryKey;type:varchar(32)"`
	UserID         string          `gorm:"uniqueIndex;type:varchar(32);not null"`
	User           *user.UserModel `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE"`
	Handle         string          `gorm:"size:64"`
	Company        string          `gorm:"size:255"`
	Website        string          `gorm:"size:255"`
	Location       string          `gorm:"size:255"`
	Bio            string          `gorm:"type:text"`
	Status         string          `gorm:"size:128;not null"`
	GithubUsername string          `gorm:"size:64"`
	Skills         datatypes.JSONSlice[string]
	Social         SocialColumns `gorm:"embedded;embeddedPrefix:social_"`
	// Experience is the embedded collection, newest first.
	Experience datatypes.JSONSlice[domain.Experience]
	Version    int64 `gorm:"not null;default:1"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (ProfileModel) TableName() string { return "profiles" }

func FromDomain(p *domain.Profile) *ProfileModel {
	return &ProfileModel{
		ID:             p.ID,
		UserID:         p.UserID,
		Handle:         p.Handle,
		Company:        p.Company,
		Website:        p.Website,
		Location:       p.Location,
		Bio:            p.Bio,
		Status:         p.Status,
		GithubUsername: p.GithubUsername,
		Skills:         datatypes.NewJSONSlice(p.Skills),
		Social: SocialColumns{
			YouTube:   p.Social.YouTube,
			Twitter:   p.Social.Twitter,
			Facebook:  p.Social.Facebook,
			Instagram: p.Social.Instagram,
			LinkedIn:  p.Social.LinkedIn,
		},
		Experience: datatypes.NewJSONSlice(p.Experience),
		Version:    p.Version,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func (m *ProfileModel) ToDomain() domain.Profile {
	p := domain.Profile{
		ID:             m.ID,
		UserID:         m.UserID,
		Handle:         m.Handle,
		Company:        m.Company,
		Website:        m.Website,
		Location:       m.Location,
		Bio:            m.Bio,
		Status:         m.Status,
		GithubUsername: m.GithubUsername,
		Skills:         append([]string{}, m.Skills...),
		Social: domain.Social{
			YouTube:   m.Social.YouTube,
			Twitter:   m.Social.Twitter,
			Facebook:  m.Social.Facebook,
			Instagram: m.Social.Instagram,
			LinkedIn:  m.Social.LinkedIn,
		},
		Experience: append([]domain.Experience{}, m.Experience...),
		Version:    m.Version,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.User != nil {
		p.User = m.User.Summary()
	}
	return p
}

// PatchColumns lists the columns an upsert must overwrite for patch.
func PatchColumns(patch domain.ProfilePatch) []string {
	var cols []string
	add := func(v *string, col string) {
		if v != nil {
			cols = append(cols, col)
		}
	}
	add(patch.Handle, "handle")
	add(patch.Company, "company")
	add(patch.Website, "website")
	add(patch.Location, "location")
	add(patch.Bio, "bio")
	add(patch.Status, "status")
	add(patch.GithubUsername, "github_username")
	if patch.Skills != nil {
		cols = append(cols, "skills")
	}
	add(patch.Social.YouTube, "social_youtube")
	add(patch.Social.Twitter, "social_twitter")
	add(patch.Social.Facebook, "social_facebook")
	add(patch.Social.Instagram, "social_instagram")
	add(patch.Social.LinkedIn, "social_linkedin")
	return cols
}
