package domain

import (
	"context"
	"strings"
	"time"
)

type Social struct {
	YouTube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Instagram string `json:"instagram,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty"`
}

type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to,omitempty"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Profile struct {
	ID             string       `json:"id"`
	UserID         string       `json:"userId"`
	User           *UserSummary `json:"user,omitempty"`
	Handle         string       `json:"handle,omitempty"`
	Company        string       `json:"company,omitempty"`
	Website        string       `json:"website,omitempty"`
	Location       string       `json:"location,omitempty"`
	Bio            string       `json:"bio,omitempty"`
	Status         string       `json:"status"`
	GithubUsername string       `json:"githubusername,omitempty"`
	Skills         []string     `json:"skills"`
	Social         Social       `json:"social"`
	Experience     []Experience `json:"experience"`
	Version        int64        `json:"-"`
	CreatedAt      time.Time    `json:"createdAt"`
	UpdatedAt      time.Time    `json:"updatedAt"`
}

// SocialPatch and ProfilePatch carry only the fields a request asked to set.
// A nil field is absent and leaves the stored value untouched.
type SocialPatch struct {
	YouTube   *string
	Twitter   *string
	Facebook  *string
	Instagram *string
	LinkedIn  *string
}

type ProfilePatch struct {
	Handle         *string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GithubUsername *string
	Skills         []string // nil = absent
	Social         SocialPatch
}

type ExperiencePatch struct {
	Title       *string
	Company     *string
	Location    *string
	From        *time.Time
	To          *time.Time
	Current     *bool
	Description *string
}

// ExperienceMutation receives a copy of the stored list and returns the list to persist.
type ExperienceMutation func(list []Experience) ([]Experience, error)

// ProfileRepository finders return (nil, nil) when nothing matches.
type ProfileRepository interface {
	FindByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	// Upsert creates the profile for userID or merges patch into it in one write.
	Upsert(ctx context.Context, userID string, patch ProfilePatch) (*Profile, error)
	// MutateExperience returns ErrProfileNotFound without writing if userID has no profile.
	MutateExperience(ctx context.Context, userID string, fn ExperienceMutation) (*Profile, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

// SplitSkills splits a comma separated list and trims every token.
// Order is kept and empty tokens are not dropped.
func SplitSkills(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}

func NewProfile(id, userID string, patch ProfilePatch) Profile {
	p := Profile{ID: id, UserID: userID, Skills: []string{}, Experience: []Experience{}}
	p.Apply(patch)
	return p
}

func (p *Profile) Apply(patch ProfilePatch) {
	set(&p.Handle, patch.Handle)
	set(&p.Company, patch.Company)
	set(&p.Website, patch.Website)
	set(&p.Location, patch.Location)
	set(&p.Bio, patch.Bio)
	set(&p.Status, patch.Status)
	set(&p.GithubUsername, patch.GithubUsername)
	if patch.Skills != nil {
		p.Skills = append([]string(nil), patch.Skills...)
	}
	p.Social.Apply(patch.Social)
}

func (s *Social) Apply(patch SocialPatch) {
	set(&s.YouTube, patch.YouTube)
	set(&s.Twitter, patch.Twitter)
	set(&s.Facebook, patch.Facebook)
	set(&s.Instagram, patch.Instagram)
	set(&s.LinkedIn, patch.LinkedIn)
}

// Apply merges patch into e. A current entry never keeps an end date.
func (e *Experience) Apply(patch ExperiencePatch) {
	set(&e.Title, patch.Title)
	set(&e.Company, patch.Company)
	set(&e.Location, patch.Location)
	set(&e.Description, patch.Description)
	if patch.From != nil {
		e.From = *patch.From
	}
	if patch.To != nil {
		to := *patch.To
		e.To = &to
	}
	// an end date without a current flag closes the role
	if patch.Current != nil {
		e.Current = *patch.Current
	} else if patch.To != nil {
		e.Current = false
	}
	if e.Current {
		e.To = nil
	}
}

// PrependExperience puts e in front; the newest entry is always index 0.
func PrependExperience(list []Experience, e Experience) []Experience {
	out := make([]Experience, 0, len(list)+1)
	out = append(out, e)
	return append(out, list...)
}

func UpdateExperience(list []Experience, id string, patch ExperiencePatch) ([]Experience, error) {
	i := indexExperience(list, id)
	if i < 0 {
		return nil, ErrExperienceNotFound
	}
	out := append([]Experience(nil), list...)
	out[i].Apply(patch)
	return out, nil
}

func RemoveExperience(list []Experience, id string) ([]Experience, error) {
	i := indexExperience(list, id)
	if i < 0 {
		return nil, ErrExperienceNotFound
	}
	out := make([]Experience, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

func indexExperience(list []Experience, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func set(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
