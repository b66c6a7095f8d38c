package service

import (
	"fmt"
	"time"

	"devprofile-api/internal/domain"
)

// MergePolicy decides which request values count as present in a partial update.
type MergePolicy string

const (
	// MergeTruthy ignores empty strings and false, so they can never overwrite stored values.
	MergeTruthy MergePolicy = "truthy"
	// MergePresent applies every value the client sent, empty or not.
	MergePresent MergePolicy = "present"
)

func ParseMergePolicy(s string) (MergePolicy, error) {
	switch MergePolicy(s) {
	case "", MergeTruthy:
		return MergeTruthy, nil
	case MergePresent:
		return MergePresent, nil
	}
	return "", fmt.Errorf("unknown merge policy %q", s)
}

// ProfileInput mirrors the upsert request body; nil means the key was not sent.
type ProfileInput struct {
	Handle         *string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GithubUsername *string
	Skills         *string // comma separated
	YouTube        *string
	Twitter        *string
	Facebook       *string
	Instagram      *string
	LinkedIn       *string
}

type ExperienceInput struct {
	Title       *string
	Company     *string
	Location    *string
	From        *time.Time
	To          *time.Time
	Current     *bool
	Description *string
}

func (m MergePolicy) str(v *string) *string {
	if v == nil || (m != MergePresent && *v == "") {
		return nil
	}
	return v
}

func (m MergePolicy) flag(v *bool) *bool {
	if v == nil || (m != MergePresent && !*v) {
		return nil
	}
	return v
}

func (m MergePolicy) ProfilePatch(in ProfileInput) domain.ProfilePatch {
	p := domain.ProfilePatch{
		Handle:         m.str(in.Handle),
		Company:        m.str(in.Company),
		Website:        m.str(in.Website),
		Location:       m.str(in.Location),
		Bio:            m.str(in.Bio),
		Status:         m.str(in.Status),
		GithubUsername: m.str(in.GithubUsername),
		Social: domain.SocialPatch{
			YouTube:   m.str(in.YouTube),
			Twitter:   m.str(in.Twitter),
			Facebook:  m.str(in.Facebook),
			Instagram: m.str(in.Instagram),
			LinkedIn:  m.str(in.LinkedIn),
		},
	}
	if s := m.str(in.Skills); s != nil {
		p.Skills = domain.SplitSkills(*s)
	}
	return p
}

func (m MergePolicy) ExperiencePatch(in ExperienceInput) domain.ExperiencePatch {
	return domain.ExperiencePatch{
		Title:       m.str(in.Title),
		Company:     m.str(in.Company),
		Location:    m.str(in.Location),
		From:        in.From,
		To:          in.To,
		Current:     m.flag(in.Current),
		Description: m.str(in.Description),
	}
}
