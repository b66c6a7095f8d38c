package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devprofile-api/internal/domain"
)

func newProfileSvc(repo *fakeProfileRepo, policy MergePolicy) *ProfileService {
	return NewProfileService(repo, nil, policy, nil)
}

func TestUpsert_CreatesWithSplitSkills(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileSvc(repo, MergeTruthy)

	p, err := svc.Upsert(context.Background(), "u1", ProfileInput{
		Status: ptr("dev"),
		Skills: ptr("node, js ,  react"),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"node", "js", "react"}, p.Skills)
	assert.Equal(t, "dev", p.Status)
	assert.Len(t, repo.byUser, 1)
}

func TestUpsert_MergeKeepsUnsentFields(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileSvc(repo, MergeTruthy)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, "u1", ProfileInput{
		Status: ptr("dev"), Skills: ptr("go"), Company: ptr("Acme"), YouTube: ptr("yt"),
	})
	require.NoError(t, err)

	p, err := svc.Upsert(ctx, "u1", ProfileInput{Status: ptr("X"), Skills: ptr("a"), Twitter: ptr("tw")})
	require.NoError(t, err)
	assert.Equal(t, "X", p.Status)
	assert.Equal(t, []string{"a"}, p.Skills)
	assert.Equal(t, "Acme", p.Company)
	assert.Equal(t, "yt", p.Social.YouTube)
	assert.Equal(t, "tw", p.Social.Twitter)
}

func TestUpsert_Idempotent(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileSvc(repo, MergeTruthy)
	in := ProfileInput{Status: ptr("dev"), Skills: ptr("go,rust"), Bio: ptr("hi")}

	a, err := svc.Upsert(context.Background(), "u1", in)
	require.NoError(t, err)
	b, err := svc.Upsert(context.Background(), "u1", in)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, repo.byUser, 1)
}

func TestUpsert_MergePolicies(t *testing.T) {
	ctx := context.Background()
	seed := ProfileInput{Status: ptr("dev"), Skills: ptr("go"), Company: ptr("Acme")}
	clear := ProfileInput{Status: ptr("dev"), Skills: ptr("go"), Company: ptr("")}

	truthy := newProfileSvc(newFakeProfileRepo(), MergeTruthy)
	_, err := truthy.Upsert(ctx, "u1", seed)
	require.NoError(t, err)
	p, err := truthy.Upsert(ctx, "u1", clear)
	require.NoError(t, err)
	assert.Equal(t, "Acme", p.Company, "empty string is ignored under truthy")

	present := newProfileSvc(newFakeProfileRepo(), MergePresent)
	_, err = present.Upsert(ctx, "u1", seed)
	require.NoError(t, err)
	p, err = present.Upsert(ctx, "u1", clear)
	require.NoError(t, err)
	assert.Empty(t, p.Company, "empty string clears under present")
}

func TestUpsert_StoreFailure(t *testing.T) {
	repo := newFakeProfileRepo()
	repo.failWith = errStore
	_, err := newProfileSvc(repo, MergeTruthy).Upsert(context.Background(), "u1", ProfileInput{Status: ptr("dev"), Skills: ptr("go")})
	assert.ErrorIs(t, err, errStore)
}

func TestMineAndByUserID_NotFound(t *testing.T) {
	svc := newProfileSvc(newFakeProfileRepo(), MergeTruthy)
	_, err := svc.Mine(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	_, err = svc.ByUserID(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestAll(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileSvc(repo, MergeTruthy)
	for _, u := range []string{"u1", "u2"} {
		_, err := svc.Upsert(context.Background(), u, ProfileInput{Status: ptr("dev"), Skills: ptr("go")})
		require.NoError(t, err)
	}
	all, err := svc.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func seedProfile(t *testing.T, svc *ProfileService, userID string) {
	t.Helper()
	_, err := svc.Upsert(context.Background(), userID, ProfileInput{Status: ptr("dev"), Skills: ptr("go")})
	require.NoError(t, err)
}

func expIn(title string) ExperienceInput {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	return ExperienceInput{Title: ptr(title), Company: ptr("Acme"), From: &from}
}

func TestAddExperience_NewestFirst(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileSvc(repo, MergeTruthy)
	seedProfile(t, svc, "u1")

	var p *domain.Profile
	var err error
	for _, title := range []string{"first", "second", "third"} {
		p, err = svc.AddExperience(context.Background(), "u1", expIn(title))
		require.NoError(t, err)
	}
	require.Len(t, p.Experience, 3)
	assert.Equal(t, "third", p.Experience[0].Title)
	assert.Equal(t, "first", p.Experience[2].Title)

	ids := map[string]bool{}
	for _, e := range p.Experience {
		assert.NotEmpty(t, e.ID)
		ids[e.ID] = true
	}
	assert.Len(t, ids, 3)
}

func TestAddExperience_CurrentDropsTo(t *testing.T) {
	svc := newProfileSvc(newFakeProfileRepo(), MergeTruthy)
	seedProfile(t, svc, "u1")

	in := expIn("now")
	to := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	in.To = &to
	in.Current = ptr(true)
	p, err := svc.AddExperience(context.Background(), "u1", in)
	require.NoError(t, err)
	assert.True(t, p.Experience[0].Current)
	assert.Nil(t, p.Experience[0].To)
}

func TestAddExperience_NoProfileNoWrite(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileSvc(repo, MergeTruthy)

	_, err := svc.AddExperience(context.Background(), "ghost", expIn("x"))
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.Zero(t, repo.writes)
	assert.Empty(t, repo.byUser)
}

func TestUpdateExperience_OnlyMatchedEntry(t *testing.T) {
	repo := newFakeProfileRepo()
	svc := newProfileSvc(repo, MergeTruthy)
	seedProfile(t, svc, "u1")
	ctx := context.Background()

	_, err := svc.AddExperience(ctx, "u1", expIn("old"))
	require.NoError(t, err)
	p, err := svc.AddExperience(ctx, "u1", expIn("new"))
	require.NoError(t, err)
	target := p.Experience[1].ID

	p, err = svc.UpdateExperience(ctx, "u1", target, ExperienceInput{Title: ptr("renamed"), Company: ptr("Beta")})
	require.NoError(t, err)
	assert.Equal(t, "renamed", p.Experience[1].Title)
	assert.Equal(t, "Beta", p.Experience[1].Company)
	assert.Equal(t, "new", p.Experience[0].Title)
	assert.Equal(t, "Acme", p.Experience[0].Company)
	// top-level profile fields are untouched
	assert.Empty(t, p.Company)
	assert.Equal(t, "dev", p.Status)
}

func TestUpdateExperience_CurrentClearsEndDate(t *testing.T) {
	svc := newProfileSvc(newFakeProfileRepo(), MergeTruthy)
	seedProfile(t, svc, "u1")
	ctx := context.Background()

	in := expIn("dev")
	to := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	in.To = &to
	p, err := svc.AddExperience(ctx, "u1", in)
	require.NoError(t, err)
	id := p.Experience[0].ID
	require.NotNil(t, p.Experience[0].To)

	p, err = svc.UpdateExperience(ctx, "u1", id, ExperienceInput{Current: ptr(true)})
	require.NoError(t, err)
	assert.True(t, p.Experience[0].Current)
	assert.Nil(t, p.Experience[0].To)

	// truthy drops current:false, so sending an end date is how a role is closed
	end := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	p, err = svc.UpdateExperience(ctx, "u1", id, ExperienceInput{Current: ptr(false), To: &end})
	require.NoError(t, err)
	assert.False(t, p.Experience[0].Current)
	require.NotNil(t, p.Experience[0].To)
	assert.True(t, p.Experience[0].To.Equal(end))
}

func TestUpdateExperience_UnknownID(t *testing.T) {
	svc := newProfileSvc(newFakeProfileRepo(), MergeTruthy)
	seedProfile(t, svc, "u1")
	_, err := svc.UpdateExperience(context.Background(), "u1", "missing", expIn("x"))
	assert.ErrorIs(t, err, domain.ErrExperienceNotFound)
}

func TestRemoveExperience(t *testing.T) {
	svc := newProfileSvc(newFakeProfileRepo(), MergeTruthy)
	seedProfile(t, svc, "u1")
	ctx := context.Background()

	p, err := svc.AddExperience(ctx, "u1", expIn("x"))
	require.NoError(t, err)

	p, err = svc.RemoveExperience(ctx, "u1", p.Experience[0].ID)
	require.NoError(t, err)
	assert.Empty(t, p.Experience)

	_, err = svc.RemoveExperience(ctx, "u1", "missing")
	assert.ErrorIs(t, err, domain.ErrExperienceNotFound)
}

func TestParseMergePolicy(t *testing.T) {
	p, err := ParseMergePolicy("")
	require.NoError(t, err)
	assert.Equal(t, MergeTruthy, p)
	p, err = ParseMergePolicy("present")
	require.NoError(t, err)
	assert.Equal(t, MergePresent, p)
	_, err = ParseMergePolicy("sometimes")
	assert.Error(t, err)
}
