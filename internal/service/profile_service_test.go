package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"connector-service/internal/apperror"
	"connector-service/internal/models"
	"connector-service/internal/service"
	"connector-service/internal/service/servicetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

type profileFixture struct {
	users     *servicetest.UserStore
	profiles  *servicetest.ProfileStore
	posts     *servicetest.PostStore
	cache     *servicetest.Cache
	publisher *servicetest.Publisher
	service   *service.ProfileService
	postSvc   *service.PostService
}

func newProfileFixture(asyncPurge bool) *profileFixture {
	f := &profileFixture{
		users:     servicetest.NewUserStore(),
		profiles:  servicetest.NewProfileStore(),
		posts:     servicetest.NewPostStore(),
		cache:     servicetest.NewCache(),
		publisher: &servicetest.Publisher{},
	}
	f.postSvc = service.NewPostService(f.posts, f.users, nil)
	f.service = service.NewProfileService(f.profiles, f.users, f.cache, f.postSvc, f.publisher, service.ProfileServiceConfig{
		CacheTTL:   time.Minute,
		AsyncPurge: asyncPurge,
	})
	return f
}

func (f *profileFixture) addUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := f.users.Create(context.Background(), &models.User{Name: name, Email: email, Avatar: "//avatar/" + name})
	require.NoError(t, err)
	return user
}

func TestParseSkills(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{"a, b, c", []string{"a", "b", "c"}},
		{"go", []string{"go"}},
		{" go ,  rust,", []string{"go", "rust"}},
		{"", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, service.ParseSkills(tt.raw))
		})
	}
}

func TestProfileMeWithoutProfile(t *testing.T) {
	f := newProfileFixture(false)

	_, err := f.service.Me(context.Background(), bson.NewObjectID())
	require.Error(t, err)
	assert.Equal(t, apperror.BadRequest, apperror.From(err).Kind)
	assert.Equal(t, "There is no profile for this user", apperror.From(err).Message)
}

func TestProfileByUserMalformedID(t *testing.T) {
	f := newProfileFixture(false)

	_, err := f.service.ByUser(context.Background(), "xyz")
	require.Error(t, err)
	assert.Equal(t, "There is no profile for this user", apperror.From(err).Message)
}

func TestProfilePopulateUsesCache(t *testing.T) {
	f := newProfileFixture(false)
	ctx := context.Background()
	user := f.addUser(t, "ann", "ann@example.com")

	_, err := f.service.Upsert(ctx, user.ID, &models.ProfileFields{Status: "dev", Skills: []string{"go"}})
	require.NoError(t, err)

	view, err := f.service.ByUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "ann", view.User.Name)
	assert.Equal(t, "//avatar/ann", view.User.Avatar)

	cached, ok := f.cache.GetSummary(ctx, user.ID)
	require.True(t, ok)
	assert.Equal(t, "ann", cached.Name)

	// the cached summary wins over the store
	f.cache.SetSummary(ctx, models.UserSummary{ID: user.ID, Name: "cached"}, time.Minute)
	views, err := f.service.All(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "cached", views[0].User.Name)
}

func TestExperienceLifecycle(t *testing.T) {
	f := newProfileFixture(false)
	ctx := context.Background()
	user := f.addUser(t, "ann", "ann@example.com")

	profile, err := f.service.Upsert(ctx, user.ID, &models.ProfileFields{Status: "dev", Skills: []string{"go"}})
	require.NoError(t, err)

	first, err := f.service.AddExperience(ctx, profile, models.Experience{Title: "first", Company: "a", From: time.Now()})
	require.NoError(t, err)
	second, err := f.service.AddExperience(ctx, first, models.Experience{Title: "second", Company: "b", From: time.Now()})
	require.NoError(t, err)
	require.Len(t, second.Experience, 2)
	assert.Equal(t, "second", second.Experience[0].Title)

	_, err = f.service.ExperienceID(second, bson.NewObjectID().Hex())
	assert.True(t, apperror.IsKind(err, apperror.NotFound))
	_, err = f.service.ExperienceID(second, "bogus")
	assert.True(t, apperror.IsKind(err, apperror.NotFound))

	expID, err := f.service.ExperienceID(second, second.Experience[1].ID.Hex())
	require.NoError(t, err)
	updated, err := f.service.RemoveExperience(ctx, second, expID)
	require.NoError(t, err)
	require.Len(t, updated.Experience, 1)
	assert.Equal(t, "second", updated.Experience[0].Title)
}

func TestDeleteAccountPurgesInline(t *testing.T) {
	f := newProfileFixture(false)
	ctx := context.Background()
	ann := f.addUser(t, "ann", "ann@example.com")
	bob := f.addUser(t, "bob", "bob@example.com")

	_, err := f.service.Upsert(ctx, ann.ID, &models.ProfileFields{Status: "dev", Skills: []string{"go"}})
	require.NoError(t, err)

	_, err = f.postSvc.Create(ctx, models.Identity{UserID: ann.ID}, "ann's post")
	require.NoError(t, err)
	bobPost, err := f.postSvc.Create(ctx, models.Identity{UserID: bob.ID}, "bob's post")
	require.NoError(t, err)
	_, err = f.postSvc.Like(ctx, models.Identity{UserID: ann.ID}, bobPost)
	require.NoError(t, err)
	_, err = f.postSvc.Comment(ctx, models.Identity{UserID: ann.ID}, bobPost, "hi")
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteAccount(ctx, ann.ID))

	gone, err := f.profiles.FindByUser(ctx, ann.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.Equal(t, 1, f.users.Count())
	assert.Equal(t, 1, f.posts.Count())

	remaining, err := f.posts.FindByID(ctx, bobPost.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining.Like)
	assert.Empty(t, remaining.Comments)
	assert.Empty(t, f.publisher.Published())
}

func TestDeleteAccountPublishesWhenAsync(t *testing.T) {
	f := newProfileFixture(true)
	ctx := context.Background()
	ann := f.addUser(t, "ann", "ann@example.com")

	_, err := f.postSvc.Create(ctx, models.Identity{UserID: ann.ID}, "post")
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteAccount(ctx, ann.ID))
	assert.Equal(t, []string{"user.deleted:" + ann.ID.Hex()}, f.publisher.Published())
	// posts are left for the consumer
	assert.Equal(t, 1, f.posts.Count())
}

func TestDeleteAccountFallsBackWhenPublishFails(t *testing.T) {
	f := newProfileFixture(true)
	f.publisher.Err = errors.New("broker down")
	ctx := context.Background()
	ann := f.addUser(t, "ann", "ann@example.com")

	_, err := f.postSvc.Create(ctx, models.Identity{UserID: ann.ID}, "post")
	require.NoError(t, err)

	require.NoError(t, f.service.DeleteAccount(ctx, ann.ID))
	assert.Equal(t, 0, f.posts.Count())
}
