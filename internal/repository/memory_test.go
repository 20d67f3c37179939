package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devconnector/devconnector-go/internal/model"
)

func TestMemoryUsersEmailIsCaseSensitive(t *testing.T) {
	users := NewMemory().Users()
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, &model.User{ID: "u1", Email: "a@x.com"}))
	assert.ErrorIs(t, users.Create(ctx, &model.User{ID: "u2", Email: "a@x.com"}), ErrDuplicateEmail)
	require.NoError(t, users.Create(ctx, &model.User{ID: "u3", Email: "A@x.com"}))

	_, err := users.GetByEmail(ctx, "b@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestMemoryProfileUpsertKeepsEntries(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Users().Create(ctx, &model.User{ID: "u1", Name: "Ada", Avatar: "av"}))

	profiles := mem.Profiles()
	require.NoError(t, profiles.Upsert(ctx, &model.Profile{ID: "p1", User: model.UserSummary{ID: "u1"}, Status: "Dev"}))
	require.NoError(t, profiles.AddExperience(ctx, "p1", &model.Experience{ID: "e1"}))
	require.NoError(t, profiles.AddExperience(ctx, "p1", &model.Experience{ID: "e2"}))
	require.NoError(t, profiles.Upsert(ctx, &model.Profile{ID: "ignored", User: model.UserSummary{ID: "u1"}, Status: "Lead"}))

	p, err := profiles.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Lead", p.Status)
	assert.Equal(t, "Ada", p.User.Name)
	require.Len(t, p.Experience, 2)
	assert.Equal(t, "e2", p.Experience[0].ID)

	owner, err := profiles.ExperienceOwner(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "u1", owner)

	require.NoError(t, profiles.DeleteExperience(ctx, "e2"))
	assert.ErrorIs(t, profiles.DeleteExperience(ctx, "e2"), ErrExperienceNotFound)

	p, err = profiles.GetByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, p.Experience, 1)
	assert.Equal(t, "e1", p.Experience[0].ID)
}

func TestMemoryReturnsCopies(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	posts := mem.Posts()

	require.NoError(t, posts.Create(ctx, &model.Post{ID: "p1", UserID: "u1"}))
	require.NoError(t, posts.AddLike(ctx, "p1", &model.Like{ID: "l1", UserID: "u2"}))

	got, err := posts.GetByID(ctx, "p1")
	require.NoError(t, err)
	got.Likes[0].UserID = "mutated"

	likes, err := posts.ListLikes(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "u2", likes[0].UserID)
}

func TestMemoryPostsNewestFirst(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	posts := mem.Posts()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, posts.Create(ctx, &model.Post{ID: "old", Date: base}))
	require.NoError(t, posts.Create(ctx, &model.Post{ID: "new", Date: base.Add(time.Minute)}))
	require.NoError(t, posts.Create(ctx, &model.Post{ID: "tie", Date: base.Add(time.Minute)}))

	list, err := posts.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"tie", "new", "old"}, []string{list[0].ID, list[1].ID, list[2].ID})
}

func TestMemoryLikes(t *testing.T) {
	posts := NewMemory().Posts()
	ctx := context.Background()

	require.NoError(t, posts.Create(ctx, &model.Post{ID: "p1"}))
	require.NoError(t, posts.AddLike(ctx, "p1", &model.Like{ID: "l1", UserID: "u1"}))
	require.NoError(t, posts.AddLike(ctx, "p1", &model.Like{ID: "l2", UserID: "u2"}))
	assert.ErrorIs(t, posts.AddLike(ctx, "p1", &model.Like{ID: "l3", UserID: "u1"}), ErrDuplicateLike)
	assert.ErrorIs(t, posts.AddLike(ctx, "nope", &model.Like{ID: "l4", UserID: "u1"}), ErrPostNotFound)

	likes, err := posts.ListLikes(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, []model.Like{{ID: "l2", UserID: "u2"}, {ID: "l1", UserID: "u1"}}, likes)

	require.NoError(t, posts.RemoveLike(ctx, "p1", "u1"))
	assert.ErrorIs(t, posts.RemoveLike(ctx, "p1", "u1"), ErrLikeNotFound)
}

func TestMemoryDeleteAccountCascades(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	users, profiles, posts := mem.Users(), mem.Profiles(), mem.Posts()

	require.NoError(t, users.Create(ctx, &model.User{ID: "u1", Email: "a@x.com"}))
	require.NoError(t, users.Create(ctx, &model.User{ID: "u2", Email: "b@x.com"}))
	require.NoError(t, profiles.Upsert(ctx, &model.Profile{ID: "p1", User: model.UserSummary{ID: "u1"}}))
	require.NoError(t, posts.Create(ctx, &model.Post{ID: "mine", UserID: "u1"}))
	require.NoError(t, posts.Create(ctx, &model.Post{ID: "theirs", UserID: "u2"}))
	require.NoError(t, posts.AddLike(ctx, "theirs", &model.Like{ID: "l1", UserID: "u1"}))
	require.NoError(t, posts.AddComment(ctx, "theirs", &model.Comment{ID: "c1", UserID: "u1"}))
	require.NoError(t, posts.AddComment(ctx, "theirs", &model.Comment{ID: "c2", UserID: "u2"}))

	require.NoError(t, users.DeleteAccount(ctx, "u1"))
	assert.ErrorIs(t, users.DeleteAccount(ctx, "u1"), ErrUserNotFound)

	_, err := users.GetByEmail(ctx, "a@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = profiles.GetByUserID(ctx, "u1")
	assert.ErrorIs(t, err, ErrProfileNotFound)
	_, err = posts.GetByID(ctx, "mine")
	assert.ErrorIs(t, err, ErrPostNotFound)

	theirs, err := posts.GetByID(ctx, "theirs")
	require.NoError(t, err)
	assert.Empty(t, theirs.Likes)
	require.Len(t, theirs.Comments, 1)
	assert.Equal(t, "c2", theirs.Comments[0].ID)
}
