package builder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/query"
)

func TestInclude_ListAndOwner(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	ada := f.author(t, "ada@example.com")
	bob := f.author(t, "bob@example.com")
	f.post(t, ada.ID, "a1", 1, StatusPublished)
	f.post(t, ada.ID, "a2", 2, StatusDraft)
	f.post(t, ada.ID, "a3", 3, StatusPublished)

	authors, err := f.authors.FindMany(ctx, FindManyArgs{
		OrderBy: []OrderBy{Asc("email")},
		Include: Include{"posts": {OrderBy: []OrderBy{Desc("views")}, Take: Ptr(2)}},
	})
	require.NoError(t, err)
	require.Len(t, authors, 2)
	require.Len(t, authors[0].Posts, 2)
	assert.Equal(t, "a3", authors[0].Posts[0].Slug)
	assert.Equal(t, "a2", authors[0].Posts[1].Slug)
	assert.Equal(t, bob.ID, authors[1].ID)
	assert.NotNil(t, authors[1].Posts)
	assert.Empty(t, authors[1].Posts)

	filtered, err := f.authors.FindUnique(ctx, Where{"id": ada.ID}, Include{"posts": {Where: Where{"status": StatusPublished}}})
	require.NoError(t, err)
	assert.Len(t, filtered.Posts, 2)

	posts, err := f.posts.FindMany(ctx, FindManyArgs{Include: Include{"author": nil}})
	require.NoError(t, err)
	require.Len(t, posts, 3)
	for _, p := range posts {
		require.NotNil(t, p.Author)
		assert.Equal(t, "ada@example.com", p.Author.Email)
	}
}

func TestInclude_Nested(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	ada := f.author(t, "ada@example.com")
	f.post(t, ada.ID, "a1", 1, StatusPublished)

	posts, err := f.posts.FindMany(ctx, FindManyArgs{
		Include: Include{"author": {Include: Include{"posts": nil}}},
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.NotNil(t, posts[0].Author)
	require.Len(t, posts[0].Author.Posts, 1)
	assert.Equal(t, "a1", posts[0].Author.Posts[0].Slug)
}

func TestInclude_Validation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.authors.FindMany(ctx, FindManyArgs{Include: Include{"comments": nil}})
	assert.True(t, errors.IsValidation(err))

	_, err = f.posts.FindMany(ctx, FindManyArgs{Include: Include{"author": {Take: Ptr(1)}}})
	assert.True(t, errors.IsValidation(err), "take on a to-one relation")

	_, err = f.authors.FindMany(ctx, FindManyArgs{Include: Include{"posts": {Where: Where{"nope": 1}}}})
	assert.True(t, errors.IsValidation(err))
}

func TestInclude_ReportsToDetector(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	detector := query.NewN1Detector(2, time.Minute)
	authors := f.authors.WithSession(f.session.WithDetector(detector))

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		f.author(t, email)
	}
	// one lookup per author is the pattern the detector exists for
	list, err := authors.FindMany(ctx, FindManyArgs{})
	require.NoError(t, err)
	for _, a := range list {
		_, err := authors.FindUnique(ctx, Where{"id": a.ID}, nil)
		require.NoError(t, err)
	}
	alerts := detector.Check()
	require.NotEmpty(t, alerts)
	assert.Equal(t, []string{"Author"}, alerts[0].Models)
}
