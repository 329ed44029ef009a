package builder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/errors"
)

func TestTable_CreateFillsDefaults(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	before := time.Now().UTC().Add(-time.Second)
	a, err := f.authors.Create(ctx, Data{"email": "ada@example.com", "name": "Ada"}, nil)
	require.NoError(t, err)

	assert.Len(t, a.ID, 36)
	assert.Equal(t, "ada@example.com", a.Email)
	require.NotNil(t, a.Name)
	assert.Equal(t, "Ada", *a.Name)
	assert.Equal(t, 0.0, a.Score)
	assert.True(t, a.CreatedAt.After(before))
	assert.True(t, a.CreatedAt.Equal(a.UpdatedAt))
	assert.Equal(t, time.UTC, a.CreatedAt.Location())

	p := f.post(t, a.ID, "hello", 0, StatusDraft)
	assert.Equal(t, StatusDraft, p.Status)
	assert.False(t, p.Featured)
	assert.Nil(t, p.PublishedAt)
}

func TestTable_CreateValidation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	_, err := f.authors.Create(ctx, Data{"name": "no email"}, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = f.authors.Create(ctx, Data{"email": "x@example.com", "nickname": "x"}, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = f.authors.Create(ctx, Data{"email": "x@example.com", "score": Increment(1)}, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestTable_UniqueViolation(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	f.author(t, "dup@example.com")
	_, err := f.authors.Create(ctx, Data{"email": "dup@example.com"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsUniqueConstraint(err))
	assert.Equal(t, "P2002", errors.Code(err))
}

func TestTable_ForeignKeyViolation(t *testing.T) {
	f := setupFixture(t)
	_, err := f.posts.Create(context.Background(), Data{"title": "t", "slug": "s", "authorId": "missing"}, nil)
	require.Error(t, err)
	assert.True(t, errors.IsForeignKey(err))
}

func TestTable_FindUnique(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "find@example.com")
	f.post(t, a.ID, "one", 1, StatusDraft)

	got, err := f.authors.FindUnique(ctx, Where{"email": "find@example.com"}, nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, a.ID, got.ID)

	got, err = f.authors.FindUnique(ctx, Where{"email": "nobody@example.com"}, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = f.authors.FindUniqueOrThrow(ctx, Where{"id": "missing"}, nil)
	assert.True(t, errors.IsNotFound(err))

	post, err := f.posts.FindUnique(ctx, Where{"authorId": a.ID, "slug": "one"}, nil)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "one", post.Slug)
}

func TestTable_FindUniqueRejectsNonUniqueWhere(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	authorWheres := map[string]Where{
		"empty":      {},
		"not unique": {"name": "Ada"},
		"null value": {"email": nil},
		"operator":   {"email": Contains("a")},
	}
	for name, where := range authorWheres {
		t.Run(name, func(t *testing.T) {
			_, err := f.authors.FindUnique(ctx, where, nil)
			assert.True(t, errors.IsValidation(err), "got %v", err)
		})
	}

	_, err := f.posts.FindUnique(ctx, Where{"slug": "one"}, nil)
	assert.True(t, errors.IsValidation(err), "half of a compound unique")
}

func TestTable_FindManyAndFirst(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "many@example.com")
	f.post(t, a.ID, "a", 5, StatusPublished)
	f.post(t, a.ID, "b", 10, StatusDraft)
	f.post(t, a.ID, "c", 15, StatusPublished)

	all, err := f.posts.FindMany(ctx, FindManyArgs{OrderBy: []OrderBy{Desc("views")}})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"c", "b", "a"}, []string{all[0].Slug, all[1].Slug, all[2].Slug})

	published, err := f.posts.FindMany(ctx, FindManyArgs{
		Where:   Where{"status": StatusPublished, "views": Gt(6)},
		OrderBy: []OrderBy{Asc("views")},
	})
	require.NoError(t, err)
	require.Len(t, published, 1)
	assert.Equal(t, "c", published[0].Slug)

	paged, err := f.posts.FindMany(ctx, FindManyArgs{OrderBy: []OrderBy{Asc("views")}, Skip: Ptr(1), Take: Ptr(1)})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "b", paged[0].Slug)

	none, err := f.posts.FindMany(ctx, FindManyArgs{Where: Where{"slug": In()}})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	first, err := f.posts.FindFirst(ctx, FindManyArgs{Where: Or(Where{"slug": "a"}, Where{"slug": "b"}), OrderBy: []OrderBy{Desc("views")}})
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, "b", first.Slug)

	missing, err := f.posts.FindFirst(ctx, FindManyArgs{Where: Where{"slug": "zzz"}})
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = f.posts.FindFirstOrThrow(ctx, FindManyArgs{Where: Where{"slug": "zzz"}})
	assert.True(t, errors.IsNotFound(err))

	_, err = f.posts.FindMany(ctx, FindManyArgs{Where: Where{"nope": 1}})
	assert.True(t, errors.IsValidation(err))

	_, err = f.posts.FindMany(ctx, FindManyArgs{Take: Ptr(-1)})
	assert.True(t, errors.IsValidation(err))
}

func TestTable_FindManyDistinct(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "distinct@example.com")
	f.post(t, a.ID, "a", 1, StatusPublished)
	f.post(t, a.ID, "b", 2, StatusDraft)
	f.post(t, a.ID, "c", 3, StatusPublished)

	items, err := f.posts.FindMany(ctx, FindManyArgs{Distinct: []string{"status"}, OrderBy: []OrderBy{Asc("views")}})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "a", items[0].Slug)
	assert.Equal(t, "b", items[1].Slug)
}

func TestTable_Count(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "count@example.com")
	f.post(t, a.ID, "a", 1, StatusPublished)
	f.post(t, a.ID, "b", 2, StatusDraft)

	n, err := f.posts.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = f.posts.Count(ctx, Where{"status": StatusDraft})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.posts.Count(ctx, Where{"slug": "zzz"})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTable_Update(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "update@example.com")
	p := f.post(t, a.ID, "a", 10, StatusDraft)

	time.Sleep(5 * time.Millisecond)
	published := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	got, err := f.posts.Update(ctx, Where{"id": p.ID}, Data{
		"views":       Increment(5),
		"status":      StatusPublished,
		"publishedAt": published,
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 15, got.Views)
	assert.Equal(t, StatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)
	assert.True(t, published.Equal(*got.PublishedAt))

	got, err = f.posts.Update(ctx, Where{"id": p.ID}, Data{"views": Multiply(2), "publishedAt": nil}, nil)
	require.NoError(t, err)
	assert.Equal(t, 30, got.Views)
	assert.Nil(t, got.PublishedAt)

	got, err = f.posts.Update(ctx, Where{"id": p.ID}, Data{"views": Decrement(10)}, nil)
	require.NoError(t, err)
	assert.Equal(t, 20, got.Views)

	author, err := f.authors.Update(ctx, Where{"email": "update@example.com"}, Data{"name": "Grace"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Grace", *author.Name)
	assert.True(t, author.UpdatedAt.After(a.UpdatedAt), "updatedAt is refreshed")

	_, err = f.posts.Update(ctx, Where{"id": "missing"}, Data{"views": 1}, nil)
	assert.True(t, errors.IsNotFound(err))

	_, err = f.posts.Update(ctx, Where{"id": p.ID}, Data{}, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = f.posts.Update(ctx, Where{"id": p.ID}, Data{"title": nil}, nil)
	assert.True(t, errors.IsValidation(err))

	_, err = f.posts.Update(ctx, Where{"id": p.ID}, Data{"title": Increment(1)}, nil)
	assert.True(t, errors.IsValidation(err))
}

func TestTable_Upsert(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	created, err := f.authors.Upsert(ctx, Where{"email": "up@example.com"},
		Data{"email": "up@example.com", "name": "First"},
		Data{"name": "Second"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "First", *created.Name)

	updated, err := f.authors.Upsert(ctx, Where{"email": "up@example.com"},
		Data{"email": "up@example.com", "name": "First"},
		Data{"name": "Second"}, nil)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Second", *updated.Name)

	unchanged, err := f.authors.Upsert(ctx, Where{"email": "up@example.com"}, Data{"email": "up@example.com"}, Data{}, nil)
	require.NoError(t, err)
	assert.Equal(t, "Second", *unchanged.Name)

	n, err := f.authors.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestTable_Delete(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "delete@example.com")
	f.post(t, a.ID, "a", 1, StatusDraft)

	deleted, err := f.authors.Delete(ctx, Where{"id": a.ID}, Include{"posts": nil})
	require.NoError(t, err)
	assert.Equal(t, a.ID, deleted.ID)
	assert.Len(t, deleted.Posts, 1)

	// posts cascade
	n, err := f.posts.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = f.authors.Delete(ctx, Where{"id": a.ID}, nil)
	assert.True(t, errors.IsNotFound(err))
}

func TestTable_WithSessionQuery(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "query@example.com")
	f.post(t, a.ID, "a", 7, StatusDraft)

	var posts []Post
	err := f.posts.Query().Where(`"views" >= ?`, 7).Order("slug").Find(ctx, &posts)
	require.NoError(t, err)
	require.Len(t, posts, 1)

	var p Post
	err = f.posts.Query().Where(Where{"slug": "missing"}).First(ctx, &p)
	assert.True(t, errors.IsNotFound(err))

	var ptrs []*Post
	require.NoError(t, f.posts.Query().Find(ctx, &ptrs))
	require.Len(t, ptrs, 1)
	assert.Equal(t, "a", ptrs[0].Slug)
}
