package builder

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
)

func TestCreateMany(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	rows := make([]Data, 0, limits.MaxBatchSize*2+5)
	for i := 0; i < cap(rows); i++ {
		row := Data{"email": fmt.Sprintf("user%03d@example.com", i)}
		if i%2 == 0 {
			// a second column signature
			row["name"] = fmt.Sprintf("User %d", i)
		}
		rows = append(rows, row)
	}

	res, err := f.authors.CreateMany(ctx, rows, false)
	require.NoError(t, err)
	assert.Equal(t, int64(len(rows)), res.Count)

	n, err := f.authors.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(len(rows)), n)

	named, err := f.authors.Count(ctx, Where{"name": IsNotNull()})
	require.NoError(t, err)
	assert.Equal(t, int64((len(rows)+1)/2), named)
}

func TestCreateMany_SkipDuplicates(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.author(t, "taken@example.com")

	rows := []Data{{"email": "taken@example.com"}, {"email": "new@example.com"}}
	_, err := f.authors.CreateMany(ctx, rows, false)
	assert.True(t, errors.IsUniqueConstraint(err))

	res, err := f.authors.CreateMany(ctx, rows, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)
}

func TestCreateMany_RollsBackAllChunks(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	rows := make([]Data, 0, limits.MaxBatchSize+1)
	for i := 0; i < limits.MaxBatchSize; i++ {
		rows = append(rows, Data{"email": fmt.Sprintf("chunk%d@example.com", i)})
	}
	// the last chunk repeats the first email
	rows = append(rows, Data{"email": "chunk0@example.com"})

	_, err := f.authors.CreateMany(ctx, rows, false)
	require.Error(t, err)

	n, err := f.authors.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateMany_Validation(t *testing.T) {
	f := setupFixture(t)
	res, err := f.authors.CreateMany(context.Background(), nil, false)
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	_, err = f.authors.CreateMany(context.Background(), []Data{{"name": "no email"}}, false)
	assert.True(t, errors.IsValidation(err))
}

func TestUpdateManyDeleteMany(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	a := f.author(t, "batch@example.com")
	f.post(t, a.ID, "a", 1, StatusDraft)
	f.post(t, a.ID, "b", 2, StatusDraft)
	f.post(t, a.ID, "c", 3, StatusPublished)

	res, err := f.posts.UpdateMany(ctx, Where{"status": StatusDraft}, Data{"featured": true, "views": Increment(100)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Count)

	featured, err := f.posts.FindMany(ctx, FindManyArgs{Where: Where{"featured": true}, OrderBy: []OrderBy{Asc("slug")}})
	require.NoError(t, err)
	require.Len(t, featured, 2)
	assert.Equal(t, 101, featured[0].Views)

	res, err = f.posts.UpdateMany(ctx, Where{"slug": "zzz"}, Data{"featured": true})
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	_, err = f.posts.UpdateMany(ctx, nil, Data{})
	assert.True(t, errors.IsValidation(err))

	res, err = f.posts.DeleteMany(ctx, Where{"featured": true})
	require.NoError(t, err)
	assert.Equal(t, int64(2), res.Count)

	res, err = f.posts.DeleteMany(ctx, Where{"slug": "zzz"})
	require.NoError(t, err)
	assert.Zero(t, res.Count)

	res, err = f.posts.DeleteMany(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Count)
}
