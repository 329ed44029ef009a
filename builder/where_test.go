package builder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/errors"
)

func TestWhereRender(t *testing.T) {
	d := dialect.GetDialect("postgresql")
	tests := []struct {
		name     string
		cond     Condition
		wantSQL  string
		wantArgs []interface{}
	}{
		{"equality", Where{"email": "a@b.c"}, `"email" = ?`, []interface{}{"a@b.c"}},
		{"null", Where{"name": nil}, `"name" IS NULL`, nil},
		{"equals nil", Where{"name": Equals(nil)}, `"name" IS NULL`, nil},
		{"not equals nil", Where{"name": NotEquals(nil)}, `"name" IS NOT NULL`, nil},
		{"sorted keys", Where{"views": Gt(3), "status": "DRAFT"}, `"status" = ? AND "views" > ?`, []interface{}{"DRAFT", int64(3)}},
		{"in", Where{"status": In("DRAFT", "PUBLISHED")}, `"status" IN (?, ?)`, []interface{}{"DRAFT", "PUBLISHED"}},
		{"in typed slice", Where{"id": In([]string{"a", "b"})}, `"id" IN (?, ?)`, []interface{}{"a", "b"}},
		{"empty in", Where{"id": In()}, "1 = 0", nil},
		{"empty not in", Where{"id": NotIn()}, "", nil},
		{"contains", Where{"title": Contains("50%_off")}, `"title" LIKE ? ESCAPE '!'`, []interface{}{"%50!%!_off%"}},
		{"starts insensitive", Where{"title": StartsWithInsensitive("Go")}, `"title" ILIKE ? ESCAPE '!'`, []interface{}{"Go%"}},
		{"enum value", Where{"status": StatusPublished}, `"status" = ?`, []interface{}{"PUBLISHED"}},
		{"or", Or(Where{"a": 1}, Where{"b": 2}), `("a" = ?) OR ("b" = ?)`, []interface{}{int64(1), int64(2)}},
		{"empty or", Or(), "1 = 0", nil},
		{"or with unrestricted branch", Or(Where{"a": 1}, Where{}), "", nil},
		{"and skips empty", And(Where{}, Where{"a": 1}), `"a" = ?`, []interface{}{int64(1)}},
		{"not", Not(Where{"a": 1}), `NOT ("a" = ?)`, []interface{}{int64(1)}},
		{"not of everything", Not(Where{}), "1 = 0", nil},
		{"raw list", Raw(`"id" IN ?`, []string{"x", "y"}), `"id" IN (?, ?)`, []interface{}{"x", "y"}},
		{"having", HavingAgg(AggAvg, "views", Gt(10)), `AVG("views") > ?`, []interface{}{int64(10)}},
		{"having count all", HavingAgg(AggCount, "_all", Gte(2)), `COUNT(*) >= ?`, []interface{}{int64(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := tt.cond.render(d)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestWhereRender_MySQLInsensitive(t *testing.T) {
	sql, args := Where{"email": ContainsInsensitive("Bob")}.render(dialect.GetDialect("mysql"))
	assert.Equal(t, "LOWER(`email`) LIKE LOWER(?) ESCAPE '!'", sql)
	assert.Equal(t, []interface{}{"%Bob%"}, args)
}

func TestRebind(t *testing.T) {
	pg := dialect.GetDialect("postgresql")
	got := rebind(pg, `SELECT "a?" FROM "t" WHERE "x" = ? AND "y" = '?' AND "z" IN (?, ?)`)
	assert.Equal(t, `SELECT "a?" FROM "t" WHERE "x" = $1 AND "y" = '?' AND "z" IN ($2, $3)`, got)

	sqlite := dialect.GetDialect("sqlite")
	assert.Equal(t, `"x" = ?`, rebind(sqlite, `"x" = ?`))
}

func TestQueryBuild(t *testing.T) {
	s := NewSession(nil, dialect.GetDialect("postgresql"), fixtureSchema())

	stmt, args, err := NewQuery(s, "Post").
		Select("id", "title").
		Where(Where{"status": "PUBLISHED"}).
		Where(`"views" > ?`, 10).
		Order("createdAt DESC").
		Take(5).
		Skip(10).
		Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "id", "title" FROM "Post" WHERE ("status" = ?) AND ("views" > ?) ORDER BY "createdAt" DESC LIMIT 5 OFFSET 10`, stmt)
	assert.Equal(t, []interface{}{"PUBLISHED", int64(10)}, args)

	stmt, _, err = NewQuery(s, "Post").Where(Where{"slug": "a"}).Or(Where{"slug": "b"}).Build()
	require.NoError(t, err)
	assert.Contains(t, stmt, `WHERE ("slug" = ?) OR ("slug" = ?)`)

	stmt, _, err = NewQuery(s, "Post").Select("status", "COUNT(*)").Group("status").Having("COUNT(*) > ?", 1).Build()
	require.NoError(t, err)
	assert.Equal(t, `SELECT "status", COUNT(*) FROM "Post" GROUP BY "status" HAVING COUNT(*) > ?`, stmt)

	stmt, _, err = NewQuery(s, "Post").Where(Where{"id": "x"}).ForUpdate().Build()
	require.NoError(t, err)
	assert.Contains(t, stmt, " FOR UPDATE")
}

func TestQueryBuild_InvalidArguments(t *testing.T) {
	s := NewSession(nil, dialect.GetDialect("sqlite"), fixtureSchema())

	tests := map[string]*Query{
		"bad direction": NewQuery(s, "Post").Order("title SIDEWAYS"),
		"negative take": NewQuery(s, "Post").Take(-1),
		"negative skip": NewQuery(s, "Post").Skip(-2),
		"bad condition": NewQuery(s, "Post").Where(42),
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := q.Build()
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
		})
	}
}

func TestQueryBuild_OrderByLimit(t *testing.T) {
	s := NewSession(nil, dialect.GetDialect("sqlite"), fixtureSchema())
	q := NewQuery(s, "Post")
	for i := 0; i < 21; i++ {
		q.OrderBy(Asc("title"))
	}
	_, _, err := q.Build()
	assert.True(t, errors.IsValidation(err))
}
