package migrations

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/dialect"
	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/schema"
)

func blogSchema() *schema.Schema {
	return &schema.Schema{
		Enums: []*schema.Enum{{Name: "Status", Values: []string{"OPEN", "CLOSED"}}},
		Models: []*schema.Model{
			{
				Name: "Post",
				Fields: []*schema.Field{
					{Name: "id", Type: schema.String, ID: true, Default: schema.DefaultUUID},
					{Name: "slug", Type: schema.String},
					{Name: "authorId", Type: schema.String},
					{Name: "status", Type: "Status", Default: "OPEN"},
					{Name: "body", Type: schema.String, Text: true, Optional: true},
					{Name: "createdAt", Type: schema.DateTime, Default: schema.DefaultNow},
				},
				Relations: []*schema.Relation{
					{Name: "author", Model: "Author", From: "authorId", To: "id", Owner: true, OnDelete: schema.Cascade},
				},
				Uniques: [][]string{{"authorId", "slug"}},
				Indexes: [][]string{{"status"}},
			},
			{
				Name: "Author",
				Fields: []*schema.Field{
					{Name: "id", Type: schema.String, ID: true, Default: schema.DefaultUUID},
					{Name: "email", Type: schema.String, Unique: true},
				},
				Relations: []*schema.Relation{
					{Name: "posts", Model: "Post", From: "id", To: "authorId", List: true},
				},
			},
		},
	}
}

func openSQLite(t *testing.T) driver.DB {
	t.Helper()
	sqlDB, err := driver.OpenSQL(context.Background(), "sqlite", "sqlite3", "file:"+filepath.Join(t.TempDir(), "push.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return driver.NewSQLDB(sqlDB)
}

func TestGenerateSQL_SQLite(t *testing.T) {
	stmts, err := GenerateSQL(blogSchema(), dialect.GetDialect("sqlite"))
	require.NoError(t, err)
	require.Len(t, stmts, 3)

	// Author is referenced by Post, so it is created first
	assert.True(t, strings.HasPrefix(stmts[0], `CREATE TABLE IF NOT EXISTS "Author"`))
	assert.True(t, strings.HasPrefix(stmts[1], `CREATE TABLE IF NOT EXISTS "Post"`))
	assert.Equal(t, `CREATE INDEX IF NOT EXISTS "Post_status_idx" ON "Post" ("status")`, stmts[2])

	post := stmts[1]
	assert.Contains(t, post, `"id" TEXT NOT NULL,`)
	assert.Contains(t, post, `"status" TEXT NOT NULL DEFAULT 'OPEN' CHECK ("status" IN ('OPEN', 'CLOSED'))`)
	assert.Contains(t, post, `"body" TEXT,`)
	assert.Contains(t, post, `"createdAt" DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP`)
	assert.Contains(t, post, `CONSTRAINT "Post_pkey" PRIMARY KEY ("id")`)
	assert.Contains(t, post, `CONSTRAINT "Post_authorId_slug_key" UNIQUE ("authorId", "slug")`)
	assert.Contains(t, post, `CONSTRAINT "Post_authorId_fkey" FOREIGN KEY ("authorId") REFERENCES "Author" ("id") ON DELETE CASCADE`)
	assert.Contains(t, stmts[0], `CONSTRAINT "Author_email_key" UNIQUE ("email")`)
}

func TestGenerateSQL_MySQL(t *testing.T) {
	stmts, err := GenerateSQL(blogSchema(), dialect.GetDialect("mysql"))
	require.NoError(t, err)
	require.Len(t, stmts, 2, "mysql indexes are declared inside CREATE TABLE")

	post := stmts[1]
	assert.Contains(t, post, "`slug` VARCHAR(191) NOT NULL")
	assert.Contains(t, post, "`body` TEXT,")
	assert.Contains(t, post, "INDEX `Post_status_idx` (`status`)")
	assert.True(t, strings.HasSuffix(post, "ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci"))
}

func TestGenerateSQL_ForeignKeyCycle(t *testing.T) {
	s := blogSchema()
	author, _ := s.Model("Author")
	author.Fields = append(author.Fields, &schema.Field{Name: "pinnedPostId", Type: schema.String, Optional: true})
	author.Relations = append(author.Relations, &schema.Relation{
		Name: "pinned", Model: "Post", From: "pinnedPostId", To: "id", Owner: true, Optional: true,
	})

	_, err := GenerateSQL(s, dialect.GetDialect("postgresql"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign key cycle")
}

func TestPush_SQLite(t *testing.T) {
	db := openSQLite(t)
	d := dialect.GetDialect("sqlite")
	ctx := context.Background()

	dry, err := Push(ctx, db, blogSchema(), d, PushOptions{DryRun: true})
	require.NoError(t, err)
	assert.False(t, dry.Applied)
	assert.Len(t, dry.Statements, 3)
	tables, err := ListTables(ctx, db, d)
	require.NoError(t, err)
	assert.Empty(t, tables)

	res, err := Push(ctx, db, blogSchema(), d, PushOptions{})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	tables, err = ListTables(ctx, db, d)
	require.NoError(t, err)
	assert.Equal(t, []string{"Author", "Post"}, tables)

	again, err := Push(ctx, db, blogSchema(), d, PushOptions{})
	require.NoError(t, err)
	assert.True(t, again.Diff.Empty())
	assert.Empty(t, again.Statements)
	assert.Contains(t, again.Diff.Format(), "already in sync")

	// constraints are enforced
	_, err = db.Exec(ctx, `INSERT INTO "Author" ("id", "email") VALUES ('a1', 'a@example.com')`)
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO "Author" ("id", "email") VALUES ('a2', 'a@example.com')`)
	assert.Error(t, err)
	_, err = db.Exec(ctx, `INSERT INTO "Post" ("id", "slug", "authorId") VALUES ('p1', 'hello', 'missing')`)
	assert.Error(t, err, "foreign key")
	_, err = db.Exec(ctx, `INSERT INTO "Post" ("id", "slug", "authorId", "status") VALUES ('p1', 'hello', 'a1', 'DRAFT')`)
	assert.Error(t, err, "enum check")
	_, err = db.Exec(ctx, `INSERT INTO "Post" ("id", "slug", "authorId") VALUES ('p1', 'hello', 'a1')`)
	require.NoError(t, err)

	var status string
	require.NoError(t, db.QueryRow(ctx, `SELECT "status" FROM "Post" WHERE "id" = 'p1'`).Scan(&status))
	assert.Equal(t, "OPEN", status)

	// cascade
	_, err = db.Exec(ctx, `DELETE FROM "Author" WHERE "id" = 'a1'`)
	require.NoError(t, err)
	var n int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM "Post"`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestPush_AddsColumns(t *testing.T) {
	db := openSQLite(t)
	d := dialect.GetDialect("sqlite")
	ctx := context.Background()

	_, err := Push(ctx, db, blogSchema(), d, PushOptions{})
	require.NoError(t, err)
	_, err = db.Exec(ctx, `CREATE TABLE "legacy" ("id" INTEGER)`)
	require.NoError(t, err)

	s := blogSchema()
	author, _ := s.Model("Author")
	author.Fields = append(author.Fields, &schema.Field{Name: "bio", Type: schema.String, Optional: true})

	res, err := Push(ctx, db, s, d, PushOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{`ALTER TABLE "Author" ADD COLUMN "bio" TEXT`}, res.Statements)
	assert.Equal(t, []string{"legacy"}, res.Diff.UnknownTables)

	out := res.Diff.Format()
	assert.Contains(t, out, "[*] Changed the `Author` table")
	assert.Contains(t, out, "[+] Added column `bio`")
	assert.Contains(t, out, "[?] Table `legacy` is not in the schema")
}

func TestPush_ForceReset(t *testing.T) {
	db := openSQLite(t)
	d := dialect.GetDialect("sqlite")
	ctx := context.Background()

	_, err := Push(ctx, db, blogSchema(), d, PushOptions{})
	require.NoError(t, err)
	_, err = db.Exec(ctx, `INSERT INTO "Author" ("id", "email") VALUES ('a1', 'a@example.com')`)
	require.NoError(t, err)

	res, err := Push(ctx, db, blogSchema(), d, PushOptions{ForceReset: true})
	require.NoError(t, err)
	assert.Len(t, res.Diff.TablesToCreate, 2)

	var n int
	require.NoError(t, db.QueryRow(ctx, `SELECT COUNT(*) FROM "Author"`).Scan(&n))
	assert.Equal(t, 0, n)
}

func TestCheckHealth_SQLite(t *testing.T) {
	db := openSQLite(t)
	d := dialect.GetDialect("sqlite")
	_, err := Push(context.Background(), db, blogSchema(), d, PushOptions{})
	require.NoError(t, err)

	check, err := CheckHealth(context.Background(), db, d, 5*time.Second)
	require.NoError(t, err)
	assert.Equal(t, "healthy", check.Status)
	assert.Equal(t, "main", check.Database)
	assert.Equal(t, 2, check.Tables)
	require.NotNil(t, check.Pool)

	var buf bytes.Buffer
	check.Print(&buf)
	assert.Contains(t, buf.String(), "Status: healthy")
	assert.Contains(t, buf.String(), "Tables: 2")
}

func TestConnectDatabase_SQLite(t *testing.T) {
	db, provider, err := ConnectDatabase(context.Background(), "file:"+filepath.Join(t.TempDir(), "c.db"))
	require.NoError(t, err)
	defer db.Close()
	assert.Equal(t, "sqlite", provider)
}

func TestPoolConfigFrom(t *testing.T) {
	pc := poolConfigFrom(nil)
	assert.Equal(t, DefaultPoolConfig(), pc)
}
