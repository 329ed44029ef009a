package builder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/driver"
	testutil "github.com/carlosnayan/gigboard/internal/testing"
	"github.com/carlosnayan/gigboard/schema"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusPublished Status = "PUBLISHED"
)

type Author struct {
	ID        string    `db:"id" json:"id"`
	Email     string    `db:"email" json:"email"`
	Name      *string   `db:"name" json:"name"`
	Score     float64   `db:"score" json:"score"`
	CreatedAt time.Time `db:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `db:"updatedAt" json:"updatedAt"`

	Posts []Post `db:"-" json:"posts,omitempty"`
}

type Post struct {
	ID          string     `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	Slug        string     `db:"slug" json:"slug"`
	AuthorID    string     `db:"authorId" json:"authorId"`
	Status      Status     `db:"status" json:"status"`
	Views       int        `db:"views" json:"views"`
	Featured    bool       `db:"featured" json:"featured"`
	PublishedAt *time.Time `db:"publishedAt" json:"publishedAt"`
	CreatedAt   time.Time  `db:"createdAt" json:"createdAt"`

	Author *Author `db:"-" json:"author,omitempty"`
}

func fixtureSchema() *schema.Schema {
	return &schema.Schema{
		Enums: []*schema.Enum{{Name: "Status", Values: []string{"DRAFT", "PUBLISHED"}}},
		Models: []*schema.Model{
			{
				Name: "Author",
				Fields: []*schema.Field{
					{Name: "id", Type: schema.String, ID: true, Default: schema.DefaultUUID},
					{Name: "email", Type: schema.String, Unique: true},
					{Name: "name", Type: schema.String, Optional: true},
					{Name: "score", Type: schema.Float, Default: "0"},
					{Name: "createdAt", Type: schema.DateTime, Default: schema.DefaultNow},
					{Name: "updatedAt", Type: schema.DateTime, UpdatedAt: true},
				},
				Relations: []*schema.Relation{
					{Name: "posts", Model: "Post", From: "id", To: "authorId", List: true},
				},
			},
			{
				Name: "Post",
				Fields: []*schema.Field{
					{Name: "id", Type: schema.String, ID: true, Default: schema.DefaultUUID},
					{Name: "title", Type: schema.String},
					{Name: "slug", Type: schema.String},
					{Name: "authorId", Type: schema.String},
					{Name: "status", Type: "Status", Default: "DRAFT"},
					{Name: "views", Type: schema.Int, Default: "0"},
					{Name: "featured", Type: schema.Boolean, Default: "false"},
					{Name: "publishedAt", Type: schema.DateTime, Optional: true},
					{Name: "createdAt", Type: schema.DateTime, Default: schema.DefaultNow},
				},
				Relations: []*schema.Relation{
					{Name: "author", Model: "Author", From: "authorId", To: "id", Owner: true, OnDelete: schema.Cascade},
				},
				Uniques: [][]string{{"authorId", "slug"}},
				Indexes: [][]string{{"status"}},
			},
		},
	}
}

type fixture struct {
	db      driver.DB
	session *Session
	authors *Table[Author]
	posts   *Table[Post]
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	s := fixtureSchema()
	db, d := testutil.SetupSchemaDB(t, "sqlite", s)
	session := NewSession(db, d, s)
	return &fixture{
		db:      db,
		session: session,
		authors: NewTable[Author](session, "Author"),
		posts:   NewTable[Post](session, "Post"),
	}
}

func (f *fixture) author(t *testing.T, email string) *Author {
	t.Helper()
	a, err := f.authors.Create(context.Background(), Data{"email": email}, nil)
	require.NoError(t, err)
	return a
}

func (f *fixture) post(t *testing.T, authorID, slug string, views int, status Status) *Post {
	t.Helper()
	p, err := f.posts.Create(context.Background(), Data{
		"title":    "Title " + slug,
		"slug":     slug,
		"authorId": authorID,
		"views":    views,
		"status":   status,
	}, nil)
	require.NoError(t, err)
	return p
}
