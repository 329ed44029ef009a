package builder

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/logger"
)

type signupInput struct {
	Email  string   `json:"email" validate:"required,email"`
	Name   *string  `json:"name" validate:"min=2,max=10"`
	Rating *float64 `json:"rating" validate:"min=1,max=5"`
	Bio    string   `json:"bio" validate:"max=5"`
}

func TestValidateStruct(t *testing.T) {
	long := "a very long name"
	short := "x"
	ok := "Ada"
	high := 6.0
	good := 4.5

	tests := []struct {
		name    string
		input   interface{}
		wantErr string
	}{
		{"valid", signupInput{Email: "ada@example.com", Name: &ok, Rating: &good}, ""},
		{"nil pointers skip rules", &signupInput{Email: "ada@example.com"}, ""},
		{"missing email", signupInput{}, "Argument `email` is missing"},
		{"bad email", signupInput{Email: "not-an-email"}, "Argument `email` must be a valid email address"},
		{"short name", signupInput{Email: "a@b.co", Name: &short}, "Argument `name` must be at least 2 characters"},
		{"long name", signupInput{Email: "a@b.co", Name: &long}, "Argument `name` must be at most 10 characters"},
		{"rating too high", signupInput{Email: "a@b.co", Rating: &high}, "Argument `rating` must be at most 5"},
		{"bio too long", signupInput{Email: "a@b.co", Bio: "toolong"}, "Argument `bio` must be at most 5 characters"},
		{"not a struct", 42, "expected a struct"},
		{"nil input", (*signupInput)(nil), "missing input"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct("User", "create", tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.IsValidation(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestDetectQueryType(t *testing.T) {
	assert.Equal(t, "SELECT", detectQueryType("  select 1"))
	assert.Equal(t, "INSERT", detectQueryType("INSERT OR IGNORE INTO x"))
	assert.Equal(t, "UNKNOWN", detectQueryType("PRAGMA foreign_keys"))
}

func TestSession_LogsStatements(t *testing.T) {
	f := setupFixture(t)
	var buf bytes.Buffer
	l := logger.NewLogger([]string{"query", "error"}, &buf)
	authors := f.authors.WithSession(f.session.WithLogger(l))

	_, err := authors.Create(context.Background(), Data{"email": "log@example.com"}, nil)
	require.NoError(t, err)
	_, err = authors.Create(context.Background(), Data{"email": "log@example.com"}, nil)
	require.Error(t, err)
	require.NoError(t, l.Sync())

	out := buf.String()
	assert.Contains(t, out, `INSERT INTO \"Author\"`)
	assert.Contains(t, out, "Author INSERT failed")
	assert.True(t, strings.Count(out, "\n") >= 3)
}
