package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDialect(t *testing.T) {
	assert.Equal(t, "postgresql", GetDialect("postgres").Name())
	assert.Equal(t, "postgresql", GetDialect("unknown").Name())
	assert.Equal(t, "mysql", GetDialect("MariaDB").Name())
	assert.Equal(t, "sqlite", GetDialect("sqlite3").Name())
}

func TestDetectProvider(t *testing.T) {
	tests := map[string]string{
		"postgresql://u:p@localhost/db": "postgresql",
		"postgres://localhost/db":       "postgresql",
		"mysql://root@localhost/db":     "mysql",
		"file:/tmp/x.db?_fk=1":          "sqlite",
		"sqlite://dev.db":               "sqlite",
		"./dev.db":                      "sqlite",
		"whatever":                      "postgresql",
	}
	for url, want := range tests {
		assert.Equal(t, want, DetectProvider(url), url)
	}
}

func TestQuoting(t *testing.T) {
	assert.Equal(t, `"User"`, GetDialect("postgresql").QuoteIdentifier("User"))
	assert.Equal(t, "`User`", GetDialect("mysql").QuoteIdentifier("User"))
	assert.Equal(t, `"a""b"`, GetDialect("sqlite").QuoteIdentifier(`a"b`))
	assert.Equal(t, `'it''s'`, GetDialect("postgresql").QuoteString("it's"))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "$3", GetDialect("postgresql").GetPlaceholder(3))
	assert.Equal(t, "?", GetDialect("mysql").GetPlaceholder(3))
	assert.Equal(t, "?", GetDialect("sqlite").GetPlaceholder(3))
}

func TestMapType(t *testing.T) {
	tests := []struct {
		provider, in, want string
	}{
		{"postgresql", "String", "TEXT"},
		{"postgresql", "Float", "DOUBLE PRECISION"},
		{"postgresql", "DateTime", "TIMESTAMP(3)"},
		{"postgresql", "Enum", "TEXT"},
		{"mysql", "String", "VARCHAR(191)"},
		{"mysql", "Boolean", "TINYINT(1)"},
		{"mysql", "Text", "TEXT"},
		{"sqlite", "DateTime", "DATETIME"},
		{"sqlite", "Boolean", "BOOLEAN"},
		{"sqlite", "Int", "INTEGER"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GetDialect(tt.provider).MapType(tt.in, false), tt.provider+" "+tt.in)
	}
}

func TestMapDefaultValue(t *testing.T) {
	pg := GetDialect("postgresql")
	assert.Equal(t, "CURRENT_TIMESTAMP", pg.MapDefaultValue("now()"))
	assert.Equal(t, "", pg.MapDefaultValue("uuid()"))
	assert.Equal(t, "FALSE", pg.MapDefaultValue("false"))
	assert.Equal(t, "0", pg.MapDefaultValue("0"))
	assert.Equal(t, "'OPEN'", pg.MapDefaultValue("OPEN"))
	assert.Equal(t, "'hi'", pg.MapDefaultValue(`"hi"`))
	assert.Equal(t, "CURRENT_TIMESTAMP(3)", GetDialect("mysql").MapDefaultValue("now()"))
}

func TestLimitOffset(t *testing.T) {
	pg := GetDialect("postgresql")
	assert.Equal(t, "LIMIT 10 OFFSET 5", pg.GetLimitOffsetSyntax(10, 5))
	assert.Equal(t, "LIMIT 0", pg.GetLimitOffsetSyntax(0, 0))
	assert.Equal(t, "OFFSET 5", pg.GetLimitOffsetSyntax(-1, 5))
	assert.Equal(t, "", pg.GetLimitOffsetSyntax(-1, 0))
	assert.Equal(t, "LIMIT 18446744073709551615 OFFSET 5", GetDialect("mysql").GetLimitOffsetSyntax(-1, 5))
	assert.Equal(t, "LIMIT -1 OFFSET 5", GetDialect("sqlite").GetLimitOffsetSyntax(-1, 5))
}

func TestInsertIgnore(t *testing.T) {
	p, s := GetDialect("postgresql").InsertIgnore()
	assert.Equal(t, "INSERT INTO", p)
	assert.Equal(t, " ON CONFLICT DO NOTHING", s)
	p, _ = GetDialect("mysql").InsertIgnore()
	assert.Equal(t, "INSERT IGNORE INTO", p)
	p, _ = GetDialect("sqlite").InsertIgnore()
	assert.Equal(t, "INSERT OR IGNORE INTO", p)
}

func TestSensitiveLike(t *testing.T) {
	tests := []struct {
		provider string
		pattern  string
		wantSQL  string
		wantArg  interface{}
	}{
		{"postgresql", "%Go!_%", `"title" LIKE ? ESCAPE '!'`, "%Go!_%"},
		{"mysql", "%Go!_%", "CAST(`title` AS BINARY) LIKE ? ESCAPE '!'", "%Go!_%"},
		{"sqlite", "%Go!_%", `"title" GLOB ?`, "*Go_*"},
		{"sqlite", "a_b%", `"title" GLOB ?`, "a?b*"},
		{"sqlite", "!%[*]?!!", `"title" GLOB ?`, "%[[][*]][?]!"},
	}
	for _, tt := range tests {
		t.Run(tt.provider+" "+tt.pattern, func(t *testing.T) {
			d := GetDialect(tt.provider)
			sql, arg := d.SensitiveLike(d.QuoteIdentifier("title"), tt.pattern, "!")
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArg, arg)
		})
	}
}
