package builder

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/schema"
)

// Table implements the model operations for a model type T. T is a struct
// whose scalar fields carry `db` tags matching the model's columns and whose
// relation fields are tagged db:"-" with the relation name as json name.
type Table[T any] struct {
	session *Session
	model   *schema.Model
	typ     reflect.Type
}

// NewTable binds model to T. It panics when the session's schema has no
// such model, which is a programming error.
func NewTable[T any](s *Session, model string) *Table[T] {
	if s.schema == nil {
		panic("builder: session has no schema")
	}
	m, ok := s.schema.Model(model)
	if !ok {
		panic(fmt.Sprintf("builder: unknown model %s", model))
	}
	return &Table[T]{session: s, model: m, typ: reflect.TypeOf((*T)(nil)).Elem()}
}

// Model returns the model metadata.
func (t *Table[T]) Model() *schema.Model { return t.model }

// Session returns the session the table runs on.
func (t *Table[T]) Session() *Session { return t.session }

// WithSession returns the same table bound to s, typically a transaction.
func (t *Table[T]) WithSession(s *Session) *Table[T] {
	return &Table[T]{session: s, model: t.model, typ: t.typ}
}

// Query starts a fluent query on the table.
func (t *Table[T]) Query() *Query {
	return NewQuery(t.session, t.model.Name)
}

// FindUnique returns the record selected by a unique where, or nil.
func (t *Table[T]) FindUnique(ctx context.Context, where Where, include Include) (*T, error) {
	return t.findUnique(ctx, "findUnique", where, include)
}

// FindUniqueOrThrow is FindUnique returning P2025 instead of nil.
func (t *Table[T]) FindUniqueOrThrow(ctx context.Context, where Where, include Include) (*T, error) {
	rec, err := t.findUnique(ctx, "findUniqueOrThrow", where, include)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NotFound(t.model.Name, "No "+t.model.Name+" found")
	}
	return rec, nil
}

func (t *Table[T]) findUnique(ctx context.Context, op string, where Where, include Include) (*T, error) {
	if err := validateUnique(t.model, op, where); err != nil {
		return nil, err
	}
	if err := t.validateInclude(op, include); err != nil {
		return nil, err
	}
	return t.first(ctx, t.Query().Where(where), include)
}

// FindFirst returns the first record matching args, or nil.
func (t *Table[T]) FindFirst(ctx context.Context, args FindManyArgs) (*T, error) {
	args.Take = Ptr(1)
	items, err := t.findMany(ctx, "findFirst", args)
	if err != nil || len(items) == 0 {
		return nil, err
	}
	return &items[0], nil
}

// FindFirstOrThrow is FindFirst returning P2025 instead of nil.
func (t *Table[T]) FindFirstOrThrow(ctx context.Context, args FindManyArgs) (*T, error) {
	rec, err := t.FindFirst(ctx, args)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NotFound(t.model.Name, "No "+t.model.Name+" found")
	}
	return rec, nil
}

// FindMany returns every record matching args; never nil.
func (t *Table[T]) FindMany(ctx context.Context, args FindManyArgs) ([]T, error) {
	return t.findMany(ctx, "findMany", args)
}

func (t *Table[T]) findMany(ctx context.Context, op string, args FindManyArgs) ([]T, error) {
	if err := t.validateArgs(op, args.Where, args.OrderBy, args.Take, args.Skip); err != nil {
		return nil, err
	}
	if err := validateFields(t.model, op, args.Distinct); err != nil {
		return nil, err
	}
	if err := t.validateInclude(op, args.Include); err != nil {
		return nil, err
	}

	q := t.Query().Where(args.Where).OrderBy(args.OrderBy...)
	if len(args.Distinct) == 0 {
		if args.Take != nil {
			q.Take(*args.Take)
		}
		if args.Skip != nil {
			q.Skip(*args.Skip)
		}
	}

	items := []T{}
	if err := q.Find(ctx, &items); err != nil {
		return nil, err
	}
	if len(args.Distinct) > 0 {
		items = page(distinctBy(items, args.Distinct), args.Skip, args.Take)
	}
	if len(args.Include) > 0 && len(items) > 0 {
		if err := t.session.loadIncludes(ctx, t.model, reflect.ValueOf(items), args.Include); err != nil {
			return nil, err
		}
	}
	return items, nil
}

// distinctBy keeps the first item of each combination of fields, in order.
func distinctBy[T any](items []T, fields []string) []T {
	seen := make(map[string]bool, len(items))
	out := items[:0]
	for _, item := range items {
		v := reflect.ValueOf(item)
		parts := make([]string, len(fields))
		for i, f := range fields {
			val, ok := columnValue(v, f)
			if ok {
				parts[i] = keyOf(val)
			} else {
				parts[i] = "\x00null"
			}
		}
		key := strings.Join(parts, "\x1f")
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

func page[T any](items []T, skip, take *int) []T {
	if skip != nil {
		if *skip >= len(items) {
			return items[:0]
		}
		items = items[*skip:]
	}
	if take != nil && *take < len(items) {
		items = items[:*take]
	}
	return items
}

// Count returns the number of records matching where.
func (t *Table[T]) Count(ctx context.Context, where Condition) (int64, error) {
	if err := validateCondition(t.model, "count", where); err != nil {
		return 0, err
	}
	return t.Query().Where(where).Count(ctx)
}

// Create inserts a record and returns it as stored.
func (t *Table[T]) Create(ctx context.Context, data Data, include Include) (*T, error) {
	if err := validateData(t.model, "create", data, true); err != nil {
		return nil, err
	}
	if err := t.validateInclude("create", include); err != nil {
		return nil, err
	}

	row := t.withDefaults(data, now())
	cols := sortedKeys(row)
	stmt, args := t.insertStatement(cols, []Data{row}, false)
	if _, err := t.session.Exec(ctx, t.model.Name, stmt, args...); err != nil {
		return nil, err
	}
	return t.findByPK(ctx, row[t.model.PrimaryKey()], include)
}

// Update changes the record selected by a unique where. A missing record is P2025.
func (t *Table[T]) Update(ctx context.Context, where Where, data Data, include Include) (*T, error) {
	if err := validateUnique(t.model, "update", where); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.Validation(t.model.Name, "update", "Argument `data` must not be empty")
	}
	if err := validateData(t.model, "update", data, false); err != nil {
		return nil, err
	}
	if err := t.validateInclude("update", include); err != nil {
		return nil, err
	}

	pk, err := t.lookupPK(ctx, where)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound(t.model.Name, "Record to update not found.")
	}
	if err != nil {
		return nil, err
	}
	return t.updateByPK(ctx, pk, data, include)
}

func (t *Table[T]) updateByPK(ctx context.Context, pk interface{}, data Data, include Include) (*T, error) {
	set, args := t.setClause(data, now())
	pkCol := t.model.PrimaryKey()
	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		t.session.dialect.QuoteIdentifier(t.model.Name), set, t.session.dialect.QuoteIdentifier(pkCol))
	args = append(args, pk)

	if _, err := t.session.Exec(ctx, t.model.Name, stmt, args...); err != nil {
		return nil, err
	}
	if v, ok := data[pkCol]; ok {
		if u, isOp := v.(UpdateOp); isOp {
			v = u.value
		}
		pk = normalizeArg(v)
	}
	return t.findByPK(ctx, pk, include)
}

// Upsert updates the record selected by where, or creates it from create
// when it does not exist.
func (t *Table[T]) Upsert(ctx context.Context, where Where, create, update Data, include Include) (*T, error) {
	if err := validateUnique(t.model, "upsert", where); err != nil {
		return nil, err
	}
	if err := validateData(t.model, "upsert", create, true); err != nil {
		return nil, err
	}
	if err := validateData(t.model, "upsert", update, false); err != nil {
		return nil, err
	}
	if err := t.validateInclude("upsert", include); err != nil {
		return nil, err
	}

	for attempt := 0; ; attempt++ {
		pk, err := t.lookupPK(ctx, where)
		if err == nil {
			if len(update) == 0 {
				return t.findByPK(ctx, pk, include)
			}
			return t.updateByPK(ctx, pk, update, include)
		}
		if !stderrors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		rec, err := t.Create(ctx, create, include)
		// a concurrent insert of the same key: retry as an update once
		if errors.IsUniqueConstraint(err) && attempt == 0 && !t.session.InTransaction() {
			continue
		}
		return rec, err
	}
}

// Delete removes the record selected by a unique where and returns it. A
// missing record is P2025.
func (t *Table[T]) Delete(ctx context.Context, where Where, include Include) (*T, error) {
	if err := validateUnique(t.model, "delete", where); err != nil {
		return nil, err
	}
	if err := t.validateInclude("delete", include); err != nil {
		return nil, err
	}
	rec, err := t.first(ctx, t.Query().Where(where), include)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NotFound(t.model.Name, "Record to delete does not exist.")
	}

	pkCol := t.model.PrimaryKey()
	pk, _ := columnValue(reflect.ValueOf(rec), pkCol)
	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?",
		t.session.dialect.QuoteIdentifier(t.model.Name), t.session.dialect.QuoteIdentifier(pkCol))
	if _, err := t.session.Exec(ctx, t.model.Name, stmt, pk); err != nil {
		return nil, err
	}
	return rec, nil
}

// first runs q for one row and loads include on it. No row is nil, nil.
func (t *Table[T]) first(ctx context.Context, q *Query, include Include) (*T, error) {
	rec := new(T)
	err := q.First(ctx, rec)
	if errors.IsNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(include) > 0 {
		items := []T{*rec}
		if err := t.session.loadIncludes(ctx, t.model, reflect.ValueOf(items), include); err != nil {
			return nil, err
		}
		*rec = items[0]
	}
	return rec, nil
}

func (t *Table[T]) findByPK(ctx context.Context, pk interface{}, include Include) (*T, error) {
	rec, err := t.first(ctx, t.Query().Where(Where{t.model.PrimaryKey(): pk}), include)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, errors.NotFound(t.model.Name, "No "+t.model.Name+" found")
	}
	return rec, nil
}

// lookupPK returns the primary key of the record selected by where, locking
// the row inside a transaction. sql.ErrNoRows when there is none.
func (t *Table[T]) lookupPK(ctx context.Context, where Where) (interface{}, error) {
	pkCol := t.model.PrimaryKey()
	q := t.Query().Select(pkCol).Where(where).Take(1)
	if t.session.InTransaction() {
		q.ForUpdate()
	}
	stmt, args, err := q.Build()
	if err != nil {
		return nil, err
	}
	var pk interface{}
	if err := t.session.QueryRow(ctx, t.model.Name, stmt, args, &pk); err != nil {
		return nil, err
	}
	if b, ok := pk.([]byte); ok {
		pk = string(b)
	}
	return pk, nil
}

// withDefaults fills client side defaults: uuid() ids, now() timestamps and
// @updatedAt fields. Set operations are unwrapped and values normalized.
func (t *Table[T]) withDefaults(data Data, ts time.Time) Data {
	row := make(Data, len(data)+3)
	for k, v := range data {
		if u, ok := v.(UpdateOp); ok {
			v = u.value
		}
		row[k] = normalizeArg(v)
	}
	for _, f := range t.model.Fields {
		if _, ok := row[f.Name]; ok {
			continue
		}
		switch {
		case f.Default == schema.DefaultUUID:
			row[f.Name] = uuid.NewString()
		case f.Default == schema.DefaultNow, f.UpdatedAt:
			row[f.Name] = ts
		}
	}
	return row
}

// setClause renders SET assignments in column order. @updatedAt fields are
// refreshed unless data sets them.
func (t *Table[T]) setClause(data Data, ts time.Time) (string, []interface{}) {
	d := t.session.dialect
	cols := sortedKeys(data)
	for _, f := range t.model.Fields {
		if _, ok := data[f.Name]; f.UpdatedAt && !ok {
			cols = append(cols, f.Name)
		}
	}

	parts := make([]string, 0, len(cols))
	var args []interface{}
	for _, col := range cols {
		quoted := d.QuoteIdentifier(col)
		v, ok := data[col]
		if !ok {
			parts = append(parts, quoted+" = ?")
			args = append(args, ts)
			continue
		}
		u, isOp := v.(UpdateOp)
		switch {
		case isOp && u.op != "set":
			parts = append(parts, fmt.Sprintf("%s = %s %s ?", quoted, quoted, u.op))
			args = append(args, normalizeArg(u.value))
		case isOp:
			v = u.value
			fallthrough
		default:
			if v == nil {
				parts = append(parts, quoted+" = NULL")
				continue
			}
			parts = append(parts, quoted+" = ?")
			args = append(args, normalizeArg(v))
		}
	}
	return strings.Join(parts, ", "), args
}

// insertStatement renders one multi-row INSERT. Every row must have cols.
func (t *Table[T]) insertStatement(cols []string, rows []Data, skipDuplicates bool) (string, []interface{}) {
	d := t.session.dialect
	prefix, suffix := "INSERT INTO", ""
	if skipDuplicates {
		prefix, suffix = d.InsertIgnore()
	}

	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = d.QuoteIdentifier(c)
	}
	tuple := "(" + placeholders(len(cols)) + ")"

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s (%s) VALUES ", prefix, d.QuoteIdentifier(t.model.Name), strings.Join(quoted, ", "))
	args := make([]interface{}, 0, len(cols)*len(rows))
	for i, row := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(tuple)
		for _, c := range cols {
			args = append(args, row[c])
		}
	}
	b.WriteString(suffix)
	return b.String(), args
}

func (t *Table[T]) validateArgs(op string, where Condition, orderBy []OrderBy, take, skip *int) error {
	if err := validateCondition(t.model, op, where); err != nil {
		return err
	}
	if err := validateOrderBy(t.model, op, orderBy); err != nil {
		return err
	}
	return validatePage(t.model, op, take, skip)
}

func (t *Table[T]) validateInclude(op string, include Include) error {
	return t.session.validateInclude(t.model, op, include)
}

func sortedKeys(data Data) []string {
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
