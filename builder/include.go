package builder

import (
	"context"
	"reflect"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/carlosnayan/gigboard/internal/driver"
	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
	"github.com/carlosnayan/gigboard/schema"
)

// maxParallelLoads bounds the relations loaded at once outside a transaction.
const maxParallelLoads = 4

func (s *Session) validateInclude(m *schema.Model, op string, include Include) error {
	for name, args := range include {
		rel, ok := m.Relation(name)
		if !ok {
			return errors.Validation(m.Name, op, "Unknown relation `%s` in include for model `%s`", name, m.Name)
		}
		if args == nil {
			continue
		}
		target, _ := s.schema.Model(rel.Model)
		if !rel.List && (args.Take != nil || args.Skip != nil || len(args.OrderBy) > 0) {
			return errors.Validation(m.Name, op, "include.%s: take, skip and orderBy apply to list relations only", name)
		}
		if err := validateCondition(target, op, args.Where); err != nil {
			return err
		}
		if err := validateOrderBy(target, op, args.OrderBy); err != nil {
			return err
		}
		if err := validatePage(target, op, args.Take, args.Skip); err != nil {
			return err
		}
		if err := s.validateInclude(target, op, args.Include); err != nil {
			return err
		}
	}
	return nil
}

// loadIncludes fills the relation fields of every struct in items, a slice
// of model structs, with one IN (...) query per relation and chunk of keys.
func (s *Session) loadIncludes(ctx context.Context, m *schema.Model, items reflect.Value, include Include) error {
	names := make([]string, 0, len(include))
	for name := range include {
		names = append(names, name)
	}
	sort.Strings(names)

	if s.InTransaction() || len(names) == 1 {
		for _, name := range names {
			if err := s.loadRelation(ctx, m, items, name, include[name]); err != nil {
				return err
			}
		}
		return nil
	}

	// each relation writes its own field, so loads can run side by side
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelLoads)
	for _, name := range names {
		name := name
		g.Go(func() error {
			return s.loadRelation(gctx, m, items, name, include[name])
		})
	}
	return g.Wait()
}

func (s *Session) loadRelation(ctx context.Context, m *schema.Model, items reflect.Value, name string, args *IncludeArgs) error {
	rel, _ := m.Relation(name)
	target, _ := s.schema.Model(rel.Model)
	if args == nil {
		args = &IncludeArgs{}
	}

	structType := items.Type().Elem()
	fieldIdx, ok := relationField(structType, name)
	if !ok {
		return errors.Validation(m.Name, "include", "%s has no field for relation `%s`", structType.Name(), name)
	}
	fieldType := structType.Field(fieldIdx).Type
	childType := fieldType.Elem()
	childIsPtr := false
	if rel.List && childType.Kind() == reflect.Pointer {
		childType = childType.Elem()
		childIsPtr = true
	}

	// distinct parent keys, in first seen order
	var keys []interface{}
	seen := make(map[string]bool)
	for i := 0; i < items.Len(); i++ {
		v, ok := columnValue(items.Index(i), rel.From)
		if !ok || seen[keyOf(v)] {
			continue
		}
		seen[keyOf(v)] = true
		keys = append(keys, v)
	}

	children := reflect.MakeSlice(reflect.SliceOf(childType), 0, 0)
	for start := 0; start < len(keys); start += limits.MaxInListSize {
		end := min(start+limits.MaxInListSize, len(keys))
		q := NewQuery(s, target.Name).
			Where(Where{rel.To: In(keys[start:end]...)}).
			Where(args.Where)
		if len(args.OrderBy) > 0 {
			q.OrderBy(args.OrderBy...)
		} else {
			q.OrderBy(Asc(target.PrimaryKey()))
		}
		err := q.Rows(ctx, func(rows driver.Rows) error {
			loaded, err := scanStructs(rows, childType)
			for _, c := range loaded {
				children = reflect.Append(children, c.Elem())
			}
			return err
		})
		if err != nil {
			return err
		}
	}

	if len(args.Include) > 0 && children.Len() > 0 {
		if err := s.loadIncludes(ctx, target, children, args.Include); err != nil {
			return err
		}
	}

	groups := make(map[string][]reflect.Value)
	for i := 0; i < children.Len(); i++ {
		child := children.Index(i)
		if v, ok := columnValue(child, rel.To); ok {
			k := keyOf(v)
			groups[k] = append(groups[k], child)
		}
	}

	for i := 0; i < items.Len(); i++ {
		field := items.Index(i).Field(fieldIdx)
		var group []reflect.Value
		if v, ok := columnValue(items.Index(i), rel.From); ok {
			group = groups[keyOf(v)]
		}

		if !rel.List {
			if len(group) == 0 {
				field.Set(reflect.Zero(fieldType))
				continue
			}
			ptr := reflect.New(childType)
			ptr.Elem().Set(group[0])
			field.Set(ptr)
			continue
		}

		group = page(group, args.Skip, args.Take)
		list := reflect.MakeSlice(fieldType, 0, len(group))
		for _, child := range group {
			if childIsPtr {
				ptr := reflect.New(childType)
				ptr.Elem().Set(child)
				list = reflect.Append(list, ptr)
			} else {
				list = reflect.Append(list, child)
			}
		}
		field.Set(list)
	}
	return nil
}
