package builder

import (
	"fmt"
	"net/mail"
	"reflect"
	"strconv"
	"strings"

	"github.com/carlosnayan/gigboard/internal/errors"
	"github.com/carlosnayan/gigboard/internal/limits"
	"github.com/carlosnayan/gigboard/schema"
)

// ValidateStruct checks `validate` struct tags on an input struct before it
// is turned into SQL. Supported rules: required, min=N, max=N, email.
// min/max bound string length or numeric value. Nil pointers skip every
// rule but required.
func ValidateStruct(model, operation string, s interface{}) error {
	v := reflect.ValueOf(s)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return errors.Validation(model, operation, "missing input")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return errors.Validation(model, operation, "expected a struct, got %s", v.Kind())
	}
	t := v.Type()

	var problems []string
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}
		name := tagName(field.Tag.Get("json"))
		if name == "" {
			name = field.Name
		}
		for _, rule := range strings.Split(tag, ",") {
			if msg := validateField(v.Field(i), strings.TrimSpace(rule)); msg != "" {
				problems = append(problems, fmt.Sprintf("Argument `%s` %s", name, msg))
			}
		}
	}
	if len(problems) > 0 {
		return errors.Validation(model, operation, "%s", strings.Join(problems, "; "))
	}
	return nil
}

func validateField(value reflect.Value, rule string) string {
	if value.Kind() == reflect.Pointer {
		if value.IsNil() {
			if rule == "required" {
				return "is missing"
			}
			return ""
		}
		value = value.Elem()
	}

	switch {
	case rule == "required":
		if value.IsZero() {
			return "is missing"
		}
	case strings.HasPrefix(rule, "min="):
		limit := parseIntRule(rule, "min=")
		if value.Kind() == reflect.String && len([]rune(value.String())) < limit {
			return fmt.Sprintf("must be at least %d characters", limit)
		}
		if isNumeric(value.Kind()) && getNumericValue(value) < float64(limit) {
			return fmt.Sprintf("must be at least %d", limit)
		}
	case strings.HasPrefix(rule, "max="):
		limit := parseIntRule(rule, "max=")
		if value.Kind() == reflect.String && len([]rune(value.String())) > limit {
			return fmt.Sprintf("must be at most %d characters", limit)
		}
		if isNumeric(value.Kind()) && getNumericValue(value) > float64(limit) {
			return fmt.Sprintf("must be at most %d", limit)
		}
	case rule == "email":
		if value.Kind() == reflect.String && !isValidEmail(value.String()) {
			return "must be a valid email address"
		}
	}
	return ""
}

func isNumeric(kind reflect.Kind) bool {
	return kind >= reflect.Int && kind <= reflect.Float64
}

func getNumericValue(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	return 0
}

func parseIntRule(rule, prefix string) int {
	n, _ := strconv.Atoi(strings.TrimPrefix(rule, prefix))
	return n
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// conditionFields lists the field names a condition refers to.
func conditionFields(c Condition) []string {
	switch x := c.(type) {
	case Where:
		out := make([]string, 0, len(x))
		for k := range x {
			out = append(out, k)
		}
		return out
	case junction:
		var out []string
		for _, sub := range x.conds {
			out = append(out, conditionFields(sub)...)
		}
		return out
	case negation:
		var out []string
		for _, sub := range x.conds {
			out = append(out, conditionFields(sub)...)
		}
		return out
	case aggCondition:
		if x.field == "_all" {
			return nil
		}
		return []string{x.field}
	}
	return nil
}

func validateFields(m *schema.Model, op string, fields []string) error {
	for _, f := range fields {
		if _, ok := m.Field(f); !ok {
			return errors.Validation(m.Name, op, "Unknown field `%s` for model `%s`", f, m.Name)
		}
	}
	return nil
}

func validateCondition(m *schema.Model, op string, c Condition) error {
	if c == nil {
		return nil
	}
	return validateFields(m, op, conditionFields(c))
}

func validateOrderBy(m *schema.Model, op string, orderBy []OrderBy) error {
	if len(orderBy) > limits.MaxOrderByFields {
		return errors.Validation(m.Name, op, "orderBy accepts at most %d fields", limits.MaxOrderByFields)
	}
	for _, o := range orderBy {
		if _, err := direction(o.Order); err != nil {
			return errors.Validation(m.Name, op, "%v", err)
		}
		if o.Field == "_all" && o.Aggregate == "_count" {
			continue
		}
		if err := validateFields(m, op, []string{o.Field}); err != nil {
			return err
		}
	}
	return nil
}

func direction(order string) (string, error) {
	switch dir := strings.ToUpper(strings.TrimSpace(order)); dir {
	case "", "ASC":
		return "ASC", nil
	case "DESC":
		return "DESC", nil
	default:
		return "", fmt.Errorf("invalid order direction %q, expected asc or desc", order)
	}
}

func validatePage(m *schema.Model, op string, take, skip *int) error {
	if take != nil && *take < 0 {
		return errors.Validation(m.Name, op, "take must not be negative, got %d", *take)
	}
	if skip != nil && *skip < 0 {
		return errors.Validation(m.Name, op, "skip must not be negative, got %d", *skip)
	}
	return nil
}

// validateUnique checks that where selects exactly one record: its keys
// must be the primary key, a @unique field or a compound unique, and no
// value may be nil or an operator.
func validateUnique(m *schema.Model, op string, where Where) error {
	if len(where) == 0 {
		return errors.Validation(m.Name, op, "Argument `where` of type %sWhereUniqueInput needs at least one of %s arguments",
			m.Name, strings.Join(uniqueSelectors(m), ", "))
	}
	fields := make([]string, 0, len(where))
	for k, v := range where {
		if v == nil {
			return errors.Validation(m.Name, op, "Argument `where.%s` must not be null", k)
		}
		if _, isOp := v.(WhereOperator); isOp {
			return errors.Validation(m.Name, op, "Argument `where.%s` of a unique selector must be a value", k)
		}
		fields = append(fields, k)
	}
	if !m.IsUniqueSelector(fields) {
		return errors.Validation(m.Name, op, "Argument `where` of type %sWhereUniqueInput needs exactly one of %s arguments",
			m.Name, strings.Join(uniqueSelectors(m), ", "))
	}
	return nil
}

func uniqueSelectors(m *schema.Model) []string {
	out := append([]string{}, m.UniqueFields()...)
	for _, u := range m.Uniques {
		out = append(out, schema.CompoundName(u))
	}
	return out
}

// validateData checks the columns of a create or update.
func validateData(m *schema.Model, op string, data Data, create bool) error {
	for col, v := range data {
		f, ok := m.Field(col)
		if !ok {
			return errors.Validation(m.Name, op, "Unknown argument `%s`", col)
		}
		if u, isOp := v.(UpdateOp); isOp && u.op == "set" {
			v = u.value
		}
		if v == nil && !f.Optional {
			return errors.Validation(m.Name, op, "Argument `%s` must not be null", col)
		}
		if u, isOp := v.(UpdateOp); isOp {
			if create && u.op != "set" {
				return errors.Validation(m.Name, op, "Argument `%s`: atomic operations are only valid in updates", col)
			}
			if u.op != "set" && !f.IsNumeric() {
				return errors.Validation(m.Name, op, "Argument `%s`: atomic operations need a numeric field", col)
			}
		}
	}
	if !create {
		return nil
	}
	for _, f := range m.Fields {
		if f.Optional || f.Default != "" || f.UpdatedAt {
			continue
		}
		if _, ok := data[f.Name]; !ok {
			return errors.Validation(m.Name, op, "Argument `%s` is missing", f.Name)
		}
	}
	return nil
}
