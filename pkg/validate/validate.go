// Package validate checks struct fields against comma-separated rules in a
// `validate` tag. Messages name fields by their `form` tag, which is also the
// key of the returned error map, so templates can look errors up by input name.
//
// Supported rules:
//
//	required        field must not be zero/empty
//	nullable        if empty, skip the remaining rules
//	email           valid email address
//	username        letters, digits and @.+-_ only
//	decimal         fixed-point number (prices)
//	date            YYYY-MM-DD
//	min=N           string: min char length | number: min value
//	max=N           string: max char length | number: max value
//	gte=N           number >= N
//	in=a|b|c        value must be one of the listed items
//	same=field      value must equal the sibling with that form name
//
// Example:
//
//	type Input struct {
//	    Username string `form:"username"  validate:"required,username,max=150"`
//	    Status   string `form:"status"    validate:"required,in=Pending|Delivered"`
//	    Password string `form:"password2" validate:"required,same=password1"`
//	}
package validate

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the only date format accepted by the date rule.
const DateLayout = "2006-01-02"

// Struct validates all exported fields of v that carry a `validate` tag.
// Returns a map of form name → error message; empty map means no errors.
func Struct(v interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return errs
	}
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		tag := field.Tag.Get("validate")
		if tag == "" {
			continue
		}

		value := rv.Field(i)
		name := FieldName(field)
		rules := strings.Split(tag, ",")

		if hasRule(rules, "nullable") && isEmpty(value) {
			continue
		}

		for _, rule := range rules {
			if rule == "nullable" {
				continue
			}
			if msg := applyRule(rule, name, value, rv); msg != "" {
				errs[name] = msg
				break
			}
		}
	}

	return errs
}

// HasErrors returns true when the errs map is non-empty.
func HasErrors(errs map[string]string) bool { return len(errs) > 0 }

// FieldName is the form name of f, or its lowercased Go name.
func FieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
	if name == "" || name == "-" {
		return strings.ToLower(f.Name)
	}
	return name
}

func applyRule(rule, field string, v reflect.Value, parent reflect.Value) string {
	raw := strings.TrimSpace(fmt.Sprintf("%v", v.Interface()))
	key, param, _ := strings.Cut(strings.TrimSpace(rule), "=")
	label := strings.ReplaceAll(field, "_", " ")

	switch key {
	case "required":
		if isEmpty(v) {
			return "This field is required."
		}

	case "email":
		if !emailRE.MatchString(raw) {
			return "Enter a valid email address."
		}
	case "username":
		if !usernameRE.MatchString(raw) {
			return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
		}
	case "decimal":
		if _, err := decimal.NewFromString(raw); err != nil {
			return "Enter a number."
		}
	case "date":
		if _, err := time.Parse(DateLayout, raw); err != nil {
			return "Enter a valid date (YYYY-MM-DD)."
		}

	case "min":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) < n {
				return fmt.Sprintf("Ensure the %s is greater than or equal to %s.", label, param)
			}
		} else if float64(len([]rune(raw))) < n {
			return fmt.Sprintf("Ensure the %s has at least %s characters.", label, param)
		}
	case "max":
		n := mustParseFloat(param)
		if isNumericKind(v) {
			if toFloat(v) > n {
				return fmt.Sprintf("Ensure the %s is less than or equal to %s.", label, param)
			}
		} else if float64(len([]rune(raw))) > n {
			return fmt.Sprintf("Ensure the %s has at most %s characters.", label, param)
		}
	case "gte":
		n := mustParseFloat(param)
		if toFloat(v) < n {
			return fmt.Sprintf("Ensure the %s is greater than or equal to %s.", label, param)
		}

	case "in":
		for _, a := range strings.Split(param, "|") {
			if raw == a {
				return ""
			}
		}
		return fmt.Sprintf("Select a valid choice. %s is not one of the available choices.", raw)

	case "same":
		other, ok := siblingByFormName(parent, param)
		if !ok || fmt.Sprintf("%v", other.Interface()) != fmt.Sprintf("%v", v.Interface()) {
			return "The two password fields didn't match."
		}
	}

	return ""
}

var (
	emailRE    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	usernameRE = regexp.MustCompile(`^[\w.@+\-]+$`)
)

func isEmpty(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.String:
		return strings.TrimSpace(v.String()) == ""
	case reflect.Slice, reflect.Map, reflect.Array:
		return v.Len() == 0
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Bool:
		return false
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	}
	return false
}

func isNumericKind(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

func toFloat(v reflect.Value) float64 {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	}
	f, _ := strconv.ParseFloat(strings.TrimSpace(fmt.Sprintf("%v", v.Interface())), 64)
	return f
}

func mustParseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

func hasRule(rules []string, target string) bool {
	for _, r := range rules {
		if strings.TrimSpace(r) == target {
			return true
		}
	}
	return false
}

func siblingByFormName(parent reflect.Value, name string) (reflect.Value, bool) {
	rt := parent.Type()
	for i := 0; i < rt.NumField(); i++ {
		if FieldName(rt.Field(i)) == name {
			return parent.Field(i), true
		}
	}
	return reflect.Value{}, false
}
