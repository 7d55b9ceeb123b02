// Package bind decodes and validates submitted HTML forms into structs.
package bind

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/backoffice/config"
	"github.com/shashiranjanraj/backoffice/pkg/validate"
)

// ErrTooLarge is returned when the body exceeds MAX_BODY_BYTES.
var ErrTooLarge = errors.New("bind: request body too large")

// Parse reads a urlencoded or multipart body, capped at MAX_BODY_BYTES.
func Parse(r *http.Request) error {
	if r.Form != nil {
		return nil
	}
	if r.Body != nil {
		r.Body = http.MaxBytesReader(nil, r.Body, config.MaxBodyBytes())
	}

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(1 << 20)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return ErrTooLarge
		}
		return fmt.Errorf("bind: parse form: %w", err)
	}
	return nil
}

// Form decodes the request form into dest and runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body cannot be parsed.
func Form(r *http.Request, dest interface{}) (map[string]string, error) {
	if err := Parse(r); err != nil {
		return nil, err
	}

	errs := Values(r.PostForm, "", dest)
	for field, msg := range validate.Struct(dest) {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}
	if validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}

// Values copies vals[prefix+name] into each field of dest tagged `form:"name"`.
// Supported kinds: string, bool, signed/unsigned ints, pointers to those and
// slices of those (multi-selects).
// Conversion failures are reported per field; validation is not run.
func Values(vals url.Values, prefix string, dest interface{}) map[string]string {
	errs := make(map[string]string)
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Ptr || rv.Elem().Kind() != reflect.Struct {
		return errs
	}
	rv = rv.Elem()
	rt := rv.Type()

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() || f.Tag.Get("form") == "" || f.Tag.Get("form") == "-" {
			continue
		}
		name := validate.FieldName(f)
		raw, present := vals[prefix+name]
		if !present {
			continue
		}
		if field := rv.Field(i); field.Kind() == reflect.Slice {
			if msg := setSlice(field, raw); msg != "" {
				errs[name] = msg
			}
			continue
		}
		value := ""
		if len(raw) > 0 {
			value = strings.TrimSpace(raw[0])
		}
		if msg := set(rv.Field(i), value); msg != "" {
			errs[name] = msg
		}
	}
	return errs
}

func set(field reflect.Value, value string) string {
	if field.Kind() == reflect.Ptr {
		if value == "" {
			field.Set(reflect.Zero(field.Type()))
			return ""
		}
		ptr := reflect.New(field.Type().Elem())
		if msg := set(ptr.Elem(), value); msg != "" {
			return msg
		}
		field.Set(ptr)
		return ""
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		field.SetBool(value == "on" || value == "true" || value == "1")
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if value == "" {
			field.SetInt(0)
			return ""
		}
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return "Enter a whole number."
		}
		field.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if value == "" {
			field.SetUint(0)
			return ""
		}
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return "Select a valid choice. That choice is not one of the available choices."
		}
		field.SetUint(n)
	}
	return ""
}

func setSlice(field reflect.Value, raw []string) string {
	out := reflect.MakeSlice(field.Type(), 0, len(raw))
	for _, v := range raw {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		elem := reflect.New(field.Type().Elem()).Elem()
		if msg := set(elem, v); msg != "" {
			return msg
		}
		out = reflect.Append(out, elem)
	}
	field.Set(out)
	return ""
}

// File returns the uploaded file for name, or nil when none was sent.
func File(r *http.Request, name string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[name]
	if len(files) == 0 || files[0].Size == 0 {
		return nil
	}
	return files[0]
}
